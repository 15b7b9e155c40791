package models

import (
	"sort"
	"time"
)

// Subject is one subject a tutor teaches together with the grade levels
// they cover for it.
type Subject struct {
	Name   string  `json:"name"`
	Grades []int32 `json:"grades"`
}

type TutorProfile struct {
	ID                 int64     `json:"id"`
	UserID             int64     `json:"user_id"`
	FullName           *string   `json:"full_name"`
	AvatarURL          *string   `json:"avatar_url"`
	Bio                *string   `json:"bio"`
	CalendlyLink       *string   `json:"calendly_link"`
	Subjects           []Subject `json:"subjects"`
	Grades             []int32   `json:"grades"`
	Rating             *float64  `json:"rating"`
	TotalSessions      int       `json:"total_sessions"`
	Approved           bool      `json:"approved"`
	OnboardingComplete bool      `json:"onboarding_complete"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type TutorWithScore struct {
	TutorProfile
	MatchScore int `json:"match_score"`
}

// GradeUnion returns the sorted distinct union of grade levels across the
// given subjects. A tutor profile's Grades field must always equal this
// union of its Subjects.
func GradeUnion(subjects []Subject) []int32 {
	seen := make(map[int32]struct{})
	for _, subject := range subjects {
		for _, grade := range subject.Grades {
			seen[grade] = struct{}{}
		}
	}

	grades := make([]int32, 0, len(seen))
	for grade := range seen {
		grades = append(grades, grade)
	}
	sort.Slice(grades, func(i, j int) bool { return grades[i] < grades[j] })
	return grades
}

// TeachesSubject reports whether the tutor lists the named subject.
func (p *TutorProfile) TeachesSubject(name string) bool {
	for _, subject := range p.Subjects {
		if subject.Name == name {
			return true
		}
	}
	return false
}
