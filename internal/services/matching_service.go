package services

import (
	"context"
	"sort"
	"strings"

	"github.com/zhw16-dev/tutoring-platform-sub000/internal/models"
)

type TutorLister interface {
	ListApproved(ctx context.Context) ([]models.TutorProfile, error)
}

type MatchingService struct {
	tutorRepo TutorLister
}

func NewMatchingService(tutorRepo TutorLister) *MatchingService {
	return &MatchingService{tutorRepo: tutorRepo}
}

// ListTutors returns approved tutors, optionally filtered to those teaching
// the named subject at the given grade.
func (s *MatchingService) ListTutors(
	ctx context.Context,
	subject string,
	grade *int32,
) ([]models.TutorProfile, error) {
	tutors, err := s.tutorRepo.ListApproved(ctx)
	if err != nil {
		return nil, err
	}

	subjectKey := normalize(subject)
	filtered := make([]models.TutorProfile, 0, len(tutors))
	for _, tutor := range tutors {
		if subjectKey != "" && !teachesNormalized(&tutor, subjectKey) {
			continue
		}
		if grade != nil && !hasGrade(tutor.Grades, *grade) {
			continue
		}
		filtered = append(filtered, tutor)
	}

	return filtered, nil
}

// GetRecommendedTutors ranks approved tutors for a student and returns the
// top matches.
func (s *MatchingService) GetRecommendedTutors(
	ctx context.Context,
	student *models.StudentProfile,
	limit int,
) ([]models.TutorWithScore, error) {
	tutors, err := s.tutorRepo.ListApproved(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]models.TutorWithScore, 0, len(tutors))
	for _, tutor := range tutors {
		matched = append(matched, models.TutorWithScore{
			TutorProfile: tutor,
			MatchScore:   calculateMatchScore(student, &tutor),
		})
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].MatchScore == matched[j].MatchScore {
			return floatValue(matched[i].Rating) > floatValue(matched[j].Rating)
		}
		return matched[i].MatchScore > matched[j].MatchScore
	})

	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}

	return matched, nil
}

func calculateMatchScore(student *models.StudentProfile, tutor *models.TutorProfile) int {
	score := 0

	if student != nil && student.Grade != nil {
		if hasGrade(tutor.Grades, *student.Grade) {
			score += 40
		}
		// Adjacent grades still make a workable match.
		if hasGrade(tutor.Grades, *student.Grade-1) || hasGrade(tutor.Grades, *student.Grade+1) {
			score += 10
		}
	}

	if floatValue(tutor.Rating) > 4.0 {
		score += 20
	}
	if tutor.TotalSessions > 10 {
		score += 15
	}
	if len(tutor.Subjects) > 1 {
		score += 10
	}

	return score
}

func teachesNormalized(tutor *models.TutorProfile, subjectKey string) bool {
	for _, subject := range tutor.Subjects {
		if normalize(subject.Name) == subjectKey {
			return true
		}
	}
	return false
}

func hasGrade(grades []int32, grade int32) bool {
	for _, g := range grades {
		if g == grade {
			return true
		}
	}
	return false
}

func normalize(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	value = strings.ReplaceAll(value, " ", "_")
	value = strings.ReplaceAll(value, "-", "_")
	return value
}

func floatValue(value *float64) float64 {
	if value == nil {
		return 0
	}
	return *value
}
