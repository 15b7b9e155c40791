package memstore

import (
	"time"

	"github.com/zhw16-dev/tutoring-platform-sub000/internal/domain"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/models"
)

// Demo identities. The demo dashboards act as this student and this tutor;
// the dispatch API still takes the actor explicitly so the same actions
// work for any id.
const (
	DemoStudentID int64 = 1
	DemoTutorID   int64 = 2
)

func strptr(s string) *string { return &s }

func fptr(f float64) *float64 { return &f }

// Seed returns the fixture snapshot the demo store boots from: two tutors,
// one student, and a spread of sessions/payments across every lifecycle
// state so each dashboard has something to show.
func Seed() Snapshot {
	joined := time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC)

	tutors := []models.TutorProfile{
		{
			ID:           1,
			UserID:       DemoTutorID,
			FullName:     strptr("Sarah Mitchell"),
			Bio:          strptr("Math and physics tutor with eight years of classroom experience."),
			CalendlyLink: strptr("https://calendly.com/sarah-mitchell/tutoring"),
			Subjects: []models.Subject{
				{Name: "Mathematics", Grades: []int32{7, 8, 9, 10}},
				{Name: "Physics", Grades: []int32{9, 10, 11}},
			},
			Grades:             []int32{7, 8, 9, 10, 11},
			Rating:             fptr(4.8),
			TotalSessions:      42,
			Approved:           true,
			OnboardingComplete: true,
			CreatedAt:          joined,
			UpdatedAt:          joined,
		},
		{
			ID:           2,
			UserID:       3,
			FullName:     strptr("James Okafor"),
			Bio:          strptr("English and literature tutor focused on essay writing."),
			CalendlyLink: strptr("https://calendly.com/james-okafor/sessions"),
			Subjects: []models.Subject{
				{Name: "English", Grades: []int32{6, 7, 8}},
			},
			Grades:             []int32{6, 7, 8},
			Rating:             fptr(4.5),
			TotalSessions:      17,
			Approved:           true,
			OnboardingComplete: true,
			CreatedAt:          joined.AddDate(0, 1, 0),
			UpdatedAt:          joined.AddDate(0, 1, 0),
		},
	}

	students := []models.StudentProfile{
		{
			ID:                 1,
			UserID:             DemoStudentID,
			FullName:           strptr("Emma Chen"),
			Grade:              int32ptr(9),
			ParentName:         strptr("Lily Chen"),
			ParentEmail:        strptr("lily.chen@example.com"),
			ParentPhone:        strptr("+1-555-0142"),
			OnboardingComplete: true,
			CreatedAt:          joined,
			UpdatedAt:          joined,
		},
	}

	at := func(y int, m time.Month, d, hour int) time.Time {
		return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
	}

	sessions := []models.Session{
		{
			ID: 14, StudentID: DemoStudentID, TutorID: DemoTutorID,
			Subject: "Mathematics", ScheduledAt: at(2025, time.January, 15, 16),
			DurationMinutes: 60, Status: domain.StatusCompleted,
			Price: domain.StandardHourlyRate,
			Notes: strptr("Quadratic equations review."),
		},
		{
			ID: 15, StudentID: DemoStudentID, TutorID: DemoTutorID,
			Subject: "Physics", ScheduledAt: at(2025, time.January, 22, 16),
			DurationMinutes: 60, Status: domain.StatusNoShow,
			Price: domain.StandardHourlyRate,
		},
		{
			ID: 16, StudentID: DemoStudentID, TutorID: DemoTutorID,
			Subject: "Mathematics", ScheduledAt: at(2025, time.January, 29, 16),
			DurationMinutes: 60, Status: domain.StatusCompleted,
			Price: domain.StandardHourlyRate,
			Notes: strptr("Trigonometry intro."),
		},
		{
			ID: 17, StudentID: DemoStudentID, TutorID: 3,
			Subject: "English", ScheduledAt: at(2025, time.February, 3, 17),
			DurationMinutes: 60, Status: domain.StatusScheduled,
			Price: domain.StandardHourlyRate,
		},
		{
			ID: 18, StudentID: DemoStudentID, TutorID: DemoTutorID,
			Subject: "Mathematics", ScheduledAt: at(2025, time.February, 12, 16),
			DurationMinutes: 60, Status: domain.StatusScheduled,
			Price: domain.StandardHourlyRate,
		},
	}

	payments := []models.Payment{
		{
			ID: 14, SessionID: 14,
			Amount: 50, TutorAmount: 25,
			StudentPaid: true, TutorPaid: true,
			CreatedAt: at(2025, time.January, 15, 18),
		},
		{
			ID: 15, SessionID: 15,
			Amount: 0, TutorAmount: 0,
			CreatedAt: at(2025, time.January, 22, 18),
		},
		{
			ID: 16, SessionID: 16,
			Amount: 50, TutorAmount: 25,
			CreatedAt: at(2025, time.January, 29, 18),
		},
	}

	return Snapshot{
		Role:          domain.RoleStudent,
		Tutors:        tutors,
		Students:      students,
		Sessions:      sessions,
		Payments:      payments,
		nextSessionID: 19,
		nextPaymentID: 17,
	}
}

func int32ptr(v int32) *int32 { return &v }
