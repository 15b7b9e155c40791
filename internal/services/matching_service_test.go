package services

import (
	"context"
	"testing"

	"github.com/zhw16-dev/tutoring-platform-sub000/internal/models"
)

type stubTutorLister struct {
	tutors []models.TutorProfile
}

func (s *stubTutorLister) ListApproved(_ context.Context) ([]models.TutorProfile, error) {
	return s.tutors, nil
}

func buildTutorProfile(userID int64, subjects []models.Subject, rating float64, totalSessions int) models.TutorProfile {
	return models.TutorProfile{
		UserID:             userID,
		Subjects:           subjects,
		Grades:             models.GradeUnion(subjects),
		Rating:             &rating,
		TotalSessions:      totalSessions,
		Approved:           true,
		OnboardingComplete: true,
	}
}

func TestListTutorsFiltersBySubjectAndGrade(t *testing.T) {
	service := NewMatchingService(&stubTutorLister{
		tutors: []models.TutorProfile{
			buildTutorProfile(11, []models.Subject{{Name: "Mathematics", Grades: []int32{8, 9, 10}}}, 4.8, 42),
			buildTutorProfile(12, []models.Subject{{Name: "English", Grades: []int32{6, 7}}}, 4.5, 17),
			buildTutorProfile(13, []models.Subject{{Name: "Mathematics", Grades: []int32{5, 6}}}, 4.2, 9),
		},
	})

	grade := int32(9)
	tutors, err := service.ListTutors(context.Background(), "mathematics", &grade)
	if err != nil {
		t.Fatalf("ListTutors: %v", err)
	}

	if got := len(tutors); got != 1 {
		t.Fatalf("expected 1 tutor, got %d", got)
	}
	if tutors[0].UserID != 11 {
		t.Fatalf("expected tutor 11, got %d", tutors[0].UserID)
	}
}

func TestListTutorsNormalizesSubjectNames(t *testing.T) {
	service := NewMatchingService(&stubTutorLister{
		tutors: []models.TutorProfile{
			buildTutorProfile(11, []models.Subject{{Name: "Computer Science", Grades: []int32{10, 11}}}, 4.8, 20),
		},
	})

	tutors, err := service.ListTutors(context.Background(), "  computer-science ", nil)
	if err != nil {
		t.Fatalf("ListTutors: %v", err)
	}
	if got := len(tutors); got != 1 {
		t.Fatalf("expected subject filter to match after normalization, got %d tutors", got)
	}
}

func TestGetRecommendedTutorsSortsByScoreThenRating(t *testing.T) {
	service := NewMatchingService(&stubTutorLister{
		tutors: []models.TutorProfile{
			// grade match 40 + adjacent 10 + rating 20 + sessions 15 = 85
			buildTutorProfile(11, []models.Subject{{Name: "Mathematics", Grades: []int32{8, 9, 10}}}, 4.8, 42),
			// rating 20 + multi-subject 10 = 30
			buildTutorProfile(12, []models.Subject{
				{Name: "English", Grades: []int32{6, 7}},
				{Name: "History", Grades: []int32{6}},
			}, 4.9, 5),
			// adjacent 10 + sessions 15 = 25
			buildTutorProfile(13, []models.Subject{{Name: "Mathematics", Grades: []int32{10}}}, 3.5, 20),
		},
	})

	grade := int32(9)
	matched, err := service.GetRecommendedTutors(context.Background(), &models.StudentProfile{Grade: &grade}, 3)
	if err != nil {
		t.Fatalf("GetRecommendedTutors: %v", err)
	}

	if got := len(matched); got != 3 {
		t.Fatalf("expected 3 tutors, got %d", got)
	}
	if matched[0].UserID != 11 || matched[0].MatchScore != 85 {
		t.Fatalf("expected tutor 11 with score 85 first, got tutor %d with score %d", matched[0].UserID, matched[0].MatchScore)
	}
	if matched[1].UserID != 12 || matched[1].MatchScore != 30 {
		t.Fatalf("expected tutor 12 with score 30 second, got tutor %d with score %d", matched[1].UserID, matched[1].MatchScore)
	}
	if matched[2].UserID != 13 || matched[2].MatchScore != 25 {
		t.Fatalf("expected tutor 13 with score 25 third, got tutor %d with score %d", matched[2].UserID, matched[2].MatchScore)
	}
}

func TestGetRecommendedTutorsBreaksTiesByRating(t *testing.T) {
	service := NewMatchingService(&stubTutorLister{
		tutors: []models.TutorProfile{
			buildTutorProfile(1, []models.Subject{{Name: "Mathematics", Grades: []int32{9}}}, 4.2, 5),
			buildTutorProfile(2, []models.Subject{{Name: "Physics", Grades: []int32{9}}}, 4.7, 5),
		},
	})

	grade := int32(9)
	matched, err := service.GetRecommendedTutors(context.Background(), &models.StudentProfile{Grade: &grade}, 2)
	if err != nil {
		t.Fatalf("GetRecommendedTutors: %v", err)
	}

	if matched[0].MatchScore != matched[1].MatchScore {
		t.Fatalf("expected equal scores, got %d and %d", matched[0].MatchScore, matched[1].MatchScore)
	}
	if matched[0].UserID != 2 {
		t.Fatalf("expected higher-rated tutor 2 first, got %d", matched[0].UserID)
	}
}

func TestGetRecommendedTutorsAppliesLimit(t *testing.T) {
	service := NewMatchingService(&stubTutorLister{
		tutors: []models.TutorProfile{
			buildTutorProfile(1, []models.Subject{{Name: "Mathematics", Grades: []int32{9}}}, 4.5, 5),
			buildTutorProfile(2, []models.Subject{{Name: "English", Grades: []int32{6}}}, 4.9, 7),
		},
	})

	grade := int32(9)
	matched, err := service.GetRecommendedTutors(context.Background(), &models.StudentProfile{Grade: &grade}, 1)
	if err != nil {
		t.Fatalf("GetRecommendedTutors: %v", err)
	}
	if got := len(matched); got != 1 {
		t.Fatalf("expected 1 tutor, got %d", got)
	}
	if matched[0].UserID != 1 {
		t.Fatalf("expected top tutor to be 1, got %d", matched[0].UserID)
	}
}
