package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/domain"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/models"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/repository"
)

type ProfileService struct {
	tutorProfileRepo   *repository.TutorProfileRepository
	studentProfileRepo *repository.StudentProfileRepository
	storage            StorageService
}

func NewProfileService(
	tutorProfileRepo *repository.TutorProfileRepository,
	studentProfileRepo *repository.StudentProfileRepository,
	storage StorageService,
) *ProfileService {
	return &ProfileService{
		tutorProfileRepo:   tutorProfileRepo,
		studentProfileRepo: studentProfileRepo,
		storage:            storage,
	}
}

func (s *ProfileService) GetTutorProfile(ctx context.Context, userID int64) (*models.TutorProfile, error) {
	profile, err := s.tutorProfileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) GetStudentProfile(ctx context.Context, userID int64) (*models.StudentProfile, error) {
	profile, err := s.studentProfileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return profile, nil
}

// CompleteTutorOnboarding fills the tutor's profile and marks onboarding
// done. The stored grade list is always the union of the grades across the
// submitted subjects.
func (s *ProfileService) CompleteTutorOnboarding(
	ctx context.Context,
	userID int64,
	input repository.TutorOnboardingInput,
) (*models.TutorProfile, error) {
	input.Grades = models.GradeUnion(input.Subjects)

	profile, err := s.tutorProfileRepo.UpdateOnboarding(ctx, userID, input)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) CompleteStudentOnboarding(
	ctx context.Context,
	userID int64,
	input repository.StudentOnboardingInput,
) (*models.StudentProfile, error) {
	profile, err := s.studentProfileRepo.UpdateOnboarding(ctx, userID, input)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return profile, nil
}

// UpdateTutorProfile applies a merge-patch. When the patch replaces the
// subject list the grade union is recomputed from the new subjects so the
// two fields cannot drift apart.
func (s *ProfileService) UpdateTutorProfile(
	ctx context.Context,
	userID int64,
	input repository.UpdateTutorProfileInput,
) (*models.TutorProfile, error) {
	if input.Subjects != nil {
		input.Grades = models.GradeUnion(input.Subjects)
	}

	profile, err := s.tutorProfileRepo.UpdatePartial(ctx, userID, input)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) UpdateStudentProfile(
	ctx context.Context,
	userID int64,
	input repository.UpdateStudentProfileInput,
) (*models.StudentProfile, error) {
	profile, err := s.studentProfileRepo.UpdatePartial(ctx, userID, input)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return profile, nil
}

// UploadAvatar stores the image and records its public URL on the actor's
// profile for their role.
func (s *ProfileService) UploadAvatar(
	ctx context.Context,
	userID int64,
	role string,
	file io.Reader,
	originalName string,
) (string, error) {
	if s.storage == nil {
		return "", ErrStorageUnavailable
	}
	if role != domain.RoleTutor && role != domain.RoleStudent {
		return "", ErrForbidden
	}

	avatarURL, err := s.storage.UploadFile(ctx, file, buildObjectName(userID, originalName), "avatars")
	if err != nil {
		return "", fmt.Errorf("upload avatar: %w", err)
	}

	if role == domain.RoleTutor {
		err = s.tutorProfileRepo.UpdateAvatar(ctx, userID, avatarURL)
	} else {
		err = s.studentProfileRepo.UpdateAvatar(ctx, userID, avatarURL)
	}
	if err != nil {
		return "", err
	}

	return avatarURL, nil
}

// buildObjectName prefixes a random name with the owner's ID so repeated
// uploads never collide and files remain traceable to their owner.
func buildObjectName(userID int64, original string) string {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(original)))
	if ext == "" {
		ext = ".bin"
	}
	return fmt.Sprintf("%d-%s%s", userID, uuid.NewString(), ext)
}
