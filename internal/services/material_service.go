package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/domain"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/models"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/repository"
)

type materialStore interface {
	Create(ctx context.Context, input repository.CreateMaterialInput) (*models.Material, error)
	GetByID(ctx context.Context, materialID int64) (*models.Material, error)
	ListByTutorID(ctx context.Context, tutorID int64) ([]models.Material, error)
	ListByStudentID(ctx context.Context, studentID int64) ([]models.Material, error)
}

// MaterialService lets tutors share study material files with their
// students. Files live in object storage; the database row carries the
// public URL plus the student it was shared with.
type MaterialService struct {
	materialRepo   materialStore
	sessionRepo    *repository.SessionRepository
	userRepo       userReader
	storageService StorageService
}

type CreateMaterialInput struct {
	StudentID   int64
	SessionID   *int64
	Title       string
	Description *string
	File        io.Reader
	Filename    string
}

func NewMaterialService(
	materialRepo *repository.MaterialRepository,
	sessionRepo *repository.SessionRepository,
	userRepo userReader,
	storageService StorageService,
) *MaterialService {
	return &MaterialService{
		materialRepo:   materialRepo,
		sessionRepo:    sessionRepo,
		userRepo:       userRepo,
		storageService: storageService,
	}
}

func (s *MaterialService) CreateMaterial(
	ctx context.Context,
	tutorID int64,
	input CreateMaterialInput,
) (*models.Material, error) {
	if s.storageService == nil {
		return nil, ErrStorageUnavailable
	}
	if tutorID <= 0 || input.StudentID <= 0 || input.File == nil {
		return nil, ErrInvalidInput
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrInvalidInput
	}

	var description *string
	if input.Description != nil {
		trimmed := strings.TrimSpace(*input.Description)
		if trimmed == "" {
			return nil, ErrInvalidInput
		}
		description = &trimmed
	}

	student, err := s.userRepo.GetByID(ctx, input.StudentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	if student.Role != domain.RoleStudent {
		return nil, ErrInvalidInput
	}

	// A material tied to a session must belong to this tutor-student pair.
	if input.SessionID != nil {
		session, err := s.sessionRepo.GetByID(ctx, *input.SessionID)
		if err != nil {
			return nil, err
		}
		if session.TutorID != tutorID || session.StudentID != input.StudentID {
			return nil, ErrForbidden
		}
	}

	fileURL, err := s.storageService.UploadFile(
		ctx,
		input.File,
		buildObjectName(tutorID, input.Filename),
		"materials",
	)
	if err != nil {
		return nil, err
	}

	material, err := s.materialRepo.Create(ctx, repository.CreateMaterialInput{
		TutorID:     tutorID,
		StudentID:   input.StudentID,
		SessionID:   input.SessionID,
		Title:       title,
		Description: description,
		FileURL:     fileURL,
	})
	if err != nil {
		cleanupErr := s.storageService.DeleteFile(ctx, fileURL)
		if cleanupErr != nil {
			return nil, errors.Join(err, fmt.Errorf("cleanup failed: %w", cleanupErr))
		}
		return nil, err
	}

	return material, nil
}

func (s *MaterialService) ListMaterials(
	ctx context.Context,
	actorID int64,
	role string,
) ([]models.Material, error) {
	switch role {
	case domain.RoleTutor:
		return s.materialRepo.ListByTutorID(ctx, actorID)
	case domain.RoleStudent:
		return s.materialRepo.ListByStudentID(ctx, actorID)
	default:
		return nil, ErrForbidden
	}
}

func (s *MaterialService) GetMaterial(
	ctx context.Context,
	actorID int64,
	role string,
	materialID int64,
) (*models.Material, error) {
	material, err := s.materialRepo.GetByID(ctx, materialID)
	if err != nil {
		return nil, err
	}
	if !canAccessMaterial(role, actorID, material) {
		return nil, ErrForbidden
	}
	return material, nil
}

func (s *MaterialService) GetDownloadURL(
	ctx context.Context,
	actorID int64,
	role string,
	materialID int64,
) (string, error) {
	if s.storageService == nil {
		return "", ErrStorageUnavailable
	}

	material, err := s.GetMaterial(ctx, actorID, role, materialID)
	if err != nil {
		return "", err
	}

	return s.storageService.GetSignedURL(ctx, material.FileURL)
}

func canAccessMaterial(role string, actorID int64, material *models.Material) bool {
	if material == nil {
		return false
	}

	switch role {
	case domain.RoleTutor:
		return actorID == material.TutorID
	case domain.RoleStudent:
		return actorID == material.StudentID
	case domain.RoleAdmin:
		return true
	}
	return false
}
