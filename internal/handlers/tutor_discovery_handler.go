package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/domain"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/models"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/repository"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/services"
)

type tutorDiscoveryService interface {
	ListTutors(ctx context.Context, subject string, grade *int32) ([]models.TutorProfile, error)
	GetRecommendedTutors(ctx context.Context, student *models.StudentProfile, limit int) ([]models.TutorWithScore, error)
}

type studentDiscoveryRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*models.StudentProfile, error)
}

type tutorDetailRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*models.TutorProfile, error)
}

type TutorDiscoveryHandler struct {
	matchingService    tutorDiscoveryService
	studentProfileRepo studentDiscoveryRepository
	tutorProfileRepo   tutorDetailRepository
}

func NewTutorDiscoveryHandler(
	matchingService tutorDiscoveryService,
	studentProfileRepo studentDiscoveryRepository,
	tutorProfileRepo tutorDetailRepository,
) *TutorDiscoveryHandler {
	return &TutorDiscoveryHandler{
		matchingService:    matchingService,
		studentProfileRepo: studentProfileRepo,
		tutorProfileRepo:   tutorProfileRepo,
	}
}

func (h *TutorDiscoveryHandler) ListTutors(c *fiber.Ctx) error {
	var grade *int32
	if raw := strings.TrimSpace(c.Query("grade")); raw != "" {
		value, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || value < minGradeLevel || value > maxGradeLevel {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "grade must be between 1 and 12"})
		}
		parsed := int32(value)
		grade = &parsed
	}

	tutors, err := h.matchingService.ListTutors(c.Context(), c.Query("subject"), grade)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch tutors"})
	}

	page := parsePositiveInt(c.Query("page"), 1)
	limit := parsePositiveInt(c.Query("limit"), defaultPageLimit)
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	total := len(tutors)
	tutors = paginateTutors(tutors, page, limit)

	return c.JSON(fiber.Map{
		"tutors":     tutors,
		"pagination": buildPaginationMeta(page, limit, total),
	})
}

func (h *TutorDiscoveryHandler) GetRecommendedTutors(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != domain.RoleStudent {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	limit := parsePositiveInt(c.Query("limit"), defaultPageLimit)
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	student, err := h.studentProfileRepo.GetByUserID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch student profile"})
	}

	tutors, err := h.matchingService.GetRecommendedTutors(c.Context(), student, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch recommended tutors"})
	}

	return c.JSON(fiber.Map{"tutors": tutors})
}

func (h *TutorDiscoveryHandler) GetTutorDetail(c *fiber.Ctx) error {
	tutorID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || tutorID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid tutor id"})
	}

	tutor, err := h.tutorProfileRepo.GetByUserID(c.Context(), tutorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tutor not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch tutor"})
	}
	// Unapproved and half-onboarded tutors are invisible to the public view.
	if !tutor.Approved || !tutor.OnboardingComplete {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tutor not found"})
	}

	return c.JSON(fiber.Map{"tutor": tutor})
}

func paginateTutors(tutors []models.TutorProfile, page, limit int) []models.TutorProfile {
	start := (page - 1) * limit
	if start >= len(tutors) {
		return []models.TutorProfile{}
	}
	end := start + limit
	if end > len(tutors) {
		end = len(tutors)
	}
	return tutors[start:end]
}

func parsePositiveInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

var _ services.TutorLister = (*repository.TutorProfileRepository)(nil)
