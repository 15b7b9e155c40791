package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/domain"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/models"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/repository"
)

type onboardingService interface {
	CompleteStudentOnboarding(ctx context.Context, userID int64, input repository.StudentOnboardingInput) (*models.StudentProfile, error)
	CompleteTutorOnboarding(ctx context.Context, userID int64, input repository.TutorOnboardingInput) (*models.TutorProfile, error)
}

type OnboardingHandler struct {
	service onboardingService
}

func NewOnboardingHandler(service onboardingService) *OnboardingHandler {
	return &OnboardingHandler{service: service}
}

type studentOnboardingRequest struct {
	FullName    string `json:"full_name"`
	Grade       int32  `json:"grade"`
	ParentName  string `json:"parent_name"`
	ParentEmail string `json:"parent_email"`
	ParentPhone string `json:"parent_phone"`
}

type tutorOnboardingRequest struct {
	FullName     string           `json:"full_name"`
	Bio          string           `json:"bio"`
	CalendlyLink string           `json:"calendly_link"`
	Subjects     []models.Subject `json:"subjects"`
}

func (h *OnboardingHandler) StudentOnboarding(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != domain.RoleStudent {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req studentOnboardingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if validationErr := validateStudentOnboardingRequest(req); validationErr != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr})
	}

	profile, err := h.service.CompleteStudentOnboarding(c.Context(), userID, repository.StudentOnboardingInput{
		FullName:    req.FullName,
		Grade:       req.Grade,
		ParentName:  req.ParentName,
		ParentEmail: req.ParentEmail,
		ParentPhone: req.ParentPhone,
	})
	if err != nil {
		return mapProfileError(c, err)
	}

	return c.JSON(fiber.Map{
		"profile":             profile,
		"onboarding_complete": profile.OnboardingComplete,
	})
}

func (h *OnboardingHandler) TutorOnboarding(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != domain.RoleTutor {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req tutorOnboardingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if validationErr := validateTutorOnboardingRequest(req); validationErr != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr})
	}

	profile, err := h.service.CompleteTutorOnboarding(c.Context(), userID, repository.TutorOnboardingInput{
		FullName:     req.FullName,
		Bio:          req.Bio,
		CalendlyLink: req.CalendlyLink,
		Subjects:     req.Subjects,
	})
	if err != nil {
		return mapProfileError(c, err)
	}

	return c.JSON(fiber.Map{
		"profile":             profile,
		"onboarding_complete": profile.OnboardingComplete,
	})
}
