package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/domain"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/models"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/reports"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/services"
)

type adminReportService interface {
	Dashboard(ctx context.Context) (*services.Dashboard, error)
	NeedsAttention(ctx context.Context) (*reports.AttentionItems, error)
	ApproveTutor(ctx context.Context, tutorUserID int64, approved bool) (*models.TutorProfile, error)
	ListTutors(ctx context.Context) ([]models.TutorProfile, error)
}

// AdminHandler serves the operator dashboard. All routes live behind
// RequireRole(admin).
type AdminHandler struct {
	service adminReportService
}

func NewAdminHandler(service *services.ReportService) *AdminHandler {
	return &AdminHandler{service: service}
}

func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	dashboard, err := h.service.Dashboard(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build dashboard"})
	}
	return c.JSON(fiber.Map{"dashboard": dashboard})
}

func (h *AdminHandler) NeedsAttention(c *fiber.Ctx) error {
	items, err := h.service.NeedsAttention(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build attention feed"})
	}
	return c.JSON(fiber.Map{"needs_attention": items})
}

func (h *AdminHandler) ListTutors(c *fiber.Ctx) error {
	tutors, err := h.service.ListTutors(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch tutors"})
	}
	return c.JSON(fiber.Map{"tutors": tutors})
}

type approveTutorRequest struct {
	Approved *bool `json:"approved"`
}

func (h *AdminHandler) ApproveTutor(c *fiber.Ctx) error {
	tutorID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || tutorID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid tutor id"})
	}

	// Missing body defaults to approving.
	approved := true
	var req approveTutorRequest
	if err := c.BodyParser(&req); err == nil && req.Approved != nil {
		approved = *req.Approved
	}

	profile, err := h.service.ApproveTutor(c.Context(), tutorID, approved)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tutor not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update tutor approval"})
	}

	return c.JSON(fiber.Map{"tutor": profile})
}
