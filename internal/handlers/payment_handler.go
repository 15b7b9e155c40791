package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/domain"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/models"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/services"
)

type paymentApplicationService interface {
	ListPayments(ctx context.Context, actorID int64, role string) ([]services.PaymentWithSession, error)
	MarkStudentPaid(ctx context.Context, paymentID int64) (*models.Payment, error)
	MarkTutorPaid(ctx context.Context, paymentID int64) (*models.Payment, error)
}

type PaymentHandler struct {
	service paymentApplicationService
}

func NewPaymentHandler(service *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

func (h *PaymentHandler) ListPayments(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || !domain.ValidRole(role) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	payments, err := h.service.ListPayments(c.Context(), userID, role)
	if err != nil {
		return mapPaymentError(c, err)
	}

	return c.JSON(fiber.Map{"payments": payments})
}

// MarkStudentPaid and MarkTutorPaid are admin-only; the route group is
// gated by middleware.RequireRole so the handlers only parse and delegate.
func (h *PaymentHandler) MarkStudentPaid(c *fiber.Ctx) error {
	return h.markPaid(c, h.service.MarkStudentPaid)
}

func (h *PaymentHandler) MarkTutorPaid(c *fiber.Ctx) error {
	return h.markPaid(c, h.service.MarkTutorPaid)
}

func (h *PaymentHandler) markPaid(
	c *fiber.Ctx,
	mark func(ctx context.Context, paymentID int64) (*models.Payment, error),
) error {
	paymentID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || paymentID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payment id"})
	}

	payment, err := mark(c.Context(), paymentID)
	if err != nil {
		return mapPaymentError(c, err)
	}

	return c.JSON(fiber.Map{"payment": payment})
}

func mapPaymentError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, domain.ErrInvalidTransition):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "Payment has no billable amount"})
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payment not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process payment request"})
	}
}
