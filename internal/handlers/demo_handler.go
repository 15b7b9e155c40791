package handlers

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/domain"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/memstore"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/models"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/reports"
)

// DemoHandler exposes the seeded in-memory store so the product demo can
// run without Postgres or accounts. State lives for the process lifetime;
// restarting the server resets the demo.
type DemoHandler struct {
	store *memstore.Store
}

func NewDemoHandler(store *memstore.Store) *DemoHandler {
	return &DemoHandler{store: store}
}

func (h *DemoHandler) GetState(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"state": h.store.Snapshot()})
}

type demoActionRequest struct {
	Type string `json:"type"`

	Role string `json:"role,omitempty"`

	StudentID   int64   `json:"student_id,omitempty"`
	TutorID     int64   `json:"tutor_id,omitempty"`
	Subject     string  `json:"subject,omitempty"`
	ScheduledAt string  `json:"scheduled_at,omitempty"`
	Notes       *string `json:"notes,omitempty"`

	SessionID int64  `json:"session_id,omitempty"`
	Outcome   string `json:"outcome,omitempty"`

	PaymentID int64 `json:"payment_id,omitempty"`

	Bio          *string          `json:"bio,omitempty"`
	CalendlyLink *string          `json:"calendly_link,omitempty"`
	Subjects     []models.Subject `json:"subjects,omitempty"`
}

func (h *DemoHandler) DispatchAction(c *fiber.Ctx) error {
	var req demoActionRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	action, errMsg := buildDemoAction(req)
	if errMsg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": errMsg})
	}

	next, err := h.store.Dispatch(action)
	if err != nil {
		return mapDemoError(c, err)
	}

	return c.JSON(fiber.Map{"state": next})
}

func buildDemoAction(req demoActionRequest) (memstore.Action, string) {
	switch strings.TrimSpace(req.Type) {
	case "set_role":
		return memstore.SetRole{Role: req.Role}, ""
	case "login":
		return memstore.Login{}, ""
	case "logout":
		return memstore.Logout{}, ""
	case "book_session":
		scheduledAt, err := time.Parse(time.RFC3339, strings.TrimSpace(req.ScheduledAt))
		if err != nil {
			return nil, "scheduled_at must be a valid RFC3339 timestamp"
		}
		studentID := req.StudentID
		if studentID == 0 {
			studentID = memstore.DemoStudentID
		}
		return memstore.BookSession{
			StudentID:   studentID,
			TutorID:     req.TutorID,
			Subject:     strings.TrimSpace(req.Subject),
			ScheduledAt: scheduledAt,
			Notes:       req.Notes,
		}, ""
	case "cancel_session":
		return memstore.CancelSession{SessionID: req.SessionID}, ""
	case "log_session":
		outcome, err := domain.ParseStatus(req.Outcome)
		if err != nil {
			return nil, "outcome must be completed or no_show"
		}
		return memstore.LogSession{SessionID: req.SessionID, Outcome: outcome}, ""
	case "update_tutor_profile":
		tutorID := req.TutorID
		if tutorID == 0 {
			tutorID = memstore.DemoTutorID
		}
		return memstore.UpdateTutorProfile{
			TutorID:      tutorID,
			Bio:          req.Bio,
			CalendlyLink: req.CalendlyLink,
			Subjects:     req.Subjects,
		}, ""
	case "mark_student_paid":
		return memstore.MarkStudentPaid{PaymentID: req.PaymentID}, ""
	case "mark_tutor_paid":
		return memstore.MarkTutorPaid{PaymentID: req.PaymentID}, ""
	default:
		return nil, "unknown action type"
	}
}

// GetMetrics folds the current snapshot through the same report functions
// the admin dashboard uses.
func (h *DemoHandler) GetMetrics(c *fiber.Ctx) error {
	snapshot := h.store.Snapshot()
	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	weeks := 8
	chartStart := now.AddDate(0, 0, -7*(weeks-1))

	return c.JSON(fiber.Map{
		"metrics": fiber.Map{
			"revenue_this_month":   reports.Revenue(snapshot.Sessions, snapshot.Payments, monthStart, monthEnd),
			"outstanding_payments": reports.OutstandingStudentPayments(snapshot.Sessions, snapshot.Payments),
			"pending_payouts":      reports.PendingTutorPayouts(snapshot.Payments),
			"active_tutor_ids":     reports.ActiveTutorIDs(snapshot.Sessions, now, 30),
			"needs_attention":      reports.NeedsAttention(snapshot.Sessions, snapshot.Payments, now),
			"weekly_sessions":      reports.WeeklySessionCounts(snapshot.Sessions, chartStart, weeks),
			"monthly_revenue":      reports.MonthlyRevenue(snapshot.Sessions),
		},
	})
}

func mapDemoError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidStatus):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidTransition):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to apply demo action"})
	}
}
