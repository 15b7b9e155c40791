package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/domain"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/models"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/services"
)

type stubPaymentService struct {
	listResult    []services.PaymentWithSession
	listErr       error
	markResult    *models.Payment
	markErr       error
	lastActorID   int64
	lastRole      string
	lastPaymentID int64
	studentCalls  int
	tutorCalls    int
}

func (s *stubPaymentService) ListPayments(_ context.Context, actorID int64, role string) ([]services.PaymentWithSession, error) {
	s.lastActorID = actorID
	s.lastRole = role
	return s.listResult, s.listErr
}

func (s *stubPaymentService) MarkStudentPaid(_ context.Context, paymentID int64) (*models.Payment, error) {
	s.lastPaymentID = paymentID
	s.studentCalls++
	return s.markResult, s.markErr
}

func (s *stubPaymentService) MarkTutorPaid(_ context.Context, paymentID int64) (*models.Payment, error) {
	s.lastPaymentID = paymentID
	s.tutorCalls++
	return s.markResult, s.markErr
}

func newPaymentTestApp(service *stubPaymentService, role string, userID string) *fiber.App {
	handler := &PaymentHandler{service: service}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("role", role)
		c.Locals("user_id", userID)
		return c.Next()
	})
	app.Get("/api/v1/payments", handler.ListPayments)
	app.Post("/api/v1/payments/:id/mark-student-paid", handler.MarkStudentPaid)
	app.Post("/api/v1/payments/:id/mark-tutor-paid", handler.MarkTutorPaid)
	return app
}

func TestListPaymentsPassesActor(t *testing.T) {
	service := &stubPaymentService{
		listResult: []services.PaymentWithSession{
			{
				Payment: models.Payment{ID: 14, SessionID: 14, Amount: 50, TutorAmount: 25},
				Session: models.Session{ID: 14, StudentID: 42, TutorID: 7},
			},
		},
	}
	app := newPaymentTestApp(service, domain.RoleStudent, "42")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payments", nil)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastActorID != 42 || service.lastRole != domain.RoleStudent {
		t.Fatalf("expected actor 42/student, got %d/%s", service.lastActorID, service.lastRole)
	}
}

func TestMarkStudentPaidReturnsPayment(t *testing.T) {
	service := &stubPaymentService{
		markResult: &models.Payment{ID: 16, SessionID: 16, Amount: 50, TutorAmount: 25, StudentPaid: true},
	}
	app := newPaymentTestApp(service, domain.RoleAdmin, "1")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/16/mark-student-paid", nil)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastPaymentID != 16 {
		t.Fatalf("expected payment id 16, got %d", service.lastPaymentID)
	}
	if service.studentCalls != 1 || service.tutorCalls != 0 {
		t.Fatalf("expected one student-leg call, got student=%d tutor=%d", service.studentCalls, service.tutorCalls)
	}
}

func TestMarkTutorPaidMapsNonBillableTo422(t *testing.T) {
	service := &stubPaymentService{markErr: domain.ErrInvalidTransition}
	app := newPaymentTestApp(service, domain.RoleAdmin, "1")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/15/mark-tutor-paid", nil)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
}

func TestMarkPaidRejectsInvalidID(t *testing.T) {
	service := &stubPaymentService{}
	app := newPaymentTestApp(service, domain.RoleAdmin, "1")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/abc/mark-student-paid", nil)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if service.studentCalls != 0 {
		t.Fatalf("expected no service calls, got %d", service.studentCalls)
	}
}
