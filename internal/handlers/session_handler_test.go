package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/domain"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/models"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/repository"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/services"
)

type stubSessionService struct {
	bookResult    *models.SessionDetail
	bookErr       error
	listResult    []models.SessionDetail
	listErr       error
	getResult     *models.SessionDetail
	getErr        error
	cancelResult  *models.SessionDetail
	cancelErr     error
	logResult     *models.SessionDetail
	logErr        error
	lastBookInput services.BookSessionInput
	lastActorID   int64
	lastRole      string
	lastSessionID int64
	lastOutcome   string
}

func (s *stubSessionService) BookSession(_ context.Context, studentID int64, input services.BookSessionInput) (*models.SessionDetail, error) {
	s.lastActorID = studentID
	s.lastBookInput = input
	return s.bookResult, s.bookErr
}

func (s *stubSessionService) ListSessions(_ context.Context, actorID int64, role string, _ repository.SessionListFilter) ([]models.SessionDetail, error) {
	s.lastActorID = actorID
	s.lastRole = role
	return s.listResult, s.listErr
}

func (s *stubSessionService) GetSession(_ context.Context, actorID int64, role string, sessionID int64) (*models.SessionDetail, error) {
	s.lastActorID = actorID
	s.lastRole = role
	s.lastSessionID = sessionID
	return s.getResult, s.getErr
}

func (s *stubSessionService) CancelSession(_ context.Context, actorID int64, role string, sessionID int64) (*models.SessionDetail, error) {
	s.lastActorID = actorID
	s.lastRole = role
	s.lastSessionID = sessionID
	return s.cancelResult, s.cancelErr
}

func (s *stubSessionService) LogSession(_ context.Context, actorID int64, role string, sessionID int64, requestedOutcome string) (*models.SessionDetail, error) {
	s.lastActorID = actorID
	s.lastRole = role
	s.lastSessionID = sessionID
	s.lastOutcome = requestedOutcome
	return s.logResult, s.logErr
}

func newSessionTestApp(service *stubSessionService, role string, userID string) *fiber.App {
	handler := &SessionHandler{service: service}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("role", role)
		c.Locals("user_id", userID)
		return c.Next()
	})
	app.Post("/api/v1/sessions/book", handler.BookSession)
	app.Get("/api/v1/sessions/:id", handler.GetSession)
	app.Post("/api/v1/sessions/:id/cancel", handler.CancelSession)
	app.Post("/api/v1/sessions/:id/log", handler.LogSession)
	return app
}

func TestBookSessionAppliesDefaultDuration(t *testing.T) {
	service := &stubSessionService{
		bookResult: &models.SessionDetail{
			Session: models.Session{
				ID:        91,
				StudentID: 42,
				TutorID:   7,
				Status:    domain.StatusScheduled,
			},
		},
	}
	app := newSessionTestApp(service, domain.RoleStudent, "42")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/book", strings.NewReader(`{
		"tutor_id": 7,
		"subject": "Mathematics",
		"scheduled_at": "2026-03-15T09:00:00Z"
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastActorID != 42 {
		t.Fatalf("expected actor id 42, got %d", service.lastActorID)
	}
	if service.lastBookInput.TutorID != 7 {
		t.Fatalf("expected tutor id 7, got %d", service.lastBookInput.TutorID)
	}
	if service.lastBookInput.DurationMinutes != 60 {
		t.Fatalf("expected default duration 60, got %d", service.lastBookInput.DurationMinutes)
	}
}

func TestBookSessionRejectsNonStudent(t *testing.T) {
	service := &stubSessionService{}
	app := newSessionTestApp(service, domain.RoleTutor, "7")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/book", strings.NewReader(`{
		"tutor_id": 7,
		"subject": "Mathematics",
		"scheduled_at": "2026-03-15T09:00:00Z"
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestBookSessionMapsConflictTo409(t *testing.T) {
	service := &stubSessionService{bookErr: services.ErrConflict}
	app := newSessionTestApp(service, domain.RoleStudent, "42")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/book", strings.NewReader(`{
		"tutor_id": 7,
		"subject": "Mathematics",
		"scheduled_at": "2026-03-15T09:00:00Z"
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestGetSessionMapsNotFound(t *testing.T) {
	service := &stubSessionService{getErr: domain.ErrNotFound}
	app := newSessionTestApp(service, domain.RoleStudent, "42")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/999", nil)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if service.lastSessionID != 999 {
		t.Fatalf("expected session id 999, got %d", service.lastSessionID)
	}
}

func TestCancelSessionMapsInvalidTransition(t *testing.T) {
	service := &stubSessionService{cancelErr: domain.ErrInvalidTransition}
	app := newSessionTestApp(service, domain.RoleStudent, "42")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/16/cancel", nil)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
}

func TestLogSessionPassesOutcomeThrough(t *testing.T) {
	service := &stubSessionService{
		logResult: &models.SessionDetail{
			Session: models.Session{ID: 16, Status: domain.StatusNoShow},
			Payment: &models.Payment{SessionID: 16, Amount: 0, TutorAmount: 0},
		},
	}
	app := newSessionTestApp(service, domain.RoleTutor, "7")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/16/log", strings.NewReader(`{"outcome": "no_show"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastOutcome != "no_show" {
		t.Fatalf("expected outcome no_show, got %q", service.lastOutcome)
	}
	if service.lastSessionID != 16 {
		t.Fatalf("expected session id 16, got %d", service.lastSessionID)
	}
}

func TestLogSessionRejectsStudent(t *testing.T) {
	service := &stubSessionService{}
	app := newSessionTestApp(service, domain.RoleStudent, "42")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/16/log", strings.NewReader(`{"outcome": "completed"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}
