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
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/reports"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/services"
)

type stubReportService struct {
	dashboardResult *services.Dashboard
	dashboardErr    error
	attentionResult *reports.AttentionItems
	attentionErr    error
	approveResult   *models.TutorProfile
	approveErr      error
	tutorsResult    []models.TutorProfile
	tutorsErr       error
	lastTutorID     int64
	lastApproved    bool
}

func (s *stubReportService) Dashboard(_ context.Context) (*services.Dashboard, error) {
	return s.dashboardResult, s.dashboardErr
}

func (s *stubReportService) NeedsAttention(_ context.Context) (*reports.AttentionItems, error) {
	return s.attentionResult, s.attentionErr
}

func (s *stubReportService) ApproveTutor(_ context.Context, tutorUserID int64, approved bool) (*models.TutorProfile, error) {
	s.lastTutorID = tutorUserID
	s.lastApproved = approved
	return s.approveResult, s.approveErr
}

func (s *stubReportService) ListTutors(_ context.Context) ([]models.TutorProfile, error) {
	return s.tutorsResult, s.tutorsErr
}

func newAdminTestApp(service *stubReportService) *fiber.App {
	handler := &AdminHandler{service: service}

	app := fiber.New()
	app.Get("/api/v1/admin/dashboard", handler.Dashboard)
	app.Get("/api/v1/admin/needs-attention", handler.NeedsAttention)
	app.Post("/api/v1/admin/tutors/:id/approve", handler.ApproveTutor)
	return app
}

func TestDashboardReturnsMetrics(t *testing.T) {
	service := &stubReportService{
		dashboardResult: &services.Dashboard{RevenueThisMonth: 100, RevenueTotal: 250},
	}
	app := newAdminTestApp(service)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/dashboard", nil)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestApproveTutorDefaultsToApproved(t *testing.T) {
	service := &stubReportService{
		approveResult: &models.TutorProfile{UserID: 7, Approved: true},
	}
	app := newAdminTestApp(service)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/tutors/7/approve", nil)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastTutorID != 7 {
		t.Fatalf("expected tutor id 7, got %d", service.lastTutorID)
	}
	if !service.lastApproved {
		t.Fatal("expected missing body to default to approved=true")
	}
}

func TestApproveTutorRevokesApproval(t *testing.T) {
	service := &stubReportService{
		approveResult: &models.TutorProfile{UserID: 7, Approved: false},
	}
	app := newAdminTestApp(service)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/tutors/7/approve", strings.NewReader(`{"approved": false}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastApproved {
		t.Fatal("expected approved=false to pass through")
	}
}

func TestApproveTutorMapsNotFound(t *testing.T) {
	service := &stubReportService{approveErr: domain.ErrNotFound}
	app := newAdminTestApp(service)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/tutors/99/approve", nil)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
