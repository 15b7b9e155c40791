package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/memstore"
)

func newDemoTestApp() *fiber.App {
	now := func() time.Time {
		return time.Date(2025, time.February, 10, 12, 0, 0, 0, time.UTC)
	}
	handler := NewDemoHandler(memstore.NewWithClock(memstore.Seed(), now))

	app := fiber.New()
	app.Get("/api/demo/state", handler.GetState)
	app.Post("/api/demo/actions", handler.DispatchAction)
	app.Get("/api/demo/metrics", handler.GetMetrics)
	return app
}

type demoStateResponse struct {
	State struct {
		Role     string `json:"role"`
		LoggedIn bool   `json:"logged_in"`
		Sessions []struct {
			ID      int64  `json:"id"`
			Subject string `json:"subject"`
			Status  string `json:"status"`
		} `json:"sessions"`
		Payments []struct {
			ID          int64   `json:"id"`
			Amount      float64 `json:"amount"`
			StudentPaid bool    `json:"student_paid"`
		} `json:"payments"`
	} `json:"state"`
}

func postDemoAction(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/demo/actions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func TestDemoBookSessionAppendsToState(t *testing.T) {
	app := newDemoTestApp()

	resp := postDemoAction(t, app, `{
		"type": "book_session",
		"tutor_id": 2,
		"subject": "Mathematics",
		"scheduled_at": "2025-02-20T16:00:00Z"
	}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var state demoStateResponse
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if got := len(state.State.Sessions); got != 6 {
		t.Fatalf("expected 6 sessions after booking, got %d", got)
	}
	last := state.State.Sessions[len(state.State.Sessions)-1]
	if last.Subject != "Mathematics" || last.Status != "scheduled" {
		t.Fatalf("unexpected booked session: %+v", last)
	}
}

func TestDemoBookSessionRejectsUntaughtSubject(t *testing.T) {
	app := newDemoTestApp()

	resp := postDemoAction(t, app, `{
		"type": "book_session",
		"tutor_id": 2,
		"subject": "Chemistry",
		"scheduled_at": "2025-02-20T16:00:00Z"
	}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestDemoLogSessionRequiresLoggableOutcome(t *testing.T) {
	app := newDemoTestApp()

	resp := postDemoAction(t, app, `{
		"type": "log_session",
		"session_id": 17,
		"outcome": "cancelled"
	}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestDemoMarkPaidRejectsNonBillablePayment(t *testing.T) {
	app := newDemoTestApp()

	// Payment 15 belongs to the seeded no-show session and carries no amount.
	resp := postDemoAction(t, app, `{
		"type": "mark_student_paid",
		"payment_id": 15
	}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
}

func TestDemoMarkPaidIsIdempotent(t *testing.T) {
	app := newDemoTestApp()

	for i := 0; i < 2; i++ {
		resp := postDemoAction(t, app, `{
			"type": "mark_student_paid",
			"payment_id": 16
		}`)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("attempt %d: expected 200, got %d", i+1, resp.StatusCode)
		}

		var state demoStateResponse
		if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
			t.Fatalf("decode state: %v", err)
		}
		resp.Body.Close()

		for _, payment := range state.State.Payments {
			if payment.ID == 16 && !payment.StudentPaid {
				t.Fatalf("attempt %d: expected payment 16 marked student-paid", i+1)
			}
		}
	}
}

func TestDemoLogoutResetsRole(t *testing.T) {
	app := newDemoTestApp()

	resp := postDemoAction(t, app, `{"type": "set_role", "role": "admin"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set_role: expected 200, got %d", resp.StatusCode)
	}

	resp = postDemoAction(t, app, `{"type": "logout"}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", resp.StatusCode)
	}

	var state demoStateResponse
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if state.State.Role != "student" || state.State.LoggedIn {
		t.Fatalf("expected logged-out student, got role=%q logged_in=%v", state.State.Role, state.State.LoggedIn)
	}
}

func TestDemoMetricsExposesReportKeys(t *testing.T) {
	app := newDemoTestApp()

	req := httptest.NewRequest(http.MethodGet, "/api/demo/metrics", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var payload struct {
		Metrics map[string]json.RawMessage `json:"metrics"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode metrics: %v", err)
	}

	for _, key := range []string{
		"revenue_this_month",
		"outstanding_payments",
		"pending_payouts",
		"active_tutor_ids",
		"needs_attention",
		"weekly_sessions",
		"monthly_revenue",
	} {
		if _, ok := payload.Metrics[key]; !ok {
			t.Fatalf("expected metrics key %q", key)
		}
	}
}
