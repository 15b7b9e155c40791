package domain

import "testing"

func TestParseStatusAcceptsKnownSpellings(t *testing.T) {
	cases := []struct {
		input string
		want  Status
	}{
		{"scheduled", StatusScheduled},
		{"completed", StatusCompleted},
		{"complete", StatusCompleted},
		{"cancelled", StatusCancelled},
		{"canceled", StatusCancelled},
		{"cancel", StatusCancelled},
		{"no_show", StatusNoShow},
		{"no-show", StatusNoShow},
		{"  Completed ", StatusCompleted},
	}

	for _, tc := range cases {
		got, err := ParseStatus(tc.input)
		if err != nil {
			t.Fatalf("ParseStatus(%q): %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("ParseStatus(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestParseStatusRejectsUnknownValues(t *testing.T) {
	for _, input := range []string{"", "pending", "confirmed", "done"} {
		if _, err := ParseStatus(input); err != ErrInvalidStatus {
			t.Fatalf("ParseStatus(%q): expected ErrInvalidStatus, got %v", input, err)
		}
	}
}

func TestCanCancelOnlyFromScheduled(t *testing.T) {
	if !CanCancel(StatusScheduled) {
		t.Fatal("expected scheduled session to be cancellable")
	}
	for _, status := range []Status{StatusCompleted, StatusCancelled, StatusNoShow} {
		if CanCancel(status) {
			t.Fatalf("expected %q session not to be cancellable", status)
		}
	}
}

func TestCanLogRequiresScheduledAndTerminalOutcome(t *testing.T) {
	if !CanLog(StatusScheduled, StatusCompleted) {
		t.Fatal("expected scheduled -> completed to be loggable")
	}
	if !CanLog(StatusScheduled, StatusNoShow) {
		t.Fatal("expected scheduled -> no_show to be loggable")
	}
	if CanLog(StatusScheduled, StatusCancelled) {
		t.Fatal("cancel is not a loggable outcome")
	}
	if CanLog(StatusCompleted, StatusCompleted) {
		t.Fatal("completed sessions must not be re-logged")
	}
	if CanLog(StatusCancelled, StatusNoShow) {
		t.Fatal("cancelled sessions must not be logged")
	}
}

func TestSettlementAmounts(t *testing.T) {
	amount, tutorAmount := Settlement(StatusCompleted)
	if amount != 50 || tutorAmount != 25 {
		t.Fatalf("completed settlement = (%v, %v), want (50, 25)", amount, tutorAmount)
	}

	for _, status := range []Status{StatusNoShow, StatusCancelled, StatusScheduled} {
		amount, tutorAmount := Settlement(status)
		if amount != 0 || tutorAmount != 0 {
			t.Fatalf("%q settlement = (%v, %v), want (0, 0)", status, amount, tutorAmount)
		}
	}
}
