package reports

import (
	"testing"
	"time"

	"github.com/zhw16-dev/tutoring-platform-sub000/internal/domain"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/models"
)

func day(yy int, mm time.Month, dd int) time.Time {
	return time.Date(yy, mm, dd, 10, 0, 0, 0, time.UTC)
}

func session(id int64, tutorID int64, at time.Time, status domain.Status) models.Session {
	return models.Session{
		ID:              id,
		StudentID:       1,
		TutorID:         tutorID,
		Subject:         "Mathematics",
		ScheduledAt:     at,
		DurationMinutes: 60,
		Status:          status,
		Price:           domain.StandardHourlyRate,
	}
}

func payment(id, sessionID int64, amount float64, studentPaid, tutorPaid bool, createdAt time.Time) models.Payment {
	return models.Payment{
		ID:          id,
		SessionID:   sessionID,
		Amount:      amount,
		TutorAmount: amount * domain.TutorShare,
		StudentPaid: studentPaid,
		TutorPaid:   tutorPaid,
		CreatedAt:   createdAt,
	}
}

func TestRevenueCountsOnlyCompletedSessionsInPeriod(t *testing.T) {
	sessions := []models.Session{
		session(1, 2, day(2025, time.January, 10), domain.StatusCompleted),
		session(2, 2, day(2025, time.January, 20), domain.StatusNoShow),
		session(3, 2, day(2025, time.February, 2), domain.StatusCompleted),
	}
	payments := []models.Payment{
		payment(1, 1, 50, false, false, day(2025, time.January, 10)),
		payment(2, 2, 0, false, false, day(2025, time.January, 20)),
		payment(3, 3, 50, false, false, day(2025, time.February, 2)),
	}

	from := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)

	if got := Revenue(sessions, payments, from, to); got != 50 {
		t.Fatalf("Revenue = %v, want 50", got)
	}
}

func TestOutstandingAndSettledPartitionBillablePayments(t *testing.T) {
	sessions := []models.Session{
		session(1, 2, day(2025, time.January, 5), domain.StatusCompleted),
		session(2, 2, day(2025, time.January, 6), domain.StatusCompleted),
		session(3, 2, day(2025, time.January, 7), domain.StatusNoShow),
		session(4, 2, day(2025, time.January, 8), domain.StatusCompleted),
	}
	payments := []models.Payment{
		payment(1, 1, 50, false, false, day(2025, time.January, 5)),
		payment(2, 2, 50, true, false, day(2025, time.January, 6)),
		payment(3, 3, 0, false, false, day(2025, time.January, 7)),
		payment(4, 4, 50, true, true, day(2025, time.January, 8)),
	}

	outstanding := OutstandingStudentPayments(sessions, payments)
	settled := StudentSettledPayments(sessions, payments)

	if len(outstanding) != 1 || outstanding[0].ID != 1 {
		t.Fatalf("outstanding = %+v, want payment 1 only", outstanding)
	}
	if len(settled) != 2 {
		t.Fatalf("settled = %+v, want payments 2 and 4", settled)
	}

	// The two sets partition the billable payments: no overlap, no omission.
	seen := make(map[int64]int)
	for _, p := range outstanding {
		seen[p.ID]++
	}
	for _, p := range settled {
		seen[p.ID]++
	}
	billable := 0
	for _, p := range payments {
		if p.Amount > 0 {
			billable++
			if seen[p.ID] != 1 {
				t.Fatalf("payment %d appears %d times across the partition", p.ID, seen[p.ID])
			}
		}
	}
	if len(seen) != billable {
		t.Fatalf("partition covers %d payments, want %d", len(seen), billable)
	}
}

func TestPendingTutorPayoutsRequireStudentPaid(t *testing.T) {
	payments := []models.Payment{
		payment(1, 1, 50, false, false, day(2025, time.January, 5)),
		payment(2, 2, 50, true, false, day(2025, time.January, 6)),
		payment(3, 3, 50, true, true, day(2025, time.January, 7)),
	}

	pending := PendingTutorPayouts(payments)
	if len(pending) != 1 || pending[0].ID != 2 {
		t.Fatalf("pending payouts = %+v, want payment 2 only", pending)
	}
}

func TestActiveTutorIDsSkipsCancelledAndOldSessions(t *testing.T) {
	now := day(2025, time.March, 1)
	sessions := []models.Session{
		session(1, 10, now.AddDate(0, 0, -3), domain.StatusCompleted),
		session(2, 11, now.AddDate(0, 0, -5), domain.StatusCancelled),
		session(3, 12, now.AddDate(0, 0, -40), domain.StatusCompleted),
		session(4, 10, now.AddDate(0, 0, -1), domain.StatusScheduled),
	}

	ids := ActiveTutorIDs(sessions, now, 30)
	if len(ids) != 1 || ids[0] != 10 {
		t.Fatalf("active tutors = %v, want [10]", ids)
	}
}

func TestNeedsAttentionCollectsThreeIndependentSets(t *testing.T) {
	now := day(2025, time.March, 1)
	sessions := []models.Session{
		session(1, 2, now.AddDate(0, 0, -2), domain.StatusScheduled), // past-due, never logged
		session(2, 2, now.AddDate(0, 0, 2), domain.StatusScheduled),  // future, fine
		session(3, 2, now.AddDate(0, 0, -10), domain.StatusCompleted),
		session(4, 2, now.AddDate(0, 0, -5), domain.StatusNoShow),  // recent no-show
		session(5, 2, now.AddDate(0, 0, -20), domain.StatusNoShow), // outside 14-day window
	}
	payments := []models.Payment{
		payment(1, 3, 50, false, false, now.AddDate(0, 0, -10)), // past 7-day grace
		payment(2, 4, 0, false, false, now.AddDate(0, 0, -5)),
	}

	items := NeedsAttention(sessions, payments, now)

	if len(items.UnloggedSessions) != 1 || items.UnloggedSessions[0].ID != 1 {
		t.Fatalf("unlogged = %+v, want session 1", items.UnloggedSessions)
	}
	if len(items.OverduePayments) != 1 || items.OverduePayments[0].ID != 1 {
		t.Fatalf("overdue = %+v, want payment 1", items.OverduePayments)
	}
	if len(items.RecentNoShows) != 1 || items.RecentNoShows[0].ID != 4 {
		t.Fatalf("no-shows = %+v, want session 4", items.RecentNoShows)
	}
}

func TestWeekStartIsSundayMidnight(t *testing.T) {
	// 2025-01-29 is a Wednesday; its week opens Sunday 2025-01-26.
	start := WeekStart(time.Date(2025, time.January, 29, 15, 30, 0, 0, time.UTC))
	want := time.Date(2025, time.January, 26, 0, 0, 0, 0, time.UTC)
	if !start.Equal(want) {
		t.Fatalf("WeekStart = %v, want %v", start, want)
	}

	// A Sunday maps onto itself, time-truncated.
	start = WeekStart(time.Date(2025, time.January, 26, 23, 0, 0, 0, time.UTC))
	if !start.Equal(want) {
		t.Fatalf("WeekStart(sunday) = %v, want %v", start, want)
	}
}

func TestWeeklySessionCountsSumToRangeTotal(t *testing.T) {
	from := time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC) // a Sunday
	sessions := []models.Session{
		session(1, 2, from.Add(2*time.Hour), domain.StatusCompleted),
		session(2, 2, from.AddDate(0, 0, 6).Add(23*time.Hour), domain.StatusNoShow), // last hour of week 1
		session(3, 2, from.AddDate(0, 0, 7), domain.StatusCompleted),                // first instant of week 2
		session(4, 2, from.AddDate(0, 0, 10), domain.StatusCancelled),               // not counted
		session(5, 2, from.AddDate(0, 0, 15), domain.StatusCompleted),
	}

	buckets := WeeklySessionCounts(sessions, from, 3)
	if len(buckets) != 3 {
		t.Fatalf("expected 3 buckets, got %d", len(buckets))
	}
	if buckets[0].Count != 2 || buckets[1].Count != 1 || buckets[2].Count != 1 {
		t.Fatalf("bucket counts = %d,%d,%d, want 2,1,1", buckets[0].Count, buckets[1].Count, buckets[2].Count)
	}

	total := 0
	for _, bucket := range buckets {
		total += bucket.Count
	}
	if total != 4 {
		t.Fatalf("bucket total = %d, want 4 delivered sessions with no double-counting", total)
	}
}

func TestMonthlyRevenueCountsCompletedOnly(t *testing.T) {
	sessions := []models.Session{
		session(1, 2, day(2025, time.January, 5), domain.StatusCompleted),
		session(2, 2, day(2025, time.January, 18), domain.StatusCompleted),
		session(3, 2, day(2025, time.January, 20), domain.StatusNoShow),
		session(4, 2, day(2025, time.February, 3), domain.StatusCompleted),
		session(5, 2, day(2024, time.December, 30), domain.StatusCompleted),
	}

	months := MonthlyRevenue(sessions)
	if len(months) != 3 {
		t.Fatalf("expected 3 months, got %d", len(months))
	}
	if months[0].Year != 2024 || months[0].Month != time.December || months[0].Revenue != 50 {
		t.Fatalf("months[0] = %+v", months[0])
	}
	if months[1].Month != time.January || months[1].Sessions != 2 || months[1].Revenue != 100 {
		t.Fatalf("months[1] = %+v", months[1])
	}
	if months[2].Month != time.February || months[2].Revenue != 50 {
		t.Fatalf("months[2] = %+v", months[2])
	}
}
