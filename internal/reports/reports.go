// Package reports computes dashboard aggregates as pure folds over session
// and payment collections. Every function is deterministic for a given
// input snapshot and performs no mutation, so the demo store and the
// Postgres-backed admin dashboard share the exact same business rules.
package reports

import (
	"sort"
	"time"

	"github.com/zhw16-dev/tutoring-platform-sub000/internal/domain"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/models"
)

// PaymentGraceDays is how long a completed session may stay unpaid by the
// student before it shows up on the admin attention feed.
const PaymentGraceDays = 7

// NoShowWindowDays bounds how far back the attention feed reports no-shows.
const NoShowWindowDays = 14

func sessionIndex(sessions []models.Session) map[int64]models.Session {
	index := make(map[int64]models.Session, len(sessions))
	for _, session := range sessions {
		index[session.ID] = session
	}
	return index
}

// Revenue sums payment amounts for payments whose linked session is
// completed and scheduled within [from, to).
func Revenue(sessions []models.Session, payments []models.Payment, from, to time.Time) float64 {
	index := sessionIndex(sessions)

	total := 0.0
	for _, payment := range payments {
		session, ok := index[payment.SessionID]
		if !ok || session.Status != domain.StatusCompleted {
			continue
		}
		if session.ScheduledAt.Before(from) || !session.ScheduledAt.Before(to) {
			continue
		}
		total += payment.Amount
	}
	return total
}

// OutstandingStudentPayments returns billable payments the student has not
// settled yet: linked session completed, amount > 0, student_paid false.
func OutstandingStudentPayments(sessions []models.Session, payments []models.Payment) []models.Payment {
	index := sessionIndex(sessions)

	outstanding := make([]models.Payment, 0)
	for _, payment := range payments {
		session, ok := index[payment.SessionID]
		if !ok || session.Status != domain.StatusCompleted {
			continue
		}
		if payment.Amount > 0 && !payment.StudentPaid {
			outstanding = append(outstanding, payment)
		}
	}
	return outstanding
}

// StudentSettledPayments is the complement of OutstandingStudentPayments
// over billable payments: completed sessions whose student leg is paid.
func StudentSettledPayments(sessions []models.Session, payments []models.Payment) []models.Payment {
	index := sessionIndex(sessions)

	settled := make([]models.Payment, 0)
	for _, payment := range payments {
		session, ok := index[payment.SessionID]
		if !ok || session.Status != domain.StatusCompleted {
			continue
		}
		if payment.Amount > 0 && payment.StudentPaid {
			settled = append(settled, payment)
		}
	}
	return settled
}

// PendingTutorPayouts returns payments where the student has paid but the
// tutor has not been paid out. Collecting from the student is the
// precondition for owing the tutor their share.
func PendingTutorPayouts(payments []models.Payment) []models.Payment {
	pending := make([]models.Payment, 0)
	for _, payment := range payments {
		if payment.StudentPaid && !payment.TutorPaid {
			pending = append(pending, payment)
		}
	}
	return pending
}

// ActiveTutorIDs returns the distinct tutors with a non-cancelled session
// scheduled within the last N days, sorted ascending.
func ActiveTutorIDs(sessions []models.Session, now time.Time, days int) []int64 {
	cutoff := now.AddDate(0, 0, -days)

	seen := make(map[int64]struct{})
	for _, session := range sessions {
		if session.Status == domain.StatusCancelled {
			continue
		}
		if session.ScheduledAt.Before(cutoff) || session.ScheduledAt.After(now) {
			continue
		}
		seen[session.TutorID] = struct{}{}
	}

	ids := make([]int64, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// AttentionItems is the admin "needs attention" feed: three independently
// computed sets.
type AttentionItems struct {
	UnloggedSessions []models.Session `json:"unlogged_sessions"`
	OverduePayments  []models.Payment `json:"overdue_payments"`
	RecentNoShows    []models.Session `json:"recent_no_shows"`
}

// NeedsAttention collects sessions still scheduled whose date has passed,
// billable payments unpaid past the grace period, and recent no-shows.
func NeedsAttention(sessions []models.Session, payments []models.Payment, now time.Time) AttentionItems {
	items := AttentionItems{
		UnloggedSessions: make([]models.Session, 0),
		OverduePayments:  make([]models.Payment, 0),
		RecentNoShows:    make([]models.Session, 0),
	}

	noShowCutoff := now.AddDate(0, 0, -NoShowWindowDays)
	for _, session := range sessions {
		if session.Status == domain.StatusScheduled && !session.ScheduledAt.After(now) {
			items.UnloggedSessions = append(items.UnloggedSessions, session)
		}
		if session.Status == domain.StatusNoShow && !session.ScheduledAt.Before(noShowCutoff) && !session.ScheduledAt.After(now) {
			items.RecentNoShows = append(items.RecentNoShows, session)
		}
	}

	graceCutoff := now.AddDate(0, 0, -PaymentGraceDays)
	index := sessionIndex(sessions)
	for _, payment := range payments {
		session, ok := index[payment.SessionID]
		if !ok || session.Status != domain.StatusCompleted {
			continue
		}
		if payment.Amount > 0 && !payment.StudentPaid && payment.CreatedAt.Before(graceCutoff) {
			items.OverduePayments = append(items.OverduePayments, payment)
		}
	}

	return items
}

// WeekBucket is one calendar week of delivered sessions. Weeks start on
// Sunday at local midnight.
type WeekBucket struct {
	WeekStart time.Time `json:"week_start"`
	Count     int       `json:"count"`
}

// WeekStart truncates t to the Sunday midnight opening its calendar week.
func WeekStart(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day-int(t.Weekday()), 0, 0, 0, 0, t.Location())
}

// WeeklySessionCounts buckets completed and no_show sessions into the given
// number of consecutive weeks starting at the week containing from. A
// session counts in the bucket [weekStart, weekStart+7d) holding its date.
func WeeklySessionCounts(sessions []models.Session, from time.Time, weeks int) []WeekBucket {
	buckets := make([]WeekBucket, 0, weeks)
	start := WeekStart(from)
	for i := 0; i < weeks; i++ {
		buckets = append(buckets, WeekBucket{WeekStart: start.AddDate(0, 0, 7*i)})
	}

	for _, session := range sessions {
		if session.Status != domain.StatusCompleted && session.Status != domain.StatusNoShow {
			continue
		}
		for i := range buckets {
			weekEnd := buckets[i].WeekStart.AddDate(0, 0, 7)
			if !session.ScheduledAt.Before(buckets[i].WeekStart) && session.ScheduledAt.Before(weekEnd) {
				buckets[i].Count++
				break
			}
		}
	}

	return buckets
}

// MonthRevenue is one calendar month of completed sessions. Revenue is the
// completed-session count times the standard rate; per-session price
// overrides are deliberately ignored.
type MonthRevenue struct {
	Year     int        `json:"year"`
	Month    time.Month `json:"month"`
	Sessions int        `json:"sessions"`
	Revenue  float64    `json:"revenue"`
}

// MonthlyRevenue buckets completed sessions by the calendar month of their
// date, sorted chronologically.
func MonthlyRevenue(sessions []models.Session) []MonthRevenue {
	type monthKey struct {
		year  int
		month time.Month
	}

	counts := make(map[monthKey]int)
	for _, session := range sessions {
		if session.Status != domain.StatusCompleted {
			continue
		}
		key := monthKey{year: session.ScheduledAt.Year(), month: session.ScheduledAt.Month()}
		counts[key]++
	}

	months := make([]MonthRevenue, 0, len(counts))
	for key, count := range counts {
		months = append(months, MonthRevenue{
			Year:     key.year,
			Month:    key.month,
			Sessions: count,
			Revenue:  float64(count) * domain.StandardHourlyRate,
		})
	}
	sort.Slice(months, func(i, j int) bool {
		if months[i].Year != months[j].Year {
			return months[i].Year < months[j].Year
		}
		return months[i].Month < months[j].Month
	})
	return months
}
