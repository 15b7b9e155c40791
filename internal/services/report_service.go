package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/domain"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/models"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/reports"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/repository"
)

// ActiveTutorWindowDays is the lookback used for the dashboard's active
// tutor count.
const ActiveTutorWindowDays = 30

// DashboardWeeks is how many weekly buckets the dashboard chart shows.
const DashboardWeeks = 8

// Dashboard is the admin overview computed from the full session and
// payment tables.
type Dashboard struct {
	RevenueThisMonth    float64                `json:"revenue_this_month"`
	RevenueTotal        float64                `json:"revenue_total"`
	OutstandingPayments []models.Payment       `json:"outstanding_payments"`
	PendingPayouts      []models.Payment       `json:"pending_payouts"`
	ActiveTutorIDs      []int64                `json:"active_tutor_ids"`
	WeeklySessions      []reports.WeekBucket   `json:"weekly_sessions"`
	MonthlyRevenue      []reports.MonthRevenue `json:"monthly_revenue"`
}

type ReportService struct {
	sessionRepo      *repository.SessionRepository
	paymentRepo      *repository.PaymentRepository
	tutorProfileRepo *repository.TutorProfileRepository
	now              func() time.Time
}

func NewReportService(
	sessionRepo *repository.SessionRepository,
	paymentRepo *repository.PaymentRepository,
	tutorProfileRepo *repository.TutorProfileRepository,
) *ReportService {
	return &ReportService{
		sessionRepo:      sessionRepo,
		paymentRepo:      paymentRepo,
		tutorProfileRepo: tutorProfileRepo,
		now:              time.Now,
	}
}

func (s *ReportService) load(ctx context.Context) ([]models.Session, []models.Payment, error) {
	sessions, err := s.sessionRepo.ListAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	payments, err := s.paymentRepo.ListAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	return sessions, payments, nil
}

// Dashboard loads every session and payment and folds them into the admin
// overview. The dataset is small enough that recomputing on each request
// beats maintaining materialized aggregates.
func (s *ReportService) Dashboard(ctx context.Context) (*Dashboard, error) {
	sessions, payments, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)
	chartStart := now.AddDate(0, 0, -7*(DashboardWeeks-1))

	return &Dashboard{
		RevenueThisMonth:    reports.Revenue(sessions, payments, monthStart, monthEnd),
		RevenueTotal:        reports.Revenue(sessions, payments, time.Time{}, now.AddDate(100, 0, 0)),
		OutstandingPayments: reports.OutstandingStudentPayments(sessions, payments),
		PendingPayouts:      reports.PendingTutorPayouts(payments),
		ActiveTutorIDs:      reports.ActiveTutorIDs(sessions, now, ActiveTutorWindowDays),
		WeeklySessions:      reports.WeeklySessionCounts(sessions, chartStart, DashboardWeeks),
		MonthlyRevenue:      reports.MonthlyRevenue(sessions),
	}, nil
}

// NeedsAttention returns the admin follow-up feed.
func (s *ReportService) NeedsAttention(ctx context.Context) (*reports.AttentionItems, error) {
	sessions, payments, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	items := reports.NeedsAttention(sessions, payments, s.now())
	return &items, nil
}

// ApproveTutor flips a tutor's approval flag, making them bookable.
func (s *ReportService) ApproveTutor(ctx context.Context, tutorUserID int64, approved bool) (*models.TutorProfile, error) {
	profile, err := s.tutorProfileRepo.SetApproved(ctx, tutorUserID, approved)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return profile, nil
}

// ListTutors returns every tutor profile, including unapproved ones.
func (s *ReportService) ListTutors(ctx context.Context) ([]models.TutorProfile, error) {
	return s.tutorProfileRepo.ListAll(ctx)
}
