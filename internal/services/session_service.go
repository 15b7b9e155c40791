package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/domain"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/models"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/repository"
)

type tutorProfileReader interface {
	GetByUserID(ctx context.Context, userID int64) (*models.TutorProfile, error)
}

type userReader interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type SessionService struct {
	db               *pgxpool.Pool
	sessionRepo      *repository.SessionRepository
	paymentRepo      *repository.PaymentRepository
	userRepo         userReader
	tutorProfileRepo tutorProfileReader
}

func NewSessionService(
	db *pgxpool.Pool,
	sessionRepo *repository.SessionRepository,
	paymentRepo *repository.PaymentRepository,
	userRepo userReader,
	tutorProfileRepo tutorProfileReader,
) *SessionService {
	return &SessionService{
		db:               db,
		sessionRepo:      sessionRepo,
		paymentRepo:      paymentRepo,
		userRepo:         userRepo,
		tutorProfileRepo: tutorProfileRepo,
	}
}

type BookSessionInput struct {
	TutorID         int64
	Subject         string
	ScheduledAt     time.Time
	DurationMinutes int
	Notes           *string
}

// BookSession creates a scheduled session for the student. No payment row
// exists yet; payments are created when the tutor logs the outcome.
func (s *SessionService) BookSession(
	ctx context.Context,
	studentID int64,
	input BookSessionInput,
) (*models.SessionDetail, error) {
	if input.TutorID <= 0 || input.DurationMinutes <= 0 {
		return nil, ErrInvalidInput
	}
	if strings.TrimSpace(input.Subject) == "" {
		return nil, ErrInvalidInput
	}
	if input.ScheduledAt.Before(time.Now().Add(-1 * time.Minute)) {
		return nil, ErrInvalidInput
	}
	if studentID == input.TutorID {
		return nil, ErrInvalidInput
	}

	tutor, err := s.userRepo.GetByID(ctx, input.TutorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTutorNotFound
		}
		return nil, err
	}
	if tutor.Role != domain.RoleTutor {
		return nil, ErrInvalidInput
	}

	profile, err := s.tutorProfileRepo.GetByUserID(ctx, input.TutorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTutorNotFound
		}
		return nil, err
	}
	if !profile.OnboardingComplete || !profile.Approved {
		return nil, ErrTutorNotFound
	}
	if !profile.TeachesSubject(input.Subject) {
		return nil, domain.ErrValidation
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txSessionRepo := repository.NewSessionRepository(tx)

	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", input.TutorID); err != nil {
		return nil, err
	}

	hasConflict, err := txSessionRepo.HasConflict(
		ctx,
		input.TutorID,
		input.ScheduledAt.UTC(),
		input.DurationMinutes,
	)
	if err != nil {
		return nil, err
	}
	if hasConflict {
		return nil, ErrConflict
	}

	session, err := txSessionRepo.Create(ctx, repository.CreateSessionInput{
		StudentID:       studentID,
		TutorID:         input.TutorID,
		Subject:         input.Subject,
		ScheduledAt:     input.ScheduledAt.UTC(),
		DurationMinutes: input.DurationMinutes,
		Price:           domain.StandardHourlyRate,
		Notes:           input.Notes,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &models.SessionDetail{Session: *session}, nil
}

func (s *SessionService) CheckAvailability(
	ctx context.Context,
	tutorID int64,
	requestedTime time.Time,
	durationMins int,
) (bool, error) {
	hasConflict, err := s.sessionRepo.HasConflict(ctx, tutorID, requestedTime.UTC(), durationMins)
	if err != nil {
		return false, err
	}
	return !hasConflict, nil
}

func (s *SessionService) ListSessions(
	ctx context.Context,
	actorID int64,
	role string,
	filter repository.SessionListFilter,
) ([]models.SessionDetail, error) {
	sessions, err := s.sessionRepo.List(ctx, repository.SessionListFilter{
		ActorID:   actorID,
		Role:      role,
		Status:    filter.Status,
		Timeframe: filter.Timeframe,
	})
	if err != nil {
		return nil, err
	}

	sessionIDs := make([]int64, 0, len(sessions))
	for _, session := range sessions {
		sessionIDs = append(sessionIDs, session.ID)
	}

	paymentsBySession, err := s.paymentRepo.ListBySessionIDs(ctx, sessionIDs)
	if err != nil {
		return nil, err
	}

	details := make([]models.SessionDetail, 0, len(sessions))
	for _, session := range sessions {
		detail := models.SessionDetail{Session: session}
		if payment, ok := paymentsBySession[session.ID]; ok {
			paymentCopy := payment
			detail.Payment = &paymentCopy
		}
		details = append(details, detail)
	}

	return details, nil
}

func (s *SessionService) GetSession(
	ctx context.Context,
	actorID int64,
	role string,
	sessionID int64,
) (*models.SessionDetail, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !canAccessSession(role, actorID, session) {
		return nil, ErrForbidden
	}

	detail := &models.SessionDetail{Session: *session}
	payment, err := s.paymentRepo.GetBySessionID(ctx, sessionID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err == nil {
		detail.Payment = payment
	}
	return detail, nil
}

// CancelSession moves a scheduled session to cancelled. Either party on
// the session (or an admin) may cancel; any other current status is an
// invalid transition. Cancellation never creates a payment.
func (s *SessionService) CancelSession(
	ctx context.Context,
	actorID int64,
	role string,
	sessionID int64,
) (*models.SessionDetail, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if role != domain.RoleAdmin && !canAccessSession(role, actorID, session) {
		return nil, ErrForbidden
	}
	if !domain.CanCancel(session.Status) {
		return nil, domain.ErrInvalidTransition
	}

	updated, err := s.sessionRepo.UpdateStatusIfCurrent(ctx, sessionID, session.Status, domain.StatusCancelled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvalidTransition
		}
		return nil, err
	}
	return &models.SessionDetail{Session: *updated}, nil
}

// LogSession records the outcome of a scheduled session. Only the tutor on
// the session may log it. The status change and the lazily created payment
// commit in one transaction: completed settles at the standard rate with
// the tutor's share, no_show settles at zero.
func (s *SessionService) LogSession(
	ctx context.Context,
	actorID int64,
	role string,
	sessionID int64,
	requestedOutcome string,
) (*models.SessionDetail, error) {
	outcome, err := domain.ParseStatus(requestedOutcome)
	if err != nil {
		return nil, err
	}
	if outcome != domain.StatusCompleted && outcome != domain.StatusNoShow {
		return nil, domain.ErrInvalidStatus
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txSessionRepo := repository.NewSessionRepository(tx)
	txPaymentRepo := repository.NewPaymentRepository(tx)
	txTutorProfileRepo := repository.NewTutorProfileRepository(tx)

	session, err := txSessionRepo.GetByIDForUpdate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if role != domain.RoleTutor || session.TutorID != actorID {
		return nil, ErrForbidden
	}
	if !domain.CanLog(session.Status, outcome) {
		return nil, domain.ErrInvalidTransition
	}

	updated, err := txSessionRepo.UpdateStatusIfCurrent(ctx, sessionID, session.Status, outcome)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvalidTransition
		}
		return nil, err
	}

	amount, tutorAmount := domain.Settlement(outcome)
	payment, err := txPaymentRepo.Create(ctx, repository.CreatePaymentInput{
		SessionID:   sessionID,
		Amount:      amount,
		TutorAmount: tutorAmount,
	})
	if err != nil {
		return nil, err
	}

	if outcome == domain.StatusCompleted {
		if err := txTutorProfileRepo.IncrementTotalSessions(ctx, session.TutorID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &models.SessionDetail{Session: *updated, Payment: payment}, nil
}

func canAccessSession(role string, actorID int64, session *models.Session) bool {
	switch role {
	case domain.RoleStudent:
		return session.StudentID == actorID
	case domain.RoleTutor:
		return session.TutorID == actorID
	case domain.RoleAdmin:
		return true
	}
	return false
}
