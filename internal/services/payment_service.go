package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/domain"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/models"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/repository"
)

// PaymentWithSession pairs a payment with the session it settles, so a
// caller can show subject and date next to the amount.
type PaymentWithSession struct {
	models.Payment
	Session models.Session `json:"session"`
}

type PaymentService struct {
	db          *pgxpool.Pool
	paymentRepo *repository.PaymentRepository
	sessionRepo *repository.SessionRepository
}

func NewPaymentService(
	db *pgxpool.Pool,
	paymentRepo *repository.PaymentRepository,
	sessionRepo *repository.SessionRepository,
) *PaymentService {
	return &PaymentService{db: db, paymentRepo: paymentRepo, sessionRepo: sessionRepo}
}

// ListPayments returns the payments the actor may see: students and tutors
// see payments on their own sessions, admins see all of them.
func (s *PaymentService) ListPayments(
	ctx context.Context,
	actorID int64,
	role string,
) ([]PaymentWithSession, error) {
	sessions, err := s.sessionRepo.List(ctx, repository.SessionListFilter{
		ActorID: actorID,
		Role:    role,
	})
	if err != nil {
		return nil, err
	}

	sessionIDs := make([]int64, 0, len(sessions))
	sessionByID := make(map[int64]models.Session, len(sessions))
	for _, session := range sessions {
		sessionIDs = append(sessionIDs, session.ID)
		sessionByID[session.ID] = session
	}

	paymentsBySession, err := s.paymentRepo.ListBySessionIDs(ctx, sessionIDs)
	if err != nil {
		return nil, err
	}

	results := make([]PaymentWithSession, 0, len(paymentsBySession))
	for _, session := range sessions {
		payment, ok := paymentsBySession[session.ID]
		if !ok {
			continue
		}
		results = append(results, PaymentWithSession{Payment: payment, Session: session})
	}
	return results, nil
}

// MarkStudentPaid records that the student settled a billable payment.
// Re-marking an already-paid leg succeeds without changing anything.
func (s *PaymentService) MarkStudentPaid(ctx context.Context, paymentID int64) (*models.Payment, error) {
	return s.markLeg(ctx, paymentID, true)
}

// MarkTutorPaid records that the tutor received their share.
func (s *PaymentService) MarkTutorPaid(ctx context.Context, paymentID int64) (*models.Payment, error) {
	return s.markLeg(ctx, paymentID, false)
}

func (s *PaymentService) markLeg(
	ctx context.Context,
	paymentID int64,
	studentLeg bool,
) (*models.Payment, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txPaymentRepo := repository.NewPaymentRepository(tx)

	payment, err := txPaymentRepo.GetByIDForUpdate(ctx, paymentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	// Zero-amount payments (no-shows) have nothing to settle.
	if payment.Amount <= 0 {
		return nil, domain.ErrInvalidTransition
	}

	alreadyPaid := payment.TutorPaid
	if studentLeg {
		alreadyPaid = payment.StudentPaid
	}
	if alreadyPaid {
		if err := tx.Commit(ctx); err != nil {
			return nil, err
		}
		return payment, nil
	}

	var updated *models.Payment
	if studentLeg {
		updated, err = txPaymentRepo.MarkStudentPaid(ctx, paymentID)
	} else {
		updated, err = txPaymentRepo.MarkTutorPaid(ctx, paymentID)
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}
