package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/zhw16-dev/tutoring-platform-sub000/internal/domain"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/models"
)

type CreateSessionInput struct {
	StudentID       int64
	TutorID         int64
	Subject         string
	ScheduledAt     time.Time
	DurationMinutes int
	Price           float64
	Notes           *string
}

// SessionListFilter scopes listing to the actor's own sessions. Admins see
// every session.
type SessionListFilter struct {
	ActorID   int64
	Role      string
	Status    string
	Timeframe string
}

const sessionColumns = `
	id, student_id, tutor_id, subject, scheduled_at, duration_min, status,
	price, notes, created_at, updated_at
`

type SessionRepository struct {
	db DBTX
}

func NewSessionRepository(db DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

func scanSession(row interface{ Scan(dest ...any) error }) (*models.Session, error) {
	var session models.Session
	err := row.Scan(
		&session.ID,
		&session.StudentID,
		&session.TutorID,
		&session.Subject,
		&session.ScheduledAt,
		&session.DurationMinutes,
		&session.Status,
		&session.Price,
		&session.Notes,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) Create(ctx context.Context, input CreateSessionInput) (*models.Session, error) {
	query := `
		INSERT INTO sessions (student_id, tutor_id, subject, scheduled_at, duration_min, status, price, notes)
		VALUES ($1, $2, $3, $4, $5, 'scheduled', $6, $7)
		RETURNING ` + sessionColumns
	return scanSession(r.db.QueryRow(ctx, query,
		input.StudentID,
		input.TutorID,
		input.Subject,
		input.ScheduledAt,
		input.DurationMinutes,
		input.Price,
		input.Notes,
	))
}

func (r *SessionRepository) GetByID(ctx context.Context, sessionID int64) (*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`
	return scanSession(r.db.QueryRow(ctx, query, sessionID))
}

func (r *SessionRepository) GetByIDForUpdate(ctx context.Context, sessionID int64) (*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1 FOR UPDATE`
	return scanSession(r.db.QueryRow(ctx, query, sessionID))
}

func (r *SessionRepository) List(ctx context.Context, filter SessionListFilter) ([]models.Session, error) {
	args := []any{}
	whereParts := []string{}

	switch filter.Role {
	case domain.RoleStudent:
		args = append(args, filter.ActorID)
		whereParts = append(whereParts, fmt.Sprintf("student_id = $%d", len(args)))
	case domain.RoleTutor:
		args = append(args, filter.ActorID)
		whereParts = append(whereParts, fmt.Sprintf("tutor_id = $%d", len(args)))
	}

	if status := strings.TrimSpace(filter.Status); status != "" {
		args = append(args, status)
		whereParts = append(whereParts, fmt.Sprintf("status = $%d", len(args)))
	}

	switch strings.TrimSpace(filter.Timeframe) {
	case "upcoming":
		whereParts = append(
			whereParts,
			"(scheduled_at + (duration_min * INTERVAL '1 minute')) > NOW()",
		)
	case "past":
		whereParts = append(
			whereParts,
			"(scheduled_at + (duration_min * INTERVAL '1 minute')) <= NOW()",
		)
	}

	where := ""
	if len(whereParts) > 0 {
		where = "WHERE " + strings.Join(whereParts, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM sessions
		%s
		ORDER BY scheduled_at ASC, id ASC
	`, sessionColumns, where)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]models.Session, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// ListAll returns every session, used by the admin reporting folds.
func (r *SessionRepository) ListAll(ctx context.Context) ([]models.Session, error) {
	return r.List(ctx, SessionListFilter{Role: domain.RoleAdmin})
}

// UpdateStatusIfCurrent is a compare-and-set: the row only changes when it
// still carries the expected current status. Returns pgx.ErrNoRows when a
// concurrent writer got there first.
func (r *SessionRepository) UpdateStatusIfCurrent(
	ctx context.Context,
	sessionID int64,
	currentStatus domain.Status,
	nextStatus domain.Status,
) (*models.Session, error) {
	query := `
		UPDATE sessions
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING ` + sessionColumns
	return scanSession(r.db.QueryRow(ctx, query, sessionID, string(currentStatus), string(nextStatus)))
}

// HasConflict reports whether the tutor already has a non-cancelled session
// overlapping the requested window.
func (r *SessionRepository) HasConflict(
	ctx context.Context,
	tutorID int64,
	requestedTime time.Time,
	durationMinutes int,
) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM sessions
			WHERE tutor_id = $1
			  AND status <> 'cancelled'
			  AND scheduled_at < ($2::timestamptz + ($3::int * INTERVAL '1 minute'))
			  AND (scheduled_at + (duration_min * INTERVAL '1 minute')) > $2::timestamptz
		)
	`
	var hasConflict bool
	if err := r.db.QueryRow(ctx, query, tutorID, requestedTime, durationMinutes).Scan(&hasConflict); err != nil {
		return false, err
	}
	return hasConflict, nil
}
