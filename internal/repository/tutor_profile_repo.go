package repository

import (
	"context"

	"github.com/zhw16-dev/tutoring-platform-sub000/internal/models"
)

type TutorOnboardingInput struct {
	FullName     string
	Bio          string
	CalendlyLink string
	Subjects     []models.Subject
	Grades       []int32
}

// UpdateTutorProfileInput carries a merge-patch: nil fields keep their
// current value. Grades must be supplied together with Subjects and hold
// the recomputed grade union.
type UpdateTutorProfileInput struct {
	FullName     *string
	AvatarURL    *string
	Bio          *string
	CalendlyLink *string
	Subjects     []models.Subject
	Grades       []int32
}

const tutorProfileColumns = `
	id, user_id, full_name, avatar_url, bio, calendly_link, subjects, grades,
	rating, total_sessions, approved, onboarding_complete, created_at, updated_at
`

type TutorProfileRepository struct {
	db DBTX
}

func NewTutorProfileRepository(db DBTX) *TutorProfileRepository {
	return &TutorProfileRepository{db: db}
}

func scanTutorProfile(row interface{ Scan(dest ...any) error }) (*models.TutorProfile, error) {
	var profile models.TutorProfile
	err := row.Scan(
		&profile.ID,
		&profile.UserID,
		&profile.FullName,
		&profile.AvatarURL,
		&profile.Bio,
		&profile.CalendlyLink,
		&profile.Subjects,
		&profile.Grades,
		&profile.Rating,
		&profile.TotalSessions,
		&profile.Approved,
		&profile.OnboardingComplete,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *TutorProfileRepository) CreateEmpty(ctx context.Context, userID int64) error {
	query := `INSERT INTO tutor_profiles (user_id) VALUES ($1)`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}

func (r *TutorProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.TutorProfile, error) {
	query := `SELECT ` + tutorProfileColumns + ` FROM tutor_profiles WHERE user_id = $1`
	return scanTutorProfile(r.db.QueryRow(ctx, query, userID))
}

func (r *TutorProfileRepository) UpdateOnboarding(ctx context.Context, userID int64, input TutorOnboardingInput) (*models.TutorProfile, error) {
	query := `
		UPDATE tutor_profiles
		SET full_name = $1,
			bio = $2,
			calendly_link = $3,
			subjects = $4,
			grades = $5,
			onboarding_complete = TRUE,
			updated_at = NOW()
		WHERE user_id = $6
		RETURNING ` + tutorProfileColumns
	return scanTutorProfile(r.db.QueryRow(ctx, query,
		input.FullName,
		input.Bio,
		input.CalendlyLink,
		input.Subjects,
		input.Grades,
		userID,
	))
}

func (r *TutorProfileRepository) UpdatePartial(ctx context.Context, userID int64, input UpdateTutorProfileInput) (*models.TutorProfile, error) {
	query := `
		UPDATE tutor_profiles
		SET full_name = COALESCE($1, full_name),
			avatar_url = COALESCE($2, avatar_url),
			bio = COALESCE($3, bio),
			calendly_link = COALESCE($4, calendly_link),
			subjects = COALESCE($5, subjects),
			grades = COALESCE($6, grades),
			updated_at = NOW()
		WHERE user_id = $7
		RETURNING ` + tutorProfileColumns

	var subjects any
	var grades any
	if input.Subjects != nil {
		subjects = input.Subjects
		grades = input.Grades
	}

	return scanTutorProfile(r.db.QueryRow(ctx, query,
		input.FullName,
		input.AvatarURL,
		input.Bio,
		input.CalendlyLink,
		subjects,
		grades,
		userID,
	))
}

func (r *TutorProfileRepository) UpdateAvatar(ctx context.Context, userID int64, avatarURL string) error {
	query := `
		UPDATE tutor_profiles
		SET avatar_url = $1, updated_at = NOW()
		WHERE user_id = $2
	`
	_, err := r.db.Exec(ctx, query, avatarURL, userID)
	return err
}

// SetApproved flips the admin approval flag. Unapproved tutors stay
// invisible to students in discovery and booking.
func (r *TutorProfileRepository) SetApproved(ctx context.Context, userID int64, approved bool) (*models.TutorProfile, error) {
	query := `
		UPDATE tutor_profiles
		SET approved = $1, updated_at = NOW()
		WHERE user_id = $2
		RETURNING ` + tutorProfileColumns
	return scanTutorProfile(r.db.QueryRow(ctx, query, approved, userID))
}

func (r *TutorProfileRepository) IncrementTotalSessions(ctx context.Context, userID int64) error {
	query := `
		UPDATE tutor_profiles
		SET total_sessions = total_sessions + 1, updated_at = NOW()
		WHERE user_id = $1
	`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}

func (r *TutorProfileRepository) listWhere(ctx context.Context, where string, args ...any) ([]models.TutorProfile, error) {
	query := `SELECT ` + tutorProfileColumns + ` FROM tutor_profiles ` + where

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make([]models.TutorProfile, 0)
	for rows.Next() {
		profile, err := scanTutorProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *profile)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return profiles, nil
}

// ListApproved returns the tutors students may see and book.
func (r *TutorProfileRepository) ListApproved(ctx context.Context) ([]models.TutorProfile, error) {
	return r.listWhere(ctx, `WHERE approved = TRUE AND onboarding_complete = TRUE ORDER BY rating DESC NULLS LAST, id ASC`)
}

// ListAll returns every tutor profile, including unapproved ones, for the
// admin view.
func (r *TutorProfileRepository) ListAll(ctx context.Context) ([]models.TutorProfile, error) {
	return r.listWhere(ctx, `ORDER BY id ASC`)
}
