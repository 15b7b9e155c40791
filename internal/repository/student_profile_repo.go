package repository

import (
	"context"

	"github.com/zhw16-dev/tutoring-platform-sub000/internal/models"
)

type StudentOnboardingInput struct {
	FullName    string
	Grade       int32
	ParentName  string
	ParentEmail string
	ParentPhone string
}

type UpdateStudentProfileInput struct {
	FullName    *string
	AvatarURL   *string
	Grade       *int32
	ParentName  *string
	ParentEmail *string
	ParentPhone *string
}

const studentProfileColumns = `
	id, user_id, full_name, avatar_url, grade, parent_name, parent_email,
	parent_phone, onboarding_complete, created_at, updated_at
`

type StudentProfileRepository struct {
	db DBTX
}

func NewStudentProfileRepository(db DBTX) *StudentProfileRepository {
	return &StudentProfileRepository{db: db}
}

func scanStudentProfile(row interface{ Scan(dest ...any) error }) (*models.StudentProfile, error) {
	var profile models.StudentProfile
	err := row.Scan(
		&profile.ID,
		&profile.UserID,
		&profile.FullName,
		&profile.AvatarURL,
		&profile.Grade,
		&profile.ParentName,
		&profile.ParentEmail,
		&profile.ParentPhone,
		&profile.OnboardingComplete,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *StudentProfileRepository) CreateEmpty(ctx context.Context, userID int64) error {
	query := `INSERT INTO student_profiles (user_id) VALUES ($1)`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}

func (r *StudentProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.StudentProfile, error) {
	query := `SELECT ` + studentProfileColumns + ` FROM student_profiles WHERE user_id = $1`
	return scanStudentProfile(r.db.QueryRow(ctx, query, userID))
}

func (r *StudentProfileRepository) UpdateOnboarding(ctx context.Context, userID int64, input StudentOnboardingInput) (*models.StudentProfile, error) {
	query := `
		UPDATE student_profiles
		SET full_name = $1,
			grade = $2,
			parent_name = $3,
			parent_email = $4,
			parent_phone = $5,
			onboarding_complete = TRUE,
			updated_at = NOW()
		WHERE user_id = $6
		RETURNING ` + studentProfileColumns
	return scanStudentProfile(r.db.QueryRow(ctx, query,
		input.FullName,
		input.Grade,
		input.ParentName,
		input.ParentEmail,
		input.ParentPhone,
		userID,
	))
}

func (r *StudentProfileRepository) UpdatePartial(ctx context.Context, userID int64, input UpdateStudentProfileInput) (*models.StudentProfile, error) {
	query := `
		UPDATE student_profiles
		SET full_name = COALESCE($1, full_name),
			avatar_url = COALESCE($2, avatar_url),
			grade = COALESCE($3, grade),
			parent_name = COALESCE($4, parent_name),
			parent_email = COALESCE($5, parent_email),
			parent_phone = COALESCE($6, parent_phone),
			updated_at = NOW()
		WHERE user_id = $7
		RETURNING ` + studentProfileColumns
	return scanStudentProfile(r.db.QueryRow(ctx, query,
		input.FullName,
		input.AvatarURL,
		input.Grade,
		input.ParentName,
		input.ParentEmail,
		input.ParentPhone,
		userID,
	))
}

func (r *StudentProfileRepository) UpdateAvatar(ctx context.Context, userID int64, avatarURL string) error {
	query := `
		UPDATE student_profiles
		SET avatar_url = $1, updated_at = NOW()
		WHERE user_id = $2
	`
	_, err := r.db.Exec(ctx, query, avatarURL, userID)
	return err
}
