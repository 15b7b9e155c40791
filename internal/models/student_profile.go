package models

import "time"

type StudentProfile struct {
	ID                 int64     `json:"id"`
	UserID             int64     `json:"user_id"`
	FullName           *string   `json:"full_name"`
	AvatarURL          *string   `json:"avatar_url"`
	Grade              *int32    `json:"grade"`
	ParentName         *string   `json:"parent_name"`
	ParentEmail        *string   `json:"parent_email"`
	ParentPhone        *string   `json:"parent_phone"`
	OnboardingComplete bool      `json:"onboarding_complete"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
