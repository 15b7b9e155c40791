package models

import (
	"time"

	"github.com/zhw16-dev/tutoring-platform-sub000/internal/domain"
)

type Session struct {
	ID              int64         `json:"id"`
	StudentID       int64         `json:"student_id"`
	TutorID         int64         `json:"tutor_id"`
	Subject         string        `json:"subject"`
	ScheduledAt     time.Time     `json:"scheduled_at"`
	DurationMinutes int           `json:"duration_minutes"`
	Status          domain.Status `json:"status"`
	Price           float64       `json:"price"`
	Notes           *string       `json:"notes"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

type Payment struct {
	ID          int64     `json:"id"`
	SessionID   int64     `json:"session_id"`
	Amount      float64   `json:"amount"`
	TutorAmount float64   `json:"tutor_amount"`
	StudentPaid bool      `json:"student_paid"`
	TutorPaid   bool      `json:"tutor_paid"`
	CreatedAt   time.Time `json:"created_at"`
}

type SessionDetail struct {
	Session
	Payment *Payment `json:"payment,omitempty"`
}
