package models

import "time"

// Material is a worksheet or other study file a tutor shares with a student,
// optionally tied to a specific session.
type Material struct {
	ID          int64     `json:"id"`
	TutorID     int64     `json:"tutor_id"`
	StudentID   int64     `json:"student_id"`
	SessionID   *int64    `json:"session_id,omitempty"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	FileURL     string    `json:"file_url"`
	CreatedAt   time.Time `json:"created_at"`
}
