package services

import "errors"

var (
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrInvalidInput       = errors.New("invalid input")
	ErrTutorNotFound      = errors.New("tutor not found")
	ErrStudentNotFound    = errors.New("student not found")
	ErrStorageUnavailable = errors.New("storage service is not configured")
)
