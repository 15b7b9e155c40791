package handlers

import (
	"net/mail"
	"strings"

	"github.com/zhw16-dev/tutoring-platform-sub000/internal/models"
)

const (
	minGradeLevel = 1
	maxGradeLevel = 12
)

func validateStudentOnboardingRequest(req studentOnboardingRequest) string {
	if strings.TrimSpace(req.FullName) == "" {
		return "full_name is required"
	}
	if err := validateGrade(req.Grade); err != "" {
		return err
	}
	if strings.TrimSpace(req.ParentName) == "" {
		return "parent_name is required"
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(req.ParentEmail)); err != nil {
		return "parent_email must be a valid email address"
	}
	if strings.TrimSpace(req.ParentPhone) == "" {
		return "parent_phone is required"
	}
	return ""
}

func validateTutorOnboardingRequest(req tutorOnboardingRequest) string {
	if strings.TrimSpace(req.FullName) == "" {
		return "full_name is required"
	}
	if strings.TrimSpace(req.Bio) == "" {
		return "bio is required"
	}
	if strings.TrimSpace(req.CalendlyLink) == "" {
		return "calendly_link is required"
	}
	return validateSubjects(req.Subjects, true)
}

func validateStudentProfileUpdateRequest(req updateStudentProfileRequest) string {
	if req.FullName != nil && strings.TrimSpace(*req.FullName) == "" {
		return "full_name must not be empty"
	}
	if req.Grade != nil {
		if err := validateGrade(*req.Grade); err != "" {
			return err
		}
	}
	if req.ParentName != nil && strings.TrimSpace(*req.ParentName) == "" {
		return "parent_name must not be empty"
	}
	if req.ParentEmail != nil {
		if _, err := mail.ParseAddress(strings.TrimSpace(*req.ParentEmail)); err != nil {
			return "parent_email must be a valid email address"
		}
	}
	if req.ParentPhone != nil && strings.TrimSpace(*req.ParentPhone) == "" {
		return "parent_phone must not be empty"
	}
	return ""
}

func validateTutorProfileUpdateRequest(req updateTutorProfileRequest) string {
	if req.FullName != nil && strings.TrimSpace(*req.FullName) == "" {
		return "full_name must not be empty"
	}
	if req.Bio != nil && strings.TrimSpace(*req.Bio) == "" {
		return "bio must not be empty"
	}
	if req.CalendlyLink != nil && strings.TrimSpace(*req.CalendlyLink) == "" {
		return "calendly_link must not be empty"
	}
	if req.Subjects != nil {
		return validateSubjects(req.Subjects, false)
	}
	return ""
}

// validateSubjects checks every subject carries a name and at least one
// in-range grade. An empty list is only rejected when the list is required
// (onboarding); a merge-patch may not touch subjects at all.
func validateSubjects(subjects []models.Subject, required bool) string {
	if len(subjects) == 0 {
		if required {
			return "subjects must contain at least one item"
		}
		return "subjects must not be empty"
	}
	for _, subject := range subjects {
		if strings.TrimSpace(subject.Name) == "" {
			return "subjects must not contain empty names"
		}
		if len(subject.Grades) == 0 {
			return "each subject must list at least one grade"
		}
		for _, grade := range subject.Grades {
			if err := validateGrade(grade); err != "" {
				return err
			}
		}
	}
	return ""
}

func validateGrade(grade int32) string {
	if grade < minGradeLevel || grade > maxGradeLevel {
		return "grade must be between 1 and 12"
	}
	return ""
}
