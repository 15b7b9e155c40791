package domain

// StandardHourlyRate is the flat per-session price charged to students.
// Sessions are billed at this rate regardless of duration.
const StandardHourlyRate = 50.0

// TutorShare is the fixed fraction of a billable session's price paid out
// to the tutor.
const TutorShare = 0.5

// Settlement returns the amount charged to the student and the tutor's
// share for a session that reached the given terminal status. Only a
// completed session is billable; cancelled and no_show sessions settle
// at zero.
func Settlement(status Status) (amount, tutorAmount float64) {
	if status != StatusCompleted {
		return 0, 0
	}
	return StandardHourlyRate, StandardHourlyRate * TutorShare
}
