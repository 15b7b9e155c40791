// Package memstore is the in-memory demo adapter of the tutoring domain.
// It holds a single authoritative snapshot of tutors, students, sessions
// and payments plus the session-scoped role/login flags, and applies one
// action at a time to produce the next snapshot. Apply never mutates its
// input, so a previously observed snapshot stays valid after a dispatch.
package memstore

import (
	"sync"
	"time"

	"github.com/zhw16-dev/tutoring-platform-sub000/internal/domain"
	"github.com/zhw16-dev/tutoring-platform-sub000/internal/models"
)

// Snapshot is one immutable state of the demo store.
type Snapshot struct {
	Role     string                  `json:"role"`
	LoggedIn bool                    `json:"logged_in"`
	Tutors   []models.TutorProfile   `json:"tutors"`
	Students []models.StudentProfile `json:"students"`
	Sessions []models.Session        `json:"sessions"`
	Payments []models.Payment        `json:"payments"`

	nextSessionID int64
	nextPaymentID int64
}

// Action is one state transition request. The concrete types below mirror
// the operations a dashboard dispatches.
type Action interface {
	isAction()
}

type SetRole struct {
	Role string
}

type Login struct{}

// Logout clears the login flag and resets the role to student. Logging out
// always returns to the default role, discarding whatever role was active.
type Logout struct{}

type BookSession struct {
	StudentID   int64
	TutorID     int64
	Subject     string
	ScheduledAt time.Time
	Notes       *string
}

type CancelSession struct {
	SessionID int64
}

type LogSession struct {
	SessionID int64
	Outcome   domain.Status
}

// UpdateTutorProfile merge-patches the tutor profile: nil fields are left
// unchanged. Supplying Subjects also recomputes the tutor's grade summary
// as the union of grades across the new subject list.
type UpdateTutorProfile struct {
	TutorID      int64
	Bio          *string
	CalendlyLink *string
	Subjects     []models.Subject
}

type MarkStudentPaid struct {
	PaymentID int64
}

type MarkTutorPaid struct {
	PaymentID int64
}

func (SetRole) isAction()            {}
func (Login) isAction()              {}
func (Logout) isAction()             {}
func (BookSession) isAction()        {}
func (CancelSession) isAction()      {}
func (LogSession) isAction()         {}
func (UpdateTutorProfile) isAction() {}
func (MarkStudentPaid) isAction()    {}
func (MarkTutorPaid) isAction()      {}

// DefaultDurationMinutes is the booking length the demo store assigns to
// every student-initiated session.
const DefaultDurationMinutes = 60

// Apply produces the snapshot resulting from one action. Unknown ids and
// guard violations return an error instead of silently leaving the state
// unchanged; on error the returned snapshot equals the input.
func Apply(s Snapshot, action Action, now time.Time) (Snapshot, error) {
	switch a := action.(type) {
	case SetRole:
		if !domain.ValidRole(a.Role) {
			return s, domain.ErrValidation
		}
		s.Role = a.Role
		return s, nil

	case Login:
		s.LoggedIn = true
		return s, nil

	case Logout:
		s.LoggedIn = false
		s.Role = domain.RoleStudent
		return s, nil

	case BookSession:
		return applyBookSession(s, a, now)

	case CancelSession:
		return applyCancelSession(s, a, now)

	case LogSession:
		return applyLogSession(s, a, now)

	case UpdateTutorProfile:
		return applyUpdateTutorProfile(s, a, now)

	case MarkStudentPaid:
		return applyMarkPaid(s, a.PaymentID, true)

	case MarkTutorPaid:
		return applyMarkPaid(s, a.PaymentID, false)

	default:
		return s, domain.ErrValidation
	}
}

func applyBookSession(s Snapshot, a BookSession, now time.Time) (Snapshot, error) {
	tutor := findTutor(s.Tutors, a.TutorID)
	if tutor == nil {
		return s, domain.ErrNotFound
	}
	if !tutor.TeachesSubject(a.Subject) {
		return s, domain.ErrValidation
	}

	session := models.Session{
		ID:              s.nextSessionID,
		StudentID:       a.StudentID,
		TutorID:         a.TutorID,
		Subject:         a.Subject,
		ScheduledAt:     a.ScheduledAt,
		DurationMinutes: DefaultDurationMinutes,
		Status:          domain.StatusScheduled,
		Price:           domain.StandardHourlyRate,
		Notes:           a.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	s.Sessions = appendSession(s.Sessions, session)
	s.nextSessionID++
	return s, nil
}

func applyCancelSession(s Snapshot, a CancelSession, now time.Time) (Snapshot, error) {
	idx := sessionIndexByID(s.Sessions, a.SessionID)
	if idx < 0 {
		return s, domain.ErrNotFound
	}
	if !domain.CanCancel(s.Sessions[idx].Status) {
		return s, domain.ErrInvalidTransition
	}

	sessions := cloneSessions(s.Sessions)
	sessions[idx].Status = domain.StatusCancelled
	sessions[idx].UpdatedAt = now
	s.Sessions = sessions
	return s, nil
}

func applyLogSession(s Snapshot, a LogSession, now time.Time) (Snapshot, error) {
	if a.Outcome != domain.StatusCompleted && a.Outcome != domain.StatusNoShow {
		return s, domain.ErrInvalidStatus
	}

	idx := sessionIndexByID(s.Sessions, a.SessionID)
	if idx < 0 {
		return s, domain.ErrNotFound
	}
	if !domain.CanLog(s.Sessions[idx].Status, a.Outcome) {
		return s, domain.ErrInvalidTransition
	}

	sessions := cloneSessions(s.Sessions)
	sessions[idx].Status = a.Outcome
	sessions[idx].UpdatedAt = now
	s.Sessions = sessions

	amount, tutorAmount := domain.Settlement(a.Outcome)
	payment := models.Payment{
		ID:          s.nextPaymentID,
		SessionID:   a.SessionID,
		Amount:      amount,
		TutorAmount: tutorAmount,
		CreatedAt:   now,
	}
	s.Payments = appendPayment(s.Payments, payment)
	s.nextPaymentID++

	if a.Outcome == domain.StatusCompleted {
		if tutorIdx := tutorIndexByID(s.Tutors, sessions[idx].TutorID); tutorIdx >= 0 {
			tutors := cloneTutors(s.Tutors)
			tutors[tutorIdx].TotalSessions++
			tutors[tutorIdx].UpdatedAt = now
			s.Tutors = tutors
		}
	}

	return s, nil
}

func applyUpdateTutorProfile(s Snapshot, a UpdateTutorProfile, now time.Time) (Snapshot, error) {
	idx := tutorIndexByID(s.Tutors, a.TutorID)
	if idx < 0 {
		return s, domain.ErrNotFound
	}

	tutors := cloneTutors(s.Tutors)
	tutor := &tutors[idx]
	if a.Bio != nil {
		tutor.Bio = a.Bio
	}
	if a.CalendlyLink != nil {
		tutor.CalendlyLink = a.CalendlyLink
	}
	if a.Subjects != nil {
		tutor.Subjects = append([]models.Subject(nil), a.Subjects...)
		tutor.Grades = models.GradeUnion(tutor.Subjects)
	}
	tutor.UpdatedAt = now

	s.Tutors = tutors
	return s, nil
}

func applyMarkPaid(s Snapshot, paymentID int64, studentLeg bool) (Snapshot, error) {
	idx := paymentIndexByID(s.Payments, paymentID)
	if idx < 0 {
		return s, domain.ErrNotFound
	}
	if s.Payments[idx].Amount <= 0 {
		return s, domain.ErrInvalidTransition
	}

	// Paid flags are one-way; re-marking an already paid leg is an
	// idempotent success.
	if studentLeg && s.Payments[idx].StudentPaid {
		return s, nil
	}
	if !studentLeg && s.Payments[idx].TutorPaid {
		return s, nil
	}

	payments := clonePayments(s.Payments)
	if studentLeg {
		payments[idx].StudentPaid = true
	} else {
		payments[idx].TutorPaid = true
	}
	s.Payments = payments
	return s, nil
}

func findTutor(tutors []models.TutorProfile, userID int64) *models.TutorProfile {
	if idx := tutorIndexByID(tutors, userID); idx >= 0 {
		return &tutors[idx]
	}
	return nil
}

func tutorIndexByID(tutors []models.TutorProfile, userID int64) int {
	for i := range tutors {
		if tutors[i].UserID == userID {
			return i
		}
	}
	return -1
}

func sessionIndexByID(sessions []models.Session, id int64) int {
	for i := range sessions {
		if sessions[i].ID == id {
			return i
		}
	}
	return -1
}

func paymentIndexByID(payments []models.Payment, id int64) int {
	for i := range payments {
		if payments[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneSessions(sessions []models.Session) []models.Session {
	return append([]models.Session(nil), sessions...)
}

func clonePayments(payments []models.Payment) []models.Payment {
	return append([]models.Payment(nil), payments...)
}

func cloneTutors(tutors []models.TutorProfile) []models.TutorProfile {
	return append([]models.TutorProfile(nil), tutors...)
}

func appendSession(sessions []models.Session, session models.Session) []models.Session {
	out := make([]models.Session, 0, len(sessions)+1)
	out = append(out, sessions...)
	return append(out, session)
}

func appendPayment(payments []models.Payment, payment models.Payment) []models.Payment {
	out := make([]models.Payment, 0, len(payments)+1)
	out = append(out, payments...)
	return append(out, payment)
}

// Store owns the current snapshot and serializes dispatches. Readers get
// value copies and may keep them across later dispatches.
type Store struct {
	mu      sync.Mutex
	current Snapshot
	now     func() time.Time
}

func New(seed Snapshot) *Store {
	return &Store{current: seed, now: time.Now}
}

// NewWithClock is used by tests that need deterministic timestamps.
func NewWithClock(seed Snapshot, now func() time.Time) *Store {
	return &Store{current: seed, now: now}
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Dispatch applies one action and returns the resulting snapshot. On error
// the current snapshot is left untouched.
func (s *Store) Dispatch(action Action) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := Apply(s.current, action, s.now().UTC())
	if err != nil {
		return s.current, err
	}
	s.current = next
	return next, nil
}
