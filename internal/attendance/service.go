package attendance

import (
	"context"
	"time"

	"classtrack/internal/apperr"
	"classtrack/internal/auth"
	"classtrack/internal/roster"
)

// ClassAccess is the capability check consulted before any class data is
// touched. Satisfied by access.Guard.
type ClassAccess interface {
	CheckClassAccess(ctx context.Context, className string, ident auth.Identity) (*roster.Class, error)
}

// Service coordinates attendance writes and reads around the one-session-
// per-class-per-day invariant.
type Service struct {
	repo   SessionRepo
	roster roster.Provider
	guard  ClassAccess
}

// NewService creates a service.
func NewService(repo SessionRepo, rp roster.Provider, guard ClassAccess) *Service {
	return &Service{repo: repo, roster: rp, guard: guard}
}

// Save validates and persists a full day's marks for a class, replacing any
// prior session for that day. Re-submitting for the same day is normal use
// (a teacher correcting a mistake), not an error; the upsert makes it safe.
func (s *Service) Save(ctx context.Context, ident auth.Identity, className string, date *time.Time, marks []Mark) (Session, error) {
	if className == "" {
		return Session{}, apperr.Validation("className is required")
	}
	if len(marks) == 0 {
		return Session{}, apperr.Validation("records must not be empty")
	}

	cls, err := s.guard.CheckClassAccess(ctx, className, ident)
	if err != nil {
		return Session{}, err
	}

	students, err := s.roster.FindStudentsByClass(ctx, cls.ID)
	if err != nil {
		return Session{}, err
	}
	byID := make(map[string]roster.Student, len(students))
	for _, st := range students {
		byID[st.ID] = st
	}

	day := NormalizeDayPtr(date)
	sess := Session{
		ClassID:    cls.ID,
		ClassName:  cls.Name,
		Day:        day,
		RecordedAt: time.Now().UTC(),
		Marks:      make([]Mark, 0, len(marks)),
	}
	for _, m := range marks {
		if m.StudentID == "" {
			return Session{}, apperr.Validation("every record needs a studentId")
		}
		if !m.Status.Valid() {
			return Session{}, apperr.Validation("invalid status %q for student %s", m.Status, m.StudentID)
		}
		st, ok := byID[m.StudentID]
		if !ok {
			return Session{}, apperr.Validation("student %s is not enrolled in class %q", m.StudentID, className)
		}
		// Stored sessions are self-contained: name and enroll number come
		// from the roster, not from whatever the client sent.
		sess.Marks = append(sess.Marks, Mark{
			StudentID:   st.ID,
			StudentName: st.Name,
			EnrollNo:    st.EnrollNo,
			Status:      m.Status,
		})
	}

	saved, err := s.repo.UpsertSession(ctx, sess)
	if err != nil {
		return Session{}, err
	}
	saved.ClassName = cls.Name
	return saved, nil
}

// History returns one day's summary, or the latest session's when date is
// nil. No session is a valid state and comes back as the empty shape.
func (s *Service) History(ctx context.Context, ident auth.Identity, className string, date *time.Time) (DaySummary, error) {
	if className == "" {
		return DaySummary{}, apperr.Validation("className is required")
	}
	cls, err := s.guard.CheckClassAccess(ctx, className, ident)
	if err != nil {
		return DaySummary{}, err
	}

	var sess *Session
	if date != nil {
		day := NormalizeDay(*date)
		sess, err = s.repo.GetSession(ctx, cls.ID, day)
		if err != nil {
			return DaySummary{}, err
		}
		return Summarize(cls.Name, day, sess), nil
	}
	sess, err = s.repo.LatestSession(ctx, cls.ID)
	if err != nil {
		return DaySummary{}, err
	}
	return Summarize(cls.Name, NormalizeDay(time.Now()), sess), nil
}

// ClassSessions returns every session for a class, newest first.
func (s *Service) ClassSessions(ctx context.Context, ident auth.Identity, className string) ([]Session, error) {
	if className == "" {
		return nil, apperr.Validation("className is required")
	}
	cls, err := s.guard.CheckClassAccess(ctx, className, ident)
	if err != nil {
		return nil, err
	}
	sessions, err := s.repo.ListSessions(ctx, cls.ID)
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		sessions[i].ClassName = cls.Name
	}
	if sessions == nil {
		sessions = []Session{}
	}
	return sessions, nil
}
