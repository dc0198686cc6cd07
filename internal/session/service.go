// Package session implements the attendance session lifecycle: one active
// session per admin, idempotent attendance marks while active, and a frozen
// roster once completed.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/charfaouimohammed/Atend-X/internal/errs"
	"github.com/charfaouimohammed/Atend-X/internal/models"
	"github.com/charfaouimohammed/Atend-X/internal/store"
)

// MarkResult reports what MarkPresent did.
type MarkResult int

const (
	MarkAdded MarkResult = iota
	MarkAlreadyPresent
)

// RosterEntry is one present student with identity details resolved.
type RosterEntry struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	CNE   string `json:"cne"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Image string `json:"image,omitempty"`
}

// View is a session with its roster resolved for display.
type View struct {
	ID              string        `json:"id"`
	AdminID         string        `json:"admin_id"`
	StartTime       time.Time     `json:"start_time"`
	EndTime         *time.Time    `json:"end_time,omitempty"`
	Status          string        `json:"status"`
	PresentStudents []RosterEntry `json:"present_students"`
}

// Summary is one completed session in the stats feed.
type Summary struct {
	ID           string    `json:"id"`
	Date         time.Time `json:"date"`
	PresentCount int       `json:"presentCount"`
	AbsentCount  int       `json:"absentCount"`
}

// Stats aggregates attendance for one admin. TodayTotal is
// totalStudents x number of today's completed sessions, as the frontend
// expects; students seen in several sessions count once per session. That is
// a deliberate simplification, not a dedup bug.
type Stats struct {
	TotalStudents  int64     `json:"totalStudents"`
	TodayPresent   int       `json:"todayPresent"`
	TodayTotal     int       `json:"todayTotal"`
	TodayAbsent    int       `json:"todayAbsent"`
	AttendanceRate float64   `json:"attendanceRate"`
	RecentSessions []Summary `json:"recentSessions"`
}

// Service drives the session state machine against the shared stores. All
// state transitions happen as single atomic storage operations; the service
// itself holds no session state.
type Service struct {
	students store.StudentStore
	sessions store.SessionStore
	now      func() time.Time
}

// NewService builds the service from the storage context.
func NewService(stores *store.Stores) *Service {
	return &Service{
		students: stores.Students,
		sessions: stores.Sessions,
		now:      time.Now,
	}
}

// Start creates the admin's active session. errs.ErrConflict when one is
// already running.
func (s *Service) Start(ctx context.Context, adminID string) (*models.AttendanceSession, error) {
	return s.sessions.InsertActive(ctx, adminID, s.now())
}

// Current returns the admin's active session with its roster resolved, or
// (nil, nil) when there is none: no active session is a normal read result.
func (s *Service) Current(ctx context.Context, adminID string) (*View, error) {
	session, err := s.sessions.FindActive(ctx, adminID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return s.view(ctx, session, true)
}

// MarkPresent adds the student to the session roster. Marking an already
// present student reports MarkAlreadyPresent without error, so a retried
// recognition never surfaces a failure.
func (s *Service) MarkPresent(ctx context.Context, adminID, sessionID, studentID string) (MarkResult, error) {
	// the student must resolve before touching the roster
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		return 0, err
	}

	added, err := s.sessions.AddPresent(ctx, sessionID, adminID, studentID)
	if err != nil {
		return 0, err
	}
	if !added {
		return MarkAlreadyPresent, nil
	}
	return MarkAdded, nil
}

// End completes the session, stamping the end time and freezing the roster.
// The returned view carries full identity details for every member that
// still resolves; deleted students are silently omitted.
func (s *Service) End(ctx context.Context, adminID, sessionID string) (*View, error) {
	session, err := s.sessions.Complete(ctx, sessionID, adminID, s.now())
	if err != nil {
		return nil, err
	}
	return s.view(ctx, session, false)
}

// Find returns one owned session with its roster resolved (used for the
// roster export).
func (s *Service) Find(ctx context.Context, adminID, sessionID string) (*View, error) {
	session, err := s.sessions.FindForAdmin(ctx, sessionID, adminID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, session, false)
}

// Stats builds the dashboard aggregates for the admin. "Today" is the UTC
// calendar day of the session start time.
func (s *Service) Stats(ctx context.Context, adminID string) (*Stats, error) {
	total, err := s.students.Count(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	todaySessions, err := s.sessions.CompletedBetween(ctx, adminID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	todayPresent := 0
	for _, session := range todaySessions {
		todayPresent += len(session.PresentStudents)
	}
	todayTotal := int(total) * len(todaySessions)

	recent, err := s.sessions.RecentCompleted(ctx, adminID, 5)
	if err != nil {
		return nil, err
	}
	summaries := make([]Summary, 0, len(recent))
	for _, session := range recent {
		summaries = append(summaries, Summary{
			ID:           session.ID.Hex(),
			Date:         session.StartTime,
			PresentCount: len(session.PresentStudents),
			AbsentCount:  int(total) - len(session.PresentStudents),
		})
	}

	stats := &Stats{
		TotalStudents:  total,
		TodayPresent:   todayPresent,
		TodayTotal:     todayTotal,
		RecentSessions: summaries,
	}
	if todayTotal > 0 {
		stats.TodayAbsent = todayTotal - todayPresent
		stats.AttendanceRate = float64(todayPresent) / float64(todayTotal)
	}
	return stats, nil
}

// view resolves member ids to identity details, skipping ids that no longer
// resolve (session membership is a weak reference).
func (s *Service) view(ctx context.Context, session *models.AttendanceSession, withImage bool) (*View, error) {
	roster := make([]RosterEntry, 0, len(session.PresentStudents))
	for _, studentID := range session.PresentStudents {
		student, err := s.students.FindByID(ctx, studentID)
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) || errors.Is(err, errs.ErrValidation) {
				continue
			}
			return nil, err
		}
		entry := RosterEntry{
			ID:    student.ID.Hex(),
			Name:  student.Name,
			CNE:   student.CNE,
			Email: student.Email,
			Phone: student.Phone,
		}
		if withImage {
			entry.Image = student.Image
		}
		roster = append(roster, entry)
	}

	return &View{
		ID:              session.ID.Hex(),
		AdminID:         session.AdminID,
		StartTime:       session.StartTime,
		EndTime:         session.EndTime,
		Status:          session.Status,
		PresentStudents: roster,
	}, nil
}
