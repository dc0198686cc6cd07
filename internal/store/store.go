// Package store owns all persistence. Ids cross this boundary as hex
// strings; conversion to the storage-native ObjectID happens here and
// nowhere else. Implementations return errs sentinels, never driver errors.
package store

import (
	"context"
	"time"

	"github.com/charfaouimohammed/Atend-X/internal/models"
)

// StudentStore owns student records exclusively.
type StudentStore interface {
	// Insert stores a new student. Duplicate CNE yields errs.ErrConflict.
	Insert(ctx context.Context, s *models.Student) error
	// FindByID yields errs.ErrNotFound for unknown ids.
	FindByID(ctx context.Context, id string) (*models.Student, error)
	// List returns all students in registration order.
	List(ctx context.Context) ([]models.Student, error)
	Count(ctx context.Context) (int64, error)
	// Delete removes a student. Sessions keep the id as a dangling member.
	Delete(ctx context.Context, id string) error
}

// AdminStore owns admin accounts.
type AdminStore interface {
	// Insert stores a new admin. Duplicate email yields errs.ErrConflict.
	Insert(ctx context.Context, a *models.Admin) error
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
	FindByID(ctx context.Context, id string) (*models.Admin, error)
}

// SessionStore owns attendance sessions. The exclusivity and idempotence
// guarantees live here as atomic storage operations, never as
// read-then-write in callers.
type SessionStore interface {
	// InsertActive atomically creates the admin's active session; a second
	// active session for the same admin yields errs.ErrConflict even under
	// concurrent calls.
	InsertActive(ctx context.Context, adminID string, start time.Time) (*models.AttendanceSession, error)
	// FindForAdmin yields errs.ErrNotFound when the session is missing or
	// owned by another admin.
	FindForAdmin(ctx context.Context, id, adminID string) (*models.AttendanceSession, error)
	// FindActive returns the admin's active session, errs.ErrNotFound when
	// there is none.
	FindActive(ctx context.Context, adminID string) (*models.AttendanceSession, error)
	// AddPresent atomically adds the student to an active session's roster.
	// Returns false without error when the student was already present.
	// Yields errs.ErrSessionClosed for completed sessions.
	AddPresent(ctx context.Context, id, adminID, studentID string) (bool, error)
	// Complete transitions active -> completed, stamping the end time, and
	// returns the frozen session. Yields errs.ErrSessionClosed when the
	// session was already completed.
	Complete(ctx context.Context, id, adminID string, end time.Time) (*models.AttendanceSession, error)
	// CompletedBetween returns the admin's completed sessions with a start
	// time in [from, to).
	CompletedBetween(ctx context.Context, adminID string, from, to time.Time) ([]models.AttendanceSession, error)
	// RecentCompleted returns up to limit completed sessions, newest first.
	RecentCompleted(ctx context.Context, adminID string, limit int) ([]models.AttendanceSession, error)
}

// AuditStore records authenticated admin actions.
type AuditStore interface {
	Insert(ctx context.Context, l *models.AuditLog) error
}

// Stores bundles the storage context handed to services and handlers,
// replacing any ambient package-level collection handles.
type Stores struct {
	Students StudentStore
	Admins   AdminStore
	Sessions SessionStore
	Audit    AuditStore
}
