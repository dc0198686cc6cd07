package errs

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Handlers never branch on storage or transport errors
// directly; services return one of these (possibly wrapped with context via
// fmt.Errorf + %w) and util.WriteError maps the kind to an HTTP status once.
var (
	// ErrValidation covers malformed ids and missing/invalid fields.
	ErrValidation = errors.New("invalid input")

	// ErrConflict covers duplicate registrations and a second active session.
	ErrConflict = errors.New("conflict")

	// ErrNotFound covers unknown students, sessions and admins, including
	// sessions that exist but belong to another admin.
	ErrNotFound = errors.New("not found")

	// ErrAuth covers bad credentials and invalid or expired tokens.
	ErrAuth = errors.New("unauthorized")

	// ErrNoFace is returned when the face service finds no face in the
	// supplied image. Distinct from an empty match list, which is a normal
	// recognition outcome.
	ErrNoFace = errors.New("no face detected")

	// ErrSessionClosed is returned for mutations against a completed session.
	ErrSessionClosed = errors.New("session already completed")
)

// Validationf wraps ErrValidation with a formatted message.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrValidation}, args...)...)
}

// Conflictf wraps ErrConflict with a formatted message.
func Conflictf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrConflict}, args...)...)
}

// NotFoundf wraps ErrNotFound with a formatted message.
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrNotFound}, args...)...)
}
