package hearth

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks a missing or malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrConflict marks a duplicate unique key, such as an email already registered.
	ErrConflict = errors.New("already exists")
	// ErrInvalidCredentials is returned for every failed login, whatever the cause.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrNotFound marks a lookup miss.
	ErrNotFound = errors.New("not found")
	// ErrForbidden marks a caller acting on something it does not own.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthenticated marks a missing, expired or revoked session.
	ErrUnauthenticated = errors.New("not logged in")
	// ErrStore matches every *StoreError.
	ErrStore = errors.New("store failure")
)

// StoreError wraps a failure of the underlying database.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool { return target == ErrStore }

func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func conflictErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

func notFoundErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func forbiddenErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrForbidden, fmt.Sprintf(format, args...))
}
