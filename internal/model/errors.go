package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when an insert violates a uniqueness
	// constraint, e.g. a taken username or an already registered serial.
	ErrConflict = errors.New("already exists")

	// ErrInvalidCredentials is returned for an unknown username or a wrong
	// password. The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ConnectionError reports that the database could not be reached after
// exhausting every connection attempt.
type ConnectionError struct {
	Attempts int
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to database after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// SchemaError reports a failed bootstrap phase. Phase is one of
// "drop", "create", "seed users", "seed devices".
type SchemaError struct {
	Phase string
	Err   error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema bootstrap failed during %s: %v", e.Phase, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}
