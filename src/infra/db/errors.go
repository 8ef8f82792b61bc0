package db

import (
	"errors"
	"fmt"
)

// Error taxonomy for the database access layer. These errors separate
// lifecycle faults (ordering, exhaustion) from statement faults so callers
// can decide between retrying, surfacing a 503, or failing the operation.

var (
	// ErrPoolInit is returned when the pool cannot be established at
	// startup (database unreachable, credentials rejected). It is not
	// fatal to process boot: callers log it and defer failure to the
	// health probes or to first real use.
	ErrPoolInit = errors.New("database pool initialization failed")

	// ErrPoolNotInitialized is returned by Checkout when Init never
	// completed successfully. This is an ordering fault and is fatal
	// to the calling operation.
	ErrPoolNotInitialized = errors.New("database pool not initialized")

	// ErrPoolExhausted is returned when no connection becomes available
	// within the configured connect timeout. Transient; callers may
	// retry or surface 503.
	ErrPoolExhausted = errors.New("database pool exhausted")

	// ErrCheckout is returned when a connection could not be
	// established at checkout time, e.g. the server became unreachable
	// after the pool was initialized. Transient, like exhaustion;
	// callers may retry or surface 503.
	ErrCheckout = errors.New("connection checkout failed")

	// ErrSessionReleased is returned when a connection is requested from
	// a session whose teardown already ran.
	ErrSessionReleased = errors.New("database session already released")
)

// StatementError wraps a driver error raised while executing a statement
// inside a cursor scope. The original driver error is preserved and
// reachable via errors.Is/As.
type StatementError struct {
	// Query is the statement text that failed (parameter placeholders
	// only, never interpolated values).
	Query string

	// Err is the underlying driver error.
	Err error
}

// Error implements the error interface.
func (e *StatementError) Error() string {
	return fmt.Sprintf("statement execution failed: %v (query: %s)", e.Err, e.Query)
}

// Unwrap returns the underlying driver error for errors.Is/As support.
func (e *StatementError) Unwrap() error {
	return e.Err
}

// IsPoolNotInitialized checks if an error is a pool lifecycle ordering error.
func IsPoolNotInitialized(err error) bool {
	return errors.Is(err, ErrPoolNotInitialized)
}

// IsPoolExhausted checks if an error is a checkout timeout.
func IsPoolExhausted(err error) bool {
	return errors.Is(err, ErrPoolExhausted)
}

// IsStatementError checks if an error originated from statement execution.
func IsStatementError(err error) bool {
	var se *StatementError
	return errors.As(err, &se)
}
