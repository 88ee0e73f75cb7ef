package app

import (
	"errors"
	"fmt"
)

// Replay errors.
var (
	// ErrBadRecord indicates an event log line that cannot be decoded.
	ErrBadRecord = errors.New("bad event record")

	// ErrUnknownConnection indicates a record for a connection the scene
	// does not declare.
	ErrUnknownConnection = errors.New("unknown connection")
)

// RecordError locates a bad record in the event log.
type RecordError struct {
	Line int
	Err  error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// Unwrap returns the underlying error.
func (e *RecordError) Unwrap() error {
	return e.Err
}
