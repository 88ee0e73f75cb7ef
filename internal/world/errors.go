package world

import "errors"

// Errors returned by world operations.
var (
	// ErrDeleted indicates the object has been deleted.
	ErrDeleted = errors.New("object deleted")

	// ErrWrongKind indicates the object kind does not fit the operation.
	ErrWrongKind = errors.New("wrong object kind")

	// ErrTurfExists indicates a turf already occupies the position.
	ErrTurfExists = errors.New("turf already exists at position")

	// ErrConnectionExists indicates the connection ID is already in use.
	ErrConnectionExists = errors.New("connection already exists")

	// ErrContainmentLoop indicates a move would put an object inside itself.
	ErrContainmentLoop = errors.New("object cannot contain itself")
)
