package domain

import "errors"

// Sentinel errors used throughout the application.
// Handlers translate these to HTTP status codes via a single mapError function.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidRole        = errors.New("invalid role: must be ADMIN, DIRECTOR, or MUSICIAN")
	ErrInvalidServiceID   = errors.New("service id must not be empty")
	ErrInvalidServiceDate = errors.New("service date must not be empty")
	ErrInvalidLocation    = errors.New("location must not be empty")
	ErrInvalidAssignment  = errors.New("musician assignments require a musician id and an instrument")
	ErrPracticeAfterDate  = errors.New("practice date must not be after the service date")
	ErrEmptySongList      = errors.New("song list must contain at least one song")
	ErrNotServiceDirector = errors.New("only a director assigned to the service may manage its song list")
	ErrQueueFull          = errors.New("notification queue is at capacity")
)
