package engagement

import "errors"

// Error kinds detected by the state machines. The service layer only wraps
// them with entity-resolution context; the HTTP layer maps them to status
// codes with errors.Is.
var (
	// ErrValidation is returned on malformed input: empty content, an
	// out-of-range rating, too few poll options.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned when a comment, reply, poll or option does not
	// resolve within the given post.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the actor lacks authorization for the
	// requested mutation.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict is returned when an operation violates a uniqueness
	// invariant, e.g. the post already has a poll.
	ErrConflict = errors.New("conflict")
	// ErrExpired is returned on votes against a poll past its voting window.
	ErrExpired = errors.New("expired")
)
