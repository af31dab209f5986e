package scheduler

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptySchedule is returned when a schedule contains no tasks
	ErrEmptySchedule = errors.New("schedule contains no tasks")

	// ErrNilRequester is returned when a dispatcher is built without a requester
	ErrNilRequester = errors.New("requester must not be nil")
)

// ParseError describes a malformed timestamp token. Token always carries the
// original input so the user can be told exactly which entry was rejected.
type ParseError struct {
	Token  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid timestamp %q: %s", e.Token, e.Reason)
}
