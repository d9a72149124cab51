package ratedlist

import (
	"errors"
	"fmt"
)

// ErrUnknownNode is returned when an operation is asked to act on a
// node_id that has no NodeRecord in the store.
var ErrUnknownNode = errors.New("ratedlist: unknown node_id")

// ErrReplyWithoutContact is returned by OnResponseScoreUpdate when no
// ScoreKeeper exists yet for the given root: a reply can only follow a
// prior OnRequestScoreUpdate under the same root.
var ErrReplyWithoutContact = errors.New("ratedlist: reply recorded with no prior contact")

// InvariantError marks an error as a rated-list invariant violation
// rather than a recoverable condition. Callers that only want to skip a
// sample on failure should check for this first and abort the run
// instead.
type InvariantError struct {
	Err error
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violation: %v", e.Err)
}

func (e *InvariantError) Unwrap() error {
	return e.Err
}

// IsInvariantViolation reports whether err (or anything it wraps) is an
// InvariantError.
func IsInvariantViolation(err error) bool {
	var invErr *InvariantError
	return errors.As(err, &invErr)
}
