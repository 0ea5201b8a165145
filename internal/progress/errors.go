package progress

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	// KindNotFound - the user does not exist.
	KindNotFound ErrorKind = iota + 1
	// KindNoData - the user exists but has nothing to aggregate,
	// either no workouts at all or none within the week window.
	KindNoData
	// KindStore - a snapshot or feedback persistence failure.
	KindStore
	// KindProvider - the feedback generation call failed.
	KindProvider
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not-found"
	case KindNoData:
		return "no-data"
	case KindStore:
		return "store"
	case KindProvider:
		return "provider"
	default:
		return "unknown"
	}
}

// Error tags a pipeline failure with the stage kind that produced it, so
// that callers can react to each failure mode separately instead of
// pattern matching on messages.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// KindOf returns the pipeline error kind of err, or 0 when err does not
// come from the progress pipeline.
func KindOf(err error) ErrorKind {
	var progressErr *Error
	if errors.As(err, &progressErr) {
		return progressErr.Kind
	}
	return 0
}
