// Package fault defines the error taxonomy shared by the engines.
//
// Domain packages wrap these sentinels so callers can classify a failure with
// errors.Is without knowing which package produced it.
package fault

import "errors"

var (
	// ErrNotFound means a referenced entity was missing at execution time.
	ErrNotFound = errors.New("not found")
	// ErrValidation means the input was malformed or inconsistent.
	ErrValidation = errors.New("validation failed")
	// ErrStore means the persistence layer failed while committing one item.
	ErrStore = errors.New("store failure")
	// ErrPolicy means the action is not permitted in the entity's current state.
	ErrPolicy = errors.New("policy violation")
)

// Retryable reports whether err is worth another attempt. Missing entities,
// bad input and forbidden transitions will fail the same way next time.
func Retryable(err error) bool {
	if err == nil {
		return false
	}

	return !errors.Is(err, ErrNotFound) &&
		!errors.Is(err, ErrValidation) &&
		!errors.Is(err, ErrPolicy)
}
