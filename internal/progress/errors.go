package progress

import (
	"errors"
	"fmt"
)

var (
	ErrGoalAccessDenied = errors.New("goal not accessible to user")
	ErrUserIDEmpty      = errors.New("user id is empty")
)

// UpstreamFetchError wraps a failed read from a store or connector while
// building goal views. Op names the read.
type UpstreamFetchError struct {
	Op  string
	Err error
}

func (e *UpstreamFetchError) Error() string {
	return fmt.Sprintf("upstream fetch %s: %s", e.Op, e.Err)
}

func (e *UpstreamFetchError) Unwrap() error {
	return e.Err
}

func upstream(op string, err error) error {
	if err == nil {
		return nil
	}
	return &UpstreamFetchError{Op: op, Err: err}
}
