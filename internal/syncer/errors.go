package syncer

import (
	"errors"
	"fmt"
)

var (
	ErrRemotePushFailed   = errors.New("remote push failed")
	ErrRemoteSubscription = errors.New("remote subscription failed")
)

// PushError reports a local mutation that never reached the remote store.
// The local state keeps the mutation.
type PushError struct {
	Collection string
	ID         string
	Remove     bool
	Err        error
}

func (e *PushError) Error() string {
	op := "put"
	if e.Remove {
		op = "remove"
	}
	return fmt.Sprintf("%s %s/%s: %v", op, e.Collection, e.ID, e.Err)
}

func (e *PushError) Unwrap() []error {
	return []error{ErrRemotePushFailed, e.Err}
}
