package driver

import (
	"errors"
	"fmt"

	"github.com/xmidt-org/connexec/xerrors"
)

// AuthFatality signals an authentication failure that must close the
// session. If Loggable is false, the drain loop logs nothing for it (some
// authentication failures are expected client behavior, not incidents worth
// surfacing); if true, it is logged to the user-facing log at warn level.
type AuthFatality struct {
	Loggable bool
	Err      error
}

func (e *AuthFatality) Error() string {
	return fmt.Sprintf("authentication fatality: %v", e.Err)
}

func (e *AuthFatality) Unwrap() error {
	return e.Err
}

// ProtocolBreach signals that the peer violated the wire protocol. Always
// logged to the internal log at error level with the underlying cause.
type ProtocolBreach struct {
	Err error
}

func (e *ProtocolBreach) Error() string {
	return fmt.Sprintf("protocol breach: %v", e.Err)
}

func (e *ProtocolBreach) Unwrap() error {
	return e.Err
}

// Interruption signals a benign, intentional shutdown, returned by a Job's
// Perform. Logged to the internal log at info level.
type Interruption struct {
	Err error
}

func (e *Interruption) Error() string {
	return fmt.Sprintf("interrupted: %v", e.Err)
}

func (e *Interruption) Unwrap() error {
	return e.Err
}

// NoThreadsAvailable is the structured error HandleSchedulingError
// constructs when the worker pool's rejection cause chain contains
// ErrPoolRejected. Its message is meant to be delivered to the client as a
// failure response before close.
type NoThreadsAvailable struct {
	Err error
}

func (e *NoThreadsAvailable) Error() string {
	return "no worker threads available; consider increasing the pool size"
}

func (e *NoThreadsAvailable) Unwrap() error {
	return e.Err
}

// ErrPoolRejected is the sentinel a worker-pool adapter is expected to wrap
// scheduling-rejection causes in, so HandleSchedulingError can distinguish a
// thread-pool exhaustion from any other scheduling failure.
var ErrPoolRejected = errors.New("worker pool rejected scheduling this connection")

// classifySchedulingError inspects t's cause chain (via xerrors.FirstCause,
// adapted unchanged from the teacher's xerrors package) together with a
// direct errors.Is check for ErrPoolRejected, and returns the error
// HandleSchedulingError should hand to machine.MarkFailed.
func classifySchedulingError(t error) error {
	if t == nil {
		return &NoThreadsAvailable{}
	}

	if errors.Is(t, ErrPoolRejected) {
		return &NoThreadsAvailable{Err: t}
	}

	if cause := xerrors.FirstCause(t); cause != nil && errors.Is(cause, ErrPoolRejected) {
		return &NoThreadsAvailable{Err: t}
	}

	return fmt.Errorf("unexpected scheduling failure: %w", t)
}
