package driver

import "time"

// Job is a unit of protocol work executed against a StateMachine. It is opaque
// to the driver: the driver never inspects a Job's contents, only invokes
// Perform on the single thread currently draining a batch.
type Job interface {
	// Perform executes this job's protocol step against machine. Implementations
	// that need to signal a fatal condition should return one of the typed
	// errors in this package (AuthFatality, ProtocolBreach, Interruption) so that
	// the drain loop logs and terminates correctly; any other error is treated
	// as Unexpected.
	Perform(machine StateMachine) error
}

// JobFunc adapts a plain function to the Job interface, mirroring the
// FilterFunc-style function adapters used elsewhere for single-method
// collaborators.
type JobFunc func(StateMachine) error

// Perform invokes f.
func (f JobFunc) Perform(machine StateMachine) error {
	return f(machine)
}

// emptyJob is the sentinel enqueued by Stop to wake a drain parked in
// waitForJobs. Its Perform is a no-op; the drain loop never routes it to
// the state machine as meaningful work, it merely exists so the queue is
// non-empty.
type emptyJob struct{}

func (emptyJob) Perform(StateMachine) error {
	return nil
}

// wrappedJob is the internal representation placed onto the queue by Enqueue.
// It decorates the caller's Job with the bookkeeping processNextBatch needs to
// emit queue-time and processing-time measurements.
type wrappedJob struct {
	job        Job
	enqueuedAt time.Time
}
