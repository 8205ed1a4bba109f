package driver

import "github.com/xmidt-org/connexec/clock"

// StateMachine is the opaque protocol state machine owned exclusively by a
// Driver. Perform-driven work mutates its internal state; every method below
// is only ever called from the single thread currently draining a batch,
// except Interrupt, which by contract must be safe to call from any thread,
// and MarkForTermination, which Stop calls from whichever goroutine calls
// Stop.
type StateMachine interface {
	// Interrupt signals this state machine to abort whatever it is currently
	// doing, e.g. a long-running query. It does not touch the driver's queue
	// or flags, and must be safe to call concurrently with Perform.
	Interrupt()

	// MarkForTermination records that the session is being shut down in an
	// orderly fashion, so that subsequent Perform calls can fast-fail.
	MarkForTermination()

	// MarkFailed records a fatal error so that the next drain can emit a
	// failure response to the client before the connection closes.
	MarkFailed(err error)

	// ValidateTransaction gives the state machine a chance to detect and act
	// on an expired or terminated open transaction while the connection is
	// otherwise idle.
	ValidateTransaction()

	// Close releases this state machine's resources. Called at most once,
	// during Driver.Close.
	Close() error
}

// PackOutput is the scoped sink that buffers protocol responses for a
// connection.
type PackOutput interface {
	// Flush writes any buffered responses to the underlying channel. Called
	// at the end of a successful drain.
	Flush() error

	// Close releases this sink's resources. Called at most once, during
	// Driver.Close. Close does not imply Flush.
	Close() error
}

// Channel is the underlying transport a Driver drains jobs on behalf of. It
// is referenced only for identification and addressing; the driver never
// reads or writes the channel directly.
type Channel interface {
	// LocalAddress is the address of this server endpoint of the channel.
	LocalAddress() string

	// RemoteAddress is the address of the connected client.
	RemoteAddress() string

	// RawHandle exposes the underlying transport handle, opaque to the driver.
	RawHandle() interface{}
}

// QueueMonitor is an optional collaborator notified of queue activity.
// Enqueued is called once per Enqueue call; Drained is called once per
// non-empty batch a drain removes from the queue.
type QueueMonitor interface {
	Enqueued(driver *Driver, job Job)
	Drained(driver *Driver, jobs []Job)
}

// NoopQueueMonitor is the default QueueMonitor used when a caller supplies
// none, matching the teacher's consistent "optional collaborator defaults
// to a no-op" pattern (e.g. device's defaultConnectListener).
type NoopQueueMonitor struct{}

func (NoopQueueMonitor) Enqueued(*Driver, Job)   {}
func (NoopQueueMonitor) Drained(*Driver, []Job) {}

// Clock is the millisecond-precision wall clock Driver uses for queue-time
// and processing-time measurements. It is exactly clock.Interface, reused
// as-is so tests can substitute clocktest.Mock.
type Clock = clock.Interface
