package driver

import (
	"errors"
	"time"

	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"

	"github.com/xmidt-org/connexec/clock"
)

// waitForJobsTimeout is how long waitForJobs parks on a single poll before
// giving the state machine a chance to validate its open transaction.
const waitForJobsTimeout = 10 * time.Second

// Option configures a Driver at construction time.
type Option func(*Driver)

// WithMaxBatchSize overrides the batch size processNextBatch's zero-arg form
// uses. Non-positive values are ignored.
func WithMaxBatchSize(n int) Option {
	return func(d *Driver) {
		if n > 0 {
			d.maxBatchSize = n
		}
	}
}

// WithListener registers a lifecycle Listener.
func WithListener(l Listener) Option {
	return func(d *Driver) { d.listeners.Add(l) }
}

// WithQueueMonitor overrides the default NoopQueueMonitor.
func WithQueueMonitor(m QueueMonitor) Option {
	return func(d *Driver) {
		if m != nil {
			d.queueMonitor = m
		}
	}
}

// WithMeasures overrides the default discard-backed Measures.
func WithMeasures(m *Measures) Option {
	return func(d *Driver) {
		if m != nil {
			d.measures = m
		}
	}
}

// WithClock overrides the default system clock. Tests use this to inject
// clocktest.Mock for deterministic queue/processing-time assertions.
func WithClock(c Clock) Option {
	return func(d *Driver) {
		if c != nil {
			d.clock = c
		}
	}
}

// WithWaitTimeout overrides waitForJobs's per-poll timeout, normally
// waitForJobsTimeout (ten seconds). Tests use this to observe idle
// validation behavior without a real ten-second wait.
func WithWaitTimeout(d time.Duration) Option {
	return func(drv *Driver) {
		if d > 0 {
			drv.waitTimeout = d
		}
	}
}

// WithLogger overrides the internal log, used for protocol breaches and
// scheduling errors.
func WithLogger(l *zap.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.log = l
		}
	}
}

// WithUserLogger overrides the user-facing log, used for loggable
// authentication fatalities and unexpected errors.
func WithUserLogger(l *zap.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.userLog = l
		}
	}
}

// Driver is the state machine of a single connection: it owns a Job queue,
// the three lifecycle flags, and the batch-draining logic a worker pool
// invokes via ProcessNextBatch. It is never pinned to its own goroutine --
// by external contract, at most one worker at a time calls ProcessNextBatch
// for a given Driver; the Driver itself takes no internal lock to enforce
// this, so that Interrupt (which must be callable from any thread at any
// time) can never deadlock against it.
type Driver struct {
	id      string
	channel Channel
	output  PackOutput
	machine StateMachine

	queue *jobQueue
	flags *flags

	maxBatchSize int

	listeners    Listeners
	queueMonitor QueueMonitor
	measures     *Measures
	clock        Clock

	// waitTimeout is how long waitForJobs parks on a single poll; it is
	// waitForJobsTimeout in production and shortened by tests that need to
	// observe idle-validation behavior without a real ten-second wait.
	waitTimeout time.Duration

	log     *zap.Logger
	userLog *zap.Logger
}

// New constructs a Driver bound to channel/output/machine, applying any
// supplied Options over sensible defaults: DefaultMaxBatchSize, a
// NoopQueueMonitor, discard-backed Measures, sallust.Default() for both
// logs, and the system clock. New does not call Start; callers must do so
// exactly once before the first ProcessNextBatch.
func New(id string, channel Channel, output PackOutput, machine StateMachine, opts ...Option) *Driver {
	d := &Driver{
		id:           id,
		channel:      channel,
		output:       output,
		machine:      machine,
		queue:        newJobQueue(),
		flags:        newFlags(),
		maxBatchSize: DefaultMaxBatchSize,
		queueMonitor: NoopQueueMonitor{},
		measures:     NewDiscardMeasures(),
		clock:        clock.System(),
		waitTimeout:  waitForJobsTimeout,
		log:          sallust.Default(),
		userLog:      sallust.Default(),
	}

	for _, o := range opts {
		o(d)
	}

	return d
}

// Start notifies the lifecycle listener of creation and the metrics emitter
// of connection-opened. Idempotence is not required; callers invoke it
// exactly once.
func (d *Driver) Start() {
	d.listeners.Dispatch(&Event{Type: EventCreated, Driver: d})
	d.measures.ConnectionOpened.Inc()
}

// Enqueue records a receive timestamp, wraps job so its execution emits
// queue-time and processing-time measurements, and offers it to the queue.
// Enqueue never blocks and never fails; it is safe to call from any
// producer thread, concurrently with other Enqueue calls and with the
// drain thread's ProcessNextBatch.
func (d *Driver) Enqueue(job Job) {
	d.enqueueInternal(job)
}

func (d *Driver) enqueueInternal(job Job) {
	wrapped := &wrappedJob{job: job, enqueuedAt: d.clock.Now()}
	d.measures.MessageReceived.Inc()
	d.queue.offer(wrapped)
	d.queueMonitor.Enqueued(d, job)
	d.listeners.Dispatch(&Event{Type: EventEnqueued, Driver: d})
}

// perform executes wrapped against d.machine, emitting the queue-time and
// processing-time measurements spec.md's enqueue contract describes. Any
// error from job.Perform propagates to the caller after
// messageProcessingFailed is emitted.
func (d *Driver) perform(wrapped *wrappedJob) error {
	queueTime := d.clock.Now().Sub(wrapped.enqueuedAt)
	d.measures.MessageProcessingStarted.Inc()
	d.measures.QueueTime.Observe(float64(queueTime.Milliseconds()))

	start := d.clock.Now()
	err := wrapped.job.Perform(d.machine)
	processingTime := d.clock.Now().Sub(start)

	if err != nil {
		d.measures.MessageProcessingFailed.Inc()
		return err
	}

	d.measures.MessageProcessingCompleted.Inc()
	d.measures.ProcessingTime.Observe(float64(processingTime.Milliseconds()))
	return nil
}

// ProcessNextBatch is equivalent to ProcessNextBatch2(d.maxBatchSize, false).
func (d *Driver) ProcessNextBatch() bool {
	return d.ProcessNextBatch2(d.maxBatchSize, false)
}

// ProcessNextBatch2 is the single entry point the worker pool uses. It sets
// idle=false, emits connectionActivated, runs the drain loop, emits
// connectionClosed if the loop decided to terminate, in all cases restores
// idle=true and emits connectionWaiting, and returns true iff the
// connection is still alive.
//
// Named ProcessNextBatch2 rather than an overload (Go has none) to keep the
// zero-arg ProcessNextBatch as the name spec.md and callers most commonly
// use.
func (d *Driver) ProcessNextBatch2(n int, exitIfNoJobs bool) bool {
	d.flags.setIdle(false)
	d.measures.ConnectionActivated.Inc()

	d.drain(n, exitIfNoJobs)

	if d.flags.isShouldClose() {
		d.close()
	}

	d.flags.setIdle(true)
	d.measures.ConnectionWaiting.Inc()

	return !d.flags.isClosed()
}

// drain is the heart of the design: it removes and executes up to n jobs
// from the queue, stopping early if shouldClose is observed, and flushes
// output unconditionally once it stops looping.
//
// The first pass always runs, even against an observably empty queue: this
// is what lets processNextBatch(_, exitIfNoJobs=false) block in waitForJobs
// and drive periodic machine.ValidateTransaction calls on an otherwise idle
// connection (spec.md §8's idle-validation property). Later passes continue
// only while the queue still looks non-empty and budget remains -- once a
// pass empties the queue, drain stops rather than parking for more work,
// which is what lets processNextBatch return promptly when fewer than
// maxBatchSize jobs were available.
//
// flush runs after the loop regardless of how it exited -- including a
// break triggered by shouldClose already being set (e.g. Stop was called
// concurrently) -- and is skipped only by the early return on a job error,
// per spec.md §9's subtlety that flush is a success-path-only step and
// exception paths reach close via the teardown sequence instead.
func (d *Driver) drain(n int, exitIfNoJobs bool) {
	remaining := n

	for first := true; first || (!d.queue.empty() && remaining > 0); first = false {
		if d.flags.isShouldClose() {
			break
		}

		batch := d.queue.drainUpTo(remaining)

		if len(batch) == 0 {
			if exitIfNoJobs {
				break
			}

			job, ok := d.waitForJobs()
			if !ok {
				break
			}

			batch = append(batch, job)
		}

		jobs := make([]Job, len(batch))
		for i, w := range batch {
			jobs[i] = w.job
		}

		d.queueMonitor.Drained(d, jobs)
		d.listeners.Dispatch(&Event{Type: EventDrained, Driver: d, BatchSize: len(batch)})

		remaining -= len(batch)

		for _, wrapped := range batch {
			if err := d.perform(wrapped); err != nil {
				d.handleJobError(err)
				return
			}
		}
	}

	if err := d.output.Flush(); err != nil {
		d.handleJobError(err)
	}
}

// handleJobError classifies err per spec.md §4.2/§7's exception table,
// forces shouldClose, and logs to the appropriate channel at the
// appropriate level.
func (d *Driver) handleJobError(err error) {
	d.flags.setShouldClose()

	var (
		auth        *AuthFatality
		breach      *ProtocolBreach
		interrupted *Interruption
	)

	switch {
	case errors.As(err, &auth):
		if auth.Loggable {
			d.userLog.Warn("authentication fatality", zap.String("id", d.id), zap.Error(auth.Err))
		}

	case errors.As(err, &breach):
		d.log.Error("protocol breach", zap.String("id", d.id), zap.Error(breach.Err))

	case errors.As(err, &interrupted):
		d.log.Info("interrupted", zap.String("id", d.id), zap.Error(interrupted.Err))

	default:
		d.userLog.Error("unexpected error", zap.String("id", d.id), zap.Error(err))
	}
}

// waitForJobs is called when drainUpTo returned nothing because the queue
// transiently appeared non-empty, or because the loop entered with an
// empty queue and exitIfNoJobs=false. It polls the queue with a ten-second
// timeout; if an element arrives, it is returned directly for the caller to
// append to its batch. Otherwise it calls machine.ValidateTransaction to
// let the state machine detect an expired or terminated open transaction,
// and loops. It exits when a job arrives or shouldClose is set.
func (d *Driver) waitForJobs() (*wrappedJob, bool) {
	for !d.flags.isShouldClose() {
		if job, ok := d.queue.pollWithTimeout(d.waitTimeout); ok {
			return job, true
		}

		d.machine.ValidateTransaction()
	}

	return nil, false
}

// Stop atomically sets shouldClose (if previously false): marks the state
// machine for termination, then enqueues an empty sentinel job. The
// sentinel wakes a drain parked in waitForJobs and leaves the queue
// non-empty so that close runs on the worker thread. A drain that starts
// after Stop observes shouldClose and breaks without performing the jobs
// still queued.
func (d *Driver) Stop() {
	if !d.flags.setShouldClose() {
		return
	}

	d.machine.MarkForTermination()
	d.enqueueInternal(emptyJob{})
}

// Interrupt forwards to machine.Interrupt. Intended for fast cancellation
// of a currently-running job (e.g. a long query); it does not touch the
// queue or the flags, and must be safe to call from any thread at any time.
func (d *Driver) Interrupt() {
	d.machine.Interrupt()
}

// HandleSchedulingError is invoked by the worker pool when it failed to
// schedule this connection. If not already closing, it classifies the
// cause (distinguishing thread-pool exhaustion via ErrPoolRejected from any
// other scheduling failure), marks the state machine failed so the next
// drain emits a failure response, logs to both the internal and user logs,
// forces a single-job drain on the caller's thread (exitIfNoJobs=true
// avoids the ten-second park when the queue is empty, and shouldClose is
// deliberately not yet set so that the drain runs one queued job rather
// than breaking out before performing any), then sets shouldClose and
// closes the connection.
//
// Preserved from spec.md §9: close is called unconditionally after the
// single-job drain, even though that drain may already have closed the
// connection if a queued job happened to be fatal. Correctness relies on
// close's idempotence, guaranteed by flags.setClosed's compare-and-swap.
func (d *Driver) HandleSchedulingError(t error) {
	if d.flags.isShouldClose() {
		return
	}

	classified := classifySchedulingError(t)
	d.machine.MarkFailed(classified)

	d.log.Error("scheduling error", zap.String("id", d.id), zap.Error(classified))
	d.userLog.Error("scheduling error", zap.String("id", d.id), zap.Error(classified))

	d.ProcessNextBatch2(1, true)

	d.flags.setShouldClose()
	d.close()
}

// Close is idempotent via the closed flag. It closes output then machine,
// swallowing and logging any error from either, then fires the lifecycle
// closed event and emits connectionClosed. Exposed publicly so a worker
// pool adapter can force teardown outside the normal drain path if needed;
// the drain loop calls the unexported close for its own termination.
func (d *Driver) Close() {
	d.close()
}

func (d *Driver) close() {
	if !d.flags.setClosed() {
		return
	}

	if err := d.output.Close(); err != nil {
		d.log.Error("error closing output", zap.String("id", d.id), zap.Error(err))
	}

	if err := d.machine.Close(); err != nil {
		d.log.Error("error closing state machine", zap.String("id", d.id), zap.Error(err))
	}

	d.measures.ConnectionClosed.Inc()
	d.listeners.Dispatch(&Event{Type: EventClosed, Driver: d})
}

// Idle is true only when no drain is in progress and the queue is empty --
// the composite "nothing is happening here" test used by external
// sweepers.
func (d *Driver) Idle() bool {
	return d.flags.isIdle() && d.queue.empty()
}

// HasPendingJobs reports whether the queue currently holds any jobs.
func (d *Driver) HasPendingJobs() bool {
	return !d.queue.empty()
}

// LocalAddress returns the server-side address of the underlying channel.
func (d *Driver) LocalAddress() string {
	return d.channel.LocalAddress()
}

// RemoteAddress returns the client-side address of the underlying channel.
func (d *Driver) RemoteAddress() string {
	return d.channel.RemoteAddress()
}

// Channel returns the underlying transport.
func (d *Driver) Channel() Channel {
	return d.channel
}

// Output returns the scoped response sink.
func (d *Driver) Output() PackOutput {
	return d.output
}

// ID returns this connection's stable identifier.
func (d *Driver) ID() string {
	return d.id
}
