package driver

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xmidt-org/connexec/concurrent"
	"github.com/xmidt-org/connexec/drivertest"
)

func newTestDriver(t *testing.T, opts ...Option) (*Driver, *drivertest.FakeStateMachine, *drivertest.FakeOutput, *drivertest.FakeChannel) {
	machine := new(drivertest.FakeStateMachine)
	output := new(drivertest.FakeOutput)
	channel := new(drivertest.FakeChannel)

	output.On("Close").Return(nil).Maybe()
	output.On("Flush").Return(nil).Maybe()
	machine.On("Close").Return(nil).Maybe()
	machine.On("MarkForTermination").Maybe()
	machine.On("ValidateTransaction").Maybe()
	machine.On("MarkFailed", mock.Anything).Maybe()
	machine.On("Interrupt").Maybe()

	d := New("test-id", channel, output, machine, append([]Option{WithMaxBatchSize(3)}, opts...)...)
	return d, machine, output, channel
}

// S1 -- Happy path.
func TestDriverHappyPath(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	d, _, output, _ := newTestDriver(t)
	d.Start()

	var order []int
	d.Enqueue(JobFunc(func(StateMachine) error {
		order = append(order, 1)
		return nil
	}))
	d.Enqueue(JobFunc(func(StateMachine) error {
		order = append(order, 2)
		return nil
	}))

	alive := d.ProcessNextBatch()

	require.True(alive)
	assert.Equal([]int{1, 2}, order)
	output.AssertNumberOfCalls(t, "Flush", 1)
	assert.True(d.Idle())
}

// S2 -- Protocol breach mid-batch.
func TestDriverProtocolBreachMidBatch(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	d, machine, output, _ := newTestDriver(t)
	d.Start()

	var executed []int
	d.Enqueue(JobFunc(func(StateMachine) error {
		executed = append(executed, 1)
		return nil
	}))
	d.Enqueue(JobFunc(func(StateMachine) error {
		executed = append(executed, 2)
		return &ProtocolBreach{Err: errors.New("bad frame")}
	}))
	d.Enqueue(JobFunc(func(StateMachine) error {
		executed = append(executed, 3)
		return nil
	}))

	alive := d.ProcessNextBatch()

	require.False(alive)
	assert.Equal([]int{1, 2}, executed)
	machine.AssertCalled(t, "Close")
	output.AssertCalled(t, "Close")
	assert.True(d.flags.isClosed())
}

// S3 -- Stop while idle.
func TestDriverStopWhileIdle(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	d, machine, _, _ := newTestDriver(t)
	d.Start()

	d.Stop()
	alive := d.ProcessNextBatch()

	require.False(alive)
	machine.AssertCalled(t, "MarkForTermination")
	assert.True(d.flags.isClosed())
}

// S4 -- Idle validation.
func TestDriverIdleValidation(t *testing.T) {
	require := require.New(t)

	machine := new(drivertest.FakeStateMachine)
	output := new(drivertest.FakeOutput)
	channel := new(drivertest.FakeChannel)

	output.On("Flush").Return(nil).Maybe()
	output.On("Close").Return(nil).Maybe()
	machine.On("Close").Return(nil).Maybe()
	machine.On("MarkForTermination").Maybe()

	validated := make(chan struct{}, 1)
	machine.On("ValidateTransaction").Run(func(mock.Arguments) {
		select {
		case validated <- struct{}{}:
		default:
		}
	})

	d := New("idle-id", channel, output, machine, WithMaxBatchSize(3), WithWaitTimeout(30*time.Millisecond))
	d.Start()

	done := make(chan bool, 1)
	go func() {
		done <- d.ProcessNextBatch()
	}()

	select {
	case <-validated:
	case <-time.After(2 * time.Second):
		require.Fail("expected ValidateTransaction to be called while idle")
	}

	d.Enqueue(JobFunc(func(StateMachine) error { return nil }))

	select {
	case alive := <-done:
		require.True(alive)
	case <-time.After(2 * time.Second):
		require.Fail("processNextBatch never returned after enqueue")
	}
}

// S5 -- Scheduling rejection.
func TestDriverHandleSchedulingError(t *testing.T) {
	assert := assert.New(t)

	d, machine, output, _ := newTestDriver(t)
	d.Start()

	d.HandleSchedulingError(ErrPoolRejected)

	machine.AssertCalled(t, "MarkFailed", mock.Anything)
	machine.AssertCalled(t, "Close")
	output.AssertCalled(t, "Close")
	assert.True(d.flags.isClosed())
}

// S6 -- Concurrent producers.
func TestDriverConcurrentProducers(t *testing.T) {
	require := require.New(t)

	d, _, _, _ := newTestDriver(t, WithMaxBatchSize(50))
	d.Start()

	const (
		producers   = 10
		perProducer = 1000
	)

	var (
		mu    sync.Mutex
		count int
	)

	var wg sync.WaitGroup
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				d.Enqueue(JobFunc(func(StateMachine) error {
					mu.Lock()
					count++
					mu.Unlock()
					return nil
				}))
			}
		}()
	}
	require.True(concurrent.WaitTimeout(&wg, 10*time.Second), "producers did not finish enqueueing within the timeout")

	for d.HasPendingJobs() {
		d.ProcessNextBatch()
	}

	require.Equal(producers*perProducer, count)
	require.True(d.Idle())
}

func TestDriverLifecycleListenerFiresOnce(t *testing.T) {
	assert := assert.New(t)

	var created, closed int
	listener := func(e *Event) {
		switch e.Type {
		case EventCreated:
			created++
		case EventClosed:
			closed++
		}
	}

	d, _, _, _ := newTestDriver(t, WithListener(listener))
	d.Start()
	d.Stop()
	d.ProcessNextBatch()

	assert.Equal(1, created)
	assert.Equal(1, closed)
}

func TestDriverCloseIdempotent(t *testing.T) {
	machine := new(drivertest.FakeStateMachine)
	output := new(drivertest.FakeOutput)
	channel := new(drivertest.FakeChannel)

	output.On("Close").Return(nil).Once()
	machine.On("Close").Return(nil).Once()

	d := New("close-id", channel, output, machine)
	d.Close()
	d.Close()

	output.AssertExpectations(t)
	machine.AssertExpectations(t)
}

func TestDriverBatchBound(t *testing.T) {
	require := require.New(t)

	d, _, _, _ := newTestDriver(t, WithMaxBatchSize(2))
	d.Start()

	var executed int
	for i := 0; i < 5; i++ {
		d.Enqueue(JobFunc(func(StateMachine) error {
			executed++
			return nil
		}))
	}

	d.ProcessNextBatch2(2, true)
	require.Equal(2, executed)
}
