package driver

import (
	"container/list"
	"sync"
	"time"
)

// jobQueue is an unbounded, multi-producer/single-consumer FIFO of
// wrappedJobs. Offer never blocks and never fails, regardless of how many
// elements are already queued: backpressure is the transport layer's
// responsibility, not this queue's. This is the one place connexec diverges
// from the teacher's buffered-channel queuing (device.device's message
// channel) — a channel is bounded by construction and would violate that
// contract at arbitrary depth, so the queue is backed by container/list
// guarded by a mutex and condition variable instead.
type jobQueue struct {
	mu    sync.Mutex
	cond  *sync.Cond
	items list.List
}

func newJobQueue() *jobQueue {
	q := &jobQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// offer appends job to the tail of the queue. It never blocks and always
// succeeds.
func (q *jobQueue) offer(job *wrappedJob) {
	q.mu.Lock()
	q.items.PushBack(job)
	q.mu.Unlock()
	q.cond.Signal()
}

// drainUpTo removes up to n jobs from the head of the queue, returning them
// in FIFO order. For a positive n it returns an empty slice, never nil, if
// the queue was empty; for a non-positive n it returns nil.
func (q *jobQueue) drainUpTo(n int) []*wrappedJob {
	if n <= 0 {
		return nil
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	batch := make([]*wrappedJob, 0, n)
	for len(batch) < n {
		front := q.items.Front()
		if front == nil {
			break
		}

		q.items.Remove(front)
		batch = append(batch, front.Value.(*wrappedJob))
	}

	return batch
}

// pollWithTimeout removes and returns a single job from the head of the
// queue, waiting up to d for one to arrive if the queue is currently empty.
// It returns (nil, false) if no job arrived within d.
func (q *jobQueue) pollWithTimeout(d time.Duration) (*wrappedJob, bool) {
	deadline := time.Now().Add(d)

	q.mu.Lock()
	defer q.mu.Unlock()

	for q.items.Len() == 0 {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, false
		}

		if !q.waitUntil(remaining) {
			if q.items.Len() == 0 {
				return nil, false
			}
		}
	}

	front := q.items.Front()
	q.items.Remove(front)
	return front.Value.(*wrappedJob), true
}

// waitUntil blocks on q.cond for at most d, returning true if it was woken
// by a signal rather than the timeout. The caller must hold q.mu; waitUntil
// releases and reacquires it as part of waiting, in the manner of
// sync.Cond.Wait.
func (q *jobQueue) waitUntil(d time.Duration) bool {
	woken := make(chan struct{})
	timer := time.AfterFunc(d, func() {
		q.mu.Lock()
		close(woken)
		q.cond.Broadcast()
		q.mu.Unlock()
	})
	defer timer.Stop()

	select {
	case <-woken:
		return false
	default:
	}

	q.cond.Wait()

	select {
	case <-woken:
		return false
	default:
		return true
	}
}

func (q *jobQueue) empty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Len() == 0
}
