// Package queue implements the unbounded blocking multi-producer/
// multi-consumer FIFO that the parallel scan is built around. Workers are
// simultaneously consumers (of directories to read) and producers (of
// subdirectories they discover), so the queue must never block a push —
// a worker that blocked pushing into a queue it also drains could deadlock
// itself. Termination is detected via quiescence: the queue is empty and
// every expected waiter is parked in Pop.
//
package queue

import (
	"container/list"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Stats is a telemetry snapshot. It is never part of the correctness
// contract — only wait_for_quiescence and the blocked-popper count are.
type Stats struct {
	BlockedPoppers int
	CurrentPushers int
	Length         int
	MaxLenReached  int
}

// Queue is an unbounded FIFO of items of type T, associated with a fixed
// MaxWaiters (the known worker count) that enables quiescence detection.
type Queue[T any] struct {
	mu             sync.Mutex
	items          *list.List
	condMore       *sync.Cond
	condQuiescent  *sync.Cond
	maxWaiters     int
	blockedPoppers int
	curPushers     int
	maxLenReached  int
}

// New creates a queue that expects exactly maxWaiters concurrent poppers.
func New[T any](maxWaiters int) *Queue[T] {
	q := &Queue[T]{
		items:      list.New(),
		maxWaiters: maxWaiters,
	}
	q.condMore = sync.NewCond(&q.mu)
	q.condQuiescent = sync.NewCond(&q.mu)
	return q
}

// Push appends item to the tail and wakes at most one popper. Never blocks.
func (q *Queue[T]) Push(item T) {
	q.mu.Lock()
	q.curPushers++
	q.items.PushBack(item)
	if q.items.Len() > q.maxLenReached {
		q.maxLenReached = q.items.Len()
	}
	q.curPushers--
	q.mu.Unlock()
	q.condMore.Signal()
}

// Pop removes from the head, blocking while the queue is empty. Before
// going to sleep, if the number of currently-blocked poppers has reached
// MaxWaiters, it wakes anyone parked in WaitForQuiescence — the joint
// predicate (queue empty, all workers parked) may already hold.
func (q *Queue[T]) Pop() T {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.blockedPoppers++
	if q.blockedPoppers > q.maxWaiters {
		panic(errors.Wrap(fmt.Errorf("blocked poppers %d exceeds max waiters %d", q.blockedPoppers, q.maxWaiters), "queue invariant breach"))
	}
	for q.items.Len() == 0 {
		if q.blockedPoppers == q.maxWaiters {
			q.condQuiescent.Broadcast()
		}
		q.condMore.Wait()
	}
	front := q.items.Front()
	q.items.Remove(front)
	q.blockedPoppers--
	return front.Value.(T)
}

// WaitForQuiescence blocks until the queue is empty and every worker is
// parked in Pop, or until timeout elapses. It returns (true, false) on
// quiescence and (false, true) on timeout.
func (q *Queue[T]) WaitForQuiescence(timeout time.Duration) (quiescent bool, timedOut bool) {
	deadline := time.Now().Add(timeout)

	q.mu.Lock()
	defer q.mu.Unlock()

	for !(q.items.Len() == 0 && q.blockedPoppers == q.maxWaiters) {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return false, true
		}
		timer := time.AfterFunc(remaining, func() {
			q.mu.Lock()
			q.condQuiescent.Broadcast()
			q.mu.Unlock()
		})
		q.condQuiescent.Wait()
		timer.Stop()
	}
	return true, false
}

// Snapshot returns current liveness telemetry.
func (q *Queue[T]) Snapshot() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return Stats{
		BlockedPoppers: q.blockedPoppers,
		CurrentPushers: q.curPushers,
		Length:         q.items.Len(),
		MaxLenReached:  q.maxLenReached,
	}
}
