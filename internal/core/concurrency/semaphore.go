// Package concurrency holds the primitives from spec.md §5 that don't
// belong to any one subsystem: a monotonic counting Semaphore, a
// single-reader-guarded Channel, and a lock-free-style MPMC Queue.
package concurrency

import (
	"sync"

	"ecsforge/internal/core/ecs"
)

// Semaphore is a monotonic counting semaphore: Signal(n) only ever raises
// the count, Wait(n) blocks until the count reaches at least n, and Reset
// returns it to zero. This is deliberately not golang.org/x/sync/semaphore
// in disguise — that package models acquire/release (the count goes down
// on acquire), whereas spec.md §5 requires a count that only a
// non-decreasing signal ever raises, with waiters unblocking once any
// threshold is reached. Those are different machines; the monotonic one
// doesn't retrofit onto an acquire/release API without a second counter
// undoing the guarantee, so it's hand-built here (per the stdlib
// justification rule, documented in DESIGN.md).
type Semaphore struct {
	mu      sync.Mutex
	cond    *sync.Cond
	count   int64
	highest int64
}

func NewSemaphore() *Semaphore {
	s := &Semaphore{}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Signal raises the count to n. Per spec.md §8's law, a Signal whose n is
// lower than the highest value ever signaled (since the last Reset)
// returns ecs.CodeSemaphoreNonmonotonic and leaves the count unchanged.
func (s *Semaphore) Signal(n int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n < s.highest {
		return ecs.NewError(ecs.CodeSemaphoreNonmonotonic, "semaphore signal below highest prior value")
	}
	s.count = n
	s.highest = n
	s.cond.Broadcast()
	return nil
}

// Wait blocks until the count reaches at least n.
func (s *Semaphore) Wait(n int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.count < n {
		s.cond.Wait()
	}
}

// Reset returns the semaphore to its zero state, clearing the monotonic floor.
func (s *Semaphore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count = 0
	s.highest = 0
}

// Count returns the current value without blocking.
func (s *Semaphore) Count() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}
