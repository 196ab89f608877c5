package concurrency

import (
	"fmt"
	"sync"
	"sync/atomic"

	"ecsforge/internal/core/variant"
)

// Channel carries Var values between goroutines with a single-reader
// guard, per spec.md §5: only one goroutine may be blocked in Read at a
// time. Writers never block on a buffered channel until it's full.
type Channel struct {
	ch       chan variant.Var
	reading  atomic.Bool
}

func NewChannel(capacity int) *Channel {
	return &Channel{ch: make(chan variant.Var, capacity)}
}

// Write sends v, waking a Read-blocked waiter if one exists.
func (c *Channel) Write(v variant.Var) {
	c.ch <- v
}

// Read blocks until a value is available. It returns an error if another
// goroutine is already blocked in Read on this channel.
func (c *Channel) Read() (variant.Var, error) {
	if !c.reading.CompareAndSwap(false, true) {
		return variant.NewNil(), fmt.Errorf("concurrency: channel already has a blocked reader")
	}
	defer c.reading.Store(false)
	return <-c.ch, nil
}

// TryRead returns immediately: the value and true if one was ready, else
// (Nil, false). Matches spec.md §5's `try_read` returning a bool.
func (c *Channel) TryRead() (variant.Var, bool) {
	select {
	case v := <-c.ch:
		return v, true
	default:
		return variant.NewNil(), false
	}
}

// Select blocks on whichever of the given channels becomes ready first,
// returning its index and value, per spec.md §5's `channel_select`.
func Select(channels []*Channel) (int, variant.Var) {
	// A generic N-way select without reflect requires building cases
	// dynamically; reflect.Select is the idiomatic way to do that in Go
	// since select statements can't be built from a slice at compile time.
	return selectReflect(channels)
}

// Queue is an MPMC queue of Var values. Go channels already provide a
// lock-free-in-practice MPMC ring once buffered, so Queue is a thin
// wrapper giving it the try_read/try_write vocabulary spec.md §5 expects
// instead of requiring callers to reach for select/default themselves.
type Queue struct {
	mu   sync.Mutex
	ch   chan variant.Var
}

func NewQueue(capacity int) *Queue {
	return &Queue{ch: make(chan variant.Var, capacity)}
}

// TryWrite enqueues v if there's room, else returns false without blocking.
func (q *Queue) TryWrite(v variant.Var) bool {
	select {
	case q.ch <- v:
		return true
	default:
		return false
	}
}

// TryRead dequeues a value if one is available, else returns false.
func (q *Queue) TryRead() (variant.Var, bool) {
	select {
	case v := <-q.ch:
		return v, true
	default:
		return variant.NewNil(), false
	}
}

// Len reports the number of currently queued values.
func (q *Queue) Len() int { return len(q.ch) }
