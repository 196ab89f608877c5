package concurrency_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecsforge/internal/core/concurrency"
	"ecsforge/internal/core/ecs"
	"ecsforge/internal/core/variant"
)

// Law (spec.md §8): signal(k) then signal(k') with k' > k unblocks any
// waiter with threshold <= k'.
func TestSemaphoreMonotonicSignalUnblocksWaiters(t *testing.T) {
	s := concurrency.NewSemaphore()
	unblocked := make(chan struct{})

	go func() {
		s.Wait(5)
		close(unblocked)
	}()

	require.NoError(t, s.Signal(2))
	select {
	case <-unblocked:
		t.Fatal("waiter on threshold 5 unblocked early by signal(2)")
	case <-time.After(20 * time.Millisecond):
	}

	require.NoError(t, s.Signal(5))
	select {
	case <-unblocked:
	case <-time.After(time.Second):
		t.Fatal("waiter never unblocked after signal(5)")
	}
}

// Law (spec.md §8): signal(k) after signal(k') with k < k' is rejected.
func TestSemaphoreNonmonotonicSignalRejected(t *testing.T) {
	s := concurrency.NewSemaphore()
	require.NoError(t, s.Signal(10))
	err := s.Signal(3)
	require.Error(t, err)
	ecsErr, ok := err.(*ecs.ECSError)
	require.True(t, ok)
	assert.Equal(t, ecs.CodeSemaphoreNonmonotonic, ecsErr.Code)
	assert.Equal(t, int64(10), s.Count(), "rejected signal must leave count unchanged")
}

func TestSemaphoreResetClearsMonotonicFloor(t *testing.T) {
	s := concurrency.NewSemaphore()
	require.NoError(t, s.Signal(10))
	s.Reset()
	assert.Equal(t, int64(0), s.Count())
	require.NoError(t, s.Signal(1), "after reset, a lower signal than the prior floor must be accepted")
}

func TestChannelSingleReaderGuard(t *testing.T) {
	c := concurrency.NewChannel(1)
	blocked := make(chan struct{})
	release := make(chan struct{})
	go func() {
		close(blocked)
		_, _ = c.Read()
		<-release
	}()
	<-blocked
	time.Sleep(10 * time.Millisecond)

	_, err := c.Read()
	assert.Error(t, err, "a second concurrent Read must be rejected")
	close(release)
}

func TestQueueTryWriteTryRead(t *testing.T) {
	q := concurrency.NewQueue(1)
	v, ok := q.TryRead()
	assert.False(t, ok)
	assert.True(t, v.IsNil())

	require.True(t, q.TryWrite(variant.NewInt(7)))
	assert.False(t, q.TryWrite(variant.NewInt(8)), "queue at capacity must reject further writes")

	got, ok := q.TryRead()
	require.True(t, ok)
	n, _ := got.AsInt()
	assert.Equal(t, int64(7), n)
}
