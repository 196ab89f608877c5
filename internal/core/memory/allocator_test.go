package memory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecsforge/internal/core/memory"
)

func TestPoolAllocatorReusesFreedBlocks(t *testing.T) {
	p := memory.NewPoolAllocator(32)
	a, err := p.Alloc(16, 1)
	require.NoError(t, err)
	require.NoError(t, p.Free(a))

	b, err := p.Alloc(16, 1)
	require.NoError(t, err)
	assert.Equal(t, 32, p.Stats().Capacity, "free-list reuse must not grow the arena")
	_ = b
}

func TestPoolAllocatorRejectsOversizeRequest(t *testing.T) {
	p := memory.NewPoolAllocator(8)
	_, err := p.Alloc(16, 1)
	assert.Error(t, err)
}

func TestLinearAllocatorResetRewindsCursor(t *testing.T) {
	l := memory.NewLinearAllocator(64)
	_, err := l.Alloc(40, 1)
	require.NoError(t, err)
	assert.Equal(t, 40, l.Stats().InUse)
	l.Reset()
	assert.Equal(t, 0, l.Stats().InUse)

	_, err = l.Alloc(64, 1)
	assert.NoError(t, err, "after reset, full capacity should be available again")
}

func TestLinearAllocatorExhaustion(t *testing.T) {
	l := memory.NewLinearAllocator(16)
	_, err := l.Alloc(8, 1)
	require.NoError(t, err)
	_, err = l.Alloc(16, 1)
	assert.Error(t, err)
}

func TestVariableAllocatorCoalescesAdjacentFreeBlocks(t *testing.T) {
	v := memory.NewVariableAllocator(64, 100)
	a, err := v.Alloc(16, 1)
	require.NoError(t, err)
	b, err := v.Alloc(16, 1)
	require.NoError(t, err)

	require.NoError(t, v.Free(a))
	require.NoError(t, v.Free(b))

	// After both frees coalesce with the untouched tail, a request for the
	// whole 64-byte arena fits only in the reunified block.
	_, err = v.Alloc(64, 1)
	assert.NoError(t, err)
}

func TestVariableAllocatorDoubleFreeErrors(t *testing.T) {
	v := memory.NewVariableAllocator(32, 0)
	a, err := v.Alloc(8, 1)
	require.NoError(t, err)
	require.NoError(t, v.Free(a))
	assert.Error(t, v.Free(a))
}
