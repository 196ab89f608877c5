package debug_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ecsforge/internal/core/debug"
	"ecsforge/internal/core/ecs"
)

func TestDumpExecutionOrderRendersOneRowPerSystem(t *testing.T) {
	var buf bytes.Buffer
	debug.DumpExecutionOrder(&buf, []debug.ExecutionEntry{
		{Bucket: "A", Name: "integrate", Priority: ecs.PriorityNormal, Barriers: []ecs.BarrierName{"B"}},
		{Bucket: "B", Name: "render", Priority: ecs.PriorityLow},
	})
	out := buf.String()
	assert.Contains(t, out, "integrate")
	assert.Contains(t, out, "render")
}

func TestDumpStorageStatsRendersComponentRows(t *testing.T) {
	var buf bytes.Buffer
	debug.DumpStorageStats(&buf, []ecs.StorageStats{
		{ComponentType: "Pos", ComponentCount: 4, Capacity: 16, MemoryUsed: 384},
	})
	assert.Contains(t, buf.String(), "Pos")
}

func TestDumpQueryStatsRendersRows(t *testing.T) {
	var buf bytes.Buffer
	debug.DumpQueryStats(&buf, []ecs.QueryStats{
		{Key: "Pos+Vel", Hits: 3, Misses: 1, LastBuilt: time.Unix(0, 0)},
	})
	assert.Contains(t, buf.String(), "Pos+Vel")
}
