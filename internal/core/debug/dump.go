// Package debug renders execution-order, storage, and query-cache
// reports as tables, adapting the teacher's DumpExecutionOrder (a
// hand-built string in ecs/system_manager.go) into a tabular report via
// github.com/olekukonko/tablewriter.
package debug

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"ecsforge/internal/core/ecs"
)

// ExecutionEntry describes one scheduled system for the dump, in the
// order the scheduler would run it within its bucket.
type ExecutionEntry struct {
	Bucket   string
	Name     ecs.SystemType
	Priority ecs.Priority
	Barriers []ecs.BarrierName
}

// DumpExecutionOrder renders a table of systems, one row per system,
// grouped implicitly by bucket via the Bucket column.
func DumpExecutionOrder(w io.Writer, entries []ExecutionEntry) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Bucket", "System", "Priority", "Barriers"})
	for i, e := range entries {
		barriers := ""
		for j, b := range e.Barriers {
			if j > 0 {
				barriers += ","
			}
			barriers += string(b)
		}
		table.Append([]string{
			fmt.Sprintf("%d", i+1),
			e.Bucket,
			string(e.Name),
			fmt.Sprintf("%d", e.Priority),
			barriers,
		})
	}
	table.Render()
}

// DumpStorageStats renders per-component-type occupancy.
func DumpStorageStats(w io.Writer, stats []ecs.StorageStats) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Component", "Count", "Capacity", "Memory (bytes)"})
	for _, s := range stats {
		table.Append([]string{
			string(s.ComponentType),
			fmt.Sprintf("%d", s.ComponentCount),
			fmt.Sprintf("%d", s.Capacity),
			fmt.Sprintf("%d", s.MemoryUsed),
		})
	}
	table.Render()
}

// DumpQueryStats renders query cache behavior.
func DumpQueryStats(w io.Writer, stats []ecs.QueryStats) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Query", "Hits", "Misses", "Last Built"})
	for _, s := range stats {
		table.Append([]string{
			s.Key,
			fmt.Sprintf("%d", s.Hits),
			fmt.Sprintf("%d", s.Misses),
			s.LastBuilt.Format("15:04:05"),
		})
	}
	table.Render()
}
