package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecsforge/internal/core/ecs"
	"ecsforge/internal/core/metrics"
)

func TestObserveStorageSetsGaugePerComponent(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.ObserveStorage([]ecs.StorageStats{
		{ComponentType: "Pos", ComponentCount: 3, Capacity: 8, MemoryUsed: 96},
	})

	var out dto.Metric
	require.NoError(t, m.ComponentCount.WithLabelValues("Pos").Write(&out))
	assert.Equal(t, float64(3), out.GetGauge().GetValue())
}

func TestRecordSystemErrorIncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.RecordSystemError("integrate")
	m.RecordSystemError("integrate")

	var out dto.Metric
	require.NoError(t, m.SystemErrors.WithLabelValues("integrate").Write(&out))
	assert.Equal(t, float64(2), out.GetCounter().GetValue())
}
