package memo

import (
	"context"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func counterValue(t *testing.T, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()
	m := findMetric(rm, name)
	if m == nil {
		t.Fatalf("%s metric not found", name)
	}
	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("%s: expected Sum[int64], got %T", name, m.Data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

// TestCached_MeterRecordsOutcomes verifies WithMeter mirrors the
// hit/miss counters onto OpenTelemetry instruments.
func TestCached_MeterRecordsOutcomes(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := mp.Meter("test")

	c := LRU(square, 4, WithMeter(meter))
	callInt(t, c, 2) // miss
	callInt(t, c, 2) // hit
	callInt(t, c, 3) // miss

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect metrics: %v", err)
	}

	if got := counterValue(t, rm, "memo.cache.hits"); got != 1 {
		t.Errorf("memo.cache.hits = %d, want 1", got)
	}
	if got := counterValue(t, rm, "memo.cache.misses"); got != 2 {
		t.Errorf("memo.cache.misses = %d, want 2", got)
	}

	// The otel counters mirror, never replace, the local counters.
	info := c.Info()
	if info.Hits != 1 || info.Misses != 2 {
		t.Errorf("Info = %+v, want 1 hit, 2 misses", info)
	}
}

// TestCached_NoMeterIsNoop verifies the metrics hook stays inert when no
// meter is configured.
func TestCached_NoMeterIsNoop(t *testing.T) {
	c := LRU(square, 4)
	if c.metrics != nil {
		t.Fatal("metrics configured without a meter")
	}
	// The nil receiver paths must not panic.
	c.metrics.hit()
	c.metrics.miss()
}
