package memo

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// metrics records lookup outcomes on OpenTelemetry counters. A nil
// *metrics is a no-op, so the call path stays branch-free.
type metrics struct {
	hits   metric.Int64Counter
	misses metric.Int64Counter
	attrs  metric.MeasurementOption
}

func newMetrics(meter metric.Meter, name string) *metrics {
	hits, err := meter.Int64Counter(
		"memo.cache.hits",
		metric.WithDescription("Cache lookups served from the container"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil
	}
	misses, err := meter.Int64Counter(
		"memo.cache.misses",
		metric.WithDescription("Cache lookups that invoked the wrapped function"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil
	}
	return &metrics{
		hits:   hits,
		misses: misses,
		attrs:  metric.WithAttributes(attribute.String("function", name)),
	}
}

func (m *metrics) hit() {
	if m == nil {
		return
	}
	m.hits.Add(context.Background(), 1, m.attrs)
}

func (m *metrics) miss() {
	if m == nil {
		return
	}
	m.misses.Add(context.Background(), 1, m.attrs)
}
