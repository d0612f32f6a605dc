package memo

import (
	"sync"

	"go.opentelemetry.io/otel/metric"

	"github.com/jonwraymond/memokit/container"
	"github.com/jonwraymond/memokit/key"
)

// Option tunes a cached function at construction.
type Option func(*config)

type config struct {
	typed  bool
	keyfn  key.Func
	name   string
	lock   sync.Locker
	flight bool
	meter  metric.Meter

	// container construction parameters, consumed by the presets
	clock  container.Clock
	choice container.Choice
	sizeof container.SizeOf
}

func newConfig(opts []Option) config {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// keyFunc resolves the key generator: an explicit one wins, otherwise
// typed or untyped per WithTyped.
func (cfg config) keyFunc() key.Func {
	switch {
	case cfg.keyfn != nil:
		return cfg.keyfn
	case cfg.typed:
		return key.TypedKV
	default:
		return key.HashKV
	}
}

func (cfg config) containerOpts() []container.Option {
	var opts []container.Option
	if cfg.sizeof != nil {
		opts = append(opts, container.WithSizeOf(cfg.sizeof))
	}
	return opts
}

// WithTyped makes argument runtime types part of cache identity, so
// values equal in value but different in type occupy distinct entries.
func WithTyped() Option {
	return func(cfg *config) {
		cfg.typed = true
	}
}

// WithKeyFunc replaces the key generator entirely, overriding WithTyped.
// key.Method and key.TypedMethod are the stock choices for caching
// bound-method calls.
func WithKeyFunc(fn key.Func) Option {
	return func(cfg *config) {
		cfg.keyfn = fn
	}
}

// WithName overrides the wrapped function's reported name.
func WithName(name string) Option {
	return func(cfg *config) {
		cfg.name = name
	}
}

// WithLock guards the full lookup/compute/insert/count sequence with l,
// making the cached function safe for concurrent use at the cost of
// serializing computes.
func WithLock(l sync.Locker) Option {
	return func(cfg *config) {
		cfg.lock = l
	}
}

// WithSingleflight makes the cached function safe for concurrent use
// with short critical sections: a lock (the WithLock one, or an internal
// mutex) guards only lookup and insert, while duplicate concurrent
// misses for the same key collapse into one computation. Unlike
// WithLock alone, the function runs outside the lock.
func WithSingleflight() Option {
	return func(cfg *config) {
		cfg.flight = true
	}
}

// WithMeter records hits and misses on OpenTelemetry counters, tagged
// with the function name.
func WithMeter(m metric.Meter) Option {
	return func(cfg *config) {
		cfg.meter = m
	}
}

// WithClock sets the time source for the TTL preset.
func WithClock(c container.Clock) Option {
	return func(cfg *config) {
		cfg.clock = c
	}
}

// WithChoice sets the victim selector for the RR preset.
func WithChoice(c container.Choice) Option {
	return func(cfg *config) {
		cfg.choice = c
	}
}

// WithSizeOf sets the cost function the preset's container uses for
// capacity accounting; the default cost is 1 per entry.
func WithSizeOf(fn container.SizeOf) Option {
	return func(cfg *config) {
		cfg.sizeof = fn
	}
}
