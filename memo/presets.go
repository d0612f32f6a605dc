package memo

import (
	"time"

	"github.com/jonwraymond/memokit/container"
)

// The presets bind the one adapter to a stock container each; they are
// otherwise identical.

// FIFO caches up to maxsize results, evicting in insertion order.
func FIFO(fn Func, maxsize int, opts ...Option) *Cached {
	cfg := newConfig(opts)
	return New(fn, container.NewFIFO(maxsize, cfg.containerOpts()...), maxsize, opts...)
}

// LFU caches up to maxsize results, evicting the least frequently used.
func LFU(fn Func, maxsize int, opts ...Option) *Cached {
	cfg := newConfig(opts)
	return New(fn, container.NewLFU(maxsize, cfg.containerOpts()...), maxsize, opts...)
}

// LRU caches up to maxsize results, evicting the least recently used.
func LRU(fn Func, maxsize int, opts ...Option) *Cached {
	cfg := newConfig(opts)
	return New(fn, container.NewLRU(maxsize, cfg.containerOpts()...), maxsize, opts...)
}

// MRU caches up to maxsize results, evicting the most recently used.
func MRU(fn Func, maxsize int, opts ...Option) *Cached {
	cfg := newConfig(opts)
	return New(fn, container.NewMRU(maxsize, cfg.containerOpts()...), maxsize, opts...)
}

// RR caches up to maxsize results, evicting a randomly chosen entry.
// WithChoice overrides the uniform victim selector.
func RR(fn Func, maxsize int, opts ...Option) *Cached {
	cfg := newConfig(opts)
	return New(fn, container.NewRR(maxsize, cfg.choice, cfg.containerOpts()...), maxsize, opts...)
}

// TTL caches up to maxsize results under LRU eviction, each entry
// expiring ttl after insertion. WithClock overrides the time source.
func TTL(fn Func, maxsize int, ttl time.Duration, opts ...Option) *Cached {
	cfg := newConfig(opts)
	return New(fn, container.NewTTL(maxsize, ttl, cfg.clock, cfg.containerOpts()...), maxsize, opts...)
}
