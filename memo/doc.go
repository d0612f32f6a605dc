// Package memo turns deterministic functions into cached callables.
//
// A Cached wraps a function together with an eviction-policy container
// from package container: calls are keyed on their arguments, looked up,
// and computed only on miss. Presets bind the six stock policies (FIFO,
// LFU, LRU, MRU, RR, TTL).
//
// The adapter itself is unsynchronized; see WithLock and
// WithSingleflight for concurrent deployments.
package memo
