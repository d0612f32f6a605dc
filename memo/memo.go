package memo

import (
	"errors"
	"reflect"
	"runtime"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/memokit/container"
	"github.com/jonwraymond/memokit/key"
)

// Func is the shape of a memoizable function: deterministic in its
// positional arguments. Use Func1/Func2 to adapt statically typed
// functions, or KVFunc for functions taking keyword arguments.
type Func func(args ...any) (any, error)

// KVFunc is a memoizable function taking positional and keyword
// arguments.
type KVFunc func(args []any, kw key.KV) (any, error)

// Stats is a point-in-time snapshot of a cached function's counters.
// Currsize is read live from the container at snapshot time; Maxsize is
// fixed at construction.
type Stats struct {
	Hits     uint64
	Misses   uint64
	Maxsize  int
	Currsize int
}

// Cached is a function wrapped with lookup-or-compute-and-store caching.
//
// Contract:
// - A hit returns the stored value without invoking the function.
// - A miss invokes the function; its error propagates unmodified, is
//   never cached, and adjusts no counter beyond the recorded miss.
// - An insert rejected for exceeding total capacity is swallowed; the
//   computed result is still returned, just not cached.
// - Unsynchronized by default: the counters and the lookup/insert
//   sequence race under concurrent use unless WithLock is set or the
//   container serializes access.
type Cached struct {
	fn      KVFunc
	name    string
	cont    container.Container
	keyfn   key.Func
	maxsize int

	lock    sync.Locker
	flight  *singleflight.Group
	metrics *metrics

	hits   uint64
	misses uint64
}

// New wraps fn with caching against cont. maxsize is reported through
// Info and should match the container's capacity.
func New(fn Func, cont container.Container, maxsize int, opts ...Option) *Cached {
	kv := func(args []any, _ key.KV) (any, error) {
		return fn(args...)
	}
	return newCached(kv, funcName(fn), cont, maxsize, opts)
}

// NewKV is New for functions taking keyword arguments.
func NewKV(fn KVFunc, cont container.Container, maxsize int, opts ...Option) *Cached {
	return newCached(fn, funcName(fn), cont, maxsize, opts)
}

func newCached(fn KVFunc, name string, cont container.Container, maxsize int, opts []Option) *Cached {
	cfg := newConfig(opts)
	if cfg.name != "" {
		name = cfg.name
	}
	c := &Cached{
		fn:      fn,
		name:    name,
		cont:    cont,
		keyfn:   cfg.keyFunc(),
		maxsize: maxsize,
		lock:    cfg.lock,
	}
	if cfg.flight {
		c.flight = &singleflight.Group{}
		if c.lock == nil {
			c.lock = &sync.Mutex{}
		}
	}
	if cfg.meter != nil {
		c.metrics = newMetrics(cfg.meter, c.name)
	}
	return c
}

// Call invokes the cached function with positional arguments.
func (c *Cached) Call(args ...any) (any, error) {
	return c.CallKV(args, nil)
}

// CallKV invokes the cached function with positional and keyword
// arguments. Keyword order does not affect the cache key.
func (c *Cached) CallKV(args []any, kw key.KV) (any, error) {
	k, err := c.keyfn(args, kw)
	if err != nil {
		// Unhashable argument: the call never reaches the cache or
		// the wrapped function.
		return nil, err
	}
	if c.flight != nil {
		return c.callFlight(k, args, kw)
	}

	if c.lock != nil {
		c.lock.Lock()
		defer c.lock.Unlock()
	}

	v, err := c.cont.Lookup(k)
	switch {
	case err == nil:
		c.hits++
		c.metrics.hit()
		return v, nil
	case !errors.Is(err, container.ErrNotFound):
		return nil, err
	}
	c.misses++
	c.metrics.miss()

	v, err = c.fn(args, kw)
	if err != nil {
		return nil, err
	}

	if err := c.cont.Insert(k, v); err != nil && !errors.Is(err, container.ErrCapacity) {
		return nil, err
	}
	return v, nil
}

// callFlight is the singleflight call path: the lock guards only the
// container and the counters, and equal keys share one in-flight
// computation. The canonical key encoding is injective, so distinct
// calls never share a flight.
func (c *Cached) callFlight(k *key.Key, args []any, kw key.KV) (any, error) {
	c.lock.Lock()
	v, err := c.cont.Lookup(k)
	switch {
	case err == nil:
		c.hits++
		c.lock.Unlock()
		c.metrics.hit()
		return v, nil
	case !errors.Is(err, container.ErrNotFound):
		c.lock.Unlock()
		return nil, err
	}
	c.misses++
	c.lock.Unlock()
	c.metrics.miss()

	v, err, _ = c.flight.Do(string(k.Canonical(nil)), func() (any, error) {
		return c.fn(args, kw)
	})
	if err != nil {
		return nil, err
	}

	c.lock.Lock()
	ierr := c.cont.Insert(k, v)
	c.lock.Unlock()
	if ierr != nil && !errors.Is(ierr, container.ErrCapacity) {
		return nil, ierr
	}
	return v, nil
}

// Info returns a snapshot of the cache counters and sizes.
func (c *Cached) Info() Stats {
	if c.lock != nil {
		c.lock.Lock()
		defer c.lock.Unlock()
	}
	return Stats{
		Hits:     c.hits,
		Misses:   c.misses,
		Maxsize:  c.maxsize,
		Currsize: c.cont.Len(),
	}
}

// Clear empties the container and resets both counters.
func (c *Cached) Clear() {
	if c.lock != nil {
		c.lock.Lock()
		defer c.lock.Unlock()
	}
	c.cont.Clear()
	c.hits = 0
	c.misses = 0
}

// Name returns the wrapped function's name, preserved for introspection.
func (c *Cached) Name() string { return c.name }

func (c *Cached) String() string { return "memo.Cached(" + c.name + ")" }

func funcName(fn any) string {
	pc := reflect.ValueOf(fn).Pointer()
	if f := runtime.FuncForPC(pc); f != nil {
		return f.Name()
	}
	return "func"
}
