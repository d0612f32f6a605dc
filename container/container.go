package container

import (
	"container/list"
	"errors"
	"fmt"

	"github.com/jonwraymond/memokit/key"
)

// Sentinel errors for container operations.
var (
	// ErrNotFound reports a lookup miss.
	ErrNotFound = errors.New("container: key not found")

	// ErrCapacity reports that a single value's cost exceeds the
	// container's total capacity, so it cannot be stored even after
	// evicting everything else.
	ErrCapacity = errors.New("container: value exceeds capacity")
)

// Container is the capability set the memo adapter requires.
//
// Contract:
// - Lookup fails with ErrNotFound when the key is absent.
// - Insert fails with ErrCapacity when the single value cannot fit even
//   after evicting everything else; otherwise it may silently evict other
//   entries per the container's policy.
// - Concurrency: implementations are not internally synchronized.
type Container interface {
	// Lookup returns the value stored under k.
	Lookup(k *key.Key) (any, error)

	// Insert stores v under k, evicting other entries as needed.
	Insert(k *key.Key, v any) error

	// Len returns the current entry count.
	Len() int

	// Clear removes all entries.
	Clear()
}

// SizeOf assigns a storage cost to a value. The default cost is 1 per
// entry, making capacity an entry count.
type SizeOf func(v any) int

// Option tunes a container at construction.
type Option func(*config)

type config struct {
	sizeof SizeOf
}

// WithSizeOf sets the cost function used for capacity accounting.
func WithSizeOf(fn SizeOf) Option {
	return func(c *config) {
		c.sizeof = fn
	}
}

func newConfig(opts []Option) config {
	cfg := config{sizeof: func(any) int { return 1 }}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// entry is one stored (key, value) pair plus per-policy bookkeeping.
type entry struct {
	key  *key.Key
	val  any
	cost int

	// policy bookkeeping; unused fields stay zero
	pos  *list.Element // position in the policy's order list
	exp  *list.Element // position in the TTL expiry list
	uses uint64        // LFU access count
	till int64         // TTL deadline, unix nanoseconds of the clock
}

// table is the hash-bucketed store shared by all policies. Buckets chain
// entries whose keys collide on Sum64; key.Equal resolves collisions.
type table struct {
	buckets map[uint64][]*entry
	count   int
	size    int // summed cost
	maxsize int // <= 0 means unbounded
	sizeof  SizeOf
}

func newTable(maxsize int, cfg config) table {
	return table{
		buckets: make(map[uint64][]*entry),
		maxsize: maxsize,
		sizeof:  cfg.sizeof,
	}
}

func (t *table) get(k *key.Key) *entry {
	for _, e := range t.buckets[k.Sum64()] {
		if e.key.Equal(k) {
			return e
		}
	}
	return nil
}

func (t *table) add(e *entry) {
	h := e.key.Sum64()
	t.buckets[h] = append(t.buckets[h], e)
	t.count++
	t.size += e.cost
}

func (t *table) remove(e *entry) {
	h := e.key.Sum64()
	bucket := t.buckets[h]
	for i, cand := range bucket {
		if cand == e {
			bucket[i] = bucket[len(bucket)-1]
			bucket = bucket[:len(bucket)-1]
			break
		}
	}
	if len(bucket) == 0 {
		delete(t.buckets, h)
	} else {
		t.buckets[h] = bucket
	}
	t.count--
	t.size -= e.cost
}

func (t *table) reset() {
	t.buckets = make(map[uint64][]*entry)
	t.count = 0
	t.size = 0
}

// admit checks that a value of the given cost can be stored at all.
func (t *table) admit(cost int) error {
	if t.maxsize > 0 && cost > t.maxsize {
		return fmt.Errorf("%w: cost %d, capacity %d", ErrCapacity, cost, t.maxsize)
	}
	return nil
}

// overflowing reports whether adding extra cost requires eviction.
func (t *table) overflowing(extra int) bool {
	return t.maxsize > 0 && t.size+extra > t.maxsize
}
