package container

import (
	"container/list"
	"time"

	"github.com/jonwraymond/memokit/key"
)

// Clock is the time source a TTL container reads. time.Now is the
// default; tests substitute a controllable clock.
type Clock func() time.Time

// TTL combines LRU ordering with a per-entry time to live. Expired
// entries are treated as absent and purged lazily on access. Expiry
// follows insertion order because every entry lives for the same
// duration, so a separate insertion-ordered list tracks deadlines while
// the LRU list tracks recency.
type TTL struct {
	t      table
	ttl    time.Duration
	clock  Clock
	order  *list.List // front = least recently used
	expiry *list.List // front = next to expire
}

// NewTTL creates a TTL container holding up to maxsize cost units, each
// entry living for ttl past its insertion. A nil clock uses time.Now.
func NewTTL(maxsize int, ttl time.Duration, clock Clock, opts ...Option) *TTL {
	if clock == nil {
		clock = time.Now
	}
	return &TTL{
		t:      newTable(maxsize, newConfig(opts)),
		ttl:    ttl,
		clock:  clock,
		order:  list.New(),
		expiry: list.New(),
	}
}

// NewUnboundedTTL creates a TTL container with no capacity bound:
// entries leave only by expiry. It is a building block for expiry-only
// memoization and deliberately has no memo preset.
func NewUnboundedTTL(ttl time.Duration, clock Clock, opts ...Option) *TTL {
	return NewTTL(0, ttl, clock, opts...)
}

func (c *TTL) Lookup(k *key.Key) (any, error) {
	now := c.clock().UnixNano()
	e := c.t.get(k)
	if e == nil {
		return nil, ErrNotFound
	}
	if e.till <= now {
		c.drop(e)
		return nil, ErrNotFound
	}
	c.order.MoveToBack(e.pos)
	return e.val, nil
}

func (c *TTL) Insert(k *key.Key, v any) error {
	cost := c.t.sizeof(v)
	if err := c.t.admit(cost); err != nil {
		return err
	}
	now := c.clock()
	c.expire(now.UnixNano())
	till := now.Add(c.ttl).UnixNano()
	if e := c.t.get(k); e != nil {
		c.t.size += cost - e.cost
		e.val, e.cost, e.till = v, cost, till
		c.order.MoveToBack(e.pos)
		c.expiry.MoveToBack(e.exp)
	} else {
		for c.t.overflowing(cost) {
			c.evict()
		}
		e := &entry{key: k, val: v, cost: cost, till: till}
		e.pos = c.order.PushBack(e)
		e.exp = c.expiry.PushBack(e)
		c.t.add(e)
	}
	for c.t.overflowing(0) {
		c.evict()
	}
	return nil
}

// Len reports the live entry count, purging anything already expired.
func (c *TTL) Len() int {
	c.expire(c.clock().UnixNano())
	return c.t.count
}

func (c *TTL) Clear() {
	c.t.reset()
	c.order.Init()
	c.expiry.Init()
}

// expire removes entries whose deadline has passed. The expiry list is
// deadline-ordered, so the scan stops at the first live entry.
func (c *TTL) expire(now int64) {
	for front := c.expiry.Front(); front != nil; front = c.expiry.Front() {
		e := front.Value.(*entry)
		if e.till > now {
			return
		}
		c.drop(e)
	}
}

// evict removes the least recently used entry.
func (c *TTL) evict() {
	if front := c.order.Front(); front != nil {
		c.drop(front.Value.(*entry))
	}
}

func (c *TTL) drop(e *entry) {
	c.order.Remove(e.pos)
	c.expiry.Remove(e.exp)
	c.t.remove(e)
}

var _ Container = (*TTL)(nil)
