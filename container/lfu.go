package container

import (
	"github.com/jonwraymond/memokit/key"
)

// LFU evicts the least frequently used entry. Every lookup hit counts as
// one use; insertion counts as the first use. Eviction scans for the
// minimum, which keeps entries free of ordering state at the price of an
// O(n) victim search.
type LFU struct {
	t table
}

// NewLFU creates an LFU container holding up to maxsize cost units.
func NewLFU(maxsize int, opts ...Option) *LFU {
	return &LFU{t: newTable(maxsize, newConfig(opts))}
}

func (c *LFU) Lookup(k *key.Key) (any, error) {
	e := c.t.get(k)
	if e == nil {
		return nil, ErrNotFound
	}
	e.uses++
	return e.val, nil
}

func (c *LFU) Insert(k *key.Key, v any) error {
	cost := c.t.sizeof(v)
	if err := c.t.admit(cost); err != nil {
		return err
	}
	if e := c.t.get(k); e != nil {
		c.t.size += cost - e.cost
		e.val, e.cost = v, cost
	} else {
		for c.t.overflowing(cost) {
			c.evict()
		}
		c.t.add(&entry{key: k, val: v, cost: cost, uses: 1})
	}
	for c.t.overflowing(0) {
		c.evict()
	}
	return nil
}

func (c *LFU) evict() {
	var victim *entry
	for _, bucket := range c.t.buckets {
		for _, e := range bucket {
			if victim == nil || e.uses < victim.uses {
				victim = e
			}
		}
	}
	if victim != nil {
		c.t.remove(victim)
	}
}

func (c *LFU) Len() int { return c.t.count }

func (c *LFU) Clear() { c.t.reset() }

var _ Container = (*LFU)(nil)
