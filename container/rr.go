package container

import (
	"math/rand"

	"github.com/jonwraymond/memokit/key"
)

// Choice selects the eviction victim from the candidate keys. The slice
// is never empty and may be reordered by the callee.
type Choice func(keys []*key.Key) *key.Key

// RR evicts a randomly chosen entry. The victim is picked by the
// container's choice function, uniform by default.
type RR struct {
	t      table
	choice Choice
}

// NewRR creates a random-replacement container holding up to maxsize
// cost units. A nil choice selects uniformly.
func NewRR(maxsize int, choice Choice, opts ...Option) *RR {
	if choice == nil {
		choice = func(keys []*key.Key) *key.Key {
			return keys[rand.Intn(len(keys))]
		}
	}
	return &RR{t: newTable(maxsize, newConfig(opts)), choice: choice}
}

func (c *RR) Lookup(k *key.Key) (any, error) {
	e := c.t.get(k)
	if e == nil {
		return nil, ErrNotFound
	}
	return e.val, nil
}

func (c *RR) Insert(k *key.Key, v any) error {
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
		c.t.add(&entry{key: k, val: v, cost: cost})
	}
	for c.t.overflowing(0) {
		c.evict()
	}
	return nil
}

func (c *RR) evict() {
	if c.t.count == 0 {
		return
	}
	keys := make([]*key.Key, 0, c.t.count)
	for _, bucket := range c.t.buckets {
		for _, e := range bucket {
			keys = append(keys, e.key)
		}
	}
	victim := c.t.get(c.choice(keys))
	if victim == nil {
		// Choice returned a foreign key; fall back to a resident one
		// rather than loop without progress.
		victim = c.t.get(keys[0])
	}
	c.t.remove(victim)
}

func (c *RR) Len() int { return c.t.count }

func (c *RR) Clear() { c.t.reset() }

var _ Container = (*RR)(nil)
