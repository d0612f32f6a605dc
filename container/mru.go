package container

import (
	"container/list"

	"github.com/jonwraymond/memokit/key"
)

// MRU evicts the most recently used entry, which suits access patterns
// where the most recent key is the least likely to repeat.
type MRU struct {
	t     table
	order *list.List // front = most recently used
}

// NewMRU creates an MRU container holding up to maxsize cost units.
func NewMRU(maxsize int, opts ...Option) *MRU {
	return &MRU{
		t:     newTable(maxsize, newConfig(opts)),
		order: list.New(),
	}
}

func (c *MRU) Lookup(k *key.Key) (any, error) {
	e := c.t.get(k)
	if e == nil {
		return nil, ErrNotFound
	}
	c.order.MoveToFront(e.pos)
	return e.val, nil
}

func (c *MRU) Insert(k *key.Key, v any) error {
	cost := c.t.sizeof(v)
	if err := c.t.admit(cost); err != nil {
		return err
	}
	if e := c.t.get(k); e != nil {
		c.t.size += cost - e.cost
		e.val, e.cost = v, cost
		c.order.MoveToFront(e.pos)
		for c.t.overflowing(0) {
			c.evictOther(e)
		}
		return nil
	}
	// Evict before inserting so the incoming entry, which becomes the
	// most recently used, is not its own victim.
	for c.t.overflowing(cost) {
		c.evictOther(nil)
	}
	e := &entry{key: k, val: v, cost: cost}
	e.pos = c.order.PushFront(e)
	c.t.add(e)
	return nil
}

// evictOther removes the most recently used entry, skipping keep.
func (c *MRU) evictOther(keep *entry) {
	front := c.order.Front()
	if front == nil {
		return
	}
	e := front.Value.(*entry)
	if e == keep {
		next := front.Next()
		if next == nil {
			return
		}
		e = next.Value.(*entry)
	}
	c.order.Remove(e.pos)
	c.t.remove(e)
}

func (c *MRU) Len() int { return c.t.count }

func (c *MRU) Clear() {
	c.t.reset()
	c.order.Init()
}

var _ Container = (*MRU)(nil)
