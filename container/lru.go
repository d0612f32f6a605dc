package container

import (
	"container/list"

	"github.com/jonwraymond/memokit/key"
)

// LRU evicts the least recently used entry. Lookups and inserts both
// refresh an entry's recency.
type LRU struct {
	t     table
	order *list.List // front = least recently used
}

// NewLRU creates an LRU container holding up to maxsize cost units.
func NewLRU(maxsize int, opts ...Option) *LRU {
	return &LRU{
		t:     newTable(maxsize, newConfig(opts)),
		order: list.New(),
	}
}

func (c *LRU) Lookup(k *key.Key) (any, error) {
	e := c.t.get(k)
	if e == nil {
		return nil, ErrNotFound
	}
	c.order.MoveToBack(e.pos)
	return e.val, nil
}

func (c *LRU) Insert(k *key.Key, v any) error {
	cost := c.t.sizeof(v)
	if err := c.t.admit(cost); err != nil {
		return err
	}
	if e := c.t.get(k); e != nil {
		c.t.size += cost - e.cost
		e.val, e.cost = v, cost
		c.order.MoveToBack(e.pos)
	} else {
		for c.t.overflowing(cost) {
			c.evict()
		}
		e := &entry{key: k, val: v, cost: cost}
		e.pos = c.order.PushBack(e)
		c.t.add(e)
	}
	for c.t.overflowing(0) {
		c.evict()
	}
	return nil
}

func (c *LRU) evict() {
	if front := c.order.Front(); front != nil {
		e := front.Value.(*entry)
		c.order.Remove(front)
		c.t.remove(e)
	}
}

func (c *LRU) Len() int { return c.t.count }

func (c *LRU) Clear() {
	c.t.reset()
	c.order.Init()
}

var _ Container = (*LRU)(nil)
