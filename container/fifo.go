package container

import (
	"container/list"

	"github.com/jonwraymond/memokit/key"
)

// FIFO evicts entries in insertion order, oldest first. Lookups do not
// affect eviction order.
type FIFO struct {
	t     table
	order *list.List // front = oldest
}

// NewFIFO creates a FIFO container holding up to maxsize cost units.
func NewFIFO(maxsize int, opts ...Option) *FIFO {
	return &FIFO{
		t:     newTable(maxsize, newConfig(opts)),
		order: list.New(),
	}
}

func (c *FIFO) Lookup(k *key.Key) (any, error) {
	e := c.t.get(k)
	if e == nil {
		return nil, ErrNotFound
	}
	return e.val, nil
}

func (c *FIFO) Insert(k *key.Key, v any) error {
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
		e := &entry{key: k, val: v, cost: cost}
		e.pos = c.order.PushBack(e)
		c.t.add(e)
	}
	for c.t.overflowing(0) {
		c.evict()
	}
	return nil
}

func (c *FIFO) evict() {
	if front := c.order.Front(); front != nil {
		e := front.Value.(*entry)
		c.order.Remove(front)
		c.t.remove(e)
	}
}

func (c *FIFO) Len() int { return c.t.count }

func (c *FIFO) Clear() {
	c.t.reset()
	c.order.Init()
}

var _ Container = (*FIFO)(nil)
