package session

import (
	"container/list"

	"github.com/evergreen-ils/osrf-go/core/bus"
)

// threadCache records the first reply address observed for a thread, so
// subsequent frames on that thread route point-to-point instead of via the
// router. It is bounded at maxSize, evicting the oldest entry on overflow
// so a client opening unbounded threads cannot grow the gateway's memory.
// Not safe for concurrent use: only the session's main goroutine ever
// touches it.
type threadCache struct {
	maxSize int
	order   *list.List // front = oldest
	entries map[string]*list.Element
}

type threadCacheEntry struct {
	thread string
	addr   bus.Address
}

func newThreadCache(maxSize int) *threadCache {
	return &threadCache{
		maxSize: maxSize,
		order:   list.New(),
		entries: make(map[string]*list.Element),
	}
}

// Put records addr as the recipient for thread, evicting the oldest entry
// if the cache would otherwise exceed maxSize.
func (c *threadCache) Put(thread string, addr bus.Address) {
	if el, ok := c.entries[thread]; ok {
		c.order.MoveToBack(el)
		el.Value.(*threadCacheEntry).addr = addr
		return
	}

	el := c.order.PushBack(&threadCacheEntry{thread: thread, addr: addr})
	c.entries[thread] = el

	for c.order.Len() > c.maxSize && c.maxSize > 0 {
		oldest := c.order.Front()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*threadCacheEntry).thread)
	}
}

// Get returns the cached recipient for thread, if any.
func (c *threadCache) Get(thread string) (bus.Address, bool) {
	el, ok := c.entries[thread]
	if !ok {
		return bus.Address{}, false
	}
	return el.Value.(*threadCacheEntry).addr, true
}

// Evict removes thread's cache entry, a no-op if none exists.
func (c *threadCache) Evict(thread string) {
	el, ok := c.entries[thread]
	if !ok {
		return
	}
	c.order.Remove(el)
	delete(c.entries, thread)
}

// Len reports the number of cached entries.
func (c *threadCache) Len() int {
	return c.order.Len()
}
