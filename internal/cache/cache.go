// Package cache implements the async, deduplicating, bounded cache used for
// all three tiers of the contour pipeline (raw bytes, decoded grids,
// rendered MVT): concurrent callers requesting the same key share one
// in-flight producer call, and cooperative cancellation only reaches the
// producer once every caller has dropped out.
package cache

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Producer computes the value for key. It is invoked at most once per
// cache miss regardless of how many concurrent Get calls are waiting on it.
type Producer[K comparable, V any] func(ctx context.Context, key K) (V, error)

type entry[V any] struct {
	waiters int
	cancel  context.CancelFunc
	done    chan struct{}
	value   V
	err     error
}

// Cache is a generic, size-bounded, single-flight async cache. Zero value
// is not usable; construct with New.
type Cache[K comparable, V any] struct {
	mu  sync.Mutex
	lru *lru.Cache[K, *entry[V]]
}

// New creates a Cache holding at most maxSize entries, evicting the
// least-recently-touched one (by Get, not by producer completion) once a
// new key would exceed it.
func New[K comparable, V any](maxSize int) *Cache[K, V] {
	c := &Cache[K, V]{}
	backing, err := lru.NewWithEvict(maxSize, func(_ K, e *entry[V]) {
		e.cancel()
	})
	if err != nil {
		// Only NewWithEvict's size<=0 check can fail here; callers are
		// expected to pass a positive maxSize, so fall back to 1 rather
		// than propagate a constructor error through every call site.
		backing, _ = lru.NewWithEvict(1, func(_ K, e *entry[V]) { e.cancel() })
	}
	c.lru = backing
	return c
}

// Get returns the value for key, invoking producer to compute it on a
// miss. If ctx is canceled before the value is ready, Get returns ctx.Err()
// and decrements the shared waiter count; the producer itself is only
// canceled once every waiter has dropped out.
func (c *Cache[K, V]) Get(ctx context.Context, key K, producer Producer[K, V]) (V, error) {
	c.mu.Lock()
	e, ok := c.lru.Get(key)
	if ok {
		e.waiters++
		c.mu.Unlock()
	} else {
		pctx, cancel := context.WithCancel(context.Background())
		e = &entry[V]{waiters: 1, cancel: cancel, done: make(chan struct{})}
		c.lru.Add(key, e)
		c.mu.Unlock()

		go func() {
			v, err := producer(pctx, key)
			c.mu.Lock()
			e.value, e.err = v, err
			if err != nil {
				c.lru.Remove(key)
			}
			c.mu.Unlock()
			close(e.done)
		}()
	}

	select {
	case <-e.done:
		return e.value, e.err
	case <-ctx.Done():
		var zero V
		c.mu.Lock()
		e.waiters--
		if e.waiters <= 0 {
			e.cancel()
			c.lru.Remove(key)
		}
		c.mu.Unlock()
		return zero, ctx.Err()
	}
}

// Len reports the number of entries currently cached (including in-flight
// producers).
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
