// Package concurrency holds the bounded fan-out and single-writer-per-key
// primitives used by the hotel-context collaboration and by the airport and
// distance resolver caches.
package concurrency

import (
	"context"
	"sync"
)

// Semaphore is a buffered-channel-backed concurrency limiter. It bounds the
// hotel-context sub-tasks (cap 3); the price calendar bounds its fan-out
// with a buffered channel of its own.
type Semaphore struct {
	slots chan struct{}
}

// NewSemaphore creates a Semaphore allowing at most n concurrent holders.
func NewSemaphore(n int) *Semaphore {
	if n < 1 {
		n = 1
	}
	return &Semaphore{slots: make(chan struct{}, n)}
}

// Acquire blocks until a slot is free or ctx is done, returning ctx.Err()
// in the latter case.
func (s *Semaphore) Acquire(ctx context.Context) error {
	select {
	case s.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot.
func (s *Semaphore) Release() {
	<-s.slots
}

// KeyedOnce deduplicates concurrent callers resolving the same key so only
// one of them actually does the work — the "single writer per key" monitor
// of the airport/country and distance caches. The country-profile cache
// does not use it: concurrent misses for the same country each fetch and
// derive a strategy, and the last one stored wins. No
// example in the pack imports golang.org/x/sync/singleflight, so this is a
// small hand-rolled equivalent built from sync.Mutex and sync.WaitGroup
// rather than an ungrounded new dependency.
type KeyedOnce struct {
	mutex   sync.Mutex
	inFlight map[string]*call
}

type call struct {
	wg    sync.WaitGroup
	value interface{}
	err   error
}

// NewKeyedOnce creates an empty KeyedOnce dedup monitor.
func NewKeyedOnce() *KeyedOnce {
	return &KeyedOnce{inFlight: make(map[string]*call)}
}

// Do runs fn for key, but only once across all concurrent callers sharing
// that key; every caller receives the same (value, err).
func (k *KeyedOnce) Do(key string, fn func() (interface{}, error)) (interface{}, error) {
	k.mutex.Lock()
	if c, ok := k.inFlight[key]; ok {
		k.mutex.Unlock()
		c.wg.Wait()
		return c.value, c.err
	}

	c := &call{}
	c.wg.Add(1)
	k.inFlight[key] = c
	k.mutex.Unlock()

	c.value, c.err = fn()
	c.wg.Done()

	k.mutex.Lock()
	delete(k.inFlight, key)
	k.mutex.Unlock()

	return c.value, c.err
}
