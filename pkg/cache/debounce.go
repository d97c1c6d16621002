package cache

import (
	"context"
	"sync"
	"time"
)

// DebouncedWriter coalesces bursts of writes to the same key into a single
// persistent Set. The mirror is updated on every call, so readers in this
// process never observe stale data; only the backend write is delayed by at
// most the configured interval.
type DebouncedWriter struct {
	store    *Store
	interval time.Duration

	mu      sync.Mutex
	pending map[string]func()
	timers  map[string]*time.Timer
}

func NewDebouncedWriter(store *Store, interval time.Duration) *DebouncedWriter {
	if interval <= 0 {
		interval = 300 * time.Millisecond
	}
	return &DebouncedWriter{
		store:    store,
		interval: interval,
		pending:  map[string]func(){},
		timers:   map[string]*time.Timer{},
	}
}

// Write schedules a persistent write of value under key, replacing any write
// already pending for that key. The store mirror is updated immediately.
func WriteDebounced[T any](w *DebouncedWriter, key string, value T) {
	w.store.mu.Lock()
	w.store.mirror[key] = value
	w.store.mu.Unlock()
	w.store.notify(key)

	flush := func() {
		Set(context.Background(), w.store, key, value)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[key] = flush
	if timer, ok := w.timers[key]; ok {
		timer.Stop()
	}
	w.timers[key] = time.AfterFunc(w.interval, func() {
		w.mu.Lock()
		fn := w.pending[key]
		delete(w.pending, key)
		delete(w.timers, key)
		w.mu.Unlock()
		if fn != nil {
			fn()
		}
	})
}

// Flush persists every pending write immediately. Call on shutdown.
func (w *DebouncedWriter) Flush() {
	w.mu.Lock()
	flushes := make([]func(), 0, len(w.pending))
	for key, fn := range w.pending {
		flushes = append(flushes, fn)
		if timer, ok := w.timers[key]; ok {
			timer.Stop()
		}
		delete(w.pending, key)
		delete(w.timers, key)
	}
	w.mu.Unlock()

	for _, fn := range flushes {
		fn()
	}
}
