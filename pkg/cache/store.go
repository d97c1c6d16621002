package cache

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/tacoloja/storefront-backend/pkg/logger"
	"github.com/tacoloja/storefront-backend/pkg/metrics"
)

// Backend is the persistent key-value storage underneath the store. Values
// are serialized JSON documents. A missing key is not an error.
type Backend interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// Store is the local catalog cache: a persistent backend fronted by an
// in-memory mirror, plus a key-scoped change channel. Mutations persist
// synchronously; the mirror and the backend never diverge past one Set call.
type Store struct {
	backend Backend
	logg    *logger.Logger
	met     *metrics.SyncMetrics

	mu      sync.RWMutex
	mirror  map[string]any
	subs    map[int]subscription
	nextSub int
}

type subscription struct {
	keys map[string]struct{} // empty means all keys
	fn   func(key string)
}

// NewStore builds a cache store over the given backend.
func NewStore(backend Backend, logg *logger.Logger, met *metrics.SyncMetrics) (*Store, error) {
	if backend == nil {
		return nil, errNilBackend
	}
	return &Store{
		backend: backend,
		logg:    logg,
		met:     met,
		mirror:  map[string]any{},
		subs:    map[int]subscription{},
	}, nil
}

// Get reads the value at key into T, falling back to def when the key is
// absent or unreadable. Reads served by the mirror never touch the backend.
func Get[T any](ctx context.Context, s *Store, key string, def T) T {
	s.mu.RLock()
	cached, ok := s.mirror[key]
	s.mu.RUnlock()
	if ok {
		if typed, ok := cached.(T); ok {
			s.met.IncCacheHit()
			return typed
		}
	}

	raw, found, err := s.backend.Get(ctx, key)
	if err != nil {
		if s.logg != nil {
			s.logg.Error(s.logg.WithCacheKey(ctx, key), "cache backend read failed", err)
		}
		return def
	}
	if !found {
		return def
	}

	var value T
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		if s.logg != nil {
			s.logg.Error(s.logg.WithCacheKey(ctx, key), "cache entry unreadable", err)
		}
		return def
	}

	s.met.IncCacheMiss()
	s.mu.Lock()
	s.mirror[key] = value
	s.mu.Unlock()
	return value
}

// Set serializes value, persists it, updates the mirror and notifies
// subscribers. It reports false instead of raising when serialization or the
// backend write fails; callers must check the result.
func Set[T any](ctx context.Context, s *Store, key string, value T) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		if s.logg != nil {
			s.logg.Error(s.logg.WithCacheKey(ctx, key), "cache value not serializable", err)
		}
		return false
	}
	if err := s.backend.Set(ctx, key, string(raw)); err != nil {
		if s.logg != nil {
			s.logg.Error(s.logg.WithCacheKey(ctx, key), "cache backend write failed", err)
		}
		return false
	}

	s.mu.Lock()
	s.mirror[key] = value
	s.mu.Unlock()

	s.notify(key)
	return true
}

// Remove deletes the key from the backend and the mirror.
func (s *Store) Remove(ctx context.Context, key string) {
	if err := s.backend.Delete(ctx, key); err != nil && s.logg != nil {
		s.logg.Error(s.logg.WithCacheKey(ctx, key), "cache backend delete failed", err)
	}
	s.mu.Lock()
	delete(s.mirror, key)
	s.mu.Unlock()
	s.notify(key)
}

// Clear drops every key from the backend and the mirror.
func (s *Store) Clear(ctx context.Context) {
	if err := s.backend.Clear(ctx); err != nil && s.logg != nil {
		s.logg.Error(ctx, "cache backend clear failed", err)
	}
	s.mu.Lock()
	s.mirror = map[string]any{}
	s.mu.Unlock()
}

// Invalidate drops the mirror entry for key and notifies subscribers. Used
// when another instance reports the key changed; the next Get re-reads the
// backend.
func (s *Store) Invalidate(key string) {
	s.mu.Lock()
	delete(s.mirror, key)
	s.mu.Unlock()
	s.notify(key)
}

// Subscribe registers fn for change notifications on the given keys; with no
// keys it fires for every change. Events carry only the key; consumers must
// re-read the cache rather than trust any payload. The returned func cancels
// the subscription.
func (s *Store) Subscribe(fn func(key string), keys ...string) func() {
	keySet := map[string]struct{}{}
	for _, k := range keys {
		keySet[k] = struct{}{}
	}

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = subscription{keys: keySet, fn: fn}
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify(key string) {
	s.mu.RLock()
	var fns []func(string)
	for _, sub := range s.subs {
		if len(sub.keys) == 0 {
			fns = append(fns, sub.fn)
			continue
		}
		if _, ok := sub.keys[key]; ok {
			fns = append(fns, sub.fn)
		}
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(key)
	}
}
