package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tacoloja/storefront-backend/pkg/config"
	"github.com/tacoloja/storefront-backend/pkg/logger"
)

const keyNamespace = "taco"

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	Del(context.Context, ...string) *redis.IntCmd
	Keys(context.Context, string) *redis.StringSliceCmd
	Publish(context.Context, string, any) *redis.IntCmd
}

// RedisBackend persists cache documents in Redis and propagates key-changed
// events between instances over a pub/sub channel. Each instance holds an
// independent mirror over the same persistent storage; last writer wins, and
// peers converge by invalidating on the coarse change event.
type RedisBackend struct {
	store   cmdable
	raw     *redis.Client
	channel string
}

// Pinger exposes the health-check surface.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewRedisBackend bootstraps a Redis-backed cache store and verifies
// connectivity.
func NewRedisBackend(ctx context.Context, cfg config.RedisConfig, channel string, logg *logger.Logger) (*RedisBackend, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	if channel == "" {
		channel = keyNamespace + ":cache:changed"
	}
	return &RedisBackend{store: raw, raw: raw, channel: channel}, nil
}

func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL == "" && cfg.Address == "" {
		return nil, errors.New("redis url or address is required")
	}
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}
	if opts.DB == 0 {
		opts.DB = cfg.DB
	}
	if opts.PoolSize == 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if opts.MinIdleConns == 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
	return opts, nil
}

func (r *RedisBackend) Get(ctx context.Context, key string) (string, bool, error) {
	if r.store == nil {
		return "", false, errors.New("redis backend not initialized")
	}
	value, err := r.store.Get(ctx, r.buildKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (r *RedisBackend) Set(ctx context.Context, key, value string) error {
	if r.store == nil {
		return errors.New("redis backend not initialized")
	}
	if err := r.store.Set(ctx, r.buildKey(key), value, 0).Err(); err != nil {
		return err
	}
	// Peers invalidate their mirror on the coarse change event; delivery is
	// best effort.
	if err := r.store.Publish(ctx, r.channel, key).Err(); err != nil {
		return nil
	}
	return nil
}

func (r *RedisBackend) Delete(ctx context.Context, key string) error {
	if r.store == nil {
		return errors.New("redis backend not initialized")
	}
	if err := r.store.Del(ctx, r.buildKey(key)).Err(); err != nil {
		return err
	}
	_ = r.store.Publish(ctx, r.channel, key).Err()
	return nil
}

func (r *RedisBackend) Clear(ctx context.Context) error {
	if r.store == nil {
		return errors.New("redis backend not initialized")
	}
	keys, err := r.store.Keys(ctx, keyNamespace+":cache:*").Result()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return r.store.Del(ctx, keys...).Err()
}

// ListenChanges subscribes to the change channel and forwards every remote
// key-changed event into the store's invalidation path. Blocks until ctx is
// done.
func (r *RedisBackend) ListenChanges(ctx context.Context, store *Store, logg *logger.Logger) error {
	if r.raw == nil {
		return errors.New("redis backend not initialized")
	}
	sub := r.raw.Subscribe(ctx, r.channel)
	defer func() { _ = sub.Close() }()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return errors.New("change channel closed")
			}
			if msg == nil || msg.Payload == "" {
				continue
			}
			if logg != nil {
				logg.Debug(logg.WithCacheKey(ctx, msg.Payload), "remote cache change received")
			}
			store.Invalidate(msg.Payload)
		}
	}
}

// Ping verifies the connection.
func (r *RedisBackend) Ping(ctx context.Context) error {
	if r.store == nil {
		return errors.New("redis backend not initialized")
	}
	return r.store.Ping(ctx).Err()
}

// Close shuts down the underlying client if available.
func (r *RedisBackend) Close() error {
	if r.raw == nil {
		return nil
	}
	return r.raw.Close()
}

func (r *RedisBackend) buildKey(key string) string {
	return strings.Join([]string{keyNamespace, "cache", strings.TrimSpace(key)}, ":")
}
