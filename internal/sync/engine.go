// Package sync reconciles the cached catalog against the remote store.
// The remote is the source of truth whenever it answers; a silent remote
// leaves the cache untouched so the storefront keeps serving local data.
package sync

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/multierr"

	"github.com/tacoloja/storefront-backend/internal/products"
	"github.com/tacoloja/storefront-backend/pkg/cache"
	"github.com/tacoloja/storefront-backend/pkg/config"
	"github.com/tacoloja/storefront-backend/pkg/logger"
	"github.com/tacoloja/storefront-backend/pkg/metrics"
	"github.com/tacoloja/storefront-backend/pkg/remote"
)

// Reconciliation modes.
const (
	ModeAuthoritativeRemote = "authoritative-remote"
	ModeDegradedLocal       = "degraded-local"
)

// Result describes one reconciliation run.
type Result struct {
	Mode string
	// Skipped is true when the last run is fresh enough and nothing was
	// reconciled.
	Skipped bool
	// Pushed counts local products uploaded because the remote was empty.
	Pushed int
	// Products is the catalog size after the run.
	Products int
}

// Engine runs catalog reconciliation.
type Engine struct {
	store     remote.Store
	cacheSt   *cache.Store
	logg      *logger.Logger
	met       *metrics.SyncMetrics
	threshold time.Duration
	interval  time.Duration

	now func() time.Time
}

func NewEngine(store remote.Store, cacheSt *cache.Store, cfg config.SyncConfig, logg *logger.Logger, met *metrics.SyncMetrics) (*Engine, error) {
	if store == nil {
		return nil, errors.New("remote store is required")
	}
	if cacheSt == nil {
		return nil, errors.New("cache store is required")
	}
	threshold := cfg.StalenessThreshold
	if threshold <= 0 {
		threshold = 5 * time.Minute
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &Engine{
		store:     store,
		cacheSt:   cacheSt,
		logg:      logg,
		met:       met,
		threshold: threshold,
		interval:  interval,
		now:       time.Now,
	}, nil
}

// Reconcile pulls the remote catalog into the cache. With force unset a
// run inside the staleness threshold is skipped. A non-empty remote
// always overwrites local data; an empty remote first receives the local
// catalog best-effort, then the re-listed remote state wins. A remote
// failure leaves the cache exactly as it was.
func (e *Engine) Reconcile(ctx context.Context, force bool) (*Result, error) {
	if !force && e.fresh(ctx) {
		return &Result{Skipped: true}, nil
	}

	start := e.now()
	records, err := e.store.List(ctx, remote.EntityProducts)
	if err != nil {
		e.met.ObserveReconcile(ModeDegradedLocal, e.now().Sub(start))
		if e.logg != nil {
			e.logg.Warn(ctx, "remote list failed, serving local catalog")
		}
		local := cache.Get(ctx, e.cacheSt, cache.KeyProducts, []products.Product{})
		return &Result{Mode: ModeDegradedLocal, Products: len(local)}, nil
	}

	result := &Result{Mode: ModeAuthoritativeRemote}

	if len(records) == 0 {
		local := cache.Get(ctx, e.cacheSt, cache.KeyProducts, []products.Product{})
		if len(local) > 0 {
			pushed, pushErr := e.pushLocal(ctx, local)
			result.Pushed = pushed
			if pushErr != nil && e.logg != nil {
				e.logg.Warn(ctx, "pushing local catalog to remote partially failed")
			}
			records, err = e.store.List(ctx, remote.EntityProducts)
			if err != nil {
				e.met.ObserveReconcile(ModeDegradedLocal, e.now().Sub(start))
				result.Mode = ModeDegradedLocal
				result.Products = len(local)
				return result, nil
			}
		}
	}

	catalog := decodeProducts(ctx, e.logg, records)
	cache.Set(ctx, e.cacheSt, cache.KeyProducts, catalog)
	cache.Set(ctx, e.cacheSt, cache.KeyLastSync, e.now().UnixMilli())

	result.Products = len(catalog)
	e.met.ObserveReconcile(result.Mode, e.now().Sub(start))
	if e.logg != nil {
		e.logg.Info(ctx, "catalog reconciled")
	}
	return result, nil
}

// Run reconciles on a fixed interval until the context ends. Used by the
// sync worker; the API triggers Reconcile directly.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		if _, err := e.Reconcile(ctx, false); err != nil && e.logg != nil {
			e.logg.Error(ctx, "reconciliation failed", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (e *Engine) fresh(ctx context.Context) bool {
	last := cache.Get(ctx, e.cacheSt, cache.KeyLastSync, int64(0))
	if last == 0 {
		return false
	}
	return e.now().Sub(time.UnixMilli(last)) < e.threshold
}

func (e *Engine) pushLocal(ctx context.Context, local []products.Product) (int, error) {
	pushed := 0
	var errs error
	for _, p := range local {
		doc, err := json.Marshal(p)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if _, err := e.store.Upsert(ctx, remote.EntityProducts, remote.Record{ID: p.ID, Doc: doc}); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		pushed++
	}
	return pushed, errs
}

func decodeProducts(ctx context.Context, logg *logger.Logger, records []remote.Record) []products.Product {
	catalog := make([]products.Product, 0, len(records))
	for _, rec := range records {
		var p products.Product
		if err := json.Unmarshal(rec.Doc, &p); err != nil {
			if logg != nil {
				logg.Warn(ctx, "skipping unreadable remote product document")
			}
			continue
		}
		catalog = append(catalog, p)
	}
	return catalog
}
