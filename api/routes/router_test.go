package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	cartsvc "github.com/tacoloja/storefront-backend/internal/cart"
	"github.com/tacoloja/storefront-backend/internal/coupons"
	"github.com/tacoloja/storefront-backend/internal/finance"
	"github.com/tacoloja/storefront-backend/internal/images"
	productsvc "github.com/tacoloja/storefront-backend/internal/products"
	"github.com/tacoloja/storefront-backend/internal/settings"
	syncengine "github.com/tacoloja/storefront-backend/internal/sync"
	"github.com/tacoloja/storefront-backend/pkg/cache"
	"github.com/tacoloja/storefront-backend/pkg/config"
	"github.com/tacoloja/storefront-backend/pkg/remote"
)

type fakeRemote struct {
	records map[string]remote.Record
}

func (f *fakeRemote) List(context.Context, string) ([]remote.Record, error) {
	out := make([]remote.Record, 0, len(f.records))
	for _, rec := range f.records {
		out = append(out, rec)
	}
	return out, nil
}

func (f *fakeRemote) GetByID(_ context.Context, _ string, id string) (*remote.Record, error) {
	rec, ok := f.records[id]
	if !ok {
		return nil, remote.ErrNotFound
	}
	return &rec, nil
}

func (f *fakeRemote) Upsert(_ context.Context, _ string, rec remote.Record) (*remote.Record, error) {
	f.records[rec.ID] = rec
	return &rec, nil
}

func (f *fakeRemote) Delete(_ context.Context, _ string, id string) error {
	delete(f.records, id)
	return nil
}

func (f *fakeRemote) Ping(context.Context) error { return nil }

type fakeBlobs struct{}

func (fakeBlobs) UploadBlob(_ context.Context, blob remote.Blob) (string, error) {
	return "https://cdn.test/" + blob.Folder + "/" + blob.Name, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	cacheSt, err := cache.NewStore(cache.NewMemoryBackend(), nil, nil)
	if err != nil {
		t.Fatalf("building cache store: %v", err)
	}
	rem := &fakeRemote{records: map[string]remote.Record{}}

	uploader, err := images.NewUploader(fakeBlobs{}, config.StorageConfig{Bucket: "images"}, nil, nil)
	if err != nil {
		t.Fatalf("building uploader: %v", err)
	}
	productService, err := productsvc.NewService(rem, cacheSt, uploader, nil)
	if err != nil {
		t.Fatalf("building product service: %v", err)
	}
	registry, err := coupons.NewRegistry(cacheSt)
	if err != nil {
		t.Fatalf("building coupon registry: %v", err)
	}
	cartService, err := cartsvc.NewService(cacheSt, registry, rem, nil)
	if err != nil {
		t.Fatalf("building cart service: %v", err)
	}
	settingsService, err := settings.NewService(cacheSt, rem, uploader, nil)
	if err != nil {
		t.Fatalf("building settings service: %v", err)
	}
	engine, err := syncengine.NewEngine(rem, cacheSt, config.SyncConfig{
		StalenessThreshold: 5 * time.Minute,
		Interval:           15 * time.Minute,
	}, nil, nil)
	if err != nil {
		t.Fatalf("building sync engine: %v", err)
	}
	ledger, err := finance.NewLedger(cacheSt, cache.NewDebouncedWriter(cacheSt, time.Millisecond))
	if err != nil {
		t.Fatalf("building ledger: %v", err)
	}

	cfg := &config.Config{}
	cfg.App.Env = "test"

	return NewRouter(cfg, nil, rem, rem, productService, cartService, registry, settingsService, engine, ledger, nil)
}

func TestRouterHealthEndpoints(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
		if got := resp.Header().Get("X-Taco-Env"); got != "test" {
			t.Fatalf("%s: expected env header test got %q", path, got)
		}
	}
}

func TestRouterServesCatalogRoutes(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 0 {
		t.Fatalf("expected empty catalog got %d entries", len(envelope.Data))
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("categories: expected 200 got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/settings", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("settings: expected 200 got %d", resp.Code)
	}
}

func TestRouterUnknownRoute(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
