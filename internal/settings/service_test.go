package settings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tacoloja/storefront-backend/internal/images"
	"github.com/tacoloja/storefront-backend/pkg/cache"
	"github.com/tacoloja/storefront-backend/pkg/config"
	"github.com/tacoloja/storefront-backend/pkg/remote"
)

type stubRemote struct {
	records    map[string]remote.Record
	failUpsert bool
}

func newStubRemote() *stubRemote {
	return &stubRemote{records: map[string]remote.Record{}}
}

func (s *stubRemote) List(context.Context, string) ([]remote.Record, error) {
	return nil, nil
}

func (s *stubRemote) GetByID(_ context.Context, _ string, id string) (*remote.Record, error) {
	rec, ok := s.records[id]
	if !ok {
		return nil, remote.ErrNotFound
	}
	return &rec, nil
}

func (s *stubRemote) Upsert(_ context.Context, _ string, rec remote.Record) (*remote.Record, error) {
	if s.failUpsert {
		return nil, errors.New("remote unavailable")
	}
	s.records[rec.ID] = rec
	return &rec, nil
}

func (s *stubRemote) Delete(context.Context, string, string) error {
	return nil
}

type noopBlobStore struct{}

func (noopBlobStore) UploadBlob(_ context.Context, blob remote.Blob) (string, error) {
	return "https://cdn.example.com/images/" + blob.Folder + "/" + blob.Name, nil
}

func newTestService(t *testing.T, store *stubRemote) (*Service, *cache.Store) {
	t.Helper()

	cacheSt, err := cache.NewStore(cache.NewMemoryBackend(), nil, nil)
	if err != nil {
		t.Fatalf("NewStore returned error: %v", err)
	}
	uploader, err := images.NewUploader(noopBlobStore{}, config.StorageConfig{UploadTimeout: time.Second}, nil, nil)
	if err != nil {
		t.Fatalf("NewUploader returned error: %v", err)
	}
	svc, err := NewService(cacheSt, store, uploader, nil)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc, cacheSt
}

func TestGetReturnsDefaultsWhenEmpty(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, newStubRemote())

	got := svc.Get(context.Background())
	if got.StoreName != "TACO" {
		t.Fatalf("unexpected store name %q", got.StoreName)
	}
	if !got.ActivePaymentMethods.Pix {
		t.Fatal("expected pix enabled by default")
	}
	if len(got.CategoryHighlights.Categories) != 4 {
		t.Fatalf("unexpected highlight count %d", len(got.CategoryHighlights.Categories))
	}
}

func TestGetMergesStoredOverDefaults(t *testing.T) {
	t.Parallel()

	svc, cacheSt := newTestService(t, newStubRemote())
	ctx := context.Background()

	// Partial document, as an older build would have written it.
	cache.Set(ctx, cacheSt, cache.KeyStoreSettings, map[string]any{
		"storeName": "Loja Nova",
		"bannerConfig": map[string]any{
			"title": "Liquidação",
		},
	})

	got := svc.Get(ctx)
	if got.StoreName != "Loja Nova" {
		t.Fatalf("stored value lost: %q", got.StoreName)
	}
	if got.BannerConfig.Title != "Liquidação" {
		t.Fatalf("nested stored value lost: %q", got.BannerConfig.Title)
	}
	if got.BannerConfig.TextColor != "#FFFFFF" {
		t.Fatalf("default sibling lost in merge: %q", got.BannerConfig.TextColor)
	}
	if got.FooterText == "" {
		t.Fatal("default field lost in merge")
	}
}

func TestSavePersistsRemoteAndCache(t *testing.T) {
	t.Parallel()

	store := newStubRemote()
	svc, _ := newTestService(t, store)
	ctx := context.Background()

	cfg := Defaults()
	cfg.StoreName = "TACO Outlet"

	result, err := svc.Save(ctx, cfg)
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if !result.RemoteSaved {
		t.Fatal("expected remote save")
	}
	if _, ok := store.records["store"]; !ok {
		t.Fatal("expected remote settings record")
	}
	if got := svc.Get(ctx); got.StoreName != "TACO Outlet" {
		t.Fatalf("unexpected store name after save: %q", got.StoreName)
	}
}

func TestSaveKeepsLocalCopyWhenRemoteFails(t *testing.T) {
	t.Parallel()

	store := newStubRemote()
	store.failUpsert = true
	svc, _ := newTestService(t, store)
	ctx := context.Background()

	cfg := Defaults()
	cfg.StoreName = "Somente Local"

	result, err := svc.Save(ctx, cfg)
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if result.RemoteSaved {
		t.Fatal("expected remote save to be reported as failed")
	}
	if got := svc.Get(ctx); got.StoreName != "Somente Local" {
		t.Fatalf("local copy lost: %q", got.StoreName)
	}
}

func TestSaveHostsInlineImages(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, newStubRemote())
	ctx := context.Background()

	cfg := Defaults()
	cfg.LogoImage = "data:image/png;base64,iVBORw0KGgo="

	result, err := svc.Save(ctx, cfg)
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if !result.RemoteSaved {
		t.Fatal("expected remote save")
	}
	got := svc.Get(ctx)
	if got.LogoImage == cfg.LogoImage || got.LogoImage == "" {
		t.Fatalf("expected hosted logo url, got %q", got.LogoImage)
	}
}

func TestReset(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, newStubRemote())
	ctx := context.Background()

	cfg := Defaults()
	cfg.StoreName = "Alterada"
	if _, err := svc.Save(ctx, cfg); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	if _, err := svc.Reset(ctx); err != nil {
		t.Fatalf("Reset returned error: %v", err)
	}
	if got := svc.Get(ctx); got.StoreName != "TACO" {
		t.Fatalf("expected defaults after reset, got %q", got.StoreName)
	}
}

func TestPullOverwritesLocal(t *testing.T) {
	t.Parallel()

	store := newStubRemote()
	svc, _ := newTestService(t, store)
	ctx := context.Background()

	store.records["store"] = remote.Record{
		ID:  "store",
		Doc: []byte(`{"id":"store","storeName":"Remota"}`),
	}

	if err := svc.Pull(ctx); err != nil {
		t.Fatalf("Pull returned error: %v", err)
	}
	if got := svc.Get(ctx); got.StoreName != "Remota" {
		t.Fatalf("expected remote settings, got %q", got.StoreName)
	}
}

func TestPullMissingRemoteIsNoop(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, newStubRemote())
	if err := svc.Pull(context.Background()); err != nil {
		t.Fatalf("Pull returned error: %v", err)
	}
}

func TestDeepMergeKeepsUnknownKeys(t *testing.T) {
	t.Parallel()

	merged := DeepMerge(
		map[string]any{"a": 1, "nested": map[string]any{"x": 1}},
		map[string]any{"b": 2, "nested": map[string]any{"y": 2}},
	)
	if merged["a"] != 1 || merged["b"] != 2 {
		t.Fatalf("top-level merge broken: %+v", merged)
	}
	nested := merged["nested"].(map[string]any)
	if nested["x"] != 1 || nested["y"] != 2 {
		t.Fatalf("nested merge broken: %+v", nested)
	}
}
