package controllers

import (
	"context"
	"testing"

	cartsvc "github.com/tacoloja/storefront-backend/internal/cart"
	"github.com/tacoloja/storefront-backend/internal/coupons"
	"github.com/tacoloja/storefront-backend/internal/images"
	productsvc "github.com/tacoloja/storefront-backend/internal/products"
	"github.com/tacoloja/storefront-backend/pkg/cache"
	"github.com/tacoloja/storefront-backend/pkg/config"
	"github.com/tacoloja/storefront-backend/pkg/remote"
)

type memoryRemote struct {
	records map[string]remote.Record
}

func newMemoryRemote() *memoryRemote {
	return &memoryRemote{records: map[string]remote.Record{}}
}

func (m *memoryRemote) List(context.Context, string) ([]remote.Record, error) {
	out := make([]remote.Record, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, rec)
	}
	return out, nil
}

func (m *memoryRemote) GetByID(_ context.Context, _ string, id string) (*remote.Record, error) {
	rec, ok := m.records[id]
	if !ok {
		return nil, remote.ErrNotFound
	}
	return &rec, nil
}

func (m *memoryRemote) Upsert(_ context.Context, _ string, rec remote.Record) (*remote.Record, error) {
	m.records[rec.ID] = rec
	return &rec, nil
}

func (m *memoryRemote) Delete(_ context.Context, _ string, id string) error {
	delete(m.records, id)
	return nil
}

type hostedBlobStore struct{}

func (hostedBlobStore) UploadBlob(_ context.Context, blob remote.Blob) (string, error) {
	return "https://cdn.test/" + blob.Folder + "/" + blob.Name, nil
}

func newTestCache(t *testing.T) *cache.Store {
	t.Helper()
	st, err := cache.NewStore(cache.NewMemoryBackend(), nil, nil)
	if err != nil {
		t.Fatalf("building cache store: %v", err)
	}
	return st
}

func newTestProductService(t *testing.T) (*productsvc.Service, *memoryRemote) {
	t.Helper()
	rem := newMemoryRemote()
	uploader, err := images.NewUploader(hostedBlobStore{}, config.StorageConfig{Bucket: "images"}, nil, nil)
	if err != nil {
		t.Fatalf("building uploader: %v", err)
	}
	svc, err := productsvc.NewService(rem, newTestCache(t), uploader, nil)
	if err != nil {
		t.Fatalf("building product service: %v", err)
	}
	return svc, rem
}

func newTestCartService(t *testing.T) *cartsvc.Service {
	t.Helper()
	cacheSt := newTestCache(t)
	registry, err := coupons.NewRegistry(cacheSt)
	if err != nil {
		t.Fatalf("building coupon registry: %v", err)
	}
	if _, err := registry.Add(context.Background(), coupons.Coupon{Code: "TACO10", Discount: 10}); err != nil {
		t.Fatalf("seeding coupon: %v", err)
	}
	svc, err := cartsvc.NewService(cacheSt, registry, nil, nil)
	if err != nil {
		t.Fatalf("building cart service: %v", err)
	}
	return svc
}
