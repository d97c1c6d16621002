package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	productsvc "github.com/tacoloja/storefront-backend/internal/products"
	syncengine "github.com/tacoloja/storefront-backend/internal/sync"
	"github.com/tacoloja/storefront-backend/pkg/config"
	"github.com/tacoloja/storefront-backend/pkg/remote"
)

func seedRemoteProduct(t *testing.T, rem *memoryRemote, id, name string) {
	t.Helper()
	doc, err := json.Marshal(productsvc.Product{ID: id, Name: name, Category: "camisetas"})
	if err != nil {
		t.Fatalf("encoding product: %v", err)
	}
	rem.records[id] = remote.Record{ID: id, Doc: doc}
}

func TestTriggerSyncPullsRemoteCatalog(t *testing.T) {
	t.Parallel()
	rem := newMemoryRemote()
	seedRemoteProduct(t, rem, "p1", "Camiseta")
	seedRemoteProduct(t, rem, "p2", "Bermuda")

	engine, err := syncengine.NewEngine(rem, newTestCache(t), config.SyncConfig{
		StalenessThreshold: 5 * time.Minute,
		Interval:           15 * time.Minute,
	}, nil, nil)
	if err != nil {
		t.Fatalf("building engine: %v", err)
	}

	handler := TriggerSync(engine, nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/sync", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data syncResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Mode != syncengine.ModeAuthoritativeRemote {
		t.Fatalf("expected authoritative-remote got %q", envelope.Data.Mode)
	}
	if envelope.Data.Products != 2 {
		t.Fatalf("expected 2 products got %d", envelope.Data.Products)
	}

	// A fresh catalog skips the second pass unless forced.
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/sync", nil))
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data.Skipped {
		t.Fatal("expected second run skipped")
	}

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/sync?force=true", nil))
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Skipped {
		t.Fatal("expected forced run to reconcile")
	}
}
