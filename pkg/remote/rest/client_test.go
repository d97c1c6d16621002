package rest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tacoloja/storefront-backend/pkg/config"
	"github.com/tacoloja/storefront-backend/pkg/remote"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("limit") == "1" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[]`))
			return
		}
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(context.Background(), config.RemoteConfig{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Timeout: 2 * time.Second,
	}, config.StorageConfig{Bucket: "images"}, nil)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return client, srv
}

func TestListReturnsRecordsInOrder(t *testing.T) {
	t.Parallel()

	var gotPath, gotAuth string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"b","name":"Bota"},{"id":"a","name":"Anel"}]`))
	})

	records, err := client.List(context.Background(), remote.EntityProducts)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if gotPath != "/rest/v1/products" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("unexpected authorization header %q", gotAuth)
	}
	if len(records) != 2 || records[0].ID != "b" || records[1].ID != "a" {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := client.GetByID(context.Background(), remote.EntityProducts, "missing")
	if !errors.Is(err, remote.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpsertSendsMergePreference(t *testing.T) {
	t.Parallel()

	var gotPrefer string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPrefer = r.Header.Get("Prefer")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`[{"id":"p1","name":"Tênis"}]`))
	})

	rec, err := client.Upsert(context.Background(), remote.EntityProducts, remote.Record{
		ID:  "p1",
		Doc: []byte(`{"id":"p1","name":"Tênis"}`),
	})
	if err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}
	if gotPrefer != "resolution=merge-duplicates,return=representation" {
		t.Fatalf("unexpected Prefer header %q", gotPrefer)
	}
	if rec.ID != "p1" {
		t.Fatalf("unexpected record id %q", rec.ID)
	}
}

func TestDeleteTargetsRecordByID(t *testing.T) {
	t.Parallel()

	var gotQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusNoContent)
	})

	if err := client.Delete(context.Background(), remote.EntityProducts, "p1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if gotQuery != "id=eq.p1" {
		t.Fatalf("unexpected query %q", gotQuery)
	}
}

func TestUploadBlobReturnsPublicURL(t *testing.T) {
	t.Parallel()

	client, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/storage/v1/object/images/products/foo.png" {
			t.Errorf("unexpected upload path %q", r.URL.Path)
		}
		w.WriteHeader(http.StatusCreated)
	})

	url, err := client.UploadBlob(context.Background(), remote.Blob{
		Folder:      remote.FolderProducts,
		Name:        "foo.png",
		ContentType: "image/png",
		Data:        []byte{0x89, 0x50},
	})
	if err != nil {
		t.Fatalf("UploadBlob returned error: %v", err)
	}
	want := srv.URL + "/storage/v1/object/public/images/products/foo.png"
	if url != want {
		t.Fatalf("unexpected url %q, want %q", url, want)
	}
}

func TestUploadBlobReportsNameCollision(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})

	_, err := client.UploadBlob(context.Background(), remote.Blob{
		Folder: remote.FolderProducts,
		Name:   "dup.png",
		Data:   []byte{0x01},
	})
	if !errors.Is(err, remote.ErrBlobExists) {
		t.Fatalf("expected ErrBlobExists, got %v", err)
	}
}
