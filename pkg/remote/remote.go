package remote

import (
	"context"
	"encoding/json"
	"errors"
)

// Entities held by the remote record store.
const (
	EntityProducts      = "products"
	EntityStoreSettings = "store_settings"
	EntityCarts         = "carts"
)

// Blob folders inside the image bucket.
const (
	FolderProducts = "products"
	FolderLogo     = "logo"
	FolderBanners  = "banners"
	FolderShare    = "share"
)

var (
	// ErrNotFound reports that the requested record does not exist.
	ErrNotFound = errors.New("remote: record not found")
	// ErrBlobExists reports a blob name collision on upload.
	ErrBlobExists = errors.New("remote: blob name already exists")
)

// Record is one JSON document keyed by id within an entity.
type Record struct {
	ID  string
	Doc json.RawMessage
}

// Store is the remote record store contract. Implementations have no cache
// of their own and may be unavailable at any time; every caller keeps a
// fallback path.
type Store interface {
	List(ctx context.Context, entity string) ([]Record, error)
	GetByID(ctx context.Context, entity, id string) (*Record, error)
	Upsert(ctx context.Context, entity string, rec Record) (*Record, error)
	Delete(ctx context.Context, entity, id string) error
}

// Blob is the payload for one blob upload.
type Blob struct {
	Folder      string
	Name        string
	ContentType string
	Data        []byte
}

// BlobStore uploads image blobs and returns publicly resolvable URLs.
type BlobStore interface {
	UploadBlob(ctx context.Context, blob Blob) (string, error)
}
