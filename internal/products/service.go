package products

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/tacoloja/storefront-backend/internal/catalog"
	"github.com/tacoloja/storefront-backend/internal/images"
	"github.com/tacoloja/storefront-backend/pkg/cache"
	pkgerrors "github.com/tacoloja/storefront-backend/pkg/errors"
	"github.com/tacoloja/storefront-backend/pkg/logger"
	"github.com/tacoloja/storefront-backend/pkg/remote"
)

// Service orchestrates product writes across the remote store and the
// local cache. The remote wins when reachable; when it is not, writes
// land in the cache only and the result says so.
type Service struct {
	store    remote.Store
	cacheSt  *cache.Store
	uploader *images.Uploader
	logg     *logger.Logger
}

// SaveResult reports where a product save landed.
type SaveResult struct {
	Product     Product
	RemoteSaved bool
	// ImagesInline is true when at least one image could not be hosted
	// and stayed inline in the document.
	ImagesInline bool
}

func NewService(store remote.Store, cacheSt *cache.Store, uploader *images.Uploader, logg *logger.Logger) (*Service, error) {
	if store == nil {
		return nil, errors.New("remote store is required")
	}
	if cacheSt == nil {
		return nil, errors.New("cache store is required")
	}
	if uploader == nil {
		return nil, errors.New("image uploader is required")
	}
	return &Service{store: store, cacheSt: cacheSt, uploader: uploader, logg: logg}, nil
}

// List returns the cached catalog. An empty cache yields an empty slice,
// never nil.
func (s *Service) List(ctx context.Context) []Product {
	return cache.Get(ctx, s.cacheSt, cache.KeyProducts, []Product{})
}

// Get finds one cached product by id.
func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	for _, p := range s.List(ctx) {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

// Save validates, normalizes and persists a product. Image hosting and
// the remote write degrade softly: a failed upload keeps the inline
// payload, a failed remote write still lands the product in the cache.
func (s *Service) Save(ctx context.Context, p Product) (*SaveResult, error) {
	if err := validate(&p); err != nil {
		return nil, err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.normalizeFields()
	p.ApplyCategoryRules()

	if s.logg != nil {
		ctx = s.logg.WithProductID(ctx, p.ID)
	}

	result := &SaveResult{}
	s.ingestImages(ctx, &p, result)

	doc, err := json.Marshal(p)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeSerialization, err, "encoding product")
	}

	result.RemoteSaved = true
	if _, err := s.store.Upsert(ctx, remote.EntityProducts, remote.Record{ID: p.ID, Doc: doc}); err != nil {
		result.RemoteSaved = false
		if s.logg != nil {
			s.logg.Warn(ctx, "remote product write failed, keeping local copy")
		}
	}

	s.writeToCache(ctx, p)
	result.Product = p
	return result, nil
}

// Delete removes the product remotely and from the cache. A remote
// failure does not keep the product alive locally.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	if s.logg != nil {
		ctx = s.logg.WithProductID(ctx, id)
	}
	if err := s.store.Delete(ctx, remote.EntityProducts, id); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "remote product delete failed, removing local copy anyway")
	}

	current := s.List(ctx)
	next := make([]Product, 0, len(current))
	for _, p := range current {
		if p.ID != id {
			next = append(next, p)
		}
	}
	cache.Set(ctx, s.cacheSt, cache.KeyProducts, next)
	return nil
}

// ByCategory filters the cached catalog using normalized categories, so
// a query for "shoes" matches products stored under "calçados".
func (s *Service) ByCategory(ctx context.Context, category string) []Product {
	want := catalog.Normalize(category)
	all := s.List(ctx)
	out := make([]Product, 0, len(all))
	for _, p := range all {
		if catalog.Normalize(p.Category) == want {
			out = append(out, p)
		}
	}
	return out
}

func validate(p *Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if strings.TrimSpace(p.Category) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product category is required")
	}
	if !p.HasImage() {
		return pkgerrors.New(pkgerrors.CodeImageRequired, "product image is required")
	}
	return nil
}

func (s *Service) ingestImages(ctx context.Context, p *Product, result *SaveResult) {
	if url, err := s.uploader.Ingest(ctx, p.ImageURL, remote.FolderProducts); err != nil {
		result.ImagesInline = true
		if s.logg != nil {
			s.logg.Warn(ctx, "main image upload failed, keeping inline payload")
		}
	} else {
		p.ImageURL = url
	}

	resolved, err := s.uploader.IngestAll(ctx, p.Images, remote.FolderProducts)
	if err != nil {
		result.ImagesInline = true
		if s.logg != nil {
			s.logg.Warn(ctx, "additional image upload failed, keeping inline payloads")
		}
	}
	if resolved != nil {
		p.Images = resolved
	}
}

func (s *Service) writeToCache(ctx context.Context, p Product) {
	current := s.List(ctx)
	replaced := false
	for i := range current {
		if current[i].ID == p.ID {
			current[i] = p
			replaced = true
			break
		}
	}
	if !replaced {
		current = append(current, p)
	}
	cache.Set(ctx, s.cacheSt, cache.KeyProducts, current)
}
