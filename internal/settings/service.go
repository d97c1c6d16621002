package settings

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/tacoloja/storefront-backend/internal/images"
	"github.com/tacoloja/storefront-backend/pkg/cache"
	pkgerrors "github.com/tacoloja/storefront-backend/pkg/errors"
	"github.com/tacoloja/storefront-backend/pkg/logger"
	"github.com/tacoloja/storefront-backend/pkg/remote"
)

// The settings document is a singleton.
const settingsID = "store"

// Service reads and writes the storefront configuration.
type Service struct {
	cacheSt  *cache.Store
	store    remote.Store
	uploader *images.Uploader
	logg     *logger.Logger
}

// SaveResult reports where a settings save landed.
type SaveResult struct {
	Settings    Settings
	RemoteSaved bool
}

func NewService(cacheSt *cache.Store, store remote.Store, uploader *images.Uploader, logg *logger.Logger) (*Service, error) {
	if cacheSt == nil {
		return nil, errors.New("cache store is required")
	}
	if store == nil {
		return nil, errors.New("remote store is required")
	}
	if uploader == nil {
		return nil, errors.New("image uploader is required")
	}
	return &Service{cacheSt: cacheSt, store: store, uploader: uploader, logg: logg}, nil
}

// Get returns the stored settings merged over the defaults. With nothing
// stored, or an unreadable document, the defaults win.
func (s *Service) Get(ctx context.Context) Settings {
	stored := cache.Get(ctx, s.cacheSt, cache.KeyStoreSettings, map[string]any(nil))
	if stored == nil {
		return Defaults()
	}
	merged, err := mergeOverDefaults(stored)
	if err != nil {
		if s.logg != nil {
			s.logg.Warn(ctx, "stored settings unreadable, serving defaults")
		}
		return Defaults()
	}
	return merged
}

// Save hosts any inline images and persists the settings remotely and in
// the cache. A remote failure keeps the local copy and is reported, not
// raised.
func (s *Service) Save(ctx context.Context, cfg Settings) (*SaveResult, error) {
	s.ingestImages(ctx, &cfg)

	doc, err := toMap(cfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeSerialization, err, "encoding settings")
	}
	doc["id"] = settingsID
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeSerialization, err, "encoding settings")
	}

	result := &SaveResult{Settings: cfg, RemoteSaved: true}
	if _, err := s.store.Upsert(ctx, remote.EntityStoreSettings, remote.Record{ID: settingsID, Doc: raw}); err != nil {
		result.RemoteSaved = false
		if s.logg != nil {
			s.logg.Warn(ctx, "remote settings write failed, keeping local copy")
		}
	}

	if !cache.Set(ctx, s.cacheSt, cache.KeyStoreSettings, doc) {
		return nil, pkgerrors.New(pkgerrors.CodeSerialization, "persisting settings failed")
	}
	return result, nil
}

// Reset restores the defaults locally and remotely.
func (s *Service) Reset(ctx context.Context) (*SaveResult, error) {
	return s.Save(ctx, Defaults())
}

// Pull overwrites the local settings with the remote document. Used by
// reconciliation; a missing remote document is not an error.
func (s *Service) Pull(ctx context.Context) error {
	rec, err := s.store.GetByID(ctx, remote.EntityStoreSettings, settingsID)
	if errors.Is(err, remote.ErrNotFound) {
		return nil
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeRemoteUnavailable, err, "fetching remote settings")
	}

	var doc map[string]any
	if err := json.Unmarshal(rec.Doc, &doc); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeSerialization, err, "decoding remote settings")
	}
	if !cache.Set(ctx, s.cacheSt, cache.KeyStoreSettings, doc) {
		return pkgerrors.New(pkgerrors.CodeSerialization, "persisting settings failed")
	}
	return nil
}

func (s *Service) ingestImages(ctx context.Context, cfg *Settings) {
	if url, err := s.uploader.Ingest(ctx, cfg.LogoImage, remote.FolderLogo); err == nil {
		cfg.LogoImage = url
	} else if s.logg != nil {
		s.logg.Warn(ctx, "logo upload failed, keeping inline payload")
	}
	if url, err := s.uploader.Ingest(ctx, cfg.BannerConfig.ImageURL, remote.FolderBanners); err == nil {
		cfg.BannerConfig.ImageURL = url
	} else if s.logg != nil {
		s.logg.Warn(ctx, "banner upload failed, keeping inline payload")
	}
	if url, err := s.uploader.Ingest(ctx, cfg.ShareImage, remote.FolderShare); err == nil {
		cfg.ShareImage = url
	} else if s.logg != nil {
		s.logg.Warn(ctx, "share image upload failed, keeping inline payload")
	}
}
