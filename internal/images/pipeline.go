// Package images turns inline image payloads into hosted blob URLs.
package images

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/tacoloja/storefront-backend/pkg/config"
	pkgerrors "github.com/tacoloja/storefront-backend/pkg/errors"
	"github.com/tacoloja/storefront-backend/pkg/logger"
	"github.com/tacoloja/storefront-backend/pkg/metrics"
	"github.com/tacoloja/storefront-backend/pkg/remote"
)

const dataURIPrefix = "data:image/"

// Uploader resolves image references against the blob store. Already
// hosted URLs pass through untouched, data URIs get decoded and
// uploaded. Upload failures are soft: the caller keeps the inline
// payload so a save never dies on image hosting.
type Uploader struct {
	blobs   remote.BlobStore
	logg    *logger.Logger
	met     *metrics.SyncMetrics
	timeout time.Duration

	now    func() time.Time
	suffix func(n int) string
}

func NewUploader(blobs remote.BlobStore, cfg config.StorageConfig, logg *logger.Logger, met *metrics.SyncMetrics) (*Uploader, error) {
	if blobs == nil {
		return nil, errors.New("blob store is required")
	}
	timeout := cfg.UploadTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Uploader{
		blobs:   blobs,
		logg:    logg,
		met:     met,
		timeout: timeout,
		now:     time.Now,
		suffix:  randomSuffix,
	}, nil
}

func randomSuffix(n int) string {
	s := strings.ReplaceAll(uuid.NewString(), "-", "")
	if n > 0 && n < len(s) {
		return s[:n]
	}
	return s
}

// IsInline reports whether the value is an inline data URI rather than a
// hosted URL.
func IsInline(image string) bool {
	return strings.HasPrefix(image, dataURIPrefix)
}

// Ingest resolves one image reference. Hosted URLs and empty values pass
// through. On upload failure the original value is returned alongside
// the error so the caller can keep it inline.
func (u *Uploader) Ingest(ctx context.Context, image, folder string) (string, error) {
	if image == "" || !IsInline(image) {
		return image, nil
	}

	data, ext, contentType, err := decodeDataURI(image)
	if err != nil {
		return image, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decoding inline image")
	}

	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	name := fmt.Sprintf("%d-%s.%s", u.now().UnixMilli(), u.suffix(8), ext)
	url, err := u.blobs.UploadBlob(ctx, remote.Blob{
		Folder:      folder,
		Name:        name,
		ContentType: contentType,
		Data:        data,
	})
	if errors.Is(err, remote.ErrBlobExists) {
		u.met.IncUploadRetry()
		if u.logg != nil {
			u.logg.Warn(ctx, "blob name collision, retrying upload")
		}
		name = fmt.Sprintf("%d-%d-%s.%s", u.now().UnixMilli(), u.now().UnixNano(), u.suffix(0), ext)
		url, err = u.blobs.UploadBlob(ctx, remote.Blob{
			Folder:      folder,
			Name:        name,
			ContentType: contentType,
			Data:        data,
		})
	}
	if err != nil {
		return image, pkgerrors.Wrap(pkgerrors.CodeRemoteUnavailable, err, "uploading image blob")
	}
	return url, nil
}

// IngestAll resolves a batch. Failed entries keep their inline payloads
// and the errors come back aggregated; the returned slice always has one
// entry per input.
func (u *Uploader) IngestAll(ctx context.Context, images []string, folder string) ([]string, error) {
	if len(images) == 0 {
		return nil, nil
	}

	resolved := make([]string, 0, len(images))
	var errs error
	for _, image := range images {
		url, err := u.Ingest(ctx, image, folder)
		if err != nil {
			errs = multierr.Append(errs, err)
		}
		resolved = append(resolved, url)
	}
	return resolved, errs
}

func decodeDataURI(uri string) (data []byte, ext, contentType string, err error) {
	rest := strings.TrimPrefix(uri, "data:")
	meta, payload, found := strings.Cut(rest, ",")
	if !found {
		return nil, "", "", errors.New("malformed data uri")
	}

	contentType, _, _ = strings.Cut(meta, ";")
	if !strings.Contains(meta, "base64") {
		return nil, "", "", errors.New("data uri is not base64 encoded")
	}

	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", "", fmt.Errorf("decoding base64 payload: %w", err)
	}

	ext = "jpg"
	if _, subtype, ok := strings.Cut(contentType, "/"); ok && subtype != "" {
		ext = subtype
		if ext == "jpeg" {
			ext = "jpg"
		}
	}
	return data, ext, contentType, nil
}
