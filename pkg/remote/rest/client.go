package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tacoloja/storefront-backend/pkg/config"
	"github.com/tacoloja/storefront-backend/pkg/logger"
	"github.com/tacoloja/storefront-backend/pkg/remote"
)

const pingTimeout = 5 * time.Second

// Client talks to a PostgREST-compatible record API and its companion
// storage API. Records are JSON documents addressed by entity and id.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	bucket     string
	logg       *logger.Logger
}

type Pinger interface {
	Ping(ctx context.Context) error
}

func closeBody(ctx context.Context, logg *logger.Logger, body io.Closer, msg string) {
	if body == nil {
		return
	}
	if err := body.Close(); err != nil && logg != nil {
		logg.Warn(ctx, msg)
	}
}

func NewClient(ctx context.Context, cfg config.RemoteConfig, storage config.StorageConfig, logg *logger.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("remote base url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		bucket:     storage.Bucket,
		logg:       logg,
	}

	if err := client.Ping(ctx); err != nil {
		return nil, fmt.Errorf("remote health check failed: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "remote rest client initialized")
	}

	return client, nil
}

func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.httpClient == nil {
		return errors.New("remote client not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	req, err := c.newRequest(ctx, http.MethodGet, c.recordURL(remote.EntityProducts)+"?select=id&limit=1", nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { closeBody(ctx, c.logg, resp.Body, "remote: closing response body failed") }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("remote check failed: %s", resp.Status)
	}
	return nil
}

func (c *Client) Close() error {
	return nil
}

func (c *Client) recordURL(entity string) string {
	return c.baseURL + "/rest/v1/" + url.PathEscape(entity)
}

func (c *Client) newRequest(ctx context.Context, method, u string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) List(ctx context.Context, entity string) ([]remote.Record, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.recordURL(entity)+"?select=*&order=created_at.desc", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", entity, err)
	}
	defer func() { closeBody(ctx, c.logg, resp.Body, "remote: closing response body failed") }()

	if resp.StatusCode != http.StatusOK {
		return nil, responseError("listing "+entity, resp)
	}

	var docs []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&docs); err != nil {
		return nil, fmt.Errorf("decoding %s list: %w", entity, err)
	}

	records := make([]remote.Record, 0, len(docs))
	for _, doc := range docs {
		records = append(records, remote.Record{ID: documentID(doc), Doc: doc})
	}
	return records, nil
}

func (c *Client) GetByID(ctx context.Context, entity, id string) (*remote.Record, error) {
	u := c.recordURL(entity) + "?select=*&id=eq." + url.QueryEscape(id)
	req, err := c.newRequest(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s/%s: %w", entity, id, err)
	}
	defer func() { closeBody(ctx, c.logg, resp.Body, "remote: closing response body failed") }()

	if resp.StatusCode != http.StatusOK {
		return nil, responseError("fetching "+entity, resp)
	}

	var docs []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&docs); err != nil {
		return nil, fmt.Errorf("decoding %s record: %w", entity, err)
	}
	if len(docs) == 0 {
		return nil, remote.ErrNotFound
	}
	return &remote.Record{ID: documentID(docs[0]), Doc: docs[0]}, nil
}

func (c *Client) Upsert(ctx context.Context, entity string, rec remote.Record) (*remote.Record, error) {
	req, err := c.newRequest(ctx, http.MethodPost, c.recordURL(entity), bytes.NewReader(rec.Doc))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "resolution=merge-duplicates,return=representation")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upserting %s/%s: %w", entity, rec.ID, err)
	}
	defer func() { closeBody(ctx, c.logg, resp.Body, "remote: closing response body failed") }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, responseError("upserting "+entity, resp)
	}

	var docs []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&docs); err != nil {
		return nil, fmt.Errorf("decoding upserted %s record: %w", entity, err)
	}
	if len(docs) == 0 {
		return &rec, nil
	}
	return &remote.Record{ID: documentID(docs[0]), Doc: docs[0]}, nil
}

func (c *Client) Delete(ctx context.Context, entity, id string) error {
	u := c.recordURL(entity) + "?id=eq." + url.QueryEscape(id)
	req, err := c.newRequest(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("deleting %s/%s: %w", entity, id, err)
	}
	defer func() { closeBody(ctx, c.logg, resp.Body, "remote: closing response body failed") }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return responseError("deleting "+entity, resp)
	}
	return nil
}

// UploadBlob stores the blob at {bucket}/{folder}/{name} and returns the
// public URL. A name collision surfaces as remote.ErrBlobExists so the
// caller can retry with a fresh name.
func (c *Client) UploadBlob(ctx context.Context, blob remote.Blob) (string, error) {
	if len(blob.Data) == 0 {
		return "", errors.New("blob data is empty")
	}

	path := url.PathEscape(c.bucket) + "/" + url.PathEscape(blob.Folder) + "/" + url.PathEscape(blob.Name)
	req, err := c.newRequest(ctx, http.MethodPost, c.baseURL+"/storage/v1/object/"+path, bytes.NewReader(blob.Data))
	if err != nil {
		return "", err
	}
	if blob.ContentType != "" {
		req.Header.Set("Content-Type", blob.ContentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("uploading blob %s: %w", blob.Name, err)
	}
	defer func() { closeBody(ctx, c.logg, resp.Body, "remote: closing response body failed") }()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		return c.baseURL + "/storage/v1/object/public/" + path, nil
	case resp.StatusCode == http.StatusConflict:
		return "", remote.ErrBlobExists
	default:
		return "", responseError("uploading blob", resp)
	}
}

func responseError(op string, resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	if len(b) > 0 {
		return fmt.Errorf("%s failed: %s: %s", op, resp.Status, strings.TrimSpace(string(b)))
	}
	return fmt.Errorf("%s failed: %s", op, resp.Status)
}

func documentID(doc json.RawMessage) string {
	var probe struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(doc, &probe); err != nil {
		return ""
	}
	return probe.ID
}
