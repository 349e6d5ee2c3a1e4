// Package media stores uploaded images and hands back public URLs. The URLs
// are display-only; nothing in the domain reads the blobs back.
package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Uploader is the provider-agnostic blob storage interface. Implementations
// are chosen at composition time.
type Uploader interface {
	// Upload stores the blob under path and returns its public URL.
	Upload(ctx context.Context, path, contentType string, data io.Reader) (string, error)
}

// ── Supabase Storage adapter ──────────────────────────────────────────────────

type supabaseUploader struct {
	baseURL    string
	serviceKey string
	bucket     string
	httpClient *http.Client
}

// NewSupabaseUploader creates an Uploader backed by a Supabase Storage bucket.
func NewSupabaseUploader(baseURL, serviceKey, bucket string) Uploader {
	return &supabaseUploader{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		serviceKey: serviceKey,
		bucket:     bucket,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (u *supabaseUploader) Upload(ctx context.Context, path, contentType string, data io.Reader) (string, error) {
	if u.baseURL == "" || u.serviceKey == "" {
		return "", fmt.Errorf("storage is not configured")
	}

	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", u.baseURL, u.bucket, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, data)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+u.serviceKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	// Overwrite on re-upload of the same path.
	req.Header.Set("x-upsert", "true")

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 32<<10))
		return "", fmt.Errorf("storage upload failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", u.baseURL, u.bucket, path), nil
}
