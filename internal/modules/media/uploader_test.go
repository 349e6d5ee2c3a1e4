package media

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalUploaderWritesAndBuildsURL(t *testing.T) {
	dir := t.TempDir()
	up := NewLocalUploader(dir, "http://localhost:8080/media/")

	url, err := up.Upload(context.Background(), "uploads/2026/09/abc-cover.png", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/media/uploads/2026/09/abc-cover.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "uploads", "2026", "09", "abc-cover.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestLocalUploaderCleansTraversal(t *testing.T) {
	dir := t.TempDir()
	up := NewLocalUploader(dir, "http://localhost:8080/media")

	_, err := up.Upload(context.Background(), "../../etc/passwd", "", strings.NewReader("x"))
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "etc", "passwd"))
	assert.NoError(t, statErr, "path is confined to the upload dir")
}

func TestSupabaseUploaderPostsToBucket(t *testing.T) {
	var gotPath, gotAuth, gotUpsert string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotUpsert = r.Header.Get("x-upsert")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	up := NewSupabaseUploader(server.URL, "service-key", "media")
	url, err := up.Upload(context.Background(), "uploads/a.png", "image/png", strings.NewReader("x"))
	require.NoError(t, err)

	assert.Equal(t, "/storage/v1/object/media/uploads/a.png", gotPath)
	assert.Equal(t, "Bearer service-key", gotAuth)
	assert.Equal(t, "true", gotUpsert)
	assert.Equal(t, server.URL+"/storage/v1/object/public/media/uploads/a.png", url)
}

func TestSupabaseUploaderSurfacesFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bucket not found", http.StatusNotFound)
	}))
	defer server.Close()

	up := NewSupabaseUploader(server.URL, "service-key", "missing")
	_, err := up.Upload(context.Background(), "a.png", "", strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
