package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type localUploader struct {
	dir       string
	publicURL string
}

// NewLocalUploader creates an Uploader writing to a local directory. It is
// the composition-time choice for development runs without object storage;
// publicURL is the base under which the directory is served.
func NewLocalUploader(dir, publicURL string) Uploader {
	return &localUploader{dir: dir, publicURL: strings.TrimSuffix(publicURL, "/")}
}

func (u *localUploader) Upload(ctx context.Context, path, contentType string, data io.Reader) (string, error) {
	// Uploaded paths are server-generated, but keep traversal out anyway.
	clean := filepath.Clean("/" + path)
	dest := filepath.Join(u.dir, clean)

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, data); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%s", u.publicURL, clean), nil
}
