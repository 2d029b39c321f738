package assets

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
)

// LocalSource serves the widget bundle from a file on disk, used in
// development setups without object storage.
type LocalSource struct {
	path string
}

// NewLocalSource constructs the adapter.
func NewLocalSource(path string) *LocalSource {
	return &LocalSource{path: path}
}

// Bundle opens the bundle file and derives a content ETag.
func (s *LocalSource) Bundle(_ context.Context) (io.ReadCloser, string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, "", err
	}
	sum := sha256.Sum256(data)
	file, err := os.Open(s.path)
	if err != nil {
		return nil, "", err
	}
	return file, hex.EncodeToString(sum[:8]), nil
}

var _ BundleSource = (*LocalSource)(nil)
