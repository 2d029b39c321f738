package assets

import (
	"context"
	"io"
)

// BundleSource serves the embeddable widget script.
type BundleSource interface {
	// Bundle returns the script body, its ETag, and a closer.
	Bundle(ctx context.Context) (io.ReadCloser, string, error)
}
