package assets

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStoreSource serves the widget bundle from an S3-compatible bucket.
type ObjectStoreSource struct {
	client *minio.Client
	bucket string
	key    string
	logger *slog.Logger
}

// NewObjectStoreSource constructs the adapter.
func NewObjectStoreSource(endpoint, accessKey, secretKey, bucket, region, key string, logger *slog.Logger) (*ObjectStoreSource, error) {
	cleanEndpoint := sanitizeEndpoint(endpoint)
	useSSL := strings.HasPrefix(strings.ToLower(endpoint), "https")
	client, err := minio.New(cleanEndpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure:       useSSL,
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init object store client: %w", err)
	}
	return &ObjectStoreSource{
		client: client,
		bucket: bucket,
		key:    key,
		logger: logger.With("component", "assets.objectstore"),
	}, nil
}

// Bundle fetches the widget script object.
func (s *ObjectStoreSource) Bundle(ctx context.Context) (io.ReadCloser, string, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", err
	}
	stat, err := obj.Stat()
	if err != nil {
		return nil, "", err
	}
	return obj, stat.ETag, nil
}

var _ BundleSource = (*ObjectStoreSource)(nil)

// sanitizeEndpoint removes schemes and paths to satisfy minio.New expectations.
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if strings.Contains(raw, "/") {
		parts := strings.Split(raw, "/")
		raw = parts[0]
	}
	return raw
}
