package storage

import (
	"context"
	"errors"
	"io"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSStore reads objects from a Google Cloud Storage bucket.
type GCSStore struct {
	bucket *gcs.BucketHandle
}

// NewGCSStore creates a GCSStore for the bucket. A non-empty endpoint
// points the client at a GCS emulator and disables authentication.
func NewGCSStore(ctx context.Context, endpoint, bucket string) (*GCSStore, error) {
	var opts []option.ClientOption
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint), option.WithoutAuthentication())
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &GCSStore{bucket: client.Bucket(bucket)}, nil
}

// ReadBytes fetches the full object at key.
func (g *GCSStore) ReadBytes(ctx context.Context, key string) ([]byte, error) {
	reader, err := g.NewReader(ctx, key)
	if err != nil {
		return nil, err
	}
	defer reader.Body.Close()
	return io.ReadAll(reader.Body)
}

// NewReader opens a streaming read of the object at key. The client's
// NewReader returns only after response headers arrive, so the outcome and
// length are known before the caller sees the handle and no body bytes are
// consumed until the caller reads.
func (g *GCSStore) NewReader(ctx context.Context, key string) (*Reader, error) {
	reader, err := g.bucket.Object(objectName(key)).NewReader(ctx)
	if err != nil {
		return nil, translateGCSError(err)
	}
	return &Reader{Body: reader, ContentLength: reader.Attrs.Size}, nil
}

// Healthz probes the backend with a metadata read of the well-known probe
// key.
func (g *GCSStore) Healthz(ctx context.Context) error {
	_, err := g.bucket.Object(healthzKey).Attrs(ctx)
	if err == nil || errors.Is(translateGCSError(err), ErrNotFound) {
		return nil
	}
	return err
}

// translateGCSError maps the client's not-found sentinel onto ErrNotFound
// and leaves every other fault untouched.
func translateGCSError(err error) error {
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return ErrNotFound
	}
	return err
}
