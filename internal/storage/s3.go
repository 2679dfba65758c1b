package storage

import (
	"context"
	"errors"
	"io"
	"net/url"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Store reads objects from an S3-compatible backend.
type S3Store struct {
	client *minio.Client
	bucket string
}

// NewS3Store creates an S3Store for the bucket at endpoint. Path-style
// bucket lookup is forced so the store works against minio (used in local
// dev and the test suite) as well as AWS.
func NewS3Store(endpoint, bucket, accessKey, secretKey string) (*S3Store, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}
	creds := credentials.NewEnvAWS()
	if accessKey != "" {
		creds = credentials.NewStaticV4(accessKey, secretKey, "")
	}
	client, err := minio.New(u.Host, &minio.Options{
		Creds:        creds,
		Secure:       u.Scheme == "https",
		Region:       "us-east-1",
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, err
	}
	return &S3Store{client: client, bucket: bucket}, nil
}

// ReadBytes fetches the full object at key.
func (s *S3Store) ReadBytes(ctx context.Context, key string) ([]byte, error) {
	reader, err := s.NewReader(ctx, key)
	if err != nil {
		return nil, err
	}
	defer reader.Body.Close()
	return io.ReadAll(reader.Body)
}

// NewReader opens a streaming read of the object at key. GetObject is
// lazy, so Stat is used to force the request and learn the outcome and
// object length before the handle is handed to the caller.
func (s *S3Store) NewReader(ctx context.Context, key string) (*Reader, error) {
	object, err := s.client.GetObject(ctx, s.bucket, objectName(key), minio.GetObjectOptions{})
	if err != nil {
		return nil, translateS3Error(err)
	}
	info, err := object.Stat()
	if err != nil {
		object.Close()
		return nil, translateS3Error(err)
	}
	return &Reader{Body: object, ContentLength: info.Size}, nil
}

// Healthz probes the backend with a HEAD of the well-known probe key.
func (s *S3Store) Healthz(ctx context.Context) error {
	_, err := s.client.StatObject(ctx, s.bucket, healthzKey, minio.StatObjectOptions{})
	if err == nil || errors.Is(translateS3Error(err), ErrNotFound) {
		return nil
	}
	return err
}

// translateS3Error maps the backend's not-found representations onto
// ErrNotFound and leaves every other fault untouched. GET reports
// "NoSuchKey"; HEAD reports "NotFound" instead, and some S3
// implementations diverge further, so both codes are recognized.
func translateS3Error(err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NotFound":
		return ErrNotFound
	}
	return err
}
