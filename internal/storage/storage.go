// Package storage abstracts byte-exact and streaming reads over two
// naming-incompatible object-store backends behind one interface.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNotFound is returned when no object exists at the requested key.
// Both backends translate their native not-found representation into this
// one error; every other backend fault passes through verbatim so
// operational errors stay diagnosable.
var ErrNotFound = errors.New("key not found")

// Reader owns an open byte stream plus the object's exact length. The
// stream has not started: no bytes are consumed until the caller reads.
// The caller must Close the Body on every exit path.
type Reader struct {
	Body          io.ReadCloser
	ContentLength int64
}

// Store is a read-only view of a dataset bucket. Implementations are
// stateless and safe for concurrent use.
type Store interface {
	// ReadBytes fetches the full object at key. Returns ErrNotFound if
	// absent.
	ReadBytes(ctx context.Context, key string) ([]byte, error)
	// NewReader opens a streaming read of the object at key without
	// buffering it in memory. It blocks until the backend has confirmed
	// success and reported the object's length, then returns a not-yet-
	// started Reader. Returns ErrNotFound if absent.
	NewReader(ctx context.Context, key string) (*Reader, error)
	// Healthz probes the backend with a cheap existence check of a fixed
	// key. A missing probe object still counts as healthy; only a backend
	// that fails to answer is an error.
	Healthz(ctx context.Context) error
}

// The probe object need not exist; see Store.Healthz.
const healthzKey = "healthz"

// Config selects and parameterizes a backend.
type Config struct {
	Engine    string
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
}

// New constructs the Store named by cfg.Engine.
func New(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Engine {
	case "s3":
		return NewS3Store(cfg.Endpoint, cfg.Bucket, cfg.AccessKey, cfg.SecretKey)
	case "gcs":
		return NewGCSStore(ctx, cfg.Endpoint, cfg.Bucket)
	default:
		return nil, fmt.Errorf("unknown storage engine %q", cfg.Engine)
	}
}

// Keys arrive as "/wf-<id>/..." paths; object names have no leading slash.
func objectName(key string) string {
	return strings.TrimPrefix(key, "/")
}
