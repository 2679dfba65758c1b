package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGCS serves the two slices of the GCS HTTP surface the adapter uses:
// JSON metadata reads at /b/<bucket>/o/<object> and media downloads at
// /<bucket>/<object>. Missing keys get a 404 on both, matching the real
// service.
func fakeGCS(objects map[string][]byte) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if key, ok := strings.CutPrefix(r.URL.Path, "/b/"+testBucket+"/o/"); ok {
			body, exists := objects[key]
			if !exists {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusNotFound)
				fmt.Fprint(w, `{"error":{"code":404,"message":"No such object"}}`)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"bucket":%q,"name":%q,"size":"%d"}`, testBucket, key, len(body))
			return
		}
		if key, ok := strings.CutPrefix(r.URL.Path, "/"+testBucket+"/"); ok {
			body, exists := objects[key]
			if !exists {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Header().Set("Content-Length", fmt.Sprint(len(body)))
			w.Header().Set("Content-Type", "application/octet-stream")
			w.Write(body)
			return
		}
		w.WriteHeader(http.StatusBadRequest)
	})
}

func newTestGCSStore(t *testing.T, objects map[string][]byte) *GCSStore {
	t.Helper()
	server := httptest.NewServer(fakeGCS(objects))
	t.Cleanup(server.Close)

	store, err := NewGCSStore(context.Background(), server.URL, testBucket)
	require.NoError(t, err)
	return store
}

func TestGCSStoreReadBytes(t *testing.T) {
	ctx := context.Background()
	manifest := []byte(`{"id":"https://datasets.test/1-stream-dataset","resources":[{}]}`)
	store := newTestGCSStore(t, map[string][]byte{"wf-1/datapackage.json": manifest})

	t.Run("existing key returns the exact bytes", func(t *testing.T) {
		data, err := store.ReadBytes(ctx, "/wf-1/datapackage.json")
		assert.NoError(t, err)
		assert.Equal(t, manifest, data)
	})

	t.Run("missing key gives ErrNotFound", func(t *testing.T) {
		_, err := store.ReadBytes(ctx, "/wf-2/datapackage.json")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestGCSStoreNewReader(t *testing.T) {
	ctx := context.Background()
	readme := []byte("# Readme\n\n(please)\n")
	store := newTestGCSStore(t, map[string][]byte{"wf-3/r1/README.md": readme})

	t.Run("reports length up front and streams the contents", func(t *testing.T) {
		reader, err := store.NewReader(ctx, "/wf-3/r1/README.md")
		require.NoError(t, err)
		defer reader.Body.Close()

		assert.Equal(t, int64(len(readme)), reader.ContentLength)
		contents, err := io.ReadAll(reader.Body)
		assert.NoError(t, err)
		assert.Equal(t, readme, contents)
	})

	t.Run("missing key gives ErrNotFound", func(t *testing.T) {
		_, err := store.NewReader(ctx, "/wf-4/r1/README.md")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestGCSStoreHealthz(t *testing.T) {
	ctx := context.Background()

	t.Run("missing probe object still counts as healthy", func(t *testing.T) {
		store := newTestGCSStore(t, map[string][]byte{})
		assert.NoError(t, store.Healthz(ctx))
	})

	t.Run("existing probe object is healthy", func(t *testing.T) {
		store := newTestGCSStore(t, map[string][]byte{"healthz": []byte("ok")})
		assert.NoError(t, store.Healthz(ctx))
	})

	t.Run("backend fault is reported verbatim", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()
		store, err := NewGCSStore(context.Background(), server.URL, testBucket)
		require.NoError(t, err)
		assert.Error(t, store.Healthz(ctx))
	})
}
