package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults apply without a config file", func(t *testing.T) {
		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, "localhost", cfg.DB.Host)
		assert.Equal(t, int32(3), cfg.DB.MaxConns)
		assert.Equal(t, time.Second, cfg.DB.AcquireTimeout)
		assert.Equal(t, "s3", cfg.Storage.Engine)
		assert.Equal(t, ":8080", cfg.Server.Addr)
		assert.Equal(t, 5*time.Second, cfg.Health.Timeout)
	})

	t.Run("file values override defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
db:
  host: db.internal
  max_conns: 5
storage:
  engine: gcs
  bucket: datasets.prod
health:
  timeout: 500ms
`), 0o644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "db.internal", cfg.DB.Host)
		assert.Equal(t, int32(5), cfg.DB.MaxConns)
		assert.Equal(t, "gcs", cfg.Storage.Engine)
		assert.Equal(t, "datasets.prod", cfg.Storage.Bucket)
		assert.Equal(t, 500*time.Millisecond, cfg.Health.Timeout)
		// untouched keys keep their defaults
		assert.Equal(t, 5432, cfg.DB.Port)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("DATASETS_STORAGE_ENDPOINT", "http://minio:9000")
		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, "http://minio:9000", cfg.Storage.Endpoint)
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}
