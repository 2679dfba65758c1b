// Command seed loads local-development fixtures: a workflow table with one
// public and one private workflow, and a storage bucket holding their
// manifests and artifacts. It exists so a dev can run the gateway against
// minio and Postgres without the main application.
package main

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/url"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"datasets-gateway/internal/config"
	"datasets-gateway/internal/logging"
)

const createTable = `CREATE TABLE IF NOT EXISTS workflow (
	id BIGINT PRIMARY KEY,
	is_public BOOLEAN NOT NULL,
	secret TEXT NOT NULL
)`

var workflows = []struct {
	id     int64
	public bool
	secret string
}{
	{1, true, ""},
	{2, false, "dev-secret"},
}

var objects = map[string]string{
	"wf-1/datapackage.json":           `{"name":"1-sample-dataset","resources":[{"data":[]}]}`,
	"wf-1/r1/datapackage.json":        `{"name":"1-sample-dataset","resources":[{"data":[]}]}`,
	"wf-1/r1/README.md":               "# Sample dataset\n\nSeeded for local development.\n",
	"wf-1/r1/data/tab-1_json.json.gz": "placeholder",
	"wf-2/datapackage.json":           `{"name":"2-private-dataset","resources":[{"data":[]}]}`,
}

func main() {
	ctx := context.Background()
	logger := logging.NewLogger()

	cfg, err := config.LoadConfig("")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Storage.Engine != "s3" {
		log.Fatalf("seed only supports the s3 engine (got %q)", cfg.Storage.Engine)
	}

	if err := seedDatabase(ctx, cfg); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	logger.Info("Seeded %d workflows", len(workflows))

	if err := seedStorage(ctx, cfg); err != nil {
		log.Fatalf("Failed to seed storage: %v", err)
	}
	logger.Info("Seeded %d objects into bucket %q", len(objects), cfg.Storage.Bucket)
}

func seedDatabase(ctx context.Context, cfg *config.Config) error {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.SSLMode,
	)
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return err
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, createTable); err != nil {
		return err
	}
	for _, workflow := range workflows {
		_, err := pool.Exec(ctx,
			`INSERT INTO workflow (id, is_public, secret) VALUES ($1, $2, $3)
			 ON CONFLICT (id) DO UPDATE SET is_public = $2, secret = $3`,
			workflow.id, workflow.public, workflow.secret)
		if err != nil {
			return err
		}
	}
	return nil
}

func seedStorage(ctx context.Context, cfg *config.Config) error {
	u, err := url.Parse(cfg.Storage.Endpoint)
	if err != nil {
		return err
	}
	client, err := minio.New(u.Host, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure:       u.Scheme == "https",
		Region:       "us-east-1",
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return err
	}

	exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
	if err != nil {
		return err
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Storage.Bucket, minio.MakeBucketOptions{}); err != nil {
			return err
		}
	}

	for key, body := range objects {
		_, err := client.PutObject(ctx, cfg.Storage.Bucket, key,
			bytes.NewReader([]byte(body)), int64(len(body)), minio.PutObjectOptions{})
		if err != nil {
			return err
		}
	}
	return nil
}
