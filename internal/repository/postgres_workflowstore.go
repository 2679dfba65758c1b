package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresWorkflowStore is a PostgreSQL implementation of the WorkflowStore
// interface. The pool is constructed by the caller and shared across all
// requests; each query acquires a connection for its own duration only.
type PostgresWorkflowStore struct {
	db *pgxpool.Pool
}

// NewPostgresWorkflowStore creates a new PostgresWorkflowStore.
func NewPostgresWorkflowStore(db *pgxpool.Pool) *PostgresWorkflowStore {
	return &PostgresWorkflowStore{db: db}
}

// GetWorkflow retrieves a workflow by its id.
func (s *PostgresWorkflowStore) GetWorkflow(ctx context.Context, id int64) (*Workflow, error) {
	var workflow Workflow
	err := s.db.QueryRow(ctx, "SELECT id, is_public, secret FROM workflow WHERE id = $1", id).
		Scan(&workflow.ID, &workflow.Public, &workflow.Secret)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &workflow, nil
}

// Healthz runs a trivial query to confirm a connection can be acquired and
// the database answers.
func (s *PostgresWorkflowStore) Healthz(ctx context.Context) error {
	var one int
	return s.db.QueryRow(ctx, "SELECT 1").Scan(&one)
}
