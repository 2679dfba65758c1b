package repository

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no workflow exists with the requested id.
var ErrNotFound = errors.New("workflow not found")

// Workflow is the access-control record for a published dataset. The
// gateway is a read-only consumer; rows are created and destroyed by the
// main application.
type Workflow struct {
	ID     int64
	Public bool
	Secret string
}

// WorkflowStore resolves visibility and secrets for numeric workflow ids.
type WorkflowStore interface {
	// GetWorkflow retrieves a workflow by its id. Returns ErrNotFound if
	// the workflow does not exist.
	GetWorkflow(ctx context.Context, id int64) (*Workflow, error)
	// Healthz probes the underlying store. It returns nil when the store
	// answers queries.
	Healthz(ctx context.Context) error
}
