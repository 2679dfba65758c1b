package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"datasets-gateway/internal/repository"
)

// fakeWorkflowStore serves workflows from a map.
type fakeWorkflowStore struct {
	workflows map[int64]*repository.Workflow
}

func (f *fakeWorkflowStore) GetWorkflow(ctx context.Context, id int64) (*repository.Workflow, error) {
	workflow, ok := f.workflows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return workflow, nil
}

func (f *fakeWorkflowStore) Healthz(ctx context.Context) error { return nil }

func bearer(secret string) string {
	return "Bearer " + base64.StdEncoding.EncodeToString([]byte(secret))
}

func TestCredentialFromHeader(t *testing.T) {
	t.Run("absent header is the anonymous credential", func(t *testing.T) {
		credential, err := CredentialFromHeader("")
		assert.NoError(t, err)
		assert.Equal(t, "", credential)
	})

	t.Run("Bearer base64 decodes to the secret", func(t *testing.T) {
		credential, err := CredentialFromHeader(bearer("right-secret"))
		assert.NoError(t, err)
		assert.Equal(t, "right-secret", credential)
	})

	t.Run("wrong scheme keyword is malformed", func(t *testing.T) {
		_, err := CredentialFromHeader("Bear " + base64.StdEncoding.EncodeToString([]byte("x")))
		assert.ErrorIs(t, err, ErrMalformedCredential)
	})

	t.Run("undecodable payload is malformed", func(t *testing.T) {
		_, err := CredentialFromHeader("Bearer !!!not-base64!!!")
		assert.ErrorIs(t, err, ErrMalformedCredential)
	})
}

func TestAuthorize(t *testing.T) {
	ctx := context.Background()
	store := &fakeWorkflowStore{workflows: map[int64]*repository.Workflow{
		10: {ID: 10, Public: true, Secret: ""},
		11: {ID: 11, Public: false, Secret: "right-secret"},
	}}

	t.Run("public workflow authorizes any credential", func(t *testing.T) {
		assert.NoError(t, Authorize(ctx, store, 10, ""))
		assert.NoError(t, Authorize(ctx, store, 10, "whatever"))
	})

	t.Run("private workflow with matching secret", func(t *testing.T) {
		assert.NoError(t, Authorize(ctx, store, 11, "right-secret"))
	})

	t.Run("private workflow with no credential", func(t *testing.T) {
		assert.ErrorIs(t, Authorize(ctx, store, 11, ""), ErrForbidden)
	})

	t.Run("private workflow with wrong secret of equal length", func(t *testing.T) {
		assert.ErrorIs(t, Authorize(ctx, store, 11, "risht-secret"), ErrForbidden)
	})

	t.Run("private workflow with wrong secret of different length", func(t *testing.T) {
		assert.ErrorIs(t, Authorize(ctx, store, 11, "right-secret-but-longer"), ErrForbidden)
	})

	t.Run("missing workflow", func(t *testing.T) {
		assert.ErrorIs(t, Authorize(ctx, store, 15, ""), ErrWorkflowNotFound)
	})

	t.Run("repository faults pass through", func(t *testing.T) {
		boom := errors.New("connection refused")
		err := Authorize(ctx, &failingWorkflowStore{err: boom}, 11, "")
		assert.ErrorIs(t, err, boom)
	})
}

type failingWorkflowStore struct {
	err error
}

func (f *failingWorkflowStore) GetWorkflow(ctx context.Context, id int64) (*repository.Workflow, error) {
	return nil, f.err
}

func (f *failingWorkflowStore) Healthz(ctx context.Context) error { return f.err }
