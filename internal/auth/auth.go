// Package auth decodes the caller's presented credential and decides
// whether it may read a workflow's datasets.
package auth

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"strings"

	"datasets-gateway/internal/repository"
)

var (
	// ErrMalformedCredential means the Authorization header was present
	// but not of the form "Bearer <base64>".
	ErrMalformedCredential = errors.New("badly-formed Authorization header")
	// ErrWorkflowNotFound means no workflow exists with the given id.
	ErrWorkflowNotFound = errors.New("workflow not found")
	// ErrForbidden means the credential does not match the workflow's secret.
	ErrForbidden = errors.New("wrong Authorization token")
)

const bearerPrefix = "Bearer "

// CredentialFromHeader extracts the caller's secret from an Authorization
// header value. An absent header is the anonymous credential "", which is
// a valid credential for public workflows.
func CredentialFromHeader(header string) (string, error) {
	if header == "" {
		return "", nil
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", ErrMalformedCredential
	}
	secret, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(header, bearerPrefix))
	if err != nil {
		return "", ErrMalformedCredential
	}
	return string(secret), nil
}

// Authorize decides whether credential may read workflow id.
//
// Public workflows authorize any credential. Private workflows require the
// credential to equal the stored secret; the comparison is constant-time so
// response timing leaks nothing about the secret's content. Returns
// ErrWorkflowNotFound when the id does not exist, ErrForbidden on a
// mismatch, or a repository fault verbatim.
func Authorize(ctx context.Context, store repository.WorkflowStore, id int64, credential string) error {
	workflow, err := store.GetWorkflow(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrWorkflowNotFound
	}
	if err != nil {
		return err
	}
	if workflow.Public {
		return nil
	}
	// ConstantTimeCompare reports a mismatch for unequal lengths without
	// inspecting content.
	if subtle.ConstantTimeCompare([]byte(credential), []byte(workflow.Secret)) != 1 {
		return ErrForbidden
	}
	return nil
}
