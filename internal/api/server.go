// Package api contains the HTTP handlers for the dataset gateway.
package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"datasets-gateway/internal/auth"
	"datasets-gateway/internal/logging"
	"datasets-gateway/internal/repository"
	"datasets-gateway/internal/storage"
)

// Server holds the collaborators for the dataset routes. Both stores are
// injected; the server owns no connections of its own.
type Server struct {
	repo          repository.WorkflowStore
	store         storage.Store
	logger        *logging.Logger
	healthTimeout time.Duration
}

// NewServer creates a new Server.
func NewServer(repo repository.WorkflowStore, store storage.Store, logger *logging.Logger, healthTimeout time.Duration) *Server {
	return &Server{repo: repo, store: store, logger: logger, healthTimeout: healthTimeout}
}

// Register mounts the gateway routes and the error funnel on e. The
// routes form a closed set: two manifest shapes, two artifact shapes, the
// health check, and the API docs. Anything else falls to echo's 404.
func (s *Server) Register(e *echo.Echo) {
	e.HTTPErrorHandler = s.errorHandler(e)
	e.GET("/healthz", s.handleHealthz)
	e.GET("/v1/datasets/:slug/datapackage.json", s.handleDatapackage)
	e.GET("/v1/datasets/:slug/:revision/datapackage.json", s.handleRevisionDatapackage)
	e.GET("/v1/datasets/:slug/:revision/README.md", s.handleReadme)
	e.GET("/v1/datasets/:slug/:revision/data/:filename", s.handleDataFile)
	e.GET("/openapi.yaml", s.handleOpenAPISpec)
	e.GET("/docs", s.handleDocs)
}

// authorizeSlug resolves the slug to a workflow id and enforces access.
// It runs on every workflow-touching route, including manifest-only ones:
// the manifest itself isn't secret, but the dataset around it is.
func (s *Server) authorizeSlug(c echo.Context, slug string) (int64, error) {
	credential, err := auth.CredentialFromHeader(c.Request().Header.Get(echo.HeaderAuthorization))
	if err != nil {
		return 0, errMalformedAuth
	}
	id, err := parseSlug(slug)
	if err != nil {
		return 0, err
	}
	err = auth.Authorize(c.Request().Context(), s.repo, id, credential)
	switch {
	case errors.Is(err, auth.ErrWorkflowNotFound):
		// An absent workflow is a 404, deliberately not a 403.
		return 0, errWorkflowNotFound
	case errors.Is(err, auth.ErrForbidden):
		return 0, errWrongToken
	case err != nil:
		return 0, err
	}
	return id, nil
}

// handleDatapackage serves the top-level (unrevisioned) manifest.
func (s *Server) handleDatapackage(c echo.Context) error {
	slug := c.Param("slug")
	id, err := s.authorizeSlug(c, slug)
	if err != nil {
		return err
	}
	buf, dp, err := s.loadDatapackage(c.Request().Context(), fmt.Sprintf("/wf-%d/datapackage.json", id))
	if err != nil {
		return err
	}
	if err := redirectOnWrongSlug(slug, dp.Name, "datapackage.json"); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, buf)
}

// handleRevisionDatapackage serves a revisioned manifest. The revision is
// opaque here: it is used verbatim as a storage path component, and a
// bogus one simply misses in storage.
func (s *Server) handleRevisionDatapackage(c echo.Context) error {
	slug := c.Param("slug")
	revision := c.Param("revision")
	id, err := s.authorizeSlug(c, slug)
	if err != nil {
		return err
	}
	buf, dp, err := s.loadDatapackage(c.Request().Context(), fmt.Sprintf("/wf-%d/%s/datapackage.json", id, revision))
	if err != nil {
		return err
	}
	if err := redirectOnWrongSlug(slug, dp.Name, revision+"/datapackage.json"); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, buf)
}
