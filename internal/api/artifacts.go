package api

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"

	"github.com/labstack/echo/v4"

	"datasets-gateway/internal/storage"
)

// Artifact routes accept a closed vocabulary of shapes; anything else is
// an unmatched route, not a dataset lookup.
var (
	slugPattern     = regexp.MustCompile(`^[-0-9a-z]+$`)
	revisionPattern = regexp.MustCompile(`^r[0-9]+$`)
	dataFilePattern = regexp.MustCompile(`^[-a-z0-9]+_(parquet\.parquet|csv\.csv\.gz|json\.json\.gz)$`)
)

// contentTypes maps a recognized filename suffix to its response
// content-type. Parquet has no registered MIME type.
var contentTypes = map[string]string{
	"parquet.parquet": "application/x-parquet",
	"csv.csv.gz":      "application/gzip",
	"json.json.gz":    "application/gzip",
}

const markdownContentType = "text/markdown; charset=utf-8"

func (s *Server) handleReadme(c echo.Context) error {
	return s.serveArtifact(c, "README.md", markdownContentType)
}

func (s *Server) handleDataFile(c echo.Context) error {
	filename := c.Param("filename")
	m := dataFilePattern.FindStringSubmatch(filename)
	if m == nil {
		return echo.ErrNotFound
	}
	return s.serveArtifact(c, "data/"+filename, contentTypes[m[1]])
}

// serveArtifact streams one artifact from a revision. The manifest is
// fetched first, so a missing dataset 404s before it can redirect, and
// only then is the artifact itself opened.
func (s *Server) serveArtifact(c echo.Context, file, contentType string) error {
	slug := c.Param("slug")
	revision := c.Param("revision")
	if !slugPattern.MatchString(slug) || !revisionPattern.MatchString(revision) {
		return echo.ErrNotFound
	}
	id, err := s.authorizeSlug(c, slug)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	_, dp, err := s.loadDatapackage(ctx, fmt.Sprintf("/wf-%d/%s/datapackage.json", id, revision))
	if err != nil {
		return err
	}
	subpath := revision + "/" + file
	if err := redirectOnWrongSlug(slug, dp.Name, subpath); err != nil {
		return err
	}

	reader, err := s.store.NewReader(ctx, fmt.Sprintf("/wf-%d/%s", id, subpath))
	if errors.Is(err, storage.ErrNotFound) {
		return errFileNotInDataset
	}
	if err != nil {
		return err
	}
	defer reader.Body.Close()

	c.Response().Header().Set(echo.HeaderContentLength, strconv.FormatInt(reader.ContentLength, 10))
	return c.Stream(http.StatusOK, contentType, reader.Body)
}
