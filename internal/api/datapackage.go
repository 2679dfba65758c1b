package api

import (
	"context"
	"encoding/json"
	"errors"

	"datasets-gateway/internal/storage"
)

// datapackage is the subset of the manifest the gateway interprets. The
// name is the dataset's canonical slug; everything else is served verbatim.
type datapackage struct {
	Name string
}

// loadDatapackage fetches and validates the manifest at key, returning
// both the raw bytes (served directly on manifest routes) and the parsed
// canonical name (used for redirection).
//
// A missing manifest means the dataset was never published. A manifest
// that doesn't parse, or parses without a string name, is a server-side
// data integrity fault, not a client error.
func (s *Server) loadDatapackage(ctx context.Context, key string) ([]byte, *datapackage, error) {
	buf, err := s.store.ReadBytes(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil, errDatasetNotPublished
	}
	if err != nil {
		return nil, nil, err
	}

	var fields map[string]any
	if err := json.Unmarshal(buf, &fields); err != nil {
		return nil, nil, errInvalidDatapackage
	}
	name, ok := fields["name"].(string)
	if !ok {
		return nil, nil, errInvalidDatapackage
	}
	return buf, &datapackage{Name: name}, nil
}

// redirectOnWrongSlug enforces canonicalization: any slug other than the
// manifest's declared name redirects to the same subpath under the
// canonical slug. Exact string comparison, no case-folding; a bare numeric
// slug redirects unless the canonical name is literally that string.
func redirectOnWrongSlug(slug, canonical, subpath string) error {
	if slug == canonical {
		return nil
	}
	return redirectTo("/v1/datasets/" + canonical + "/" + subpath)
}
