package api

import (
	"strconv"
	"strings"
)

// parseSlug extracts the numeric workflow id from a dataset slug of the
// form "<id>" or "<id>-<human-readable-suffix>". The suffix is cosmetic;
// only the integer prefix is load-bearing. No bounds are checked:
// a zero id simply won't be found in the repository.
func parseSlug(slug string) (int64, error) {
	idPart := slug
	if i := strings.IndexByte(slug, '-'); i >= 0 {
		idPart = slug[:i]
	}
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		return 0, errWorkflowNotInt
	}
	return id, nil
}
