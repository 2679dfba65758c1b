package api

import (
	"context"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
)

// healthzReport is the composite health check body. Failing fields carry
// the probe's diagnostic text verbatim.
type healthzReport struct {
	Database string `json:"database"`
	Storage  string `json:"storage"`
}

// handleHealthz probes the workflow repository and the blob store
// concurrently; the probes are independent and must not block each other.
// The shared timeout is deliberately shorter than normal-traffic timeouts
// so a degraded backend can't make /healthz itself hang.
func (s *Server) handleHealthz(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), s.healthTimeout)
	defer cancel()

	var databaseErr, storageErr error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		databaseErr = s.repo.Healthz(ctx)
	}()
	go func() {
		defer wg.Done()
		storageErr = s.store.Healthz(ctx)
	}()
	wg.Wait()

	report := healthzReport{Database: "ok", Storage: "ok"}
	status := http.StatusOK
	if databaseErr != nil {
		report.Database = databaseErr.Error()
		status = http.StatusInternalServerError
	}
	if storageErr != nil {
		report.Storage = storageErr.Error()
		status = http.StatusInternalServerError
	}
	return c.JSON(status, report)
}
