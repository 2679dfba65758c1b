package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// httpError is a terminal response decided somewhere in the request
// pipeline: a fixed status and plain-text body, or a redirect. Clients
// match on the exact text, so these strings are part of the contract.
type httpError struct {
	status   int
	text     string
	location string
}

func (e *httpError) Error() string { return e.text }

var (
	errMalformedAuth       = &httpError{status: http.StatusBadRequest, text: "Badly-formed Authorization header"}
	errWrongToken          = &httpError{status: http.StatusForbidden, text: "Wrong Authorization token"}
	errWorkflowNotInt      = &httpError{status: http.StatusNotFound, text: "Workflow must start with an integer"}
	errWorkflowNotFound    = &httpError{status: http.StatusNotFound, text: "Workflow not found"}
	errDatasetNotPublished = &httpError{status: http.StatusNotFound, text: "This dataset is not published"}
	errFileNotInDataset    = &httpError{status: http.StatusNotFound, text: "This file is not in the dataset"}
	errInvalidDatapackage  = &httpError{status: http.StatusInternalServerError, text: "Invalid datapackage.json"}
)

func redirectTo(location string) *httpError {
	return &httpError{status: http.StatusFound, location: location}
}

// errorHandler writes recognized pipeline failures and hands everything
// else to echo's default handler, so unexpected faults surface as generic
// 500s instead of being masked into a typed case.
func (s *Server) errorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var failure *httpError
		if !errors.As(err, &failure) {
			var echoErr *echo.HTTPError
			if !errors.As(err, &echoErr) || echoErr.Code >= http.StatusInternalServerError {
				s.logger.Error("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
			}
			e.DefaultHTTPErrorHandler(err, c)
			return
		}
		if c.Response().Committed {
			return
		}
		if failure.location != "" {
			_ = c.Redirect(failure.status, failure.location)
			return
		}
		if failure.status >= http.StatusInternalServerError {
			s.logger.Error("%s %s: %s", c.Request().Method, c.Request().URL.Path, failure.text)
		}
		_ = c.String(failure.status, failure.text)
	}
}
