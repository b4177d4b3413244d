package server

import (
	"errors"
	"net/http"
	"strconv"

	"stock-analyzer/src/helpers"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------

// respondError writes the boundary error contract: an HTTP status plus a
// machine-checkable "status" code and diagnostic text.
func respondError(c *gin.Context, err error) {
	c.JSON(httpStatusFor(err), gin.H{
		"status": helpers.StatusOf(err),
		"error":  err.Error(),
	})
}

// -----------------------------------------------------------------------------

// httpStatusFor maps the error categories onto HTTP: absent handles are
// 404, an exhausted memory budget is 507, everything else the caller can
// correct is 400.
func httpStatusFor(err error) int {
	var handleErr *helpers.HandleError
	var allocErr *helpers.AllocationError

	switch {
	case errors.As(err, &handleErr):
		return http.StatusNotFound
	case errors.As(err, &allocErr):
		return http.StatusInsufficientStorage
	default:
		return http.StatusBadRequest
	}
}

// -----------------------------------------------------------------------------

// parseHandle parses an opaque handle from a path parameter.
func parseHandle(raw string) (uint64, error) {
	handle, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, helpers.NewMissingArgumentError("invalid handle %q", raw)
	}
	return handle, nil
}

// -----------------------------------------------------------------------------

// parseIndex parses a non-negative integer query/path parameter.
func parseIndex(raw, field string) (int, error) {
	if raw == "" {
		return 0, helpers.NewMissingArgumentError("%s parameter is required", field)
	}

	idx, err := strconv.Atoi(raw)
	if err != nil || idx < 0 {
		return 0, helpers.NewRangeError("invalid %s parameter %q", field, raw)
	}
	return idx, nil
}
