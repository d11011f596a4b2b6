package api

import (
	"errors"
	"net/http"

	"organizer/internal/metrics"
	"organizer/internal/smart"
	"organizer/internal/types"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// statusFor maps an error kind to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, smart.ErrNoModel):
		return http.StatusServiceUnavailable
	case errors.Is(err, types.ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrInvalidArgument), errors.Is(err, types.ErrUnsupported):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrInvalidModelResponse), errors.Is(err, types.ErrModelTransport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusFor(err), ErrorResponse{Error: err.Error(), Code: metrics.Status(err)})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: msg, Code: "invalid_argument"})
}
