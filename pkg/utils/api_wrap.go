package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIError is the envelope for every non-200 response. Success bodies are
// the raw contract shapes the consuming backend expects, so there is no
// success envelope here.
type APIError struct {
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	TraceID string `json:"trace_id,omitempty"`
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIError{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
	})
}

// HandleServiceError maps service-layer failures to HTTP statuses. Parse
// failures never reach here; they are absorbed into fallback values inside
// the service.
func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUpstreamUnavailable), errors.Is(err, ErrEmptyModelResponse):
		RespondError(c, http.StatusBadGateway, "model provider unavailable")
	default:
		RespondError(c, http.StatusInternalServerError, "internal server error")
	}
}
