package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	collabdomain "github.com/smallbiznis/gatekeeper/internal/collaborator/domain"
	"github.com/smallbiznis/gatekeeper/internal/config"
	webhookdomain "github.com/smallbiznis/gatekeeper/internal/webhook/domain"
)

type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidRequest  = errors.New("invalid_request")
	ErrInvalidIdentity = errors.New("invalid_github_username")
	ErrNotFound        = errors.New("not_found")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, message := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{OK: false, Error: message})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

// mapError picks the response status. Missing configuration names the unset
// variable; downstream failures stay generic.
func mapError(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, "internal error"
	case errors.Is(err, webhookdomain.ErrInvalidSignature):
		return http.StatusUnauthorized, "invalid signature"
	case errors.Is(err, webhookdomain.ErrInvalidToken):
		return http.StatusUnauthorized, "invalid token"
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, ErrInvalidIdentity):
		return http.StatusBadRequest, "invalid github username"
	case errors.Is(err, webhookdomain.ErrInvalidPayload),
		errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest, "invalid request"
	case errors.Is(err, webhookdomain.ErrProviderNotFound),
		errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, config.ErrMissingConfig):
		return http.StatusInternalServerError, err.Error()
	case errors.Is(err, collabdomain.ErrOperationFailed):
		return http.StatusInternalServerError, "collaborator update failed"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// classifyErrorForLog returns the error type and code logged with the request.
func classifyErrorForLog(err error) (string, string) {
	switch {
	case err == nil:
		return "", ""
	case errors.Is(err, webhookdomain.ErrInvalidSignature):
		return "authentication", "invalid_signature"
	case errors.Is(err, webhookdomain.ErrInvalidToken):
		return "authentication", "invalid_token"
	case errors.Is(err, ErrUnauthorized):
		return "authentication", "unauthorized"
	case errors.Is(err, ErrInvalidIdentity),
		errors.Is(err, webhookdomain.ErrInvalidPayload),
		errors.Is(err, ErrInvalidRequest):
		return "validation", "invalid_request"
	case errors.Is(err, webhookdomain.ErrProviderNotFound),
		errors.Is(err, ErrNotFound):
		return "not_found", "not_found"
	case errors.Is(err, config.ErrMissingConfig):
		return "configuration", "missing_config"
	case errors.Is(err, collabdomain.ErrOperationFailed):
		return "downstream", "collaborator_operation_failed"
	default:
		return "internal", "internal_error"
	}
}
