package server

import (
	"errors"
	"net/http"

	messagingdomain "github.com/craftbid/matchengine/internal/messaging/domain"
	projectdomain "github.com/craftbid/matchengine/internal/project/domain"
	quotedomain "github.com/craftbid/matchengine/internal/quote/domain"
	ratingdomain "github.com/craftbid/matchengine/internal/rating/domain"
	supplierdomain "github.com/craftbid/matchengine/internal/supplier/domain"
	"github.com/gin-gonic/gin"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var ErrInvalidRequest = errors.New("invalid_request")

// ErrorHandlingMiddleware translates domain sentinels into HTTP responses
// after the handler chain runs.
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

		status, payload := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, projectdomain.ErrInvalidID),
		errors.Is(err, quotedomain.ErrInvalidID),
		errors.Is(err, quotedomain.ErrInvalidPrice),
		errors.Is(err, ratingdomain.ErrInvalidID),
		errors.Is(err, messagingdomain.ErrInvalidParticipants):
		return http.StatusBadRequest, errorPayload{Type: "invalid_request", Message: err.Error()}
	case errors.Is(err, projectdomain.ErrNotFound),
		errors.Is(err, quotedomain.ErrNotFound),
		errors.Is(err, ratingdomain.ErrSupplierNotFound),
		errors.Is(err, supplierdomain.ErrNotFound):
		return http.StatusNotFound, errorPayload{Type: "not_found", Message: err.Error()}
	case errors.Is(err, quotedomain.ErrForbidden):
		return http.StatusForbidden, errorPayload{Type: "forbidden", Message: err.Error()}
	case errors.Is(err, quotedomain.ErrDuplicateQuote),
		errors.Is(err, quotedomain.ErrNotPending):
		return http.StatusConflict, errorPayload{Type: "conflict", Message: err.Error()}
	default:
		return http.StatusInternalServerError, errorPayload{Type: "internal_error", Message: "internal error"}
	}
}
