package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"lotauctiongo/internal/apperrors"
)

type ErrorResponse struct {
	Error string `json:"error"`
} // @name ErrorResponse

// StatusOf maps the service error taxonomy onto HTTP status codes.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, apperrors.ErrPermission):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func JSON(c *gin.Context, err error) {
	c.JSON(StatusOf(err), ErrorResponse{Error: err.Error()})
}
