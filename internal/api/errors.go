package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/apollineguerineau/OnTheFloor/internal/domain"
	"github.com/apollineguerineau/OnTheFloor/internal/ordering"
	"github.com/apollineguerineau/OnTheFloor/internal/service"
)

// respondServiceError translates service-layer errors into HTTP responses.
// Ownership failures map to 403 and missing resources to 404; position and
// placement violations map to 400.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrBlockNotFound),
		errors.Is(err, service.ErrExerciseNotFound),
		errors.Is(err, service.ErrPhotoNotFound),
		errors.Is(err, service.ErrLocationNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, ordering.ErrInvalidPosition),
		errors.Is(err, service.ErrConflictingPosition),
		errors.Is(err, service.ErrBlockSessionMismatch),
		errors.Is(err, service.ErrUnsupportedMove),
		errors.Is(err, service.ErrValidationFailed),
		errors.Is(err, domain.ErrInvalidPlacement):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
