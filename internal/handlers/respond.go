package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tutorhub/server/internal/models"
	"github.com/tutorhub/server/internal/services"
)

// respondError translates service errors into HTTP status codes: missing
// bookings are 404, precondition failures 400, everything else 500.
func respondError(c *gin.Context, err error) {
	var stateErr *services.InvalidStateError

	switch {
	case errors.Is(err, services.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse(err.Error()))
	case errors.As(err, &stateErr):
		c.JSON(http.StatusBadRequest, models.ErrorResponse(stateErr.Message))
	case errors.Is(err, services.ErrInvalidResolution):
		c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
	}
}

func parseBookingID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid booking ID format"))
		return uuid.Nil, false
	}
	return id, true
}
