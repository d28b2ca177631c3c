package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tutorhub/server/internal/models"
	"github.com/tutorhub/server/internal/services"
)

func GetBooking(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseBookingID(c)
		if !ok {
			return
		}

		booking, err := bs.GetBooking(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(booking, ""))
	}
}

func ListBookings(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := c.DefaultQuery("limit", "10")
		offset := c.DefaultQuery("offset", "0")
		limitInt, err := strconv.Atoi(limit)
		if err != nil || limitInt <= 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid limit parameter"))
			return
		}
		offsetInt, err := strconv.Atoi(offset)
		if err != nil || offsetInt < 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid offset parameter"))
			return
		}

		var bookings []*models.Booking
		var total int

		switch {
		case c.Query("student_id") != "":
			studentId, parseErr := uuid.Parse(c.Query("student_id"))
			if parseErr != nil {
				c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid student ID format"))
				return
			}
			bookings, total, err = bs.ListBookingsByStudent(c.Request.Context(), studentId, offsetInt, limitInt)
		case c.Query("tutor_id") != "":
			tutorId, parseErr := uuid.Parse(c.Query("tutor_id"))
			if parseErr != nil {
				c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid tutor ID format"))
				return
			}
			bookings, total, err = bs.ListBookingsByTutor(c.Request.Context(), tutorId, offsetInt, limitInt)
		default:
			c.JSON(http.StatusBadRequest, models.ErrorResponse("student_id or tutor_id query parameter is required"))
			return
		}

		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		page := (offsetInt / limitInt) + 1
		c.JSON(http.StatusOK, models.PaginatedResponse(bookings, page, limitInt, total))
	}
}

func AcceptBooking(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseBookingID(c)
		if !ok {
			return
		}

		booking, err := bs.AcceptBooking(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(booking, "Booking accepted"))
	}
}

type rejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func RejectBooking(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseBookingID(c)
		if !ok {
			return
		}

		var req rejectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		booking, err := bs.RejectBooking(c.Request.Context(), id, req.Reason)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(booking, "Booking rejected"))
	}
}

func StartSession(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseBookingID(c)
		if !ok {
			return
		}

		booking, err := bs.StartSession(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(booking, "Session started"))
	}
}

func CompleteSession(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseBookingID(c)
		if !ok {
			return
		}

		booking, err := bs.CompleteSession(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(booking, "Session completed"))
	}
}
