package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tutorhub/server/internal/models"
	"github.com/tutorhub/server/internal/services"
)

func CreateEscrowBooking(es *services.EscrowService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.CreateBookingInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		booking, err := es.CreateEscrowBooking(c.Request.Context(), &input)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusCreated, models.SuccessResponse(booking, "Booking created and payment escrowed"))
	}
}

func HoldPayment(es *services.EscrowService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseBookingID(c)
		if !ok {
			return
		}

		booking, err := es.HoldPayment(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(booking, "Payment held"))
	}
}

type releaseRequest struct {
	ReleasedBy string `json:"released_by"`
}

func ReleasePayment(es *services.EscrowService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseBookingID(c)
		if !ok {
			return
		}

		var req releaseRequest
		_ = c.ShouldBindJSON(&req)
		if req.ReleasedBy == "" {
			req.ReleasedBy = "system"
		}

		booking, err := es.ReleasePayment(c.Request.Context(), id, req.ReleasedBy)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(booking, "Payment released"))
	}
}

type refundRequest struct {
	RefundAmount *int64 `json:"refund_amount"`
	Reason       string `json:"reason" binding:"required"`
	CancelledBy  string `json:"cancelled_by"`
}

func RefundPayment(es *services.EscrowService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseBookingID(c)
		if !ok {
			return
		}

		var req refundRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}
		if req.CancelledBy == "" {
			req.CancelledBy = "system"
		}

		booking, err := es.RefundPayment(c.Request.Context(), id, req.RefundAmount, req.Reason, req.CancelledBy)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(booking, "Payment refunded"))
	}
}

type disputeRequest struct {
	Reason   string `json:"reason" binding:"required"`
	OpenedBy string `json:"opened_by" binding:"required"`
}

func OpenDispute(es *services.EscrowService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseBookingID(c)
		if !ok {
			return
		}

		var req disputeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		booking, err := es.OpenDispute(c.Request.Context(), id, req.Reason, req.OpenedBy)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(booking, "Dispute opened"))
	}
}

type resolveDisputeRequest struct {
	Resolution string `json:"resolution" binding:"required"`
	AdminID    string `json:"admin_id" binding:"required"`
}

func ResolveDispute(es *services.EscrowService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseBookingID(c)
		if !ok {
			return
		}

		var req resolveDisputeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		booking, err := es.ResolveDispute(c.Request.Context(), id, services.Resolution(req.Resolution), req.AdminID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(booking, "Dispute resolved"))
	}
}

func EscrowStats(es *services.EscrowService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := es.GetEscrowStats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(stats, ""))
	}
}
