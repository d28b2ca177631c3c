package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/tutorhub/server/internal/container"
	"github.com/tutorhub/server/internal/handlers"
	"github.com/tutorhub/server/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Add middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	// API version 1
	v1 := r.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "OK",
				"service": "tutorhub-api",
			})
		})
	}

	bookingRoutes := v1.Group("/bookings")
	{
		bookingRoutes.POST("/", handlers.CreateEscrowBooking(container.EscrowService))
		bookingRoutes.GET("/", handlers.ListBookings(container.BookingService))
		bookingRoutes.GET("/:id", handlers.GetBooking(container.BookingService))

		// Booking workflow
		bookingRoutes.POST("/:id/accept", handlers.AcceptBooking(container.BookingService))
		bookingRoutes.POST("/:id/reject", handlers.RejectBooking(container.BookingService))
		bookingRoutes.POST("/:id/start", handlers.StartSession(container.BookingService))
		bookingRoutes.POST("/:id/complete", handlers.CompleteSession(container.BookingService))

		// Escrow transitions
		bookingRoutes.POST("/:id/hold", handlers.HoldPayment(container.EscrowService))
		bookingRoutes.POST("/:id/release", handlers.ReleasePayment(container.EscrowService))
		bookingRoutes.POST("/:id/refund", handlers.RefundPayment(container.EscrowService))
		bookingRoutes.POST("/:id/dispute", handlers.OpenDispute(container.EscrowService))
		bookingRoutes.POST("/:id/dispute/resolve", handlers.ResolveDispute(container.EscrowService))

		bookingRoutes.GET("/stats/escrow", handlers.EscrowStats(container.EscrowService))
	}

	return r
}
