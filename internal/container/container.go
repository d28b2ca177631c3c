package container

import (
	"log/slog"

	"github.com/tutorhub/server/internal/models"
	"github.com/tutorhub/server/internal/notify"
	"github.com/tutorhub/server/internal/services"
	"go.mongodb.org/mongo-driver/mongo"
)

// Container holds all application dependencies
type Container struct {
	Logger         *slog.Logger
	MongoDBClient  *mongo.Client
	BookingRepo    models.BookingRepo
	EscrowService  *services.EscrowService
	BookingService *services.BookingService
}

// NewContainer creates a new dependency injection container
func NewContainer(logger *slog.Logger, mongoDBClient *mongo.Client) *Container {
	repo := models.MongodbNewRepo(mongoDBClient)
	notifier := notify.NewLogNotifier(logger)
	escrowService := services.NewEscrowService(repo, notifier, logger)
	bookingService := services.NewBookingService(repo, escrowService)

	return &Container{
		Logger:         logger,
		MongoDBClient:  mongoDBClient,
		BookingRepo:    repo,
		EscrowService:  escrowService,
		BookingService: bookingService,
	}
}
