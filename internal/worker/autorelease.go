package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/tutorhub/server/internal/models"
	"github.com/tutorhub/server/internal/services"
)

// AutoReleaseWorker periodically settles held payments for sessions that
// completed at least Delay ago. Every candidate goes through the escrow
// service's no-op guard, so overlapping or repeated sweeps are harmless.
type AutoReleaseWorker struct {
	bookingRepo models.BookingRepo
	escrow      *services.EscrowService
	logger      *slog.Logger
	delay       time.Duration
	interval    time.Duration
}

func NewAutoReleaseWorker(bookingRepo models.BookingRepo, escrow *services.EscrowService, logger *slog.Logger, delay, interval time.Duration) *AutoReleaseWorker {
	return &AutoReleaseWorker{
		bookingRepo: bookingRepo,
		escrow:      escrow,
		logger:      logger,
		delay:       delay,
		interval:    interval,
	}
}

// Run sweeps until the context is cancelled.
func (w *AutoReleaseWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Sweep(ctx)
		}
	}
}

// Sweep runs one auto-release pass.
func (w *AutoReleaseWorker) Sweep(ctx context.Context) {
	cutoff := time.Now().Add(-w.delay)

	bookings, err := w.bookingRepo.ListAutoReleasable(ctx, cutoff)
	if err != nil {
		w.logger.Error("Auto-release sweep failed", "error", err)
		return
	}

	for _, booking := range bookings {
		released, err := w.escrow.AutoReleasePayment(ctx, booking.ID)
		if err != nil {
			w.logger.Error("Auto-release failed", "booking_id", booking.ID, "error", err)
			continue
		}
		if released != nil {
			w.logger.Info("Payment auto-released",
				"booking_id", released.ID,
				"tutor_payout", released.TutorPayout,
			)
		}
	}
}
