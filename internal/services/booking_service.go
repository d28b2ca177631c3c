package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tutorhub/server/internal/models"
)

// BookingService covers the session workflow around the escrow ledger. It
// never writes payment or fee fields directly; money moves go through the
// EscrowService, which is the sole writer of payment state.
type BookingService struct {
	bookingRepo models.BookingRepo
	escrow      *EscrowService
}

func NewBookingService(bookingRepo models.BookingRepo, escrow *EscrowService) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		escrow:      escrow,
	}
}

func (bs *BookingService) GetBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("invalid booking ID")
	}

	booking, err := bs.bookingRepo.GetBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	return booking, nil
}

func (bs *BookingService) ListBookingsByStudent(ctx context.Context, studentId uuid.UUID, offset, limit int) ([]*models.Booking, int, error) {
	if offset < 0 || limit <= 0 {
		return nil, 0, fmt.Errorf("invalid offset or limit")
	}
	if studentId == uuid.Nil {
		return nil, 0, fmt.Errorf("invalid student ID")
	}
	return bs.bookingRepo.ListBookingsByStudent(ctx, studentId, offset, limit)
}

func (bs *BookingService) ListBookingsByTutor(ctx context.Context, tutorId uuid.UUID, offset, limit int) ([]*models.Booking, int, error) {
	if offset < 0 || limit <= 0 {
		return nil, 0, fmt.Errorf("invalid offset or limit")
	}
	if tutorId == uuid.Nil {
		return nil, 0, fmt.Errorf("invalid tutor ID")
	}
	return bs.bookingRepo.ListBookingsByTutor(ctx, tutorId, offset, limit)
}

// AcceptBooking is the tutor's acceptance: the escrowed payment is locked
// first, then the workflow status catches up. A lost hold race therefore
// never leaves a booking marked accepted without held funds.
func (bs *BookingService) AcceptBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	if _, err := bs.escrow.HoldPayment(ctx, id); err != nil {
		return nil, err
	}

	updated, err := bs.bookingRepo.TransitionStatus(ctx, id,
		[]models.BookingStatus{models.BookingPending},
		map[string]interface{}{
			"status": models.BookingAccepted,
		})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		// Funds are held but the workflow status moved concurrently; report
		// the current record rather than failing the acceptance.
		return bs.GetBooking(ctx, id)
	}
	return updated, nil
}

// RejectBooking refunds the student in full and marks the booking rejected.
func (bs *BookingService) RejectBooking(ctx context.Context, id uuid.UUID, reason string) (*models.Booking, error) {
	if _, err := bs.escrow.RefundPayment(ctx, id, nil, reason, "tutor"); err != nil {
		return nil, err
	}

	updated, err := bs.bookingRepo.TransitionStatus(ctx, id,
		[]models.BookingStatus{models.BookingCancelled},
		map[string]interface{}{
			"status": models.BookingRejected,
		})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return bs.GetBooking(ctx, id)
	}
	return updated, nil
}

func (bs *BookingService) StartSession(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	updated, err := bs.bookingRepo.TransitionStatus(ctx, id,
		[]models.BookingStatus{models.BookingAccepted},
		map[string]interface{}{
			"status": models.BookingInProgress,
		})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, bs.statusFailure(ctx, id, "Booking must be accepted before the session starts")
	}
	return updated, nil
}

// CompleteSession marks the session done, which makes the held payment
// eligible for auto-release.
func (bs *BookingService) CompleteSession(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	now := time.Now()
	updated, err := bs.bookingRepo.TransitionStatus(ctx, id,
		[]models.BookingStatus{models.BookingAccepted, models.BookingInProgress},
		map[string]interface{}{
			"status":       models.BookingCompleted,
			"completed_at": now,
		})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, bs.statusFailure(ctx, id, "Booking must be accepted or in progress to complete")
	}
	return updated, nil
}

func (bs *BookingService) statusFailure(ctx context.Context, id uuid.UUID, message string) error {
	booking, err := bs.bookingRepo.GetBookingByID(ctx, id)
	if err != nil {
		return err
	}
	if booking == nil {
		return ErrBookingNotFound
	}
	return invalidState(message)
}
