package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tutorhub/server/internal/models"
)

// PlatformFeePercent is the platform's fixed cut of every escrowed amount.
const PlatformFeePercent = 15

type Resolution string

const (
	ResolutionRelease Resolution = "release"
	ResolutionRefund  Resolution = "refund"
)

// Payouts is the fee split computed at escrow creation.
type Payouts struct {
	EscrowAmount int64 `json:"escrow_amount"`
	PlatformFee  int64 `json:"platform_fee"`
	TutorPayout  int64 `json:"tutor_payout"`
}

// EscrowService owns every legal transition of a booking's payment status.
// All money fields are written here and nowhere else.
type EscrowService struct {
	bookingRepo models.BookingRepo
	notifier    Notifier
	logger      *slog.Logger

	// dispatch decouples notification delivery from the state transition so
	// a slow channel cannot block the caller. Tests override it to run inline.
	dispatch func(func())
}

func NewEscrowService(bookingRepo models.BookingRepo, notifier Notifier, logger *slog.Logger) *EscrowService {
	return &EscrowService{
		bookingRepo: bookingRepo,
		notifier:    notifier,
		logger:      logger,
		dispatch:    func(f func()) { go f() },
	}
}

// CalculatePayouts splits a non-negative price into the platform fee and the
// tutor payout. The fee is rounded half-up to the nearest minor currency
// unit and the payout takes the remainder, so fee + payout == price exactly.
func CalculatePayouts(price int64) Payouts {
	fee := (price*PlatformFeePercent + 50) / 100
	return Payouts{
		EscrowAmount: price,
		PlatformFee:  fee,
		TutorPayout:  price - fee,
	}
}

// CreateEscrowBooking locks in the price and places it into escrow. This is
// the entry transition of the payment state machine.
func (es *EscrowService) CreateEscrowBooking(ctx context.Context, input *models.CreateBookingInput) (*models.Booking, error) {
	if err := models.Validate.Struct(input); err != nil {
		return nil, fmt.Errorf("invalid booking data provided: %v", err)
	}
	if input.Price < 0 {
		return nil, fmt.Errorf("price must be non-negative")
	}
	if !input.ScheduledEnd.After(input.ScheduledStart) {
		return nil, fmt.Errorf("scheduled_end must be after scheduled_start")
	}

	payouts := CalculatePayouts(input.Price)
	now := time.Now()

	booking := &models.Booking{
		ID:             uuid.New(),
		TutorID:        input.TutorID,
		StudentID:      input.StudentID,
		ScheduledStart: input.ScheduledStart,
		ScheduledEnd:   input.ScheduledEnd,
		Mode:           input.Mode,
		Price:          input.Price,
		Status:         models.BookingPending,
		PaymentStatus:  models.PaymentEscrow,
		EscrowAmount:   payouts.EscrowAmount,
		PlatformFee:    payouts.PlatformFee,
		TutorPayout:    payouts.TutorPayout,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	return es.bookingRepo.CreateBooking(ctx, booking)
}

// HoldPayment locks escrowed funds when the tutor accepts the booking.
func (es *EscrowService) HoldPayment(ctx context.Context, bookingId uuid.UUID) (*models.Booking, error) {
	updated, err := es.bookingRepo.TransitionPayment(ctx, bookingId,
		[]models.PaymentStatus{models.PaymentEscrow},
		map[string]interface{}{
			"payment_status": models.PaymentHeld,
		})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, es.transitionFailure(ctx, bookingId, "Invalid payment status for holding")
	}
	return updated, nil
}

// ReleasePayment settles a held payment in the tutor's favour. releasedBy is
// an audit tag ("system", "admin", "auto"), not a permission check.
func (es *EscrowService) ReleasePayment(ctx context.Context, bookingId uuid.UUID, releasedBy string) (*models.Booking, error) {
	now := time.Now()
	updated, err := es.bookingRepo.TransitionPayment(ctx, bookingId,
		[]models.PaymentStatus{models.PaymentHeld},
		map[string]interface{}{
			"payment_status": models.PaymentReleased,
			"status":         models.BookingCompleted,
			"completed_at":   now,
			"released_by":    releasedBy,
		})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, es.transitionFailure(ctx, bookingId, "Payment must be held before release")
	}

	es.notify(updated, "tutor payout released", es.notifier.NotifyTutorPaymentReleased)
	return updated, nil
}

// RefundPayment returns escrowed money to the student. refundAmount defaults
// to the full escrowed amount when nil.
func (es *EscrowService) RefundPayment(ctx context.Context, bookingId uuid.UUID, refundAmount *int64, reason, cancelledBy string) (*models.Booking, error) {
	booking, err := es.bookingRepo.GetBookingByID(ctx, bookingId)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}

	// EscrowAmount is immutable after creation, so reading it outside the
	// conditional update is safe.
	amount := booking.EscrowAmount
	if refundAmount != nil {
		if *refundAmount <= 0 || *refundAmount > booking.EscrowAmount {
			return nil, fmt.Errorf("refund amount must be between 1 and the escrowed amount")
		}
		amount = *refundAmount
	}

	now := time.Now()
	updated, err := es.bookingRepo.TransitionPayment(ctx, bookingId,
		[]models.PaymentStatus{models.PaymentEscrow, models.PaymentHeld},
		map[string]interface{}{
			"payment_status":      models.PaymentRefunded,
			"status":              models.BookingCancelled,
			"refund_amount":       amount,
			"cancelled_at":        now,
			"cancelled_by":        cancelledBy,
			"cancellation_reason": reason,
		})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, es.transitionFailure(ctx, bookingId, "Invalid payment status for refund")
	}

	es.notify(updated, "student refund issued", es.notifier.NotifyStudentRefund)
	return updated, nil
}

// AutoReleasePayment releases a held payment for a completed session. It is
// a scheduled settlement step: when the booking is not exactly held and
// completed it does nothing, so repeated invocations are harmless.
func (es *EscrowService) AutoReleasePayment(ctx context.Context, bookingId uuid.UUID) (*models.Booking, error) {
	updated, err := es.bookingRepo.TransitionPaymentAndStatus(ctx, bookingId,
		models.PaymentHeld, models.BookingCompleted,
		map[string]interface{}{
			"payment_status": models.PaymentReleased,
			"released_by":    "auto",
		})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		// Nothing to do.
		return nil, nil
	}

	es.notify(updated, "tutor payout released", es.notifier.NotifyTutorPaymentReleased)
	return updated, nil
}

// OpenDispute defers the final disposition of a held payment to an admin.
// The payment stays held while the booking status moves to disputed.
func (es *EscrowService) OpenDispute(ctx context.Context, bookingId uuid.UUID, reason, openedBy string) (*models.Booking, error) {
	now := time.Now()
	updated, err := es.bookingRepo.TransitionPayment(ctx, bookingId,
		[]models.PaymentStatus{models.PaymentHeld},
		map[string]interface{}{
			"status":            models.BookingDisputed,
			"dispute_reason":    reason,
			"dispute_opened_by": openedBy,
			"dispute_opened_at": now,
		})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, es.transitionFailure(ctx, bookingId, "Cannot dispute non-held payment")
	}

	es.notify(updated, "dispute opened", es.notifier.NotifyAdminDispute)
	return updated, nil
}

// ResolveDispute closes a dispute by releasing the payment to the tutor or
// refunding the student in full. Any other resolution value is rejected
// before anything is stamped.
func (es *EscrowService) ResolveDispute(ctx context.Context, bookingId uuid.UUID, resolution Resolution, adminId string) (*models.Booking, error) {
	if resolution != ResolutionRelease && resolution != ResolutionRefund {
		return nil, ErrInvalidResolution
	}

	now := time.Now()
	stamped, err := es.bookingRepo.TransitionStatus(ctx, bookingId,
		[]models.BookingStatus{models.BookingDisputed},
		map[string]interface{}{
			"dispute_resolved_at": now,
			"resolved_by":         adminId,
		})
	if err != nil {
		return nil, err
	}
	if stamped == nil {
		return nil, es.transitionFailure(ctx, bookingId, "Booking is not in dispute")
	}

	if resolution == ResolutionRelease {
		return es.ReleasePayment(ctx, bookingId, adminId)
	}
	return es.RefundPayment(ctx, bookingId, nil, "dispute_resolved", adminId)
}

// GetEscrowStats groups all bookings by payment status, returning the count
// and total escrowed amount per group.
func (es *EscrowService) GetEscrowStats(ctx context.Context) ([]models.EscrowStat, error) {
	return es.bookingRepo.GetEscrowStats(ctx)
}

// transitionFailure turns a lost conditional update into the right typed
// error: not-found when the booking is missing, otherwise the operation's
// invalid-state message.
func (es *EscrowService) transitionFailure(ctx context.Context, bookingId uuid.UUID, message string) error {
	booking, err := es.bookingRepo.GetBookingByID(ctx, bookingId)
	if err != nil {
		return err
	}
	if booking == nil {
		return ErrBookingNotFound
	}
	return invalidState(message)
}

func (es *EscrowService) notify(booking *models.Booking, event string, fn func(*models.Booking) error) {
	es.dispatch(func() {
		if err := fn(booking); err != nil {
			es.logger.Warn("Notification failed",
				"event", event,
				"booking_id", booking.ID,
				"error", err,
			)
		}
	})
}
