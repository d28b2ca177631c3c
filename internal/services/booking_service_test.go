package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/tutorhub/server/internal/models"
)

func newTestBookingService() (*BookingService, *EscrowService, *fakeBookingRepo) {
	escrow, repo, _ := newTestService()
	return NewBookingService(repo, escrow), escrow, repo
}

func TestAcceptBooking(t *testing.T) {
	bs, escrow, _ := newTestBookingService()
	booking := mustCreate(t, escrow, 1000)

	accepted, err := bs.AcceptBooking(context.Background(), booking.ID)
	if err != nil {
		t.Fatalf("AcceptBooking: %v", err)
	}
	if accepted.Status != models.BookingAccepted {
		t.Errorf("status = %s, want accepted", accepted.Status)
	}
	if accepted.PaymentStatus != models.PaymentHeld {
		t.Errorf("payment status = %s, want held", accepted.PaymentStatus)
	}

	// Acceptance goes through the hold transition, so accepting twice fails
	// the payment precondition.
	_, err = bs.AcceptBooking(context.Background(), booking.ID)
	assertInvalidState(t, err, "Invalid payment status for holding")
}

func TestRejectBooking(t *testing.T) {
	bs, escrow, _ := newTestBookingService()
	booking := mustCreate(t, escrow, 1000)

	rejected, err := bs.RejectBooking(context.Background(), booking.ID, "not available")
	if err != nil {
		t.Fatalf("RejectBooking: %v", err)
	}
	if rejected.Status != models.BookingRejected {
		t.Errorf("status = %s, want rejected", rejected.Status)
	}
	if rejected.PaymentStatus != models.PaymentRefunded {
		t.Errorf("payment status = %s, want refunded", rejected.PaymentStatus)
	}
	if rejected.RefundAmount != rejected.EscrowAmount {
		t.Errorf("refund amount = %d, want full escrow", rejected.RefundAmount)
	}
}

func TestSessionLifecycle(t *testing.T) {
	bs, escrow, repo := newTestBookingService()
	booking := mustCreate(t, escrow, 1000)

	// Cannot start before acceptance.
	if _, err := bs.StartSession(context.Background(), booking.ID); err == nil {
		t.Error("expected error starting a pending session")
	}

	if _, err := bs.AcceptBooking(context.Background(), booking.ID); err != nil {
		t.Fatalf("AcceptBooking: %v", err)
	}

	started, err := bs.StartSession(context.Background(), booking.ID)
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if started.Status != models.BookingInProgress {
		t.Errorf("status = %s, want in_progress", started.Status)
	}

	completed, err := bs.CompleteSession(context.Background(), booking.ID)
	if err != nil {
		t.Fatalf("CompleteSession: %v", err)
	}
	if completed.Status != models.BookingCompleted {
		t.Errorf("status = %s, want completed", completed.Status)
	}
	if completed.CompletedAt == nil {
		t.Error("completed_at not set")
	}

	// Workflow operations never touch payment state.
	current, _ := repo.GetBookingByID(context.Background(), booking.ID)
	if current.PaymentStatus != models.PaymentHeld {
		t.Errorf("payment status = %s, want held untouched by workflow", current.PaymentStatus)
	}

	// Completed and held: eligible for auto-release now.
	released, err := escrow.AutoReleasePayment(context.Background(), booking.ID)
	if err != nil {
		t.Fatalf("AutoReleasePayment: %v", err)
	}
	if released == nil || released.PaymentStatus != models.PaymentReleased {
		t.Fatalf("expected auto-release, got %+v", released)
	}
}

func TestGetBookingNotFound(t *testing.T) {
	bs, _, _ := newTestBookingService()
	if _, err := bs.GetBooking(context.Background(), uuid.New()); !errors.Is(err, ErrBookingNotFound) {
		t.Errorf("expected ErrBookingNotFound, got %v", err)
	}
}
