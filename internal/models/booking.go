package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	BookingDbName  = "tutorhub"
	BookingColName = "bookings"
)

type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingAccepted   BookingStatus = "accepted"
	BookingRejected   BookingStatus = "rejected"
	BookingCancelled  BookingStatus = "cancelled"
	BookingCompleted  BookingStatus = "completed"
	BookingInProgress BookingStatus = "in_progress"
	BookingDisputed   BookingStatus = "disputed"
)

type PaymentStatus string

const (
	PaymentNone     PaymentStatus = "none"
	PaymentPrepaid  PaymentStatus = "prepaid"
	PaymentPostpaid PaymentStatus = "postpaid"
	PaymentEscrow   PaymentStatus = "escrow"
	PaymentHeld     PaymentStatus = "held"
	PaymentReleased PaymentStatus = "released"
	PaymentRefunded PaymentStatus = "refunded"
)

type SessionMode string

const (
	ModeOnline  SessionMode = "online"
	ModeOffline SessionMode = "offline"
)

// Booking is the single record mutated by the escrow ledger. All monetary
// fields are integer minor currency units (e.g. cents) so that
// PlatformFee + TutorPayout == EscrowAmount holds exactly.
type Booking struct {
	ID             uuid.UUID     `bson:"_id" json:"id"`
	TutorID        uuid.UUID     `bson:"tutor_id" json:"tutor_id"`
	StudentID      uuid.UUID     `bson:"student_id" json:"student_id"`
	ScheduledStart time.Time     `bson:"scheduled_start" json:"scheduled_start"`
	ScheduledEnd   time.Time     `bson:"scheduled_end" json:"scheduled_end"`
	Mode           SessionMode   `bson:"mode" json:"mode"`
	Price          int64         `bson:"price" json:"price"`
	Status         BookingStatus `bson:"status" json:"status"`
	PaymentStatus  PaymentStatus `bson:"payment_status" json:"payment_status"`

	// Escrow accounting. EscrowAmount is set once at escrow creation and
	// never mutated afterward.
	EscrowAmount int64 `bson:"escrow_amount" json:"escrow_amount"`
	PlatformFee  int64 `bson:"platform_fee" json:"platform_fee"`
	TutorPayout  int64 `bson:"tutor_payout" json:"tutor_payout"`
	RefundAmount int64 `bson:"refund_amount,omitempty" json:"refund_amount,omitempty"`

	CancelledBy        string     `bson:"cancelled_by,omitempty" json:"cancelled_by,omitempty"`
	CancelledAt        *time.Time `bson:"cancelled_at,omitempty" json:"cancelled_at,omitempty"`
	CancellationReason string     `bson:"cancellation_reason,omitempty" json:"cancellation_reason,omitempty"`
	CompletedAt        *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	ReleasedBy         string     `bson:"released_by,omitempty" json:"released_by,omitempty"`

	DisputeReason     string     `bson:"dispute_reason,omitempty" json:"dispute_reason,omitempty"`
	DisputeOpenedBy   string     `bson:"dispute_opened_by,omitempty" json:"dispute_opened_by,omitempty"`
	DisputeOpenedAt   *time.Time `bson:"dispute_opened_at,omitempty" json:"dispute_opened_at,omitempty"`
	DisputeResolvedAt *time.Time `bson:"dispute_resolved_at,omitempty" json:"dispute_resolved_at,omitempty"`
	ResolvedBy        string     `bson:"resolved_by,omitempty" json:"resolved_by,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// CreateBookingInput is the payload accepted when a student confirms a
// booking request. Price is locked in at this point.
type CreateBookingInput struct {
	TutorID        uuid.UUID   `json:"tutor_id" validate:"required"`
	StudentID      uuid.UUID   `json:"student_id" validate:"required"`
	ScheduledStart time.Time   `json:"scheduled_start" validate:"required"`
	ScheduledEnd   time.Time   `json:"scheduled_end" validate:"required"`
	Mode           SessionMode `json:"mode" validate:"required,oneof=online offline"`
	Price          int64       `json:"price" validate:"gte=0"`
}

// EscrowStat is one row of the payment-status aggregation.
type EscrowStat struct {
	PaymentStatus PaymentStatus `bson:"_id" json:"payment_status"`
	Count         int64         `bson:"count" json:"count"`
	TotalAmount   int64         `bson:"total_amount" json:"total_amount"`
}
