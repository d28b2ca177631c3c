package notify

import (
	"log/slog"

	"github.com/tutorhub/server/internal/models"
)

// LogNotifier records notification events to the structured log. Delivery
// over email or in-app channels sits behind this same interface in the full
// product; the ledger only needs the capability to exist.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) NotifyTutorPaymentReleased(booking *models.Booking) error {
	n.logger.Info("Notify tutor: payment released",
		"booking_id", booking.ID,
		"tutor_id", booking.TutorID,
		"tutor_payout", booking.TutorPayout,
	)
	return nil
}

func (n *LogNotifier) NotifyStudentRefund(booking *models.Booking) error {
	n.logger.Info("Notify student: refund issued",
		"booking_id", booking.ID,
		"student_id", booking.StudentID,
		"refund_amount", booking.RefundAmount,
		"reason", booking.CancellationReason,
	)
	return nil
}

func (n *LogNotifier) NotifyAdminDispute(booking *models.Booking) error {
	n.logger.Info("Notify admin: dispute opened",
		"booking_id", booking.ID,
		"reason", booking.DisputeReason,
		"opened_by", booking.DisputeOpenedBy,
	)
	return nil
}
