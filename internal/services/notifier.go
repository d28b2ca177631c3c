package services

import "github.com/tutorhub/server/internal/models"

// Notifier is the outbound notification capability of the escrow ledger.
// Every call is best-effort: the ledger logs failures and never lets them
// roll back or fail the financial state transition that triggered them.
type Notifier interface {
	NotifyTutorPaymentReleased(booking *models.Booking) error
	NotifyStudentRefund(booking *models.Booking) error
	NotifyAdminDispute(booking *models.Booking) error
}
