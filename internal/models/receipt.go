package models

import (
	"fmt"
	"time"
)

// Receipt is the printable identifier issued for exactly one payment.
// It is created in the same transaction as its payment and never changes.
type Receipt struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	PaymentID     uint      `gorm:"not null;uniqueIndex" json:"payment_id"`
	ReceiptNumber string    `gorm:"not null;uniqueIndex" json:"receipt_number"`
	CreatedAt     time.Time `json:"created_at"`

	// Associations
	Payment *Payment `gorm:"foreignKey:PaymentID" json:"payment,omitempty"`
}

// TableName specifies the table name for Receipt
func (Receipt) TableName() string {
	return "receipts"
}

// ReceiptNumberFor formats a receipt number from the issuance date and a
// per-day sequence value, e.g. RCP-20250301-0007. The sequence comes from
// an atomic counter incremented inside the payment transaction, so numbers
// are dense and collision-free.
func ReceiptNumberFor(issuedAt time.Time, seq int64) string {
	return fmt.Sprintf("RCP-%s-%04d", issuedAt.Format("20060102"), seq)
}

// ReceiptSequenceScope returns the counter scope key for a given issuance
// day, e.g. "receipt:20250301".
func ReceiptSequenceScope(issuedAt time.Time) string {
	return "receipt:" + issuedAt.Format("20060102")
}

// AdmissionSequenceScope returns the counter scope key for admission
// numbers of a given year, e.g. "admission:2025".
func AdmissionSequenceScope(year int) string {
	return fmt.Sprintf("admission:%d", year)
}
