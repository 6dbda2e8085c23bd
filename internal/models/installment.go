package models

import (
	"time"
)

// Installment is one scheduled obligation in an admission's payment plan.
// It is created once at admission time and mutated only when a payment is
// attributed to it.
type Installment struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	AdmissionID       uint      `gorm:"not null;index:idx_installments_admission_number,unique" json:"admission_id"`
	InstallmentNumber int       `gorm:"not null;index:idx_installments_admission_number,unique" json:"installment_number"`
	Amount            float64   `gorm:"type:decimal(10,2);not null" json:"amount"`
	DueDate           time.Time `gorm:"type:date;not null;index" json:"due_date"`
	PaidAmount        float64   `gorm:"type:decimal(10,2);default:0" json:"paid_amount"`
	Status            string    `gorm:"default:NOT_PAID;not null;index" json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	// Associations
	Admission Admission `gorm:"foreignKey:AdmissionID" json:"admission,omitempty"`
}

// TableName specifies the table name for Installment
func (Installment) TableName() string {
	return "installments"
}

// Installment status constants. Overdue is not a stored status: it is
// derived from the due date at read time (see IsOverdue).
const (
	InstallmentNotPaid       = "NOT_PAID"
	InstallmentPartiallyPaid = "PARTIALLY_PAID"
	InstallmentFullyPaid     = "FULLY_PAID"
)

// DeriveInstallmentStatus computes the stored status from amount and paid
// amount. Pure function of its inputs.
func DeriveInstallmentStatus(amount, paidAmount float64) string {
	switch {
	case paidAmount >= amount:
		return InstallmentFullyPaid
	case paidAmount > 0:
		return InstallmentPartiallyPaid
	default:
		return InstallmentNotPaid
	}
}

// ApplyPayment credits amount toward the installment principal and
// recomputes the status from the new total. Late fees are never credited
// here.
func (i *Installment) ApplyPayment(amount float64) {
	i.PaidAmount += amount
	i.Status = DeriveInstallmentStatus(i.Amount, i.PaidAmount)
}

// PendingAmount is the remaining principal. Goes negative on overpayment;
// no clamping.
func (i *Installment) PendingAmount() float64 {
	return i.Amount - i.PaidAmount
}

// calendarDay maps t to midnight UTC of its calendar date, so day
// comparisons ignore clock time and zone offset.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsOverdue reports whether the installment is past due and not settled,
// relative to the given day. The due date itself is never overdue.
func (i *Installment) IsOverdue(today time.Time) bool {
	if i.Status == InstallmentFullyPaid {
		return false
	}
	return calendarDay(i.DueDate).Before(calendarDay(today))
}

// DaysOverdue returns whole days past the due date, 0 when not overdue
func (i *Installment) DaysOverdue(today time.Time) int {
	if !i.IsOverdue(today) {
		return 0
	}
	return int(calendarDay(today).Sub(calendarDay(i.DueDate)).Hours() / 24)
}

// InstallmentResponse is the JSON response format for installments
type InstallmentResponse struct {
	ID                uint      `json:"id"`
	AdmissionID       uint      `json:"admission_id"`
	InstallmentNumber int       `json:"installment_number"`
	Amount            float64   `json:"amount"`
	DueDate           time.Time `json:"due_date"`
	PaidAmount        float64   `json:"paid_amount"`
	PendingAmount     float64   `json:"pending_amount"`
	Status            string    `json:"status"`
	Overdue           bool      `json:"overdue"`
	DaysOverdue       int       `json:"days_overdue"`
}

// ToResponse converts Installment to InstallmentResponse
func (i *Installment) ToResponse() InstallmentResponse {
	now := time.Now()
	return InstallmentResponse{
		ID:                i.ID,
		AdmissionID:       i.AdmissionID,
		InstallmentNumber: i.InstallmentNumber,
		Amount:            i.Amount,
		DueDate:           i.DueDate,
		PaidAmount:        i.PaidAmount,
		PendingAmount:     i.PendingAmount(),
		Status:            i.Status,
		Overdue:           i.IsOverdue(now),
		DaysOverdue:       i.DaysOverdue(now),
	}
}
