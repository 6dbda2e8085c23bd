package models

import (
	"time"
)

// Payment is a single collection event. Payments are append-only: there is
// no update or delete path once recorded.
type Payment struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	AdmissionID   uint      `gorm:"not null;index" json:"admission_id"`
	InstallmentID *uint     `gorm:"index" json:"installment_id"`
	Amount        float64   `gorm:"type:decimal(10,2);not null" json:"amount"`
	LateFee       float64   `gorm:"type:decimal(10,2);default:0" json:"late_fee"`
	TotalAmount   float64   `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	PaymentMode   string    `gorm:"not null;index" json:"payment_mode"`
	TransactionID *string   `json:"transaction_id"`
	PaymentDate   time.Time `gorm:"not null;index" json:"payment_date"`
	Remarks       *string   `gorm:"type:text" json:"remarks"`
	CollectedByID uint      `gorm:"not null;index" json:"collected_by_id"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Associations
	Admission   Admission    `gorm:"foreignKey:AdmissionID" json:"admission,omitempty"`
	Installment *Installment `gorm:"foreignKey:InstallmentID" json:"installment,omitempty"`
	CollectedBy User         `gorm:"foreignKey:CollectedByID" json:"collected_by,omitempty"`
	Receipt     *Receipt     `gorm:"foreignKey:PaymentID" json:"receipt,omitempty"`
}

// TableName specifies the table name for Payment
func (Payment) TableName() string {
	return "payments"
}

// Payment mode constants
const (
	PaymentModeCash         = "CASH"
	PaymentModeUPI          = "UPI"
	PaymentModeCard         = "CARD"
	PaymentModeBankTransfer = "BANK_TRANSFER"
	PaymentModeWallet       = "WALLET"
	PaymentModeCheque       = "CHEQUE"
)

// ValidPaymentMode reports whether mode is one of the supported modes
func ValidPaymentMode(mode string) bool {
	switch mode {
	case PaymentModeCash, PaymentModeUPI, PaymentModeCard,
		PaymentModeBankTransfer, PaymentModeWallet, PaymentModeCheque:
		return true
	}
	return false
}

// RequiresTransactionID reports whether the mode needs a transaction
// reference. Only cash payments may omit it.
func RequiresTransactionID(mode string) bool {
	return mode != PaymentModeCash
}

// PaymentResponse is the JSON response format for payments
type PaymentResponse struct {
	ID                uint      `json:"id"`
	AdmissionID       uint      `json:"admission_id"`
	InstallmentID     *uint     `json:"installment_id"`
	InstallmentNumber int       `json:"installment_number,omitempty"`
	Amount            float64   `json:"amount"`
	LateFee           float64   `json:"late_fee"`
	TotalAmount       float64   `json:"total_amount"`
	PaymentMode       string    `json:"payment_mode"`
	TransactionID     *string   `json:"transaction_id"`
	PaymentDate       time.Time `json:"payment_date"`
	Remarks           *string   `json:"remarks"`
	ReceiptNumber     string    `json:"receipt_number,omitempty"`
	CollectedBy       string    `json:"collected_by,omitempty"`

	// Admission details
	AdmissionNumber string `json:"admission_number,omitempty"`
	StudentName     string `json:"student_name,omitempty"`
	StudentMobile   string `json:"student_mobile,omitempty"`
	CourseName      string `json:"course_name,omitempty"`
	BatchName       string `json:"batch_name,omitempty"`
}

// ToResponse converts Payment to PaymentResponse
func (p *Payment) ToResponse() PaymentResponse {
	resp := PaymentResponse{
		ID:            p.ID,
		AdmissionID:   p.AdmissionID,
		InstallmentID: p.InstallmentID,
		Amount:        p.Amount,
		LateFee:       p.LateFee,
		TotalAmount:   p.TotalAmount,
		PaymentMode:   p.PaymentMode,
		TransactionID: p.TransactionID,
		PaymentDate:   p.PaymentDate,
		Remarks:       p.Remarks,
	}

	if p.Installment != nil {
		resp.InstallmentNumber = p.Installment.InstallmentNumber
	}
	if p.Receipt != nil {
		resp.ReceiptNumber = p.Receipt.ReceiptNumber
	}
	if p.CollectedBy.ID != 0 {
		resp.CollectedBy = p.CollectedBy.FullName
	}

	if p.Admission.ID != 0 {
		resp.AdmissionNumber = p.Admission.AdmissionNumber
		if p.Admission.Student.ID != 0 {
			resp.StudentName = p.Admission.Student.Name
			resp.StudentMobile = p.Admission.Student.Mobile
		}
		if p.Admission.Course.ID != 0 {
			resp.CourseName = p.Admission.Course.Name
		}
		if p.Admission.Batch.ID != 0 {
			resp.BatchName = p.Admission.Batch.Name
		}
	}

	return resp
}
