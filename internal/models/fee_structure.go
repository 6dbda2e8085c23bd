package models

import (
	"time"
)

// FeeStructure defines how a course fee is collected: a lump sum or
// a fixed number of equal monthly installments.
type FeeStructure struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	CourseID             uint      `gorm:"not null;index" json:"course_id"`
	Name                 string    `gorm:"not null" json:"name"`
	TotalFee             float64   `gorm:"type:decimal(10,2);not null" json:"total_fee"`
	FeeType              string    `gorm:"not null;index" json:"fee_type"`
	InstallmentCount     *int      `json:"installment_count"`
	InstallmentAmount    *float64  `gorm:"type:decimal(10,2)" json:"installment_amount"`
	InstallmentFrequency string    `gorm:"default:MONTHLY" json:"installment_frequency"`
	RegistrationFee      float64   `gorm:"type:decimal(10,2);default:0" json:"registration_fee"`
	ExamFee              float64   `gorm:"type:decimal(10,2);default:0" json:"exam_fee"`
	LateFeeRuleID        *uint     `gorm:"index" json:"late_fee_rule_id"`
	Active               bool      `gorm:"default:true;index" json:"active"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`

	// Associations
	Course      Course       `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	LateFeeRule *LateFeeRule `gorm:"foreignKey:LateFeeRuleID" json:"late_fee_rule,omitempty"`
}

// TableName specifies the table name for FeeStructure
func (FeeStructure) TableName() string {
	return "fee_structures"
}

// Fee type constants
const (
	FeeTypeLumpSum     = "LUMP_SUM"
	FeeTypeInstallment = "INSTALLMENT"
)

// Installment frequency constants. Only MONTHLY is supported.
const (
	FrequencyMonthly = "MONTHLY"
)

// IsInstallment returns true if the structure collects fees in installments
func (f *FeeStructure) IsInstallment() bool {
	return f.FeeType == FeeTypeInstallment
}

// InstallmentTotal returns installment count x installment amount, or 0
// for lump-sum structures.
func (f *FeeStructure) InstallmentTotal() float64 {
	if !f.IsInstallment() || f.InstallmentCount == nil || f.InstallmentAmount == nil {
		return 0
	}
	return float64(*f.InstallmentCount) * *f.InstallmentAmount
}

// HasInstallmentMismatch reports whether the installment plan does not add up
// to the total fee net of registration and exam fees. Existing structures are
// allowed to carry this slack; creation only logs a warning.
func (f *FeeStructure) HasInstallmentMismatch() bool {
	if !f.IsInstallment() {
		return false
	}
	return f.InstallmentTotal() != f.TotalFee-f.RegistrationFee-f.ExamFee
}
