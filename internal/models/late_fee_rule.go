package models

import (
	"time"
)

// LateFeeRule is a named surcharge policy applied to overdue installments
type LateFeeRule struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Type        string    `gorm:"not null" json:"type"`
	Amount      float64   `gorm:"type:decimal(10,2);not null" json:"amount"`
	Description *string   `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for LateFeeRule
func (LateFeeRule) TableName() string {
	return "late_fee_rules"
}

// Late fee rule type constants
const (
	LateFeePerDay  = "PER_DAY"
	LateFeePerWeek = "PER_WEEK"
	LateFeeFixed   = "FIXED"
)
