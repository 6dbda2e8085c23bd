package models

import (
	"time"
)

// SequenceCounter backs human-readable document numbering (receipts,
// admission numbers). One row per scope; the row is locked and incremented
// inside the transaction that consumes the number.
type SequenceCounter struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Scope     string    `gorm:"not null;uniqueIndex" json:"scope"`
	Value     int64     `gorm:"not null;default:0" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for SequenceCounter
func (SequenceCounter) TableName() string {
	return "sequence_counters"
}
