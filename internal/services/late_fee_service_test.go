package services

import (
	"testing"
	"time"

	"github.com/sbci/institute-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalculateLateFee_PerDay(t *testing.T) {
	svc := NewLateFeeService()
	rule := &models.LateFeeRule{Type: models.LateFeePerDay, Amount: 50}
	dueDate := day(2025, time.March, 15)

	tests := []struct {
		name     string
		paidOn   time.Time
		expected float64
	}{
		{"on due date", day(2025, time.March, 15), 0},
		{"before due date", day(2025, time.March, 10), 0},
		{"one day late", day(2025, time.March, 16), 50},
		{"five days late", day(2025, time.March, 20), 250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, svc.Calculate(rule, dueDate, tt.paidOn))
		})
	}
}

func TestCalculateLateFee_PerWeek(t *testing.T) {
	svc := NewLateFeeService()
	rule := &models.LateFeeRule{Type: models.LateFeePerWeek, Amount: 100}
	dueDate := day(2025, time.March, 15)

	// Seven days late is exactly one week
	assert.Equal(t, 100.0, svc.Calculate(rule, dueDate, day(2025, time.March, 22)))
	// Eight days late rounds up to two weeks
	assert.Equal(t, 200.0, svc.Calculate(rule, dueDate, day(2025, time.March, 23)))
	// One day late still charges a full week
	assert.Equal(t, 100.0, svc.Calculate(rule, dueDate, day(2025, time.March, 16)))
	assert.Equal(t, 0.0, svc.Calculate(rule, dueDate, day(2025, time.March, 15)))
}

func TestCalculateLateFee_Fixed(t *testing.T) {
	svc := NewLateFeeService()
	rule := &models.LateFeeRule{Type: models.LateFeeFixed, Amount: 75}
	dueDate := day(2025, time.March, 15)

	assert.Equal(t, 0.0, svc.Calculate(rule, dueDate, day(2025, time.March, 15)))
	assert.Equal(t, 75.0, svc.Calculate(rule, dueDate, day(2025, time.March, 16)))
	// Fixed fee does not grow with time
	assert.Equal(t, 75.0, svc.Calculate(rule, dueDate, day(2025, time.June, 1)))
}

func TestCalculateLateFee_NilRule(t *testing.T) {
	svc := NewLateFeeService()
	assert.Equal(t, 0.0, svc.Calculate(nil, day(2025, time.March, 15), day(2025, time.April, 1)))
}

func TestCalculateLateFee_UnknownType(t *testing.T) {
	svc := NewLateFeeService()
	rule := &models.LateFeeRule{Type: "PER_FORTNIGHT", Amount: 500}
	assert.Equal(t, 0.0, svc.Calculate(rule, day(2025, time.March, 15), day(2025, time.April, 1)))
}

func TestCalculateLateFee_IgnoresTimeOfDay(t *testing.T) {
	svc := NewLateFeeService()
	rule := &models.LateFeeRule{Type: models.LateFeePerDay, Amount: 50}

	// Paying at 23:59 on the due date is still on time
	dueDate := time.Date(2025, time.March, 15, 9, 0, 0, 0, time.UTC)
	paidOn := time.Date(2025, time.March, 15, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, 0.0, svc.Calculate(rule, dueDate, paidOn))

	// Paying at 00:01 the next day is one day late
	paidOn = time.Date(2025, time.March, 16, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 50.0, svc.Calculate(rule, dueDate, paidOn))
}
