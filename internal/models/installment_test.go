package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveInstallmentStatus(t *testing.T) {
	assert.Equal(t, InstallmentNotPaid, DeriveInstallmentStatus(2000, 0))
	assert.Equal(t, InstallmentPartiallyPaid, DeriveInstallmentStatus(2000, 500))
	assert.Equal(t, InstallmentFullyPaid, DeriveInstallmentStatus(2000, 2000))
	assert.Equal(t, InstallmentFullyPaid, DeriveInstallmentStatus(2000, 2500))
}

func TestInstallmentApplyPayment(t *testing.T) {
	inst := Installment{Amount: 2000, Status: InstallmentNotPaid}

	inst.ApplyPayment(500)
	assert.Equal(t, 500.0, inst.PaidAmount)
	assert.Equal(t, InstallmentPartiallyPaid, inst.Status)
	assert.Equal(t, 1500.0, inst.PendingAmount())

	inst.ApplyPayment(1500)
	assert.Equal(t, 2000.0, inst.PaidAmount)
	assert.Equal(t, InstallmentFullyPaid, inst.Status)
	assert.Equal(t, 0.0, inst.PendingAmount())
}

func TestInstallmentPendingAmount_Overpayment(t *testing.T) {
	inst := Installment{Amount: 2000}
	inst.ApplyPayment(2300)
	assert.Equal(t, InstallmentFullyPaid, inst.Status)
	assert.Equal(t, -300.0, inst.PendingAmount())
}

func TestInstallmentIsOverdue(t *testing.T) {
	due := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	inst := Installment{Amount: 2000, DueDate: due, Status: InstallmentNotPaid}

	// The due date itself is not overdue.
	assert.False(t, inst.IsOverdue(due))
	assert.False(t, inst.IsOverdue(due.Add(23*time.Hour)))
	assert.True(t, inst.IsOverdue(due.AddDate(0, 0, 1)))
	assert.Equal(t, 0, inst.DaysOverdue(due))
	assert.Equal(t, 1, inst.DaysOverdue(due.AddDate(0, 0, 1)))
	assert.Equal(t, 10, inst.DaysOverdue(due.AddDate(0, 0, 10)))

	// A settled installment is never overdue no matter how old.
	inst.Status = InstallmentFullyPaid
	assert.False(t, inst.IsOverdue(due.AddDate(0, 2, 0)))
	assert.Equal(t, 0, inst.DaysOverdue(due.AddDate(0, 2, 0)))
}

func TestInstallmentIsOverdue_NonUTCZone(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	due := time.Date(2025, time.March, 15, 0, 0, 0, 0, ist)
	inst := Installment{Amount: 2000, DueDate: due, Status: InstallmentNotPaid}

	// The evening of the due date is still the due date, whatever the
	// zone's offset from UTC.
	evening := time.Date(2025, time.March, 15, 20, 0, 0, 0, ist)
	assert.False(t, inst.IsOverdue(evening))
	assert.Equal(t, 0, inst.DaysOverdue(evening))

	pastMidnight := time.Date(2025, time.March, 16, 0, 30, 0, 0, ist)
	assert.True(t, inst.IsOverdue(pastMidnight))
	assert.Equal(t, 1, inst.DaysOverdue(pastMidnight))

	// Due date persisted at UTC midnight, checked against a local clock.
	instUTC := Installment{
		Amount:  2000,
		DueDate: time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC),
		Status:  InstallmentNotPaid,
	}
	assert.False(t, instUTC.IsOverdue(evening))
	assert.True(t, instUTC.IsOverdue(pastMidnight))
}
