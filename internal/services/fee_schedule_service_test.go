package services

import (
	"testing"
	"time"

	"github.com/sbci/institute-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func installmentStructure(count int, amount float64) *models.FeeStructure {
	return &models.FeeStructure{
		ID:                1,
		TotalFee:          float64(count) * amount,
		FeeType:           models.FeeTypeInstallment,
		InstallmentCount:  intPtr(count),
		InstallmentAmount: floatPtr(amount),
	}
}

func TestBuildSchedule_SixMonthly(t *testing.T) {
	svc := NewFeeScheduleService()
	fs := installmentStructure(6, 2000)
	admissionDate := day(2025, time.January, 1)

	installments, err := svc.BuildSchedule(fs, admissionDate)
	assert.NoError(t, err)
	assert.Len(t, installments, 6)

	var sum float64
	for i, inst := range installments {
		sum += inst.Amount
		assert.Equal(t, i+1, inst.InstallmentNumber)
		assert.Equal(t, models.InstallmentNotPaid, inst.Status)
		assert.Equal(t, 0.0, inst.PaidAmount)
	}
	assert.Equal(t, 12000.0, sum)

	// Due dates run Feb 1 through Jul 1, one calendar month apart
	assert.Equal(t, day(2025, time.February, 1), installments[0].DueDate)
	assert.Equal(t, day(2025, time.July, 1), installments[5].DueDate)
	for i := 1; i < len(installments); i++ {
		assert.True(t, installments[i].DueDate.After(installments[i-1].DueDate),
			"due dates must be strictly increasing")
	}
}

func TestBuildSchedule_EndOfMonthClamping(t *testing.T) {
	svc := NewFeeScheduleService()
	fs := installmentStructure(4, 1000)

	// Admitted Jan 31: February has no 31st, so the first due date clamps
	installments, err := svc.BuildSchedule(fs, day(2025, time.January, 31))
	assert.NoError(t, err)
	assert.Equal(t, day(2025, time.February, 28), installments[0].DueDate)
	assert.Equal(t, day(2025, time.March, 31), installments[1].DueDate)
	assert.Equal(t, day(2025, time.April, 30), installments[2].DueDate)
	assert.Equal(t, day(2025, time.May, 31), installments[3].DueDate)
}

func TestBuildSchedule_LeapYear(t *testing.T) {
	svc := NewFeeScheduleService()
	fs := installmentStructure(1, 5000)

	installments, err := svc.BuildSchedule(fs, day(2024, time.January, 31))
	assert.NoError(t, err)
	assert.Equal(t, day(2024, time.February, 29), installments[0].DueDate)
}

func TestBuildSchedule_LumpSum(t *testing.T) {
	svc := NewFeeScheduleService()
	fs := &models.FeeStructure{ID: 2, TotalFee: 15000, FeeType: models.FeeTypeLumpSum}

	installments, err := svc.BuildSchedule(fs, day(2025, time.January, 1))
	assert.NoError(t, err)
	assert.Empty(t, installments)
}

func TestBuildSchedule_MissingInstallmentFields(t *testing.T) {
	svc := NewFeeScheduleService()

	fs := &models.FeeStructure{ID: 3, TotalFee: 12000, FeeType: models.FeeTypeInstallment}
	_, err := svc.BuildSchedule(fs, day(2025, time.January, 1))
	assert.Error(t, err)

	fs.InstallmentCount = intPtr(6)
	_, err = svc.BuildSchedule(fs, day(2025, time.January, 1))
	assert.Error(t, err)

	fs.InstallmentAmount = floatPtr(2000)
	_, err = svc.BuildSchedule(fs, day(2025, time.January, 1))
	assert.NoError(t, err)
}
