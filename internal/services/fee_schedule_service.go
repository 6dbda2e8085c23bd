package services

import (
	"fmt"
	"time"

	"github.com/sbci/institute-api/internal/models"
)

// FeeScheduleService builds installment schedules for new admissions
type FeeScheduleService struct{}

// NewFeeScheduleService creates a new fee schedule service
func NewFeeScheduleService() *FeeScheduleService {
	return &FeeScheduleService{}
}

// BuildSchedule produces the installment rows for an admission under the
// given fee structure. Lump-sum structures yield no installments. Amounts
// are taken verbatim from the structure; if they do not add up to the
// course fee the structure is flagged elsewhere, never silently adjusted.
func (s *FeeScheduleService) BuildSchedule(fs *models.FeeStructure, admissionDate time.Time) ([]models.Installment, error) {
	if !fs.IsInstallment() {
		return nil, nil
	}
	if fs.InstallmentCount == nil || *fs.InstallmentCount <= 0 {
		return nil, fmt.Errorf("installment fee structure %d has no installment count", fs.ID)
	}
	if fs.InstallmentAmount == nil || *fs.InstallmentAmount <= 0 {
		return nil, fmt.Errorf("installment fee structure %d has no installment amount", fs.ID)
	}

	count := *fs.InstallmentCount
	installments := make([]models.Installment, 0, count)
	for i := 1; i <= count; i++ {
		installments = append(installments, models.Installment{
			InstallmentNumber: i,
			Amount:            *fs.InstallmentAmount,
			DueDate:           addMonths(admissionDate, i),
			PaidAmount:        0,
			Status:            models.InstallmentNotPaid,
		})
	}
	return installments, nil
}

// addMonths adds n calendar months to a date, clamping the day to the last
// day of the target month. Unlike time.AddDate, Jan 31 plus one month gives
// Feb 28 (or 29), not Mar 2/3. Each due date is offset from the base date,
// not from the previous installment, so a short month never shifts the rest
// of the schedule.
func addMonths(base time.Time, n int) time.Time {
	year, month, day := base.Date()
	// First day of the target month, then clamp the day.
	first := time.Date(year, month+time.Month(n), 1, 0, 0, 0, 0, base.Location())
	last := first.AddDate(0, 1, -1).Day()
	if day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, base.Location())
}
