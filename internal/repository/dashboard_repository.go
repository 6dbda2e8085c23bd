package repository

import (
	"context"
	"time"

	"github.com/sbci/institute-api/internal/models"

	"gorm.io/gorm"
)

// DashboardRepository aggregates the read-only figures behind the dashboard
// and the dues report.
type DashboardRepository interface {
	ActiveStudentCount(ctx context.Context) (int64, error)
	CollectedBetween(ctx context.Context, from, to time.Time) (float64, error)
	TotalOutstanding(ctx context.Context) (float64, error)
	OverdueSummary(ctx context.Context, today time.Time) (count int64, amount float64, err error)
	AdmissionsBetween(ctx context.Context, from, to time.Time) (int64, error)
	BilledForAdmissionsBetween(ctx context.Context, from, to time.Time) (float64, error)
	DueEntries(ctx context.Context, today time.Time, includeUpcomingDays int) ([]models.DueEntry, error)
	TopDefaulters(ctx context.Context, today time.Time, limit int) ([]models.DefaulterEntry, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository creates a new dashboard repository
func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) ActiveStudentCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Admission{}).
		Where("status = ?", models.AdmissionStatusActive).
		Distinct("student_id").
		Count(&count).Error
	return count, err
}

func (r *dashboardRepository) CollectedBetween(ctx context.Context, from, to time.Time) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("payment_date >= ? AND payment_date < ?", from, to).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&total).Error
	return total, err
}

// TotalOutstanding is the sum over active admissions of total fee minus
// collected amount. Overpaid admissions pull the figure down, matching the
// per-admission balance definition.
func (r *dashboardRepository) TotalOutstanding(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&models.Admission{}).
		Where("admissions.status = ?", models.AdmissionStatusActive).
		Select("COALESCE(SUM(admissions.total_fee - COALESCE(paid.collected, 0)), 0)").
		Joins("LEFT JOIN (SELECT admission_id, SUM(total_amount) AS collected FROM payments GROUP BY admission_id) paid ON paid.admission_id = admissions.id").
		Scan(&total).Error
	return total, err
}

func (r *dashboardRepository) OverdueSummary(ctx context.Context, today time.Time) (int64, float64, error) {
	type row struct {
		Count  int64
		Amount float64
	}
	var res row
	err := r.db.WithContext(ctx).
		Model(&models.Installment{}).
		Joins("JOIN admissions ON admissions.id = installments.admission_id").
		Where("admissions.status = ?", models.AdmissionStatusActive).
		Where("installments.status <> ?", models.InstallmentFullyPaid).
		Where("installments.due_date < ?", today.Format("2006-01-02")).
		Select("COUNT(*) AS count, COALESCE(SUM(installments.amount - installments.paid_amount), 0) AS amount").
		Scan(&res).Error
	return res.Count, res.Amount, err
}

func (r *dashboardRepository) AdmissionsBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Admission{}).
		Where("admission_date >= ? AND admission_date < ?", from.Format("2006-01-02"), to.Format("2006-01-02")).
		Count(&count).Error
	return count, err
}

func (r *dashboardRepository) BilledForAdmissionsBetween(ctx context.Context, from, to time.Time) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&models.Admission{}).
		Where("admission_date >= ? AND admission_date < ?", from.Format("2006-01-02"), to.Format("2006-01-02")).
		Select("COALESCE(SUM(total_fee), 0)").
		Scan(&total).Error
	return total, err
}

// DueEntries lists unsettled installments due on or before today plus the
// given number of upcoming days, joined with student and course context.
func (r *dashboardRepository) DueEntries(ctx context.Context, today time.Time, includeUpcomingDays int) ([]models.DueEntry, error) {
	cutoff := today.AddDate(0, 0, includeUpcomingDays)

	var installments []models.Installment
	err := r.db.WithContext(ctx).
		Joins("JOIN admissions ON admissions.id = installments.admission_id").
		Where("admissions.status = ?", models.AdmissionStatusActive).
		Where("installments.status <> ?", models.InstallmentFullyPaid).
		Where("installments.due_date <= ?", cutoff.Format("2006-01-02")).
		Preload("Admission.Student").
		Preload("Admission.Course").
		Preload("Admission.Batch").
		Order("installments.due_date ASC, installments.admission_id ASC").
		Find(&installments).Error
	if err != nil {
		return nil, err
	}

	entries := make([]models.DueEntry, 0, len(installments))
	for _, inst := range installments {
		entry := models.DueEntry{
			AdmissionID:   inst.AdmissionID,
			InstallmentNo: inst.InstallmentNumber,
			DueDate:       inst.DueDate,
			Amount:        inst.Amount,
			PaidAmount:    inst.PaidAmount,
			PendingAmount: inst.PendingAmount(),
			DaysOverdue:   inst.DaysOverdue(today),
		}
		if inst.Admission.ID != 0 {
			entry.AdmissionNumber = inst.Admission.AdmissionNumber
			if inst.Admission.Student.ID != 0 {
				entry.StudentName = inst.Admission.Student.Name
				entry.StudentMobile = inst.Admission.Student.Mobile
			}
			if inst.Admission.Course.ID != 0 {
				entry.CourseName = inst.Admission.Course.Name
			}
			if inst.Admission.Batch.ID != 0 {
				entry.BatchName = inst.Admission.Batch.Name
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// TopDefaulters ranks active admissions by their overdue pending amount
func (r *dashboardRepository) TopDefaulters(ctx context.Context, today time.Time, limit int) ([]models.DefaulterEntry, error) {
	var entries []models.DefaulterEntry
	err := r.db.WithContext(ctx).
		Model(&models.Installment{}).
		Joins("JOIN admissions ON admissions.id = installments.admission_id").
		Joins("JOIN students ON students.id = admissions.student_id").
		Joins("JOIN courses ON courses.id = admissions.course_id").
		Where("admissions.status = ?", models.AdmissionStatusActive).
		Where("installments.status <> ?", models.InstallmentFullyPaid).
		Where("installments.due_date < ?", today.Format("2006-01-02")).
		Select(`admissions.id AS admission_id,
			admissions.admission_number,
			students.name AS student_name,
			students.mobile AS student_mobile,
			courses.name AS course_name,
			COUNT(*) AS overdue_count,
			COALESCE(SUM(installments.amount - installments.paid_amount), 0) AS overdue_amount`).
		Group("admissions.id, admissions.admission_number, students.name, students.mobile, courses.name").
		Order("overdue_amount DESC").
		Limit(limit).
		Scan(&entries).Error
	return entries, err
}
