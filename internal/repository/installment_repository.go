package repository

import (
	"context"
	"time"

	"github.com/sbci/institute-api/internal/models"

	"gorm.io/gorm"
)

// InstallmentRepository defines the interface for installment data access
type InstallmentRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Installment, error)
	FindByAdmission(ctx context.Context, admissionID uint) ([]models.Installment, error)
	// FindOverdue returns unsettled installments of active admissions whose
	// due date is strictly before the given day.
	FindOverdue(ctx context.Context, before time.Time) ([]models.Installment, error)
	FindDueBetween(ctx context.Context, from, to time.Time) ([]models.Installment, error)
}

type installmentRepository struct {
	db *gorm.DB
}

// NewInstallmentRepository creates a new installment repository
func NewInstallmentRepository(db *gorm.DB) InstallmentRepository {
	return &installmentRepository{db: db}
}

func (r *installmentRepository) FindByID(ctx context.Context, id uint) (*models.Installment, error) {
	var installment models.Installment
	err := r.db.WithContext(ctx).First(&installment, id).Error
	if err != nil {
		return nil, err
	}
	return &installment, nil
}

func (r *installmentRepository) FindByAdmission(ctx context.Context, admissionID uint) ([]models.Installment, error) {
	var installments []models.Installment
	err := r.db.WithContext(ctx).
		Where("admission_id = ?", admissionID).
		Order("installment_number ASC").
		Find(&installments).Error
	return installments, err
}

func (r *installmentRepository) FindOverdue(ctx context.Context, before time.Time) ([]models.Installment, error) {
	var installments []models.Installment
	err := r.db.WithContext(ctx).
		Joins("JOIN admissions ON admissions.id = installments.admission_id").
		Where("admissions.status = ?", models.AdmissionStatusActive).
		Where("installments.status <> ?", models.InstallmentFullyPaid).
		Where("installments.due_date < ?", before.Format("2006-01-02")).
		Preload("Admission.Student").
		Preload("Admission.Course").
		Preload("Admission.Batch").
		Order("installments.due_date ASC").
		Find(&installments).Error
	return installments, err
}

func (r *installmentRepository) FindDueBetween(ctx context.Context, from, to time.Time) ([]models.Installment, error) {
	var installments []models.Installment
	err := r.db.WithContext(ctx).
		Joins("JOIN admissions ON admissions.id = installments.admission_id").
		Where("admissions.status = ?", models.AdmissionStatusActive).
		Where("installments.status <> ?", models.InstallmentFullyPaid).
		Where("installments.due_date >= ? AND installments.due_date <= ?",
			from.Format("2006-01-02"), to.Format("2006-01-02")).
		Preload("Admission.Student").
		Preload("Admission.Course").
		Preload("Admission.Batch").
		Order("installments.due_date ASC").
		Find(&installments).Error
	return installments, err
}
