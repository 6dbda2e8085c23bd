package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sbci/institute-api/internal/models"

	"gorm.io/gorm"
)

// AdmissionRepository defines the interface for admission data access
type AdmissionRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Admission, error)
	FindByIDWithDetails(ctx context.Context, id uint) (*models.Admission, error)
	FindByStudent(ctx context.Context, studentID uint) ([]models.Admission, error)
	List(ctx context.Context, q *ListQuery) ([]models.Admission, int64, error)
	CreateWithSchedule(ctx context.Context, admission *models.Admission, installments []models.Installment) error
	UpdateStatus(ctx context.Context, id uint, status string) error
	Delete(ctx context.Context, id uint) error
	CountByBatch(ctx context.Context, batchID uint) (int64, error)
}

type admissionRepository struct {
	db *gorm.DB
}

// NewAdmissionRepository creates a new admission repository
func NewAdmissionRepository(db *gorm.DB) AdmissionRepository {
	return &admissionRepository{db: db}
}

func (r *admissionRepository) FindByID(ctx context.Context, id uint) (*models.Admission, error) {
	var admission models.Admission
	err := r.db.WithContext(ctx).First(&admission, id).Error
	if err != nil {
		return nil, err
	}
	return &admission, nil
}

func (r *admissionRepository) FindByIDWithDetails(ctx context.Context, id uint) (*models.Admission, error) {
	var admission models.Admission
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Course").
		Preload("Batch").
		Preload("FeeStructure.LateFeeRule").
		Preload("Installments", func(db *gorm.DB) *gorm.DB {
			return db.Order("installment_number ASC")
		}).
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("payment_date DESC")
		}).
		Preload("Payments.Receipt").
		Preload("Payments.CollectedBy").
		First(&admission, id).Error
	if err != nil {
		return nil, err
	}
	return &admission, nil
}

func (r *admissionRepository) FindByStudent(ctx context.Context, studentID uint) ([]models.Admission, error) {
	var admissions []models.Admission
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Preload("Course").
		Preload("Batch").
		Preload("FeeStructure").
		Order("admission_date DESC").
		Find(&admissions).Error
	return admissions, err
}

func (r *admissionRepository) List(ctx context.Context, q *ListQuery) ([]models.Admission, int64, error) {
	var admissions []models.Admission
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Admission{})

	if q.Search != "" {
		term := "%" + q.Search + "%"
		db = db.Joins("JOIN students ON students.id = admissions.student_id").
			Where("admissions.admission_number ILIKE ? OR students.name ILIKE ? OR students.mobile ILIKE ?", term, term, term)
	}
	if status, ok := q.Filters["status"]; ok && status != "" {
		db = db.Where("admissions.status = ?", status)
	}
	if batchID, ok := q.Filters["batch_id"]; ok && batchID != "" {
		db = db.Where("admissions.batch_id = ?", batchID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	db = db.
		Preload("Student").
		Preload("Course").
		Preload("Batch").
		Preload("FeeStructure").
		Order("admissions.admission_date DESC")
	if q.PerPage > 0 {
		db = db.Offset(q.Offset()).Limit(q.PerPage)
	}
	err := db.Find(&admissions).Error
	return admissions, total, err
}

// CreateWithSchedule persists an admission and its installment schedule in a
// single transaction. The admission number is assigned inside the transaction
// from a per-year counter, so two concurrent admissions can never share one.
func (r *admissionRepository) CreateWithSchedule(ctx context.Context, admission *models.Admission, installments []models.Installment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		year := admission.AdmissionDate.Year()
		seq, err := nextSequence(tx, models.AdmissionSequenceScope(year))
		if err != nil {
			return err
		}
		admission.AdmissionNumber = models.AdmissionNumberFor(year, seq)

		if err := tx.Create(admission).Error; err != nil {
			if isUniqueViolation(err, "") {
				return errors.New("admission number collision, retry the request")
			}
			return err
		}

		for i := range installments {
			installments[i].AdmissionID = admission.ID
		}
		if len(installments) > 0 {
			if err := tx.Create(&installments).Error; err != nil {
				return err
			}
		}
		admission.Installments = installments
		return nil
	})
}

func (r *admissionRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.Admission{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

// Delete removes the admission together with its installments, payments and
// receipts via the database cascade.
func (r *admissionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Admission{}, id).Error
}

func (r *admissionRepository) CountByBatch(ctx context.Context, batchID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Admission{}).
		Where("batch_id = ?", batchID).
		Count(&count).Error
	return count, err
}
