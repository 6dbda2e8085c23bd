package repository

import (
	"context"

	"github.com/sbci/institute-api/internal/models"

	"gorm.io/gorm"
)

// StudentRepository defines the interface for student data access
type StudentRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Student, error)
	FindByIDWithAdmissions(ctx context.Context, id uint) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Student, int64, error)
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) FindByID(ctx context.Context, id uint) (*models.Student, error) {
	var student models.Student
	err := r.db.WithContext(ctx).First(&student, id).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepository) FindByIDWithAdmissions(ctx context.Context, id uint) (*models.Student, error) {
	var student models.Student
	err := r.db.WithContext(ctx).
		Preload("Admissions", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Admissions.Course").
		Preload("Admissions.Batch").
		Preload("Admissions.FeeStructure").
		Preload("Admissions.Installments", func(db *gorm.DB) *gorm.DB {
			return db.Order("installment_number ASC")
		}).
		Preload("Admissions.Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("payment_date DESC")
		}).
		First(&student, id).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepository) Update(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Save(student).Error
}

// Delete hard-deletes the student. Admissions, installments and payments
// cascade away with it.
func (r *studentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Student{}, id).Error
}

func (r *studentRepository) List(ctx context.Context, query *ListQuery) ([]models.Student, int64, error) {
	var students []models.Student
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Student{})

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where(
			"name ILIKE ? OR mobile ILIKE ? OR id IN (SELECT student_id FROM admissions WHERE admission_number ILIKE ?)",
			search, search, search)
	}

	db.Count(&total)

	preload := func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }
	db = db.Preload("Admissions", preload).
		Preload("Admissions.Course").
		Preload("Admissions.Batch").
		Preload("Admissions.Payments")

	// Filter the preloaded admissions, not the student rows themselves
	if course := query.Filters["course_id"]; course != "" {
		db = db.Preload("Admissions", func(db *gorm.DB) *gorm.DB {
			return db.Where("course_id = ?", course).Order("created_at DESC")
		})
	}
	if status := query.Filters["status"]; status != "" {
		db = db.Preload("Admissions", func(db *gorm.DB) *gorm.DB {
			return db.Where("status = ?", status).Order("created_at DESC")
		})
	}

	db = db.Order("created_at DESC")
	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Find(&students).Error
	return students, total, err
}
