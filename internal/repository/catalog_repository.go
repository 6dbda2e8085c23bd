package repository

import (
	"context"
	"errors"

	"github.com/sbci/institute-api/internal/models"

	"gorm.io/gorm"
)

// CourseRepository defines the interface for course data access
type CourseRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Course, error)
	FindAll(ctx context.Context, activeOnly bool) ([]models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Deactivate(ctx context.Context, id uint) error
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) FindByID(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	err := r.db.WithContext(ctx).
		Preload("Batches").
		Preload("FeeStructures").
		First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) FindAll(ctx context.Context, activeOnly bool) ([]models.Course, error) {
	var courses []models.Course
	db := r.db.WithContext(ctx)
	if activeOnly {
		db = db.Where("active = ?", true)
	}
	err := db.Order("name ASC").Find(&courses).Error
	return courses, err
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	if err := r.db.WithContext(ctx).Create(course).Error; err != nil {
		if isUniqueViolation(err, "") {
			return errors.New("a course with this code already exists")
		}
		return err
	}
	return nil
}

func (r *courseRepository) Update(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}

func (r *courseRepository) Deactivate(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Course{}).
		Where("id = ?", id).
		Update("active", false).Error
}

// BatchRepository defines the interface for batch data access
type BatchRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Batch, error)
	FindByCourse(ctx context.Context, courseID uint, activeOnly bool) ([]models.Batch, error)
	FindAll(ctx context.Context, activeOnly bool) ([]models.Batch, error)
	Create(ctx context.Context, batch *models.Batch) error
	Update(ctx context.Context, batch *models.Batch) error
	Deactivate(ctx context.Context, id uint) error
	AdmissionCount(ctx context.Context, batchID uint) (int64, error)
}

type batchRepository struct {
	db *gorm.DB
}

// NewBatchRepository creates a new batch repository
func NewBatchRepository(db *gorm.DB) BatchRepository {
	return &batchRepository{db: db}
}

func (r *batchRepository) FindByID(ctx context.Context, id uint) (*models.Batch, error) {
	var batch models.Batch
	err := r.db.WithContext(ctx).Preload("Course").First(&batch, id).Error
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

func (r *batchRepository) FindByCourse(ctx context.Context, courseID uint, activeOnly bool) ([]models.Batch, error) {
	var batches []models.Batch
	db := r.db.WithContext(ctx).Where("course_id = ?", courseID)
	if activeOnly {
		db = db.Where("active = ?", true)
	}
	err := db.Order("start_date DESC").Find(&batches).Error
	return batches, err
}

func (r *batchRepository) FindAll(ctx context.Context, activeOnly bool) ([]models.Batch, error) {
	var batches []models.Batch
	db := r.db.WithContext(ctx).Preload("Course")
	if activeOnly {
		db = db.Where("active = ?", true)
	}
	err := db.Order("created_at DESC").Find(&batches).Error
	return batches, err
}

func (r *batchRepository) Create(ctx context.Context, batch *models.Batch) error {
	return r.db.WithContext(ctx).Create(batch).Error
}

func (r *batchRepository) Update(ctx context.Context, batch *models.Batch) error {
	return r.db.WithContext(ctx).Save(batch).Error
}

func (r *batchRepository) Deactivate(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Batch{}).
		Where("id = ?", id).
		Update("active", false).Error
}

func (r *batchRepository) AdmissionCount(ctx context.Context, batchID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Admission{}).
		Where("batch_id = ?", batchID).
		Count(&count).Error
	return count, err
}

// FeeStructureRepository defines the interface for fee structure data access
type FeeStructureRepository interface {
	FindByID(ctx context.Context, id uint) (*models.FeeStructure, error)
	FindByCourse(ctx context.Context, courseID uint) ([]models.FeeStructure, error)
	FindAll(ctx context.Context, activeOnly bool) ([]models.FeeStructure, error)
	Create(ctx context.Context, fs *models.FeeStructure) error
	Update(ctx context.Context, fs *models.FeeStructure) error
	Deactivate(ctx context.Context, id uint) error
}

type feeStructureRepository struct {
	db *gorm.DB
}

// NewFeeStructureRepository creates a new fee structure repository
func NewFeeStructureRepository(db *gorm.DB) FeeStructureRepository {
	return &feeStructureRepository{db: db}
}

func (r *feeStructureRepository) FindByID(ctx context.Context, id uint) (*models.FeeStructure, error) {
	var fs models.FeeStructure
	err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("LateFeeRule").
		First(&fs, id).Error
	if err != nil {
		return nil, err
	}
	return &fs, nil
}

func (r *feeStructureRepository) FindByCourse(ctx context.Context, courseID uint) ([]models.FeeStructure, error) {
	var structures []models.FeeStructure
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND active = ?", courseID, true).
		Preload("LateFeeRule").
		Order("created_at DESC").
		Find(&structures).Error
	return structures, err
}

func (r *feeStructureRepository) FindAll(ctx context.Context, activeOnly bool) ([]models.FeeStructure, error) {
	var structures []models.FeeStructure
	db := r.db.WithContext(ctx).Preload("Course").Preload("LateFeeRule")
	if activeOnly {
		db = db.Where("active = ?", true)
	}
	err := db.Order("created_at DESC").Find(&structures).Error
	return structures, err
}

func (r *feeStructureRepository) Create(ctx context.Context, fs *models.FeeStructure) error {
	return r.db.WithContext(ctx).Create(fs).Error
}

func (r *feeStructureRepository) Update(ctx context.Context, fs *models.FeeStructure) error {
	return r.db.WithContext(ctx).Save(fs).Error
}

func (r *feeStructureRepository) Deactivate(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.FeeStructure{}).
		Where("id = ?", id).
		Update("active", false).Error
}

// LateFeeRuleRepository defines the interface for late fee rule data access
type LateFeeRuleRepository interface {
	FindByID(ctx context.Context, id uint) (*models.LateFeeRule, error)
	FindAll(ctx context.Context) ([]models.LateFeeRule, error)
	Create(ctx context.Context, rule *models.LateFeeRule) error
	Update(ctx context.Context, rule *models.LateFeeRule) error
	Delete(ctx context.Context, id uint) error
}

type lateFeeRuleRepository struct {
	db *gorm.DB
}

// NewLateFeeRuleRepository creates a new late fee rule repository
func NewLateFeeRuleRepository(db *gorm.DB) LateFeeRuleRepository {
	return &lateFeeRuleRepository{db: db}
}

func (r *lateFeeRuleRepository) FindByID(ctx context.Context, id uint) (*models.LateFeeRule, error) {
	var rule models.LateFeeRule
	err := r.db.WithContext(ctx).First(&rule, id).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *lateFeeRuleRepository) FindAll(ctx context.Context) ([]models.LateFeeRule, error) {
	var rules []models.LateFeeRule
	err := r.db.WithContext(ctx).Order("name ASC").Find(&rules).Error
	return rules, err
}

func (r *lateFeeRuleRepository) Create(ctx context.Context, rule *models.LateFeeRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *lateFeeRuleRepository) Update(ctx context.Context, rule *models.LateFeeRule) error {
	return r.db.WithContext(ctx).Save(rule).Error
}

func (r *lateFeeRuleRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.LateFeeRule{}, id).Error
}
