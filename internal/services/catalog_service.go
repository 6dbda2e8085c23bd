package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sbci/institute-api/internal/models"
	"github.com/sbci/institute-api/internal/repository"
	"github.com/sbci/institute-api/pkg/logger"
	"gorm.io/gorm"
)

// CatalogService manages courses, batches, fee structures and late fee
// rules. These are reference data: admissions copy what they need at
// creation time, so catalog edits never rewrite history.
type CatalogService struct {
	courseRepo repository.CourseRepository
	batchRepo  repository.BatchRepository
	feeRepo    repository.FeeStructureRepository
	ruleRepo   repository.LateFeeRuleRepository
	auditSvc   *AuditService
}

func NewCatalogService(
	courseRepo repository.CourseRepository,
	batchRepo repository.BatchRepository,
	feeRepo repository.FeeStructureRepository,
	ruleRepo repository.LateFeeRuleRepository,
	auditSvc *AuditService,
) *CatalogService {
	return &CatalogService{
		courseRepo: courseRepo,
		batchRepo:  batchRepo,
		feeRepo:    feeRepo,
		ruleRepo:   ruleRepo,
		auditSvc:   auditSvc,
	}
}

// --- Courses ---

func (s *CatalogService) FindCourse(ctx context.Context, id uint) (*models.Course, error) {
	course, err := s.courseRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return course, nil
}

func (s *CatalogService) ListCourses(ctx context.Context, activeOnly bool) ([]models.Course, error) {
	return s.courseRepo.FindAll(ctx, activeOnly)
}

func (s *CatalogService) CreateCourse(ctx context.Context, course *models.Course) error {
	if course.Name == "" || course.Code == "" {
		return fmt.Errorf("%w: course name and code are required", ErrInvalidArgument)
	}
	if course.Duration <= 0 {
		return fmt.Errorf("%w: course duration must be positive", ErrInvalidArgument)
	}
	return s.courseRepo.Create(ctx, course)
}

func (s *CatalogService) UpdateCourse(ctx context.Context, course *models.Course) error {
	return s.courseRepo.Update(ctx, course)
}

// DeactivateCourse hides the course from new admissions. Existing
// admissions keep pointing at it.
func (s *CatalogService) DeactivateCourse(ctx context.Context, id uint) error {
	if _, err := s.FindCourse(ctx, id); err != nil {
		return err
	}
	return s.courseRepo.Deactivate(ctx, id)
}

// --- Batches ---

func (s *CatalogService) FindBatch(ctx context.Context, id uint) (*models.Batch, error) {
	batch, err := s.batchRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return batch, nil
}

func (s *CatalogService) ListBatches(ctx context.Context, activeOnly bool) ([]models.Batch, error) {
	return s.batchRepo.FindAll(ctx, activeOnly)
}

func (s *CatalogService) ListBatchesByCourse(ctx context.Context, courseID uint, activeOnly bool) ([]models.Batch, error) {
	return s.batchRepo.FindByCourse(ctx, courseID, activeOnly)
}

func (s *CatalogService) CreateBatch(ctx context.Context, batch *models.Batch) error {
	course, err := s.FindCourse(ctx, batch.CourseID)
	if err != nil {
		return fmt.Errorf("%w: course %d", ErrNotFound, batch.CourseID)
	}
	if !course.Active {
		return fmt.Errorf("%w: course %s is not active", ErrInvalidArgument, course.Name)
	}
	if batch.Name == "" || batch.Timing == "" {
		return fmt.Errorf("%w: batch name and timing are required", ErrInvalidArgument)
	}
	return s.batchRepo.Create(ctx, batch)
}

func (s *CatalogService) UpdateBatch(ctx context.Context, batch *models.Batch) error {
	return s.batchRepo.Update(ctx, batch)
}

func (s *CatalogService) DeactivateBatch(ctx context.Context, id uint) error {
	if _, err := s.FindBatch(ctx, id); err != nil {
		return err
	}
	return s.batchRepo.Deactivate(ctx, id)
}

// --- Fee structures ---

func (s *CatalogService) FindFeeStructure(ctx context.Context, id uint) (*models.FeeStructure, error) {
	fs, err := s.feeRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return fs, nil
}

func (s *CatalogService) ListFeeStructures(ctx context.Context, activeOnly bool) ([]models.FeeStructure, error) {
	return s.feeRepo.FindAll(ctx, activeOnly)
}

func (s *CatalogService) ListFeeStructuresByCourse(ctx context.Context, courseID uint) ([]models.FeeStructure, error) {
	return s.feeRepo.FindByCourse(ctx, courseID)
}

// CreateFeeStructure validates the structure. An installment plan whose
// count x amount does not add up to the net fee is logged as a warning but
// not rejected; institutes use the slack for rounding and concessions.
func (s *CatalogService) CreateFeeStructure(ctx context.Context, fs *models.FeeStructure) error {
	if fs.TotalFee < 0 || fs.RegistrationFee < 0 || fs.ExamFee < 0 {
		return fmt.Errorf("%w: fees cannot be negative", ErrInvalidArgument)
	}
	switch fs.FeeType {
	case models.FeeTypeLumpSum:
	case models.FeeTypeInstallment:
		if fs.InstallmentCount == nil || *fs.InstallmentCount <= 0 {
			return fmt.Errorf("%w: installment count is required for installment structures", ErrInvalidArgument)
		}
		if fs.InstallmentAmount == nil || *fs.InstallmentAmount <= 0 {
			return fmt.Errorf("%w: installment amount is required for installment structures", ErrInvalidArgument)
		}
		if fs.InstallmentFrequency == "" {
			fs.InstallmentFrequency = models.FrequencyMonthly
		}
		if fs.InstallmentFrequency != models.FrequencyMonthly {
			return fmt.Errorf("%w: unsupported installment frequency %q", ErrInvalidArgument, fs.InstallmentFrequency)
		}
	default:
		return fmt.Errorf("%w: unknown fee type %q", ErrInvalidArgument, fs.FeeType)
	}

	if _, err := s.FindCourse(ctx, fs.CourseID); err != nil {
		return fmt.Errorf("%w: course %d", ErrNotFound, fs.CourseID)
	}
	if fs.LateFeeRuleID != nil {
		if _, err := s.FindLateFeeRule(ctx, *fs.LateFeeRuleID); err != nil {
			return fmt.Errorf("%w: late fee rule %d", ErrNotFound, *fs.LateFeeRuleID)
		}
	}

	if fs.HasInstallmentMismatch() {
		logger.Warn("fee structure installment plan does not add up to net fee",
			"name", fs.Name,
			"installment_total", fs.InstallmentTotal(),
			"net_fee", fs.TotalFee-fs.RegistrationFee-fs.ExamFee)
	}

	return s.feeRepo.Create(ctx, fs)
}

func (s *CatalogService) UpdateFeeStructure(ctx context.Context, fs *models.FeeStructure) error {
	return s.feeRepo.Update(ctx, fs)
}

func (s *CatalogService) DeactivateFeeStructure(ctx context.Context, id uint) error {
	if _, err := s.FindFeeStructure(ctx, id); err != nil {
		return err
	}
	return s.feeRepo.Deactivate(ctx, id)
}

// --- Late fee rules ---

func (s *CatalogService) FindLateFeeRule(ctx context.Context, id uint) (*models.LateFeeRule, error) {
	rule, err := s.ruleRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rule, nil
}

func (s *CatalogService) ListLateFeeRules(ctx context.Context) ([]models.LateFeeRule, error) {
	return s.ruleRepo.FindAll(ctx)
}

func (s *CatalogService) CreateLateFeeRule(ctx context.Context, rule *models.LateFeeRule) error {
	switch rule.Type {
	case models.LateFeePerDay, models.LateFeePerWeek, models.LateFeeFixed:
	default:
		return fmt.Errorf("%w: unknown late fee rule type %q", ErrInvalidArgument, rule.Type)
	}
	if rule.Amount < 0 {
		return fmt.Errorf("%w: rule amount cannot be negative", ErrInvalidArgument)
	}
	return s.ruleRepo.Create(ctx, rule)
}

func (s *CatalogService) UpdateLateFeeRule(ctx context.Context, rule *models.LateFeeRule) error {
	return s.ruleRepo.Update(ctx, rule)
}

func (s *CatalogService) DeleteLateFeeRule(ctx context.Context, id uint) error {
	if _, err := s.FindLateFeeRule(ctx, id); err != nil {
		return err
	}
	return s.ruleRepo.Delete(ctx, id)
}
