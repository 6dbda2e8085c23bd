package services

import (
	"context"
	"testing"

	"github.com/sbci/institute-api/internal/models"
	"github.com/sbci/institute-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// Mock CourseRepository
type mockCourseRepository struct {
	repository.CourseRepository
	mockFindByID func(ctx context.Context, id uint) (*models.Course, error)
}

func (m *mockCourseRepository) FindByID(ctx context.Context, id uint) (*models.Course, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

// Mock LateFeeRuleRepository
type mockLateFeeRuleRepository struct {
	repository.LateFeeRuleRepository
	mockFindByID func(ctx context.Context, id uint) (*models.LateFeeRule, error)
	mockCreate   func(ctx context.Context, rule *models.LateFeeRule) error
}

func (m *mockLateFeeRuleRepository) FindByID(ctx context.Context, id uint) (*models.LateFeeRule, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLateFeeRuleRepository) Create(ctx context.Context, rule *models.LateFeeRule) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, rule)
	}
	return nil
}

// Redefine fee structure repo mock here to add Create support
type mockFeeRepoWithCreate struct {
	repository.FeeStructureRepository
	mockCreate func(ctx context.Context, fs *models.FeeStructure) error
}

func (m *mockFeeRepoWithCreate) FindByID(ctx context.Context, id uint) (*models.FeeStructure, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *mockFeeRepoWithCreate) Create(ctx context.Context, fs *models.FeeStructure) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, fs)
	}
	return nil
}

func newTestCatalogService(feeRepo repository.FeeStructureRepository, ruleRepo repository.LateFeeRuleRepository) *CatalogService {
	courseRepo := &mockCourseRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Course, error) {
			return &models.Course{ID: id, Name: "DCA", Active: true}, nil
		},
	}
	return NewCatalogService(courseRepo, &mockBatchRepository{}, feeRepo, ruleRepo, nil)
}

func TestCreateFeeStructure_InstallmentValidation(t *testing.T) {
	svc := newTestCatalogService(&mockFeeRepoWithCreate{}, &mockLateFeeRuleRepository{})

	tests := []struct {
		name string
		fs   models.FeeStructure
	}{
		{"unknown fee type", models.FeeStructure{CourseID: 1, TotalFee: 1000, FeeType: "QUARTERLY"}},
		{"missing installment count", models.FeeStructure{CourseID: 1, TotalFee: 1000, FeeType: models.FeeTypeInstallment, InstallmentAmount: floatPtr(500)}},
		{"missing installment amount", models.FeeStructure{CourseID: 1, TotalFee: 1000, FeeType: models.FeeTypeInstallment, InstallmentCount: intPtr(2)}},
		{"negative total fee", models.FeeStructure{CourseID: 1, TotalFee: -1, FeeType: models.FeeTypeLumpSum}},
		{"unsupported frequency", models.FeeStructure{
			CourseID: 1, TotalFee: 1000, FeeType: models.FeeTypeInstallment,
			InstallmentCount: intPtr(2), InstallmentAmount: floatPtr(500), InstallmentFrequency: "WEEKLY",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := tt.fs
			err := svc.CreateFeeStructure(context.Background(), &fs)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestCreateFeeStructure_MismatchDoesNotBlock(t *testing.T) {
	created := false
	feeRepo := &mockFeeRepoWithCreate{
		mockCreate: func(ctx context.Context, fs *models.FeeStructure) error {
			created = true
			return nil
		},
	}
	svc := newTestCatalogService(feeRepo, &mockLateFeeRuleRepository{})

	// 6 x 2000 = 12000 but net fee is 13000 - 500 - 300 = 12200. The plan
	// does not add up, creation must still succeed.
	fs := models.FeeStructure{
		CourseID:          1,
		Name:              "DCA Installments",
		TotalFee:          13000,
		RegistrationFee:   500,
		ExamFee:           300,
		FeeType:           models.FeeTypeInstallment,
		InstallmentCount:  intPtr(6),
		InstallmentAmount: floatPtr(2000),
	}
	assert.True(t, fs.HasInstallmentMismatch())

	err := svc.CreateFeeStructure(context.Background(), &fs)
	assert.NoError(t, err)
	assert.True(t, created)
}

func TestCreateFeeStructure_UnknownLateFeeRule(t *testing.T) {
	svc := newTestCatalogService(&mockFeeRepoWithCreate{}, &mockLateFeeRuleRepository{})

	ruleID := uint(42)
	fs := models.FeeStructure{CourseID: 1, TotalFee: 1000, FeeType: models.FeeTypeLumpSum, LateFeeRuleID: &ruleID}
	err := svc.CreateFeeStructure(context.Background(), &fs)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateLateFeeRule_Validation(t *testing.T) {
	svc := newTestCatalogService(&mockFeeRepoWithCreate{}, &mockLateFeeRuleRepository{})

	err := svc.CreateLateFeeRule(context.Background(), &models.LateFeeRule{Name: "Daily", Type: "PER_MINUTE", Amount: 10})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	err = svc.CreateLateFeeRule(context.Background(), &models.LateFeeRule{Name: "Daily", Type: models.LateFeePerDay, Amount: -5})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	err = svc.CreateLateFeeRule(context.Background(), &models.LateFeeRule{Name: "Daily", Type: models.LateFeePerDay, Amount: 50})
	assert.NoError(t, err)
}
