package services

import (
	"context"
	"testing"
	"time"

	"github.com/sbci/institute-api/internal/jobs"
	"github.com/sbci/institute-api/internal/models"
	"github.com/sbci/institute-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// Mock StudentRepository
type mockStudentRepository struct {
	repository.StudentRepository
	mockFindByID func(ctx context.Context, id uint) (*models.Student, error)
}

func (m *mockStudentRepository) FindByID(ctx context.Context, id uint) (*models.Student, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

// Mock BatchRepository
type mockBatchRepository struct {
	repository.BatchRepository
	mockFindByID func(ctx context.Context, id uint) (*models.Batch, error)
}

func (m *mockBatchRepository) FindByID(ctx context.Context, id uint) (*models.Batch, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

// Redefine admission repo mock here to add CreateWithSchedule support
type mockAdmissionRepoWithCreate struct {
	repository.AdmissionRepository
	mockFindByID           func(ctx context.Context, id uint) (*models.Admission, error)
	mockCreateWithSchedule func(ctx context.Context, admission *models.Admission, installments []models.Installment) error
	mockUpdateStatus       func(ctx context.Context, id uint, status string) error
}

func (m *mockAdmissionRepoWithCreate) FindByID(ctx context.Context, id uint) (*models.Admission, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAdmissionRepoWithCreate) CreateWithSchedule(ctx context.Context, admission *models.Admission, installments []models.Installment) error {
	if m.mockCreateWithSchedule != nil {
		return m.mockCreateWithSchedule(ctx, admission, installments)
	}
	return nil
}

func (m *mockAdmissionRepoWithCreate) UpdateStatus(ctx context.Context, id uint, status string) error {
	if m.mockUpdateStatus != nil {
		return m.mockUpdateStatus(ctx, id, status)
	}
	return nil
}

func admissionTestFixtures() (*mockStudentRepository, *mockBatchRepository, *mockFeeStructureRepository) {
	studentRepo := &mockStudentRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Student, error) {
			return &models.Student{ID: id, Name: "Ravi Kumar"}, nil
		},
	}
	batchRepo := &mockBatchRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Batch, error) {
			return &models.Batch{ID: id, CourseID: 2, Name: "Morning", Active: true}, nil
		},
	}
	feeRepo := &mockFeeStructureRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.FeeStructure, error) {
			return &models.FeeStructure{
				ID:                id,
				CourseID:          2,
				TotalFee:          12000,
				RegistrationFee:   500,
				ExamFee:           300,
				FeeType:           models.FeeTypeInstallment,
				InstallmentCount:  intPtr(6),
				InstallmentAmount: floatPtr(2000),
			}, nil
		},
	}
	return studentRepo, batchRepo, feeRepo
}

func newTestAdmissionService(repo repository.AdmissionRepository, studentRepo repository.StudentRepository, batchRepo repository.BatchRepository, feeRepo repository.FeeStructureRepository) *AdmissionService {
	worker := jobs.NewWorker(0)
	return NewAdmissionService(repo, studentRepo, batchRepo, feeRepo, nil, worker)
}

func TestCreateAdmission_FreezesFeesAndBuildsSchedule(t *testing.T) {
	studentRepo, batchRepo, feeRepo := admissionTestFixtures()

	var createdInstallments []models.Installment
	repo := &mockAdmissionRepoWithCreate{
		mockCreateWithSchedule: func(ctx context.Context, admission *models.Admission, installments []models.Installment) error {
			admission.ID = 1
			admission.AdmissionNumber = "ADM20250001"
			createdInstallments = installments
			return nil
		},
	}
	svc := newTestAdmissionService(repo, studentRepo, batchRepo, feeRepo)

	admission, err := svc.Create(context.Background(), CreateAdmissionCommand{
		StudentID:      7,
		BatchID:        3,
		FeeStructureID: 4,
		AdmissionDate:  day(2025, time.January, 1),
	}, 1)

	assert.NoError(t, err)
	assert.Equal(t, models.AdmissionStatusActive, admission.Status)
	assert.NotEmpty(t, admission.GUID)

	// Fee fields copied from the structure, not referenced
	assert.Equal(t, 12000.0, admission.TotalFee)
	assert.Equal(t, 500.0, admission.RegistrationFee)
	assert.Equal(t, 300.0, admission.ExamFee)
	assert.Equal(t, uint(2), admission.CourseID)

	assert.Len(t, createdInstallments, 6)
	assert.Equal(t, day(2025, time.February, 1), createdInstallments[0].DueDate)
	assert.Equal(t, day(2025, time.July, 1), createdInstallments[5].DueDate)
}

func TestCreateAdmission_LumpSumHasNoInstallments(t *testing.T) {
	studentRepo, batchRepo, _ := admissionTestFixtures()
	feeRepo := &mockFeeStructureRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.FeeStructure, error) {
			return &models.FeeStructure{ID: id, CourseID: 2, TotalFee: 15000, FeeType: models.FeeTypeLumpSum}, nil
		},
	}

	var createdInstallments []models.Installment
	repo := &mockAdmissionRepoWithCreate{
		mockCreateWithSchedule: func(ctx context.Context, admission *models.Admission, installments []models.Installment) error {
			createdInstallments = installments
			return nil
		},
	}
	svc := newTestAdmissionService(repo, studentRepo, batchRepo, feeRepo)

	_, err := svc.Create(context.Background(), CreateAdmissionCommand{StudentID: 7, BatchID: 3, FeeStructureID: 4}, 1)
	assert.NoError(t, err)
	assert.Empty(t, createdInstallments)
}

func TestCreateAdmission_InactiveBatch(t *testing.T) {
	studentRepo, _, feeRepo := admissionTestFixtures()
	batchRepo := &mockBatchRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Batch, error) {
			return &models.Batch{ID: id, CourseID: 2, Active: false}, nil
		},
	}
	svc := newTestAdmissionService(&mockAdmissionRepoWithCreate{}, studentRepo, batchRepo, feeRepo)

	_, err := svc.Create(context.Background(), CreateAdmissionCommand{StudentID: 7, BatchID: 3, FeeStructureID: 4}, 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCreateAdmission_FeeStructureCourseMismatch(t *testing.T) {
	studentRepo, batchRepo, _ := admissionTestFixtures()
	feeRepo := &mockFeeStructureRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.FeeStructure, error) {
			return &models.FeeStructure{ID: id, CourseID: 9, TotalFee: 12000, FeeType: models.FeeTypeLumpSum}, nil
		},
	}
	svc := newTestAdmissionService(&mockAdmissionRepoWithCreate{}, studentRepo, batchRepo, feeRepo)

	_, err := svc.Create(context.Background(), CreateAdmissionCommand{StudentID: 7, BatchID: 3, FeeStructureID: 4}, 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCreateAdmission_StudentNotFound(t *testing.T) {
	_, batchRepo, feeRepo := admissionTestFixtures()
	svc := newTestAdmissionService(&mockAdmissionRepoWithCreate{}, &mockStudentRepository{}, batchRepo, feeRepo)

	_, err := svc.Create(context.Background(), CreateAdmissionCommand{StudentID: 99, BatchID: 3, FeeStructureID: 4}, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCompleteAdmission(t *testing.T) {
	var updatedStatus string
	repo := &mockAdmissionRepoWithCreate{
		mockFindByID: func(ctx context.Context, id uint) (*models.Admission, error) {
			return &models.Admission{ID: id, AdmissionNumber: "ADM20250001", Status: models.AdmissionStatusActive}, nil
		},
		mockUpdateStatus: func(ctx context.Context, id uint, status string) error {
			updatedStatus = status
			return nil
		},
	}
	studentRepo, batchRepo, feeRepo := admissionTestFixtures()
	svc := newTestAdmissionService(repo, studentRepo, batchRepo, feeRepo)

	admission, err := svc.Complete(context.Background(), 1, 1)
	assert.NoError(t, err)
	assert.Equal(t, models.AdmissionStatusCompleted, admission.Status)
	assert.Equal(t, models.AdmissionStatusCompleted, updatedStatus)
}

func TestDropAdmission(t *testing.T) {
	repo := &mockAdmissionRepoWithCreate{
		mockFindByID: func(ctx context.Context, id uint) (*models.Admission, error) {
			return &models.Admission{ID: id, AdmissionNumber: "ADM20250001", Status: models.AdmissionStatusActive}, nil
		},
	}
	studentRepo, batchRepo, feeRepo := admissionTestFixtures()
	svc := newTestAdmissionService(repo, studentRepo, batchRepo, feeRepo)

	admission, err := svc.Drop(context.Background(), 1, 1)
	assert.NoError(t, err)
	assert.Equal(t, models.AdmissionStatusDropped, admission.Status)
}

func TestAdmissionTransitions_TerminalStatesRejected(t *testing.T) {
	for _, status := range []string{models.AdmissionStatusCompleted, models.AdmissionStatusDropped} {
		repo := &mockAdmissionRepoWithCreate{
			mockFindByID: func(ctx context.Context, id uint) (*models.Admission, error) {
				return &models.Admission{ID: id, Status: status}, nil
			},
		}
		studentRepo, batchRepo, feeRepo := admissionTestFixtures()
		svc := newTestAdmissionService(repo, studentRepo, batchRepo, feeRepo)

		_, err := svc.Complete(context.Background(), 1, 1)
		assert.ErrorIs(t, err, ErrInvalidState, "complete from %s", status)

		_, err = svc.Drop(context.Background(), 1, 1)
		assert.ErrorIs(t, err, ErrInvalidState, "drop from %s", status)
	}
}
