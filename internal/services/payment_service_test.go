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

// Mock PaymentRepository (using embedding to avoid implementing all methods)
type mockPaymentRepository struct {
	repository.PaymentRepository
	mockRecord func(ctx context.Context, payment *models.Payment, issuedAt time.Time) (*models.Receipt, error)
}

func (m *mockPaymentRepository) Record(ctx context.Context, payment *models.Payment, issuedAt time.Time) (*models.Receipt, error) {
	if m.mockRecord != nil {
		return m.mockRecord(ctx, payment, issuedAt)
	}
	return &models.Receipt{PaymentID: payment.ID, ReceiptNumber: "RCP-20250301-0001"}, nil
}

// Mock AdmissionRepository
type mockAdmissionRepository struct {
	repository.AdmissionRepository
	mockFindByID     func(ctx context.Context, id uint) (*models.Admission, error)
	mockUpdateStatus func(ctx context.Context, id uint, status string) error
}

func (m *mockAdmissionRepository) FindByID(ctx context.Context, id uint) (*models.Admission, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAdmissionRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	if m.mockUpdateStatus != nil {
		return m.mockUpdateStatus(ctx, id, status)
	}
	return nil
}

// Mock InstallmentRepository
type mockInstallmentRepository struct {
	repository.InstallmentRepository
	mockFindByID func(ctx context.Context, id uint) (*models.Installment, error)
}

func (m *mockInstallmentRepository) FindByID(ctx context.Context, id uint) (*models.Installment, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

// Mock FeeStructureRepository
type mockFeeStructureRepository struct {
	repository.FeeStructureRepository
	mockFindByID func(ctx context.Context, id uint) (*models.FeeStructure, error)
}

func (m *mockFeeStructureRepository) FindByID(ctx context.Context, id uint) (*models.FeeStructure, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func activeAdmission() *models.Admission {
	return &models.Admission{
		ID:              10,
		AdmissionNumber: "ADM20250001",
		FeeStructureID:  4,
		TotalFee:        12000,
		Status:          models.AdmissionStatusActive,
	}
}

func newTestPaymentService(payRepo *mockPaymentRepository, admRepo *mockAdmissionRepository, instRepo *mockInstallmentRepository, feeRepo *mockFeeStructureRepository) *PaymentService {
	worker := jobs.NewWorker(0) // 0 workers, EnqueueAsync spawns its own goroutines
	return NewPaymentService(payRepo, admRepo, instRepo, feeRepo, nil, worker)
}

func TestRecordPayment_Validation(t *testing.T) {
	admRepo := &mockAdmissionRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Admission, error) {
			return activeAdmission(), nil
		},
	}
	svc := newTestPaymentService(&mockPaymentRepository{}, admRepo, &mockInstallmentRepository{}, &mockFeeStructureRepository{})
	txn := "TXN-1"

	tests := []struct {
		name string
		cmd  RecordPaymentCommand
	}{
		{"zero amount", RecordPaymentCommand{AdmissionID: 10, Amount: 0, PaymentMode: models.PaymentModeCash, CollectedByID: 1}},
		{"negative amount", RecordPaymentCommand{AdmissionID: 10, Amount: -100, PaymentMode: models.PaymentModeCash, CollectedByID: 1}},
		{"negative late fee", RecordPaymentCommand{AdmissionID: 10, Amount: 100, LateFee: -1, PaymentMode: models.PaymentModeCash, CollectedByID: 1}},
		{"unknown mode", RecordPaymentCommand{AdmissionID: 10, Amount: 100, PaymentMode: "BARTER", CollectedByID: 1}},
		{"upi without transaction id", RecordPaymentCommand{AdmissionID: 10, Amount: 100, PaymentMode: models.PaymentModeUPI, CollectedByID: 1}},
		{"missing collector", RecordPaymentCommand{AdmissionID: 10, Amount: 100, PaymentMode: models.PaymentModeCash}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Record(context.Background(), tt.cmd)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}

	// Cash needs no transaction id, other modes pass with one
	_, err := svc.Record(context.Background(), RecordPaymentCommand{
		AdmissionID: 10, Amount: 100, PaymentMode: models.PaymentModeUPI, TransactionID: &txn, CollectedByID: 1,
	})
	assert.NoError(t, err)
}

func TestRecordPayment_AdmissionNotFound(t *testing.T) {
	svc := newTestPaymentService(&mockPaymentRepository{}, &mockAdmissionRepository{}, &mockInstallmentRepository{}, &mockFeeStructureRepository{})

	_, err := svc.Record(context.Background(), RecordPaymentCommand{
		AdmissionID: 99, Amount: 2000, PaymentMode: models.PaymentModeCash, CollectedByID: 1,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordPayment_InstallmentFromOtherAdmission(t *testing.T) {
	admRepo := &mockAdmissionRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Admission, error) {
			return activeAdmission(), nil
		},
	}
	instRepo := &mockInstallmentRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Installment, error) {
			return &models.Installment{ID: id, AdmissionID: 77, Amount: 2000}, nil
		},
	}
	svc := newTestPaymentService(&mockPaymentRepository{}, admRepo, instRepo, &mockFeeStructureRepository{})

	instID := uint(5)
	_, err := svc.Record(context.Background(), RecordPaymentCommand{
		AdmissionID: 10, InstallmentID: &instID, Amount: 2000,
		PaymentMode: models.PaymentModeCash, CollectedByID: 1,
	})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestRecordPayment_Success(t *testing.T) {
	admRepo := &mockAdmissionRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Admission, error) {
			return activeAdmission(), nil
		},
	}
	instRepo := &mockInstallmentRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Installment, error) {
			return &models.Installment{ID: id, AdmissionID: 10, Amount: 2000, Status: models.InstallmentNotPaid}, nil
		},
	}

	var recorded *models.Payment
	payRepo := &mockPaymentRepository{
		mockRecord: func(ctx context.Context, payment *models.Payment, issuedAt time.Time) (*models.Receipt, error) {
			recorded = payment
			payment.ID = 1
			return &models.Receipt{PaymentID: 1, ReceiptNumber: "RCP-20250301-0001"}, nil
		},
	}
	svc := newTestPaymentService(payRepo, admRepo, instRepo, &mockFeeStructureRepository{})

	instID := uint(5)
	payment, err := svc.Record(context.Background(), RecordPaymentCommand{
		AdmissionID:   10,
		InstallmentID: &instID,
		Amount:        2000,
		LateFee:       50,
		PaymentMode:   models.PaymentModeCash,
		PaymentDate:   day(2025, time.March, 16),
		CollectedByID: 3,
	})

	assert.NoError(t, err)
	assert.NotNil(t, recorded)
	assert.Equal(t, uint(10), payment.AdmissionID)
	assert.Equal(t, 2000.0, payment.Amount)
	assert.Equal(t, 50.0, payment.LateFee)
	assert.Equal(t, 2050.0, payment.TotalAmount)
	assert.Equal(t, uint(3), payment.CollectedByID)
	assert.Equal(t, day(2025, time.March, 16), payment.PaymentDate)
}

func TestRecordPayment_DefaultsPaymentDate(t *testing.T) {
	admRepo := &mockAdmissionRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Admission, error) {
			return activeAdmission(), nil
		},
	}
	svc := newTestPaymentService(&mockPaymentRepository{}, admRepo, &mockInstallmentRepository{}, &mockFeeStructureRepository{})

	payment, err := svc.Record(context.Background(), RecordPaymentCommand{
		AdmissionID: 10, Amount: 500, PaymentMode: models.PaymentModeCash, CollectedByID: 1,
	})
	assert.NoError(t, err)
	assert.WithinDuration(t, time.Now(), payment.PaymentDate, 5*time.Second)
}

func TestRecordPayment_BackdatedPaymentKeepsReceiptOnIssuanceDay(t *testing.T) {
	admRepo := &mockAdmissionRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Admission, error) {
			return activeAdmission(), nil
		},
	}
	var issued time.Time
	payRepo := &mockPaymentRepository{
		mockRecord: func(ctx context.Context, payment *models.Payment, issuedAt time.Time) (*models.Receipt, error) {
			issued = issuedAt
			return &models.Receipt{PaymentID: payment.ID, ReceiptNumber: models.ReceiptNumberFor(issuedAt, 1)}, nil
		},
	}
	svc := newTestPaymentService(payRepo, admRepo, &mockInstallmentRepository{}, &mockFeeStructureRepository{})

	backdated := day(2025, time.March, 1)
	payment, err := svc.Record(context.Background(), RecordPaymentCommand{
		AdmissionID: 10, Amount: 500, PaymentMode: models.PaymentModeCash,
		PaymentDate: backdated, CollectedByID: 1,
	})

	assert.NoError(t, err)
	assert.Equal(t, backdated, payment.PaymentDate)
	// The receipt book stays on today's page even for a back-dated payment.
	assert.WithinDuration(t, time.Now(), issued, 5*time.Second)
}

func TestRecordPayment_ReceiptConflict(t *testing.T) {
	admRepo := &mockAdmissionRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Admission, error) {
			return activeAdmission(), nil
		},
	}
	payRepo := &mockPaymentRepository{
		mockRecord: func(ctx context.Context, payment *models.Payment, issuedAt time.Time) (*models.Receipt, error) {
			return nil, repository.ErrReceiptExists
		},
	}
	svc := newTestPaymentService(payRepo, admRepo, &mockInstallmentRepository{}, &mockFeeStructureRepository{})

	_, err := svc.Record(context.Background(), RecordPaymentCommand{
		AdmissionID: 10, Amount: 500, PaymentMode: models.PaymentModeCash, CollectedByID: 1,
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestQuoteLateFee(t *testing.T) {
	instRepo := &mockInstallmentRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Installment, error) {
			return &models.Installment{ID: id, AdmissionID: 10, Amount: 2000, DueDate: day(2025, time.March, 15)}, nil
		},
	}
	admRepo := &mockAdmissionRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Admission, error) {
			return activeAdmission(), nil
		},
	}
	feeRepo := &mockFeeStructureRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.FeeStructure, error) {
			return &models.FeeStructure{
				ID:          4,
				LateFeeRule: &models.LateFeeRule{Type: models.LateFeePerDay, Amount: 50},
			}, nil
		},
	}
	svc := newTestPaymentService(&mockPaymentRepository{}, admRepo, instRepo, feeRepo)

	fee, err := svc.QuoteLateFee(context.Background(), 5, day(2025, time.March, 20))
	assert.NoError(t, err)
	assert.Equal(t, 250.0, fee)

	fee, err = svc.QuoteLateFee(context.Background(), 5, day(2025, time.March, 15))
	assert.NoError(t, err)
	assert.Equal(t, 0.0, fee)
}

func TestQuoteLateFee_InstallmentNotFound(t *testing.T) {
	svc := newTestPaymentService(&mockPaymentRepository{}, &mockAdmissionRepository{}, &mockInstallmentRepository{}, &mockFeeStructureRepository{})

	_, err := svc.QuoteLateFee(context.Background(), 99, time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}
