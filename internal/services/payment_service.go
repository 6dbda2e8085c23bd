package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sbci/institute-api/internal/jobs"
	"github.com/sbci/institute-api/internal/models"
	"github.com/sbci/institute-api/internal/repository"
	"gorm.io/gorm"
)

// RecordPaymentCommand is the typed input for recording a payment. The
// collector is mandatory; there is no fallback user.
type RecordPaymentCommand struct {
	AdmissionID   uint
	InstallmentID *uint
	Amount        float64
	LateFee       float64
	PaymentMode   string
	TransactionID *string
	PaymentDate   time.Time
	Remarks       *string
	CollectedByID uint
}

type PaymentService struct {
	repo            repository.PaymentRepository
	admissionRepo   repository.AdmissionRepository
	installmentRepo repository.InstallmentRepository
	feeRepo         repository.FeeStructureRepository
	lateFeeSvc      *LateFeeService
	auditSvc        *AuditService
	worker          *jobs.Worker
}

func NewPaymentService(
	repo repository.PaymentRepository,
	admissionRepo repository.AdmissionRepository,
	installmentRepo repository.InstallmentRepository,
	feeRepo repository.FeeStructureRepository,
	auditSvc *AuditService,
	worker *jobs.Worker,
) *PaymentService {
	return &PaymentService{
		repo:            repo,
		admissionRepo:   admissionRepo,
		installmentRepo: installmentRepo,
		feeRepo:         feeRepo,
		lateFeeSvc:      NewLateFeeService(),
		auditSvc:        auditSvc,
		worker:          worker,
	}
}

func (s *PaymentService) FindByID(ctx context.Context, id uint) (*models.Payment, error) {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return payment, nil
}

func (s *PaymentService) FindByAdmission(ctx context.Context, admissionID uint) ([]models.Payment, error) {
	return s.repo.FindByAdmission(ctx, admissionID)
}

func (s *PaymentService) List(ctx context.Context, query *repository.ListQuery) ([]models.Payment, int64, error) {
	return s.repo.List(ctx, query)
}

// Record validates the command and writes the payment, the installment
// credit and the receipt in one transaction. The payment row is immutable
// afterwards; corrections are new payments.
func (s *PaymentService) Record(ctx context.Context, cmd RecordPaymentCommand) (*models.Payment, error) {
	if cmd.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidArgument)
	}
	if cmd.LateFee < 0 {
		return nil, fmt.Errorf("%w: late fee cannot be negative", ErrInvalidArgument)
	}
	if !models.ValidPaymentMode(cmd.PaymentMode) {
		return nil, fmt.Errorf("%w: unknown payment mode %q", ErrInvalidArgument, cmd.PaymentMode)
	}
	if models.RequiresTransactionID(cmd.PaymentMode) && (cmd.TransactionID == nil || *cmd.TransactionID == "") {
		return nil, fmt.Errorf("%w: transaction id is required for %s payments", ErrInvalidArgument, cmd.PaymentMode)
	}
	if cmd.CollectedByID == 0 {
		return nil, fmt.Errorf("%w: collector is required", ErrInvalidArgument)
	}

	admission, err := s.admissionRepo.FindByID(ctx, cmd.AdmissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: admission %d", ErrNotFound, cmd.AdmissionID)
		}
		return nil, err
	}

	if cmd.InstallmentID != nil {
		installment, err := s.installmentRepo.FindByID(ctx, *cmd.InstallmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: installment %d", ErrNotFound, *cmd.InstallmentID)
			}
			return nil, err
		}
		if installment.AdmissionID != admission.ID {
			return nil, fmt.Errorf("%w: installment %d does not belong to admission %d",
				ErrInvalidArgument, installment.ID, admission.ID)
		}
	}

	paymentDate := cmd.PaymentDate
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}

	payment := &models.Payment{
		AdmissionID:   admission.ID,
		InstallmentID: cmd.InstallmentID,
		Amount:        cmd.Amount,
		LateFee:       cmd.LateFee,
		TotalAmount:   cmd.Amount + cmd.LateFee,
		PaymentMode:   cmd.PaymentMode,
		TransactionID: cmd.TransactionID,
		PaymentDate:   paymentDate,
		Remarks:       cmd.Remarks,
		CollectedByID: cmd.CollectedByID,
	}

	// Receipts are stamped and sequenced by the day they are issued. A
	// back-dated payment date must not reopen a past day's receipt book.
	receipt, err := s.repo.Record(ctx, payment, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrInstallmentNotInAdmission) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		if errors.Is(err, repository.ErrReceiptExists) {
			return nil, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return nil, err
	}

	s.worker.EnqueueAsync(func(jobCtx context.Context) error {
		return s.auditSvc.Log(jobCtx, cmd.CollectedByID, "CREATE", "Payment", payment.ID,
			fmt.Sprintf("Payment of %.2f (late fee %.2f) recorded against admission %s, receipt %s",
				payment.Amount, payment.LateFee, admission.AdmissionNumber, receipt.ReceiptNumber), "", "")
	})

	return payment, nil
}

// QuoteLateFee computes the surcharge the caller should pass into Record for
// a given installment, as of the given day. Purely advisory; Record never
// recomputes it.
func (s *PaymentService) QuoteLateFee(ctx context.Context, installmentID uint, asOf time.Time) (float64, error) {
	installment, err := s.installmentRepo.FindByID(ctx, installmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: installment %d", ErrNotFound, installmentID)
		}
		return 0, err
	}

	admission, err := s.admissionRepo.FindByID(ctx, installment.AdmissionID)
	if err != nil {
		return 0, err
	}

	fs, err := s.feeRepo.FindByID(ctx, admission.FeeStructureID)
	if err != nil {
		return 0, err
	}

	return s.lateFeeSvc.Calculate(fs.LateFeeRule, installment.DueDate, asOf), nil
}
