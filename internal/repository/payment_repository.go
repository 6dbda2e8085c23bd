package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sbci/institute-api/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrInstallmentNotInAdmission is returned when a payment targets an
// installment belonging to a different admission.
var ErrInstallmentNotInAdmission = errors.New("installment does not belong to the admission")

// ErrReceiptExists is returned when a receipt is issued twice for a payment.
var ErrReceiptExists = errors.New("receipt already issued for this payment")

// PaymentRepository defines the interface for payment data access
type PaymentRepository interface {
	// Record persists the payment, credits the target installment and
	// issues the receipt in one transaction. The receipt is numbered and
	// sequenced by issuedAt, not by the payment date.
	Record(ctx context.Context, payment *models.Payment, issuedAt time.Time) (*models.Receipt, error)
	FindByID(ctx context.Context, id uint) (*models.Payment, error)
	FindByAdmission(ctx context.Context, admissionID uint) ([]models.Payment, error)
	List(ctx context.Context, q *ListQuery) ([]models.Payment, int64, error)
	FindBetween(ctx context.Context, from, to time.Time) ([]models.Payment, error)
	TotalCollectedBetween(ctx context.Context, from, to time.Time) (float64, error)
	CountBetween(ctx context.Context, from, to time.Time) (int64, error)
	DailyCollection(ctx context.Context, from, to time.Time) ([]models.CollectionPoint, error)
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// Record writes the payment row, then if an installment is targeted locks it
// with SELECT FOR UPDATE, credits the principal and recomputes its status,
// then draws the next per-day receipt sequence and creates the receipt. Any
// failure rolls the whole ledger entry back.
func (r *paymentRepository) Record(ctx context.Context, payment *models.Payment, issuedAt time.Time) (*models.Receipt, error) {
	var receipt *models.Receipt

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(payment).Error; err != nil {
			return err
		}

		if payment.InstallmentID != nil {
			var installment models.Installment
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&installment, *payment.InstallmentID).Error
			if err != nil {
				return err
			}
			if installment.AdmissionID != payment.AdmissionID {
				return ErrInstallmentNotInAdmission
			}

			installment.ApplyPayment(payment.Amount)
			err = tx.Model(&models.Installment{}).
				Where("id = ?", installment.ID).
				Updates(map[string]interface{}{
					"paid_amount": installment.PaidAmount,
					"status":      installment.Status,
					"updated_at":  time.Now(),
				}).Error
			if err != nil {
				return err
			}
			payment.Installment = &installment
		}

		seq, err := nextSequence(tx, models.ReceiptSequenceScope(issuedAt))
		if err != nil {
			return err
		}
		receipt = &models.Receipt{
			PaymentID:     payment.ID,
			ReceiptNumber: models.ReceiptNumberFor(issuedAt, seq),
		}
		if err := tx.Create(receipt).Error; err != nil {
			if isUniqueViolation(err, "") {
				return ErrReceiptExists
			}
			return err
		}
		payment.Receipt = receipt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

func (r *paymentRepository) FindByID(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Preload("Admission.Student").
		Preload("Admission.Course").
		Preload("Admission.Batch").
		Preload("Installment").
		Preload("CollectedBy").
		Preload("Receipt").
		First(&payment, id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) FindByAdmission(ctx context.Context, admissionID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("admission_id = ?", admissionID).
		Preload("Installment").
		Preload("CollectedBy").
		Preload("Receipt").
		Order("payment_date DESC, id DESC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) List(ctx context.Context, q *ListQuery) ([]models.Payment, int64, error) {
	var payments []models.Payment
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Payment{})

	if q.Search != "" {
		term := "%" + q.Search + "%"
		db = db.Joins("JOIN admissions ON admissions.id = payments.admission_id").
			Joins("JOIN students ON students.id = admissions.student_id").
			Joins("LEFT JOIN receipts ON receipts.payment_id = payments.id").
			Where("admissions.admission_number ILIKE ? OR students.name ILIKE ? OR receipts.receipt_number ILIKE ?",
				term, term, term)
	}
	if mode, ok := q.Filters["payment_mode"]; ok && mode != "" {
		db = db.Where("payments.payment_mode = ?", mode)
	}
	if from, ok := q.Filters["from"]; ok && from != "" {
		db = db.Where("payments.payment_date >= ?", from)
	}
	if to, ok := q.Filters["to"]; ok && to != "" {
		db = db.Where("payments.payment_date <= ?", to)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	db = db.
		Preload("Admission.Student").
		Preload("Admission.Course").
		Preload("Admission.Batch").
		Preload("Installment").
		Preload("CollectedBy").
		Preload("Receipt").
		Order("payments.payment_date DESC, payments.id DESC")
	if q.PerPage > 0 {
		db = db.Offset(q.Offset()).Limit(q.PerPage)
	}
	err := db.Find(&payments).Error
	return payments, total, err
}

// FindBetween lists payments collected in [from, to), newest first
func (r *paymentRepository) FindBetween(ctx context.Context, from, to time.Time) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("payment_date >= ? AND payment_date < ?", from, to).
		Preload("Admission.Student").
		Preload("Admission.Course").
		Preload("Installment").
		Preload("CollectedBy").
		Preload("Receipt").
		Order("payment_date DESC, id DESC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) TotalCollectedBetween(ctx context.Context, from, to time.Time) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("payment_date >= ? AND payment_date < ?", from, to).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *paymentRepository) CountBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("payment_date >= ? AND payment_date < ?", from, to).
		Count(&count).Error
	return count, err
}

func (r *paymentRepository) DailyCollection(ctx context.Context, from, to time.Time) ([]models.CollectionPoint, error) {
	var points []models.CollectionPoint
	err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Select("TO_CHAR(payment_date, 'YYYY-MM-DD') AS date, COALESCE(SUM(total_amount), 0) AS amount").
		Where("payment_date >= ? AND payment_date < ?", from, to).
		Group("TO_CHAR(payment_date, 'YYYY-MM-DD')").
		Order("date ASC").
		Scan(&points).Error
	return points, err
}
