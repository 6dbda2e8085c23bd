package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sbci/institute-api/internal/jobs"
	"github.com/sbci/institute-api/internal/models"
	"github.com/sbci/institute-api/internal/repository"
	"github.com/sbci/institute-api/internal/statemachine"
	"github.com/sbci/institute-api/pkg/logger"
	"gorm.io/gorm"
)

// CreateAdmissionCommand is the typed input for admission creation
type CreateAdmissionCommand struct {
	StudentID      uint
	BatchID        uint
	FeeStructureID uint
	AdmissionDate  time.Time
}

type AdmissionService struct {
	repo        repository.AdmissionRepository
	studentRepo repository.StudentRepository
	batchRepo   repository.BatchRepository
	feeRepo     repository.FeeStructureRepository
	scheduleSvc *FeeScheduleService
	auditSvc    *AuditService
	worker      *jobs.Worker
}

func NewAdmissionService(
	repo repository.AdmissionRepository,
	studentRepo repository.StudentRepository,
	batchRepo repository.BatchRepository,
	feeRepo repository.FeeStructureRepository,
	auditSvc *AuditService,
	worker *jobs.Worker,
) *AdmissionService {
	return &AdmissionService{
		repo:        repo,
		studentRepo: studentRepo,
		batchRepo:   batchRepo,
		feeRepo:     feeRepo,
		scheduleSvc: NewFeeScheduleService(),
		auditSvc:    auditSvc,
		worker:      worker,
	}
}

// FindByID gets an admission by ID
func (s *AdmissionService) FindByID(ctx context.Context, id uint) (*models.Admission, error) {
	admission, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return admission, nil
}

// FindByIDWithDetails gets an admission with schedule, payments and receipts
func (s *AdmissionService) FindByIDWithDetails(ctx context.Context, id uint) (*models.Admission, error) {
	admission, err := s.repo.FindByIDWithDetails(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return admission, nil
}

// FindByStudent lists a student's admissions, newest first
func (s *AdmissionService) FindByStudent(ctx context.Context, studentID uint) ([]models.Admission, error) {
	return s.repo.FindByStudent(ctx, studentID)
}

func (s *AdmissionService) List(ctx context.Context, query *repository.ListQuery) ([]models.Admission, int64, error) {
	return s.repo.List(ctx, query)
}

// Create enrolls a student: the fee fields are copied from the structure so
// later structure edits never touch this admission, the installment schedule
// is generated from the admission date, and admission plus schedule are
// persisted in one transaction.
func (s *AdmissionService) Create(ctx context.Context, cmd CreateAdmissionCommand, actorID uint) (*models.Admission, error) {
	student, err := s.studentRepo.FindByID(ctx, cmd.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: student %d", ErrNotFound, cmd.StudentID)
		}
		return nil, err
	}

	batch, err := s.batchRepo.FindByID(ctx, cmd.BatchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: batch %d", ErrNotFound, cmd.BatchID)
		}
		return nil, err
	}
	if !batch.Active {
		return nil, fmt.Errorf("%w: batch %d is not active", ErrInvalidArgument, batch.ID)
	}

	fs, err := s.feeRepo.FindByID(ctx, cmd.FeeStructureID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: fee structure %d", ErrNotFound, cmd.FeeStructureID)
		}
		return nil, err
	}
	if fs.CourseID != batch.CourseID {
		return nil, fmt.Errorf("%w: fee structure %d belongs to a different course than batch %d",
			ErrInvalidArgument, fs.ID, batch.ID)
	}

	admissionDate := cmd.AdmissionDate
	if admissionDate.IsZero() {
		admissionDate = time.Now()
	}

	admission := &models.Admission{
		GUID:            uuid.New().String(),
		StudentID:       student.ID,
		CourseID:        batch.CourseID,
		BatchID:         batch.ID,
		FeeStructureID:  fs.ID,
		AdmissionDate:   admissionDate,
		TotalFee:        fs.TotalFee,
		RegistrationFee: fs.RegistrationFee,
		ExamFee:         fs.ExamFee,
		Status:          models.AdmissionStatusActive,
	}

	installments, err := s.scheduleSvc.BuildSchedule(fs, admissionDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	if err := s.repo.CreateWithSchedule(ctx, admission, installments); err != nil {
		return nil, err
	}

	s.logAudit(ctx, actorID, "CREATE", admission.ID,
		fmt.Sprintf("Admission %s created for student %s, total fee %.2f", admission.AdmissionNumber, student.Name, admission.TotalFee))

	return admission, nil
}

// Complete marks an active admission completed. Triggered by staff, never by
// the balance reaching zero.
func (s *AdmissionService) Complete(ctx context.Context, id uint, actorID uint) (*models.Admission, error) {
	return s.transition(ctx, id, actorID, "COMPLETE", func(fsm *statemachine.AdmissionFSM) error {
		return fsm.Complete(ctx)
	})
}

// Drop marks an active admission dropped. Outstanding balance does not block
// the transition.
func (s *AdmissionService) Drop(ctx context.Context, id uint, actorID uint) (*models.Admission, error) {
	return s.transition(ctx, id, actorID, "DROP", func(fsm *statemachine.AdmissionFSM) error {
		return fsm.Drop(ctx)
	})
}

func (s *AdmissionService) transition(ctx context.Context, id uint, actorID uint, action string, event func(*statemachine.AdmissionFSM) error) (*models.Admission, error) {
	admission, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fsm := statemachine.NewAdmissionFSM(admission)
	if err := event(fsm); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	if err := s.repo.UpdateStatus(ctx, admission.ID, admission.Status); err != nil {
		return nil, err
	}

	s.logAudit(ctx, actorID, action, admission.ID,
		fmt.Sprintf("Admission %s moved to %s", admission.AdmissionNumber, admission.Status))

	return admission, nil
}

// Delete removes an admission and, through the cascade, its installments,
// payments and receipts. Destructive; admin only at the handler layer.
func (s *AdmissionService) Delete(ctx context.Context, id uint, actorID uint) error {
	admission, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, admission.ID); err != nil {
		return err
	}

	logger.Warn("admission deleted with its payment history",
		"admission_number", admission.AdmissionNumber, "actor_id", actorID)
	s.logAudit(ctx, actorID, "DELETE", admission.ID,
		fmt.Sprintf("Admission %s deleted, payment history removed", admission.AdmissionNumber))

	return nil
}

func (s *AdmissionService) logAudit(ctx context.Context, actorID uint, action string, entityID uint, details string) {
	s.worker.EnqueueAsync(func(jobCtx context.Context) error {
		return s.auditSvc.Log(jobCtx, actorID, action, "Admission", entityID, details, "", "")
	})
}
