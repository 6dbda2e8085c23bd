package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/sbci/institute-api/internal/jobs"
	"github.com/sbci/institute-api/internal/models"
	"github.com/sbci/institute-api/internal/repository"
	"github.com/sbci/institute-api/internal/storage"
	"github.com/sbci/institute-api/pkg/logger"
	"gorm.io/gorm"
)

type StudentService struct {
	repo     repository.StudentRepository
	auditSvc *AuditService
	storage  *storage.LocalStorage
	worker   *jobs.Worker
}

func NewStudentService(
	repo repository.StudentRepository,
	auditSvc *AuditService,
	storage *storage.LocalStorage,
	worker *jobs.Worker,
) *StudentService {
	return &StudentService{
		repo:     repo,
		auditSvc: auditSvc,
		storage:  storage,
		worker:   worker,
	}
}

func (s *StudentService) FindByID(ctx context.Context, id uint) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return student, nil
}

// FindByIDWithAdmissions loads a student with full admission, schedule and
// payment history for the profile page.
func (s *StudentService) FindByIDWithAdmissions(ctx context.Context, id uint) (*models.Student, error) {
	student, err := s.repo.FindByIDWithAdmissions(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return student, nil
}

func (s *StudentService) List(ctx context.Context, query *repository.ListQuery) ([]models.Student, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *StudentService) Create(ctx context.Context, student *models.Student, actorID uint) error {
	if student.Name == "" || student.FatherName == "" || student.Mobile == "" {
		return fmt.Errorf("%w: name, father name and mobile are required", ErrInvalidArgument)
	}

	if err := s.repo.Create(ctx, student); err != nil {
		return err
	}

	s.logAudit(actorID, "CREATE", student.ID, fmt.Sprintf("Student %s registered", student.Name))
	return nil
}

func (s *StudentService) Update(ctx context.Context, student *models.Student, actorID uint) error {
	if err := s.repo.Update(ctx, student); err != nil {
		return err
	}
	s.logAudit(actorID, "UPDATE", student.ID, fmt.Sprintf("Student %s updated", student.Name))
	return nil
}

// Delete removes the student and, through the cascade, every admission and
// payment. Destructive; admin only at the handler layer.
func (s *StudentService) Delete(ctx context.Context, id uint, actorID uint) error {
	student, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if student.PhotoPath != nil && *student.PhotoPath != "" {
		if err := s.storage.Delete(*student.PhotoPath); err != nil {
			logger.Warn("failed to remove student photo", "path", *student.PhotoPath, "error", err)
		}
	}

	logger.Warn("student deleted with full payment history",
		"student_id", id, "name", student.Name, "actor_id", actorID)
	s.logAudit(actorID, "DELETE", id, fmt.Sprintf("Student %s deleted with payment history", student.Name))

	return nil
}

// UploadPhoto stores the student's photo and replaces any previous one
func (s *StudentService) UploadPhoto(ctx context.Context, id uint, file multipart.File, header *multipart.FileHeader) error {
	student, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if header.Size > storage.MaxPhotoSize {
		return fmt.Errorf("%w: photo exceeds the %d byte limit", ErrInvalidArgument, storage.MaxPhotoSize)
	}
	contentType := header.Header.Get("Content-Type")
	if !storage.IsValidPhotoType(contentType) {
		return fmt.Errorf("%w: unsupported photo type %q", ErrInvalidArgument, contentType)
	}

	path, err := s.storage.Upload(file, header, storage.DirPhotos)
	if err != nil {
		return err
	}

	oldPath := student.PhotoPath
	student.PhotoPath = &path
	if err := s.repo.Update(ctx, student); err != nil {
		s.storage.Delete(path)
		return err
	}

	if oldPath != nil && *oldPath != "" {
		if err := s.storage.Delete(*oldPath); err != nil {
			logger.Warn("failed to remove previous photo", "path", *oldPath, "error", err)
		}
	}
	return nil
}

// PhotoPath returns the absolute path of the student's photo for serving
func (s *StudentService) PhotoPath(ctx context.Context, id uint) (string, error) {
	student, err := s.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	if student.PhotoPath == nil || *student.PhotoPath == "" {
		return "", ErrNotFound
	}
	return s.storage.GetFullPath(*student.PhotoPath), nil
}

func (s *StudentService) logAudit(actorID uint, action string, entityID uint, details string) {
	s.worker.EnqueueAsync(func(jobCtx context.Context) error {
		return s.auditSvc.Log(jobCtx, actorID, action, "Student", entityID, details, "", "")
	})
}
