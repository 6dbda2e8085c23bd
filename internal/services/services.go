package services

import (
	"github.com/sbci/institute-api/internal/config"
	"github.com/sbci/institute-api/internal/jobs"
	"github.com/sbci/institute-api/internal/repository"
	"github.com/sbci/institute-api/internal/storage"
	"gorm.io/gorm"
)

// Services holds all service instances
type Services struct {
	Auth      *AuthService
	User      *UserService
	Student   *StudentService
	Catalog   *CatalogService
	Admission *AdmissionService
	Payment   *PaymentService
	Report    *ReportService
	Export    *ExportService
	Audit     *AuditService
	Job       *JobService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, storage *storage.LocalStorage, cfg *config.Config, db *gorm.DB) *Services {
	auditSvc := NewAuditService(db)

	return &Services{
		Auth:      NewAuthService(repos.User, repos.RefreshToken, cfg),
		User:      NewUserService(repos.User, repos.RefreshToken, auditSvc),
		Student:   NewStudentService(repos.Student, auditSvc, storage, worker),
		Catalog:   NewCatalogService(repos.Course, repos.Batch, repos.FeeStructure, repos.LateFeeRule, auditSvc),
		Admission: NewAdmissionService(repos.Admission, repos.Student, repos.Batch, repos.FeeStructure, auditSvc, worker),
		Payment:   NewPaymentService(repos.Payment, repos.Admission, repos.Installment, repos.FeeStructure, auditSvc, worker),
		Report:    NewReportService(repos.Dashboard, repos.Payment, repos.Admission, cfg),
		Export:    NewExportService(repos.Student, repos.Payment),
		Audit:     auditSvc,
		Job:       NewJobService(worker),
	}
}
