package handlers

import (
	"github.com/sbci/institute-api/internal/services"
	"github.com/sbci/institute-api/internal/storage"
)

// Handlers holds all handler instances
type Handlers struct {
	Health       *HealthHandler
	Auth         *AuthHandler
	User         *UserHandler
	Student      *StudentHandler
	Course       *CourseHandler
	Batch        *BatchHandler
	FeeStructure *FeeStructureHandler
	LateFeeRule  *LateFeeRuleHandler
	Admission    *AdmissionHandler
	Payment      *PaymentHandler
	Report       *ReportHandler
	Audit        *AuditHandler
	Job          *JobHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services, storage *storage.LocalStorage) *Handlers {
	return &Handlers{
		Health:       NewHealthHandler(),
		Auth:         NewAuthHandler(svcs.Auth),
		User:         NewUserHandler(svcs.User),
		Student:      NewStudentHandler(svcs.Student, svcs.Admission, storage),
		Course:       NewCourseHandler(svcs.Catalog),
		Batch:        NewBatchHandler(svcs.Catalog),
		FeeStructure: NewFeeStructureHandler(svcs.Catalog),
		LateFeeRule:  NewLateFeeRuleHandler(svcs.Catalog),
		Admission:    NewAdmissionHandler(svcs.Admission, svcs.Report),
		Payment:      NewPaymentHandler(svcs.Payment, svcs.Report),
		Report:       NewReportHandler(svcs.Report, svcs.Export),
		Audit:        NewAuditHandler(svcs.Audit),
		Job:          NewJobHandler(svcs.Job),
	}
}
