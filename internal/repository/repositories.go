package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	User         UserRepository
	Student      StudentRepository
	Course       CourseRepository
	Batch        BatchRepository
	FeeStructure FeeStructureRepository
	LateFeeRule  LateFeeRuleRepository
	Admission    AdmissionRepository
	Installment  InstallmentRepository
	Payment      PaymentRepository
	RefreshToken RefreshTokenRepository
	Dashboard    DashboardRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Student:      NewStudentRepository(db),
		Course:       NewCourseRepository(db),
		Batch:        NewBatchRepository(db),
		FeeStructure: NewFeeStructureRepository(db),
		LateFeeRule:  NewLateFeeRuleRepository(db),
		Admission:    NewAdmissionRepository(db),
		Installment:  NewInstallmentRepository(db),
		Payment:      NewPaymentRepository(db),
		RefreshToken: NewRefreshTokenRepository(db),
		Dashboard:    NewDashboardRepository(db),
	}
}

// ListQuery represents common query parameters
type ListQuery struct {
	Page    int
	PerPage int
	Search  string
	SortBy  string
	SortDir string
	Filters map[string]string
}

// NewListQuery creates a ListQuery with defaults
func NewListQuery() *ListQuery {
	return &ListQuery{
		Page:    1,
		PerPage: 20,
		Filters: make(map[string]string),
	}
}

// Offset returns the row offset for the current page
func (q *ListQuery) Offset() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.PerPage
}

// isUniqueViolation reports whether err is a postgres duplicate-key error,
// optionally restricted to a named constraint.
func isUniqueViolation(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != "23505" {
			return false
		}
		return constraintName == "" || pgErr.ConstraintName == constraintName
	}
	return false
}
