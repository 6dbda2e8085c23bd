package models

import (
	"fmt"
	"time"
)

// Admission is the financial contract binding one student to one
// course/batch under a fee structure. The fee fields are copied from the
// fee structure at creation time and never change afterwards, so later
// edits to the structure do not affect existing admissions.
type Admission struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	GUID            string    `gorm:"uniqueIndex" json:"guid"`
	StudentID       uint      `gorm:"not null;index" json:"student_id"`
	CourseID        uint      `gorm:"not null;index" json:"course_id"`
	BatchID         uint      `gorm:"not null;index" json:"batch_id"`
	FeeStructureID  uint      `gorm:"not null;index" json:"fee_structure_id"`
	AdmissionNumber string    `gorm:"not null;uniqueIndex" json:"admission_number"`
	AdmissionDate   time.Time `gorm:"type:date;not null;index" json:"admission_date"`
	TotalFee        float64   `gorm:"type:decimal(10,2);not null" json:"total_fee"`
	RegistrationFee float64   `gorm:"type:decimal(10,2);default:0" json:"registration_fee"`
	ExamFee         float64   `gorm:"type:decimal(10,2);default:0" json:"exam_fee"`
	Status          string    `gorm:"default:ACTIVE;not null;index" json:"status"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Associations
	Student      Student       `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Course       Course        `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	Batch        Batch         `gorm:"foreignKey:BatchID" json:"batch,omitempty"`
	FeeStructure FeeStructure  `gorm:"foreignKey:FeeStructureID" json:"fee_structure,omitempty"`
	Installments []Installment `gorm:"foreignKey:AdmissionID;constraint:OnDelete:CASCADE" json:"installments,omitempty"`
	Payments     []Payment     `gorm:"foreignKey:AdmissionID;constraint:OnDelete:CASCADE" json:"payments,omitempty"`
}

// TableName specifies the table name for Admission
func (Admission) TableName() string {
	return "admissions"
}

// Admission status constants
const (
	AdmissionStatusActive    = "ACTIVE"
	AdmissionStatusCompleted = "COMPLETED"
	AdmissionStatusDropped   = "DROPPED"
)

// IsTerminal returns true once the admission can no longer change status
func (a *Admission) IsTerminal() bool {
	return a.Status == AdmissionStatusCompleted || a.Status == AdmissionStatusDropped
}

// MayComplete returns true if the admission can be marked completed
func (a *Admission) MayComplete() bool {
	return a.Status == AdmissionStatusActive
}

// MayDrop returns true if the admission can be marked dropped.
// Outstanding balance does not block dropping.
func (a *Admission) MayDrop() bool {
	return a.Status == AdmissionStatusActive
}

// TotalPaid sums total_amount over the loaded payments. Late fees are part
// of the collected total.
func (a *Admission) TotalPaid() float64 {
	var total float64
	for _, p := range a.Payments {
		total += p.TotalAmount
	}
	return total
}

// Balance is total fee minus everything collected. Negative on overpayment;
// overpayment is not rejected.
func (a *Admission) Balance() float64 {
	return a.TotalFee - a.TotalPaid()
}

// AdmissionNumberFor formats an admission number from a year and a
// per-year sequence value, e.g. ADM20250042.
func AdmissionNumberFor(year int, seq int64) string {
	return fmt.Sprintf("ADM%d%04d", year, seq)
}

// CollectionRate returns collected/total as a percentage, 0 when nothing
// was billed.
func CollectionRate(totalCollected, totalFee float64) float64 {
	if totalFee == 0 {
		return 0
	}
	return totalCollected / totalFee * 100
}

// AdmissionResponse is the JSON response format for admissions
type AdmissionResponse struct {
	ID              uint                  `json:"id"`
	GUID            string                `json:"guid"`
	AdmissionNumber string                `json:"admission_number"`
	AdmissionDate   time.Time             `json:"admission_date"`
	Status          string                `json:"status"`
	TotalFee        float64               `json:"total_fee"`
	RegistrationFee float64               `json:"registration_fee"`
	ExamFee         float64               `json:"exam_fee"`
	TotalPaid       float64               `json:"total_paid"`
	Balance         float64               `json:"balance"`
	StudentID       uint                  `json:"student_id"`
	StudentName     string                `json:"student_name,omitempty"`
	StudentMobile   string                `json:"student_mobile,omitempty"`
	CourseID        uint                  `json:"course_id"`
	CourseName      string                `json:"course_name,omitempty"`
	BatchID         uint                  `json:"batch_id"`
	BatchName       string                `json:"batch_name,omitempty"`
	FeeType         string                `json:"fee_type,omitempty"`
	Installments    []InstallmentResponse `json:"installments,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
}

// ToResponse converts Admission to AdmissionResponse
func (a *Admission) ToResponse() AdmissionResponse {
	resp := AdmissionResponse{
		ID:              a.ID,
		GUID:            a.GUID,
		AdmissionNumber: a.AdmissionNumber,
		AdmissionDate:   a.AdmissionDate,
		Status:          a.Status,
		TotalFee:        a.TotalFee,
		RegistrationFee: a.RegistrationFee,
		ExamFee:         a.ExamFee,
		TotalPaid:       a.TotalPaid(),
		Balance:         a.Balance(),
		StudentID:       a.StudentID,
		CourseID:        a.CourseID,
		BatchID:         a.BatchID,
		CreatedAt:       a.CreatedAt,
	}

	if a.Student.ID != 0 {
		resp.StudentName = a.Student.Name
		resp.StudentMobile = a.Student.Mobile
	}
	if a.Course.ID != 0 {
		resp.CourseName = a.Course.Name
	}
	if a.Batch.ID != 0 {
		resp.BatchName = a.Batch.Name
	}
	if a.FeeStructure.ID != 0 {
		resp.FeeType = a.FeeStructure.FeeType
	}

	for _, inst := range a.Installments {
		resp.Installments = append(resp.Installments, inst.ToResponse())
	}

	return resp
}
