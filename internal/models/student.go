package models

import (
	"time"
)

// Student represents an enrolled or prospective student
type Student struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Name            string     `gorm:"not null;index" json:"name"`
	FatherName      string     `gorm:"not null" json:"father_name"`
	Mobile          string     `gorm:"not null;index" json:"mobile"`
	AlternateMobile *string    `json:"alternate_mobile"`
	Email           *string    `json:"email"`
	Address         *string    `gorm:"type:text" json:"address"`
	City            *string    `json:"city"`
	State           string     `gorm:"default:India" json:"state"`
	Pincode         *string    `json:"pincode"`
	DOB             *time.Time `gorm:"type:date" json:"dob"`
	Gender          *string    `json:"gender"`
	AadharNumber    *string    `json:"aadhar_number"`
	PhotoPath       *string    `json:"-"`
	CreatedAt       time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// Associations
	Admissions []Admission `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"admissions,omitempty"`
}

// TableName specifies the table name for Student
func (Student) TableName() string {
	return "students"
}

// StudentResponse is the JSON response format for students
type StudentResponse struct {
	ID              uint       `json:"id"`
	Name            string     `json:"name"`
	FatherName      string     `json:"father_name"`
	Mobile          string     `json:"mobile"`
	AlternateMobile *string    `json:"alternate_mobile"`
	Email           *string    `json:"email"`
	Address         *string    `json:"address"`
	City            *string    `json:"city"`
	State           string     `json:"state"`
	Pincode         *string    `json:"pincode"`
	DOB             *time.Time `json:"dob"`
	Gender          *string    `json:"gender"`
	HasPhoto        bool       `json:"has_photo"`
	CreatedAt       time.Time  `json:"created_at"`

	// Latest admission financials, filled when admissions are preloaded
	AdmissionNumber string  `json:"admission_number,omitempty"`
	CourseName      string  `json:"course_name,omitempty"`
	BatchName       string  `json:"batch_name,omitempty"`
	TotalFee        float64 `json:"total_fee"`
	TotalPaid       float64 `json:"total_paid"`
	Balance         float64 `json:"balance"`
	AdmissionStatus string  `json:"admission_status,omitempty"`
}

// ToResponse converts Student to StudentResponse
func (s *Student) ToResponse() StudentResponse {
	resp := StudentResponse{
		ID:              s.ID,
		Name:            s.Name,
		FatherName:      s.FatherName,
		Mobile:          s.Mobile,
		AlternateMobile: s.AlternateMobile,
		Email:           s.Email,
		Address:         s.Address,
		City:            s.City,
		State:           s.State,
		Pincode:         s.Pincode,
		DOB:             s.DOB,
		Gender:          s.Gender,
		HasPhoto:        s.PhotoPath != nil && *s.PhotoPath != "",
		CreatedAt:       s.CreatedAt,
	}

	// Most recent admission drives the fee summary on student listings
	if len(s.Admissions) > 0 {
		adm := s.Admissions[0]
		resp.AdmissionNumber = adm.AdmissionNumber
		resp.AdmissionStatus = adm.Status
		resp.TotalFee = adm.TotalFee
		resp.TotalPaid = adm.TotalPaid()
		resp.Balance = adm.Balance()
		if adm.Course.ID != 0 {
			resp.CourseName = adm.Course.Name
		}
		if adm.Batch.ID != 0 {
			resp.BatchName = adm.Batch.Name
		}
	}

	return resp
}
