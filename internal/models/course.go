package models

import (
	"time"
)

// Course represents a course offered by the institute
type Course struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Code        string    `gorm:"not null;uniqueIndex" json:"code"`
	Description *string   `gorm:"type:text" json:"description"`
	Duration    int       `gorm:"not null" json:"duration"` // months
	Active      bool      `gorm:"default:true;index" json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Associations
	Batches       []Batch        `gorm:"foreignKey:CourseID" json:"batches,omitempty"`
	FeeStructures []FeeStructure `gorm:"foreignKey:CourseID" json:"fee_structures,omitempty"`
}

// TableName specifies the table name for Course
func (Course) TableName() string {
	return "courses"
}

// Batch represents a scheduled batch of a course
type Batch struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	CourseID    uint       `gorm:"not null;index" json:"course_id"`
	Name        string     `gorm:"not null" json:"name"`
	Timing      string     `gorm:"not null" json:"timing"`
	FacultyName *string    `json:"faculty_name"`
	MaxStudents int        `gorm:"default:30" json:"max_students"`
	StartDate   time.Time  `gorm:"type:date;not null" json:"start_date"`
	EndDate     *time.Time `gorm:"type:date" json:"end_date"`
	Active      bool       `gorm:"default:true;index" json:"active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Associations
	Course     Course      `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	Admissions []Admission `gorm:"foreignKey:BatchID" json:"admissions,omitempty"`
}

// TableName specifies the table name for Batch
func (Batch) TableName() string {
	return "batches"
}
