package models

import (
	"time"
)

// DashboardStats is the KPI block on the main dashboard
type DashboardStats struct {
	ActiveStudents      int64   `json:"active_students"`
	TodayCollection     float64 `json:"today_collection"`
	MonthCollection     float64 `json:"month_collection"`
	TotalOutstanding    float64 `json:"total_outstanding"`
	OverdueCount        int64   `json:"overdue_count"`
	OverdueAmount       float64 `json:"overdue_amount"`
	NewAdmissionsMonth  int64   `json:"new_admissions_month"`
	CollectionRateMonth float64 `json:"collection_rate_month"`
}

// DueEntry is one row of the dues report: an installment past (or
// approaching) its due date with student context.
type DueEntry struct {
	AdmissionID     uint      `json:"admission_id"`
	AdmissionNumber string    `json:"admission_number"`
	StudentName     string    `json:"student_name"`
	StudentMobile   string    `json:"student_mobile"`
	CourseName      string    `json:"course_name"`
	BatchName       string    `json:"batch_name"`
	InstallmentNo   int       `json:"installment_number"`
	DueDate         time.Time `json:"due_date"`
	Amount          float64   `json:"amount"`
	PaidAmount      float64   `json:"paid_amount"`
	PendingAmount   float64   `json:"pending_amount"`
	DaysOverdue     int       `json:"days_overdue"`
}

// DefaulterEntry aggregates an admission's overdue installments for the
// top-defaulters block on the dashboard.
type DefaulterEntry struct {
	AdmissionID     uint    `json:"admission_id"`
	AdmissionNumber string  `json:"admission_number"`
	StudentName     string  `json:"student_name"`
	StudentMobile   string  `json:"student_mobile"`
	CourseName      string  `json:"course_name"`
	OverdueCount    int64   `json:"overdue_count"`
	OverdueAmount   float64 `json:"overdue_amount"`
}

// Dashboard bundles the KPI block with the detail lists shown below it
type Dashboard struct {
	Stats         DashboardStats    `json:"stats"`
	TodayPayments []PaymentResponse `json:"today_payments"`
	UpcomingDues  []DueEntry        `json:"upcoming_dues"`
	TopDefaulters []DefaulterEntry  `json:"top_defaulters"`
}

// CollectionPoint is one day of collections on the revenue chart
type CollectionPoint struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}
