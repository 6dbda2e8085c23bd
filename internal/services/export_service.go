package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sbci/institute-api/internal/repository"
	"github.com/xuri/excelize/v2"
)

// ExportService renders student and payment listings as XLSX workbooks
type ExportService struct {
	studentRepo repository.StudentRepository
	paymentRepo repository.PaymentRepository
}

func NewExportService(studentRepo repository.StudentRepository, paymentRepo repository.PaymentRepository) *ExportService {
	return &ExportService{
		studentRepo: studentRepo,
		paymentRepo: paymentRepo,
	}
}

// ExportStudentsXLSX writes every matching student with the fee summary of
// their latest admission.
func (s *ExportService) ExportStudentsXLSX(ctx context.Context, query *repository.ListQuery) ([]byte, string, error) {
	// Export ignores pagination
	query.PerPage = 0
	students, _, err := s.studentRepo.List(ctx, query)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Students"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	headers := []string{"Name", "Father Name", "Mobile", "Email", "City", "Admission No", "Course", "Batch", "Total Fee", "Total Paid", "Balance", "Status"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	endCell, _ := excelize.CoordinatesToCellName(len(headers), 1)
	_ = f.SetCellStyle(sheet, "A1", endCell, headerStyle)

	for i, student := range students {
		resp := student.ToResponse()
		row := i + 2

		email := ""
		if student.Email != nil {
			email = *student.Email
		}
		city := ""
		if student.City != nil {
			city = *student.City
		}

		values := []interface{}{
			resp.Name, resp.FatherName, resp.Mobile, email, city,
			resp.AdmissionNumber, resp.CourseName, resp.BatchName,
			resp.TotalFee, resp.TotalPaid, resp.Balance, resp.AdmissionStatus,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("students_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// ExportPaymentsXLSX writes the payment register for a date range
func (s *ExportService) ExportPaymentsXLSX(ctx context.Context, query *repository.ListQuery) ([]byte, string, error) {
	query.PerPage = 0
	payments, _, err := s.paymentRepo.List(ctx, query)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Payments"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	headers := []string{"Date", "Receipt No", "Admission No", "Student", "Course", "Installment", "Amount", "Late Fee", "Total", "Mode", "Transaction ID", "Collected By"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	endCell, _ := excelize.CoordinatesToCellName(len(headers), 1)
	_ = f.SetCellStyle(sheet, "A1", endCell, headerStyle)

	var totalCollected float64
	for i, p := range payments {
		row := i + 2

		receiptNo := ""
		if p.Receipt != nil {
			receiptNo = p.Receipt.ReceiptNumber
		}
		studentName := ""
		if p.Admission.Student.ID != 0 {
			studentName = p.Admission.Student.Name
		}
		courseName := ""
		if p.Admission.Course.ID != 0 {
			courseName = p.Admission.Course.Name
		}
		installment := ""
		if p.Installment != nil {
			installment = fmt.Sprintf("#%d", p.Installment.InstallmentNumber)
		}
		txnID := ""
		if p.TransactionID != nil {
			txnID = *p.TransactionID
		}
		collector := ""
		if p.CollectedBy.ID != 0 {
			collector = p.CollectedBy.FullName
		}

		values := []interface{}{
			p.PaymentDate.Format("2006-01-02"), receiptNo,
			p.Admission.AdmissionNumber, studentName, courseName, installment,
			p.Amount, p.LateFee, p.TotalAmount, p.PaymentMode, txnID, collector,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		totalCollected += p.TotalAmount
	}

	totalRow := len(payments) + 3
	labelCell, _ := excelize.CoordinatesToCellName(8, totalRow)
	valueCell, _ := excelize.CoordinatesToCellName(9, totalRow)
	_ = f.SetCellValue(sheet, labelCell, "Total Collected")
	_ = f.SetCellValue(sheet, valueCell, totalCollected)
	_ = f.SetCellStyle(sheet, labelCell, valueCell, headerStyle)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("payments_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}
