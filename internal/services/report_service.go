package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"html/template"
	"os"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/jung-kurt/gofpdf"
	"github.com/sbci/institute-api/internal/config"
	"github.com/sbci/institute-api/internal/models"
	"github.com/sbci/institute-api/internal/repository"
)

type ReportService struct {
	dashboardRepo repository.DashboardRepository
	paymentRepo   repository.PaymentRepository
	admissionRepo repository.AdmissionRepository
	cfg           *config.Config
}

func NewReportService(
	dashboardRepo repository.DashboardRepository,
	paymentRepo repository.PaymentRepository,
	admissionRepo repository.AdmissionRepository,
	cfg *config.Config,
) *ReportService {
	return &ReportService{
		dashboardRepo: dashboardRepo,
		paymentRepo:   paymentRepo,
		admissionRepo: admissionRepo,
		cfg:           cfg,
	}
}

// DashboardStats assembles the KPI block for the main dashboard. The reads
// are not transactionally consistent with concurrent payments; the figures
// are a snapshot, not a ledger.
func (s *ReportService) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := today.AddDate(0, 0, 1)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	nextMonth := monthStart.AddDate(0, 1, 0)

	stats := &models.DashboardStats{}
	var err error

	if stats.ActiveStudents, err = s.dashboardRepo.ActiveStudentCount(ctx); err != nil {
		return nil, err
	}
	if stats.TodayCollection, err = s.dashboardRepo.CollectedBetween(ctx, today, tomorrow); err != nil {
		return nil, err
	}
	if stats.MonthCollection, err = s.dashboardRepo.CollectedBetween(ctx, monthStart, nextMonth); err != nil {
		return nil, err
	}
	if stats.TotalOutstanding, err = s.dashboardRepo.TotalOutstanding(ctx); err != nil {
		return nil, err
	}
	if stats.OverdueCount, stats.OverdueAmount, err = s.dashboardRepo.OverdueSummary(ctx, today); err != nil {
		return nil, err
	}
	if stats.NewAdmissionsMonth, err = s.dashboardRepo.AdmissionsBetween(ctx, monthStart, nextMonth); err != nil {
		return nil, err
	}

	billed, err := s.dashboardRepo.BilledForAdmissionsBetween(ctx, monthStart, nextMonth)
	if err != nil {
		return nil, err
	}
	stats.CollectionRateMonth = models.CollectionRate(stats.MonthCollection, billed)

	return stats, nil
}

// Dashboard composes the KPI block with today's payments, the next week's
// dues and the admissions with the largest overdue amounts.
func (s *ReportService) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	stats, err := s.DashboardStats(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := today.AddDate(0, 0, 1)

	payments, err := s.paymentRepo.FindBetween(ctx, today, tomorrow)
	if err != nil {
		return nil, err
	}

	dues, err := s.dashboardRepo.DueEntries(ctx, today, 7)
	if err != nil {
		return nil, err
	}

	defaulters, err := s.dashboardRepo.TopDefaulters(ctx, today, 10)
	if err != nil {
		return nil, err
	}

	dashboard := &models.Dashboard{
		Stats:         *stats,
		UpcomingDues:  dues,
		TopDefaulters: defaulters,
	}
	for _, p := range payments {
		dashboard.TodayPayments = append(dashboard.TodayPayments, p.ToResponse())
	}
	return dashboard, nil
}

// DuesReport lists unsettled installments due up to upcomingDays from today
func (s *ReportService) DuesReport(ctx context.Context, upcomingDays int) ([]models.DueEntry, error) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return s.dashboardRepo.DueEntries(ctx, today, upcomingDays)
}

// RevenueSeries returns daily collection totals for the chart
func (s *ReportService) RevenueSeries(ctx context.Context, from, to time.Time) ([]models.CollectionPoint, error) {
	return s.paymentRepo.DailyCollection(ctx, from, to)
}

// GenerateDuesCSV renders the dues report as CSV for the front desk
func (s *ReportService) GenerateDuesCSV(ctx context.Context, upcomingDays int) (*bytes.Buffer, error) {
	entries, err := s.DuesReport(ctx, upcomingDays)
	if err != nil {
		return nil, err
	}

	b := &bytes.Buffer{}
	w := csv.NewWriter(b)

	header := []string{"Admission No", "Student", "Mobile", "Course", "Batch", "Installment", "Due Date", "Amount", "Paid", "Pending", "Days Overdue"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, e := range entries {
		record := []string{
			e.AdmissionNumber,
			e.StudentName,
			e.StudentMobile,
			e.CourseName,
			e.BatchName,
			fmt.Sprintf("%d", e.InstallmentNo),
			e.DueDate.Format("2006-01-02"),
			fmt.Sprintf("%.2f", e.Amount),
			fmt.Sprintf("%.2f", e.PaidAmount),
			fmt.Sprintf("%.2f", e.PendingAmount),
			fmt.Sprintf("%d", e.DaysOverdue),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return b, nil
}

// GenerateReceiptPDF renders a printable receipt for a payment
func (s *ReportService) GenerateReceiptPDF(ctx context.Context, paymentID uint) (*bytes.Buffer, error) {
	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.Receipt == nil {
		return nil, fmt.Errorf("%w: payment %d has no receipt", ErrNotFound, paymentID)
	}

	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, s.cfg.InstituteName, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	if s.cfg.InstituteAddress != "" {
		pdf.CellFormat(0, 5, s.cfg.InstituteAddress, "", 1, "C", false, 0, "")
	}
	if s.cfg.InstitutePhone != "" {
		pdf.CellFormat(0, 5, "Phone: "+s.cfg.InstitutePhone, "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "FEE RECEIPT", "T", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 10)
	line := func(label, value string) {
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(45, 7, label)
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(0, 7, value)
		pdf.Ln(7)
	}

	line("Receipt No:", payment.Receipt.ReceiptNumber)
	line("Date:", payment.PaymentDate.Format("02/01/2006"))
	line("Admission No:", payment.Admission.AdmissionNumber)
	if payment.Admission.Student.ID != 0 {
		line("Student:", payment.Admission.Student.Name)
	}
	if payment.Admission.Course.ID != 0 {
		line("Course:", payment.Admission.Course.Name)
	}
	if payment.Installment != nil {
		line("Installment:", fmt.Sprintf("#%d", payment.Installment.InstallmentNumber))
	}
	line("Amount:", "Rs. "+FormatCurrency(payment.Amount))
	if payment.LateFee > 0 {
		line("Late Fee:", "Rs. "+FormatCurrency(payment.LateFee))
	}
	line("Total:", "Rs. "+FormatCurrency(payment.TotalAmount))
	line("Mode:", payment.PaymentMode)
	if payment.TransactionID != nil && *payment.TransactionID != "" {
		line("Transaction ID:", *payment.TransactionID)
	}
	if payment.CollectedBy.ID != 0 {
		line("Collected By:", payment.CollectedBy.FullName)
	}

	pdf.Ln(2)
	pdf.SetFont("Arial", "I", 9)
	pdf.MultiCell(0, 5, AmountInWords(payment.TotalAmount), "", "L", false)

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// GenerateFeeStatementPDF renders the full statement of an admission: the
// schedule, every payment with its receipt number, and the closing balance.
func (s *ReportService) GenerateFeeStatementPDF(ctx context.Context, admissionID uint) (*bytes.Buffer, error) {
	admission, err := s.admissionRepo.FindByIDWithDetails(ctx, admissionID)
	if err != nil {
		return nil, err
	}

	type installmentRow struct {
		Number  int
		DueDate string
		Amount  string
		Paid    string
		Pending string
		Status  string
	}
	type paymentRow struct {
		Date      string
		Receipt   string
		Mode      string
		Amount    string
		LateFee   string
		Total     string
		Collector string
	}
	type statementData struct {
		InstituteName    string
		InstituteAddress string
		Date             string
		AdmissionNumber  string
		StudentName      string
		CourseName       string
		BatchName        string
		Status           string
		TotalFee         string
		TotalPaid        string
		Balance          string
		Installments     []installmentRow
		Payments         []paymentRow
	}

	data := statementData{
		InstituteName:    s.cfg.InstituteName,
		InstituteAddress: s.cfg.InstituteAddress,
		Date:             time.Now().Format("02/01/2006"),
		AdmissionNumber:  admission.AdmissionNumber,
		StudentName:      admission.Student.Name,
		CourseName:       admission.Course.Name,
		BatchName:        admission.Batch.Name,
		Status:           admission.Status,
		TotalFee:         FormatCurrency(admission.TotalFee),
		TotalPaid:        FormatCurrency(admission.TotalPaid()),
		Balance:          FormatCurrency(admission.Balance()),
	}

	for _, inst := range admission.Installments {
		data.Installments = append(data.Installments, installmentRow{
			Number:  inst.InstallmentNumber,
			DueDate: inst.DueDate.Format("02/01/2006"),
			Amount:  FormatCurrency(inst.Amount),
			Paid:    FormatCurrency(inst.PaidAmount),
			Pending: FormatCurrency(inst.PendingAmount()),
			Status:  inst.Status,
		})
	}
	for _, p := range admission.Payments {
		row := paymentRow{
			Date:    p.PaymentDate.Format("02/01/2006"),
			Mode:    p.PaymentMode,
			Amount:  FormatCurrency(p.Amount),
			LateFee: FormatCurrency(p.LateFee),
			Total:   FormatCurrency(p.TotalAmount),
		}
		if p.Receipt != nil {
			row.Receipt = p.Receipt.ReceiptNumber
		}
		if p.CollectedBy.ID != 0 {
			row.Collector = p.CollectedBy.FullName
		}
		data.Payments = append(data.Payments, row)
	}

	return s.generatePDF("fee_statement.html", data)
}

// generatePDF renders an HTML template and converts it with wkhtmltopdf
func (s *ReportService) generatePDF(templateName string, data interface{}) (*bytes.Buffer, error) {
	tmplPath := fmt.Sprintf("internal/services/templates/reports/%s", templateName)
	if _, err := os.Stat(tmplPath); os.IsNotExist(err) {
		tmplPath = fmt.Sprintf("templates/reports/%s", templateName)
	}

	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", templateName, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create pdf generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(buf.Bytes()))
	page.EnableLocalFileAccess.Set(true)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create pdf: %w", err)
	}

	return pdfg.Buffer(), nil
}
