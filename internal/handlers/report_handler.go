package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sbci/institute-api/internal/repository"
	"github.com/sbci/institute-api/internal/services"
)

type ReportHandler struct {
	reportService *services.ReportService
	exportService *services.ExportService
}

func NewReportHandler(reportService *services.ReportService, exportService *services.ExportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		exportService: exportService,
	}
}

// @Summary Dashboard
// @Description Collection and admission KPIs with today's payments, upcoming dues and top defaulters
// @Tags Reports
// @Produce json
// @Success 200 {object} models.Dashboard
// @Security BearerAuth
// @Router /reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.reportService.Dashboard(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// @Summary Dues Report
// @Description List overdue and upcoming installments of active admissions
// @Tags Reports
// @Produce json
// @Param upcoming_days query int false "Include installments due within N days" default(7)
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /reports/dues [get]
func (h *ReportHandler) Dues(c *gin.Context) {
	upcomingDays, _ := strconv.Atoi(c.DefaultQuery("upcoming_days", "7"))

	entries, err := h.reportService.DuesReport(c.Request.Context(), upcomingDays)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"dues": entries, "count": len(entries)})
}

// @Summary Dues Report CSV
// @Description Download the dues report as CSV
// @Tags Reports
// @Produce text/csv
// @Param upcoming_days query int false "Include installments due within N days" default(7)
// @Success 200 {file} file "dues.csv"
// @Security BearerAuth
// @Router /reports/dues_csv [get]
func (h *ReportHandler) DuesCSV(c *gin.Context) {
	upcomingDays, _ := strconv.Atoi(c.DefaultQuery("upcoming_days", "7"))

	buf, err := h.reportService.GenerateDuesCSV(c.Request.Context(), upcomingDays)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=dues.csv")
	c.String(http.StatusOK, buf.String())
}

// @Summary Revenue Series
// @Description Daily collection totals for a date range
// @Tags Reports
// @Produce json
// @Param from query string false "From date (YYYY-MM-DD), defaults to 30 days ago"
// @Param to query string false "To date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /reports/revenue [get]
func (h *ReportHandler) Revenue(c *gin.Context) {
	to := time.Now()
	from := to.AddDate(0, 0, -30)

	if raw := c.Query("from"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must have format YYYY-MM-DD"})
			return
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must have format YYYY-MM-DD"})
			return
		}
		// Include the whole "to" day
		to = parsed.AddDate(0, 0, 1)
	}

	series, err := h.reportService.RevenueSeries(c.Request.Context(), from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"series": series})
}

// @Summary Export Students XLSX
// @Description Download the student register as an Excel workbook
// @Tags Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param search query string false "Search filter"
// @Success 200 {file} file "students.xlsx"
// @Security BearerAuth
// @Router /reports/students_xlsx [get]
func (h *ReportHandler) StudentsXLSX(c *gin.Context) {
	query := repository.NewListQuery()
	query.Search = c.Query("search")

	data, filename, err := h.exportService.ExportStudentsXLSX(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// @Summary Export Payments XLSX
// @Description Download the payment register as an Excel workbook
// @Tags Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param from query string false "Collected from date (YYYY-MM-DD)"
// @Param to query string false "Collected to date (YYYY-MM-DD)"
// @Success 200 {file} file "payments.xlsx"
// @Security BearerAuth
// @Router /reports/payments_xlsx [get]
func (h *ReportHandler) PaymentsXLSX(c *gin.Context) {
	query := repository.NewListQuery()
	query.Search = c.Query("search")
	query.Filters["payment_mode"] = c.Query("payment_mode")
	query.Filters["from"] = c.Query("from")
	query.Filters["to"] = c.Query("to")

	data, filename, err := h.exportService.ExportPaymentsXLSX(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

type AuditHandler struct {
	auditService *services.AuditService
}

func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// @Summary List Audit Logs
// @Description Get recent audit log entries
// @Tags Audits
// @Produce json
// @Param limit query int false "Max entries" default(50)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /audits [get]
func (h *AuditHandler) Index(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	logs, total, err := h.auditService.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"audits": logs, "total": total})
}
