package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sbci/institute-api/internal/middleware"
	"github.com/sbci/institute-api/internal/repository"
	"github.com/sbci/institute-api/internal/services"
)

type AdmissionHandler struct {
	admissionService *services.AdmissionService
	reportService    *services.ReportService
}

func NewAdmissionHandler(admissionService *services.AdmissionService, reportService *services.ReportService) *AdmissionHandler {
	return &AdmissionHandler{
		admissionService: admissionService,
		reportService:    reportService,
	}
}

// @Summary List Admissions
// @Description Get a paginated list of admissions
// @Tags Admissions
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search query string false "Search by admission number, student name or mobile"
// @Param status query string false "Filter by status (ACTIVE, COMPLETED, DROPPED)"
// @Param batch_id query int false "Filter by batch"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /admissions [get]
func (h *AdmissionHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search")
	query.Filters["status"] = c.Query("status")
	query.Filters["batch_id"] = c.Query("batch_id")

	if sort := c.Query("sort"); sort != "" {
		parts := strings.Split(sort, "-")
		query.SortBy = parts[0]
		if len(parts) > 1 {
			query.SortDir = parts[1]
		}
	}

	admissions, total, err := h.admissionService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"admissions": toAdmissionResponses(admissions),
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Show Admission
// @Description Get an admission with its schedule and payment history
// @Tags Admissions
// @Produce json
// @Param admission_id path int true "Admission ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /admissions/{admission_id} [get]
func (h *AdmissionHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("admission_id"), 10, 32)
	admission, err := h.admissionService.FindByIDWithDetails(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Admission not found"})
		return
	}

	installments := make([]interface{}, 0, len(admission.Installments))
	for _, inst := range admission.Installments {
		installments = append(installments, inst.ToResponse())
	}
	payments := make([]interface{}, 0, len(admission.Payments))
	for _, p := range admission.Payments {
		payments = append(payments, p.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"admission":    admission.ToResponse(),
		"installments": installments,
		"payments":     payments,
	})
}

type CreateAdmissionRequest struct {
	StudentID      uint   `json:"student_id" binding:"required"`
	BatchID        uint   `json:"batch_id" binding:"required"`
	FeeStructureID uint   `json:"fee_structure_id" binding:"required"`
	AdmissionDate  string `json:"admission_date"`
}

// @Summary Create Admission
// @Description Admit a student into a batch, freezing fees and generating the installment schedule
// @Tags Admissions
// @Accept json
// @Produce json
// @Param request body CreateAdmissionRequest true "Admission Data"
// @Success 201 {object} map[string]interface{}
// @Security BearerAuth
// @Router /admissions [post]
func (h *AdmissionHandler) Create(c *gin.Context) {
	var req CreateAdmissionRequest
	if err := BindNestedOrFlat(c, "admission", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid admission data: " + err.Error()})
		return
	}
	if req.StudentID == 0 || req.BatchID == 0 || req.FeeStructureID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Student, batch and fee structure are required"})
		return
	}

	cmd := services.CreateAdmissionCommand{
		StudentID:      req.StudentID,
		BatchID:        req.BatchID,
		FeeStructureID: req.FeeStructureID,
	}
	if req.AdmissionDate != "" {
		admissionDate, err := parseDate(req.AdmissionDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "admission_date must have format YYYY-MM-DD"})
			return
		}
		cmd.AdmissionDate = admissionDate
	}

	admission, err := h.admissionService.Create(c.Request.Context(), cmd, middleware.GetUserID(c))
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, services.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"admission": admission.ToResponse()})
}

// @Summary Complete Admission
// @Description Mark an active admission as completed
// @Tags Admissions
// @Produce json
// @Param admission_id path int true "Admission ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /admissions/{admission_id}/complete [post]
func (h *AdmissionHandler) Complete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("admission_id"), 10, 32)
	admission, err := h.admissionService.Complete(c.Request.Context(), uint(id), middleware.GetUserID(c))
	if err != nil {
		h.transitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"admission": admission.ToResponse()})
}

// @Summary Drop Admission
// @Description Mark an active admission as dropped
// @Tags Admissions
// @Produce json
// @Param admission_id path int true "Admission ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /admissions/{admission_id}/drop [post]
func (h *AdmissionHandler) Drop(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("admission_id"), 10, 32)
	admission, err := h.admissionService.Drop(c.Request.Context(), uint(id), middleware.GetUserID(c))
	if err != nil {
		h.transitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"admission": admission.ToResponse()})
}

func (h *AdmissionHandler) transitionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Admission not found"})
	case errors.Is(err, services.ErrInvalidState):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// @Summary Delete Admission
// @Description Delete an admission and its installments, payments and receipts
// @Tags Admissions
// @Produce json
// @Param admission_id path int true "Admission ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /admissions/{admission_id} [delete]
func (h *AdmissionHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("admission_id"), 10, 32)
	if err := h.admissionService.Delete(c.Request.Context(), uint(id), middleware.GetUserID(c)); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Admission deleted"})
}

// @Summary Fee Statement PDF
// @Description Download the admission's fee statement as PDF
// @Tags Admissions
// @Produce application/pdf
// @Param admission_id path int true "Admission ID"
// @Success 200 {file} file "statement.pdf"
// @Security BearerAuth
// @Router /admissions/{admission_id}/statement_pdf [get]
func (h *AdmissionHandler) StatementPDF(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("admission_id"), 10, 32)
	buf, err := h.reportService.GenerateFeeStatementPDF(c.Request.Context(), uint(id))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=statement_%d.pdf", id))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
