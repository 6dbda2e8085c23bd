package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sbci/institute-api/internal/middleware"
	"github.com/sbci/institute-api/internal/repository"
	"github.com/sbci/institute-api/internal/services"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
	reportService  *services.ReportService
}

func NewPaymentHandler(paymentService *services.PaymentService, reportService *services.ReportService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		reportService:  reportService,
	}
}

// @Summary List Payments
// @Description Get a paginated list of payments
// @Tags Payments
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search query string false "Search by admission number, student name or receipt number"
// @Param payment_mode query string false "Filter by payment mode"
// @Param from query string false "Collected from date (YYYY-MM-DD)"
// @Param to query string false "Collected to date (YYYY-MM-DD)"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /payments [get]
func (h *PaymentHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search")
	query.Filters["payment_mode"] = c.Query("payment_mode")
	query.Filters["from"] = c.Query("from")
	query.Filters["to"] = c.Query("to")

	// Parse sort parameter (format: field-direction)
	if sort := c.Query("sort"); sort != "" {
		parts := strings.Split(sort, "-")
		query.SortBy = parts[0]
		if len(parts) > 1 {
			query.SortDir = parts[1]
		}
	}

	payments, total, err := h.paymentService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []interface{}
	for _, p := range payments {
		responses = append(responses, p.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"payments": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Show Payment
// @Description Get a payment with its receipt and collector
// @Tags Payments
// @Produce json
// @Param payment_id path int true "Payment ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /payments/{payment_id} [get]
func (h *PaymentHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("payment_id"), 10, 32)
	payment, err := h.paymentService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": payment.ToResponse()})
}

type RecordPaymentRequest struct {
	AdmissionID   uint    `json:"admission_id" binding:"required"`
	InstallmentID *uint   `json:"installment_id"`
	Amount        float64 `json:"amount" binding:"required"`
	LateFee       float64 `json:"late_fee"`
	PaymentMode   string  `json:"payment_mode" binding:"required"`
	TransactionID *string `json:"transaction_id"`
	PaymentDate   string  `json:"payment_date"`
	Remarks       *string `json:"remarks"`
}

// @Summary Record Payment
// @Description Record a fee payment and issue its receipt atomically
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body RecordPaymentRequest true "Payment Data"
// @Success 201 {object} map[string]interface{}
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	var req RecordPaymentRequest
	if err := BindNestedOrFlat(c, "payment", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment data: " + err.Error()})
		return
	}

	cmd := services.RecordPaymentCommand{
		AdmissionID:   req.AdmissionID,
		InstallmentID: req.InstallmentID,
		Amount:        req.Amount,
		LateFee:       req.LateFee,
		PaymentMode:   strings.ToUpper(strings.TrimSpace(req.PaymentMode)),
		TransactionID: req.TransactionID,
		Remarks:       req.Remarks,
		CollectedByID: middleware.GetUserID(c),
	}
	if req.PaymentDate != "" {
		paymentDate, err := parseDate(req.PaymentDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "payment_date must have format YYYY-MM-DD"})
			return
		}
		cmd.PaymentDate = paymentDate
	}

	payment, err := h.paymentService.Record(c.Request.Context(), cmd)
	if err != nil {
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, services.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, services.ErrConflict):
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"payment": payment.ToResponse()})
}

// @Summary Quote Late Fee
// @Description Compute the late fee an installment would carry if paid on a given date
// @Tags Payments
// @Produce json
// @Param installment_id path int true "Installment ID"
// @Param as_of query string false "Payment date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /installments/{installment_id}/late_fee [get]
func (h *PaymentHandler) QuoteLateFee(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("installment_id"), 10, 32)

	asOf := time.Now()
	if raw := c.Query("as_of"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "as_of must have format YYYY-MM-DD"})
			return
		}
		asOf = parsed
	}

	lateFee, err := h.paymentService.QuoteLateFee(c.Request.Context(), uint(id), asOf)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"installment_id": id,
		"as_of":          asOf.Format("2006-01-02"),
		"late_fee":       lateFee,
	})
}

// @Summary Receipt PDF
// @Description Download the payment's receipt as PDF
// @Tags Payments
// @Produce application/pdf
// @Param payment_id path int true "Payment ID"
// @Success 200 {file} file "receipt.pdf"
// @Security BearerAuth
// @Router /payments/{payment_id}/receipt_pdf [get]
func (h *PaymentHandler) ReceiptPDF(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("payment_id"), 10, 32)
	buf, err := h.reportService.GenerateReceiptPDF(c.Request.Context(), uint(id))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=receipt_%d.pdf", id))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
