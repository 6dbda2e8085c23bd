package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sbci/institute-api/internal/models"
	"github.com/sbci/institute-api/internal/services"
)

// --- Course Handler ---

type CourseHandler struct {
	catalogService *services.CatalogService
}

func NewCourseHandler(catalogService *services.CatalogService) *CourseHandler {
	return &CourseHandler{catalogService: catalogService}
}

// @Summary List Courses
// @Description Get all courses, optionally only active ones
// @Tags Courses
// @Produce json
// @Param active query bool false "Only active courses"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /courses [get]
func (h *CourseHandler) Index(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	courses, err := h.catalogService.ListCourses(c.Request.Context(), activeOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": courses})
}

// @Summary Show Course
// @Description Get a course with its batches and fee structures
// @Tags Courses
// @Produce json
// @Param course_id path int true "Course ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /courses/{course_id} [get]
func (h *CourseHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("course_id"), 10, 32)
	course, err := h.catalogService.FindCourse(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"course": course})
}

type CourseRequest struct {
	Name        string  `json:"name" binding:"required"`
	Code        string  `json:"code" binding:"required"`
	Description *string `json:"description"`
	Duration    int     `json:"duration" binding:"required"`
}

// @Summary Create Course
// @Description Add a course to the catalog
// @Tags Courses
// @Accept json
// @Produce json
// @Param request body CourseRequest true "Course Data"
// @Success 201 {object} map[string]interface{}
// @Security BearerAuth
// @Router /courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var req CourseRequest
	if err := BindNestedOrFlat(c, "course", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid course data: " + err.Error()})
		return
	}
	if req.Name == "" || req.Code == "" || req.Duration <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name, code and duration are required"})
		return
	}

	course := models.Course{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		Duration:    req.Duration,
		Active:      true,
	}
	if err := h.catalogService.CreateCourse(c.Request.Context(), &course); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"course": course})
}

// @Summary Update Course
// @Description Update a course in the catalog
// @Tags Courses
// @Accept json
// @Produce json
// @Param course_id path int true "Course ID"
// @Param request body CourseRequest true "Course Data"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /courses/{course_id} [put]
func (h *CourseHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("course_id"), 10, 32)
	course, err := h.catalogService.FindCourse(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}

	var req CourseRequest
	if err := BindNestedOrFlat(c, "course", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid course data: " + err.Error()})
		return
	}
	if req.Name != "" {
		course.Name = req.Name
	}
	if req.Code != "" {
		course.Code = req.Code
	}
	if req.Description != nil {
		course.Description = req.Description
	}
	if req.Duration > 0 {
		course.Duration = req.Duration
	}

	if err := h.catalogService.UpdateCourse(c.Request.Context(), course); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"course": course})
}

// @Summary Deactivate Course
// @Description Deactivate a course so it cannot take new admissions
// @Tags Courses
// @Produce json
// @Param course_id path int true "Course ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /courses/{course_id} [delete]
func (h *CourseHandler) Deactivate(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("course_id"), 10, 32)
	if err := h.catalogService.DeactivateCourse(c.Request.Context(), uint(id)); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, services.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Course deactivated"})
}

// --- Batch Handler ---

type BatchHandler struct {
	catalogService *services.CatalogService
}

func NewBatchHandler(catalogService *services.CatalogService) *BatchHandler {
	return &BatchHandler{catalogService: catalogService}
}

// @Summary List Batches
// @Description Get all batches, optionally scoped to a course
// @Tags Batches
// @Produce json
// @Param course_id query int false "Course ID"
// @Param active query bool false "Only active batches"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /batches [get]
func (h *BatchHandler) Index(c *gin.Context) {
	activeOnly := c.Query("active") == "true"

	var (
		batches []models.Batch
		err     error
	)
	if courseID, _ := strconv.ParseUint(c.Query("course_id"), 10, 32); courseID > 0 {
		batches, err = h.catalogService.ListBatchesByCourse(c.Request.Context(), uint(courseID), activeOnly)
	} else {
		batches, err = h.catalogService.ListBatches(c.Request.Context(), activeOnly)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"batches": batches})
}

// @Summary Show Batch
// @Description Get a single batch
// @Tags Batches
// @Produce json
// @Param batch_id path int true "Batch ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /batches/{batch_id} [get]
func (h *BatchHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("batch_id"), 10, 32)
	batch, err := h.catalogService.FindBatch(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Batch not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"batch": batch})
}

type BatchRequest struct {
	CourseID    uint    `json:"course_id" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Timing      string  `json:"timing" binding:"required"`
	FacultyName *string `json:"faculty_name"`
	MaxStudents int     `json:"max_students"`
	StartDate   string  `json:"start_date" binding:"required"`
	EndDate     *string `json:"end_date"`
}

// @Summary Create Batch
// @Description Schedule a new batch for a course
// @Tags Batches
// @Accept json
// @Produce json
// @Param request body BatchRequest true "Batch Data"
// @Success 201 {object} map[string]interface{}
// @Security BearerAuth
// @Router /batches [post]
func (h *BatchHandler) Create(c *gin.Context) {
	var req BatchRequest
	if err := BindNestedOrFlat(c, "batch", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid batch data: " + err.Error()})
		return
	}
	if req.CourseID == 0 || req.Name == "" || req.Timing == "" || req.StartDate == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Course, name, timing and start date are required"})
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must have format YYYY-MM-DD"})
		return
	}

	batch := models.Batch{
		CourseID:    req.CourseID,
		Name:        req.Name,
		Timing:      req.Timing,
		FacultyName: req.FacultyName,
		MaxStudents: req.MaxStudents,
		StartDate:   startDate,
		Active:      true,
	}
	if req.EndDate != nil && *req.EndDate != "" {
		endDate, err := parseDate(*req.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must have format YYYY-MM-DD"})
			return
		}
		batch.EndDate = &endDate
	}

	if err := h.catalogService.CreateBatch(c.Request.Context(), &batch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"batch": batch})
}

// @Summary Update Batch
// @Description Update a batch's schedule or capacity
// @Tags Batches
// @Accept json
// @Produce json
// @Param batch_id path int true "Batch ID"
// @Param request body BatchRequest true "Batch Data"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /batches/{batch_id} [put]
func (h *BatchHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("batch_id"), 10, 32)
	batch, err := h.catalogService.FindBatch(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Batch not found"})
		return
	}

	var req BatchRequest
	if err := BindNestedOrFlat(c, "batch", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid batch data: " + err.Error()})
		return
	}
	if req.Name != "" {
		batch.Name = req.Name
	}
	if req.Timing != "" {
		batch.Timing = req.Timing
	}
	if req.FacultyName != nil {
		batch.FacultyName = req.FacultyName
	}
	if req.MaxStudents > 0 {
		batch.MaxStudents = req.MaxStudents
	}
	if req.StartDate != "" {
		startDate, err := parseDate(req.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must have format YYYY-MM-DD"})
			return
		}
		batch.StartDate = startDate
	}
	if req.EndDate != nil && *req.EndDate != "" {
		endDate, err := parseDate(*req.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must have format YYYY-MM-DD"})
			return
		}
		batch.EndDate = &endDate
	}

	if err := h.catalogService.UpdateBatch(c.Request.Context(), batch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"batch": batch})
}

// @Summary Deactivate Batch
// @Description Deactivate a batch so it cannot take new admissions
// @Tags Batches
// @Produce json
// @Param batch_id path int true "Batch ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /batches/{batch_id} [delete]
func (h *BatchHandler) Deactivate(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("batch_id"), 10, 32)
	if err := h.catalogService.DeactivateBatch(c.Request.Context(), uint(id)); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, services.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Batch deactivated"})
}

// --- Fee Structure Handler ---

type FeeStructureHandler struct {
	catalogService *services.CatalogService
}

func NewFeeStructureHandler(catalogService *services.CatalogService) *FeeStructureHandler {
	return &FeeStructureHandler{catalogService: catalogService}
}

// @Summary List Fee Structures
// @Description Get all fee structures, optionally scoped to a course
// @Tags FeeStructures
// @Produce json
// @Param course_id query int false "Course ID"
// @Param active query bool false "Only active structures"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /fee_structures [get]
func (h *FeeStructureHandler) Index(c *gin.Context) {
	var (
		structures []models.FeeStructure
		err        error
	)
	if courseID, _ := strconv.ParseUint(c.Query("course_id"), 10, 32); courseID > 0 {
		structures, err = h.catalogService.ListFeeStructuresByCourse(c.Request.Context(), uint(courseID))
	} else {
		structures, err = h.catalogService.ListFeeStructures(c.Request.Context(), c.Query("active") == "true")
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"fee_structures": structures})
}

// @Summary Show Fee Structure
// @Description Get a fee structure with its course and late fee rule
// @Tags FeeStructures
// @Produce json
// @Param fee_structure_id path int true "Fee Structure ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /fee_structures/{fee_structure_id} [get]
func (h *FeeStructureHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("fee_structure_id"), 10, 32)
	fs, err := h.catalogService.FindFeeStructure(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Fee structure not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"fee_structure": fs})
}

type FeeStructureRequest struct {
	CourseID          uint     `json:"course_id" binding:"required"`
	Name              string   `json:"name" binding:"required"`
	TotalFee          float64  `json:"total_fee" binding:"required"`
	FeeType           string   `json:"fee_type" binding:"required"`
	InstallmentCount  *int     `json:"installment_count"`
	InstallmentAmount *float64 `json:"installment_amount"`
	RegistrationFee   float64  `json:"registration_fee"`
	ExamFee           float64  `json:"exam_fee"`
	LateFeeRuleID     *uint    `json:"late_fee_rule_id"`
}

// @Summary Create Fee Structure
// @Description Define how a course fee is collected
// @Tags FeeStructures
// @Accept json
// @Produce json
// @Param request body FeeStructureRequest true "Fee Structure Data"
// @Success 201 {object} map[string]interface{}
// @Security BearerAuth
// @Router /fee_structures [post]
func (h *FeeStructureHandler) Create(c *gin.Context) {
	var req FeeStructureRequest
	if err := BindNestedOrFlat(c, "fee_structure", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fee structure data: " + err.Error()})
		return
	}

	fs := models.FeeStructure{
		CourseID:             req.CourseID,
		Name:                 req.Name,
		TotalFee:             req.TotalFee,
		FeeType:              req.FeeType,
		InstallmentCount:     req.InstallmentCount,
		InstallmentAmount:    req.InstallmentAmount,
		InstallmentFrequency: models.FrequencyMonthly,
		RegistrationFee:      req.RegistrationFee,
		ExamFee:              req.ExamFee,
		LateFeeRuleID:        req.LateFeeRuleID,
		Active:               true,
	}
	if err := h.catalogService.CreateFeeStructure(c.Request.Context(), &fs); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, services.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"fee_structure": fs})
}

// @Summary Update Fee Structure
// @Description Update a fee structure's name, rule or active flag
// @Tags FeeStructures
// @Accept json
// @Produce json
// @Param fee_structure_id path int true "Fee Structure ID"
// @Param request body FeeStructureRequest true "Fee Structure Data"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /fee_structures/{fee_structure_id} [put]
func (h *FeeStructureHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("fee_structure_id"), 10, 32)
	fs, err := h.catalogService.FindFeeStructure(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Fee structure not found"})
		return
	}

	var req FeeStructureRequest
	if err := BindNestedOrFlat(c, "fee_structure", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fee structure data: " + err.Error()})
		return
	}

	// Amounts are frozen on existing admissions, only metadata is editable
	if req.Name != "" {
		fs.Name = req.Name
	}
	if req.LateFeeRuleID != nil {
		fs.LateFeeRuleID = req.LateFeeRuleID
	}

	if err := h.catalogService.UpdateFeeStructure(c.Request.Context(), fs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"fee_structure": fs})
}

// @Summary Deactivate Fee Structure
// @Description Deactivate a fee structure so it cannot be used on new admissions
// @Tags FeeStructures
// @Produce json
// @Param fee_structure_id path int true "Fee Structure ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /fee_structures/{fee_structure_id} [delete]
func (h *FeeStructureHandler) Deactivate(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("fee_structure_id"), 10, 32)
	if err := h.catalogService.DeactivateFeeStructure(c.Request.Context(), uint(id)); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, services.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Fee structure deactivated"})
}

// --- Late Fee Rule Handler ---

type LateFeeRuleHandler struct {
	catalogService *services.CatalogService
}

func NewLateFeeRuleHandler(catalogService *services.CatalogService) *LateFeeRuleHandler {
	return &LateFeeRuleHandler{catalogService: catalogService}
}

// @Summary List Late Fee Rules
// @Description Get all late fee rules
// @Tags LateFeeRules
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /late_fee_rules [get]
func (h *LateFeeRuleHandler) Index(c *gin.Context) {
	rules, err := h.catalogService.ListLateFeeRules(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"late_fee_rules": rules})
}

type LateFeeRuleRequest struct {
	Name        string  `json:"name" binding:"required"`
	Type        string  `json:"type" binding:"required"`
	Amount      float64 `json:"amount"`
	Description *string `json:"description"`
}

// @Summary Create Late Fee Rule
// @Description Define a surcharge policy for overdue installments
// @Tags LateFeeRules
// @Accept json
// @Produce json
// @Param request body LateFeeRuleRequest true "Rule Data"
// @Success 201 {object} map[string]interface{}
// @Security BearerAuth
// @Router /late_fee_rules [post]
func (h *LateFeeRuleHandler) Create(c *gin.Context) {
	var req LateFeeRuleRequest
	if err := BindNestedOrFlat(c, "late_fee_rule", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rule data: " + err.Error()})
		return
	}

	rule := models.LateFeeRule{
		Name:        req.Name,
		Type:        req.Type,
		Amount:      req.Amount,
		Description: req.Description,
	}
	if err := h.catalogService.CreateLateFeeRule(c.Request.Context(), &rule); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"late_fee_rule": rule})
}

// @Summary Update Late Fee Rule
// @Description Update a late fee rule
// @Tags LateFeeRules
// @Accept json
// @Produce json
// @Param rule_id path int true "Rule ID"
// @Param request body LateFeeRuleRequest true "Rule Data"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /late_fee_rules/{rule_id} [put]
func (h *LateFeeRuleHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("rule_id"), 10, 32)
	rule, err := h.catalogService.FindLateFeeRule(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Late fee rule not found"})
		return
	}

	var req LateFeeRuleRequest
	if err := BindNestedOrFlat(c, "late_fee_rule", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rule data: " + err.Error()})
		return
	}
	if req.Name != "" {
		rule.Name = req.Name
	}
	if req.Type != "" {
		rule.Type = req.Type
	}
	if req.Amount > 0 {
		rule.Amount = req.Amount
	}
	if req.Description != nil {
		rule.Description = req.Description
	}

	if err := h.catalogService.UpdateLateFeeRule(c.Request.Context(), rule); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"late_fee_rule": rule})
}

// @Summary Delete Late Fee Rule
// @Description Remove a late fee rule not referenced by any fee structure
// @Tags LateFeeRules
// @Produce json
// @Param rule_id path int true "Rule ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /late_fee_rules/{rule_id} [delete]
func (h *LateFeeRuleHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("rule_id"), 10, 32)
	if err := h.catalogService.DeleteLateFeeRule(c.Request.Context(), uint(id)); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, services.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Late fee rule deleted"})
}
