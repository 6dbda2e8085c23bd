package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sbci/institute-api/internal/middleware"
	"github.com/sbci/institute-api/internal/models"
	"github.com/sbci/institute-api/internal/repository"
	"github.com/sbci/institute-api/internal/services"
	"github.com/sbci/institute-api/internal/storage"
)

type StudentHandler struct {
	studentService   *services.StudentService
	admissionService *services.AdmissionService
	storage          *storage.LocalStorage
}

func NewStudentHandler(studentService *services.StudentService, admissionService *services.AdmissionService, storage *storage.LocalStorage) *StudentHandler {
	return &StudentHandler{
		studentService:   studentService,
		admissionService: admissionService,
		storage:          storage,
	}
}

// @Summary List Students
// @Description Get a paginated list of students with their latest admission summary
// @Tags Students
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search query string false "Search by name, mobile or admission number"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /students [get]
func (h *StudentHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search")

	if sort := c.Query("sort"); sort != "" {
		parts := strings.Split(sort, "-")
		query.SortBy = parts[0]
		if len(parts) > 1 {
			query.SortDir = parts[1]
		}
	}

	students, total, err := h.studentService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []interface{}
	for _, s := range students {
		responses = append(responses, s.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"students": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Show Student
// @Description Get a single student with admission history
// @Tags Students
// @Produce json
// @Param student_id path int true "Student ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /students/{student_id} [get]
func (h *StudentHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("student_id"), 10, 32)
	student, err := h.studentService.FindByIDWithAdmissions(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"student": student.ToResponse(), "admissions": toAdmissionResponses(student.Admissions)})
}

type StudentRequest struct {
	Name            string  `json:"name" binding:"required"`
	FatherName      string  `json:"father_name" binding:"required"`
	Mobile          string  `json:"mobile" binding:"required"`
	AlternateMobile *string `json:"alternate_mobile"`
	Email           *string `json:"email"`
	Address         *string `json:"address"`
	City            *string `json:"city"`
	State           string  `json:"state"`
	Pincode         *string `json:"pincode"`
	DOB             *string `json:"dob"`
	Gender          *string `json:"gender"`
	AadharNumber    *string `json:"aadhar_number"`
}

func (r *StudentRequest) apply(student *models.Student) error {
	student.Name = strings.TrimSpace(r.Name)
	student.FatherName = strings.TrimSpace(r.FatherName)
	student.Mobile = strings.TrimSpace(r.Mobile)
	student.AlternateMobile = r.AlternateMobile
	student.Email = r.Email
	student.Address = r.Address
	student.City = r.City
	if r.State != "" {
		student.State = r.State
	}
	student.Pincode = r.Pincode
	student.Gender = r.Gender
	student.AadharNumber = r.AadharNumber
	if r.DOB != nil && *r.DOB != "" {
		dob, err := parseDate(*r.DOB)
		if err != nil {
			return errors.New("dob must have format YYYY-MM-DD")
		}
		student.DOB = &dob
	}
	return nil
}

// @Summary Create Student
// @Description Register a new student
// @Tags Students
// @Accept json
// @Produce json
// @Param request body StudentRequest true "Student Data"
// @Success 201 {object} map[string]interface{}
// @Security BearerAuth
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req StudentRequest
	if err := BindNestedOrFlat(c, "student", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid student data: " + err.Error()})
		return
	}
	if req.Name == "" || req.FatherName == "" || req.Mobile == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name, father name and mobile are required"})
		return
	}

	var student models.Student
	if err := req.apply(&student); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.studentService.Create(c.Request.Context(), &student, middleware.GetUserID(c)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"student": student.ToResponse()})
}

// @Summary Update Student
// @Description Update a student's contact and identity details
// @Tags Students
// @Accept json
// @Produce json
// @Param student_id path int true "Student ID"
// @Param request body StudentRequest true "Student Data"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /students/{student_id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("student_id"), 10, 32)
	student, err := h.studentService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}

	var req StudentRequest
	if err := BindNestedOrFlat(c, "student", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid student data: " + err.Error()})
		return
	}
	if err := req.apply(student); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.studentService.Update(c.Request.Context(), student, middleware.GetUserID(c)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"student": student.ToResponse()})
}

// @Summary Delete Student
// @Description Delete a student and all related admissions and payments
// @Tags Students
// @Produce json
// @Param student_id path int true "Student ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /students/{student_id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("student_id"), 10, 32)
	if err := h.studentService.Delete(c.Request.Context(), uint(id), middleware.GetUserID(c)); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, services.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Student deleted"})
}

// @Summary Upload Student Photo
// @Description Upload or replace the student's photo
// @Tags Students
// @Accept multipart/form-data
// @Produce json
// @Param student_id path int true "Student ID"
// @Param photo formData file true "Photo (JPEG or PNG)"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /students/{student_id}/photo [post]
func (h *StudentHandler) UploadPhoto(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("student_id"), 10, 32)

	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Photo file is required"})
		return
	}
	defer file.Close()

	if err := h.studentService.UploadPhoto(c.Request.Context(), uint(id), file, header); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, services.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Photo uploaded"})
}

// @Summary Download Student Photo
// @Description Serve the student's photo file
// @Tags Students
// @Produce image/jpeg
// @Param student_id path int true "Student ID"
// @Success 200 {file} file "photo"
// @Security BearerAuth
// @Router /students/{student_id}/photo [get]
func (h *StudentHandler) Photo(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("student_id"), 10, 32)
	path, err := h.studentService.PhotoPath(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Photo not found"})
		return
	}
	c.File(h.storage.GetFullPath(path))
}

// @Summary Student Admissions
// @Description List all admissions of a student
// @Tags Students
// @Produce json
// @Param student_id path int true "Student ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /students/{student_id}/admissions [get]
func (h *StudentHandler) Admissions(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("student_id"), 10, 32)
	admissions, err := h.admissionService.FindByStudent(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"admissions": toAdmissionResponses(admissions)})
}

func toAdmissionResponses(admissions []models.Admission) []interface{} {
	responses := make([]interface{}, 0, len(admissions))
	for _, a := range admissions {
		responses = append(responses, a.ToResponse())
	}
	return responses
}
