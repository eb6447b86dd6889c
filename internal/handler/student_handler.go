package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-gradebook/internal/models"
	appErrors "github.com/noah-isme/sma-gradebook/pkg/errors"
	"github.com/noah-isme/sma-gradebook/pkg/response"
)

type studentService interface {
	Add(ctx context.Context, attrs models.StudentAttributes) *models.Student
	FindByName(ctx context.Context, name string) (*models.Student, error)
	FindByID(ctx context.Context, id int) (*models.Student, error)
	List(ctx context.Context) []models.Student
}

type studentReporter interface {
	StudentReport(ctx context.Context, studentID int) (string, error)
}

// StudentHandler exposes roster endpoints.
type StudentHandler struct {
	students studentService
	reports  studentReporter
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students studentService, reports studentReporter) *StudentHandler {
	return &StudentHandler{students: students, reports: reports}
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	students := h.students.List(c.Request.Context())
	response.JSON(c, http.StatusOK, students, map[string]interface{}{"total": len(students)})
}

// Create godoc
// @Summary Add a student
// @Description Unset attributes are generated; the email is derived from the name.
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body models.StudentAttributes true "Student attributes"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var attrs models.StudentAttributes
	if err := c.ShouldBindJSON(&attrs); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid student payload"))
		return
	}
	response.Created(c, h.students.Add(c.Request.Context(), attrs))
}

// Search godoc
// @Summary Find a student by name
// @Description Case-insensitive exact match; the first student in roster order wins.
// @Tags Students
// @Produce json
// @Param name query string true "Student name"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/search [get]
func (h *StudentHandler) Search(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "name is required"))
		return
	}
	student, err := h.students.FindByName(c.Request.Context(), name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Get godoc
// @Summary Get student detail
// @Tags Students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	id, err := studentIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	student, err := h.students.FindByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Report godoc
// @Summary Student text report
// @Tags Students
// @Produce plain
// @Param id path int true "Student ID"
// @Success 200 {string} string
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/report [get]
func (h *StudentHandler) Report(c *gin.Context) {
	id, err := studentIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	report, err := h.reports.StudentReport(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Text(c, report)
}
