package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-gradebook/internal/service"
	appErrors "github.com/noah-isme/sma-gradebook/pkg/errors"
	"github.com/noah-isme/sma-gradebook/pkg/response"
)

// GradeHandler exposes the grading engine.
type GradeHandler struct {
	service *service.GradeService
}

// NewGradeHandler constructs GradeHandler.
func NewGradeHandler(svc *service.GradeService) *GradeHandler {
	return &GradeHandler{service: svc}
}

// Record godoc
// @Summary Record a score
// @Description Unknown categories fall back to homework; negative scores are stored as 0.
// @Tags Grades
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param payload body service.RecordGradeRequest true "Score payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/grades [post]
func (h *GradeHandler) Record(c *gin.Context) {
	id, err := studentIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.RecordGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid grade payload"))
		return
	}
	result, err := h.service.RecordGrade(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Summary godoc
// @Summary Grade summary for a student
// @Tags Grades
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/grades [get]
func (h *GradeHandler) Summary(c *gin.Context) {
	id, err := studentIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	grades, err := h.service.Summary(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grades, nil)
}

// Weights godoc
// @Summary Active grade weights
// @Tags Grades
// @Produce json
// @Param format query string false "json or text"
// @Success 200 {object} response.Envelope
// @Router /grades/weights [get]
func (h *GradeHandler) Weights(c *gin.Context) {
	weights := h.service.Weights()
	if c.Query("format") == "text" {
		response.Text(c, service.RenderWeights(weights))
		return
	}
	response.JSON(c, http.StatusOK, weights, map[string]interface{}{"total": weights.Total()})
}
