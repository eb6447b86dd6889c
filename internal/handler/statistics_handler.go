package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-gradebook/internal/models"
	"github.com/noah-isme/sma-gradebook/pkg/response"
)

type statisticsComputer interface {
	Compute(ctx context.Context) (*models.StatisticsReport, error)
}

type classReporter interface {
	ClassReport(ctx context.Context) (string, error)
}

// StatisticsHandler exposes class statistics.
type StatisticsHandler struct {
	statistics statisticsComputer
	reports    classReporter
}

// NewStatisticsHandler constructs StatisticsHandler.
func NewStatisticsHandler(statistics statisticsComputer, reports classReporter) *StatisticsHandler {
	return &StatisticsHandler{statistics: statistics, reports: reports}
}

// Class godoc
// @Summary Class statistics
// @Tags Statistics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /statistics [get]
func (h *StatisticsHandler) Class(c *gin.Context) {
	report, err := h.statistics.Compute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Report godoc
// @Summary Class statistics text report
// @Tags Statistics
// @Produce plain
// @Success 200 {string} string
// @Router /statistics/report [get]
func (h *StatisticsHandler) Report(c *gin.Context) {
	text, err := h.reports.ClassReport(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Text(c, text)
}
