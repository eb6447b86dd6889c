package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-gradebook/internal/service"
	"github.com/noah-isme/sma-gradebook/pkg/response"
)

// DataHandler saves, restores and seeds the gradebook.
type DataHandler struct {
	persistence *service.PersistenceService
	logger      *zap.Logger
}

// NewDataHandler constructs DataHandler.
func NewDataHandler(persistence *service.PersistenceService, logger *zap.Logger) *DataHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DataHandler{persistence: persistence, logger: logger}
}

// Save godoc
// @Summary Save roster and feed
// @Tags Data
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /data/save [post]
func (h *DataHandler) Save(c *gin.Context) {
	result, err := h.persistence.Save(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	h.logger.Info("save requested", zap.String("operator", operatorFromContext(c)))
	response.JSON(c, http.StatusOK, result, nil)
}

// Load godoc
// @Summary Replace roster and feed with the saved documents
// @Tags Data
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /data/load [post]
func (h *DataHandler) Load(c *gin.Context) {
	result, err := h.persistence.Load(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	h.logger.Info("load requested", zap.String("operator", operatorFromContext(c)))
	response.JSON(c, http.StatusOK, result, nil)
}

// Sample godoc
// @Summary Append the sample students
// @Tags Data
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /data/sample [post]
func (h *DataHandler) Sample(c *gin.Context) {
	students := h.persistence.LoadSample(c.Request.Context())
	response.JSON(c, http.StatusCreated, students, map[string]interface{}{"count": len(students)})
}
