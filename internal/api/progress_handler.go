package api

import (
	"fmt"
	"net/http"
	"time"

	"fittrack/planner/internal/service"

	"github.com/gin-gonic/gin"
)

type ProgressHandler struct {
	progressService service.ProgressService
	now             func() time.Time
}

func NewProgressHandler(progressService service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService, now: time.Now}
}

// Stats godoc
// @Summary Dashboard numbers: workouts, volume, streak, plan progress
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.ProgressStats
// @Router /progress/stats [get]
func (h *ProgressHandler) Stats(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	stats, err := h.progressService.Stats(c.Request.Context(), userID, h.now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Measurements godoc
// @Summary Body measurements, oldest first, with the latest values
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.MeasurementSummary
// @Router /progress/measurements [get]
func (h *ProgressHandler) Measurements(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	summary, err := h.progressService.Measurements(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// AddMeasurement godoc
// @Summary Record a body measurement
// @Tags Progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param measurement body service.MeasurementInput true "Measurement"
// @Success 201 {object} domain.BodyMeasurement
// @Router /progress/measurements [post]
func (h *ProgressHandler) AddMeasurement(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var input service.MeasurementInput
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	m, err := h.progressService.AddMeasurement(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}
