package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"fittrack/planner/internal/domain"
	"fittrack/planner/internal/planstore"
	"fittrack/planner/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PlanHandler struct {
	planService    service.PlanService
	workoutService service.WorkoutService
}

func NewPlanHandler(planService service.PlanService, workoutService service.WorkoutService) *PlanHandler {
	return &PlanHandler{planService: planService, workoutService: workoutService}
}

// --- DTOs ---

// EditExerciseRequest carries the new value as a JSON string, number or
// boolean; null clears an optional field.
type EditExerciseRequest struct {
	Field string          `json:"field" binding:"required"`
	Value json.RawMessage `json:"value"`
}

type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// --- Handler Methods ---

// ListPlans godoc
// @Summary List my plans, newest first
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.WorkoutPlan
// @Router /plans [get]
func (h *PlanHandler) ListPlans(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	plans, err := h.planService.ListPlans(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if plans == nil {
		plans = []domain.WorkoutPlan{}
	}
	c.JSON(http.StatusOK, plans)
}

// GetActivePlan godoc
// @Summary Get my active plan
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.WorkoutPlan
// @Failure 404 {object} gin.H "No active plan (code no_plan)"
// @Router /plans/active [get]
func (h *PlanHandler) GetActivePlan(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	plan, err := h.planService.GetActivePlan(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// GetPlan godoc
// @Summary Get one of my plans
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan ObjectID Hex"
// @Success 200 {object} domain.WorkoutPlan
// @Router /plans/{planId} [get]
func (h *PlanHandler) GetPlan(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	planID, ok := planIDParam(c)
	if !ok {
		return
	}
	plan, err := h.planService.GetPlan(c.Request.Context(), userID, planID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// GetPlanOverview godoc
// @Summary Plan with the days already completed
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan ObjectID Hex, or 'active'"
// @Success 200 {object} service.PlanOverview
// @Router /plans/{planId}/overview [get]
func (h *PlanHandler) GetPlanOverview(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	planID := primitive.NilObjectID
	if id := c.Param("planId"); id != "" && id != "active" {
		if planID, ok = planIDParam(c); !ok {
			return
		}
	}
	overview, err := h.workoutService.PlanOverview(c.Request.Context(), userID, planID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// ExportPlan godoc
// @Summary Export a plan snapshot to object storage
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan ObjectID Hex"
// @Success 201 {object} service.ExportResult
// @Failure 501 {object} gin.H "Exports are not configured"
// @Router /plans/{planId}/export [post]
func (h *PlanHandler) ExportPlan(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	planID, ok := planIDParam(c)
	if !ok {
		return
	}
	res, err := h.planService.ExportPlan(c.Request.Context(), userID, planID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// RegeneratePlan godoc
// @Summary Generate a fresh plan from my profile
// @Description Archives the current plan. Send Idempotency-Key to make retries safe.
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Request key"
// @Success 201 {object} domain.WorkoutPlan
// @Failure 422 {object} gin.H "Generated plan was malformed, retry"
// @Router /plans/regenerate [post]
func (h *PlanHandler) RegeneratePlan(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	plan, err := h.planService.RegenerateFromProfile(c.Request.Context(), userID, idempotencyKey(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// EditExercise godoc
// @Summary Change one field of an exercise in the active plan
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param week path int true "Week number"
// @Param day path int true "Day number"
// @Param index path int true "Exercise index (0-based)"
// @Param edit body EditExerciseRequest true "Field and value"
// @Success 200 {object} domain.WorkoutPlan
// @Router /plans/active/weeks/{week}/days/{day}/exercises/{index} [patch]
func (h *PlanHandler) EditExercise(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	pos, ok := positionParams(c)
	if !ok {
		return
	}
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	var req EditExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	value, err := editValue(req.Value)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := h.planService.EditExercise(c.Request.Context(), userID, pos, index, req.Field, value, idempotencyKey(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// AddExercise godoc
// @Summary Append an exercise to a day of the active plan
// @Description An empty body adds the default placeholder exercise.
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param week path int true "Week number"
// @Param day path int true "Day number"
// @Param exercise body domain.Exercise false "Exercise"
// @Success 201 {object} domain.WorkoutPlan
// @Router /plans/active/weeks/{week}/days/{day}/exercises [post]
func (h *PlanHandler) AddExercise(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	pos, ok := positionParams(c)
	if !ok {
		return
	}
	var exercise *domain.Exercise
	if c.Request.ContentLength != 0 {
		exercise = &domain.Exercise{}
		if err := c.ShouldBindJSON(exercise); err != nil {
			abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
			return
		}
	}

	plan, err := h.planService.AddExercise(c.Request.Context(), userID, pos, exercise, idempotencyKey(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// RemoveExercise godoc
// @Summary Remove an exercise from a day of the active plan
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.WorkoutPlan
// @Router /plans/active/weeks/{week}/days/{day}/exercises/{index} [delete]
func (h *PlanHandler) RemoveExercise(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	pos, ok := positionParams(c)
	if !ok {
		return
	}
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	plan, err := h.planService.RemoveExercise(c.Request.Context(), userID, pos, index, idempotencyKey(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// ChatEdit godoc
// @Summary Ask the coach to change the active plan
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Request key"
// @Param message body ChatRequest true "Instruction"
// @Success 200 {object} service.ChatEditResult
// @Failure 422 {object} gin.H "Coach returned an invalid plan, the current plan is unchanged"
// @Router /plans/active/chat [post]
func (h *PlanHandler) ChatEdit(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	res, err := h.planService.ChatEdit(c.Request.Context(), userID, req.Message, idempotencyKey(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// --- Param helpers ---

// editValue turns a scalar JSON value into the text form the plan edit
// parses. Numbers keep their literal digits.
func editValue(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	switch {
	case len(raw) == 0:
		return "", errors.New("value is required")
	case bytes.Equal(raw, []byte("null")):
		return "", nil
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("invalid value: %v", err)
		}
		return s, nil
	case raw[0] == '{' || raw[0] == '[':
		return "", errors.New("value must be a string, number or boolean")
	}
	return string(raw), nil
}

func planIDParam(c *gin.Context) (primitive.ObjectID, bool) {
	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format.")
		return primitive.NilObjectID, false
	}
	return planID, true
}

func intParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s.", name))
		return 0, false
	}
	return v, true
}

func positionParams(c *gin.Context) (planstore.Position, bool) {
	week, ok := intParam(c, "week")
	if !ok {
		return planstore.Position{}, false
	}
	day, ok := intParam(c, "day")
	if !ok {
		return planstore.Position{}, false
	}
	return planstore.Position{Week: week, Day: day}, true
}
