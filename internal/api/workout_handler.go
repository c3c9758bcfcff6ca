package api

import (
	"fmt"
	"net/http"
	"strconv"

	"fittrack/planner/internal/planstore"
	"fittrack/planner/internal/service"

	"github.com/gin-gonic/gin"
)

type WorkoutHandler struct {
	workoutService service.WorkoutService
}

func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// NextWorkout godoc
// @Summary The next uncompleted workout of my active plan
// @Description week and day pick a specific day instead.
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param week query int false "Week number"
// @Param day query int false "Day number"
// @Success 200 {object} service.WorkoutView
// @Failure 404 {object} gin.H "No plan, or every day is done (code no_plan)"
// @Router /workouts/next [get]
func (h *WorkoutHandler) NextWorkout(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var override *planstore.Position
	if c.Query("week") != "" || c.Query("day") != "" {
		pos, ok := positionQuery(c)
		if !ok {
			return
		}
		override = &pos
	}

	view, err := h.workoutService.NextWorkout(c.Request.Context(), userID, override)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// AdjacentWorkout godoc
// @Summary The day before or after a position
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param week query int true "Week number"
// @Param day query int true "Day number"
// @Param direction query string true "prev or next"
// @Success 200 {object} service.WorkoutView
// @Router /workouts/adjacent [get]
func (h *WorkoutHandler) AdjacentWorkout(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	pos, ok := positionQuery(c)
	if !ok {
		return
	}

	var dir planstore.Direction
	switch c.Query("direction") {
	case "prev", "previous":
		dir = planstore.Previous
	case "next":
		dir = planstore.Next
	default:
		abortWithError(c, http.StatusBadRequest, "direction must be prev or next")
		return
	}

	view, err := h.workoutService.AdjacentWorkout(c.Request.Context(), userID, pos, dir)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// CompleteWorkout godoc
// @Summary Log a finished workout
// @Description Replaying a client_request_id returns the stored record with 200.
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param completion body service.CompletionInput true "Completion"
// @Success 201 {object} domain.WorkoutCompletion
// @Success 200 {object} domain.WorkoutCompletion "Replay"
// @Router /workouts/completions [post]
func (h *WorkoutHandler) CompleteWorkout(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var input service.CompletionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	if input.ClientRequestID == "" {
		input.ClientRequestID = idempotencyKey(c)
	}

	completion, created, err := h.workoutService.CompleteWorkout(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusCreated
	if !created {
		status = http.StatusOK
	}
	c.JSON(status, completion)
}

// History godoc
// @Summary My completed workouts, newest first
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.HistoryEntry
// @Router /workouts/history [get]
func (h *WorkoutHandler) History(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	history, err := h.workoutService.History(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if history == nil {
		history = []service.HistoryEntry{}
	}
	c.JSON(http.StatusOK, history)
}

func positionQuery(c *gin.Context) (planstore.Position, bool) {
	week, err := strconv.Atoi(c.Query("week"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid week.")
		return planstore.Position{}, false
	}
	day, err := strconv.Atoi(c.Query("day"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid day.")
		return planstore.Position{}, false
	}
	return planstore.Position{Week: week, Day: day}, true
}
