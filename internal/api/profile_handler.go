package api

import (
	"fmt"
	"net/http"

	"fittrack/planner/internal/domain"
	"fittrack/planner/internal/service"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileService service.ProfileService
	planService    service.PlanService
}

func NewProfileHandler(profileService service.ProfileService, planService service.PlanService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, planService: planService}
}

type UpdateProfileRequest struct {
	FullName     string              `json:"full_name"`
	FitnessLevel domain.FitnessLevel `json:"fitness_level" binding:"required"`
}

type FitnessLevelResponse struct {
	FitnessLevel domain.FitnessLevel `json:"fitness_level"`
	Score        int                 `json:"score"`
}

// GetProfile godoc
// @Summary Get my profile
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.UserProfile
// @Failure 404 {object} gin.H "Profile not found (onboarding not done)"
// @Router /profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	profile, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary Update my name and fitness level
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body UpdateProfileRequest true "New values"
// @Success 200 {object} domain.UserProfile
// @Router /profile [put]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	profile, err := h.profileService.UpdateProfile(c.Request.Context(), userID, req.FullName, req.FitnessLevel)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Onboard godoc
// @Summary Submit onboarding answers and generate the first plan
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Replays return the plan created by the first request"
// @Param profile body domain.UserProfile true "Onboarding answers"
// @Success 201 {object} domain.WorkoutPlan
// @Failure 422 {object} gin.H "Generated plan was malformed, retry"
// @Router /onboarding [post]
func (h *ProfileHandler) Onboard(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var profile domain.UserProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	profile.UserID = userID

	plan, err := h.planService.Onboard(c.Request.Context(), userID, &profile, idempotencyKey(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// FitnessLevel godoc
// @Summary Score the fitness questionnaire
// @Tags Profile
// @Accept json
// @Produce json
// @Param assessment body domain.Assessment true "Questionnaire answers"
// @Success 200 {object} FitnessLevelResponse
// @Router /fitness-level [post]
func (h *ProfileHandler) FitnessLevel(c *gin.Context) {
	var a domain.Assessment
	if err := c.ShouldBindJSON(&a); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	if a.ExerciseFrequency < 0 || a.ExerciseFrequency > 7 {
		abortWithError(c, http.StatusBadRequest, "exerciseFrequency must be 0-7")
		return
	}
	level, score := h.profileService.FitnessLevelFromAssessment(a)
	c.JSON(http.StatusOK, FitnessLevelResponse{FitnessLevel: level, Score: score})
}
