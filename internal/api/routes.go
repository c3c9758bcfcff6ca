package api

import (
	"net/http"

	"fittrack/planner/internal/metrics"
	"fittrack/planner/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services bundles what the handlers call.
type Services struct {
	Auth     service.AuthService
	Profile  service.ProfileService
	Plan     service.PlanService
	Workout  service.WorkoutService
	Progress service.ProgressService
}

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	services Services,
	metricsManager *metrics.Manager,
	gatherer prometheus.Gatherer,
) {
	authHandler := NewAuthHandler(services.Auth)
	profileHandler := NewProfileHandler(services.Profile, services.Plan)
	planHandler := NewPlanHandler(services.Plan, services.Workout)
	workoutHandler := NewWorkoutHandler(services.Workout)
	progressHandler := NewProgressHandler(services.Progress)

	if metricsManager != nil {
		router.Use(RequestMetrics(metricsManager))
	}

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(jwtSecret))
	{
		protected.GET("/me", func(c *gin.Context) {
			userID, ok := mustUserID(c)
			if !ok {
				return
			}
			c.JSON(http.StatusOK, gin.H{"userId": userID})
		})

		// --- Profile & onboarding ---
		protected.GET("/profile", profileHandler.GetProfile)
		protected.PUT("/profile", profileHandler.UpdateProfile)
		protected.POST("/onboarding", profileHandler.Onboard)
		protected.POST("/fitness-level", profileHandler.FitnessLevel)

		// --- Plans ---
		plans := protected.Group("/plans")
		{
			plans.GET("", planHandler.ListPlans)
			plans.POST("/regenerate", planHandler.RegeneratePlan)

			plans.GET("/active", planHandler.GetActivePlan)
			plans.GET("/active/overview", planHandler.GetPlanOverview)
			plans.POST("/active/chat", planHandler.ChatEdit)
			plans.POST("/active/weeks/:week/days/:day/exercises", planHandler.AddExercise)
			plans.PATCH("/active/weeks/:week/days/:day/exercises/:index", planHandler.EditExercise)
			plans.DELETE("/active/weeks/:week/days/:day/exercises/:index", planHandler.RemoveExercise)

			plans.GET("/:planId", planHandler.GetPlan)
			plans.GET("/:planId/overview", planHandler.GetPlanOverview)
			plans.POST("/:planId/export", planHandler.ExportPlan)
		}

		// --- Workouts ---
		workouts := protected.Group("/workouts")
		{
			workouts.GET("/next", workoutHandler.NextWorkout)
			workouts.GET("/adjacent", workoutHandler.AdjacentWorkout)
			workouts.POST("/completions", workoutHandler.CompleteWorkout)
			workouts.GET("/history", workoutHandler.History)
		}

		// --- Progress ---
		progress := protected.Group("/progress")
		{
			progress.GET("/stats", progressHandler.Stats)
			progress.GET("/measurements", progressHandler.Measurements)
			progress.POST("/measurements", progressHandler.AddMeasurement)
		}
	}
}
