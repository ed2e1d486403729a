package api

import (
	"net/http"

	"fittrack/workout-api/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires all handlers onto the router. Everything except
// registration, login, and the health probe sits behind the JWT
// middleware.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	profileService service.ProfileService,
	exerciseService service.ExerciseService,
	workoutService service.WorkoutService,
	sessionService service.SessionService,
	logService service.LogService,
) {
	authHandler := NewAuthHandler(authService)
	profileHandler := NewProfileHandler(profileService)
	exerciseHandler := NewExerciseHandler(exerciseService)
	workoutHandler := NewWorkoutHandler(workoutService)
	sessionHandler := NewSessionHandler(sessionService)
	logHandler := NewLogHandler(logService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", authHandler.Me)

		profileGroup := protected.Group("/profile")
		{
			profileGroup.GET("", profileHandler.Get)
			profileGroup.PUT("", profileHandler.Update)
			profileGroup.PATCH("", profileHandler.Update)
		}

		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.POST("", exerciseHandler.Create)
			exerciseGroup.GET("", exerciseHandler.List)
			exerciseGroup.GET("/:id", exerciseHandler.Get)
			exerciseGroup.PUT("/:id", exerciseHandler.Update)
			exerciseGroup.DELETE("/:id", exerciseHandler.Delete)
			exerciseGroup.POST("/:id/media-upload-url", exerciseHandler.MediaUploadURL)
			exerciseGroup.GET("/:id/media-download-url", exerciseHandler.MediaDownloadURL)
		}

		workoutGroup := protected.Group("/workouts")
		{
			workoutGroup.POST("", workoutHandler.Create)
			workoutGroup.GET("", workoutHandler.List)
			workoutGroup.GET("/:id", workoutHandler.Get)
			workoutGroup.PUT("/:id", workoutHandler.Update)
			workoutGroup.DELETE("/:id", workoutHandler.Delete)
			workoutGroup.POST("/:id/clone", workoutHandler.Clone)
		}

		sessionGroup := protected.Group("/sessions")
		{
			sessionGroup.POST("", sessionHandler.Create)
			sessionGroup.GET("", sessionHandler.List)
			sessionGroup.GET("/:id", sessionHandler.Get)
			sessionGroup.PUT("/:id", sessionHandler.Update)
			sessionGroup.PATCH("/:id", sessionHandler.Update)
			sessionGroup.DELETE("/:id", sessionHandler.Delete)
			sessionGroup.POST("/:id/start", sessionHandler.Start)
			sessionGroup.POST("/:id/complete", sessionHandler.Complete)
			sessionGroup.POST("/:id/cancel", sessionHandler.Cancel)
		}

		logGroup := protected.Group("/logs")
		{
			logGroup.POST("", logHandler.Create)
			logGroup.POST("/bulk", logHandler.CreateBulk)
			logGroup.GET("", logHandler.List)
			logGroup.GET("/:id", logHandler.Get)
			logGroup.DELETE("/:id", logHandler.Delete)
		}
	}
}
