package api

import (
	"net/http"

	"fittrack/workout-api/internal/domain"
	"fittrack/workout-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutHandler holds the workout service dependency.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- DTOs ---

// PrescriptionRequest is one planned exercise in a workout payload.
type PrescriptionRequest struct {
	ExerciseID    string  `json:"exerciseId" binding:"required"`
	Order         int     `json:"order" binding:"required,gt=0"`
	TargetSets    int     `json:"targetSets" binding:"required,gt=0"`
	TargetRepsMin int     `json:"targetRepsMin" binding:"omitempty,gte=0"`
	TargetRepsMax int     `json:"targetRepsMax" binding:"omitempty,gte=0"`
	TargetWeight  float64 `json:"targetWeight" binding:"omitempty,gte=0"`
	RestSeconds   int     `json:"restSeconds" binding:"omitempty,gte=0"`
	Notes         string  `json:"notes"`
}

// WorkoutRequest defines the expected JSON for creating or updating a
// workout template. Derived fields are not accepted; they are always
// recomputed server-side.
type WorkoutRequest struct {
	Name        string                `json:"name" binding:"required"`
	Description string                `json:"description"`
	Exercises   []PrescriptionRequest `json:"exercises"`
	Difficulty  string                `json:"difficulty"`
	Tags        []string              `json:"tags"`
	IsTemplate  bool                  `json:"isTemplate"`
	IsPublic    bool                  `json:"isPublic"`
}

func (r WorkoutRequest) toInput() (service.WorkoutInput, error) {
	prescriptions := make([]service.PrescriptionInput, len(r.Exercises))
	for i, p := range r.Exercises {
		exerciseID, err := primitive.ObjectIDFromHex(p.ExerciseID)
		if err != nil {
			return service.WorkoutInput{}, err
		}
		prescriptions[i] = service.PrescriptionInput{
			ExerciseID:    exerciseID,
			Order:         p.Order,
			TargetSets:    p.TargetSets,
			TargetRepsMin: p.TargetRepsMin,
			TargetRepsMax: p.TargetRepsMax,
			TargetWeight:  p.TargetWeight,
			RestSeconds:   p.RestSeconds,
			Notes:         p.Notes,
		}
	}
	return service.WorkoutInput{
		Name:        r.Name,
		Description: r.Description,
		Exercises:   prescriptions,
		Difficulty:  domain.Difficulty(r.Difficulty),
		Tags:        r.Tags,
		IsTemplate:  r.IsTemplate,
		IsPublic:    r.IsPublic,
	}, nil
}

// --- Handlers ---

func (h *WorkoutHandler) Create(c *gin.Context) {
	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	callerID, _, ok := callerFromContext(c)
	if !ok {
		return
	}
	input, err := req.toInput()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID in prescriptions")
		return
	}
	workout, err := h.workoutService.Create(c.Request.Context(), callerID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, workout)
}

func (h *WorkoutHandler) Get(c *gin.Context) {
	callerID, _, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID")
		return
	}
	workout, err := h.workoutService.Get(c.Request.Context(), callerID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, workout)
}

func (h *WorkoutHandler) List(c *gin.Context) {
	callerID, _, ok := callerFromContext(c)
	if !ok {
		return
	}
	filter := domain.WorkoutFilter{
		Difficulty: domain.Difficulty(c.Query("difficulty")),
		Tag:        c.Query("tag"),
		Page:       intQuery(c, "page", 1),
		PageSize:   intQuery(c, "page_size", 20),
	}
	workouts, err := h.workoutService.List(c.Request.Context(), callerID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(workouts), "results": workouts})
}

func (h *WorkoutHandler) Update(c *gin.Context) {
	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	callerID, _, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID")
		return
	}
	input, err := req.toInput()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID in prescriptions")
		return
	}
	workout, err := h.workoutService.Update(c.Request.Context(), callerID, id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, workout)
}

// Clone copies a visible workout into the caller's library.
func (h *WorkoutHandler) Clone(c *gin.Context) {
	callerID, _, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID")
		return
	}
	clone, err := h.workoutService.Clone(c.Request.Context(), callerID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, clone)
}

func (h *WorkoutHandler) Delete(c *gin.Context) {
	callerID, _, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID")
		return
	}
	if err := h.workoutService.Delete(c.Request.Context(), callerID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
