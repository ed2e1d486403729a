package api

import (
	"net/http"

	"fittrack/workout-api/internal/domain"
	"fittrack/workout-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// --- DTOs ---

// ExerciseRequest defines the expected JSON for creating or updating an
// exercise.
type ExerciseRequest struct {
	Name             string   `json:"name" binding:"required"`
	Description      string   `json:"description"`
	Category         string   `json:"category" binding:"required"`
	Difficulty       string   `json:"difficulty" binding:"required"`
	PrimaryMuscles   []string `json:"primaryMuscles"`
	SecondaryMuscles []string `json:"secondaryMuscles"`
	Equipment        []string `json:"equipment"`
	Instructions     []string `json:"instructions"`
	VideoURL         string   `json:"videoUrl" binding:"omitempty,url"`
	ImageURL         string   `json:"imageUrl" binding:"omitempty,url"`
	IsCustom         bool     `json:"isCustom"`
	IsPublic         bool     `json:"isPublic"`
}

// MediaUploadRequest asks for a presigned upload slot.
type MediaUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

func (r ExerciseRequest) toInput() service.ExerciseInput {
	toMuscles := func(names []string) []domain.MuscleGroup {
		muscles := make([]domain.MuscleGroup, len(names))
		for i, n := range names {
			muscles[i] = domain.MuscleGroup(n)
		}
		return muscles
	}
	return service.ExerciseInput{
		Name:             r.Name,
		Description:      r.Description,
		Category:         domain.ExerciseCategory(r.Category),
		Difficulty:       domain.Difficulty(r.Difficulty),
		PrimaryMuscles:   toMuscles(r.PrimaryMuscles),
		SecondaryMuscles: toMuscles(r.SecondaryMuscles),
		Equipment:        r.Equipment,
		Instructions:     r.Instructions,
		VideoURL:         r.VideoURL,
		ImageURL:         r.ImageURL,
		IsCustom:         r.IsCustom,
		IsPublic:         r.IsPublic,
	}
}

// --- Handlers ---

func (h *ExerciseHandler) Create(c *gin.Context) {
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	callerID, role, ok := callerFromContext(c)
	if !ok {
		return
	}
	exercise, err := h.exerciseService.Create(c.Request.Context(), callerID, role, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, exercise)
}

func (h *ExerciseHandler) Get(c *gin.Context) {
	callerID, _, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID")
		return
	}
	exercise, err := h.exerciseService.Get(c.Request.Context(), callerID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

func (h *ExerciseHandler) List(c *gin.Context) {
	callerID, _, ok := callerFromContext(c)
	if !ok {
		return
	}
	filter := domain.ExerciseFilter{
		Category:   domain.ExerciseCategory(c.Query("category")),
		Difficulty: domain.Difficulty(c.Query("difficulty")),
		Muscle:     domain.MuscleGroup(c.Query("muscle")),
		Search:     c.Query("search"),
		Page:       intQuery(c, "page", 1),
		PageSize:   intQuery(c, "page_size", 20),
	}
	exercises, err := h.exerciseService.List(c.Request.Context(), callerID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(exercises), "results": exercises})
}

func (h *ExerciseHandler) Update(c *gin.Context) {
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	callerID, role, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID")
		return
	}
	exercise, err := h.exerciseService.Update(c.Request.Context(), callerID, role, id, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

func (h *ExerciseHandler) Delete(c *gin.Context) {
	callerID, role, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID")
		return
	}
	if err := h.exerciseService.Delete(c.Request.Context(), callerID, role, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MediaUploadURL returns a presigned PUT slot for demo media.
func (h *ExerciseHandler) MediaUploadURL(c *gin.Context) {
	var req MediaUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	callerID, role, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID")
		return
	}
	upload, err := h.exerciseService.MediaUploadURL(c.Request.Context(), callerID, role, id, req.ContentType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, upload)
}

// MediaDownloadURL returns a presigned GET for a stored media object.
func (h *ExerciseHandler) MediaDownloadURL(c *gin.Context) {
	callerID, _, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID")
		return
	}
	objectKey := c.Query("key")
	url, err := h.exerciseService.MediaDownloadURL(c.Request.Context(), callerID, id, objectKey)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"downloadUrl": url})
}

// callerFromContext extracts the authenticated identity and role,
// aborting the request if the middleware did not run.
func callerFromContext(c *gin.Context) (int64, domain.Role, bool) {
	callerID, err := getIdentityIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token")
		return 0, "", false
	}
	role, err := getRoleFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller role from token")
		return 0, "", false
	}
	return callerID, role, true
}
