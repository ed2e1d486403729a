package api

import (
	"net/http"
	"time"

	"fittrack/workout-api/internal/domain"
	"fittrack/workout-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionHandler holds the session service dependency.
type SessionHandler struct {
	sessionService service.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// --- DTOs ---

// CreateSessionRequest plans a new session. WorkoutID is optional:
// free-form sessions have no template.
type CreateSessionRequest struct {
	WorkoutID string `json:"workoutId"`
	Notes     string `json:"notes"`
}

// UpdateSessionRequest edits session metadata. Status is deliberately
// not accepted here; the lifecycle endpoints own it.
type UpdateSessionRequest struct {
	Notes          *string `json:"notes"`
	Rating         *int    `json:"rating" binding:"omitempty,gte=1,lte=5"`
	CaloriesBurned *int    `json:"caloriesBurned" binding:"omitempty,gte=0"`
}

// CompleteSessionRequest carries the optional data merged at
// completion time.
type CompleteSessionRequest struct {
	Rating         *int    `json:"rating" binding:"omitempty,gte=1,lte=5"`
	CaloriesBurned *int    `json:"caloriesBurned" binding:"omitempty,gte=0"`
	Notes          *string `json:"notes"`
}

// SessionResponse adds the derived display date to the stored session.
type SessionResponse struct {
	domain.WorkoutSession
	Date time.Time `json:"date"`
}

func mapSessionToResponse(session *domain.WorkoutSession) SessionResponse {
	return SessionResponse{WorkoutSession: *session, Date: session.Date()}
}

// --- Handlers ---

func (h *SessionHandler) Create(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	callerID, _, ok := callerFromContext(c)
	if !ok {
		return
	}

	var workoutID *primitive.ObjectID
	if req.WorkoutID != "" {
		id, err := primitive.ObjectIDFromHex(req.WorkoutID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid workout ID")
			return
		}
		workoutID = &id
	}

	session, err := h.sessionService.Create(c.Request.Context(), callerID, workoutID, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapSessionToResponse(session))
}

func (h *SessionHandler) Get(c *gin.Context) {
	callerID, _, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid session ID")
		return
	}
	session, err := h.sessionService.Get(c.Request.Context(), callerID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSessionToResponse(session))
}

func (h *SessionHandler) List(c *gin.Context) {
	callerID, _, ok := callerFromContext(c)
	if !ok {
		return
	}
	filter := domain.SessionFilter{
		Status:   domain.SessionStatus(c.Query("status")),
		Page:     intQuery(c, "page", 1),
		PageSize: intQuery(c, "page_size", 20),
	}
	if raw := c.Query("date_from"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "date_from must be YYYY-MM-DD")
			return
		}
		filter.DateFrom = &from
	}
	if raw := c.Query("date_to"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "date_to must be YYYY-MM-DD")
			return
		}
		filter.DateTo = &to
	}

	sessions, err := h.sessionService.List(c.Request.Context(), callerID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	results := make([]SessionResponse, len(sessions))
	for i := range sessions {
		results[i] = mapSessionToResponse(&sessions[i])
	}
	c.JSON(http.StatusOK, gin.H{"count": len(results), "results": results})
}

func (h *SessionHandler) Update(c *gin.Context) {
	var req UpdateSessionRequest
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
		abortWithError(c, http.StatusBadRequest, "Invalid session ID")
		return
	}
	session, err := h.sessionService.Update(c.Request.Context(), callerID, id, service.SessionUpdateInput{
		Notes:          req.Notes,
		Rating:         req.Rating,
		CaloriesBurned: req.CaloriesBurned,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSessionToResponse(session))
}

// Start moves a planned session to in_progress.
func (h *SessionHandler) Start(c *gin.Context) {
	callerID, _, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid session ID")
		return
	}
	session, err := h.sessionService.Start(c.Request.Context(), callerID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSessionToResponse(session))
}

// Complete moves an in-progress session to completed and returns the
// session with its derived duration and volume filled in.
func (h *SessionHandler) Complete(c *gin.Context) {
	var req CompleteSessionRequest
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
		abortWithError(c, http.StatusBadRequest, "Invalid session ID")
		return
	}
	session, err := h.sessionService.Complete(c.Request.Context(), callerID, id, service.CompleteInput{
		Rating:         req.Rating,
		CaloriesBurned: req.CaloriesBurned,
		Notes:          req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSessionToResponse(session))
}

// Cancel abandons a non-terminal session.
func (h *SessionHandler) Cancel(c *gin.Context) {
	callerID, _, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid session ID")
		return
	}
	session, err := h.sessionService.Cancel(c.Request.Context(), callerID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSessionToResponse(session))
}

func (h *SessionHandler) Delete(c *gin.Context) {
	callerID, _, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid session ID")
		return
	}
	if err := h.sessionService.Delete(c.Request.Context(), callerID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
