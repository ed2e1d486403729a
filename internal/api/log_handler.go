package api

import (
	"net/http"
	"strconv"

	"fittrack/workout-api/internal/domain"
	"fittrack/workout-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LogHandler holds the log service dependency.
type LogHandler struct {
	logService service.LogService
}

// NewLogHandler creates a new LogHandler.
func NewLogHandler(logService service.LogService) *LogHandler {
	return &LogHandler{logService: logService}
}

// --- DTOs ---

// LogRequest is one set to record. SetNumber 0 (or absent) means
// "next set for this exercise in this session".
type LogRequest struct {
	SessionID         string   `json:"sessionId" binding:"required"`
	ExerciseID        string   `json:"exerciseId" binding:"required"`
	SetNumber         int      `json:"setNumber" binding:"omitempty,gte=0"`
	Reps              *int     `json:"reps" binding:"omitempty,gte=0"`
	WeightKg          *float64 `json:"weightKg" binding:"omitempty,gte=0"`
	DurationSeconds   *int     `json:"durationSeconds" binding:"omitempty,gte=0"`
	DistanceKm        *float64 `json:"distanceKm" binding:"omitempty,gte=0"`
	Notes             string   `json:"notes"`
	PerceivedExertion *int     `json:"perceivedExertion" binding:"omitempty,gte=1,lte=10"`
}

func (r LogRequest) toInput() (primitive.ObjectID, service.LogInput, error) {
	sessionID, err := primitive.ObjectIDFromHex(r.SessionID)
	if err != nil {
		return primitive.NilObjectID, service.LogInput{}, err
	}
	exerciseID, err := primitive.ObjectIDFromHex(r.ExerciseID)
	if err != nil {
		return primitive.NilObjectID, service.LogInput{}, err
	}
	return sessionID, service.LogInput{
		ExerciseID:        exerciseID,
		SetNumber:         r.SetNumber,
		Reps:              r.Reps,
		WeightKg:          r.WeightKg,
		DurationSeconds:   r.DurationSeconds,
		DistanceKm:        r.DistanceKm,
		Notes:             r.Notes,
		PerceivedExertion: r.PerceivedExertion,
	}, nil
}

// BulkLogRequest records several sets against one session in a single
// call.
type BulkLogRequest struct {
	SessionID string        `json:"sessionId" binding:"required"`
	Logs      []BulkLogItem `json:"logs" binding:"required,min=1"`
}

// BulkLogItem is LogRequest without the session reference, which the
// envelope carries once.
type BulkLogItem struct {
	ExerciseID        string   `json:"exerciseId" binding:"required"`
	SetNumber         int      `json:"setNumber" binding:"omitempty,gte=0"`
	Reps              *int     `json:"reps" binding:"omitempty,gte=0"`
	WeightKg          *float64 `json:"weightKg" binding:"omitempty,gte=0"`
	DurationSeconds   *int     `json:"durationSeconds" binding:"omitempty,gte=0"`
	DistanceKm        *float64 `json:"distanceKm" binding:"omitempty,gte=0"`
	Notes             string   `json:"notes"`
	PerceivedExertion *int     `json:"perceivedExertion" binding:"omitempty,gte=1,lte=10"`
}

// BulkLogEntryResponse reports one input index of a bulk create: the
// created log on success, the validation message on failure.
type BulkLogEntryResponse struct {
	Index int                 `json:"index"`
	Log   *domain.ExerciseLog `json:"log,omitempty"`
	Error string              `json:"error,omitempty"`
}

// --- Handlers ---

func (h *LogHandler) Create(c *gin.Context) {
	var req LogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	callerID, _, ok := callerFromContext(c)
	if !ok {
		return
	}
	sessionID, input, err := req.toInput()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid session or exercise ID")
		return
	}
	log, err := h.logService.CreateOne(c.Request.Context(), callerID, sessionID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, log)
}

// CreateBulk records a batch of sets. Each entry succeeds or fails on
// its own; the response preserves input order and reports both
// outcomes per index with 207 Multi-Status when they are mixed.
func (h *LogHandler) CreateBulk(c *gin.Context) {
	var req BulkLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	callerID, _, ok := callerFromContext(c)
	if !ok {
		return
	}
	sessionID, err := primitive.ObjectIDFromHex(req.SessionID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid session ID")
		return
	}

	inputs := make([]service.LogInput, len(req.Logs))
	for i, item := range req.Logs {
		exerciseID, err := primitive.ObjectIDFromHex(item.ExerciseID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid exercise ID at index "+strconv.Itoa(i))
			return
		}
		inputs[i] = service.LogInput{
			ExerciseID:        exerciseID,
			SetNumber:         item.SetNumber,
			Reps:              item.Reps,
			WeightKg:          item.WeightKg,
			DurationSeconds:   item.DurationSeconds,
			DistanceKm:        item.DistanceKm,
			Notes:             item.Notes,
			PerceivedExertion: item.PerceivedExertion,
		}
	}

	results, err := h.logService.CreateBulk(c.Request.Context(), callerID, sessionID, inputs)
	if err != nil {
		respondError(c, err)
		return
	}

	entries := make([]BulkLogEntryResponse, len(results))
	failed := 0
	for i, r := range results {
		entries[i] = BulkLogEntryResponse{Index: r.Index, Log: r.Log}
		if r.Err != nil {
			entries[i].Error = r.Err.Error()
			failed++
		}
	}

	status := http.StatusCreated
	if failed > 0 {
		status = http.StatusMultiStatus
	}
	c.JSON(status, gin.H{
		"created": len(results) - failed,
		"failed":  failed,
		"results": entries,
	})
}

func (h *LogHandler) Get(c *gin.Context) {
	callerID, _, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid log ID")
		return
	}
	log, err := h.logService.Get(c.Request.Context(), callerID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, log)
}

func (h *LogHandler) List(c *gin.Context) {
	callerID, _, ok := callerFromContext(c)
	if !ok {
		return
	}
	filter := domain.LogFilter{
		Page:     intQuery(c, "page", 1),
		PageSize: intQuery(c, "page_size", 50),
	}
	if raw := c.Query("session"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid session ID")
			return
		}
		filter.SessionID = &id
	}
	if raw := c.Query("exercise"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid exercise ID")
			return
		}
		filter.ExerciseID = &id
	}

	logs, err := h.logService.List(c.Request.Context(), callerID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(logs), "results": logs})
}

func (h *LogHandler) Delete(c *gin.Context) {
	callerID, _, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid log ID")
		return
	}
	if err := h.logService.Delete(c.Request.Context(), callerID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
