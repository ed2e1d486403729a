package api

import (
	"net/http"
	"time"

	"fittrack/workout-api/internal/domain"
	"fittrack/workout-api/internal/service"

	"github.com/gin-gonic/gin"
)

// ProfileHandler holds the profile service dependency.
type ProfileHandler struct {
	profileService service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// UpdateProfileRequest carries a partial profile update. Absent fields
// are left unchanged.
type UpdateProfileRequest struct {
	Bio                   *string  `json:"bio"`
	HeightCm              *int     `json:"heightCm" binding:"omitempty,gt=0"`
	WeightKg              *float64 `json:"weightKg" binding:"omitempty,gt=0"`
	DateOfBirth           *string  `json:"dateOfBirth"` // YYYY-MM-DD
	FitnessGoal           *string  `json:"fitnessGoal"`
	ExperienceLevel       *string  `json:"experienceLevel"`
	PreferredWorkoutTypes []string `json:"preferredWorkoutTypes"`
}

// ProfileEnvelope wraps a profile response with the degradation
// warning when the document store was unreachable.
type ProfileEnvelope struct {
	Profile *domain.Profile `json:"profile,omitempty"`
	Warning string          `json:"warning,omitempty"`
}

func profileEnvelope(result service.ProfileResult) ProfileEnvelope {
	env := ProfileEnvelope{Profile: result.Profile}
	if result.Degraded {
		env.Warning = result.Reason
	}
	return env
}

// Get returns the caller's profile, creating it on first access.
func (h *ProfileHandler) Get(c *gin.Context) {
	identityID, err := getIdentityIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token")
		return
	}
	result, err := h.profileService.GetOrCreate(c.Request.Context(), identityID, domain.ProfilePatch{})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profileEnvelope(result))
}

// Update applies a partial update to the caller's profile.
func (h *ProfileHandler) Update(c *gin.Context) {
	identityID, err := getIdentityIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	patch := domain.ProfilePatch{
		Bio:                   req.Bio,
		HeightCm:              req.HeightCm,
		WeightKg:              req.WeightKg,
		PreferredWorkoutTypes: req.PreferredWorkoutTypes,
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "dateOfBirth must be YYYY-MM-DD")
			return
		}
		patch.DateOfBirth = &dob
	}
	if req.FitnessGoal != nil {
		goal := domain.FitnessGoal(*req.FitnessGoal)
		patch.FitnessGoal = &goal
	}
	if req.ExperienceLevel != nil {
		level := domain.ExperienceLevel(*req.ExperienceLevel)
		patch.ExperienceLevel = &level
	}

	result, err := h.profileService.Update(c.Request.Context(), identityID, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profileEnvelope(result))
}
