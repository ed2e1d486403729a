package api

import (
	"net/http"
	"time"

	"fittrack/workout-api/internal/domain"
	"fittrack/workout-api/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the auth service dependency.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// --- DTOs ---

// RegisterRequest defines the expected JSON for registration. Profile
// fields are optional seeds for the lazily created profile.
type RegisterRequest struct {
	Username        string   `json:"username" binding:"required"`
	Email           string   `json:"email" binding:"required,email"`
	Password        string   `json:"password" binding:"required,min=8"`
	HeightCm        *int     `json:"heightCm"`
	WeightKg        *float64 `json:"weightKg"`
	FitnessGoal     *string  `json:"fitnessGoal"`
	ExperienceLevel *string  `json:"experienceLevel"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// IdentityResponse is the public view of an identity record.
type IdentityResponse struct {
	ID        int64       `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
}

// AuthResponse carries the token, the identity, and — when the profile
// store was reachable — the profile. Warning is set on degraded
// responses so clients know profile data is temporarily missing.
type AuthResponse struct {
	Token   string           `json:"token"`
	User    IdentityResponse `json:"user"`
	Profile *domain.Profile  `json:"profile,omitempty"`
	Warning string           `json:"warning,omitempty"`
}

func mapIdentityToResponse(identity *domain.Identity) IdentityResponse {
	return IdentityResponse{
		ID:        identity.ID,
		Username:  identity.Username,
		Email:     identity.Email,
		Role:      identity.Role,
		CreatedAt: identity.CreatedAt,
	}
}

func buildAuthResponse(token string, identity *domain.Identity, profile service.ProfileResult) AuthResponse {
	resp := AuthResponse{
		Token:   token,
		User:    mapIdentityToResponse(identity),
		Profile: profile.Profile,
	}
	if profile.Degraded {
		resp.Warning = profile.Reason
	}
	return resp
}

// --- Handlers ---

// Register creates a new identity and its profile.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	defaults := domain.ProfilePatch{
		HeightCm: req.HeightCm,
		WeightKg: req.WeightKg,
	}
	if req.FitnessGoal != nil {
		goal := domain.FitnessGoal(*req.FitnessGoal)
		defaults.FitnessGoal = &goal
	}
	if req.ExperienceLevel != nil {
		level := domain.ExperienceLevel(*req.ExperienceLevel)
		defaults.ExperienceLevel = &level
	}

	token, identity, profile, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ProfileDefaults: defaults,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, buildAuthResponse(token, identity, profile))
}

// Login authenticates and returns a token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	token, identity, profile, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildAuthResponse(token, identity, profile))
}

// Me returns the authenticated identity. This endpoint relies only on
// the relational store, so it keeps working when the document store is
// down.
func (h *AuthHandler) Me(c *gin.Context) {
	identityID, err := getIdentityIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token")
		return
	}
	identity, err := h.authService.GetIdentity(c.Request.Context(), identityID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapIdentityToResponse(identity))
}
