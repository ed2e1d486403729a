package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fittrack/workout-api/internal/domain"
	"fittrack/workout-api/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrUserAlreadyExists    = errors.New("user with this username or email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid credentials")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
)

const minPasswordLength = 8

// RegisterInput carries registration data plus optional profile defaults.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ProfileDefaults domain.ProfilePatch
}

// AuthService registers and authenticates identities against the
// relational store and lazily materializes their document-store
// profile. A profile-store outage degrades the response; it never
// fails registration or login.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (string, *domain.Identity, ProfileResult, error)
	Login(ctx context.Context, email, password string) (string, *domain.Identity, ProfileResult, error)
	GetIdentity(ctx context.Context, identityID int64) (*domain.Identity, error)
}

type authService struct {
	identityRepo  repository.IdentityRepository
	profiles      ProfileService
	jwtSecret     string
	jwtExpiration time.Duration
	now           func() time.Time
}

// NewAuthService creates a new instance of authService.
func NewAuthService(identityRepo repository.IdentityRepository, profiles ProfileService, jwtSecret string, jwtExpiration time.Duration) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty")
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour
	}
	return &authService{
		identityRepo:  identityRepo,
		profiles:      profiles,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		now:           defaultNow,
	}
}

// Register creates the identity record and attempts to create the
// profile. The profile result may come back degraded when the document
// store is down; the identity and token are still returned.
func (s *authService) Register(ctx context.Context, input RegisterInput) (string, *domain.Identity, ProfileResult, error) {
	if input.Username == "" || input.Email == "" || input.Password == "" {
		return "", nil, ProfileResult{}, fmt.Errorf("%w: username, email, and password are required", ErrValidation)
	}
	if len(input.Password) < minPasswordLength {
		return "", nil, ProfileResult{}, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, ProfileResult{}, ErrHashingFailed
	}

	identity := &domain.Identity{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hashed),
		Role:         domain.RoleUser,
	}
	if _, err := s.identityRepo.Create(ctx, identity); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return "", nil, ProfileResult{}, ErrUserAlreadyExists
		}
		return "", nil, ProfileResult{}, err
	}

	profileResult, err := s.profiles.GetOrCreate(ctx, identity.ID, input.ProfileDefaults)
	if err != nil {
		return "", nil, ProfileResult{}, err
	}

	token, err := s.generateJWT(identity)
	if err != nil {
		return "", nil, ProfileResult{}, ErrTokenGeneration
	}

	identity.PasswordHash = ""
	return token, identity, profileResult, nil
}

// Login authenticates by email and issues a JWT. The profile is
// fetched (or lazily created) on every successful login.
func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.Identity, ProfileResult, error) {
	if email == "" || password == "" {
		return "", nil, ProfileResult{}, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	identity, err := s.identityRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ProfileResult{}, ErrAuthenticationFailed
		}
		return "", nil, ProfileResult{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)); err != nil {
		return "", nil, ProfileResult{}, ErrAuthenticationFailed
	}

	profileResult, err := s.profiles.GetOrCreate(ctx, identity.ID, domain.ProfilePatch{})
	if err != nil {
		return "", nil, ProfileResult{}, err
	}

	token, err := s.generateJWT(identity)
	if err != nil {
		return "", nil, ProfileResult{}, ErrTokenGeneration
	}

	identity.PasswordHash = ""
	return token, identity, profileResult, nil
}

// GetIdentity resolves an identity by ID. Used by the "who am I"
// endpoint; it must keep working while the document store is down.
func (s *authService) GetIdentity(ctx context.Context, identityID int64) (*domain.Identity, error) {
	identity, err := s.identityRepo.GetByID(ctx, identityID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: identity %d", ErrNotFound, identityID)
		}
		return nil, err
	}
	identity.PasswordHash = ""
	return identity, nil
}

// --- JWT Helper ---

// Claims defines the structure of the JWT payload.
type Claims struct {
	IdentityID int64       `json:"uid"`
	Role       domain.Role `json:"role"`
	jwt.RegisteredClaims
}

func (s *authService) generateJWT(identity *domain.Identity) (string, error) {
	now := s.now()
	claims := &Claims{
		IdentityID: identity.ID,
		Role:       identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", identity.ID),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "workout-api",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
