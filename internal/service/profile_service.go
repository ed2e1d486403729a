package service

import (
	"context"
	"errors"
	"fmt"

	"fittrack/workout-api/internal/domain"
	"fittrack/workout-api/internal/repository"

	"github.com/rs/zerolog"
)

// ProfileResult is the outcome of a profile operation. When the
// document store is unreachable the operation still succeeds for the
// caller, with Degraded set and Profile nil; identity-bearing flows
// (login, registration, whoami) proceed on identity data alone. The
// tagged result makes the swallow-versus-propagate boundary visible in
// the signature instead of hiding it behind a caught error.
type ProfileResult struct {
	Profile  *domain.Profile
	Degraded bool
	Reason   string
}

// ProfileService is the adapter between identity records and their
// document-store profiles. It is the only component allowed to swallow
// store-level errors.
type ProfileService interface {
	GetOrCreate(ctx context.Context, identityID int64, defaults domain.ProfilePatch) (ProfileResult, error)
	Update(ctx context.Context, identityID int64, patch domain.ProfilePatch) (ProfileResult, error)
}

type profileService struct {
	profileRepo repository.ProfileRepository
	log         zerolog.Logger
}

// NewProfileService creates a new instance of profileService.
func NewProfileService(profileRepo repository.ProfileRepository, log zerolog.Logger) ProfileService {
	return &profileService{profileRepo: profileRepo, log: log}
}

// GetOrCreate returns the existing profile for the identity, creating
// it with the supplied defaults if missing. Creation is idempotent: a
// second call with an existing record returns that record unmodified.
func (s *profileService) GetOrCreate(ctx context.Context, identityID int64, defaults domain.ProfilePatch) (ProfileResult, error) {
	if identityID <= 0 {
		return ProfileResult{}, fmt.Errorf("%w: identity ID is required", ErrValidation)
	}

	profile := &domain.Profile{IdentityID: identityID}
	if defaults.Bio != nil {
		profile.Bio = *defaults.Bio
	}
	profile.HeightCm = defaults.HeightCm
	profile.WeightKg = defaults.WeightKg
	profile.DateOfBirth = defaults.DateOfBirth
	if defaults.FitnessGoal != nil {
		profile.FitnessGoal = *defaults.FitnessGoal
	}
	if defaults.ExperienceLevel != nil {
		profile.ExperienceLevel = *defaults.ExperienceLevel
	}
	profile.PreferredWorkoutTypes = defaults.PreferredWorkoutTypes

	created, err := s.profileRepo.GetOrCreate(ctx, profile)
	if err != nil {
		if errors.Is(err, repository.ErrUnavailable) {
			return s.degrade("get-or-create", identityID, err), nil
		}
		return ProfileResult{}, err
	}
	return ProfileResult{Profile: created}, nil
}

// Update applies a partial update to the identity's profile.
func (s *profileService) Update(ctx context.Context, identityID int64, patch domain.ProfilePatch) (ProfileResult, error) {
	if identityID <= 0 {
		return ProfileResult{}, fmt.Errorf("%w: identity ID is required", ErrValidation)
	}
	if patch.IsEmpty() {
		return ProfileResult{}, fmt.Errorf("%w: no profile fields supplied", ErrValidation)
	}

	profile, err := s.profileRepo.Update(ctx, identityID, patch)
	if err != nil {
		if errors.Is(err, repository.ErrUnavailable) {
			return s.degrade("update", identityID, err), nil
		}
		if errors.Is(err, repository.ErrNotFound) {
			// Profile never materialized; create it from the patch.
			return s.GetOrCreate(ctx, identityID, patch)
		}
		return ProfileResult{}, err
	}
	return ProfileResult{Profile: profile}, nil
}

func (s *profileService) degrade(op string, identityID int64, cause error) ProfileResult {
	s.log.Warn().
		Str("op", op).
		Int64("identityId", identityID).
		Err(cause).
		Msg("profile store unavailable, continuing without profile")
	return ProfileResult{
		Degraded: true,
		Reason:   "profile storage unavailable",
	}
}
