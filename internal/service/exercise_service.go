package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fittrack/workout-api/internal/domain"
	"fittrack/workout-api/internal/repository"
	"fittrack/workout-api/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseInput carries the writable exercise fields.
type ExerciseInput struct {
	Name             string
	Description      string
	Category         domain.ExerciseCategory
	Difficulty       domain.Difficulty
	PrimaryMuscles   []domain.MuscleGroup
	SecondaryMuscles []domain.MuscleGroup
	Equipment        []string
	Instructions     []string
	VideoURL         string
	ImageURL         string
	IsCustom         bool
	IsPublic         bool
}

// MediaUpload is a presigned upload slot for exercise demo media.
type MediaUpload struct {
	ObjectKey string `json:"objectKey"`
	UploadURL string `json:"uploadUrl"`
}

// ExerciseService manages the exercise catalog. Built-in exercises are
// administered by privileged callers; custom exercises belong to the
// identity that created them.
type ExerciseService interface {
	Create(ctx context.Context, callerID int64, callerRole domain.Role, input ExerciseInput) (*domain.Exercise, error)
	Get(ctx context.Context, callerID int64, exerciseID primitive.ObjectID) (*domain.Exercise, error)
	List(ctx context.Context, callerID int64, filter domain.ExerciseFilter) ([]domain.Exercise, error)
	Update(ctx context.Context, callerID int64, callerRole domain.Role, exerciseID primitive.ObjectID, input ExerciseInput) (*domain.Exercise, error)
	Delete(ctx context.Context, callerID int64, callerRole domain.Role, exerciseID primitive.ObjectID) error
	MediaUploadURL(ctx context.Context, callerID int64, callerRole domain.Role, exerciseID primitive.ObjectID, contentType string) (*MediaUpload, error)
	MediaDownloadURL(ctx context.Context, callerID int64, exerciseID primitive.ObjectID, objectKey string) (string, error)
}

type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	media        storage.FileStorage
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, media storage.FileStorage) ExerciseService {
	return &exerciseService{exerciseRepo: exerciseRepo, media: media}
}

func validateExerciseInput(input ExerciseInput) error {
	if input.Name == "" {
		return fmt.Errorf("%w: exercise name is required", ErrValidation)
	}
	if input.Category == "" {
		return fmt.Errorf("%w: exercise category is required", ErrValidation)
	}
	if input.Difficulty == "" {
		return fmt.Errorf("%w: exercise difficulty is required", ErrValidation)
	}
	return nil
}

// Create adds an exercise to the catalog. Non-custom (built-in)
// exercises require the admin role and carry no owner; custom
// exercises are stamped with the caller and default to private.
func (s *exerciseService) Create(ctx context.Context, callerID int64, callerRole domain.Role, input ExerciseInput) (*domain.Exercise, error) {
	if err := validateExerciseInput(input); err != nil {
		return nil, err
	}

	exercise := &domain.Exercise{
		Name:             input.Name,
		Description:      input.Description,
		Category:         input.Category,
		Difficulty:       input.Difficulty,
		PrimaryMuscles:   input.PrimaryMuscles,
		SecondaryMuscles: input.SecondaryMuscles,
		Equipment:        input.Equipment,
		Instructions:     input.Instructions,
		VideoURL:         input.VideoURL,
		ImageURL:         input.ImageURL,
		IsCustom:         input.IsCustom,
	}

	if input.IsCustom {
		owner := callerID
		exercise.OwnerIdentityID = &owner
		exercise.IsPublic = input.IsPublic
	} else {
		if callerRole != domain.RoleAdmin {
			return nil, fmt.Errorf("%w: only administrators manage built-in exercises", ErrPermissionDenied)
		}
		exercise.OwnerIdentityID = nil
		exercise.IsPublic = true
	}

	id, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return s.getVisible(ctx, callerID, id)
}

func (s *exerciseService) Get(ctx context.Context, callerID int64, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	return s.getVisible(ctx, callerID, exerciseID)
}

func (s *exerciseService) getVisible(ctx context.Context, callerID int64, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if !exercise.VisibleTo(callerID) {
		return nil, fmt.Errorf("%w: exercise %s", ErrNotFound, exerciseID.Hex())
	}
	return exercise, nil
}

func (s *exerciseService) List(ctx context.Context, callerID int64, filter domain.ExerciseFilter) ([]domain.Exercise, error) {
	exercises, err := s.exerciseRepo.List(ctx, callerID, filter)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return exercises, nil
}

// Update rewrites the writable fields of an exercise. Only the owner
// mutates a custom exercise; only an admin mutates a built-in.
func (s *exerciseService) Update(ctx context.Context, callerID int64, callerRole domain.Role, exerciseID primitive.ObjectID, input ExerciseInput) (*domain.Exercise, error) {
	if err := validateExerciseInput(input); err != nil {
		return nil, err
	}

	existing, err := s.getVisible(ctx, callerID, exerciseID)
	if err != nil {
		return nil, err
	}
	if err := s.checkMutable(existing, callerID, callerRole); err != nil {
		return nil, err
	}

	existing.Name = input.Name
	existing.Description = input.Description
	existing.Category = input.Category
	existing.Difficulty = input.Difficulty
	existing.PrimaryMuscles = input.PrimaryMuscles
	existing.SecondaryMuscles = input.SecondaryMuscles
	existing.Equipment = input.Equipment
	existing.Instructions = input.Instructions
	existing.VideoURL = input.VideoURL
	existing.ImageURL = input.ImageURL
	if existing.IsCustom {
		existing.IsPublic = input.IsPublic
	}

	if err := s.exerciseRepo.Update(ctx, existing); err != nil {
		return nil, mapStoreErr(err)
	}
	return existing, nil
}

// Delete removes an exercise. Workouts referencing it keep a dangling
// weak reference; there is deliberately no cascade or block.
func (s *exerciseService) Delete(ctx context.Context, callerID int64, callerRole domain.Role, exerciseID primitive.ObjectID) error {
	existing, err := s.getVisible(ctx, callerID, exerciseID)
	if err != nil {
		return err
	}
	if err := s.checkMutable(existing, callerID, callerRole); err != nil {
		return err
	}
	if err := s.exerciseRepo.Delete(ctx, exerciseID); err != nil {
		return mapStoreErr(err)
	}
	return nil
}

func (s *exerciseService) checkMutable(exercise *domain.Exercise, callerID int64, callerRole domain.Role) error {
	if callerRole == domain.RoleAdmin {
		return nil
	}
	if !exercise.IsCustom {
		return fmt.Errorf("%w: only administrators manage built-in exercises", ErrPermissionDenied)
	}
	if exercise.OwnerIdentityID == nil || *exercise.OwnerIdentityID != callerID {
		return fmt.Errorf("%w: exercise belongs to another user", ErrPermissionDenied)
	}
	return nil
}

// MediaUploadURL issues a presigned PUT for demo video or image media.
// The object key is generated server-side so callers cannot overwrite
// each other's uploads.
func (s *exerciseService) MediaUploadURL(ctx context.Context, callerID int64, callerRole domain.Role, exerciseID primitive.ObjectID, contentType string) (*MediaUpload, error) {
	if contentType == "" {
		return nil, fmt.Errorf("%w: content type is required", ErrValidation)
	}
	existing, err := s.getVisible(ctx, callerID, exerciseID)
	if err != nil {
		return nil, err
	}
	if err := s.checkMutable(existing, callerID, callerRole); err != nil {
		return nil, err
	}

	objectKey := fmt.Sprintf("exercises/%s/%s", exerciseID.Hex(), uuid.NewString())
	url, err := s.media.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, err
	}
	return &MediaUpload{ObjectKey: objectKey, UploadURL: url}, nil
}

// MediaDownloadURL issues a presigned GET for a stored media object.
func (s *exerciseService) MediaDownloadURL(ctx context.Context, callerID int64, exerciseID primitive.ObjectID, objectKey string) (string, error) {
	if objectKey == "" {
		return "", fmt.Errorf("%w: object key is required", ErrValidation)
	}
	if _, err := s.getVisible(ctx, callerID, exerciseID); err != nil {
		return "", err
	}
	return s.media.GeneratePresignedDownloadURL(ctx, objectKey, 15*time.Minute)
}

// mapStoreErr translates repository errors into the caller-facing
// taxonomy. Everything outside the profile path treats an unavailable
// store as a fatal error for the request.
func mapStoreErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, err)
	case errors.Is(err, repository.ErrUnavailable):
		return fmt.Errorf("%w: %s", ErrStoreUnavailable, err)
	case errors.Is(err, repository.ErrDuplicate):
		return fmt.Errorf("%w: %s", ErrValidation, err)
	default:
		return err
	}
}
