package service

import (
	"context"
	"fmt"
	"math"

	"fittrack/workout-api/internal/domain"
	"fittrack/workout-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// assumedSetDurationSeconds is the fixed per-set time used by the
// duration estimate. It is a heuristic, not measured time.
const assumedSetDurationSeconds = 45

// cloneNameSuffix marks a cloned template.
const cloneNameSuffix = " (Copy)"

// PrescriptionInput is one planned exercise within a workout template.
type PrescriptionInput struct {
	ExerciseID    primitive.ObjectID
	Order         int
	TargetSets    int
	TargetRepsMin int
	TargetRepsMax int
	TargetWeight  float64
	RestSeconds   int
	Notes         string
}

// WorkoutInput carries the writable workout template fields. Derived
// fields (total exercises, estimated duration) are computed here and
// never taken from the client.
type WorkoutInput struct {
	Name        string
	Description string
	Exercises   []PrescriptionInput
	Difficulty  domain.Difficulty
	Tags        []string
	IsTemplate  bool
	IsPublic    bool
}

// WorkoutService owns workout templates and their embedded
// prescription lists.
type WorkoutService interface {
	Create(ctx context.Context, ownerID int64, input WorkoutInput) (*domain.Workout, error)
	Get(ctx context.Context, callerID int64, workoutID primitive.ObjectID) (*domain.Workout, error)
	List(ctx context.Context, callerID int64, filter domain.WorkoutFilter) ([]domain.Workout, error)
	Update(ctx context.Context, ownerID int64, workoutID primitive.ObjectID, input WorkoutInput) (*domain.Workout, error)
	Clone(ctx context.Context, callerID int64, workoutID primitive.ObjectID) (*domain.Workout, error)
	Delete(ctx context.Context, ownerID int64, workoutID primitive.ObjectID) error
}

type workoutService struct {
	workoutRepo repository.WorkoutRepository
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(workoutRepo repository.WorkoutRepository) WorkoutService {
	return &workoutService{workoutRepo: workoutRepo}
}

// validatePrescriptions checks the invariants of an exercise list:
// every order is a positive integer, orders are strictly unique within
// the workout, and each reps range is consistent.
func validatePrescriptions(inputs []PrescriptionInput) ([]domain.Prescription, error) {
	seen := make(map[int]bool, len(inputs))
	prescriptions := make([]domain.Prescription, 0, len(inputs))
	for _, in := range inputs {
		if in.ExerciseID == primitive.NilObjectID {
			return nil, fmt.Errorf("%w: prescription is missing an exercise reference", ErrValidation)
		}
		if in.Order < 1 {
			return nil, fmt.Errorf("%w: order must be a positive integer, got %d", ErrValidation, in.Order)
		}
		if seen[in.Order] {
			return nil, fmt.Errorf("%w: duplicate order %d", ErrValidation, in.Order)
		}
		seen[in.Order] = true
		if in.TargetSets < 1 {
			return nil, fmt.Errorf("%w: target sets must be at least 1", ErrValidation)
		}
		if in.TargetRepsMax < in.TargetRepsMin {
			return nil, fmt.Errorf("%w: target reps max %d is below min %d", ErrValidation, in.TargetRepsMax, in.TargetRepsMin)
		}
		if in.TargetWeight < 0 {
			return nil, fmt.Errorf("%w: target weight cannot be negative", ErrValidation)
		}
		if in.RestSeconds < 0 {
			return nil, fmt.Errorf("%w: rest seconds cannot be negative", ErrValidation)
		}
		prescriptions = append(prescriptions, domain.Prescription{
			ExerciseID:    in.ExerciseID,
			Order:         in.Order,
			TargetSets:    in.TargetSets,
			TargetRepsMin: in.TargetRepsMin,
			TargetRepsMax: in.TargetRepsMax,
			TargetWeight:  in.TargetWeight,
			RestSeconds:   in.RestSeconds,
			Notes:         in.Notes,
		})
	}
	return prescriptions, nil
}

// estimateDurationMinutes sums target_sets x (rest + assumed set time)
// over the prescription list and rounds to whole minutes. The same
// list always yields the same estimate.
func estimateDurationMinutes(prescriptions []domain.Prescription) int {
	totalSeconds := 0
	for _, p := range prescriptions {
		totalSeconds += p.TargetSets * (p.RestSeconds + assumedSetDurationSeconds)
	}
	return int(math.Round(float64(totalSeconds) / 60.0))
}

func (s *workoutService) Create(ctx context.Context, ownerID int64, input WorkoutInput) (*domain.Workout, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: workout name is required", ErrValidation)
	}
	prescriptions, err := validatePrescriptions(input.Exercises)
	if err != nil {
		return nil, err
	}

	workout := &domain.Workout{
		Name:                     input.Name,
		Description:              input.Description,
		OwnerIdentityID:          ownerID,
		Exercises:                prescriptions,
		Difficulty:               input.Difficulty,
		EstimatedDurationMinutes: estimateDurationMinutes(prescriptions),
		Tags:                     input.Tags,
		IsTemplate:               input.IsTemplate,
		IsPublic:                 input.IsPublic,
		TotalExercises:           len(prescriptions),
	}

	if _, err := s.workoutRepo.Create(ctx, workout); err != nil {
		return nil, mapStoreErr(err)
	}
	return workout, nil
}

func (s *workoutService) Get(ctx context.Context, callerID int64, workoutID primitive.ObjectID) (*domain.Workout, error) {
	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if !workout.VisibleTo(callerID) {
		return nil, fmt.Errorf("%w: workout %s", ErrNotFound, workoutID.Hex())
	}
	return workout, nil
}

func (s *workoutService) List(ctx context.Context, callerID int64, filter domain.WorkoutFilter) ([]domain.Workout, error) {
	workouts, err := s.workoutRepo.ListVisible(ctx, callerID, filter)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return workouts, nil
}

// Update re-validates the exercise list and recomputes every derived
// field, exactly as Create does.
func (s *workoutService) Update(ctx context.Context, ownerID int64, workoutID primitive.ObjectID, input WorkoutInput) (*domain.Workout, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: workout name is required", ErrValidation)
	}
	prescriptions, err := validatePrescriptions(input.Exercises)
	if err != nil {
		return nil, err
	}

	existing, err := s.Get(ctx, ownerID, workoutID)
	if err != nil {
		return nil, err
	}
	if existing.OwnerIdentityID != ownerID {
		return nil, fmt.Errorf("%w: workout belongs to another user", ErrPermissionDenied)
	}

	existing.Name = input.Name
	existing.Description = input.Description
	existing.Exercises = prescriptions
	existing.Difficulty = input.Difficulty
	existing.Tags = input.Tags
	existing.IsTemplate = input.IsTemplate
	existing.IsPublic = input.IsPublic
	existing.TotalExercises = len(prescriptions)
	existing.EstimatedDurationMinutes = estimateDurationMinutes(prescriptions)

	if err := s.workoutRepo.Update(ctx, existing); err != nil {
		return nil, mapStoreErr(err)
	}
	return existing, nil
}

// Clone copies a visible workout into the caller's library. The
// prescription list is deep-copied, the clone is private, and derived
// fields are recomputed from the copied list rather than carried over.
func (s *workoutService) Clone(ctx context.Context, callerID int64, workoutID primitive.ObjectID) (*domain.Workout, error) {
	original, err := s.Get(ctx, callerID, workoutID)
	if err != nil {
		return nil, err
	}

	prescriptions := original.ClonePrescriptions()
	tags := make([]string, len(original.Tags))
	copy(tags, original.Tags)

	clone := &domain.Workout{
		Name:                     original.Name + cloneNameSuffix,
		Description:              original.Description,
		OwnerIdentityID:          callerID,
		Exercises:                prescriptions,
		Difficulty:               original.Difficulty,
		EstimatedDurationMinutes: estimateDurationMinutes(prescriptions),
		Tags:                     tags,
		IsTemplate:               original.IsTemplate,
		IsPublic:                 false,
		TotalExercises:           len(prescriptions),
	}

	if _, err := s.workoutRepo.Create(ctx, clone); err != nil {
		return nil, mapStoreErr(err)
	}
	return clone, nil
}

func (s *workoutService) Delete(ctx context.Context, ownerID int64, workoutID primitive.ObjectID) error {
	existing, err := s.Get(ctx, ownerID, workoutID)
	if err != nil {
		return err
	}
	if existing.OwnerIdentityID != ownerID {
		return fmt.Errorf("%w: workout belongs to another user", ErrPermissionDenied)
	}
	if err := s.workoutRepo.Delete(ctx, workoutID, ownerID); err != nil {
		return mapStoreErr(err)
	}
	return nil
}
