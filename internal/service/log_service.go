package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fittrack/workout-api/internal/domain"
	"fittrack/workout-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LogInput is one set to record against a session.
type LogInput struct {
	ExerciseID        primitive.ObjectID
	SetNumber         int // 0 means assign the next set number
	Reps              *int
	WeightKg          *float64
	DurationSeconds   *int
	DistanceKm        *float64
	Notes             string
	PerceivedExertion *int
}

// BulkLogResult reports the outcome for one input index of a bulk
// create. Exactly one of Log and Err is set.
type BulkLogResult struct {
	Index int
	Log   *domain.ExerciseLog
	Err   error
}

// LogService validates and persists per-set exercise logs. Logs are
// only accepted while the owning session is in progress.
type LogService interface {
	CreateOne(ctx context.Context, ownerID int64, sessionID primitive.ObjectID, input LogInput) (*domain.ExerciseLog, error)
	CreateBulk(ctx context.Context, ownerID int64, sessionID primitive.ObjectID, inputs []LogInput) ([]BulkLogResult, error)
	Get(ctx context.Context, ownerID int64, logID primitive.ObjectID) (*domain.ExerciseLog, error)
	List(ctx context.Context, ownerID int64, filter domain.LogFilter) ([]domain.ExerciseLog, error)
	Delete(ctx context.Context, ownerID int64, logID primitive.ObjectID) error
}

type logService struct {
	logRepo     repository.LogRepository
	sessionRepo repository.SessionRepository
	now         func() time.Time
}

// NewLogService creates a new instance of logService.
func NewLogService(logRepo repository.LogRepository, sessionRepo repository.SessionRepository) LogService {
	return &logService{
		logRepo:     logRepo,
		sessionRepo: sessionRepo,
		now:         defaultNow,
	}
}

// inProgressSession loads the target session, hides other users'
// sessions behind not-found, and enforces the lifecycle gate: a log
// cannot attach before start or after completion.
func (s *logService) inProgressSession(ctx context.Context, ownerID int64, sessionID primitive.ObjectID) (*domain.WorkoutSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if session.OwnerIdentityID != ownerID {
		return nil, fmt.Errorf("%w: session %s", ErrNotFound, sessionID.Hex())
	}
	if session.Status != domain.SessionInProgress {
		return nil, fmt.Errorf("%w: logs require an in-progress session, status is %q", ErrInvalidState, session.Status)
	}
	return session, nil
}

func validateLogInput(input LogInput) error {
	if input.ExerciseID == primitive.NilObjectID {
		return fmt.Errorf("%w: exercise reference is required", ErrValidation)
	}
	if input.Reps == nil && input.WeightKg == nil && input.DurationSeconds == nil && input.DistanceKm == nil {
		return fmt.Errorf("%w: at least one of reps, weight, duration, or distance is required", ErrValidation)
	}
	if input.SetNumber < 0 {
		return fmt.Errorf("%w: set number must be positive", ErrValidation)
	}
	if input.PerceivedExertion != nil && (*input.PerceivedExertion < 1 || *input.PerceivedExertion > 10) {
		return fmt.Errorf("%w: perceived exertion must be between 1 and 10", ErrValidation)
	}
	return nil
}

// CreateOne records a single set. The owner is always stamped from the
// authenticated caller, never from the payload.
func (s *logService) CreateOne(ctx context.Context, ownerID int64, sessionID primitive.ObjectID, input LogInput) (*domain.ExerciseLog, error) {
	if _, err := s.inProgressSession(ctx, ownerID, sessionID); err != nil {
		return nil, err
	}
	return s.persist(ctx, ownerID, sessionID, input)
}

func (s *logService) persist(ctx context.Context, ownerID int64, sessionID primitive.ObjectID, input LogInput) (*domain.ExerciseLog, error) {
	if err := validateLogInput(input); err != nil {
		return nil, err
	}

	setNumber := input.SetNumber
	if setNumber == 0 {
		max, err := s.logRepo.MaxSetNumber(ctx, sessionID, input.ExerciseID)
		if err != nil {
			return nil, mapStoreErr(err)
		}
		setNumber = max + 1
	}

	log := &domain.ExerciseLog{
		SessionID:         sessionID,
		ExerciseID:        input.ExerciseID,
		OwnerIdentityID:   ownerID,
		SetNumber:         setNumber,
		Reps:              input.Reps,
		WeightKg:          input.WeightKg,
		DurationSeconds:   input.DurationSeconds,
		DistanceKm:        input.DistanceKm,
		Notes:             input.Notes,
		PerceivedExertion: input.PerceivedExertion,
		CompletedAt:       s.now(),
	}
	if _, err := s.logRepo.Create(ctx, log); err != nil {
		// Unique (session, exercise, setNumber) index: an explicit
		// duplicate set number is a caller mistake, not a store fault.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: set %d already logged for this exercise in this session", ErrValidation, setNumber)
		}
		return nil, mapStoreErr(err)
	}
	return log, nil
}

// CreateBulk records a batch of sets sequentially. The policy is
// atomic-per-item, non-atomic-for-the-batch: entries that fail
// validation are reported per index while their valid neighbors
// persist, and the result list matches input order index for index.
// The session gate is checked once up front; a gate or ownership
// failure fails the whole batch before any write. A store outage is
// not a per-item outcome: it aborts the batch fatally, leaving any
// already-persisted prefix in place.
func (s *logService) CreateBulk(ctx context.Context, ownerID int64, sessionID primitive.ObjectID, inputs []LogInput) ([]BulkLogResult, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: empty log batch", ErrValidation)
	}
	if _, err := s.inProgressSession(ctx, ownerID, sessionID); err != nil {
		return nil, err
	}

	results := make([]BulkLogResult, len(inputs))
	for i, input := range inputs {
		log, err := s.persist(ctx, ownerID, sessionID, input)
		if err != nil && errors.Is(err, ErrStoreUnavailable) {
			return nil, err
		}
		results[i] = BulkLogResult{Index: i, Log: log, Err: err}
	}
	return results, nil
}

// Get returns a single log, hiding other users' logs behind not-found.
func (s *logService) Get(ctx context.Context, ownerID int64, logID primitive.ObjectID) (*domain.ExerciseLog, error) {
	log, err := s.logRepo.GetByID(ctx, logID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if log.OwnerIdentityID != ownerID {
		return nil, fmt.Errorf("%w: log %s", ErrNotFound, logID.Hex())
	}
	return log, nil
}

func (s *logService) List(ctx context.Context, ownerID int64, filter domain.LogFilter) ([]domain.ExerciseLog, error) {
	logs, err := s.logRepo.ListByOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return logs, nil
}

func (s *logService) Delete(ctx context.Context, ownerID int64, logID primitive.ObjectID) error {
	if err := s.logRepo.Delete(ctx, logID, ownerID); err != nil {
		return mapStoreErr(err)
	}
	return nil
}
