package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"fittrack/workout-api/internal/domain"
	"fittrack/workout-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CompleteInput is the optional caller-supplied data merged on
// completion.
type CompleteInput struct {
	Rating         *int
	CaloriesBurned *int
	Notes          *string
}

// SessionUpdateInput edits session metadata without touching the
// lifecycle. Status is intentionally absent: only Start, Complete, and
// Cancel move a session through its states.
type SessionUpdateInput struct {
	Notes          *string
	Rating         *int
	CaloriesBurned *int
}

// SessionService drives the workout session state machine:
// planned -> in_progress -> completed, with cancellation allowed from
// planned and in_progress. Completed and cancelled are terminal.
type SessionService interface {
	Create(ctx context.Context, ownerID int64, workoutID *primitive.ObjectID, notes string) (*domain.WorkoutSession, error)
	Get(ctx context.Context, ownerID int64, sessionID primitive.ObjectID) (*domain.WorkoutSession, error)
	List(ctx context.Context, ownerID int64, filter domain.SessionFilter) ([]domain.WorkoutSession, error)
	Update(ctx context.Context, ownerID int64, sessionID primitive.ObjectID, input SessionUpdateInput) (*domain.WorkoutSession, error)
	Start(ctx context.Context, ownerID int64, sessionID primitive.ObjectID) (*domain.WorkoutSession, error)
	Complete(ctx context.Context, ownerID int64, sessionID primitive.ObjectID, input CompleteInput) (*domain.WorkoutSession, error)
	Cancel(ctx context.Context, ownerID int64, sessionID primitive.ObjectID) (*domain.WorkoutSession, error)
	Delete(ctx context.Context, ownerID int64, sessionID primitive.ObjectID) error
}

type sessionService struct {
	sessionRepo repository.SessionRepository
	workoutRepo repository.WorkoutRepository
	logRepo     repository.LogRepository
	now         func() time.Time
}

// NewSessionService creates a new instance of sessionService.
func NewSessionService(sessionRepo repository.SessionRepository, workoutRepo repository.WorkoutRepository, logRepo repository.LogRepository) SessionService {
	return &sessionService{
		sessionRepo: sessionRepo,
		workoutRepo: workoutRepo,
		logRepo:     logRepo,
		now:         defaultNow,
	}
}

// Create starts a new session in the planned state. The workout
// reference is optional and weak: the template may be deleted later
// without affecting the session.
func (s *sessionService) Create(ctx context.Context, ownerID int64, workoutID *primitive.ObjectID, notes string) (*domain.WorkoutSession, error) {
	if workoutID != nil {
		workout, err := s.workoutRepo.GetByID(ctx, *workoutID)
		if err != nil {
			return nil, mapStoreErr(err)
		}
		if !workout.VisibleTo(ownerID) {
			return nil, fmt.Errorf("%w: workout %s", ErrNotFound, workoutID.Hex())
		}
	}

	session := &domain.WorkoutSession{
		OwnerIdentityID: ownerID,
		WorkoutID:       workoutID,
		Status:          domain.SessionPlanned,
		Notes:           notes,
	}
	if _, err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, mapStoreErr(err)
	}
	return session, nil
}

// getOwned loads a session and hides other users' sessions behind
// not-found so session IDs cannot be probed.
func (s *sessionService) getOwned(ctx context.Context, ownerID int64, sessionID primitive.ObjectID) (*domain.WorkoutSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if session.OwnerIdentityID != ownerID {
		return nil, fmt.Errorf("%w: session %s", ErrNotFound, sessionID.Hex())
	}
	return session, nil
}

func (s *sessionService) Get(ctx context.Context, ownerID int64, sessionID primitive.ObjectID) (*domain.WorkoutSession, error) {
	return s.getOwned(ctx, ownerID, sessionID)
}

func (s *sessionService) List(ctx context.Context, ownerID int64, filter domain.SessionFilter) ([]domain.WorkoutSession, error) {
	sessions, err := s.sessionRepo.ListByOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return sessions, nil
}

// Update edits notes, rating, and calories. It never changes status.
func (s *sessionService) Update(ctx context.Context, ownerID int64, sessionID primitive.ObjectID, input SessionUpdateInput) (*domain.WorkoutSession, error) {
	if input.Rating != nil && (*input.Rating < 1 || *input.Rating > 5) {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}
	if input.CaloriesBurned != nil && *input.CaloriesBurned < 0 {
		return nil, fmt.Errorf("%w: calories cannot be negative", ErrValidation)
	}
	if _, err := s.getOwned(ctx, ownerID, sessionID); err != nil {
		return nil, err
	}
	session, err := s.sessionRepo.UpdateMeta(ctx, sessionID, ownerID, input.Notes, input.Rating, input.CaloriesBurned)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return session, nil
}

// Start moves planned -> in_progress and records the start time. The
// transition is a conditional write, so a concurrent start (or cancel)
// can win at most once.
func (s *sessionService) Start(ctx context.Context, ownerID int64, sessionID primitive.ObjectID) (*domain.WorkoutSession, error) {
	session, err := s.getOwned(ctx, ownerID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != domain.SessionPlanned {
		return nil, fmt.Errorf("%w: cannot start a session in status %q", ErrInvalidState, session.Status)
	}

	startTime := s.now()
	updated, err := s.sessionRepo.Transition(ctx, sessionID, ownerID,
		[]domain.SessionStatus{domain.SessionPlanned},
		domain.SessionChange{Status: domain.SessionInProgress, StartTime: &startTime})
	if err != nil {
		return nil, s.transitionErr(err)
	}
	return updated, nil
}

// Complete moves in_progress -> completed, records the end time, and
// computes the derived fields: actual duration in whole minutes and
// total volume as the sum of reps x weight over the session's logs
// (missing factors count as zero).
func (s *sessionService) Complete(ctx context.Context, ownerID int64, sessionID primitive.ObjectID, input CompleteInput) (*domain.WorkoutSession, error) {
	if input.Rating != nil && (*input.Rating < 1 || *input.Rating > 5) {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}
	if input.CaloriesBurned != nil && *input.CaloriesBurned < 0 {
		return nil, fmt.Errorf("%w: calories cannot be negative", ErrValidation)
	}

	session, err := s.getOwned(ctx, ownerID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != domain.SessionInProgress {
		return nil, fmt.Errorf("%w: cannot complete a session in status %q", ErrInvalidState, session.Status)
	}

	logs, err := s.logRepo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	volume := 0.0
	for i := range logs {
		volume += logs[i].Volume()
	}

	endTime := s.now()
	change := domain.SessionChange{
		Status:         domain.SessionCompleted,
		EndTime:        &endTime,
		TotalVolume:    &volume,
		Rating:         input.Rating,
		CaloriesBurned: input.CaloriesBurned,
		Notes:          input.Notes,
	}
	if session.StartTime != nil {
		minutes := int(math.Round(endTime.Sub(*session.StartTime).Minutes()))
		change.ActualDurationMinutes = &minutes
	}

	updated, err := s.sessionRepo.Transition(ctx, sessionID, ownerID,
		[]domain.SessionStatus{domain.SessionInProgress}, change)
	if err != nil {
		return nil, s.transitionErr(err)
	}
	return updated, nil
}

// Cancel is allowed from planned and in_progress. It does not record
// an end time or compute volume.
func (s *sessionService) Cancel(ctx context.Context, ownerID int64, sessionID primitive.ObjectID) (*domain.WorkoutSession, error) {
	session, err := s.getOwned(ctx, ownerID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: cannot cancel a session in status %q", ErrInvalidState, session.Status)
	}

	updated, err := s.sessionRepo.Transition(ctx, sessionID, ownerID,
		[]domain.SessionStatus{domain.SessionPlanned, domain.SessionInProgress},
		domain.SessionChange{Status: domain.SessionCancelled})
	if err != nil {
		return nil, s.transitionErr(err)
	}
	return updated, nil
}

func (s *sessionService) Delete(ctx context.Context, ownerID int64, sessionID primitive.ObjectID) error {
	if err := s.sessionRepo.Delete(ctx, sessionID, ownerID); err != nil {
		return mapStoreErr(err)
	}
	return nil
}

// transitionErr maps a failed conditional write. A not-found here
// means the status guard did not match: the session was already
// checked to exist and belong to the caller, so a concurrent
// transition won the race.
func (s *sessionService) transitionErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: session changed state concurrently", ErrInvalidState)
	}
	return mapStoreErr(err)
}
