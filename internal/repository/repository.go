package repository

import (
	"context"

	"fittrack/workout-api/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer. Services map these onto the
// caller-facing error taxonomy.
var (
	ErrNotFound    = RepositoryError("not found")
	ErrDuplicate   = RepositoryError("duplicate record")
	ErrUnavailable = RepositoryError("store unavailable")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// IdentityRepository is the relational store holding user credentials.
type IdentityRepository interface {
	Create(ctx context.Context, identity *domain.Identity) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Identity, error)
	GetByEmail(ctx context.Context, email string) (*domain.Identity, error)
	GetByUsername(ctx context.Context, username string) (*domain.Identity, error)
}

// ProfileRepository is the document-store side of the identity/profile
// pair. GetOrCreate must be idempotent per identity ID.
type ProfileRepository interface {
	GetOrCreate(ctx context.Context, profile *domain.Profile) (*domain.Profile, error)
	Update(ctx context.Context, identityID int64, patch domain.ProfilePatch) (*domain.Profile, error)
}

// ExerciseRepository manages the exercise catalog.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	List(ctx context.Context, visibleTo int64, filter domain.ExerciseFilter) ([]domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// WorkoutRepository manages workout templates with their embedded
// prescription lists.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	ListVisible(ctx context.Context, identityID int64, filter domain.WorkoutFilter) ([]domain.Workout, error)
	Update(ctx context.Context, workout *domain.Workout) error
	Delete(ctx context.Context, id primitive.ObjectID, ownerID int64) error
}

// SessionRepository manages workout sessions. Transition performs a
// conditional write: the update applies only if the stored status is
// one of the expected values, which closes the race between concurrent
// lifecycle calls without a separate lock.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.WorkoutSession) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error)
	ListByOwner(ctx context.Context, ownerID int64, filter domain.SessionFilter) ([]domain.WorkoutSession, error)
	Transition(ctx context.Context, id primitive.ObjectID, ownerID int64, expected []domain.SessionStatus, change domain.SessionChange) (*domain.WorkoutSession, error)
	UpdateMeta(ctx context.Context, id primitive.ObjectID, ownerID int64, notes *string, rating *int, calories *int) (*domain.WorkoutSession, error)
	Delete(ctx context.Context, id primitive.ObjectID, ownerID int64) error
}

// LogRepository manages per-set exercise logs.
type LogRepository interface {
	Create(ctx context.Context, log *domain.ExerciseLog) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ExerciseLog, error)
	ListByOwner(ctx context.Context, ownerID int64, filter domain.LogFilter) ([]domain.ExerciseLog, error)
	ListBySession(ctx context.Context, sessionID primitive.ObjectID) ([]domain.ExerciseLog, error)
	MaxSetNumber(ctx context.Context, sessionID, exerciseID primitive.ObjectID) (int, error)
	Delete(ctx context.Context, id primitive.ObjectID, ownerID int64) error
}
