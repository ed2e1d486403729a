package service

import (
	"context"
	"testing"
	"time"

	"fittrack/workout-api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type sessionFixture struct {
	svc         *sessionService
	sessionRepo *fakeSessionRepo
	workoutRepo *fakeWorkoutRepo
	logRepo     *fakeLogRepo
}

func newSessionFixture() *sessionFixture {
	sessionRepo := newFakeSessionRepo()
	workoutRepo := newFakeWorkoutRepo()
	logRepo := newFakeLogRepo()
	svc := NewSessionService(sessionRepo, workoutRepo, logRepo).(*sessionService)
	svc.now = func() time.Time { return fixedNow }
	return &sessionFixture{svc: svc, sessionRepo: sessionRepo, workoutRepo: workoutRepo, logRepo: logRepo}
}

func (f *sessionFixture) plannedSession(t *testing.T, ownerID int64) *domain.WorkoutSession {
	t.Helper()
	session, err := f.svc.Create(context.Background(), ownerID, nil, "")
	require.NoError(t, err)
	return session
}

func (f *sessionFixture) startedSession(t *testing.T, ownerID int64) *domain.WorkoutSession {
	t.Helper()
	session := f.plannedSession(t, ownerID)
	started, err := f.svc.Start(context.Background(), ownerID, session.ID)
	require.NoError(t, err)
	return started
}

func TestSessionCreateStartsPlanned(t *testing.T) {
	f := newSessionFixture()

	session := f.plannedSession(t, 1)
	assert.Equal(t, domain.SessionPlanned, session.Status)
	assert.Nil(t, session.StartTime)
	assert.Nil(t, session.WorkoutID)
}

func TestSessionCreateWithInvisibleWorkoutFails(t *testing.T) {
	f := newSessionFixture()

	private := &domain.Workout{Name: "Private", OwnerIdentityID: 2}
	_, err := f.workoutRepo.Create(context.Background(), private)
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), 1, &private.ID, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionLifecycleHappyPath(t *testing.T) {
	f := newSessionFixture()

	session := f.plannedSession(t, 1)

	start := fixedNow
	f.svc.now = func() time.Time { return start }
	started, err := f.svc.Start(context.Background(), 1, session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionInProgress, started.Status)
	require.NotNil(t, started.StartTime)
	assert.Equal(t, start, *started.StartTime)

	// 47m20s elapsed rounds to 47 minutes.
	f.svc.now = func() time.Time { return start.Add(47*time.Minute + 20*time.Second) }
	completed, err := f.svc.Complete(context.Background(), 1, session.ID, CompleteInput{Rating: ptrInt(4)})
	require.NoError(t, err)
	assert.Equal(t, domain.SessionCompleted, completed.Status)
	require.NotNil(t, completed.ActualDurationMinutes)
	assert.Equal(t, 47, *completed.ActualDurationMinutes)
	require.NotNil(t, completed.Rating)
	assert.Equal(t, 4, *completed.Rating)
}

func TestSessionCompleteComputesVolume(t *testing.T) {
	f := newSessionFixture()

	session := f.startedSession(t, 1)
	exerciseID := primitive.NewObjectID()

	// 10x100 + 8x100 = 1800. The duration-only log adds nothing.
	logs := []domain.ExerciseLog{
		{SessionID: session.ID, ExerciseID: exerciseID, OwnerIdentityID: 1, SetNumber: 1, Reps: ptrInt(10), WeightKg: ptrFloat(100)},
		{SessionID: session.ID, ExerciseID: exerciseID, OwnerIdentityID: 1, SetNumber: 2, Reps: ptrInt(8), WeightKg: ptrFloat(100)},
		{SessionID: session.ID, ExerciseID: exerciseID, OwnerIdentityID: 1, SetNumber: 3, DurationSeconds: ptrInt(60)},
	}
	for i := range logs {
		_, err := f.logRepo.Create(context.Background(), &logs[i])
		require.NoError(t, err)
	}

	completed, err := f.svc.Complete(context.Background(), 1, session.ID, CompleteInput{})
	require.NoError(t, err)
	assert.Equal(t, 1800.0, completed.TotalVolume)
}

func TestSessionInvalidTransitions(t *testing.T) {
	f := newSessionFixture()
	ctx := context.Background()

	t.Run("complete a planned session", func(t *testing.T) {
		session := f.plannedSession(t, 1)
		_, err := f.svc.Complete(ctx, 1, session.ID, CompleteInput{})
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("start twice", func(t *testing.T) {
		session := f.startedSession(t, 1)
		_, err := f.svc.Start(ctx, 1, session.ID)
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("complete twice", func(t *testing.T) {
		session := f.startedSession(t, 1)
		_, err := f.svc.Complete(ctx, 1, session.ID, CompleteInput{})
		require.NoError(t, err)
		_, err = f.svc.Complete(ctx, 1, session.ID, CompleteInput{})
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("cancel a completed session", func(t *testing.T) {
		session := f.startedSession(t, 1)
		_, err := f.svc.Complete(ctx, 1, session.ID, CompleteInput{})
		require.NoError(t, err)
		_, err = f.svc.Cancel(ctx, 1, session.ID)
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("start a cancelled session", func(t *testing.T) {
		session := f.plannedSession(t, 1)
		_, err := f.svc.Cancel(ctx, 1, session.ID)
		require.NoError(t, err)
		_, err = f.svc.Start(ctx, 1, session.ID)
		assert.ErrorIs(t, err, ErrInvalidState)
	})
}

func TestSessionCancelFromPlannedAndInProgress(t *testing.T) {
	f := newSessionFixture()
	ctx := context.Background()

	planned := f.plannedSession(t, 1)
	cancelled, err := f.svc.Cancel(ctx, 1, planned.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionCancelled, cancelled.Status)
	assert.Nil(t, cancelled.EndTime, "cancel must not record an end time")

	started := f.startedSession(t, 1)
	cancelled, err = f.svc.Cancel(ctx, 1, started.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionCancelled, cancelled.Status)
	assert.Zero(t, cancelled.TotalVolume)
}

func TestSessionCrossOwnerLooksLikeNotFound(t *testing.T) {
	f := newSessionFixture()
	ctx := context.Background()

	session := f.plannedSession(t, 1)

	_, err := f.svc.Get(ctx, 2, session.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.svc.Start(ctx, 2, session.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.svc.Cancel(ctx, 2, session.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	err = f.svc.Delete(ctx, 2, session.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionUpdateNeverChangesStatus(t *testing.T) {
	f := newSessionFixture()
	ctx := context.Background()

	// Metadata edits are allowed on a completed session; the status
	// stays terminal.
	session := f.startedSession(t, 1)
	_, err := f.svc.Complete(ctx, 1, session.ID, CompleteInput{})
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, 1, session.ID, SessionUpdateInput{
		Notes:  ptrString("great pump"),
		Rating: ptrInt(5),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.SessionCompleted, updated.Status)
	assert.Equal(t, "great pump", updated.Notes)
}

func TestSessionUpdateValidation(t *testing.T) {
	f := newSessionFixture()
	session := f.plannedSession(t, 1)

	_, err := f.svc.Update(context.Background(), 1, session.ID, SessionUpdateInput{Rating: ptrInt(6)})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.svc.Complete(context.Background(), 1, session.ID, CompleteInput{CaloriesBurned: ptrInt(-5)})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSessionDateFallback(t *testing.T) {
	created := fixedNow
	start := fixedNow.Add(1 * time.Hour)
	end := fixedNow.Add(2 * time.Hour)

	session := domain.WorkoutSession{CreatedAt: created}
	assert.Equal(t, created, session.Date())

	session.StartTime = &start
	assert.Equal(t, start, session.Date())

	session.EndTime = &end
	assert.Equal(t, end, session.Date())
}
