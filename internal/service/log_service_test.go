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

type logFixture struct {
	svc         *logService
	logRepo     *fakeLogRepo
	sessionRepo *fakeSessionRepo
}

func newLogFixture() *logFixture {
	logRepo := newFakeLogRepo()
	sessionRepo := newFakeSessionRepo()
	svc := NewLogService(logRepo, sessionRepo).(*logService)
	svc.now = func() time.Time { return fixedNow }
	return &logFixture{svc: svc, logRepo: logRepo, sessionRepo: sessionRepo}
}

func (f *logFixture) sessionWithStatus(t *testing.T, ownerID int64, status domain.SessionStatus) primitive.ObjectID {
	t.Helper()
	session := &domain.WorkoutSession{OwnerIdentityID: ownerID, Status: status}
	_, err := f.sessionRepo.Create(context.Background(), session)
	require.NoError(t, err)
	return session.ID
}

func repsInput(exerciseID primitive.ObjectID, reps int, weight float64) LogInput {
	return LogInput{ExerciseID: exerciseID, Reps: ptrInt(reps), WeightKg: ptrFloat(weight)}
}

func TestLogCreateStampsOwnerAndTime(t *testing.T) {
	f := newLogFixture()
	sessionID := f.sessionWithStatus(t, 1, domain.SessionInProgress)
	exerciseID := primitive.NewObjectID()

	log, err := f.svc.CreateOne(context.Background(), 1, sessionID, repsInput(exerciseID, 10, 60))
	require.NoError(t, err)

	assert.Equal(t, int64(1), log.OwnerIdentityID)
	assert.Equal(t, sessionID, log.SessionID)
	assert.Equal(t, fixedNow, log.CompletedAt)
	assert.Equal(t, 1, log.SetNumber, "first set auto-assigns number 1")
}

func TestLogSetNumberAutoIncrement(t *testing.T) {
	f := newLogFixture()
	sessionID := f.sessionWithStatus(t, 1, domain.SessionInProgress)
	exerciseID := primitive.NewObjectID()
	ctx := context.Background()

	first, err := f.svc.CreateOne(ctx, 1, sessionID, repsInput(exerciseID, 10, 60))
	require.NoError(t, err)
	second, err := f.svc.CreateOne(ctx, 1, sessionID, repsInput(exerciseID, 8, 60))
	require.NoError(t, err)
	assert.Equal(t, 1, first.SetNumber)
	assert.Equal(t, 2, second.SetNumber)

	// An explicit set number is respected and the counter follows it.
	explicit := repsInput(exerciseID, 6, 60)
	explicit.SetNumber = 7
	third, err := f.svc.CreateOne(ctx, 1, sessionID, explicit)
	require.NoError(t, err)
	assert.Equal(t, 7, third.SetNumber)

	fourth, err := f.svc.CreateOne(ctx, 1, sessionID, repsInput(exerciseID, 6, 60))
	require.NoError(t, err)
	assert.Equal(t, 8, fourth.SetNumber)
}

func TestLogDuplicateSetNumberRejected(t *testing.T) {
	f := newLogFixture()
	sessionID := f.sessionWithStatus(t, 1, domain.SessionInProgress)
	exerciseID := primitive.NewObjectID()
	ctx := context.Background()

	input := repsInput(exerciseID, 10, 60)
	input.SetNumber = 3
	_, err := f.svc.CreateOne(ctx, 1, sessionID, input)
	require.NoError(t, err)

	// Same set number for the same exercise in the same session is a
	// client mistake, not a second set.
	repeat := repsInput(exerciseID, 8, 60)
	repeat.SetNumber = 3
	_, err = f.svc.CreateOne(ctx, 1, sessionID, repeat)
	assert.ErrorIs(t, err, ErrValidation)

	stored, err := f.logRepo.ListBySession(ctx, sessionID)
	require.NoError(t, err)
	assert.Len(t, stored, 1)

	// The same set number is fine for a different exercise.
	other := repsInput(primitive.NewObjectID(), 8, 60)
	other.SetNumber = 3
	_, err = f.svc.CreateOne(ctx, 1, sessionID, other)
	assert.NoError(t, err)
}

func TestLogRequiresMetric(t *testing.T) {
	f := newLogFixture()
	sessionID := f.sessionWithStatus(t, 1, domain.SessionInProgress)
	exerciseID := primitive.NewObjectID()

	_, err := f.svc.CreateOne(context.Background(), 1, sessionID, LogInput{
		ExerciseID: exerciseID,
		Notes:      "felt heavy",
	})
	assert.ErrorIs(t, err, ErrValidation)

	// Any single metric is enough.
	_, err = f.svc.CreateOne(context.Background(), 1, sessionID, LogInput{
		ExerciseID: exerciseID,
		DistanceKm: ptrFloat(5.2),
	})
	assert.NoError(t, err)
}

func TestLogRequiresInProgressSession(t *testing.T) {
	f := newLogFixture()
	exerciseID := primitive.NewObjectID()
	ctx := context.Background()

	for _, status := range []domain.SessionStatus{domain.SessionPlanned, domain.SessionCompleted, domain.SessionCancelled} {
		sessionID := f.sessionWithStatus(t, 1, status)
		_, err := f.svc.CreateOne(ctx, 1, sessionID, repsInput(exerciseID, 10, 60))
		assert.ErrorIs(t, err, ErrInvalidState, "status %s must reject logs", status)
	}
}

func TestLogPerceivedExertionRange(t *testing.T) {
	f := newLogFixture()
	sessionID := f.sessionWithStatus(t, 1, domain.SessionInProgress)
	input := repsInput(primitive.NewObjectID(), 10, 60)
	input.PerceivedExertion = ptrInt(11)

	_, err := f.svc.CreateOne(context.Background(), 1, sessionID, input)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLogCrossOwnerSessionLooksLikeNotFound(t *testing.T) {
	f := newLogFixture()
	sessionID := f.sessionWithStatus(t, 2, domain.SessionInProgress)

	_, err := f.svc.CreateOne(context.Background(), 1, sessionID, repsInput(primitive.NewObjectID(), 10, 60))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLogBulkAtomicPerItem(t *testing.T) {
	f := newLogFixture()
	sessionID := f.sessionWithStatus(t, 1, domain.SessionInProgress)
	exerciseID := primitive.NewObjectID()

	inputs := []LogInput{
		repsInput(exerciseID, 10, 60),
		{ExerciseID: exerciseID, Notes: "no metric, must fail"},
		repsInput(exerciseID, 8, 60),
	}
	results, err := f.svc.CreateBulk(context.Background(), 1, sessionID, inputs)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.NoError(t, results[0].Err)
	require.NotNil(t, results[0].Log)
	assert.ErrorIs(t, results[1].Err, ErrValidation)
	assert.Nil(t, results[1].Log)
	assert.NoError(t, results[2].Err)
	require.NotNil(t, results[2].Log)

	// The invalid middle item must not block its neighbors.
	stored, err := f.logRepo.ListBySession(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
	assert.Equal(t, 0, results[0].Index)
	assert.Equal(t, 2, results[2].Index)
}

func TestLogBulkAbortsOnStoreOutage(t *testing.T) {
	f := newLogFixture()
	sessionID := f.sessionWithStatus(t, 1, domain.SessionInProgress)
	exerciseID := primitive.NewObjectID()

	f.logRepo.unavailable = true
	f.logRepo.failAfter = 1

	inputs := []LogInput{
		repsInput(exerciseID, 10, 60),
		repsInput(exerciseID, 8, 60),
		repsInput(exerciseID, 6, 60),
	}
	results, err := f.svc.CreateBulk(context.Background(), 1, sessionID, inputs)

	// An outage mid-batch is fatal, not a per-item outcome.
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Nil(t, results)

	// The prefix written before the outage stays persisted.
	f.logRepo.unavailable = false
	stored, listErr := f.logRepo.ListBySession(context.Background(), sessionID)
	require.NoError(t, listErr)
	assert.Len(t, stored, 1)
}

func TestLogBulkGateFailsWholeBatch(t *testing.T) {
	f := newLogFixture()
	sessionID := f.sessionWithStatus(t, 1, domain.SessionPlanned)
	exerciseID := primitive.NewObjectID()

	_, err := f.svc.CreateBulk(context.Background(), 1, sessionID, []LogInput{repsInput(exerciseID, 10, 60)})
	assert.ErrorIs(t, err, ErrInvalidState)

	stored, err := f.logRepo.ListBySession(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestLogBulkEmptyBatchFails(t *testing.T) {
	f := newLogFixture()
	sessionID := f.sessionWithStatus(t, 1, domain.SessionInProgress)

	_, err := f.svc.CreateBulk(context.Background(), 1, sessionID, nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLogListFiltersByOwner(t *testing.T) {
	f := newLogFixture()
	mine := f.sessionWithStatus(t, 1, domain.SessionInProgress)
	theirs := f.sessionWithStatus(t, 2, domain.SessionInProgress)
	exerciseID := primitive.NewObjectID()
	ctx := context.Background()

	_, err := f.svc.CreateOne(ctx, 1, mine, repsInput(exerciseID, 10, 60))
	require.NoError(t, err)
	_, err = f.svc.CreateOne(ctx, 2, theirs, repsInput(exerciseID, 5, 40))
	require.NoError(t, err)

	logs, err := f.svc.List(ctx, 1, domain.LogFilter{})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, int64(1), logs[0].OwnerIdentityID)
}

func TestLogGetOwnerScoped(t *testing.T) {
	f := newLogFixture()
	sessionID := f.sessionWithStatus(t, 1, domain.SessionInProgress)
	ctx := context.Background()

	log, err := f.svc.CreateOne(ctx, 1, sessionID, repsInput(primitive.NewObjectID(), 10, 60))
	require.NoError(t, err)

	got, err := f.svc.Get(ctx, 1, log.ID)
	require.NoError(t, err)
	assert.Equal(t, log.ID, got.ID)

	// Another user's lookup must not reveal that the log exists.
	_, err = f.svc.Get(ctx, 2, log.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.Get(ctx, 1, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLogDeleteByNonOwnerFails(t *testing.T) {
	f := newLogFixture()
	sessionID := f.sessionWithStatus(t, 1, domain.SessionInProgress)

	log, err := f.svc.CreateOne(context.Background(), 1, sessionID, repsInput(primitive.NewObjectID(), 10, 60))
	require.NoError(t, err)

	err = f.svc.Delete(context.Background(), 2, log.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	err = f.svc.Delete(context.Background(), 1, log.ID)
	assert.NoError(t, err)
}
