package service

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"fittrack/workout-api/internal/domain"
	"fittrack/workout-api/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeExerciseRepo struct {
	exercises map[primitive.ObjectID]domain.Exercise
}

func newFakeExerciseRepo() *fakeExerciseRepo {
	return &fakeExerciseRepo{exercises: make(map[primitive.ObjectID]domain.Exercise)}
}

func (r *fakeExerciseRepo) Create(_ context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	exercise.ID = primitive.NewObjectID()
	exercise.CreatedAt = fixedNow
	exercise.UpdatedAt = fixedNow
	r.exercises[exercise.ID] = *exercise
	return exercise.ID, nil
}

func (r *fakeExerciseRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	exercise, ok := r.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &exercise, nil
}

func (r *fakeExerciseRepo) List(_ context.Context, visibleTo int64, filter domain.ExerciseFilter) ([]domain.Exercise, error) {
	var out []domain.Exercise
	for _, exercise := range r.exercises {
		if !exercise.VisibleTo(visibleTo) {
			continue
		}
		if filter.Category != "" && exercise.Category != filter.Category {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(exercise.Name), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, exercise)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeExerciseRepo) Update(_ context.Context, exercise *domain.Exercise) error {
	if _, ok := r.exercises[exercise.ID]; !ok {
		return repository.ErrNotFound
	}
	r.exercises[exercise.ID] = *exercise
	return nil
}

func (r *fakeExerciseRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.exercises[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.exercises, id)
	return nil
}

type fakeFileStorage struct {
	deleted []string
}

func (s *fakeFileStorage) GeneratePresignedUploadURL(_ context.Context, objectKey, contentType string, _ time.Duration) (string, error) {
	return "https://media.test/upload/" + objectKey + "?type=" + contentType, nil
}

func (s *fakeFileStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "https://media.test/download/" + objectKey, nil
}

func (s *fakeFileStorage) DeleteObject(_ context.Context, objectKey string) error {
	s.deleted = append(s.deleted, objectKey)
	return nil
}

func newTestExerciseService() (ExerciseService, *fakeExerciseRepo) {
	repo := newFakeExerciseRepo()
	return NewExerciseService(repo, &fakeFileStorage{}), repo
}

func customExerciseInput() ExerciseInput {
	return ExerciseInput{
		Name:           "Bulgarian Split Squat",
		Category:       domain.CategoryStrength,
		Difficulty:     domain.DifficultyIntermediate,
		PrimaryMuscles: []domain.MuscleGroup{domain.MuscleQuadriceps, domain.MuscleGlutes},
		IsCustom:       true,
	}
}

func TestExerciseCreateCustom(t *testing.T) {
	svc, _ := newTestExerciseService()

	exercise, err := svc.Create(context.Background(), 1, domain.RoleUser, customExerciseInput())
	require.NoError(t, err)

	assert.True(t, exercise.IsCustom)
	require.NotNil(t, exercise.OwnerIdentityID)
	assert.Equal(t, int64(1), *exercise.OwnerIdentityID)
	assert.False(t, exercise.IsPublic)
}

func TestExerciseCreateBuiltInRequiresAdmin(t *testing.T) {
	svc, _ := newTestExerciseService()
	ctx := context.Background()

	input := customExerciseInput()
	input.IsCustom = false

	_, err := svc.Create(ctx, 1, domain.RoleUser, input)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	exercise, err := svc.Create(ctx, 1, domain.RoleAdmin, input)
	require.NoError(t, err)
	assert.Nil(t, exercise.OwnerIdentityID, "built-ins carry no owner")
	assert.True(t, exercise.IsPublic)
}

func TestExerciseCreateValidation(t *testing.T) {
	svc, _ := newTestExerciseService()

	input := customExerciseInput()
	input.Category = ""
	_, err := svc.Create(context.Background(), 1, domain.RoleUser, input)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestExerciseVisibility(t *testing.T) {
	svc, _ := newTestExerciseService()
	ctx := context.Background()

	private, err := svc.Create(ctx, 1, domain.RoleUser, customExerciseInput())
	require.NoError(t, err)

	shared := customExerciseInput()
	shared.Name = "Shared Movement"
	shared.IsPublic = true
	public, err := svc.Create(ctx, 1, domain.RoleUser, shared)
	require.NoError(t, err)

	builtin := customExerciseInput()
	builtin.Name = "Barbell Squat"
	builtin.IsCustom = false
	global, err := svc.Create(ctx, 9, domain.RoleAdmin, builtin)
	require.NoError(t, err)

	_, err = svc.Get(ctx, 2, private.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Get(ctx, 2, public.ID)
	assert.NoError(t, err)
	_, err = svc.Get(ctx, 2, global.ID)
	assert.NoError(t, err)

	// Listing for user 2 skips user 1's private exercise.
	listed, err := svc.List(ctx, 2, domain.ExerciseFilter{})
	require.NoError(t, err)
	names := make([]string, len(listed))
	for i, e := range listed {
		names[i] = e.Name
	}
	assert.ElementsMatch(t, []string{"Shared Movement", "Barbell Squat"}, names)
}

func TestExerciseUpdatePermissions(t *testing.T) {
	svc, _ := newTestExerciseService()
	ctx := context.Background()

	builtin := customExerciseInput()
	builtin.IsCustom = false
	global, err := svc.Create(ctx, 9, domain.RoleAdmin, builtin)
	require.NoError(t, err)

	// Regular users cannot touch built-ins.
	input := customExerciseInput()
	input.IsCustom = false
	_, err = svc.Update(ctx, 1, domain.RoleUser, global.ID, input)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	mine, err := svc.Create(ctx, 1, domain.RoleUser, customExerciseInput())
	require.NoError(t, err)

	renamed := customExerciseInput()
	renamed.Name = "Rear-Foot Elevated Split Squat"
	updated, err := svc.Update(ctx, 1, domain.RoleUser, mine.ID, renamed)
	require.NoError(t, err)
	assert.Equal(t, "Rear-Foot Elevated Split Squat", updated.Name)
}

func TestExerciseDeleteByNonOwnerFails(t *testing.T) {
	svc, _ := newTestExerciseService()
	ctx := context.Background()

	shared := customExerciseInput()
	shared.IsPublic = true
	exercise, err := svc.Create(ctx, 1, domain.RoleUser, shared)
	require.NoError(t, err)

	// Visible to user 2, but not theirs to delete.
	err = svc.Delete(ctx, 2, domain.RoleUser, exercise.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	err = svc.Delete(ctx, 1, domain.RoleUser, exercise.ID)
	assert.NoError(t, err)
}

func TestExerciseMediaUploadURL(t *testing.T) {
	svc, _ := newTestExerciseService()
	ctx := context.Background()

	exercise, err := svc.Create(ctx, 1, domain.RoleUser, customExerciseInput())
	require.NoError(t, err)

	upload, err := svc.MediaUploadURL(ctx, 1, domain.RoleUser, exercise.ID, "video/mp4")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(upload.ObjectKey, "exercises/"+exercise.ID.Hex()+"/"))
	assert.Contains(t, upload.UploadURL, upload.ObjectKey)

	_, err = svc.MediaUploadURL(ctx, 1, domain.RoleUser, exercise.ID, "")
	assert.ErrorIs(t, err, ErrValidation)

	// Mutation rules apply to media slots too.
	_, err = svc.MediaUploadURL(ctx, 2, domain.RoleUser, exercise.ID, "video/mp4")
	assert.ErrorIs(t, err, ErrNotFound)
}
