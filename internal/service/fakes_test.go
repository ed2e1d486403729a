package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"fittrack/workout-api/internal/domain"
	"fittrack/workout-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes. Each one honors the same error contract
// as the real store: repository.ErrNotFound, ErrDuplicate, and (when
// the failing flag is set) ErrUnavailable.

func ptrInt(v int) *int           { return &v }
func ptrFloat(v float64) *float64 { return &v }
func ptrString(v string) *string  { return &v }

var fixedNow = time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC)

// --- identity ---

type fakeIdentityRepo struct {
	nextID     int64
	identities map[int64]domain.Identity
}

func newFakeIdentityRepo() *fakeIdentityRepo {
	return &fakeIdentityRepo{nextID: 1, identities: make(map[int64]domain.Identity)}
}

func (r *fakeIdentityRepo) Create(_ context.Context, identity *domain.Identity) (int64, error) {
	for _, existing := range r.identities {
		if strings.EqualFold(existing.Email, identity.Email) || existing.Username == identity.Username {
			return 0, repository.ErrDuplicate
		}
	}
	identity.ID = r.nextID
	identity.CreatedAt = fixedNow
	identity.UpdatedAt = fixedNow
	r.nextID++
	r.identities[identity.ID] = *identity
	return identity.ID, nil
}

func (r *fakeIdentityRepo) GetByID(_ context.Context, id int64) (*domain.Identity, error) {
	identity, ok := r.identities[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &identity, nil
}

func (r *fakeIdentityRepo) GetByEmail(_ context.Context, email string) (*domain.Identity, error) {
	for _, identity := range r.identities {
		if strings.EqualFold(identity.Email, email) {
			out := identity
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeIdentityRepo) GetByUsername(_ context.Context, username string) (*domain.Identity, error) {
	for _, identity := range r.identities {
		if identity.Username == username {
			out := identity
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

// --- profile ---

type fakeProfileRepo struct {
	failing  bool
	profiles map[int64]domain.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[int64]domain.Profile)}
}

func (r *fakeProfileRepo) GetOrCreate(_ context.Context, profile *domain.Profile) (*domain.Profile, error) {
	if r.failing {
		return nil, repository.ErrUnavailable
	}
	if existing, ok := r.profiles[profile.IdentityID]; ok {
		out := existing
		return &out, nil
	}
	profile.ID = primitive.NewObjectID()
	profile.CreatedAt = fixedNow
	profile.UpdatedAt = fixedNow
	r.profiles[profile.IdentityID] = *profile
	out := *profile
	return &out, nil
}

func (r *fakeProfileRepo) Update(_ context.Context, identityID int64, patch domain.ProfilePatch) (*domain.Profile, error) {
	if r.failing {
		return nil, repository.ErrUnavailable
	}
	profile, ok := r.profiles[identityID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if patch.Bio != nil {
		profile.Bio = *patch.Bio
	}
	if patch.HeightCm != nil {
		profile.HeightCm = patch.HeightCm
	}
	if patch.WeightKg != nil {
		profile.WeightKg = patch.WeightKg
	}
	if patch.DateOfBirth != nil {
		profile.DateOfBirth = patch.DateOfBirth
	}
	if patch.FitnessGoal != nil {
		profile.FitnessGoal = *patch.FitnessGoal
	}
	if patch.ExperienceLevel != nil {
		profile.ExperienceLevel = *patch.ExperienceLevel
	}
	if patch.PreferredWorkoutTypes != nil {
		profile.PreferredWorkoutTypes = patch.PreferredWorkoutTypes
	}
	r.profiles[identityID] = profile
	return &profile, nil
}

// --- workout ---

type fakeWorkoutRepo struct {
	workouts map[primitive.ObjectID]domain.Workout
}

func newFakeWorkoutRepo() *fakeWorkoutRepo {
	return &fakeWorkoutRepo{workouts: make(map[primitive.ObjectID]domain.Workout)}
}

func (r *fakeWorkoutRepo) Create(_ context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	workout.ID = primitive.NewObjectID()
	workout.CreatedAt = fixedNow
	workout.UpdatedAt = fixedNow
	r.workouts[workout.ID] = *workout
	return workout.ID, nil
}

func (r *fakeWorkoutRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	workout, ok := r.workouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := workout
	out.Exercises = make([]domain.Prescription, len(workout.Exercises))
	copy(out.Exercises, workout.Exercises)
	return &out, nil
}

func (r *fakeWorkoutRepo) ListVisible(_ context.Context, identityID int64, _ domain.WorkoutFilter) ([]domain.Workout, error) {
	var out []domain.Workout
	for _, workout := range r.workouts {
		if workout.VisibleTo(identityID) {
			out = append(out, workout)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	return out, nil
}

func (r *fakeWorkoutRepo) Update(_ context.Context, workout *domain.Workout) error {
	if _, ok := r.workouts[workout.ID]; !ok {
		return repository.ErrNotFound
	}
	workout.UpdatedAt = fixedNow
	r.workouts[workout.ID] = *workout
	return nil
}

func (r *fakeWorkoutRepo) Delete(_ context.Context, id primitive.ObjectID, ownerID int64) error {
	workout, ok := r.workouts[id]
	if !ok || workout.OwnerIdentityID != ownerID {
		return repository.ErrNotFound
	}
	delete(r.workouts, id)
	return nil
}

// --- session ---

type fakeSessionRepo struct {
	sessions map[primitive.ObjectID]domain.WorkoutSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[primitive.ObjectID]domain.WorkoutSession)}
}

func (r *fakeSessionRepo) Create(_ context.Context, session *domain.WorkoutSession) (primitive.ObjectID, error) {
	session.ID = primitive.NewObjectID()
	session.CreatedAt = fixedNow
	session.UpdatedAt = fixedNow
	r.sessions[session.ID] = *session
	return session.ID, nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error) {
	session, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &session, nil
}

func (r *fakeSessionRepo) ListByOwner(_ context.Context, ownerID int64, filter domain.SessionFilter) ([]domain.WorkoutSession, error) {
	var out []domain.WorkoutSession
	for _, session := range r.sessions {
		if session.OwnerIdentityID != ownerID {
			continue
		}
		if filter.Status != "" && session.Status != filter.Status {
			continue
		}
		out = append(out, session)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	return out, nil
}

func (r *fakeSessionRepo) Transition(_ context.Context, id primitive.ObjectID, ownerID int64, expected []domain.SessionStatus, change domain.SessionChange) (*domain.WorkoutSession, error) {
	session, ok := r.sessions[id]
	if !ok || session.OwnerIdentityID != ownerID {
		return nil, repository.ErrNotFound
	}
	matched := false
	for _, status := range expected {
		if session.Status == status {
			matched = true
			break
		}
	}
	if !matched {
		return nil, repository.ErrNotFound
	}
	session.Status = change.Status
	if change.StartTime != nil {
		session.StartTime = change.StartTime
	}
	if change.EndTime != nil {
		session.EndTime = change.EndTime
	}
	if change.ActualDurationMinutes != nil {
		session.ActualDurationMinutes = change.ActualDurationMinutes
	}
	if change.TotalVolume != nil {
		session.TotalVolume = *change.TotalVolume
	}
	if change.Rating != nil {
		session.Rating = change.Rating
	}
	if change.CaloriesBurned != nil {
		session.CaloriesBurned = change.CaloriesBurned
	}
	if change.Notes != nil {
		session.Notes = *change.Notes
	}
	session.UpdatedAt = fixedNow
	r.sessions[id] = session
	return &session, nil
}

func (r *fakeSessionRepo) UpdateMeta(_ context.Context, id primitive.ObjectID, ownerID int64, notes *string, rating *int, calories *int) (*domain.WorkoutSession, error) {
	session, ok := r.sessions[id]
	if !ok || session.OwnerIdentityID != ownerID {
		return nil, repository.ErrNotFound
	}
	if notes != nil {
		session.Notes = *notes
	}
	if rating != nil {
		session.Rating = rating
	}
	if calories != nil {
		session.CaloriesBurned = calories
	}
	session.UpdatedAt = fixedNow
	r.sessions[id] = session
	return &session, nil
}

func (r *fakeSessionRepo) Delete(_ context.Context, id primitive.ObjectID, ownerID int64) error {
	session, ok := r.sessions[id]
	if !ok || session.OwnerIdentityID != ownerID {
		return repository.ErrNotFound
	}
	delete(r.sessions, id)
	return nil
}

// --- log ---

type fakeLogRepo struct {
	logs []domain.ExerciseLog

	// unavailable makes Create fail once failAfter logs exist, to
	// exercise mid-batch outage behavior.
	unavailable bool
	failAfter   int
}

func newFakeLogRepo() *fakeLogRepo {
	return &fakeLogRepo{}
}

func (r *fakeLogRepo) Create(_ context.Context, log *domain.ExerciseLog) (primitive.ObjectID, error) {
	if r.unavailable && len(r.logs) >= r.failAfter {
		return primitive.NilObjectID, repository.ErrUnavailable
	}
	for _, existing := range r.logs {
		if existing.SessionID == log.SessionID && existing.ExerciseID == log.ExerciseID && existing.SetNumber == log.SetNumber {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	log.ID = primitive.NewObjectID()
	r.logs = append(r.logs, *log)
	return log.ID, nil
}

func (r *fakeLogRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.ExerciseLog, error) {
	for _, log := range r.logs {
		if log.ID == id {
			out := log
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeLogRepo) ListByOwner(_ context.Context, ownerID int64, filter domain.LogFilter) ([]domain.ExerciseLog, error) {
	var out []domain.ExerciseLog
	for _, log := range r.logs {
		if log.OwnerIdentityID != ownerID {
			continue
		}
		if filter.SessionID != nil && log.SessionID != *filter.SessionID {
			continue
		}
		if filter.ExerciseID != nil && log.ExerciseID != *filter.ExerciseID {
			continue
		}
		out = append(out, log)
	}
	return out, nil
}

func (r *fakeLogRepo) ListBySession(_ context.Context, sessionID primitive.ObjectID) ([]domain.ExerciseLog, error) {
	var out []domain.ExerciseLog
	for _, log := range r.logs {
		if log.SessionID == sessionID {
			out = append(out, log)
		}
	}
	return out, nil
}

func (r *fakeLogRepo) MaxSetNumber(_ context.Context, sessionID, exerciseID primitive.ObjectID) (int, error) {
	max := 0
	for _, log := range r.logs {
		if log.SessionID == sessionID && log.ExerciseID == exerciseID && log.SetNumber > max {
			max = log.SetNumber
		}
	}
	return max, nil
}

func (r *fakeLogRepo) Delete(_ context.Context, id primitive.ObjectID, ownerID int64) error {
	for i, log := range r.logs {
		if log.ID == id && log.OwnerIdentityID == ownerID {
			r.logs = append(r.logs[:i], r.logs[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}
