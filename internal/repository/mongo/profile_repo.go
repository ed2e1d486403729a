package mongo

import (
	"context"
	"time"

	"fittrack/workout-api/internal/domain"
	"fittrack/workout-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const profileCollectionName = "profiles"

// mongoProfileRepository implements repository.ProfileRepository
type mongoProfileRepository struct {
	collection *mongo.Collection
}

// NewMongoProfileRepository creates a profile repository backed by MongoDB.
func NewMongoProfileRepository(db *mongo.Database) repository.ProfileRepository {
	return &mongoProfileRepository{collection: db.Collection(profileCollectionName)}
}

// GetOrCreate inserts the profile if no record exists for its identity
// ID, otherwise returns the existing record unmodified. The upsert with
// $setOnInsert against the unique identityId index makes the call
// idempotent even under concurrent registration and login.
func (r *mongoProfileRepository) GetOrCreate(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	now := time.Now().UTC()
	if profile.FitnessGoal == "" {
		profile.FitnessGoal = domain.GoalGeneral
	}
	if profile.ExperienceLevel == "" {
		profile.ExperienceLevel = domain.ExperienceBeginner
	}

	filter := bson.M{"identityId": profile.IdentityID}
	onInsert := bson.M{
		"_id":             primitive.NewObjectID(),
		"identityId":      profile.IdentityID,
		"bio":             profile.Bio,
		"heightCm":        profile.HeightCm,
		"weightKg":        profile.WeightKg,
		"dateOfBirth":     profile.DateOfBirth,
		"fitnessGoal":     profile.FitnessGoal,
		"experienceLevel": profile.ExperienceLevel,
		"createdAt":       now,
		"updatedAt":       now,
	}
	if profile.PreferredWorkoutTypes != nil {
		onInsert["preferredWorkoutTypes"] = profile.PreferredWorkoutTypes
	}
	update := bson.M{"$setOnInsert": onInsert}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var result domain.Profile
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&result); err != nil {
		return nil, mapErr(err)
	}
	return &result, nil
}

func (r *mongoProfileRepository) Update(ctx context.Context, identityID int64, patch domain.ProfilePatch) (*domain.Profile, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.Bio != nil {
		set["bio"] = *patch.Bio
	}
	if patch.HeightCm != nil {
		set["heightCm"] = *patch.HeightCm
	}
	if patch.WeightKg != nil {
		set["weightKg"] = *patch.WeightKg
	}
	if patch.DateOfBirth != nil {
		set["dateOfBirth"] = *patch.DateOfBirth
	}
	if patch.FitnessGoal != nil {
		set["fitnessGoal"] = *patch.FitnessGoal
	}
	if patch.ExperienceLevel != nil {
		set["experienceLevel"] = *patch.ExperienceLevel
	}
	if patch.PreferredWorkoutTypes != nil {
		set["preferredWorkoutTypes"] = patch.PreferredWorkoutTypes
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var profile domain.Profile
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"identityId": identityID}, bson.M{"$set": set}, opts).Decode(&profile)
	if err != nil {
		return nil, mapErr(err)
	}
	return &profile, nil
}

// EnsureProfileIndexes creates indexes for the profiles collection. The
// unique identityId index backs GetOrCreate's idempotency.
func EnsureProfileIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "identityId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
