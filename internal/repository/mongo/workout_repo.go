package mongo

import (
	"context"
	"errors"
	"time"

	"fittrack/workout-api/internal/domain"
	"fittrack/workout-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const workoutCollectionName = "workouts"

// mongoWorkoutRepository implements repository.WorkoutRepository
type mongoWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutRepository creates a workout repository backed by MongoDB.
// Prescriptions are embedded in the workout document so a template is
// always read atomically with its exercise list.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{collection: db.Collection(workoutCollectionName)}
}

func (r *mongoWorkoutRepository) Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	if workout.Name == "" || workout.OwnerIdentityID == 0 {
		return primitive.NilObjectID, errors.New("workout name and owner are required")
	}
	workout.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	workout.CreatedAt = now
	workout.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, workout)
	if err != nil {
		return primitive.NilObjectID, mapErr(err)
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

func (r *mongoWorkoutRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	var workout domain.Workout
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&workout); err != nil {
		return nil, mapErr(err)
	}
	return &workout, nil
}

// ListVisible returns public workouts plus the identity's own.
func (r *mongoWorkoutRepository) ListVisible(ctx context.Context, identityID int64, filter domain.WorkoutFilter) ([]domain.Workout, error) {
	query := bson.M{"$or": []bson.M{
		{"isPublic": true},
		{"ownerIdentityId": identityID},
	}}
	if filter.Difficulty != "" {
		query["difficulty"] = filter.Difficulty
	}
	if filter.Tag != "" {
		query["tags"] = filter.Tag
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		findOptions.SetSkip(int64((page - 1) * filter.PageSize)).SetLimit(int64(filter.PageSize))
	}

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, mapErr(err)
	}
	defer cursor.Close(ctx)

	var workouts []domain.Workout
	if err := cursor.All(ctx, &workouts); err != nil {
		return nil, mapErr(err)
	}
	return workouts, nil
}

func (r *mongoWorkoutRepository) Update(ctx context.Context, workout *domain.Workout) error {
	if workout.ID == primitive.NilObjectID {
		return errors.New("workout ID is required for update")
	}
	update := bson.M{"$set": bson.M{
		"name":                     workout.Name,
		"description":              workout.Description,
		"exercises":                workout.Exercises,
		"difficulty":               workout.Difficulty,
		"estimatedDurationMinutes": workout.EstimatedDurationMinutes,
		"tags":                     workout.Tags,
		"isTemplate":               workout.IsTemplate,
		"isPublic":                 workout.IsPublic,
		"totalExercises":           workout.TotalExercises,
		"updatedAt":                time.Now().UTC(),
		// ownerIdentityId is never rewritten
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": workout.ID}, update)
	if err != nil {
		return mapErr(err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a workout. The owner filter makes the ownership check
// part of the write itself.
func (r *mongoWorkoutRepository) Delete(ctx context.Context, id primitive.ObjectID, ownerID int64) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "ownerIdentityId": ownerID})
	if err != nil {
		return mapErr(err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureWorkoutIndexes creates indexes for the workouts collection.
func EnsureWorkoutIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "ownerIdentityId", Value: 1}}},
		{Keys: bson.D{{Key: "isPublic", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
