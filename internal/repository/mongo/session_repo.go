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

const sessionCollectionName = "sessions"

// mongoSessionRepository implements repository.SessionRepository
type mongoSessionRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionRepository creates a session repository backed by MongoDB.
func NewMongoSessionRepository(db *mongo.Database) repository.SessionRepository {
	return &mongoSessionRepository{collection: db.Collection(sessionCollectionName)}
}

func (r *mongoSessionRepository) Create(ctx context.Context, session *domain.WorkoutSession) (primitive.ObjectID, error) {
	if session.OwnerIdentityID == 0 {
		return primitive.NilObjectID, errors.New("session owner is required")
	}
	session.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now
	if session.Status == "" {
		session.Status = domain.SessionPlanned
	}

	result, err := r.collection.InsertOne(ctx, session)
	if err != nil {
		return primitive.NilObjectID, mapErr(err)
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

func (r *mongoSessionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error) {
	var session domain.WorkoutSession
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session); err != nil {
		return nil, mapErr(err)
	}
	return &session, nil
}

func (r *mongoSessionRepository) ListByOwner(ctx context.Context, ownerID int64, filter domain.SessionFilter) ([]domain.WorkoutSession, error) {
	query := bson.M{"ownerIdentityId": ownerID}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	created := bson.M{}
	if filter.DateFrom != nil {
		created["$gte"] = *filter.DateFrom
	}
	if filter.DateTo != nil {
		created["$lte"] = *filter.DateTo
	}
	if len(created) > 0 {
		query["createdAt"] = created
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

	var sessions []domain.WorkoutSession
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, mapErr(err)
	}
	return sessions, nil
}

// Transition applies a lifecycle change only if the stored status is
// one of the expected values. The status guard in the filter is what
// prevents two concurrent starts (or a start racing a cancel) from
// both succeeding.
func (r *mongoSessionRepository) Transition(ctx context.Context, id primitive.ObjectID, ownerID int64, expected []domain.SessionStatus, change domain.SessionChange) (*domain.WorkoutSession, error) {
	filter := bson.M{
		"_id":             id,
		"ownerIdentityId": ownerID,
		"status":          bson.M{"$in": expected},
	}

	set := bson.M{
		"status":    change.Status,
		"updatedAt": time.Now().UTC(),
	}
	if change.StartTime != nil {
		set["startTime"] = *change.StartTime
	}
	if change.EndTime != nil {
		set["endTime"] = *change.EndTime
	}
	if change.ActualDurationMinutes != nil {
		set["actualDurationMinutes"] = *change.ActualDurationMinutes
	}
	if change.TotalVolume != nil {
		set["totalVolume"] = *change.TotalVolume
	}
	if change.Rating != nil {
		set["rating"] = *change.Rating
	}
	if change.CaloriesBurned != nil {
		set["caloriesBurned"] = *change.CaloriesBurned
	}
	if change.Notes != nil {
		set["notes"] = *change.Notes
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var session domain.WorkoutSession
	err := r.collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&session)
	if err != nil {
		return nil, mapErr(err)
	}
	return &session, nil
}

// UpdateMeta edits notes/rating/calories without touching the lifecycle.
func (r *mongoSessionRepository) UpdateMeta(ctx context.Context, id primitive.ObjectID, ownerID int64, notes *string, rating *int, calories *int) (*domain.WorkoutSession, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if notes != nil {
		set["notes"] = *notes
	}
	if rating != nil {
		set["rating"] = *rating
	}
	if calories != nil {
		set["caloriesBurned"] = *calories
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var session domain.WorkoutSession
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id, "ownerIdentityId": ownerID}, bson.M{"$set": set}, opts).Decode(&session)
	if err != nil {
		return nil, mapErr(err)
	}
	return &session, nil
}

func (r *mongoSessionRepository) Delete(ctx context.Context, id primitive.ObjectID, ownerID int64) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "ownerIdentityId": ownerID})
	if err != nil {
		return mapErr(err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureSessionIndexes creates indexes for the sessions collection.
func EnsureSessionIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "ownerIdentityId", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "ownerIdentityId", Value: 1}, {Key: "createdAt", Value: -1}}},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
