package mongo

import (
	"context"
	"errors"

	"fittrack/workout-api/internal/domain"
	"fittrack/workout-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const logCollectionName = "exercise_logs"

// mongoLogRepository implements repository.LogRepository
type mongoLogRepository struct {
	collection *mongo.Collection
}

// NewMongoLogRepository creates an exercise log repository backed by MongoDB.
func NewMongoLogRepository(db *mongo.Database) repository.LogRepository {
	return &mongoLogRepository{collection: db.Collection(logCollectionName)}
}

func (r *mongoLogRepository) Create(ctx context.Context, log *domain.ExerciseLog) (primitive.ObjectID, error) {
	if log.SessionID == primitive.NilObjectID || log.ExerciseID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("session and exercise IDs are required")
	}
	log.ID = primitive.NewObjectID()

	result, err := r.collection.InsertOne(ctx, log)
	if err != nil {
		return primitive.NilObjectID, mapErr(err)
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

func (r *mongoLogRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ExerciseLog, error) {
	var log domain.ExerciseLog
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&log); err != nil {
		return nil, mapErr(err)
	}
	return &log, nil
}

func (r *mongoLogRepository) ListByOwner(ctx context.Context, ownerID int64, filter domain.LogFilter) ([]domain.ExerciseLog, error) {
	query := bson.M{"ownerIdentityId": ownerID}
	if filter.SessionID != nil {
		query["sessionId"] = *filter.SessionID
	}
	if filter.ExerciseID != nil {
		query["exerciseId"] = *filter.ExerciseID
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "completedAt", Value: -1}})
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

	var logs []domain.ExerciseLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, mapErr(err)
	}
	return logs, nil
}

// ListBySession returns every log of a session in logging order, for
// total volume computation on completion.
func (r *mongoLogRepository) ListBySession(ctx context.Context, sessionID primitive.ObjectID) ([]domain.ExerciseLog, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "completedAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"sessionId": sessionID}, findOptions)
	if err != nil {
		return nil, mapErr(err)
	}
	defer cursor.Close(ctx)

	var logs []domain.ExerciseLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, mapErr(err)
	}
	return logs, nil
}

// MaxSetNumber returns the highest set number logged so far for the
// session/exercise pair, or 0 when none exist.
func (r *mongoLogRepository) MaxSetNumber(ctx context.Context, sessionID, exerciseID primitive.ObjectID) (int, error) {
	findOptions := options.FindOne().SetSort(bson.D{{Key: "setNumber", Value: -1}})
	var log domain.ExerciseLog
	err := r.collection.FindOne(ctx, bson.M{"sessionId": sessionID, "exerciseId": exerciseID}, findOptions).Decode(&log)
	if err != nil {
		if errors.Is(mapErr(err), repository.ErrNotFound) {
			return 0, nil
		}
		return 0, mapErr(err)
	}
	return log.SetNumber, nil
}

func (r *mongoLogRepository) Delete(ctx context.Context, id primitive.ObjectID, ownerID int64) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "ownerIdentityId": ownerID})
	if err != nil {
		return mapErr(err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureLogIndexes creates indexes for the exercise_logs collection.
// The unique (sessionId, exerciseId, setNumber) index backs the
// one-log-per-set invariant: a duplicate set number surfaces as
// ErrDuplicate from Create.
func EnsureLogIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "sessionId", Value: 1}, {Key: "exerciseId", Value: 1}, {Key: "setNumber", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "ownerIdentityId", Value: 1}, {Key: "completedAt", Value: -1}}},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
