package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/apollineguerineau/OnTheFloor/internal/domain"
	"github.com/apollineguerineau/OnTheFloor/internal/repository"
)

const exerciseCollectionName = "exercises"

// mongoExerciseRepository implements repository.ExerciseRepository
type mongoExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoExerciseRepository creates a new Exercise repository backed by MongoDB.
func NewMongoExerciseRepository(db *mongo.Database) repository.ExerciseRepository {
	return &mongoExerciseRepository{
		collection: db.Collection(exerciseCollectionName),
	}
}

// Create inserts a new exercise into the database.
func (r *mongoExerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	if exercise.SessionID == primitive.NilObjectID || exercise.Type == "" {
		return primitive.NilObjectID, errors.New("exercise session ID and type are required")
	}
	if _, err := exercise.Placement(); err != nil {
		return primitive.NilObjectID, err
	}

	exercise.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	exercise.CreatedAt = now
	exercise.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, exercise)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves an exercise by its ID.
func (r *mongoExerciseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	var exercise domain.Exercise
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&exercise)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

// ListBySession retrieves every exercise of a session, free ones first by
// session position, then in-block ones grouped by block and ordered inside it.
func (r *mongoExerciseRepository) ListBySession(ctx context.Context, sessionID primitive.ObjectID) ([]domain.Exercise, error) {
	findOptions := options.Find().SetSort(bson.D{
		{Key: "position", Value: 1},
		{Key: "blockId", Value: 1},
		{Key: "positionInBlock", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, bson.M{"sessionId": sessionID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var exercises []domain.Exercise
	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

// ListFreeBySession retrieves the session's free exercises ordered by their
// session-level position.
func (r *mongoExerciseRepository) ListFreeBySession(ctx context.Context, sessionID primitive.ObjectID) ([]domain.Exercise, error) {
	filter := bson.M{"sessionId": sessionID, "blockId": nil}
	findOptions := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var exercises []domain.Exercise
	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

// ListByBlock retrieves a block's exercises ordered by position in block.
func (r *mongoExerciseRepository) ListByBlock(ctx context.Context, blockID primitive.ObjectID) ([]domain.Exercise, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "positionInBlock", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"blockId": blockID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var exercises []domain.Exercise
	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

// CountFreeBySession counts the session's free exercises.
func (r *mongoExerciseRepository) CountFreeBySession(ctx context.Context, sessionID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"sessionId": sessionID, "blockId": nil})
}

// CountByBlock counts the exercises inside a block.
func (r *mongoExerciseRepository) CountByBlock(ctx context.Context, blockID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"blockId": blockID})
}

// Update modifies an existing exercise, including its placement fields. The
// session reference is never changed.
func (r *mongoExerciseRepository) Update(ctx context.Context, exercise *domain.Exercise) error {
	if exercise.ID == primitive.NilObjectID {
		return errors.New("exercise ID is required for update")
	}
	if _, err := exercise.Placement(); err != nil {
		return err
	}

	update := bson.M{
		"$set": bson.M{
			"exerciseType":    exercise.Type,
			"blockId":         exercise.BlockID,
			"position":        exercise.Position,
			"positionInBlock": exercise.PositionInBlock,
			"weightKg":        exercise.WeightKg,
			"repetitions":     exercise.Repetitions,
			"durationSeconds": exercise.DurationSeconds,
			"distanceMeters":  exercise.DistanceMeters,
			"notes":           exercise.Notes,
			"updatedAt":       time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": exercise.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// UpdatePosition rewrites the session-level position of a free exercise.
func (r *mongoExerciseRepository) UpdatePosition(ctx context.Context, id primitive.ObjectID, position int) error {
	update := bson.M{
		"$set": bson.M{
			"position":  position,
			"updatedAt": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "blockId": nil}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// UpdatePositionInBlock rewrites the block-level position of an in-block
// exercise.
func (r *mongoExerciseRepository) UpdatePositionInBlock(ctx context.Context, id primitive.ObjectID, position int) error {
	update := bson.M{
		"$set": bson.M{
			"positionInBlock": position,
			"updatedAt":       time.Now().UTC(),
		},
	}

	filter := bson.M{"_id": id, "blockId": bson.M{"$ne": nil}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes an exercise record.
func (r *mongoExerciseRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteByBlock removes every exercise of a block (block delete cascade).
func (r *mongoExerciseRepository) DeleteByBlock(ctx context.Context, blockID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"blockId": blockID})
	return err
}

// DeleteBySession removes every exercise of a session (session delete cascade).
func (r *mongoExerciseRepository) DeleteBySession(ctx context.Context, sessionID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"sessionId": sessionID})
	return err
}

// EnsureExerciseIndexes creates necessary indexes for the exercises collection.
func EnsureExerciseIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "sessionId", Value: 1}, {Key: "position", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "blockId", Value: 1}, {Key: "positionInBlock", Value: 1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
