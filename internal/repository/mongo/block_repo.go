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

const blockCollectionName = "blocks"

// mongoBlockRepository implements repository.BlockRepository
type mongoBlockRepository struct {
	collection *mongo.Collection
}

// NewMongoBlockRepository creates a new Block repository backed by MongoDB.
func NewMongoBlockRepository(db *mongo.Database) repository.BlockRepository {
	return &mongoBlockRepository{
		collection: db.Collection(blockCollectionName),
	}
}

// Create inserts a new block into the database.
func (r *mongoBlockRepository) Create(ctx context.Context, block *domain.Block) (primitive.ObjectID, error) {
	if block.SessionID == primitive.NilObjectID || block.Type == "" {
		return primitive.NilObjectID, errors.New("block session ID and type are required")
	}

	block.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	block.CreatedAt = now
	block.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, block)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a block by its ID.
func (r *mongoBlockRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Block, error) {
	var block domain.Block
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&block)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &block, nil
}

// ListBySession retrieves all blocks of a session ordered by position.
func (r *mongoBlockRepository) ListBySession(ctx context.Context, sessionID primitive.ObjectID) ([]domain.Block, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"sessionId": sessionID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var blocks []domain.Block
	if err = cursor.All(ctx, &blocks); err != nil {
		return nil, err
	}
	return blocks, nil
}

// CountBySession counts the blocks of a session.
func (r *mongoBlockRepository) CountBySession(ctx context.Context, sessionID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"sessionId": sessionID})
}

// Update modifies an existing block. The session reference is never changed.
func (r *mongoBlockRepository) Update(ctx context.Context, block *domain.Block) error {
	if block.ID == primitive.NilObjectID {
		return errors.New("block ID is required for update")
	}

	update := bson.M{
		"$set": bson.M{
			"blockType": block.Type,
			"position":  block.Position,
			"duration":  block.Duration,
			"notes":     block.Notes,
			"updatedAt": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": block.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// UpdatePosition rewrites only the position of a block. Used by reindex
// passes so shifting siblings never touches their other attributes.
func (r *mongoBlockRepository) UpdatePosition(ctx context.Context, id primitive.ObjectID, position int) error {
	update := bson.M{
		"$set": bson.M{
			"position":  position,
			"updatedAt": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a block record.
func (r *mongoBlockRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteBySession removes all blocks of a session. Deleting nothing is fine;
// a session may have no blocks.
func (r *mongoBlockRepository) DeleteBySession(ctx context.Context, sessionID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"sessionId": sessionID})
	return err
}

// EnsureBlockIndexes creates necessary indexes for the blocks collection.
func EnsureBlockIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Not unique: reindex passes move siblings one at a time, so a
			// slot is briefly shared mid-pass. Density is maintained by the
			// service layer under the session lock.
			Keys:    bson.D{{Key: "sessionId", Value: 1}, {Key: "position", Value: 1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
