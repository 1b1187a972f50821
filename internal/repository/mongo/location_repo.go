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

const locationCollectionName = "locations"

// mongoLocationRepository implements repository.LocationRepository
type mongoLocationRepository struct {
	collection *mongo.Collection
}

// NewMongoLocationRepository creates a new Location repository backed by MongoDB.
func NewMongoLocationRepository(db *mongo.Database) repository.LocationRepository {
	return &mongoLocationRepository{
		collection: db.Collection(locationCollectionName),
	}
}

// Create inserts a new location into the database.
func (r *mongoLocationRepository) Create(ctx context.Context, location *domain.Location) (primitive.ObjectID, error) {
	if location.Name == "" {
		return primitive.NilObjectID, errors.New("location name is required")
	}

	location.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	location.CreatedAt = now
	location.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, location)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a location by its ID.
func (r *mongoLocationRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Location, error) {
	var location domain.Location
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&location)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &location, nil
}

// List retrieves all locations sorted by name.
func (r *mongoLocationRepository) List(ctx context.Context) ([]domain.Location, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var locations []domain.Location
	if err = cursor.All(ctx, &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

// Delete removes a location record.
func (r *mongoLocationRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
