package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/apollineguerineau/OnTheFloor/internal/domain"
	"github.com/apollineguerineau/OnTheFloor/internal/repository"
)

// LocationService manages the shared location catalog. Locations have no
// owner and no ordering concerns, so there is nothing to gate or reindex.
type LocationService interface {
	CreateLocation(ctx context.Context, name, address string, locationType domain.LocationType) (*domain.Location, error)
	GetLocation(ctx context.Context, locationID primitive.ObjectID) (*domain.Location, error)
	ListLocations(ctx context.Context) ([]domain.Location, error)
	DeleteLocation(ctx context.Context, locationID primitive.ObjectID) error
}

// locationService implements the LocationService interface.
type locationService struct {
	locationRepo repository.LocationRepository
}

// NewLocationService creates a new instance of locationService.
func NewLocationService(locationRepo repository.LocationRepository) LocationService {
	return &locationService{locationRepo: locationRepo}
}

// CreateLocation creates a new location. An empty type defaults to "none".
func (s *locationService) CreateLocation(ctx context.Context, name, address string, locationType domain.LocationType) (*domain.Location, error) {
	if name == "" {
		return nil, ErrValidationFailed
	}
	if locationType == "" {
		locationType = domain.LocationNone
	}

	location := &domain.Location{
		Name:    name,
		Address: address,
		Type:    locationType,
	}
	locationID, err := s.locationRepo.Create(ctx, location)
	if err != nil {
		return nil, err
	}
	return s.locationRepo.GetByID(ctx, locationID)
}

// GetLocation retrieves a single location.
func (s *locationService) GetLocation(ctx context.Context, locationID primitive.ObjectID) (*domain.Location, error) {
	location, err := s.locationRepo.GetByID(ctx, locationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, err
	}
	return location, nil
}

// ListLocations returns the whole catalog.
func (s *locationService) ListLocations(ctx context.Context) ([]domain.Location, error) {
	return s.locationRepo.List(ctx)
}

// DeleteLocation removes a location from the catalog.
func (s *locationService) DeleteLocation(ctx context.Context, locationID primitive.ObjectID) error {
	err := s.locationRepo.Delete(ctx, locationID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrLocationNotFound
	}
	return err
}
