package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/apollineguerineau/OnTheFloor/internal/repository"
)

// --- Error Definitions ---
var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrBlockNotFound    = errors.New("block not found")
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrPhotoNotFound    = errors.New("photo not found")
	// ErrAccessDenied is kept distinct from the not-found errors: an existing
	// resource owned by someone else is a 403, an absent one a 404.
	ErrAccessDenied = errors.New("access denied: resource belongs to another user")
)

// OwnershipService resolves the owning session of any block, exercise or
// photo and asserts the acting user is that session's owner. Every composer
// mutation runs one of these checks before touching domain state.
type OwnershipService interface {
	CheckSessionOwner(ctx context.Context, userID, sessionID primitive.ObjectID) error
	CheckBlockOwner(ctx context.Context, userID, blockID primitive.ObjectID) error
	CheckExerciseOwner(ctx context.Context, userID, exerciseID primitive.ObjectID) error
	CheckPhotoOwner(ctx context.Context, userID, photoID primitive.ObjectID) error
}

// ownershipService implements the OwnershipService interface.
type ownershipService struct {
	sessionRepo  repository.SessionRepository
	blockRepo    repository.BlockRepository
	exerciseRepo repository.ExerciseRepository
	photoRepo    repository.PhotoRepository
}

// NewOwnershipService creates a new instance of ownershipService.
func NewOwnershipService(
	sessionRepo repository.SessionRepository,
	blockRepo repository.BlockRepository,
	exerciseRepo repository.ExerciseRepository,
	photoRepo repository.PhotoRepository,
) OwnershipService {
	return &ownershipService{
		sessionRepo:  sessionRepo,
		blockRepo:    blockRepo,
		exerciseRepo: exerciseRepo,
		photoRepo:    photoRepo,
	}
}

// CheckSessionOwner fails with ErrSessionNotFound if the session does not
// exist and ErrAccessDenied if it belongs to another user.
func (s *ownershipService) CheckSessionOwner(ctx context.Context, userID, sessionID primitive.ObjectID) error {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionNotFound
		}
		return err
	}
	if session.UserID != userID {
		return ErrAccessDenied
	}
	return nil
}

// CheckBlockOwner resolves the block's session and delegates.
func (s *ownershipService) CheckBlockOwner(ctx context.Context, userID, blockID primitive.ObjectID) error {
	block, err := s.blockRepo.GetByID(ctx, blockID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrBlockNotFound
		}
		return err
	}
	return s.CheckSessionOwner(ctx, userID, block.SessionID)
}

// CheckExerciseOwner resolves the exercise's session and delegates.
func (s *ownershipService) CheckExerciseOwner(ctx context.Context, userID, exerciseID primitive.ObjectID) error {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}
	return s.CheckSessionOwner(ctx, userID, exercise.SessionID)
}

// CheckPhotoOwner resolves the photo's session and delegates.
func (s *ownershipService) CheckPhotoOwner(ctx context.Context, userID, photoID primitive.ObjectID) error {
	photo, err := s.photoRepo.GetByID(ctx, photoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPhotoNotFound
		}
		return err
	}
	return s.CheckSessionOwner(ctx, userID, photo.SessionID)
}
