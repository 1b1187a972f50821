package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/apollineguerineau/OnTheFloor/internal/domain"
	"github.com/apollineguerineau/OnTheFloor/internal/repository"
)

// --- Error Definitions ---
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrLocationNotFound = errors.New("location not found")
)

// SessionCreate carries the caller-supplied fields for a new session.
type SessionCreate struct {
	Name       string
	Date       time.Time
	Type       domain.SessionType
	LocationID *primitive.ObjectID
	Notes      string
}

// SessionUpdate carries a partial update; nil fields are left untouched.
type SessionUpdate struct {
	Name       *string
	Date       *time.Time
	Type       *domain.SessionType
	LocationID *primitive.ObjectID
	Notes      *string
}

// SessionService manages session lifecycle. Sessions own both ordering
// domains transitively, so deleting one cascades to its blocks, exercises
// and photos.
type SessionService interface {
	CreateSession(ctx context.Context, userID primitive.ObjectID, in SessionCreate) (*domain.Session, error)
	GetSession(ctx context.Context, userID, sessionID primitive.ObjectID) (*domain.Session, error)
	GetSessionByDate(ctx context.Context, userID primitive.ObjectID, date time.Time) (*domain.Session, error)
	ListSessionsByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Session, error)
	UpdateSession(ctx context.Context, userID, sessionID primitive.ObjectID, in SessionUpdate) (*domain.Session, error)
	DeleteSession(ctx context.Context, userID, sessionID primitive.ObjectID) error
}

// sessionService implements the SessionService interface.
type sessionService struct {
	sessionRepo  repository.SessionRepository
	blockRepo    repository.BlockRepository
	exerciseRepo repository.ExerciseRepository
	photoRepo    repository.PhotoRepository
	locationRepo repository.LocationRepository
	ownership    OwnershipService
	locks        *SessionLocks
}

// NewSessionService creates a new instance of sessionService.
func NewSessionService(
	sessionRepo repository.SessionRepository,
	blockRepo repository.BlockRepository,
	exerciseRepo repository.ExerciseRepository,
	photoRepo repository.PhotoRepository,
	locationRepo repository.LocationRepository,
	ownership OwnershipService,
	locks *SessionLocks,
) SessionService {
	return &sessionService{
		sessionRepo:  sessionRepo,
		blockRepo:    blockRepo,
		exerciseRepo: exerciseRepo,
		photoRepo:    photoRepo,
		locationRepo: locationRepo,
		ownership:    ownership,
		locks:        locks,
	}
}

// CreateSession creates an empty session for the user.
func (s *sessionService) CreateSession(ctx context.Context, userID primitive.ObjectID, in SessionCreate) (*domain.Session, error) {
	if in.Name == "" || in.Type == "" || in.Date.IsZero() {
		return nil, ErrValidationFailed
	}
	if in.LocationID != nil {
		if _, err := s.locationRepo.GetByID(ctx, *in.LocationID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrLocationNotFound
			}
			return nil, err
		}
	}

	session := &domain.Session{
		UserID:     userID,
		LocationID: in.LocationID,
		Name:       in.Name,
		Date:       in.Date,
		Type:       in.Type,
		Notes:      in.Notes,
	}
	sessionID, err := s.sessionRepo.Create(ctx, session)
	if err != nil {
		return nil, err
	}
	return s.sessionRepo.GetByID(ctx, sessionID)
}

// GetSession retrieves a session, ownership-gated.
func (s *sessionService) GetSession(ctx context.Context, userID, sessionID primitive.ObjectID) (*domain.Session, error) {
	if err := s.ownership.CheckSessionOwner(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	return s.sessionRepo.GetByID(ctx, sessionID)
}

// GetSessionByDate retrieves the user's session on a given calendar day.
func (s *sessionService) GetSessionByDate(ctx context.Context, userID primitive.ObjectID, date time.Time) (*domain.Session, error) {
	session, err := s.sessionRepo.GetByDateAndUser(ctx, date, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

// ListSessionsByUser retrieves all sessions of the acting user.
func (s *sessionService) ListSessionsByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Session, error) {
	return s.sessionRepo.ListByUser(ctx, userID)
}

// UpdateSession merges attribute updates into a session. Positions are not
// involved: a session is not a member of any ordering domain.
func (s *sessionService) UpdateSession(ctx context.Context, userID, sessionID primitive.ObjectID, in SessionUpdate) (*domain.Session, error) {
	if err := s.ownership.CheckSessionOwner(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	if in.Name != nil {
		session.Name = *in.Name
	}
	if in.Date != nil {
		session.Date = *in.Date
	}
	if in.Type != nil {
		session.Type = *in.Type
	}
	if in.LocationID != nil {
		if _, err := s.locationRepo.GetByID(ctx, *in.LocationID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrLocationNotFound
			}
			return nil, err
		}
		session.LocationID = in.LocationID
	}
	if in.Notes != nil {
		session.Notes = *in.Notes
	}

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// DeleteSession removes a session and everything it owns: blocks, exercises
// and photo metadata. Both ordering domains disappear with it, so nothing is
// left to reindex.
func (s *sessionService) DeleteSession(ctx context.Context, userID, sessionID primitive.ObjectID) error {
	if err := s.ownership.CheckSessionOwner(ctx, userID, sessionID); err != nil {
		return err
	}

	unlock := s.locks.Acquire(sessionID)
	defer unlock()

	if err := s.exerciseRepo.DeleteBySession(ctx, sessionID); err != nil {
		return err
	}
	if err := s.blockRepo.DeleteBySession(ctx, sessionID); err != nil {
		return err
	}
	if err := s.photoRepo.DeleteBySession(ctx, sessionID); err != nil {
		return err
	}
	return s.sessionRepo.Delete(ctx, sessionID)
}
