package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/apollineguerineau/OnTheFloor/internal/domain"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("duplicate record")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// SessionRepository defines the interface for interacting with sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Session, error)
	GetByDateAndUser(ctx context.Context, date time.Time, userID primitive.ObjectID) (*domain.Session, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Session, error)
	Update(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// BlockRepository defines the interface for interacting with blocks.
// ListBySession returns blocks ordered by ascending position.
type BlockRepository interface {
	Create(ctx context.Context, block *domain.Block) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Block, error)
	ListBySession(ctx context.Context, sessionID primitive.ObjectID) ([]domain.Block, error)
	CountBySession(ctx context.Context, sessionID primitive.ObjectID) (int64, error)
	Update(ctx context.Context, block *domain.Block) error
	// UpdatePosition rewrites only the position field; used when shifting
	// siblings so a reindex pass never touches other attributes.
	UpdatePosition(ctx context.Context, id primitive.ObjectID, position int) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteBySession(ctx context.Context, sessionID primitive.ObjectID) error
}

// ExerciseRepository defines the interface for interacting with exercises.
// The list methods return exercises ordered by the position field that rules
// the requested scope.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	ListBySession(ctx context.Context, sessionID primitive.ObjectID) ([]domain.Exercise, error)
	ListFreeBySession(ctx context.Context, sessionID primitive.ObjectID) ([]domain.Exercise, error)
	ListByBlock(ctx context.Context, blockID primitive.ObjectID) ([]domain.Exercise, error)
	CountFreeBySession(ctx context.Context, sessionID primitive.ObjectID) (int64, error)
	CountByBlock(ctx context.Context, blockID primitive.ObjectID) (int64, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	// UpdatePosition rewrites the session-level position of a free exercise.
	UpdatePosition(ctx context.Context, id primitive.ObjectID, position int) error
	// UpdatePositionInBlock rewrites the block-level position of an in-block
	// exercise.
	UpdatePositionInBlock(ctx context.Context, id primitive.ObjectID, position int) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByBlock(ctx context.Context, blockID primitive.ObjectID) error
	DeleteBySession(ctx context.Context, sessionID primitive.ObjectID) error
}

// LocationRepository defines the interface for interacting with locations.
type LocationRepository interface {
	Create(ctx context.Context, location *domain.Location) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Location, error)
	List(ctx context.Context) ([]domain.Location, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// PhotoRepository defines the interface for interacting with photo metadata.
type PhotoRepository interface {
	Create(ctx context.Context, photo *domain.Photo) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Photo, error)
	ListBySession(ctx context.Context, sessionID primitive.ObjectID) ([]domain.Photo, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteBySession(ctx context.Context, sessionID primitive.ObjectID) error
}
