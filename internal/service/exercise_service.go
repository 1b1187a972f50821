package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/apollineguerineau/OnTheFloor/internal/domain"
	"github.com/apollineguerineau/OnTheFloor/internal/ordering"
	"github.com/apollineguerineau/OnTheFloor/internal/repository"
)

// --- Error Definitions ---
var (
	// ErrConflictingPosition rejects a create that supplies a position signal
	// from the wrong domain: a session-level position together with a block,
	// or a block-level position without one.
	ErrConflictingPosition = errors.New("conflicting position: exercise position must match its placement domain")
	// ErrBlockSessionMismatch rejects a block reference pointing outside the
	// stated session.
	ErrBlockSessionMismatch = errors.New("block does not belong to the given session")
	// ErrUnsupportedMove rejects moving an exercise between the block-level
	// and session-level domains via update. Delete and recreate it in the
	// target domain instead.
	ErrUnsupportedMove = errors.New("cannot move an exercise between its block and the session: delete and recreate it")
)

// ExerciseCreate carries the caller-supplied fields for a new exercise.
// BlockID decides the ordering domain: set, the exercise goes inside that
// block at PositionInBlock; unset, it is a free exercise at Position on the
// session axis. A nil position in the applicable domain means append.
type ExerciseCreate struct {
	SessionID       primitive.ObjectID
	BlockID         *primitive.ObjectID
	Type            domain.ExerciseType
	Position        *int
	PositionInBlock *int

	WeightKg        *float64
	Repetitions     *int
	DurationSeconds *float64
	DistanceMeters  *float64
	Notes           string
}

// ExerciseUpdate carries a partial update; nil fields are left untouched.
type ExerciseUpdate struct {
	Type            *domain.ExerciseType
	Position        *int
	PositionInBlock *int

	WeightKg        *float64
	Repetitions     *int
	DurationSeconds *float64
	DistanceMeters  *float64
	Notes           *string
}

// ExerciseService orchestrates the exercise lifecycle. Every operation first
// resolves which ordering domain rules the exercise — the session-level axis
// for free exercises, the owning block's axis otherwise — and reindexes only
// that domain.
type ExerciseService interface {
	CreateExercise(ctx context.Context, userID primitive.ObjectID, in ExerciseCreate) (*domain.Exercise, error)
	UpdateExercise(ctx context.Context, userID, exerciseID primitive.ObjectID, in ExerciseUpdate) (*domain.Exercise, error)
	DeleteExercise(ctx context.Context, userID, exerciseID primitive.ObjectID) error
	GetExercise(ctx context.Context, userID, exerciseID primitive.ObjectID) (*domain.Exercise, error)
	ListExercisesBySession(ctx context.Context, userID, sessionID primitive.ObjectID) ([]domain.Exercise, error)
	ListExercisesByBlock(ctx context.Context, userID, blockID primitive.ObjectID) ([]domain.Exercise, error)
}

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	blockRepo    repository.BlockRepository
	ownership    OwnershipService
	locks        *SessionLocks
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(
	exerciseRepo repository.ExerciseRepository,
	blockRepo repository.BlockRepository,
	ownership OwnershipService,
	locks *SessionLocks,
) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		blockRepo:    blockRepo,
		ownership:    ownership,
		locks:        locks,
	}
}

// CreateExercise creates an exercise either inside a block or free in the
// session, shifting the target domain's members to make room. Position
// signals are validated against the placement before anything is loaded, so
// a conflicting request creates and shifts nothing.
func (s *exerciseService) CreateExercise(ctx context.Context, userID primitive.ObjectID, in ExerciseCreate) (*domain.Exercise, error) {
	if in.Type == "" {
		return nil, ErrValidationFailed
	}
	if in.BlockID != nil && in.Position != nil {
		return nil, ErrConflictingPosition
	}
	if in.BlockID == nil && in.PositionInBlock != nil {
		return nil, ErrConflictingPosition
	}
	if err := s.ownership.CheckSessionOwner(ctx, userID, in.SessionID); err != nil {
		return nil, err
	}

	unlock := s.locks.Acquire(in.SessionID)
	defer unlock()

	var placement domain.Placement
	if in.BlockID != nil {
		block, err := s.blockRepo.GetByID(ctx, *in.BlockID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrBlockNotFound
			}
			return nil, err
		}
		if block.SessionID != in.SessionID {
			return nil, ErrBlockSessionMismatch
		}

		items, err := blockLevelDomain(ctx, s.exerciseRepo, block.ID)
		if err != nil {
			return nil, err
		}
		target := ordering.Append(items)
		if in.PositionInBlock != nil {
			target = *in.PositionInBlock
		}
		shifts, err := ordering.InsertAt(items, target)
		if err != nil {
			return nil, err
		}
		if err := applyBlockShifts(ctx, s.exerciseRepo, shifts); err != nil {
			return nil, err
		}
		placement = domain.BlockPlacement(block.ID, target)
	} else {
		items, err := sessionLevelDomain(ctx, s.blockRepo, s.exerciseRepo, in.SessionID)
		if err != nil {
			return nil, err
		}
		target := ordering.Append(items)
		if in.Position != nil {
			target = *in.Position
		}
		shifts, err := ordering.InsertAt(items, target)
		if err != nil {
			return nil, err
		}
		if err := applySessionShifts(ctx, s.blockRepo, s.exerciseRepo, shifts); err != nil {
			return nil, err
		}
		placement = domain.FreePlacement(target)
	}

	exercise := &domain.Exercise{
		SessionID:       in.SessionID,
		Type:            in.Type,
		WeightKg:        in.WeightKg,
		Repetitions:     in.Repetitions,
		DurationSeconds: in.DurationSeconds,
		DistanceMeters:  in.DistanceMeters,
		Notes:           in.Notes,
	}
	exercise.SetPlacement(placement)

	exerciseID, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		return nil, err
	}
	return s.exerciseRepo.GetByID(ctx, exerciseID)
}

// UpdateExercise merges field updates into an exercise. A position change is
// a move within the exercise's current domain only; crossing between the
// session axis and a block axis is ErrUnsupportedMove.
func (s *exerciseService) UpdateExercise(ctx context.Context, userID, exerciseID primitive.ObjectID, in ExerciseUpdate) (*domain.Exercise, error) {
	exercise, err := s.loadExercise(ctx, exerciseID)
	if err != nil {
		return nil, err
	}
	if err := s.ownership.CheckSessionOwner(ctx, userID, exercise.SessionID); err != nil {
		return nil, err
	}

	unlock := s.locks.Acquire(exercise.SessionID)
	defer unlock()

	// Re-read under the lock; the pre-lock copy may hold a stale position.
	exercise, err = s.loadExercise(ctx, exerciseID)
	if err != nil {
		return nil, err
	}
	placement, err := exercise.Placement()
	if err != nil {
		return nil, err
	}

	if placement.InBlock() && in.Position != nil {
		return nil, ErrUnsupportedMove
	}
	if !placement.InBlock() && in.PositionInBlock != nil {
		return nil, ErrUnsupportedMove
	}

	if blockID, inBlock := placement.BlockID(); inBlock {
		if in.PositionInBlock != nil && *in.PositionInBlock != placement.Position() {
			items, err := blockLevelDomain(ctx, s.exerciseRepo, blockID)
			if err != nil {
				return nil, err
			}
			shifts, err := ordering.Move(items, placement.Position(), *in.PositionInBlock)
			if err != nil {
				return nil, err
			}
			if err := applyBlockShifts(ctx, s.exerciseRepo, shifts); err != nil {
				return nil, err
			}
			exercise.SetPlacement(placement.At(*in.PositionInBlock))
		}
	} else if in.Position != nil && *in.Position != placement.Position() {
		items, err := sessionLevelDomain(ctx, s.blockRepo, s.exerciseRepo, exercise.SessionID)
		if err != nil {
			return nil, err
		}
		shifts, err := ordering.Move(items, placement.Position(), *in.Position)
		if err != nil {
			return nil, err
		}
		if err := applySessionShifts(ctx, s.blockRepo, s.exerciseRepo, shifts); err != nil {
			return nil, err
		}
		exercise.SetPlacement(placement.At(*in.Position))
	}

	if in.Type != nil {
		exercise.Type = *in.Type
	}
	if in.WeightKg != nil {
		exercise.WeightKg = in.WeightKg
	}
	if in.Repetitions != nil {
		exercise.Repetitions = in.Repetitions
	}
	if in.DurationSeconds != nil {
		exercise.DurationSeconds = in.DurationSeconds
	}
	if in.DistanceMeters != nil {
		exercise.DistanceMeters = in.DistanceMeters
	}
	if in.Notes != nil {
		exercise.Notes = *in.Notes
	}

	if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
		return nil, err
	}
	return exercise, nil
}

// DeleteExercise removes an exercise and compacts whichever domain it was in.
func (s *exerciseService) DeleteExercise(ctx context.Context, userID, exerciseID primitive.ObjectID) error {
	exercise, err := s.loadExercise(ctx, exerciseID)
	if err != nil {
		return err
	}
	if err := s.ownership.CheckSessionOwner(ctx, userID, exercise.SessionID); err != nil {
		return err
	}

	unlock := s.locks.Acquire(exercise.SessionID)
	defer unlock()

	exercise, err = s.loadExercise(ctx, exerciseID)
	if err != nil {
		return err
	}
	placement, err := exercise.Placement()
	if err != nil {
		return err
	}

	if err := s.exerciseRepo.Delete(ctx, exercise.ID); err != nil {
		return err
	}

	if blockID, inBlock := placement.BlockID(); inBlock {
		items, err := blockLevelDomain(ctx, s.exerciseRepo, blockID)
		if err != nil {
			return err
		}
		shifts := ordering.Remove(items, placement.Position())
		return applyBlockShifts(ctx, s.exerciseRepo, shifts)
	}

	items, err := sessionLevelDomain(ctx, s.blockRepo, s.exerciseRepo, exercise.SessionID)
	if err != nil {
		return err
	}
	shifts := ordering.Remove(items, placement.Position())
	return applySessionShifts(ctx, s.blockRepo, s.exerciseRepo, shifts)
}

// GetExercise retrieves a single exercise, ownership-gated.
func (s *exerciseService) GetExercise(ctx context.Context, userID, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	if err := s.ownership.CheckExerciseOwner(ctx, userID, exerciseID); err != nil {
		return nil, err
	}
	return s.loadExercise(ctx, exerciseID)
}

// ListExercisesBySession retrieves every exercise of a session in display
// order: free exercises by session position, then in-block ones.
func (s *exerciseService) ListExercisesBySession(ctx context.Context, userID, sessionID primitive.ObjectID) ([]domain.Exercise, error) {
	if err := s.ownership.CheckSessionOwner(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	return s.exerciseRepo.ListBySession(ctx, sessionID)
}

// ListExercisesByBlock retrieves a block's exercises ordered by their
// position in the block.
func (s *exerciseService) ListExercisesByBlock(ctx context.Context, userID, blockID primitive.ObjectID) ([]domain.Exercise, error) {
	if err := s.ownership.CheckBlockOwner(ctx, userID, blockID); err != nil {
		return nil, err
	}
	return s.exerciseRepo.ListByBlock(ctx, blockID)
}

func (s *exerciseService) loadExercise(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}
