package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/apollineguerineau/OnTheFloor/internal/domain"
	"github.com/apollineguerineau/OnTheFloor/internal/ordering"
	"github.com/apollineguerineau/OnTheFloor/internal/repository"
)

// BlockCreate carries the caller-supplied fields for a new block. A nil
// Position means append to the end of the session-level domain.
type BlockCreate struct {
	SessionID primitive.ObjectID
	Type      domain.BlockType
	Position  *int
	Duration  *float64
	Notes     string
}

// BlockUpdate carries a partial update; nil fields are left untouched.
type BlockUpdate struct {
	Type     *domain.BlockType
	Position *int
	Duration *float64
	Notes    *string
}

// BlockService orchestrates the block lifecycle over the session-level
// ordering domain (the session's blocks and free exercises, one shared axis).
type BlockService interface {
	CreateBlock(ctx context.Context, userID primitive.ObjectID, in BlockCreate) (*domain.Block, error)
	UpdateBlock(ctx context.Context, userID, blockID primitive.ObjectID, in BlockUpdate) (*domain.Block, error)
	DeleteBlock(ctx context.Context, userID, blockID primitive.ObjectID) error
	GetBlock(ctx context.Context, userID, blockID primitive.ObjectID) (*domain.Block, error)
	ListBlocksBySession(ctx context.Context, userID, sessionID primitive.ObjectID) ([]domain.Block, error)
}

// blockService implements the BlockService interface.
type blockService struct {
	blockRepo    repository.BlockRepository
	exerciseRepo repository.ExerciseRepository
	ownership    OwnershipService
	locks        *SessionLocks
}

// NewBlockService creates a new instance of blockService.
func NewBlockService(
	blockRepo repository.BlockRepository,
	exerciseRepo repository.ExerciseRepository,
	ownership OwnershipService,
	locks *SessionLocks,
) BlockService {
	return &blockService{
		blockRepo:    blockRepo,
		exerciseRepo: exerciseRepo,
		ownership:    ownership,
		locks:        locks,
	}
}

// CreateBlock inserts a new block into the session-level domain, shifting
// the blocks and free exercises at or after the target position up by one.
// Without an explicit position the block is appended.
func (s *blockService) CreateBlock(ctx context.Context, userID primitive.ObjectID, in BlockCreate) (*domain.Block, error) {
	if in.Type == "" {
		return nil, ErrValidationFailed
	}
	if err := s.ownership.CheckSessionOwner(ctx, userID, in.SessionID); err != nil {
		return nil, err
	}

	unlock := s.locks.Acquire(in.SessionID)
	defer unlock()

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

	block := &domain.Block{
		SessionID: in.SessionID,
		Type:      in.Type,
		Position:  target,
		Duration:  in.Duration,
		Notes:     in.Notes,
	}
	blockID, err := s.blockRepo.Create(ctx, block)
	if err != nil {
		return nil, err
	}
	return s.blockRepo.GetByID(ctx, blockID)
}

// UpdateBlock merges field updates into a block. When the update carries a
// position differing from the current one, the session-level domain is
// reindexed around the move first.
func (s *blockService) UpdateBlock(ctx context.Context, userID, blockID primitive.ObjectID, in BlockUpdate) (*domain.Block, error) {
	block, err := s.loadBlock(ctx, blockID)
	if err != nil {
		return nil, err
	}
	if err := s.ownership.CheckSessionOwner(ctx, userID, block.SessionID); err != nil {
		return nil, err
	}

	unlock := s.locks.Acquire(block.SessionID)
	defer unlock()

	// Re-read under the lock; the pre-lock copy may hold a stale position.
	block, err = s.loadBlock(ctx, blockID)
	if err != nil {
		return nil, err
	}

	if in.Position != nil && *in.Position != block.Position {
		items, err := sessionLevelDomain(ctx, s.blockRepo, s.exerciseRepo, block.SessionID)
		if err != nil {
			return nil, err
		}
		shifts, err := ordering.Move(items, block.Position, *in.Position)
		if err != nil {
			return nil, err
		}
		if err := applySessionShifts(ctx, s.blockRepo, s.exerciseRepo, shifts); err != nil {
			return nil, err
		}
		block.Position = *in.Position
	}

	if in.Type != nil {
		block.Type = *in.Type
	}
	if in.Duration != nil {
		block.Duration = in.Duration
	}
	if in.Notes != nil {
		block.Notes = *in.Notes
	}

	if err := s.blockRepo.Update(ctx, block); err != nil {
		return nil, err
	}
	return block, nil
}

// DeleteBlock removes a block together with the exercises it contains, then
// compacts the session-level domain around the vacated position. The block's
// own exercises need no reindexing: their whole domain disappears with it.
func (s *blockService) DeleteBlock(ctx context.Context, userID, blockID primitive.ObjectID) error {
	block, err := s.loadBlock(ctx, blockID)
	if err != nil {
		return err
	}
	if err := s.ownership.CheckSessionOwner(ctx, userID, block.SessionID); err != nil {
		return err
	}

	unlock := s.locks.Acquire(block.SessionID)
	defer unlock()

	block, err = s.loadBlock(ctx, blockID)
	if err != nil {
		return err
	}

	if err := s.exerciseRepo.DeleteByBlock(ctx, block.ID); err != nil {
		return err
	}
	if err := s.blockRepo.Delete(ctx, block.ID); err != nil {
		return err
	}

	items, err := sessionLevelDomain(ctx, s.blockRepo, s.exerciseRepo, block.SessionID)
	if err != nil {
		return err
	}
	shifts := ordering.Remove(items, block.Position)
	return applySessionShifts(ctx, s.blockRepo, s.exerciseRepo, shifts)
}

// GetBlock retrieves a single block, ownership-gated.
func (s *blockService) GetBlock(ctx context.Context, userID, blockID primitive.ObjectID) (*domain.Block, error) {
	if err := s.ownership.CheckBlockOwner(ctx, userID, blockID); err != nil {
		return nil, err
	}
	return s.loadBlock(ctx, blockID)
}

// ListBlocksBySession retrieves a session's blocks ordered by position.
func (s *blockService) ListBlocksBySession(ctx context.Context, userID, sessionID primitive.ObjectID) ([]domain.Block, error) {
	if err := s.ownership.CheckSessionOwner(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	return s.blockRepo.ListBySession(ctx, sessionID)
}

func (s *blockService) loadBlock(ctx context.Context, blockID primitive.ObjectID) (*domain.Block, error) {
	block, err := s.blockRepo.GetByID(ctx, blockID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBlockNotFound
		}
		return nil, err
	}
	return block, nil
}
