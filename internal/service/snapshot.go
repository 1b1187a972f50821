package service

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/apollineguerineau/OnTheFloor/internal/ordering"
	"github.com/apollineguerineau/OnTheFloor/internal/repository"
)

// sessionLevelDomain loads the session-level ordering domain: the session's
// blocks and free exercises merged onto their shared position axis, sorted
// ascending. Callers must hold the session lock.
func sessionLevelDomain(
	ctx context.Context,
	blocks repository.BlockRepository,
	exercises repository.ExerciseRepository,
	sessionID primitive.ObjectID,
) ([]ordering.Item, error) {
	sessionBlocks, err := blocks.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	freeExercises, err := exercises.ListFreeBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	items := make([]ordering.Item, 0, len(sessionBlocks)+len(freeExercises))
	for _, b := range sessionBlocks {
		items = append(items, ordering.Item{Kind: ordering.KindBlock, ID: b.ID, Position: b.Position})
	}
	for _, e := range freeExercises {
		placement, err := e.Placement()
		if err != nil {
			return nil, err
		}
		items = append(items, ordering.Item{Kind: ordering.KindExercise, ID: e.ID, Position: placement.Position()})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Position < items[j].Position })
	return items, nil
}

// blockLevelDomain loads the ordering domain of a single block: its exercises
// on the block-local axis. Callers must hold the owning session's lock.
func blockLevelDomain(
	ctx context.Context,
	exercises repository.ExerciseRepository,
	blockID primitive.ObjectID,
) ([]ordering.Item, error) {
	blockExercises, err := exercises.ListByBlock(ctx, blockID)
	if err != nil {
		return nil, err
	}

	items := make([]ordering.Item, 0, len(blockExercises))
	for _, e := range blockExercises {
		placement, err := e.Placement()
		if err != nil {
			return nil, err
		}
		items = append(items, ordering.Item{Kind: ordering.KindExercise, ID: e.ID, Position: placement.Position()})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Position < items[j].Position })
	return items, nil
}

// applySessionShifts persists session-axis reassignments, routing each shift
// to the store its variant lives in. Shifts are applied in the order the
// ordering package returned them.
func applySessionShifts(
	ctx context.Context,
	blocks repository.BlockRepository,
	exercises repository.ExerciseRepository,
	shifts []ordering.Shift,
) error {
	for _, s := range shifts {
		var err error
		switch s.Item.Kind {
		case ordering.KindBlock:
			err = blocks.UpdatePosition(ctx, s.Item.ID, s.NewPosition)
		case ordering.KindExercise:
			err = exercises.UpdatePosition(ctx, s.Item.ID, s.NewPosition)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// applyBlockShifts persists block-axis reassignments; the domain holds only
// exercises there.
func applyBlockShifts(
	ctx context.Context,
	exercises repository.ExerciseRepository,
	shifts []ordering.Shift,
) error {
	for _, s := range shifts {
		if err := exercises.UpdatePositionInBlock(ctx, s.Item.ID, s.NewPosition); err != nil {
			return err
		}
	}
	return nil
}
