package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/apollineguerineau/OnTheFloor/internal/domain"
	"github.com/apollineguerineau/OnTheFloor/internal/ordering"
)

func intPtr(i int) *int { return &i }

// sessionPositions collects the session-level axis: blocks and free
// exercises merged, sorted by position.
func sessionPositions(t *testing.T, f *fixture, sessionID primitive.ObjectID) []int {
	t.Helper()
	blocks, err := f.blockRepo.ListBySession(context.Background(), sessionID)
	require.NoError(t, err)
	free, err := f.exerciseRepo.ListFreeBySession(context.Background(), sessionID)
	require.NoError(t, err)

	positions := make([]int, 0, len(blocks)+len(free))
	for _, b := range blocks {
		positions = append(positions, b.Position)
	}
	for _, e := range free {
		positions = append(positions, *e.Position)
	}
	return positions
}

// requireDensePositions asserts positions form exactly {0..n-1}.
func requireDensePositions(t *testing.T, positions []int) {
	t.Helper()
	seen := make(map[int]bool, len(positions))
	for _, p := range positions {
		require.GreaterOrEqual(t, p, 0)
		require.Less(t, p, len(positions))
		require.False(t, seen[p], "duplicate position %d", p)
		seen[p] = true
	}
}

func TestCreateBlock_AppendAssignsNextPosition(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	userID := primitive.NewObjectID()
	session := f.seedSession(userID)

	var positions []int
	for i := 0; i < 3; i++ {
		block, err := f.blocks.CreateBlock(ctx, userID, BlockCreate{
			SessionID: session.ID,
			Type:      domain.BlockAMRAP,
		})
		require.NoError(t, err)
		positions = append(positions, block.Position)
	}
	assert.Equal(t, []int{0, 1, 2}, positions)
}

func TestCreateBlock_InsertShiftsLaterMembers(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	userID := primitive.NewObjectID()
	session := f.seedSession(userID)

	first, err := f.blocks.CreateBlock(ctx, userID, BlockCreate{SessionID: session.ID, Type: domain.BlockAMRAP})
	require.NoError(t, err)
	second, err := f.blocks.CreateBlock(ctx, userID, BlockCreate{SessionID: session.ID, Type: domain.BlockEMOM})
	require.NoError(t, err)

	inserted, err := f.blocks.CreateBlock(ctx, userID, BlockCreate{
		SessionID: session.ID,
		Type:      domain.BlockForTime,
		Position:  intPtr(1),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, inserted.Position)

	reloaded, err := f.blockRepo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.Position)

	reloaded, err = f.blockRepo.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.Position)

	requireDensePositions(t, sessionPositions(t, f, session.ID))
}

func TestCreateBlock_ShiftsFreeExercisesSharingTheAxis(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	userID := primitive.NewObjectID()
	session := f.seedSession(userID)

	// Two free exercises at positions 0 and 1.
	ex0, err := f.exercises.CreateExercise(ctx, userID, ExerciseCreate{SessionID: session.ID, Type: domain.Burpee})
	require.NoError(t, err)
	ex1, err := f.exercises.CreateExercise(ctx, userID, ExerciseCreate{SessionID: session.ID, Type: domain.AirSquat})
	require.NoError(t, err)

	// Inserting a block at 0 pushes both exercises up.
	block, err := f.blocks.CreateBlock(ctx, userID, BlockCreate{
		SessionID: session.ID,
		Type:      domain.BlockMetcon,
		Position:  intPtr(0),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, block.Position)

	reloaded, err := f.exerciseRepo.GetByID(ctx, ex0.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, *reloaded.Position)

	reloaded, err = f.exerciseRepo.GetByID(ctx, ex1.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, *reloaded.Position)

	requireDensePositions(t, sessionPositions(t, f, session.ID))
}

func TestCreateBlock_InvalidPositionRejected(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	userID := primitive.NewObjectID()
	session := f.seedSession(userID)

	_, err := f.blocks.CreateBlock(ctx, userID, BlockCreate{
		SessionID: session.ID,
		Type:      domain.BlockAMRAP,
		Position:  intPtr(1), // valid range is 0..0 on an empty axis
	})
	require.ErrorIs(t, err, ordering.ErrInvalidPosition)

	count, err := f.blockRepo.CountBySession(ctx, session.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestUpdateBlock_MoveToFront(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	userID := primitive.NewObjectID()
	session := f.seedSession(userID)

	var blocks []*domain.Block
	for _, bt := range []domain.BlockType{domain.BlockAMRAP, domain.BlockEMOM, domain.BlockForTime} {
		b, err := f.blocks.CreateBlock(ctx, userID, BlockCreate{SessionID: session.ID, Type: bt})
		require.NoError(t, err)
		blocks = append(blocks, b)
	}

	moved, err := f.blocks.UpdateBlock(ctx, userID, blocks[2].ID, BlockUpdate{Position: intPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, 0, moved.Position)

	reloaded, err := f.blockRepo.GetByID(ctx, blocks[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.Position)

	reloaded, err = f.blockRepo.GetByID(ctx, blocks[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.Position)

	requireDensePositions(t, sessionPositions(t, f, session.ID))
}

func TestUpdateBlock_SamePositionIsNoOp(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	userID := primitive.NewObjectID()
	session := f.seedSession(userID)

	block, err := f.blocks.CreateBlock(ctx, userID, BlockCreate{SessionID: session.ID, Type: domain.BlockAMRAP})
	require.NoError(t, err)

	updated, err := f.blocks.UpdateBlock(ctx, userID, block.ID, BlockUpdate{Position: intPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Position)
}

func TestUpdateBlock_FieldsWithoutPosition(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	userID := primitive.NewObjectID()
	session := f.seedSession(userID)

	block, err := f.blocks.CreateBlock(ctx, userID, BlockCreate{SessionID: session.ID, Type: domain.BlockAMRAP})
	require.NoError(t, err)

	duration := 12.0
	notes := "keep moving"
	newType := domain.BlockEMOM
	updated, err := f.blocks.UpdateBlock(ctx, userID, block.ID, BlockUpdate{
		Type:     &newType,
		Duration: &duration,
		Notes:    &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.BlockEMOM, updated.Type)
	assert.Equal(t, 12.0, *updated.Duration)
	assert.Equal(t, "keep moving", updated.Notes)
	assert.Equal(t, 0, updated.Position)
}

func TestDeleteBlock_CascadesAndCompacts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	userID := primitive.NewObjectID()
	session := f.seedSession(userID)

	victim, err := f.blocks.CreateBlock(ctx, userID, BlockCreate{SessionID: session.ID, Type: domain.BlockAMRAP})
	require.NoError(t, err)
	survivor, err := f.blocks.CreateBlock(ctx, userID, BlockCreate{SessionID: session.ID, Type: domain.BlockEMOM})
	require.NoError(t, err)

	// Exercises inside the doomed block.
	inBlock, err := f.exercises.CreateExercise(ctx, userID, ExerciseCreate{
		SessionID: session.ID,
		BlockID:   &victim.ID,
		Type:      domain.Burpee,
	})
	require.NoError(t, err)

	require.NoError(t, f.blocks.DeleteBlock(ctx, userID, victim.ID))

	_, err = f.blockRepo.GetByID(ctx, victim.ID)
	assert.Error(t, err)
	_, err = f.exerciseRepo.GetByID(ctx, inBlock.ID)
	assert.Error(t, err, "block deletion should take its exercises with it")

	reloaded, err := f.blockRepo.GetByID(ctx, survivor.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.Position, "survivor should close the gap")
}

func TestBlockOwnership(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := primitive.NewObjectID()
	intruder := primitive.NewObjectID()
	session := f.seedSession(owner)

	block, err := f.blocks.CreateBlock(ctx, owner, BlockCreate{SessionID: session.ID, Type: domain.BlockAMRAP})
	require.NoError(t, err)

	_, err = f.blocks.GetBlock(ctx, intruder, block.ID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.blocks.CreateBlock(ctx, intruder, BlockCreate{SessionID: session.ID, Type: domain.BlockEMOM})
	assert.ErrorIs(t, err, ErrAccessDenied)

	err = f.blocks.DeleteBlock(ctx, intruder, block.ID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.blocks.GetBlock(ctx, owner, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrBlockNotFound)
}
