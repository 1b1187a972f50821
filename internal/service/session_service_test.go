package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/apollineguerineau/OnTheFloor/internal/domain"
)

func TestCreateSession(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	userID := primitive.NewObjectID()

	session, err := f.sessions.CreateSession(ctx, userID, SessionCreate{
		Name: "open 25.1",
		Date: time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
		Type: domain.SessionOpen,
	})
	require.NoError(t, err)
	assert.Equal(t, userID, session.UserID)
	assert.Equal(t, "open 25.1", session.Name)
	assert.False(t, session.ID.IsZero())
}

func TestCreateSession_Validation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	userID := primitive.NewObjectID()

	_, err := f.sessions.CreateSession(ctx, userID, SessionCreate{
		Date: time.Now(),
		Type: domain.SessionWOD,
	})
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = f.sessions.CreateSession(ctx, userID, SessionCreate{
		Name: "no date",
		Type: domain.SessionWOD,
	})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestCreateSession_UnknownLocation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	userID := primitive.NewObjectID()

	missing := primitive.NewObjectID()
	_, err := f.sessions.CreateSession(ctx, userID, SessionCreate{
		Name:       "at the box",
		Date:       time.Now(),
		Type:       domain.SessionWOD,
		LocationID: &missing,
	})
	assert.ErrorIs(t, err, ErrLocationNotFound)
}

func TestGetSessionByDate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	userID := primitive.NewObjectID()
	session := f.seedSession(userID)

	found, err := f.sessions.GetSessionByDate(ctx, userID, session.Date)
	require.NoError(t, err)
	assert.Equal(t, session.ID, found.ID)

	_, err = f.sessions.GetSessionByDate(ctx, userID, session.Date.AddDate(0, 0, 1))
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestUpdateSession_PartialFields(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	userID := primitive.NewObjectID()
	session := f.seedSession(userID)

	location := &domain.Location{Name: "the box", Type: domain.LocationCrossfit}
	f.locationRepo.Create(ctx, location)

	newName := "evening workout"
	newType := domain.SessionHyrox
	updated, err := f.sessions.UpdateSession(ctx, userID, session.ID, SessionUpdate{
		Name:       &newName,
		Type:       &newType,
		LocationID: &location.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "evening workout", updated.Name)
	assert.Equal(t, domain.SessionHyrox, updated.Type)
	assert.Equal(t, location.ID, *updated.LocationID)
	assert.Equal(t, session.Date, updated.Date, "unset fields stay put")
}

func TestDeleteSession_CascadesEverything(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	userID := primitive.NewObjectID()
	session := f.seedSession(userID)

	block, err := f.blocks.CreateBlock(ctx, userID, BlockCreate{SessionID: session.ID, Type: domain.BlockAMRAP})
	require.NoError(t, err)
	_, err = f.exercises.CreateExercise(ctx, userID, ExerciseCreate{SessionID: session.ID, Type: domain.Burpee})
	require.NoError(t, err)
	_, err = f.exercises.CreateExercise(ctx, userID, ExerciseCreate{
		SessionID: session.ID,
		BlockID:   &block.ID,
		Type:      domain.AirSquat,
	})
	require.NoError(t, err)
	f.photoRepo.Create(ctx, &domain.Photo{SessionID: session.ID, ObjectKey: "k"})

	require.NoError(t, f.sessions.DeleteSession(ctx, userID, session.ID))

	_, err = f.sessionRepo.GetByID(ctx, session.ID)
	assert.Error(t, err)
	blocks, _ := f.blockRepo.ListBySession(ctx, session.ID)
	assert.Empty(t, blocks)
	exercises, _ := f.exerciseRepo.ListBySession(ctx, session.ID)
	assert.Empty(t, exercises)
	photos, _ := f.photoRepo.ListBySession(ctx, session.ID)
	assert.Empty(t, photos)
}

func TestSessionOwnership(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := primitive.NewObjectID()
	intruder := primitive.NewObjectID()
	session := f.seedSession(owner)

	_, err := f.sessions.GetSession(ctx, intruder, session.ID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	err = f.sessions.DeleteSession(ctx, intruder, session.ID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.sessions.GetSession(ctx, owner, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
