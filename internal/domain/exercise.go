package domain

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseType enumerates the supported movements.
type ExerciseType string

const (
	AirSquat             ExerciseType = "Air Squat"
	BackSquat            ExerciseType = "Back Squat"
	BearComplex          ExerciseType = "Bear Complex"
	BearWalk             ExerciseType = "Bear Walk"
	BoxJump              ExerciseType = "Box Jump"
	BroadJump            ExerciseType = "Broad Jump"
	Burpee               ExerciseType = "Burpee"
	BurpeePullUp         ExerciseType = "Burpee-Pull Up"
	ChestToBar           ExerciseType = "Chest to Bar"
	ChinUp               ExerciseType = "Chin Up"
	Clean                ExerciseType = "Clean"
	Deadlift             ExerciseType = "Deadlift"
	DevilPress           ExerciseType = "Devil Press"
	Dip                  ExerciseType = "Dip"
	DoubleUnder          ExerciseType = "Double Under"
	FrontSquat           ExerciseType = "Front Squat"
	HandReleasePushUp    ExerciseType = "Hand Release Push Up"
	HandstandPushUp      ExerciseType = "Handstand Push-Up"
	HollowRock           ExerciseType = "Hollow Rock"
	JumpingJacks         ExerciseType = "Jumping Jacks"
	JumpingLunges        ExerciseType = "Jumping Lunges"
	KettlebellSnatch     ExerciseType = "Kettlebell Snatch"
	KettlebellSwing      ExerciseType = "Kettlebell Swing"
	KneesToElbows        ExerciseType = "Knees to Elbows"
	Lunge                ExerciseType = "Lunge"
	ManMaker             ExerciseType = "Man Maker"
	MedicineBallClean    ExerciseType = "Medicine Ball Clean"
	MountainClimber      ExerciseType = "Mountain Climber"
	MuscleUp             ExerciseType = "Muscle Up"
	OverheadSquat        ExerciseType = "Overhead Squat"
	OverheadWalkingLunge ExerciseType = "Overhead Walking Lunges"
	PistolSquat          ExerciseType = "Pistol Squat"
	Plank                ExerciseType = "Plank"
	PullUp               ExerciseType = "Pull Up"
	PushJerk             ExerciseType = "Push Jerk"
	PushPress            ExerciseType = "Push Press"
	PushUp               ExerciseType = "Push Up"
	ShoulderPress        ExerciseType = "Shoulder Press"
	SitUp                ExerciseType = "Sit Up"
	Snatch               ExerciseType = "Snatch"
	Squat                ExerciseType = "Squat"
	StepUp               ExerciseType = "Step Up"
	SumoDeadliftHighPull ExerciseType = "Sumo Deadlift High Pull"
	Superman             ExerciseType = "Superman"
	Thruster             ExerciseType = "Thruster"
	ToesToBar            ExerciseType = "Toes to Bar"
	TuckJump             ExerciseType = "Tuck Jump"
	VUp                  ExerciseType = "V-up"
	WallBall             ExerciseType = "Wall Balls"
	WallWalk             ExerciseType = "Wall Walk"
)

// ErrInvalidPlacement reports a stored exercise whose position fields do not
// agree with its block reference (both sides set, or neither).
var ErrInvalidPlacement = errors.New("exercise placement fields are inconsistent")

// Placement says where an exercise sits: either on its session's shared
// position axis ("free") or inside one block at a block-local position.
// Values are built through FreePlacement or BlockPlacement only, so a
// Placement can never carry both kinds of position at once.
type Placement struct {
	blockID primitive.ObjectID
	pos     int
	inBlock bool
}

// FreePlacement places an exercise on the session-level axis.
func FreePlacement(position int) Placement {
	return Placement{pos: position}
}

// BlockPlacement places an exercise inside blockID at positionInBlock.
func BlockPlacement(blockID primitive.ObjectID, positionInBlock int) Placement {
	return Placement{blockID: blockID, pos: positionInBlock, inBlock: true}
}

// InBlock reports whether the placement is block-scoped.
func (p Placement) InBlock() bool { return p.inBlock }

// BlockID returns the owning block for a block-scoped placement.
func (p Placement) BlockID() (primitive.ObjectID, bool) {
	return p.blockID, p.inBlock
}

// Position is the index on whichever axis the placement belongs to.
func (p Placement) Position() int { return p.pos }

// At returns the same placement moved to position.
func (p Placement) At(position int) Placement {
	p.pos = position
	return p
}

// Exercise is one performed movement. It always belongs to a session and may
// additionally belong to one of that session's blocks. The split position
// fields are the persisted form; code should go through Placement and
// SetPlacement, which keep them mutually exclusive.
type Exercise struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	SessionID primitive.ObjectID  `bson:"sessionId" json:"sessionId"`
	Type      ExerciseType        `bson:"exerciseType" json:"exerciseType"`
	BlockID   *primitive.ObjectID `bson:"blockId,omitempty" json:"blockId,omitempty"`

	Position        *int `bson:"position,omitempty" json:"position,omitempty"`
	PositionInBlock *int `bson:"positionInBlock,omitempty" json:"positionInBlock,omitempty"`

	// Measured attributes, opaque to the ordering engine.
	WeightKg        *float64 `bson:"weightKg,omitempty" json:"weightKg,omitempty"`
	Repetitions     *int     `bson:"repetitions,omitempty" json:"repetitions,omitempty"`
	DurationSeconds *float64 `bson:"durationSeconds,omitempty" json:"durationSeconds,omitempty"`
	DistanceMeters  *float64 `bson:"distanceMeters,omitempty" json:"distanceMeters,omitempty"`
	Notes           string   `bson:"notes,omitempty" json:"notes,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Placement decodes the persisted position fields into the tagged form.
// A record with both or neither side set is corrupt and fails with
// ErrInvalidPlacement; no valid mutation path produces such a record.
func (e *Exercise) Placement() (Placement, error) {
	switch {
	case e.BlockID != nil && e.PositionInBlock != nil && e.Position == nil:
		return BlockPlacement(*e.BlockID, *e.PositionInBlock), nil
	case e.BlockID == nil && e.Position != nil && e.PositionInBlock == nil:
		return FreePlacement(*e.Position), nil
	default:
		return Placement{}, ErrInvalidPlacement
	}
}

// SetPlacement writes p back into the persisted fields, clearing whichever
// side does not apply.
func (e *Exercise) SetPlacement(p Placement) {
	pos := p.pos
	if id, ok := p.BlockID(); ok {
		blockID := id
		e.BlockID = &blockID
		e.PositionInBlock = &pos
		e.Position = nil
		return
	}
	e.BlockID = nil
	e.PositionInBlock = nil
	e.Position = &pos
}
