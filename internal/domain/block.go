package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BlockType is the structural kind of a block (how its exercises are run).
type BlockType string

const (
	BlockAMRAP   BlockType = "AMRAP"
	BlockEMOM    BlockType = "Emom"
	BlockForTime BlockType = "For Time"
	BlockMetcon  BlockType = "Metcon"
	BlockSkill   BlockType = "Skill/Strength"
)

// Block groups exercises inside a session. Its Position is a member of the
// session-level ordering domain (shared with the session's free exercises);
// the exercises it contains form their own block-level domain.
type Block struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID primitive.ObjectID `bson:"sessionId" json:"sessionId"`
	Type      BlockType          `bson:"blockType" json:"blockType"`
	Position  int                `bson:"position" json:"position"`
	Duration  *float64           `bson:"duration,omitempty" json:"duration,omitempty"` // minutes
	Notes     string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
