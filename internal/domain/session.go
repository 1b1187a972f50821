package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionType categorizes a training session.
type SessionType string

const (
	SessionWOD           SessionType = "WOD"
	SessionGymnastic     SessionType = "Gymnastic"
	SessionWeightlifting SessionType = "Weightlifting"
	SessionFBB           SessionType = "Fonctionnal Body Building"
	SessionCompetition   SessionType = "Competition"
	SessionHyrox         SessionType = "Hyrox"
	SessionOpen          SessionType = "Open"
	SessionWodTeam       SessionType = "Wod Team"
)

// Session is one training session belonging to a user. It owns the
// session-level ordering domain: its blocks and free exercises share a single
// dense position axis starting at 0.
type Session struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID  `bson:"userId" json:"userId"`
	LocationID *primitive.ObjectID `bson:"locationId,omitempty" json:"locationId,omitempty"`
	Name       string              `bson:"name" json:"name"`
	Date       time.Time           `bson:"date" json:"date"`
	Type       SessionType         `bson:"sessionType" json:"sessionType"`
	Notes      string              `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt  time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time           `bson:"updatedAt" json:"updatedAt"`
}
