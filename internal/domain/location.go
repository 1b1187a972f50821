package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LocationType categorizes a training location.
type LocationType string

const (
	LocationCrossfit LocationType = "crossfit"
	LocationGym      LocationType = "gym"
	LocationNone     LocationType = "none"
)

// Location is a place where sessions happen. Locations are shared, have no
// owner and no ordering concerns.
type Location struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Address   string             `bson:"address,omitempty" json:"address,omitempty"`
	Type      LocationType       `bson:"locationType" json:"locationType"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
