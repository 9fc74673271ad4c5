package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Comment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID   primitive.ObjectID `bson:"eventId" json:"eventId"`
	User      OwnerRef           `bson:"user" json:"user"`
	UserName  string             `bson:"userName" json:"userName"`
	Text      string             `bson:"text" json:"text"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// --- Like ---
type Like struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User      OwnerRef           `bson:"user" json:"user"`
	EventID   primitive.ObjectID `bson:"eventId" json:"eventId"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
