package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ResetTokenTTL bounds both the token's validity and how long the document
// survives before the TTL index removes it.
const ResetTokenTTL = time.Hour

type PasswordResetToken struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Token     string             `bson:"token" json:"-"`
	ExpiresAt time.Time          `bson:"expiresAt" json:"expiresAt"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

func (t PasswordResetToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
