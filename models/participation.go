package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Participation is a registration snapshot; profile fields are copied at
// registration time and do not follow later profile edits.
type Participation struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID     primitive.ObjectID `bson:"eventId" json:"eventId"`
	EventTitle  string             `bson:"eventTitle" json:"eventTitle"`
	User        OwnerRef           `bson:"user" json:"user"`
	Name        string             `bson:"name" json:"name"`
	Email       string             `bson:"email" json:"email"`
	Phone       string             `bson:"phone" json:"phone"`
	School      string             `bson:"school,omitempty" json:"school,omitempty"`
	Grade       string             `bson:"grade,omitempty" json:"grade,omitempty"`
	City        string             `bson:"city,omitempty" json:"city,omitempty"`
	Age         int                `bson:"age,omitempty" json:"age,omitempty"`
	ParentName  string             `bson:"parentName,omitempty" json:"parentName,omitempty"`
	ParentPhone string             `bson:"parentPhone,omitempty" json:"parentPhone,omitempty"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Consent     bool               `bson:"consent" json:"consent"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
