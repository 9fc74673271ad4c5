package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Event struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title            string             `bson:"title" json:"title"`
	Description      string             `bson:"description,omitempty" json:"description,omitempty"`
	Teaser           string             `bson:"teaser,omitempty" json:"teaser,omitempty"`
	Category         string             `bson:"category,omitempty" json:"category,omitempty"`
	Mode             string             `bson:"mode,omitempty" json:"mode,omitempty"` // online, offline, hybrid
	EntryType        string             `bson:"entryType,omitempty" json:"entryType,omitempty"`
	Subject          string             `bson:"subject,omitempty" json:"subject,omitempty"`
	Experience       string             `bson:"experience,omitempty" json:"experience,omitempty"`
	JobType          string             `bson:"jobType,omitempty" json:"jobType,omitempty"`
	Location         string             `bson:"location,omitempty" json:"location,omitempty"`
	City             string             `bson:"city,omitempty" json:"city,omitempty"`
	Eligibility      []string           `bson:"eligibility,omitempty" json:"eligibility,omitempty"` // grades
	Price            float64            `bson:"price" json:"price"`
	Date             string             `bson:"date,omitempty" json:"date,omitempty"` // YYYY-MM-DD
	Time             string             `bson:"time,omitempty" json:"time,omitempty"`
	EndDate          string             `bson:"endDate,omitempty" json:"endDate,omitempty"`
	RegistrationLink string             `bson:"registrationLink,omitempty" json:"registrationLink,omitempty"`
	Images           []string           `bson:"images" json:"images"`
	Video            string             `bson:"video,omitempty" json:"video,omitempty"`
	OrganizerID      OwnerRef           `bson:"organizerId,omitempty" json:"organizerId,omitempty"`
	OrganizerName    string             `bson:"organizerName,omitempty" json:"organizerName,omitempty"`
	Approved         bool               `bson:"approved" json:"approved"`
	Likes            int                `bson:"likes" json:"likes"`
	Comments         int                `bson:"comments" json:"comments"`
	Shares           int                `bson:"shares" json:"shares"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Counter names the denormalized engagement fields on Event.
type Counter string

const (
	CounterLikes    Counter = "likes"
	CounterComments Counter = "comments"
	CounterShares   Counter = "shares"
)

// EventUpdate is a sparse set of field changes keyed by bson field name.
type EventUpdate map[string]any
