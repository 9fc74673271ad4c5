package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SponsorAd struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	Link        string             `bson:"link,omitempty" json:"link,omitempty"`
	Sponsor     string             `bson:"sponsor,omitempty" json:"sponsor,omitempty"`
	Placement   string             `bson:"placement,omitempty" json:"placement,omitempty"` // feed, sidebar, banner
	StartDate   time.Time          `bson:"startDate" json:"startDate"`
	EndDate     time.Time          `bson:"endDate" json:"endDate"`
	IsActive    bool               `bson:"isActive" json:"isActive"`
	Impressions int                `bson:"impressions" json:"impressions"`
	Clicks      int                `bson:"clicks" json:"clicks"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Running reports whether the ad should be served at now. Ads that have not
// started yet are included so clients can schedule them.
func (a SponsorAd) Running(now time.Time) bool {
	return a.IsActive && !a.EndDate.Before(now)
}

// --- Announcement ---
type Announcement struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Message   string             `bson:"message" json:"message"`
	Link      string             `bson:"link,omitempty" json:"link,omitempty"`
	Priority  string             `bson:"priority,omitempty" json:"priority,omitempty"` // low, normal, high
	IsActive  bool               `bson:"isActive" json:"isActive"`
	ExpiresAt *time.Time         `bson:"expiresAt,omitempty" json:"expiresAt,omitempty"`
	Views     int                `bson:"views" json:"views"`
	Clicks    int                `bson:"clicks" json:"clicks"`
	CreatedBy OwnerRef           `bson:"createdBy" json:"createdBy"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (a Announcement) Live(now time.Time) bool {
	return a.IsActive && (a.ExpiresAt == nil || a.ExpiresAt.After(now))
}
