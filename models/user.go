package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser      = "user"
	RoleOrganizer = "organizer"
	RoleAdmin     = "admin"
)

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	Password     string             `bson:"password" json:"-"`
	Role         string             `bson:"role" json:"role"` // user, organizer, admin
	Verified     bool               `bson:"verified" json:"verified"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Organization string             `bson:"organization,omitempty" json:"organization,omitempty"`
	City         string             `bson:"city,omitempty" json:"city,omitempty"`
	Bio          string             `bson:"bio,omitempty" json:"bio,omitempty"`
	Avatar       string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// UserUpdate carries the profile fields a user may change about themselves.
type UserUpdate struct {
	Name         *string
	Phone        *string
	Organization *string
	City         *string
	Bio          *string
	Avatar       *string
}

func (u UserUpdate) IsEmpty() bool {
	return u.Name == nil && u.Phone == nil && u.Organization == nil &&
		u.City == nil && u.Bio == nil && u.Avatar == nil
}

func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleOrganizer, RoleAdmin:
		return true
	}
	return false
}
