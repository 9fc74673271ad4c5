// Package store declares the persistence contracts the HTTP layer depends on.
// mongostore implements them against MongoDB, memstore in memory.
package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	filters "github.com/eventdekho/eventdekho-api/filters"
	models "github.com/eventdekho/eventdekho-api/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
)

type UserFilter struct {
	Role     string
	Verified *bool
}

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, f UserFilter) ([]models.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, upd models.UserUpdate) (*models.User, error)
	SetVerified(ctx context.Context, id primitive.ObjectID, verified bool) (*models.User, error)
	SetRole(ctx context.Context, id primitive.ObjectID, role string) (*models.User, error)
	SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
}

type EventStore interface {
	Create(ctx context.Context, e *models.Event) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error)
	// List runs the feed visibility filter.
	List(ctx context.Context, q filters.EventQuery) ([]models.Event, error)
	ListByOrganizer(ctx context.Context, ref models.OwnerRef) ([]models.Event, error)
	ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Event, error)
	Update(ctx context.Context, id primitive.ObjectID, upd models.EventUpdate) (*models.Event, error)
	// Increment atomically adds delta to a counter and returns the new event.
	Increment(ctx context.Context, id primitive.ObjectID, c models.Counter, delta int) (*models.Event, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	// DeleteByOrganizer removes every event owned by ref and returns them.
	DeleteByOrganizer(ctx context.Context, ref models.OwnerRef) ([]models.Event, error)
	Count(ctx context.Context) (int64, error)
}

type CommentStore interface {
	Create(ctx context.Context, c *models.Comment) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error)
	ListByEvent(ctx context.Context, eventID primitive.ObjectID) ([]models.Comment, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByEvent(ctx context.Context, eventID primitive.ObjectID) error
	DeleteByUser(ctx context.Context, ref models.OwnerRef) error
	Count(ctx context.Context) (int64, error)
}

type LikeStore interface {
	// Create fails with ErrDuplicate when (user, event) already exists.
	Create(ctx context.Context, l *models.Like) error
	Find(ctx context.Context, ref models.OwnerRef, eventID primitive.ObjectID) (*models.Like, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	ListByUser(ctx context.Context, ref models.OwnerRef) ([]models.Like, error)
	DeleteByEvent(ctx context.Context, eventID primitive.ObjectID) error
	DeleteByUser(ctx context.Context, ref models.OwnerRef) error
}

type ParticipationStore interface {
	// Create fails with ErrDuplicate when the user already registered for the event.
	Create(ctx context.Context, p *models.Participation) error
	Find(ctx context.Context, ref models.OwnerRef, eventID primitive.ObjectID) (*models.Participation, error)
	ListByEvent(ctx context.Context, eventID primitive.ObjectID) ([]models.Participation, error)
	ListByUser(ctx context.Context, ref models.OwnerRef) ([]models.Participation, error)
	ListAll(ctx context.Context) ([]models.Participation, error)
	Count(ctx context.Context) (int64, error)
}

type AdStore interface {
	Create(ctx context.Context, a *models.SponsorAd) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.SponsorAd, error)
	List(ctx context.Context) ([]models.SponsorAd, error)
	// Running returns active ads whose window has not ended at now.
	Running(ctx context.Context, now time.Time) ([]models.SponsorAd, error)
	Update(ctx context.Context, id primitive.ObjectID, fields map[string]any) (*models.SponsorAd, error)
	Increment(ctx context.Context, id primitive.ObjectID, field string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type AnnouncementStore interface {
	Create(ctx context.Context, a *models.Announcement) error
	List(ctx context.Context) ([]models.Announcement, error)
	Live(ctx context.Context, now time.Time) ([]models.Announcement, error)
	Update(ctx context.Context, id primitive.ObjectID, fields map[string]any) (*models.Announcement, error)
	Increment(ctx context.Context, id primitive.ObjectID, field string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ResetTokenStore interface {
	Create(ctx context.Context, t *models.PasswordResetToken) error
	FindByToken(ctx context.Context, token string) (*models.PasswordResetToken, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) error
}

// Store bundles every collection the API touches.
type Store struct {
	Users          UserStore
	Events         EventStore
	Comments       CommentStore
	Likes          LikeStore
	Participations ParticipationStore
	Ads            AdStore
	Announcements  AnnouncementStore
	ResetTokens    ResetTokenStore

	// Ping checks connectivity; nil means always healthy.
	Ping func(ctx context.Context) error
}
