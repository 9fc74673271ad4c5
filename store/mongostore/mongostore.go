// Package mongostore implements the store contracts on MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	models "github.com/eventdekho/eventdekho-api/models"
	store "github.com/eventdekho/eventdekho-api/store"
)

const (
	colUsers          = "users"
	colEvents         = "events"
	colComments       = "comments"
	colLikes          = "likes"
	colParticipations = "participations"
	colAds            = "sponsor_ads"
	colAnnouncements  = "announcements"
	colResetTokens    = "password_reset_tokens"
)

// Connect dials uri and verifies the connection with a primary ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// New wires every collection of db into a store.Store.
func New(db *mongo.Database) *store.Store {
	return &store.Store{
		Users:          &userStore{col: db.Collection(colUsers)},
		Events:         &eventStore{col: db.Collection(colEvents)},
		Comments:       &commentStore{col: db.Collection(colComments)},
		Likes:          &likeStore{col: db.Collection(colLikes)},
		Participations: &participationStore{col: db.Collection(colParticipations)},
		Ads:            &adStore{col: db.Collection(colAds)},
		Announcements:  &announcementStore{col: db.Collection(colAnnouncements)},
		ResetTokens:    &resetTokenStore{col: db.Collection(colResetTokens)},
		Ping: func(ctx context.Context) error {
			return db.Client().Ping(ctx, readpref.Primary())
		},
	}
}

// EnsureIndexes creates the uniqueness and expiry indexes the API relies on
// for cross-request coordination.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		colUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		colEvents: {
			{Keys: bson.D{{Key: "organizerId", Value: 1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
		colComments: {
			{Keys: bson.D{{Key: "eventId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		colLikes: {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "eventId", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		colParticipations: {
			{Keys: bson.D{{Key: "eventId", Value: 1}}},
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "eventId", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		colResetTokens: {
			{Keys: bson.D{{Key: "token", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "createdAt", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(int32(models.ResetTokenTTL.Seconds()))},
		},
	}

	for name, idx := range specs {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("indexes on %s: %w", name, err)
		}
	}
	return nil
}

// translate maps driver errors onto the store sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return store.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return store.ErrDuplicate
	}
	return err
}

func afterUpdate() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}

func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
}

// findAll decodes every match of filter into a non-nil slice.
func findAll[T any](ctx context.Context, col *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func deleteOne(ctx context.Context, col *mongo.Collection, filter any) error {
	res, err := col.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
