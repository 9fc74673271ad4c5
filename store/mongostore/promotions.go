package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	models "github.com/eventdekho/eventdekho-api/models"
	store "github.com/eventdekho/eventdekho-api/store"
)

// --- Sponsor ads ---
type adStore struct {
	col *mongo.Collection
}

func (s *adStore) Create(ctx context.Context, a *models.SponsorAd) error {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	_, err := s.col.InsertOne(ctx, a)
	return translate(err)
}

func (s *adStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.SponsorAd, error) {
	var a models.SponsorAd
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (s *adStore) List(ctx context.Context) ([]models.SponsorAd, error) {
	return findAll[models.SponsorAd](ctx, s.col, bson.M{}, newestFirst())
}

func (s *adStore) Running(ctx context.Context, now time.Time) ([]models.SponsorAd, error) {
	filter := bson.M{"isActive": true, "endDate": bson.M{"$gte": now}}
	return findAll[models.SponsorAd](ctx, s.col, filter, options.Find().SetSort(bson.D{{Key: "startDate", Value: 1}}))
}

func (s *adStore) Update(ctx context.Context, id primitive.ObjectID, fields map[string]any) (*models.SponsorAd, error) {
	set := bson.M{"updatedAt": time.Now()}
	for k, v := range fields {
		set[k] = v
	}
	var a models.SponsorAd
	if err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, afterUpdate()).Decode(&a); err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (s *adStore) Increment(ctx context.Context, id primitive.ObjectID, field string) error {
	return increment(ctx, s.col, id, field)
}

func (s *adStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteOne(ctx, s.col, bson.M{"_id": id})
}

// --- Announcements ---
type announcementStore struct {
	col *mongo.Collection
}

func (s *announcementStore) Create(ctx context.Context, a *models.Announcement) error {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	_, err := s.col.InsertOne(ctx, a)
	return translate(err)
}

func (s *announcementStore) List(ctx context.Context) ([]models.Announcement, error) {
	return findAll[models.Announcement](ctx, s.col, bson.M{}, newestFirst())
}

func (s *announcementStore) Live(ctx context.Context, now time.Time) ([]models.Announcement, error) {
	filter := bson.M{
		"isActive": true,
		"$or": bson.A{
			bson.M{"expiresAt": bson.M{"$exists": false}},
			bson.M{"expiresAt": nil},
			bson.M{"expiresAt": bson.M{"$gt": now}},
		},
	}
	return findAll[models.Announcement](ctx, s.col, filter, newestFirst())
}

func (s *announcementStore) Update(ctx context.Context, id primitive.ObjectID, fields map[string]any) (*models.Announcement, error) {
	set := bson.M{"updatedAt": time.Now()}
	for k, v := range fields {
		set[k] = v
	}
	var a models.Announcement
	if err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, afterUpdate()).Decode(&a); err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (s *announcementStore) Increment(ctx context.Context, id primitive.ObjectID, field string) error {
	return increment(ctx, s.col, id, field)
}

func (s *announcementStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteOne(ctx, s.col, bson.M{"_id": id})
}

func increment(ctx context.Context, col *mongo.Collection, id primitive.ObjectID, field string) error {
	res, err := col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{field: 1}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- Password reset tokens ---
type resetTokenStore struct {
	col *mongo.Collection
}

func (s *resetTokenStore) Create(ctx context.Context, t *models.PasswordResetToken) error {
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	_, err := s.col.InsertOne(ctx, t)
	return translate(err)
}

func (s *resetTokenStore) FindByToken(ctx context.Context, token string) (*models.PasswordResetToken, error) {
	var t models.PasswordResetToken
	if err := s.col.FindOne(ctx, bson.M{"token": token}).Decode(&t); err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (s *resetTokenStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteOne(ctx, s.col, bson.M{"_id": id})
}

func (s *resetTokenStore) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.col.DeleteMany(ctx, bson.M{"userId": userID})
	return err
}
