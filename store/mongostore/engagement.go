package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	models "github.com/eventdekho/eventdekho-api/models"
)

// --- Comments ---
type commentStore struct {
	col *mongo.Collection
}

func (s *commentStore) Create(ctx context.Context, c *models.Comment) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	_, err := s.col.InsertOne(ctx, c)
	return translate(err)
}

func (s *commentStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	var c models.Comment
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *commentStore) ListByEvent(ctx context.Context, eventID primitive.ObjectID) ([]models.Comment, error) {
	return findAll[models.Comment](ctx, s.col, bson.M{"eventId": eventID}, newestFirst())
}

func (s *commentStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteOne(ctx, s.col, bson.M{"_id": id})
}

func (s *commentStore) DeleteByEvent(ctx context.Context, eventID primitive.ObjectID) error {
	_, err := s.col.DeleteMany(ctx, bson.M{"eventId": eventID})
	return err
}

func (s *commentStore) DeleteByUser(ctx context.Context, ref models.OwnerRef) error {
	_, err := s.col.DeleteMany(ctx, bson.M{"user": ref})
	return err
}

func (s *commentStore) Count(ctx context.Context) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{})
}

// --- Likes ---
type likeStore struct {
	col *mongo.Collection
}

func (s *likeStore) Create(ctx context.Context, l *models.Like) error {
	if l.ID.IsZero() {
		l.ID = primitive.NewObjectID()
	}
	_, err := s.col.InsertOne(ctx, l)
	return translate(err)
}

func (s *likeStore) Find(ctx context.Context, ref models.OwnerRef, eventID primitive.ObjectID) (*models.Like, error) {
	var l models.Like
	if err := s.col.FindOne(ctx, bson.M{"user": ref, "eventId": eventID}).Decode(&l); err != nil {
		return nil, translate(err)
	}
	return &l, nil
}

func (s *likeStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteOne(ctx, s.col, bson.M{"_id": id})
}

func (s *likeStore) ListByUser(ctx context.Context, ref models.OwnerRef) ([]models.Like, error) {
	return findAll[models.Like](ctx, s.col, bson.M{"user": ref}, newestFirst())
}

func (s *likeStore) DeleteByEvent(ctx context.Context, eventID primitive.ObjectID) error {
	_, err := s.col.DeleteMany(ctx, bson.M{"eventId": eventID})
	return err
}

func (s *likeStore) DeleteByUser(ctx context.Context, ref models.OwnerRef) error {
	_, err := s.col.DeleteMany(ctx, bson.M{"user": ref})
	return err
}

// --- Participations ---
type participationStore struct {
	col *mongo.Collection
}

func (s *participationStore) Create(ctx context.Context, p *models.Participation) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	_, err := s.col.InsertOne(ctx, p)
	return translate(err)
}

func (s *participationStore) Find(ctx context.Context, ref models.OwnerRef, eventID primitive.ObjectID) (*models.Participation, error) {
	var p models.Participation
	if err := s.col.FindOne(ctx, bson.M{"user": ref, "eventId": eventID}).Decode(&p); err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *participationStore) ListByEvent(ctx context.Context, eventID primitive.ObjectID) ([]models.Participation, error) {
	return findAll[models.Participation](ctx, s.col, bson.M{"eventId": eventID}, newestFirst())
}

func (s *participationStore) ListByUser(ctx context.Context, ref models.OwnerRef) ([]models.Participation, error) {
	return findAll[models.Participation](ctx, s.col, bson.M{"user": ref}, newestFirst())
}

func (s *participationStore) ListAll(ctx context.Context) ([]models.Participation, error) {
	return findAll[models.Participation](ctx, s.col, bson.M{}, newestFirst())
}

func (s *participationStore) Count(ctx context.Context) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{})
}
