package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	filters "github.com/eventdekho/eventdekho-api/filters"
	models "github.com/eventdekho/eventdekho-api/models"
)

type eventStore struct {
	col *mongo.Collection
}

func (s *eventStore) Create(ctx context.Context, e *models.Event) error {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	if e.Images == nil {
		e.Images = []string{}
	}
	_, err := s.col.InsertOne(ctx, e)
	return translate(err)
}

func (s *eventStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	var e models.Event
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

func (s *eventStore) List(ctx context.Context, q filters.EventQuery) ([]models.Event, error) {
	cursor, err := s.col.Aggregate(ctx, q.Pipeline())
	if err != nil {
		return nil, err
	}
	events := []models.Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *eventStore) ListByOrganizer(ctx context.Context, ref models.OwnerRef) ([]models.Event, error) {
	return findAll[models.Event](ctx, s.col, bson.M{"organizerId": ref}, newestFirst())
}

func (s *eventStore) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Event, error) {
	if len(ids) == 0 {
		return []models.Event{}, nil
	}
	return findAll[models.Event](ctx, s.col, bson.M{"_id": bson.M{"$in": ids}}, newestFirst())
}

func (s *eventStore) Update(ctx context.Context, id primitive.ObjectID, upd models.EventUpdate) (*models.Event, error) {
	fields := bson.M{}
	for k, v := range upd {
		fields[k] = v
	}
	fields["updatedAt"] = time.Now()

	var e models.Event
	err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, afterUpdate()).Decode(&e)
	if err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

func (s *eventStore) Increment(ctx context.Context, id primitive.ObjectID, c models.Counter, delta int) (*models.Event, error) {
	var e models.Event
	err := s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{
			"$inc": bson.M{string(c): delta},
			"$set": bson.M{"updatedAt": time.Now()},
		},
		afterUpdate(),
	).Decode(&e)
	if err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

func (s *eventStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteOne(ctx, s.col, bson.M{"_id": id})
}

func (s *eventStore) DeleteByOrganizer(ctx context.Context, ref models.OwnerRef) ([]models.Event, error) {
	owned, err := s.ListByOrganizer(ctx, ref)
	if err != nil {
		return nil, err
	}
	if _, err := s.col.DeleteMany(ctx, bson.M{"organizerId": ref}); err != nil {
		return nil, err
	}
	return owned, nil
}

func (s *eventStore) Count(ctx context.Context) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{})
}
