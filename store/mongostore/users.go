package mongostore

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	models "github.com/eventdekho/eventdekho-api/models"
	store "github.com/eventdekho/eventdekho-api/store"
)

type userStore struct {
	col *mongo.Collection
}

func (s *userStore) Create(ctx context.Context, u *models.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	u.Email = strings.ToLower(u.Email)
	_, err := s.col.InsertOne(ctx, u)
	return translate(err)
}

func (s *userStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *userStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.col.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&u); err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *userStore) List(ctx context.Context, f store.UserFilter) ([]models.User, error) {
	filter := bson.M{}
	if f.Role != "" {
		filter["role"] = f.Role
	}
	if f.Verified != nil {
		filter["verified"] = *f.Verified
	}
	return findAll[models.User](ctx, s.col, filter, newestFirst())
}

func (s *userStore) set(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.User, error) {
	fields["updatedAt"] = time.Now()
	var u models.User
	err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, afterUpdate()).Decode(&u)
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *userStore) UpdateProfile(ctx context.Context, id primitive.ObjectID, upd models.UserUpdate) (*models.User, error) {
	fields := bson.M{}
	for key, v := range map[string]*string{
		"name":         upd.Name,
		"phone":        upd.Phone,
		"organization": upd.Organization,
		"city":         upd.City,
		"bio":          upd.Bio,
		"avatar":       upd.Avatar,
	} {
		if v != nil {
			fields[key] = *v
		}
	}
	return s.set(ctx, id, fields)
}

func (s *userStore) SetVerified(ctx context.Context, id primitive.ObjectID, verified bool) (*models.User, error) {
	return s.set(ctx, id, bson.M{"verified": verified})
}

func (s *userStore) SetRole(ctx context.Context, id primitive.ObjectID, role string) (*models.User, error) {
	return s.set(ctx, id, bson.M{"role": role})
}

func (s *userStore) SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	_, err := s.set(ctx, id, bson.M{"password": hash})
	return err
}

func (s *userStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteOne(ctx, s.col, bson.M{"_id": id})
}

func (s *userStore) Count(ctx context.Context) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{})
}
