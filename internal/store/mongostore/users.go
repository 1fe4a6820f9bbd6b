package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eldieng/Fawsayni-Tech/internal/models"
	"github.com/eldieng/Fawsayni-Tech/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	d := userDoc{
		ID:        primitive.NewObjectID(),
		Name:      u.Name,
		Email:     u.Email,
		Password:  u.PasswordHash,
		Role:      u.Role,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := s.users.InsertOne(ctx, d); err != nil {
		return mapWriteError(err, "email")
	}
	u.ID = d.ID.Hex()
	u.CreatedAt = d.CreatedAt
	return nil
}

func (s *Store) UserByID(ctx context.Context, id string) (models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.User{}, fmt.Errorf("user %q: %w", id, store.ErrNotFound)
	}
	return s.oneUser(ctx, bson.D{{Key: "_id", Value: oid}})
}

func (s *Store) UserByEmail(ctx context.Context, email string) (models.User, error) {
	return s.oneUser(ctx, bson.D{{Key: "email", Value: email}})
}

func (s *Store) oneUser(ctx context.Context, filter bson.D) (models.User, error) {
	var d userDoc
	err := s.users.FindOne(ctx, filter).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, fmt.Errorf("user: %w", store.ErrNotFound)
	}
	if err != nil {
		return models.User{}, err
	}
	return d.model(), nil
}

func (s *Store) UpdateProfile(ctx context.Context, id string, p store.ProfileUpdate) (models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.User{}, fmt.Errorf("user %q: %w", id, store.ErrNotFound)
	}
	set := bson.D{}
	if p.Name != nil {
		set = append(set, bson.E{Key: "name", Value: *p.Name})
	}
	if p.Email != nil {
		set = append(set, bson.E{Key: "email", Value: *p.Email})
	}
	if len(set) == 0 {
		return s.UserByID(ctx, id)
	}

	var d userDoc
	err = s.users.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: set}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, fmt.Errorf("user %q: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return models.User{}, mapWriteError(err, "email")
	}
	return d.model(), nil
}

func (s *Store) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("user %q: %w", id, store.ErrNotFound)
	}
	res, err := s.users.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "password", Value: hash}}}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user %q: %w", id, store.ErrNotFound)
	}
	return nil
}

func (s *Store) ListUsers(ctx context.Context, f store.UserFilter) ([]models.User, int, error) {
	f = f.Normalize()
	filter := bson.D{}
	if f.Role != "" {
		filter = append(filter, bson.E{Key: "role", Value: f.Role})
	}
	total, err := s.users.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(f.Offset())).
		SetLimit(int64(f.Size))
	cur, err := s.users.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	out := []models.User{}
	for cur.Next(ctx) {
		var d userDoc
		if err := cur.Decode(&d); err != nil {
			return nil, 0, err
		}
		out = append(out, d.model())
	}
	return out, int(total), cur.Err()
}
