// Package mongostore is the MongoDB record store. It reads and writes the
// "books" and "users" collections in the layout the catalog has always used.
package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/eldieng/Fawsayni-Tech/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	booksCollection = "books"
	usersCollection = "users"
)

type Store struct {
	client *mongo.Client
	books  *mongo.Collection
	users  *mongo.Collection
}

var (
	_ store.BookStore = (*Store)(nil)
	_ store.UserStore = (*Store)(nil)
)

// Connect dials uri and pings the primary before returning.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	db := client.Database(database)
	return &Store{
		client: client,
		books:  db.Collection(booksCollection),
		users:  db.Collection(usersCollection),
	}, nil
}

func (s *Store) Close(ctx context.Context) error { return s.client.Disconnect(ctx) }

// EnsureIndexes creates the unique indexes the stores rely on. Existing
// identical indexes are left alone.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("users_email_key").SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("users email index: %w", err)
	}
	_, err = s.books.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "isbn", Value: 1}},
			Options: options.Index().SetName("books_isbn_key").SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "isbn", Value: bson.D{{Key: "$gt", Value: ""}}}}),
		},
		{Keys: bson.D{{Key: "genre", Value: 1}}},
		{Keys: bson.D{{Key: "user", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("books indexes: %w", err)
	}
	return nil
}

func mapWriteError(err error, field string) error {
	if mongo.IsDuplicateKeyError(err) {
		return store.Conflict(field, err)
	}
	return err
}
