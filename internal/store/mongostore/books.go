package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eldieng/Fawsayni-Tech/internal/models"
	"github.com/eldieng/Fawsayni-Tech/internal/store"
	storebooks "github.com/eldieng/Fawsayni-Tech/internal/store/books"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Snapshot runs the count and the page back to back without a session
// snapshot; a write landing between them can skew the metadata by one page.
func (s *Store) Snapshot(ctx context.Context, fn func(storebooks.Reader) error) error {
	return fn(reader{s.books})
}

type reader struct{ c *mongo.Collection }

func (r reader) CountBooks(ctx context.Context, f storebooks.Filter) (int, error) {
	n, err := r.c.CountDocuments(ctx, bookFilter(f))
	return int(n), err
}

func (r reader) FindBooks(ctx context.Context, f storebooks.Filter, keys []storebooks.SortKey, skip, limit int) ([]models.Book, error) {
	opts := options.Find().
		SetSort(bookSort(keys)).
		SetSkip(int64(max(skip, 0))).
		SetLimit(int64(limit))
	cur, err := r.c.Find(ctx, bookFilter(f), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Book{}
	for cur.Next(ctx) {
		var d bookDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, d.model())
	}
	return out, cur.Err()
}

func (s *Store) GetBook(ctx context.Context, id string) (models.Book, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Book{}, fmt.Errorf("book %q: %w", id, store.ErrNotFound)
	}
	var d bookDoc
	err = s.books.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Book{}, fmt.Errorf("book %q: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return models.Book{}, err
	}
	return d.model(), nil
}

func (s *Store) CreateBook(ctx context.Context, b *models.Book) error {
	owner, err := primitive.ObjectIDFromHex(b.Owner)
	if err != nil {
		return fmt.Errorf("owner %q: %w", b.Owner, store.ErrInvalid)
	}
	d := bookDoc{
		ID:            primitive.NewObjectID(),
		Title:         b.Title,
		Author:        b.Author,
		Description:   b.Description,
		ISBN:          b.ISBN,
		PublishedYear: b.PublishedYear,
		Genre:         b.Genre,
		CoverImage:    b.CoverImage,
		Available:     b.Available,
		User:          owner,
		CreatedAt:     time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := s.books.InsertOne(ctx, d); err != nil {
		return mapWriteError(err, "isbn")
	}
	b.ID = d.ID.Hex()
	b.CreatedAt = d.CreatedAt
	return nil
}

func (s *Store) UpdateBook(ctx context.Context, b models.Book) error {
	oid, err := primitive.ObjectIDFromHex(b.ID)
	if err != nil {
		return fmt.Errorf("book %q: %w", b.ID, store.ErrNotFound)
	}
	res, err := s.books.UpdateOne(ctx, bson.D{{Key: "_id", Value: oid}}, bookUpdate(b))
	if err != nil {
		return mapWriteError(err, "isbn")
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("book %q: %w", b.ID, store.ErrNotFound)
	}
	return nil
}

// bookUpdate sets every mutable field. Empty optional fields are unset so
// the partial isbn index never sees a blank value.
func bookUpdate(b models.Book) bson.D {
	set := bson.D{
		{Key: "title", Value: b.Title},
		{Key: "author", Value: b.Author},
		{Key: "coverImage", Value: b.CoverImage},
		{Key: "available", Value: b.Available},
	}
	unset := bson.D{}
	optional := func(key string, empty bool, v any) {
		if empty {
			unset = append(unset, bson.E{Key: key, Value: ""})
			return
		}
		set = append(set, bson.E{Key: key, Value: v})
	}
	optional("description", b.Description == "", b.Description)
	optional("isbn", b.ISBN == "", b.ISBN)
	optional("genre", b.Genre == "", b.Genre)
	if b.PublishedYear == nil {
		optional("publishedYear", true, nil)
	} else {
		optional("publishedYear", false, *b.PublishedYear)
	}

	u := bson.D{{Key: "$set", Value: set}}
	if len(unset) > 0 {
		u = append(u, bson.E{Key: "$unset", Value: unset})
	}
	return u
}

func (s *Store) DeleteBook(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("book %q: %w", id, store.ErrNotFound)
	}
	res, err := s.books.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("book %q: %w", id, store.ErrNotFound)
	}
	return nil
}
