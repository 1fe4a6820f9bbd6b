// Package memstore keeps books and users in process memory. It backs local
// development runs and handler tests.
package memstore

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/eldieng/Fawsayni-Tech/internal/models"
	"github.com/eldieng/Fawsayni-Tech/internal/store"
	storebooks "github.com/eldieng/Fawsayni-Tech/internal/store/books"
	"github.com/google/uuid"
)

type Store struct {
	mu    sync.RWMutex
	books map[string]models.Book
	users map[string]models.User

	// Now stamps CreatedAt. Tests replace it to get deterministic ordering.
	Now func() time.Time
}

func New() *Store {
	return &Store{
		books: map[string]models.Book{},
		users: map[string]models.User{},
		Now:   time.Now,
	}
}

var (
	_ store.BookStore = (*Store)(nil)
	_ store.UserStore = (*Store)(nil)
)

// Snapshot holds the read lock for the whole of fn, so the count and the
// page see the same data.
func (s *Store) Snapshot(ctx context.Context, fn func(storebooks.Reader) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(reader{s})
}

type reader struct{ s *Store }

func (r reader) CountBooks(ctx context.Context, f storebooks.Filter) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return len(r.s.match(f)), nil
}

func (r reader) FindBooks(ctx context.Context, f storebooks.Filter, keys []storebooks.SortKey, skip, limit int) ([]models.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	hits := r.s.match(f)
	slices.SortStableFunc(hits, func(a, b models.Book) int { return compareBooks(a, b, keys) })
	skip = max(skip, 0)
	if skip >= len(hits) {
		return []models.Book{}, nil
	}
	end := len(hits)
	if limit > 0 && limit < end-skip {
		end = skip + limit
	}
	return slices.Clone(hits[skip:end]), nil
}

// match must be called with s.mu held.
func (s *Store) match(f storebooks.Filter) []models.Book {
	needle := strings.ToLower(f.Search)
	out := make([]models.Book, 0, len(s.books))
	for _, b := range s.books {
		if f.Genre != "" && b.Genre != f.Genre {
			continue
		}
		if f.Available != nil && b.Available != *f.Available {
			continue
		}
		if f.Owner != "" && b.Owner != f.Owner {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(b.Title), needle) &&
			!strings.Contains(strings.ToLower(b.Author), needle) &&
			!strings.Contains(strings.ToLower(b.Description), needle) {
			continue
		}
		out = append(out, b)
	}
	return out
}

func compareBooks(a, b models.Book, keys []storebooks.SortKey) int {
	for _, k := range keys {
		c := compareField(a, b, k.Field)
		if k.Desc {
			c = -c
		}
		if c != 0 {
			return c
		}
	}
	return 0
}

func compareField(a, b models.Book, field string) int {
	switch field {
	case storebooks.FieldTitle:
		return cmp.Compare(a.Title, b.Title)
	case storebooks.FieldAuthor:
		return cmp.Compare(a.Author, b.Author)
	case storebooks.FieldDescription:
		return cmp.Compare(a.Description, b.Description)
	case storebooks.FieldGenre:
		return cmp.Compare(a.Genre, b.Genre)
	case storebooks.FieldISBN:
		return cmp.Compare(a.ISBN, b.ISBN)
	case storebooks.FieldPublishedYear:
		return cmp.Compare(yearOf(a), yearOf(b))
	case storebooks.FieldAvailable:
		return cmp.Compare(boolRank(a.Available), boolRank(b.Available))
	case storebooks.FieldCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case storebooks.FieldID:
		return cmp.Compare(a.ID, b.ID)
	}
	return 0
}

// Missing years sort first, as nulls do in an ascending Mongo sort.
func yearOf(b models.Book) int {
	if b.PublishedYear == nil {
		return -1 << 31
	}
	return *b.PublishedYear
}

func boolRank(v bool) int {
	if v {
		return 1
	}
	return 0
}

func (s *Store) GetBook(ctx context.Context, id string) (models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.books[id]
	if !ok {
		return models.Book{}, fmt.Errorf("book %q: %w", id, store.ErrNotFound)
	}
	return b, nil
}

func (s *Store) CreateBook(ctx context.Context, b *models.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.isbnTaken(b.ISBN, ""); err != nil {
		return err
	}
	b.ID = uuid.NewString()
	b.CreatedAt = s.Now()
	s.books[b.ID] = *b
	return nil
}

func (s *Store) UpdateBook(ctx context.Context, b models.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.books[b.ID]
	if !ok {
		return fmt.Errorf("book %q: %w", b.ID, store.ErrNotFound)
	}
	if err := s.isbnTaken(b.ISBN, b.ID); err != nil {
		return err
	}
	b.Owner = cur.Owner
	b.CreatedAt = cur.CreatedAt
	s.books[b.ID] = b
	return nil
}

func (s *Store) DeleteBook(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.books[id]; !ok {
		return fmt.Errorf("book %q: %w", id, store.ErrNotFound)
	}
	delete(s.books, id)
	return nil
}

func (s *Store) isbnTaken(isbn, self string) error {
	if isbn == "" {
		return nil
	}
	for id, b := range s.books {
		if id != self && b.ISBN == isbn {
			return store.Conflict("isbn", nil)
		}
	}
	return nil
}
