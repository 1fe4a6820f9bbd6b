package books

import (
	"context"

	"github.com/eldieng/Fawsayni-Tech/internal/models"
)

const (
	DefaultPage  = 1
	DefaultLimit = 9
)

// Sortable fields, named as the API exposes them.
const (
	FieldTitle         = "title"
	FieldAuthor        = "author"
	FieldDescription   = "description"
	FieldGenre         = "genre"
	FieldISBN          = "isbn"
	FieldPublishedYear = "publishedYear"
	FieldAvailable     = "available"
	FieldCreatedAt     = "createdAt"
	// FieldID is appended to every sort as a tiebreaker; it is not accepted
	// from callers.
	FieldID = "_id"
)

var sortable = map[string]struct{}{
	FieldTitle:         {},
	FieldAuthor:        {},
	FieldDescription:   {},
	FieldGenre:         {},
	FieldISBN:          {},
	FieldPublishedYear: {},
	FieldAvailable:     {},
	FieldCreatedAt:     {},
}

// Filter is the conjunction of exact-match conditions plus an optional
// case-insensitive substring search over title, author and description.
// Zero values mean "no condition".
type Filter struct {
	Genre     string
	Available *bool
	Owner     string
	Search    string
}

type SortKey struct {
	Field string
	Desc  bool
}

type ListParams struct {
	Filter Filter
	Sort   []SortKey
	Page   int
	Limit  int
}

type Page struct {
	Books       []models.Book
	TotalCount  int
	TotalPages  int
	CurrentPage int
	HasNextPage bool
	HasPrevPage bool
}

// Reader is the read side of the book collection.
type Reader interface {
	CountBooks(ctx context.Context, f Filter) (int, error)
	FindBooks(ctx context.Context, f Filter, sort []SortKey, skip, limit int) ([]models.Book, error)
}

// Snapshotter runs fn against a Reader. Backends that support it give fn a
// consistent snapshot; others pass a plain Reader.
type Snapshotter interface {
	Snapshot(ctx context.Context, fn func(Reader) error) error
}
