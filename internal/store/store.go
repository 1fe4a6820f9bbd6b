package store

import (
	"context"
	"math"

	"github.com/eldieng/Fawsayni-Tech/internal/models"
	storebooks "github.com/eldieng/Fawsayni-Tech/internal/store/books"
)

// BookStore is the record store for books. Lookups by an id the backend
// cannot parse report ErrNotFound.
type BookStore interface {
	storebooks.Snapshotter

	GetBook(ctx context.Context, id string) (models.Book, error)
	// CreateBook fills ID and CreatedAt on success.
	CreateBook(ctx context.Context, b *models.Book) error
	// UpdateBook persists every mutable field of b. Owner and CreatedAt are
	// never modified.
	UpdateBook(ctx context.Context, b models.Book) error
	DeleteBook(ctx context.Context, id string) error
}

type UserStore interface {
	// CreateUser fills ID and CreatedAt on success.
	CreateUser(ctx context.Context, u *models.User) error
	UserByID(ctx context.Context, id string) (models.User, error)
	UserByEmail(ctx context.Context, email string) (models.User, error)
	UpdateProfile(ctx context.Context, id string, p ProfileUpdate) (models.User, error)
	UpdatePasswordHash(ctx context.Context, id, hash string) error
	ListUsers(ctx context.Context, f UserFilter) ([]models.User, int, error)
}

// ProfileUpdate carries the only user fields a profile update may touch.
type ProfileUpdate struct {
	Name  *string
	Email *string
}

type UserFilter struct {
	Role string
	Page int
	Size int
}

const (
	DefaultUserPageSize = 25
	MaxUserPageSize     = 100
)

// Normalize clamps paging to usable values.
func (f UserFilter) Normalize() UserFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Size < 1 {
		f.Size = DefaultUserPageSize
	}
	if f.Size > MaxUserPageSize {
		f.Size = MaxUserPageSize
	}
	return f
}

// Offset saturates at math.MaxInt instead of overflowing.
func (f UserFilter) Offset() int {
	f = f.Normalize()
	if f.Page-1 > math.MaxInt/f.Size {
		return math.MaxInt
	}
	return (f.Page - 1) * f.Size
}
