package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/eldieng/Fawsayni-Tech/internal/models"
	"github.com/eldieng/Fawsayni-Tech/internal/store"
	storebooks "github.com/eldieng/Fawsayni-Tech/internal/store/books"
	"github.com/eldieng/Fawsayni-Tech/internal/store/dbx"
	"github.com/google/uuid"
)

const bookColumns = `id::text, title, author, description, isbn, published_year, genre, cover_image, available, user_id::text, created_at`

type scanner interface{ Scan(dest ...any) error }

func scanBook(s scanner) (models.Book, error) {
	var (
		b    models.Book
		year sql.NullInt32
	)
	err := s.Scan(&b.ID, &b.Title, &b.Author, &b.Description, &b.ISBN, &year,
		&b.Genre, &b.CoverImage, &b.Available, &b.Owner, &b.CreatedAt)
	if err != nil {
		return models.Book{}, err
	}
	if year.Valid {
		y := int(year.Int32)
		b.PublishedYear = &y
	}
	return b, nil
}

func yearArg(y *int) any {
	if y == nil {
		return nil
	}
	return *y
}

// Snapshot runs fn inside a read-only REPEATABLE READ transaction.
func (s *Store) Snapshot(ctx context.Context, fn func(storebooks.Reader) error) error {
	return dbx.WithinTx(ctx, s.db, dbx.ReadSnapshot, func(tx *sql.Tx) error {
		return fn(reader{q: tx})
	})
}

type reader struct{ q dbx.Queryer }

func (r reader) CountBooks(ctx context.Context, f storebooks.Filter) (int, error) {
	where, args := whereClause(f)
	var total int
	if err := r.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM books"+where, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r reader) FindBooks(ctx context.Context, f storebooks.Filter, keys []storebooks.SortKey, skip, limit int) ([]models.Book, error) {
	where, args := whereClause(f)
	n := len(args)
	q := "SELECT " + bookColumns + " FROM books" + where + orderClause(keys) +
		" LIMIT $" + strconv.Itoa(n+1) + " OFFSET $" + strconv.Itoa(n+2)

	rows, err := r.q.QueryContext(ctx, q, append(args, limit, max(skip, 0))...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) GetBook(ctx context.Context, id string) (models.Book, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.Book{}, fmt.Errorf("book %q: %w", id, store.ErrNotFound)
	}
	b, err := scanBook(s.db.QueryRowContext(ctx,
		"SELECT "+bookColumns+" FROM books WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Book{}, fmt.Errorf("book %q: %w", id, store.ErrNotFound)
	}
	return b, err
}

func (s *Store) CreateBook(ctx context.Context, b *models.Book) error {
	const q = `INSERT INTO books (title, author, description, isbn, published_year, genre, cover_image, available, user_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id::text, created_at`
	err := s.db.QueryRowContext(ctx, q,
		b.Title, b.Author, b.Description, b.ISBN, yearArg(b.PublishedYear),
		b.Genre, b.CoverImage, b.Available, b.Owner,
	).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return dbx.MapPGError(err)
	}
	return nil
}

func (s *Store) UpdateBook(ctx context.Context, b models.Book) error {
	if _, err := uuid.Parse(b.ID); err != nil {
		return fmt.Errorf("book %q: %w", b.ID, store.ErrNotFound)
	}
	const q = `UPDATE books SET title = $1, author = $2, description = $3, isbn = $4, published_year = $5,
genre = $6, cover_image = $7, available = $8
WHERE id = $9`
	res, err := s.db.ExecContext(ctx, q,
		b.Title, b.Author, b.Description, b.ISBN, yearArg(b.PublishedYear),
		b.Genre, b.CoverImage, b.Available, b.ID,
	)
	if err != nil {
		return dbx.MapPGError(err)
	}
	return affectedOne(res, "book", b.ID)
}

func (s *Store) DeleteBook(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("book %q: %w", id, store.ErrNotFound)
	}
	res, err := s.db.ExecContext(ctx, "DELETE FROM books WHERE id = $1", id)
	if err != nil {
		return err
	}
	return affectedOne(res, "book", id)
}

func affectedOne(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %q: %w", kind, id, store.ErrNotFound)
	}
	return nil
}
