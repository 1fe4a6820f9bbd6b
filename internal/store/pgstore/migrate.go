package pgstore

import (
	"context"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	name          TEXT NOT NULL,
	email         TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin')),
	created_at    TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
	CONSTRAINT users_email_key UNIQUE (email)
);

CREATE INDEX IF NOT EXISTS idx_users_created_at ON users(created_at DESC);

CREATE TABLE IF NOT EXISTS books (
	id             UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	title          VARCHAR(100) NOT NULL,
	author         TEXT NOT NULL,
	description    TEXT NOT NULL DEFAULT '',
	isbn           TEXT NOT NULL DEFAULT '',
	published_year INTEGER,
	genre          TEXT NOT NULL DEFAULT '',
	cover_image    TEXT NOT NULL DEFAULT 'default-book.jpg',
	available      BOOLEAN NOT NULL DEFAULT TRUE,
	user_id        UUID NOT NULL REFERENCES users(id),
	created_at     TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS books_isbn_key ON books(isbn) WHERE isbn <> '';
CREATE INDEX IF NOT EXISTS idx_books_genre ON books(genre);
CREATE INDEX IF NOT EXISTS idx_books_user ON books(user_id);
CREATE INDEX IF NOT EXISTS idx_books_created_at ON books(created_at DESC, id);
`

// Migrate creates the tables and indexes. It is safe to run repeatedly.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
