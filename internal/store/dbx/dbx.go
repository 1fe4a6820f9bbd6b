package dbx

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/eldieng/Fawsayni-Tech/internal/store"
	"github.com/jackc/pgx/v5/pgconn"
)

// Queryer is satisfied by both *sql.DB and *sql.Tx.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ReadSnapshot is a read-only transaction whose reads all see one snapshot.
var ReadSnapshot = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}

// WithinTx runs fn in a transaction (commit on nil, rollback on error).
func WithinTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Constraint names created by the migrations, mapped to API field names.
var constraintField = map[string]string{
	"books_isbn_key":  "isbn",
	"users_email_key": "email",
}

// MapPGError normalizes driver errors into store sentinels. Errors it does
// not recognise are returned unchanged.
func MapPGError(err error) error {
	var pg *pgconn.PgError
	if !errors.As(err, &pg) {
		return err
	}
	switch pg.Code {
	case "23505": // unique_violation
		field := constraintField[pg.ConstraintName]
		if field == "" {
			field = fieldFromDetail(pg.Detail)
		}
		return store.Conflict(field, err)
	case "23503", "22P02": // foreign_key_violation, invalid_text_representation
		return errors.Join(store.ErrInvalid, err)
	}
	return err
}

// Detail looks like: Key (email)=(a@b.c) already exists.
func fieldFromDetail(detail string) string {
	open := strings.Index(detail, "(")
	end := strings.Index(detail, ")")
	if open < 0 || end <= open+1 {
		return ""
	}
	return detail[open+1 : end]
}
