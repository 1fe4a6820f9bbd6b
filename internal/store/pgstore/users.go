package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/eldieng/Fawsayni-Tech/internal/models"
	"github.com/eldieng/Fawsayni-Tech/internal/store"
	"github.com/eldieng/Fawsayni-Tech/internal/store/dbx"
	"github.com/google/uuid"
)

const userColumns = `id::text, name, email, password_hash, role, created_at`

func scanUser(s scanner) (models.User, error) {
	var u models.User
	err := s.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	return u, err
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	const q = `INSERT INTO users (name, email, password_hash, role)
VALUES ($1, $2, $3, $4)
RETURNING id::text, created_at`
	if err := s.db.QueryRowContext(ctx, q, u.Name, u.Email, u.PasswordHash, u.Role).Scan(&u.ID, &u.CreatedAt); err != nil {
		return dbx.MapPGError(err)
	}
	return nil
}

func (s *Store) UserByID(ctx context.Context, id string) (models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.User{}, fmt.Errorf("user %q: %w", id, store.ErrNotFound)
	}
	return s.oneUser(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
}

func (s *Store) UserByEmail(ctx context.Context, email string) (models.User, error) {
	return s.oneUser(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email)
}

func (s *Store) oneUser(ctx context.Context, q string, arg any) (models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, q, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, fmt.Errorf("user: %w", store.ErrNotFound)
	}
	return u, err
}

func (s *Store) UpdateProfile(ctx context.Context, id string, p store.ProfileUpdate) (models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.User{}, fmt.Errorf("user %q: %w", id, store.ErrNotFound)
	}
	set := []string{}
	args := []any{}
	i := 1
	if p.Name != nil {
		set = append(set, "name = $"+strconv.Itoa(i))
		args = append(args, *p.Name)
		i++
	}
	if p.Email != nil {
		set = append(set, "email = $"+strconv.Itoa(i))
		args = append(args, *p.Email)
		i++
	}
	if len(set) == 0 {
		return s.UserByID(ctx, id)
	}

	q := "UPDATE users SET " + strings.Join(set, ", ") + " WHERE id = $" + strconv.Itoa(i) + " RETURNING " + userColumns
	u, err := scanUser(s.db.QueryRowContext(ctx, q, append(args, id)...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, fmt.Errorf("user %q: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return models.User{}, dbx.MapPGError(err)
	}
	return u, nil
}

func (s *Store) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("user %q: %w", id, store.ErrNotFound)
	}
	res, err := s.db.ExecContext(ctx, "UPDATE users SET password_hash = $1 WHERE id = $2", hash, id)
	if err != nil {
		return err
	}
	return affectedOne(res, "user", id)
}

func (s *Store) ListUsers(ctx context.Context, f store.UserFilter) ([]models.User, int, error) {
	f = f.Normalize()
	where := ""
	args := []any{}
	if f.Role != "" {
		where = " WHERE role = $1"
		args = append(args, f.Role)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := len(args)
	q := "SELECT " + userColumns + " FROM users" + where +
		" ORDER BY created_at DESC, id ASC LIMIT $" + strconv.Itoa(n+1) + " OFFSET $" + strconv.Itoa(n+2)
	rows, err := s.db.QueryContext(ctx, q, append(args, f.Size, f.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}
