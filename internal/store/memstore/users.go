package memstore

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/eldieng/Fawsayni-Tech/internal/models"
	"github.com/eldieng/Fawsayni-Tech/internal/store"
	"github.com/google/uuid"
)

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.emailTaken(u.Email, ""); err != nil {
		return err
	}
	u.ID = uuid.NewString()
	u.CreatedAt = s.Now()
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	s.users[u.ID] = *u
	return nil
}

func (s *Store) UserByID(ctx context.Context, id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, fmt.Errorf("user %q: %w", id, store.ErrNotFound)
	}
	return u, nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return models.User{}, fmt.Errorf("user with email: %w", store.ErrNotFound)
}

func (s *Store) UpdateProfile(ctx context.Context, id string, p store.ProfileUpdate) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, fmt.Errorf("user %q: %w", id, store.ErrNotFound)
	}
	if p.Email != nil {
		if err := s.emailTaken(*p.Email, id); err != nil {
			return models.User{}, err
		}
		u.Email = *p.Email
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	s.users[id] = u
	return u, nil
}

func (s *Store) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return fmt.Errorf("user %q: %w", id, store.ErrNotFound)
	}
	u.PasswordHash = hash
	s.users[id] = u
	return nil
}

// ListUsers orders by creation time, newest first.
func (s *Store) ListUsers(ctx context.Context, f store.UserFilter) ([]models.User, int, error) {
	f = f.Normalize()
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []models.User
	for _, u := range s.users {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		all = append(all, u)
	}
	slices.SortFunc(all, func(a, b models.User) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	total := len(all)
	off := f.Offset()
	if off >= total {
		return []models.User{}, total, nil
	}
	return slices.Clone(all[off:off+min(f.Size, total-off)]), total, nil
}

func (s *Store) emailTaken(email, self string) error {
	for id, u := range s.users {
		if id != self && strings.EqualFold(u.Email, email) {
			return store.Conflict("email", nil)
		}
	}
	return nil
}
