package auth

import (
	"errors"
	"log"
	"net/http"

	"github.com/eldieng/Fawsayni-Tech/internal/api/apperr"
	"github.com/eldieng/Fawsayni-Tech/internal/api/httpx"
	"github.com/eldieng/Fawsayni-Tech/internal/models"
	"github.com/eldieng/Fawsayni-Tech/internal/store"
	"github.com/eldieng/Fawsayni-Tech/internal/validate"
)

const (
	msgMissingCredentials = "Veuillez fournir un email et un mot de passe"
	msgBadCredentials     = "Email ou mot de passe incorrect"
	msgAdminSignup        = "Vous n'avez pas la permission de créer un compte administrateur"
)

// Signup creates a user and logs them in.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := decode(r, &req); err != nil {
		apperr.Write(w, r, err)
		return
	}
	req.Name = validate.Text(req.Name)
	req.Email = validate.Email(req.Email)
	if err := validate.Struct(req); err != nil {
		apperr.Write(w, r, err)
		return
	}
	if req.Role == models.RoleAdmin && !h.AllowAdminSignup {
		httpx.Error(w, http.StatusForbidden, msgAdminSignup)
		return
	}

	hash, err := h.Hasher.Hash(req.Password)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	u := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
	}
	if err := h.Users.CreateUser(r.Context(), &u); err != nil {
		apperr.Write(w, r, err)
		return
	}
	passwordHints(w, req.Password, req.Email, req.Name)
	h.sendToken(w, r, http.StatusCreated, u)
}

// Login exchanges email and password for a token. Hashes from older
// parameters or bcrypt are upgraded in place.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decode(r, &req); err != nil {
		apperr.Write(w, r, err)
		return
	}
	email := validate.Email(req.Email)
	if email == "" || req.Password == "" {
		httpx.Error(w, http.StatusBadRequest, msgMissingCredentials)
		return
	}

	u, err := h.Users.UserByEmail(r.Context(), email)
	if errors.Is(err, store.ErrNotFound) {
		httpx.Error(w, http.StatusUnauthorized, msgBadCredentials)
		return
	}
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	ok, needsRehash, err := h.Hasher.Verify(req.Password, u.PasswordHash)
	if err != nil || !ok {
		if err != nil {
			log.Printf("[Auth] verify hash for user %s: %v", u.ID, err)
		}
		httpx.Error(w, http.StatusUnauthorized, msgBadCredentials)
		return
	}
	if needsRehash {
		if phc, err := h.Hasher.Hash(req.Password); err == nil {
			if err := h.Users.UpdatePasswordHash(r.Context(), u.ID, phc); err != nil {
				log.Printf("[Auth] rehash for user %s: %v", u.ID, err)
			}
		}
	}
	h.sendToken(w, r, http.StatusOK, u)
}
