package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/eldieng/Fawsayni-Tech/internal/api/apperr"
	"github.com/eldieng/Fawsayni-Tech/internal/api/httpx"
	"github.com/eldieng/Fawsayni-Tech/internal/api/middlewares"
	"github.com/eldieng/Fawsayni-Tech/internal/models"
	"github.com/eldieng/Fawsayni-Tech/internal/store"
	"github.com/eldieng/Fawsayni-Tech/internal/validate"
)

const (
	msgUserNotFound    = "Utilisateur non trouvé"
	msgNotForPasswords = "Cette route n'est pas pour les mises à jour de mot de passe. Veuillez utiliser /updateMyPassword."
	msgWrongPassword   = "Votre mot de passe actuel est incorrect"
	msgBadRole         = "Le rôle doit être user ou admin"
)

// Me returns the current user's profile.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := middlewares.UserFrom(r.Context())
	if !ok {
		httpx.Error(w, http.StatusNotFound, msgUserNotFound)
		return
	}
	httpx.Data(w, http.StatusOK, "user", u)
}

// GetUser returns any user by id.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.Users.UserByID(r.Context(), r.PathValue("id"))
	if err != nil {
		apperr.Write(w, r, notFoundAs(err, msgUserNotFound))
		return
	}
	httpx.Data(w, http.StatusOK, "user", u)
}

// UpdateMe changes name and email. Requests carrying password fields are
// refused; all other keys are ignored.
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	me, _ := middlewares.UserFrom(r.Context())

	b, err := readBody(r)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(b, &keys); err != nil {
		httpx.Error(w, http.StatusBadRequest, msgBadJSON)
		return
	}
	_, hasPwd := keys["password"]
	_, hasConfirm := keys["passwordConfirm"]
	if hasPwd || hasConfirm {
		httpx.Error(w, http.StatusBadRequest, msgNotForPasswords)
		return
	}

	var req UpdateMeRequest
	if err := json.Unmarshal(b, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, msgBadJSON)
		return
	}
	if req.Name != nil {
		*req.Name = validate.Text(*req.Name)
	}
	if req.Email != nil {
		*req.Email = validate.Email(*req.Email)
	}
	if err := validate.Struct(req); err != nil {
		apperr.Write(w, r, err)
		return
	}
	if req.Name == nil && req.Email == nil {
		httpx.Data(w, http.StatusOK, "user", me)
		return
	}

	u, err := h.Users.UpdateProfile(r.Context(), me.ID, store.ProfileUpdate{Name: req.Name, Email: req.Email})
	if err != nil {
		apperr.Write(w, r, notFoundAs(err, msgUserNotFound))
		return
	}
	httpx.Data(w, http.StatusOK, "user", u)
}

// UpdateMyPassword checks the current password, stores the new one and
// returns a fresh token.
func (h *Handler) UpdateMyPassword(w http.ResponseWriter, r *http.Request) {
	me, _ := middlewares.UserFrom(r.Context())

	var req UpdatePasswordRequest
	if err := decode(r, &req); err != nil {
		apperr.Write(w, r, err)
		return
	}
	ok, _, err := h.Hasher.Verify(req.CurrentPassword, me.PasswordHash)
	if err != nil || !ok {
		httpx.Error(w, http.StatusUnauthorized, msgWrongPassword)
		return
	}
	if err := validate.Struct(req); err != nil {
		apperr.Write(w, r, err)
		return
	}

	hash, err := h.Hasher.Hash(req.NewPassword)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	if err := h.Users.UpdatePasswordHash(r.Context(), me.ID, hash); err != nil {
		apperr.Write(w, r, notFoundAs(err, msgUserNotFound))
		return
	}
	me.PasswordHash = hash
	passwordHints(w, req.NewPassword, me.Email, me.Name)
	h.sendToken(w, r, http.StatusOK, me)
}

// ListUsers pages through users, optionally filtered by role.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	role := q.Get("role")
	if role != "" && role != models.RoleUser && role != models.RoleAdmin {
		httpx.Error(w, http.StatusBadRequest, msgBadRole)
		return
	}
	page, size := validate.ClampPage(q.Get("page"), q.Get("limit"), store.DefaultUserPageSize, store.MaxUserPageSize)

	users, total, err := h.Users.ListUsers(r.Context(), store.UserFilter{Role: role, Page: page, Size: size})
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	out := UserList{
		Status:      httpx.StatusSuccess,
		Results:     len(users),
		TotalUsers:  total,
		TotalPages:  (total + size - 1) / size,
		CurrentPage: page,
	}
	out.Data.Users = users
	httpx.WriteJSON(w, http.StatusOK, out)
}

func notFoundAs(err error, msg string) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.Wrap(err, http.StatusNotFound, msg)
	}
	return err
}
