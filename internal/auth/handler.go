// Package auth serves signup, login and profile endpoints under /api/auth.
package auth

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/eldieng/Fawsayni-Tech/internal/api/apperr"
	"github.com/eldieng/Fawsayni-Tech/internal/api/httpx"
	"github.com/eldieng/Fawsayni-Tech/internal/models"
	jwtutil "github.com/eldieng/Fawsayni-Tech/internal/security/jwt"
	"github.com/eldieng/Fawsayni-Tech/internal/security/password"
	"github.com/eldieng/Fawsayni-Tech/internal/store"
)

type Handler struct {
	Users  store.UserStore
	Hasher *password.Hasher
	Tokens *jwtutil.Signer
	// AllowAdminSignup lets signup requests ask for role=admin.
	AllowAdminSignup bool
}

func New(users store.UserStore, hasher *password.Hasher, tokens *jwtutil.Signer) *Handler {
	return &Handler{Users: users, Hasher: hasher, Tokens: tokens}
}

const msgBadJSON = "Corps de requête JSON invalide"

// sendToken signs a token for u and writes {status, token, data:{user}}.
func (h *Handler) sendToken(w http.ResponseWriter, r *http.Request, status int, u models.User) {
	token, err := h.Tokens.Sign(u.ID)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, status, TokenResponse{
		Status: httpx.StatusSuccess,
		Token:  token,
		Data:   UserData{User: u},
	})
}

// readBody returns the raw request body, mapping oversize bodies to 413.
func readBody(r *http.Request) ([]byte, error) {
	b, err := io.ReadAll(r.Body)
	if err != nil {
		var mb *http.MaxBytesError
		if errors.As(err, &mb) {
			return nil, err
		}
		return nil, apperr.Wrap(err, http.StatusBadRequest, msgBadJSON)
	}
	return b, nil
}

func decode(r *http.Request, dst any) error {
	b, err := readBody(r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return apperr.Wrap(err, http.StatusBadRequest, msgBadJSON)
	}
	return nil
}
