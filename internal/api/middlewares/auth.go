package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/eldieng/Fawsayni-Tech/internal/api/httpx"
	jwtutil "github.com/eldieng/Fawsayni-Tech/internal/security/jwt"
	"github.com/eldieng/Fawsayni-Tech/internal/store"
)

const (
	msgNotLoggedIn = "Vous n'êtes pas connecté. Veuillez vous connecter pour accéder à cette ressource."
	msgUserGone    = "L'utilisateur associé à ce token n'existe plus."
	msgBadToken    = "Non autorisé: token invalide ou expiré"
)

// Authenticator resolves bearer tokens to users.
type Authenticator struct {
	Tokens *jwtutil.Signer
	Users  store.UserStore
}

// RequireAuth verifies the Bearer JWT, loads the user it names and injects
// it into the context.
func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("Authorization")
		if raw == "" {
			httpx.Error(w, http.StatusUnauthorized, msgNotLoggedIn)
			return
		}
		tokenStr, err := bearer(raw)
		if err != nil {
			httpx.Error(w, http.StatusUnauthorized, msgNotLoggedIn)
			return
		}
		claims, err := a.Tokens.Parse(tokenStr)
		if err != nil {
			httpx.Error(w, http.StatusUnauthorized, msgBadToken)
			return
		}
		u, err := a.Users.UserByID(r.Context(), claims.Who())
		if errors.Is(err, store.ErrNotFound) {
			httpx.Error(w, http.StatusUnauthorized, msgUserGone)
			return
		}
		if err != nil {
			httpx.Error(w, http.StatusInternalServerError, "Une erreur interne est survenue")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
	})
}

// OptionalAuth attaches the user if a valid Bearer is present; otherwise
// continues unauthenticated.
func (a *Authenticator) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr, err := bearer(r.Header.Get("Authorization"))
		if err != nil {
			next.ServeHTTP(w, r) // no or bad header; act as guest
			return
		}
		claims, err := a.Tokens.Parse(tokenStr)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		u, err := a.Users.UserByID(r.Context(), claims.Who())
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
	})
}

func bearer(h string) (string, error) {
	if !strings.HasPrefix(h, "Bearer ") && !strings.HasPrefix(h, "bearer ") {
		return "", errors.New("no bearer")
	}
	tok := strings.TrimSpace(h[len("Bearer "):])
	if tok == "" {
		return "", errors.New("empty bearer")
	}
	return tok, nil
}
