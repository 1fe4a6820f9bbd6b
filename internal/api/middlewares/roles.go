package middlewares

import (
	"net/http"
	"slices"

	"github.com/eldieng/Fawsayni-Tech/internal/api/httpx"
)

// RequireRole admits callers whose role is one of roles. It must run after
// RequireAuth.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := UserFrom(r.Context())
			if !ok {
				httpx.Error(w, http.StatusUnauthorized, msgNotLoggedIn)
				return
			}
			if !slices.Contains(roles, u.Role) {
				httpx.Error(w, http.StatusForbidden, "Vous n'avez pas la permission d'effectuer cette action")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
