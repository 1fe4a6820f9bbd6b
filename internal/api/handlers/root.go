package handlers

import (
	"net/http"

	"github.com/eldieng/Fawsayni-Tech/internal/api/httpx"
)

// Root answers GET / as a liveness check.
func Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("API de gestion de bibliothèque fonctionne correctement"))
}

// NotFound is the fallback for every unmatched route.
func NotFound(w http.ResponseWriter, r *http.Request) {
	httpx.Error(w, http.StatusNotFound, "Route non trouvée")
}
