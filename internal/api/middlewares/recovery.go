package middlewares

import (
	"log"
	"net/http"
	"runtime/debug"

	"github.com/eldieng/Fawsayni-Tech/internal/api/httpx"
)

func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}
				rid := GetRequestID(r)
				if rid == "" {
					rid = "unknown"
				}
				log.Printf("[PANIC] rid=%s %s %s: %v\n%s", rid, r.Method, r.URL.Path, err, debug.Stack())

				httpx.Error(w, http.StatusInternalServerError, "Une erreur interne est survenue")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
