package router

import (
	"net/http"

	"github.com/eldieng/Fawsayni-Tech/internal/api/handlers"
	"github.com/eldieng/Fawsayni-Tech/internal/api/handlers/books"
	"github.com/eldieng/Fawsayni-Tech/internal/api/middlewares"
	"github.com/eldieng/Fawsayni-Tech/internal/auth"
	"github.com/eldieng/Fawsayni-Tech/internal/models"
	"github.com/eldieng/Fawsayni-Tech/internal/storage"
)

type Deps struct {
	Auth  *auth.Handler
	Books *books.Handler
	Authn *middlewares.Authenticator
	// Images serves /uploads/; nil disables the route.
	Images storage.ImageStore
	// AuthLimiter throttles signup and login; nil disables it.
	AuthLimiter *middlewares.FixedWindow
}

func Router(d Deps) http.Handler {
	mux := http.NewServeMux()

	// Root
	mux.HandleFunc("GET /{$}", handlers.Root)
	mux.HandleFunc("/", handlers.NotFound)

	// Auth (public)
	mux.Handle("POST /api/auth/signup", d.AuthLimiter.Middleware(http.HandlerFunc(d.Auth.Signup)))
	mux.Handle("POST /api/auth/login", d.AuthLimiter.Middleware(http.HandlerFunc(d.Auth.Login)))

	// Auth (bearer)
	protect := func(h http.HandlerFunc) http.Handler { return d.Authn.RequireAuth(h) }
	mux.Handle("GET /api/auth/me", protect(d.Auth.Me))
	mux.Handle("PATCH /api/auth/updateMe", protect(d.Auth.UpdateMe))
	mux.Handle("PATCH /api/auth/updateMyPassword", protect(d.Auth.UpdateMyPassword))
	mux.Handle("GET /api/auth/users/{id}", protect(d.Auth.GetUser))
	mux.Handle("GET /api/auth/users", d.Authn.RequireAuth(
		middlewares.RequireRole(models.RoleAdmin)(http.HandlerFunc(d.Auth.ListUsers)),
	))

	// Books: reads are public; writes need a bearer only when ownership
	// is enforced.
	mux.HandleFunc("GET /api/books", d.Books.List)
	mux.HandleFunc("GET /api/books/{id}", d.Books.Get)

	writer := d.Authn.OptionalAuth
	if d.Books.EnforceOwner {
		writer = d.Authn.RequireAuth
	}
	mux.Handle("POST /api/books", writer(http.HandlerFunc(d.Books.Create)))
	mux.Handle("PATCH /api/books/{id}", writer(http.HandlerFunc(d.Books.Patch)))
	mux.Handle("DELETE /api/books/{id}", writer(http.HandlerFunc(d.Books.Delete)))

	// Uploaded covers
	if d.Images != nil {
		mux.Handle("GET /uploads/", http.StripPrefix("/"+storage.PublicPrefix, d.Images))
	}

	return mux
}
