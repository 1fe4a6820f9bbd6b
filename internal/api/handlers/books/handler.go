// Package books serves /api/books: the public listing and lookup, and the
// create, update and delete operations on book records.
package books

import (
	"context"
	"log"
	"net/http"

	"github.com/eldieng/Fawsayni-Tech/internal/api/httpx"
	"github.com/eldieng/Fawsayni-Tech/internal/api/middlewares"
	"github.com/eldieng/Fawsayni-Tech/internal/models"
	"github.com/eldieng/Fawsayni-Tech/internal/storage"
	"github.com/eldieng/Fawsayni-Tech/internal/store"
)

const (
	msgBookNotFound = "Aucun livre trouvé avec cet ID"
	msgNotLoggedIn  = "Vous n'êtes pas connecté. Veuillez vous connecter pour accéder à cette ressource."
	msgCannotEdit   = "Vous n'êtes pas autorisé à modifier ce livre"
	msgCannotDelete = "Vous n'êtes pas autorisé à supprimer ce livre"
)

type Handler struct {
	Books  store.BookStore
	Images *storage.Uploader

	// EnforceOwner restricts changes to the book's owner and admins. When
	// false any caller may change any book, and anonymous creations are
	// attributed to DefaultOwnerID.
	EnforceOwner   bool
	DefaultOwnerID string
}

// canModify reports whether the caller on ctx may change b.
func (h *Handler) canModify(ctx context.Context, b models.Book) bool {
	if !h.EnforceOwner {
		return true
	}
	u, ok := middlewares.UserFrom(ctx)
	return ok && (u.ID == b.Owner || u.IsAdmin())
}

// ownerFor picks the owner recorded on a new book.
func (h *Handler) ownerFor(ctx context.Context) (string, bool) {
	if u, ok := middlewares.UserFrom(ctx); ok {
		return u.ID, true
	}
	if !h.EnforceOwner && h.DefaultOwnerID != "" {
		return h.DefaultOwnerID, true
	}
	return "", false
}

// discard removes an uploaded cover, logging failures.
func (h *Handler) discard(ctx context.Context, coverPath string) {
	if h.Images == nil || coverPath == "" {
		return
	}
	if err := h.Images.Discard(context.WithoutCancel(ctx), coverPath); err != nil {
		log.Printf("[Books] remove cover %s: %v", coverPath, err)
	}
}

func writeBook(w http.ResponseWriter, status int, b models.Book) {
	httpx.Data(w, status, "book", b)
}
