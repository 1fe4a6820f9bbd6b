package books

import (
	"errors"
	"net/http"

	"github.com/eldieng/Fawsayni-Tech/internal/api/apperr"
	"github.com/eldieng/Fawsayni-Tech/internal/models"
	"github.com/eldieng/Fawsayni-Tech/internal/store"
)

// Get handles GET /api/books/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.load(r)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	writeBook(w, http.StatusOK, b)
}

func (h *Handler) load(r *http.Request) (models.Book, error) {
	b, err := h.Books.GetBook(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		return b, apperr.Wrap(err, http.StatusNotFound, msgBookNotFound)
	}
	return b, err
}
