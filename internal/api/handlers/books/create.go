package books

import (
	"net/http"

	"github.com/eldieng/Fawsayni-Tech/internal/api/apperr"
	"github.com/eldieng/Fawsayni-Tech/internal/api/httpx"
	"github.com/eldieng/Fawsayni-Tech/internal/models"
)

// Create handles POST /api/books. The owner is the caller, or the
// configured default owner when ownership is not enforced.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.ownerFor(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, msgNotLoggedIn)
		return
	}

	form, err := readForm(r)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	in, err := form.merge(BookInput{Available: true})
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	b := models.Book{Owner: owner, CoverImage: models.DefaultCoverImage}
	in.applyTo(&b)

	if form.cover != nil {
		if b.CoverImage, err = h.saveCover(r, form); err != nil {
			apperr.Write(w, r, err)
			return
		}
	}

	if err := h.Books.CreateBook(r.Context(), &b); err != nil {
		if form.cover != nil {
			h.discard(r.Context(), b.CoverImage)
		}
		apperr.Write(w, r, err)
		return
	}
	writeBook(w, http.StatusCreated, b)
}
