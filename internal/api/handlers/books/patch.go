package books

import (
	"net/http"

	"github.com/eldieng/Fawsayni-Tech/internal/api/apperr"
	"github.com/eldieng/Fawsayni-Tech/internal/api/httpx"
)

// Patch handles PATCH /api/books/{id}. Only the fields sent change; the
// owner never does.
func (h *Handler) Patch(w http.ResponseWriter, r *http.Request) {
	b, err := h.load(r)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	if !h.canModify(r.Context(), b) {
		httpx.Error(w, http.StatusForbidden, msgCannotEdit)
		return
	}

	form, err := readForm(r)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	in, err := form.merge(inputFrom(b))
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	in.applyTo(&b)

	oldCover := b.CoverImage
	if form.cover != nil {
		if b.CoverImage, err = h.saveCover(r, form); err != nil {
			apperr.Write(w, r, err)
			return
		}
	}

	if err := h.Books.UpdateBook(r.Context(), b); err != nil {
		if form.cover != nil {
			h.discard(r.Context(), b.CoverImage)
		}
		apperr.Write(w, r, err)
		return
	}
	if form.cover != nil {
		h.discard(r.Context(), oldCover)
	}

	updated, err := h.Books.GetBook(r.Context(), b.ID)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	writeBook(w, http.StatusOK, updated)
}
