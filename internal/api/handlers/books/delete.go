package books

import (
	"net/http"

	"github.com/eldieng/Fawsayni-Tech/internal/api/apperr"
	"github.com/eldieng/Fawsayni-Tech/internal/api/httpx"
)

// Delete handles DELETE /api/books/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	b, err := h.load(r)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	if !h.canModify(r.Context(), b) {
		httpx.Error(w, http.StatusForbidden, msgCannotDelete)
		return
	}
	if err := h.Books.DeleteBook(r.Context(), b.ID); err != nil {
		apperr.Write(w, r, err)
		return
	}
	h.discard(r.Context(), b.CoverImage)
	httpx.NoContent(w)
}
