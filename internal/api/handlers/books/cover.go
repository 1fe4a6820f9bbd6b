package books

import (
	"errors"
	"net/http"

	"github.com/eldieng/Fawsayni-Tech/internal/api/apperr"
	"github.com/eldieng/Fawsayni-Tech/internal/storage"
)

// saveCover stores the uploaded cover before the record is written.
func (h *Handler) saveCover(r *http.Request, form bookForm) (string, error) {
	if h.Images == nil {
		return "", apperr.BadRequest("Les images ne sont pas acceptées")
	}
	p, err := h.Images.SaveBookCover(r.Context(), form.cover)
	switch {
	case errors.Is(err, storage.ErrNotImage), errors.Is(err, storage.ErrTooLarge):
		return "", apperr.Wrap(err, http.StatusBadRequest, err.Error())
	case err != nil:
		return "", err
	}
	return p, nil
}
