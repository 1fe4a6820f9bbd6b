package books

import (
	"net/http"

	"github.com/eldieng/Fawsayni-Tech/internal/api/apperr"
	"github.com/eldieng/Fawsayni-Tech/internal/api/httpx"
	"github.com/eldieng/Fawsayni-Tech/internal/models"
	storebooks "github.com/eldieng/Fawsayni-Tech/internal/store/books"
)

// List handles GET /api/books: filters, search, sort and pagination.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := storebooks.ParseListParams(r.URL.Query())

	page, err := storebooks.Run(r.Context(), h.Books, params)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	resp := listResponse{
		Status:      httpx.StatusSuccess,
		Results:     len(page.Books),
		TotalBooks:  page.TotalCount,
		TotalPages:  page.TotalPages,
		CurrentPage: page.CurrentPage,
		HasNextPage: page.HasNextPage,
		HasPrevPage: page.HasPrevPage,
	}
	resp.Data.Books = page.Books
	if resp.Data.Books == nil {
		resp.Data.Books = []models.Book{}
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}
