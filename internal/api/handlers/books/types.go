package books

import "github.com/eldieng/Fawsayni-Tech/internal/models"

// BookInput is a complete book record as validated before it is stored.
type BookInput struct {
	Title         string `json:"title" validate:"required,max=100"`
	Author        string `json:"author" validate:"required"`
	Description   string `json:"description"`
	ISBN          string `json:"isbn" validate:"omitempty,isbn_format"`
	PublishedYear *int   `json:"publishedYear" validate:"omitnil,min=0,notfuture"`
	Genre         string `json:"genre"`
	Available     bool   `json:"available"`
}

func inputFrom(b models.Book) BookInput {
	return BookInput{
		Title:         b.Title,
		Author:        b.Author,
		Description:   b.Description,
		ISBN:          b.ISBN,
		PublishedYear: b.PublishedYear,
		Genre:         b.Genre,
		Available:     b.Available,
	}
}

func (in BookInput) applyTo(b *models.Book) {
	b.Title = in.Title
	b.Author = in.Author
	b.Description = in.Description
	b.ISBN = in.ISBN
	b.PublishedYear = in.PublishedYear
	b.Genre = in.Genre
	b.Available = in.Available
}

type listResponse struct {
	Status      string `json:"status"`
	Results     int    `json:"results"`
	TotalBooks  int    `json:"totalBooks"`
	TotalPages  int    `json:"totalPages"`
	CurrentPage int    `json:"currentPage"`
	HasNextPage bool   `json:"hasNextPage"`
	HasPrevPage bool   `json:"hasPrevPage"`
	Data        struct {
		Books []models.Book `json:"books"`
	} `json:"data"`
}
