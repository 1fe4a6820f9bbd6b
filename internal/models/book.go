package models

import (
	"encoding/json"
	"time"
)

// DefaultCoverImage is stored when a book is created without an image.
const DefaultCoverImage = "default-book.jpg"

type Book struct {
	ID            string    `json:"_id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Description   string    `json:"description,omitempty"`
	ISBN          string    `json:"isbn,omitempty"`
	PublishedYear *int      `json:"publishedYear,omitempty"`
	Genre         string    `json:"genre,omitempty"`
	CoverImage    string    `json:"coverImage"`
	Available     bool      `json:"available"`
	Owner         string    `json:"user"`
	CreatedAt     time.Time `json:"-"`
}

// MarshalJSON adds the "id" alias the browser client reads next to "_id".
func (b Book) MarshalJSON() ([]byte, error) {
	type plain Book
	return json.Marshal(struct {
		plain
		ID string `json:"id"`
	}{plain(b), b.ID})
}
