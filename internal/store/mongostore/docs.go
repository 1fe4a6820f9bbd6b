package mongostore

import (
	"time"

	"github.com/eldieng/Fawsayni-Tech/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type bookDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Title         string             `bson:"title"`
	Author        string             `bson:"author"`
	Description   string             `bson:"description,omitempty"`
	ISBN          string             `bson:"isbn,omitempty"`
	PublishedYear *int               `bson:"publishedYear,omitempty"`
	Genre         string             `bson:"genre,omitempty"`
	CoverImage    string             `bson:"coverImage"`
	Available     bool               `bson:"available"`
	User          primitive.ObjectID `bson:"user"`
	CreatedAt     time.Time          `bson:"createdAt"`
}

func (d bookDoc) model() models.Book {
	return models.Book{
		ID:            d.ID.Hex(),
		Title:         d.Title,
		Author:        d.Author,
		Description:   d.Description,
		ISBN:          d.ISBN,
		PublishedYear: d.PublishedYear,
		Genre:         d.Genre,
		CoverImage:    d.CoverImage,
		Available:     d.Available,
		Owner:         d.User.Hex(),
		CreatedAt:     d.CreatedAt,
	}
}

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	Role      string             `bson:"role"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d userDoc) model() models.User {
	return models.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.Password,
		Role:         d.Role,
		CreatedAt:    d.CreatedAt,
	}
}
