package http

import (
	"github.com/aussiebroadwan/bookworm/internal/catalog/domain"
	"github.com/aussiebroadwan/bookworm/pkg/authsdk"
)

// toUser is the only way a user leaves the service: no hash, no secrets.
func toUser(u domain.User) authsdk.User {
	return authsdk.User{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Photo: u.Photo,
		Role:  string(u.Role),
	}
}

func toGenre(g domain.Genre) authsdk.Genre {
	return authsdk.Genre{ID: g.ID, Genre: g.Name, Icon: g.Icon, CreatedAt: g.CreatedAt}
}

func toBook(b domain.Book) authsdk.Book {
	return authsdk.Book{
		ID:           b.ID,
		Title:        b.Title,
		Author:       b.Author,
		Genre:        b.Genre,
		Description:  b.Description,
		Cover:        b.Cover,
		PDF:          b.PDF,
		Rating:       b.Rating,
		RatingCount:  b.RatingCount,
		ShelvedCount: b.ShelvedCount,
		CreatedAt:    b.CreatedAt,
	}
}
