package authsdk

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) ListGenres(ctx context.Context) ([]Genre, error) {
	var out GenresResponse
	if err := c.call(ctx, request{method: http.MethodGet, path: "/genre"}, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return out.Genres, nil
}

// AddGenre creates a genre. Admin only; 409 when the name is taken.
func (c *Client) AddGenre(ctx context.Context, g GenreRequest) (*AddGenreResponse, error) {
	req, err := jsonRequest(http.MethodPost, "/add-genre", g)
	if err != nil {
		return nil, err
	}
	req.authenticated = true

	var out AddGenreResponse
	if err := c.call(ctx, req, http.StatusCreated, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateGenre(ctx context.Context, id string, g GenreRequest) (*UpdateGenreResponse, error) {
	req, err := jsonRequest(http.MethodPut, "/update-genre/"+url.PathEscape(id), g)
	if err != nil {
		return nil, err
	}
	req.authenticated = true

	var out UpdateGenreResponse
	if err := c.call(ctx, req, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteGenre(ctx context.Context, id string) (*DeleteGenreResponse, error) {
	req := request{method: http.MethodDelete, path: "/deleteGenre/" + url.PathEscape(id), authenticated: true}

	var out DeleteGenreResponse
	if err := c.call(ctx, req, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type BookRequest struct {
	Title       string
	Author      string
	Genre       string
	Description string
	Cover       File
	PDF         File
}

// AddBook uploads a book with its cover and PDF. Admin only.
func (c *Client) AddBook(ctx context.Context, b BookRequest) (*AddBookResponse, error) {
	req, err := multipartRequest(http.MethodPost, "/add-book",
		[]formField{
			{"title", b.Title},
			{"author", b.Author},
			{"genre", b.Genre},
			{"description", b.Description},
		},
		map[string]File{"cover": b.Cover, "pdf": b.PDF},
	)
	if err != nil {
		return nil, err
	}
	req.authenticated = true

	var out AddBookResponse
	if err := c.call(ctx, req, http.StatusCreated, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListBooks returns books newest first. An empty genre lists all of them.
func (c *Client) ListBooks(ctx context.Context, genre string) ([]Book, error) {
	path := "/books"
	if genre != "" {
		path += "?" + url.Values{"genre": {genre}}.Encode()
	}

	var out BooksResponse
	if err := c.call(ctx, request{method: http.MethodGet, path: path}, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return out.Books, nil
}

func (c *Client) GetBook(ctx context.Context, id string) (*Book, error) {
	var out BookResponse
	req := request{method: http.MethodGet, path: "/books/" + url.PathEscape(id)}
	if err := c.call(ctx, req, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out.Book, nil
}
