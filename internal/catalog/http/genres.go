package http

import (
	"net/http"

	"github.com/aussiebroadwan/bookworm/internal/catalog/service"
	"github.com/aussiebroadwan/bookworm/pkg/authsdk"
	"github.com/aussiebroadwan/bookworm/pkg/httpx"
)

const (
	conflictGenre = "genre already exists"
	notFoundGenre = "genre not found"
)

type GenresHandler struct {
	CatalogService *service.CatalogService
}

// HandleAdd creates a genre.
//
//	@Summary	Add genre
//	@Tags		Genres
//	@Accept		json
//	@Produce	json
//	@Security	CookieAuth
//	@Param		request	body		authsdk.GenreRequest	true	"Genre"
//	@Success	201		{object}	authsdk.AddGenreResponse
//	@Failure	400		{object}	authsdk.ValidationErrorResponse
//	@Failure	401		{object}	authsdk.ErrorResponse
//	@Failure	403		{object}	authsdk.ErrorResponse
//	@Failure	409		{object}	authsdk.ErrorResponse	"Genre already exists"
//	@Router		/add-genre [post].
func (h *GenresHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var req authsdk.GenreRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	g, err := h.CatalogService.AddGenre(r.Context(), service.GenreInput{Name: req.Genre, Icon: req.Icon})
	if err != nil {
		writeError(w, r, err, conflictGenre, "")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authsdk.AddGenreResponse{
		Message:    "Genre added successfully",
		InsertedID: g.ID,
		Genre:      toGenre(g),
	})
}

// HandleList returns every genre.
//
//	@Summary	List genres
//	@Tags		Genres
//	@Produce	json
//	@Success	200	{object}	authsdk.GenresResponse
//	@Router		/genre [get].
func (h *GenresHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	genres, err := h.CatalogService.ListGenres(r.Context())
	if err != nil {
		writeError(w, r, err, "", "")
		return
	}

	out := authsdk.GenresResponse{Genres: make([]authsdk.Genre, 0, len(genres))}
	for _, g := range genres {
		out.Genres = append(out.Genres, toGenre(g))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleUpdate renames a genre and replaces its icon.
//
//	@Summary		Update genre
//	@Description	modifiedCount is 0 when the genre already had the given name and icon.
//	@Tags			Genres
//	@Accept			json
//	@Produce		json
//	@Security		CookieAuth
//	@Param			id		path		string					true	"Genre id"
//	@Param			request	body		authsdk.GenreRequest	true	"Genre"
//	@Success		200		{object}	authsdk.UpdateGenreResponse
//	@Failure		400		{object}	authsdk.ValidationErrorResponse
//	@Failure		404		{object}	authsdk.ErrorResponse
//	@Failure		409		{object}	authsdk.ErrorResponse	"Another genre has this name"
//	@Router			/update-genre/{id} [put].
func (h *GenresHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req authsdk.GenreRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	g, res, err := h.CatalogService.UpdateGenre(r.Context(), r.PathValue("id"), service.GenreInput{Name: req.Genre, Icon: req.Icon})
	if err != nil {
		writeError(w, r, err, conflictGenre, notFoundGenre)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.UpdateGenreResponse{
		Message:       "Genre updated successfully",
		MatchedCount:  res.Matched,
		ModifiedCount: res.Modified,
		Genre:         toGenre(g),
	})
}

// HandleDelete removes a genre. Books keep their genre string.
//
//	@Summary	Delete genre
//	@Tags		Genres
//	@Produce	json
//	@Security	CookieAuth
//	@Param		id	path		string	true	"Genre id"
//	@Success	200	{object}	authsdk.DeleteGenreResponse
//	@Failure	404	{object}	authsdk.ErrorResponse
//	@Router		/deleteGenre/{id} [delete].
func (h *GenresHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.CatalogService.DeleteGenre(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err, "", notFoundGenre)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.DeleteGenreResponse{
		Message:      "Genre deleted successfully",
		DeletedCount: 1,
	})
}
