package service_test

import (
	"strings"
	"testing"

	"github.com/aussiebroadwan/bookworm/internal/catalog/media"
	"github.com/aussiebroadwan/bookworm/internal/catalog/service"
	"github.com/stretchr/testify/require"
)

func TestGenres(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	fantasy, err := f.catalog.AddGenre(ctx, service.GenreInput{Name: " Fantasy ", Icon: "x"})
	require.NoError(t, err)
	require.NotEmpty(t, fantasy.ID)
	require.Equal(t, "Fantasy", fantasy.Name)

	_, err = f.catalog.AddGenre(ctx, service.GenreInput{Name: "Fantasy", Icon: "y"})
	require.ErrorIs(t, err, service.ErrConflict)

	_, err = f.catalog.AddGenre(ctx, service.GenreInput{Icon: "y"})
	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "genre")

	scifi, err := f.catalog.AddGenre(ctx, service.GenreInput{Name: "Sci-Fi", Icon: "rocket"})
	require.NoError(t, err)

	genres, err := f.catalog.ListGenres(ctx)
	require.NoError(t, err)
	require.Len(t, genres, 2)

	t.Run("update", func(t *testing.T) {
		g, res, err := f.catalog.UpdateGenre(ctx, fantasy.ID, service.GenreInput{Name: "High Fantasy", Icon: "x"})
		require.NoError(t, err)
		require.Equal(t, "High Fantasy", g.Name)
		require.EqualValues(t, 1, res.Matched)
		require.EqualValues(t, 1, res.Modified)

		_, res, err = f.catalog.UpdateGenre(ctx, fantasy.ID, service.GenreInput{Name: "High Fantasy", Icon: "x"})
		require.NoError(t, err)
		require.EqualValues(t, 1, res.Matched)
		require.EqualValues(t, 0, res.Modified)
	})

	t.Run("update onto existing name", func(t *testing.T) {
		_, _, err := f.catalog.UpdateGenre(ctx, scifi.ID, service.GenreInput{Name: "High Fantasy"})
		require.ErrorIs(t, err, service.ErrConflict)
	})

	t.Run("update unknown", func(t *testing.T) {
		_, _, err := f.catalog.UpdateGenre(ctx, "nope", service.GenreInput{Name: "Horror"})
		require.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, f.catalog.DeleteGenre(ctx, scifi.ID))
		require.ErrorIs(t, f.catalog.DeleteGenre(ctx, scifi.ID), service.ErrNotFound)
	})
}

func file(name, body string) *media.Object {
	return &media.Object{Filename: name, Body: strings.NewReader(body), Size: int64(len(body))}
}

func TestBooks(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	dune, err := f.catalog.AddBook(ctx, service.BookInput{
		Title:       "Dune",
		Author:      "Frank Herbert",
		Genre:       "Sci-Fi",
		Description: "Spice.",
		Cover:       file("dune.jpg", "jpg"),
		PDF:         file("dune.pdf", "%PDF"),
	})
	require.NoError(t, err)
	require.NotEmpty(t, dune.ID)
	require.Contains(t, dune.Cover, "book_photo/")
	require.Contains(t, dune.PDF, "book_pdf/")
	require.Zero(t, dune.Rating)
	require.Zero(t, dune.RatingCount)
	require.Zero(t, dune.ShelvedCount)

	_, err = f.catalog.AddBook(ctx, service.BookInput{
		Title: "Hobbit", Author: "Tolkien", Genre: "Fantasy",
		Cover: file("h.png", "png"), PDF: file("h.pdf", "%PDF"),
	})
	require.NoError(t, err)

	got, err := f.catalog.GetBook(ctx, dune.ID)
	require.NoError(t, err)
	require.Equal(t, "Dune", got.Title)

	_, err = f.catalog.GetBook(ctx, "missing")
	require.ErrorIs(t, err, service.ErrNotFound)

	all, err := f.catalog.ListBooks(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)

	scifi, err := f.catalog.ListBooks(ctx, "Sci-Fi")
	require.NoError(t, err)
	require.Len(t, scifi, 1)
	require.Equal(t, dune.ID, scifi[0].ID)
}

func TestAddBook_RejectsBadFilesBeforeUploading(t *testing.T) {
	f := newFixture(t)

	_, err := f.catalog.AddBook(t.Context(), service.BookInput{
		Title: "Dune", Author: "Herbert", Genre: "Sci-Fi",
		Cover: file("dune.jpg", "jpg"), PDF: file("dune.docx", "doc"),
	})
	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "pdf")
	require.Zero(t, f.media.Len())

	_, err = f.catalog.AddBook(t.Context(), service.BookInput{Title: "Dune"})
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "author")
	require.Contains(t, verr.Fields, "cover")
	require.Contains(t, verr.Fields, "pdf")
}
