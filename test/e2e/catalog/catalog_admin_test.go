package catalog_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aussiebroadwan/bookworm/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// TestBootstrapOnlyOnce checks the bootstrap endpoint closes once an admin exists.
func TestBootstrapOnlyOnce(t *testing.T) {
	baseURL, cleanup := setupCatalogContainer(t)
	defer cleanup()

	bootstrapAdmin(t, baseURL)

	_, err := newClient(t, baseURL).Bootstrap(context.Background(), bootstrapToken, authsdk.BootstrapRequest{
		AdminName:  "Second",
		AdminEmail: "second@bookworm.test",
	})
	assertUnauthorized(t, err, "second bootstrap")
}

// TestGenreAndBookManagement drives the admin catalog flow and the public reads.
func TestGenreAndBookManagement(t *testing.T) {
	baseURL, cleanup := setupCatalogContainer(t)
	defer cleanup()
	ctx := context.Background()

	admin := bootstrapAdmin(t, baseURL)
	reader, _ := registerUser(t, baseURL, "Reader", "reader@bookworm.test")

	genre, err := admin.AddGenre(ctx, authsdk.GenreRequest{Genre: "Mystery", Icon: "magnifier.svg"})
	require.NoError(t, err)

	_, err = admin.AddGenre(ctx, authsdk.GenreRequest{Genre: "Mystery"})
	require.Equal(t, 409, authsdk.StatusCode(err), "duplicate genre: %v", err)

	_, err = reader.AddGenre(ctx, authsdk.GenreRequest{Genre: "Romance"})
	assertForbidden(t, err, "reader adding a genre")

	book, err := admin.AddBook(ctx, authsdk.BookRequest{
		Title:  "The Hound of the Baskervilles",
		Author: "Arthur Conan Doyle",
		Genre:  "Mystery",
		Cover:  authsdk.File{Name: "hound.jpg", Content: strings.NewReader("jpeg")},
		PDF:    authsdk.File{Name: "hound.pdf", Content: strings.NewReader("%PDF-1.4")},
	})
	require.NoError(t, err)

	books, err := reader.ListBooks(ctx, "Mystery")
	require.NoError(t, err)
	require.Len(t, books, 1)
	require.Equal(t, book.InsertedID, books[0].ID)

	got, err := newClient(t, baseURL).GetBook(ctx, book.InsertedID)
	require.NoError(t, err)
	require.Equal(t, "Arthur Conan Doyle", got.Author)

	updated, err := admin.UpdateGenre(ctx, genre.InsertedID, authsdk.GenreRequest{Genre: "Crime", Icon: "magnifier.svg"})
	require.NoError(t, err)
	require.EqualValues(t, 1, updated.ModifiedCount)

	_, err = admin.DeleteGenre(ctx, genre.InsertedID)
	require.NoError(t, err)

	genres, err := reader.ListGenres(ctx)
	require.NoError(t, err)
	require.Empty(t, genres)
}

// TestPromoteUser checks role changes apply to live sessions.
func TestPromoteUser(t *testing.T) {
	baseURL, cleanup := setupCatalogContainer(t)
	defer cleanup()
	ctx := context.Background()

	admin := bootstrapAdmin(t, baseURL)
	reader, user := registerUser(t, baseURL, "Reader", "reader@bookworm.test")

	_, err := reader.AddGenre(ctx, authsdk.GenreRequest{Genre: "Poetry"})
	assertForbidden(t, err, "before promotion")

	_, err = admin.SetRole(ctx, user.ID, "admin")
	require.NoError(t, err)

	_, err = reader.AddGenre(ctx, authsdk.GenreRequest{Genre: "Poetry"})
	require.NoError(t, err)
}
