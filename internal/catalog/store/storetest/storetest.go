// Package storetest holds the behaviour every store driver must share. Each
// driver's tests call Run with a constructor for a fresh, migrated store.
package storetest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/bookworm/internal/catalog/domain"
	"github.com/aussiebroadwan/bookworm/internal/catalog/store"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty store with migrations applied.
type Factory func(t *testing.T) store.Store

// Run executes the shared driver suite.
func Run(t *testing.T, newStore Factory) {
	t.Run("users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("email case", func(t *testing.T) { testEmailCase(t, newStore(t)) })
	t.Run("credentials race", func(t *testing.T) { testCredentialsRace(t, newStore(t)) })
	t.Run("genres", func(t *testing.T) { testGenres(t, newStore(t)) })
	t.Run("books", func(t *testing.T) { testBooks(t, newStore(t)) })
}

func newUser(t *testing.T, email string) domain.User {
	t.Helper()
	creds, err := domain.NewCredentials()
	require.NoError(t, err)
	return domain.User{
		Name:         "Reader",
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		Role:         domain.RoleUser,
		Photo:        "https://media.example/profile_photo/1-a.png",
		Credentials:  creds,
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}
}

func testUsers(t *testing.T, st store.Store) {
	ctx := context.Background()
	users := st.Users()

	u := newUser(t, "reader@example.com")
	id, err := users.CreateUser(ctx, u)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	_, err = users.CreateUser(ctx, newUser(t, "reader@example.com"))
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	got, err := users.GetUserByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, id, got.ID)
	require.Equal(t, u.Email, got.Email)
	require.Equal(t, u.Credentials, got.Credentials)
	require.Equal(t, domain.RoleUser, got.Role)
	require.WithinDuration(t, u.CreatedAt, got.CreatedAt, time.Second)

	byEmail, err := users.GetUserByEmail(ctx, "reader@example.com")
	require.NoError(t, err)
	require.Equal(t, id, byEmail.ID)

	_, err = users.GetUserByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)

	for _, bad := range []string{"", "not-an-id", "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV", "507f1f77bcf86cd799439011"} {
		_, err = users.GetUserByID(ctx, bad)
		require.ErrorIs(t, err, store.ErrNotFound, bad)
	}

	fresh, err := domain.NewCredentials()
	require.NoError(t, err)
	require.NoError(t, users.UpdateCredentials(ctx, id, fresh))

	got, err = users.GetUserByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, fresh, got.Credentials)

	require.ErrorIs(t, users.UpdateCredentials(ctx, "not-an-id", fresh), store.ErrNotFound)

	require.NoError(t, users.UpdatePasswordHash(ctx, id, "$2b$10$replacedreplacedreplaced"))
	got, err = users.GetUserByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "$2b$10$replacedreplacedreplaced", got.PasswordHash)
	require.Equal(t, fresh, got.Credentials)
	require.ErrorIs(t, users.UpdatePasswordHash(ctx, "not-an-id", "x"), store.ErrNotFound)

	n, err := users.CountByRole(ctx, domain.RoleAdmin)
	require.NoError(t, err)
	require.Zero(t, n)

	require.NoError(t, users.UpdateRole(ctx, id, domain.RoleAdmin))
	n, err = users.CountByRole(ctx, domain.RoleAdmin)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

// Records imported from the Node service keep the email as it was typed.
// Lookups and uniqueness ignore case, and the stored spelling is preserved.
func testEmailCase(t *testing.T, st store.Store) {
	ctx := context.Background()
	users := st.Users()

	id, err := users.CreateUser(ctx, newUser(t, "Alice@Example.com"))
	require.NoError(t, err)

	for _, email := range []string{"alice@example.com", "ALICE@EXAMPLE.COM", "Alice@Example.com"} {
		got, err := users.GetUserByEmail(ctx, email)
		require.NoError(t, err, email)
		require.Equal(t, id, got.ID)
		require.Equal(t, "Alice@Example.com", got.Email)
	}

	_, err = users.CreateUser(ctx, newUser(t, "alice@example.com"))
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

// Concurrent rotations must leave exactly one of the written pairs, never a
// mix of two.
func testCredentialsRace(t *testing.T, st store.Store) {
	ctx := context.Background()
	id, err := st.Users().CreateUser(ctx, newUser(t, "race@example.com"))
	require.NoError(t, err)

	const writers = 8
	written := make([]domain.Credentials, writers)
	var wg sync.WaitGroup
	for i := range writers {
		c, err := domain.NewCredentials()
		require.NoError(t, err)
		written[i] = c

		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = st.Users().UpdateCredentials(ctx, id, c)
		}()
	}
	wg.Wait()

	got, err := st.Users().GetUserByID(ctx, id)
	require.NoError(t, err)
	require.Contains(t, written, got.Credentials)
}

func testGenres(t *testing.T, st store.Store) {
	ctx := context.Background()
	genres := st.Genres()

	fantasyID, err := genres.CreateGenre(ctx, domain.Genre{Name: "Fantasy", Icon: "🐉"})
	require.NoError(t, err)
	_, err = genres.CreateGenre(ctx, domain.Genre{Name: "Horror", Icon: "👻"})
	require.NoError(t, err)

	_, err = genres.CreateGenre(ctx, domain.Genre{Name: "Fantasy"})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	list, err := genres.ListGenres(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "Fantasy", list[0].Name)

	res, err := genres.UpdateGenre(ctx, fantasyID, "High Fantasy", "🧙")
	require.NoError(t, err)
	require.Equal(t, domain.UpdateResult{Matched: 1, Modified: 1}, res)

	res, err = genres.UpdateGenre(ctx, fantasyID, "High Fantasy", "🧙")
	require.NoError(t, err)
	require.Equal(t, domain.UpdateResult{Matched: 1, Modified: 0}, res)

	_, err = genres.UpdateGenre(ctx, fantasyID, "Horror", "")
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	_, err = genres.UpdateGenre(ctx, "not-an-id", "x", "y")
	require.ErrorIs(t, err, store.ErrNotFound)

	g, err := genres.GetGenreByID(ctx, fantasyID)
	require.NoError(t, err)
	require.Equal(t, "High Fantasy", g.Name)

	require.NoError(t, genres.DeleteGenre(ctx, fantasyID))
	require.ErrorIs(t, genres.DeleteGenre(ctx, fantasyID), store.ErrNotFound)
	require.ErrorIs(t, genres.DeleteGenre(ctx, "garbage"), store.ErrNotFound)
}

func testBooks(t *testing.T, st store.Store) {
	ctx := context.Background()
	books := st.Books()

	base := time.Now().UTC().Truncate(time.Millisecond)
	older, err := books.CreateBook(ctx, domain.Book{
		Title: "The Hobbit", Author: "Tolkien", Genre: "Fantasy",
		Cover: "c1", PDF: "p1", CreatedAt: base.Add(-time.Hour),
	})
	require.NoError(t, err)
	newer, err := books.CreateBook(ctx, domain.Book{
		Title: "It", Author: "King", Genre: "Horror",
		Cover: "c2", PDF: "p2", CreatedAt: base,
	})
	require.NoError(t, err)

	all, err := books.ListBooks(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, newer, all[0].ID)
	require.Equal(t, older, all[1].ID)

	fantasy, err := books.ListBooks(ctx, "Fantasy")
	require.NoError(t, err)
	require.Len(t, fantasy, 1)
	require.Equal(t, "The Hobbit", fantasy[0].Title)
	require.Zero(t, fantasy[0].Rating)
	require.Zero(t, fantasy[0].RatingCount)
	require.Zero(t, fantasy[0].ShelvedCount)

	none, err := books.ListBooks(ctx, "Poetry")
	require.NoError(t, err)
	require.Empty(t, none)

	b, err := books.GetBookByID(ctx, older)
	require.NoError(t, err)
	require.Equal(t, "Tolkien", b.Author)

	_, err = books.GetBookByID(ctx, "nope")
	require.ErrorIs(t, err, store.ErrNotFound)
}
