package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/bookworm/internal/catalog/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (mongo, sqlite,
// postgres) implement this. It exposes sub-repositories to keep concerns
// tidy and testable.
//
// There is no transaction API. Every write touches a single record and
// drivers must apply each one atomically.
type Store interface {
	Users() Users
	Genres() Genres
	Books() Books

	// ApplyMigrations brings the schema (or, for mongo, the indexes) up to
	// date. Safe to call on every start.
	ApplyMigrations(ctx context.Context) error

	// Close releases any underlying resources.
	Close(ctx context.Context) error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Users is the user directory.
type Users interface {
	// GetUserByID returns a user by id. Ids that are not well formed for the
	// driver return ErrNotFound without touching the database.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks a user up by (lower-cased) email.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts u and returns the id the driver assigned.
	// A duplicate email returns ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) (string, error)

	// UpdateCredentials replaces both secrets of a user in a single write.
	// Concurrent callers race; the last write wins.
	UpdateCredentials(ctx context.Context, userID string, creds domain.Credentials) error

	// UpdatePasswordHash replaces the stored password hash.
	UpdatePasswordHash(ctx context.Context, userID, hash string) error

	// UpdateRole changes the role of a user.
	UpdateRole(ctx context.Context, userID string, role domain.Role) error

	// CountByRole returns how many users hold role.
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
}

type Genres interface {
	// CreateGenre inserts g and returns its id. Names are unique.
	CreateGenre(ctx context.Context, g domain.Genre) (string, error)

	// ListGenres returns every genre in insertion order.
	ListGenres(ctx context.Context) ([]domain.Genre, error)

	// GetGenreByID returns a single genre.
	GetGenreByID(ctx context.Context, id string) (domain.Genre, error)

	// UpdateGenre replaces name and icon. ErrNotFound when nothing matched,
	// ErrAlreadyExists when the new name belongs to another genre.
	UpdateGenre(ctx context.Context, id, name, icon string) (domain.UpdateResult, error)

	// DeleteGenre removes a genre, ErrNotFound when nothing was deleted.
	DeleteGenre(ctx context.Context, id string) error
}

type Books interface {
	// CreateBook inserts b and returns its id.
	CreateBook(ctx context.Context, b domain.Book) (string, error)

	// ListBooks returns books newest first, optionally filtered by genre name.
	ListBooks(ctx context.Context, genre string) ([]domain.Book, error)

	// GetBookByID returns a single book.
	GetBookByID(ctx context.Context, id string) (domain.Book, error)
}
