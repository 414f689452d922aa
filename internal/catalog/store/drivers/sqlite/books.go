package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/bookworm/internal/catalog/domain"
	"github.com/aussiebroadwan/bookworm/internal/catalog/store"
	"github.com/aussiebroadwan/bookworm/pkg/idx"
)

const bookColumns = `id, title, author, genre, description, cover, pdf, rating, rating_count, shelved_count, created_at`

type booksRepo struct {
	db *sql.DB
}

func scanBook(row interface{ Scan(...any) error }) (domain.Book, error) {
	var (
		b       domain.Book
		created int64
	)
	err := row.Scan(
		&b.ID,
		&b.Title,
		&b.Author,
		&b.Genre,
		&b.Description,
		&b.Cover,
		&b.PDF,
		&b.Rating,
		&b.RatingCount,
		&b.ShelvedCount,
		&created,
	)
	if err != nil {
		return domain.Book{}, mapNotFound(err)
	}
	b.CreatedAt = fromMillis(created)
	return b, nil
}

func (r *booksRepo) CreateBook(ctx context.Context, b domain.Book) (string, error) {
	id := idx.New().String()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO books (`+bookColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		b.Title,
		b.Author,
		b.Genre,
		b.Description,
		b.Cover,
		b.PDF,
		b.Rating,
		b.RatingCount,
		b.ShelvedCount,
		toMillis(b.CreatedAt),
	)
	if err != nil {
		return "", mapConstraint(err)
	}
	return id, nil
}

func (r *booksRepo) ListBooks(ctx context.Context, genre string) ([]domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books`
	var args []any
	if genre != "" {
		query += ` WHERE genre = ?`
		args = append(args, genre)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *booksRepo) GetBookByID(ctx context.Context, id string) (domain.Book, error) {
	if !idx.Valid(id) {
		return domain.Book{}, store.ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+bookColumns+` FROM books WHERE id = ?`, id)
	return scanBook(row)
}
