package postgres

import (
	"context"

	"github.com/aussiebroadwan/bookworm/internal/catalog/domain"
	"github.com/aussiebroadwan/bookworm/internal/catalog/store"
	"github.com/aussiebroadwan/bookworm/pkg/idx"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookColumns = `id, title, author, genre, description, cover, pdf, rating, rating_count, shelved_count, created_at`

type booksRepo struct {
	pool *pgxpool.Pool
}

func scanBook(row pgx.Row) (domain.Book, error) {
	var b domain.Book
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
		&b.CreatedAt,
	)
	if err != nil {
		return domain.Book{}, mapErr(err)
	}
	b.CreatedAt = b.CreatedAt.UTC()
	return b, nil
}

func (r *booksRepo) CreateBook(ctx context.Context, b domain.Book) (string, error) {
	id := idx.New().String()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO books (`+bookColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
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
		createdAt(b.CreatedAt),
	)
	if err != nil {
		return "", mapErr(err)
	}
	return id, nil
}

func (r *booksRepo) ListBooks(ctx context.Context, genre string) ([]domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books`
	var args []any
	if genre != "" {
		query += ` WHERE genre = $1`
		args = append(args, genre)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, args...)
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
	return scanBook(r.pool.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1`, id))
}
