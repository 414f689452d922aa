package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/aussiebroadwan/bookworm/internal/catalog/domain"
	"github.com/aussiebroadwan/bookworm/internal/catalog/store"
	"github.com/aussiebroadwan/bookworm/pkg/idx"
)

type genresRepo struct {
	db *sql.DB
}

func scanGenre(row interface{ Scan(...any) error }) (domain.Genre, error) {
	var (
		g       domain.Genre
		created int64
	)
	if err := row.Scan(&g.ID, &g.Name, &g.Icon, &created); err != nil {
		return domain.Genre{}, mapNotFound(err)
	}
	g.CreatedAt = fromMillis(created)
	return g, nil
}

func (r *genresRepo) CreateGenre(ctx context.Context, g domain.Genre) (string, error) {
	id := idx.New().String()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO genres (id, name, icon, created_at) VALUES (?, ?, ?, ?)`,
		id, g.Name, g.Icon, toMillis(g.CreatedAt),
	)
	if err != nil {
		return "", mapConstraint(err)
	}
	return id, nil
}

func (r *genresRepo) ListGenres(ctx context.Context) ([]domain.Genre, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, icon, created_at FROM genres ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Genre{}
	for rows.Next() {
		g, err := scanGenre(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *genresRepo) GetGenreByID(ctx context.Context, id string) (domain.Genre, error) {
	if !idx.Valid(id) {
		return domain.Genre{}, store.ErrNotFound
	}
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, icon, created_at FROM genres WHERE id = ?`, id)
	return scanGenre(row)
}

func (r *genresRepo) UpdateGenre(
	ctx context.Context,
	id, name, icon string,
) (domain.UpdateResult, error) {
	if !idx.Valid(id) {
		return domain.UpdateResult{}, store.ErrNotFound
	}

	// Only rows that actually change count as modified.
	res, err := r.db.ExecContext(ctx,
		`UPDATE genres SET name = ?, icon = ? WHERE id = ? AND (name <> ? OR icon <> ?)`,
		name, icon, id, name, icon,
	)
	if err != nil {
		return domain.UpdateResult{}, mapConstraint(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.UpdateResult{}, err
	}
	if n > 0 {
		return domain.UpdateResult{Matched: 1, Modified: 1}, nil
	}

	if _, err := r.GetGenreByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.UpdateResult{}, store.ErrNotFound
		}
		return domain.UpdateResult{}, err
	}
	return domain.UpdateResult{Matched: 1, Modified: 0}, nil
}

func (r *genresRepo) DeleteGenre(ctx context.Context, id string) error {
	if !idx.Valid(id) {
		return store.ErrNotFound
	}
	return requireOneRow(r.db.ExecContext(ctx, `DELETE FROM genres WHERE id = ?`, id))
}
