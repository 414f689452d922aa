package postgres

import (
	"context"

	"github.com/aussiebroadwan/bookworm/internal/catalog/domain"
	"github.com/aussiebroadwan/bookworm/internal/catalog/store"
	"github.com/aussiebroadwan/bookworm/pkg/idx"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type genresRepo struct {
	pool *pgxpool.Pool
}

func scanGenre(row pgx.Row) (domain.Genre, error) {
	var g domain.Genre
	if err := row.Scan(&g.ID, &g.Name, &g.Icon, &g.CreatedAt); err != nil {
		return domain.Genre{}, mapErr(err)
	}
	g.CreatedAt = g.CreatedAt.UTC()
	return g, nil
}

func (r *genresRepo) CreateGenre(ctx context.Context, g domain.Genre) (string, error) {
	id := idx.New().String()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO genres (id, name, icon, created_at) VALUES ($1, $2, $3, $4)`,
		id, g.Name, g.Icon, createdAt(g.CreatedAt),
	)
	if err != nil {
		return "", mapErr(err)
	}
	return id, nil
}

func (r *genresRepo) ListGenres(ctx context.Context) ([]domain.Genre, error) {
	rows, err := r.pool.Query(ctx,
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
	return scanGenre(r.pool.QueryRow(ctx,
		`SELECT id, name, icon, created_at FROM genres WHERE id = $1`, id))
}

func (r *genresRepo) UpdateGenre(
	ctx context.Context,
	id, name, icon string,
) (domain.UpdateResult, error) {
	if !idx.Valid(id) {
		return domain.UpdateResult{}, store.ErrNotFound
	}

	// Only rows that actually change count as modified.
	tag, err := r.pool.Exec(ctx,
		`UPDATE genres SET name = $1, icon = $2
		 WHERE id = $3 AND (name IS DISTINCT FROM $1 OR icon IS DISTINCT FROM $2)`,
		name, icon, id,
	)
	if err != nil {
		return domain.UpdateResult{}, mapErr(err)
	}
	if tag.RowsAffected() > 0 {
		return domain.UpdateResult{Matched: 1, Modified: 1}, nil
	}

	if _, err := r.GetGenreByID(ctx, id); err != nil {
		return domain.UpdateResult{}, err
	}
	return domain.UpdateResult{Matched: 1, Modified: 0}, nil
}

func (r *genresRepo) DeleteGenre(ctx context.Context, id string) error {
	if !idx.Valid(id) {
		return store.ErrNotFound
	}
	return requireOneRow(r.pool.Exec(ctx, `DELETE FROM genres WHERE id = $1`, id))
}
