package postgres

import (
	"context"

	"github.com/aussiebroadwan/bookworm/internal/catalog/domain"
	"github.com/aussiebroadwan/bookworm/internal/catalog/store"
	"github.com/aussiebroadwan/bookworm/pkg/idx"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, name, email, password_hash, role, photo, access_secret, refresh_secret, created_at`

type usersRepo struct {
	pool *pgxpool.Pool
}

func scanUser(row pgx.Row) (domain.User, error) {
	var (
		u    domain.User
		role string
	)
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&role,
		&u.Photo,
		&u.Credentials.AccessSecret,
		&u.Credentials.RefreshSecret,
		&u.CreatedAt,
	)
	if err != nil {
		return domain.User{}, mapErr(err)
	}
	u.Role = domain.Role(role)
	u.CreatedAt = u.CreatedAt.UTC()
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	if !idx.Valid(id) {
		return domain.User{}, store.ErrNotFound
	}
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (string, error) {
	id := idx.New().String()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		id,
		u.Name,
		u.Email,
		u.PasswordHash,
		string(u.Role),
		u.Photo,
		u.Credentials.AccessSecret,
		u.Credentials.RefreshSecret,
		createdAt(u.CreatedAt),
	)
	if err != nil {
		return "", mapErr(err)
	}
	return id, nil
}

func (r *usersRepo) UpdateCredentials(
	ctx context.Context,
	userID string,
	creds domain.Credentials,
) error {
	if !idx.Valid(userID) {
		return store.ErrNotFound
	}
	return requireOneRow(r.pool.Exec(ctx,
		`UPDATE users SET access_secret = $1, refresh_secret = $2 WHERE id = $3`,
		creds.AccessSecret, creds.RefreshSecret, userID,
	))
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, hash string) error {
	if !idx.Valid(userID) {
		return store.ErrNotFound
	}
	return requireOneRow(r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $1 WHERE id = $2`, hash, userID,
	))
}

func (r *usersRepo) UpdateRole(ctx context.Context, userID string, role domain.Role) error {
	if !idx.Valid(userID) {
		return store.ErrNotFound
	}
	return requireOneRow(r.pool.Exec(ctx,
		`UPDATE users SET role = $1 WHERE id = $2`, string(role), userID,
	))
}

func (r *usersRepo) CountByRole(ctx context.Context, role domain.Role) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, string(role)).Scan(&n)
	return n, err
}
