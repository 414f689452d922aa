package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/bookworm/internal/catalog/domain"
	"github.com/aussiebroadwan/bookworm/internal/catalog/store"
	"github.com/aussiebroadwan/bookworm/pkg/idx"
)

const userColumns = `id, name, email, password_hash, role, photo, access_secret, refresh_secret, created_at`

type usersRepo struct {
	db *sql.DB
}

func scanUser(row interface{ Scan(...any) error }) (domain.User, error) {
	var (
		u       domain.User
		role    string
		created int64
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
		&created,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.Role = domain.Role(role)
	u.CreatedAt = fromMillis(created)
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	if !idx.Valid(id) {
		return domain.User{}, store.ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ? COLLATE NOCASE`, email)
	return scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (string, error) {
	id := idx.New().String()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		u.Name,
		u.Email,
		u.PasswordHash,
		string(u.Role),
		u.Photo,
		u.Credentials.AccessSecret,
		u.Credentials.RefreshSecret,
		toMillis(u.CreatedAt),
	)
	if err != nil {
		return "", mapConstraint(err)
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
	return requireOneRow(r.db.ExecContext(ctx,
		`UPDATE users SET access_secret = ?, refresh_secret = ? WHERE id = ?`,
		creds.AccessSecret, creds.RefreshSecret, userID,
	))
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, hash string) error {
	if !idx.Valid(userID) {
		return store.ErrNotFound
	}
	return requireOneRow(r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ?`, hash, userID,
	))
}

func (r *usersRepo) UpdateRole(ctx context.Context, userID string, role domain.Role) error {
	if !idx.Valid(userID) {
		return store.ErrNotFound
	}
	return requireOneRow(r.db.ExecContext(ctx,
		`UPDATE users SET role = ? WHERE id = ?`, string(role), userID,
	))
}

func (r *usersRepo) CountByRole(ctx context.Context, role domain.Role) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role = ?`, string(role)).Scan(&n)
	return n, err
}
