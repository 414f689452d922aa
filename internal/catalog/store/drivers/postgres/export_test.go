package postgres

import "context"

// Truncate empties every table so the shared suite starts clean on a
// reused container.
func Truncate(ctx context.Context, s *Store) error {
	_, err := s.pool.Exec(ctx, `TRUNCATE users, genres, books`)
	return err
}
