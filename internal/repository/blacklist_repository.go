package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// BlacklistRepository is the durable mirror of the redis blacklist. Redis
// entries self-expire; the rows here survive a cache flush and are pruned by
// the scheduler once the tokens they name have expired anyway.
type BlacklistRepository struct {
	pool *pgxpool.Pool
}

func NewBlacklistRepository(pool *pgxpool.Pool) *BlacklistRepository {
	return &BlacklistRepository{pool: pool}
}

func (r *BlacklistRepository) Add(ctx context.Context, jti string, expiresAt time.Time) error {
	const query = `
		INSERT INTO token_blacklist (jti, expires_at, revoked_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (jti) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query, jti, expiresAt)
	return err
}

func (r *BlacklistRepository) Contains(ctx context.Context, jti string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM token_blacklist WHERE jti = $1 AND expires_at > NOW())`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, jti).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// DeleteExpired removes rows for tokens that are past their natural expiry
// and therefore rejected regardless of the blacklist.
func (r *BlacklistRepository) DeleteExpired(ctx context.Context) (int64, error) {
	const query = `DELETE FROM token_blacklist WHERE expires_at <= NOW()`
	cmd, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
