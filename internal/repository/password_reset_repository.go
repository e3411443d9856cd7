package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PasswordResetToken is a single-use, expiring token tied to one credential.
type PasswordResetToken struct {
	ID        string
	UID       string
	Token     string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

// PasswordResetRepository manages reset token persistence. Consume both
// validates and burns the token in one statement, so a token can never be
// redeemed twice.
type PasswordResetRepository interface {
	Create(ctx context.Context, token *PasswordResetToken) error
	Consume(ctx context.Context, token string) (*PasswordResetToken, error)
}

type passwordResetRepository struct {
	pool *pgxpool.Pool
}

// NewPasswordResetRepository returns a Postgres-backed implementation.
func NewPasswordResetRepository(pool *pgxpool.Pool) PasswordResetRepository {
	return &passwordResetRepository{pool: pool}
}

func (r *passwordResetRepository) Create(ctx context.Context, token *PasswordResetToken) error {
	const query = `
        INSERT INTO password_reset_tokens (uid, token, expires_at)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		token.UID,
		token.Token,
		token.ExpiresAt,
	).Scan(&token.ID, &token.CreatedAt)
}

// Consume marks an unused, unexpired token as used and returns it. A used,
// expired or unknown token surfaces as the no-rows sentinel.
func (r *passwordResetRepository) Consume(ctx context.Context, tokenStr string) (*PasswordResetToken, error) {
	const query = `
        UPDATE password_reset_tokens SET used_at=NOW()
        WHERE token=$1 AND used_at IS NULL AND expires_at > NOW()
        RETURNING id, uid, token, expires_at, used_at, created_at`
	var token PasswordResetToken
	if err := r.pool.QueryRow(ctx, query, tokenStr).Scan(
		&token.ID,
		&token.UID,
		&token.Token,
		&token.ExpiresAt,
		&token.UsedAt,
		&token.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &token, nil
}
