package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Credential stores the authentication secret for one identity. Profiles
// live in the document store; credentials are relational because email
// uniqueness is enforced by the database.
type Credential struct {
	UID          string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CredentialRepository defines persistence access for login credentials.
type CredentialRepository interface {
	Create(ctx context.Context, cred *Credential) error
	GetByEmail(ctx context.Context, email string) (*Credential, error)
	GetByUID(ctx context.Context, uid string) (*Credential, error)
	UpdatePassword(ctx context.Context, uid, passwordHash string) error
}

type credentialRepository struct {
	pool *pgxpool.Pool
}

// NewCredentialRepository returns a Postgres-backed implementation.
func NewCredentialRepository(pool *pgxpool.Pool) CredentialRepository {
	return &credentialRepository{pool: pool}
}

func (r *credentialRepository) Create(ctx context.Context, cred *Credential) error {
	const query = `
        INSERT INTO credentials (uid, email, password_hash)
        VALUES ($1, $2, $3)
        RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		cred.UID,
		cred.Email,
		cred.PasswordHash,
	).Scan(&cred.CreatedAt, &cred.UpdatedAt)
}

func (r *credentialRepository) GetByEmail(ctx context.Context, email string) (*Credential, error) {
	const query = `
        SELECT uid, email, password_hash, created_at, updated_at
        FROM credentials WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *credentialRepository) GetByUID(ctx context.Context, uid string) (*Credential, error) {
	const query = `
        SELECT uid, email, password_hash, created_at, updated_at
        FROM credentials WHERE uid=$1`
	return r.fetchSingle(ctx, query, uid)
}

func (r *credentialRepository) UpdatePassword(ctx context.Context, uid, passwordHash string) error {
	const query = `UPDATE credentials SET password_hash=$2, updated_at=NOW() WHERE uid=$1`
	cmd, err := r.pool.Exec(ctx, query, uid, passwordHash)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *credentialRepository) fetchSingle(ctx context.Context, query string, arg any) (*Credential, error) {
	var cred Credential
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&cred.UID,
		&cred.Email,
		&cred.PasswordHash,
		&cred.CreatedAt,
		&cred.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &cred, nil
}

// IsNoRows reports whether err is the pgx no-rows sentinel.
func IsNoRows(err error) bool {
	return err == pgx.ErrNoRows
}
