package identity

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/courtvision/courtvision/internal/platform/db"
	"github.com/courtvision/courtvision/internal/shared"
)

//go:embed schema.sql
var schemaSQL string

// Repository defines persistence for accounts and memberships.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	PrimaryMembership(ctx context.Context, userID int64) (*Membership, error)
	CreateUser(ctx context.Context, user User, membership *Membership) (int64, error)
	SetMembership(ctx context.Context, m Membership) error
}

// PGRepository implements Repository on PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Migrate creates the identity tables when missing.
func (r *PGRepository) Migrate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("identity: migrate: %w", err)
	}
	return nil
}

const userColumns = `id, email, display_name, password_hash, is_active, created_at`

// findByEmailSQL matches the users_email_lower_key index expression.
const findByEmailSQL = `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`

// FindByEmail fetches a user by case-insensitive email.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := r.pool.QueryRow(ctx, findByEmailSQL, strings.TrimSpace(email))
	return scanUser(row)
}

// FindByID fetches a user by id.
func (r *PGRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// PrimaryMembership returns the earliest membership of the user, or
// shared.ErrNotFound when the user belongs to no organisation.
func (r *PGRepository) PrimaryMembership(ctx context.Context, userID int64) (*Membership, error) {
	var m Membership
	err := r.pool.QueryRow(ctx, `
SELECT user_id, organization, role, created_at
FROM organization_memberships
WHERE user_id = $1
ORDER BY created_at ASC, organization ASC
LIMIT 1`, userID).Scan(&m.UserID, &m.Organization, &m.Role, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateUser inserts the account and its optional first membership in one
// transaction.
func (r *PGRepository) CreateUser(ctx context.Context, user User, membership *Membership) (int64, error) {
	var id int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
INSERT INTO users (email, display_name, password_hash, is_active)
VALUES ($1, $2, $3, $4)
RETURNING id`, strings.TrimSpace(user.Email), user.DisplayName, user.PasswordHash, user.IsActive).Scan(&id)
		if err != nil {
			return mapWriteError(err)
		}
		if membership == nil {
			return nil
		}
		_, err = tx.Exec(ctx, `
INSERT INTO organization_memberships (user_id, organization, role)
VALUES ($1, $2, $3)`, id, membership.Organization, membership.Role)
		return mapWriteError(err)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// SetMembership upserts the role of a user within an organisation. The
// original join time is kept so the primary membership does not move.
func (r *PGRepository) SetMembership(ctx context.Context, m Membership) error {
	tag, err := r.pool.Exec(ctx, `
INSERT INTO organization_memberships (user_id, organization, role)
SELECT id, $2, $3 FROM users WHERE id = $1
ON CONFLICT (user_id, organization) DO UPDATE SET role = EXCLUDED.role`, m.UserID, m.Organization, m.Role)
	if err != nil {
		return mapWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &u.PasswordHash, &u.IsActive, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%w: %s", shared.ErrConflict, pgErr.ConstraintName)
		case "23503":
			return shared.ErrNotFound
		}
	}
	return err
}

var _ Repository = (*PGRepository)(nil)
