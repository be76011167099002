package accounts

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/canteencloud/console/internal/platform/db"
	"github.com/canteencloud/console/internal/shared"
)

// Repository defines persistence operations for the accounts module.
type Repository interface {
	Create(ctx context.Context, acc *Account, passwordHash string) error
	ListByOrg(ctx context.Context, orgID int64, limit, offset int) ([]Account, int, error)
	UpdateStatus(ctx context.Context, id, orgID int64, status int16) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Create inserts a new account after confirming the target organization
// is still active, both inside one transaction. A username collision
// surfaces as shared.ErrUsernameTaken.
func (r *PGRepository) Create(ctx context.Context, acc *Account, passwordHash string) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var orgStatus int16
		err := tx.QueryRow(ctx,
			`SELECT status FROM organizations WHERE id = $1`, acc.OrgID).Scan(&orgStatus)
		if errors.Is(err, pgx.ErrNoRows) {
			return shared.ErrNotFound
		}
		if err != nil {
			return err
		}
		if orgStatus != 1 {
			return shared.ErrNotFound
		}

		const query = `
			INSERT INTO users (username, real_name, mobile, password_hash, role_key, org_id, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
			RETURNING id, created_at`
		err = tx.QueryRow(ctx, query,
			acc.Username, acc.RealName, acc.Mobile, passwordHash,
			acc.RoleKey, acc.OrgID, acc.Status,
		).Scan(&acc.ID, &acc.CreatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return shared.ErrUsernameTaken
			}
			return err
		}
		return nil
	})
}

// ListByOrg returns one page of accounts belonging to an organization,
// newest first, together with the total count.
func (r *PGRepository) ListByOrg(ctx context.Context, orgID int64, limit, offset int) ([]Account, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE org_id = $1`, orgID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, username, real_name, mobile, role_key, org_id, status, created_at
		FROM users
		WHERE org_id = $1
		ORDER BY id DESC
		LIMIT $2 OFFSET $3`, orgID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var accounts []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.Username, &a.RealName, &a.Mobile, &a.RoleKey, &a.OrgID, &a.Status, &a.CreatedAt); err != nil {
			return nil, 0, err
		}
		accounts = append(accounts, a)
	}
	return accounts, total, rows.Err()
}

// UpdateStatus flips an account between active and locked, scoped to the
// caller's organization so cross-tenant ids fall through to not-found.
func (r *PGRepository) UpdateStatus(ctx context.Context, id, orgID int64, status int16) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET status = $1, updated_at = NOW() WHERE id = $2 AND org_id = $3`,
		status, id, orgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
