package orgs

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/canteencloud/console/internal/nav"
	"github.com/canteencloud/console/internal/platform/httpx"
	"github.com/canteencloud/console/internal/shared"
)

// Repository defines persistence operations for the orgs module.
type Repository interface {
	Create(ctx context.Context, org *Organization) error
	ListByType(ctx context.Context, orgType nav.OrgType, limit, offset int) ([]Organization, int, error)
	UpdateStatus(ctx context.Context, id int64, orgType nav.OrgType, status int16) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Create inserts a new organization. Names are unique per type.
func (r *PGRepository) Create(ctx context.Context, org *Organization) error {
	const query = `
		INSERT INTO organizations (name, org_type, contact_name, contact_phone, status, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query,
		org.Name, org.OrgType, org.ContactName, org.ContactPhone, org.Status,
	).Scan(&org.ID, &org.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return httpx.ErrDuplicate
		}
		return err
	}
	return nil
}

// ListByType returns one page of organizations of a single type, newest
// first, together with the total count.
func (r *PGRepository) ListByType(ctx context.Context, orgType nav.OrgType, limit, offset int) ([]Organization, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM organizations WHERE org_type = $1`, orgType).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, name, org_type, contact_name, contact_phone, status, created_at
		FROM organizations
		WHERE org_type = $1
		ORDER BY id DESC
		LIMIT $2 OFFSET $3`, orgType, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orgs []Organization
	for rows.Next() {
		var o Organization
		if err := rows.Scan(&o.ID, &o.Name, &o.OrgType, &o.ContactName, &o.ContactPhone, &o.Status, &o.CreatedAt); err != nil {
			return nil, 0, err
		}
		orgs = append(orgs, o)
	}
	return orgs, total, rows.Err()
}

// UpdateStatus enables or disables an organization, scoped by type so a
// school id passed to the supplier endpoint falls through to not-found.
func (r *PGRepository) UpdateStatus(ctx context.Context, id int64, orgType nav.OrgType, status int16) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE organizations SET status = $1 WHERE id = $2 AND org_type = $3`,
		status, id, orgType)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
