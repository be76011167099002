package oplog

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines persistence operations for the oplog module.
type Repository interface {
	Insert(ctx context.Context, entry *Entry) error
	List(ctx context.Context, orgID int64, limit, offset int) ([]Entry, int, error)
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Insert stores one log entry.
func (r *PGRepository) Insert(ctx context.Context, entry *Entry) error {
	const query = `
		INSERT INTO op_logs (actor_id, org_id, username, method, path, status_code, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, NOW()))
		RETURNING id`
	var at any
	if !entry.OccurredAt.IsZero() {
		at = entry.OccurredAt
	}
	return r.pool.QueryRow(ctx, query,
		entry.ActorID, entry.OrgID, entry.Username,
		entry.Method, entry.Path, entry.StatusCode, at,
	).Scan(&entry.ID)
}

// List returns one page of entries, newest first. orgID zero means all
// organizations.
func (r *PGRepository) List(ctx context.Context, orgID int64, limit, offset int) ([]Entry, int, error) {
	countQuery := `SELECT COUNT(*) FROM op_logs`
	listQuery := `
		SELECT id, actor_id, org_id, username, method, path, status_code, occurred_at
		FROM op_logs`
	args := []any{}
	if orgID != 0 {
		countQuery += ` WHERE org_id = $1`
		listQuery += ` WHERE org_id = $1`
		args = append(args, orgID)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQuery += ` ORDER BY id DESC`
	if orgID != 0 {
		listQuery += ` LIMIT $2 OFFSET $3`
	} else {
		listQuery += ` LIMIT $1 OFFSET $2`
	}
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.ActorID, &e.OrgID, &e.Username, &e.Method, &e.Path, &e.StatusCode, &e.OccurredAt); err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}

// PurgeBefore deletes entries older than cutoff and reports how many went.
func (r *PGRepository) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM op_logs WHERE occurred_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

var _ Repository = (*PGRepository)(nil)
