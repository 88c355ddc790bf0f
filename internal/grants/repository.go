package grants

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/procura-platform/procura/internal/platform/db"
	"github.com/procura-platform/procura/internal/platform/httpx"
)

// Repository defines persistence for sub-role grants.
type Repository interface {
	ListForUser(ctx context.Context, userID int64) ([]SubRoleGrant, error)
	Replace(ctx context.Context, grant SubRoleGrant) ([]SubRoleGrant, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// ListForUser returns every sub-role grant held by the user.
func (r *PGRepository) ListForUser(ctx context.Context, userID int64) ([]SubRoleGrant, error) {
	const query = `SELECT user_id, name, can_view, can_create, can_update, can_delete, updated_at
		FROM user_sub_roles WHERE user_id = $1 ORDER BY name`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGrants(rows)
}

// Replace upserts the grant under its (user, name) pair and returns the
// user's full grant list as committed. The four flags land in one row
// write, so a grant is never partially applied; concurrent writers to the
// same pair serialize on the row while distinct names stay independent.
func (r *PGRepository) Replace(ctx context.Context, grant SubRoleGrant) ([]SubRoleGrant, error) {
	var held []SubRoleGrant
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		const upsert = `INSERT INTO user_sub_roles (user_id, name, can_view, can_create, can_update, can_delete, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (user_id, name) DO UPDATE SET
				can_view = EXCLUDED.can_view,
				can_create = EXCLUDED.can_create,
				can_update = EXCLUDED.can_update,
				can_delete = EXCLUDED.can_delete,
				updated_at = EXCLUDED.updated_at`
		if _, err := tx.Exec(ctx, upsert,
			grant.UserID, grant.Name,
			grant.Actions.CanView, grant.Actions.CanCreate, grant.Actions.CanUpdate, grant.Actions.CanDelete,
			time.Now().UTC(),
		); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" {
				return httpx.ErrNotFound
			}
			return err
		}

		const list = `SELECT user_id, name, can_view, can_create, can_update, can_delete, updated_at
			FROM user_sub_roles WHERE user_id = $1 ORDER BY name`
		rows, err := tx.Query(ctx, list, grant.UserID)
		if err != nil {
			return err
		}
		defer rows.Close()
		held, err = scanGrants(rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return held, nil
}

func scanGrants(rows pgx.Rows) ([]SubRoleGrant, error) {
	var grants []SubRoleGrant
	for rows.Next() {
		var g SubRoleGrant
		if err := rows.Scan(&g.UserID, &g.Name,
			&g.Actions.CanView, &g.Actions.CanCreate, &g.Actions.CanUpdate, &g.Actions.CanDelete,
			&g.UpdatedAt,
		); err != nil {
			return nil, err
		}
		grants = append(grants, g)
	}
	return grants, rows.Err()
}

var _ Repository = (*PGRepository)(nil)
