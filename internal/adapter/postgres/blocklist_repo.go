package postgres

import (
	"context"

	"focusflow/internal/domain"
)

// ListBlockedSites returns a user's blocked sites in insertion order.
func (d *DB) ListBlockedSites(ctx context.Context, userID int64) ([]domain.BlockedSite, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT id, domain FROM blocked_sites WHERE user_id=$1 ORDER BY id;", userID)
	if err != nil {
		return nil, wrapErr("list blocked sites", err)
	}
	defer rows.Close() //nolint:errcheck

	out := make([]domain.BlockedSite, 0)
	for rows.Next() {
		b := domain.BlockedSite{UserID: userID}
		if err := rows.Scan(&b.ID, &b.Domain); err != nil {
			return nil, wrapErr("list blocked sites", err)
		}
		out = append(out, b)
	}
	return out, wrapErr("list blocked sites", rows.Err())
}

// AddBlockedSite stores a blocked domain for a user. Duplicates fail with
// ErrConflict through the (user_id, domain) unique constraint.
func (d *DB) AddBlockedSite(ctx context.Context, userID int64, site string) (*domain.BlockedSite, error) {
	b := domain.BlockedSite{UserID: userID, Domain: site}
	err := d.sql.QueryRowContext(ctx,
		"INSERT INTO blocked_sites(user_id, domain) VALUES($1, $2) RETURNING id;", userID, site,
	).Scan(&b.ID)
	if err != nil {
		return nil, wrapErr("add blocked site", err)
	}
	return &b, nil
}

// RemoveBlockedSite deletes a blocked site owned by userID.
func (d *DB) RemoveBlockedSite(ctx context.Context, userID, id int64) (bool, error) {
	res, err := d.sql.ExecContext(ctx, "DELETE FROM blocked_sites WHERE id=$1 AND user_id=$2;", id, userID)
	if err != nil {
		return false, wrapErr("remove blocked site", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, wrapErr("remove blocked site", err)
	}
	return n > 0, nil
}
