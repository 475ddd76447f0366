package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"planner_import/internal/ports"
)

type TerritoryRepo struct {
	q ports.Querier
}

func NewTerritoryRepo(q ports.Querier) *TerritoryRepo {
	return &TerritoryRepo{q: q}
}

// GetOrCreate resolves a territory by its unique name, inserting it when
// missing. Territories are never updated once created.
func (r *TerritoryRepo) GetOrCreate(ctx context.Context, name string) (int64, bool, error) {
	var id int64
	err := r.q.QueryRow(ctx, `SELECT id FROM territories WHERE name = $1`, name).Scan(&id)
	if err == nil {
		return id, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, false, err
	}

	err = r.q.QueryRow(ctx, `
		INSERT INTO territories (name)
		VALUES ($1)
		ON CONFLICT (name) DO NOTHING
		RETURNING id
	`, name).Scan(&id)
	if err == nil {
		return id, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, false, err
	}

	// Lost a race with another writer; the row exists now.
	err = r.q.QueryRow(ctx, `SELECT id FROM territories WHERE name = $1`, name).Scan(&id)
	return id, false, err
}
