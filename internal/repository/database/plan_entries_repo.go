package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"planner_import/internal/models"
	"planner_import/internal/ports"
)

type PlanEntryRepo struct {
	q ports.Querier
}

func NewPlanEntryRepo(q ports.Querier) *PlanEntryRepo {
	return &PlanEntryRepo{q: q}
}

func (r *PlanEntryRepo) Exists(ctx context.Context, customerID int64, year, month int) (bool, error) {
	var one int
	err := r.q.QueryRow(ctx, `
		SELECT 1
		FROM cvm_month_entries
		WHERE customer_id = $1
		  AND year = $2
		  AND month = $3
	`, customerID, year, month).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Upsert fully replaces the entry for (customer, year, month). An entry with
// neither a planned date nor a manual completion must not persist, so empty
// input turns into a delete.
func (r *PlanEntryRepo) Upsert(ctx context.Context, entry models.PlanEntry) error {
	if entry.PlannedDate == nil && !entry.CompletedManual {
		_, err := r.Delete(ctx, entry.CustomerID, entry.Year, entry.Month)
		return err
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO cvm_month_entries
		  (customer_id, year, month, planned_date, completed_manual, updated_at)
		VALUES
		  ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (customer_id, year, month)
		DO UPDATE SET
		  planned_date = EXCLUDED.planned_date,
		  completed_manual = EXCLUDED.completed_manual,
		  updated_at = NOW()
	`, entry.CustomerID, entry.Year, entry.Month, entry.PlannedDate, entry.CompletedManual)
	return err
}

func (r *PlanEntryRepo) Delete(ctx context.Context, customerID int64, year, month int) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		DELETE FROM cvm_month_entries
		WHERE customer_id = $1
		  AND year = $2
		  AND month = $3
	`, customerID, year, month)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
