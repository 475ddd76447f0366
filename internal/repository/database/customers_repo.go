package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"planner_import/internal/models"
	"planner_import/internal/ports"
)

type CustomerRepo struct {
	q ports.Querier
}

func NewCustomerRepo(q ports.Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// Upsert resolves a customer by cust_code and applies the configured policy.
// A blank incoming name never erases a stored one: merge coalesces it and
// overwrite keeps the old name via the CASE guard. On first creation a blank
// name becomes the "Customer {code}" placeholder.
func (r *CustomerRepo) Upsert(ctx context.Context, in models.CustomerInput, policy string) (int64, ports.Outcome, error) {
	var id int64
	err := r.q.QueryRow(ctx, `SELECT id FROM customers WHERE cust_code = $1`, in.CustCode).Scan(&id)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return 0, 0, err
	}

	if errors.Is(err, pgx.ErrNoRows) {
		name := in.Name
		if name == "" {
			name = "Customer " + in.CustCode
		}
		err := r.q.QueryRow(ctx, `
			INSERT INTO customers (
			  cust_code, name, trade_name, territory_id,
			  group_name, group_2_iws, iws_code,
			  old_value, old_name, door_count, cvm_notes, created_at
			)
			VALUES (
			  $1, $2, NULLIF($3, ''), $4,
			  NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''),
			  NULLIF($8, ''), NULLIF($9, ''), $10, NULLIF($11, ''), NOW()
			)
			RETURNING id
		`,
			in.CustCode, name, in.TradeName, in.TerritoryID,
			in.GroupName, in.Group2IWS, in.IWSCode,
			in.OldValue, in.OldName, in.DoorCount, in.CVMNotes,
		).Scan(&id)
		if err != nil {
			return 0, 0, err
		}
		return id, ports.OutcomeCreated, nil
	}

	if policy == ports.UpsertCreateOnly {
		return id, ports.OutcomeSkippedExisting, nil
	}

	if policy == ports.UpsertOverwrite {
		_, err := r.q.Exec(ctx, `
			UPDATE customers
			SET
			  name = CASE WHEN NULLIF($2, '') IS NULL THEN name ELSE $2 END,
			  trade_name = NULLIF($3, ''),
			  territory_id = $4,
			  group_name = NULLIF($5, ''),
			  group_2_iws = NULLIF($6, ''),
			  iws_code = NULLIF($7, ''),
			  old_value = NULLIF($8, ''),
			  old_name = NULLIF($9, ''),
			  door_count = $10,
			  cvm_notes = NULLIF($11, '')
			WHERE id = $1
		`,
			id, in.Name, in.TradeName, in.TerritoryID,
			in.GroupName, in.Group2IWS, in.IWSCode,
			in.OldValue, in.OldName, in.DoorCount, in.CVMNotes,
		)
		if err != nil {
			return 0, 0, err
		}
		return id, ports.OutcomeUpdated, nil
	}

	_, err = r.q.Exec(ctx, `
		UPDATE customers
		SET
		  name = COALESCE(NULLIF($2, ''), name),
		  trade_name = COALESCE(NULLIF($3, ''), trade_name),
		  territory_id = COALESCE($4, territory_id),
		  group_name = COALESCE(NULLIF($5, ''), group_name),
		  group_2_iws = COALESCE(NULLIF($6, ''), group_2_iws),
		  iws_code = COALESCE(NULLIF($7, ''), iws_code),
		  old_value = COALESCE(NULLIF($8, ''), old_value),
		  old_name = COALESCE(NULLIF($9, ''), old_name),
		  door_count = COALESCE($10, door_count),
		  cvm_notes = COALESCE(NULLIF($11, ''), cvm_notes)
		WHERE id = $1
	`,
		id, in.Name, in.TradeName, in.TerritoryID,
		in.GroupName, in.Group2IWS, in.IWSCode,
		in.OldValue, in.OldName, in.DoorCount, in.CVMNotes,
	)
	if err != nil {
		return 0, 0, err
	}
	return id, ports.OutcomeUpdated, nil
}
