package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"planner_import/internal/models"
	"planner_import/internal/ports"
)

type ProductRepo struct {
	q ports.Querier
}

func NewProductRepo(q ports.Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Upsert resolves a product by (customer, lower(name)) and applies the
// policy over the interaction fields.
func (r *ProductRepo) Upsert(ctx context.Context, customerID int64, in models.ProductInput, policy string) (ports.Outcome, error) {
	var id int64
	err := r.q.QueryRow(ctx, `
		SELECT id
		FROM products
		WHERE customer_id = $1
		  AND LOWER(product_name) = LOWER($2)
		ORDER BY id
		LIMIT 1
	`, customerID, in.ProductName).Scan(&id)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	if errors.Is(err, pgx.ErrNoRows) {
		_, err := r.q.Exec(ctx, `
			INSERT INTO products
			  (customer_id, product_name, last_visit, action, status, next_action, last_contact, notes, created_at, updated_at)
			VALUES
			  ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), $7, NULLIF($8, ''), NOW(), NOW())
		`, customerID, in.ProductName, in.LastVisit, in.Action, in.Status, in.NextAction, in.LastContact, in.Notes)
		if err != nil {
			return 0, err
		}
		return ports.OutcomeCreated, nil
	}

	if policy == ports.UpsertCreateOnly {
		return ports.OutcomeSkippedExisting, nil
	}

	if policy == ports.UpsertOverwrite {
		_, err := r.q.Exec(ctx, `
			UPDATE products
			SET
			  last_visit = $2,
			  action = NULLIF($3, ''),
			  status = NULLIF($4, ''),
			  next_action = NULLIF($5, ''),
			  last_contact = $6,
			  notes = NULLIF($7, ''),
			  updated_at = NOW()
			WHERE id = $1
		`, id, in.LastVisit, in.Action, in.Status, in.NextAction, in.LastContact, in.Notes)
		if err != nil {
			return 0, err
		}
		return ports.OutcomeUpdated, nil
	}

	_, err = r.q.Exec(ctx, `
		UPDATE products
		SET
		  last_visit = COALESCE($2, last_visit),
		  action = COALESCE(NULLIF($3, ''), action),
		  status = COALESCE(NULLIF($4, ''), status),
		  next_action = COALESCE(NULLIF($5, ''), next_action),
		  last_contact = COALESCE($6, last_contact),
		  notes = COALESCE(NULLIF($7, ''), notes),
		  updated_at = NOW()
		WHERE id = $1
	`, id, in.LastVisit, in.Action, in.Status, in.NextAction, in.LastContact, in.Notes)
	if err != nil {
		return 0, err
	}
	return ports.OutcomeUpdated, nil
}
