package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"planner_import/internal/models"
	"planner_import/internal/ports"
)

type StoreRepo struct {
	q ports.Querier
}

func NewStoreRepo(q ports.Querier) *StoreRepo {
	return &StoreRepo{q: q}
}

// Upsert dedups a store by (customer, address_1, city, state) against the
// lowest-id match and applies the policy across the whole contact block.
func (r *StoreRepo) Upsert(ctx context.Context, customerID int64, in models.StoreInput, policy string) (ports.Outcome, error) {
	var id int64
	err := r.q.QueryRow(ctx, `
		SELECT id
		FROM stores
		WHERE customer_id = $1
		  AND COALESCE(address_1, '') = $2
		  AND COALESCE(city, '') = $3
		  AND COALESCE(state, '') = $4
		ORDER BY id
		LIMIT 1
	`, customerID, in.Address1, in.City, in.State).Scan(&id)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	if errors.Is(err, pgx.ErrNoRows) {
		_, err := r.q.Exec(ctx, `
			INSERT INTO stores (
			  customer_id, address_1, address_2, city, state, postcode, country,
			  main_contact, owner_name, owner_phone, owner_email,
			  store_manager_name, store_phone, store_email,
			  market_manager_name, marketing_phone, marketing_email,
			  account_dept_name, accounting_phone, accounting_email,
			  sort_bucket, notes, created_at
			)
			VALUES (
			  $1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''),
			  NULLIF($8, ''), NULLIF($9, ''), NULLIF($10, ''), NULLIF($11, ''),
			  NULLIF($12, ''), NULLIF($13, ''), NULLIF($14, ''),
			  NULLIF($15, ''), NULLIF($16, ''), NULLIF($17, ''),
			  NULLIF($18, ''), NULLIF($19, ''), NULLIF($20, ''),
			  NULLIF($21, ''), NULLIF($22, ''), NOW()
			)
		`, storeArgs(customerID, in)...)
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
			UPDATE stores
			SET
			  address_1 = NULLIF($2, ''),
			  address_2 = NULLIF($3, ''),
			  city = NULLIF($4, ''),
			  state = NULLIF($5, ''),
			  postcode = NULLIF($6, ''),
			  country = NULLIF($7, ''),
			  main_contact = NULLIF($8, ''),
			  owner_name = NULLIF($9, ''),
			  owner_phone = NULLIF($10, ''),
			  owner_email = NULLIF($11, ''),
			  store_manager_name = NULLIF($12, ''),
			  store_phone = NULLIF($13, ''),
			  store_email = NULLIF($14, ''),
			  market_manager_name = NULLIF($15, ''),
			  marketing_phone = NULLIF($16, ''),
			  marketing_email = NULLIF($17, ''),
			  account_dept_name = NULLIF($18, ''),
			  accounting_phone = NULLIF($19, ''),
			  accounting_email = NULLIF($20, ''),
			  sort_bucket = NULLIF($21, ''),
			  notes = NULLIF($22, '')
			WHERE id = $1
		`, storeArgs(id, in)...)
		if err != nil {
			return 0, err
		}
		return ports.OutcomeUpdated, nil
	}

	_, err = r.q.Exec(ctx, `
		UPDATE stores
		SET
		  address_1 = COALESCE(NULLIF($2, ''), address_1),
		  address_2 = COALESCE(NULLIF($3, ''), address_2),
		  city = COALESCE(NULLIF($4, ''), city),
		  state = COALESCE(NULLIF($5, ''), state),
		  postcode = COALESCE(NULLIF($6, ''), postcode),
		  country = COALESCE(NULLIF($7, ''), country),
		  main_contact = COALESCE(NULLIF($8, ''), main_contact),
		  owner_name = COALESCE(NULLIF($9, ''), owner_name),
		  owner_phone = COALESCE(NULLIF($10, ''), owner_phone),
		  owner_email = COALESCE(NULLIF($11, ''), owner_email),
		  store_manager_name = COALESCE(NULLIF($12, ''), store_manager_name),
		  store_phone = COALESCE(NULLIF($13, ''), store_phone),
		  store_email = COALESCE(NULLIF($14, ''), store_email),
		  market_manager_name = COALESCE(NULLIF($15, ''), market_manager_name),
		  marketing_phone = COALESCE(NULLIF($16, ''), marketing_phone),
		  marketing_email = COALESCE(NULLIF($17, ''), marketing_email),
		  account_dept_name = COALESCE(NULLIF($18, ''), account_dept_name),
		  accounting_phone = COALESCE(NULLIF($19, ''), accounting_phone),
		  accounting_email = COALESCE(NULLIF($20, ''), accounting_email),
		  sort_bucket = COALESCE(NULLIF($21, ''), sort_bucket),
		  notes = COALESCE(NULLIF($22, ''), notes)
		WHERE id = $1
	`, storeArgs(id, in)...)
	if err != nil {
		return 0, err
	}
	return ports.OutcomeUpdated, nil
}

func storeArgs(firstArg int64, in models.StoreInput) []any {
	return []any{
		firstArg, in.Address1, in.Address2, in.City, in.State, in.Postcode, in.Country,
		in.MainContact, in.OwnerName, in.OwnerPhone, in.OwnerEmail,
		in.StoreManagerName, in.StorePhone, in.StoreEmail,
		in.MarketManagerName, in.MarketingPhone, in.MarketingEmail,
		in.AccountDeptName, in.AccountingPhone, in.AccountingEmail,
		in.SortBucket, in.Notes,
	}
}

// SetSortBucketOnFirstStore writes a non-blank sort bucket onto the
// customer's lowest-id store. No store, no write.
func (r *StoreRepo) SetSortBucketOnFirstStore(ctx context.Context, customerID int64, sortBucket string) error {
	_, err := r.q.Exec(ctx, `
		UPDATE stores
		SET sort_bucket = COALESCE(NULLIF($2, ''), sort_bucket)
		WHERE id = (
		  SELECT id
		  FROM stores
		  WHERE customer_id = $1
		  ORDER BY id
		  LIMIT 1
		)
	`, customerID, sortBucket)
	return err
}
