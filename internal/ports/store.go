package ports

import (
	"context"

	"planner_import/internal/models"
)

// Upsert policies. "merge" fills blanks from existing values, "overwrite"
// replaces every provided field, "create_only" never touches existing rows.
const (
	UpsertMerge      = "merge"
	UpsertCreateOnly = "create_only"
	UpsertOverwrite  = "overwrite"
)

// Outcome tells the caller what an upsert did so it can keep its counters.
type Outcome int

const (
	OutcomeCreated Outcome = iota
	OutcomeUpdated
	OutcomeSkippedExisting
)

// PlannerStore is what the workbook importer needs from the relational side:
// point lookups by natural key, insert-returning-id, policy-branched updates
// and delete. Implemented over Postgres in repository/database; tests swap in
// an in-memory fake.
type PlannerStore interface {
	// GetOrCreateTerritory returns the territory id for name, creating it if
	// missing. created reports whether a new row was inserted. Territories are
	// never updated once created.
	GetOrCreateTerritory(ctx context.Context, name string) (id int64, created bool, err error)

	UpsertCustomer(ctx context.Context, in models.CustomerInput, policy string) (id int64, out Outcome, err error)

	UpsertStore(ctx context.Context, customerID int64, in models.StoreInput, policy string) (Outcome, error)

	// SetSortBucketOnFirstStore writes the sort bucket onto the customer's
	// lowest-id store, if any. It never creates a store.
	SetSortBucketOnFirstStore(ctx context.Context, customerID int64, sortBucket string) error

	UpsertProduct(ctx context.Context, customerID int64, in models.ProductInput, policy string) (Outcome, error)

	PlanEntryExists(ctx context.Context, customerID int64, year, month int) (bool, error)
	UpsertPlanEntry(ctx context.Context, entry models.PlanEntry) error
	// DeletePlanEntry removes the entry for the key, reporting whether one
	// existed.
	DeletePlanEntry(ctx context.Context, customerID int64, year, month int) (bool, error)
}
