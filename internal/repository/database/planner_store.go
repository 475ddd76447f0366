package database

import (
	"context"

	"planner_import/internal/models"
	"planner_import/internal/ports"
)

// Store bundles the per-entity repositories behind ports.PlannerStore. Built
// over a Querier so the caller can hand it either the pool or the import
// run's transaction.
type Store struct {
	Territories *TerritoryRepo
	Customers   *CustomerRepo
	Stores      *StoreRepo
	Products    *ProductRepo
	PlanEntries *PlanEntryRepo
}

func NewStore(q ports.Querier) *Store {
	return &Store{
		Territories: NewTerritoryRepo(q),
		Customers:   NewCustomerRepo(q),
		Stores:      NewStoreRepo(q),
		Products:    NewProductRepo(q),
		PlanEntries: NewPlanEntryRepo(q),
	}
}

func (s *Store) GetOrCreateTerritory(ctx context.Context, name string) (int64, bool, error) {
	return s.Territories.GetOrCreate(ctx, name)
}

func (s *Store) UpsertCustomer(ctx context.Context, in models.CustomerInput, policy string) (int64, ports.Outcome, error) {
	return s.Customers.Upsert(ctx, in, policy)
}

func (s *Store) UpsertStore(ctx context.Context, customerID int64, in models.StoreInput, policy string) (ports.Outcome, error) {
	return s.Stores.Upsert(ctx, customerID, in, policy)
}

func (s *Store) SetSortBucketOnFirstStore(ctx context.Context, customerID int64, sortBucket string) error {
	return s.Stores.SetSortBucketOnFirstStore(ctx, customerID, sortBucket)
}

func (s *Store) UpsertProduct(ctx context.Context, customerID int64, in models.ProductInput, policy string) (ports.Outcome, error) {
	return s.Products.Upsert(ctx, customerID, in, policy)
}

func (s *Store) PlanEntryExists(ctx context.Context, customerID int64, year, month int) (bool, error) {
	return s.PlanEntries.Exists(ctx, customerID, year, month)
}

func (s *Store) UpsertPlanEntry(ctx context.Context, entry models.PlanEntry) error {
	return s.PlanEntries.Upsert(ctx, entry)
}

func (s *Store) DeletePlanEntry(ctx context.Context, customerID int64, year, month int) (bool, error) {
	return s.PlanEntries.Delete(ctx, customerID, year, month)
}
