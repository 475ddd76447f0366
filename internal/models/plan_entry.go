package models

import "time"

// PlanEntry is one cell-pair of the monthly plan grid, keyed by
// (customer, year, month). An entry with no planned date and no manual
// completion never persists.
type PlanEntry struct {
	CustomerID      int64
	Year            int
	Month           int
	PlannedDate     *time.Time
	CompletedManual bool
}
