package models

import "time"

type Customer struct {
	ID          int64
	CustCode    string
	Name        string
	TradeName   *string
	TerritoryID *int64
	GroupName   *string
	Group2IWS   *string
	IWSCode     *string
	OldValue    *string
	OldName     *string
	DoorCount   *int
	CVMNotes    *string
	CreatedAt   *time.Time
}

// CustomerInput carries the cleaned workbook values for one customer row.
// Blank strings mean "no value supplied"; how that interacts with an existing
// row depends on the upsert policy.
type CustomerInput struct {
	CustCode    string
	Name        string
	TradeName   string
	TerritoryID *int64
	GroupName   string
	Group2IWS   string
	IWSCode     string
	OldValue    string
	OldName     string
	DoorCount   *int
	CVMNotes    string
}
