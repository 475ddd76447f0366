package models

import "time"

type Product struct {
	ID          int64
	CustomerID  int64
	ProductName string
	LastVisit   *time.Time
	Action      *string
	Status      *string
	NextAction  *string
	LastContact *time.Time
	Notes       *string
}

// ProductInput is one ACTION column group for one customer row. Identity is
// (customer, lower(ProductName)).
type ProductInput struct {
	ProductName string
	LastVisit   *time.Time
	Action      string
	Status      string
	NextAction  string
	LastContact *time.Time
	Notes       string
}

func (in ProductInput) IsEmpty() bool {
	return in.Action == "" && in.Status == "" && in.NextAction == "" &&
		in.Notes == "" && in.LastContact == nil && in.LastVisit == nil
}
