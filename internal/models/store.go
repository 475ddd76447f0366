package models

import "time"

type Store struct {
	ID         int64
	CustomerID int64
	Address1   *string
	Address2   *string
	City       *string
	State      *string
	Postcode   *string
	Country    *string
	SortBucket *string
	Notes      *string
	CreatedAt  *time.Time
}

// StoreInput holds the contact/address block of one detail row. Dedup identity
// is (customer, Address1, City, State).
type StoreInput struct {
	Address1          string
	Address2          string
	City              string
	State             string
	Postcode          string
	Country           string
	MainContact       string
	OwnerName         string
	OwnerPhone        string
	OwnerEmail        string
	StoreManagerName  string
	StorePhone        string
	StoreEmail        string
	MarketManagerName string
	MarketingPhone    string
	MarketingEmail    string
	AccountDeptName   string
	AccountingPhone   string
	AccountingEmail   string
	SortBucket        string
	Notes             string
}

// HasData reports whether any store field carries a value; a detail row with
// an all-blank block does not produce a store at all.
func (in StoreInput) HasData() bool {
	fields := []string{
		in.Address1, in.Address2, in.City, in.State, in.Postcode, in.Country,
		in.MainContact, in.OwnerName, in.OwnerPhone, in.OwnerEmail,
		in.StoreManagerName, in.StorePhone, in.StoreEmail,
		in.MarketManagerName, in.MarketingPhone, in.MarketingEmail,
		in.AccountDeptName, in.AccountingPhone, in.AccountingEmail,
		in.SortBucket, in.Notes,
	}
	for _, f := range fields {
		if f != "" {
			return true
		}
	}
	return false
}
