package importer

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"planner_import/internal/models"
	"planner_import/internal/ports"
)

// fakeStore is an in-memory ports.PlannerStore mirroring the repository
// policy semantics so pass behavior can be tested without Postgres.
type fakeStore struct {
	nextID      int64
	territories map[string]int64
	customers   map[string]*fakeCustomer
	stores      map[int64][]*models.StoreInput
	sortBuckets map[int64]string
	products    map[int64]map[string]*models.ProductInput
	entries     map[planKey]models.PlanEntry
}

type fakeCustomer struct {
	id int64
	in models.CustomerInput
}

type planKey struct {
	customerID int64
	year       int
	month      int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		territories: map[string]int64{},
		customers:   map[string]*fakeCustomer{},
		stores:      map[int64][]*models.StoreInput{},
		sortBuckets: map[int64]string{},
		products:    map[int64]map[string]*models.ProductInput{},
		entries:     map[planKey]models.PlanEntry{},
	}
}

func (f *fakeStore) newID() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) seedCustomer(in models.CustomerInput) int64 {
	id := f.newID()
	if in.Name == "" {
		in.Name = "Customer " + in.CustCode
	}
	f.customers[in.CustCode] = &fakeCustomer{id: id, in: in}
	return id
}

func (f *fakeStore) GetOrCreateTerritory(_ context.Context, name string) (int64, bool, error) {
	if id, ok := f.territories[name]; ok {
		return id, false, nil
	}
	id := f.newID()
	f.territories[name] = id
	return id, true, nil
}

func (f *fakeStore) UpsertCustomer(_ context.Context, in models.CustomerInput, policy string) (int64, ports.Outcome, error) {
	existing, ok := f.customers[in.CustCode]
	if !ok {
		id := f.seedCustomer(in)
		return id, ports.OutcomeCreated, nil
	}
	if policy == ports.UpsertCreateOnly {
		return existing.id, ports.OutcomeSkippedExisting, nil
	}

	cur := &existing.in
	if policy == ports.UpsertOverwrite {
		name := cur.Name
		if in.Name != "" {
			name = in.Name
		}
		*cur = in
		cur.Name = name
		return existing.id, ports.OutcomeUpdated, nil
	}

	// merge: non-blank input wins, blanks keep what is stored.
	if in.Name != "" {
		cur.Name = in.Name
	}
	if in.TradeName != "" {
		cur.TradeName = in.TradeName
	}
	if in.TerritoryID != nil {
		cur.TerritoryID = in.TerritoryID
	}
	if in.GroupName != "" {
		cur.GroupName = in.GroupName
	}
	if in.Group2IWS != "" {
		cur.Group2IWS = in.Group2IWS
	}
	if in.IWSCode != "" {
		cur.IWSCode = in.IWSCode
	}
	if in.OldValue != "" {
		cur.OldValue = in.OldValue
	}
	if in.OldName != "" {
		cur.OldName = in.OldName
	}
	if in.DoorCount != nil {
		cur.DoorCount = in.DoorCount
	}
	if in.CVMNotes != "" {
		cur.CVMNotes = in.CVMNotes
	}
	return existing.id, ports.OutcomeUpdated, nil
}

func (f *fakeStore) UpsertStore(_ context.Context, customerID int64, in models.StoreInput, policy string) (ports.Outcome, error) {
	key := strings.ToLower(in.Address1 + "|" + in.City + "|" + in.State)
	for _, existing := range f.stores[customerID] {
		if strings.ToLower(existing.Address1+"|"+existing.City+"|"+existing.State) != key {
			continue
		}
		if policy == ports.UpsertCreateOnly {
			return ports.OutcomeSkippedExisting, nil
		}
		if policy == ports.UpsertOverwrite {
			*existing = in
			return ports.OutcomeUpdated, nil
		}
		mergeStoreInput(existing, in)
		return ports.OutcomeUpdated, nil
	}
	stored := in
	f.stores[customerID] = append(f.stores[customerID], &stored)
	return ports.OutcomeCreated, nil
}

// mergeStoreInput applies the merge policy: non-blank input wins, blanks keep
// what is stored.
func mergeStoreInput(dst *models.StoreInput, src models.StoreInput) {
	pairs := []struct {
		dst *string
		src string
	}{
		{&dst.Address1, src.Address1}, {&dst.Address2, src.Address2},
		{&dst.City, src.City}, {&dst.State, src.State},
		{&dst.Postcode, src.Postcode}, {&dst.Country, src.Country},
		{&dst.MainContact, src.MainContact},
		{&dst.OwnerName, src.OwnerName}, {&dst.OwnerPhone, src.OwnerPhone}, {&dst.OwnerEmail, src.OwnerEmail},
		{&dst.StoreManagerName, src.StoreManagerName}, {&dst.StorePhone, src.StorePhone}, {&dst.StoreEmail, src.StoreEmail},
		{&dst.MarketManagerName, src.MarketManagerName}, {&dst.MarketingPhone, src.MarketingPhone}, {&dst.MarketingEmail, src.MarketingEmail},
		{&dst.AccountDeptName, src.AccountDeptName}, {&dst.AccountingPhone, src.AccountingPhone}, {&dst.AccountingEmail, src.AccountingEmail},
		{&dst.SortBucket, src.SortBucket}, {&dst.Notes, src.Notes},
	}
	for _, p := range pairs {
		if p.src != "" {
			*p.dst = p.src
		}
	}
}

func (f *fakeStore) SetSortBucketOnFirstStore(_ context.Context, customerID int64, sortBucket string) error {
	f.sortBuckets[customerID] = sortBucket
	return nil
}

func (f *fakeStore) UpsertProduct(_ context.Context, customerID int64, in models.ProductInput, policy string) (ports.Outcome, error) {
	byName := f.products[customerID]
	if byName == nil {
		byName = map[string]*models.ProductInput{}
		f.products[customerID] = byName
	}
	key := strings.ToLower(in.ProductName)
	existing, ok := byName[key]
	if !ok {
		stored := in
		byName[key] = &stored
		return ports.OutcomeCreated, nil
	}
	if policy == ports.UpsertCreateOnly {
		return ports.OutcomeSkippedExisting, nil
	}
	if policy == ports.UpsertOverwrite {
		*existing = in
		return ports.OutcomeUpdated, nil
	}
	if in.LastVisit != nil {
		existing.LastVisit = in.LastVisit
	}
	if in.Action != "" {
		existing.Action = in.Action
	}
	if in.Status != "" {
		existing.Status = in.Status
	}
	if in.NextAction != "" {
		existing.NextAction = in.NextAction
	}
	if in.LastContact != nil {
		existing.LastContact = in.LastContact
	}
	if in.Notes != "" {
		existing.Notes = in.Notes
	}
	return ports.OutcomeUpdated, nil
}

func (f *fakeStore) PlanEntryExists(_ context.Context, customerID int64, year, month int) (bool, error) {
	_, ok := f.entries[planKey{customerID, year, month}]
	return ok, nil
}

func (f *fakeStore) UpsertPlanEntry(_ context.Context, entry models.PlanEntry) error {
	f.entries[planKey{entry.CustomerID, entry.Year, entry.Month}] = entry
	return nil
}

func (f *fakeStore) DeletePlanEntry(_ context.Context, customerID int64, year, month int) (bool, error) {
	key := planKey{customerID, year, month}
	_, ok := f.entries[key]
	delete(f.entries, key)
	return ok, nil
}

// sheetDef builds one sheet: 1-based rows of cell values plus optional direct
// cell refs.
type sheetDef struct {
	name  string
	rows  [][]any
	cells map[string]any
}

func buildWorkbook(t *testing.T, sheets []sheetDef) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, sd := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sd.name); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
		} else {
			if _, err := f.NewSheet(sd.name); err != nil {
				t.Fatalf("new sheet %q: %v", sd.name, err)
			}
		}
		for rowIdx, row := range sd.rows {
			if row == nil {
				continue
			}
			if err := f.SetSheetRow(sd.name, fmt.Sprintf("A%d", rowIdx+1), &row); err != nil {
				t.Fatalf("set row %d on %q: %v", rowIdx+1, sd.name, err)
			}
		}
		for ref, v := range sd.cells {
			if err := f.SetCellValue(sd.name, ref, v); err != nil {
				t.Fatalf("set cell %s on %q: %v", ref, sd.name, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

// padTo places values at explicit 0-based columns in an otherwise blank row.
func padTo(pairs map[int]any) []any {
	maxCol := 0
	for col := range pairs {
		if col > maxCol {
			maxCol = col
		}
	}
	row := make([]any, maxCol+1)
	for i := range row {
		row[i] = ""
	}
	for col, v := range pairs {
		row[col] = v
	}
	return row
}

func yearSheet(year int) sheetDef {
	return sheetDef{name: "JANUARY", cells: map[string]any{"R4": year}}
}
