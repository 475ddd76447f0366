package importer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"planner_import/internal/models"
	"planner_import/internal/ports"
)

// run is the per-import state shared by the four passes: the territory cache,
// the summary, and the upsert policy. Passes execute in a fixed order so later
// ones see customers created by earlier ones.
type run struct {
	store       ports.PlannerStore
	sum         *Summary
	wb          *workbook
	policy      string
	territories map[string]int64
}

func (r *run) territoryID(ctx context.Context, name string) (*int64, error) {
	name = cleanText(name)
	if name == "" {
		return nil, nil
	}
	if id, ok := r.territories[name]; ok {
		return &id, nil
	}
	id, created, err := r.store.GetOrCreateTerritory(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("territory %q: %w", name, err)
	}
	r.territories[name] = id
	if created {
		r.sum.TerritoriesCreated++
	}
	return &id, nil
}

func (r *run) upsertCustomer(ctx context.Context, in models.CustomerInput) (int64, error) {
	id, out, err := r.store.UpsertCustomer(ctx, in, r.policy)
	if err != nil {
		return 0, fmt.Errorf("customer %q: %w", in.CustCode, err)
	}
	switch out {
	case ports.OutcomeCreated:
		r.sum.CustomersCreated++
	case ports.OutcomeUpdated:
		r.sum.CustomersUpdated++
	case ports.OutcomeSkippedExisting:
		r.sum.CustomersSkippedExisting++
	}
	return id, nil
}

// toDateWithIssue parses a date cell and logs unparseable non-empty text at
// the validation level; the value is dropped either way.
func (r *run) toDateWithIssue(value, sheet string, rowNum int, field string) *time.Time {
	raw := cleanText(value)
	if raw == "" {
		return nil
	}
	if parsed := toDate(raw); parsed != nil {
		return parsed
	}
	r.sum.recordIssue(r.sum.validationLevel(), sheet, rowNum,
		fmt.Sprintf("Invalid date '%s' in %s; value ignored.", raw, field))
	return nil
}

const missingCodeMessage = "Skipped row: missing customer code."

var rosterFields = []fieldSpec{
	{field: "territory", labels: []string{"TERRITORY"}, fallback: 0},
	{field: "group_name", labels: []string{"GROUP", "GROUP NAME"}, fallback: 1},
	{field: "group_2_iws", labels: []string{"GROUP 2 IWS", "GROUP2 IWS"}, fallback: 2},
	{field: "iws_code", labels: []string{"IWS CODE"}, fallback: 3},
	{field: "cust_code", labels: []string{"CUST CODE", "CUSTOMER CODE", "CODE"}, fallback: 4},
	{field: "name", labels: []string{"CUSTOMER NAME", "NAME"}, fallback: 5},
	{field: "old_value", labels: []string{"OLD VALUE"}, fallback: 6},
	{field: "old_name", labels: []string{"OLD NAME"}, fallback: 7},
}

// rosterPass reads the customer master sheet: one row per customer with
// territory, grouping and old-system cross-reference columns.
func (r *run) rosterPass(ctx context.Context) error {
	sheet, ok := r.wb.sheetByPrefix("Get Data -")
	if !ok {
		r.sum.addWarning("Get Data sheet not found; skipped customer master import.")
		return nil
	}
	rows, err := r.wb.rows(sheet)
	if err != nil {
		r.sum.addWarning(fmt.Sprintf("Get Data sheet could not be read: %v; skipped customer master import.", err))
		return nil
	}

	var cols columnMap
	if len(rows) > 0 {
		cols = resolveColumns(rows[0], rosterFields)
	} else {
		cols = resolveColumns(nil, rosterFields)
	}
	seen := seenKeys{}

	for i := 1; i < len(rows); i++ {
		rowNum := i + 1
		row := rows[i]

		code := cleanCode(cols.cell(row, "cust_code"))
		name := cleanText(cols.cell(row, "name"))

		if code == "" && name == "" && !isRowPopulated(row) {
			continue
		}
		if code == "" {
			r.sum.recordIssue(levelError, sheet, rowNum, missingCodeMessage)
			continue
		}
		if name == "" {
			r.sum.recordIssue(r.sum.validationLevel(), sheet, rowNum,
				fmt.Sprintf("Customer '%s' has no customer name; placeholder name may be used.", code))
		}

		if !r.sum.registerDuplicate(seen, code, sheet, rowNum, "customer") {
			continue
		}

		territoryID, err := r.territoryID(ctx, cols.cell(row, "territory"))
		if err != nil {
			return err
		}
		_, err = r.upsertCustomer(ctx, models.CustomerInput{
			CustCode:    code,
			Name:        name,
			TerritoryID: territoryID,
			GroupName:   cleanText(cols.cell(row, "group_name")),
			Group2IWS:   cleanText(cols.cell(row, "group_2_iws")),
			IWSCode:     cleanText(cols.cell(row, "iws_code")),
			OldValue:    cleanText(cols.cell(row, "old_value")),
			OldName:     cleanText(cols.cell(row, "old_name")),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

var detailFields = []fieldSpec{
	{field: "cust_code", labels: []string{"CUST CODE", "CUSTOMER CODE"}, fallback: 0},
	{field: "customer", labels: []string{"CUSTOMER NAME", "CUSTOMER"}, fallback: 1},
	{field: "account", labels: []string{"ACCOUNT", "ACCOUNT CODE"}, fallback: 2},
	{field: "territory", labels: []string{"TERRITORY"}, fallback: 3},
	{field: "address_1", labels: []string{"ADDRESS 1"}, fallback: 5},
	{field: "address_2", labels: []string{"ADDRESS 2"}, fallback: 6},
	{field: "city", labels: []string{"CITY", "SUBURB"}, fallback: 7},
	{field: "state", labels: []string{"STATE"}, fallback: 8},
	{field: "postcode", labels: []string{"POSTCODE", "POST CODE"}, fallback: 9},
	{field: "country", labels: []string{"COUNTRY"}, fallback: 10},
	{field: "main_contact", labels: []string{"MAIN CONTACT"}, fallback: 11},
	{field: "owner_name", labels: []string{"OWNER NAME", "OWNER"}, fallback: 12},
	{field: "owner_phone", labels: []string{"OWNER PHONE"}, fallback: 13},
	{field: "owner_email", labels: []string{"OWNER EMAIL"}, fallback: 14},
	{field: "store_manager_name", labels: []string{"STORE MANAGER", "STORE MANAGER NAME"}, fallback: 15},
	{field: "store_phone", labels: []string{"STORE PHONE"}, fallback: 16},
	{field: "store_email", labels: []string{"STORE EMAIL"}, fallback: 17},
	{field: "market_manager_name", labels: []string{"MARKET MANAGER", "MARKETING MANAGER"}, fallback: 18},
	{field: "marketing_phone", labels: []string{"MARKETING PHONE"}, fallback: 19},
	{field: "marketing_email", labels: []string{"MARKETING EMAIL"}, fallback: 20},
	{field: "account_dept_name", labels: []string{"ACCOUNTS NAME", "ACCOUNT DEPT"}, fallback: 21},
	{field: "accounting_phone", labels: []string{"ACCOUNTS PHONE", "ACCOUNTING PHONE"}, fallback: 22},
	{field: "accounting_email", labels: []string{"ACCOUNTS EMAIL", "ACCOUNTING EMAIL"}, fallback: 23},
	{field: "notes", labels: []string{"NOTES"}, fallback: 24},
}

// detailPass reads the contact/store sheet. The customer code can live in
// either the CUST CODE or the ACCOUNT column; a store row is produced only
// when at least one store field is non-blank.
func (r *run) detailPass(ctx context.Context) error {
	sheet, ok := r.wb.sheetByPrefix("Customer Details")
	if !ok {
		r.sum.addWarning("Customer Details sheet not found; skipped store/contact import.")
		return nil
	}
	rows, err := r.wb.rows(sheet)
	if err != nil {
		r.sum.addWarning(fmt.Sprintf("Customer Details sheet could not be read: %v; skipped store/contact import.", err))
		return nil
	}

	var header []string
	if len(rows) > 1 {
		header = rows[1]
	}
	cols := resolveColumns(header, detailFields)
	seenStores := seenKeys{}

	for i := 2; i < len(rows); i++ {
		rowNum := i + 1
		row := rows[i]

		code := cleanCode(cols.cell(row, "cust_code"))
		if code == "" {
			code = cleanCode(cols.cell(row, "account"))
		}
		name := extractName(cols.cell(row, "customer"))
		if name == "" {
			name = extractName(cols.cell(row, "account"))
		}

		if code == "" {
			if isRowPopulated(row) {
				r.sum.recordIssue(levelError, sheet, rowNum, missingCodeMessage)
			}
			continue
		}

		territoryID, err := r.territoryID(ctx, cols.cell(row, "territory"))
		if err != nil {
			return err
		}
		customerID, err := r.upsertCustomer(ctx, models.CustomerInput{
			CustCode:    code,
			Name:        name,
			TerritoryID: territoryID,
		})
		if err != nil {
			return err
		}

		in := models.StoreInput{
			Address1:          cleanText(cols.cell(row, "address_1")),
			Address2:          cleanText(cols.cell(row, "address_2")),
			City:              cleanText(cols.cell(row, "city")),
			State:             cleanText(cols.cell(row, "state")),
			Postcode:          cleanText(cols.cell(row, "postcode")),
			Country:           cleanText(cols.cell(row, "country")),
			MainContact:       cleanText(cols.cell(row, "main_contact")),
			OwnerName:         cleanText(cols.cell(row, "owner_name")),
			OwnerPhone:        cleanText(cols.cell(row, "owner_phone")),
			OwnerEmail:        cleanText(cols.cell(row, "owner_email")),
			StoreManagerName:  cleanText(cols.cell(row, "store_manager_name")),
			StorePhone:        cleanText(cols.cell(row, "store_phone")),
			StoreEmail:        cleanText(cols.cell(row, "store_email")),
			MarketManagerName: cleanText(cols.cell(row, "market_manager_name")),
			MarketingPhone:    cleanText(cols.cell(row, "marketing_phone")),
			MarketingEmail:    cleanText(cols.cell(row, "marketing_email")),
			AccountDeptName:   cleanText(cols.cell(row, "account_dept_name")),
			AccountingPhone:   cleanText(cols.cell(row, "accounting_phone")),
			AccountingEmail:   cleanText(cols.cell(row, "accounting_email")),
			Notes:             cleanText(cols.cell(row, "notes")),
		}
		if !in.HasData() {
			continue
		}

		storeKey := strings.ToLower(strings.Join([]string{code, in.Address1, in.City, in.State}, "|"))
		if !r.sum.registerDuplicate(seenStores, storeKey, sheet, rowNum, "store") {
			continue
		}

		out, err := r.store.UpsertStore(ctx, customerID, in, r.policy)
		if err != nil {
			return fmt.Errorf("store for customer %q: %w", code, err)
		}
		switch out {
		case ports.OutcomeCreated:
			r.sum.StoresCreated++
		case ports.OutcomeUpdated:
			r.sum.StoresUpdated++
		case ports.OutcomeSkippedExisting:
			r.sum.StoresSkippedExisting++
		}
	}
	return nil
}

var planGridFields = []fieldSpec{
	{field: "territory", labels: []string{"TERRITORY"}, fallback: 1},
	{field: "cust_code", labels: []string{"CUST CODE", "CUSTOMER CODE"}, fallback: 2},
	{field: "sort_bucket", labels: []string{"SORT", "SORT BUCKET"}, fallback: 3},
	{field: "name", labels: []string{"CUSTOMER NAME", "NAME"}, fallback: 4},
	{field: "trade_name", labels: []string{"TRADE NAME"}, fallback: 5},
	{field: "cvm_notes", labels: []string{"CVM NOTES", "NOTES"}, fallback: 6},
	{field: "door_count", labels: []string{"DOOR COUNT", "DOORS"}, fallback: 7},
}

// planGridPass reads the CVM sheet: customer metadata plus twelve
// planned/completed month pairs per row. A completion without a usable
// planned date never persists; a fully empty pair removes any stored entry
// for that key.
func (r *run) planGridPass(ctx context.Context, year int) error {
	sheet, ok := r.wb.sheetByExact("CVM")
	if !ok {
		r.sum.addWarning("CVM sheet not found; skipped monthly planning import.")
		return nil
	}
	rows, err := r.wb.rows(sheet)
	if err != nil {
		r.sum.addWarning(fmt.Sprintf("CVM sheet could not be read: %v; skipped monthly planning import.", err))
		return nil
	}

	var header []string
	if len(rows) > 2 {
		header = rows[2]
	}
	cols := resolveColumns(header, planGridFields)
	months := resolveMonthColumns(header)
	seen := seenKeys{}

	for i := 3; i < len(rows); i++ {
		rowNum := i + 1
		row := rows[i]

		code := cleanCode(cols.cell(row, "cust_code"))
		if code == "" {
			if isRowPopulated(row) {
				r.sum.recordIssue(levelError, sheet, rowNum, missingCodeMessage)
			}
			continue
		}
		if !r.sum.registerDuplicate(seen, code, sheet, rowNum, "customer") {
			continue
		}

		territoryID, err := r.territoryID(ctx, cols.cell(row, "territory"))
		if err != nil {
			return err
		}
		customerID, err := r.upsertCustomer(ctx, models.CustomerInput{
			CustCode:    code,
			Name:        cleanText(cols.cell(row, "name")),
			TerritoryID: territoryID,
			TradeName:   cleanText(cols.cell(row, "trade_name")),
			CVMNotes:    cleanText(cols.cell(row, "cvm_notes")),
			DoorCount:   toInt(cols.cell(row, "door_count")),
		})
		if err != nil {
			return err
		}

		if bucket := cleanText(cols.cell(row, "sort_bucket")); bucket != "" {
			if err := r.store.SetSortBucketOnFirstStore(ctx, customerID, bucket); err != nil {
				return fmt.Errorf("sort bucket for customer %q: %w", code, err)
			}
		}

		for m := 1; m <= 12; m++ {
			mc := months[m-1]
			planned := r.toDateWithIssue(cellAt(row, mc.planned), sheet, rowNum, "PLANNED "+monthShort[m-1])
			completed := toBool(cellAt(row, mc.completed))

			if completed && planned == nil {
				completed = false
				r.sum.recordIssue(r.sum.validationLevel(), sheet, rowNum,
					fmt.Sprintf("Completion for %s ignored: no valid planned date.", monthShort[m-1]))
			}

			if planned == nil && !completed {
				// Empty entries never persist. create_only leaves any
				// existing row alone.
				if r.policy == ports.UpsertCreateOnly {
					continue
				}
				deleted, err := r.store.DeletePlanEntry(ctx, customerID, year, m)
				if err != nil {
					return fmt.Errorf("plan entry for customer %q month %d: %w", code, m, err)
				}
				if deleted {
					r.sum.PlanEntriesDeleted++
				}
				continue
			}

			if r.policy == ports.UpsertCreateOnly {
				exists, err := r.store.PlanEntryExists(ctx, customerID, year, m)
				if err != nil {
					return fmt.Errorf("plan entry for customer %q month %d: %w", code, m, err)
				}
				if exists {
					r.sum.PlanEntriesSkipped++
					continue
				}
			}
			entry := models.PlanEntry{
				CustomerID:      customerID,
				Year:            year,
				Month:           m,
				PlannedDate:     planned,
				CompletedManual: completed,
			}
			if err := r.store.UpsertPlanEntry(ctx, entry); err != nil {
				return fmt.Errorf("plan entry for customer %q month %d: %w", code, m, err)
			}
			r.sum.PlanEntriesUpserted++
		}
	}
	return nil
}

var productCustomerFields = []fieldSpec{
	{field: "territory", labels: []string{"TERRITORY"}, fallback: 20},
	{field: "cust_code", labels: []string{"CUST CODE", "CUSTOMER CODE"}, fallback: 21},
	{field: "name", labels: []string{"CUSTOMER NAME"}, fallback: 22},
	{field: "trade_name", labels: []string{"TRADE NAME"}, fallback: 23},
	{field: "last_visit", labels: []string{"LAST VISIT"}, fallback: 24},
}

// productPass reads the Database sheet. Product columns repeat as groups of
// five headed by an ACTION field label; the product name comes from the label
// row above.
func (r *run) productPass(ctx context.Context) error {
	sheet, ok := r.wb.sheetByExact("Database")
	if !ok {
		r.sum.addWarning("Database sheet not found; skipped product import.")
		return nil
	}
	rows, err := r.wb.rows(sheet)
	if err != nil {
		r.sum.addWarning(fmt.Sprintf("Database sheet could not be read: %v; skipped product import.", err))
		return nil
	}

	var productLabels, fieldLabels []string
	if len(rows) > 2 {
		productLabels = rows[2]
	}
	if len(rows) > 3 {
		fieldLabels = rows[3]
	}

	type productGroup struct {
		col  int
		name string
	}
	var groups []productGroup
	for i, label := range fieldLabels {
		if strings.HasPrefix(normalizeHeader(label), "ACTION") && i+4 < len(fieldLabels) {
			name := cleanText(cellAt(productLabels, i))
			if name == "" {
				name = fmt.Sprintf("Product %d", len(groups)+1)
			}
			groups = append(groups, productGroup{col: i, name: name})
		}
	}
	if len(groups) == 0 {
		r.sum.addWarning("No ACTION product groups found in Database sheet.")
		return nil
	}

	cols := resolveColumns(fieldLabels, productCustomerFields)
	seen := seenKeys{}

	for i := 4; i < len(rows); i++ {
		rowNum := i + 1
		row := rows[i]

		code := cleanCode(cols.cell(row, "cust_code"))
		territoryName := cleanText(cols.cell(row, "territory"))
		name := cleanText(cols.cell(row, "name"))
		tradeName := cleanText(cols.cell(row, "trade_name"))
		lastVisit := r.toDateWithIssue(cols.cell(row, "last_visit"), sheet, rowNum, "LAST VISIT")

		if code == "" {
			if territoryName != "" || name != "" || tradeName != "" || lastVisit != nil {
				r.sum.recordIssue(levelError, sheet, rowNum, missingCodeMessage)
			}
			continue
		}
		if !r.sum.registerDuplicate(seen, code, sheet, rowNum, "customer") {
			continue
		}

		territoryID, err := r.territoryID(ctx, territoryName)
		if err != nil {
			return err
		}
		customerID, err := r.upsertCustomer(ctx, models.CustomerInput{
			CustCode:    code,
			Name:        name,
			TerritoryID: territoryID,
			TradeName:   tradeName,
		})
		if err != nil {
			return err
		}

		for _, g := range groups {
			in := models.ProductInput{
				ProductName: g.name,
				LastVisit:   lastVisit,
				Action:      cleanText(cellAt(row, g.col)),
				Status:      cleanText(cellAt(row, g.col+1)),
				NextAction:  cleanText(cellAt(row, g.col+2)),
				LastContact: r.toDateWithIssue(cellAt(row, g.col+3), sheet, rowNum, g.name+" LAST CONTACT"),
				Notes:       cleanText(cellAt(row, g.col+4)),
			}
			if in.IsEmpty() {
				continue
			}
			out, err := r.store.UpsertProduct(ctx, customerID, in, r.policy)
			if err != nil {
				return fmt.Errorf("product %q for customer %q: %w", g.name, code, err)
			}
			switch out {
			case ports.OutcomeCreated:
				r.sum.ProductsCreated++
			case ports.OutcomeUpdated:
				r.sum.ProductsUpdated++
			case ports.OutcomeSkippedExisting:
				r.sum.ProductsSkippedExisting++
			}
		}
	}
	return nil
}
