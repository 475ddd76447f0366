package importer

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"planner_import/internal/ports"
)

// RequestError is a caller-facing failure: nothing was read or written, the
// request itself is bad.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string { return e.Message }

func badRequest(format string, args ...any) *RequestError {
	return &RequestError{Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

// Options are the run-wide knobs. Zero values resolve to the defaults
// (merge / standard / last_wins).
type Options struct {
	YearOverride    int
	UpsertPolicy    string
	ValidationMode  string
	DuplicatePolicy string
	DryRun          bool
}

func (o *Options) normalize() error {
	if o.YearOverride != 0 && !validYear(o.YearOverride) {
		return badRequest("Invalid year override %d. Allowed: 2000-2100.", o.YearOverride)
	}

	o.UpsertPolicy = strings.ToLower(cleanText(o.UpsertPolicy))
	if o.UpsertPolicy == "" {
		o.UpsertPolicy = ports.UpsertMerge
	}
	switch o.UpsertPolicy {
	case ports.UpsertMerge, ports.UpsertCreateOnly, ports.UpsertOverwrite:
	default:
		return badRequest("Invalid upsert policy '%s'. Allowed: create_only, merge, overwrite.", o.UpsertPolicy)
	}

	o.ValidationMode = strings.ToLower(cleanText(o.ValidationMode))
	if o.ValidationMode == "" {
		o.ValidationMode = ValidationStandard
	}
	switch o.ValidationMode {
	case ValidationStandard, ValidationStrict:
	default:
		return badRequest("Invalid validation mode '%s'. Allowed: standard, strict.", o.ValidationMode)
	}

	o.DuplicatePolicy = strings.ToLower(cleanText(o.DuplicatePolicy))
	if o.DuplicatePolicy == "" {
		o.DuplicatePolicy = DuplicateLastWins
	}
	switch o.DuplicatePolicy {
	case DuplicateLastWins, DuplicateFirstWins, DuplicateError:
	default:
		return badRequest("Invalid duplicate policy '%s'. Allowed: error, first_wins, last_wins.", o.DuplicatePolicy)
	}
	return nil
}

var allowedExtensions = []string{".xlsx", ".xlsm", ".xltm"}

// Importer drives the four sheet passes over one workbook against a
// PlannerStore. It holds no state between runs; the caller owns the
// surrounding transaction and decides commit/rollback from the returned
// summary.
type Importer struct {
	store ports.PlannerStore
}

func New(store ports.PlannerStore) *Importer {
	return &Importer{store: store}
}

// Run imports one workbook and returns the summary of what happened (or, on
// dry run, what would happen). Row-level problems land in the summary; only
// structural input problems return an error.
func (imp *Importer) Run(ctx context.Context, content []byte, filename string, opts Options) (*Summary, error) {
	if !hasAllowedExtension(filename) {
		return nil, badRequest("Upload an .xlsx or .xlsm workbook")
	}
	if len(content) == 0 {
		return nil, badRequest("Uploaded workbook is empty")
	}
	if err := opts.normalize(); err != nil {
		return nil, err
	}

	wb, err := openWorkbook(content)
	if err != nil {
		return nil, badRequest("Could not read workbook: %v", err)
	}
	defer wb.Close()

	t0 := time.Now()
	log.Printf("[IMP][START] file=%q policy=%s validation=%s duplicates=%s dry_run=%v",
		filename, opts.UpsertPolicy, opts.ValidationMode, opts.DuplicatePolicy, opts.DryRun)

	sum := newSummary(filename, opts)
	r := &run{
		store:       imp.store,
		sum:         sum,
		wb:          wb,
		policy:      opts.UpsertPolicy,
		territories: map[string]int64{},
	}

	if err := r.rosterPass(ctx); err != nil {
		return nil, err
	}
	if err := r.detailPass(ctx); err != nil {
		return nil, err
	}

	year, ok := wb.resolveYear(opts.YearOverride)
	if !ok {
		year = time.Now().UTC().Year()
		sum.addWarning(fmt.Sprintf("Calendar year could not be resolved from workbook. Defaulted to %d.", year))
	}
	sum.CalendarYear = year

	if err := r.planGridPass(ctx, year); err != nil {
		return nil, err
	}
	if err := r.productPass(ctx); err != nil {
		return nil, err
	}

	sum.finish()
	log.Printf("[IMP][DONE] file=%q customers=%d/%d/%d stores=%d/%d/%d products=%d/%d/%d entries=%d errors=%d blockers=%d can_apply=%v duration=%s",
		filename,
		sum.CustomersCreated, sum.CustomersUpdated, sum.CustomersSkippedExisting,
		sum.StoresCreated, sum.StoresUpdated, sum.StoresSkippedExisting,
		sum.ProductsCreated, sum.ProductsUpdated, sum.ProductsSkippedExisting,
		sum.PlanEntriesUpserted, sum.ErrorCount, len(sum.Blockers), sum.CanApply, time.Since(t0))
	return sum, nil
}

func hasAllowedExtension(filename string) bool {
	lower := strings.ToLower(filename)
	for _, ext := range allowedExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
