package importer

// Validation modes and duplicate policies (upsert policies live in ports).
const (
	ValidationStandard = "standard"
	ValidationStrict   = "strict"

	DuplicateLastWins  = "last_wins"
	DuplicateFirstWins = "first_wins"
	DuplicateError     = "error"
)

// RowIssueLimit caps the stored row issues so a pathological workbook cannot
// balloon the response; overflow is counted instead.
const RowIssueLimit = 300

type RowIssue struct {
	Level   string `json:"level"`
	Sheet   string `json:"sheet"`
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Summary is the one mutable record an import run accumulates into. It is
// returned to the caller and never persisted; the caller commits only when
// CanApply is true and DryRun is false.
type Summary struct {
	Filename        string `json:"filename"`
	DryRun          bool   `json:"dry_run"`
	UpsertPolicy    string `json:"upsert_policy"`
	ValidationMode  string `json:"validation_mode"`
	DuplicatePolicy string `json:"duplicate_policy"`
	CalendarYear    int    `json:"calendar_year"`

	TerritoriesCreated       int `json:"territories_created"`
	CustomersCreated         int `json:"customers_created"`
	CustomersUpdated         int `json:"customers_updated"`
	CustomersSkippedExisting int `json:"customers_skipped_existing"`
	StoresCreated            int `json:"stores_created"`
	StoresUpdated            int `json:"stores_updated"`
	StoresSkippedExisting    int `json:"stores_skipped_existing"`
	ProductsCreated          int `json:"products_created"`
	ProductsUpdated          int `json:"products_updated"`
	ProductsSkippedExisting  int `json:"products_skipped_existing"`
	PlanEntriesUpserted      int `json:"cvm_entries_upserted"`
	PlanEntriesSkipped       int `json:"cvm_entries_skipped_existing"`
	PlanEntriesDeleted       int `json:"cvm_entries_deleted"`

	Warnings     []string `json:"warnings"`
	WarningCount int      `json:"warning_count"`
	ErrorCount   int      `json:"error_count"`

	RowIssues          []RowIssue `json:"row_issues"`
	RowIssueLimit      int        `json:"row_issue_limit"`
	RowIssuesTruncated int        `json:"row_issues_truncated"`

	DuplicateRowsSkipped int `json:"duplicate_rows_skipped"`

	Blockers []string `json:"blockers"`
	CanApply bool     `json:"can_apply"`
}

func newSummary(filename string, opts Options) *Summary {
	return &Summary{
		Filename:        filename,
		DryRun:          opts.DryRun,
		UpsertPolicy:    opts.UpsertPolicy,
		ValidationMode:  opts.ValidationMode,
		DuplicatePolicy: opts.DuplicatePolicy,
		Warnings:        []string{},
		RowIssues:       []RowIssue{},
		RowIssueLimit:   RowIssueLimit,
		Blockers:        []string{},
		CanApply:        true,
	}
}

const (
	levelWarning = "warning"
	levelError   = "error"
)

func (s *Summary) recordIssue(level, sheet string, row int, message string) {
	if len(s.RowIssues) < s.RowIssueLimit {
		s.RowIssues = append(s.RowIssues, RowIssue{Level: level, Sheet: sheet, Row: row, Message: message})
	} else {
		s.RowIssuesTruncated++
	}
	switch level {
	case levelError:
		s.ErrorCount++
	case levelWarning:
		s.WarningCount++
	}
}

// addWarning records a sheet-level finding; it does not consume the row-issue
// cap.
func (s *Summary) addWarning(message string) {
	s.Warnings = append(s.Warnings, message)
	s.WarningCount++
}

// validationLevel is the severity for recoverable conditions: advisory under
// standard mode, blocking under strict.
func (s *Summary) validationLevel() string {
	if s.ValidationMode == ValidationStrict {
		return levelError
	}
	return levelWarning
}

func (s *Summary) addBlocker(message string) {
	for _, b := range s.Blockers {
		if b == message {
			return
		}
	}
	s.Blockers = append(s.Blockers, message)
}

// finish applies the strict-mode aggregate blocker and derives CanApply.
func (s *Summary) finish() {
	if s.ValidationMode == ValidationStrict && s.ErrorCount > 0 {
		s.addBlocker(formatStrictBlocker(s.ErrorCount))
	}
	s.CanApply = len(s.Blockers) == 0
}
