package importer

import "fmt"

// Each sheet pass keeps its own first-seen map; a key repeated across passes
// is not a duplicate.
type seenKeys map[string]int

// registerDuplicate records the key and decides whether the row proceeds.
// last_wins accepts with a warning, first_wins skips with a warning, error
// skips and blocks the whole run from applying.
func (s *Summary) registerDuplicate(seen seenKeys, key, sheet string, row int, label string) bool {
	firstRow, dup := seen[key]
	if !dup {
		seen[key] = row
		return true
	}

	base := fmt.Sprintf("Duplicate %s key '%s' (first seen at row %d).", label, key, firstRow)

	switch s.DuplicatePolicy {
	case DuplicateFirstWins:
		s.DuplicateRowsSkipped++
		s.recordIssue(levelWarning, sheet, row, base+" Row skipped (first row kept).")
		return false
	case DuplicateError:
		s.DuplicateRowsSkipped++
		s.recordIssue(levelError, sheet, row, base+" Row skipped (duplicate policy = error).")
		s.addBlocker("Duplicate key errors were found with duplicate policy set to 'error'.")
		return false
	default: // last_wins
		s.recordIssue(levelWarning, sheet, row, base+" Last row wins.")
		return true
	}
}

func formatStrictBlocker(errorCount int) string {
	return fmt.Sprintf("Strict validation found %d error(s). Resolve errors before applying import.", errorCount)
}
