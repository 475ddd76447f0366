package importer

import (
	"fmt"
	"testing"
)

func TestRecordIssueCapAndCounters(t *testing.T) {
	sum := newSummary("book.xlsx", Options{ValidationMode: ValidationStandard})

	for i := 0; i < RowIssueLimit+25; i++ {
		sum.recordIssue(levelError, "CVM", i+1, "boom")
	}

	if len(sum.RowIssues) != RowIssueLimit {
		t.Fatalf("stored issues = %d, want %d", len(sum.RowIssues), RowIssueLimit)
	}
	if sum.RowIssuesTruncated != 25 {
		t.Fatalf("truncated = %d, want 25", sum.RowIssuesTruncated)
	}
	// Every issue still counts, stored or not.
	if sum.ErrorCount != RowIssueLimit+25 {
		t.Fatalf("error count = %d, want %d", sum.ErrorCount, RowIssueLimit+25)
	}
}

func TestValidationLevelPerMode(t *testing.T) {
	std := newSummary("b.xlsx", Options{ValidationMode: ValidationStandard})
	if got := std.validationLevel(); got != levelWarning {
		t.Errorf("standard level = %q, want %q", got, levelWarning)
	}
	strict := newSummary("b.xlsx", Options{ValidationMode: ValidationStrict})
	if got := strict.validationLevel(); got != levelError {
		t.Errorf("strict level = %q, want %q", got, levelError)
	}
}

func TestFinishStrictBlocker(t *testing.T) {
	sum := newSummary("b.xlsx", Options{ValidationMode: ValidationStrict})
	sum.recordIssue(levelError, "CVM", 5, "bad date")
	sum.recordIssue(levelError, "CVM", 6, "bad date")
	sum.finish()

	if sum.CanApply {
		t.Fatal("strict run with errors should not be applicable")
	}
	want := "Strict validation found 2 error(s). Resolve errors before applying import."
	if len(sum.Blockers) != 1 || sum.Blockers[0] != want {
		t.Fatalf("blockers = %v, want [%q]", sum.Blockers, want)
	}
}

func TestFinishStandardErrorsStillApply(t *testing.T) {
	sum := newSummary("b.xlsx", Options{ValidationMode: ValidationStandard})
	sum.recordIssue(levelError, "CVM", 5, "missing code")
	sum.finish()

	if !sum.CanApply {
		t.Fatal("standard run with row errors should still be applicable")
	}
}

func TestAddBlockerDedup(t *testing.T) {
	sum := newSummary("b.xlsx", Options{})
	sum.addBlocker("same")
	sum.addBlocker("same")
	if len(sum.Blockers) != 1 {
		t.Fatalf("blockers = %v, want one entry", sum.Blockers)
	}
}

func TestRegisterDuplicateLastWins(t *testing.T) {
	sum := newSummary("b.xlsx", Options{DuplicatePolicy: DuplicateLastWins})
	seen := seenKeys{}

	if !sum.registerDuplicate(seen, "C100", "Get Data - X", 2, "customer") {
		t.Fatal("first occurrence should proceed")
	}
	if !sum.registerDuplicate(seen, "C100", "Get Data - X", 7, "customer") {
		t.Fatal("last_wins duplicate should proceed")
	}
	if sum.WarningCount != 1 {
		t.Fatalf("warning count = %d, want 1", sum.WarningCount)
	}
	want := "Duplicate customer key 'C100' (first seen at row 2). Last row wins."
	if sum.RowIssues[0].Message != want {
		t.Fatalf("message = %q, want %q", sum.RowIssues[0].Message, want)
	}
}

func TestRegisterDuplicateFirstWins(t *testing.T) {
	sum := newSummary("b.xlsx", Options{DuplicatePolicy: DuplicateFirstWins})
	seen := seenKeys{}

	sum.registerDuplicate(seen, "C100", "CVM", 4, "customer")
	if sum.registerDuplicate(seen, "C100", "CVM", 9, "customer") {
		t.Fatal("first_wins duplicate should be skipped")
	}
	if sum.DuplicateRowsSkipped != 1 {
		t.Fatalf("skipped = %d, want 1", sum.DuplicateRowsSkipped)
	}
	sum.finish()
	if !sum.CanApply {
		t.Fatal("first_wins duplicates should not block")
	}
}

func TestRegisterDuplicateErrorBlocks(t *testing.T) {
	sum := newSummary("b.xlsx", Options{DuplicatePolicy: DuplicateError})
	seen := seenKeys{}

	sum.registerDuplicate(seen, "C100", "CVM", 4, "customer")
	if sum.registerDuplicate(seen, "C100", "CVM", 9, "customer") {
		t.Fatal("error-policy duplicate should be skipped")
	}
	sum.finish()

	if sum.CanApply {
		t.Fatal("duplicate policy error must block apply")
	}
	want := "Duplicate key errors were found with duplicate policy set to 'error'."
	found := false
	for _, b := range sum.Blockers {
		if b == want {
			found = true
		}
	}
	if !found {
		t.Fatalf("blockers = %v, want to contain %q", sum.Blockers, want)
	}
}

func TestFormatStrictBlocker(t *testing.T) {
	got := formatStrictBlocker(7)
	want := fmt.Sprintf("Strict validation found %d error(s). Resolve errors before applying import.", 7)
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
