package importer

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
)

func requestErrorFrom(t *testing.T, err error) *RequestError {
	t.Helper()
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("error = %v, want *RequestError", err)
	}
	return reqErr
}

func TestRunRejectsBadExtension(t *testing.T) {
	_, err := New(newFakeStore()).Run(context.Background(), []byte("x"), "book.csv", Options{})
	reqErr := requestErrorFrom(t, err)
	if reqErr.Status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", reqErr.Status)
	}
	if reqErr.Message != "Upload an .xlsx or .xlsm workbook" {
		t.Fatalf("message = %q", reqErr.Message)
	}
}

func TestRunRejectsEmptyContent(t *testing.T) {
	_, err := New(newFakeStore()).Run(context.Background(), nil, "book.xlsx", Options{})
	reqErr := requestErrorFrom(t, err)
	if reqErr.Message != "Uploaded workbook is empty" {
		t.Fatalf("message = %q", reqErr.Message)
	}
}

func TestRunRejectsCorruptContent(t *testing.T) {
	_, err := New(newFakeStore()).Run(context.Background(), []byte("not a zip"), "book.xlsx", Options{})
	reqErr := requestErrorFrom(t, err)
	if !strings.HasPrefix(reqErr.Message, "Could not read workbook:") {
		t.Fatalf("message = %q", reqErr.Message)
	}
}

func TestRunRejectsInvalidOptions(t *testing.T) {
	content := buildWorkbook(t, []sheetDef{yearSheet(2026)})

	cases := []struct {
		opts Options
		want string
	}{
		{Options{UpsertPolicy: "replace"}, "Invalid upsert policy 'replace'. Allowed: create_only, merge, overwrite."},
		{Options{ValidationMode: "loose"}, "Invalid validation mode 'loose'. Allowed: standard, strict."},
		{Options{DuplicatePolicy: "keep"}, "Invalid duplicate policy 'keep'. Allowed: error, first_wins, last_wins."},
	}
	for _, c := range cases {
		_, err := New(newFakeStore()).Run(context.Background(), content, "book.xlsx", c.opts)
		reqErr := requestErrorFrom(t, err)
		if reqErr.Message != c.want {
			t.Errorf("message = %q, want %q", reqErr.Message, c.want)
		}
	}
}

func TestRunRejectsOutOfRangeYearOverride(t *testing.T) {
	content := buildWorkbook(t, []sheetDef{yearSheet(2026)})

	for _, year := range []int{1999, 2101, -1} {
		_, err := New(newFakeStore()).Run(context.Background(), content, "book.xlsx", Options{YearOverride: year})
		reqErr := requestErrorFrom(t, err)
		if reqErr.Status != http.StatusBadRequest {
			t.Errorf("year %d: status = %d, want 400", year, reqErr.Status)
		}
		if !strings.HasPrefix(reqErr.Message, "Invalid year override") {
			t.Errorf("year %d: message = %q", year, reqErr.Message)
		}
	}
}

func TestRunDefaultsOptions(t *testing.T) {
	content := buildWorkbook(t, []sheetDef{yearSheet(2026)})

	sum, err := New(newFakeStore()).Run(context.Background(), content, "book.xlsx", Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.UpsertPolicy != "merge" || sum.ValidationMode != "standard" || sum.DuplicatePolicy != "last_wins" {
		t.Fatalf("defaults = %s/%s/%s, want merge/standard/last_wins",
			sum.UpsertPolicy, sum.ValidationMode, sum.DuplicatePolicy)
	}
}

func TestRunNormalizesOptionCase(t *testing.T) {
	content := buildWorkbook(t, []sheetDef{yearSheet(2026)})

	sum, err := New(newFakeStore()).Run(context.Background(), content, "book.xlsx", Options{
		UpsertPolicy:    " Overwrite ",
		ValidationMode:  "STRICT",
		DuplicatePolicy: "First_Wins",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.UpsertPolicy != "overwrite" || sum.ValidationMode != "strict" || sum.DuplicatePolicy != "first_wins" {
		t.Fatalf("normalized = %s/%s/%s", sum.UpsertPolicy, sum.ValidationMode, sum.DuplicatePolicy)
	}
}

func TestHasAllowedExtension(t *testing.T) {
	for _, name := range []string{"a.xlsx", "A.XLSM", "b.xltm"} {
		if !hasAllowedExtension(name) {
			t.Errorf("hasAllowedExtension(%q) = false", name)
		}
	}
	for _, name := range []string{"a.csv", "a.xls", "xlsx", ""} {
		if hasAllowedExtension(name) {
			t.Errorf("hasAllowedExtension(%q) = true", name)
		}
	}
}
