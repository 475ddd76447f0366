package importer

import (
	"bytes"
	"strings"

	"github.com/xuri/excelize/v2"
)

var monthSheetNames = [12]string{
	"JANUARY", "FEBRUARY", "MARCH", "APRIL", "MAY", "JUNE",
	"JULY", "AUGUST", "SEPTEMBER", "OCTOBER", "NOVEMBER", "DECEMBER",
}

// yearCellRef is where the month-named calendar sheets carry the reporting
// year.
const yearCellRef = "R4"

type workbook struct {
	f *excelize.File
}

func openWorkbook(content []byte) (*workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	return &workbook{f: f}, nil
}

func (w *workbook) Close() error { return w.f.Close() }

// sheetByPrefix returns the first sheet whose trimmed name starts with prefix,
// case-insensitively.
func (w *workbook) sheetByPrefix(prefix string) (string, bool) {
	target := strings.ToLower(strings.TrimSpace(prefix))
	for _, name := range w.f.GetSheetList() {
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(name)), target) {
			return name, true
		}
	}
	return "", false
}

func (w *workbook) sheetByExact(wanted string) (string, bool) {
	target := strings.ToLower(strings.TrimSpace(wanted))
	for _, name := range w.f.GetSheetList() {
		if strings.ToLower(strings.TrimSpace(name)) == target {
			return name, true
		}
	}
	return "", false
}

// rows reads a sheet with raw cell values so date-styled cells keep their
// serial number instead of the display format, which toDate converts.
func (w *workbook) rows(sheet string) ([][]string, error) {
	return w.f.GetRows(sheet, excelize.Options{RawCellValue: true})
}

func (w *workbook) cellValue(sheet, ref string) string {
	v, err := w.f.GetCellValue(sheet, ref, excelize.Options{RawCellValue: true})
	if err != nil {
		return ""
	}
	return v
}

func validYear(year int) bool { return year >= 2000 && year <= 2100 }

// resolveYear finds the reporting year: the caller's override first, then the
// month-named sheets in calendar order, then any other sheet exposing a
// numeric year cell. Returns false when nothing resolves.
func (w *workbook) resolveYear(override int) (int, bool) {
	if validYear(override) {
		return override, true
	}

	monthSheets := make(map[string]bool, 12)
	for _, monthName := range monthSheetNames {
		name, ok := w.sheetByExact(monthName)
		if !ok {
			continue
		}
		monthSheets[name] = true
		if year := w.yearAt(name); validYear(year) {
			return year, true
		}
	}

	for _, name := range w.f.GetSheetList() {
		if monthSheets[name] {
			continue
		}
		if year := w.yearAt(name); validYear(year) {
			return year, true
		}
	}
	return 0, false
}

func (w *workbook) yearAt(sheet string) int {
	if n := toInt(w.cellValue(sheet, yearCellRef)); n != nil {
		return *n
	}
	return 0
}

func isRowPopulated(row []string) bool {
	for _, v := range row {
		if cleanText(v) != "" {
			return true
		}
	}
	return false
}
