package importer

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Cell values arrive from excelize as raw strings, so every normalizer works
// on text. Numeric cells may surface as "100.0", date-styled cells as Excel
// serials; typed-in dates are parsed against a fixed layout list, day-first
// for the slashed/dashed forms.

func cleanText(v string) string {
	return strings.TrimSpace(strings.ReplaceAll(v, "\u00a0", " "))
}

// cleanCode strips the ".0" tail a numeric cell leaves on a code. A bare zero
// means "no code".
func cleanCode(v string) string {
	raw := cleanText(v)
	if raw == "" {
		return ""
	}
	if strings.HasSuffix(raw, ".0") && isDigits(strings.Replace(raw, ".", "", 1)) {
		raw = raw[:len(raw)-2]
	}
	if raw == "0" {
		return ""
	}
	return raw
}

// extractName handles "combo" label cells like "C100 | Alpha Store": the last
// non-empty pipe segment is the name.
func extractName(v string) string {
	raw := cleanText(v)
	if !strings.Contains(raw, "|") {
		return raw
	}
	parts := make([]string, 0, 2)
	for _, p := range strings.Split(raw, "|") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) >= 2 {
		return parts[len(parts)-1]
	}
	return raw
}

var dateLayouts = []string{"2006-01-02", "02/01/2006", "02-01-2006"}

// toDate parses a date cell: the text layouts first, then an Excel serial
// number. Date-styled cells surface as serials because sheet rows are read
// raw; the year bound keeps small numerics from turning into 1900s dates.
func toDate(v string) *time.Time {
	raw := cleanText(v)
	if raw == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d
		}
	}
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil && validYear(t.Year()) {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d
		}
	}
	return nil
}

var truthyWords = map[string]bool{
	"true": true, "yes": true, "y": true, "1": true,
	"done": true, "completed": true, "x": true,
}

func toBool(v string) bool {
	raw := strings.ToLower(cleanText(v))
	if raw == "" {
		return false
	}
	if truthyWords[raw] {
		return true
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f > 0
	}
	return false
}

// toInt accepts signed digit strings, tolerating the ".0" coercion tail.
func toInt(v string) *int {
	raw := cleanText(v)
	if raw == "" {
		return nil
	}
	if strings.HasSuffix(raw, ".0") {
		raw = raw[:len(raw)-2]
	}
	body := raw
	if strings.HasPrefix(body, "-") || strings.HasPrefix(body, "+") {
		body = body[1:]
	}
	if !isDigits(body) {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
