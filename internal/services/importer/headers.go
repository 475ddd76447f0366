package importer

import "strings"

// Workbooks in the wild rename, reorder and insert columns. Every sheet read
// goes through a columnMap built from the sheet's own header row: exact match
// on the normalized label first, then the legacy positional layout as a
// fallback. Row reads never index raw positions directly.

var monthShort = [12]string{"JAN", "FEB", "MAR", "APR", "MAY", "JUN", "JUL", "AUG", "SEP", "OCT", "NOV", "DEC"}

// normalizeHeader upper-cases, turns _-/ separators into spaces, drops every
// other non-alphanumeric rune and collapses runs of whitespace.
func normalizeHeader(s string) string {
	s = strings.ToUpper(cleanText(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z' || r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '_' || r == '-' || r == '/' || r == ' ':
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

type fieldSpec struct {
	field    string
	labels   []string
	fallback int // 0-based legacy column, -1 when there is none
}

// columnMap maps semantic field names to 0-based column indexes.
type columnMap map[string]int

func resolveColumns(header []string, specs []fieldSpec) columnMap {
	byLabel := make(map[string]int, len(header))
	for i, h := range header {
		key := normalizeHeader(h)
		if key == "" {
			continue
		}
		if _, ok := byLabel[key]; !ok {
			byLabel[key] = i
		}
	}

	cols := make(columnMap, len(specs))
	for _, spec := range specs {
		col := spec.fallback
		for _, label := range spec.labels {
			if i, ok := byLabel[normalizeHeader(label)]; ok {
				col = i
				break
			}
		}
		if col >= 0 {
			cols[spec.field] = col
		}
	}
	return cols
}

func (c columnMap) cell(row []string, field string) string {
	i, ok := c[field]
	if !ok || i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// planGridBaseCol is where the legacy layout puts PLANNED JAN; each further
// month sits two columns along.
const planGridBaseCol = 10

type monthColumns struct {
	planned   int
	completed int
}

var completedLabels = []string{"COMPLETED", "COMPLETE", "DONE"}

// resolveMonthColumns finds the twelve planned/completed column pairs. Each
// month is resolved independently so a single renamed pair does not shift the
// rest; months with no matching header fall back to the fixed two-column
// stride.
func resolveMonthColumns(header []string) [12]monthColumns {
	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = normalizeHeader(h)
	}

	find := func(wanted ...string) int {
		for i, h := range normalized {
			for _, w := range wanted {
				if h == w {
					return i
				}
			}
		}
		return -1
	}

	var out [12]monthColumns
	for m := 0; m < 12; m++ {
		planned := find("PLANNED " + monthShort[m])
		if planned < 0 {
			planned = planGridBaseCol + m*2
		}
		completedCandidates := make([]string, 0, len(completedLabels))
		for _, label := range completedLabels {
			completedCandidates = append(completedCandidates, label+" "+monthShort[m])
		}
		completed := find(completedCandidates...)
		if completed < 0 {
			completed = planned + 1
		}
		out[m] = monthColumns{planned: planned, completed: completed}
	}
	return out
}

func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
