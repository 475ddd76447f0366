package importer

import (
	"testing"
	"time"
)

func TestCleanText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  Alpha Store  ", "Alpha Store"},
		{"\u00a0Alpha\u00a0", "Alpha"},
		{"", ""},
		{"   ", ""},
	}
	for _, c := range cases {
		if got := cleanText(c.in); got != c.want {
			t.Errorf("cleanText(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCleanCode(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"C100", "C100"},
		{" 100.0 ", "100"},
		{"100.5", "100.5"},
		{"0", ""},
		{"0.0", ""},
		{"", ""},
		{"A.0", "A.0"},
	}
	for _, c := range cases {
		if got := cleanCode(c.in); got != c.want {
			t.Errorf("cleanCode(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestExtractName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"C100 | Alpha Store", "Alpha Store"},
		{"A | B | C", "C"},
		{"Plain Name", "Plain Name"},
		{"| OnlyOne", "| OnlyOne"},
		{"", ""},
	}
	for _, c := range cases {
		if got := extractName(c.in); got != c.want {
			t.Errorf("extractName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestToDate(t *testing.T) {
	want := time.Date(2026, time.January, 20, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2026-01-20", "20/01/2026", "20-01-2026"} {
		got := toDate(in)
		if got == nil || !got.Equal(want) {
			t.Errorf("toDate(%q) = %v, want %v", in, got, want)
		}
	}
	for _, in := range []string{"", "not a date", "13/13/2026"} {
		if got := toDate(in); got != nil {
			t.Errorf("toDate(%q) = %v, want nil", in, got)
		}
	}
}

func TestToDateExcelSerial(t *testing.T) {
	want := time.Date(2026, time.January, 20, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"46042", "46042.25"} {
		got := toDate(in)
		if got == nil || !got.Equal(want) {
			t.Errorf("toDate(%q) = %v, want %v", in, got, want)
		}
	}
	// Small numerics are not dates; a serial that low lands before 2000.
	for _, in := range []string{"3", "2026", "-5"} {
		if got := toDate(in); got != nil {
			t.Errorf("toDate(%q) = %v, want nil", in, got)
		}
	}
}

func TestToBool(t *testing.T) {
	truthy := []string{"true", "Yes", "y", "1", "DONE", "Completed", "x", "2.5"}
	for _, in := range truthy {
		if !toBool(in) {
			t.Errorf("toBool(%q) = false, want true", in)
		}
	}
	falsy := []string{"", "no", "false", "0", "-1", "maybe"}
	for _, in := range falsy {
		if toBool(in) {
			t.Errorf("toBool(%q) = true, want false", in)
		}
	}
}

func TestToInt(t *testing.T) {
	cases := []struct {
		in   string
		want *int
	}{
		{"42", intp(42)},
		{"42.0", intp(42)},
		{"-7", intp(-7)},
		{"", nil},
		{"4.2", nil},
		{"abc", nil},
	}
	for _, c := range cases {
		got := toInt(c.in)
		switch {
		case got == nil && c.want != nil:
			t.Errorf("toInt(%q) = nil, want %d", c.in, *c.want)
		case got != nil && c.want == nil:
			t.Errorf("toInt(%q) = %d, want nil", c.in, *got)
		case got != nil && c.want != nil && *got != *c.want:
			t.Errorf("toInt(%q) = %d, want %d", c.in, *got, *c.want)
		}
	}
}

func intp(n int) *int { return &n }
