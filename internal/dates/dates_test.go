package dates

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		input string
		want  string
		ok    bool
	}{
		{"2026-03-15", "2026-03-15", true},
		{"2026-03-15T00:00:00Z", "2026-03-15", true},
		{"2026-03-15T18:30:00-05:00", "2026-03-15", true},
		{"2026-03-15T18:30:00", "2026-03-15", true},
		{"March 15, 2026", "2026-03-15", true},
		{"Mar 5, 2026", "2026-03-05", true},
		{"5 March 2026", "2026-03-05", true},
		{"05 Mar 2026", "2026-03-05", true},
		{"2026/03/15", "2026-03-15", true},
		{"03/15/2026", "2026-03-15", true},
		{"  2026-03-15  ", "2026-03-15", true},
		{"", "", false},
		{"   ", "", false},
		{"tomorrow evening", "", false},
		{"15th-ish of March", "", false},
	}

	for _, tc := range cases {
		got, ok := Parse(tc.input)
		if ok != tc.ok {
			t.Fatalf("Parse(%q) ok = %v, want %v", tc.input, ok, tc.ok)
		}
		if got != tc.want {
			t.Fatalf("Parse(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestDay(t *testing.T) {
	ts, ok := Day("2026-03-15")
	if !ok {
		t.Fatal("expected canonical date to round-trip")
	}
	if ts.Year() != 2026 || ts.Month() != 3 || ts.Day() != 15 {
		t.Fatalf("unexpected time: %v", ts)
	}

	if _, ok := Day("not a date"); ok {
		t.Fatal("expected failure for garbage input")
	}
}
