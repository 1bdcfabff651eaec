package location

import "testing"

func newTestResolver() *Resolver {
	return NewResolver(
		[]string{"Austin", "San Francisco", "New York", "Miami"},
		map[string]string{
			"Brooklyn":  "New York",
			"Manhattan": "New York",
			"Oakland":   "San Francisco",
			"San Jose":  "San Francisco",
		},
	)
}

func TestResolve(t *testing.T) {
	r := newTestResolver()

	cases := []struct {
		input string
		want  string
	}{
		{"New York", "New York"},
		{"Brooklyn", "New York"},
		{"Manhattan", "New York"},
		{"Oakland", "San Francisco"},
		{"San Jose", "San Francisco"},
		{"Austin", "Austin"},
		{"  Miami  ", "Miami"},
		{"Tulsa", ""},
		{"new york", ""}, // exact match on the canonical form only
		{"", ""},
	}

	for _, tc := range cases {
		if got := r.Resolve(tc.input); got != tc.want {
			t.Fatalf("Resolve(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestAliasMatchesCanonical(t *testing.T) {
	r := newTestResolver()
	// Aliased boroughs must land on the same canonical value as the metro
	// name itself, so downstream filters treat them identically.
	if r.Resolve("Brooklyn") != r.Resolve("New York") {
		t.Fatal("Brooklyn and New York should resolve identically")
	}
}

func TestDetect(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"Brooklyn, NY", "Brooklyn"},
		{"Downtown Austin convention center", "Austin"},
		{"somewhere in NYC tonight", "New York"},
		{"SF Bay Area", "San Francisco"},
		{"transfer station", ""}, // "sf" requires word boundaries
		{"Miami Beach FL", "Miami"},
		{"Washington DC metro", "Washington DC"},
		{"Lausanne", ""},
		{"", ""},
	}

	for _, tc := range cases {
		if got := Detect(tc.input); got != tc.want {
			t.Fatalf("Detect(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
