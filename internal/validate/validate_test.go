package validate

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/tayseermbabiker/usa-events-board/internal/location"
	"github.com/tayseermbabiker/usa-events-board/internal/models"
)

var testIndustries = []string{
	"Technology", "AI", "Startup", "Finance", "Marketing",
	"Healthcare", "Legal", "General",
}

func newTestValidator() *Validator {
	cities := location.NewResolver(
		[]string{"Austin", "San Francisco", "New York", "Miami"},
		map[string]string{"Brooklyn": "New York"},
	)
	v := New(cities, testIndustries, zerolog.Nop())
	v.now = func() time.Time {
		return time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	}
	return v
}

func validRaw() models.RawEvent {
	return models.RawEvent{
		Title:         "AI Founders Breakfast",
		Description:   "Networking breakfast for AI startup founders",
		StartDate:     "2026-02-18",
		City:          "Brooklyn",
		Industry:      "AI",
		Source:        "Luma",
		SourceEventID: "luma-abc123",
	}
}

func TestValidateAccepts(t *testing.T) {
	v := newTestValidator()

	evt, ok := v.Validate(validRaw())
	if !ok {
		t.Fatal("expected event to validate")
	}
	if evt.StartDate != "2026-02-18" {
		t.Fatalf("unexpected start date %q", evt.StartDate)
	}
	if evt.City != "New York" {
		t.Fatalf("expected aliased city New York, got %q", evt.City)
	}
	if evt.Industry != "AI" {
		t.Fatalf("unexpected industry %q", evt.Industry)
	}
	if evt.IsFree {
		t.Fatal("is_free should default false")
	}
}

func TestValidateRequiredFields(t *testing.T) {
	v := newTestValidator()

	cases := []func(*models.RawEvent){
		func(r *models.RawEvent) { r.Title = "" },
		func(r *models.RawEvent) { r.Title = "   " },
		func(r *models.RawEvent) { r.Source = "" },
		func(r *models.RawEvent) { r.SourceEventID = "" },
	}

	for i, mutate := range cases {
		raw := validRaw()
		mutate(&raw)
		if _, ok := v.Validate(raw); ok {
			t.Fatalf("case %d: expected drop for missing required field", i)
		}
	}
}

func TestValidateDates(t *testing.T) {
	v := newTestValidator()

	raw := validRaw()
	raw.StartDate = "sometime soon"
	if _, ok := v.Validate(raw); ok {
		t.Fatal("expected drop for unparseable date")
	}

	raw = validRaw()
	raw.StartDate = "2020-01-01"
	if _, ok := v.Validate(raw); ok {
		t.Fatal("expected drop for stale date")
	}

	// Within the 1-day grace window: yesterday relative to the fixed now.
	raw = validRaw()
	raw.StartDate = "2026-01-31"
	if _, ok := v.Validate(raw); !ok {
		t.Fatal("expected yesterday to pass the grace window")
	}

	// Just outside it.
	raw = validRaw()
	raw.StartDate = "2026-01-30"
	if _, ok := v.Validate(raw); ok {
		t.Fatal("expected two days ago to be dropped")
	}

	// Time components are stripped from both dates.
	raw = validRaw()
	raw.StartDate = "2026-03-15T00:00:00Z"
	raw.EndDate = "2026-03-16T09:00:00-05:00"
	evt, ok := v.Validate(raw)
	if !ok {
		t.Fatal("expected event to validate")
	}
	if evt.StartDate != "2026-03-15" || evt.EndDate != "2026-03-16" {
		t.Fatalf("expected stripped dates, got %q / %q", evt.StartDate, evt.EndDate)
	}

	// A bad end date means "no end date", not a drop.
	raw = validRaw()
	raw.EndDate = "TBD"
	evt, ok = v.Validate(raw)
	if !ok || evt.EndDate != "" {
		t.Fatalf("expected empty end date, got %q (ok=%v)", evt.EndDate, ok)
	}
}

func TestValidateGraceWindowIgnoresTimeOfDay(t *testing.T) {
	v := newTestValidator()

	// Yesterday stays valid right up to the end of today.
	for _, hour := range []int{0, 12, 23} {
		v.now = func() time.Time {
			return time.Date(2026, 2, 1, hour, 59, 0, 0, time.UTC)
		}

		raw := validRaw()
		raw.StartDate = "2026-01-31"
		if _, ok := v.Validate(raw); !ok {
			t.Fatalf("hour %d: yesterday must pass the grace window", hour)
		}

		raw.StartDate = "2026-01-30"
		if _, ok := v.Validate(raw); ok {
			t.Fatalf("hour %d: two days ago must be dropped", hour)
		}
	}
}

func TestValidateIndustryGate(t *testing.T) {
	v := newTestValidator()

	raw := validRaw()
	raw.Industry = "Gastronomy"
	if _, ok := v.Validate(raw); ok {
		t.Fatal("expected drop for unknown industry")
	}

	raw.Industry = ""
	if _, ok := v.Validate(raw); ok {
		t.Fatal("expected drop for empty industry")
	}
}

func TestValidateCityUnresolvedIsNotFatal(t *testing.T) {
	v := newTestValidator()

	raw := validRaw()
	raw.City = "Reykjavik"
	evt, ok := v.Validate(raw)
	if !ok {
		t.Fatal("unresolved city should not drop the record")
	}
	if evt.City != "" {
		t.Fatalf("expected empty city, got %q", evt.City)
	}
}

func TestValidateTruncation(t *testing.T) {
	v := newTestValidator()

	raw := validRaw()
	raw.Title = strings.Repeat("t", 600)
	raw.Description = strings.Repeat("d", 6000)

	evt, ok := v.Validate(raw)
	if !ok {
		t.Fatal("expected event to validate")
	}
	if len(evt.Title) != 500 {
		t.Fatalf("expected title truncated to 500, got %d", len(evt.Title))
	}
	if len(evt.Description) != 5000 {
		t.Fatalf("expected description truncated to 5000, got %d", len(evt.Description))
	}
}

func TestValidateTruncationKeepsRunesIntact(t *testing.T) {
	v := newTestValidator()

	// 3-byte runes that do not divide the 500-byte cap evenly.
	raw := validRaw()
	raw.Title = strings.Repeat("日", 200)

	evt, ok := v.Validate(raw)
	if !ok {
		t.Fatal("expected event to validate")
	}
	if !utf8.ValidString(evt.Title) {
		t.Fatal("truncated title contains a split rune")
	}
	if len(evt.Title) > 500 {
		t.Fatalf("title is %d bytes, cap is 500", len(evt.Title))
	}
	if got := utf8.RuneCountInString(evt.Title); got != 166 {
		t.Fatalf("expected 166 whole runes, got %d", got)
	}
}
