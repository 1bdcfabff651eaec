package scraper

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/tayseermbabiker/usa-events-board/internal/browser"
	"github.com/tayseermbabiker/usa-events-board/internal/classify"
	"github.com/tayseermbabiker/usa-events-board/internal/location"
	"github.com/tayseermbabiker/usa-events-board/internal/models"
	"github.com/tayseermbabiker/usa-events-board/internal/validate"
)

type stubScraper struct {
	name   string
	events []models.RawEvent
	err    error
	panics bool
}

func (s *stubScraper) Name() string { return s.name }

func (s *stubScraper) Scrape(context.Context, *browser.Session) ([]models.RawEvent, error) {
	if s.panics {
		panic("selector changed upstream")
	}
	return s.events, s.err
}

func testRunner(t *testing.T) *Runner {
	t.Helper()
	cities := location.NewResolver(
		[]string{"Austin", "New York"},
		map[string]string{"Brooklyn": "New York"},
	)
	return &Runner{
		NewSession: func() (*browser.Session, error) { return nil, nil },
		Validator:  validate.New(cities, classify.Industries, zerolog.Nop()),
		Logger:     zerolog.Nop(),
	}
}

func TestRunnerFiltersInvalid(t *testing.T) {
	runner := testRunner(t)
	scraper := &stubScraper{
		name: "Stub",
		events: []models.RawEvent{
			{
				Title:           "AI Builders Night",
				StartDate:       "2999-06-01",
				City:            "Austin",
				Industry:        classify.AI,
				RegistrationURL: "https://example.com/e/1",
				Source:          "Stub",
				SourceEventID:   "stub-1",
			},
			{Title: "No date, no url", Source: "Stub", SourceEventID: "stub-2"},
		},
	}

	events, stats := runner.Run(context.Background(), scraper)
	if stats.Raw != 2 || stats.Valid != 1 {
		t.Fatalf("stats = %+v, want raw 2 valid 1", stats)
	}
	if len(events) != 1 || events[0].Title != "AI Builders Night" {
		t.Fatalf("events = %+v", events)
	}
}

func TestRunnerSessionFailure(t *testing.T) {
	runner := testRunner(t)
	runner.NewSession = func() (*browser.Session, error) {
		return nil, errors.New("browser did not start")
	}

	events, stats := runner.Run(context.Background(), &stubScraper{name: "Stub"})
	if events != nil {
		t.Fatalf("expected no events, got %v", events)
	}
	if stats.Source != "Stub" || stats.Raw != 0 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestRunnerScrapeError(t *testing.T) {
	runner := testRunner(t)
	scraper := &stubScraper{name: "Stub", err: errors.New("navigation timeout")}

	events, stats := runner.Run(context.Background(), scraper)
	if len(events) != 0 || stats.Raw != 0 || stats.Valid != 0 {
		t.Fatalf("failed source must contribute nothing, got %v %+v", events, stats)
	}
}

func TestRunnerRecoversPanic(t *testing.T) {
	runner := testRunner(t)
	scraper := &stubScraper{name: "Stub", panics: true}

	var events []models.Event
	var stats models.SourceStats
	// Must not propagate the panic.
	events, stats = runner.Run(context.Background(), scraper)
	if events != nil || stats.Raw != 0 {
		t.Fatalf("panicking source must yield empty result, got %v %+v", events, stats)
	}
}
