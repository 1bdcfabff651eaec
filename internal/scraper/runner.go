package scraper

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/tayseermbabiker/usa-events-board/internal/browser"
	"github.com/tayseermbabiker/usa-events-board/internal/models"
	"github.com/tayseermbabiker/usa-events-board/internal/validate"
)

// SessionFactory acquires a configured browser session for one source run.
type SessionFactory func() (*browser.Session, error)

// Runner drives one source end to end: session acquisition, extraction,
// validation. One failing source must never abort the overall ingestion
// run, so Run never propagates an error — a broken source yields an empty
// slice and the failure is logged.
type Runner struct {
	NewSession SessionFactory
	Validator  *validate.Validator
	Logger     zerolog.Logger
}

// Run executes one source. The returned slice holds only validated events;
// it is empty on total failure.
func (r *Runner) Run(ctx context.Context, s Scraper) ([]models.Event, models.SourceStats) {
	stats := models.SourceStats{Source: s.Name()}
	logger := r.Logger.With().Str("source", s.Name()).Logger()

	raw, err := r.scrape(ctx, s)
	if err != nil {
		logger.Error().Err(err).Msg("source run failed")
		return nil, stats
	}
	stats.Raw = len(raw)
	logger.Info().Int("raw", stats.Raw).Msg("raw events scraped")

	valid := make([]models.Event, 0, len(raw))
	for _, item := range raw {
		if evt, ok := r.Validator.Validate(item); ok {
			valid = append(valid, evt)
		}
	}
	stats.Valid = len(valid)
	logger.Info().Int("valid", stats.Valid).Msg("valid events after filtering")

	return valid, stats
}

// scrape guarantees session release and converts panics into errors so no
// failure mode escapes the per-source boundary.
func (r *Runner) scrape(ctx context.Context, s Scraper) (raw []models.RawEvent, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			raw = nil
			err = fmt.Errorf("scrape panicked: %v", rec)
		}
	}()

	session, err := r.NewSession()
	if err != nil {
		return nil, fmt.Errorf("acquire session: %w", err)
	}
	defer session.Close()

	return s.Scrape(ctx, session)
}
