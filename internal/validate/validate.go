// Package validate turns raw scraped records into normalized events,
// dropping anything that fails the ingestion rules.
package validate

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/tayseermbabiker/usa-events-board/internal/dates"
	"github.com/tayseermbabiker/usa-events-board/internal/location"
	"github.com/tayseermbabiker/usa-events-board/internal/models"
)

const (
	maxTitleLen       = 500
	maxDescriptionLen = 5000

	// Grace window for start dates: tolerates timezone skew between the
	// source and the pipeline without admitting genuinely past events.
	staleGrace = 24 * time.Hour
)

// Validator applies the record rules in order; any failure short-circuits
// and the record is dropped with a logged reason. Per-record drops never
// abort a batch.
type Validator struct {
	cities     *location.Resolver
	industries map[string]struct{}
	logger     zerolog.Logger
	now        func() time.Time
}

func New(cities *location.Resolver, industries []string, logger zerolog.Logger) *Validator {
	valid := make(map[string]struct{}, len(industries))
	for _, industry := range industries {
		valid[industry] = struct{}{}
	}
	return &Validator{
		cities:     cities,
		industries: valid,
		logger:     logger,
		now:        time.Now,
	}
}

// Validate normalizes one raw event. ok is false when the record must be
// dropped: missing required fields, unparseable or stale start date, or an
// industry outside the canonical tag set.
func (v *Validator) Validate(raw models.RawEvent) (models.Event, bool) {
	title := strings.TrimSpace(raw.Title)
	if title == "" || strings.TrimSpace(raw.Source) == "" || strings.TrimSpace(raw.SourceEventID) == "" {
		v.warn(raw, "missing required fields")
		return models.Event{}, false
	}

	startDate, ok := dates.Parse(raw.StartDate)
	if !ok {
		v.warn(raw, "unparseable start date")
		return models.Event{}, false
	}

	// The cutoff is date-granular: today minus the grace window, so an
	// event dated yesterday passes no matter the wall-clock time of the run.
	now := v.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if day, ok := dates.Day(startDate); !ok || day.Before(today.Add(-staleGrace)) {
		v.warn(raw, "start date in the past")
		return models.Event{}, false
	}

	city := v.cities.Resolve(raw.City)

	industry := strings.TrimSpace(raw.Industry)
	if _, ok := v.industries[industry]; !ok {
		v.warn(raw, "unclassified industry")
		return models.Event{}, false
	}

	endDate, _ := dates.Parse(raw.EndDate)

	return models.Event{
		Title:           truncate(title, maxTitleLen),
		Description:     truncate(strings.TrimSpace(raw.Description), maxDescriptionLen),
		StartDate:       startDate,
		EndDate:         endDate,
		VenueName:       strings.TrimSpace(raw.VenueName),
		VenueAddress:    strings.TrimSpace(raw.VenueAddress),
		City:            city,
		Organizer:       strings.TrimSpace(raw.Organizer),
		Industry:        industry,
		IsFree:          raw.IsFree,
		RegistrationURL: strings.TrimSpace(raw.RegistrationURL),
		ImageURL:        strings.TrimSpace(raw.ImageURL),
		Source:          strings.TrimSpace(raw.Source),
		SourceEventID:   strings.TrimSpace(raw.SourceEventID),
	}, true
}

func (v *Validator) warn(raw models.RawEvent, reason string) {
	v.logger.Warn().
		Str("source", raw.Source).
		Str("title", raw.Title).
		Str("reason", reason).
		Msg("dropping event")
}

// truncate caps a string at max bytes without splitting a rune.
func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	for max > 0 && !utf8.RuneStart(value[max]) {
		max--
	}
	return strings.TrimSpace(value[:max])
}
