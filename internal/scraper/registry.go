package scraper

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/tayseermbabiker/usa-events-board/internal/config"
)

// Canonical source names, as stored on every event record.
const (
	SourceEventbrite         = "Eventbrite"
	SourceMeetup             = "Meetup"
	SourceLuma               = "Luma"
	SourceEMedEvents         = "EMedEvents"
	SourcePriMed             = "PriMed"
	SourceAMS                = "AMS"
	SourceClio               = "Clio"
	SourceStartupGrind       = "StartupGrind"
	SourceUSChamber          = "USChamber"
	SourceAllConferenceAlert = "AllConferenceAlert"
	SourceLegalWeek          = "LegalWeek"
)

// Order fixes the sequential execution order of a full run.
var Order = []string{
	SourceEventbrite,
	SourceMeetup,
	SourceLuma,
	SourceEMedEvents,
	SourcePriMed,
	SourceAMS,
	SourceClio,
	SourceStartupGrind,
	SourceUSChamber,
	SourceAllConferenceAlert,
	SourceLegalWeek,
}

// Registry builds every known scraper. The config keys used for
// enablement are the lowercased source names.
func Registry(cfg config.Config, logger zerolog.Logger) map[string]Scraper {
	scoped := func(name string) zerolog.Logger {
		return logger.With().Str("source", name).Logger()
	}

	return map[string]Scraper{
		SourceEventbrite:         NewEventbrite(cfg.Cities, scoped(SourceEventbrite)),
		SourceMeetup:             NewMeetup(cfg.Cities, scoped(SourceMeetup)),
		SourceLuma:               NewLuma(cfg.Cities, scoped(SourceLuma)),
		SourceEMedEvents:         NewEMedEvents(cfg.Cities, scoped(SourceEMedEvents)),
		SourcePriMed:             NewPriMed(scoped(SourcePriMed)),
		SourceAMS:                NewAMS(scoped(SourceAMS)),
		SourceClio:               NewClio(scoped(SourceClio)),
		SourceStartupGrind:       NewStartupGrind(cfg.Cities, scoped(SourceStartupGrind)),
		SourceUSChamber:          NewUSChamber(scoped(SourceUSChamber)),
		SourceAllConferenceAlert: NewAllConferenceAlert(cfg.Cities, scoped(SourceAllConferenceAlert)),
		SourceLegalWeek:          NewLegalWeek(scoped(SourceLegalWeek)),
	}
}

// NormalizeNames lowercases and trims a user-supplied source list.
func NormalizeNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		out = append(out, name)
	}
	return out
}
