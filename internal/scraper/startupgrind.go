package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"github.com/tayseermbabiker/usa-events-board/internal/browser"
	"github.com/tayseermbabiker/usa-events-board/internal/classify"
	"github.com/tayseermbabiker/usa-events-board/internal/models"
)

// Chapter slugs on startupgrind.com differ from plain city slugs.
var startupGrindChapters = map[string]string{
	"Austin":        "austin",
	"San Francisco": "san-francisco",
	"New York":      "new-york-city",
	"Miami":         "miami",
}

// StartupGrind scrapes local chapter event pages. Chapters embed
// schema.org markup for upcoming events, with DOM cards as backup.
type StartupGrind struct {
	cities []string
	logger zerolog.Logger
}

func NewStartupGrind(cities []string, logger zerolog.Logger) *StartupGrind {
	return &StartupGrind{cities: cities, logger: logger}
}

func (s *StartupGrind) Name() string { return SourceStartupGrind }

func (s *StartupGrind) Scrape(ctx context.Context, session *browser.Session) ([]models.RawEvent, error) {
	var all []models.RawEvent
	seen := map[string]struct{}{}

	for _, city := range s.cities {
		chapter, ok := startupGrindChapters[city]
		if !ok {
			chapter = citySlug(city)
		}
		pageURL := fmt.Sprintf("https://www.startupgrind.com/%s/", chapter)

		if err := session.Navigate(ctx, pageURL); err != nil {
			s.logger.Warn().Err(err).Str("city", city).Msg("chapter failed")
			continue
		}
		session.Settle(ctx, 3*time.Second)

		doc, err := sessionDocument(session)
		if err != nil {
			s.logger.Warn().Err(err).Str("city", city).Msg("read page failed")
			continue
		}

		events := s.parseJSONLD(doc, city)
		if len(events) == 0 {
			events = s.parseCards(doc, city)
		}

		added := 0
		for _, evt := range events {
			if _, dup := seen[evt.SourceEventID]; dup {
				continue
			}
			seen[evt.SourceEventID] = struct{}{}
			all = append(all, evt)
			added++
		}
		s.logger.Info().Str("city", city).Int("events", added).Msg("chapter parsed")
	}

	return all, nil
}

func (s *StartupGrind) parseJSONLD(doc *goquery.Document, city string) []models.RawEvent {
	var events []models.RawEvent
	for _, obj := range eventObjectsFromJSONLD(doc) {
		raw := rawFromEventObject(obj)
		if raw.Title == "" {
			continue
		}
		if raw.City == "" {
			raw.City = city
		}
		if raw.Organizer == "" {
			raw.Organizer = "Startup Grind " + city
		}
		raw.Industry = classify.Classify(raw.Title+" "+raw.Description, classify.Startup)
		raw.Source = SourceStartupGrind
		raw.SourceEventID = sourceID("sg", lastPathSegment(raw.RegistrationURL), raw.Title)
		events = append(events, raw)
	}
	return events
}

func (s *StartupGrind) parseCards(doc *goquery.Document, city string) []models.RawEvent {
	var events []models.RawEvent
	doc.Find(".event-card, [class*='eventCard'], .upcoming-event").Each(func(_ int, card *goquery.Selection) {
		title := cleanText(card.Find("h3, h4, .event-title").First().Text())
		if title == "" {
			return
		}
		link := absoluteURL("https://www.startupgrind.com", card.Find("a").First().AttrOr("href", ""))
		date := card.Find("time").First().AttrOr("datetime", "")
		if date == "" {
			date = cleanText(card.Find(".event-date, .date").First().Text())
		}

		events = append(events, models.RawEvent{
			Title:           title,
			StartDate:       date,
			City:            city,
			Organizer:       "Startup Grind " + city,
			Industry:        classify.Classify(title, classify.Startup),
			RegistrationURL: link,
			Source:          SourceStartupGrind,
			SourceEventID:   sourceID("sg", lastPathSegment(link), title),
		})
	})
	return events
}
