package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"github.com/tayseermbabiker/usa-events-board/internal/browser"
	"github.com/tayseermbabiker/usa-events-board/internal/classify"
	"github.com/tayseermbabiker/usa-events-board/internal/models"
)

// AllConferenceAlert scrapes the per-city academic/business conference
// listings. The pages render server-side into card markup, so this is a
// DOM-only source.
type AllConferenceAlert struct {
	cities []string
	logger zerolog.Logger
}

func NewAllConferenceAlert(cities []string, logger zerolog.Logger) *AllConferenceAlert {
	return &AllConferenceAlert{cities: cities, logger: logger}
}

func (a *AllConferenceAlert) Name() string { return SourceAllConferenceAlert }

func (a *AllConferenceAlert) Scrape(ctx context.Context, session *browser.Session) ([]models.RawEvent, error) {
	var all []models.RawEvent
	seen := map[string]struct{}{}

	for _, city := range a.cities {
		pageURL := fmt.Sprintf("https://www.allconferencealert.com/%s.html", citySlug(city))
		a.logger.Info().Str("city", city).Msg("scraping city")

		// The listing is filled in by a client-side API call after load.
		if err := session.Navigate(ctx, pageURL); err != nil {
			a.logger.Warn().Err(err).Str("city", city).Msg("city failed")
			continue
		}
		session.Settle(ctx, 4*time.Second)

		doc, err := sessionDocument(session)
		if err != nil {
			a.logger.Warn().Err(err).Str("city", city).Msg("read page failed")
			continue
		}

		count := 0
		doc.Find(".bg-white.mb-4").Each(func(_ int, card *goquery.Selection) {
			evt, ok := a.parseCard(card, city)
			if !ok {
				return
			}
			if _, dup := seen[evt.Title]; dup {
				return
			}
			seen[evt.Title] = struct{}{}
			all = append(all, evt)
			count++
		})
		a.logger.Info().Str("city", city).Int("events", count).Msg("city parsed")
	}

	return all, nil
}

func (a *AllConferenceAlert) parseCard(card *goquery.Selection, city string) (models.RawEvent, bool) {
	titleLink := card.Find("h3 a, .event-name a").First()
	title := cleanText(titleLink.Text())
	if title == "" {
		return models.RawEvent{}, false
	}
	link := absoluteURL("https://www.allconferencealert.com", titleLink.AttrOr("href", ""))

	date := card.Find(`time[itemprop="startDate"]`).First().AttrOr("datetime", "")

	var venue, topic string
	card.Find("span.inline-flex").Each(func(_ int, span *goquery.Selection) {
		text := cleanText(span.Text())
		switch {
		case span.Find(".fa-map-marker-alt").Length() > 0:
			venue = text
		case span.Find(".fa-calendar-alt").Length() > 0:
			if date == "" {
				date = text
			}
		case span.Find(".fa-book-bookmark").Length() > 0:
			topic = text
		}
	})

	description := ""
	if topic != "" {
		description = "Topic: " + topic
	}

	id := strings.TrimSuffix(lastPathSegment(link), ".html")

	return models.RawEvent{
		Title:           title,
		Description:     description,
		StartDate:       date,
		VenueAddress:    venue,
		City:            city,
		Industry:        classify.Classify(title+" "+topic, ""),
		RegistrationURL: link,
		Source:          SourceAllConferenceAlert,
		SourceEventID:   sourceID("aca", id, title),
	}, true
}
