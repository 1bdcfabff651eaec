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

const emedMaxPages = 3

// EMedEvents lists CME conferences per city. The cards are server
// rendered, with JSON-LD available on some pages, so the structured
// path is tried first and the DOM cards cover the rest.
type EMedEvents struct {
	cities []string
	logger zerolog.Logger
}

func NewEMedEvents(cities []string, logger zerolog.Logger) *EMedEvents {
	return &EMedEvents{cities: cities, logger: logger}
}

func (e *EMedEvents) Name() string { return SourceEMedEvents }

func (e *EMedEvents) Scrape(ctx context.Context, session *browser.Session) ([]models.RawEvent, error) {
	var all []models.RawEvent
	seen := map[string]struct{}{}

	for _, city := range e.cities {
		base := fmt.Sprintf("https://www.emedevents.com/medical-conferences-by-city/%s-medical-conferences", citySlug(city))
		for page := 1; page <= emedMaxPages; page++ {
			pageURL := base
			if page > 1 {
				pageURL = fmt.Sprintf("%s?page=%d", base, page)
			}
			if err := session.Navigate(ctx, pageURL); err != nil {
				e.logger.Warn().Err(err).Str("city", city).Int("page", page).Msg("page failed")
				break
			}
			session.Settle(ctx, 2*time.Second)

			doc, err := sessionDocument(session)
			if err != nil {
				e.logger.Warn().Err(err).Str("city", city).Msg("read page failed")
				break
			}

			events := e.parseJSONLD(doc, city)
			if len(events) == 0 {
				events = e.parseCards(doc, city)
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
			e.logger.Debug().Str("city", city).Int("page", page).Int("events", added).Msg("page parsed")
			if added == 0 {
				break
			}
		}
	}

	return all, nil
}

func (e *EMedEvents) parseJSONLD(doc *goquery.Document, city string) []models.RawEvent {
	var events []models.RawEvent
	for _, obj := range eventObjectsFromJSONLD(doc) {
		raw := rawFromEventObject(obj)
		if raw.Title == "" {
			continue
		}
		if raw.City == "" {
			raw.City = city
		}
		raw.Industry = classify.Classify(raw.Title+" "+raw.Description, classify.Healthcare)
		raw.Source = SourceEMedEvents
		raw.SourceEventID = sourceID("emed", numericID(raw.RegistrationURL), raw.Title)
		events = append(events, raw)
	}
	return events
}

func (e *EMedEvents) parseCards(doc *goquery.Document, city string) []models.RawEvent {
	var events []models.RawEvent
	doc.Find(".card-conference, .conference-card, .event-listing-card").Each(func(_ int, card *goquery.Selection) {
		titleLink := card.Find("h3 a, h4 a, .card-title a").First()
		title := cleanText(titleLink.Text())
		if title == "" {
			return
		}
		link := absoluteURL("https://www.emedevents.com", titleLink.AttrOr("href", ""))
		date := card.Find("time").First().AttrOr("datetime", "")
		if date == "" {
			date = cleanText(card.Find(".date, .conference-date").First().Text())
		}
		venue := cleanText(card.Find(".venue, .location").First().Text())
		specialty := cleanText(card.Find(".specialty, .speciality").First().Text())

		description := ""
		if specialty != "" {
			description = "Specialty: " + specialty
		}

		events = append(events, models.RawEvent{
			Title:           title,
			Description:     description,
			StartDate:       date,
			VenueName:       venue,
			City:            city,
			Industry:        classify.Healthcare,
			RegistrationURL: link,
			Source:          SourceEMedEvents,
			SourceEventID:   sourceID("emed", numericID(link), title),
		})
	})
	return events
}
