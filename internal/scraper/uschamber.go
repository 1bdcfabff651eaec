package scraper

import (
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"github.com/tayseermbabiker/usa-events-board/internal/browser"
	"github.com/tayseermbabiker/usa-events-board/internal/classify"
	"github.com/tayseermbabiker/usa-events-board/internal/location"
	"github.com/tayseermbabiker/usa-events-board/internal/models"
)

const uschamberURL = "https://www.uschamber.com/events"

// USChamber scrapes the U.S. Chamber of Commerce events calendar, a
// single server-rendered listing of mixed virtual and in-person events.
type USChamber struct {
	logger zerolog.Logger
}

func NewUSChamber(logger zerolog.Logger) *USChamber {
	return &USChamber{logger: logger}
}

func (u *USChamber) Name() string { return SourceUSChamber }

func (u *USChamber) Scrape(ctx context.Context, session *browser.Session) ([]models.RawEvent, error) {
	if err := session.Navigate(ctx, uschamberURL); err != nil {
		return nil, err
	}
	session.Settle(ctx, 3*time.Second)

	doc, err := sessionDocument(session)
	if err != nil {
		return nil, err
	}

	events := u.parseJSONLD(doc)
	if len(events) == 0 {
		events = u.parseCards(doc)
	}
	u.logger.Info().Int("events", len(events)).Msg("parsed events calendar")
	return events, nil
}

func (u *USChamber) parseJSONLD(doc *goquery.Document) []models.RawEvent {
	var events []models.RawEvent
	for _, obj := range eventObjectsFromJSONLD(doc) {
		raw := rawFromEventObject(obj)
		if raw.Title == "" {
			continue
		}
		if raw.Organizer == "" {
			raw.Organizer = "U.S. Chamber of Commerce"
		}
		raw.Industry = classify.Classify(raw.Title+" "+raw.Description, classify.General)
		raw.Source = SourceUSChamber
		raw.SourceEventID = sourceID("uschamber", lastPathSegment(raw.RegistrationURL), raw.Title)
		events = append(events, raw)
	}
	return events
}

func (u *USChamber) parseCards(doc *goquery.Document) []models.RawEvent {
	var events []models.RawEvent
	doc.Find("article, .event-card, [class*='event-teaser']").Each(func(_ int, card *goquery.Selection) {
		titleLink := card.Find("h2 a, h3 a, .event-title a").First()
		title := cleanText(titleLink.Text())
		if title == "" {
			return
		}
		link := absoluteURL("https://www.uschamber.com", titleLink.AttrOr("href", ""))
		date := card.Find("time").First().AttrOr("datetime", "")
		if date == "" {
			date = cleanText(card.Find(".date, .event-date").First().Text())
		}
		venue := cleanText(card.Find(".location, .event-location").First().Text())

		events = append(events, models.RawEvent{
			Title:           title,
			StartDate:       date,
			VenueName:       venue,
			City:            location.Detect(venue),
			Organizer:       "U.S. Chamber of Commerce",
			Industry:        classify.Classify(title, classify.General),
			RegistrationURL: link,
			Source:          SourceUSChamber,
			SourceEventID:   sourceID("uschamber", lastPathSegment(link), title),
		})
	})
	return events
}
