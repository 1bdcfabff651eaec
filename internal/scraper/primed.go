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

const primedURL = "https://www.pri-med.com/online-education/conferences"

// PriMed publishes its primary-care CME conference calendar with
// schema.org Event markup, so the structured path does almost all of
// the work here.
type PriMed struct {
	logger zerolog.Logger
}

func NewPriMed(logger zerolog.Logger) *PriMed {
	return &PriMed{logger: logger}
}

func (p *PriMed) Name() string { return SourcePriMed }

func (p *PriMed) Scrape(ctx context.Context, session *browser.Session) ([]models.RawEvent, error) {
	if err := session.Navigate(ctx, primedURL); err != nil {
		return nil, err
	}
	session.Settle(ctx, 3*time.Second)

	doc, err := sessionDocument(session)
	if err != nil {
		return nil, err
	}

	events := p.parseJSONLD(doc)
	if len(events) == 0 {
		events = p.parseCards(doc)
	}
	p.logger.Info().Int("events", len(events)).Msg("parsed conference calendar")
	return events, nil
}

func (p *PriMed) parseJSONLD(doc *goquery.Document) []models.RawEvent {
	var events []models.RawEvent
	for _, obj := range eventObjectsFromJSONLD(doc) {
		raw := rawFromEventObject(obj)
		if raw.Title == "" {
			continue
		}
		raw.Industry = classify.Healthcare
		raw.Source = SourcePriMed
		raw.SourceEventID = sourceID("primed", lastPathSegment(raw.RegistrationURL), raw.Title)
		events = append(events, raw)
	}
	return events
}

func (p *PriMed) parseCards(doc *goquery.Document) []models.RawEvent {
	var events []models.RawEvent
	doc.Find(".conference-card, .event-card, [class*='conference-tile']").Each(func(_ int, card *goquery.Selection) {
		title := cleanText(card.Find("h2, h3, .card-title").First().Text())
		if title == "" {
			return
		}
		link := absoluteURL("https://www.pri-med.com", card.Find("a").First().AttrOr("href", ""))
		date := card.Find("time").First().AttrOr("datetime", "")
		if date == "" {
			date = cleanText(card.Find(".date, .conference-dates").First().Text())
		}
		venue := cleanText(card.Find(".location, .venue").First().Text())

		events = append(events, models.RawEvent{
			Title:           title,
			StartDate:       date,
			VenueName:       venue,
			City:            location.Detect(venue),
			Organizer:       "Pri-Med",
			Industry:        classify.Healthcare,
			RegistrationURL: link,
			Source:          SourcePriMed,
			SourceEventID:   sourceID("primed", lastPathSegment(link), title),
		})
	})
	return events
}
