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

const amsURL = "https://www.americanmedicalseminars.com/live-seminars/"

// AMS lists American Medical Seminars live CME seminars on a single
// page of server-rendered product tiles.
type AMS struct {
	logger zerolog.Logger
}

func NewAMS(logger zerolog.Logger) *AMS {
	return &AMS{logger: logger}
}

func (a *AMS) Name() string { return SourceAMS }

func (a *AMS) Scrape(ctx context.Context, session *browser.Session) ([]models.RawEvent, error) {
	if err := session.Navigate(ctx, amsURL); err != nil {
		return nil, err
	}
	session.Settle(ctx, 2*time.Second)

	doc, err := sessionDocument(session)
	if err != nil {
		return nil, err
	}

	var events []models.RawEvent
	doc.Find(".seminar-item, .product, li.product, .seminar-card").Each(func(_ int, card *goquery.Selection) {
		title := cleanText(card.Find("h2, h3, .woocommerce-loop-product__title").First().Text())
		if title == "" {
			return
		}
		link := absoluteURL("https://www.americanmedicalseminars.com", card.Find("a").First().AttrOr("href", ""))
		date := card.Find("time").First().AttrOr("datetime", "")
		if date == "" {
			date = cleanText(card.Find(".seminar-date, .date").First().Text())
		}
		venue := cleanText(card.Find(".seminar-location, .location").First().Text())

		events = append(events, models.RawEvent{
			Title:           title,
			StartDate:       date,
			VenueName:       venue,
			City:            location.Detect(title + " " + venue),
			Organizer:       "American Medical Seminars",
			Industry:        classify.Healthcare,
			RegistrationURL: link,
			Source:          SourceAMS,
			SourceEventID:   sourceID("ams", lastPathSegment(link), title),
		})
	})
	a.logger.Info().Int("events", len(events)).Msg("parsed seminar listing")

	return events, nil
}
