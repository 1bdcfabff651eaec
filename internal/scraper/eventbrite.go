package scraper

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"github.com/tayseermbabiker/usa-events-board/internal/browser"
	"github.com/tayseermbabiker/usa-events-board/internal/classify"
	"github.com/tayseermbabiker/usa-events-board/internal/location"
	"github.com/tayseermbabiker/usa-events-board/internal/models"
)

const eventbriteMaxPages = 5

// Casual/consumer events that dilute a professional listing. Matched
// against titles after extraction.
var eventbriteSkip = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bopen mic\b`),
	regexp.MustCompile(`(?i)\bkaraoke\b`),
	regexp.MustCompile(`(?i)\bpub quiz\b`),
	regexp.MustCompile(`(?i)\bbar crawl\b`),
	regexp.MustCompile(`(?i)\bspeed dating\b`),
	regexp.MustCompile(`(?i)\bdating\b`),
	regexp.MustCompile(`(?i)\bsingles\b`),
	regexp.MustCompile(`(?i)\byoga\b`),
	regexp.MustCompile(`(?i)\bpilates\b`),
	regexp.MustCompile(`(?i)\bzumba\b`),
	regexp.MustCompile(`(?i)\bmeditation\b`),
	regexp.MustCompile(`(?i)\bbrunch\b`),
	regexp.MustCompile(`(?i)\bfood tour\b`),
	regexp.MustCompile(`(?i)\bcooking class\b`),
	regexp.MustCompile(`(?i)\bbook club\b`),
	regexp.MustCompile(`(?i)\bpaint\s*(and|&|n)\s*sip\b`),
	regexp.MustCompile(`(?i)\bcity tour\b`),
	regexp.MustCompile(`(?i)\bboat\s*(party|cruise)\b`),
	regexp.MustCompile(`(?i)\bparty\b`),
	regexp.MustCompile(`(?i)\bnight\s*out\b`),
	regexp.MustCompile(`(?i)\bhappy hour\b`),
	regexp.MustCompile(`(?i)\bkids\b`),
	regexp.MustCompile(`(?i)\bchildren\b`),
	regexp.MustCompile(`(?i)\bfamily fun\b`),
}

// Eventbrite scrapes the per-city business-events search, preferring the
// JSON-LD blocks the result pages embed and falling back to card markup.
type Eventbrite struct {
	cities []string
	logger zerolog.Logger
}

func NewEventbrite(cities []string, logger zerolog.Logger) *Eventbrite {
	return &Eventbrite{cities: cities, logger: logger}
}

func (e *Eventbrite) Name() string { return SourceEventbrite }

func (e *Eventbrite) Scrape(ctx context.Context, session *browser.Session) ([]models.RawEvent, error) {
	var events []models.RawEvent

	for _, city := range e.cities {
		base := fmt.Sprintf("https://www.eventbrite.com/d/%s/business--events/", citySlug(city))
		e.logger.Info().Str("city", city).Msg("scraping city")

		for page := 1; page <= eventbriteMaxPages; page++ {
			pageURL := base
			if page > 1 {
				pageURL = fmt.Sprintf("%s?page=%d", base, page)
			}

			if err := session.Navigate(ctx, pageURL); err != nil {
				e.logger.Warn().Err(err).Int("page", page).Msg("page failed")
				break
			}
			session.Settle(ctx, 2*time.Second)

			doc, err := sessionDocument(session)
			if err != nil {
				e.logger.Warn().Err(err).Int("page", page).Msg("read page failed")
				break
			}

			pageEvents := e.parseJSONLD(doc)
			if len(pageEvents) == 0 {
				pageEvents = e.parseCards(doc)
			}
			e.logger.Debug().Int("page", page).Int("events", len(pageEvents)).Msg("page parsed")
			events = append(events, pageEvents...)

			if doc.Find(`[data-testid="pagination-next"]`).Length() == 0 {
				break
			}
		}
	}

	return e.filter(events), nil
}

func (e *Eventbrite) parseJSONLD(doc *goquery.Document) []models.RawEvent {
	var events []models.RawEvent

	for _, obj := range eventObjectsFromJSONLD(doc) {
		raw := rawFromEventObject(obj)
		if raw.Title == "" {
			continue
		}
		raw.Source = SourceEventbrite
		raw.SourceEventID = sourceID("eb", numericID(raw.RegistrationURL), raw.Title)
		raw.Industry = classify.Classify(raw.Title+" "+raw.Description, "")
		events = append(events, raw)
	}

	return events
}

func (e *Eventbrite) parseCards(doc *goquery.Document) []models.RawEvent {
	var events []models.RawEvent
	seen := map[string]struct{}{}

	doc.Find(`[data-testid="event-card"], .search-event-card-wrapper, .eds-event-card-content`).
		Each(func(_ int, card *goquery.Selection) {
			title := cleanText(card.Find(`h2, h3, [data-testid="event-card-title"]`).First().Text())
			link := card.Find(`a[href*="/e/"]`).First().AttrOr("href", "")
			if title == "" || link == "" {
				return
			}
			link = absoluteURL("https://www.eventbrite.com", link)
			if _, ok := seen[link]; ok {
				return
			}
			seen[link] = struct{}{}

			dateText := cleanText(card.Find(`p, [data-testid="event-card-date"]`).First().Text())
			img := card.Find("img").First().AttrOr("src", "")

			events = append(events, models.RawEvent{
				Title:           title,
				StartDate:       dateText,
				City:            location.Detect(card.Text()),
				Industry:        classify.Classify(title, ""),
				IsFree:          freeText.MatchString(title),
				RegistrationURL: link,
				ImageURL:        img,
				Source:          SourceEventbrite,
				SourceEventID:   sourceID("eb", numericID(link), title),
			})
		})

	return events
}

// filter keeps paid professional events only: free listings and casual
// title patterns are removed before validation.
func (e *Eventbrite) filter(events []models.RawEvent) []models.RawEvent {
	kept := make([]models.RawEvent, 0, len(events))
	for _, evt := range events {
		if evt.IsFree {
			e.logger.Debug().Str("title", evt.Title).Msg("skipping free event")
			continue
		}
		if matchesAny(eventbriteSkip, evt.Title) {
			e.logger.Debug().Str("title", evt.Title).Msg("skipping casual event")
			continue
		}
		kept = append(kept, evt)
	}
	e.logger.Info().Int("kept", len(kept)).Int("removed", len(events)-len(kept)).Msg("filtered events")
	return kept
}

func matchesAny(patterns []*regexp.Regexp, value string) bool {
	for _, p := range patterns {
		if p.MatchString(value) {
			return true
		}
	}
	return false
}

// sessionDocument parses the session's rendered HTML with goquery.
func sessionDocument(session *browser.Session) (*goquery.Document, error) {
	raw, err := session.HTML()
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(raw))
}
