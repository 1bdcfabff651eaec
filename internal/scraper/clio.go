package scraper

import (
	"context"
	"regexp"
	"time"

	"github.com/rs/zerolog"
	"github.com/tayseermbabiker/usa-events-board/internal/browser"
	"github.com/tayseermbabiker/usa-events-board/internal/classify"
	"github.com/tayseermbabiker/usa-events-board/internal/dates"
	"github.com/tayseermbabiker/usa-events-board/internal/location"
	"github.com/tayseermbabiker/usa-events-board/internal/models"
)

const clioURL = "https://www.clio.com/cloud-conference/"

var clioYear = regexp.MustCompile(`20\d{2}`)

// Clio covers the annual Clio Cloud Conference. Like Legalweek it is a
// single-event page, preferring JSON-LD and falling back to page text.
type Clio struct {
	logger zerolog.Logger
}

func NewClio(logger zerolog.Logger) *Clio {
	return &Clio{logger: logger}
}

func (c *Clio) Name() string { return SourceClio }

func (c *Clio) Scrape(ctx context.Context, session *browser.Session) ([]models.RawEvent, error) {
	if err := session.Navigate(ctx, clioURL); err != nil {
		return nil, err
	}
	session.Settle(ctx, 3*time.Second)

	doc, err := sessionDocument(session)
	if err != nil {
		return nil, err
	}

	raw := models.RawEvent{
		Title:           "Clio Cloud Conference",
		Organizer:       "Clio",
		Industry:        classify.Legal,
		RegistrationURL: clioURL,
		Source:          SourceClio,
	}

	for _, obj := range eventObjectsFromJSONLD(doc) {
		parsed := rawFromEventObject(obj)
		if parsed.Title == "" || parsed.StartDate == "" {
			continue
		}
		parsed.Organizer = "Clio"
		parsed.Industry = classify.Legal
		parsed.Source = SourceClio
		if parsed.RegistrationURL == "" {
			parsed.RegistrationURL = clioURL
		}
		raw = parsed
		break
	}

	if raw.StartDate == "" {
		// The hero headline carries the dates as plain text.
		body := doc.Find("body").Text()
		if canonical, ok := dates.Parse(firstDateText(body)); ok {
			raw.StartDate = canonical
		}
	}
	if raw.City == "" {
		raw.City = location.Detect(doc.Find("body").Text())
	}

	year := clioYear.FindString(raw.StartDate)
	if year == "" {
		year = clioYear.FindString(raw.Title)
	}
	if year == "" {
		year = time.Now().Format("2006")
	}
	raw.SourceEventID = "clio-" + year

	c.logger.Info().Str("start", raw.StartDate).Str("city", raw.City).Msg("parsed conference page")
	return []models.RawEvent{raw}, nil
}

var clioDateText = regexp.MustCompile(`(?i)(January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2}(?:\s*[-–]\s*\d{1,2})?,?\s*20\d{2}`)

func firstDateText(body string) string {
	match := clioDateText.FindString(body)
	if match == "" {
		return ""
	}
	// Ranges like "October 9-10, 2026" parse from the first day.
	return regexp.MustCompile(`\s*[-–]\s*\d{1,2}`).ReplaceAllString(match, "")
}
