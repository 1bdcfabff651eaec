package scraper

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog"
	"github.com/tayseermbabiker/usa-events-board/internal/browser"
	"github.com/tayseermbabiker/usa-events-board/internal/classify"
	"github.com/tayseermbabiker/usa-events-board/internal/models"
)

const legalweekURL = "https://www.event.law.com/legalweek"

// Legalweek is a single annual conference rather than a listing, so the
// scraper emits exactly one record. The dates are scraped from the page
// body when they are present and fall back to the announced schedule.
var legalweekDates = regexp.MustCompile(`March\s+(\d+)\s*[-–]\s*(\d+),?\s*(20\d{2})`)

type LegalWeek struct {
	logger zerolog.Logger
}

func NewLegalWeek(logger zerolog.Logger) *LegalWeek {
	return &LegalWeek{logger: logger}
}

func (l *LegalWeek) Name() string { return SourceLegalWeek }

func (l *LegalWeek) Scrape(ctx context.Context, session *browser.Session) ([]models.RawEvent, error) {
	if err := session.Navigate(ctx, legalweekURL); err != nil {
		return nil, err
	}
	session.Settle(ctx, 3*time.Second)

	doc, err := sessionDocument(session)
	if err != nil {
		return nil, err
	}
	body := doc.Find("body").Text()

	start, end, year := "2026-03-09", "2026-03-12", "2026"
	if m := legalweekDates.FindStringSubmatch(body); m != nil {
		year = m[3]
		if s, err := time.Parse("January 2 2006", fmt.Sprintf("March %s %s", m[1], year)); err == nil {
			start = s.Format("2006-01-02")
		}
		if e, err := time.Parse("January 2 2006", fmt.Sprintf("March %s %s", m[2], year)); err == nil {
			end = e.Format("2006-01-02")
		}
	}

	sessions := doc.Find(`[class*="track"], [class*="session"], .agenda-item`).Length()
	description := "Legalweek is the premier legal industry conference covering legal " +
		"technology, business of law, and regulatory trends."
	if sessions > 0 {
		description = fmt.Sprintf("%s Featuring %d+ sessions and tracks.", description, sessions)
	}

	return []models.RawEvent{{
		Title:           "Legalweek New York " + year,
		Description:     description,
		StartDate:       start,
		EndDate:         end,
		VenueName:       "New York Hilton Midtown",
		City:            "New York",
		Organizer:       "ALM",
		Industry:        classify.Legal,
		RegistrationURL: legalweekURL,
		Source:          SourceLegalWeek,
		SourceEventID:   "legalweek-" + year,
	}}, nil
}
