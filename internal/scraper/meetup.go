package scraper

import (
	"context"
	"encoding/json"
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

const meetupMaxScrolls = 10

// Meetup search locations for the tech category (546), keyed by canonical
// city.
var meetupLocations = map[string]string{
	"Austin":        "us--tx--austin",
	"San Francisco": "us--ca--san-francisco",
	"New York":      "us--ny--new-york",
	"Miami":         "us--fl--miami",
}

const meetupApolloJS = `() => {
	const state = window.__APOLLO_STATE__;
	return state ? JSON.stringify(state) : "";
}`

const meetupShowMoreJS = `() => {
	const buttons = [...document.querySelectorAll('button')];
	const target = buttons.find(b => /show more|load more/i.test(b.textContent));
	if (target) { target.click(); return true; }
	return false;
}`

var meetupEventPath = regexp.MustCompile(`events/(\d+)`)

// Meetup scrapes per-city tech event searches. The page ships its data
// model as an Apollo state blob; infinite scroll loads more entries into
// it. DOM cards are the last resort when the blob is missing.
type Meetup struct {
	cities []string
	logger zerolog.Logger
}

func NewMeetup(cities []string, logger zerolog.Logger) *Meetup {
	return &Meetup{cities: cities, logger: logger}
}

func (m *Meetup) Name() string { return SourceMeetup }

func (m *Meetup) Scrape(ctx context.Context, session *browser.Session) ([]models.RawEvent, error) {
	var all []models.RawEvent

	for _, city := range m.cities {
		locationCode, ok := meetupLocations[city]
		if !ok {
			m.logger.Warn().Str("city", city).Msg("no meetup location code")
			continue
		}
		searchURL := fmt.Sprintf("https://www.meetup.com/find/?location=%s&source=EVENTS&categoryId=546", locationCode)
		m.logger.Info().Str("city", city).Msg("scraping city")

		if err := session.Navigate(ctx, searchURL); err != nil {
			m.logger.Warn().Err(err).Str("city", city).Msg("city failed")
			continue
		}
		session.Settle(ctx, 3*time.Second)

		events := m.extractApollo(ctx, session, city)

		// Scroll until the state stops growing or the cap is reached.
		// A stalled scroll gets one chance via the show-more button.
		prev := len(events)
		for i := 0; i < meetupMaxScrolls; i++ {
			if err := session.ScrollBottom(ctx); err != nil {
				break
			}
			session.Settle(ctx, 2*time.Second)

			more := m.extractApollo(ctx, session, city)
			if len(more) > prev {
				events = more
				prev = len(events)
				continue
			}

			if clicked, _ := session.EvalBool(ctx, meetupShowMoreJS); clicked {
				session.Settle(ctx, 2*time.Second)
				more = m.extractApollo(ctx, session, city)
				if len(more) > prev {
					events = more
					prev = len(events)
					continue
				}
			}
			break
		}

		if len(events) == 0 {
			events = m.extractDOM(session, city)
			m.logger.Info().Int("events", len(events)).Msg("events from DOM fallback")
		}

		all = append(all, events...)
	}

	return all, nil
}

func (m *Meetup) extractApollo(ctx context.Context, session *browser.Session, defaultCity string) []models.RawEvent {
	raw, err := session.EvalString(ctx, meetupApolloJS)
	if err != nil || strings.TrimSpace(raw) == "" {
		return nil
	}

	var state map[string]any
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		m.logger.Warn().Err(err).Msg("apollo state decode failed")
		return nil
	}

	var events []models.RawEvent
	for key, value := range state {
		if !strings.HasPrefix(key, "Event:") {
			continue
		}
		entry := asMap(value)
		if entry == nil {
			continue
		}
		if evt, ok := m.mapApolloEvent(entry, defaultCity); ok {
			events = append(events, evt)
		}
	}

	return events
}

func (m *Meetup) mapApolloEvent(entry map[string]any, defaultCity string) (models.RawEvent, bool) {
	title := stringValue(entry["title"])
	if title == "" {
		return models.RawEvent{}, false
	}

	eventURL := stringValue(entry["eventUrl"])
	id := stringValue(entry["id"])
	if id == "" {
		id = lastPathSegment(eventURL)
	}

	group := asMap(entry["group"])
	venue := asMap(entry["venue"])
	description := stringValue(entry["description"], entry["shortDescription"])

	city := location.Detect(stringValue(venue["city"]) + " " + stringValue(group["city"]))
	if city == "" {
		city = defaultCity
	}

	if eventURL == "" && id != "" {
		eventURL = fmt.Sprintf("https://www.meetup.com/events/%s/", id)
	}

	// No fee settings means a free community event.
	isFree := true
	if fee := asMap(entry["feeSettings"]); fee != nil {
		amount, ok := fee["amount"].(float64)
		isFree = ok && amount == 0
	}

	return models.RawEvent{
		Title:           title,
		Description:     cleanText(description),
		StartDate:       stringValue(entry["dateTime"], entry["startDate"]),
		EndDate:         stringValue(entry["endTime"], entry["endDate"]),
		VenueName:       stringValue(venue["name"]),
		VenueAddress:    stringValue(venue["address"]),
		City:            city,
		Organizer:       stringValue(group["name"]),
		Industry:        classify.Classify(title+" "+description, ""),
		IsFree:          isFree,
		RegistrationURL: eventURL,
		ImageURL:        stringValue(entry["imageUrl"], mapValue(entry["featuredEventPhoto"], "highRes"), mapValue(entry["featuredEventPhoto"], "photo")),
		Source:          SourceMeetup,
		SourceEventID:   sourceID("meetup", id, title),
	}, true
}

func (m *Meetup) extractDOM(session *browser.Session, defaultCity string) []models.RawEvent {
	doc, err := sessionDocument(session)
	if err != nil {
		return nil
	}

	var events []models.RawEvent
	seen := map[string]struct{}{}

	doc.Find(`[data-testid="categoryResults-eventCard"]`).Each(func(_ int, card *goquery.Selection) {
		title := cleanText(card.Find("h2, h3").First().Text())
		if title == "" {
			return
		}
		if _, ok := seen[title]; ok {
			return
		}
		seen[title] = struct{}{}

		link := card.Find(`a[href*="/events/"]`).First().AttrOr("href", "")
		link = absoluteURL("https://www.meetup.com", link)

		id := ""
		if match := meetupEventPath.FindStringSubmatch(link); len(match) == 2 {
			id = match[1]
		} else if link != "" {
			id = lastPathSegment(link)
		}

		dateText := card.Find("time[datetime]").First().AttrOr("datetime", "")
		img := card.Find("img[alt]").First().AttrOr("src", "")

		city := location.Detect(card.Text())
		if city == "" {
			city = defaultCity
		}

		events = append(events, models.RawEvent{
			Title:           title,
			StartDate:       dateText,
			City:            city,
			Organizer:       meetupGroupName(link),
			Industry:        classify.Classify(title, ""),
			IsFree:          true,
			RegistrationURL: link,
			ImageURL:        img,
			Source:          SourceMeetup,
			SourceEventID:   sourceID("meetup", id, title),
		})
	})

	return events
}

var meetupGroupPath = regexp.MustCompile(`meetup\.com/([^/]+)/events`)

// meetupGroupName reconstructs a readable group name from its URL slug.
func meetupGroupName(link string) string {
	match := meetupGroupPath.FindStringSubmatch(link)
	if len(match) != 2 {
		return ""
	}
	words := strings.Split(strings.ReplaceAll(match[1], "-", " "), " ")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
