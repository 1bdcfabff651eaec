package scraper

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"github.com/tayseermbabiker/usa-events-board/internal/browser"
	"github.com/tayseermbabiker/usa-events-board/internal/classify"
	"github.com/tayseermbabiker/usa-events-board/internal/location"
	"github.com/tayseermbabiker/usa-events-board/internal/models"
)

// Luma discover pages per canonical city (luma.com/{slug}?k=p).
var lumaCityPages = map[string]string{
	"Austin":        "https://luma.com/austin?k=p",
	"San Francisco": "https://luma.com/sf?k=p",
	"New York":      "https://luma.com/nyc?k=p",
	"Miami":         "https://luma.com/miami?k=p",
}

const lumaNextDataJS = `() => {
	const el = document.getElementById('__NEXT_DATA__');
	return el ? el.textContent : "";
}`

// Luma scrapes per-city discover pages. The Next.js initial-state blob is
// the primary strategy; content cards are the DOM fallback.
type Luma struct {
	cities []string
	logger zerolog.Logger
}

func NewLuma(cities []string, logger zerolog.Logger) *Luma {
	return &Luma{cities: cities, logger: logger}
}

func (l *Luma) Name() string { return SourceLuma }

func (l *Luma) Scrape(ctx context.Context, session *browser.Session) ([]models.RawEvent, error) {
	var all []models.RawEvent

	for _, city := range l.cities {
		pageURL, ok := lumaCityPages[city]
		if !ok {
			l.logger.Warn().Str("city", city).Msg("no luma discover page")
			continue
		}
		l.logger.Info().Str("city", city).Msg("scraping city")

		if err := session.Navigate(ctx, pageURL); err != nil {
			l.logger.Warn().Err(err).Str("city", city).Msg("city failed")
			continue
		}
		session.Settle(ctx, 3*time.Second)

		events := l.extractNextData(ctx, session, city)
		if len(events) > 0 {
			l.logger.Info().Int("events", len(events)).Msg("events from page state")
			all = append(all, events...)
			continue
		}

		events = l.extractDOM(session, city)
		l.logger.Info().Int("events", len(events)).Msg("events from DOM fallback")
		all = append(all, events...)
	}

	return all, nil
}

func (l *Luma) extractNextData(ctx context.Context, session *browser.Session, defaultCity string) []models.RawEvent {
	raw, err := session.EvalString(ctx, lumaNextDataJS)
	if err != nil || strings.TrimSpace(raw) == "" {
		return nil
	}

	var nextData map[string]any
	if err := json.Unmarshal([]byte(raw), &nextData); err != nil {
		l.logger.Warn().Err(err).Msg("page state decode failed")
		return nil
	}

	return l.parseNextData(nextData, defaultCity)
}

// parseNextData walks the blob's known shapes defensively: a missing key
// means a missing field, never a crash.
func (l *Luma) parseNextData(nextData map[string]any, defaultCity string) []models.RawEvent {
	initialData := asMap(mapValue(asMap(nextData["props"])["pageProps"], "initialData"))
	if initialData == nil {
		return nil
	}

	data := asMap(initialData["data"])
	entries, ok := data["events"].([]any)
	if !ok || len(entries) == 0 {
		entries, ok = data["featured_events"].([]any)
	}
	if !ok || len(entries) == 0 {
		entries, _ = initialData["events"].([]any)
	}

	var events []models.RawEvent
	for _, entryAny := range entries {
		entry := asMap(entryAny)
		if entry == nil {
			continue
		}
		evt := asMap(entry["event"])
		if evt == nil {
			evt = entry
		}

		title := stringValue(evt["name"])
		startAt := stringValue(evt["start_at"])
		if title == "" || startAt == "" {
			continue
		}

		description := flattenRichText(evt["description_mirror"])
		if description == "" {
			description = stringValue(evt["description"])
		}

		geo := asMap(evt["geo_address_info"])
		city := location.Detect(stringValue(geo["city"]) + " " + stringValue(geo["region"]))
		if city == "" {
			city = defaultCity
		}

		registrationURL := ""
		slug := stringValue(evt["url"])
		if slug != "" {
			registrationURL = "https://lu.ma/" + slug
		}

		events = append(events, models.RawEvent{
			Title:           title,
			Description:     cleanText(description),
			StartDate:       startAt,
			EndDate:         stringValue(evt["end_at"]),
			VenueName:       stringValue(geo["address"]),
			VenueAddress:    stringValue(geo["full_address"], geo["short_address"]),
			City:            city,
			Organizer:       lumaHosts(entry["hosts"]),
			Industry:        classify.Classify(title+" "+description, ""),
			IsFree:          lumaIsFree(entry, evt, title),
			RegistrationURL: registrationURL,
			ImageURL:        stringValue(evt["cover_url"]),
			Source:          SourceLuma,
			SourceEventID:   sourceID("luma", stringValue(evt["api_id"], evt["url"]), title),
		})
	}

	return events
}

func lumaHosts(value any) string {
	hosts, ok := value.([]any)
	if !ok {
		return ""
	}
	var names []string
	for _, host := range hosts {
		if name := stringValue(mapValue(host, "name")); name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}

func lumaIsFree(entry, evt map[string]any, title string) bool {
	ticketInfo := asMap(entry["ticket_info"])
	if free, ok := ticketInfo["is_free"].(bool); ok && free {
		return true
	}
	if price := asMap(ticketInfo["price"]); price != nil {
		if cents, ok := price["cents"].(float64); ok && cents == 0 {
			return true
		}
	}
	if types, ok := evt["ticket_types"].([]any); ok {
		for _, t := range types {
			if stringValue(mapValue(t, "type")) == "free" {
				return true
			}
		}
	}
	return freeText.MatchString(title)
}

// flattenRichText joins the text nodes of Luma's rich-text description
// tree into a plain string.
func flattenRichText(value any) string {
	switch node := value.(type) {
	case string:
		return node
	case map[string]any:
		var texts []string
		var walk func(n map[string]any)
		walk = func(n map[string]any) {
			if text, ok := n["text"].(string); ok && text != "" {
				texts = append(texts, text)
			}
			if children, ok := n["content"].([]any); ok {
				for _, child := range children {
					if m := asMap(child); m != nil {
						walk(m)
					}
				}
			}
		}
		walk(node)
		return strings.TrimSpace(strings.Join(texts, " "))
	}
	return ""
}

func (l *Luma) extractDOM(session *browser.Session, defaultCity string) []models.RawEvent {
	doc, err := sessionDocument(session)
	if err != nil {
		return nil
	}

	var events []models.RawEvent
	seen := map[string]struct{}{}

	doc.Find(".content-card").Each(func(_ int, card *goquery.Selection) {
		title := cleanText(card.Find("h3").First().Text())
		if title == "" {
			return
		}
		if _, ok := seen[title]; ok {
			return
		}
		seen[title] = struct{}{}

		link := card.Find("a[href]").First().AttrOr("href", "")
		link = absoluteURL("https://luma.com", link)
		// Calendar and category links carry a ?k= parameter.
		if link == "" || strings.Contains(link, "?k=") {
			return
		}

		text := card.Text()
		city := location.Detect(text)
		if city == "" {
			city = defaultCity
		}

		events = append(events, models.RawEvent{
			Title: title,
			// Card markup exposes no parseable date; the validator
			// drops these unless the page state was available.
			City:            city,
			Industry:        classify.Classify(title, ""),
			IsFree:          freeText.MatchString(text),
			RegistrationURL: link,
			ImageURL:        card.Find("img").First().AttrOr("src", ""),
			Source:          SourceLuma,
			SourceEventID:   sourceID("luma", lastPathSegment(link), title),
		})
	})

	return events
}
