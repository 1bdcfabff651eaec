package scraper

import (
	"encoding/json"
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/tayseermbabiker/usa-events-board/internal/location"
	"github.com/tayseermbabiker/usa-events-board/internal/models"
)

// eventObjectsFromJSONLD collects every schema.org Event object embedded in
// the document's ld+json blocks, walking @graph, mainEntity and ItemList
// wrappers. Structured data is the preferred extraction strategy because it
// survives upstream UI redesigns.
func eventObjectsFromJSONLD(doc *goquery.Document) []map[string]any {
	var events []map[string]any

	doc.Find("script[type='application/ld+json']").Each(func(_ int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return
		}

		data, err := decodeJSONLD(raw)
		if err != nil {
			return
		}
		events = append(events, collectEventObjects(data)...)
	})

	return events
}

func decodeJSONLD(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "<!--")
	raw = strings.TrimSuffix(raw, "-->")
	raw = strings.TrimSpace(raw)
	raw = strings.ReplaceAll(raw, "\u2028", "")
	raw = strings.ReplaceAll(raw, "\u2029", "")

	var data any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, err
	}
	return data, nil
}

func collectEventObjects(data any) []map[string]any {
	var events []map[string]any

	switch value := data.(type) {
	case []any:
		for _, item := range value {
			events = append(events, collectEventObjects(item)...)
		}
	case map[string]any:
		if typ := strings.ToLower(stringValue(value["@type"], value["type"])); typ == "event" || strings.HasSuffix(typ, "event") {
			events = append(events, value)
			return events
		}
		if graph, ok := value["@graph"]; ok {
			events = append(events, collectEventObjects(graph)...)
		}
		if main, ok := value["mainEntity"]; ok {
			events = append(events, collectEventObjects(main)...)
		}
		if list, ok := value["itemListElement"]; ok {
			if entries, ok := list.([]any); ok {
				for _, entry := range entries {
					nested := entry
					if m, ok := entry.(map[string]any); ok {
						if item, ok := m["item"]; ok {
							nested = item
						}
					}
					events = append(events, collectEventObjects(nested)...)
				}
			}
		}
	}

	return events
}

// rawFromEventObject maps one schema.org Event onto a RawEvent shell. The
// caller fills in Source, SourceEventID and Industry, and may overwrite
// City with its own default.
func rawFromEventObject(obj map[string]any) models.RawEvent {
	loc := asMap(obj["location"])
	address := asMap(loc["address"])

	name := stringValue(obj["name"])
	description := cleanText(stringValue(obj["description"]))

	raw := models.RawEvent{
		Title:           name,
		Description:     description,
		StartDate:       stringValue(obj["startDate"]),
		EndDate:         stringValue(obj["endDate"]),
		VenueName:       stringValue(loc["name"]),
		VenueAddress:    stringValue(address["streetAddress"]),
		City:            location.Detect(stringValue(address["addressLocality"]) + " " + stringValue(address["addressRegion"])),
		Organizer:       stringValue(mapValue(obj["organizer"], "name"), loc["name"]),
		RegistrationURL: stringValue(obj["url"], obj["@id"]),
		ImageURL:        imageURL(obj["image"]),
		IsFree:          eventObjectIsFree(obj, name, description),
	}
	return raw
}

func eventObjectIsFree(obj map[string]any, name, description string) bool {
	if free, ok := obj["isAccessibleForFree"].(bool); ok && free {
		return true
	}
	if offers := asMap(obj["offers"]); offers != nil {
		if price, ok := offers["price"].(float64); ok && price == 0 {
			return true
		}
	}
	return freeText.MatchString(name + " " + description)
}

func imageURL(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []any:
		if len(v) > 0 {
			return imageURL(v[0])
		}
	case map[string]any:
		return stringValue(v["url"])
	}
	return ""
}

var freeText = regexp.MustCompile(`(?i)\bfree\b`)

func stringValue(values ...any) string {
	for _, value := range values {
		switch v := value.(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		case float64:
			return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
		case json.Number:
			return v.String()
		case map[string]any:
			if name := stringValue(v["name"]); name != "" {
				return name
			}
		}
	}
	return ""
}

func mapValue(value any, key string) any {
	m, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	return m[key]
}

func asMap(value any) map[string]any {
	m, _ := value.(map[string]any)
	return m
}

func cleanText(value string) string {
	value = html.UnescapeString(value)
	return strings.Join(strings.Fields(value), " ")
}

func absoluteURL(base string, href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}

// slugify collapses a string into a lowercase dash-separated token,
// the last-resort source id when a page exposes no stable identifier.
func slugify(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return ""
	}
	var b strings.Builder
	lastDash := false
	for _, r := range value {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	slug := strings.Trim(b.String(), "-")
	if len(slug) > 50 {
		slug = strings.Trim(slug[:50], "-")
	}
	return slug
}

// citySlug builds the URL path segment most listing sites use for a city.
func citySlug(city string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(city)), " ", "-")
}

var longDigits = regexp.MustCompile(`\d{10,}`)

// numericID pulls a long numeric identifier out of an event URL. Those ids
// are stable across re-scrapes, unlike titles.
func numericID(target string) string {
	return longDigits.FindString(target)
}

// lastPathSegment returns the final non-empty path element of a URL.
func lastPathSegment(target string) string {
	target = strings.SplitN(target, "?", 2)[0]
	parts := strings.Split(target, "/")
	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i] != "" {
			return parts[i]
		}
	}
	return ""
}

// sourceID synthesizes the per-source dedup key: prefix plus the most
// stable identifier available, falling back to a slugified title.
func sourceID(prefix, stable, title string) string {
	if stable = strings.TrimSpace(stable); stable != "" {
		return prefix + "-" + stable
	}
	return prefix + "-" + slugify(title)
}
