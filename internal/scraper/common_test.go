package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func documentFromHTML(t *testing.T, markup string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

func TestEventObjectsFromJSONLD(t *testing.T) {
	markup := `<html><head>
<script type="application/ld+json">
{"@context":"https://schema.org","@type":"ItemList","itemListElement":[
  {"@type":"ListItem","item":{"@type":"Event","name":"AI Summit","startDate":"2026-04-01"}},
  {"@type":"ListItem","item":{"@type":"BusinessEvent","name":"Founder Mixer","startDate":"2026-04-02"}}
]}
</script>
<script type="application/ld+json">
{"@graph":[{"@type":"WebPage"},{"@type":"Event","name":"Legal Forum","startDate":"2026-04-03"}]}
</script>
<script type="application/ld+json">not json at all</script>
</head><body></body></html>`

	events := eventObjectsFromJSONLD(documentFromHTML(t, markup))
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}

	names := map[string]bool{}
	for _, obj := range events {
		names[stringValue(obj["name"])] = true
	}
	for _, want := range []string{"AI Summit", "Founder Mixer", "Legal Forum"} {
		if !names[want] {
			t.Errorf("missing event %q", want)
		}
	}
}

func TestEventObjectsFromJSONLDCommentWrapped(t *testing.T) {
	markup := `<html><head><script type="application/ld+json"><!--
{"@type":"Event","name":"Wrapped"}
--></script></head></html>`

	events := eventObjectsFromJSONLD(documentFromHTML(t, markup))
	if len(events) != 1 || stringValue(events[0]["name"]) != "Wrapped" {
		t.Fatalf("comment-wrapped block not parsed: %v", events)
	}
}

func TestDecodeJSONLDStripsLineSeparators(t *testing.T) {
	// U+2028/U+2029 are legal in JS strings but not in JSON.
	raw := "{\"@type\":\"Event\",\"name\":\"Two Line Name\"}"

	data, err := decodeJSONLD(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	obj, ok := data.(map[string]any)
	if !ok || stringValue(obj["name"]) != "TwoLineName" {
		t.Fatalf("decoded = %v", data)
	}
}

func TestRawFromEventObject(t *testing.T) {
	obj := map[string]any{
		"@type":     "Event",
		"name":      "Fintech Demo Day",
		"startDate": "2026-05-10T18:00:00Z",
		"endDate":   "2026-05-10T21:00:00Z",
		"url":       "https://example.com/events/1234567890123",
		"location": map[string]any{
			"name": "The Forum",
			"address": map[string]any{
				"streetAddress":   "100 Main St",
				"addressLocality": "Brooklyn",
				"addressRegion":   "NY",
			},
		},
		"organizer": map[string]any{"name": "Fintech Circle"},
		"offers":    map[string]any{"price": float64(0)},
		"image":     []any{"https://example.com/banner.jpg"},
	}

	raw := rawFromEventObject(obj)
	if raw.Title != "Fintech Demo Day" {
		t.Errorf("title = %q", raw.Title)
	}
	if raw.VenueName != "The Forum" || raw.VenueAddress != "100 Main St" {
		t.Errorf("venue = %q / %q", raw.VenueName, raw.VenueAddress)
	}
	if raw.City != "Brooklyn" {
		t.Errorf("city = %q, want Brooklyn", raw.City)
	}
	if raw.Organizer != "Fintech Circle" {
		t.Errorf("organizer = %q", raw.Organizer)
	}
	if raw.ImageURL != "https://example.com/banner.jpg" {
		t.Errorf("image = %q", raw.ImageURL)
	}
	if !raw.IsFree {
		t.Error("zero-price offer should mark the event free")
	}
}

func TestEventObjectIsFree(t *testing.T) {
	tests := []struct {
		name string
		obj  map[string]any
		text string
		want bool
	}{
		{"accessible flag", map[string]any{"isAccessibleForFree": true}, "", true},
		{"paid offer", map[string]any{"offers": map[string]any{"price": float64(25)}}, "", false},
		{"free in title", map[string]any{}, "Free Networking Night", true},
		{"freelance is not free", map[string]any{}, "Freelance Writers Meetup", false},
		{"nothing", map[string]any{}, "Paid Workshop", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := eventObjectIsFree(tt.obj, tt.text, ""); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAbsoluteURL(t *testing.T) {
	tests := []struct {
		base, href, want string
	}{
		{"https://example.com/events", "https://other.com/x", "https://other.com/x"},
		{"https://example.com/events/", "details/42", "https://example.com/events/details/42"},
		{"https://example.com", "/e/summit-123", "https://example.com/e/summit-123"},
		{"https://example.com", "//cdn.example.com/img.png", "https://cdn.example.com/img.png"},
		{"https://example.com", "", ""},
	}
	for _, tt := range tests {
		if got := absoluteURL(tt.base, tt.href); got != tt.want {
			t.Errorf("absoluteURL(%q, %q) = %q, want %q", tt.base, tt.href, got, tt.want)
		}
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"AI & Machine Learning Summit 2026!", "ai-machine-learning-summit-2026"},
		{"  spaced   out  ", "spaced-out"},
		{"", ""},
		{strings.Repeat("verylongword", 10), strings.Repeat("verylongword", 10)[:50]},
	}
	for _, tt := range tests {
		if got := slugify(tt.in); got != tt.want {
			t.Errorf("slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSourceID(t *testing.T) {
	if got := sourceID("eb", "1234567890", "ignored"); got != "eb-1234567890" {
		t.Errorf("stable id: got %q", got)
	}
	if got := sourceID("eb", "", "AI Summit 2026"); got != "eb-ai-summit-2026" {
		t.Errorf("title fallback: got %q", got)
	}
}

func TestNumericID(t *testing.T) {
	if got := numericID("https://www.eventbrite.com/e/ai-summit-tickets-1234567890123"); got != "1234567890123" {
		t.Errorf("got %q", got)
	}
	if got := numericID("https://example.com/short/42"); got != "" {
		t.Errorf("short numbers should not match, got %q", got)
	}
}

func TestLastPathSegment(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://example.com/events/my-conference/", "my-conference"},
		{"https://example.com/events/my-conference?ref=home", "my-conference"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := lastPathSegment(tt.in); got != tt.want {
			t.Errorf("lastPathSegment(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCleanText(t *testing.T) {
	if got := cleanText("  Tech &amp; Law\n\tBreakfast  "); got != "Tech & Law Breakfast" {
		t.Errorf("got %q", got)
	}
}
