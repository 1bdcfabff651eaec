package scraper

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestMeetupMapApolloEvent(t *testing.T) {
	entry := map[string]any{
		"id":       "308211234",
		"title":    "Austin Product Managers Monthly",
		"eventUrl": "https://www.meetup.com/austin-product-managers/events/308211234/",
		"dateTime": "2026-04-20T18:00:00-05:00",
		"group":    map[string]any{"name": "Austin Product Managers", "city": "Austin"},
		"venue":    map[string]any{"name": "Capital Factory", "city": "Austin"},
		"feeSettings": map[string]any{
			"amount": float64(0),
		},
	}

	scraper := NewMeetup(nil, zerolog.Nop())
	evt, ok := scraper.mapApolloEvent(entry, "New York")
	if !ok {
		t.Fatal("mapping rejected a complete entry")
	}
	if evt.SourceEventID != "meetup-308211234" {
		t.Errorf("source id = %q", evt.SourceEventID)
	}
	if evt.City != "Austin" {
		t.Errorf("city = %q, default city must not override venue city", evt.City)
	}
	if evt.Organizer != "Austin Product Managers" {
		t.Errorf("organizer = %q", evt.Organizer)
	}
	if !evt.IsFree {
		t.Error("zero fee amount should be free")
	}
}

func TestMeetupMapApolloEventDefaults(t *testing.T) {
	entry := map[string]any{
		"title":    "Rooftop Founders Social",
		"eventUrl": "https://www.meetup.com/ny-founders/events/307000000/",
	}

	scraper := NewMeetup(nil, zerolog.Nop())
	evt, ok := scraper.mapApolloEvent(entry, "New York")
	if !ok {
		t.Fatal("mapping rejected entry")
	}
	if evt.City != "New York" {
		t.Errorf("city = %q, want search city fallback", evt.City)
	}
	if !evt.IsFree {
		t.Error("missing fee settings should default to free")
	}
	if evt.SourceEventID != "meetup-307000000" {
		t.Errorf("source id = %q, want id from event url", evt.SourceEventID)
	}
}

func TestMeetupMapApolloEventPaid(t *testing.T) {
	entry := map[string]any{
		"title":       "Deep Dive Workshop",
		"feeSettings": map[string]any{"amount": float64(45)},
	}

	scraper := NewMeetup(nil, zerolog.Nop())
	evt, ok := scraper.mapApolloEvent(entry, "Austin")
	if !ok {
		t.Fatal("mapping rejected entry")
	}
	if evt.IsFree {
		t.Error("non-zero fee should not be free")
	}
}

func TestMeetupGroupName(t *testing.T) {
	tests := []struct {
		link, want string
	}{
		{"https://www.meetup.com/austin-product-managers/events/308211234/", "Austin Product Managers"},
		{"https://www.meetup.com/nyc-ai-builders/events/1/", "Nyc Ai Builders"},
		{"https://example.com/not-meetup", ""},
	}
	for _, tt := range tests {
		if got := meetupGroupName(tt.link); got != tt.want {
			t.Errorf("meetupGroupName(%q) = %q, want %q", tt.link, got, tt.want)
		}
	}
}
