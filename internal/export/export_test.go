package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/tayseermbabiker/usa-events-board/internal/models"
)

func sampleEvents() []models.Event {
	return []models.Event{
		{
			Title:           "AI Summit",
			StartDate:       "2026-04-01",
			EndDate:         "2026-04-02",
			City:            "Austin",
			Industry:        "AI",
			RegistrationURL: "https://example.com/e/1",
			Source:          "Eventbrite",
			SourceEventID:   "eb-1",
		},
		{
			Title:         "Legal Forum",
			StartDate:     "2026-05-01",
			City:          "New York",
			Industry:      "Legal",
			IsFree:        true,
			Source:        "LegalWeek",
			SourceEventID: "legalweek-2026",
		},
	}
}

func TestWriteEventsCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteEvents(&buf, sampleEvents(), FormatCSV, WriteOptions{}); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2 rows", len(lines))
	}
	if !strings.HasPrefix(lines[0], "source,title,start_date") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "eb-1") {
		t.Errorf("row = %q", lines[1])
	}
}

func TestWriteEventsJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteEvents(&buf, sampleEvents(), FormatJSON, WriteOptions{}); err != nil {
		t.Fatal(err)
	}

	var decoded []models.Event
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded) != 2 || decoded[0].SourceEventID != "eb-1" {
		t.Fatalf("decoded = %+v", decoded)
	}
}

func TestWriteEventsMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteEvents(&buf, sampleEvents(), FormatMarkdown, WriteOptions{}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "**AI Summit**") {
		t.Errorf("missing title: %q", out)
	}
	if !strings.Contains(out, "2026-04-01 to 2026-04-02") {
		t.Errorf("missing date range: %q", out)
	}
	if !strings.Contains(out, "Free: yes") {
		t.Errorf("missing free marker: %q", out)
	}
}

func TestWriteEventsMarkdownEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteEvents(&buf, nil, FormatMarkdown, WriteOptions{}); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "No events." {
		t.Fatalf("got %q", buf.String())
	}
}

func TestWriteEventsTablePlain(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteEvents(&buf, sampleEvents(), FormatTable, WriteOptions{}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "source") || !strings.Contains(out, "AI Summit") {
		t.Fatalf("table = %q", out)
	}
}
