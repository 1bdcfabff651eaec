package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"text/tabwriter"

	"github.com/muesli/termenv"
	"github.com/tayseermbabiker/usa-events-board/internal/models"
)

type Format string

const (
	FormatTable    Format = "table"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
	FormatTSV      Format = "tsv"
)

type WriteOptions struct {
	ColorEnabled bool
	Hyperlinks   bool
}

func WriteEvents(w io.Writer, events []models.Event, format Format, opts WriteOptions) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, events)
	case FormatCSV:
		return writeCSV(w, events, ',')
	case FormatTSV:
		return writeCSV(w, events, '\t')
	case FormatMarkdown:
		return writeMarkdown(w, events)
	default:
		return writeTable(w, events, opts)
	}
}

func writeJSON(w io.Writer, events []models.Event) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(events)
}

func writeCSV(w io.Writer, events []models.Event, delim rune) error {
	writer := csv.NewWriter(w)
	writer.Comma = delim
	if err := writer.Write(csvHeader()); err != nil {
		return err
	}
	for _, event := range events {
		if err := writer.Write(csvRow(event)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeTable(w io.Writer, events []models.Event, opts WriteOptions) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(tableHeader(), "\t"))
	output := termenv.NewOutput(w)
	for _, event := range events {
		fmt.Fprintln(tw, strings.Join(tableRow(event, output, opts), "\t"))
	}
	return tw.Flush()
}

func writeMarkdown(w io.Writer, events []models.Event) error {
	if len(events) == 0 {
		_, err := fmt.Fprintln(w, "No events.")
		return err
	}
	for _, event := range events {
		urlLine := "  Register: -"
		if link := safe(event.RegistrationURL); link != "" {
			urlLine = fmt.Sprintf("  Register: [Open listing](<%s>)", link)
		}
		lines := []string{
			fmt.Sprintf("- **%s** (%s)", safe(event.Title), safe(event.Source)),
			fmt.Sprintf("  Date: %s", dateRange(event)),
			fmt.Sprintf("  City: %s", safe(event.City)),
			fmt.Sprintf("  Industry: %s", safe(event.Industry)),
			urlLine,
		}
		if event.VenueName != "" {
			lines = append(lines, fmt.Sprintf("  Venue: %s", safe(event.VenueName)))
		}
		if event.Organizer != "" {
			lines = append(lines, fmt.Sprintf("  Organizer: %s", safe(event.Organizer)))
		}
		if event.IsFree {
			lines = append(lines, "  Free: yes")
		}
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

func csvHeader() []string {
	return []string{
		"source",
		"title",
		"start_date",
		"end_date",
		"city",
		"industry",
		"venue_name",
		"organizer",
		"is_free",
		"registration_url",
		"source_event_id",
	}
}

func csvRow(event models.Event) []string {
	return []string{
		event.Source,
		event.Title,
		event.StartDate,
		event.EndDate,
		event.City,
		event.Industry,
		event.VenueName,
		event.Organizer,
		boolString(event.IsFree),
		event.RegistrationURL,
		event.SourceEventID,
	}
}

func boolString(value bool) string {
	if value {
		return "true"
	}
	return "false"
}

func safe(value string) string {
	return strings.TrimSpace(value)
}

func dateRange(event models.Event) string {
	if event.EndDate != "" && event.EndDate != event.StartDate {
		return event.StartDate + " to " + event.EndDate
	}
	return event.StartDate
}

func tableHeader() []string {
	return []string{
		"source",
		"title",
		"date",
		"city",
		"industry",
		"url",
	}
}

func tableRow(event models.Event, output *termenv.Output, opts WriteOptions) []string {
	const linkColor = "#87CEEB"

	link := safe(event.RegistrationURL)
	displayURL := "-"
	if link != "" {
		displayURL = link
		if opts.Hyperlinks {
			displayURL = shortURLLabel(link)
		}
		if opts.ColorEnabled {
			displayURL = output.String(displayURL).Foreground(output.Color(linkColor)).String()
		}
		if opts.Hyperlinks {
			displayURL = hyperlink(link, displayURL)
		}
	}
	return []string{
		safe(event.Source),
		safe(event.Title),
		event.StartDate,
		safe(event.City),
		safe(event.Industry),
		displayURL,
	}
}

func hyperlink(url string, text string) string {
	const esc = "\x1b"
	return esc + "]8;;" + url + esc + "\\" + text + esc + "]8;;" + esc + "\\"
}

func shortURLLabel(raw string) string {
	const maxLen = 60
	label := strings.TrimSpace(raw)
	if parsed, err := url.Parse(raw); err == nil {
		host := strings.TrimPrefix(parsed.Host, "www.")
		if host != "" {
			label = host + parsed.Path
		}
	}
	label = strings.TrimSpace(label)
	if label == "" {
		label = raw
	}
	if len(label) > maxLen {
		label = label[:maxLen-3] + "..."
	}
	return label
}
