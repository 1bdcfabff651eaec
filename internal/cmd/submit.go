package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/tayseermbabiker/usa-events-board/internal/location"
	"github.com/tayseermbabiker/usa-events-board/internal/models"
	"github.com/tayseermbabiker/usa-events-board/internal/validate"
)

// SubmitCmd pushes one manually entered event through the same validation
// and upsert path the scrapers use.
type SubmitCmd struct {
	Title       string `arg:"" help:"Event title."`
	Date        string `required:"" help:"Start date (e.g. 2026-05-01)."`
	EndDate     string `help:"End date."`
	Description string `help:"Event description."`
	City        string `help:"City name."`
	Venue       string `help:"Venue name."`
	Address     string `help:"Venue street address."`
	Organizer   string `help:"Organizer name."`
	Industry    string `required:"" help:"Industry tag."`
	URL         string `required:"" name:"url" help:"Registration URL."`
	Free        bool   `help:"Mark the event as free."`
	DryRun      bool   `help:"Validate and print without pushing."`
}

const submittedSource = "User Submitted"

func (c *SubmitCmd) Run(ctx *Context) error {
	cfg := ctx.Config

	raw := models.RawEvent{
		Title:           c.Title,
		Description:     c.Description,
		StartDate:       c.Date,
		EndDate:         c.EndDate,
		VenueName:       c.Venue,
		VenueAddress:    c.Address,
		City:            c.City,
		Organizer:       c.Organizer,
		Industry:        c.Industry,
		IsFree:          c.Free,
		RegistrationURL: c.URL,
		Source:          submittedSource,
		SourceEventID:   submittedEventID(c.Title, c.Date),
	}

	resolver := location.NewResolver(cfg.ValidCities, cfg.CityAliases)
	validator := validate.New(resolver, cfg.ValidIndustries, ctx.Logger)
	event, ok := validator.Validate(raw)
	if !ok {
		return fmt.Errorf("event failed validation; check date, industry and required fields")
	}

	if c.DryRun {
		enc := json.NewEncoder(ctx.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(event)
	}

	result, err := pushEvents(context.Background(), ctx, []models.Event{event})
	if err != nil {
		return err
	}
	if result.Errors > 0 {
		return fmt.Errorf("push failed")
	}
	if result.Updated > 0 {
		ctx.UI.Successf("Updated existing event %s", event.SourceEventID)
	} else {
		ctx.UI.Successf("Created event %s", event.SourceEventID)
	}
	return nil
}

// submittedEventID builds a stable id from title and date so re-submitting
// the same event updates instead of duplicating.
func submittedEventID(title, date string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
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
	if len(slug) > 40 {
		slug = strings.Trim(slug[:40], "-")
	}
	return "user-" + slug + "-" + strings.TrimSpace(date)
}
