package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/tayseermbabiker/usa-events-board/internal/browser"
	"github.com/tayseermbabiker/usa-events-board/internal/config"
	"github.com/tayseermbabiker/usa-events-board/internal/export"
	"github.com/tayseermbabiker/usa-events-board/internal/location"
	"github.com/tayseermbabiker/usa-events-board/internal/models"
	"github.com/tayseermbabiker/usa-events-board/internal/network"
	"github.com/tayseermbabiker/usa-events-board/internal/scraper"
	"github.com/tayseermbabiker/usa-events-board/internal/store"
	"github.com/tayseermbabiker/usa-events-board/internal/validate"
)

type ScrapeCmd struct {
	Sources string `arg:"" optional:"" help:"Comma-separated source names (default: all enabled)." default:"all"`
	DryRun  bool   `help:"Scrape and print events without pushing to storage."`
	Format  string `help:"Output format: csv, json, md, tsv, table." enum:",csv,json,md,tsv,table" default:""`
	Output  string `name:"output" short:"o" help:"Write scraped events to a file."`
	Proxies string `help:"Comma-separated proxy URLs." env:"EVENTSBOARD_PROXIES"`
}

func (s *ScrapeCmd) Run(ctx *Context) error {
	cfg := ctx.Config

	selected, err := selectSources(cfg, ctx.Logger, s.Sources)
	if err != nil {
		return err
	}

	proxies, err := config.LoadProxies(s.Proxies)
	if err != nil {
		return err
	}
	var rotator *network.Rotator
	if len(proxies) > 0 {
		rotator, err = network.NewRotator(proxies, 10*time.Minute)
		if err != nil {
			return err
		}
	}

	resolver := location.NewResolver(cfg.ValidCities, cfg.CityAliases)
	runner := &scraper.Runner{
		Validator: validate.New(resolver, cfg.ValidIndustries, ctx.Logger),
		Logger:    ctx.Logger,
	}

	stopIndicator := startScrapeIndicator(ctx)
	if stopIndicator != nil {
		defer stopIndicator()
	}

	runCtx := context.Background()
	var (
		events []models.Event
		stats  []models.SourceStats
	)
	for i, sc := range selected {
		if i > 0 {
			time.Sleep(cfg.SourcePause())
		}

		// Each source gets a fresh session, drawn through the rotator
		// so a banned proxy sits out subsequent launches.
		proxy, proxyErr := rotator.Next()
		if proxyErr != nil {
			ctx.Logger.Warn().Err(proxyErr).Msg("continuing without proxy")
		}
		runner.NewSession = func() (*browser.Session, error) {
			session, err := browser.New(cfg.Browser, proxy)
			if err != nil {
				rotator.ReportFailure(proxy)
			}
			return session, err
		}

		sourceEvents, sourceStats := runner.Run(runCtx, sc)
		events = append(events, sourceEvents...)
		stats = append(stats, sourceStats)
	}

	if stopIndicator != nil {
		stopIndicator()
	}

	events = dedupeEvents(events)

	if s.Output != "" || s.DryRun {
		if err := writeEvents(ctx, s, events); err != nil {
			return err
		}
	}

	var pushed *models.PushResult
	if !s.DryRun {
		result, err := pushEvents(runCtx, ctx, events)
		if err != nil {
			return err
		}
		pushed = &result
	}

	printScrapeSummary(ctx, stats, pushed)
	return nil
}

// selectSources maps a user-supplied list onto registry entries, keeping
// the canonical run order. "all" means every source the config enables.
func selectSources(cfg config.Config, logger zerolog.Logger, sourcesArg string) ([]scraper.Scraper, error) {
	registry := scraper.Registry(cfg, logger)

	requested := scraper.NormalizeNames(strings.Split(sourcesArg, ","))
	all := len(requested) == 0 || (len(requested) == 1 && requested[0] == "all")

	wanted := map[string]struct{}{}
	if !all {
		byName := map[string]string{}
		for name := range registry {
			byName[strings.ToLower(name)] = name
		}
		for _, name := range requested {
			canonical, ok := byName[name]
			if !ok {
				return nil, fmt.Errorf("unknown source: %s", name)
			}
			wanted[canonical] = struct{}{}
		}
	}

	var selected []scraper.Scraper
	for _, name := range scraper.Order {
		if all {
			if !cfg.SourceEnabled(name) {
				continue
			}
		} else if _, ok := wanted[name]; !ok {
			continue
		}
		selected = append(selected, registry[name])
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("no sources selected")
	}
	return selected, nil
}

func writeEvents(ctx *Context, s *ScrapeCmd, events []models.Event) error {
	format, err := resolveFormat(ctx, s.Format, s.Output)
	if err != nil {
		return err
	}

	writer := ctx.Out
	if s.Output != "" {
		file, err := os.Create(s.Output)
		if err != nil {
			return err
		}
		defer file.Close()
		writer = file
	}

	colorEnabled := ctx.UI != nil && ctx.UI.ColorEnabled && s.Output == ""
	return export.WriteEvents(writer, events, format, export.WriteOptions{
		ColorEnabled: colorEnabled,
		Hyperlinks:   colorEnabled && isTTY(writer),
	})
}

func pushEvents(runCtx context.Context, ctx *Context, events []models.Event) (models.PushResult, error) {
	cfg := ctx.Config

	client, err := network.NewClient(cfg.Browser.UserAgent)
	if err != nil {
		return models.PushResult{}, err
	}

	if cfg.WebhookURL != "" {
		webhook := store.NewWebhook(client, cfg.WebhookURL)
		return webhook.Send(runCtx, events)
	}

	apiKey := config.AirtableAPIKey()
	if apiKey == "" {
		return models.PushResult{}, fmt.Errorf("EVENTSBOARD_AIRTABLE_API_KEY is not set (use --dry-run to skip pushing)")
	}
	if cfg.Airtable.BaseID == "" {
		return models.PushResult{}, fmt.Errorf("airtable base_id is not configured")
	}

	pusher := &store.Pusher{
		Store:  store.NewAirtable(client, apiKey, cfg.Airtable.BaseID, cfg.Airtable.Table),
		Logger: ctx.Logger,
		Delay:  cfg.BatchDelay(),
	}
	return pusher.Push(runCtx, events), nil
}

// dedupeEvents drops in-run duplicates by source_event_id; the first
// occurrence wins. Cross-run dedup happens at the store.
func dedupeEvents(events []models.Event) []models.Event {
	seen := make(map[string]struct{}, len(events))
	out := make([]models.Event, 0, len(events))
	for _, event := range events {
		key := event.Source + "/" + event.SourceEventID
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, event)
	}
	return out
}

func printScrapeSummary(ctx *Context, stats []models.SourceStats, pushed *models.PushResult) {
	if ctx == nil || ctx.Err == nil {
		return
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return strings.ToLower(stats[i].Source) < strings.ToLower(stats[j].Source)
	})

	var raw, valid int
	parts := make([]string, 0, len(stats))
	for _, s := range stats {
		raw += s.Raw
		valid += s.Valid
		parts = append(parts, fmt.Sprintf("%s:%d/%d", strings.ToLower(s.Source), s.Valid, s.Raw))
	}

	line := fmt.Sprintf("summary: valid=%d raw=%d by_source=%s", valid, raw, strings.Join(parts, ", "))
	if pushed != nil {
		line += fmt.Sprintf(" created=%d updated=%d errors=%d", pushed.Created, pushed.Updated, pushed.Errors)
	}
	fmt.Fprintln(ctx.Err, line)
}

func resolveFormat(ctx *Context, flagFormat, outputPath string) (export.Format, error) {
	if ctx.JSONOutput {
		return export.FormatJSON, nil
	}
	if ctx.PlainText {
		return export.FormatTSV, nil
	}
	if flagFormat != "" {
		return parseFormat(flagFormat)
	}
	if outputPath != "" {
		return export.FormatCSV, nil
	}
	if isTTY(ctx.Out) {
		return export.FormatTable, nil
	}
	return export.FormatCSV, nil
}

func parseFormat(value string) (export.Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "csv":
		return export.FormatCSV, nil
	case "json":
		return export.FormatJSON, nil
	case "md", "markdown":
		return export.FormatMarkdown, nil
	case "tsv":
		return export.FormatTSV, nil
	case "table", "":
		return export.FormatTable, nil
	default:
		return "", fmt.Errorf("unknown format: %s", value)
	}
}

func isTTY(out io.Writer) bool {
	output := termenv.NewOutput(out)
	return output.ColorProfile() != termenv.Ascii
}

func startScrapeIndicator(ctx *Context) func() {
	if ctx == nil || ctx.Err == nil || ctx.UI == nil {
		return nil
	}
	if ctx.Verbose || !isTTY(ctx.Err) {
		return nil
	}

	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		start := time.Now()
		frames := []string{"|", "/", "-", "\\"}
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		index := 0

		for {
			select {
			case <-done:
				fmt.Fprint(ctx.Err, "\r\033[2K")
				return
			case <-ticker.C:
				seconds := int(time.Since(start).Seconds())
				frame := frames[index%len(frames)]
				fmt.Fprintf(ctx.Err, "\r\033[2KScraping... %ds %s", seconds, frame)
				index++
			}
		}
	}()

	var once bool
	return func() {
		if once {
			return
		}
		once = true
		close(done)
		<-stopped
	}
}
