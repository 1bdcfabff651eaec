package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/tayseermbabiker/usa-events-board/internal/scraper"
)

type SourcesCmd struct{}

type sourceInfo struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

func (c *SourcesCmd) Run(ctx *Context) error {
	infos := make([]sourceInfo, 0, len(scraper.Order))
	for _, name := range scraper.Order {
		infos = append(infos, sourceInfo{
			Name:    name,
			Enabled: ctx.Config.SourceEnabled(name),
		})
	}

	if ctx.JSONOutput {
		enc := json.NewEncoder(ctx.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	if ctx.PlainText {
		for _, info := range infos {
			fmt.Fprintf(ctx.Out, "%s\t%t\n", strings.ToLower(info.Name), info.Enabled)
		}
		return nil
	}

	tw := tabwriter.NewWriter(ctx.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "source\tenabled")
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%t\n", strings.ToLower(info.Name), info.Enabled)
	}
	return tw.Flush()
}
