package list

import (
	"bytes"
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize/english"
	"github.com/indaco/plugrel/internal/clix"
	"github.com/indaco/plugrel/internal/config"
	"github.com/indaco/plugrel/internal/printer"
	"github.com/indaco/plugrel/internal/scanner"
	"github.com/tidwall/pretty"
	"github.com/urfave/cli/v3"
)

// Run returns the "list" command.
func Run(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "List the plugins that would be released",
		UsageText: "plugrel list [--json]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the manifest entries as JSON",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runListCmd(ctx, cmd, cfg)
		},
	}
}

func runListCmd(ctx context.Context, cmd *cli.Command, cfg *config.Config) error {
	opts := clix.Options(cfg, clix.Flags{})
	res, err := scanner.New(clix.FileSystemFn(), opts.Scanner).Scan(ctx, cfg.PluginsDir)
	if err != nil {
		return clix.Fail(err)
	}

	if cmd.Bool("json") {
		raw := []byte("[" + string(bytes.Join(res.EntriesJSON(), []byte(","))) + "]")
		printer.Printf("%s", pretty.Pretty(raw))
		return nil
	}

	if len(res.Entries) == 0 {
		printer.PrintWarning(fmt.Sprintf("No plugins found in %s", cfg.PluginsDir))
	} else {
		printer.Println(renderTable(res))
	}

	for _, s := range res.Skipped {
		printer.PrintWarning(fmt.Sprintf("Skipped %s: %v", s.Dir, s.Reason))
	}
	for _, id := range res.DuplicateIDs() {
		printer.PrintWarning(fmt.Sprintf("Duplicate plugin id %q", id))
	}
	printer.PrintFaint(fmt.Sprintf("%s, %s skipped",
		english.Plural(len(res.Entries), "plugin", ""),
		english.Plural(len(res.Skipped), "directory", "directories")))
	return nil
}

func renderTable(res *scanner.Result) string {
	rows := make([][]string, len(res.Entries))
	for i, e := range res.Entries {
		rows[i] = []string{e.Dir, e.ID, e.Version, e.FileName}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("DIRECTORY", "ID", "VERSION", "FILE").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		String()
}
