package syncplugins

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize/english"
	"github.com/indaco/plugrel/internal/clix"
	"github.com/indaco/plugrel/internal/config"
	"github.com/indaco/plugrel/internal/printer"
	"github.com/indaco/plugrel/internal/release"
	"github.com/urfave/cli/v3"
)

// Run returns the "sync" command.
func Run(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "sync",
		Usage:     "Rebuild the manifest plugin list from the plugin descriptors",
		UsageText: "plugrel sync [--check] [--dry-run]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "check",
				Usage: "Exit non-zero if the manifest is out of date, without writing",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Show what would change without writing",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runSyncCmd(ctx, cmd, cfg)
		},
	}
}

func runSyncCmd(ctx context.Context, cmd *cli.Command, cfg *config.Config) error {
	check := cmd.Bool("check")
	pipeline := clix.NewPipeline(cfg, clix.Flags{DryRun: cmd.Bool("dry-run")})

	report, err := pipeline.Sync(ctx, check)
	if err != nil {
		return clix.Fail(err)
	}
	release.PrintScan(report.Scan)

	switch {
	case report.InSync:
		printer.PrintSuccess(fmt.Sprintf("%s is up to date.", cfg.Manifest))
	case check:
		return cli.Exit(fmt.Sprintf("%s is out of date (%s scanned); run 'plugrel sync'",
			cfg.Manifest, english.Plural(len(report.Scan.Entries), "plugin", "")), 1)
	case report.Written:
		printer.PrintSuccess(fmt.Sprintf("Updated %s.", cfg.Manifest))
	}
	return nil
}
