package cli

import (
	"context"
	"fmt"

	"github.com/indaco/plugrel/internal/commands/initialize"
	"github.com/indaco/plugrel/internal/commands/list"
	"github.com/indaco/plugrel/internal/commands/next"
	"github.com/indaco/plugrel/internal/commands/release"
	"github.com/indaco/plugrel/internal/commands/syncplugins"
	"github.com/indaco/plugrel/internal/config"
	"github.com/indaco/plugrel/internal/printer"
	"github.com/indaco/plugrel/internal/tui"
	"github.com/indaco/plugrel/internal/version"
	urfavecli "github.com/urfave/cli/v3"
)

// New builds and returns the root CLI command,
// configuring all subcommands and flags for the plugrel cli.
//
// Global flags are applied to cfg before any subcommand runs, so every
// subcommand sees the final configuration.
func New(cfg *config.Config) *urfavecli.Command {
	var noColor bool

	return &urfavecli.Command{
		Name:                  "plugrel",
		Version:               fmt.Sprintf("v%s", version.GetVersion()),
		Usage:                 "Release automation for plugin collections",
		EnableShellCompletion: true,
		Flags: []urfavecli.Flag{
			&urfavecli.StringFlag{
				Name:        "manifest",
				Aliases:     []string{"m"},
				Usage:       "Path to the release manifest",
				Value:       cfg.Manifest,
				Destination: &cfg.Manifest,
			},
			&urfavecli.StringFlag{
				Name:        "plugins-dir",
				Aliases:     []string{"d"},
				Usage:       "Directory holding one subdirectory per plugin",
				Value:       cfg.PluginsDir,
				Destination: &cfg.PluginsDir,
			},
			&urfavecli.StringFlag{
				Name:        "remote",
				Usage:       "Git remote to push to",
				Value:       cfg.Remote,
				Destination: &cfg.Remote,
			},
			&urfavecli.BoolFlag{
				Name:        "no-color",
				Usage:       "Disable colored output",
				Destination: &noColor,
			},
		},
		Before: func(ctx context.Context, cmd *urfavecli.Command) (context.Context, error) {
			printer.SetNoColor(noColor)
			tui.SetTheme(cfg.Theme)
			if err := cfg.Validate(); err != nil {
				return ctx, urfavecli.Exit(err.Error(), 1)
			}
			return ctx, nil
		},
		ExitErrHandler: func(context.Context, *urfavecli.Command, error) {},
		Commands: []*urfavecli.Command{
			initialize.Run(cfg),
			list.Run(cfg),
			next.Run(cfg),
			syncplugins.Run(cfg),
			release.Run(cfg),
		},
	}
}
