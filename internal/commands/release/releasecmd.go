package release

import (
	"context"

	"github.com/indaco/plugrel/internal/clix"
	"github.com/indaco/plugrel/internal/config"
	"github.com/urfave/cli/v3"
)

// Run returns the "release" command.
func Run(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "release",
		Usage:     "Sync the manifest, then commit, tag and push a new release",
		UsageText: "plugrel release [--dry-run] [--no-push] [--yes]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Show what would happen without writing files or running mutating git commands",
			},
			&cli.BoolFlag{
				Name:  "no-push",
				Usage: "Stop after creating the tag",
			},
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Push without asking for confirmation",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runReleaseCmd(ctx, cmd, cfg)
		},
	}
}

func runReleaseCmd(ctx context.Context, cmd *cli.Command, cfg *config.Config) error {
	pipeline := clix.NewPipeline(cfg, clix.Flags{
		DryRun:    cmd.Bool("dry-run"),
		NoPush:    cmd.Bool("no-push"),
		AssumeYes: cmd.Bool("yes"),
	})
	if _, err := pipeline.Run(ctx); err != nil {
		return clix.Fail(err)
	}
	return nil
}
