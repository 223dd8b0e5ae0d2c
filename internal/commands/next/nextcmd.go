package next

import (
	"context"
	"fmt"

	"github.com/indaco/plugrel/internal/clix"
	"github.com/indaco/plugrel/internal/config"
	"github.com/indaco/plugrel/internal/printer"
	"github.com/urfave/cli/v3"
)

// Run returns the "next" command.
func Run(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "next",
		Usage:     "Print the version and tag the next release would use",
		UsageText: "plugrel next [--quiet]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Print only the tag",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runNextCmd(ctx, cmd, cfg)
		},
	}
}

func runNextCmd(ctx context.Context, cmd *cli.Command, cfg *config.Config) error {
	plan, err := clix.NewPipeline(cfg, clix.Flags{DryRun: true}).Plan(ctx)
	if err != nil {
		return clix.Fail(err)
	}
	res := plan.Resolution

	if cmd.Bool("quiet") {
		printer.Println(res.Tag)
		return nil
	}

	for _, tag := range res.Collisions {
		printer.PrintFaint(fmt.Sprintf("Tag %s already exists", tag))
	}
	if res.Updated {
		printer.PrintInfo(fmt.Sprintf("Next release: %s (manifest version %s is taken)", res.Tag, res.Start))
	} else {
		printer.PrintInfo(fmt.Sprintf("Next release: %s", res.Tag))
	}
	return nil
}
