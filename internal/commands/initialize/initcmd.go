package initialize

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/indaco/plugrel/internal/clix"
	"github.com/indaco/plugrel/internal/config"
	"github.com/indaco/plugrel/internal/printer"
	"github.com/urfave/cli/v3"
)

// Run returns the "init" command.
func Run(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "init",
		Usage:     "Write a " + config.FileName + " with the current settings",
		UsageText: "plugrel init [--force]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing config file",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runInitCmd(ctx, cmd, cfg)
		},
	}
}

func runInitCmd(ctx context.Context, cmd *cli.Command, cfg *config.Config) error {
	fsys := clix.FileSystemFn()

	_, err := fsys.Stat(ctx, config.FileName)
	switch {
	case err == nil && !cmd.Bool("force"):
		return cli.Exit(fmt.Sprintf("%s already exists (use --force to overwrite)", config.FileName), 1)
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return clix.Fail(err)
	}

	if err := config.Save(ctx, fsys, config.FileName, cfg); err != nil {
		return clix.Fail(err)
	}
	printer.PrintSuccess(fmt.Sprintf("Created %s", config.FileName))
	return nil
}
