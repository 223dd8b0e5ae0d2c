package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/indaco/plugrel/internal/cli"
	"github.com/indaco/plugrel/internal/config"
	"github.com/indaco/plugrel/internal/core"
	"github.com/indaco/plugrel/internal/printer"
	urfavecli "github.com/urfave/cli/v3"
)

func main() {
	if err := runCLI(os.Args); err != nil {
		if msg := err.Error(); msg != "" {
			printer.PrintError(msg)
		}
		code := 1
		var exit urfavecli.ExitCoder
		if errors.As(err, &exit) && exit.ExitCode() != 0 {
			code = exit.ExitCode()
		}
		os.Exit(code)
	}
}

// runCLI loads the configuration and runs the root command.
func runCLI(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.LoadConfigFn(ctx, core.NewOSFileSystem(), config.FileName)
	if err != nil {
		return err
	}

	return cli.New(cfg).Run(ctx, args)
}
