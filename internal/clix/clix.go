// Package clix holds the glue shared by plugrel subcommands: building a
// release pipeline from configuration and turning errors into exit codes.
package clix

import (
	"errors"
	"fmt"

	"github.com/indaco/plugrel/internal/config"
	"github.com/indaco/plugrel/internal/core"
	"github.com/indaco/plugrel/internal/git"
	"github.com/indaco/plugrel/internal/printer"
	"github.com/indaco/plugrel/internal/release"
	"github.com/indaco/plugrel/internal/resolver"
	"github.com/indaco/plugrel/internal/scanner"
	"github.com/urfave/cli/v3"
)

// GitOperations is the full set of git calls a release needs.
type GitOperations interface {
	core.GitQueryOperations
	core.GitWriteOperations
}

// Factories used by commands; replaced in tests.
var (
	FileSystemFn = func() core.FileSystem {
		return core.NewOSFileSystem()
	}
	GitFn = func() GitOperations {
		return git.NewOSGitOperations(git.WithTrace(func(line string) {
			printer.PrintInfo("Executing: " + line)
		}))
	}
	PipelineOptionsFn = func() []release.Option { return nil }
)

// Flags shared by commands that cut or preview a release.
type Flags struct {
	DryRun    bool
	NoPush    bool
	AssumeYes bool
}

// Options maps cfg and flags onto pipeline options.
func Options(cfg *config.Config, flags Flags) release.Options {
	return release.Options{
		ManifestPath: cfg.Manifest,
		PluginsDir:   cfg.PluginsDir,
		Scanner: scanner.Options{
			DescriptorName: cfg.Descriptor,
			StripFields:    cfg.StripFields,
			StrictVersions: cfg.StrictVersions,
		},
		Resolver: resolver.Options{
			Prefix:        cfg.TagPrefix,
			MaxIncrements: cfg.MaxIncrements,
		},
		Committer: release.CommitterOptions{
			Remote:        cfg.Remote,
			DefaultBranch: cfg.DefaultBranch,
			CommitMessage: cfg.CommitMessage,
			TagMessage:    cfg.TagMessage,
			Annotate:      cfg.Annotate,
			TagExists:     release.TagExistsPolicy(cfg.TagExists),
		},
		DryRun:    flags.DryRun,
		NoPush:    flags.NoPush,
		AssumeYes: flags.AssumeYes,
	}
}

// NewPipeline builds a release pipeline from cfg and flags.
func NewPipeline(cfg *config.Config, flags Flags) *release.Pipeline {
	g := GitFn()
	return release.NewPipeline(FileSystemFn(), g, g, Options(cfg, flags), PipelineOptionsFn()...)
}

type suggester interface {
	Suggestion() string
}

// Fail converts err into a cli exit error with status 1. Git failures print
// their classified suggestions; other errors carry their suggestion, if any,
// in the message.
func Fail(err error) error {
	var cmdErr *git.CommandError
	if errors.As(err, &cmdErr) {
		git.PrintError(err)
		return cli.Exit("", 1)
	}

	var s suggester
	if errors.As(err, &s) && s.Suggestion() != "" {
		return cli.Exit(fmt.Sprintf("%v\n  Hint: %s", err, s.Suggestion()), 1)
	}
	return cli.Exit(err.Error(), 1)
}
