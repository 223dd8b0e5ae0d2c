// Package testutils provides helpers shared by command tests.
package testutils

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/indaco/plugrel/internal/clix"
	"github.com/indaco/plugrel/internal/core"
	"github.com/indaco/plugrel/internal/git"
	"github.com/indaco/plugrel/internal/printer"
	"github.com/indaco/plugrel/internal/release"
	"github.com/urfave/cli/v3"
)

// FakeGit combines the query and write mocks into one clix.GitOperations.
type FakeGit struct {
	*git.MockGitQueryOperations
	*git.MockGitWriteOperations

	// Calls records mutating operations in order.
	Calls []string
}

// NewFakeGit returns a FakeGit that reports the given tags, a dirty tree and
// branch main, and records every mutating call.
func NewFakeGit(tags ...string) *FakeGit {
	f := &FakeGit{}
	f.MockGitQueryOperations = &git.MockGitQueryOperations{
		StatusFn:        func(context.Context) (string, error) { return " M releases/plugins.json\n", nil },
		ListTagsFn:      func(context.Context) ([]string, error) { return tags, nil },
		CurrentBranchFn: func(context.Context) (string, error) { return "main", nil },
	}
	f.MockGitWriteOperations = &git.MockGitWriteOperations{
		StageAllFn: func(context.Context) error {
			f.Calls = append(f.Calls, "git add .")
			return nil
		},
		CommitFn: func(_ context.Context, msg string) error {
			f.Calls = append(f.Calls, git.CommandLine("commit", "-m", msg))
			return nil
		},
		CreateLightweightTagFn: func(_ context.Context, name string) error {
			f.Calls = append(f.Calls, git.CommandLine("tag", name))
			return nil
		},
		CreateAnnotatedTagFn: func(_ context.Context, name, msg string) error {
			f.Calls = append(f.Calls, git.CommandLine("tag", "-a", name, "-m", msg))
			return nil
		},
		PushFn: func(_ context.Context, remote, ref string) error {
			f.Calls = append(f.Calls, git.CommandLine("push", remote, ref))
			return nil
		},
	}
	return f
}

// StubFactories points the clix factories at fs and g for the duration of
// the test. Pipelines never prompt and use a fixed clock.
func StubFactories(t *testing.T, fs core.FileSystem, g clix.GitOperations, now time.Time) {
	t.Helper()
	origFS, origGit, origOpts := clix.FileSystemFn, clix.GitFn, clix.PipelineOptionsFn
	t.Cleanup(func() {
		clix.FileSystemFn, clix.GitFn, clix.PipelineOptionsFn = origFS, origGit, origOpts
	})

	clix.FileSystemFn = func() core.FileSystem { return fs }
	clix.GitFn = func() clix.GitOperations { return g }
	clix.PipelineOptionsFn = func() []release.Option {
		return []release.Option{
			release.WithClock(func() time.Time { return now }),
			release.WithInteractive(func() bool { return false }),
		}
	}
}

// CaptureOutput redirects printer output to a buffer until the test ends.
func CaptureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := printer.SetOutput(&buf)
	printer.SetNoColor(true)
	t.Cleanup(func() {
		printer.SetOutput(prev)
		printer.SetNoColor(false)
	})
	return &buf
}

// RunCommand runs cmd as the only subcommand of a throwaway root command and
// returns its error without exiting the process.
func RunCommand(t *testing.T, cmd *cli.Command, args ...string) error {
	t.Helper()
	app := &cli.Command{
		Name:           "plugrel",
		Writer:         io.Discard,
		ErrWriter:      io.Discard,
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
		Commands:       []*cli.Command{cmd},
	}
	return app.Run(context.Background(), append([]string{"plugrel"}, args...))
}

// PluginRepo returns a MockFileSystem holding a manifest at version and the
// plugins "a" (valid), "b" (missing fields) and ".hidden".
func PluginRepo(version string) *core.MockFileSystem {
	fs := core.NewMockFileSystem()
	fs.SetFile("releases/plugins.json", []byte(`{"version":"`+version+`","lastUpdated":"2020-01-01","plugins":[]}`))
	fs.SetFile("plugins/a/config.json", []byte(`{"id":"a","version":"1.0","downloadUrl":"https://example.com/a.zip"}`))
	fs.SetFile("plugins/b/config.json", []byte(`{}`))
	fs.MkdirAll("plugins/.hidden")
	return fs
}
