// Package git runs the git command line tool on behalf of the release flow.
package git

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/indaco/plugrel/internal/core"
)

// OSGitOperations implements the core git interfaces by executing git.
//
// Mutating commands inherit the configured stdout/stderr so their progress is
// visible; stderr is also captured to classify failures.
type OSGitOperations struct {
	execCommand func(ctx context.Context, name string, arg ...string) *exec.Cmd
	dir         string
	stdout      io.Writer
	stderr      io.Writer
	trace       func(cmdline string)
}

// Option configures OSGitOperations.
type Option func(*OSGitOperations)

// WithDir runs git in dir instead of the current working directory.
func WithDir(dir string) Option {
	return func(g *OSGitOperations) { g.dir = dir }
}

// WithOutput sets the streams mutating commands write to.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(g *OSGitOperations) {
		g.stdout = stdout
		g.stderr = stderr
	}
}

// WithTrace registers a callback invoked with each mutating command line
// before it runs.
func WithTrace(fn func(cmdline string)) Option {
	return func(g *OSGitOperations) { g.trace = fn }
}

// NewOSGitOperations creates OSGitOperations using exec.CommandContext.
func NewOSGitOperations(opts ...Option) *OSGitOperations {
	g := &OSGitOperations{
		execCommand: exec.CommandContext,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

var (
	_ core.GitQueryOperations = (*OSGitOperations)(nil)
	_ core.GitWriteOperations = (*OSGitOperations)(nil)
)

func (g *OSGitOperations) Status(ctx context.Context) (string, error) {
	return g.output(ctx, "status", "--porcelain")
}

func (g *OSGitOperations) ListTags(ctx context.Context) ([]string, error) {
	out, err := g.output(ctx, "tag")
	if err != nil {
		return nil, err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return []string{}, nil
	}
	lines := strings.Split(out, "\n")
	tags := make([]string, 0, len(lines))
	for _, l := range lines {
		if t := strings.TrimSpace(l); t != "" {
			tags = append(tags, t)
		}
	}
	return tags, nil
}

func (g *OSGitOperations) CurrentBranch(ctx context.Context) (string, error) {
	out, err := g.output(ctx, "branch", "--show-current")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (g *OSGitOperations) StageAll(ctx context.Context) error {
	return g.run(ctx, "add", ".")
}

func (g *OSGitOperations) Commit(ctx context.Context, message string) error {
	return g.run(ctx, "commit", "-m", message)
}

func (g *OSGitOperations) CreateLightweightTag(ctx context.Context, name string) error {
	return g.run(ctx, "tag", name)
}

func (g *OSGitOperations) CreateAnnotatedTag(ctx context.Context, name, message string) error {
	return g.run(ctx, "tag", "-a", name, "-m", message)
}

func (g *OSGitOperations) Push(ctx context.Context, remote, ref string) error {
	return g.run(ctx, "push", remote, ref)
}

// run executes a mutating git command with inherited output streams.
func (g *OSGitOperations) run(ctx context.Context, args ...string) error {
	if g.trace != nil {
		g.trace(CommandLine(args...))
	}

	cmd := g.execCommand(ctx, "git", args...)
	cmd.Dir = g.dir
	var stderr bytes.Buffer
	cmd.Stdout = g.stdout
	cmd.Stderr = io.MultiWriter(g.stderr, &stderr)

	if err := cmd.Run(); err != nil {
		return NewCommandError(args, stderr.String(), err)
	}
	return nil
}

// output executes a read-only git command and returns its stdout.
func (g *OSGitOperations) output(ctx context.Context, args ...string) (string, error) {
	cmd := g.execCommand(ctx, "git", args...)
	cmd.Dir = g.dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", NewCommandError(args, stderr.String(), err)
	}
	return stdout.String(), nil
}

// CommandLine renders git arguments the way a user would type them.
func CommandLine(args ...string) string {
	quoted := make([]string, 0, len(args)+1)
	quoted = append(quoted, "git")
	for _, a := range args {
		if a == "" || strings.ContainsAny(a, " \t\"'") {
			a = `"` + strings.ReplaceAll(a, `"`, `\"`) + `"`
		}
		quoted = append(quoted, a)
	}
	return strings.Join(quoted, " ")
}
