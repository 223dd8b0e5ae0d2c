package release

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize/english"
	"github.com/indaco/plugrel/internal/core"
	"github.com/indaco/plugrel/internal/git"
	"github.com/indaco/plugrel/internal/manifest"
	"github.com/indaco/plugrel/internal/printer"
	"github.com/indaco/plugrel/internal/resolver"
	"github.com/indaco/plugrel/internal/scanner"
	"github.com/indaco/plugrel/internal/tui"
)

// Prompter abstracts interactive prompts for testability.
type Prompter interface {
	Confirm(title, description string) (bool, error)
}

// TUIPrompter implements Prompter using the tui package.
type TUIPrompter struct{}

// Confirm shows a yes/no confirmation prompt.
func (TUIPrompter) Confirm(title, description string) (bool, error) {
	return tui.Confirm(title, description)
}

// Options configure a Pipeline.
type Options struct {
	ManifestPath string
	PluginsDir   string

	Scanner   scanner.Options
	Resolver  resolver.Options
	Committer CommitterOptions

	// DryRun writes no files and runs no mutating git commands.
	DryRun bool

	// NoPush stops after tagging.
	NoPush bool

	// AssumeYes skips the push confirmation.
	AssumeYes bool
}

// Pipeline runs the release steps in order.
type Pipeline struct {
	fs          core.FileSystem
	query       core.GitQueryOperations
	write       core.GitWriteOperations
	prompter    Prompter
	interactive func() bool
	now         func() time.Time
	opts        Options
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithPrompter sets the prompter used to confirm the push.
func WithPrompter(p Prompter) Option {
	return func(pl *Pipeline) { pl.prompter = p }
}

// WithInteractive overrides terminal detection.
func WithInteractive(fn func() bool) Option {
	return func(pl *Pipeline) { pl.interactive = fn }
}

// WithClock sets the time source used for lastUpdated and {date}.
func WithClock(now func() time.Time) Option {
	return func(pl *Pipeline) { pl.now = now }
}

// NewPipeline creates a Pipeline.
func NewPipeline(fs core.FileSystem, query core.GitQueryOperations, write core.GitWriteOperations, opts Options, options ...Option) *Pipeline {
	p := &Pipeline{
		fs:          fs,
		query:       query,
		write:       write,
		prompter:    TUIPrompter{},
		interactive: tui.IsInteractive,
		now:         time.Now,
		opts:        opts,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Plan is what the next release would do, computed without side effects.
type Plan struct {
	Manifest   *manifest.Manifest
	Scan       *scanner.Result
	Resolution resolver.Resolution
}

// Report summarizes a release run.
type Report struct {
	Plan       *Plan
	Target     Target
	Committed  bool
	TagCreated bool
	Branch     string
	Pushed     bool

	// DryRunCommands lists the git commands a dry run skipped.
	DryRunCommands []string
}

// Plan loads the manifest, scans the plugins and resolves the release version.
func (p *Pipeline) Plan(ctx context.Context) (*Plan, error) {
	m, err := manifest.NewStore(p.fs).Load(ctx, p.opts.ManifestPath)
	if err != nil {
		return nil, err
	}

	scan, err := scanner.New(p.fs, p.opts.Scanner).Scan(ctx, p.opts.PluginsDir)
	if err != nil {
		return nil, err
	}

	start, err := m.Version()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", m.Path, err)
	}

	tags, err := p.query.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}

	res, err := resolver.Resolve(start, resolver.NewTagSet(tags), p.opts.Resolver)
	if err != nil {
		return nil, err
	}

	return &Plan{Manifest: m, Scan: scan, Resolution: res}, nil
}

// Run performs the full release.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	printer.PrintSuccess("Starting release process...")
	printer.PrintInfo("Syncing plugin configs...")

	plan, err := p.Plan(ctx)
	if err != nil {
		return nil, err
	}
	PrintScan(plan.Scan)
	for _, tag := range plan.Resolution.Collisions {
		printer.PrintWarning(fmt.Sprintf("Tag %s already exists. Incrementing version...", tag))
	}

	target := Target{
		Version: plan.Resolution.Version,
		Tag:     plan.Resolution.Tag,
		Date:    p.now(),
	}
	report := &Report{Plan: plan, Target: target}

	m := plan.Manifest
	original := m.Bytes()
	if err := m.SetVersion(target.Version); err != nil {
		return nil, err
	}
	if err := m.SetLastUpdated(target.Date); err != nil {
		return nil, err
	}
	if err := m.SetPlugins(plan.Scan.EntriesJSON()); err != nil {
		return nil, err
	}

	query := p.query
	write := p.write
	var dry *git.DryRunOperations
	if p.opts.DryRun {
		printer.PrintInfo(fmt.Sprintf("[dry-run] would update %s (Version: %s)", m.Path, target.Version))
		dry = git.NewDryRunOperations(func(line string) {
			printer.PrintInfo("[dry-run] would run: " + line)
		})
		write = dry
		if !bytes.Equal(original, m.Bytes()) {
			query = pendingChanges{GitQueryOperations: query, path: m.Path}
		}
	} else {
		if err := manifest.NewStore(p.fs).Save(ctx, m); err != nil {
			return nil, err
		}
		printer.PrintSuccess(fmt.Sprintf("Updated %s (Version: %s)", m.Path, target.Version))
	}

	committer := NewCommitter(query, write, p.opts.Committer)
	if report.Committed, err = committer.Commit(ctx, target); err != nil {
		return report, err
	}
	if report.TagCreated, err = committer.Tag(ctx, target); err != nil {
		return report, err
	}

	if p.opts.NoPush {
		printer.PrintInfo("Skipping push (--no-push).")
		report.DryRunCommands = dryCommands(dry)
		return report, nil
	}

	report.Branch = committer.Branch(ctx)
	if !p.opts.DryRun && !p.opts.AssumeYes && p.prompter != nil && p.interactive() {
		ok, err := p.prompter.Confirm(
			fmt.Sprintf("Push %s and %s to %s?", report.Branch, target.Tag, committer.Remote()),
			"The commit and tag stay local if you answer no.",
		)
		if err != nil {
			return report, err
		}
		if !ok {
			printer.PrintWarning("Push cancelled. The commit and tag are kept locally.")
			return report, nil
		}
	}

	if err := committer.Push(ctx, target, report.Branch); err != nil {
		return report, err
	}
	report.Pushed = !p.opts.DryRun
	report.DryRunCommands = dryCommands(dry)

	if p.opts.DryRun {
		printer.PrintSuccess(fmt.Sprintf("Dry run of release %s finished. Nothing was changed.", target.Tag))
	} else {
		printer.PrintSuccess(fmt.Sprintf("Release %s completed!", target.Tag))
	}
	return report, nil
}

// SyncReport summarizes a sync run.
type SyncReport struct {
	Scan    *scanner.Result
	InSync  bool
	Written bool
}

// Sync rewrites the manifest plugins and lastUpdated from the plugin
// descriptors. With check set, nothing is written and InSync reports drift.
func (p *Pipeline) Sync(ctx context.Context, check bool) (*SyncReport, error) {
	store := manifest.NewStore(p.fs)
	m, err := store.Load(ctx, p.opts.ManifestPath)
	if err != nil {
		return nil, err
	}
	scan, err := scanner.New(p.fs, p.opts.Scanner).Scan(ctx, p.opts.PluginsDir)
	if err != nil {
		return nil, err
	}

	entries := scan.EntriesJSON()
	equal, err := m.PluginsEqual(entries)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", m.Path, err)
	}
	report := &SyncReport{Scan: scan, InSync: equal}
	if check || equal {
		return report, nil
	}

	if err := m.SetPlugins(entries); err != nil {
		return nil, err
	}
	if err := m.SetLastUpdated(p.now()); err != nil {
		return nil, err
	}
	if p.opts.DryRun {
		printer.PrintInfo(fmt.Sprintf("[dry-run] would update %s", m.Path))
		return report, nil
	}
	if err := store.Save(ctx, m); err != nil {
		return nil, err
	}
	report.Written = true
	return report, nil
}

// PrintScan reports accepted, skipped and duplicate plugins.
func PrintScan(res *scanner.Result) {
	for _, e := range res.Entries {
		printer.Printf("   %s Added %s (%s)\n", printer.SuccessBadge("+"), e.ID, e.Version)
	}
	for _, s := range res.Skipped {
		printer.Printf("   %s Skipped %s (%v)\n", printer.WarningBadge("-"), s.Dir, s.Reason)
	}
	if dups := res.DuplicateIDs(); len(dups) > 0 {
		printer.PrintWarning(fmt.Sprintf("Duplicate plugin %s: %v",
			english.PluralWord(len(dups), "id", ""), dups))
	}
	printer.PrintFaint(fmt.Sprintf("%s added, %s skipped",
		english.Plural(len(res.Entries), "plugin", ""),
		english.Plural(len(res.Skipped), "plugin", "")))
}

// pendingChanges reports the manifest as modified in a dry run, where it is
// never written.
type pendingChanges struct {
	core.GitQueryOperations
	path string
}

func (q pendingChanges) Status(ctx context.Context) (string, error) {
	status, err := q.GitQueryOperations.Status(ctx)
	if err != nil {
		return "", err
	}
	return status + " M " + q.path + "\n", nil
}

func dryCommands(dry *git.DryRunOperations) []string {
	if dry == nil {
		return nil
	}
	return dry.Commands
}
