package git

import (
	"context"

	"github.com/indaco/plugrel/internal/core"
)

// DryRunOperations implements core.GitWriteOperations by reporting each
// command instead of running it.
type DryRunOperations struct {
	report func(cmdline string)

	// Commands records every command that would have run, in order.
	Commands []string
}

// NewDryRunOperations creates DryRunOperations. report may be nil.
func NewDryRunOperations(report func(cmdline string)) *DryRunOperations {
	return &DryRunOperations{report: report}
}

var _ core.GitWriteOperations = (*DryRunOperations)(nil)

func (d *DryRunOperations) StageAll(ctx context.Context) error {
	return d.record(ctx, "add", ".")
}

func (d *DryRunOperations) Commit(ctx context.Context, message string) error {
	return d.record(ctx, "commit", "-m", message)
}

func (d *DryRunOperations) CreateLightweightTag(ctx context.Context, name string) error {
	return d.record(ctx, "tag", name)
}

func (d *DryRunOperations) CreateAnnotatedTag(ctx context.Context, name, message string) error {
	return d.record(ctx, "tag", "-a", name, "-m", message)
}

func (d *DryRunOperations) Push(ctx context.Context, remote, ref string) error {
	return d.record(ctx, "push", remote, ref)
}

func (d *DryRunOperations) record(ctx context.Context, args ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	line := CommandLine(args...)
	d.Commands = append(d.Commands, line)
	if d.report != nil {
		d.report(line)
	}
	return nil
}
