package core

import "context"

// GitQueryOperations are the read-only git calls used by the release flow.
// They are safe to run in dry-run mode.
type GitQueryOperations interface {
	// Status returns the output of `git status --porcelain`.
	Status(ctx context.Context) (string, error)

	// ListTags returns every local tag name.
	ListTags(ctx context.Context) ([]string, error)

	// CurrentBranch returns the checked-out branch, or "" on a detached HEAD.
	CurrentBranch(ctx context.Context) (string, error)
}

// GitWriteOperations are the git calls that mutate the working tree,
// the local refs or the remote.
type GitWriteOperations interface {
	StageAll(ctx context.Context) error
	Commit(ctx context.Context, message string) error
	CreateLightweightTag(ctx context.Context, name string) error
	CreateAnnotatedTag(ctx context.Context, name, message string) error
	Push(ctx context.Context, remote, ref string) error
}
