package release

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/indaco/plugrel/internal/core"
	"github.com/indaco/plugrel/internal/printer"
)

// TagExistsPolicy decides what happens when the release tag is already present
// at tag time.
type TagExistsPolicy string

const (
	// TagExistsFail aborts the release with ErrTagExists.
	TagExistsFail TagExistsPolicy = "fail"

	// TagExistsSkip keeps the existing tag and continues.
	TagExistsSkip TagExistsPolicy = "skip"
)

// Defaults used when CommitterOptions fields are empty.
const (
	DefaultRemote        = "origin"
	DefaultBranch        = "main"
	DefaultCommitMessage = "chore: release {tag}"
	DefaultTagMessage    = "Release {version}"
)

// ErrTagExists is returned under TagExistsFail when the tag is already present.
var ErrTagExists = errors.New("tag already exists")

// TagExistsError wraps ErrTagExists with the tag name.
type TagExistsError struct {
	Tag string
}

func (e *TagExistsError) Error() string {
	return fmt.Sprintf("tag %s already exists", e.Tag)
}

func (e *TagExistsError) Unwrap() error {
	return ErrTagExists
}

// Suggestion returns a hint for resolving the conflict.
func (e *TagExistsError) Suggestion() string {
	return "Run the release again so a free version is picked, or set tag-exists: skip"
}

// CommitterOptions configure a Committer.
type CommitterOptions struct {
	Remote        string
	DefaultBranch string
	CommitMessage string
	TagMessage    string
	Annotate      bool
	TagExists     TagExistsPolicy
}

func (o CommitterOptions) withDefaults() CommitterOptions {
	if o.Remote == "" {
		o.Remote = DefaultRemote
	}
	if o.DefaultBranch == "" {
		o.DefaultBranch = DefaultBranch
	}
	if o.CommitMessage == "" {
		o.CommitMessage = DefaultCommitMessage
	}
	if o.TagMessage == "" {
		o.TagMessage = DefaultTagMessage
	}
	if o.TagExists == "" {
		o.TagExists = TagExistsFail
	}
	return o
}

// Committer records a release in git: commit, tag, push.
type Committer struct {
	query core.GitQueryOperations
	write core.GitWriteOperations
	opts  CommitterOptions
}

// NewCommitter creates a Committer. Queries always run; mutations go through write.
func NewCommitter(query core.GitQueryOperations, write core.GitWriteOperations, opts CommitterOptions) *Committer {
	return &Committer{query: query, write: write, opts: opts.withDefaults()}
}

// Commit stages and commits all pending changes. It reports whether a commit
// was made; a clean tree is not an error.
func (c *Committer) Commit(ctx context.Context, target Target) (bool, error) {
	status, err := c.query.Status(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check git status: %w", err)
	}
	if strings.TrimSpace(status) == "" {
		printer.PrintSuccess("Working directory clean (nothing to commit).")
		return false, nil
	}

	printer.PrintWarning("Changes detected, committing...")
	if err := c.write.StageAll(ctx); err != nil {
		return false, err
	}
	if err := c.write.Commit(ctx, target.Expand(c.opts.CommitMessage)); err != nil {
		return false, err
	}
	return true, nil
}

// Tag creates the release tag. It reports whether a tag was created.
func (c *Committer) Tag(ctx context.Context, target Target) (bool, error) {
	tags, err := c.query.ListTags(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to list tags: %w", err)
	}

	if slices.Contains(tags, target.Tag) {
		if c.opts.TagExists == TagExistsSkip {
			printer.PrintWarning(fmt.Sprintf("Tag %s already exists locally, skipping creation.", target.Tag))
			return false, nil
		}
		return false, &TagExistsError{Tag: target.Tag}
	}

	if c.opts.Annotate {
		err = c.write.CreateAnnotatedTag(ctx, target.Tag, target.Expand(c.opts.TagMessage))
	} else {
		err = c.write.CreateLightweightTag(ctx, target.Tag)
	}
	if err != nil {
		return false, err
	}
	printer.PrintSuccess(fmt.Sprintf("Tag %s created.", target.Tag))
	return true, nil
}

// Branch returns the branch to push. Detection failures and a detached HEAD
// fall back to the default branch.
func (c *Committer) Branch(ctx context.Context) string {
	branch, err := c.query.CurrentBranch(ctx)
	if err != nil || strings.TrimSpace(branch) == "" {
		printer.PrintWarning(fmt.Sprintf("Could not detect the current branch, using %s", c.opts.DefaultBranch))
		return c.opts.DefaultBranch
	}
	return strings.TrimSpace(branch)
}

// Push pushes the branch, then the tag, to the configured remote.
func (c *Committer) Push(ctx context.Context, target Target, branch string) error {
	printer.PrintWarning("Pushing to remote...")
	if err := c.write.Push(ctx, c.opts.Remote, branch); err != nil {
		return err
	}
	return c.write.Push(ctx, c.opts.Remote, target.Tag)
}

// Remote returns the remote pushes go to.
func (c *Committer) Remote() string {
	return c.opts.Remote
}
