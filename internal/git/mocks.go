package git

import (
	"context"

	"github.com/indaco/plugrel/internal/core"
)

// MockGitQueryOperations is a mock implementation of core.GitQueryOperations for testing.
type MockGitQueryOperations struct {
	StatusFn        func(ctx context.Context) (string, error)
	ListTagsFn      func(ctx context.Context) ([]string, error)
	CurrentBranchFn func(ctx context.Context) (string, error)
}

// Verify MockGitQueryOperations implements core.GitQueryOperations.
var _ core.GitQueryOperations = (*MockGitQueryOperations)(nil)

// Status implements core.GitQueryOperations.
func (m *MockGitQueryOperations) Status(ctx context.Context) (string, error) {
	if m.StatusFn != nil {
		return m.StatusFn(ctx)
	}
	return "", nil
}

// ListTags implements core.GitQueryOperations.
func (m *MockGitQueryOperations) ListTags(ctx context.Context) ([]string, error) {
	if m.ListTagsFn != nil {
		return m.ListTagsFn(ctx)
	}
	return []string{}, nil
}

// CurrentBranch implements core.GitQueryOperations.
func (m *MockGitQueryOperations) CurrentBranch(ctx context.Context) (string, error) {
	if m.CurrentBranchFn != nil {
		return m.CurrentBranchFn(ctx)
	}
	return "main", nil
}

// MockGitWriteOperations is a mock implementation of core.GitWriteOperations for testing.
type MockGitWriteOperations struct {
	StageAllFn             func(ctx context.Context) error
	CommitFn               func(ctx context.Context, message string) error
	CreateLightweightTagFn func(ctx context.Context, name string) error
	CreateAnnotatedTagFn   func(ctx context.Context, name, message string) error
	PushFn                 func(ctx context.Context, remote, ref string) error
}

// Verify MockGitWriteOperations implements core.GitWriteOperations.
var _ core.GitWriteOperations = (*MockGitWriteOperations)(nil)

// StageAll implements core.GitWriteOperations.
func (m *MockGitWriteOperations) StageAll(ctx context.Context) error {
	if m.StageAllFn != nil {
		return m.StageAllFn(ctx)
	}
	return nil
}

// Commit implements core.GitWriteOperations.
func (m *MockGitWriteOperations) Commit(ctx context.Context, message string) error {
	if m.CommitFn != nil {
		return m.CommitFn(ctx, message)
	}
	return nil
}

// CreateLightweightTag implements core.GitWriteOperations.
func (m *MockGitWriteOperations) CreateLightweightTag(ctx context.Context, name string) error {
	if m.CreateLightweightTagFn != nil {
		return m.CreateLightweightTagFn(ctx, name)
	}
	return nil
}

// CreateAnnotatedTag implements core.GitWriteOperations.
func (m *MockGitWriteOperations) CreateAnnotatedTag(ctx context.Context, name, message string) error {
	if m.CreateAnnotatedTagFn != nil {
		return m.CreateAnnotatedTagFn(ctx, name, message)
	}
	return nil
}

// Push implements core.GitWriteOperations.
func (m *MockGitWriteOperations) Push(ctx context.Context, remote, ref string) error {
	if m.PushFn != nil {
		return m.PushFn(ctx, remote, ref)
	}
	return nil
}
