package release

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/indaco/plugrel/internal/core"
	"github.com/indaco/plugrel/internal/git"
	"github.com/indaco/plugrel/internal/manifest"
	"github.com/indaco/plugrel/internal/printer"
	"github.com/indaco/plugrel/internal/scanner"
	"github.com/tidwall/gjson"
)

const (
	manifestPath = "releases/plugins.json"
	pluginsDir   = "plugins"
)

var fixedNow = time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

type fakePrompter struct {
	answer bool
	err    error
	asked  []string
}

func (f *fakePrompter) Confirm(title, _ string) (bool, error) {
	f.asked = append(f.asked, title)
	return f.answer, f.err
}

type fixture struct {
	fs    *core.MockFileSystem
	query *git.MockGitQueryOperations
	calls []string
}

func newFixture(version string, tags []string) *fixture {
	fs := core.NewMockFileSystem()
	fs.SetFile(manifestPath, []byte(`{"name":"market","version":"`+version+`","lastUpdated":"2020-01-01","plugins":[]}`))
	fs.SetFile(pluginsDir+"/a/config.json", []byte(`{"id":"a","version":"1.0","downloadUrl":"http://x/a.zip"}`))
	fs.SetFile(pluginsDir+"/b/config.json", []byte(`{}`))
	fs.MkdirAll(pluginsDir + "/.hidden")

	f := &fixture{fs: fs}
	f.query = &git.MockGitQueryOperations{
		StatusFn:        func(context.Context) (string, error) { return " M releases/plugins.json\n", nil },
		ListTagsFn:      func(context.Context) ([]string, error) { return tags, nil },
		CurrentBranchFn: func(context.Context) (string, error) { return "main", nil },
	}
	return f
}

func (f *fixture) pipeline(opts Options, extra ...Option) *Pipeline {
	opts.ManifestPath = manifestPath
	opts.PluginsDir = pluginsDir
	options := append([]Option{
		WithClock(func() time.Time { return fixedNow }),
		WithInteractive(func() bool { return false }),
	}, extra...)
	return NewPipeline(f.fs, f.query, recorder(&f.calls), opts, options...)
}

func (f *fixture) manifest(t *testing.T) gjson.Result {
	t.Helper()
	data, ok := f.fs.GetFile(manifestPath)
	if !ok {
		t.Fatal("manifest missing")
	}
	return gjson.ParseBytes(data)
}

func TestPipeline_Plan(t *testing.T) {
	tests := []struct {
		name    string
		version string
		tags    []string
		want    string
		updated bool
	}{
		{"collisions increment", "1.0.0", []string{"v1.0.0", "v1.0.1"}, "1.0.2", true},
		{"free tag kept", "2.3.0", nil, "2.3.0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.version, tt.tags)
			plan, err := f.pipeline(Options{}).Plan(context.Background())
			if err != nil {
				t.Fatalf("Plan() unexpected error: %v", err)
			}
			if plan.Resolution.Version != tt.want || plan.Resolution.Tag != "v"+tt.want || plan.Resolution.Updated != tt.updated {
				t.Errorf("Plan() resolution = %+v", plan.Resolution)
			}
			if len(plan.Scan.Entries) != 1 || len(plan.Scan.Skipped) != 1 {
				t.Errorf("Plan() scan = %d entries, %d skipped; want 1, 1", len(plan.Scan.Entries), len(plan.Scan.Skipped))
			}
			if _, ok := f.fs.GetFile(manifestPath); !ok {
				t.Fatal("manifest disappeared")
			}
		})
	}
}

func TestPipeline_Plan_Errors(t *testing.T) {
	t.Run("missing manifest", func(t *testing.T) {
		f := newFixture("1.0.0", nil)
		f.fs = core.NewMockFileSystem()
		var nf *manifest.NotFoundError
		if _, err := f.pipeline(Options{}).Plan(context.Background()); !errors.As(err, &nf) {
			t.Errorf("Plan() error = %v, want *manifest.NotFoundError", err)
		}
	})

	t.Run("missing version", func(t *testing.T) {
		f := newFixture("", nil)
		if _, err := f.pipeline(Options{}).Plan(context.Background()); !errors.Is(err, manifest.ErrMissingVersion) {
			t.Errorf("Plan() error = %v, want ErrMissingVersion", err)
		}
	})

	t.Run("tag listing fails", func(t *testing.T) {
		f := newFixture("1.0.0", nil)
		listErr := errors.New("not a git repository")
		f.query.ListTagsFn = func(context.Context) ([]string, error) { return nil, listErr }
		if _, err := f.pipeline(Options{}).Plan(context.Background()); !errors.Is(err, listErr) {
			t.Errorf("Plan() error = %v, want %v", err, listErr)
		}
	})
}

func TestPipeline_Run(t *testing.T) {
	silence(t)
	f := newFixture("1.0.0", []string{"v1.0.0", "v1.0.1"})

	report, err := f.pipeline(Options{}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}

	want := []string{
		"add",
		"commit chore: release v1.0.2",
		"tag v1.0.2",
		"push origin main",
		"push origin v1.0.2",
	}
	if diff := cmp.Diff(want, f.calls); diff != "" {
		t.Errorf("git calls mismatch (-want +got):\n%s", diff)
	}
	if !report.Committed || !report.TagCreated || !report.Pushed || report.Branch != "main" {
		t.Errorf("Run() report = %+v", report)
	}

	doc := f.manifest(t)
	if got := doc.Get("version").String(); got != "1.0.2" {
		t.Errorf("manifest version = %q, want 1.0.2", got)
	}
	if got := doc.Get("lastUpdated").String(); got != "2026-10-17" {
		t.Errorf("manifest lastUpdated = %q", got)
	}
	if got := doc.Get("name").String(); got != "market" {
		t.Errorf("unrelated field lost, name = %q", got)
	}
	plugins := doc.Get("plugins").Array()
	if len(plugins) != 1 {
		t.Fatalf("manifest plugins = %s", doc.Get("plugins").Raw)
	}
	if plugins[0].Get("fileName").String() != "a-1.0.zip" || plugins[0].Get("downloadUrl").Exists() {
		t.Errorf("manifest entry = %s", plugins[0].Raw)
	}
}

func TestPipeline_Run_DryRun(t *testing.T) {
	silence(t)
	f := newFixture("2.3.0", nil)
	f.query.StatusFn = func(context.Context) (string, error) { return "", nil }
	before, _ := f.fs.GetFile(manifestPath)

	report, err := f.pipeline(Options{DryRun: true}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}

	after, _ := f.fs.GetFile(manifestPath)
	if string(before) != string(after) {
		t.Error("dry run must not write the manifest")
	}
	if len(f.calls) != 0 {
		t.Errorf("dry run must not call mutating git operations, got %v", f.calls)
	}
	want := []string{
		"git add .",
		`git commit -m "chore: release v2.3.0"`,
		"git tag v2.3.0",
		"git push origin main",
		"git push origin v2.3.0",
	}
	if diff := cmp.Diff(want, report.DryRunCommands); diff != "" {
		t.Errorf("dry-run commands mismatch (-want +got):\n%s", diff)
	}
	if report.Pushed {
		t.Error("dry run must not report a push")
	}
}

func TestPipeline_Run_NoPush(t *testing.T) {
	silence(t)
	f := newFixture("1.0.0", nil)

	report, err := f.pipeline(Options{NoPush: true}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"add", "commit chore: release v1.0.0", "tag v1.0.0"}, f.calls); diff != "" {
		t.Errorf("git calls mismatch (-want +got):\n%s", diff)
	}
	if report.Pushed {
		t.Error("--no-push must not push")
	}
}

func TestPipeline_Run_Confirmation(t *testing.T) {
	tests := []struct {
		name       string
		opts       Options
		answer     bool
		promptErr  error
		wantPushed bool
		wantAsked  int
		wantErr    bool
	}{
		{name: "confirmed", answer: true, wantPushed: true, wantAsked: 1},
		{name: "declined keeps local state", answer: false, wantAsked: 1},
		{name: "assume yes skips prompt", opts: Options{AssumeYes: true}, wantPushed: true},
		{name: "prompt failure", promptErr: errors.New("aborted"), wantAsked: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			silence(t)
			f := newFixture("1.0.0", nil)
			prompter := &fakePrompter{answer: tt.answer, err: tt.promptErr}
			p := f.pipeline(tt.opts, WithPrompter(prompter), WithInteractive(func() bool { return true }))

			report, err := p.Run(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(prompter.asked) != tt.wantAsked {
				t.Errorf("prompts = %v, want %d", prompter.asked, tt.wantAsked)
			}
			if report.Pushed != tt.wantPushed {
				t.Errorf("Pushed = %v, want %v", report.Pushed, tt.wantPushed)
			}
			if !report.TagCreated {
				t.Error("tag should be created before the prompt")
			}
		})
	}
}

func TestPipeline_Run_TagExistsAtTagTime(t *testing.T) {
	silence(t)
	f := newFixture("1.0.0", nil)
	listed := 0
	// The tag appears between resolution and tagging.
	f.query.ListTagsFn = func(context.Context) ([]string, error) {
		listed++
		if listed == 1 {
			return nil, nil
		}
		return []string{"v1.0.0"}, nil
	}

	_, err := f.pipeline(Options{}).Run(context.Background())
	if !errors.Is(err, ErrTagExists) {
		t.Fatalf("Run() error = %v, want ErrTagExists", err)
	}

	listed = 0
	f.calls = nil
	_, err = f.pipeline(Options{Committer: CommitterOptions{TagExists: TagExistsSkip}}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() with skip policy unexpected error: %v", err)
	}
	for _, c := range f.calls {
		if c == "tag v1.0.0" {
			t.Error("skip policy must not create the tag")
		}
	}
}

func TestPipeline_Run_GitFailureIsFatal(t *testing.T) {
	silence(t)
	f := newFixture("1.0.0", nil)
	pushErr := errors.New("rejected")
	p := f.pipeline(Options{})
	p.write = &git.MockGitWriteOperations{
		PushFn: func(context.Context, string, string) error { return pushErr },
	}

	report, err := p.Run(context.Background())
	if !errors.Is(err, pushErr) {
		t.Fatalf("Run() error = %v, want %v", err, pushErr)
	}
	if report == nil || !report.TagCreated || report.Pushed {
		t.Errorf("report = %+v, want tag created and not pushed", report)
	}
}

func TestPipeline_Sync(t *testing.T) {
	silence(t)
	f := newFixture("1.0.0", nil)

	check, err := f.pipeline(Options{}).Sync(context.Background(), true)
	if err != nil {
		t.Fatalf("Sync(check) unexpected error: %v", err)
	}
	if check.InSync || check.Written {
		t.Errorf("Sync(check) = %+v, want drift and no write", check)
	}
	if got := f.manifest(t).Get("plugins.#").Int(); got != 0 {
		t.Errorf("check mode wrote %d plugins", got)
	}

	res, err := f.pipeline(Options{}).Sync(context.Background(), false)
	if err != nil {
		t.Fatalf("Sync() unexpected error: %v", err)
	}
	if !res.Written {
		t.Error("Sync() should write the manifest")
	}
	doc := f.manifest(t)
	if doc.Get("version").String() != "1.0.0" {
		t.Error("Sync() must not change the version")
	}
	if doc.Get("lastUpdated").String() != "2026-10-17" || doc.Get("plugins.0.id").String() != "a" {
		t.Errorf("Sync() manifest = %s", doc.Raw)
	}

	again, err := f.pipeline(Options{}).Sync(context.Background(), true)
	if err != nil {
		t.Fatalf("Sync(check) unexpected error: %v", err)
	}
	if !again.InSync {
		t.Error("manifest should be in sync after Sync()")
	}
	if len(f.calls) != 0 {
		t.Errorf("Sync() must not touch git, got %v", f.calls)
	}
}

func TestPrintScan(t *testing.T) {
	var buf bytes.Buffer
	prev := printer.SetOutput(&buf)
	printer.SetNoColor(true)
	t.Cleanup(func() {
		printer.SetOutput(prev)
		printer.SetNoColor(false)
	})

	PrintScan(&scanner.Result{
		Entries: []scanner.Entry{{Dir: "a", ID: "a", Version: "1.0"}},
		Skipped: []scanner.Skip{{Dir: "b", Reason: errors.New("missing id")}},
	})

	got := buf.String()
	for _, want := range []string{"   + Added a (1.0)\n", "   - Skipped b (missing id)\n", "1 plugin added, 1 plugin skipped"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}
