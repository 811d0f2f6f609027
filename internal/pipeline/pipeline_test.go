package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/kapu/mindsync-go/internal/discovery"
	"github.com/kapu/mindsync-go/internal/domain"
	pkgerrors "github.com/kapu/mindsync-go/pkg/errors"
)

type fakeResolver struct {
	minds map[string]*domain.Mind
}

func (f *fakeResolver) Resolve(_ context.Context, slug string) (*domain.Mind, error) {
	if mind, ok := f.minds[slug]; ok {
		return mind, nil
	}
	return nil, pkgerrors.NewIdentityNotFoundError(slug, 0)
}

type upsertCall struct {
	mindID  int
	profile *domain.Profile
}

type fakeWriter struct {
	mu    sync.Mutex
	calls []upsertCall
	err   error
}

func (f *fakeWriter) UpsertProfile(_ context.Context, mindID int, profile *domain.Profile) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, upsertCall{mindID: mindID, profile: profile})
	return nil
}

func writePersonFile(t *testing.T, root, slug, name, content string) {
	t.Helper()
	dir := filepath.Join(root, slug)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create person dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

func newTestRunner(root string, resolver IdentityResolver, writer ProfileWriter, cfg RunnerConfig) *Runner {
	finder := discovery.NewFinder(root, discovery.DefaultMaxDepth, zap.NewNop())
	return NewRunner(finder, resolver, writer, nil, cfg, zap.NewNop())
}

const basicDoc = `{"disc": {"d": 9}, "mbti": {"type": "INTJ"}}`

const richDoc = `{
  "mbti": {"type": "INTJ"},
  "enneagram": {"type": "5w4", "behavioral_evidence": ["keeps score obsessively"]}
}`

func TestRunPicksRichestCandidateAndCountsBrokenFile(t *testing.T) {
	root := t.TempDir()
	writePersonFile(t, root, "alex-hormozi", "01_basic.json", basicDoc)
	writePersonFile(t, root, "alex-hormozi", "02_rich.json", richDoc)
	writePersonFile(t, root, "alex-hormozi", "03_broken.json", `{ not valid json`)

	resolver := &fakeResolver{minds: map[string]*domain.Mind{
		"alex-hormozi": {ID: 11, Slug: "alex-hormozi"},
	}}
	writer := &fakeWriter{}
	runner := newTestRunner(root, resolver, writer, RunnerConfig{})

	summary := runner.Run(context.Background(), []string{"alex-hormozi"})

	if summary.Succeeded != 1 || summary.Errored != 0 {
		t.Fatalf("expected 1 success, got %+v", summary)
	}
	if summary.FileErrors != 1 {
		t.Fatalf("expected the broken file to count once, got %d", summary.FileErrors)
	}
	if len(writer.calls) != 1 {
		t.Fatalf("expected exactly one upsert, got %d", len(writer.calls))
	}
	if writer.calls[0].mindID != 11 {
		t.Fatalf("expected upsert for mind 11, got %d", writer.calls[0].mindID)
	}
	if !strings.HasSuffix(writer.calls[0].profile.Metadata.SourceFile, "02_rich.json") {
		t.Fatalf("expected richer document to win, got %q", writer.calls[0].profile.Metadata.SourceFile)
	}

	// A person can succeed while a broken file still fails the batch.
	if summary.ExitCode() != 1 {
		t.Fatalf("expected nonzero exit code for file errors, got %d", summary.ExitCode())
	}
}

func TestRunCleanBatchExitsZero(t *testing.T) {
	root := t.TempDir()
	writePersonFile(t, root, "naval", "analysis.json", richDoc)

	resolver := &fakeResolver{minds: map[string]*domain.Mind{
		"naval": {ID: 4, Slug: "naval"},
	}}
	writer := &fakeWriter{}
	runner := newTestRunner(root, resolver, writer, RunnerConfig{})

	summary := runner.Run(context.Background(), []string{"naval"})

	if summary.Succeeded != 1 || summary.FileErrors != 0 {
		t.Fatalf("expected clean run, got %+v", summary)
	}
	if summary.ExitCode() != 0 {
		t.Fatalf("expected exit 0, got %d", summary.ExitCode())
	}
}

func TestRunDryRunSuppressesWrites(t *testing.T) {
	root := t.TempDir()
	writePersonFile(t, root, "naval", "analysis.json", richDoc)

	resolver := &fakeResolver{minds: map[string]*domain.Mind{
		"naval": {ID: 4, Slug: "naval"},
	}}
	writer := &fakeWriter{}
	runner := newTestRunner(root, resolver, writer, RunnerConfig{DryRun: true})

	summary := runner.Run(context.Background(), []string{"naval"})

	if len(writer.calls) != 0 {
		t.Fatalf("dry run must not write, got %d upserts", len(writer.calls))
	}
	if summary.Succeeded != 1 {
		t.Fatalf("dry run still reports the person as processed, got %+v", summary)
	}
	if !summary.DryRun {
		t.Fatalf("expected summary flagged as dry run")
	}
}

func TestRunUnresolvedIdentityIsSkippedNotErrored(t *testing.T) {
	root := t.TempDir()
	writePersonFile(t, root, "ghost-writer", "analysis.json", richDoc)

	resolver := &fakeResolver{minds: map[string]*domain.Mind{}}
	writer := &fakeWriter{}
	runner := newTestRunner(root, resolver, writer, RunnerConfig{})

	summary := runner.Run(context.Background(), []string{"ghost-writer"})

	if summary.Skipped != 1 || summary.Errored != 0 {
		t.Fatalf("expected skip for unresolved identity, got %+v", summary)
	}
	if len(writer.calls) != 0 {
		t.Fatalf("expected no upsert for unresolved identity")
	}
	if summary.Results[0].Outcome != OutcomeSkipped {
		t.Fatalf("expected skipped outcome, got %v", summary.Results[0].Outcome)
	}
}

func TestRunPersonWithoutProfileDocumentsIsSkipped(t *testing.T) {
	root := t.TempDir()
	writePersonFile(t, root, "note-taker", "notes.json", `{"title": "reading list", "items": ["a"]}`)

	resolver := &fakeResolver{minds: map[string]*domain.Mind{
		"note-taker": {ID: 9, Slug: "note-taker"},
	}}
	writer := &fakeWriter{}
	runner := newTestRunner(root, resolver, writer, RunnerConfig{})

	summary := runner.Run(context.Background(), []string{"note-taker"})

	if summary.Skipped != 1 {
		t.Fatalf("expected skip when nothing normalizes, got %+v", summary)
	}
	if summary.FileErrors != 0 {
		t.Fatalf("unrecognized documents are not file errors, got %d", summary.FileErrors)
	}
}

func TestRunMissingPersonDirectoryIsSkipped(t *testing.T) {
	root := t.TempDir()

	resolver := &fakeResolver{minds: map[string]*domain.Mind{}}
	writer := &fakeWriter{}
	runner := newTestRunner(root, resolver, writer, RunnerConfig{})

	summary := runner.Run(context.Background(), []string{"nobody-here"})

	if summary.Skipped != 1 || summary.Errored != 0 {
		t.Fatalf("expected missing directory to be a skip, got %+v", summary)
	}
}

func TestRunUpsertFailureErrorsThatPersonOnly(t *testing.T) {
	root := t.TempDir()
	writePersonFile(t, root, "first", "analysis.json", richDoc)
	writePersonFile(t, root, "second", "analysis.json", richDoc)

	resolver := &fakeResolver{minds: map[string]*domain.Mind{
		"first":  {ID: 1, Slug: "first"},
		"second": {ID: 2, Slug: "second"},
	}}

	failing := &fakeWriter{err: os.ErrDeadlineExceeded}
	runner := newTestRunner(root, resolver, failing, RunnerConfig{})

	summary := runner.Run(context.Background(), []string{"first", "second"})

	if summary.Errored != 2 {
		t.Fatalf("expected both persons errored independently, got %+v", summary)
	}
	if summary.ExitCode() != 1 {
		t.Fatalf("expected nonzero exit, got %d", summary.ExitCode())
	}
}

func TestRunParallelPreservesInputOrder(t *testing.T) {
	root := t.TempDir()
	slugs := []string{"alpha", "beta", "gamma", "delta"}
	minds := make(map[string]*domain.Mind, len(slugs))
	for i, slug := range slugs {
		writePersonFile(t, root, slug, "analysis.json", richDoc)
		minds[slug] = &domain.Mind{ID: i + 1, Slug: slug}
	}

	resolver := &fakeResolver{minds: minds}
	writer := &fakeWriter{}
	runner := newTestRunner(root, resolver, writer, RunnerConfig{Parallel: 4})

	summary := runner.Run(context.Background(), slugs)

	if summary.Succeeded != len(slugs) {
		t.Fatalf("expected %d successes, got %+v", len(slugs), summary)
	}
	for i, result := range summary.Results {
		if result.Slug != slugs[i] {
			t.Fatalf("expected results in input order, got %q at %d", result.Slug, i)
		}
	}
}
