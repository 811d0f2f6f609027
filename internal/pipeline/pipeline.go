// Package pipeline composes discovery, parsing, normalization, scoring,
// identity resolution and the profile upsert into one batch run.
package pipeline

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/kapu/mindsync-go/internal/domain"
	"github.com/kapu/mindsync-go/internal/normalizer"
	"github.com/kapu/mindsync-go/internal/parser"
	"github.com/kapu/mindsync-go/internal/scorer"
	"github.com/kapu/mindsync-go/internal/util"
	pkgerrors "github.com/kapu/mindsync-go/pkg/errors"
)

// DocumentFinder enumerates candidate files for one person.
type DocumentFinder interface {
	FindDocuments(slug string) ([]string, error)
}

// IdentityResolver maps a person identifier to a persisted mind.
type IdentityResolver interface {
	Resolve(ctx context.Context, slug string) (*domain.Mind, error)
}

// ProfileWriter persists the winning profile.
type ProfileWriter interface {
	UpsertProfile(ctx context.Context, mindID int, profile *domain.Profile) error
}

type Runner struct {
	finder   DocumentFinder
	resolver IdentityResolver
	writer   ProfileWriter
	breaker  *util.CircuitBreaker
	logger   *zap.Logger

	writeTimeout time.Duration
	dryRun       bool
	parallel     int

	// mindLocks serializes writes per mind: two slugs may resolve to the
	// same record when the run is parallelized.
	mindLocks   map[int]*sync.Mutex
	mindLocksMu sync.Mutex
}

type RunnerConfig struct {
	WriteTimeout time.Duration
	DryRun       bool
	Parallel     int
}

func NewRunner(
	finder DocumentFinder,
	resolver IdentityResolver,
	writer ProfileWriter,
	breaker *util.CircuitBreaker,
	cfg RunnerConfig,
	logger *zap.Logger,
) *Runner {
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.Parallel < 1 {
		cfg.Parallel = 1
	}
	return &Runner{
		finder:       finder,
		resolver:     resolver,
		writer:       writer,
		breaker:      breaker,
		logger:       logger,
		writeTimeout: cfg.WriteTimeout,
		dryRun:       cfg.DryRun,
		parallel:     cfg.Parallel,
		mindLocks:    make(map[int]*sync.Mutex),
	}
}

// Run processes every person independently; no single failure aborts the
// batch. Results come back in input order regardless of parallelism.
func (r *Runner) Run(ctx context.Context, slugs []string) *Summary {
	summary := &Summary{DryRun: r.dryRun}

	// One timestamp per run keeps normalization reproducible within the
	// batch.
	normalizedAt := time.Now().UTC().Format(time.RFC3339)

	if r.parallel <= 1 {
		for _, slug := range slugs {
			summary.add(r.processPerson(ctx, slug, normalizedAt))
		}
		return summary
	}

	results := make([]PersonResult, len(slugs))
	p := pool.New().WithMaxGoroutines(r.parallel)
	for i, slug := range slugs {
		i, slug := i, slug
		p.Go(func() {
			results[i] = r.processPerson(ctx, slug, normalizedAt)
		})
	}
	p.Wait()

	for _, result := range results {
		summary.add(result)
	}
	return summary
}

func (r *Runner) processPerson(ctx context.Context, slug, normalizedAt string) PersonResult {
	result := PersonResult{Slug: slug}

	files, err := r.finder.FindDocuments(slug)
	if err != nil {
		result.Outcome = OutcomeErrored
		result.Reason = "document discovery failed"
		result.Err = err
		r.logger.Error("Discovery failed", zap.String("slug", slug), zap.Error(err))
		return result
	}
	result.FilesFound = len(files)

	candidates := r.collectCandidates(files, normalizedAt, &result)
	result.Candidates = len(candidates)

	if len(candidates) == 0 {
		result.Outcome = OutcomeSkipped
		result.Reason = "no profile documents"
		r.logger.Debug("No candidates for person",
			zap.String("slug", slug),
			zap.Int("files", len(files)),
		)
		return result
	}

	winner := scorer.SelectBest(candidates)
	profile := candidates[winner]
	result.Score = scorer.Score(profile)

	r.logger.Info("Selected candidate",
		zap.String("slug", slug),
		zap.String("source_file", profile.Metadata.SourceFile),
		zap.Int("score", result.Score),
		zap.Int("candidates", len(candidates)),
	)

	mind, err := r.resolver.Resolve(ctx, slug)
	if err != nil {
		var notFound *pkgerrors.IdentityNotFoundError
		if errors.As(err, &notFound) {
			result.Outcome = OutcomeSkipped
			result.Reason = "identity not resolved"
			r.logger.Warn("Identity not resolved, skipping person",
				zap.String("slug", slug),
				zap.Int("candidates", notFound.Candidates),
			)
			return result
		}
		result.Outcome = OutcomeErrored
		result.Reason = "identity resolution failed"
		result.Err = err
		r.logger.Error("Identity resolution failed", zap.String("slug", slug), zap.Error(err))
		return result
	}
	result.ResolvedSlug = mind.Slug

	if r.dryRun {
		result.Outcome = OutcomeSucceeded
		result.Reason = "dry run, upsert suppressed"
		r.logger.Info("[dry-run] Would upsert profile",
			zap.String("slug", slug),
			zap.String("mind", mind.Slug),
			zap.String("source_file", profile.Metadata.SourceFile),
		)
		return result
	}

	if err := r.upsert(ctx, mind, profile); err != nil {
		result.Outcome = OutcomeErrored
		result.Reason = "profile upsert failed"
		result.Err = err
		r.logger.Error("Profile upsert failed",
			zap.String("slug", slug),
			zap.String("mind", mind.Slug),
			zap.Error(err),
		)
		return result
	}

	result.Outcome = OutcomeSucceeded
	r.logger.Info("Profile upserted",
		zap.String("slug", slug),
		zap.String("mind", mind.Slug),
	)
	return result
}

// collectCandidates parses and normalizes every discovered file. Parse
// failures and matched-but-incomplete documents count as file errors;
// documents no dialect recognizes are silently ignored.
func (r *Runner) collectCandidates(files []string, normalizedAt string, result *PersonResult) []*domain.Profile {
	// Discovery already returns lexical walk order; keep it explicit so
	// tie-breaking stays deterministic.
	sorted := make([]string, len(files))
	copy(sorted, files)
	sort.Strings(sorted)

	candidates := make([]*domain.Profile, 0, len(sorted))
	for _, file := range sorted {
		doc, err := parser.LoadFile(file)
		if err != nil {
			result.FileErrors++
			r.logger.Warn("Document does not contribute",
				zap.String("file", file),
				zap.Error(err),
			)
			continue
		}

		profile, dialect, err := normalizer.Normalize(doc, normalizer.Options{
			SourceFile:   file,
			NormalizedAt: normalizedAt,
		})
		if err != nil {
			result.FileErrors++
			r.logger.Warn("Document matched dialect but failed extraction",
				zap.String("file", file),
				zap.String("dialect", dialect),
				zap.Error(err),
			)
			continue
		}
		if profile == nil {
			// Not a profile document; the tree holds plenty of those.
			continue
		}

		r.logger.Debug("Normalized document",
			zap.String("file", file),
			zap.String("dialect", dialect),
		)
		candidates = append(candidates, profile)
	}
	return candidates
}

func (r *Runner) upsert(ctx context.Context, mind *domain.Mind, profile *domain.Profile) error {
	if r.breaker != nil && !r.breaker.CanExecute() {
		return pkgerrors.NewStoreWriteError("store circuit open, refusing write", "upsert_profile", mind.Slug, nil)
	}

	lock := r.lockFor(mind.ID)
	lock.Lock()
	defer lock.Unlock()

	writeCtx, cancel := context.WithTimeout(ctx, r.writeTimeout)
	defer cancel()

	if err := r.writer.UpsertProfile(writeCtx, mind.ID, profile); err != nil {
		if r.breaker != nil {
			r.breaker.RecordFailure()
		}
		return pkgerrors.NewStoreWriteError("profile upsert failed", "upsert_profile", mind.Slug, err)
	}

	if r.breaker != nil {
		r.breaker.RecordSuccess()
	}
	return nil
}

func (r *Runner) lockFor(mindID int) *sync.Mutex {
	r.mindLocksMu.Lock()
	defer r.mindLocksMu.Unlock()

	lock, ok := r.mindLocks[mindID]
	if !ok {
		lock = &sync.Mutex{}
		r.mindLocks[mindID] = lock
	}
	return lock
}
