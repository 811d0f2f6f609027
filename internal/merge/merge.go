// Package merge consolidates two mind records that represent the same real
// person.
package merge

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kapu/mindsync-go/internal/domain"
	"github.com/kapu/mindsync-go/internal/store"
	pkgerrors "github.com/kapu/mindsync-go/pkg/errors"
)

// Store is the slice of the repository the merge engine needs.
type Store interface {
	FindBySlug(ctx context.Context, slug string) (*domain.Mind, error)
	GetProfileRow(ctx context.Context, mindID int) (*domain.ProfileRow, error)
	GetCollections(ctx context.Context, mindID int) (*domain.Collections, error)
	ApplyMergeCopy(ctx context.Context, targetID int, copy *store.MergeCopy) error
	DeleteMind(ctx context.Context, mindID int) error
}

// Report counts what a merge migrated and what it left alone because the
// target already had data there.
type Report struct {
	SourceSlug         string
	TargetSlug         string
	ProfileMigrated    bool
	ProfileKept        bool
	ValuesMigrated     int
	ValuesKept         int
	ObsessionsMigrated int
	ObsessionsKept     int
	ProfsMigrated      int
	ProfsKept          int
	SourceDeleted      bool
}

type Engine struct {
	store  Store
	logger *zap.Logger
}

func NewEngine(s Store, logger *zap.Logger) *Engine {
	return &Engine{
		store:  s,
		logger: logger,
	}
}

// MergeMinds copies every piece of the source mind's per-person data onto
// the target with fill-if-empty semantics, then deletes the source. Existing
// target data is never overwritten. The copy commits in one transaction
// before the delete runs; if the delete fails, re-running the merge is safe
// because the copy only fills gaps and the delete is idempotent.
func (e *Engine) MergeMinds(ctx context.Context, sourceSlug, targetSlug string, dryRun bool) (*Report, error) {
	source, err := e.store.FindBySlug(ctx, sourceSlug)
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, pkgerrors.NewIdentityNotFoundError(sourceSlug, 0)
	}

	target, err := e.store.FindBySlug(ctx, targetSlug)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, pkgerrors.NewIdentityNotFoundError(targetSlug, 0)
	}

	if source.ID == target.ID {
		return nil, fmt.Errorf("source and target are the same mind: %s", source.Slug)
	}

	copyPlan, report, err := e.plan(ctx, source, target)
	if err != nil {
		return nil, err
	}

	e.logger.Info("Merge plan",
		zap.String("source", source.Slug),
		zap.String("target", target.Slug),
		zap.Bool("profile", report.ProfileMigrated),
		zap.Int("values", report.ValuesMigrated),
		zap.Int("obsessions", report.ObsessionsMigrated),
		zap.Int("proficiencies", report.ProfsMigrated),
		zap.Bool("dry_run", dryRun),
	)

	if dryRun {
		return report, nil
	}

	if err := e.store.ApplyMergeCopy(ctx, target.ID, copyPlan); err != nil {
		return nil, pkgerrors.NewStoreWriteError("merge copy failed", "merge_copy", target.Slug, err)
	}

	// The copy is durably committed at this point; a delete failure leaves
	// a retryable duplicate, never lost data.
	if err := e.store.DeleteMind(ctx, source.ID); err != nil {
		return report, pkgerrors.NewStoreWriteError("source delete failed after copy", "delete_mind", source.Slug, err)
	}
	report.SourceDeleted = true

	e.logger.Info("Merge complete",
		zap.String("source", source.Slug),
		zap.String("target", target.Slug),
		zap.Bool("profile_migrated", report.ProfileMigrated),
		zap.Int("values_migrated", report.ValuesMigrated),
		zap.Int("values_kept", report.ValuesKept),
		zap.Int("obsessions_migrated", report.ObsessionsMigrated),
		zap.Int("obsessions_kept", report.ObsessionsKept),
		zap.Int("proficiencies_migrated", report.ProfsMigrated),
		zap.Int("proficiencies_kept", report.ProfsKept),
	)

	return report, nil
}

// plan decides, field by field, what moves. A target collection with any
// existing rows wins outright; only truly empty slots are filled from the
// source.
func (e *Engine) plan(ctx context.Context, source, target *domain.Mind) (*store.MergeCopy, *Report, error) {
	report := &Report{
		SourceSlug: source.Slug,
		TargetSlug: target.Slug,
	}
	copyPlan := &store.MergeCopy{}

	sourceProfile, err := e.store.GetProfileRow(ctx, source.ID)
	if err != nil {
		return nil, nil, err
	}
	targetProfile, err := e.store.GetProfileRow(ctx, target.ID)
	if err != nil {
		return nil, nil, err
	}

	if sourceProfile != nil {
		if targetProfile == nil {
			copyPlan.Profile = sourceProfile
			report.ProfileMigrated = true
		} else {
			report.ProfileKept = true
		}
	}

	sourceCols, err := e.store.GetCollections(ctx, source.ID)
	if err != nil {
		return nil, nil, err
	}
	targetCols, err := e.store.GetCollections(ctx, target.ID)
	if err != nil {
		return nil, nil, err
	}

	if len(sourceCols.Values) > 0 {
		if len(targetCols.Values) == 0 {
			copyPlan.Values = sourceCols.Values
			report.ValuesMigrated = len(sourceCols.Values)
		} else {
			report.ValuesKept = len(targetCols.Values)
		}
	}
	if len(sourceCols.Obsessions) > 0 {
		if len(targetCols.Obsessions) == 0 {
			copyPlan.Obsessions = sourceCols.Obsessions
			report.ObsessionsMigrated = len(sourceCols.Obsessions)
		} else {
			report.ObsessionsKept = len(targetCols.Obsessions)
		}
	}
	if len(sourceCols.Proficiencies) > 0 {
		if len(targetCols.Proficiencies) == 0 {
			copyPlan.Proficiencies = sourceCols.Proficiencies
			report.ProfsMigrated = len(sourceCols.Proficiencies)
		} else {
			report.ProfsKept = len(targetCols.Proficiencies)
		}
	}

	return copyPlan, report, nil
}
