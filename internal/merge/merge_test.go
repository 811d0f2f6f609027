package merge

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/kapu/mindsync-go/internal/domain"
	"github.com/kapu/mindsync-go/internal/store"
)

type fakeStore struct {
	minds       map[string]*domain.Mind
	profiles    map[int]*domain.ProfileRow
	collections map[int]*domain.Collections

	appliedTarget int
	appliedCopy   *store.MergeCopy
	deleted       []int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		minds:       make(map[string]*domain.Mind),
		profiles:    make(map[int]*domain.ProfileRow),
		collections: make(map[int]*domain.Collections),
	}
}

func (f *fakeStore) FindBySlug(_ context.Context, slug string) (*domain.Mind, error) {
	return f.minds[slug], nil
}

func (f *fakeStore) GetProfileRow(_ context.Context, mindID int) (*domain.ProfileRow, error) {
	return f.profiles[mindID], nil
}

func (f *fakeStore) GetCollections(_ context.Context, mindID int) (*domain.Collections, error) {
	if cols, ok := f.collections[mindID]; ok {
		return cols, nil
	}
	return &domain.Collections{Values: []string{}, Obsessions: []string{}, Proficiencies: []string{}}, nil
}

func (f *fakeStore) ApplyMergeCopy(_ context.Context, targetID int, copy *store.MergeCopy) error {
	f.appliedTarget = targetID
	f.appliedCopy = copy
	return nil
}

func (f *fakeStore) DeleteMind(_ context.Context, mindID int) error {
	f.deleted = append(f.deleted, mindID)
	return nil
}

func setupMinds(f *fakeStore) {
	f.minds["dupe"] = &domain.Mind{ID: 1, Slug: "dupe"}
	f.minds["canonical"] = &domain.Mind{ID: 2, Slug: "canonical"}
}

func TestMergeFillsEmptyTargetCollections(t *testing.T) {
	fs := newFakeStore()
	setupMinds(fs)
	fs.collections[1] = &domain.Collections{Values: []string{"C"}}
	fs.collections[2] = &domain.Collections{}

	engine := NewEngine(fs, zap.NewNop())
	report, err := engine.MergeMinds(context.Background(), "dupe", "canonical", false)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if fs.appliedTarget != 2 {
		t.Fatalf("expected copy applied to target 2, got %d", fs.appliedTarget)
	}
	if len(fs.appliedCopy.Values) != 1 || fs.appliedCopy.Values[0] != "C" {
		t.Fatalf("expected source values copied, got %v", fs.appliedCopy.Values)
	}
	if report.ValuesMigrated != 1 {
		t.Fatalf("expected 1 value migrated, got %d", report.ValuesMigrated)
	}
	if !report.SourceDeleted || len(fs.deleted) != 1 || fs.deleted[0] != 1 {
		t.Fatalf("expected source mind 1 deleted after copy, got %v", fs.deleted)
	}
}

func TestMergeNeverOverwritesTargetData(t *testing.T) {
	fs := newFakeStore()
	setupMinds(fs)
	fs.collections[1] = &domain.Collections{Values: []string{}}
	fs.collections[2] = &domain.Collections{Values: []string{"A", "B"}}

	engine := NewEngine(fs, zap.NewNop())
	report, err := engine.MergeMinds(context.Background(), "dupe", "canonical", false)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(fs.appliedCopy.Values) != 0 {
		t.Fatalf("expected no values in copy plan, got %v", fs.appliedCopy.Values)
	}
	if report.ValuesMigrated != 0 {
		t.Fatalf("expected nothing migrated, got %d", report.ValuesMigrated)
	}
	// Empty source collection means nothing was there to keep a count for.
	if report.ValuesKept != 0 {
		t.Fatalf("expected no kept count for empty source, got %d", report.ValuesKept)
	}
}

func TestMergeKeepsTargetWhenBothPopulated(t *testing.T) {
	fs := newFakeStore()
	setupMinds(fs)
	fs.collections[1] = &domain.Collections{Obsessions: []string{"x", "y"}}
	fs.collections[2] = &domain.Collections{Obsessions: []string{"z"}}

	engine := NewEngine(fs, zap.NewNop())
	report, err := engine.MergeMinds(context.Background(), "dupe", "canonical", false)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(fs.appliedCopy.Obsessions) != 0 {
		t.Fatalf("fill-if-empty violated: target obsessions would be touched: %v", fs.appliedCopy.Obsessions)
	}
	if report.ObsessionsKept != 1 {
		t.Fatalf("expected target's 1 obsession kept, got %d", report.ObsessionsKept)
	}
}

func TestMergeCopiesProfileOnlyWhenTargetHasNone(t *testing.T) {
	fs := newFakeStore()
	setupMinds(fs)
	fs.profiles[1] = &domain.ProfileRow{MindID: 1, SchemaVersion: "1.0", MBTIType: "INTJ"}

	engine := NewEngine(fs, zap.NewNop())
	report, err := engine.MergeMinds(context.Background(), "dupe", "canonical", false)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !report.ProfileMigrated || fs.appliedCopy.Profile == nil {
		t.Fatalf("expected source profile migrated, got %+v", report)
	}

	// Second scenario: target already holds a profile.
	fs2 := newFakeStore()
	setupMinds(fs2)
	fs2.profiles[1] = &domain.ProfileRow{MindID: 1, SchemaVersion: "1.0", MBTIType: "INTJ"}
	fs2.profiles[2] = &domain.ProfileRow{MindID: 2, SchemaVersion: "1.0", MBTIType: "ENTP"}

	engine2 := NewEngine(fs2, zap.NewNop())
	report2, err := engine2.MergeMinds(context.Background(), "dupe", "canonical", false)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if report2.ProfileMigrated || fs2.appliedCopy.Profile != nil {
		t.Fatalf("expected target profile kept, got %+v", report2)
	}
	if !report2.ProfileKept {
		t.Fatalf("expected kept flag set")
	}
}

func TestMergeDryRunWritesNothing(t *testing.T) {
	fs := newFakeStore()
	setupMinds(fs)
	fs.collections[1] = &domain.Collections{Values: []string{"C"}}

	engine := NewEngine(fs, zap.NewNop())
	report, err := engine.MergeMinds(context.Background(), "dupe", "canonical", true)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if fs.appliedCopy != nil {
		t.Fatalf("dry run must not apply the copy")
	}
	if len(fs.deleted) != 0 {
		t.Fatalf("dry run must not delete the source")
	}
	if report.ValuesMigrated != 1 {
		t.Fatalf("dry run should still report intent, got %+v", report)
	}
	if report.SourceDeleted {
		t.Fatalf("dry run must not report a delete")
	}
}

func TestMergeUnknownSlugFails(t *testing.T) {
	fs := newFakeStore()
	setupMinds(fs)

	engine := NewEngine(fs, zap.NewNop())
	if _, err := engine.MergeMinds(context.Background(), "ghost", "canonical", false); err == nil {
		t.Fatalf("expected error for unknown source slug")
	}
}

func TestMergeSameMindRejected(t *testing.T) {
	fs := newFakeStore()
	setupMinds(fs)

	engine := NewEngine(fs, zap.NewNop())
	if _, err := engine.MergeMinds(context.Background(), "dupe", "dupe", false); err == nil {
		t.Fatalf("expected error when source and target are the same mind")
	}
}
