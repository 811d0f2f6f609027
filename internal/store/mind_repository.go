package store

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/kapu/mindsync-go/internal/domain"
)

// MindRepository reads and writes mind records and their per-person data.
// The profile's scalar identifying fields are stored as indexed columns,
// the full sections as one JSONB blob.
type MindRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewMindRepository(postgres *PostgresService, logger *zap.Logger) *MindRepository {
	return &MindRepository{
		db:     postgres.GetDB(),
		logger: logger,
	}
}

// FindBySlug retrieves a mind by exact slug. Returns nil when absent.
func (r *MindRepository) FindBySlug(ctx context.Context, slug string) (*domain.Mind, error) {
	query := `
		SELECT id, slug, display_name
		FROM minds
		WHERE slug = $1
		LIMIT 1
	`

	var (
		id          int
		slugVal     string
		displayName sql.NullString
	)

	err := r.db.QueryRowContext(ctx, query, slug).Scan(&id, &slugVal, &displayName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query mind by slug: %w", err)
	}

	mind := &domain.Mind{ID: id, Slug: slugVal}
	if displayName.Valid {
		mind.DisplayName = displayName.String
	}
	return mind, nil
}

// SearchBySlugPattern returns every mind whose slug contains the fragment.
// The caller decides whether a multi-hit result is usable.
func (r *MindRepository) SearchBySlugPattern(ctx context.Context, fragment string) ([]*domain.Mind, error) {
	query := `
		SELECT id, slug, display_name
		FROM minds
		WHERE slug ILIKE '%' || $1 || '%'
		ORDER BY slug
	`

	rows, err := r.db.QueryContext(ctx, query, fragment)
	if err != nil {
		return nil, fmt.Errorf("failed to search minds by slug pattern: %w", err)
	}
	defer rows.Close()

	var minds []*domain.Mind
	for rows.Next() {
		var (
			id          int
			slug        string
			displayName sql.NullString
		)
		if err := rows.Scan(&id, &slug, &displayName); err != nil {
			r.logger.Warn("Failed to scan mind row", zap.Error(err))
			continue
		}
		mind := &domain.Mind{ID: id, Slug: slug}
		if displayName.Valid {
			mind.DisplayName = displayName.String
		}
		minds = append(minds, mind)
	}
	return minds, rows.Err()
}

// UpsertProfile writes or replaces the canonical profile attached to a mind.
// The profile is derived data, so replace-if-exists is always safe and the
// operation is idempotent.
func (r *MindRepository) UpsertProfile(ctx context.Context, mindID int, profile *domain.Profile) error {
	sections, err := profile.SectionsJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal profile sections: %w", err)
	}

	var mbtiType, enneagramType, discPattern string
	if profile.MBTI != nil {
		mbtiType = profile.MBTI.Type
	}
	if profile.Enneagram != nil {
		enneagramType = profile.Enneagram.Type
	}
	if profile.Disc != nil {
		discPattern = profile.Disc.Pattern
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO mind_profiles (mind_id, schema_version, mbti_type, enneagram_type, disc_pattern, source_file, normalized_at, sections)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (mind_id) DO UPDATE SET
			schema_version = EXCLUDED.schema_version,
			mbti_type      = EXCLUDED.mbti_type,
			enneagram_type = EXCLUDED.enneagram_type,
			disc_pattern   = EXCLUDED.disc_pattern,
			source_file    = EXCLUDED.source_file,
			normalized_at  = EXCLUDED.normalized_at,
			sections       = EXCLUDED.sections
	`, mindID, profile.Metadata.SchemaVersion, nullString(mbtiType), nullString(enneagramType),
		nullString(discPattern), nullString(profile.Metadata.SourceFile),
		nullString(profile.Metadata.NormalizedAt), sections)

	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

// GetProfileRow returns the persisted profile row for a mind, nil when the
// mind has none.
func (r *MindRepository) GetProfileRow(ctx context.Context, mindID int) (*domain.ProfileRow, error) {
	query := `
		SELECT mind_id, schema_version, mbti_type, enneagram_type, disc_pattern, source_file, normalized_at, sections
		FROM mind_profiles
		WHERE mind_id = $1
		LIMIT 1
	`

	var (
		row           domain.ProfileRow
		mbtiType      sql.NullString
		enneagramType sql.NullString
		discPattern   sql.NullString
		sourceFile    sql.NullString
		normalizedAt  sql.NullString
	)

	err := r.db.QueryRowContext(ctx, query, mindID).Scan(
		&row.MindID, &row.SchemaVersion, &mbtiType, &enneagramType, &discPattern,
		&sourceFile, &normalizedAt, &row.Sections,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query profile row: %w", err)
	}

	row.MBTIType = mbtiType.String
	row.EnneagramType = enneagramType.String
	row.DiscPattern = discPattern.String
	row.SourceFile = sourceFile.String
	row.NormalizedAt = normalizedAt.String
	return &row, nil
}

// GetCollections returns the per-person lists the merge engine copies.
func (r *MindRepository) GetCollections(ctx context.Context, mindID int) (*domain.Collections, error) {
	values, err := r.listStrings(ctx, "mind_values", "value", mindID)
	if err != nil {
		return nil, err
	}
	obsessions, err := r.listStrings(ctx, "mind_obsessions", "obsession", mindID)
	if err != nil {
		return nil, err
	}
	proficiencies, err := r.listStrings(ctx, "mind_proficiencies", "proficiency", mindID)
	if err != nil {
		return nil, err
	}

	return &domain.Collections{
		Values:        values,
		Obsessions:    obsessions,
		Proficiencies: proficiencies,
	}, nil
}

func (r *MindRepository) listStrings(ctx context.Context, table, column string, mindID int) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE mind_id = $1
		ORDER BY position
	`, column, table)

	rows, err := r.db.QueryContext(ctx, query, mindID)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	items := make([]string, 0)
	for rows.Next() {
		var item string
		if err := rows.Scan(&item); err != nil {
			r.logger.Warn("Failed to scan collection row", zap.String("table", table), zap.Error(err))
			continue
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// MergeCopy is the data copied onto the merge target. Nil / empty members
// mean "target already had data there, leave it alone".
type MergeCopy struct {
	Profile       *domain.ProfileRow
	Values        []string
	Obsessions    []string
	Proficiencies []string
}

// ApplyMergeCopy commits every piece of a duplicate-mind copy in one
// transaction, so a crash before the later delete step never loses source
// data.
func (r *MindRepository) ApplyMergeCopy(ctx context.Context, targetID int, copy *MergeCopy) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin merge transaction: %w", err)
	}
	defer tx.Rollback()

	if copy.Profile != nil {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO mind_profiles (mind_id, schema_version, mbti_type, enneagram_type, disc_pattern, source_file, normalized_at, sections)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (mind_id) DO NOTHING
		`, targetID, copy.Profile.SchemaVersion, nullString(copy.Profile.MBTIType),
			nullString(copy.Profile.EnneagramType), nullString(copy.Profile.DiscPattern),
			nullString(copy.Profile.SourceFile), nullString(copy.Profile.NormalizedAt),
			copy.Profile.Sections)
		if err != nil {
			return fmt.Errorf("failed to copy profile: %w", err)
		}
	}

	inserts := []struct {
		table  string
		column string
		items  []string
	}{
		{"mind_values", "value", copy.Values},
		{"mind_obsessions", "obsession", copy.Obsessions},
		{"mind_proficiencies", "proficiency", copy.Proficiencies},
	}
	for _, ins := range inserts {
		for position, item := range ins.items {
			query := fmt.Sprintf(`
				INSERT INTO %s (mind_id, position, %s)
				VALUES ($1, $2, $3)
			`, ins.table, ins.column)
			if _, err := tx.ExecContext(ctx, query, targetID, position, item); err != nil {
				return fmt.Errorf("failed to copy into %s: %w", ins.table, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit merge copy: %w", err)
	}
	return nil
}

// DeleteMind removes a mind and, via ON DELETE CASCADE, everything keyed to
// it. Deleting an already-deleted mind is a no-op so the step is safe to
// retry after a partial merge.
func (r *MindRepository) DeleteMind(ctx context.Context, mindID int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM minds WHERE id = $1`, mindID)
	if err != nil {
		return fmt.Errorf("failed to delete mind: %w", err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		r.logger.Debug("Mind already deleted", zap.Int("mind_id", mindID))
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
