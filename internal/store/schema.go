package store

import (
	"context"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS minds (
	id           SERIAL PRIMARY KEY,
	slug         TEXT NOT NULL UNIQUE,
	display_name TEXT
);

CREATE TABLE IF NOT EXISTS mind_profiles (
	mind_id        INTEGER PRIMARY KEY REFERENCES minds(id) ON DELETE CASCADE,
	schema_version TEXT NOT NULL,
	mbti_type      TEXT,
	enneagram_type TEXT,
	disc_pattern   TEXT,
	source_file    TEXT,
	normalized_at  TEXT,
	sections       JSONB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_mind_profiles_mbti ON mind_profiles(mbti_type);
CREATE INDEX IF NOT EXISTS idx_mind_profiles_enneagram ON mind_profiles(enneagram_type);

CREATE TABLE IF NOT EXISTS mind_values (
	id       SERIAL PRIMARY KEY,
	mind_id  INTEGER NOT NULL REFERENCES minds(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	value    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS mind_obsessions (
	id        SERIAL PRIMARY KEY,
	mind_id   INTEGER NOT NULL REFERENCES minds(id) ON DELETE CASCADE,
	position  INTEGER NOT NULL,
	obsession TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS mind_proficiencies (
	id          SERIAL PRIMARY KEY,
	mind_id     INTEGER NOT NULL REFERENCES minds(id) ON DELETE CASCADE,
	position    INTEGER NOT NULL,
	proficiency TEXT NOT NULL
);
`

// EnsureSchema creates the pipeline's tables when they do not exist yet.
func (ps *PostgresService) EnsureSchema(ctx context.Context) error {
	if _, err := ps.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
