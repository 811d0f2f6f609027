package domain

// Mind is a tracked person record in the persisted store, keyed by a
// human-assigned slug. A mind holds at most one canonical profile plus the
// per-person collections touched by the merge engine.
type Mind struct {
	ID          int    `json:"id"`
	Slug        string `json:"slug"`
	DisplayName string `json:"displayName,omitempty"`
}

// ProfileRow is the persisted shape of a canonical profile: the scalar
// identifying fields that are indexed as columns, plus the full sections
// blob.
type ProfileRow struct {
	MindID        int
	SchemaVersion string
	MBTIType      string
	EnneagramType string
	DiscPattern   string
	SourceFile    string
	NormalizedAt  string
	Sections      []byte
}

// Collections are the per-person lists the merge engine copies forward.
type Collections struct {
	Values        []string
	Obsessions    []string
	Proficiencies []string
}
