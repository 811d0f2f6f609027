// Package normalizer converts parsed analysis documents, whatever dialect
// they were authored in, into the canonical schema-v1.0 profile.
package normalizer

import (
	"github.com/kapu/mindsync-go/internal/domain"
	pkgerrors "github.com/kapu/mindsync-go/pkg/errors"
)

// Options carries the per-run inputs normalization needs beyond the document
// itself. NormalizedAt is injected by the caller so that normalization stays
// a pure function: the same document and options always produce byte-identical
// output.
type Options struct {
	SourceFile   string
	NormalizedAt string
}

// Adapter pairs a dialect fingerprint with the function that converts a
// matching document. Adapters are tried in registry order; the first match
// wins. Adding a dialect is one more entry here.
type Adapter struct {
	Name  string
	Match func(doc map[string]any) bool
	Build func(doc map[string]any, opts Options) (*domain.Profile, error)
}

// Registry returns the known dialect adapters in priority order.
func Registry() []Adapter {
	return []Adapter{
		{Name: DialectNested, Match: matchNested, Build: buildNested},
		{Name: DialectFlat, Match: matchFlat, Build: buildFlat},
		{Name: DialectNamespace, Match: matchNamespace, Build: buildNamespace},
		{Name: DialectLegacy, Match: matchLegacy, Build: buildLegacy},
	}
}

// Normalize runs the document through the adapter registry. A document no
// fingerprint recognizes returns (nil, "", nil) — many files in the tree are
// simply not profile documents. A matched document that fails extraction
// returns a RequiredFieldMissingError.
func Normalize(doc map[string]any, opts Options) (*domain.Profile, string, error) {
	for _, adapter := range Registry() {
		if !adapter.Match(doc) {
			continue
		}
		profile, err := adapter.Build(doc, opts)
		if err != nil {
			return nil, adapter.Name, err
		}
		return profile, adapter.Name, nil
	}
	return nil, "", nil
}

// buildProfile assembles the canonical profile from one dialect's section
// map plus the sibling pass-through sections and authoring metadata.
func buildProfile(dialect string, sections, siblings, meta map[string]any, opts Options) (*domain.Profile, error) {
	profile := &domain.Profile{
		Disc:                  extractDisc(sections["disc"]),
		Enneagram:             extractEnneagram(sections["enneagram"]),
		MBTI:                  extractMBTI(sections["mbti"]),
		CognitiveStratum:      extractCognitiveStratum(firstPresent(sections, "cognitive_stratum", "stratum")),
		BigFive:               extractBigFive(firstPresent(sections, "big_five", "big5")),
		DarkTriad:             extractDarkTriad(sections["dark_triad"]),
		Intelligence:          extractIntelligence(firstPresent(sections, "intelligence", "cognitive_ability")),
		UniqueCharacteristics: extractUniqueCharacteristics(firstPresent(siblings, "unique_characteristics", "unique_traits")),
		BehavioralPatterns:    asGenericMap(siblings["behavioral_patterns"]),
		CrisisPatterns:        asGenericMap(siblings["crisis_patterns"]),
		ConvergenceAnalysis:   asGenericMap(siblings["convergence_analysis"]),
		Predictions:           asGenericMap(siblings["predictions"]),
		Metadata:              buildMetadata(meta, opts),
	}

	if !profile.HasAnySection() {
		return nil, pkgerrors.NewRequiredFieldMissingError(
			"document matched a dialect but yielded no personality sections",
			dialect, "personality_sections")
	}

	return profile, nil
}

func buildMetadata(meta map[string]any, opts Options) domain.ProfileMetadata {
	out := domain.ProfileMetadata{
		SchemaVersion: domain.SchemaVersion,
		SourceFile:    opts.SourceFile,
		NormalizedAt:  opts.NormalizedAt,
	}
	if meta == nil {
		return out
	}

	out.AnalysisDate = getString(meta, "analysis_date", "date", "analyzed_at")
	out.Analyzer = getString(meta, "analyzer", "analyst", "author")
	out.Confidence = getString(meta, "confidence", "confidence_level")
	out.Limitations = getString(meta, "limitations", "caveats")
	return out
}
