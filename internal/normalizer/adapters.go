package normalizer

import (
	"github.com/kapu/mindsync-go/internal/domain"
)

// Dialect names, in fingerprint priority order.
const (
	DialectNested    = "nested"
	DialectFlat      = "flat"
	DialectNamespace = "namespace"
	DialectLegacy    = "legacy"
)

// nested dialect: everything lives under psychometric_profile, with the five
// framework sections grouped inside personality_systems.
//
//	psychometric_profile:
//	  metadata: {...}
//	  personality_systems: {disc: ..., mbti: ..., enneagram: ...}
//	  unique_characteristics: {...}
//	  behavioral_patterns: {...}
func matchNested(doc map[string]any) bool {
	wrapper, ok := getMap(doc, "psychometric_profile")
	if !ok {
		return false
	}
	_, ok = getMap(wrapper, "personality_systems")
	return ok
}

func buildNested(doc map[string]any, opts Options) (*domain.Profile, error) {
	wrapper, _ := getMap(doc, "psychometric_profile")
	sections, _ := getMap(wrapper, "personality_systems")
	meta, _ := getMap(wrapper, "metadata")
	return buildProfile(DialectNested, sections, wrapper, meta, opts)
}

// flat dialect: the framework sections sit as top-level siblings. Two of the
// three marker keys are enough on their own; a lone marker still matches when
// its mapping carries that framework's identifying fields, since authors do
// write single-framework files. A lone marker without those fields stays
// unrecognized so key-name coincidences (a music file's "disc" number) never
// match.
func matchFlat(doc map[string]any) bool {
	markers := 0
	for _, key := range []string{"disc", "mbti", "enneagram"} {
		if _, ok := getMap(doc, key); ok {
			markers++
		}
	}
	if markers >= 2 {
		return true
	}
	if markers == 0 {
		return false
	}

	if m, ok := getMap(doc, "mbti"); ok && getString(m, "type", "type_code") != "" {
		return true
	}
	if m, ok := getMap(doc, "enneagram"); ok && getString(m, "type", "type_code") != "" {
		return true
	}
	if m, ok := getMap(doc, "disc"); ok {
		if getFloat(m, "d", "D", "dominance") != nil || getFloat(m, "i", "I", "influence") != nil ||
			getFloat(m, "s", "S", "steadiness") != nil || getFloat(m, "c", "C", "conscientiousness") != nil {
			return true
		}
		if _, found := getMap(m, "scores"); found {
			return true
		}
	}
	return false
}

func buildFlat(doc map[string]any, opts Options) (*domain.Profile, error) {
	meta, _ := getMap(doc, "metadata")
	return buildProfile(DialectFlat, doc, doc, meta, opts)
}

// namespace dialect: sections under a psychometrics.* namespace, authoring
// metadata either inside it or as a top-level sibling.
func matchNamespace(doc map[string]any) bool {
	_, ok := getMap(doc, "psychometrics")
	return ok
}

func buildNamespace(doc map[string]any, opts Options) (*domain.Profile, error) {
	sections, _ := getMap(doc, "psychometrics")
	meta, ok := getMap(sections, "metadata")
	if !ok {
		meta, _ = getMap(doc, "metadata")
	}
	return buildProfile(DialectNamespace, sections, sections, meta, opts)
}

// legacy dialect: the oldest documents wrap everything in profile.personality
// and use the retired field names (repetitive_patterns, scale_max) the
// shared extractors already tolerate.
func matchLegacy(doc map[string]any) bool {
	wrapper, ok := getMap(doc, "profile")
	if !ok {
		return false
	}
	_, ok = getMap(wrapper, "personality")
	return ok
}

func buildLegacy(doc map[string]any, opts Options) (*domain.Profile, error) {
	wrapper, _ := getMap(doc, "profile")
	sections, _ := getMap(wrapper, "personality")
	meta, ok := getMap(wrapper, "meta")
	if !ok {
		meta, _ = getMap(wrapper, "metadata")
	}
	return buildProfile(DialectLegacy, sections, wrapper, meta, opts)
}
