package normalizer

import (
	"github.com/kapu/mindsync-go/internal/domain"
)

// Section extractors shared by every dialect adapter. Each takes the raw
// value found at the section's key and returns nil when the source did not
// carry that section. Scalar-vs-object ambiguity is resolved here: bare
// numbers are lifted into the canonical object form with null sub-fields,
// and declared numeric ranges are carried as-is (no scale is invented).

func extractDisc(v any) *domain.DiscSection {
	m, ok := asMap(v)
	if !ok {
		return nil
	}

	section := &domain.DiscSection{
		D:         getFloat(m, "d", "D", "dominance"),
		I:         getFloat(m, "i", "I", "influence"),
		S:         getFloat(m, "s", "S", "steadiness"),
		C:         getFloat(m, "c", "C", "conscientiousness"),
		Pattern:   getString(m, "pattern", "pattern_label", "profile_pattern"),
		Behaviors: getStringList(m, "behaviors", "behavioral_indicators", "observed_behaviors"),
	}

	if scores, found := getMap(m, "scores"); found {
		if section.D == nil {
			section.D = getFloat(scores, "d", "D")
		}
		if section.I == nil {
			section.I = getFloat(scores, "i", "I")
		}
		if section.S == nil {
			section.S = getFloat(scores, "s", "S")
		}
		if section.C == nil {
			section.C = getFloat(scores, "c", "C")
		}
	}

	return section
}

func extractEnneagram(v any) *domain.EnneagramSection {
	m, ok := asMap(v)
	if !ok {
		return nil
	}

	code, name := splitTypeLabel(getString(m, "type", "type_code"))
	if name == "" {
		name = getString(m, "type_name", "name")
	}

	section := &domain.EnneagramSection{
		Type:           code,
		TypeName:       name,
		CoreFear:       getString(m, "core_fear", "fear"),
		CoreDesire:     getString(m, "core_desire", "desire"),
		Integration:    getString(m, "integration", "integration_direction", "growth_direction"),
		Disintegration: getString(m, "disintegration", "disintegration_direction", "stress_direction"),
	}

	// Two generations of source documents named this field differently;
	// both lists are kept, first field's items first, no de-duplication.
	evidence := getStringList(m, "behavioral_evidence")
	legacy := getStringList(m, "repetitive_patterns")
	section.BehavioralEvidence = unionLists(evidence, legacy)

	return section
}

func extractCognitiveFunction(v any) *domain.CognitiveFunction {
	switch value := v.(type) {
	case nil:
		return nil
	case string:
		if value == "" {
			return nil
		}
		return &domain.CognitiveFunction{
			Function:       value,
			Manifestations: []string{},
		}
	case map[string]any:
		fn := &domain.CognitiveFunction{
			Function:       getString(value, "function", "code", "name"),
			Manifestations: getStringList(value, "manifestations", "examples", "evidence"),
		}
		if fn.Function == "" {
			return nil
		}
		return fn
	default:
		return nil
	}
}

func extractMBTI(v any) *domain.MBTISection {
	m, ok := asMap(v)
	if !ok {
		return nil
	}

	code, name := splitTypeLabel(getString(m, "type", "type_code"))
	if name == "" {
		name = getString(m, "type_name", "name", "friendly_name")
	}

	section := &domain.MBTISection{
		Type:     code,
		TypeName: name,
	}

	stack, found := getMap(m, "cognitive_functions")
	if !found {
		stack, found = getMap(m, "function_stack")
	}
	if found {
		section.CognitiveFunctions = domain.CognitiveStack{
			Dominant:  extractCognitiveFunction(stack["dominant"]),
			Auxiliary: extractCognitiveFunction(stack["auxiliary"]),
			Tertiary:  extractCognitiveFunction(stack["tertiary"]),
			Inferior:  extractCognitiveFunction(stack["inferior"]),
		}
	}

	return section
}

func extractCognitiveStratum(v any) *domain.CognitiveStratumSection {
	m, ok := asMap(v)
	if !ok {
		return nil
	}

	return &domain.CognitiveStratumSection{
		Level:    getString(m, "level", "stratum"),
		Name:     getString(m, "name", "level_name"),
		Evidence: getStringList(m, "evidence", "supporting_evidence"),
	}
}

func extractBigFiveTrait(v any) *domain.BigFiveTrait {
	if f, numeric := asFloat(v); numeric {
		return &domain.BigFiveTrait{
			Total:      f,
			Percentile: nil,
			Facets:     map[string]any{},
		}
	}

	m, ok := asMap(v)
	if !ok {
		return nil
	}

	trait := &domain.BigFiveTrait{
		Total:      getFloat(m, "total", "score"),
		Percentile: getFloat(m, "percentile"),
		Facets:     map[string]any{},
	}
	if facets, found := getMap(m, "facets"); found {
		trait.Facets = facets
	}
	return trait
}

func extractBigFive(v any) *domain.BigFiveSection {
	m, ok := asMap(v)
	if !ok {
		return nil
	}

	section := &domain.BigFiveSection{
		Openness:          extractBigFiveTrait(m["openness"]),
		Conscientiousness: extractBigFiveTrait(m["conscientiousness"]),
		Extraversion:      extractBigFiveTrait(m["extraversion"]),
		Agreeableness:     extractBigFiveTrait(m["agreeableness"]),
		Neuroticism:       extractBigFiveTrait(m["neuroticism"]),
	}

	if section.Openness == nil && section.Conscientiousness == nil &&
		section.Extraversion == nil && section.Agreeableness == nil &&
		section.Neuroticism == nil {
		return nil
	}
	return section
}

func extractDarkTriadTrait(v any, sharedMax *float64) *domain.DarkTriadTrait {
	if f, numeric := asFloat(v); numeric {
		// Bare-number form: the section-level scale_max applies to all
		// three traits.
		return &domain.DarkTriadTrait{
			Score:      f,
			MaxScale:   sharedMax,
			Percentile: nil,
			Evidence:   []string{},
		}
	}

	m, ok := asMap(v)
	if !ok {
		return nil
	}

	trait := &domain.DarkTriadTrait{
		Score:      getFloat(m, "score", "total"),
		MaxScale:   getFloat(m, "max_scale", "scale_max", "scale"),
		Percentile: getFloat(m, "percentile"),
		Evidence:   getStringList(m, "evidence", "narrative_evidence"),
	}
	if trait.MaxScale == nil {
		trait.MaxScale = sharedMax
	}
	return trait
}

func extractDarkTriad(v any) *domain.DarkTriadSection {
	m, ok := asMap(v)
	if !ok {
		return nil
	}

	sharedMax := getFloat(m, "scale_max", "max_scale")

	section := &domain.DarkTriadSection{
		Narcissism:       extractDarkTriadTrait(m["narcissism"], sharedMax),
		Machiavellianism: extractDarkTriadTrait(m["machiavellianism"], sharedMax),
		Psychopathy:      extractDarkTriadTrait(m["psychopathy"], sharedMax),
	}

	if section.Narcissism == nil && section.Machiavellianism == nil && section.Psychopathy == nil {
		return nil
	}
	return section
}

func extractIQ(v any) *domain.IQEstimate {
	switch value := v.(type) {
	case nil:
		return nil
	case string:
		if value == "" {
			return nil
		}
		return &domain.IQEstimate{
			Range:       value,
			Methodology: []string{},
			Evidence:    []string{},
		}
	case map[string]any:
		return &domain.IQEstimate{
			Range:       getString(value, "range", "estimate", "estimated_range"),
			Methodology: getStringList(value, "methodology"),
			Evidence:    getStringList(value, "evidence"),
		}
	default:
		if s := asString(v); s != "" {
			return &domain.IQEstimate{
				Range:       s,
				Methodology: []string{},
				Evidence:    []string{},
			}
		}
		return nil
	}
}

func extractEQ(v any) *domain.EQEstimate {
	if f, numeric := asFloat(v); numeric {
		return &domain.EQEstimate{
			Total:      f,
			Components: map[string]any{},
		}
	}

	m, ok := asMap(v)
	if !ok {
		return nil
	}

	estimate := &domain.EQEstimate{
		Total:      getFloat(m, "total", "score"),
		Components: map[string]any{},
	}
	if components, found := getMap(m, "components"); found {
		estimate.Components = components
	} else if breakdown, found := getMap(m, "breakdown"); found {
		estimate.Components = breakdown
	}
	return estimate
}

func extractIntelligence(v any) *domain.IntelligenceSection {
	m, ok := asMap(v)
	if !ok {
		return nil
	}

	section := &domain.IntelligenceSection{
		IQ: extractIQ(firstPresent(m, "iq", "iq_estimate")),
		EQ: extractEQ(firstPresent(m, "eq", "eq_estimate")),
	}
	if section.IQ == nil && section.EQ == nil {
		return nil
	}
	return section
}

func firstPresent(m map[string]any, keys ...string) any {
	for _, key := range keys {
		if v, ok := m[key]; ok && v != nil {
			return v
		}
	}
	return nil
}

// extractUniqueCharacteristics copies the section verbatim. Source authors
// invent new fields freely, so unknown keys pass through unchanged.
func extractUniqueCharacteristics(v any) map[string]any {
	return asGenericMap(v)
}
