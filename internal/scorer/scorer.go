// Package scorer ranks competing canonical profiles by completeness.
package scorer

import "github.com/kapu/mindsync-go/internal/domain"

// Per-field presence weights. The values are hand-tuned carry-overs; only
// their relative ordering is load-bearing (narrative evidence outranks a
// bare type code). Every weight is positive, so adding fields never lowers
// a score.
const (
	weightDiscScores        = 2
	weightDiscBehaviors     = 3
	weightEnneagramType     = 2
	weightEnneagramEvidence = 3
	weightMBTIType          = 2
	weightMBTIFunctions     = 2
	weightMBTIManifests     = 3
	weightStratum           = 2
	weightStratumEvidence   = 2
	weightBigFiveTrait      = 1
	weightBigFiveFacets     = 2
	weightDarkTriadTrait    = 1
	weightDarkTriadEvidence = 3
	weightIQ                = 2
	weightIQDetail          = 2
	weightEQ                = 1
	weightEQComponents      = 2
	weightUniqueChars       = 2
	weightPassthrough       = 1
)

// Score computes a deterministic completeness score for one profile. Pure
// function: equal profiles always score equally.
func Score(p *domain.Profile) int {
	if p == nil {
		return 0
	}

	score := 0

	if p.Disc != nil {
		if p.Disc.D != nil || p.Disc.I != nil || p.Disc.S != nil || p.Disc.C != nil {
			score += weightDiscScores
		}
		if len(p.Disc.Behaviors) > 0 {
			score += weightDiscBehaviors
		}
	}

	if p.Enneagram != nil {
		if p.Enneagram.Type != "" {
			score += weightEnneagramType
		}
		if len(p.Enneagram.BehavioralEvidence) > 0 {
			score += weightEnneagramEvidence
		}
	}

	if p.MBTI != nil {
		if p.MBTI.Type != "" {
			score += weightMBTIType
		}
		stack := p.MBTI.CognitiveFunctions
		functions := []*domain.CognitiveFunction{stack.Dominant, stack.Auxiliary, stack.Tertiary, stack.Inferior}
		hasStack := false
		hasManifests := false
		for _, fn := range functions {
			if fn == nil {
				continue
			}
			hasStack = true
			if len(fn.Manifestations) > 0 {
				hasManifests = true
			}
		}
		if hasStack {
			score += weightMBTIFunctions
		}
		if hasManifests {
			score += weightMBTIManifests
		}
	}

	if p.CognitiveStratum != nil {
		if p.CognitiveStratum.Level != "" {
			score += weightStratum
		}
		if len(p.CognitiveStratum.Evidence) > 0 {
			score += weightStratumEvidence
		}
	}

	if p.BigFive != nil {
		traits := []*domain.BigFiveTrait{
			p.BigFive.Openness, p.BigFive.Conscientiousness, p.BigFive.Extraversion,
			p.BigFive.Agreeableness, p.BigFive.Neuroticism,
		}
		hasFacets := false
		for _, trait := range traits {
			if trait == nil {
				continue
			}
			score += weightBigFiveTrait
			if len(trait.Facets) > 0 {
				hasFacets = true
			}
		}
		if hasFacets {
			score += weightBigFiveFacets
		}
	}

	if p.DarkTriad != nil {
		traits := []*domain.DarkTriadTrait{
			p.DarkTriad.Narcissism, p.DarkTriad.Machiavellianism, p.DarkTriad.Psychopathy,
		}
		hasEvidence := false
		for _, trait := range traits {
			if trait == nil {
				continue
			}
			score += weightDarkTriadTrait
			if len(trait.Evidence) > 0 {
				hasEvidence = true
			}
		}
		if hasEvidence {
			score += weightDarkTriadEvidence
		}
	}

	if p.Intelligence != nil {
		if p.Intelligence.IQ != nil {
			score += weightIQ
			if len(p.Intelligence.IQ.Methodology) > 0 || len(p.Intelligence.IQ.Evidence) > 0 {
				score += weightIQDetail
			}
		}
		if p.Intelligence.EQ != nil {
			score += weightEQ
			if len(p.Intelligence.EQ.Components) > 0 {
				score += weightEQComponents
			}
		}
	}

	if len(p.UniqueCharacteristics) > 0 {
		score += weightUniqueChars
	}
	if len(p.BehavioralPatterns) > 0 {
		score += weightPassthrough
	}
	if len(p.CrisisPatterns) > 0 {
		score += weightPassthrough
	}
	if len(p.ConvergenceAnalysis) > 0 {
		score += weightPassthrough
	}
	if len(p.Predictions) > 0 {
		score += weightPassthrough
	}

	return score
}

// SelectBest picks the candidate with the strictly highest score. Ties keep
// the earliest candidate in discovery order, so the choice is stable across
// runs. Returns -1 for an empty candidate set.
func SelectBest(candidates []*domain.Profile) int {
	best := -1
	bestScore := -1
	for i, candidate := range candidates {
		if s := Score(candidate); s > bestScore {
			best = i
			bestScore = s
		}
	}
	return best
}
