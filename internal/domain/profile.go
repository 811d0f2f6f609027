package domain

import "encoding/json"

// SchemaVersion is stamped on every normalized profile.
const SchemaVersion = "1.0"

// Profile is the canonical schema-v1.0 psychometric record for one mind.
// Every section is optional; array-typed fields are always present as empty
// slices rather than null so downstream readers never branch on nil.
type Profile struct {
	Disc                  *DiscSection             `json:"disc,omitempty"`
	Enneagram             *EnneagramSection        `json:"enneagram,omitempty"`
	MBTI                  *MBTISection             `json:"mbti,omitempty"`
	CognitiveStratum      *CognitiveStratumSection `json:"cognitive_stratum,omitempty"`
	BigFive               *BigFiveSection          `json:"big_five,omitempty"`
	DarkTriad             *DarkTriadSection        `json:"dark_triad,omitempty"`
	Intelligence          *IntelligenceSection     `json:"intelligence,omitempty"`
	UniqueCharacteristics map[string]any           `json:"unique_characteristics,omitempty"`
	BehavioralPatterns    map[string]any           `json:"behavioral_patterns,omitempty"`
	CrisisPatterns        map[string]any           `json:"crisis_patterns,omitempty"`
	ConvergenceAnalysis   map[string]any           `json:"convergence_analysis,omitempty"`
	Predictions           map[string]any           `json:"predictions,omitempty"`
	Metadata              ProfileMetadata          `json:"metadata"`
}

type DiscSection struct {
	D         *float64 `json:"d"`
	I         *float64 `json:"i"`
	S         *float64 `json:"s"`
	C         *float64 `json:"c"`
	Pattern   string   `json:"pattern,omitempty"`
	Behaviors []string `json:"behaviors"`
}

type EnneagramSection struct {
	Type           string `json:"type"`
	TypeName       string `json:"type_name,omitempty"`
	CoreFear       string `json:"core_fear,omitempty"`
	CoreDesire     string `json:"core_desire,omitempty"`
	Integration    string `json:"integration,omitempty"`
	Disintegration string `json:"disintegration,omitempty"`
	// BehavioralEvidence unions the two legacy source field names
	// (behavioral_evidence, repetitive_patterns) in that order, duplicates
	// preserved so data-quality issues stay visible downstream.
	BehavioralEvidence []string `json:"behavioral_evidence"`
}

type MBTISection struct {
	Type               string         `json:"type"`
	TypeName           string         `json:"type_name,omitempty"`
	CognitiveFunctions CognitiveStack `json:"cognitive_functions"`
}

type CognitiveStack struct {
	Dominant  *CognitiveFunction `json:"dominant"`
	Auxiliary *CognitiveFunction `json:"auxiliary"`
	Tertiary  *CognitiveFunction `json:"tertiary"`
	Inferior  *CognitiveFunction `json:"inferior"`
}

type CognitiveFunction struct {
	Function       string   `json:"function"`
	Manifestations []string `json:"manifestations"`
}

type CognitiveStratumSection struct {
	Level    string   `json:"level"`
	Name     string   `json:"name,omitempty"`
	Evidence []string `json:"evidence"`
}

type BigFiveSection struct {
	Openness          *BigFiveTrait `json:"openness,omitempty"`
	Conscientiousness *BigFiveTrait `json:"conscientiousness,omitempty"`
	Extraversion      *BigFiveTrait `json:"extraversion,omitempty"`
	Agreeableness     *BigFiveTrait `json:"agreeableness,omitempty"`
	Neuroticism       *BigFiveTrait `json:"neuroticism,omitempty"`
}

type BigFiveTrait struct {
	Total      *float64       `json:"total"`
	Percentile *float64       `json:"percentile"`
	Facets     map[string]any `json:"facets"`
}

type DarkTriadSection struct {
	Narcissism       *DarkTriadTrait `json:"narcissism,omitempty"`
	Machiavellianism *DarkTriadTrait `json:"machiavellianism,omitempty"`
	Psychopathy      *DarkTriadTrait `json:"psychopathy,omitempty"`
}

type DarkTriadTrait struct {
	Score      *float64 `json:"score"`
	MaxScale   *float64 `json:"max_scale"`
	Percentile *float64 `json:"percentile"`
	Evidence   []string `json:"evidence"`
}

type IntelligenceSection struct {
	IQ *IQEstimate `json:"iq,omitempty"`
	EQ *EQEstimate `json:"eq,omitempty"`
}

type IQEstimate struct {
	Range       string   `json:"range"`
	Methodology []string `json:"methodology"`
	Evidence    []string `json:"evidence"`
}

type EQEstimate struct {
	Total      *float64       `json:"total"`
	Components map[string]any `json:"components"`
}

type ProfileMetadata struct {
	SchemaVersion string `json:"schema_version"`
	SourceFile    string `json:"source_file,omitempty"`
	NormalizedAt  string `json:"normalized_at,omitempty"`
	AnalysisDate  string `json:"analysis_date,omitempty"`
	Analyzer      string `json:"analyzer,omitempty"`
	Confidence    string `json:"confidence,omitempty"`
	Limitations   string `json:"limitations,omitempty"`
}

// SectionsJSON renders the profile as its canonical JSON blob. encoding/json
// sorts map keys, so equal profiles always serialize to identical bytes.
func (p *Profile) SectionsJSON() ([]byte, error) {
	return json.Marshal(p)
}

// HasAnySection reports whether at least one personality section survived
// normalization. An adapter that matched but produced none failed extraction.
func (p *Profile) HasAnySection() bool {
	return p.Disc != nil ||
		p.Enneagram != nil ||
		p.MBTI != nil ||
		p.CognitiveStratum != nil ||
		p.BigFive != nil ||
		p.DarkTriad != nil ||
		p.Intelligence != nil ||
		len(p.UniqueCharacteristics) > 0
}
