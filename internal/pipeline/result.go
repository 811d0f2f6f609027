package pipeline

// Outcome classifies one person's run.
type Outcome int

const (
	OutcomeSucceeded Outcome = iota
	OutcomeSkipped
	OutcomeErrored
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// PersonResult is the explicit per-person stage result the runner
// aggregates; no stage mutates shared counters.
type PersonResult struct {
	Slug         string
	Outcome      Outcome
	Reason       string
	ResolvedSlug string
	FilesFound   int
	Candidates   int
	FileErrors   int
	Score        int
	Err          error
}

// Summary is the run-level report the operator inspects.
type Summary struct {
	Succeeded  int
	Skipped    int
	Errored    int
	FileErrors int
	DryRun     bool
	Results    []PersonResult
}

func (s *Summary) add(result PersonResult) {
	switch result.Outcome {
	case OutcomeSucceeded:
		s.Succeeded++
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeErrored:
		s.Errored++
	}
	s.FileErrors += result.FileErrors
	s.Results = append(s.Results, result)
}

// ExitCode differentiates clean runs from runs where any normalization or
// write step errored. Skips (no documents, unresolved identities) stay zero.
func (s *Summary) ExitCode() int {
	if s.Errored > 0 || s.FileErrors > 0 {
		return 1
	}
	return 0
}
