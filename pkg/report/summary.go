package report

// SummaryName identifies the summary output.
const SummaryName = "stage_summary"

// StageSummary is the total time spent in one stage.
type StageSummary struct {
	Stage    string  `json:"stage"    yaml:"stage"`
	Duration float64 `json:"duration" yaml:"duration"`
}

// Summary is the machine-readable view of a payload: no charts, no images.
type Summary struct {
	Samples       int            `json:"samples"              yaml:"samples"`
	Stages        []StageSummary `json:"stages"               yaml:"stages"`
	ChangingCosts []ChangingCost `json:"changing_costs"       yaml:"changing_costs"`
	Extras        []Extra        `json:"extras,omitempty"     yaml:"extras,omitempty"`
	Links         []string       `json:"links,omitempty"      yaml:"links,omitempty"`
	Thumbnails    []string       `json:"thumbnails,omitempty" yaml:"thumbnails,omitempty"`
}

// NewSummary extracts a Summary from p.
func NewSummary(p *Payload) *Summary {
	s := &Summary{
		Samples:       len(p.Timeline.Stages),
		Stages:        make([]StageSummary, len(p.Durations.Stages)),
		ChangingCosts: append([]ChangingCost{}, p.ChangingCosts...),
		Extras:        append([]Extra(nil), p.Extras...),
		Links:         append([]string(nil), p.Links...),
	}

	for i, name := range p.Durations.Stages {
		s.Stages[i] = StageSummary{Stage: name, Duration: p.Durations.Durations[i]}
	}

	for _, t := range p.Thumbnails {
		s.Thumbnails = append(s.Thumbnails, t.Name)
	}

	return s
}

// OutputName implements renderer.SummaryOutput.
func (s *Summary) OutputName() string { return SummaryName }

// ToJSON implements renderer.SummaryOutput.
func (s *Summary) ToJSON() any { return s }

// ToYAML implements renderer.SummaryOutput.
func (s *Summary) ToYAML() any { return s }
