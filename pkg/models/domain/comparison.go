package domain

// Comparison represents a period-over-period view of two reports
type Comparison struct {
	Kind           StatementKind
	CurrentPeriod  *Period
	PreviousPeriod *Period
	Sections       []SectionComparison
	Metrics        []Change
}

type SectionComparison struct {
	Name  string
	Items []Change
	Total Change
}

type Change struct {
	Name          string
	Current       float64
	Previous      float64
	Delta         float64
	PercentChange float64
}
