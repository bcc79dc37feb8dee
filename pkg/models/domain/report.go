package domain

import (
	"maps"
	"slices"
)

// Report is the canonical form of one financial statement. It is not
// modified after normalization; use Clone before editing.
type Report struct {
	Kind     StatementKind
	Title    string
	Basis    string
	Currency string
	Period   *Period
	AsOfDate string
	Sections []Section
	Summary  map[string]float64

	TopIncomeSources []LineItem
	TopExpenses      []LineItem

	// Issues are error insights recorded while extracting statement totals.
	Issues []Insight
}

// Period represents the reporting date range as given by the source
type Period struct {
	Start string
	End   string
}

// Section represents a named grouping of line items with a total
type Section struct {
	Name          string
	Group         string
	Items         []LineItem
	Total         float64
	Subsections   []Section
	IsSummaryOnly bool
	// HasExplicitTotal is set when Total came from the source summary row
	// rather than from summing Items.
	HasExplicitTotal bool
}

type LineItem struct {
	Name   string
	Amount float64
}

func (r Report) Metric(key string) (float64, bool) {
	v, ok := r.Summary[key]
	return v, ok
}

func (r Report) Clone() Report {
	out := r
	if r.Period != nil {
		p := *r.Period
		out.Period = &p
	}
	out.Sections = cloneSections(r.Sections)
	out.Summary = maps.Clone(r.Summary)
	out.TopIncomeSources = slices.Clone(r.TopIncomeSources)
	out.TopExpenses = slices.Clone(r.TopExpenses)
	out.Issues = slices.Clone(r.Issues)
	return out
}

func (s Section) ItemsTotal() float64 {
	total := 0.0
	for _, item := range s.Items {
		total += item.Amount
	}
	return total
}

// FindSection walks sections depth-first in source order and returns the
// first one accepted by match.
func FindSection(sections []Section, match func(Section) bool) (Section, bool) {
	for _, s := range sections {
		if match(s) {
			return s, true
		}
		if found, ok := FindSection(s.Subsections, match); ok {
			return found, true
		}
	}
	return Section{}, false
}

func cloneSections(sections []Section) []Section {
	if sections == nil {
		return nil
	}
	out := make([]Section, len(sections))
	for i, s := range sections {
		s.Items = slices.Clone(s.Items)
		s.Subsections = cloneSections(s.Subsections)
		out[i] = s
	}
	return out
}
