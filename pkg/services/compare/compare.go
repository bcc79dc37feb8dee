// Package compare lines up two canonical reports of the same statement kind
// for period-over-period review.
package compare

import (
	"math"
	"slices"

	"github.com/de-tools/clarity/pkg/models/domain"
)

// Compare matches sections and their line items by name. Entries keep the
// current report's order; entries found only in the previous report follow.
func Compare(current, previous domain.Report) domain.Comparison {
	kind := current.Kind
	if kind == domain.StatementUnknown || kind == "" {
		kind = previous.Kind
	}

	return domain.Comparison{
		Kind:           kind,
		CurrentPeriod:  current.Period,
		PreviousPeriod: previous.Period,
		Sections:       compareSections(current.Sections, previous.Sections),
		Metrics:        compareMetrics(current.Summary, previous.Summary),
	}
}

// NewChange computes the delta between two amounts. The percent change is 0
// when there is no previous amount to measure against.
func NewChange(name string, current, previous float64) domain.Change {
	change := domain.Change{
		Name:     name,
		Current:  current,
		Previous: previous,
		Delta:    current - previous,
	}
	if previous != 0 {
		change.PercentChange = change.Delta / math.Abs(previous) * 100
	}
	return change
}

func compareSections(current, previous []domain.Section) []domain.SectionComparison {
	prevByName := make(map[string]domain.Section, len(previous))
	for _, s := range previous {
		if _, ok := prevByName[s.Name]; !ok {
			prevByName[s.Name] = s
		}
	}

	seen := make(map[string]bool, len(current))
	out := make([]domain.SectionComparison, 0, len(current))
	for _, cur := range current {
		if seen[cur.Name] {
			continue
		}
		seen[cur.Name] = true
		prev := prevByName[cur.Name]
		out = append(out, domain.SectionComparison{
			Name:  cur.Name,
			Items: compareItems(cur.Items, prev.Items),
			Total: NewChange(cur.Name, cur.Total, prev.Total),
		})
	}
	for _, prev := range previous {
		if seen[prev.Name] {
			continue
		}
		seen[prev.Name] = true
		out = append(out, domain.SectionComparison{
			Name:  prev.Name,
			Items: compareItems(nil, prev.Items),
			Total: NewChange(prev.Name, 0, prev.Total),
		})
	}
	return out
}

func compareItems(current, previous []domain.LineItem) []domain.Change {
	prevAmounts := make(map[string]float64, len(previous))
	for _, item := range previous {
		prevAmounts[item.Name] += item.Amount
	}
	curAmounts := make(map[string]float64, len(current))
	for _, item := range current {
		curAmounts[item.Name] += item.Amount
	}

	var out []domain.Change
	seen := make(map[string]bool, len(current)+len(previous))
	for _, items := range [][]domain.LineItem{current, previous} {
		for _, item := range items {
			if seen[item.Name] {
				continue
			}
			seen[item.Name] = true
			out = append(out, NewChange(item.Name, curAmounts[item.Name], prevAmounts[item.Name]))
		}
	}
	return out
}

func compareMetrics(current, previous map[string]float64) []domain.Change {
	keys := make([]string, 0, len(current)+len(previous))
	for k := range current {
		keys = append(keys, k)
	}
	for k := range previous {
		if _, ok := current[k]; !ok {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	out := make([]domain.Change, 0, len(keys))
	for _, k := range keys {
		out = append(out, NewChange(k, current[k], previous[k]))
	}
	return out
}
