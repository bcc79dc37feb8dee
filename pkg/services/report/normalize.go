// Package report turns raw accounting report documents into the canonical
// domain.Report model.
package report

import (
	"strings"

	"github.com/de-tools/clarity/pkg/models/domain"
	"github.com/de-tools/clarity/pkg/models/raw"
)

// MiscellaneousSection collects data rows that are not nested in any section.
const MiscellaneousSection = "Miscellaneous Items"

const topItemsLimit = 3

// Normalize converts a raw report into its canonical form. It never fails:
// shape problems degrade to defaults and extraction failures are recorded as
// error insights in Report.Issues. Any hint other than a known kind means the
// kind is inferred from the document. A report the producer flagged with
// NoReportData keeps its header but has no sections.
func Normalize(doc raw.Report, hint domain.StatementKind) domain.Report {
	kind := hint
	if !kind.Known() {
		kind = DetectKind(doc)
	}

	header := doc.HeaderOrEmpty()
	out := domain.Report{
		Kind:     kind,
		Title:    strings.TrimSpace(header.ReportName.String()),
		Basis:    strings.TrimSpace(header.ReportBasis.String()),
		Currency: strings.TrimSpace(header.Currency.String()),
		Period:   periodOf(doc),
		AsOfDate: asOfDateOf(doc),
		Sections: []domain.Section{},
		Summary:  map[string]float64{},
	}
	if !doc.NoData() {
		out.Sections = buildSections(doc.TopRows())
	}

	if len(out.Sections) == 0 {
		return out
	}

	switch kind {
	case domain.StatementProfitAndLoss:
		guard(&out, "profit and loss", func() { extractProfitAndLoss(&out) })
		guard(&out, "profit and loss", func() { extractTopItems(&out) })
	case domain.StatementBalanceSheet:
		guard(&out, "balance sheet", func() { extractBalanceSheet(&out) })
	case domain.StatementCashFlow:
		guard(&out, "cash flow", func() { extractCashFlow(&out) })
	}

	return out
}

func periodOf(doc raw.Report) *domain.Period {
	header := doc.HeaderOrEmpty()
	start, end := header.StartPeriod.String(), header.EndPeriod.String()
	if start == "" || end == "" {
		start, end = doc.Extras.PeriodStart.String(), doc.Extras.PeriodEnd.String()
	}
	if start == "" || end == "" {
		return nil
	}
	return &domain.Period{Start: start, End: end}
}

func asOfDateOf(doc raw.Report) string {
	if t := doc.HeaderOrEmpty().Time.String(); t != "" {
		date, _, _ := strings.Cut(t, "T")
		return date
	}
	if d := doc.Extras.AsOfDate.String(); d != "" {
		return d
	}
	return doc.Extras.Date.String()
}

// buildSections walks the top level rows in source order.
func buildSections(rows []raw.Row) []domain.Section {
	b := &sectionBuilder{misc: -1}
	b.walk(rows)
	return b.sections
}

type sectionBuilder struct {
	sections []domain.Section
	misc     int
}

func (b *sectionBuilder) walk(rows []raw.Row) {
	for _, row := range rows {
		switch {
		case row.HasHeader():
			b.sections = append(b.sections, buildSection(row))
		case row.HasSummary():
			b.sections = append(b.sections, summaryOnly(row))
		case row.HasColData():
			b.addOrphan(itemOf(row))
		case row.HasChildren():
			b.walk(row.Children())
		}
	}
}

func (b *sectionBuilder) addOrphan(item domain.LineItem) {
	if b.misc < 0 {
		b.misc = len(b.sections)
		b.sections = append(b.sections, domain.Section{Name: MiscellaneousSection})
	}
	misc := &b.sections[b.misc]
	misc.Items = append(misc.Items, item)
	misc.Total += item.Amount
}

func buildSection(row raw.Row) domain.Section {
	section := domain.Section{
		Name:  row.Name(),
		Group: strings.TrimSpace(row.Group.String()),
	}
	fillSection(&section, row.Children())

	if value, ok := row.Summary.Amount(); ok && strings.TrimSpace(value) != "" {
		section.Total = Coerce(value)
		section.HasExplicitTotal = true
	} else {
		section.Total = section.ItemsTotal()
	}
	return section
}

func fillSection(section *domain.Section, rows []raw.Row) {
	for _, child := range rows {
		switch {
		case child.HasHeader():
			section.Subsections = append(section.Subsections, buildSection(child))
		case child.HasSummary():
			section.Subsections = append(section.Subsections, summaryOnly(child))
		case child.HasColData():
			section.Items = append(section.Items, itemOf(child))
		case child.HasChildren():
			fillSection(section, child.Children())
		}
	}
}

func summaryOnly(row raw.Row) domain.Section {
	name := row.Summary.Label()
	if name == "" {
		name = strings.TrimSpace(row.Group.String())
	}
	value, ok := row.Summary.Amount()
	return domain.Section{
		Name:             name,
		Group:            strings.TrimSpace(row.Group.String()),
		Total:            coerceCell(value, ok),
		IsSummaryOnly:    true,
		HasExplicitTotal: ok && strings.TrimSpace(value) != "",
	}
}

func itemOf(row raw.Row) domain.LineItem {
	value, ok := row.Amount()
	return domain.LineItem{
		Name:   row.Name(),
		Amount: coerceCell(value, ok),
	}
}
