package report

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/de-tools/clarity/pkg/models/domain"
)

// lookup identifies a statement section by its group tag, falling back to
// the section name when no group matches.
type lookup struct {
	groups []string
	names  []string
}

var (
	incomeLookup             = lookup{groups: []string{domain.GroupIncome}, names: []string{"income", "revenue"}}
	cogsLookup               = lookup{groups: []string{domain.GroupCOGS}, names: []string{"cost of goods sold", "cost of sales"}}
	expensesLookup           = lookup{groups: []string{domain.GroupExpenses}, names: []string{"expenses"}}
	grossProfitLookup        = lookup{groups: []string{domain.GroupGrossProfit}, names: []string{"gross profit"}}
	netIncomeLookup          = lookup{groups: []string{domain.GroupNetIncome}, names: []string{"net income"}}
	netOperatingIncomeLookup = lookup{groups: []string{domain.GroupNetOperatingIncome}, names: []string{"net operating income"}}
	otherIncomeLookup        = lookup{groups: []string{domain.GroupOtherIncome}, names: []string{"other income"}}
	otherExpensesLookup      = lookup{groups: []string{domain.GroupOtherExpenses}, names: []string{"other expenses"}}

	assetsLookup             = lookup{groups: []string{domain.GroupAssets, "TotalAssets"}, names: []string{"assets", "total assets"}}
	liabilitiesLookup        = lookup{groups: []string{domain.GroupLiabilities}, names: []string{"liabilities", "total liabilities"}}
	equityLookup             = lookup{groups: []string{domain.GroupEquity}, names: []string{"equity", "total equity"}}
	currentAssetsLookup      = lookup{groups: []string{domain.GroupCurrentAssets}, names: []string{"current assets"}}
	currentLiabilitiesLookup = lookup{groups: []string{domain.GroupCurrentLiabilities}, names: []string{"current liabilities"}}
	liabilitiesEquityLookup  = lookup{groups: []string{"TotalLiabilitiesAndEquity"}, names: []string{"liabilities and equity", "total liabilities and equity"}}

	operatingLookup  = lookup{groups: []string{domain.GroupOperatingActivities}, names: []string{"operating activities"}}
	investingLookup  = lookup{groups: []string{domain.GroupInvestingActivities}, names: []string{"investing activities"}}
	financingLookup  = lookup{groups: []string{domain.GroupFinancingActivities}, names: []string{"financing activities"}}
	cashChangeLookup = lookup{
		groups: []string{domain.GroupCashChange, domain.GroupCashIncrease},
		names:  []string{"net cash increase for period", "net change in cash"},
	}
	beginningCashLookup = lookup{groups: []string{domain.GroupBeginningCash}, names: []string{"cash at beginning of period"}}
	endingCashLookup    = lookup{groups: []string{domain.GroupEndingCash}, names: []string{"cash at end of period"}}
)

func (l lookup) find(sections []domain.Section) (domain.Section, bool) {
	if s, ok := domain.FindSection(sections, func(s domain.Section) bool {
		return slices.Contains(l.groups, s.Group)
	}); ok {
		return s, true
	}
	return domain.FindSection(sections, func(s domain.Section) bool {
		return slices.Contains(l.names, strings.ToLower(s.Name))
	})
}

func (l lookup) total(sections []domain.Section) (float64, bool) {
	s, ok := l.find(sections)
	if !ok {
		return 0, false
	}
	return s.Total, true
}

// guard runs one extraction step. A panic inside the step is recorded as an
// error insight; whatever the step already wrote to the summary is kept.
func guard(r *domain.Report, statement string, step func()) {
	defer func() {
		if rec := recover(); rec != nil {
			r.Issues = append(r.Issues, domain.Insight{
				Kind:        domain.InsightError,
				Title:       "Processing Error",
				Description: fmt.Sprintf("Error processing %s data: %s", statement, panicMessage(rec)),
			})
		}
	}()
	step()
}

func panicMessage(rec any) string {
	if err, ok := rec.(error); ok {
		return err.Error()
	}
	return fmt.Sprint(rec)
}

func extractProfitAndLoss(r *domain.Report) {
	sections := r.Sections

	income, _ := incomeLookup.total(sections)
	cogs, _ := cogsLookup.total(sections)
	expenses, _ := expensesLookup.total(sections)
	r.Summary[domain.MetricTotalIncome] = income
	r.Summary[domain.MetricTotalCOGS] = cogs
	r.Summary[domain.MetricTotalExpenses] = expenses

	grossProfit, _ := grossProfitLookup.total(sections)
	if grossProfit == 0 {
		grossProfit = income - cogs
	}
	r.Summary[domain.MetricGrossProfit] = grossProfit

	netOperatingIncome, hasNetOperating := netOperatingIncomeLookup.total(sections)
	if hasNetOperating {
		r.Summary[domain.MetricNetOperatingIncome] = netOperatingIncome
	}
	netIncome, ok := netIncomeLookup.total(sections)
	if !ok {
		netIncome = netOperatingIncome
	}
	r.Summary[domain.MetricNetIncome] = netIncome

	if v, ok := otherIncomeLookup.total(sections); ok {
		r.Summary[domain.MetricOtherIncome] = v
	}
	if v, ok := otherExpensesLookup.total(sections); ok {
		r.Summary[domain.MetricOtherExpenses] = v
	}

	r.Summary[domain.MetricGrossMargin] = 0
	r.Summary[domain.MetricNetMargin] = 0
	if income > 0 {
		r.Summary[domain.MetricGrossMargin] = grossProfit / income * 100
		r.Summary[domain.MetricNetMargin] = netIncome / income * 100
	}
}

func extractBalanceSheet(r *domain.Report) {
	sections := r.Sections

	assets, _ := assetsLookup.total(sections)
	liabilities, _ := liabilitiesLookup.total(sections)
	equity, _ := equityLookup.total(sections)
	r.Summary[domain.MetricTotalAssets] = assets
	r.Summary[domain.MetricTotalLiabilities] = liabilities
	r.Summary[domain.MetricTotalEquity] = equity

	currentAssets := nestedTotal(sections, assetsLookup, currentAssetsLookup)
	currentLiabilities := nestedTotal(sections, liabilitiesLookup, currentLiabilitiesLookup)
	r.Summary[domain.MetricCurrentAssets] = currentAssets
	r.Summary[domain.MetricCurrentLiabilities] = currentLiabilities

	// 999 stands for an effectively unbounded ratio.
	switch {
	case currentLiabilities > 0:
		r.Summary[domain.MetricCurrentRatio] = currentAssets / currentLiabilities
	case currentAssets > 0:
		r.Summary[domain.MetricCurrentRatio] = 999
	default:
		r.Summary[domain.MetricCurrentRatio] = 0
	}
	switch {
	case equity > 0:
		r.Summary[domain.MetricDebtToEquity] = liabilities / equity
	case liabilities > 0:
		r.Summary[domain.MetricDebtToEquity] = 999
	default:
		r.Summary[domain.MetricDebtToEquity] = 0
	}

	total, ok := liabilitiesEquityLookup.total(sections)
	if !ok {
		total = liabilities + equity
	}
	r.Summary[domain.MetricTotalLiabilitiesAndEquity] = total
}

// nestedTotal looks for inner within the parent section first and then across
// the whole report. Missing sections count as 0.
func nestedTotal(sections []domain.Section, parent, inner lookup) float64 {
	if p, ok := parent.find(sections); ok {
		if v, ok := inner.total(p.Subsections); ok {
			return v
		}
	}
	v, _ := inner.total(sections)
	return v
}

func extractCashFlow(r *domain.Report) {
	sections := r.Sections

	operating, _ := operatingLookup.total(sections)
	investing, _ := investingLookup.total(sections)
	financing, _ := financingLookup.total(sections)
	r.Summary[domain.MetricOperatingCashFlow] = operating
	r.Summary[domain.MetricInvestingCashFlow] = investing
	r.Summary[domain.MetricFinancingCashFlow] = financing

	change, _ := cashChangeLookup.total(sections)
	if change == 0 {
		change = operating + investing + financing
	}
	r.Summary[domain.MetricNetCashChange] = change

	if v, ok := beginningCashLookup.total(sections); ok {
		r.Summary[domain.MetricBeginningCash] = v
	}
	if v, ok := endingCashLookup.total(sections); ok {
		r.Summary[domain.MetricEndingCash] = v
	}
}

func extractTopItems(r *domain.Report) {
	r.TopIncomeSources = topItems(r.Sections, incomeLookup, topItemsLimit)
	r.TopExpenses = topItems(r.Sections, expensesLookup, topItemsLimit)
}

// topItems ranks the direct line items of a section by amount, highest first.
// Equal amounts keep their source order.
func topItems(sections []domain.Section, l lookup, limit int) []domain.LineItem {
	s, ok := l.find(sections)
	if !ok || len(s.Items) == 0 {
		return nil
	}
	items := slices.Clone(s.Items)
	slices.SortStableFunc(items, func(a, b domain.LineItem) int {
		return cmp.Compare(b.Amount, a.Amount)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}
