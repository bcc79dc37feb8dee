// Package insight derives rule based observations from canonical reports.
// Every function here is pure: the same report always yields the same output.
package insight

import (
	"fmt"
	"math"

	"github.com/de-tools/clarity/pkg/models/domain"
	"github.com/dustin/go-humanize"
)

// Settings contains the thresholds used to classify report metrics
type Settings struct {
	// StrongNetMargin is the net margin percentage above which profitability is strong (default: 20)
	StrongNetMargin float64
	// HealthyNetMargin is the net margin percentage above which profitability is healthy (default: 10)
	HealthyNetMargin float64
	// MaxExpenseRatio is the expenses to income percentage flagged as high (default: 90)
	MaxExpenseRatio float64
	// StrongCurrentRatio is the current ratio above which liquidity is strong (default: 2)
	StrongCurrentRatio float64
	// AdequateCurrentRatio is the current ratio above which liquidity is adequate (default: 1)
	AdequateCurrentRatio float64
	// LowDebtToEquity is the debt to equity ratio below which leverage is low (default: 0.5)
	LowDebtToEquity float64
	// ModerateDebtToEquity is the debt to equity ratio below which leverage is moderate (default: 1.5)
	ModerateDebtToEquity float64
	// StrongAssetCoverage is the assets to liabilities ratio considered strong (default: 2)
	StrongAssetCoverage float64
	// SignificantInvestmentShare is the share of operating cash flow an investing outflow
	// must exceed to be reported (default: 0.1)
	SignificantInvestmentShare float64
}

// DefaultSettings returns the thresholds used by Derive
func DefaultSettings() Settings {
	return Settings{
		StrongNetMargin:            20,
		HealthyNetMargin:           10,
		MaxExpenseRatio:            90,
		StrongCurrentRatio:         2,
		AdequateCurrentRatio:       1,
		LowDebtToEquity:            0.5,
		ModerateDebtToEquity:       1.5,
		StrongAssetCoverage:        2,
		SignificantInvestmentShare: 0.1,
	}
}

// Derive returns the extraction issues recorded on the report followed by the
// insights for its statement kind, using DefaultSettings.
func Derive(report domain.Report) []domain.Insight {
	return DeriveWithSettings(report, DefaultSettings())
}

func DeriveWithSettings(report domain.Report, settings Settings) []domain.Insight {
	insights := make([]domain.Insight, 0, len(report.Issues)+6)
	insights = append(insights, report.Issues...)
	if len(report.Summary) == 0 {
		return insights
	}

	switch report.Kind {
	case domain.StatementProfitAndLoss:
		insights = append(insights, profitAndLossInsights(report, settings)...)
	case domain.StatementBalanceSheet:
		insights = append(insights, balanceSheetInsights(report, settings)...)
	case domain.StatementCashFlow:
		insights = append(insights, cashFlowInsights(report, settings)...)
	}
	return insights
}

func profitAndLossInsights(report domain.Report, settings Settings) []domain.Insight {
	var insights []domain.Insight
	income := metric(report, domain.MetricTotalIncome)
	expenses := metric(report, domain.MetricTotalExpenses)
	netIncome := metric(report, domain.MetricNetIncome)
	netMargin := metric(report, domain.MetricNetMargin)

	if netIncome > 0 {
		insights = append(insights, domain.Insight{
			Kind:        domain.InsightPositive,
			Title:       "Positive Cash Flow",
			Description: fmt.Sprintf("Your business is generating a positive cash flow of %s for this period.", Money(netIncome)),
		})
	} else {
		insights = append(insights, domain.Insight{
			Kind:  domain.InsightNegative,
			Title: "Negative Cash Flow",
			Description: fmt.Sprintf("Your business is currently spending more than it's earning, with a negative cash flow of %s.",
				Money(math.Abs(netIncome))),
		})
	}

	switch {
	case netMargin > settings.StrongNetMargin:
		insights = append(insights, domain.Insight{
			Kind:        domain.InsightPositive,
			Title:       "Strong Profit Margin",
			Description: fmt.Sprintf("Your profit margin of %.1f%% is excellent, indicating good financial health.", netMargin),
		})
	case netMargin > settings.HealthyNetMargin:
		insights = append(insights, domain.Insight{
			Kind:        domain.InsightNeutral,
			Title:       "Healthy Profit Margin",
			Description: fmt.Sprintf("Your profit margin of %.1f%% is healthy for most businesses.", netMargin),
		})
	case netMargin > 0:
		insights = append(insights, domain.Insight{
			Kind:  domain.InsightCaution,
			Title: "Low Profit Margin",
			Description: fmt.Sprintf("Your profit margin of %.1f%% is low. Consider strategies to increase revenue or reduce expenses.",
				netMargin),
		})
	default:
		insights = append(insights, domain.Insight{
			Kind:        domain.InsightNegative,
			Title:       "Negative Profit Margin",
			Description: fmt.Sprintf("Your profit margin is negative at %.1f%%, indicating your business is losing money.", netMargin),
		})
	}

	if income > 0 {
		if ratio := expenses / income * 100; ratio > settings.MaxExpenseRatio {
			insights = append(insights, domain.Insight{
				Kind:  domain.InsightCaution,
				Title: "High Expense Ratio",
				Description: fmt.Sprintf("Your expenses are %.1f%% of your income, which is quite high. Look for opportunities to reduce costs.",
					ratio),
			})
		}
	}

	if len(report.TopIncomeSources) > 0 {
		top := report.TopIncomeSources[0]
		insights = append(insights, domain.Insight{
			Kind:        domain.InsightInfo,
			Title:       "Top Revenue Source",
			Description: fmt.Sprintf("Your top revenue source is %s at %s.", top.Name, Money(top.Amount)),
		})
	}
	return insights
}

func balanceSheetInsights(report domain.Report, settings Settings) []domain.Insight {
	var insights []domain.Insight
	assets := metric(report, domain.MetricTotalAssets)
	liabilities := metric(report, domain.MetricTotalLiabilities)
	currentRatio := metric(report, domain.MetricCurrentRatio)
	debtToEquity := metric(report, domain.MetricDebtToEquity)

	switch {
	case currentRatio > settings.StrongCurrentRatio:
		insights = append(insights, domain.Insight{
			Kind:        domain.InsightPositive,
			Title:       "Strong Liquidity",
			Description: fmt.Sprintf("Your current ratio of %.2f indicates strong short-term financial health.", currentRatio),
		})
	case currentRatio > settings.AdequateCurrentRatio:
		insights = append(insights, domain.Insight{
			Kind:        domain.InsightNeutral,
			Title:       "Adequate Liquidity",
			Description: fmt.Sprintf("Your current ratio of %.2f suggests you can cover your short-term obligations.", currentRatio),
		})
	case currentRatio > 0:
		insights = append(insights, domain.Insight{
			Kind:  domain.InsightCaution,
			Title: "Liquidity Concern",
			Description: fmt.Sprintf("Your current ratio of %.2f is below 1, which could indicate potential short-term cash flow issues.",
				currentRatio),
		})
	}

	switch {
	case debtToEquity < settings.LowDebtToEquity:
		insights = append(insights, domain.Insight{
			Kind:        domain.InsightPositive,
			Title:       "Low Leverage",
			Description: fmt.Sprintf("Your debt-to-equity ratio of %.2f indicates conservative use of debt financing.", debtToEquity),
		})
	case debtToEquity < settings.ModerateDebtToEquity:
		insights = append(insights, domain.Insight{
			Kind:        domain.InsightNeutral,
			Title:       "Moderate Leverage",
			Description: fmt.Sprintf("Your debt-to-equity ratio of %.2f is within a normal range for most businesses.", debtToEquity),
		})
	default:
		insights = append(insights, domain.Insight{
			Kind:  domain.InsightCaution,
			Title: "High Leverage",
			Description: fmt.Sprintf("Your debt-to-equity ratio of %.2f indicates heavy reliance on debt financing, which may increase financial risk.",
				debtToEquity),
		})
	}

	if liabilities > 0 {
		if coverage := assets / liabilities; coverage > settings.StrongAssetCoverage {
			insights = append(insights, domain.Insight{
				Kind:  domain.InsightPositive,
				Title: "Strong Asset Coverage",
				Description: fmt.Sprintf("Your assets are %.1f times your liabilities, indicating a strong financial position.",
					coverage),
			})
		}
	}
	return insights
}

func cashFlowInsights(report domain.Report, settings Settings) []domain.Insight {
	var insights []domain.Insight
	operating := metric(report, domain.MetricOperatingCashFlow)
	investing := metric(report, domain.MetricInvestingCashFlow)
	financing := metric(report, domain.MetricFinancingCashFlow)
	change := metric(report, domain.MetricNetCashChange)

	if operating > 0 {
		insights = append(insights, domain.Insight{
			Kind:  domain.InsightPositive,
			Title: "Positive Operating Cash Flow",
			Description: fmt.Sprintf("Your business is generating %s from its core operations, which is a positive sign.",
				Money(operating)),
		})
	} else {
		insights = append(insights, domain.Insight{
			Kind:  domain.InsightNegative,
			Title: "Negative Operating Cash Flow",
			Description: fmt.Sprintf("Your business is consuming %s in its operations, which may not be sustainable long-term.",
				Money(math.Abs(operating))),
		})
	}

	if investing < 0 && math.Abs(investing) > settings.SignificantInvestmentShare*math.Abs(operating) {
		insights = append(insights, domain.Insight{
			Kind:  domain.InsightInfo,
			Title: "Significant Investment",
			Description: fmt.Sprintf("You're investing %s back into the business, which could lead to future growth.",
				Money(math.Abs(investing))),
		})
	}

	switch {
	case financing > 0:
		insights = append(insights, domain.Insight{
			Kind:  domain.InsightInfo,
			Title: "External Financing",
			Description: fmt.Sprintf("You've raised %s from financing activities, such as loans or equity investments.",
				Money(financing)),
		})
	case financing < 0:
		insights = append(insights, domain.Insight{
			Kind:  domain.InsightInfo,
			Title: "Debt Repayment or Dividends",
			Description: fmt.Sprintf("You've used %s for financing activities, such as repaying debt or distributing dividends.",
				Money(math.Abs(financing))),
		})
	}

	if change > 0 {
		insights = append(insights, domain.Insight{
			Kind:        domain.InsightPositive,
			Title:       "Increasing Cash Position",
			Description: fmt.Sprintf("Your cash position improved by %s during this period.", Money(change)),
		})
	} else {
		insights = append(insights, domain.Insight{
			Kind:        domain.InsightCaution,
			Title:       "Decreasing Cash Position",
			Description: fmt.Sprintf("Your cash position decreased by %s during this period.", Money(math.Abs(change))),
		})
	}
	return insights
}

func metric(report domain.Report, key string) float64 {
	v, _ := report.Metric(key)
	return v
}

// Money renders an amount the way the dashboard shows it: "$12,345.67".
func Money(v float64) string {
	if v < 0 {
		return "-$" + humanize.CommafWithDigits(-v, 2)
	}
	return "$" + humanize.CommafWithDigits(v, 2)
}
