package insight

import (
	"fmt"

	"github.com/de-tools/clarity/pkg/models/domain"
)

const baseHealthScore = 50

// HealthScore rates a profit and loss report from 0 to 100. The second return
// value is false for other statement kinds and for reports without metrics.
func HealthScore(report domain.Report) (domain.Health, bool) {
	if report.Kind != domain.StatementProfitAndLoss || len(report.Summary) == 0 {
		return domain.Health{}, false
	}

	score := baseHealthScore
	switch netMargin := metric(report, domain.MetricNetMargin); {
	case netMargin > 30:
		score += 30
	case netMargin > 20:
		score += 25
	case netMargin > 10:
		score += 15
	case netMargin > 0:
		score += 5
	default:
		score -= 20
	}

	if metric(report, domain.MetricNetIncome) > 0 {
		score += 10
	} else {
		score -= 15
	}

	score = max(0, min(100, score))
	return domain.Health{Score: score, Label: healthLabel(score)}, true
}

func healthLabel(score int) domain.HealthLabel {
	switch {
	case score >= 80:
		return domain.HealthExcellent
	case score >= 60:
		return domain.HealthGood
	case score >= 40:
		return domain.HealthFair
	case score >= 20:
		return domain.HealthConcerning
	default:
		return domain.HealthCritical
	}
}

// Recommendations suggests next steps for a profit and loss report.
func Recommendations(report domain.Report) []domain.Recommendation {
	if report.Kind != domain.StatementProfitAndLoss || len(report.Summary) == 0 {
		return nil
	}

	var out []domain.Recommendation
	if metric(report, domain.MetricNetMargin) < 10 {
		out = append(out, domain.Recommendation{
			Title:       "Improve Profit Margins",
			Description: "Consider ways to either increase your prices or reduce operational costs to improve your overall profit margin.",
		})
	}
	if len(report.TopIncomeSources) > 0 {
		out = append(out, domain.Recommendation{
			Title: "Focus on Top Revenue Drivers",
			Description: fmt.Sprintf("Your %s is your strongest revenue stream. "+
				"Consider investing more in this area or replicating its success in other areas.", report.TopIncomeSources[0].Name),
		})
	}
	if len(report.TopExpenses) > 0 {
		out = append(out, domain.Recommendation{
			Title: "Review Major Expenses",
			Description: fmt.Sprintf("Your largest expense is %s. "+
				"Review this cost to see if there are opportunities for greater efficiency or negotiation.", report.TopExpenses[0].Name),
		})
	}
	if metric(report, domain.MetricNetIncome) < 0 {
		out = append(out, domain.Recommendation{
			Title: "Address Negative Cash Flow",
			Description: "Your business is currently operating at a loss. " +
				"Consider immediate steps to either increase revenue or reduce expenses to move toward profitability.",
		})
	}
	return out
}
