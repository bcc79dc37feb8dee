package domain

type InsightKind string

const (
	InsightPositive InsightKind = "positive"
	InsightNegative InsightKind = "negative"
	InsightNeutral  InsightKind = "neutral"
	InsightCaution  InsightKind = "caution"
	InsightInfo     InsightKind = "info"
	InsightError    InsightKind = "error"
)

// Insight is a short rule-derived observation about a report
type Insight struct {
	Kind        InsightKind
	Title       string
	Description string
}

type HealthLabel string

const (
	HealthExcellent  HealthLabel = "excellent"
	HealthGood       HealthLabel = "good"
	HealthFair       HealthLabel = "fair"
	HealthConcerning HealthLabel = "concerning"
	HealthCritical   HealthLabel = "critical"
)

type Health struct {
	Score int // 0..100
	Label HealthLabel
}

type Recommendation struct {
	Title       string
	Description string
}

// Analysis bundles everything derived from one raw report
type Analysis struct {
	Report          Report
	Insights        []Insight
	Health          *Health
	Recommendations []Recommendation
}
