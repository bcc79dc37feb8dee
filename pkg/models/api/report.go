package api

import "time"

type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type LineItem struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

type Section struct {
	Name             string     `json:"name"`
	Group            string     `json:"group,omitempty"`
	Items            []LineItem `json:"items"`
	Total            float64    `json:"total"`
	Subsections      []Section  `json:"subsections,omitempty"`
	IsSummaryOnly    bool       `json:"is_summary_only"`
	HasExplicitTotal bool       `json:"has_explicit_total"`
}

type Report struct {
	StatementKind    string             `json:"statement_kind"`
	Title            string             `json:"title,omitempty"`
	Basis            string             `json:"basis,omitempty"`
	Currency         string             `json:"currency,omitempty"`
	Period           *Period            `json:"period,omitempty"`
	AsOfDate         string             `json:"as_of_date,omitempty"`
	Sections         []Section          `json:"sections"`
	Summary          map[string]float64 `json:"summary"`
	TopIncomeSources []LineItem         `json:"top_income_sources,omitempty"`
	TopExpenses      []LineItem         `json:"top_expenses,omitempty"`
	Issues           []Insight          `json:"issues,omitempty"`
}

type Insight struct {
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Health struct {
	Score int    `json:"score"`
	Label string `json:"label"`
}

type Recommendation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Analysis struct {
	Report          Report           `json:"report"`
	Insights        []Insight        `json:"insights"`
	Health          *Health          `json:"health,omitempty"`
	Recommendations []Recommendation `json:"recommendations"`
}

type Change struct {
	Name          string  `json:"name"`
	Current       float64 `json:"current"`
	Previous      float64 `json:"previous"`
	Change        float64 `json:"change"`
	PercentChange float64 `json:"percent_change"`
}

type SectionComparison struct {
	Name  string   `json:"name"`
	Items []Change `json:"items"`
	Total Change   `json:"total"`
}

type Comparison struct {
	StatementKind  string              `json:"statement_kind"`
	CurrentPeriod  *Period             `json:"current_period,omitempty"`
	PreviousPeriod *Period             `json:"previous_period,omitempty"`
	Sections       []SectionComparison `json:"sections"`
	Metrics        []Change            `json:"metrics"`
}

type Company struct {
	Name        string `json:"name"`
	RealmID     string `json:"realm_id"`
	DisplayName string `json:"display_name"`
}

type Snapshot struct {
	ID        string    `json:"id"`
	Company   string    `json:"company"`
	Kind      string    `json:"statement_kind"`
	Start     string    `json:"start,omitempty"`
	End       string    `json:"end,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
}

type SyncStatus struct {
	Company   string     `json:"company"`
	Runs      int64      `json:"runs"`
	Fetched   int64      `json:"fetched"`
	Failed    int64      `json:"failed"`
	LastRunAt *time.Time `json:"last_run_at,omitempty"`
	LastError string     `json:"last_error,omitempty"`
}
