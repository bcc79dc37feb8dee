package adapters

import (
	"github.com/de-tools/clarity/pkg/models/api"
	"github.com/de-tools/clarity/pkg/models/domain"
	"github.com/de-tools/clarity/pkg/models/store"
	"github.com/de-tools/clarity/pkg/services/config"
)

func MapPeriodDomainToApi(p *domain.Period) *api.Period {
	if p == nil {
		return nil
	}
	return &api.Period{Start: p.Start, End: p.End}
}

func MapLineItemsDomainToApi(items []domain.LineItem) []api.LineItem {
	res := make([]api.LineItem, 0, len(items))
	for _, item := range items {
		res = append(res, api.LineItem{Name: item.Name, Amount: item.Amount})
	}
	return res
}

func MapSectionDomainToApi(s domain.Section) api.Section {
	res := api.Section{
		Name:             s.Name,
		Group:            s.Group,
		Items:            MapLineItemsDomainToApi(s.Items),
		Total:            s.Total,
		IsSummaryOnly:    s.IsSummaryOnly,
		HasExplicitTotal: s.HasExplicitTotal,
	}
	for _, sub := range s.Subsections {
		res.Subsections = append(res.Subsections, MapSectionDomainToApi(sub))
	}
	return res
}

func MapReportDomainToApi(r domain.Report) api.Report {
	res := api.Report{
		StatementKind: r.Kind.String(),
		Title:         r.Title,
		Basis:         r.Basis,
		Currency:      r.Currency,
		Period:        MapPeriodDomainToApi(r.Period),
		AsOfDate:      r.AsOfDate,
		Sections:      make([]api.Section, 0, len(r.Sections)),
		Summary:       map[string]float64{},
	}
	for _, s := range r.Sections {
		res.Sections = append(res.Sections, MapSectionDomainToApi(s))
	}
	for k, v := range r.Summary {
		res.Summary[k] = v
	}
	if len(r.TopIncomeSources) > 0 {
		res.TopIncomeSources = MapLineItemsDomainToApi(r.TopIncomeSources)
	}
	if len(r.TopExpenses) > 0 {
		res.TopExpenses = MapLineItemsDomainToApi(r.TopExpenses)
	}
	if len(r.Issues) > 0 {
		res.Issues = MapInsightsDomainToApi(r.Issues)
	}
	return res
}

func MapInsightsDomainToApi(insights []domain.Insight) []api.Insight {
	res := make([]api.Insight, 0, len(insights))
	for _, i := range insights {
		res = append(res, api.Insight{Kind: string(i.Kind), Title: i.Title, Description: i.Description})
	}
	return res
}

func MapAnalysisDomainToApi(a domain.Analysis) api.Analysis {
	res := api.Analysis{
		Report:          MapReportDomainToApi(a.Report),
		Insights:        MapInsightsDomainToApi(a.Insights),
		Recommendations: make([]api.Recommendation, 0, len(a.Recommendations)),
	}
	if a.Health != nil {
		res.Health = &api.Health{Score: a.Health.Score, Label: string(a.Health.Label)}
	}
	for _, r := range a.Recommendations {
		res.Recommendations = append(res.Recommendations, api.Recommendation{Title: r.Title, Description: r.Description})
	}
	return res
}

func MapChangeDomainToApi(c domain.Change) api.Change {
	return api.Change{
		Name:          c.Name,
		Current:       c.Current,
		Previous:      c.Previous,
		Change:        c.Delta,
		PercentChange: c.PercentChange,
	}
}

func mapChanges(changes []domain.Change) []api.Change {
	res := make([]api.Change, 0, len(changes))
	for _, c := range changes {
		res = append(res, MapChangeDomainToApi(c))
	}
	return res
}

func MapComparisonDomainToApi(c domain.Comparison) api.Comparison {
	res := api.Comparison{
		StatementKind:  c.Kind.String(),
		CurrentPeriod:  MapPeriodDomainToApi(c.CurrentPeriod),
		PreviousPeriod: MapPeriodDomainToApi(c.PreviousPeriod),
		Sections:       make([]api.SectionComparison, 0, len(c.Sections)),
		Metrics:        mapChanges(c.Metrics),
	}
	for _, s := range c.Sections {
		res.Sections = append(res.Sections, api.SectionComparison{
			Name:  s.Name,
			Items: mapChanges(s.Items),
			Total: MapChangeDomainToApi(s.Total),
		})
	}
	return res
}

func MapCompanyConfigToApi(c config.Company) api.Company {
	return api.Company{Name: c.Name, RealmID: c.RealmID, DisplayName: c.DisplayName}
}

func MapSnapshotStoreToApi(s store.Snapshot) api.Snapshot {
	return api.Snapshot{
		ID:        s.ID,
		Company:   s.Company,
		Kind:      s.Kind,
		Start:     s.Start,
		End:       s.End,
		FetchedAt: s.FetchedAt,
	}
}
