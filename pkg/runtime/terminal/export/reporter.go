package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/clarity/pkg/adapters"
	"github.com/de-tools/clarity/pkg/models/api"
	"github.com/de-tools/clarity/pkg/models/domain"
	"github.com/de-tools/clarity/pkg/models/store"
	"github.com/de-tools/clarity/pkg/services/config"
	"github.com/de-tools/clarity/pkg/services/insight"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unsupported output format %q, expected text or json", s)
}

type TableConfig struct {
	NameWidth    int
	AmountWidth  int
	ChangeWidth  int
	PercentWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		NameWidth:    40,
		AmountWidth:  18,
		ChangeWidth:  18,
		PercentWidth: 10,
	}
}

type Reporter struct {
	writer io.Writer
	config TableConfig
	format Format
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
		format: FormatText,
	}
}

func (c *Reporter) SetFormat(f Format) {
	c.format = f
}

const analysisTemplate = `
{{.Report.Kind}}{{with .Report.Title}}: {{.}}{{end}}
{{- with .Report.Period}}
Period: {{.Start}} to {{.End}}{{end}}
{{- with .Report.AsOfDate}}
As of: {{.}}{{end}}
{{- with .Health}}
Health: {{.Score}}/100 ({{.Label}}){{end}}

{{if .Report.Summary}}=== Summary ===
{{separator}}
{{range $key, $value := .Report.Summary}}{{metricRow $key $value}}
{{end}}{{separator}}
{{end}}
{{- range .Report.Sections}}
=== {{.Name}} ===
{{range .Items}}{{amountRow .Name .Amount}}
{{end}}{{amountRow "Total" .Total}}
{{end}}
{{- with .Report.TopIncomeSources}}
=== Top Income Sources ===
{{range .}}{{amountRow .Name .Amount}}
{{end}}{{end}}
{{- with .Report.TopExpenses}}
=== Top Expenses ===
{{range .}}{{amountRow .Name .Amount}}
{{end}}{{end}}
{{- with .Insights}}
=== Insights ===
{{range .}}[{{.Kind}}] {{.Title}}
  {{.Description}}
{{end}}{{end}}
{{- with .Recommendations}}
=== Recommendations ===
{{range .}}- {{.Title}}
  {{.Description}}
{{end}}{{end}}`

const comparisonTemplate = `
{{.Kind}} comparison
{{- with .CurrentPeriod}}
Current:  {{.Start}} to {{.End}}{{end}}
{{- with .PreviousPeriod}}
Previous: {{.Start}} to {{.End}}{{end}}
{{range .Sections}}
=== {{.Name}} ===
{{changeSeparator}}
{{changeHeader}}
{{changeSeparator}}
{{range .Items}}{{changeRow .}}
{{end}}{{changeRow .Total}}
{{changeSeparator}}
{{end}}
{{- with .Metrics}}
=== Metrics ===
{{changeSeparator}}
{{range .}}{{changeRow .}}
{{end}}{{changeSeparator}}
{{end}}`

const companiesTemplate = `{{range .}}{{.Name}}	{{.RealmID}}	{{.DisplayName}}
{{end}}`

const snapshotsTemplate = `{{range .}}{{.ID}}	{{.Kind}}	{{.Start}}	{{.End}}	{{.FetchedAt.Format "2006-01-02 15:04:05"}}
{{end}}`

func (c *Reporter) HandleAnalysis(analysis domain.Analysis) error {
	if c.format == FormatJSON {
		return c.writeJSON(adapters.MapAnalysisDomainToApi(analysis))
	}
	return c.render("analysis", analysisTemplate, analysis)
}

func (c *Reporter) HandleComparison(comparison domain.Comparison) error {
	if c.format == FormatJSON {
		return c.writeJSON(adapters.MapComparisonDomainToApi(comparison))
	}
	return c.render("comparison", comparisonTemplate, comparison)
}

func (c *Reporter) HandleCompanies(companies []config.Company) error {
	if c.format == FormatJSON {
		response := make([]api.Company, 0, len(companies))
		for _, company := range companies {
			response = append(response, adapters.MapCompanyConfigToApi(company))
		}
		return c.writeJSON(response)
	}
	return c.render("companies", companiesTemplate, companies)
}

func (c *Reporter) HandleSnapshots(snapshots []store.Snapshot) error {
	if c.format == FormatJSON {
		response := make([]api.Snapshot, 0, len(snapshots))
		for _, s := range snapshots {
			response = append(response, adapters.MapSnapshotStoreToApi(s))
		}
		return c.writeJSON(response)
	}
	return c.render("snapshots", snapshotsTemplate, snapshots)
}

func (c *Reporter) render(name, text string, data any) error {
	t, err := template.New(name).Funcs(c.funcMap()).Parse(text)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return t.Execute(c.writer, data)
}

func (c *Reporter) writeJSON(v any) error {
	enc := json.NewEncoder(c.writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

func (c *Reporter) funcMap() template.FuncMap {
	return template.FuncMap{
		"amountRow": func(name string, amount float64) string {
			return fmt.Sprintf("  %-*s %*s", c.config.NameWidth, name, c.config.AmountWidth, insight.Money(amount))
		},
		"metricRow": func(key string, value float64) string {
			return fmt.Sprintf("| %-*s | %*s |", c.config.NameWidth, key, c.config.AmountWidth, formatMetric(key, value))
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+",
				strings.Repeat("-", c.config.NameWidth+2),
				strings.Repeat("-", c.config.AmountWidth+2))
		},
		"changeHeader": func() string {
			return fmt.Sprintf("| %-*s | %*s | %*s | %*s | %*s |",
				c.config.NameWidth, "Name",
				c.config.AmountWidth, "Current",
				c.config.AmountWidth, "Previous",
				c.config.ChangeWidth, "Change",
				c.config.PercentWidth, "%")
		},
		"changeRow": func(ch domain.Change) string {
			return fmt.Sprintf("| %-*s | %*s | %*s | %*s | %*s |",
				c.config.NameWidth, ch.Name,
				c.config.AmountWidth, insight.Money(ch.Current),
				c.config.AmountWidth, insight.Money(ch.Previous),
				c.config.ChangeWidth, insight.Money(ch.Delta),
				c.config.PercentWidth, fmt.Sprintf("%.1f%%", ch.PercentChange))
		},
		"changeSeparator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.NameWidth+2),
				strings.Repeat("-", c.config.AmountWidth+2),
				strings.Repeat("-", c.config.AmountWidth+2),
				strings.Repeat("-", c.config.ChangeWidth+2),
				strings.Repeat("-", c.config.PercentWidth+2))
		},
	}
}

// formatMetric renders ratios and margins as plain numbers and everything
// else as money.
func formatMetric(key string, value float64) string {
	switch key {
	case domain.MetricGrossMargin, domain.MetricNetMargin:
		return fmt.Sprintf("%.1f%%", value)
	case domain.MetricCurrentRatio, domain.MetricDebtToEquity:
		return fmt.Sprintf("%.2f", value)
	}
	return insight.Money(value)
}
