package report

import (
	"encoding/json"
	"strings"

	"github.com/de-tools/clarity/pkg/models/domain"
	"github.com/de-tools/clarity/pkg/models/raw"
)

// DetectKind infers the statement kind of a raw report. Header fields win;
// otherwise the serialized document is searched for well known phrases.
func DetectKind(doc raw.Report) domain.StatementKind {
	header := doc.HeaderOrEmpty()
	for _, name := range []string{
		header.ReportName.String(),
		doc.Extras.ReportType.String(),
		doc.Extras.Type.String(),
	} {
		if kind, ok := MatchStatementName(name); ok {
			return kind
		}
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return domain.StatementUnknown
	}
	return kindFromText(string(data))
}

// MatchStatementName extends domain.MatchStatementName with the loose titles
// found in report headers, e.g. "Profit and Loss Detail".
func MatchStatementName(name string) (domain.StatementKind, bool) {
	if strings.TrimSpace(name) == "" {
		return domain.StatementUnknown, false
	}
	if kind, ok := domain.MatchStatementName(name); ok && kind != domain.StatementUnknown {
		return kind, true
	}
	if kind := kindFromText(name); kind != domain.StatementUnknown {
		return kind, true
	}
	return domain.StatementUnknown, false
}

// kindFromText applies the keyword priority: balance sheet, then
// income/profit/loss, then cash flow.
func kindFromText(text string) domain.StatementKind {
	s := strings.ToLower(text)
	switch {
	case strings.Contains(s, "balance sheet"):
		return domain.StatementBalanceSheet
	case strings.Contains(s, "income"), strings.Contains(s, "profit"), strings.Contains(s, "loss"):
		return domain.StatementProfitAndLoss
	case strings.Contains(s, "cash flow"):
		return domain.StatementCashFlow
	default:
		return domain.StatementUnknown
	}
}
