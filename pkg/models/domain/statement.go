package domain

import (
	"fmt"
	"strings"
)

type StatementKind string

const (
	StatementProfitAndLoss StatementKind = "ProfitAndLoss"
	StatementBalanceSheet  StatementKind = "BalanceSheet"
	StatementCashFlow      StatementKind = "CashFlow"
	StatementUnknown       StatementKind = "Unknown"
)

var statementSlugs = map[StatementKind]string{
	StatementProfitAndLoss: "profit-loss",
	StatementBalanceSheet:  "balance-sheet",
	StatementCashFlow:      "cash-flow",
}

// Slug is the path segment the statements backend uses for the kind.
func (k StatementKind) Slug() string {
	return statementSlugs[k]
}

func (k StatementKind) Known() bool {
	_, ok := statementSlugs[k]
	return ok
}

func (k StatementKind) String() string {
	if k == "" {
		return string(StatementUnknown)
	}
	return string(k)
}

// ParseStatementKind accepts backend slugs ("profit-loss") as well as report
// names ("ProfitAndLoss", "Balance Sheet"). An empty string is Unknown.
func ParseStatementKind(s string) (StatementKind, error) {
	if strings.TrimSpace(s) == "" {
		return StatementUnknown, nil
	}
	if kind, ok := MatchStatementName(s); ok {
		return kind, nil
	}
	return StatementUnknown, fmt.Errorf("unsupported statement kind %q", s)
}

// MatchStatementName maps the report names used by accounting producers to a
// kind.
func MatchStatementName(name string) (StatementKind, bool) {
	key := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_', '&':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(name)))

	switch key {
	case "profitloss", "profitandloss", "pl", "pnl", "incomestatement", "statementofoperations":
		return StatementProfitAndLoss, true
	case "balancesheet", "statementoffinancialposition":
		return StatementBalanceSheet, true
	case "cashflow", "cashflows", "cashflowstatement", "statementofcashflows":
		return StatementCashFlow, true
	case "unknown":
		return StatementUnknown, true
	}
	return StatementUnknown, false
}
