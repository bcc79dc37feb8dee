package domain

// Summary metric keys.
const (
	MetricTotalIncome        = "totalIncome"
	MetricTotalCOGS          = "totalCOGS"
	MetricGrossProfit        = "grossProfit"
	MetricTotalExpenses      = "totalExpenses"
	MetricNetIncome          = "netIncome"
	MetricGrossMargin        = "grossMargin"
	MetricNetMargin          = "netMargin"
	MetricOtherIncome        = "otherIncome"
	MetricOtherExpenses      = "otherExpenses"
	MetricNetOperatingIncome = "netOperatingIncome"

	MetricTotalAssets               = "totalAssets"
	MetricTotalLiabilities          = "totalLiabilities"
	MetricTotalEquity               = "totalEquity"
	MetricCurrentAssets             = "currentAssets"
	MetricCurrentLiabilities        = "currentLiabilities"
	MetricCurrentRatio              = "currentRatio"
	MetricDebtToEquity              = "debtToEquity"
	MetricTotalLiabilitiesAndEquity = "totalLiabilitiesAndEquity"

	MetricOperatingCashFlow = "operatingCashFlow"
	MetricInvestingCashFlow = "investingCashFlow"
	MetricFinancingCashFlow = "financingCashFlow"
	MetricNetCashChange     = "netCashChange"
	MetricBeginningCash     = "beginningCash"
	MetricEndingCash        = "endingCash"
)

// Source row groups as tagged by QuickBooks.
const (
	GroupIncome              = "Income"
	GroupCOGS                = "COGS"
	GroupExpenses            = "Expenses"
	GroupGrossProfit         = "GrossProfit"
	GroupNetOperatingIncome  = "NetOperatingIncome"
	GroupOtherIncome         = "OtherIncome"
	GroupOtherExpenses       = "OtherExpenses"
	GroupNetIncome           = "NetIncome"
	GroupAssets              = "Assets"
	GroupCurrentAssets       = "CurrentAssets"
	GroupLiabilities         = "Liabilities"
	GroupCurrentLiabilities  = "CurrentLiabilities"
	GroupEquity              = "Equity"
	GroupOperatingActivities = "OperatingActivities"
	GroupInvestingActivities = "InvestingActivities"
	GroupFinancingActivities = "FinancingActivities"
	GroupCashChange          = "CashChange"
	GroupCashIncrease        = "CashIncrease"
	GroupBeginningCash       = "BeginningCash"
	GroupEndingCash          = "EndingCash"
)
