// Package raw models the loosely structured report documents returned by the
// accounting backend. Every accessor returns a defined default when the
// underlying field is missing.
package raw

import "strings"

type Report struct {
	Header *Header   `json:"Header,omitempty"`
	Rows   *RowList  `json:"Rows,omitempty"`
	Extras ExtraInfo `json:"-"`
	// Source is the document exactly as the backend sent it, including the
	// fields this package does not model. Empty for locally decoded reports.
	Source []byte `json:"-"`
}

// ExtraInfo holds top-level fields some producers emit instead of a Header.
type ExtraInfo struct {
	ReportType  Text `json:"report_type,omitempty"`
	Type        Text `json:"type,omitempty"`
	PeriodStart Text `json:"period_start,omitempty"`
	PeriodEnd   Text `json:"period_end,omitempty"`
	AsOfDate    Text `json:"as_of_date,omitempty"`
	Date        Text `json:"date,omitempty"`
}

type Header struct {
	Time               Text    `json:"Time,omitempty"`
	ReportName         Text    `json:"ReportName,omitempty"`
	ReportBasis        Text    `json:"ReportBasis,omitempty"`
	StartPeriod        Text    `json:"StartPeriod,omitempty"`
	EndPeriod          Text    `json:"EndPeriod,omitempty"`
	SummarizeColumnsBy Text    `json:"SummarizeColumnsBy,omitempty"`
	Currency           Text    `json:"Currency,omitempty"`
	Option             Options `json:"Option,omitempty"`
}

type Option struct {
	Name  Text `json:"Name"`
	Value Text `json:"Value"`
}

type Row struct {
	Type    Text     `json:"type,omitempty"`
	Group   Text     `json:"group,omitempty"`
	Header  *CellRow `json:"Header,omitempty"`
	Rows    *RowList `json:"Rows,omitempty"`
	Summary *CellRow `json:"Summary,omitempty"`
	ColData Cells    `json:"ColData,omitempty"`
}

type CellRow struct {
	ColData Cells `json:"ColData,omitempty"`
}

type Cell struct {
	Value Text `json:"value"`
	ID    Text `json:"id,omitempty"`
}

// RowList is the "Rows" wrapper. Its Row member is sometimes a single object
// and sometimes an array; decoding always yields a slice.
type RowList struct {
	Row []Row `json:"Row"`
}

func (r Report) TopRows() []Row {
	return r.Rows.list()
}

func (r Report) HeaderOrEmpty() Header {
	if r.Header == nil {
		return Header{}
	}
	return *r.Header
}

// NoData reports whether the producer flagged the report as empty.
func (r Report) NoData() bool {
	for _, opt := range r.HeaderOrEmpty().Option {
		if opt.Name.String() == "NoReportData" {
			return strings.EqualFold(opt.Value.String(), "true")
		}
	}
	return false
}

func (l *RowList) list() []Row {
	if l == nil {
		return nil
	}
	return l.Row
}

func (r Row) Children() []Row {
	return r.Rows.list()
}

func (r Row) HasHeader() bool {
	return r.Header != nil
}

func (r Row) HasSummary() bool {
	return r.Summary != nil
}

func (r Row) HasColData() bool {
	return len(r.ColData) > 0
}

func (r Row) HasChildren() bool {
	return len(r.Children()) > 0
}

// Name is the row label: the header label for sections, the first column
// otherwise.
func (r Row) Name() string {
	if r.Header != nil {
		if label := r.Header.Label(); label != "" {
			return label
		}
	}
	return labelOf(r.ColData)
}

// Amount returns the raw amount cell of a data row.
func (r Row) Amount() (string, bool) {
	return amountOf(r.ColData)
}

func (c *CellRow) Label() string {
	if c == nil {
		return ""
	}
	return labelOf(c.ColData)
}

// Amount returns the raw amount cell of a header or summary row.
func (c *CellRow) Amount() (string, bool) {
	if c == nil {
		return "", false
	}
	return amountOf(c.ColData)
}

func labelOf(cells []Cell) string {
	if len(cells) == 0 {
		return ""
	}
	return strings.TrimSpace(cells[0].Value.String())
}

// amountOf reads the last column. Multi-column reports put the total last;
// for the common two-column layout this is column 1.
func amountOf(cells []Cell) (string, bool) {
	if len(cells) < 2 {
		return "", false
	}
	return cells[len(cells)-1].Value.String(), true
}
