package raw

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Text is a string-valued field that also accepts JSON numbers, booleans and
// null. Producers are inconsistent about quoting amounts.
type Text string

func (t Text) String() string {
	return string(t)
}

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*t = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	case 'n', '{', '[':
		*t = ""
	default:
		// number or boolean literal, kept verbatim
		*t = Text(data)
	}
	return nil
}

type Cells []Cell

func (c *Cells) UnmarshalJSON(data []byte) error {
	*c = asList[Cell](data)
	return nil
}

type Options []Option

func (o *Options) UnmarshalJSON(data []byte) error {
	*o = asList[Option](data)
	return nil
}

func (l *RowList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if isNull(data) {
		l.Row = nil
		return nil
	}

	// "Rows": [...] without the Row wrapper
	if data[0] == '[' {
		l.Row = asList[Row](data)
		return nil
	}

	var aux struct {
		Row json.RawMessage `json:"Row"`
	}
	if data[0] != '{' || json.Unmarshal(data, &aux) != nil {
		l.Row = nil
		return nil
	}
	l.Row = asList[Row](aux.Row)
	return nil
}

func (c *CellRow) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		*c = CellRow{}
		return nil
	}

	var aux struct {
		ColData Cells `json:"ColData"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		*c = CellRow{}
		return nil
	}
	c.ColData = aux.ColData
	return nil
}

func (r *Report) UnmarshalJSON(data []byte) error {
	var aux struct {
		Header json.RawMessage `json:"Header"`
		Rows   json.RawMessage `json:"Rows"`
		ExtraInfo
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*r = Report{Extras: aux.ExtraInfo}
	if header, ok := asOne[Header](aux.Header); ok {
		r.Header = &header
	}
	if !isNull(bytes.TrimSpace(aux.Rows)) {
		var rows RowList
		_ = rows.UnmarshalJSON(aux.Rows)
		r.Rows = &rows
	}
	return nil
}

func (r Report) MarshalJSON() ([]byte, error) {
	type Alias Report
	return json.Marshal(struct {
		Alias
		ExtraInfo
	}{
		Alias:     Alias(r),
		ExtraInfo: r.Extras,
	})
}

// Decode parses a report document. Only a document that is not a JSON object
// at all is an error; everything below the top level is decoded leniently.
func Decode(data []byte) (Report, error) {
	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return Report{}, fmt.Errorf("failed to decode report: %w", err)
	}
	return report, nil
}

// asList is the one adapter for collections that arrive either as an array
// or as a lone object. Elements that are not objects are dropped.
func asList[T any](data []byte) []T {
	data = bytes.TrimSpace(data)
	if isNull(data) {
		return nil
	}

	switch data[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil
		}
		out := make([]T, 0, len(items))
		for _, item := range items {
			if v, ok := asOne[T](item); ok {
				out = append(out, v)
			}
		}
		return out
	case '{':
		if v, ok := asOne[T](data); ok {
			return []T{v}
		}
	}
	return nil
}

func asOne[T any](data []byte) (T, bool) {
	var v T
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return v, false
	}
	if err := json.Unmarshal(data, &v); err != nil {
		var zero T
		return zero, false
	}
	return v, true
}

func isNull(data []byte) bool {
	return len(data) == 0 || bytes.Equal(data, []byte("null"))
}
