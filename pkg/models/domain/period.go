package domain

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the YYYY-MM-DD form used for statement dates.
const DateLayout = "2006-01-02"

var ErrOpenPeriod = errors.New("period needs both a start and an end date")

// Previous returns the window of the same length that ends the day before p
// starts.
func (p Period) Previous() (Period, error) {
	if p.Start == "" || p.End == "" {
		return Period{}, ErrOpenPeriod
	}
	start, err := time.Parse(DateLayout, p.Start)
	if err != nil {
		return Period{}, fmt.Errorf("invalid period start %q: %w", p.Start, err)
	}
	end, err := time.Parse(DateLayout, p.End)
	if err != nil {
		return Period{}, fmt.Errorf("invalid period end %q: %w", p.End, err)
	}

	prevEnd := start.AddDate(0, 0, -1)
	prevStart := prevEnd.Add(-end.Sub(start))
	return Period{Start: prevStart.Format(DateLayout), End: prevEnd.Format(DateLayout)}, nil
}
