package store

import "time"

// Snapshot is a raw statement as the backend returned it, kept so it can be
// analyzed again or compared with later fetches.
type Snapshot struct {
	ID        string `badgerhold:"key"`
	Company   string `badgerholdIndex:"Company"`
	Kind      string
	Start     string
	End       string
	FetchedAt time.Time
	Document  []byte
}
