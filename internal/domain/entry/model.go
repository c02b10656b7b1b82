package entry

import "time"

// TimeEntry is a finalized billing record. Entries carry no surrogate id;
// the (client, start, end) triple identifies them for edits and deletes.
type TimeEntry struct {
	Client          string    `json:"client"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
}

// SameKey reports whether two entries share the identifying triple.
func (e TimeEntry) SameKey(other TimeEntry) bool {
	return e.Client == other.Client &&
		e.StartTime.Equal(other.StartTime) &&
		e.EndTime.Equal(other.EndTime)
}

// ClientSummary holds total billed minutes for one client.
type ClientSummary struct {
	Client  string `json:"client"`
	Minutes int    `json:"minutes"`
}
