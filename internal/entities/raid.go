package entities

import "time"

// Raid is a scheduled raid event. Date is the canonical YYYY-MM-DD form
// produced by the dates package; it is unique across all raids and is
// what players reference in commands.
type Raid struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Time      string    `json:"time,omitempty"`
	Timezone  string    `json:"timezone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Label renders the raid's schedule for display, e.g. "2024-02-19 20:00 UTC".
func (r *Raid) Label() string {
	label := r.Date
	if r.Time != "" {
		label += " " + r.Time
	}
	if r.Timezone != "" {
		label += " " + r.Timezone
	}
	return label
}
