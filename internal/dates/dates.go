// Package dates normalizes human-entered raid dates to the canonical
// YYYY-MM-DD form the rest of the system compares and sorts by.
package dates

import (
	"time"

	"github.com/araddon/dateparse"

	rosterr "github.com/guildops/raid-roster-discord/internal/errors"
)

// Layout is the canonical date layout. Canonical dates compare and sort
// lexicographically in chronological order.
const Layout = "2006-01-02"

// Normalize parses a flexible date string ("2024-02-19", "19/02/2024",
// "Feb 19 2024", ...) and returns the canonical form. Ambiguous numeric
// dates are read day-first.
func Normalize(input string) (string, error) {
	parsed, err := dateparse.ParseAny(input, dateparse.PreferMonthFirst(false))
	if err != nil {
		return "", rosterr.WrapWithCode(err, rosterr.CodeInvalidArgument,
			"could not understand date").WithMeta("input", input)
	}
	return parsed.Format(Layout), nil
}

// Canonical formats a time in the canonical date form.
func Canonical(t time.Time) string {
	return t.Format(Layout)
}

// Parse converts a canonical date to midnight UTC of that day.
func Parse(canonical string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, canonical, time.UTC)
	if err != nil {
		return time.Time{}, rosterr.WrapWithCode(err, rosterr.CodeInvalidArgument,
			"not a canonical date").WithMeta("input", canonical)
	}
	return t, nil
}
