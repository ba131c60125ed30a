package telemetry

import "time"

// TimeRange is one of the fixed lookback windows selectable in the UI.
type TimeRange string

const (
	Range5Days   TimeRange = "5d"
	Range1Month  TimeRange = "1m"
	Range6Months TimeRange = "6m"
	Range1Year   TimeRange = "1y"
	Range5Years  TimeRange = "5y"
)

// Ranges lists the selectable windows in UI order.
var Ranges = []TimeRange{Range5Days, Range1Month, Range6Months, Range1Year, Range5Years}

// lookbackDays: 6m is 6x30 days, not calendar months; 1y/5y are 365-day years.
func (r TimeRange) lookbackDays() (int, bool) {
	switch r {
	case Range5Days:
		return 5, true
	case Range1Month:
		return 30, true
	case Range6Months:
		return 180, true
	case Range1Year:
		return 365, true
	case Range5Years:
		return 5 * 365, true
	}
	return 0, false
}

// Label returns the user-facing name for the window. Unknown tokens get the
// default window's label.
func (r TimeRange) Label() string {
	switch r {
	case Range1Month:
		return "Last month"
	case Range6Months:
		return "Last 6 months"
	case Range1Year:
		return "Last year"
	case Range5Years:
		return "Last 5 years"
	}
	return "Last 5 days"
}

// FilterByRange returns the points at or after now minus the window. Input
// order is preserved; callers supply pre-sorted data. An unknown range token
// returns the input unchanged.
func FilterByRange(points []Point, r TimeRange, now time.Time) []Point {
	days, ok := r.lookbackDays()
	if !ok {
		return points
	}
	cutoff := now.AddDate(0, 0, -days)
	out := make([]Point, 0, len(points))
	for _, p := range points {
		if !p.Time().Before(cutoff) {
			out = append(out, p)
		}
	}
	return out
}
