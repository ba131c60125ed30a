package telemetry

import (
	"time"
)

// StationType selects simplification tolerance, negative-value clamping and
// y-domain flooring downstream.
type StationType string

const (
	StationRiver       StationType = "river"
	StationTide        StationType = "tide"
	StationGroundwater StationType = "groundwater"
	StationSea         StationType = "sea"
)

// Layout is the zone-less timestamp format used by the upstream API and the
// CSV upload format, e.g. "2024-01-15T14:45:00". Interpreted in local time.
const Layout = "2006-01-02T15:04:05"

// Point is one observation. Err marks a sensor error reading; such points are
// excluded from observed-line rendering but retained in storage. Significant
// is set by the simplifier and never persisted.
type Point struct {
	DateTime    string  `json:"dateTime"`
	Value       float64 `json:"value"`
	Err         bool    `json:"err,omitempty"`
	Significant bool    `json:"-"`
}

// Series is the telemetry payload supplied per chart instantiation by the
// upstream provider. Observed arrives newest-first.
type Series struct {
	Observed           []Point     `json:"observed"`
	Forecast           []Point     `json:"forecast"`
	Type               StationType `json:"type"`
	LatestDateTime     string      `json:"latestDateTime"`
	CacheStartDateTime string      `json:"cacheStartDateTime"`
	CacheEndDateTime   string      `json:"cacheEndDateTime"`
}

// ParseTime parses an API/CSV timestamp. Zone-less stamps are local time;
// stamps carrying an offset fall back to RFC3339.
func ParseTime(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(Layout, s, time.Local); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// Time returns the parsed timestamp, or the zero time when DateTime is
// malformed. Callers that must distinguish use ParseTime directly.
func (p Point) Time() time.Time {
	t, err := ParseTime(p.DateTime)
	if err != nil {
		return time.Time{}
	}
	return t
}
