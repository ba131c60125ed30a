package render

import (
	"github.com/DEFRA/cff-chart-prototype/src/telemetry"
)

// Simplification tolerances by station type. River charts keep full detail;
// tide curves are smooth enough for a coarse tolerance.
const (
	toleranceTide    = 12
	toleranceDefault = 6
)

func toleranceFor(st telemetry.StationType) float64 {
	switch st {
	case telemetry.StationRiver:
		return 0
	case telemetry.StationTide:
		return toleranceTide
	default:
		return toleranceDefault
	}
}

// Process turns a (pre-merged, pre-filtered) series into chartable line
// points: sensor-error readings are dropped, observed points are put in
// chronological order, both sequences are simplified per station type, and
// the observed/forecast boundary gets at most one significant marker.
func Process(st ChartState, series telemetry.Series) (ChartState, error) {
	st.Type = series.Type

	obs := make([]telemetry.Point, 0, len(series.Observed))
	for _, p := range series.Observed {
		if p.Err {
			continue
		}
		obs = append(obs, p)
	}
	obs = chronological(obs)
	fc := chronological(series.Forecast)

	if tol := toleranceFor(series.Type); tol > 0 {
		obs = telemetry.Simplify(obs, tol)
		fc = telemetry.Simplify(fc, tol)
	}

	st.Observed = toLinePoints(obs, OriginObserved)
	st.Forecast = toLinePoints(fc, OriginForecast)

	// Avoid a duplicate marker where forecast starts exactly on the latest
	// observed reading.
	if len(st.Observed) > 0 && len(st.Forecast) > 0 {
		last := st.Observed[len(st.Observed)-1]
		first := &st.Forecast[0]
		first.Significant = !first.Time.Equal(last.Time) || first.Value != last.Value
	}

	if series.LatestDateTime != "" {
		if t, err := telemetry.ParseTime(series.LatestDateTime); err == nil {
			st.Latest = t
		}
	}
	if st.Latest.IsZero() && len(st.Observed) > 0 {
		st.Latest = st.Observed[len(st.Observed)-1].Time
	}

	st.Lines = make([]LinePoint, 0, len(st.Observed)+len(st.Forecast))
	st.Lines = append(st.Lines, st.Observed...)
	st.Lines = append(st.Lines, st.Forecast...)
	if len(st.Lines) == 0 {
		return st, ErrNoData
	}
	return st, nil
}

// chronological returns the points oldest-first. The API delivers observed
// readings newest-first; merged data is already ascending.
func chronological(pts []telemetry.Point) []telemetry.Point {
	if len(pts) >= 2 && pts[0].Time().After(pts[len(pts)-1].Time()) {
		out := make([]telemetry.Point, len(pts))
		for i, p := range pts {
			out[len(pts)-1-i] = p
		}
		return out
	}
	return pts
}

func toLinePoints(pts []telemetry.Point, origin Origin) []LinePoint {
	out := make([]LinePoint, 0, len(pts))
	for _, p := range pts {
		t, err := telemetry.ParseTime(p.DateTime)
		if err != nil {
			telemetry.Debugf("render: dropping point with bad timestamp %q", p.DateTime)
			continue
		}
		out = append(out, LinePoint{Time: t, Value: p.Value, Origin: origin, Significant: p.Significant})
	}
	return out
}
