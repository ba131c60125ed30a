// Package render computes everything a drawing surface needs to plot a level
// chart: processed line points, scales, ticks and margins. The stages are
// pure functions over an explicit ChartState so they stay testable without a
// window; the actual drawing lives with the surface (see cmd/cffviewer).
package render

import (
	"errors"
	"time"

	"github.com/DEFRA/cff-chart-prototype/src/telemetry"
)

// Origin tags a line point with its source series.
type Origin int

const (
	OriginObserved Origin = iota
	OriginForecast
)

// LinePoint is one chartable point after processing.
type LinePoint struct {
	Time        time.Time
	Value       float64
	Origin      Origin
	Significant bool
}

// Tick is one y-axis tick.
type Tick struct {
	Value float64
	Label string
}

// TimeTick is one x-axis tick.
type TimeTick struct {
	Time  time.Time
	Label string
}

// Margins are pixel insets around the plot area.
type Margins struct {
	Top    int
	Right  int
	Bottom int
	Left   int
}

// ChartState carries one render pass. Recomputed from scratch on every data
// change, filter change or resize; no field survives between passes.
type ChartState struct {
	Type  telemetry.StationType
	Range telemetry.TimeRange

	Observed []LinePoint
	Forecast []LinePoint
	// Lines is observed followed by forecast, the flattened sequence used
	// for hit-testing.
	Lines []LinePoint

	// Latest is the boundary between observed and forecast regions.
	Latest time.Time

	XMin, XMax time.Time
	YMin, YMax float64
	XTicks     []TimeTick
	YTicks     []Tick

	Width, Height int
	Mobile        bool
	Margins       Margins
}

// ErrNoData aborts a render pass that has nothing to plot. Callers leave any
// previously rendered state standing.
var ErrNoData = errors.New("render: no data to plot")

// Build runs the Processing and Scaling stages for one pass.
func Build(series telemetry.Series, rng telemetry.TimeRange, width, height int, now time.Time) (*ChartState, error) {
	st := ChartState{Range: rng, Width: width, Height: height}
	st, err := Process(st, series)
	if err != nil {
		return nil, err
	}
	st, err = Scale(st, now)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// XFraction maps a time to its horizontal position in [0,1] across the x
// domain.
func (st *ChartState) XFraction(t time.Time) float64 {
	span := st.XMax.Sub(st.XMin)
	if span <= 0 {
		return 0
	}
	return float64(t.Sub(st.XMin)) / float64(span)
}

// YFraction maps a value to its vertical position in [0,1], measured from the
// top of the plot.
func (st *ChartState) YFraction(v float64) float64 {
	span := st.YMax - st.YMin
	if span <= 0 {
		return 0
	}
	return 1 - (v-st.YMin)/span
}

// InForecast reports whether a point lies in the forecast region, i.e. after
// the latest observed reading.
func (st *ChartState) InForecast(p LinePoint) bool {
	if st.Latest.IsZero() {
		return p.Origin == OriginForecast
	}
	return p.Time.After(st.Latest)
}
