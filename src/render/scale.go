package render

import (
	"fmt"
	"math"
	"time"

	"github.com/DEFRA/cff-chart-prototype/src/telemetry"
)

// MobileBreakpoint is the viewport width (px) below which the compact layout
// applies: coarser ticks, tighter margins.
const MobileBreakpoint = 640

// yTickTarget is the desired y tick count the nice rounding aims for.
const yTickTarget = 5

// Scale computes the x/y domains, ticks and margins for a processed state.
// The x max is padded by 5% of the span so the last point clears the chart
// edge; the y domain gets a third of the value range on each side, with the
// lower bound floored at 0 for river stations and the upper bound floored
// at 1.
func Scale(st ChartState, now time.Time) (ChartState, error) {
	if len(st.Lines) == 0 {
		return st, ErrNoData
	}
	st.Mobile = st.Width > 0 && st.Width < MobileBreakpoint

	xmin := st.Lines[0].Time
	xmax := st.Lines[0].Time
	ymin := st.Lines[0].Value
	ymax := st.Lines[0].Value
	for _, p := range st.Lines[1:] {
		if p.Time.Before(xmin) {
			xmin = p.Time
		}
		if p.Time.After(xmax) {
			xmax = p.Time
		}
		if p.Value < ymin {
			ymin = p.Value
		}
		if p.Value > ymax {
			ymax = p.Value
		}
	}
	if span := xmax.Sub(xmin); span > 0 {
		xmax = xmax.Add(span / 20)
	} else {
		xmax = xmin.Add(time.Hour)
	}
	st.XMin, st.XMax = xmin, xmax

	vr := ymax - ymin
	if vr < 1 {
		vr = 1
	}
	lo := ymin - vr/3
	hi := ymax + vr/3
	if st.Type == telemetry.StationRiver && lo < 0 {
		lo = 0
	}
	if hi < 1 {
		hi = 1
	}
	lo, hi = niceBounds(lo, hi)
	// rounding must not undo the floors
	if st.Type == telemetry.StationRiver && lo < 0 {
		lo = 0
	}
	if hi < 1 {
		hi = 1
	}
	st.YMin, st.YMax = lo, hi
	st.YTicks = buildYTicks(lo, hi, yTickTarget)
	st.Margins = marginsFor(st.YTicks, st.Mobile)

	step, layout := rangeTickSpec(st.Range, st.XMax.Sub(st.XMin), st.Mobile)
	st.XTicks = pruneNowCollisions(buildTimeTicks(st.XMin, st.XMax, step, layout), now, &st)
	return st, nil
}

// niceBounds rounds [min,max] outward to increments matching the span's order
// of magnitude.
func niceBounds(min, max float64) (float64, float64) {
	if max <= min {
		max = min + 1
	}
	span := max - min
	mag := math.Pow(10, math.Floor(math.Log10(span)))
	if math.IsInf(mag, 0) || mag <= 0 {
		return min, max
	}
	return math.Floor(min/mag) * mag, math.Ceil(max/mag) * mag
}

// buildYTicks generates up to ~n ticks between [min,max] using 1/2/2.5/5
// steps scaled by powers of ten.
func buildYTicks(min, max float64, n int) []Tick {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) {
		return nil
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	candidates := []float64{1, 2, 2.5, 5, 10}
	bestStep := mag
	bestScore := math.MaxFloat64
	for _, c := range candidates {
		step := c * mag
		count := math.Ceil(span / step)
		if count < 2 {
			count = 2
		}
		score := math.Abs(count - float64(n))
		if score < bestScore {
			bestScore = score
			bestStep = step
		}
	}
	start := math.Ceil(min/bestStep) * bestStep
	ticks := []Tick{}
	for v := start; v <= max+bestStep/2; v += bestStep {
		if v < min {
			continue
		}
		ticks = append(ticks, Tick{Value: v, Label: formatTick(v)})
		if len(ticks) > n+2 {
			break
		}
	}
	return ticks
}

func formatTick(v float64) string {
	if v == 0 {
		return "0"
	}
	av := math.Abs(v)
	switch {
	case av >= 1000:
		return fmt.Sprintf("%.0f", v)
	case av >= 100:
		return fmt.Sprintf("%.0f", v)
	case av >= 10:
		return fmt.Sprintf("%.1f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

// marginsFor sizes the plot insets. The right margin grows with the widest
// y tick label so values like 10.5 and 0.09 both clear the edge.
func marginsFor(yTicks []Tick, mobile bool) Margins {
	charW := 8
	bottom := 36
	if mobile {
		charW = 7
		bottom = 30
	}
	widest := 1
	for _, t := range yTicks {
		if len(t.Label) > widest {
			widest = len(t.Label)
		}
	}
	return Margins{Top: 14, Right: 12 + charW*widest, Bottom: bottom, Left: 16}
}

// rangeTickSpec picks the x tick step and label layout for the active window.
// Sub-week windows label hour and day; year-scale windows label month and
// year. The compact layout doubles the step. Unknown tokens fall back to a
// span heuristic.
func rangeTickSpec(r telemetry.TimeRange, span time.Duration, mobile bool) (time.Duration, string) {
	var step time.Duration
	var layout string
	switch r {
	case telemetry.Range5Days:
		step, layout = 12*time.Hour, "3pm, 2 Jan"
	case telemetry.Range1Month:
		step, layout = 7*24*time.Hour, "2 Jan"
	case telemetry.Range6Months:
		step, layout = 30*24*time.Hour, "2 Jan"
	case telemetry.Range1Year:
		step, layout = 61*24*time.Hour, "Jan 2006"
	case telemetry.Range5Years:
		step, layout = 365*24*time.Hour, "Jan 2006"
	default:
		switch {
		case span <= 24*time.Hour:
			step, layout = time.Hour, "3pm"
		case span <= 14*24*time.Hour:
			step, layout = 24*time.Hour, "2 Jan"
		default:
			step, layout = 7*24*time.Hour, "2 Jan"
		}
	}
	if mobile {
		step *= 2
	}
	return step, layout
}

// buildTimeTicks walks from the local midnight at or before min in step
// increments, keeping ticks inside [min,max].
func buildTimeTicks(min, max time.Time, step time.Duration, layout string) []TimeTick {
	if step <= 0 || !max.After(min) {
		return nil
	}
	lt := min.Local()
	start := time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, lt.Location())
	ticks := []TimeTick{}
	for t := start; !t.After(max); t = t.Add(step) {
		if t.Before(min) {
			continue
		}
		ticks = append(ticks, TimeTick{Time: t, Label: t.Format(layout)})
		if len(ticks) > 20 {
			break
		}
	}
	return ticks
}

// nowLabelClearancePx is the horizontal slack reserved around the "now"
// indicator label.
const nowLabelClearancePx = 40

// pruneNowCollisions drops ticks whose pixel position would sit under the
// "now" label. Needs a usable plot width; with none (headless scale pass)
// the ticks are returned unchanged.
func pruneNowCollisions(ticks []TimeTick, now time.Time, st *ChartState) []TimeTick {
	plotW := st.Width - st.Margins.Left - st.Margins.Right
	if plotW <= 0 || now.Before(st.XMin) || now.After(st.XMax) {
		return ticks
	}
	nowPx := st.XFraction(now) * float64(plotW)
	out := ticks[:0]
	for _, t := range ticks {
		px := st.XFraction(t.Time) * float64(plotW)
		if math.Abs(px-nowPx) < nowLabelClearancePx {
			continue
		}
		out = append(out, t)
	}
	return out
}
