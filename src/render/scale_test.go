package render

import (
	"testing"
	"time"

	"github.com/DEFRA/cff-chart-prototype/src/telemetry"
)

func linePoints(start time.Time, gap time.Duration, values ...float64) []LinePoint {
	out := make([]LinePoint, len(values))
	for i, v := range values {
		out[i] = LinePoint{Time: start.Add(time.Duration(i) * gap), Value: v, Origin: OriginObserved}
	}
	return out
}

func scaled(t *testing.T, st ChartState, now time.Time) ChartState {
	t.Helper()
	out, err := Scale(st, now)
	if err != nil {
		t.Fatalf("scale: %v", err)
	}
	return out
}

func TestScaleXPadding(t *testing.T) {
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local)
	lines := linePoints(start, time.Hour, 1, 2, 3, 4, 5)
	st := scaled(t, ChartState{Lines: lines, Range: telemetry.Range5Days, Width: 900, Height: 400}, start)
	span := lines[len(lines)-1].Time.Sub(lines[0].Time)
	wantMax := lines[len(lines)-1].Time.Add(span / 20)
	if !st.XMax.Equal(wantMax) {
		t.Fatalf("x max not padded by 5%%: got %v want %v", st.XMax, wantMax)
	}
	if !st.XMin.Equal(lines[0].Time) {
		t.Fatalf("x min moved: %v", st.XMin)
	}
}

func TestScaleSinglePointGetsNonZeroSpan(t *testing.T) {
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local)
	st := scaled(t, ChartState{Lines: linePoints(start, time.Hour, 2.5), Width: 900, Height: 400}, start)
	if !st.XMax.After(st.XMin) {
		t.Fatalf("degenerate span not widened: [%v,%v]", st.XMin, st.XMax)
	}
}

func TestScaleRiverFloorsAtZero(t *testing.T) {
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local)
	lines := linePoints(start, time.Hour, 0.05, 0.09, 0.12)
	st := scaled(t, ChartState{Lines: lines, Type: telemetry.StationRiver, Width: 900, Height: 400}, start)
	if st.YMin < 0 {
		t.Fatalf("river y min below zero: %v", st.YMin)
	}
	if st.YMax < 1 {
		t.Fatalf("y max not floored at 1: %v", st.YMax)
	}
}

func TestScaleTideAllowsNegative(t *testing.T) {
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local)
	lines := linePoints(start, time.Hour, -2, 0, 2)
	st := scaled(t, ChartState{Lines: lines, Type: telemetry.StationTide, Width: 900, Height: 400}, start)
	if st.YMin >= -2 {
		t.Fatalf("tide y min should extend below data min: %v", st.YMin)
	}
}

func TestScaleYTickCountNearTarget(t *testing.T) {
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local)
	lines := linePoints(start, time.Hour, 0.2, 3.7, 1.1, 2.9)
	st := scaled(t, ChartState{Lines: lines, Width: 900, Height: 400}, start)
	if n := len(st.YTicks); n < 3 || n > 8 {
		t.Fatalf("y tick count far from target: %d", n)
	}
	for i := 1; i < len(st.YTicks); i++ {
		if st.YTicks[i].Value <= st.YTicks[i-1].Value {
			t.Fatalf("y ticks not increasing: %#v", st.YTicks)
		}
	}
}

func TestScaleRightMarginGrowsWithLabels(t *testing.T) {
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local)
	small := scaled(t, ChartState{Lines: linePoints(start, time.Hour, 0.1, 0.9), Width: 900, Height: 400}, start)
	big := scaled(t, ChartState{Lines: linePoints(start, time.Hour, 100, 9000), Width: 900, Height: 400}, start)
	if big.Margins.Right <= small.Margins.Right {
		t.Fatalf("right margin should grow with wider labels: %d vs %d", big.Margins.Right, small.Margins.Right)
	}
}

func TestScaleMobileBreakpoint(t *testing.T) {
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local)
	lines := linePoints(start, time.Hour, 1, 2)
	desktop := scaled(t, ChartState{Lines: lines, Width: 900, Height: 400}, start)
	mobile := scaled(t, ChartState{Lines: lines, Width: 480, Height: 400}, start)
	if desktop.Mobile || !mobile.Mobile {
		t.Fatalf("breakpoint misapplied: desktop=%v mobile=%v", desktop.Mobile, mobile.Mobile)
	}
}

func TestScaleDropsTicksUnderNowLabel(t *testing.T) {
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local)
	lines := linePoints(start, time.Hour, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13)
	now := lines[len(lines)-1].Time
	withNow := scaled(t, ChartState{Lines: lines, Range: telemetry.Range5Days, Width: 900, Height: 400}, now)
	farNow := scaled(t, ChartState{Lines: lines, Range: telemetry.Range5Days, Width: 900, Height: 400}, now.Add(365*24*time.Hour))
	for _, tick := range withNow.XTicks {
		plotW := float64(withNow.Width - withNow.Margins.Left - withNow.Margins.Right)
		dist := (withNow.XFraction(tick.Time) - withNow.XFraction(now)) * plotW
		if dist < 0 {
			dist = -dist
		}
		if dist < nowLabelClearancePx {
			t.Fatalf("tick %v collides with now label (%.1fpx)", tick.Time, dist)
		}
	}
	if len(farNow.XTicks) < len(withNow.XTicks) {
		t.Fatalf("out-of-domain now must not prune ticks: %d vs %d", len(farNow.XTicks), len(withNow.XTicks))
	}
}

func TestScaleEmptyLines(t *testing.T) {
	if _, err := Scale(ChartState{}, time.Now()); err == nil {
		t.Fatalf("expected error for empty state")
	}
}
