package render

import (
	"testing"
	"time"
)

func TestNearestIndexBasic(t *testing.T) {
	start := time.Date(2024, 1, 15, 10, 0, 0, 0, time.Local)
	lines := linePoints(start, time.Hour, 1, 2, 3)
	if got := NearestIndex(lines, start.Add(5*time.Minute)); got != 0 {
		t.Fatalf("expected index 0, got %d", got)
	}
	if got := NearestIndex(lines, start.Add(109*time.Minute)); got != 2 {
		t.Fatalf("expected index 2, got %d", got)
	}
	if got := NearestIndex(nil, start); got != -1 {
		t.Fatalf("expected -1 for empty input, got %d", got)
	}
}

func TestNearestPointTieBreaksEarlier(t *testing.T) {
	start := time.Date(2024, 1, 15, 10, 0, 0, 0, time.Local)
	lines := linePoints(start, time.Hour, 1, 2)
	// exactly halfway between the two points
	if got := NearestIndex(lines, start.Add(30*time.Minute)); got != 0 {
		t.Fatalf("tie must resolve to the earlier point, got %d", got)
	}
}

func TestNearestIndexFromCenters(t *testing.T) {
	centers := []float32{10, 50, 90}
	if got := NearestIndexFromCenters(centers, 28); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if got := NearestIndexFromCenters(centers, 30); got != 0 {
		t.Fatalf("pixel tie must keep the earlier index, got %d", got)
	}
	if got := NearestIndexFromCenters(centers, 88); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
	if got := NearestIndexFromCenters(nil, 0); got != -1 {
		t.Fatalf("expected -1, got %d", got)
	}
}

func TestInForecastUsesLatestBoundary(t *testing.T) {
	start := time.Date(2024, 1, 15, 10, 0, 0, 0, time.Local)
	st := ChartState{Latest: start}
	obsPt := LinePoint{Time: start, Origin: OriginObserved}
	fcPt := LinePoint{Time: start.Add(time.Hour), Origin: OriginForecast}
	if st.InForecast(obsPt) {
		t.Fatalf("point at latest must not be forecast")
	}
	if !st.InForecast(fcPt) {
		t.Fatalf("point after latest must be forecast")
	}
}
