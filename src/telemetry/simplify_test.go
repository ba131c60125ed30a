package telemetry

import (
	"testing"
	"time"
)

func simplifyInput(values []float64) []Point {
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local)
	pts := make([]Point, len(values))
	for i, v := range values {
		pts[i] = Point{DateTime: start.Add(time.Duration(i) * time.Minute).Format(Layout), Value: v}
	}
	return pts
}

func TestSimplifyShortInputFlagsEndpoints(t *testing.T) {
	for n := 0; n <= 2; n++ {
		pts := simplifyInput(make([]float64, n))
		got := Simplify(pts, 1)
		if len(got) != n {
			t.Fatalf("n=%d: expected unchanged length, got %d", n, len(got))
		}
		for i, p := range got {
			if !p.Significant {
				t.Fatalf("n=%d: point %d not flagged significant", n, i)
			}
		}
	}
}

func TestSimplifyKeepsEndpoints(t *testing.T) {
	pts := simplifyInput([]float64{0, 5, 1, 8, 2, 9, 0})
	got := Simplify(pts, 0.5)
	if len(got) < 2 {
		t.Fatalf("expected at least the endpoints, got %d", len(got))
	}
	if got[0].DateTime != pts[0].DateTime || got[len(got)-1].DateTime != pts[len(pts)-1].DateTime {
		t.Fatalf("endpoints not preserved: %#v", got)
	}
	if len(got) > len(pts) {
		t.Fatalf("simplify grew the input")
	}
	for _, p := range got {
		if !p.Significant {
			t.Fatalf("surviving point %s not flagged", p.DateTime)
		}
	}
}

func TestSimplifyCollapsesStraightLine(t *testing.T) {
	// collinear points: everything between the endpoints is within tolerance
	pts := simplifyInput([]float64{1, 1, 1, 1, 1, 1})
	got := Simplify(pts, 0.25)
	if len(got) != 2 {
		t.Fatalf("expected 2 endpoint survivors, got %d", len(got))
	}
}

func TestSimplifyRetainsSpike(t *testing.T) {
	values := []float64{1, 1, 1, 50, 1, 1, 1}
	pts := simplifyInput(values)
	got := Simplify(pts, 2)
	found := false
	for _, p := range got {
		if p.Value == 50 {
			found = true
		}
	}
	if !found {
		t.Fatalf("spike dropped by simplifier: %#v", got)
	}
}

func TestSimplifyOrderPreserved(t *testing.T) {
	pts := simplifyInput([]float64{0, 3, -2, 7, 1, 4, -1, 6})
	got := Simplify(pts, 0.1)
	for i := 1; i < len(got); i++ {
		if !got[i-1].Time().Before(got[i].Time()) {
			t.Fatalf("output out of order at %d", i)
		}
	}
}
