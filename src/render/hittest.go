package render

import "time"

// NearestIndex resolves the line point closest to target on the time axis.
// Full scan with a strict comparison: equal distances keep the earlier point.
// Returns -1 for an empty slice.
func NearestIndex(lines []LinePoint, target time.Time) int {
	if len(lines) == 0 {
		return -1
	}
	best := 0
	bestD := absDuration(lines[0].Time.Sub(target))
	for i := 1; i < len(lines); i++ {
		if d := absDuration(lines[i].Time.Sub(target)); d < bestD {
			bestD = d
			best = i
		}
	}
	return best
}

// NearestIndexFromCenters picks the index whose precomputed pixel center is
// closest to x. Same tie rule as NearestIndex.
func NearestIndexFromCenters(centers []float32, x float32) int {
	if len(centers) == 0 {
		return -1
	}
	best := 0
	bestD := absF32(centers[0] - x)
	for i := 1; i < len(centers); i++ {
		if d := absF32(centers[i] - x); d < bestD {
			bestD = d
			best = i
		}
	}
	return best
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

func absF32(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
