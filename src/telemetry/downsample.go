package telemetry

import (
	"sort"
	"time"
)

// Downsample reduces point density for the chart style that opts into it.
// Short windows pass through untouched; medium windows keep the first point
// per bucket; the 5-year window keeps the weekly maximum so flood peaks
// survive the reduction.
func Downsample(points []Point, r TimeRange) []Point {
	switch r {
	case Range6Months:
		return firstPerBucket(points, hourKey)
	case Range1Year:
		return firstPerBucket(points, fourHourKey)
	case Range5Years:
		return weeklyMax(points)
	}
	return points
}

// hourKey buckets by calendar hour in local time.
func hourKey(t time.Time) int64 {
	lt := t.Local()
	return time.Date(lt.Year(), lt.Month(), lt.Day(), lt.Hour(), 0, 0, 0, lt.Location()).Unix()
}

// fourHourKey buckets by fixed epoch-aligned 4-hour intervals.
func fourHourKey(t time.Time) int64 {
	const fourHoursMs = 4 * 60 * 60 * 1000
	return t.UnixMilli() / fourHoursMs * fourHoursMs
}

// weekKey buckets by calendar week starting Sunday 00:00 local time.
func weekKey(t time.Time) int64 {
	lt := t.Local()
	day := time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, lt.Location())
	return day.AddDate(0, 0, -int(day.Weekday())).Unix()
}

// firstPerBucket keeps the first point encountered per bucket, in input order.
// Relies on pre-sorted input, so no re-sort is needed.
func firstPerBucket(points []Point, key func(time.Time) int64) []Point {
	seen := make(map[int64]struct{}, len(points))
	out := make([]Point, 0, len(points))
	for _, p := range points {
		k := key(p.Time())
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, p)
	}
	return out
}

// weeklyMax keeps the highest value per week. Map iteration order is not
// chronological, so this path sorts its output explicitly.
func weeklyMax(points []Point) []Point {
	best := make(map[int64]Point, len(points))
	for _, p := range points {
		k := weekKey(p.Time())
		if cur, ok := best[k]; !ok || p.Value > cur.Value {
			best[k] = p
		}
	}
	out := make([]Point, 0, len(best))
	for _, p := range best {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Time().Before(out[j].Time())
	})
	return out
}
