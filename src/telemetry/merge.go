package telemetry

import "sort"

// Merge combines an uploaded historic dataset with the live series. Live
// readings win timestamp ties; the result is sorted ascending by dateTime.
// When either side is empty the other is returned untouched, including its
// ordering (an already-ordered live feed passes through without a sort).
func Merge(historic, live []Point) []Point {
	if len(historic) == 0 {
		return live
	}
	if len(live) == 0 {
		return historic
	}
	taken := make(map[string]struct{}, len(live))
	for _, p := range live {
		taken[p.DateTime] = struct{}{}
	}
	out := make([]Point, 0, len(historic)+len(live))
	out = append(out, live...)
	for _, p := range historic {
		if _, dup := taken[p.DateTime]; !dup {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time().Before(out[j].Time())
	})
	return out
}
