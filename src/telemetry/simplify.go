package telemetry

// Simplify reduces a polyline with iterative Douglas-Peucker, using the value
// as one axis and epoch milliseconds as the other. Points that survive are
// returned in original order with Significant set; the rest are dropped.
// Endpoints always survive, including for inputs of two points or fewer.
// All comparisons use squared distances; the tolerance is squared once.
func Simplify(points []Point, tolerance float64) []Point {
	if len(points) <= 2 {
		out := make([]Point, len(points))
		copy(out, points)
		for i := range out {
			out[i].Significant = true
		}
		return out
	}

	tolSq := tolerance * tolerance
	xs := make([]float64, len(points))
	for i, p := range points {
		xs[i] = float64(p.Time().UnixMilli())
	}

	keep := make([]bool, len(points))
	keep[0] = true
	keep[len(points)-1] = true

	type span struct{ first, last int }
	stack := []span{{0, len(points) - 1}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		maxD := -1.0
		index := s.first
		for i := s.first + 1; i < s.last; i++ {
			d := chordDistSq(xs[i], points[i].Value, xs[s.first], points[s.first].Value, xs[s.last], points[s.last].Value)
			if d > maxD {
				maxD = d
				index = i
			}
		}
		if maxD > tolSq {
			keep[index] = true
			stack = append(stack, span{s.first, index}, span{index, s.last})
		}
	}

	out := make([]Point, 0, len(points))
	for i, p := range points {
		if keep[i] {
			p.Significant = true
			out = append(out, p)
		}
	}
	return out
}

// chordDistSq is the squared perpendicular distance from (px,py) to the
// infinite line through (ax,ay)-(bx,by). Degenerate chords fall back to the
// squared point distance.
func chordDistSq(px, py, ax, ay, bx, by float64) float64 {
	dx := bx - ax
	dy := by - ay
	if dx == 0 && dy == 0 {
		ex := px - ax
		ey := py - ay
		return ex*ex + ey*ey
	}
	t := ((px-ax)*dx + (py-ay)*dy) / (dx*dx + dy*dy)
	ex := px - (ax + t*dx)
	ey := py - (ay + t*dy)
	return ex*ex + ey*ey
}
