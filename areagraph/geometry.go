package areagraph

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Epsilon is the system-wide tolerance for treating two points as the same
// point. Every topology match (edge cancellation, node interning, preserve
// points) goes through it, so changing it changes merge and dedup behavior.
const Epsilon = 1e-6

// PointsEqual reports whether two points are within Epsilon of each other.
func PointsEqual(a, b orb.Point) bool {
	return planar.Distance(a, b) < Epsilon
}

// PolygonArea returns the absolute shoelace area of a ring. Rings with fewer
// than 3 points have zero area. The ring may be open or closed; orientation
// does not matter.
func PolygonArea(ring orb.Ring) float64 {
	if len(ring) < 3 {
		return 0
	}
	var area float64
	j := len(ring) - 1
	for i := range ring {
		area += ring[j][0]*ring[i][1] - ring[j][1]*ring[i][0]
		j = i
	}
	return math.Abs(area / 2)
}

// PointToSegmentDistance returns the distance from p to the segment ab.
// When the projection of p falls outside the segment the distance to the
// nearer endpoint is returned; a degenerate segment (a ≈ b) degrades to the
// point-to-point distance.
func PointToSegmentDistance(p, a, b orb.Point) float64 {
	if PointsEqual(a, b) {
		return planar.Distance(p, a)
	}

	dx := b[0] - a[0]
	dy := b[1] - a[1]
	t := ((p[0]-a[0])*dx + (p[1]-a[1])*dy) / (dx*dx + dy*dy)

	if t < 0 {
		return planar.Distance(p, a)
	}
	if t > 1 {
		return planar.Distance(p, b)
	}
	return planar.Distance(p, orb.Point{a[0] + t*dx, a[1] + t*dy})
}

// angleBetween returns the angle in degrees at point curr formed by the
// segments to prev and next, in [0, 180]. Returns ok=false when either
// segment is degenerate.
func angleBetween(prev, curr, next orb.Point) (float64, bool) {
	ax := prev[0] - curr[0]
	ay := prev[1] - curr[1]
	bx := next[0] - curr[0]
	by := next[1] - curr[1]

	lenA := math.Hypot(ax, ay)
	lenB := math.Hypot(bx, by)
	if lenA < Epsilon || lenB < Epsilon {
		return 0, false
	}

	dot := (ax*bx + ay*by) / (lenA * lenB)
	dot = math.Max(-1, math.Min(1, dot))
	return math.Acos(dot) * 180 / math.Pi, true
}

// LocalCurvature measures the average angular deviation from a straight line
// across window consecutive point triples ending at index, treating points
// as a circular sequence. Small values mean a straight run, large values a
// sharp corner; mid-range values indicate a smooth curve.
func LocalCurvature(points []orb.Point, index, window int) float64 {
	n := len(points)
	if n == 0 || window <= 0 {
		return 0
	}

	var total float64
	for i := 1; i < window; i++ {
		prev := ((index-i)%n + n) % n
		curr := ((index-i+1)%n + n) % n
		next := ((index-i+2)%n + n) % n

		angle, ok := angleBetween(points[prev], points[curr], points[next])
		if !ok {
			continue
		}
		total += math.Abs(angle - 180)
	}
	return total / float64(window)
}

// IsPartOfSmoothCurve reports whether the point at index sits on a smooth
// curve: local curvature is above the straight-line floor but below the
// sharp-corner ceiling.
func IsPartOfSmoothCurve(points []orb.Point, index, window int) bool {
	c := LocalCurvature(points, index, window)
	return c > 5.0 && c < 30.0
}

// centroid returns the arithmetic mean of the points. Zero point for an
// empty slice.
func centroid(points []orb.Point) orb.Point {
	if len(points) == 0 {
		return orb.Point{}
	}
	var cx, cy float64
	for _, p := range points {
		cx += p[0]
		cy += p[1]
	}
	n := float64(len(points))
	return orb.Point{cx / n, cy / n}
}

// IsApproximatelyCircular reports whether the points form a roughly circular
// shape: at least 8 points whose distances to the centroid have a relative
// variance below 5%. Circular shapes (pillars, round furniture) get relaxed
// simplification and spike thresholds so they are not collapsed into
// degenerate polygons.
func IsApproximatelyCircular(points []orb.Point) bool {
	if len(points) < 8 {
		return false
	}

	c := centroid(points)

	var avg float64
	for _, p := range points {
		avg += planar.Distance(p, c)
	}
	avg /= float64(len(points))
	if avg < Epsilon {
		return false
	}

	var variance float64
	for _, p := range points {
		d := planar.Distance(p, c) - avg
		variance += d * d
	}
	variance /= float64(len(points))

	return variance/(avg*avg) < 0.05
}

// closeRing appends the first point to the end of the ring unless the ring
// is empty or already closed under PointsEqual.
func closeRing(ring orb.Ring) orb.Ring {
	if len(ring) == 0 {
		return ring
	}
	if !PointsEqual(ring[0], ring[len(ring)-1]) {
		ring = append(ring, ring[0])
	}
	return ring
}
