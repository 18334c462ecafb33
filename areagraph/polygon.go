package areagraph

import (
	"hash/fnv"
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// curvatureWindow is the triple count examined by the smooth-curve test
// during spike removal.
const curvatureWindow = 5

// markPreserved flags every ring point that coincides (within Epsilon) with
// a preserve point.
func markPreserved(points []orb.Point, preserve []orb.Point, mark []bool) {
	if len(preserve) == 0 {
		return
	}
	for i, p := range points {
		for _, pp := range preserve {
			if PointsEqual(p, pp) {
				mark[i] = true
				break
			}
		}
	}
}

// douglasPeucker recursively marks the point of maximum perpendicular
// distance between two anchors and recurses on both sides while the distance
// exceeds epsilon.
func douglasPeucker(points []orb.Point, start, end int, epsilon float64, keep []bool) {
	if end-start <= 1 {
		return
	}

	maxDist := 0.0
	furthest := start
	for i := start + 1; i < end; i++ {
		d := PointToSegmentDistance(points[i], points[start], points[end])
		if d > maxDist {
			maxDist = d
			furthest = i
		}
	}

	if maxDist > epsilon {
		keep[furthest] = true
		douglasPeucker(points, start, furthest, epsilon, keep)
		douglasPeucker(points, furthest, end, epsilon, keep)
	}
}

// SimplifyPolygon reduces a ring with Douglas-Peucker. Rings of 3 or fewer
// points are returned unchanged. The effective epsilon is halved for
// circular shapes (which collapse easily) and increased 1.5x otherwise.
// Points within Epsilon of any preserve point are force-kept so passage cut
// points survive simplification. The result is re-closed.
func SimplifyPolygon(ring orb.Ring, epsilon float64, preserve []orb.Point) orb.Ring {
	if len(ring) <= 3 {
		return ring
	}

	points := []orb.Point(ring)
	n := len(points)

	effective := epsilon * 1.5
	if IsApproximatelyCircular(points) {
		effective = epsilon * 0.5
	}

	keep := make([]bool, n)
	keep[0] = true
	keep[n-1] = true
	markPreserved(points, preserve, keep)

	douglasPeucker(points, 0, n-1, effective, keep)

	simplified := make(orb.Ring, 0, n)
	for i, k := range keep {
		if k {
			simplified = append(simplified, points[i])
		}
	}
	return closeRing(simplified)
}

// RemoveSpikesFromPolygon drops spurious near-degenerate vertices ("burrs")
// introduced by raster-to-vector noise. A point is a spike when its corner
// angle strays too far from a right angle while sitting close to the chord
// between its neighbors, when the angle is extremely sharp or flat, or when
// a long thin protrusion leaves the point nearly on the line between its
// neighbors. Circular shapes use a tightened angle threshold and a doubled
// distance threshold, and points on a smooth curve of a circular shape are
// exempt. Preserve points are never removed. Rings of 3 or fewer points are
// returned unchanged; the result is re-closed.
func RemoveSpikesFromPolygon(ring orb.Ring, angleThreshold, distanceThreshold float64, preserve []orb.Point) orb.Ring {
	if len(ring) <= 3 {
		return ring
	}

	points := []orb.Point(ring)
	n := len(points)

	circular := IsApproximatelyCircular(points)
	effAngle := angleThreshold
	effDistance := distanceThreshold
	if circular {
		effAngle = angleThreshold * 0.5
		effDistance = distanceThreshold * 2.0
	}

	preserved := make([]bool, n)
	markPreserved(points, preserve, preserved)

	keep := make([]bool, n)
	for i := range keep {
		keep[i] = true
	}

	for curr := 0; curr < n; curr++ {
		if preserved[curr] {
			continue
		}
		prev := (curr + n - 1) % n
		next := (curr + 1) % n

		angle, ok := angleBetween(points[prev], points[curr], points[next])
		if !ok {
			continue
		}

		dist := PointToSegmentDistance(points[curr], points[prev], points[next])

		if circular && IsPartOfSmoothCurve(points, curr, curvatureWindow) {
			continue
		}

		spike := false
		if math.Abs(angle-90) > effAngle && dist < effDistance {
			spike = true
		}
		if circular {
			if angle < 15 || angle > 165 {
				spike = true
			}
		} else if angle < 30 || angle > 150 {
			spike = true
		}

		lenA := planar.Distance(points[prev], points[curr])
		lenB := planar.Distance(points[next], points[curr])
		minLen := math.Min(lenA, lenB)
		if minLen > 0.1 {
			ratio := dist / minLen
			if circular {
				if ratio < 0.05 {
					spike = true
				}
			} else if ratio < 0.1 {
				spike = true
			}
		}

		if spike {
			keep[curr] = false
		}
	}

	smoothed := make(orb.Ring, 0, n)
	for i, k := range keep {
		if k {
			smoothed = append(smoothed, points[i])
		}
	}
	return closeRing(smoothed)
}

// perimeter sums the edge lengths of the ring, closing it implicitly when
// the first and last points differ.
func perimeter(ring orb.Ring) float64 {
	var total float64
	for i := 1; i < len(ring); i++ {
		total += planar.Distance(ring[i-1], ring[i])
	}
	if len(ring) > 1 && !PointsEqual(ring[0], ring[len(ring)-1]) {
		total += planar.Distance(ring[len(ring)-1], ring[0])
	}
	return total
}

// PolygonHash fingerprints a ring by shape rather than identity: area,
// perimeter, centroid and vertex count are folded into one hash. Two rooms
// produced independently by the merge phases hash equal when their polygons
// are shape-identical; PolygonsEqual confirms candidates beyond collisions.
func PolygonHash(ring orb.Ring) uint64 {
	c := centroid(ring)

	h := fnv.New64a()
	writeFloat := func(f float64) {
		var buf [8]byte
		bits := math.Float64bits(f)
		for i := range buf {
			buf[i] = byte(bits >> (8 * i))
		}
		h.Write(buf[:])
	}

	writeFloat(PolygonArea(ring))
	writeFloat(perimeter(ring))
	writeFloat(c[0])
	writeFloat(c[1])
	writeFloat(float64(len(ring)))
	return h.Sum64()
}

// PolygonsEqual verifies that two rings describe the same shape: equal
// vertex counts, areas within 0.01, and sorted vertex-to-centroid distances
// pairwise within 0.01.
func PolygonsEqual(a, b orb.Ring) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}

	if math.Abs(PolygonArea(a)-PolygonArea(b)) > 0.01 {
		return false
	}

	distances := func(ring orb.Ring) []float64 {
		c := centroid(ring)
		ds := make([]float64, len(ring))
		for i, p := range ring {
			ds[i] = planar.Distance(p, c)
		}
		sort.Float64s(ds)
		return ds
	}

	da := distances(a)
	db := distances(b)
	for i := range da {
		if math.Abs(da[i]-db[i]) > 0.01 {
			return false
		}
	}
	return true
}

// MergePolygons merges two rings into the convex hull of their combined,
// deduplicated point sets. The hull is a conservative stand-in for a true
// polygon union: it fills concave notches between adjacent rooms, which is
// acceptable for small-room absorption where coverage matters more than
// exact boundary preservation.
func MergePolygons(a, b orb.Ring) orb.Ring {
	all := make([]orb.Point, 0, len(a)+len(b))
	all = append(all, a...)
	all = append(all, b...)

	sort.Slice(all, func(i, j int) bool {
		if all[i][0] != all[j][0] {
			return all[i][0] < all[j][0]
		}
		return all[i][1] < all[j][1]
	})

	deduped := all[:0]
	for _, p := range all {
		if len(deduped) == 0 || !PointsEqual(deduped[len(deduped)-1], p) {
			deduped = append(deduped, p)
		}
	}

	hull := convexHull(deduped)
	return closeRing(orb.Ring(hull))
}

// convexHull computes the convex hull of a set of 2D points with Andrew's
// monotone chain, returning the hull in counter-clockwise order without the
// closing duplicate. Inputs with fewer than 3 points are returned as-is.
func convexHull(points []orb.Point) []orb.Point {
	if len(points) < 3 {
		result := make([]orb.Point, len(points))
		copy(result, points)
		return result
	}

	sorted := make([]orb.Point, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i][0] != sorted[j][0] {
			return sorted[i][0] < sorted[j][0]
		}
		return sorted[i][1] < sorted[j][1]
	})

	cross := func(o, a, b orb.Point) float64 {
		return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
	}

	n := len(sorted)
	hull := make([]orb.Point, 0, 2*n)

	for _, p := range sorted {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	lower := len(hull) + 1
	for i := n - 2; i >= 0; i-- {
		p := sorted[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	return hull[:len(hull)-1]
}
