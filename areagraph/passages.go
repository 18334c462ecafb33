package areagraph

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

const (
	// pointProximityThreshold decides when a point of one room's boundary
	// and a point of the adjacent room's boundary count as the same shared
	// boundary point.
	pointProximityThreshold = 0.5

	// maxPointsToConsider caps how many boundary points near the passage
	// position are examined per room.
	maxPointsToConsider = 10
)

// PassagePoints is a resolved doorway: the two boundary points where the
// passage cuts into its adjacent rooms.
type PassagePoints struct {
	A, B         orb.Point
	RoomA, RoomB *RoomVertex
}

// nearestBoundaryPoints returns up to maxPointsToConsider points of the ring
// ordered by distance to pos.
func nearestBoundaryPoints(ring orb.Ring, pos orb.Point) []orb.Point {
	type candidate struct {
		p orb.Point
		d float64
	}
	candidates := make([]candidate, 0, len(ring))
	for _, p := range ring {
		candidates = append(candidates, candidate{p, planar.Distance(p, pos)})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].d < candidates[j].d
	})
	if len(candidates) > maxPointsToConsider {
		candidates = candidates[:maxPointsToConsider]
	}
	points := make([]orb.Point, len(candidates))
	for i, c := range candidates {
		points[i] = c.p
	}
	return points
}

// resolvePassagePoints finds the two boundary points a passage should cut
// through. Shared boundary candidates are pairs of near-coincident points
// from the two rooms; with two or more the pair of maximum mutual separation
// wins. The fallback chain when candidates are scarce: one shared point plus
// the farthest nearby point, then the two rooms' nearest points, then the
// passage's own trace endpoints, then the position with a small offset.
func resolvePassagePoints(p *PassageEdge) PassagePoints {
	roomA := p.ConnectedAreas[0]
	roomB := p.ConnectedAreas[1]

	aPoints := nearestBoundaryPoints(roomA.Polygon, p.Position)
	bPoints := nearestBoundaryPoints(roomB.Polygon, p.Position)

	var shared []orb.Point
	for _, pa := range aPoints {
		for _, pb := range bPoints {
			if planar.Distance(pa, pb) < pointProximityThreshold {
				shared = append(shared, pa)
			}
		}
	}

	out := PassagePoints{RoomA: roomA, RoomB: roomB}

	switch {
	case len(shared) >= 2:
		maxDist := 0.0
		maxI, maxJ := 0, 1
		for i := 0; i < len(shared); i++ {
			for j := i + 1; j < len(shared); j++ {
				if d := planar.Distance(shared[i], shared[j]); d > maxDist {
					maxDist = d
					maxI, maxJ = i, j
				}
			}
		}
		out.A = shared[maxI]
		out.B = shared[maxJ]

	case len(shared) == 1:
		out.A = shared[0]
		maxDist := 0.0
		for _, pb := range bPoints {
			if d := planar.Distance(out.A, pb); d > maxDist {
				maxDist = d
				out.B = pb
			}
		}
		if maxDist < 0.01 {
			for _, pa := range aPoints {
				if d := planar.Distance(out.A, pa); d > maxDist {
					maxDist = d
					out.B = pa
				}
			}
		}

	case len(aPoints) > 0 && len(bPoints) > 0:
		out.A = aPoints[0]
		out.B = bPoints[0]

	case len(p.Line.CW) > 0:
		out.A = p.Line.CW[0]
		out.B = p.Line.CW[len(p.Line.CW)-1]

	default:
		// Last resort: a degenerate near-zero-length segment at the passage
		// position. Tolerated rather than rejected.
		out.A = p.Position
		out.B = orb.Point{p.Position[0] + 0.01, p.Position[1] + 0.01}
	}

	return out
}

// CollectPassagePoints resolves cut points for every passage connecting
// exactly two rooms. Passages of other arities are skipped.
func (g *AreaGraph) CollectPassagePoints() []PassagePoints {
	var points []PassagePoints
	for _, p := range g.Passages {
		if len(p.ConnectedAreas) != 2 {
			continue
		}
		points = append(points, resolvePassagePoints(p))
	}
	return points
}

// insertBoundaryPoint inserts p into the ring at the position minimizing the
// summed distance to the two endpoints of an existing edge, unless an equal
// point is already present.
func insertBoundaryPoint(ring []orb.Point, p orb.Point) []orb.Point {
	for _, q := range ring {
		if PointsEqual(q, p) {
			return ring
		}
	}
	if len(ring) < 2 {
		return append(ring, p)
	}

	bestPos := -1
	minDist := 0.0
	for i := 1; i < len(ring); i++ {
		d := planar.Distance(ring[i-1], p) + planar.Distance(ring[i], p)
		if bestPos < 0 || d < minDist {
			minDist = d
			bestPos = i
		}
	}
	// Wrap-around edge from last back to first.
	if d := planar.Distance(ring[len(ring)-1], p) + planar.Distance(ring[0], p); d < minDist {
		bestPos = 0
	}

	ring = append(ring, orb.Point{})
	copy(ring[bestPos+1:], ring[bestPos:])
	ring[bestPos] = p
	return ring
}

// OptimizeRoomPolygonsForPassages rewrites each room polygon so its boundary
// runs exactly through the resolved cut points of its passages. Missing cut
// points are inserted on the nearest edge; then, for each passage's pair of
// endpoints, the shorter of the two arcs between them around the ring is
// removed, cutting the boundary straight across the doorway. Polygons are
// re-closed afterwards.
func (g *AreaGraph) OptimizeRoomPolygonsForPassages(passagePoints []PassagePoints) {
	if passagePoints == nil {
		passagePoints = g.CollectPassagePoints()
	}

	for _, room := range g.Vertices {
		var pairs [][2]orb.Point
		for _, pp := range passagePoints {
			if pp.RoomA == room || pp.RoomB == room {
				pairs = append(pairs, [2]orb.Point{pp.A, pp.B})
			}
		}
		if len(pairs) == 0 {
			continue
		}

		points := make([]orb.Point, len(room.Polygon))
		copy(points, room.Polygon)
		for _, pair := range pairs {
			points = insertBoundaryPoint(points, pair[0])
			points = insertBoundaryPoint(points, pair[1])
		}

		n := len(points)
		keep := make([]bool, n)
		for i := range keep {
			keep[i] = true
		}

		for _, pair := range pairs {
			idx1, idx2 := -1, -1
			for i, q := range points {
				if idx1 < 0 && PointsEqual(q, pair[0]) {
					idx1 = i
				}
				if PointsEqual(q, pair[1]) {
					idx2 = i
				}
			}
			if idx1 < 0 || idx2 < 0 || idx1 == idx2 {
				continue
			}
			if idx1 > idx2 {
				idx1, idx2 = idx2, idx1
			}

			// Two arcs join the endpoints around the ring; drop the shorter.
			innerLen := idx2 - idx1 - 1
			outerLen := idx1 + n - idx2 - 1
			if innerLen < outerLen {
				for i := idx1 + 1; i < idx2; i++ {
					keep[i] = false
				}
			} else {
				for i := idx2 + 1; i < idx1+n; i++ {
					keep[i%n] = false
				}
			}
		}

		optimized := make(orb.Ring, 0, n)
		for i, k := range keep {
			if k {
				optimized = append(optimized, points[i])
			}
		}
		room.Polygon = closeRing(optimized)
	}
}
