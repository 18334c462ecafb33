package areagraph

import (
	"testing"

	"github.com/paulmach/orb"
)

// twoRoomGraph builds two squares meeting along x=4 with a passage in the
// middle of the shared wall.
func twoRoomGraph() (*AreaGraph, *RoomVertex, *RoomVertex, *PassageEdge) {
	left := NewRoomVertex(0, orb.Point{2, 2}, orb.Point{}, orb.Point{})
	left.Polygon = orb.Ring{{0, 0}, {4, 0}, {4, 4}, {0, 4}}

	right := NewRoomVertex(1, orb.Point{6, 2}, orb.Point{}, orb.Point{})
	right.Polygon = orb.Ring{{4, 0}, {8, 0}, {8, 4}, {4, 4}}

	p := NewPassageEdge(orb.Point{4, 2}, false)
	connectPassage(p, left, right)

	g := &AreaGraph{
		Vertices: []*RoomVertex{left, right},
		Passages: []*PassageEdge{p},
	}
	return g, left, right, p
}

func TestCollectPassagePoints(t *testing.T) {
	t.Run("shared wall corners win", func(t *testing.T) {
		g, left, right, _ := twoRoomGraph()

		points := g.CollectPassagePoints()
		if len(points) != 1 {
			t.Fatalf("passage point count = %d, want 1", len(points))
		}

		pp := points[0]
		if pp.RoomA != left || pp.RoomB != right {
			t.Error("passage points should carry the connected rooms")
		}

		got := map[orb.Point]bool{pp.A: true, pp.B: true}
		if !got[orb.Point{4, 0}] || !got[orb.Point{4, 4}] {
			t.Errorf("cut points = %v/%v, want the shared wall corners", pp.A, pp.B)
		}
	})

	t.Run("junctions and detached passages are skipped", func(t *testing.T) {
		g, left, _, _ := twoRoomGraph()

		dangling := NewPassageEdge(orb.Point{0, 2}, false)
		connectPassage(dangling, left)
		g.Passages = append(g.Passages, dangling)

		points := g.CollectPassagePoints()
		if len(points) != 1 {
			t.Errorf("passage point count = %d, want 1 (one-sided passage skipped)", len(points))
		}
	})

	t.Run("disjoint boundaries fall back to nearest points", func(t *testing.T) {
		a := NewRoomVertex(0, orb.Point{}, orb.Point{}, orb.Point{})
		a.Polygon = orb.Ring{{0, 0}, {2, 0}, {2, 2}, {0, 2}}
		b := NewRoomVertex(1, orb.Point{}, orb.Point{}, orb.Point{})
		b.Polygon = orb.Ring{{10, 0}, {12, 0}, {12, 2}, {10, 2}}

		p := NewPassageEdge(orb.Point{6, 1}, false)
		connectPassage(p, a, b)
		g := &AreaGraph{Vertices: []*RoomVertex{a, b}, Passages: []*PassageEdge{p}}

		points := g.CollectPassagePoints()
		if len(points) != 1 {
			t.Fatalf("passage point count = %d, want 1", len(points))
		}
		pp := points[0]
		if !containsPoint(a.Polygon, pp.A) {
			t.Errorf("point A %v should lie on room A's boundary", pp.A)
		}
		if !containsPoint(b.Polygon, pp.B) {
			t.Errorf("point B %v should lie on room B's boundary", pp.B)
		}
	})
}

func TestInsertBoundaryPoint(t *testing.T) {
	ring := []orb.Point{{0, 0}, {4, 0}, {4, 4}, {0, 4}}

	t.Run("inserted on the nearest edge", func(t *testing.T) {
		got := insertBoundaryPoint(append([]orb.Point(nil), ring...), orb.Point{2, 0})
		if len(got) != 5 {
			t.Fatalf("len = %d, want 5", len(got))
		}
		if !PointsEqual(got[1], orb.Point{2, 0}) {
			t.Errorf("point inserted at wrong position: %v", got)
		}
	})

	t.Run("wrap-around edge considered", func(t *testing.T) {
		got := insertBoundaryPoint(append([]orb.Point(nil), ring...), orb.Point{0, 2})
		if len(got) != 5 {
			t.Fatalf("len = %d, want 5", len(got))
		}
		// The closing edge runs from (0,4) back to (0,0); the new point
		// belongs between them, which is slice position 0 or 4.
		if !PointsEqual(got[0], orb.Point{0, 2}) && !PointsEqual(got[4], orb.Point{0, 2}) {
			t.Errorf("point not placed on the closing edge: %v", got)
		}
	})

	t.Run("existing point not duplicated", func(t *testing.T) {
		got := insertBoundaryPoint(append([]orb.Point(nil), ring...), orb.Point{4, 0})
		if len(got) != 4 {
			t.Errorf("len = %d, want 4", len(got))
		}
	})
}

func TestOptimizeRoomPolygonsForPassages(t *testing.T) {
	// Room with a protrusion between the two cut points; the protrusion is
	// the shorter arc and must be cut off.
	room := NewRoomVertex(0, orb.Point{}, orb.Point{}, orb.Point{})
	room.Polygon = orb.Ring{{0, 0}, {4, 0}, {4, 4}, {3, 4}, {3, 5}, {1, 5}, {1, 4}, {0, 4}}

	other := NewRoomVertex(1, orb.Point{}, orb.Point{}, orb.Point{})
	other.Polygon = orb.Ring{{1, 4}, {3, 4}, {3, 8}, {2, 9}, {1, 8}}

	g := &AreaGraph{Vertices: []*RoomVertex{room, other}}

	pairs := []PassagePoints{{
		A:     orb.Point{3, 4},
		B:     orb.Point{1, 4},
		RoomA: room,
		RoomB: other,
	}}
	g.OptimizeRoomPolygonsForPassages(pairs)

	if containsPoint(room.Polygon, orb.Point{3, 5}) || containsPoint(room.Polygon, orb.Point{1, 5}) {
		t.Errorf("protrusion points should be cut away, got %v", room.Polygon)
	}
	for _, keep := range []orb.Point{{3, 4}, {1, 4}, {0, 0}, {4, 0}} {
		if !containsPoint(room.Polygon, keep) {
			t.Errorf("point %v should survive the cut", keep)
		}
	}
	if !PointsEqual(room.Polygon[0], room.Polygon[len(room.Polygon)-1]) {
		t.Error("optimized polygon should be closed")
	}

	// The cut points are adjacent on the other room already; nothing to cut.
	if len(other.Polygon) != 6 {
		t.Errorf("other room polygon has %d points, want 6 (closed, unchanged)", len(other.Polygon))
	}
}

func TestPassageLineLen(t *testing.T) {
	l := &PassageLine{CW: orb.LineString{{0, 0}, {3, 0}, {3, 4}}}
	if got := l.Len(); got != 7 {
		t.Errorf("Len = %f, want 7", got)
	}
	if l.Length != 7 {
		t.Errorf("Length cache = %f, want 7", l.Length)
	}
}
