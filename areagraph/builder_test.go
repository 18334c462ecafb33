package areagraph

import (
	"testing"

	"github.com/paulmach/orb"
)

// twinPair creates a half-edge and its reversed twin, both bounded by a
// path face on either side of the edge.
func twinPair(roomID int, source, target orb.Point, face, twinFace orb.Ring) (*VoriHalfEdge, *VoriHalfEdge) {
	he := &VoriHalfEdge{RoomID: roomID, Source: source, Target: target, PathFace: face}
	twin := &VoriHalfEdge{RoomID: roomID, Source: target, Target: source, PathFace: twinFace}
	he.Twin = twin
	twin.Twin = he
	return he, twin
}

func TestBuildAreaGraph(t *testing.T) {
	center := orb.Point{2, 2}

	left, leftTwin := twinPair(0, center, orb.Point{0, 2},
		orb.Ring{{0, 0}, {2, 0}, {2, 2}, {0, 2}},
		orb.Ring{{0, 2}, {2, 2}, {2, 4}, {0, 4}})
	right, rightTwin := twinPair(1, center, orb.Point{4, 2},
		orb.Ring{{2, 0}, {4, 0}, {4, 2}, {2, 2}},
		orb.Ring{{2, 2}, {4, 2}, {4, 4}, {2, 4}})

	vg := &VoriGraph{
		Vertices: []*VoriVertex{
			{Point: center, Edges: []*VoriHalfEdge{left, leftTwin, right, rightTwin}},
		},
		HalfEdges: []*VoriHalfEdge{left, leftTwin, right, rightTwin},
	}

	g := BuildAreaGraph(vg)

	if len(g.Vertices) != 2 {
		t.Fatalf("vertex count = %d, want 2", len(g.Vertices))
	}
	if len(g.Passages) != 1 {
		t.Fatalf("passage count = %d, want 1", len(g.Passages))
	}

	p := g.Passages[0]
	if p.Junction {
		t.Error("a degree-4 vertex is a passage, not a junction")
	}
	if !PointsEqual(p.Position, center) {
		t.Errorf("passage position = %v, want %v", p.Position, center)
	}
	if len(p.ConnectedAreas) != 2 {
		t.Fatalf("connected area count = %d, want 2", len(p.ConnectedAreas))
	}

	for _, v := range g.Vertices {
		if len(v.Polygons) != 2 {
			t.Errorf("room %d should own both twin faces, got %d", v.RoomID, len(v.Polygons))
		}
		if !v.HasPassage(p) {
			t.Errorf("room %d should list the passage", v.RoomID)
		}
	}

	// Both rooms hang off the same skeleton vertex, so they are neighbours.
	a, b := g.Vertices[0], g.Vertices[1]
	if _, ok := a.Neighbours[b]; !ok {
		t.Error("rooms sharing an endpoint should be neighbours")
	}

	// Room centers sit at the half-edge midpoints.
	if !PointsEqual(a.Center, orb.Point{1, 2}) {
		t.Errorf("room 0 center = %v, want (1, 2)", a.Center)
	}
}

func TestBuildAreaGraphSkips(t *testing.T) {
	t.Run("low-degree vertices make no passage", func(t *testing.T) {
		he, twin := twinPair(0, orb.Point{0, 0}, orb.Point{2, 0},
			orb.Ring{{0, 0}, {2, 0}, {2, 2}}, orb.Ring{{0, 0}, {2, 0}, {0, 2}})
		vg := &VoriGraph{
			Vertices:  []*VoriVertex{{Point: orb.Point{0, 0}, Edges: []*VoriHalfEdge{he, twin}}},
			HalfEdges: []*VoriHalfEdge{he, twin},
		}
		g := BuildAreaGraph(vg)
		if len(g.Passages) != 0 {
			t.Errorf("passage count = %d, want 0", len(g.Passages))
		}
		if len(g.Vertices) != 0 {
			t.Errorf("vertex count = %d, want 0", len(g.Vertices))
		}
	})

	t.Run("degree above four is a junction and rays are ignored", func(t *testing.T) {
		center := orb.Point{2, 2}
		left, leftTwin := twinPair(0, center, orb.Point{0, 2},
			orb.Ring{{0, 0}, {2, 0}, {2, 2}}, orb.Ring{{0, 2}, {2, 2}, {0, 4}})
		right, rightTwin := twinPair(1, center, orb.Point{4, 2},
			orb.Ring{{2, 0}, {4, 0}, {2, 2}}, orb.Ring{{2, 2}, {4, 2}, {2, 4}})
		ray := &VoriHalfEdge{RoomID: Unassigned, Source: center, Target: orb.Point{2, 9}, Ray: true}

		vg := &VoriGraph{
			Vertices: []*VoriVertex{
				{Point: center, Edges: []*VoriHalfEdge{left, leftTwin, right, rightTwin, ray}},
			},
			HalfEdges: []*VoriHalfEdge{left, leftTwin, right, rightTwin, ray},
		}
		g := BuildAreaGraph(vg)

		if len(g.Passages) != 1 || !g.Passages[0].Junction {
			t.Fatal("degree-5 vertex should create a junction passage")
		}
		if len(g.Vertices) != 2 {
			t.Errorf("vertex count = %d, want 2 (ray contributes nothing)", len(g.Vertices))
		}
	})

	t.Run("edge without twin face makes no room", func(t *testing.T) {
		center := orb.Point{2, 2}
		bare := &VoriHalfEdge{RoomID: 0, Source: center, Target: orb.Point{0, 2},
			PathFace: orb.Ring{{0, 0}, {2, 0}, {2, 2}}}
		bareTwin := &VoriHalfEdge{RoomID: 0, Source: orb.Point{0, 2}, Target: center}
		bare.Twin = bareTwin
		bareTwin.Twin = bare
		right, rightTwin := twinPair(1, center, orb.Point{4, 2},
			orb.Ring{{2, 0}, {4, 0}, {2, 2}}, orb.Ring{{2, 2}, {4, 2}, {2, 4}})

		vg := &VoriGraph{
			Vertices: []*VoriVertex{
				{Point: center, Edges: []*VoriHalfEdge{bare, bareTwin, right, rightTwin}},
			},
			HalfEdges: []*VoriHalfEdge{bare, bareTwin, right, rightTwin},
		}
		g := BuildAreaGraph(vg)

		if len(g.Vertices) != 1 {
			t.Errorf("vertex count = %d, want 1", len(g.Vertices))
		}
	})
}
