package areagraph

import (
	"github.com/paulmach/orb"
)

// VoriHalfEdge is a directed skeleton edge from the upstream Voronoi stage.
// Each half-edge carries the room ID assigned by room detection (or
// Unassigned), its endpoints, the free-space face it bounds, and its
// opposite-direction twin.
type VoriHalfEdge struct {
	RoomID   int
	Source   orb.Point
	Target   orb.Point
	PathFace orb.Ring
	Twin     *VoriHalfEdge
	Ray      bool
}

// VoriVertex is a skeleton vertex with the half-edges connected to it.
// Vertices of degree 4 become passages, higher degrees become junctions.
type VoriVertex struct {
	Point orb.Point
	Edges []*VoriHalfEdge
}

// VoriGraph is the half-edge graph consumed from the Voronoi skeleton and
// room-detection stage.
type VoriGraph struct {
	Vertices  []*VoriVertex
	HalfEdges []*VoriHalfEdge
}

// BuildAreaGraph constructs the initial area graph from the half-edge
// skeleton. Every degree-4 skeleton vertex seeds a passage (degree >4 a
// junction). Each half-edge whose twin also carries a path face becomes a
// RoomVertex owning both faces as polygon fragments, centered at the edge
// midpoint; rays are skipped. A half-edge already visited through its twin
// attaches its existing RoomVertex to the current passage instead.
func BuildAreaGraph(vg *VoriGraph) *AreaGraph {
	g := &AreaGraph{}

	visited := make(map[*VoriHalfEdge]bool)
	edgeToVertex := make(map[*VoriHalfEdge]*RoomVertex)

	for _, vv := range vg.Vertices {
		degree := len(vv.Edges)
		if degree < 4 {
			// Dead ends and pass-through vertices do not form passages.
			continue
		}
		passage := NewPassageEdge(vv.Point, degree > 4)
		g.Passages = append(g.Passages, passage)

		for _, he := range vv.Edges {
			if he.Ray {
				continue
			}

			if visited[he] {
				rv, ok := edgeToVertex[he]
				if ok && !rv.HasPassage(passage) {
					passage.ConnectedAreas = append(passage.ConnectedAreas, rv)
					rv.Passages = append(rv.Passages, passage)
				}
				continue
			}
			visited[he] = true

			if he.PathFace == nil || he.Twin == nil || he.Twin.PathFace == nil {
				continue
			}
			visited[he.Twin] = true

			center := orb.Point{
				(he.Source[0] + he.Target[0]) / 2,
				(he.Source[1] + he.Target[1]) / 2,
			}
			rv := NewRoomVertex(he.RoomID, center, he.Source, he.Target)
			rv.Polygons = append(rv.Polygons, he.PathFace, he.Twin.PathFace)
			g.Vertices = append(g.Vertices, rv)

			edgeToVertex[he] = rv
			edgeToVertex[he.Twin] = rv

			passage.ConnectedAreas = append(passage.ConnectedAreas, rv)
			rv.Passages = append(rv.Passages, passage)
		}
	}

	ConnectRoomVertexes(g.Vertices)
	return g
}
