// Package areagraph collapses a Voronoi-derived line graph of an indoor
// occupancy map into room-level polygonal regions connected by passages,
// and exports the result as an osmAG map.
package areagraph

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Room ID sentinels used by the merge state machine. Vertices start with an
// ID assigned by room detection (>= 0) or Unassigned; MergeRoomCell tombstones
// absorbed vertices with Tombstone and points their Parent at the aggregate.
const (
	Unassigned = -1
	Tombstone  = -2
)

// RoomVertex is a room/region candidate. Before the merge phases each vertex
// represents a single half-edge of the skeleton (St/Ed are its endpoints);
// after merging it represents a whole room with a closed boundary Polygon.
type RoomVertex struct {
	RoomID int
	Center orb.Point

	// St and Ed are the endpoints of the half-edge this vertex was created
	// from. Only meaningful before the merge phases.
	St orb.Point
	Ed orb.Point

	// Polygons holds the raw sub-polygon fragments contributed by the
	// vertex's constituent half-edges. MergePolygons unions them into
	// Polygon, the single closed boundary ring.
	Polygons []orb.Ring
	Polygon  orb.Ring

	Neighbours map[*RoomVertex]struct{}

	// Parent redirects queries from a tombstoned vertex to its replacement.
	// Non-nil iff RoomID == Tombstone.
	Parent *RoomVertex

	Passages []*PassageEdge
}

// NewRoomVertex creates a vertex for the given room ID, center and half-edge
// endpoints.
func NewRoomVertex(roomID int, center, st, ed orb.Point) *RoomVertex {
	return &RoomVertex{
		RoomID:     roomID,
		Center:     center,
		St:         st,
		Ed:         ed,
		Neighbours: make(map[*RoomVertex]struct{}),
	}
}

// HasPassage reports whether p is already recorded on the vertex.
func (v *RoomVertex) HasPassage(p *PassageEdge) bool {
	for _, q := range v.Passages {
		if q == p {
			return true
		}
	}
	return false
}

// AddPassage records p on the vertex unless it is already present.
func (v *RoomVertex) AddPassage(p *PassageEdge) {
	if !v.HasPassage(p) {
		v.Passages = append(v.Passages, p)
	}
}

// removePassageRef drops p from the vertex's passage list if present.
func (v *RoomVertex) removePassageRef(p *PassageEdge) {
	for i, q := range v.Passages {
		if q == p {
			v.Passages = append(v.Passages[:i], v.Passages[i+1:]...)
			return
		}
	}
}

// PassageLine is the boundary trace of a passage: the doorway line walked
// clockwise and counterclockwise, with a derived length.
type PassageLine struct {
	CW     orb.LineString
	CCW    orb.LineString
	Length float64
}

// Len computes, caches and returns the polyline length of the clockwise
// trace.
func (l *PassageLine) Len() float64 {
	var total float64
	for i := 1; i < len(l.CW); i++ {
		total += planar.Distance(l.CW[i-1], l.CW[i])
	}
	l.Length = total
	return total
}

// PassageEdge is a doorway or junction connecting rooms. A simple passage
// (degree-4 skeleton vertex) connects exactly two rooms; a junction connects
// more. Only 2-room passages participate in polygon cutting and XML export.
type PassageEdge struct {
	Position orb.Point
	Junction bool

	// ConnectedAreas are the rooms this passage joins. Symmetric with each
	// referenced vertex's Passages list.
	ConnectedAreas []*RoomVertex

	Line PassageLine
}

// NewPassageEdge creates a passage at the given skeleton vertex position.
func NewPassageEdge(pos orb.Point, junction bool) *PassageEdge {
	return &PassageEdge{Position: pos, Junction: junction}
}

// Connects reports whether v is one of the passage's connected areas.
func (p *PassageEdge) Connects(v *RoomVertex) bool {
	for _, a := range p.ConnectedAreas {
		if a == v {
			return true
		}
	}
	return false
}

// Other returns the area on the other side of a 2-room passage, or nil if
// the passage does not connect v or is not a simple 2-room passage.
func (p *PassageEdge) Other(v *RoomVertex) *RoomVertex {
	if len(p.ConnectedAreas) != 2 {
		return nil
	}
	switch v {
	case p.ConnectedAreas[0]:
		return p.ConnectedAreas[1]
	case p.ConnectedAreas[1]:
		return p.ConnectedAreas[0]
	}
	return nil
}

// AreaGraph owns every RoomVertex and PassageEdge of the map and exposes the
// merge and refinement phases as methods. All phases mutate the graph in
// place; the pipeline is single-threaded.
type AreaGraph struct {
	Vertices []*RoomVertex
	Passages []*PassageEdge
}

// removeVertex deletes v from the vertex slice. The caller must have
// transferred or redirected anything still referencing v.
func (g *AreaGraph) removeVertex(v *RoomVertex) {
	for i, w := range g.Vertices {
		if w == v {
			g.Vertices = append(g.Vertices[:i], g.Vertices[i+1:]...)
			return
		}
	}
}

// removePassage deletes p from the passage slice.
func (g *AreaGraph) removePassage(p *PassageEdge) {
	for i, q := range g.Passages {
		if q == p {
			g.Passages = append(g.Passages[:i], g.Passages[i+1:]...)
			return
		}
	}
}
