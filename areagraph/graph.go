package areagraph

import (
	"github.com/paulmach/orb"
)

// MergeAreas collapses every group of vertices sharing a room ID into one
// aggregate vertex. Polygon fragments move to the aggregate. Passages whose
// connected areas all fall inside one group are interior and are deleted;
// the rest have their group-member references replaced by the aggregate,
// collapsing duplicates to a single entry. Group members are removed from
// the graph once the aggregate has taken over.
func (g *AreaGraph) MergeAreas() {
	aggregates := make(map[int]*RoomVertex)
	members := make(map[int][]*RoomVertex)
	var order []int

	for _, v := range g.Vertices {
		id := v.RoomID
		if id == Unassigned || id == Tombstone {
			continue
		}

		agg, ok := aggregates[id]
		if !ok {
			agg = NewRoomVertex(id, v.Center, v.St, v.Ed)
			aggregates[id] = agg
			order = append(order, id)
		}
		members[id] = append(members[id], v)

		agg.Polygons = append(agg.Polygons, v.Polygons...)

		for _, p := range v.Passages {
			interior := true
			for _, a := range p.ConnectedAreas {
				if a.RoomID != id {
					interior = false
					break
				}
			}
			if interior {
				// A passage entirely inside the merged room would become a
				// self-loop; drop it from the graph.
				g.removePassage(p)
				continue
			}

			replaced := false
			kept := p.ConnectedAreas[:0]
			for _, a := range p.ConnectedAreas {
				if a == agg || a.RoomID == id {
					if !replaced {
						kept = append(kept, agg)
						replaced = true
					}
					continue
				}
				kept = append(kept, a)
			}
			p.ConnectedAreas = kept
			agg.AddPassage(p)
		}
	}

	for _, id := range order {
		for _, m := range members[id] {
			g.removeVertex(m)
		}
		g.Vertices = append(g.Vertices, aggregates[id])
	}
}

// MergeRoomCell is the broader grouping pass: any vertices still sharing a
// room ID are folded into a fresh aggregate. Members are tombstoned (room ID
// set to Tombstone, Parent set) rather than deleted; Prune removes them.
// Neighbour sets and polygon fragments union into the aggregate, and member
// passages are transferred so the passage/area symmetry holds through the
// pass.
func (g *AreaGraph) MergeRoomCell() {
	var aggregates []*RoomVertex

	n := len(g.Vertices)
	for i := 0; i < n; i++ {
		v := g.Vertices[i]
		id := v.RoomID
		if id == Unassigned || id == Tombstone {
			continue
		}

		group := []*RoomVertex{v}
		v.RoomID = Tombstone
		for j := i + 1; j < n; j++ {
			w := g.Vertices[j]
			if w.RoomID == id {
				group = append(group, w)
				w.RoomID = Tombstone
			}
		}

		agg := NewRoomVertex(id, group[0].Center, group[0].St, group[0].Ed)
		for _, m := range group {
			for nb := range m.Neighbours {
				agg.Neighbours[nb] = struct{}{}
			}
			agg.Polygons = append(agg.Polygons, m.Polygons...)
			m.Parent = agg
			g.transferPassagesTo(m, agg)
		}
		aggregates = append(aggregates, agg)
	}

	g.Vertices = append(g.Vertices, aggregates...)
}

// transferPassagesTo moves every passage of source onto target: the passage
// joins target's list if absent, and inside the passage's connected areas
// source is replaced by target, or dropped entirely when target is already
// present. Source's passage list is cleared afterwards so the vertex can be
// deleted safely.
func (g *AreaGraph) transferPassagesTo(source, target *RoomVertex) {
	for _, p := range source.Passages {
		target.AddPassage(p)

		kept := p.ConnectedAreas[:0]
		hasTarget := p.Connects(target)
		for _, a := range p.ConnectedAreas {
			if a == source {
				if hasTarget {
					continue
				}
				kept = append(kept, target)
				hasTarget = true
				continue
			}
			kept = append(kept, a)
		}
		p.ConnectedAreas = kept
	}
	source.Passages = nil
}

// liveParent follows the parent chain of a tombstoned vertex until it
// reaches a live one. Chains can form when an aggregate is itself absorbed
// by a later pass, so redirection is transitive rather than single-hop.
func liveParent(v *RoomVertex) *RoomVertex {
	for v != nil && v.RoomID == Tombstone {
		v = v.Parent
	}
	return v
}

// Prune redirects every neighbour reference to a tombstoned vertex at that
// vertex's live replacement, then sweeps all tombstoned vertices out of the
// graph. Passage references were already redirected during the merge passes.
func (g *AreaGraph) Prune() {
	for _, v := range g.Vertices {
		if v.RoomID == Tombstone {
			continue
		}

		var stale []*RoomVertex
		var fresh []*RoomVertex
		for nb := range v.Neighbours {
			if nb.RoomID == Tombstone {
				stale = append(stale, nb)
				if live := liveParent(nb); live != nil && live != v {
					fresh = append(fresh, live)
				}
			}
		}
		for _, nb := range stale {
			delete(v.Neighbours, nb)
		}
		for _, nb := range fresh {
			v.Neighbours[nb] = struct{}{}
		}
	}

	live := g.Vertices[:0]
	for _, v := range g.Vertices {
		if v.RoomID != Tombstone {
			live = append(live, v)
		}
	}
	g.Vertices = live
}

// ArrangeRoomIDs assigns final sequential IDs 0..N-1 in container order.
// The mapping is not stable across runs; only contiguity is guaranteed.
func (g *AreaGraph) ArrangeRoomIDs() {
	for i, v := range g.Vertices {
		v.RoomID = i
	}
}

// MergeRoomPolygons merges every vertex's polygon fragments into its single
// boundary ring.
func (g *AreaGraph) MergeRoomPolygons() {
	for _, v := range g.Vertices {
		v.MergePolygons()
	}
}

// segment is an undirected fragment edge used during boundary tracing.
type segment struct {
	a, b orb.Point
}

// cancelSegment removes seg's undirected duplicate from edges if present,
// otherwise appends seg. Fragment edges shared between two adjacent
// sub-polygons appear exactly twice and cancel out, leaving only the outer
// boundary. Degenerate self-edges are discarded.
func cancelSegment(edges []segment, seg segment) []segment {
	for i, e := range edges {
		if (PointsEqual(e.a, seg.a) && PointsEqual(e.b, seg.b)) ||
			(PointsEqual(e.a, seg.b) && PointsEqual(e.b, seg.a)) {
			return append(edges[:i], edges[i+1:]...)
		}
	}
	if PointsEqual(seg.a, seg.b) {
		return edges
	}
	return append(edges, seg)
}

// MergePolygons unions the vertex's polygon fragments into one closed
// boundary: every fragment edge is collected as an undirected point pair,
// edges appearing twice cancel (shared internal walls), and the remaining
// boundary edges are walked into closed loops. The loop enclosing the
// largest area becomes the vertex's polygon; inner holes are discarded.
func (v *RoomVertex) MergePolygons() {
	if len(v.Polygons) == 0 {
		return
	}
	if len(v.Polygons) == 1 {
		v.Polygon = closeRing(v.Polygons[0])
		return
	}

	var edges []segment
	for _, frag := range v.Polygons {
		if len(frag) < 2 {
			continue
		}
		for i := 1; i < len(frag); i++ {
			edges = cancelSegment(edges, segment{frag[i-1], frag[i]})
		}
		edges = cancelSegment(edges, segment{frag[0], frag[len(frag)-1]})
	}

	var best orb.Ring
	var bestArea float64

	for len(edges) > 0 {
		seg := edges[len(edges)-1]
		edges = edges[:len(edges)-1]

		loop := orb.Ring{seg.a}
		tail := seg.b
		for {
			found := -1
			var next orb.Point
			for i, e := range edges {
				if PointsEqual(tail, e.a) {
					found, next = i, e.b
					break
				}
				if PointsEqual(tail, e.b) {
					found, next = i, e.a
					break
				}
			}
			if found < 0 {
				break
			}
			loop = append(loop, tail)
			tail = next
			edges = append(edges[:found], edges[found+1:]...)
		}
		loop = append(loop, tail)

		if area := PolygonArea(loop); area > bestArea {
			bestArea = area
			best = loop
		}
	}

	v.Polygon = closeRing(best)
}

// ConnectRoomVertexes wires the pre-merge adjacency: two vertices are
// neighbours when their half-edges share an endpoint.
func ConnectRoomVertexes(vertices []*RoomVertex) {
	for i, v := range vertices {
		for _, w := range vertices[i+1:] {
			if PointsEqual(v.St, w.St) || PointsEqual(v.St, w.Ed) ||
				PointsEqual(v.Ed, w.St) || PointsEqual(v.Ed, w.Ed) {
				v.Neighbours[w] = struct{}{}
				w.Neighbours[v] = struct{}{}
			}
		}
	}
}
