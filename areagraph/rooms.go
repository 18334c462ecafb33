package areagraph

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// RoomArea returns the pixel-space area of a room's boundary polygon.
func RoomArea(v *RoomVertex) float64 {
	return PolygonArea(v.Polygon)
}

// RoomCenter returns the arithmetic centroid of a room's boundary polygon,
// or the origin for an empty polygon.
func RoomCenter(v *RoomVertex) orb.Point {
	return centroid(v.Polygon)
}

// RemoveDuplicatePolygons eliminates rooms whose boundary polygons are
// shape-identical. Candidates are bucketed by PolygonHash and confirmed with
// PolygonsEqual; of each true-duplicate pair the lower room ID survives and
// inherits the other's passages. Running the pass twice removes nothing new.
func (g *AreaGraph) RemoveDuplicatePolygons() int {
	if len(g.Vertices) == 0 {
		return 0
	}

	buckets := make(map[uint64][]*RoomVertex)
	var order []uint64
	for _, v := range g.Vertices {
		if len(v.Polygon) == 0 {
			continue
		}
		h := PolygonHash(v.Polygon)
		if _, seen := buckets[h]; !seen {
			order = append(order, h)
		}
		buckets[h] = append(buckets[h], v)
	}

	removed := make(map[*RoomVertex]bool)
	for _, h := range order {
		vertices := buckets[h]
		for i := 0; i < len(vertices); i++ {
			if removed[vertices[i]] {
				continue
			}
			for j := i + 1; j < len(vertices); j++ {
				if removed[vertices[j]] {
					continue
				}
				if !PolygonsEqual(vertices[i].Polygon, vertices[j].Polygon) {
					continue
				}
				loser, winner := vertices[i], vertices[j]
				if loser.RoomID < winner.RoomID {
					loser, winner = winner, loser
				}
				g.transferPassagesTo(loser, winner)
				removed[loser] = true
				if loser == vertices[i] {
					break
				}
			}
		}
	}

	for v := range removed {
		g.removeVertex(v)
	}
	return len(removed)
}

// TransferPassages moves all of source's passages to target, rewriting each
// passage's connected areas so target replaces source (or source is dropped
// when target is already connected). Source's passage list is cleared; the
// caller may then delete source safely.
func (g *AreaGraph) TransferPassages(source, target *RoomVertex) {
	g.transferPassagesTo(source, target)
}

// shareBoundaryPoint reports whether two room polygons have a vertex in
// common. Used as the adjacency fallback when no passage joins two rooms.
func shareBoundaryPoint(a, b *RoomVertex) bool {
	for _, p := range a.Polygon {
		for _, q := range b.Polygon {
			if PointsEqual(p, q) {
				return true
			}
		}
	}
	return false
}

// MergeSmallAdjacentRooms absorbs rooms below minArea (m²) into their best
// neighbouring room. Thresholds arrive in metric units and are converted to
// pixels through the projection. Small rooms are processed smallest-first;
// candidates come from 2-room passages, falling back to polygon-vertex
// adjacency when a small room has no passage neighbour. Candidates are
// scored by normalized center distance with a bonus when the neighbour is
// itself small, the winner's polygon is replaced by the convex hull of both
// polygons, passages transfer to the survivor, and now-interior passages are
// deleted. Passes repeat until one produces zero merges.
func (g *AreaGraph) MergeSmallAdjacentRooms(proj Projection, minArea, maxMergeDistance float64) int {
	minAreaPx := proj.PixelArea(minArea)
	maxDistPx := proj.PixelDistance(maxMergeDistance)

	total := 0
	for {
		merged := g.mergeSmallRoomsPass(minAreaPx, maxDistPx)
		if merged == 0 {
			return total
		}
		total += merged
	}
}

// mergeSmallRoomsPass runs one merge pass and returns how many rooms it
// absorbed.
func (g *AreaGraph) mergeSmallRoomsPass(minAreaPx, maxDistPx float64) int {
	if len(g.Vertices) == 0 {
		return 0
	}

	areas := make(map[*RoomVertex]float64, len(g.Vertices))
	centers := make(map[*RoomVertex]orb.Point, len(g.Vertices))
	var small []*RoomVertex
	for _, v := range g.Vertices {
		areas[v] = RoomArea(v)
		centers[v] = RoomCenter(v)
		if areas[v] < minAreaPx {
			small = append(small, v)
		}
	}
	if len(small) == 0 {
		return 0
	}

	sort.SliceStable(small, func(i, j int) bool {
		return areas[small[i]] < areas[small[j]]
	})

	type mergeOp struct {
		room, target *RoomVertex
	}
	consumed := make(map[*RoomVertex]bool)
	var ops []mergeOp

	for _, room := range small {
		if consumed[room] {
			continue
		}

		var best *RoomVertex
		bestScore := -1.0

		score := func(neighbour *RoomVertex) {
			if neighbour == nil || neighbour == room || consumed[neighbour] {
				return
			}
			dist := planar.Distance(centers[room], centers[neighbour])
			if dist >= maxDistPx {
				return
			}
			s := (maxDistPx - dist) / maxDistPx * 10.0
			if areas[neighbour] < minAreaPx*1.5 {
				s += 5.0
			}
			if s > bestScore {
				bestScore = s
				best = neighbour
			}
		}

		for _, p := range room.Passages {
			score(p.Other(room))
		}
		if best == nil {
			// No passage neighbour: fall back to shared boundary vertices.
			for _, candidate := range g.Vertices {
				if candidate != room && !consumed[candidate] && shareBoundaryPoint(room, candidate) {
					score(candidate)
				}
			}
		}

		if best != nil && bestScore > 0 {
			ops = append(ops, mergeOp{room, best})
			consumed[room] = true
			consumed[best] = true
		}
	}

	for _, op := range ops {
		op.target.Polygon = MergePolygons(op.room.Polygon, op.target.Polygon)
		g.transferPassagesTo(op.room, op.target)
		g.removeVertex(op.room)

		// Passages that lost their second side are interior now.
		kept := op.target.Passages[:0]
		for _, p := range op.target.Passages {
			distinct := 0
			for _, a := range p.ConnectedAreas {
				if a != op.target {
					distinct++
				}
			}
			if len(p.ConnectedAreas) < 2 || distinct == 0 {
				g.removePassage(p)
				continue
			}
			kept = append(kept, p)
		}
		op.target.Passages = kept
	}

	return len(ops)
}

// FilterSmallRooms drops every room whose area falls below minArea (m²),
// transferring nothing: the removed rooms' passages are detached from the
// graph entirely. Returns the number of rooms removed.
func (g *AreaGraph) FilterSmallRooms(proj Projection, minArea float64) int {
	minAreaPx := proj.PixelArea(minArea)

	var doomed []*RoomVertex
	for _, v := range g.Vertices {
		if RoomArea(v) < minAreaPx {
			doomed = append(doomed, v)
		}
	}

	for _, v := range doomed {
		for _, p := range v.Passages {
			kept := p.ConnectedAreas[:0]
			for _, a := range p.ConnectedAreas {
				if a != v {
					kept = append(kept, a)
				}
			}
			p.ConnectedAreas = kept
			if len(p.ConnectedAreas) < 2 {
				for _, a := range p.ConnectedAreas {
					a.removePassageRef(p)
				}
				g.removePassage(p)
			}
		}
		v.Passages = nil
		g.removeVertex(v)
	}
	return len(doomed)
}

// roomAreaRow pairs a room with its metric area for reporting.
type roomAreaRow struct {
	id   int
	area float64
}

// sortedRoomAreas returns rooms with their areas in m², largest first.
func sortedRoomAreas(g *AreaGraph, proj Projection) []roomAreaRow {
	rows := make([]roomAreaRow, 0, len(g.Vertices))
	for _, v := range g.Vertices {
		rows = append(rows, roomAreaRow{v.RoomID, proj.SquareMeters(RoomArea(v))})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].area > rows[j].area })
	return rows
}

// WriteAreaCSV emits `room_<id>,<area m²>` rows sorted by area descending.
func WriteAreaCSV(w io.Writer, g *AreaGraph, proj Projection) error {
	cw := csv.NewWriter(w)
	for _, row := range sortedRoomAreas(g, proj) {
		record := []string{
			fmt.Sprintf("room_%d", row.id),
			strconv.FormatFloat(row.area, 'f', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing area CSV: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteAreaChart prints a text bar chart of room areas, largest first.
func WriteAreaChart(w io.Writer, g *AreaGraph, proj Projection) {
	rows := sortedRoomAreas(g, proj)
	if len(rows) == 0 {
		fmt.Fprintln(w, "no rooms to report")
		return
	}

	const maxBarWidth = 50
	maxArea := rows[0].area
	for _, row := range rows {
		barLen := 0
		if maxArea > 0 {
			barLen = int(row.area / maxArea * maxBarWidth)
		}
		fmt.Fprintf(w, "%12s |%s %.2f\n",
			fmt.Sprintf("room_%d", row.id), strings.Repeat("#", barLen), row.area)
	}
}
