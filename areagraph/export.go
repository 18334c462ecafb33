package areagraph

import (
	"bufio"
	"fmt"
	"io"
	"log"

	"github.com/paulmach/orb"
)

// ExportOptions selects which polygon refinement passes run before XML
// emission and carries their thresholds. Metric values are converted to
// pixels through the exporter's Projection.
type ExportOptions struct {
	Simplify          bool
	SimplifyTolerance float64

	SpikeRemoval           bool
	SpikeAngleThreshold    float64
	SpikeDistanceThreshold float64

	SmallRoomMerge   bool
	MinRoomArea      float64
	MaxMergeDistance float64

	SmallRoomFilter bool
	FilterMinArea   float64
}

// passagePreservePoints maps each room to the passage cut points lying on its
// boundary. These points must survive simplification and spike removal or the
// exported passage ways would reference nodes missing from the room ways.
func passagePreservePoints(points []PassagePoints) map[*RoomVertex][]orb.Point {
	preserve := make(map[*RoomVertex][]orb.Point)
	for _, pp := range points {
		preserve[pp.RoomA] = append(preserve[pp.RoomA], pp.A, pp.B)
		preserve[pp.RoomB] = append(preserve[pp.RoomB], pp.A, pp.B)
	}
	return preserve
}

// SimplifyPolygons runs Douglas-Peucker over every room polygon, keeping the
// given per-room preserve points intact.
func (g *AreaGraph) SimplifyPolygons(tolerance float64, preserve map[*RoomVertex][]orb.Point) {
	before, after := 0, 0
	for _, v := range g.Vertices {
		if len(v.Polygon) == 0 {
			continue
		}
		before += len(v.Polygon)
		v.Polygon = SimplifyPolygon(v.Polygon, tolerance, preserve[v])
		after += len(v.Polygon)
	}
	log.Printf("simplified room polygons: %d -> %d points", before, after)
}

// RemoveSpikesFromPolygons runs spike removal over every room polygon,
// keeping the given per-room preserve points intact.
func (g *AreaGraph) RemoveSpikesFromPolygons(angleThreshold, distanceThreshold float64, preserve map[*RoomVertex][]orb.Point) {
	before, after := 0, 0
	for _, v := range g.Vertices {
		if len(v.Polygon) == 0 {
			continue
		}
		before += len(v.Polygon)
		v.Polygon = RemoveSpikesFromPolygon(v.Polygon, angleThreshold, distanceThreshold, preserve[v])
		after += len(v.Polygon)
	}
	log.Printf("removed polygon spikes: %d -> %d points", before, after)
}

// nodeTable interns map points into negative OSM node IDs. Points within
// Epsilon of an already-interned point share its ID, so rooms meeting at a
// doorway reference the very same nodes.
type nodeTable struct {
	points []orb.Point
	ids    []int64
	nextID int64
}

func newNodeTable(firstID int64) *nodeTable {
	return &nodeTable{nextID: firstID}
}

// intern returns the node ID for p, allocating a fresh one on first sight.
func (t *nodeTable) intern(p orb.Point) (id int64, created bool) {
	for i, q := range t.points {
		if PointsEqual(q, p) {
			return t.ids[i], false
		}
	}
	id = t.nextID
	t.nextID--
	t.points = append(t.points, p)
	t.ids = append(t.ids, id)
	return id, true
}

// ExportOsmAG refines the merged graph's room polygons and writes the result
// as an osmAG XML document. The refinement sequence is fixed: duplicate-room
// removal, passage cut-point collection, polygon optimization around the cut
// points, optional simplification and spike removal (both preserving the cut
// points), optional small-room absorption and filtering. Passage endpoints
// are resolved again after the geometry passes so the emitted ways reference
// the final polygons.
func ExportOsmAG(g *AreaGraph, w io.Writer, proj Projection, opts ExportOptions) error {
	if n := g.RemoveDuplicatePolygons(); n > 0 {
		log.Printf("removed %d duplicate room polygons", n)
	}

	passagePoints := g.CollectPassagePoints()
	g.OptimizeRoomPolygonsForPassages(passagePoints)

	preserve := passagePreservePoints(passagePoints)
	if opts.Simplify {
		g.SimplifyPolygons(opts.SimplifyTolerance, preserve)
	}
	if opts.SpikeRemoval {
		g.RemoveSpikesFromPolygons(opts.SpikeAngleThreshold, opts.SpikeDistanceThreshold, preserve)
	}
	if opts.SmallRoomMerge {
		if n := g.MergeSmallAdjacentRooms(proj, opts.MinRoomArea, opts.MaxMergeDistance); n > 0 {
			log.Printf("absorbed %d small rooms", n)
		}
	}
	if opts.SmallRoomFilter {
		if n := g.FilterSmallRooms(proj, opts.FilterMinArea); n > 0 {
			log.Printf("filtered out %d small rooms", n)
		}
	}

	// Cut points move when polygons change, so resolve them once more for
	// the way output.
	passagePoints = g.CollectPassagePoints()

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "<?xml version='1.0' encoding='UTF-8'?>")
	fmt.Fprintln(bw, "<osm version='0.6' generator='AreaGraph'>")

	// The root node anchors the map at the configured geodetic coordinate.
	fmt.Fprintf(bw, "  <node id='-1' action='modify' visible='true' lat='%.11f' lon='%.11f'>\n",
		proj.RootLat, proj.RootLon)
	fmt.Fprintln(bw, "    <tag k='name' v='root' />")
	fmt.Fprintln(bw, "  </node>")

	nodes := newNodeTable(-2)
	emitNode := func(p orb.Point) int64 {
		id, created := nodes.intern(p)
		if created {
			lat, lon := proj.ToLatLon(p)
			fmt.Fprintf(bw, "  <node id='%d' action='modify' visible='true' lat='%.11f' lon='%.11f' />\n",
				id, lat, lon)
		}
		return id
	}

	type passageWay struct {
		a, b   int64
		fromID int
		toID   int
	}
	passageWays := make([]passageWay, 0, len(passagePoints))
	for _, pp := range passagePoints {
		pw := passageWay{fromID: pp.RoomA.RoomID, toID: pp.RoomB.RoomID}
		pw.a = emitNode(pp.A)
		pw.b = emitNode(pp.B)
		passageWays = append(passageWays, pw)
	}

	type roomWay struct {
		roomID int
		refs   []int64
	}
	roomWays := make([]roomWay, 0, len(g.Vertices))
	for _, v := range g.Vertices {
		if len(v.Polygon) == 0 {
			continue
		}
		boundary := v.Polygon
		if len(boundary) > 1 && PointsEqual(boundary[0], boundary[len(boundary)-1]) {
			boundary = boundary[:len(boundary)-1]
		}
		rw := roomWay{roomID: v.RoomID}
		for _, p := range boundary {
			rw.refs = append(rw.refs, emitNode(p))
		}
		roomWays = append(roomWays, rw)
	}

	wayID := nodes.nextID
	for _, rw := range roomWays {
		fmt.Fprintf(bw, "  <way id='%d' action='modify' visible='true'>\n", wayID)
		wayID--
		for _, ref := range rw.refs {
			fmt.Fprintf(bw, "    <nd ref='%d' />\n", ref)
		}
		if len(rw.refs) > 0 {
			// Repeat the first ref so the way is a closed ring.
			fmt.Fprintf(bw, "    <nd ref='%d' />\n", rw.refs[0])
		}
		fmt.Fprintln(bw, "    <tag k='indoor' v='room' />")
		fmt.Fprintf(bw, "    <tag k='name' v='room_%d' />\n", rw.roomID)
		fmt.Fprintln(bw, "    <tag k='osmAG:areaType' v='room' />")
		fmt.Fprintln(bw, "    <tag k='osmAG:type' v='area' />")
		fmt.Fprintln(bw, "  </way>")
	}

	for i, pw := range passageWays {
		fmt.Fprintf(bw, "  <way id='%d' action='modify' visible='true'>\n", wayID)
		wayID--
		fmt.Fprintf(bw, "    <nd ref='%d' />\n", pw.a)
		if pw.b != pw.a {
			fmt.Fprintf(bw, "    <nd ref='%d' />\n", pw.b)
		}
		fmt.Fprintf(bw, "    <tag k='name' v='p_%d' />\n", i)
		fmt.Fprintf(bw, "    <tag k='osmAG:from' v='room_%d' />\n", pw.fromID)
		fmt.Fprintf(bw, "    <tag k='osmAG:to' v='room_%d' />\n", pw.toID)
		fmt.Fprintln(bw, "    <tag k='osmAG:type' v='passage' />")
		fmt.Fprintln(bw, "  </way>")
	}

	fmt.Fprintln(bw, "</osm>")
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing osmAG XML: %w", err)
	}
	return nil
}
