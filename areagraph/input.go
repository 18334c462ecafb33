package areagraph

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/paulmach/orb"
)

// voriHalfEdgeJSON is the wire form of a skeleton half-edge. Twin is an
// index into the halfEdges array, or -1 when the edge has no twin.
type voriHalfEdgeJSON struct {
	RoomID   int          `json:"roomId"`
	Source   [2]float64   `json:"source"`
	Target   [2]float64   `json:"target"`
	PathFace [][2]float64 `json:"pathFace,omitempty"`
	Twin     int          `json:"twin"`
	Ray      bool         `json:"ray,omitempty"`
}

// voriVertexJSON is the wire form of a skeleton vertex. Edges is a list of
// indices into the halfEdges array.
type voriVertexJSON struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Edges []int   `json:"edges"`
}

// voriGraphJSON is the root of the skeleton export consumed from the
// upstream Voronoi/room-detection stage.
type voriGraphJSON struct {
	Vertices  []voriVertexJSON   `json:"vertices"`
	HalfEdges []voriHalfEdgeJSON `json:"halfEdges"`
}

// ParseVoriGraph decodes a half-edge skeleton graph from its JSON export,
// resolving twin and vertex-edge indices into pointers.
func ParseVoriGraph(data []byte) (*VoriGraph, error) {
	var raw voriGraphJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing skeleton graph JSON: %w", err)
	}

	vg := &VoriGraph{
		HalfEdges: make([]*VoriHalfEdge, len(raw.HalfEdges)),
	}

	for i, he := range raw.HalfEdges {
		edge := &VoriHalfEdge{
			RoomID: he.RoomID,
			Source: orb.Point{he.Source[0], he.Source[1]},
			Target: orb.Point{he.Target[0], he.Target[1]},
			Ray:    he.Ray,
		}
		if len(he.PathFace) > 0 {
			face := make(orb.Ring, len(he.PathFace))
			for j, c := range he.PathFace {
				face[j] = orb.Point{c[0], c[1]}
			}
			edge.PathFace = face
		}
		vg.HalfEdges[i] = edge
	}

	// Second pass: twin indices become pointers once all edges exist.
	for i, he := range raw.HalfEdges {
		if he.Twin < 0 {
			continue
		}
		if he.Twin >= len(vg.HalfEdges) {
			return nil, fmt.Errorf("halfEdge %d: twin index %d out of range", i, he.Twin)
		}
		vg.HalfEdges[i].Twin = vg.HalfEdges[he.Twin]
	}

	for i, vv := range raw.Vertices {
		vertex := &VoriVertex{Point: orb.Point{vv.X, vv.Y}}
		for _, ei := range vv.Edges {
			if ei < 0 || ei >= len(vg.HalfEdges) {
				return nil, fmt.Errorf("vertex %d: edge index %d out of range", i, ei)
			}
			vertex.Edges = append(vertex.Edges, vg.HalfEdges[ei])
		}
		vg.Vertices = append(vg.Vertices, vertex)
	}

	return vg, nil
}

// LoadVoriGraph reads and parses a skeleton graph JSON file.
func LoadVoriGraph(path string) (*VoriGraph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("skeleton graph file not found: %s", path)
		}
		return nil, fmt.Errorf("reading skeleton graph file: %w", err)
	}
	return ParseVoriGraph(data)
}
