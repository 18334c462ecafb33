package areagraph

import (
	"os"
	"path/filepath"
	"testing"
)

func skeletonJSON() string {
	return `{
  "vertices": [
    {"x": 2, "y": 2, "edges": [0, 1]}
  ],
  "halfEdges": [
    {
      "roomId": 0,
      "source": [2, 2],
      "target": [0, 2],
      "pathFace": [[0, 0], [2, 0], [2, 2], [0, 2]],
      "twin": 1
    },
    {
      "roomId": 0,
      "source": [0, 2],
      "target": [2, 2],
      "pathFace": [[0, 2], [2, 2], [2, 4], [0, 4]],
      "twin": 0
    }
  ]
}`
}

func TestParseVoriGraph(t *testing.T) {
	vg, err := ParseVoriGraph([]byte(skeletonJSON()))
	if err != nil {
		t.Fatalf("ParseVoriGraph: %v", err)
	}

	if len(vg.HalfEdges) != 2 {
		t.Fatalf("half-edge count = %d, want 2", len(vg.HalfEdges))
	}
	if len(vg.Vertices) != 1 {
		t.Fatalf("vertex count = %d, want 1", len(vg.Vertices))
	}

	he := vg.HalfEdges[0]
	if he.Twin != vg.HalfEdges[1] || vg.HalfEdges[1].Twin != he {
		t.Error("twin indices should resolve to mutual pointers")
	}
	if he.Source != (vg.HalfEdges[1].Target) {
		t.Error("half-edge endpoints not parsed")
	}
	if len(he.PathFace) != 4 {
		t.Errorf("path face has %d points, want 4", len(he.PathFace))
	}

	v := vg.Vertices[0]
	if len(v.Edges) != 2 || v.Edges[0] != vg.HalfEdges[0] {
		t.Error("vertex edge indices should resolve to pointers")
	}
}

func TestParseVoriGraph_Errors(t *testing.T) {
	t.Run("invalid JSON", func(t *testing.T) {
		if _, err := ParseVoriGraph([]byte("{")); err == nil {
			t.Fatal("expected parse error, got nil")
		}
	})

	t.Run("twin index out of range", func(t *testing.T) {
		data := `{"vertices": [], "halfEdges": [{"roomId": 0, "source": [0,0], "target": [1,0], "twin": 9}]}`
		if _, err := ParseVoriGraph([]byte(data)); err == nil {
			t.Fatal("expected twin range error, got nil")
		}
	})

	t.Run("vertex edge index out of range", func(t *testing.T) {
		data := `{"vertices": [{"x": 0, "y": 0, "edges": [3]}], "halfEdges": []}`
		if _, err := ParseVoriGraph([]byte(data)); err == nil {
			t.Fatal("expected edge range error, got nil")
		}
	})

	t.Run("negative twin means no twin", func(t *testing.T) {
		data := `{"vertices": [], "halfEdges": [{"roomId": 0, "source": [0,0], "target": [1,0], "twin": -1}]}`
		vg, err := ParseVoriGraph([]byte(data))
		if err != nil {
			t.Fatalf("ParseVoriGraph: %v", err)
		}
		if vg.HalfEdges[0].Twin != nil {
			t.Error("twin -1 should leave the pointer nil")
		}
	})
}

func TestLoadVoriGraph(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadVoriGraph(filepath.Join(t.TempDir(), "nope.json")); err == nil {
			t.Fatal("expected error for missing file, got nil")
		}
	})

	t.Run("round trip from disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "graph.json")
		if err := os.WriteFile(path, []byte(skeletonJSON()), 0644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
		vg, err := LoadVoriGraph(path)
		if err != nil {
			t.Fatalf("LoadVoriGraph: %v", err)
		}
		if len(vg.HalfEdges) != 2 {
			t.Errorf("half-edge count = %d, want 2", len(vg.HalfEdges))
		}
	})
}
