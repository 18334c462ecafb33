package areagraph

import (
	"bytes"
	"strings"
	"testing"
)

func exportOptionsOff() ExportOptions {
	return ExportOptions{}
}

func TestExportOsmAG(t *testing.T) {
	g, _, _, _ := twoRoomGraph()

	var buf bytes.Buffer
	if err := ExportOsmAG(g, &buf, pixelProjection(), exportOptionsOff()); err != nil {
		t.Fatalf("ExportOsmAG: %v", err)
	}
	out := buf.String()

	t.Run("document framing", func(t *testing.T) {
		if !strings.HasPrefix(out, "<?xml version='1.0' encoding='UTF-8'?>\n") {
			t.Error("missing XML declaration")
		}
		if !strings.Contains(out, "<osm version='0.6' generator='AreaGraph'>") {
			t.Error("missing osm open tag")
		}
		if !strings.HasSuffix(strings.TrimSpace(out), "</osm>") {
			t.Error("missing osm close tag")
		}
	})

	t.Run("root node anchors the map", func(t *testing.T) {
		if !strings.Contains(out, "<node id='-1'") {
			t.Error("root node should take ID -1")
		}
		if !strings.Contains(out, "<tag k='name' v='root' />") {
			t.Error("root node should be tagged name=root")
		}
		if !strings.Contains(out, "lat='31.00000000000'") {
			t.Error("root node should carry the configured latitude verbatim")
		}
	})

	t.Run("shared nodes are interned", func(t *testing.T) {
		// Two squares with two shared wall corners: 6 distinct map points
		// plus the root node.
		if n := strings.Count(out, "<node "); n != 7 {
			t.Errorf("node count = %d, want 7", n)
		}
	})

	t.Run("room ways", func(t *testing.T) {
		for _, want := range []string{
			"<tag k='name' v='room_0' />",
			"<tag k='name' v='room_1' />",
			"<tag k='indoor' v='room' />",
			"<tag k='osmAG:areaType' v='room' />",
			"<tag k='osmAG:type' v='area' />",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("missing %q", want)
			}
		}
	})

	t.Run("passage way", func(t *testing.T) {
		for _, want := range []string{
			"<tag k='name' v='p_0' />",
			"<tag k='osmAG:from' v='room_0' />",
			"<tag k='osmAG:to' v='room_1' />",
			"<tag k='osmAG:type' v='passage' />",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("missing %q", want)
			}
		}
	})

	t.Run("all IDs are negative", func(t *testing.T) {
		if strings.Contains(out, "id='0'") || strings.Contains(out, "ref='0'") {
			t.Error("IDs must be negative")
		}
	})

	t.Run("room ways close on their first node", func(t *testing.T) {
		// Each room way repeats its opening nd ref, so every room boundary
		// of 4 corners emits 5 refs; with one 2-ref passage way the total
		// is 12.
		if n := strings.Count(out, "<nd ref="); n != 12 {
			t.Errorf("nd ref count = %d, want 12", n)
		}
	})
}

func TestExportOsmAGRunsRefinement(t *testing.T) {
	g, left, _, _ := twoRoomGraph()

	// Duplicate of the left room; it must not survive into the output.
	dupe := NewRoomVertex(5, left.Center, left.St, left.Ed)
	dupe.Polygon = append(dupe.Polygon, left.Polygon...)
	g.Vertices = append(g.Vertices, dupe)

	var buf bytes.Buffer
	if err := ExportOsmAG(g, &buf, pixelProjection(), exportOptionsOff()); err != nil {
		t.Fatalf("ExportOsmAG: %v", err)
	}
	out := buf.String()

	if strings.Contains(out, "v='room_5'") {
		t.Error("duplicate room should have been removed before emission")
	}
	if n := strings.Count(out, "<way "); n != 3 {
		t.Errorf("way count = %d, want 3 (two rooms, one passage)", n)
	}
}

func TestExportOptionsFromConfig(t *testing.T) {
	cfg := DefaultConfig()
	opts := cfg.ExportOptions()

	if !opts.Simplify || opts.SimplifyTolerance != 0.05 {
		t.Errorf("simplify options = %v/%v, want enabled with tolerance 0.05",
			opts.Simplify, opts.SimplifyTolerance)
	}
	if !opts.SpikeRemoval || opts.SpikeAngleThreshold != 60.0 || opts.SpikeDistanceThreshold != 0.30 {
		t.Error("spike removal options do not match defaults")
	}
	if !opts.SmallRoomMerge || opts.MinRoomArea != 4.0 || opts.MaxMergeDistance != 1.5 {
		t.Error("small room merge options do not match defaults")
	}
	if opts.SmallRoomFilter {
		t.Error("small room filter should be disabled by default")
	}
}
