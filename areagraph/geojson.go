package areagraph

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/paulmach/orb"
)

// GeometryType represents the GeoJSON geometry type
type GeometryType string

const (
	GeometryPoint      GeometryType = "Point"
	GeometryLineString GeometryType = "LineString"
	GeometryPolygon    GeometryType = "Polygon"
)

// Geometry represents a GeoJSON geometry object
type Geometry struct {
	Type        GeometryType    `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// Feature represents a GeoJSON feature with geometry and properties
type Feature struct {
	Type       string                 `json:"type"`
	Geometry   *Geometry              `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
	ID         interface{}            `json:"id,omitempty"`
}

// FeatureCollection represents a GeoJSON FeatureCollection
type FeatureCollection struct {
	Type     string     `json:"type"`
	Features []*Feature `json:"features"`
}

// NewFeatureCollection creates a new empty FeatureCollection
func NewFeatureCollection() *FeatureCollection {
	return &FeatureCollection{
		Type:     "FeatureCollection",
		Features: make([]*Feature, 0),
	}
}

// AddFeature appends a feature to the collection
func (fc *FeatureCollection) AddFeature(f *Feature) {
	fc.Features = append(fc.Features, f)
}

// NewFeature creates a Feature with the given geometry and properties
func NewFeature(geom *Geometry, props map[string]interface{}) *Feature {
	if props == nil {
		props = make(map[string]interface{})
	}
	return &Feature{
		Type:       "Feature",
		Geometry:   geom,
		Properties: props,
	}
}

// toLonLatCoords projects pixel points into GeoJSON [lon, lat] pairs.
func toLonLatCoords(points []orb.Point, proj Projection) [][2]float64 {
	coords := make([][2]float64, len(points))
	for i, p := range points {
		lat, lon := proj.ToLatLon(p)
		coords[i] = [2]float64{lon, lat}
	}
	return coords
}

// RingToPolygon converts a room boundary ring to a GeoJSON Polygon geometry.
// The ring is closed if needed; holes are never emitted.
func RingToPolygon(ring orb.Ring, proj Projection) *Geometry {
	coords := toLonLatCoords(closeRing(ring), proj)
	rings := [][][2]float64{coords}

	coordsJSON, _ := json.Marshal(rings)
	return &Geometry{
		Type:        GeometryPolygon,
		Coordinates: coordsJSON,
	}
}

// SegmentToLineString converts a two-point doorway segment to a GeoJSON
// LineString geometry.
func SegmentToLineString(a, b orb.Point, proj Projection) *Geometry {
	coordsJSON, _ := json.Marshal(toLonLatCoords([]orb.Point{a, b}, proj))
	return &Geometry{
		Type:        GeometryLineString,
		Coordinates: coordsJSON,
	}
}

// MapToFeatureCollection converts the merged graph to a GeoJSON
// FeatureCollection: one Polygon feature per room carrying its name and
// metric area, one LineString feature per 2-room passage carrying the rooms
// it connects.
func MapToFeatureCollection(g *AreaGraph, proj Projection) *FeatureCollection {
	fc := NewFeatureCollection()

	for _, v := range g.Vertices {
		if len(v.Polygon) == 0 {
			continue
		}
		props := map[string]interface{}{
			"name":   fmt.Sprintf("room_%d", v.RoomID),
			"roomId": v.RoomID,
			"area":   proj.SquareMeters(RoomArea(v)),
		}
		fc.AddFeature(NewFeature(RingToPolygon(v.Polygon, proj), props))
	}

	for i, pp := range g.CollectPassagePoints() {
		props := map[string]interface{}{
			"name": fmt.Sprintf("p_%d", i),
			"from": fmt.Sprintf("room_%d", pp.RoomA.RoomID),
			"to":   fmt.Sprintf("room_%d", pp.RoomB.RoomID),
		}
		fc.AddFeature(NewFeature(SegmentToLineString(pp.A, pp.B, proj), props))
	}

	return fc
}

// WriteGeoJSON writes the graph as an indented GeoJSON document.
func WriteGeoJSON(w io.Writer, g *AreaGraph, proj Projection) error {
	fc := MapToFeatureCollection(g, proj)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fc); err != nil {
		return fmt.Errorf("writing GeoJSON: %w", err)
	}
	return nil
}
