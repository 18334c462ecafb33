package areagraph

import (
	"math"

	"github.com/paulmach/orb"
)

// WGS84 ellipsoid constants.
const (
	wgs84SemiMajor  = 6378137.0
	wgs84Flattening = 1.0 / 298.257223563
)

// Projection converts planar pixel coordinates of the input map into WGS84
// latitude/longitude. It anchors a configured root pixel position at a
// configured geodetic coordinate and applies an ellipsoidal local-tangent-
// plane approximation around it.
//
// The struct is threaded explicitly through the exporter; there is no
// process-wide projection state.
type Projection struct {
	// RootPixel is the pixel position of the geodetic anchor in the map
	// image. RootLat/RootLon are its latitude and longitude in degrees.
	RootPixel orb.Point
	RootLat   float64
	RootLon   float64

	// Resolution is the map scale in meters per pixel.
	Resolution float64
}

// ToLatLon converts a pixel-space point to latitude/longitude. The offset
// from the root pixel is scaled to meters, the y axis flipped (image rows
// grow downward, northing grows upward), and the result projected on the
// local tangent plane at the root coordinate.
func (pr Projection) ToLatLon(p orb.Point) (lat, lon float64) {
	east := (p[0] - pr.RootPixel[0]) * pr.Resolution
	north := (pr.RootPixel[1] - p[1]) * pr.Resolution
	return pr.offsetToLatLon(east, north)
}

// offsetToLatLon converts a metric east/north offset from the root anchor to
// latitude/longitude using the meridional and prime-vertical radii of
// curvature at the root latitude.
func (pr Projection) offsetToLatLon(east, north float64) (lat, lon float64) {
	phi := pr.RootLat * math.Pi / 180

	e2 := wgs84Flattening * (2 - wgs84Flattening)
	sinPhi := math.Sin(phi)
	denom := 1 - e2*sinPhi*sinPhi

	// Meridional radius (north-south) and prime-vertical radius (east-west).
	m := wgs84SemiMajor * (1 - e2) / math.Pow(denom, 1.5)
	n := wgs84SemiMajor / math.Sqrt(denom)

	lat = pr.RootLat + (north/m)*180/math.Pi
	lon = pr.RootLon + (east/(n*math.Cos(phi)))*180/math.Pi
	return lat, lon
}

// PixelArea converts an area in square meters to square pixels.
func (pr Projection) PixelArea(squareMeters float64) float64 {
	if pr.Resolution <= 0 {
		return squareMeters
	}
	return squareMeters / (pr.Resolution * pr.Resolution)
}

// PixelDistance converts a distance in meters to pixels.
func (pr Projection) PixelDistance(meters float64) float64 {
	if pr.Resolution <= 0 {
		return meters
	}
	return meters / pr.Resolution
}

// SquareMeters converts an area in square pixels to square meters.
func (pr Projection) SquareMeters(pixelArea float64) float64 {
	return pixelArea * pr.Resolution * pr.Resolution
}
