package areagraph

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func testProjection() Projection {
	return Projection{
		RootPixel:  orb.Point{3804, 2801},
		RootLat:    31.17947960435,
		RootLon:    121.59139728509,
		Resolution: 0.044,
	}
}

func TestProjectionRootAnchor(t *testing.T) {
	proj := testProjection()
	lat, lon := proj.ToLatLon(proj.RootPixel)
	if math.Abs(lat-proj.RootLat) > 1e-12 {
		t.Errorf("root lat = %.12f, want %.12f", lat, proj.RootLat)
	}
	if math.Abs(lon-proj.RootLon) > 1e-12 {
		t.Errorf("root lon = %.12f, want %.12f", lon, proj.RootLon)
	}
}

func TestProjectionDirections(t *testing.T) {
	proj := testProjection()

	t.Run("east of root increases longitude", func(t *testing.T) {
		lat, lon := proj.ToLatLon(orb.Point{proj.RootPixel[0] + 100, proj.RootPixel[1]})
		if lon <= proj.RootLon {
			t.Errorf("lon = %.12f, want > %.12f", lon, proj.RootLon)
		}
		if math.Abs(lat-proj.RootLat) > 1e-12 {
			t.Errorf("pure east offset moved latitude to %.12f", lat)
		}
	})

	t.Run("smaller pixel row is farther north", func(t *testing.T) {
		lat, _ := proj.ToLatLon(orb.Point{proj.RootPixel[0], proj.RootPixel[1] - 100})
		if lat <= proj.RootLat {
			t.Errorf("lat = %.12f, want > %.12f", lat, proj.RootLat)
		}
	})

	t.Run("offset scale is plausible", func(t *testing.T) {
		// 1000 px * 0.044 m/px = 44 m north. One degree of latitude is
		// roughly 111 km, so the latitude shift should be near 4e-4 degrees.
		lat, _ := proj.ToLatLon(orb.Point{proj.RootPixel[0], proj.RootPixel[1] - 1000})
		delta := lat - proj.RootLat
		if delta < 3e-4 || delta > 5e-4 {
			t.Errorf("latitude delta = %g, want ~4e-4", delta)
		}
	})
}

func TestProjectionUnitConversions(t *testing.T) {
	proj := testProjection()

	px := proj.PixelArea(4.0)
	if back := proj.SquareMeters(px); math.Abs(back-4.0) > 1e-9 {
		t.Errorf("area round trip = %f, want 4.0", back)
	}

	if d := proj.PixelDistance(0.44); math.Abs(d-10.0) > 1e-9 {
		t.Errorf("PixelDistance(0.44) = %f, want 10", d)
	}
}
