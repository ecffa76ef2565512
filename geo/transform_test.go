package geo

import (
	"math"
	"testing"
)

func TestReferenceIsOrigin(t *testing.T) {
	ref := Reference{Lon: 116.3912, Lat: 39.9061, Alt: 43.5}
	tr := NewTransform(ref)
	p := tr.ToLocal(ref.GeoPoint())
	if math.Abs(p.X) > 1e-6 || math.Abs(p.Y) > 1e-6 || math.Abs(p.Z) > 1e-6 {
		t.Errorf("reference maps to %v; want origin", p)
	}
}

func TestLocalAxes(t *testing.T) {
	tr := NewTransform(Reference{Lon: 0, Lat: 0, Alt: 0})

	east := tr.ToLocal(GeoPoint{Lon: 0.001, Lat: 0})
	if east.X < 110 || east.X > 112 || math.Abs(east.Y) > 1e-3 {
		t.Errorf("0.001° east = %v; want x≈111.3", east)
	}
	north := tr.ToLocal(GeoPoint{Lon: 0, Lat: 0.001})
	if north.Y < 110 || north.Y > 112 || math.Abs(north.X) > 1e-3 {
		t.Errorf("0.001° north = %v; want y≈110.6", north)
	}
	up := tr.ToLocal(GeoPoint{Lon: 0, Lat: 0, Alt: 10})
	if math.Abs(up.Z-10) > 1e-6 {
		t.Errorf("10m up = %v; want z=10", up)
	}
}

func TestRoundTrip(t *testing.T) {
	refs := []Reference{
		{Lon: 0, Lat: 0, Alt: 0},
		{Lon: 116.3912, Lat: 39.9061, Alt: 43.5},
		{Lon: -122.4194, Lat: 37.7749, Alt: -5},
		{Lon: 151.2093, Lat: -33.8688, Alt: 58},
		{Lon: 25.0, Lat: 71.0, Alt: 120},
	}
	offsets := []GeoPoint{
		{Lon: 0, Lat: 0, Alt: 0},
		{Lon: 0.01, Lat: 0.02, Alt: 3},
		{Lon: -0.05, Lat: 0.013, Alt: -10},
		{Lon: 0.2, Lat: -0.3, Alt: 250},
	}
	for _, ref := range refs {
		tr := NewTransform(ref)
		for _, off := range offsets {
			p := GeoPoint{Lon: ref.Lon + off.Lon, Lat: ref.Lat + off.Lat, Alt: ref.Alt + off.Alt}
			back := tr.ToGeodetic(tr.ToLocal(p))
			if math.Abs(back.Lon-p.Lon) > 1e-9 || math.Abs(back.Lat-p.Lat) > 1e-9 || math.Abs(back.Alt-p.Alt) > 1e-5 {
				t.Errorf("round trip of %v around %v = %v", p, ref, back)
			}
		}
	}
}

func TestLocalRoundTrip(t *testing.T) {
	tr := NewTransform(Reference{Lon: 8.6821, Lat: 50.1109, Alt: 100})
	p := Point{X: 1234.5, Y: -678.25, Z: 12}
	back := tr.ToLocal(tr.ToGeodetic(p))
	if back.Dist(p) > 1e-6 {
		t.Errorf("local round trip of %v = %v", p, back)
	}
}

func TestMercator(t *testing.T) {
	m := ToMercator(GeoPoint{Lon: 0, Lat: 0})
	if math.Abs(m.X) > 1e-6 || math.Abs(m.Y) > 1e-6 {
		t.Errorf("mercator of origin = %v; want 0,0", m)
	}
	p := GeoPoint{Lon: 13.405, Lat: 52.52}
	back := FromMercator(ToMercator(p))
	if math.Abs(back.Lon-p.Lon) > 1e-9 || math.Abs(back.Lat-p.Lat) > 1e-9 {
		t.Errorf("mercator round trip of %v = %v", p, back)
	}

	tr := NewTransform(Reference{Lon: 13.4, Lat: 52.5})
	local := Point{X: 50, Y: -20, Z: 2}
	again := tr.MercatorToLocal(tr.LocalToMercator(local), 2)
	if again.Dist2D(local) > 1e-4 {
		t.Errorf("local -> mercator -> local = %v; want %v", again, local)
	}
}

func TestNormalizeAngle(t *testing.T) {
	cases := [][2]float64{
		{0, 0}, {180, 180}, {-180, 180}, {190, -170}, {-190, 170}, {540, 180}, {359, -1}, {-45, -45},
	}
	for _, c := range cases {
		if got := NormalizeAngle(c[0]); math.Abs(got-c[1]) > 1e-9 {
			t.Errorf("NormalizeAngle(%v) = %v; want %v", c[0], got, c[1])
		}
	}
}

func TestYaw(t *testing.T) {
	o := Point{}
	if y := o.Yaw(Point{X: 1}); math.Abs(y) > 1e-9 {
		t.Errorf("yaw east = %v; want 0", y)
	}
	if y := o.Yaw(Point{Y: 1}); math.Abs(y-90) > 1e-9 {
		t.Errorf("yaw north = %v; want 90", y)
	}
}
