package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
	"gonum.org/v1/gonum/spatial/r3"
)

//*******************************************
// wgs84 ellipsoid
//*******************************************

const (
	WGS84_A  = 6378137.0
	WGS84_F  = 1 / 298.257223563
	WGS84_E2 = WGS84_F * (2 - WGS84_F)
	WGS84_B  = WGS84_A * (1 - WGS84_F)
)

func _DegToRad(d float64) float64 {
	return d * math.Pi / 180
}
func _RadToDeg(r float64) float64 {
	return r * 180 / math.Pi
}

func _GeodeticToECEF(p GeoPoint) r3.Vec {
	lat := _DegToRad(p.Lat)
	lon := _DegToRad(p.Lon)
	sin_lat := math.Sin(lat)
	cos_lat := math.Cos(lat)
	n := WGS84_A / math.Sqrt(1-WGS84_E2*sin_lat*sin_lat)
	return r3.Vec{
		X: (n + p.Alt) * cos_lat * math.Cos(lon),
		Y: (n + p.Alt) * cos_lat * math.Sin(lon),
		Z: (n*(1-WGS84_E2) + p.Alt) * sin_lat,
	}
}

func _ECEFToGeodetic(v r3.Vec) GeoPoint {
	lon := math.Atan2(v.Y, v.X)
	p := math.Hypot(v.X, v.Y)
	if p < 1e-9 {
		lat := math.Pi / 2
		if v.Z < 0 {
			lat = -lat
		}
		return GeoPoint{Lon: 0, Lat: _RadToDeg(lat), Alt: math.Abs(v.Z) - WGS84_B}
	}
	lat := math.Atan2(v.Z, p*(1-WGS84_E2))
	h := 0.0
	for i := 0; i < 20; i++ {
		sin_lat := math.Sin(lat)
		n := WGS84_A / math.Sqrt(1-WGS84_E2*sin_lat*sin_lat)
		h = p/math.Cos(lat) - n
		next := math.Atan2(v.Z, p*(1-WGS84_E2*n/(n+h)))
		if math.Abs(next-lat) < 1e-15 {
			lat = next
			break
		}
		lat = next
	}
	return GeoPoint{Lon: _RadToDeg(lon), Lat: _RadToDeg(lat), Alt: h}
}

//*******************************************
// transform
//*******************************************

// Converts between geodetic, local (east-north-up) and mercator coordinates.
//
// A Transform only depends on its reference point and is safe for concurrent use.
type Transform struct {
	ref    Reference
	origin r3.Vec
	// rows are the east, north and up unit vectors in ecef
	rot *r3.Mat
}

func NewTransform(ref Reference) Transform {
	lat := _DegToRad(ref.Lat)
	lon := _DegToRad(ref.Lon)
	sin_lat, cos_lat := math.Sin(lat), math.Cos(lat)
	sin_lon, cos_lon := math.Sin(lon), math.Cos(lon)
	rot := r3.NewMat([]float64{
		-sin_lon, cos_lon, 0,
		-sin_lat * cos_lon, -sin_lat * sin_lon, cos_lat,
		cos_lat * cos_lon, cos_lat * sin_lon, sin_lat,
	})
	return Transform{
		ref:    ref,
		origin: _GeodeticToECEF(ref.GeoPoint()),
		rot:    rot,
	}
}

func (self Transform) Reference() Reference {
	return self.ref
}

func (self Transform) IsValid() bool {
	return self.rot != nil
}

func (self Transform) ToLocal(p GeoPoint) Point {
	d := r3.Sub(_GeodeticToECEF(p), self.origin)
	enu := self.rot.MulVec(d)
	return Point{X: enu.X, Y: enu.Y, Z: enu.Z}
}

func (self Transform) ToGeodetic(p Point) GeoPoint {
	d := self.rot.MulVecTrans(r3.Vec{X: p.X, Y: p.Y, Z: p.Z})
	return _ECEFToGeodetic(r3.Add(d, self.origin))
}

func (self Transform) LocalToMercator(p Point) MercatorPoint {
	return ToMercator(self.ToGeodetic(p))
}

// Altitude is lost in mercator, alt gives the height of the resulting local point.
func (self Transform) MercatorToLocal(p MercatorPoint, alt float64) Point {
	g := FromMercator(p)
	g.Alt = alt
	return self.ToLocal(g)
}

//*******************************************
// mercator
//*******************************************

func ToMercator(p GeoPoint) MercatorPoint {
	m := project.Point(orb.Point{p.Lon, p.Lat}, project.WGS84.ToMercator)
	return MercatorPoint{X: m[0], Y: m[1]}
}

func FromMercator(p MercatorPoint) GeoPoint {
	g := project.Point(orb.Point{p.X, p.Y}, project.Mercator.ToWGS84)
	return GeoPoint{Lon: g[0], Lat: g[1]}
}
