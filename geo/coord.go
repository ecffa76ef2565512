package geo

import (
	"math"

	"github.com/paulmach/orb"
)

//*******************************************
// coordinate frames
//*******************************************

// Geodetic WGS84 coordinate (degrees, metres above ellipsoid).
type GeoPoint struct {
	Lon float64 `json:"lon" yaml:"lon"`
	Lat float64 `json:"lat" yaml:"lat"`
	Alt float64 `json:"alt" yaml:"alt"`
}

// Local east-north-up coordinate relative to a Reference (metres).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Spherical web-mercator coordinate (metres).
type MercatorPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Origin of a local frame.
type Reference struct {
	Lon float64 `json:"lon" yaml:"lon"`
	Lat float64 `json:"lat" yaml:"lat"`
	Alt float64 `json:"alt" yaml:"alt"`
}

func (self Reference) GeoPoint() GeoPoint {
	return GeoPoint{Lon: self.Lon, Lat: self.Lat, Alt: self.Alt}
}

func (self Reference) IsValid() bool {
	return self.Lat >= -90 && self.Lat <= 90 && self.Lon >= -180 && self.Lon <= 180
}

//*******************************************
// local point methods
//*******************************************

func (self Point) Add(other Point) Point {
	return Point{self.X + other.X, self.Y + other.Y, self.Z + other.Z}
}
func (self Point) Sub(other Point) Point {
	return Point{self.X - other.X, self.Y - other.Y, self.Z - other.Z}
}
func (self Point) Scale(f float64) Point {
	return Point{self.X * f, self.Y * f, self.Z * f}
}

// Interpolates between self (t=0) and other (t=1).
func (self Point) Lerp(other Point, t float64) Point {
	return Point{
		self.X + (other.X-self.X)*t,
		self.Y + (other.Y-self.Y)*t,
		self.Z + (other.Z-self.Z)*t,
	}
}

// Planar distance, altitude is ignored.
func (self Point) Dist2D(other Point) float64 {
	return math.Hypot(other.X-self.X, other.Y-self.Y)
}
func (self Point) Dist(other Point) float64 {
	dx := other.X - self.X
	dy := other.Y - self.Y
	dz := other.Z - self.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Heading from self to other in degrees, counter-clockwise from east.
func (self Point) Yaw(other Point) float64 {
	return math.Atan2(other.Y-self.Y, other.X-self.X) * 180 / math.Pi
}

func (self Point) Orb() orb.Point {
	return orb.Point{self.X, self.Y}
}

// Normalizes an angle in degrees to (-180, 180].
func NormalizeAngle(deg float64) float64 {
	a := math.Mod(deg, 360)
	if a > 180 {
		a -= 360
	} else if a <= -180 {
		a += 360
	}
	return a
}
