package structs

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/ttpr0/go-hdmap/geo"
)

//*******************************************
// polyline
//*******************************************

// Sequence of points in the local frame.
type Polyline []geo.Point

func (self Polyline) Length() float64 {
	return planar.Length(self.LineString())
}

func (self Polyline) LineString() orb.LineString {
	ls := make(orb.LineString, len(self))
	for i, p := range self {
		ls[i] = p.Orb()
	}
	return ls
}

// Returns the bounding box of the polyline (empty polyline gives the zero bound).
func (self Polyline) Bound() orb.Bound {
	if len(self) == 0 {
		return orb.Bound{}
	}
	return self.LineString().Bound()
}

func (self Polyline) First() geo.Point {
	return self[0]
}
func (self Polyline) Last() geo.Point {
	return self[len(self)-1]
}

// Heading of the first segment in degrees.
func (self Polyline) StartYaw() float64 {
	if len(self) < 2 {
		return 0
	}
	return self[0].Yaw(self[1])
}

// Heading of the last segment in degrees.
func (self Polyline) EndYaw() float64 {
	if len(self) < 2 {
		return 0
	}
	return self[len(self)-2].Yaw(self[len(self)-1])
}

// Result of projecting a point onto a polyline.
type Projection struct {
	// closest point on the polyline
	Point geo.Point
	// arc length from the first point to Point
	Station float64
	// signed perpendicular offset, positive on the left side
	Offset float64
	// planar distance between the query point and Point
	Distance float64
	// heading of the matched segment in degrees
	Yaw     float64
	Segment int
}

// Projects p onto the polyline.
//
// Returns false if the polyline is empty.
func (self Polyline) Project(p geo.Point) (Projection, bool) {
	if len(self) == 0 {
		return Projection{}, false
	}
	if len(self) == 1 {
		return Projection{Point: self[0], Distance: self[0].Dist2D(p)}, true
	}
	best := Projection{Distance: math.Inf(1)}
	station := 0.0
	for i := 0; i < len(self)-1; i++ {
		a := self[i]
		b := self[i+1]
		dx := b.X - a.X
		dy := b.Y - a.Y
		seg_len := math.Hypot(dx, dy)
		if seg_len == 0 {
			continue
		}
		t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / (seg_len * seg_len)
		t = math.Max(0, math.Min(1, t))
		proj := a.Lerp(b, t)
		dist := proj.Dist2D(p)
		if dist < best.Distance {
			cross := (dx*(p.Y-a.Y) - dy*(p.X-a.X)) / seg_len
			best = Projection{
				Point:    proj,
				Station:  station + t*seg_len,
				Offset:   cross,
				Distance: dist,
				Yaw:      a.Yaw(b),
				Segment:  i,
			}
		}
		station += seg_len
	}
	if math.IsInf(best.Distance, 1) {
		// all segments degenerate
		return Projection{Point: self[0], Distance: self[0].Dist2D(p)}, true
	}
	return best, true
}

// Returns the point at the given arc length (clamped to the polyline) and the heading there.
func (self Polyline) PointAt(station float64) (geo.Point, float64) {
	if len(self) == 0 {
		return geo.Point{}, 0
	}
	if len(self) == 1 {
		return self[0], 0
	}
	if station <= 0 {
		return self[0], self.StartYaw()
	}
	walked := 0.0
	for i := 0; i < len(self)-1; i++ {
		a := self[i]
		b := self[i+1]
		seg_len := a.Dist2D(b)
		if seg_len == 0 {
			continue
		}
		if walked+seg_len >= station {
			return a.Lerp(b, (station-walked)/seg_len), a.Yaw(b)
		}
		walked += seg_len
	}
	return self.Last(), self.EndYaw()
}

// Returns the point at station moved sideways by offset (positive to the left).
func (self Polyline) OffsetPointAt(station, offset float64) (geo.Point, float64) {
	p, yaw := self.PointAt(station)
	rad := yaw * math.Pi / 180
	return geo.Point{
		X: p.X - math.Sin(rad)*offset,
		Y: p.Y + math.Cos(rad)*offset,
		Z: p.Z,
	}, yaw
}

// Returns the part of the polyline between two stations.
func (self Polyline) Slice(from, to float64) Polyline {
	if len(self) < 2 || to <= from {
		p, _ := self.PointAt(from)
		return Polyline{p}
	}
	start, _ := self.PointAt(from)
	line := Polyline{start}
	walked := 0.0
	for i := 0; i < len(self)-1; i++ {
		walked += self[i].Dist2D(self[i+1])
		if walked > from && walked < to {
			line = append(line, self[i+1])
		}
	}
	end, _ := self.PointAt(to)
	line = append(line, end)
	return line
}
