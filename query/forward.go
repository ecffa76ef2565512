package query

import (
	"math"

	"github.com/ttpr0/go-hdmap/geo"
	"github.com/ttpr0/go-hdmap/structs"
	. "github.com/ttpr0/go-hdmap/util"
)

//*******************************************
// forward walk
//*******************************************

// upper bound of lanes and links visited by one walk
const MAX_WALK_STEPS = 10000

// Sampled point of a forward walk.
type ForwardPoint struct {
	Point geo.GeoPoint
	Local geo.Point
	Yaw   float64
	// distance from the walk origin
	Distance float64
	Lane     structs.LaneID
	Link     Optional[int64]
}

type _WalkPiece struct {
	lane  structs.LaneID
	link  Optional[int64]
	line  structs.Polyline
	start float64
	// offset of the piece along the walk
	offset float64
	length float64
}

// Path walked forward from an origin.
//
// Points are computed lazily on every call of Points, the walk can be
// iterated any number of times.
type ForwardWalk struct {
	transform geo.Transform
	pieces    List[_WalkPiece]
	interval  float64
	length    float64
}

// Total walked length, shorter than requested if the network ended.
func (self *ForwardWalk) Length() float64 {
	return self.length
}

// Ids of the lanes covered by the walk in walking order.
func (self *ForwardWalk) Path() List[structs.LaneID] {
	path := NewList[structs.LaneID](self.pieces.Length())
	for _, piece := range self.pieces {
		if piece.link.HasValue() {
			continue
		}
		if path.Length() == 0 || path.Last() != piece.lane {
			path.Add(piece.lane)
		}
	}
	return path
}

// Returns the sampled points.
//
// Samples are taken every interval meters starting at the origin, the end
// of the walk is always included. A negative interval yields the two end
// points only.
func (self *ForwardWalk) Points() func(yield func(ForwardPoint) bool) {
	return func(yield func(ForwardPoint) bool) {
		if self.pieces.Length() == 0 {
			return
		}
		if self.interval < 0 {
			if !yield(self._PointAt(0)) {
				return
			}
			if self.length > 0 {
				yield(self._PointAt(self.length))
			}
			return
		}
		count := int(math.Floor(self.length / self.interval))
		for i := 0; i <= count; i++ {
			if !yield(self._PointAt(float64(i) * self.interval)) {
				return
			}
		}
		if float64(count)*self.interval < self.length {
			yield(self._PointAt(self.length))
		}
	}
}

func (self *ForwardWalk) _PointAt(distance float64) ForwardPoint {
	piece := self.pieces[0]
	for _, p := range self.pieces {
		if p.offset > distance {
			break
		}
		piece = p
	}
	local, yaw := piece.line.PointAt(piece.start + distance - piece.offset)
	return ForwardPoint{
		Point:    self.transform.ToGeodetic(local),
		Local:    local,
		Yaw:      yaw,
		Distance: distance,
		Lane:     piece.lane,
		Link:     piece.link,
	}
}

// Walks length meters forward along the network from the lane nearest to
// the position, sampling a point every interval meters.
//
// At every lane end the walk continues on the first of QueryNextLanes. It
// stops early where the network ends.
func (self *Engine) QueryForwardPoints(lon, lat, length, interval float64) (*ForwardWalk, Status) {
	if !self.IsInitialized() {
		return nil, UNINITIALIZED
	}
	if interval == 0 || length < 0 || math.IsNaN(interval) || math.IsNaN(length) {
		return nil, INVALID_ARGUMENT
	}
	origin, status := self._NearestLane(self._ToLocal(lon, lat), DefaultRadius)
	if status != OK {
		return nil, status
	}
	return self._Walk(origin.Lane, origin.Station, length, interval), OK
}

// Same as QueryForwardPoints starting at a station of a known lane.
func (self *Engine) QueryForwardPointsFromLane(lane_id structs.LaneID, station, length, interval float64) (*ForwardWalk, Status) {
	if !self.IsInitialized() {
		return nil, UNINITIALIZED
	}
	if interval == 0 || length < 0 || math.IsNaN(interval) || math.IsNaN(length) {
		return nil, INVALID_ARGUMENT
	}
	lane := self.index.FindLane(lane_id)
	if !lane.HasValue() {
		return nil, NOT_FOUND
	}
	station = math.Max(0, math.Min(station, lane.Value.Length))
	return self._Walk(lane_id, station, length, interval), OK
}

func (self *Engine) _Walk(lane_id structs.LaneID, station, length, interval float64) *ForwardWalk {
	walk := &ForwardWalk{
		transform: self.transform,
		pieces:    NewList[_WalkPiece](4),
		interval:  interval,
	}
	remaining := length
	for step := 0; step < MAX_WALK_STEPS; step++ {
		lane := self.index.FindLane(lane_id)
		if !lane.HasValue() {
			break
		}
		take := math.Min(remaining, math.Max(lane.Value.Length-station, 0))
		walk.pieces.Add(_WalkPiece{lane: lane_id, line: lane.Value.Centerline, start: station, offset: walk.length, length: take})
		walk.length += take
		remaining -= take
		if remaining <= 0 {
			break
		}

		next := self._NextLanes(lane_id)
		if next.Length() == 0 {
			break
		}
		target := next[0]
		if !self._IsSectionSuccessor(lane_id, target) {
			link, ok := self._LinkTo(lane_id, target)
			if !ok {
				break
			}
			take := math.Min(remaining, link.Length)
			walk.pieces.Add(_WalkPiece{lane: lane_id, link: Some(link.ID), line: link.Centerline, offset: walk.length, length: take})
			walk.length += take
			remaining -= take
			if remaining <= 0 {
				break
			}
		}
		lane_id = target
		station = 0
	}
	return walk
}

// Returns the lane link with the smallest id connecting two lanes.
func (self *Engine) _LinkTo(from, to structs.LaneID) (*structs.LaneLink, bool) {
	for _, link := range self.index.LinksFrom(from) {
		if link.To == to {
			return link, true
		}
	}
	return nil, false
}

func (self *Engine) _IsSectionSuccessor(from, to structs.LaneID) bool {
	return from.RoadID == to.RoadID && from.LaneID == to.LaneID && from.SectionID != to.SectionID
}
