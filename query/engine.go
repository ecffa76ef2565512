package query

import (
	"math"

	"github.com/ttpr0/go-hdmap/comps"
	"github.com/ttpr0/go-hdmap/geo"
	"github.com/ttpr0/go-hdmap/structs"
	. "github.com/ttpr0/go-hdmap/util"
)

// Default search radius in meters, used for radius <= 0.
var DefaultRadius = 5.0

// Lane distance below which a lane match always wins over a lane link.
const NEARBY_LANE_THRESHOLD = 0.01

//*******************************************
// query engine
//*******************************************

// Answers spatial and topological queries against one map index.
//
// The zero Engine is uninitialized, every query on it returns UNINITIALIZED.
// An initialized engine is safe for concurrent use.
type Engine struct {
	index       comps.IMapIndex
	transform   geo.Transform
	initialized bool
}

func NewEngine(index comps.IMapIndex) *Engine {
	if index == nil {
		return &Engine{}
	}
	return &Engine{
		index:       index,
		transform:   index.Transform(),
		initialized: true,
	}
}

func (self *Engine) IsInitialized() bool {
	return self != nil && self.initialized
}

func (self *Engine) Index() comps.IMapIndex {
	return self.index
}

func (self *Engine) Reference() geo.Reference {
	return self.transform.Reference()
}

// Converts a query position into the local frame at reference height.
func (self *Engine) _ToLocal(lon, lat float64) geo.Point {
	return self.transform.ToLocal(geo.GeoPoint{Lon: lon, Lat: lat, Alt: self.transform.Reference().Alt})
}

//*******************************************
// results
//*******************************************

// Projection of a position onto a lane or lane link.
type Match struct {
	// matched point on the centerline
	Point geo.GeoPoint
	Local geo.Point
	// arc length along the centerline
	Station float64
	// signed lateral offset, positive to the left
	Offset float64
	// planar distance to the centerline
	Distance float64
	Width    float64
	Yaw      float64
}

type LaneMatch struct {
	Lane structs.LaneID
	Match
}

type LinkMatch struct {
	Link int64
	From structs.LaneID
	To   structs.LaneID
	Match
}

// Result of QueryNearbyInfo.
type NearbyInfo struct {
	// true if the lane link won over the lane
	OnLink bool
	Lane   Optional[LaneMatch]
	Link   Optional[LinkMatch]
}

// Position on the map with the lane attributes there.
type PointInfo struct {
	Point geo.GeoPoint
	Local geo.Point
	Width float64
	Yaw   float64
}

func (self *Engine) _Match(proj structs.Projection, width float64) Match {
	return Match{
		Point:    self.transform.ToGeodetic(proj.Point),
		Local:    proj.Point,
		Station:  proj.Station,
		Offset:   proj.Offset,
		Distance: proj.Distance,
		Width:    width,
		Yaw:      proj.Yaw,
	}
}

//*******************************************
// nearest lane and lane link
//*******************************************

// Finds the lane whose centerline is closest to the position within radius.
//
// A radius <= 0 selects DefaultRadius. Ties go to the smaller lane id.
func (self *Engine) QuerySection(lon, lat, radius float64) (LaneMatch, Status) {
	if !self.IsInitialized() {
		return LaneMatch{}, UNINITIALIZED
	}
	if radius <= 0 {
		radius = DefaultRadius
	}
	p := self._ToLocal(lon, lat)
	return self._NearestLane(p, radius)
}

func (self *Engine) _NearestLane(p geo.Point, radius float64) (LaneMatch, Status) {
	best := LaneMatch{}
	best.Distance = math.Inf(1)
	found := false
	for _, id := range self.index.Spatial().SearchLanes(p.Orb(), radius) {
		lane := self.index.FindLane(id)
		if !lane.HasValue() {
			continue
		}
		proj, ok := lane.Value.Centerline.Project(p)
		if !ok || proj.Distance > radius || proj.Distance >= best.Distance {
			continue
		}
		best = LaneMatch{
			Lane:  id,
			Match: self._Match(proj, lane.Value.Attr.Width),
		}
		found = true
	}
	if !found {
		return LaneMatch{}, NOT_FOUND
	}
	return best, OK
}

// Finds the lane link whose centerline is closest to the position within radius.
func (self *Engine) QueryLaneLink(lon, lat, radius float64) (LinkMatch, Status) {
	if !self.IsInitialized() {
		return LinkMatch{}, UNINITIALIZED
	}
	if radius <= 0 {
		radius = DefaultRadius
	}
	p := self._ToLocal(lon, lat)
	return self._NearestLink(p, radius)
}

func (self *Engine) _NearestLink(p geo.Point, radius float64) (LinkMatch, Status) {
	best := LinkMatch{}
	best.Distance = math.Inf(1)
	found := false
	for _, id := range self.index.Spatial().SearchLaneLinks(p.Orb(), radius) {
		link := self.index.FindLaneLink(id)
		if !link.HasValue() {
			continue
		}
		proj, ok := link.Value.Centerline.Project(p)
		if !ok || proj.Distance > radius || proj.Distance >= best.Distance {
			continue
		}
		best = LinkMatch{
			Link:  id,
			From:  link.Value.From,
			To:    link.Value.To,
			Match: self._Match(proj, link.Value.Attr.Width),
		}
		found = true
	}
	if !found {
		return LinkMatch{}, NOT_FOUND
	}
	return best, OK
}

// Matches the position against lanes and lane links within DefaultRadius.
//
// When both match, the lane link is chosen only if its offset is strictly
// smaller in magnitude than the lane's and the lane distance is at least
// NEARBY_LANE_THRESHOLD.
func (self *Engine) QueryNearbyInfo(lon, lat float64) (NearbyInfo, Status) {
	if !self.IsInitialized() {
		return NearbyInfo{}, UNINITIALIZED
	}
	p := self._ToLocal(lon, lat)
	lane, lane_status := self._NearestLane(p, DefaultRadius)
	link, link_status := self._NearestLink(p, DefaultRadius)

	info := NearbyInfo{}
	if lane_status == OK {
		info.Lane = Some(lane)
	}
	if link_status == OK {
		info.Link = Some(link)
	}
	switch {
	case lane_status == OK && link_status == OK:
		info.OnLink = math.Abs(link.Offset) < math.Abs(lane.Offset) && lane.Distance >= NEARBY_LANE_THRESHOLD
	case lane_status == OK:
		info.OnLink = false
	case link_status == OK:
		info.OnLink = true
	default:
		return NearbyInfo{}, NOT_FOUND
	}
	return info, OK
}

//*******************************************
// lane relative positions
//*******************************************

func (self *Engine) _PointInfo(line structs.Polyline, station, offset, width float64) PointInfo {
	p, yaw := line.OffsetPointAt(station, offset)
	return PointInfo{
		Point: self.transform.ToGeodetic(p),
		Local: p,
		Width: width,
		Yaw:   yaw,
	}
}

// Returns the position at station along the lane, moved sideways by offset.
//
// The station is clamped to the lane.
func (self *Engine) QueryLonLat(lane_id structs.LaneID, station, offset float64) (PointInfo, Status) {
	if !self.IsInitialized() {
		return PointInfo{}, UNINITIALIZED
	}
	lane := self.index.FindLane(lane_id)
	if !lane.HasValue() || len(lane.Value.Centerline) == 0 {
		return PointInfo{}, NOT_FOUND
	}
	return self._PointInfo(lane.Value.Centerline, station, offset, lane.Value.Attr.Width), OK
}

// Projects the position onto the lane and returns the point distance meters
// further along the lane, moved sideways by offset.
func (self *Engine) QueryLonLatByPoint(lane_id structs.LaneID, lon, lat, distance, offset float64) (PointInfo, Status) {
	if !self.IsInitialized() {
		return PointInfo{}, UNINITIALIZED
	}
	lane := self.index.FindLane(lane_id)
	if !lane.HasValue() {
		return PointInfo{}, NOT_FOUND
	}
	proj, ok := lane.Value.Centerline.Project(self._ToLocal(lon, lat))
	if !ok {
		return PointInfo{}, NOT_FOUND
	}
	return self._PointInfo(lane.Value.Centerline, proj.Station+distance, offset, lane.Value.Attr.Width), OK
}

// Same as QueryLonLatByPoint on a lane link.
func (self *Engine) QueryLonLatByPointOnLanelink(link_id int64, lon, lat, distance, offset float64) (PointInfo, Status) {
	if !self.IsInitialized() {
		return PointInfo{}, UNINITIALIZED
	}
	link := self.index.FindLaneLink(link_id)
	if !link.HasValue() {
		return PointInfo{}, NOT_FOUND
	}
	proj, ok := link.Value.Centerline.Project(self._ToLocal(lon, lat))
	if !ok {
		return PointInfo{}, NOT_FOUND
	}
	return self._PointInfo(link.Value.Centerline, proj.Station+distance, offset, link.Value.Attr.Width), OK
}

//*******************************************
// topology
//*******************************************

// Returns the lanes following a lane: the same lane in the next section
// first, then the targets of lane links in link id order.
func (self *Engine) QueryNextLanes(lane_id structs.LaneID) (List[structs.LaneID], Status) {
	if !self.IsInitialized() {
		return nil, UNINITIALIZED
	}
	if !self.index.FindLane(lane_id).HasValue() {
		return nil, NOT_FOUND
	}
	return self._NextLanes(lane_id), OK
}

func (self *Engine) _NextLanes(lane_id structs.LaneID) List[structs.LaneID] {
	result := NewList[structs.LaneID](2)
	for _, s := range self.index.Topology().Successors(lane_id) {
		if !s.Link.HasValue() {
			result.Add(s.Lane)
		}
	}
	for _, link := range self.index.LinksFrom(lane_id) {
		if !_ContainsLane(result, link.To) {
			result.Add(link.To)
		}
	}
	return result
}

func _ContainsLane(list List[structs.LaneID], id structs.LaneID) bool {
	for _, l := range list {
		if l == id {
			return true
		}
	}
	return false
}

// Returns the first lane of QueryNextLanes.
func (self *Engine) QueryNextLane(lane_id structs.LaneID) (structs.LaneID, Status) {
	lanes, status := self.QueryNextLanes(lane_id)
	if status != OK {
		return structs.INVALID_LANE, status
	}
	if lanes.Length() == 0 {
		return structs.INVALID_LANE, NOT_FOUND
	}
	return lanes[0], OK
}

// Returns the shortest lane sequence between two lanes.
func (self *Engine) QueryRoute(from, to structs.LaneID) (List[structs.LaneID], Status) {
	if !self.IsInitialized() {
		return nil, UNINITIALIZED
	}
	route, err := self.index.Topology().Route(from, to)
	if err != nil {
		return nil, NOT_FOUND
	}
	return route, OK
}

//*******************************************
// entities
//*******************************************

// Returns the left and right boundary of a lane. Missing boundaries are nil.
func (self *Engine) QueryLaneBoundaries(lane_id structs.LaneID) ([2]*structs.LaneBoundary, Status) {
	if !self.IsInitialized() {
		return [2]*structs.LaneBoundary{}, UNINITIALIZED
	}
	lane := self.index.FindLane(lane_id)
	if !lane.HasValue() {
		return [2]*structs.LaneBoundary{}, NOT_FOUND
	}
	result := [2]*structs.LaneBoundary{}
	for i, id := range lane.Value.Boundaries {
		if b := self.index.FindLaneBoundary(id); b.HasValue() {
			result[i] = b.Value
		}
	}
	return result, OK
}

// Returns the map objects positioned within radius of the position, ordered by id.
func (self *Engine) QueryObjectsNear(lon, lat, radius float64) (List[*structs.MapObject], Status) {
	if !self.IsInitialized() {
		return nil, UNINITIALIZED
	}
	if radius <= 0 {
		radius = DefaultRadius
	}
	p := self._ToLocal(lon, lat)
	result := NewList[*structs.MapObject](4)
	for _, id := range self.index.Spatial().SearchObjects(p.Orb(), radius) {
		object := self.index.FindMapObject(id)
		if object.HasValue() && object.Value.Pose.Position.Dist2D(p) <= radius {
			result.Add(object.Value)
		}
	}
	if result.Length() == 0 {
		return nil, NOT_FOUND
	}
	return result, OK
}
