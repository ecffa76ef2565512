package parser

import (
	"math"

	"github.com/ttpr0/go-hdmap/attr"
	"github.com/ttpr0/go-hdmap/geo"
	"github.com/ttpr0/go-hdmap/structs"
	. "github.com/ttpr0/go-hdmap/util"
)

//*******************************************
// in-memory map reader
//*******************************************

var _ IMapReader = &MemoryReader{}

// Map reader serving records held in memory.
//
// Used for synthetic maps and by collaborators converting foreign formats.
type MemoryReader struct {
	roads      List[RawRoad]
	lanes      Dict[int64, []RawLane]
	boundaries Dict[int64, RawBoundary]
	links      List[RawLaneLink]
	objects    List[RawObject]
	junctions  Dict[int64, List[int64]]
	closed     bool
}

func NewMemoryReader() *MemoryReader {
	return &MemoryReader{
		roads:      NewList[RawRoad](10),
		lanes:      NewDict[int64, []RawLane](10),
		boundaries: NewDict[int64, RawBoundary](10),
		links:      NewList[RawLaneLink](10),
		objects:    NewList[RawObject](10),
		junctions:  NewDict[int64, List[int64]](10),
	}
}

func (self *MemoryReader) Roads() ([]RawRoad, error) {
	return self.roads, nil
}
func (self *MemoryReader) Lanes(road_id int64) ([]RawLane, error) {
	return self.lanes[road_id], nil
}
func (self *MemoryReader) LaneBoundaries(ids []int64) ([]RawBoundary, error) {
	bounds := NewList[RawBoundary](len(ids))
	for _, id := range ids {
		if b, ok := self.boundaries[id]; ok {
			b.Points = append([]geo.GeoPoint(nil), b.Points...)
			bounds.Add(b)
		}
	}
	return bounds, nil
}
func (self *MemoryReader) LaneLinks() ([]RawLaneLink, error) {
	return self.links, nil
}
func (self *MemoryReader) Objects() ([]RawObject, error) {
	return self.objects, nil
}
func (self *MemoryReader) Junctions() ([]RawJunction, error) {
	junctions := NewList[RawJunction](self.junctions.Length())
	for _, id := range SortedKeys(self.junctions) {
		junctions.Add(RawJunction{ID: id, LaneLinks: self.junctions[id]})
	}
	return junctions, nil
}
func (self *MemoryReader) Close() error {
	self.closed = true
	return nil
}

// Returns if Close has been called.
func (self *MemoryReader) IsClosed() bool {
	return self.closed
}

//*******************************************
// building
//*******************************************

func (self *MemoryReader) AddRoad(road RawRoad, lanes []RawLane) {
	self.roads.Add(road)
	self.lanes[road.ID] = append(self.lanes[road.ID], lanes...)
}

// Adds a boundary, replacing a boundary with the same id.
func (self *MemoryReader) AddBoundary(boundary RawBoundary) {
	self.boundaries[boundary.ID] = boundary
}

func (self *MemoryReader) AddLaneLink(link RawLaneLink) {
	self.links.Add(link)
	if link.JunctionID != 0 {
		l := self.junctions[link.JunctionID]
		l.Add(link.ID)
		self.junctions[link.JunctionID] = l
	}
}

func (self *MemoryReader) AddObject(object RawObject) {
	self.objects.Add(object)
}

// Adds a straight road starting at start with the given heading (degrees
// counter-clockwise from east) and length in meters.
//
// The road is split into equally long sections (ids 0..sections-1), each
// carrying lanes 1..lanes laid out to the right of the road line.
// Boundary k of section s gets id road*1000 + s*100 + k.
func (self *MemoryReader) AddStraightRoad(id int64, start geo.GeoPoint, heading, length float64, sections, lanes int, lane_attr attr.LaneAttribs) RawRoad {
	if lane_attr.Width <= 0 {
		lane_attr.Width = DEFAULT_LANE_WIDTH
	}
	end := _MoveGeo(start, heading, length)
	road := RawRoad{
		ID:         id,
		Type:       attr.ROAD_URBAN,
		Direction:  attr.DIRECTION_FORWARD,
		Centerline: []geo.GeoPoint{start, end},
	}
	section_length := length / float64(sections)
	raw_lanes := NewList[RawLane](sections * lanes)
	for s := 0; s < sections; s++ {
		s_start := _MoveGeo(start, heading, float64(s)*section_length)
		s_end := _MoveGeo(start, heading, float64(s+1)*section_length)
		s_line := []geo.GeoPoint{s_start, s_end}
		road.Sections = append(road.Sections, RawSection{ID: int64(s), Length: section_length})
		for k := 0; k <= lanes; k++ {
			mark := attr.MARK_BROKEN
			if k == 0 || k == lanes {
				mark = attr.MARK_SOLID
			}
			self.AddBoundary(RawBoundary{
				ID:     id*1000 + int64(s)*100 + int64(k),
				Mark:   mark,
				Points: _OffsetLine(s_line, -float64(k)*lane_attr.Width),
			})
		}
		for i := 1; i <= lanes; i++ {
			raw_lanes.Add(RawLane{
				ID:         structs.NewLaneID(id, int64(s), int64(i)),
				Attr:       lane_attr,
				Centerline: _OffsetLine(s_line, -(float64(i)-0.5)*lane_attr.Width),
				Boundaries: [2]int64{id*1000 + int64(s)*100 + int64(i-1), id*1000 + int64(s)*100 + int64(i)},
			})
		}
	}
	self.AddRoad(road, raw_lanes)
	return road
}

// Connects every lane of the last section of road from with the lanes of the
// first section of road to. Returns the ids of the new lane links.
func (self *MemoryReader) ConnectRoads(from, to int64, junction int64) []int64 {
	from_lanes := _SectionLanes(self.lanes[from], true)
	to_lanes := _SectionLanes(self.lanes[to], false)
	if len(from_lanes) == 0 || len(to_lanes) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(from_lanes))
	for i, lane := range from_lanes {
		target := to_lanes[min(i, len(to_lanes)-1)]
		link := RawLaneLink{
			ID:         int64(self.links.Length() + 1),
			From:       lane.ID,
			To:         target.ID,
			JunctionID: junction,
			Attr:       target.Attr,
			Centerline: _ConnectLines(lane.Centerline, target.Centerline),
		}
		self.AddLaneLink(link)
		ids = append(ids, link.ID)
	}
	return ids
}

// Returns the lanes of the last (or first) section.
func _SectionLanes(lanes []RawLane, last bool) []RawLane {
	if len(lanes) == 0 {
		return nil
	}
	section := lanes[0].ID.SectionID
	for _, l := range lanes {
		if last && l.ID.SectionID > section || !last && l.ID.SectionID < section {
			section = l.ID.SectionID
		}
	}
	result := make([]RawLane, 0, 4)
	for _, l := range lanes {
		if l.ID.SectionID == section {
			result = append(result, l)
		}
	}
	return result
}

// Moves a geodetic point dist meters into the given heading.
func _MoveGeo(p geo.GeoPoint, heading, dist float64) geo.GeoPoint {
	mx, my := _MetersPerDegree(p.Lat)
	rad := heading * math.Pi / 180
	return geo.GeoPoint{
		Lon: p.Lon + math.Cos(rad)*dist/mx,
		Lat: p.Lat + math.Sin(rad)*dist/my,
		Alt: p.Alt,
	}
}

// Returns the end point of a road line.
func RoadEnd(road RawRoad) geo.GeoPoint {
	return road.Centerline[len(road.Centerline)-1]
}
