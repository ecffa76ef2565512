package structs

import (
	"github.com/paulmach/orb"
	"github.com/ttpr0/go-hdmap/attr"
	"github.com/ttpr0/go-hdmap/geo"
	. "github.com/ttpr0/go-hdmap/util"
)

//*******************************************
// roads
//*******************************************

type Road struct {
	ID         int64
	TaskID     int64
	Type       attr.RoadType
	Direction  attr.Direction
	Material   int32
	Centerline Polyline
	Length     float64
	Sections   List[*Section]
	Bound      orb.Bound
}

// Returns the section with the given id.
func (self *Road) GetSection(id int64) (*Section, bool) {
	for _, s := range self.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// Returns the section following the given one along the road.
func (self *Road) NextSection(id int64) (*Section, bool) {
	for i, s := range self.Sections {
		if s.ID == id && i+1 < self.Sections.Length() {
			return self.Sections[i+1], true
		}
	}
	return nil, false
}

type Section struct {
	ID     int64
	RoadID int64
	Length float64
	// distance from the end of the section to the next junction
	DistanceToJunction float64
	Lanes              List[*Lane]
}

func (self *Section) GetLane(id int64) (*Lane, bool) {
	for _, l := range self.Lanes {
		if l.ID.LaneID == id {
			return l, true
		}
	}
	return nil, false
}

//*******************************************
// lanes
//*******************************************

// Triangle mesh of a lane surface.
type Mesh struct {
	Vertices []geo.Point
	Indices  []int32
}

type Lane struct {
	ID         LaneID
	Attr       attr.LaneAttribs
	Centerline Polyline
	Length     float64
	// ids of the left and right boundary
	Boundaries [2]int64
	Mesh       Optional[Mesh]
	Bound      orb.Bound
}

func (self *Lane) LeftBoundary() int64 {
	return self.Boundaries[0]
}
func (self *Lane) RightBoundary() int64 {
	return self.Boundaries[1]
}

type LaneBoundary struct {
	ID     int64
	Mark   attr.MarkType
	Points Polyline
	Bound  orb.Bound
}

// Drivable connection between two lanes inside a junction.
type LaneLink struct {
	ID         int64
	From       LaneID
	To         LaneID
	JunctionID int64
	Attr       attr.LaneAttribs
	Centerline Polyline
	Length     float64
	Bound      orb.Bound
}

type Junction struct {
	ID        int64
	LaneLinks List[int64]
	Bound     orb.Bound
}

//*******************************************
// objects
//*******************************************

// Position and orientation of an object in the local frame.
type Pose struct {
	Position geo.Point
	Length   float64
	Width    float64
	Height   float64
	// rotation in degrees
	Roll  float64
	Pitch float64
	Yaw   float64
}

type ParkingSpace struct {
	Heading   float64 `json:"heading"`
	Width     float64 `json:"width"`
	Length    float64 `json:"length"`
	MarkWidth float64 `json:"mark_width"`
	Count     int32   `json:"count"`
	Spacing   float64 `json:"spacing"`
}

type MapObject struct {
	ID           int64
	Type         attr.ObjectType
	Name         string
	Points       Polyline
	Pose         Pose
	GroundHeight float64
	ReliedLanes  List[LaneID]
	Parking      Optional[ParkingSpace]
	Tags         Dict[string, string]
	Bound        orb.Bound
}

// Returns the tag value or "" if absent.
func (self *MapObject) Tag(key string) string {
	if self.Tags == nil {
		return ""
	}
	return self.Tags[key]
}
