package parser

import (
	"github.com/ttpr0/go-hdmap/attr"
	"github.com/ttpr0/go-hdmap/geo"
	"github.com/ttpr0/go-hdmap/structs"
	. "github.com/ttpr0/go-hdmap/util"
)

//*******************************************
// map reader
//*******************************************

// Source of vendor map entities.
//
// All geometry returned by a reader is geodetic. Records are plain values,
// the loader converts them into entities of the local frame.
type IMapReader interface {
	Roads() ([]RawRoad, error)
	// Returns all lanes of all sections of a road.
	Lanes(road_id int64) ([]RawLane, error)
	// Returns the boundaries with the given ids, missing ids are skipped.
	LaneBoundaries(ids []int64) ([]RawBoundary, error)
	LaneLinks() ([]RawLaneLink, error)
	Objects() ([]RawObject, error)
	Junctions() ([]RawJunction, error)
	Close() error
}

//*******************************************
// raw records
//*******************************************

type RawRoad struct {
	ID         int64
	TaskID     int64
	Type       attr.RoadType
	Direction  attr.Direction
	Material   int32
	Centerline []geo.GeoPoint
	Sections   []RawSection
}

type RawSection struct {
	ID                 int64
	Length             float64
	DistanceToJunction float64
}

type RawMesh struct {
	Vertices []geo.GeoPoint
	Indices  []int32
}

type RawLane struct {
	ID         structs.LaneID
	Attr       attr.LaneAttribs
	Centerline []geo.GeoPoint
	Boundaries [2]int64
	Mesh       Optional[RawMesh]
}

type RawBoundary struct {
	ID     int64
	Mark   attr.MarkType
	Points []geo.GeoPoint
}

type RawLaneLink struct {
	ID         int64
	From       structs.LaneID
	To         structs.LaneID
	JunctionID int64
	Attr       attr.LaneAttribs
	Centerline []geo.GeoPoint
}

// Pose of an object in the geodetic frame.
type GeoPose struct {
	Position geo.GeoPoint
	Length   float64
	Width    float64
	Height   float64
	Roll     float64
	Pitch    float64
	Yaw      float64
}

type RawObject struct {
	ID           int64
	Type         attr.ObjectType
	Name         string
	Points       []geo.GeoPoint
	Pose         GeoPose
	GroundHeight float64
	ReliedLanes  []structs.LaneID
	Parking      Optional[structs.ParkingSpace]
	Tags         map[string]string
}

type RawJunction struct {
	ID        int64
	LaneLinks []int64
}
