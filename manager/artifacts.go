package manager

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"

	"github.com/ttpr0/go-hdmap/attr"
	"github.com/ttpr0/go-hdmap/comps"
	"github.com/ttpr0/go-hdmap/geo"
	"github.com/ttpr0/go-hdmap/structs"
	. "github.com/ttpr0/go-hdmap/util"
)

//*******************************************
// categories
//*******************************************

// Kind of serialized artifact composed for every map.
type Category int8

const (
	ROADS      Category = 0
	LANES      Category = 1
	BOUNDARIES Category = 2
	LANELINKS  Category = 3
	OBJECTS    Category = 4
)

const CATEGORY_COUNT = 5

var category_names = []string{"roads", "lanes", "boundaries", "lanelinks", "objects"}

func Categories() []Category {
	return []Category{ROADS, LANES, BOUNDARIES, LANELINKS, OBJECTS}
}

func (self Category) String() string {
	if self < 0 || int(self) >= len(category_names) {
		return "unknown"
	}
	return category_names[self]
}
func CategoryFromString(name string) (Category, error) {
	for i, n := range category_names {
		if n == name {
			return Category(i), nil
		}
	}
	return ROADS, errors.New("invalid category")
}

//*******************************************
// coordinates
//*******************************************

// Truncates (not rounds) a value to 8 decimal digits.
func Truncate8(v float64) float64 {
	return math.Trunc(v*1e8) / 1e8
}

// Number emitted truncated to 8 decimal digits.
type Coord float64

func (self Coord) MarshalJSON() ([]byte, error) {
	v := float64(self)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, Truncate8(v), 'f', -1, 64), nil
}

type XYZ struct {
	X Coord `json:"x"`
	Y Coord `json:"y"`
	Z Coord `json:"z"`
}

func _XYZ(p geo.Point) XYZ {
	return XYZ{X: Coord(p.X), Y: Coord(p.Y), Z: Coord(p.Z)}
}

func _Points(line structs.Polyline) []XYZ {
	points := make([]XYZ, len(line))
	for i, p := range line {
		points[i] = _XYZ(p)
	}
	return points
}

// Top level shape of every artifact.
type _Artifact[T any] struct {
	Count int `json:"count"`
	Array []T `json:"array"`
}

func _Encode[T any](items []T) (string, error) {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(_Artifact[T]{Count: len(items), Array: items})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

//*******************************************
// entity records
//*******************************************

type _SectionRecord struct {
	ID                 int64            `json:"id"`
	Length             Coord            `json:"length"`
	DistanceToJunction Coord            `json:"distance_to_junction"`
	Lanes              []structs.LaneID `json:"lanes"`
}

type _RoadRecord struct {
	ID        int64            `json:"id"`
	TaskID    int64            `json:"task_id"`
	Type      attr.RoadType    `json:"type"`
	Direction attr.Direction   `json:"direction"`
	Material  int32            `json:"material"`
	Length    Coord            `json:"length"`
	Sections  []_SectionRecord `json:"sections"`
	Array     []XYZ            `json:"array"`
}

type _LaneRecord struct {
	structs.LaneID
	Type       attr.LaneType  `json:"type"`
	Arrow      attr.LaneArrow `json:"arrow"`
	Width      Coord          `json:"width"`
	SpeedLimit Coord          `json:"speed_limit"`
	Length     Coord          `json:"length"`
	Boundaries [2]int64       `json:"boundaries"`
	Array      []XYZ          `json:"array"`
}

type _BoundaryRecord struct {
	ID    int64         `json:"id"`
	Mark  attr.MarkType `json:"mark"`
	Array []XYZ         `json:"array"`
}

type _LaneLinkRecord struct {
	ID         int64          `json:"id"`
	From       structs.LaneID `json:"from"`
	To         structs.LaneID `json:"to"`
	JunctionID int64          `json:"junction_id"`
	Width      Coord          `json:"width"`
	Length     Coord          `json:"length"`
	Array      []XYZ          `json:"array"`
}

type _ObjectRecord struct {
	ID           int64                 `json:"id"`
	Type         attr.ObjectType       `json:"type"`
	Name         string                `json:"name"`
	Position     XYZ                   `json:"position"`
	Length       Coord                 `json:"length"`
	Width        Coord                 `json:"width"`
	Height       Coord                 `json:"height"`
	Roll         Coord                 `json:"roll"`
	Pitch        Coord                 `json:"pitch"`
	Yaw          Coord                 `json:"yaw"`
	GroundHeight Coord                 `json:"ground_height"`
	ReliedLanes  []structs.LaneID      `json:"relied_lanes"`
	Parking      *structs.ParkingSpace `json:"parking,omitempty"`
	UserData     map[string]string     `json:"user_data"`
	Array        []XYZ                 `json:"array"`
}

//*******************************************
// composition
//*******************************************

// Composes the serialized artifacts of every category.
func ComposeArtifacts(index comps.IMapIndex) (Array[string], error) {
	artifacts := NewArray[string](CATEGORY_COUNT)
	for _, category := range Categories() {
		artifact, err := ComposeArtifact(index, category)
		if err != nil {
			return nil, err
		}
		artifacts[category] = artifact
	}
	return artifacts, nil
}

func ComposeArtifact(index comps.IMapIndex, category Category) (string, error) {
	switch category {
	case ROADS:
		return _ComposeRoads(index)
	case LANES:
		return _ComposeLanes(index)
	case BOUNDARIES:
		return _ComposeBoundaries(index)
	case LANELINKS:
		return _ComposeLaneLinks(index)
	case OBJECTS:
		return _ComposeObjects(index)
	default:
		return "", errors.New("invalid category")
	}
}

func _ComposeRoads(index comps.IMapIndex) (string, error) {
	records := make([]_RoadRecord, 0, index.Roads().Length())
	for _, road := range index.Roads() {
		sections := make([]_SectionRecord, 0, road.Sections.Length())
		for _, section := range road.Sections {
			lanes := make([]structs.LaneID, 0, section.Lanes.Length())
			for _, lane := range section.Lanes {
				lanes = append(lanes, lane.ID)
			}
			sections = append(sections, _SectionRecord{
				ID:                 section.ID,
				Length:             Coord(section.Length),
				DistanceToJunction: Coord(section.DistanceToJunction),
				Lanes:              lanes,
			})
		}
		records = append(records, _RoadRecord{
			ID:        road.ID,
			TaskID:    road.TaskID,
			Type:      road.Type,
			Direction: road.Direction,
			Material:  road.Material,
			Length:    Coord(road.Length),
			Sections:  sections,
			Array:     _Points(road.Centerline),
		})
	}
	return _Encode(records)
}

func _ComposeLanes(index comps.IMapIndex) (string, error) {
	records := make([]_LaneRecord, 0, index.Lanes().Length())
	for _, lane := range index.Lanes() {
		records = append(records, _LaneRecord{
			LaneID:     lane.ID,
			Type:       lane.Attr.Type,
			Arrow:      lane.Attr.Arrow,
			Width:      Coord(lane.Attr.Width),
			SpeedLimit: Coord(lane.Attr.SpeedLimit),
			Length:     Coord(lane.Length),
			Boundaries: lane.Boundaries,
			Array:      _Points(lane.Centerline),
		})
	}
	return _Encode(records)
}

func _ComposeBoundaries(index comps.IMapIndex) (string, error) {
	records := make([]_BoundaryRecord, 0, index.LaneBoundaries().Length())
	for _, boundary := range index.LaneBoundaries() {
		records = append(records, _BoundaryRecord{
			ID:    boundary.ID,
			Mark:  boundary.Mark,
			Array: _Points(boundary.Points),
		})
	}
	return _Encode(records)
}

func _ComposeLaneLinks(index comps.IMapIndex) (string, error) {
	records := make([]_LaneLinkRecord, 0, index.LaneLinks().Length())
	for _, link := range index.LaneLinks() {
		records = append(records, _LaneLinkRecord{
			ID:         link.ID,
			From:       link.From,
			To:         link.To,
			JunctionID: link.JunctionID,
			Width:      Coord(link.Attr.Width),
			Length:     Coord(link.Length),
			Array:      _Points(link.Centerline),
		})
	}
	return _Encode(records)
}

func _ComposeObjects(index comps.IMapIndex) (string, error) {
	records := make([]_ObjectRecord, 0, index.MapObjects().Length())
	for _, object := range index.MapObjects() {
		record := _ObjectRecord{
			ID:           object.ID,
			Type:         object.Type,
			Name:         object.Name,
			Position:     _XYZ(object.Pose.Position),
			Length:       Coord(object.Pose.Length),
			Width:        Coord(object.Pose.Width),
			Height:       Coord(object.Pose.Height),
			Roll:         Coord(object.Pose.Roll),
			Pitch:        Coord(object.Pose.Pitch),
			Yaw:          Coord(object.Pose.Yaw),
			GroundHeight: Coord(object.GroundHeight),
			ReliedLanes:  object.ReliedLanes,
			UserData:     object.Tags,
			Array:        _Points(object.Points),
		}
		if record.ReliedLanes == nil {
			record.ReliedLanes = []structs.LaneID{}
		}
		if record.UserData == nil {
			record.UserData = map[string]string{}
		}
		if object.Parking.HasValue() {
			parking := object.Parking.Value
			record.Parking = &parking
		}
		records = append(records, record)
	}
	return _Encode(records)
}
