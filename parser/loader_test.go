package parser

import (
	"errors"
	"math"
	"testing"

	"github.com/ttpr0/go-hdmap/attr"
	"github.com/ttpr0/go-hdmap/geo"
	"github.com/ttpr0/go-hdmap/structs"
	. "github.com/ttpr0/go-hdmap/util"
)

var _ORIGIN = geo.GeoPoint{Lon: 13.4, Lat: 52.5, Alt: 30}

func _TwoRoadReader() *MemoryReader {
	reader := NewMemoryReader()
	a := reader.AddStraightRoad(1, _ORIGIN, 0, 100, 2, 2, attr.LaneAttribs{Type: attr.LANE_DRIVING, Width: 3.5, SpeedLimit: 50})
	reader.AddStraightRoad(2, RoadEnd(a), 90, 50, 1, 1, attr.LaneAttribs{Type: attr.LANE_DRIVING, Width: 3.0})
	reader.ConnectRoads(1, 2, 7)
	reader.AddObject(RawObject{
		ID:     5,
		Type:   attr.OBJECT_TRAFFIC_LIGHT,
		Points: []geo.GeoPoint{RoadEnd(a)},
		Pose:   GeoPose{Position: RoadEnd(a), Height: 4, Yaw: 90},
		Tags:   map[string]string{"junction": "7", "roads": "1"},
	})
	return reader
}

func TestLoadFromReader(t *testing.T) {
	reader := _TwoRoadReader()
	doc, err := LoadFromReader(reader, LoadOptions{Reference: Some(geo.Reference(_ORIGIN))})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Roads.Length() != 2 || doc.LaneCount() != 5 {
		t.Errorf("expected 2 roads with 5 lanes, got %v roads with %v lanes", doc.Roads.Length(), doc.LaneCount())
	}
	if doc.LaneLinks.Length() != 2 || doc.Junctions.Length() != 1 || doc.Objects.Length() != 1 {
		t.Errorf("unexpected entity counts")
	}

	road := doc.Roads[0]
	if math.Abs(road.Length-100) > 0.5 {
		t.Errorf("expected road length about 100, got %v", road.Length)
	}
	if math.Abs(road.Centerline[0].X) > 1e-6 || math.Abs(road.Centerline[0].Y) > 1e-6 {
		t.Errorf("road should start at the reference point, got %v", road.Centerline[0])
	}
	for _, section := range road.Sections {
		for _, lane := range section.Lanes {
			if lane.ID.RoadID != road.ID || lane.ID.SectionID != section.ID {
				t.Errorf("lane %v is attached to the wrong section", lane.ID)
			}
		}
	}
	lane := road.Sections[0].Lanes[0]
	if lane.Attr.Width != 3.5 || lane.Attr.SpeedLimit != 50 {
		t.Errorf("lane attributes not carried over: %+v", lane.Attr)
	}
	if road.Sections[0].Length != 50 {
		t.Errorf("expected section length 50, got %v", road.Sections[0].Length)
	}

	object := doc.Objects[0]
	if object.Tag("junction") != "7" || object.Pose.Height != 4 || object.Pose.Yaw != 90 {
		t.Errorf("object not converted: %+v", object)
	}
	if math.Abs(object.Pose.Position.X-100) > 0.5 {
		t.Errorf("expected object at about x=100, got %v", object.Pose.Position)
	}
}

func TestLoadPrivateBoundaries(t *testing.T) {
	reader := NewMemoryReader()
	reader.AddStraightRoad(1, _ORIGIN, 0, 100, 1, 2, attr.LaneAttribs{})
	doc, err := LoadFromReader(reader, LoadOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// lanes 1 and 2 share boundary 1001
	left := doc.LaneBoundaries[structs.NewLaneID(1, 0, 1)][1]
	right := doc.LaneBoundaries[structs.NewLaneID(1, 0, 2)][0]
	if left == nil || right == nil {
		t.Fatalf("missing boundaries")
	}
	if left.ID != 1001 || right.ID != 1001 {
		t.Errorf("expected shared boundary id 1001, got %v and %v", left.ID, right.ID)
	}
	if left == right {
		t.Errorf("expected distinct boundary instances before assembly")
	}
}

func TestComputeReference(t *testing.T) {
	reader := NewMemoryReader()
	reader.AddRoad(RawRoad{ID: 1, Centerline: []geo.GeoPoint{{Lon: 10, Lat: 50, Alt: 0}, {Lon: 11, Lat: 51, Alt: 10}}}, nil)
	reader.AddObject(RawObject{ID: 1, Pose: GeoPose{Position: geo.GeoPoint{Lon: 12, Lat: 49, Alt: 4}}})
	doc, err := LoadFromReader(reader, LoadOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := geo.Reference{Lon: 11, Lat: 50, Alt: 5}
	if doc.Reference != expected {
		t.Errorf("expected reference %v, got %v", expected, doc.Reference)
	}

	empty, err := LoadFromReader(NewMemoryReader(), LoadOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if empty.Reference != (geo.Reference{}) || empty.Roads.Length() != 0 {
		t.Errorf("expected empty document")
	}
}

func TestSkipForeignLanes(t *testing.T) {
	reader := NewMemoryReader()
	line := []geo.GeoPoint{_ORIGIN, _MoveGeo(_ORIGIN, 0, 10)}
	reader.AddRoad(RawRoad{ID: 1, Centerline: line, Sections: []RawSection{{ID: 0}}}, []RawLane{
		{ID: structs.NewLaneID(1, 0, 1), Centerline: line},
		{ID: structs.NewLaneID(1, 3, 1), Centerline: line},
		{ID: structs.NewLaneID(2, 0, 1), Centerline: line},
	})
	doc, err := LoadFromReader(reader, LoadOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.LaneCount() != 1 {
		t.Errorf("expected 1 lane, got %v", doc.LaneCount())
	}
}

type _FailingReader struct {
	*MemoryReader
	fail_links bool
	panic_objs bool
}

func (self *_FailingReader) LaneLinks() ([]RawLaneLink, error) {
	if self.fail_links {
		return nil, errors.New("lost connection")
	}
	return self.MemoryReader.LaneLinks()
}
func (self *_FailingReader) Objects() ([]RawObject, error) {
	if self.panic_objs {
		panic("corrupt object table")
	}
	return self.MemoryReader.Objects()
}

func TestLoadReaderFailure(t *testing.T) {
	reader := &_FailingReader{MemoryReader: _TwoRoadReader(), fail_links: true}
	doc, err := LoadFromReader(reader, LoadOptions{})
	if !errors.Is(err, ErrConnect) {
		t.Errorf("expected ErrConnect, got %v", err)
	}
	if doc != nil {
		t.Errorf("expected no document on failure")
	}
}

func TestLoadReaderPanic(t *testing.T) {
	reader := &_FailingReader{MemoryReader: _TwoRoadReader(), panic_objs: true}
	doc, err := LoadFromReader(reader, LoadOptions{})
	if !errors.Is(err, ErrConnect) {
		t.Errorf("expected ErrConnect, got %v", err)
	}
	if doc != nil {
		t.Errorf("expected no document after panic")
	}
}

func TestLoadMapClosesReader(t *testing.T) {
	reader := _TwoRoadReader()
	RegisterFormat(".closetest", func(path string) (IMapReader, error) {
		return reader, nil
	})
	path := _WriteFile(t, "town.closetest", "x")
	doc, err := LoadMap(path, LoadOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reader.IsClosed() {
		t.Errorf("reader was not closed")
	}
	if doc.Name != "town.closetest" || doc.Etag == "" || doc.ModTime.IsZero() {
		t.Errorf("missing source metadata: %v %v %v", doc.Name, doc.Etag, doc.ModTime)
	}
}
