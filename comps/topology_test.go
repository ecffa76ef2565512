package comps

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/ttpr0/go-hdmap/attr"
	"github.com/ttpr0/go-hdmap/geo"
	"github.com/ttpr0/go-hdmap/parser"
	"github.com/ttpr0/go-hdmap/structs"
	. "github.com/ttpr0/go-hdmap/util"
)

func TestSuccessors(t *testing.T) {
	index := _BuildTown(t)
	topology := index.Topology()

	// next section of the same road
	succ := topology.Successors(structs.NewLaneID(1, 0, 2))
	if succ.Length() != 1 || succ[0].Lane != structs.NewLaneID(1, 1, 2) || succ[0].Link.HasValue() {
		t.Errorf("unexpected successors %+v", succ)
	}

	// through lane links, ordered by lane id
	succ = topology.Successors(structs.NewLaneID(1, 1, 1))
	if succ.Length() != 2 {
		t.Fatalf("expected 2 successors, got %+v", succ)
	}
	if succ[0].Lane != structs.NewLaneID(2, 0, 1) || succ[1].Lane != structs.NewLaneID(3, 0, 1) {
		t.Errorf("unexpected successors %+v", succ)
	}
	if !succ[0].Link.HasValue() || succ[0].Link.Value != 1 {
		t.Errorf("expected lanelink 1, got %+v", succ[0].Link)
	}

	pred := topology.Predecessors(structs.NewLaneID(2, 0, 1))
	if pred.Length() != 2 || pred[0].Lane != structs.NewLaneID(1, 1, 1) || pred[1].Lane != structs.NewLaneID(1, 1, 2) {
		t.Errorf("unexpected predecessors %+v", pred)
	}

	// dangling link target is a vertex without successors
	if !topology.HasLane(structs.NewLaneID(77, 0, 1)) || topology.Successors(structs.NewLaneID(77, 0, 1)).Length() != 0 {
		t.Errorf("expected dangling vertex 77/0/1")
	}
	if topology.Successors(structs.NewLaneID(5, 5, 5)).Length() != 0 {
		t.Errorf("expected no successors of unknown lane")
	}
}

func TestRoute(t *testing.T) {
	index := _BuildTown(t)
	topology := index.Topology()

	route, err := topology.Route(structs.NewLaneID(1, 0, 1), structs.NewLaneID(3, 0, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []structs.LaneID{{RoadID: 1, SectionID: 0, LaneID: 1}, {RoadID: 1, SectionID: 1, LaneID: 1}, {RoadID: 3, SectionID: 0, LaneID: 1}}
	if route.Length() != len(expected) {
		t.Fatalf("expected route %v, got %v", expected, route)
	}
	for i := range expected {
		if route[i] != expected[i] {
			t.Errorf("expected route %v, got %v", expected, route)
		}
	}

	if _, err := topology.Route(structs.NewLaneID(2, 0, 1), structs.NewLaneID(1, 0, 1)); err != ErrNoRoute {
		t.Errorf("expected ErrNoRoute, got %v", err)
	}
	if _, err := topology.Route(structs.NewLaneID(9, 0, 1), structs.NewLaneID(1, 0, 1)); err != ErrNoRoute {
		t.Errorf("expected ErrNoRoute for unknown lane, got %v", err)
	}
}

func TestReachable(t *testing.T) {
	index := _BuildTown(t)
	topology := index.Topology()

	lanes := topology.Reachable(structs.NewLaneID(1, 0, 1), 100)
	// 1/0/1, 1/1/1, 2/0/1, 3/0/1, 77/0/1
	if lanes.Length() != 5 || lanes[0] != structs.NewLaneID(1, 0, 1) {
		t.Errorf("unexpected reachable lanes %v", lanes)
	}
	if topology.Reachable(structs.NewLaneID(1, 0, 1), 2).Length() != 2 {
		t.Errorf("limit not respected")
	}
	if topology.EdgeCount() != 2+4+1 {
		t.Errorf("expected 7 edges, got %v", topology.EdgeCount())
	}
}

func TestSpatialSearch(t *testing.T) {
	index := _BuildTown(t)
	spatial := index.Spatial()

	// between the two lanes of the first section of road 1
	lanes := spatial.SearchLanes(orb.Point{20, -3.5}, 1)
	if lanes.Length() != 2 || lanes[0] != structs.NewLaneID(1, 0, 1) || lanes[1] != structs.NewLaneID(1, 0, 2) {
		t.Errorf("unexpected lanes %v", lanes)
	}
	if spatial.SearchLanes(orb.Point{20, 50}, 5).Length() != 0 {
		t.Errorf("expected no lanes far away")
	}
	links := spatial.SearchLaneLinks(orb.Point{100, -2}, 5)
	if links.Length() == 0 {
		t.Errorf("expected lanelinks at the junction")
	}
	objects := spatial.SearchObjects(orb.Point{100, 0}, 1)
	if objects.Length() != 1 || objects[0] != 4 {
		t.Errorf("expected object 4, got %v", objects)
	}
	if spatial.Size() != 7+5+1 {
		t.Errorf("expected 13 items, got %v", spatial.Size())
	}
}

func TestParallelLinksKeepLowestID(t *testing.T) {
	reader := parser.NewMemoryReader()
	a := reader.AddStraightRoad(1, _ORIGIN, 0, 50, 1, 1, attr.LaneAttribs{Type: attr.LANE_DRIVING, Width: 3.5})
	b := reader.AddStraightRoad(2, parser.RoadEnd(a), 90, 50, 1, 1, attr.LaneAttribs{Type: attr.LANE_DRIVING, Width: 3.5})
	for _, id := range []int64{9, 3, 6} {
		reader.AddLaneLink(parser.RawLaneLink{ID: id, From: structs.NewLaneID(1, 0, 1), To: structs.NewLaneID(2, 0, 1), JunctionID: 4,
			Centerline: []geo.GeoPoint{parser.RoadEnd(a), b.Centerline[0]}})
	}
	doc, err := parser.LoadFromReader(reader, parser.LoadOptions{Reference: Some(geo.Reference(_ORIGIN))})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	topology := BuildMapIndex(doc).Topology()

	succ := topology.Successors(structs.NewLaneID(1, 0, 1))
	if succ.Length() != 1 || !succ[0].Link.HasValue() || succ[0].Link.Value != 3 {
		t.Errorf("expected single transition through lanelink 3, got %+v", succ)
	}
	pred := topology.Predecessors(structs.NewLaneID(2, 0, 1))
	if pred.Length() != 1 || pred[0].Lane != structs.NewLaneID(1, 0, 1) || pred[0].Link.Value != 3 {
		t.Errorf("unexpected predecessors %+v", pred)
	}
}
