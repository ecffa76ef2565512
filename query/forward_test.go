package query

import (
	"math"
	"testing"

	"github.com/ttpr0/go-hdmap/structs"
	. "github.com/ttpr0/go-hdmap/util"
)

func _Collect(walk *ForwardWalk) List[ForwardPoint] {
	points := NewList[ForwardPoint](16)
	for p := range walk.Points() {
		points.Add(p)
	}
	return points
}

func TestForwardWalk(t *testing.T) {
	engine := _BuildEngine(t)
	walk, status := engine.QueryForwardPointsFromLane(structs.NewLaneID(1, 0, 1), 10, 120, 10)
	if status != OK {
		t.Fatalf("expected OK, got %v", status)
	}
	if math.Abs(walk.Length()-120) > 1e-9 {
		t.Errorf("expected length 120, got %v", walk.Length())
	}
	path := walk.Path()
	expected := []structs.LaneID{structs.NewLaneID(1, 0, 1), structs.NewLaneID(1, 1, 1), structs.NewLaneID(2, 0, 1)}
	if path.Length() != len(expected) {
		t.Fatalf("expected path %v, got %v", expected, path)
	}
	for i, id := range expected {
		if path[i] != id {
			t.Errorf("expected %v at %v, got %v", id, i, path[i])
		}
	}

	points := _Collect(walk)
	if points.Length() != 13 {
		t.Fatalf("expected 13 points, got %v", points.Length())
	}
	if points[0].Lane != expected[0] || points[0].Distance != 0 {
		t.Errorf("unexpected first point %+v", points[0])
	}
	if points.Last().Lane != expected[2] || math.Abs(points.Last().Distance-120) > 1e-9 {
		t.Errorf("unexpected last point %+v", points.Last())
	}
	for i := 1; i < points.Length(); i++ {
		if points[i].Distance <= points[i-1].Distance {
			t.Errorf("distances not increasing at %v", i)
		}
		if points[i].Local.Dist2D(points[i-1].Local) > 10+1e-6 {
			t.Errorf("points %v and %v too far apart", i-1, i)
		}
	}

	// iterating again yields the same points
	again := _Collect(walk)
	if again.Length() != points.Length() {
		t.Fatalf("expected %v points on second iteration, got %v", points.Length(), again.Length())
	}
	for i := range again {
		if again[i] != points[i] {
			t.Errorf("point %v differs between iterations", i)
		}
	}

	// early stop
	count := 0
	for range walk.Points() {
		count += 1
		if count == 3 {
			break
		}
	}
	if count != 3 {
		t.Errorf("expected to stop after 3 points, got %v", count)
	}
}

func TestForwardWalkThroughLink(t *testing.T) {
	engine := _BuildEngine(t)
	walk, status := engine.QueryForwardPointsFromLane(structs.NewLaneID(1, 1, 1), 40, 30, 1)
	if status != OK {
		t.Fatalf("expected OK, got %v", status)
	}
	on_link := false
	for p := range walk.Points() {
		if p.Link.HasValue() {
			on_link = true
			if p.Link.Value != 1 {
				t.Errorf("expected lanelink 1, got %v", p.Link.Value)
			}
		}
	}
	if !on_link {
		t.Errorf("expected samples on the lanelink")
	}
}

func TestForwardWalkEndpoints(t *testing.T) {
	engine := _BuildEngine(t)
	walk, status := engine.QueryForwardPointsFromLane(structs.NewLaneID(1, 0, 2), 0, 30, -1)
	if status != OK {
		t.Fatalf("expected OK, got %v", status)
	}
	points := _Collect(walk)
	if points.Length() != 2 {
		t.Fatalf("expected 2 points, got %v", points.Length())
	}
	if points[0].Distance != 0 || math.Abs(points[1].Distance-30) > 1e-9 {
		t.Errorf("unexpected endpoints %v and %v", points[0].Distance, points[1].Distance)
	}
}

func TestForwardWalkNetworkEnd(t *testing.T) {
	engine := _BuildEngine(t)
	lane := engine.Index().FindLane(structs.NewLaneID(2, 0, 1)).Value
	walk, status := engine.QueryForwardPointsFromLane(lane.ID, 0, 500, 25)
	if status != OK {
		t.Fatalf("expected OK, got %v", status)
	}
	if math.Abs(walk.Length()-lane.Length) > 1e-9 {
		t.Errorf("expected walk to stop at %v, got %v", lane.Length, walk.Length())
	}
	points := _Collect(walk)
	if math.Abs(points.Last().Distance-lane.Length) > 1e-9 {
		t.Errorf("expected last point at lane end, got %v", points.Last().Distance)
	}
}

func TestQueryForwardPoints(t *testing.T) {
	engine := _BuildEngine(t)
	p := _LanePoint(t, engine, structs.NewLaneID(1, 0, 1), 10, 0.5)

	walk, status := engine.QueryForwardPoints(p.Lon, p.Lat, 20, 5)
	if status != OK {
		t.Fatalf("expected OK, got %v", status)
	}
	points := _Collect(walk)
	if points.Length() != 5 || points[0].Lane != structs.NewLaneID(1, 0, 1) {
		t.Errorf("unexpected points %v", points.Length())
	}

	if _, status := engine.QueryForwardPoints(p.Lon, p.Lat, 20, 0); status != INVALID_ARGUMENT {
		t.Errorf("expected INVALID_ARGUMENT for zero interval, got %v", status)
	}
	if _, status := engine.QueryForwardPoints(p.Lon, p.Lat, -1, 5); status != INVALID_ARGUMENT {
		t.Errorf("expected INVALID_ARGUMENT for negative length, got %v", status)
	}
	if _, status := engine.QueryForwardPointsFromLane(structs.NewLaneID(5, 0, 1), 0, 20, 5); status != NOT_FOUND {
		t.Errorf("expected NOT_FOUND, got %v", status)
	}
	far := _LanePoint(t, engine, structs.NewLaneID(1, 0, 1), 10, 40)
	if _, status := engine.QueryForwardPoints(far.Lon, far.Lat, 20, 5); status != NOT_FOUND {
		t.Errorf("expected NOT_FOUND, got %v", status)
	}
}
