package parser

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ttpr0/go-hdmap/attr"
	"github.com/ttpr0/go-hdmap/structs"
	_ "modernc.org/sqlite"
)

func _CreateSQLiteMap(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "town.sqlite")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	statements := strings.Split(SQLITE_SCHEMA, ";")
	statements = append(statements,
		`INSERT INTO roads VALUES (1, 9, 'urban', 'forward', 2, '[[13.4,52.5,30],[13.401,52.5,30]]')`,
		`INSERT INTO roads VALUES (2, 9, 'highway', 'both', 0, '[[13.401,52.5,30],[13.401,52.501,30]]')`,
		`INSERT INTO sections VALUES (0, 1, 68.0, 0)`,
		`INSERT INTO sections VALUES (0, 2, 0, 0)`,
		`INSERT INTO lanes VALUES (1, 0, 1, 'driving', 'straight_left', 3.5, 50, 10, 11, '[[13.4,52.49998,30],[13.401,52.49998,30]]')`,
		`INSERT INTO lanes VALUES (1, 0, 2, 'bus', 'straight', 3.25, 30, 11, 12, '[[13.4,52.49995,30],[13.401,52.49995,30]]')`,
		`INSERT INTO lanes VALUES (2, 0, 1, 'driving', 'none', 3.5, 80, 20, 21, '[[13.40102,52.5],[13.40102,52.501]]')`,
		`INSERT INTO boundaries VALUES (10, 'solid', '[[13.4,52.5,30],[13.401,52.5,30]]')`,
		`INSERT INTO boundaries VALUES (11, 'broken', '[[13.4,52.49997,30],[13.401,52.49997,30]]')`,
		`INSERT INTO boundaries VALUES (12, 'curb', '[[13.4,52.49994,30],[13.401,52.49994,30]]')`,
		`INSERT INTO lanelinks VALUES (1, 1, 0, 1, 2, 0, 1, 5, 'driving', 3.5, 30, '[[13.401,52.49998,30],[13.40102,52.5,30]]')`,
		`INSERT INTO objects VALUES (3, 'traffic_light', 'north', '[[13.401,52.5,30]]', 13.401, 52.5, 34, 0.5, 0.5, 1.2, 0, 0, 90, 30,
			'[[1,0,1],[1,0,2]]', NULL, '{"junction":"5","roads":"1"}')`,
		`INSERT INTO objects VALUES (4, 'parking_space', '', '[]', 13.4005, 52.5001, 30, 5, 2.5, 0, 0, 0, 0, 30,
			NULL, '{"heading":90,"width":2.5,"length":5,"mark_width":0.1,"count":4,"spacing":0.3}', NULL)`,
		`INSERT INTO junctions VALUES (5, '[1]')`,
	)
	for _, stmt := range statements {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("%v: %v", stmt, err)
		}
	}
	return path
}

func TestSQLiteReader(t *testing.T) {
	path := _CreateSQLiteMap(t)
	reader, err := Connect(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer reader.Close()

	roads, err := reader.Roads()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(roads) != 2 {
		t.Fatalf("expected 2 roads, got %v", len(roads))
	}
	if roads[0].Type != attr.ROAD_URBAN || roads[0].Direction != attr.DIRECTION_FORWARD || roads[0].TaskID != 9 || roads[0].Material != 2 {
		t.Errorf("unexpected road %+v", roads[0])
	}
	if len(roads[0].Sections) != 1 || roads[0].Sections[0].Length != 68 {
		t.Errorf("unexpected sections %+v", roads[0].Sections)
	}

	lanes, err := reader.Lanes(1)
	if err != nil || len(lanes) != 2 {
		t.Fatalf("expected 2 lanes, got %v (%v)", len(lanes), err)
	}
	if lanes[1].Attr.Type != attr.LANE_BUS || lanes[0].Attr.Arrow != attr.ARROW_STRAIGHT_LEFT || lanes[1].Boundaries != [2]int64{11, 12} {
		t.Errorf("unexpected lane %+v", lanes[1])
	}

	bounds, err := reader.LaneBoundaries([]int64{12, 11, 99})
	if err != nil || len(bounds) != 2 {
		t.Fatalf("expected 2 boundaries, got %v (%v)", len(bounds), err)
	}
	if bounds[1].Mark != attr.MARK_CURB {
		t.Errorf("expected curb mark, got %v", bounds[1].Mark)
	}

	links, err := reader.LaneLinks()
	if err != nil || len(links) != 1 {
		t.Fatalf("expected 1 lanelink, got %v (%v)", len(links), err)
	}
	if links[0].From != structs.NewLaneID(1, 0, 1) || links[0].To != structs.NewLaneID(2, 0, 1) || links[0].JunctionID != 5 {
		t.Errorf("unexpected lanelink %+v", links[0])
	}

	objects, err := reader.Objects()
	if err != nil || len(objects) != 2 {
		t.Fatalf("expected 2 objects, got %v (%v)", len(objects), err)
	}
	light := objects[0]
	if light.Type != attr.OBJECT_TRAFFIC_LIGHT || light.Tags["junction"] != "5" || len(light.ReliedLanes) != 2 || light.Pose.Position.Alt != 34 {
		t.Errorf("unexpected traffic light %+v", light)
	}
	space := objects[1]
	if !space.Parking.HasValue() || space.Parking.Value.Count != 4 || space.Parking.Value.MarkWidth != 0.1 {
		t.Errorf("unexpected parking space %+v", space.Parking)
	}

	junctions, err := reader.Junctions()
	if err != nil || len(junctions) != 1 || len(junctions[0].LaneLinks) != 1 {
		t.Errorf("unexpected junctions %+v (%v)", junctions, err)
	}
}

func TestLoadSQLiteMap(t *testing.T) {
	path := _CreateSQLiteMap(t)
	doc, err := LoadMap(path, LoadOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Name != "town.sqlite" || doc.Roads.Length() != 2 || doc.LaneCount() != 3 {
		t.Errorf("unexpected document %v: %v roads, %v lanes", doc.Name, doc.Roads.Length(), doc.LaneCount())
	}
	// section without length takes the longest lane
	if doc.Roads[1].Sections[0].Length < 100 {
		t.Errorf("expected computed section length, got %v", doc.Roads[1].Sections[0].Length)
	}
	if doc.Etag != Etag(doc.Name, _FileSize(t, path), doc.ModTime) {
		t.Errorf("unexpected etag")
	}
}

func TestParseGeometry(t *testing.T) {
	points, err := _ParseGeometry("[[1,2],[3,4,5]]")
	if err != nil || len(points) != 2 || points[1].Alt != 5 {
		t.Errorf("unexpected result %v (%v)", points, err)
	}
	if _, err := _ParseGeometry("[[1]]"); err == nil {
		t.Errorf("expected error for short coordinate")
	}
	if points, err := _ParseGeometry(""); err != nil || points != nil {
		t.Errorf("expected no points for empty geometry")
	}
}
