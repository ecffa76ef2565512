package parser

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ttpr0/go-hdmap/attr"
	"github.com/ttpr0/go-hdmap/geo"
	"github.com/ttpr0/go-hdmap/structs"
	. "github.com/ttpr0/go-hdmap/util"
	_ "modernc.org/sqlite"
)

//*******************************************
// sqlite map reader
//*******************************************

// Schema of sqlite map files.
//
// Geometry columns hold json arrays of [lon, lat, alt] triples.
const SQLITE_SCHEMA = `
CREATE TABLE roads (id INTEGER PRIMARY KEY, task_id INTEGER, type TEXT, direction TEXT, material INTEGER, geometry TEXT);
CREATE TABLE sections (id INTEGER, road_id INTEGER, length REAL, distance_to_junction REAL, PRIMARY KEY (road_id, id));
CREATE TABLE lanes (road_id INTEGER, section_id INTEGER, lane_id INTEGER, type TEXT, arrow TEXT, width REAL, speed_limit REAL,
	left_boundary INTEGER, right_boundary INTEGER, geometry TEXT, PRIMARY KEY (road_id, section_id, lane_id));
CREATE TABLE boundaries (id INTEGER PRIMARY KEY, mark TEXT, geometry TEXT);
CREATE TABLE lanelinks (id INTEGER PRIMARY KEY, from_road INTEGER, from_section INTEGER, from_lane INTEGER,
	to_road INTEGER, to_section INTEGER, to_lane INTEGER, junction_id INTEGER, type TEXT, width REAL, speed_limit REAL, geometry TEXT);
CREATE TABLE objects (id INTEGER PRIMARY KEY, type TEXT, name TEXT, geometry TEXT, lon REAL, lat REAL, alt REAL,
	length REAL, width REAL, height REAL, roll REAL, pitch REAL, yaw REAL, ground_height REAL,
	relied_lanes TEXT, parking TEXT, tags TEXT);
CREATE TABLE junctions (id INTEGER PRIMARY KEY, lanelinks TEXT);
`

type SQLiteReader struct {
	db *sql.DB
}

func OpenSQLiteReader(path string) (IMapReader, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	var count int
	row := db.QueryRow("SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'roads'")
	if err := row.Scan(&count); err != nil || count == 0 {
		db.Close()
		return nil, fmt.Errorf("open sqlite %s: not a map file", path)
	}
	return &SQLiteReader{db: db}, nil
}

func (self *SQLiteReader) Close() error {
	return self.db.Close()
}

func (self *SQLiteReader) Roads() ([]RawRoad, error) {
	rows, err := self.db.Query("SELECT id, task_id, type, direction, material, geometry FROM roads ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roads := NewList[RawRoad](100)
	for rows.Next() {
		var road RawRoad
		var typ, dir, geom string
		if err := rows.Scan(&road.ID, &road.TaskID, &typ, &dir, &road.Material, &geom); err != nil {
			return nil, err
		}
		road.Type, _ = attr.RoadTypeFromString(typ)
		road.Direction, _ = attr.DirectionFromString(dir)
		if road.Centerline, err = _ParseGeometry(geom); err != nil {
			return nil, fmt.Errorf("road %v: %w", road.ID, err)
		}
		roads.Add(road)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range roads {
		sections, err := self._Sections(roads[i].ID)
		if err != nil {
			return nil, err
		}
		roads[i].Sections = sections
	}
	return roads, nil
}

func (self *SQLiteReader) _Sections(road_id int64) ([]RawSection, error) {
	rows, err := self.db.Query("SELECT id, length, distance_to_junction FROM sections WHERE road_id = ? ORDER BY id", road_id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sections := NewList[RawSection](2)
	for rows.Next() {
		var s RawSection
		if err := rows.Scan(&s.ID, &s.Length, &s.DistanceToJunction); err != nil {
			return nil, err
		}
		sections.Add(s)
	}
	return sections, rows.Err()
}

func (self *SQLiteReader) Lanes(road_id int64) ([]RawLane, error) {
	rows, err := self.db.Query(`SELECT road_id, section_id, lane_id, type, arrow, width, speed_limit, left_boundary, right_boundary, geometry
		FROM lanes WHERE road_id = ? ORDER BY section_id, lane_id`, road_id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lanes := NewList[RawLane](4)
	for rows.Next() {
		var lane RawLane
		var typ, arrow, geom string
		if err := rows.Scan(&lane.ID.RoadID, &lane.ID.SectionID, &lane.ID.LaneID, &typ, &arrow,
			&lane.Attr.Width, &lane.Attr.SpeedLimit, &lane.Boundaries[0], &lane.Boundaries[1], &geom); err != nil {
			return nil, err
		}
		lane.Attr.Type, _ = attr.LaneTypeFromString(typ)
		lane.Attr.Arrow, _ = attr.LaneArrowFromString(arrow)
		if lane.Centerline, err = _ParseGeometry(geom); err != nil {
			return nil, fmt.Errorf("lane %v: %w", lane.ID, err)
		}
		lanes.Add(lane)
	}
	return lanes, rows.Err()
}

func (self *SQLiteReader) LaneBoundaries(ids []int64) ([]RawBoundary, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	rows, err := self.db.Query("SELECT id, mark, geometry FROM boundaries WHERE id IN ("+placeholders+") ORDER BY id", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bounds := NewList[RawBoundary](len(ids))
	for rows.Next() {
		var b RawBoundary
		var mark, geom string
		if err := rows.Scan(&b.ID, &mark, &geom); err != nil {
			return nil, err
		}
		b.Mark, _ = attr.MarkTypeFromString(mark)
		if b.Points, err = _ParseGeometry(geom); err != nil {
			return nil, fmt.Errorf("boundary %v: %w", b.ID, err)
		}
		bounds.Add(b)
	}
	return bounds, rows.Err()
}

func (self *SQLiteReader) LaneLinks() ([]RawLaneLink, error) {
	rows, err := self.db.Query(`SELECT id, from_road, from_section, from_lane, to_road, to_section, to_lane,
		junction_id, type, width, speed_limit, geometry FROM lanelinks ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := NewList[RawLaneLink](100)
	for rows.Next() {
		var link RawLaneLink
		var typ, geom string
		if err := rows.Scan(&link.ID, &link.From.RoadID, &link.From.SectionID, &link.From.LaneID,
			&link.To.RoadID, &link.To.SectionID, &link.To.LaneID, &link.JunctionID,
			&typ, &link.Attr.Width, &link.Attr.SpeedLimit, &geom); err != nil {
			return nil, err
		}
		link.Attr.Type, _ = attr.LaneTypeFromString(typ)
		if link.Centerline, err = _ParseGeometry(geom); err != nil {
			return nil, fmt.Errorf("lanelink %v: %w", link.ID, err)
		}
		links.Add(link)
	}
	return links, rows.Err()
}

func (self *SQLiteReader) Objects() ([]RawObject, error) {
	rows, err := self.db.Query(`SELECT id, type, name, geometry, lon, lat, alt, length, width, height, roll, pitch, yaw,
		ground_height, relied_lanes, parking, tags FROM objects ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	objects := NewList[RawObject](100)
	for rows.Next() {
		var o RawObject
		var typ, geom string
		var relied, parking, tags sql.NullString
		p := &o.Pose
		if err := rows.Scan(&o.ID, &typ, &o.Name, &geom, &p.Position.Lon, &p.Position.Lat, &p.Position.Alt,
			&p.Length, &p.Width, &p.Height, &p.Roll, &p.Pitch, &p.Yaw, &o.GroundHeight, &relied, &parking, &tags); err != nil {
			return nil, err
		}
		o.Type, _ = attr.ObjectTypeFromString(typ)
		if o.Points, err = _ParseGeometry(geom); err != nil {
			return nil, fmt.Errorf("object %v: %w", o.ID, err)
		}
		if relied.Valid && relied.String != "" {
			var ids [][3]int64
			if err := json.Unmarshal([]byte(relied.String), &ids); err != nil {
				return nil, fmt.Errorf("object %v relied lanes: %w", o.ID, err)
			}
			for _, id := range ids {
				o.ReliedLanes = append(o.ReliedLanes, structs.NewLaneID(id[0], id[1], id[2]))
			}
		}
		if parking.Valid && parking.String != "" {
			var space structs.ParkingSpace
			if err := json.Unmarshal([]byte(parking.String), &space); err != nil {
				return nil, fmt.Errorf("object %v parking: %w", o.ID, err)
			}
			o.Parking = Some(space)
		}
		if tags.Valid && tags.String != "" {
			if err := json.Unmarshal([]byte(tags.String), &o.Tags); err != nil {
				return nil, fmt.Errorf("object %v tags: %w", o.ID, err)
			}
		}
		objects.Add(o)
	}
	return objects, rows.Err()
}

func (self *SQLiteReader) Junctions() ([]RawJunction, error) {
	rows, err := self.db.Query("SELECT id, lanelinks FROM junctions ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	junctions := NewList[RawJunction](10)
	for rows.Next() {
		var j RawJunction
		var links sql.NullString
		if err := rows.Scan(&j.ID, &links); err != nil {
			return nil, err
		}
		if links.Valid && links.String != "" {
			if err := json.Unmarshal([]byte(links.String), &j.LaneLinks); err != nil {
				return nil, fmt.Errorf("junction %v: %w", j.ID, err)
			}
		}
		junctions.Add(j)
	}
	return junctions, rows.Err()
}

// Parses a json array of [lon, lat] or [lon, lat, alt] points.
func _ParseGeometry(geom string) ([]geo.GeoPoint, error) {
	if geom == "" {
		return nil, nil
	}
	var coords [][]float64
	if err := json.Unmarshal([]byte(geom), &coords); err != nil {
		return nil, err
	}
	points := make([]geo.GeoPoint, len(coords))
	for i, c := range coords {
		switch len(c) {
		case 2:
			points[i] = geo.GeoPoint{Lon: c[0], Lat: c[1]}
		case 3:
			points[i] = geo.GeoPoint{Lon: c[0], Lat: c[1], Alt: c[2]}
		default:
			return nil, fmt.Errorf("invalid coordinate of length %v", len(c))
		}
	}
	return points, nil
}
