package parser

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/paulmach/orb"
	"github.com/ttpr0/go-hdmap/geo"
	"github.com/ttpr0/go-hdmap/structs"
	. "github.com/ttpr0/go-hdmap/util"
	"golang.org/x/exp/slog"
)

type LoadOptions struct {
	// reference point of the local frame, computed from the map extent if absent
	Reference Optional[geo.Reference]
}

// Loads a map file into a document in the local frame.
func LoadMap(path string, opts LoadOptions) (*structs.MapDocument, error) {
	start := time.Now()
	reader, err := Connect(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	doc, err := LoadFromReader(reader, opts)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResource, err)
	}
	doc.Name = filepath.Base(path)
	doc.Path = path
	doc.ModTime = info.ModTime()
	doc.Etag = Etag(doc.Name, info.Size(), info.ModTime())

	slog.Info("loaded map", "name", doc.Name, "roads", doc.Roads.Length(), "lanes", doc.LaneCount(),
		"lanelinks", doc.LaneLinks.Length(), "objects", doc.Objects.Length(), "took", time.Since(start))
	return doc, nil
}

// Freshness tag of a map file.
func Etag(name string, size int64, mod_time time.Time) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("%d:%d:%s", size, mod_time.UnixNano(), name)))
	return hex.EncodeToString(sum[:])
}

// Reads all entities from the reader and converts them into the local frame.
//
// Panics raised by the reader are returned as ErrConnect.
func LoadFromReader(reader IMapReader, opts LoadOptions) (doc *structs.MapDocument, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("%w: reader panicked: %v", ErrConnect, r)
		}
	}()

	raw, err := _ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnect, err)
	}

	ref, ok := opts.Reference.Value, opts.Reference.HasValue()
	if !ok {
		ref = raw.ComputeReference()
	}
	transform := geo.NewTransform(ref)

	doc = structs.NewMapDocument("")
	doc.Reference = ref
	for _, road := range raw.roads {
		_ConvertRoad(doc, road, raw.lanes[road.ID], raw.boundaries, transform)
	}
	for _, link := range raw.links {
		doc.LaneLinks.Add(_ConvertLaneLink(link, transform))
	}
	for _, object := range raw.objects {
		doc.Objects.Add(_ConvertObject(object, transform))
	}
	for _, junction := range raw.junctions {
		doc.Junctions.Add(&structs.Junction{
			ID:        junction.ID,
			LaneLinks: List[int64](junction.LaneLinks),
		})
	}
	return doc, nil
}

//*******************************************
// reading
//*******************************************

type _RawMap struct {
	roads      []RawRoad
	lanes      Dict[int64, []RawLane]
	boundaries Dict[structs.LaneID, [2]Optional[RawBoundary]]
	links      []RawLaneLink
	objects    []RawObject
	junctions  []RawJunction
}

func _ReadAll(reader IMapReader) (*_RawMap, error) {
	raw := &_RawMap{
		lanes:      NewDict[int64, []RawLane](100),
		boundaries: NewDict[structs.LaneID, [2]Optional[RawBoundary]](100),
	}
	roads, err := reader.Roads()
	if err != nil {
		return nil, fmt.Errorf("reading roads: %w", err)
	}
	raw.roads = roads
	for _, road := range roads {
		lanes, err := reader.Lanes(road.ID)
		if err != nil {
			return nil, fmt.Errorf("reading lanes of road %v: %w", road.ID, err)
		}
		raw.lanes[road.ID] = lanes
		for _, lane := range lanes {
			// every lane gets its own boundary instances
			bounds, err := reader.LaneBoundaries(lane.Boundaries[:])
			if err != nil {
				return nil, fmt.Errorf("reading boundaries of lane %v: %w", lane.ID, err)
			}
			pair := [2]Optional[RawBoundary]{}
			for _, b := range bounds {
				for i := 0; i < 2; i++ {
					if b.ID == lane.Boundaries[i] && !pair[i].HasValue() {
						pair[i] = Some(b)
					}
				}
			}
			raw.boundaries[lane.ID] = pair
		}
	}
	if raw.links, err = reader.LaneLinks(); err != nil {
		return nil, fmt.Errorf("reading lanelinks: %w", err)
	}
	if raw.objects, err = reader.Objects(); err != nil {
		return nil, fmt.Errorf("reading objects: %w", err)
	}
	if raw.junctions, err = reader.Junctions(); err != nil {
		return nil, fmt.Errorf("reading junctions: %w", err)
	}
	return raw, nil
}

// Returns the center of the bounding box of all geometry.
func (self *_RawMap) ComputeReference() geo.Reference {
	min_p := geo.GeoPoint{Lon: math.Inf(1), Lat: math.Inf(1), Alt: math.Inf(1)}
	max_p := geo.GeoPoint{Lon: math.Inf(-1), Lat: math.Inf(-1), Alt: math.Inf(-1)}
	extend := func(points []geo.GeoPoint) {
		for _, p := range points {
			min_p = geo.GeoPoint{Lon: math.Min(min_p.Lon, p.Lon), Lat: math.Min(min_p.Lat, p.Lat), Alt: math.Min(min_p.Alt, p.Alt)}
			max_p = geo.GeoPoint{Lon: math.Max(max_p.Lon, p.Lon), Lat: math.Max(max_p.Lat, p.Lat), Alt: math.Max(max_p.Alt, p.Alt)}
		}
	}
	for _, road := range self.roads {
		extend(road.Centerline)
		for _, lane := range self.lanes[road.ID] {
			extend(lane.Centerline)
		}
	}
	for _, link := range self.links {
		extend(link.Centerline)
	}
	for _, object := range self.objects {
		extend(object.Points)
		extend([]geo.GeoPoint{object.Pose.Position})
	}
	if math.IsInf(min_p.Lon, 1) {
		return geo.Reference{}
	}
	return geo.Reference{
		Lon: (min_p.Lon + max_p.Lon) / 2,
		Lat: (min_p.Lat + max_p.Lat) / 2,
		Alt: (min_p.Alt + max_p.Alt) / 2,
	}
}

//*******************************************
// conversion
//*******************************************

func _ToLocal(points []geo.GeoPoint, transform geo.Transform) structs.Polyline {
	line := make(structs.Polyline, len(points))
	for i, p := range points {
		line[i] = transform.ToLocal(p)
	}
	return line
}

func _ExtendBound(bound orb.Bound, other orb.Bound, has_bound bool) orb.Bound {
	if !has_bound {
		return other
	}
	return bound.Union(other)
}

func _ConvertRoad(doc *structs.MapDocument, raw RawRoad, raw_lanes []RawLane, raw_bounds Dict[structs.LaneID, [2]Optional[RawBoundary]], transform geo.Transform) {
	road := &structs.Road{
		ID:         raw.ID,
		TaskID:     raw.TaskID,
		Type:       raw.Type,
		Direction:  raw.Direction,
		Material:   raw.Material,
		Centerline: _ToLocal(raw.Centerline, transform),
		Sections:   NewList[*structs.Section](len(raw.Sections)),
	}
	road.Length = road.Centerline.Length()
	has_bound := len(road.Centerline) > 0
	road.Bound = road.Centerline.Bound()

	for _, s := range raw.Sections {
		road.Sections.Add(&structs.Section{
			ID:                 s.ID,
			RoadID:             raw.ID,
			Length:             s.Length,
			DistanceToJunction: s.DistanceToJunction,
			Lanes:              NewList[*structs.Lane](4),
		})
	}
	for _, rl := range raw_lanes {
		if rl.ID.RoadID != raw.ID {
			slog.Warn("skipping lane of foreign road", "lane", rl.ID.String(), "road", raw.ID)
			continue
		}
		section, ok := road.GetSection(rl.ID.SectionID)
		if !ok {
			slog.Warn("skipping lane of unknown section", "lane", rl.ID.String())
			continue
		}
		lane := &structs.Lane{
			ID:         rl.ID,
			Attr:       rl.Attr,
			Centerline: _ToLocal(rl.Centerline, transform),
			Boundaries: rl.Boundaries,
		}
		lane.Length = lane.Centerline.Length()
		lane.Bound = lane.Centerline.Bound()
		if rl.Mesh.HasValue() {
			lane.Mesh = Some(structs.Mesh{
				Vertices: _ToLocal(rl.Mesh.Value.Vertices, transform),
				Indices:  rl.Mesh.Value.Indices,
			})
		}

		pair := [2]*structs.LaneBoundary{}
		for i, rb := range raw_bounds[rl.ID] {
			if !rb.HasValue() {
				continue
			}
			boundary := &structs.LaneBoundary{
				ID:     rb.Value.ID,
				Mark:   rb.Value.Mark,
				Points: _ToLocal(rb.Value.Points, transform),
			}
			boundary.Bound = boundary.Points.Bound()
			pair[i] = boundary
			if len(boundary.Points) > 0 {
				lane.Bound = lane.Bound.Union(boundary.Bound)
			}
		}
		doc.LaneBoundaries.Set(lane.ID, pair)

		if len(lane.Centerline) > 0 {
			road.Bound = _ExtendBound(road.Bound, lane.Bound, has_bound)
			has_bound = true
		}
		section.Lanes.Add(lane)
	}
	for _, section := range road.Sections {
		if section.Length > 0 {
			continue
		}
		for _, lane := range section.Lanes {
			section.Length = math.Max(section.Length, lane.Length)
		}
	}
	doc.Roads.Add(road)
}

func _ConvertLaneLink(raw RawLaneLink, transform geo.Transform) *structs.LaneLink {
	link := &structs.LaneLink{
		ID:         raw.ID,
		From:       raw.From,
		To:         raw.To,
		JunctionID: raw.JunctionID,
		Attr:       raw.Attr,
		Centerline: _ToLocal(raw.Centerline, transform),
	}
	link.Length = link.Centerline.Length()
	link.Bound = link.Centerline.Bound()
	return link
}

func _ConvertObject(raw RawObject, transform geo.Transform) *structs.MapObject {
	object := &structs.MapObject{
		ID:     raw.ID,
		Type:   raw.Type,
		Name:   raw.Name,
		Points: _ToLocal(raw.Points, transform),
		Pose: structs.Pose{
			Position: transform.ToLocal(raw.Pose.Position),
			Length:   raw.Pose.Length,
			Width:    raw.Pose.Width,
			Height:   raw.Pose.Height,
			Roll:     raw.Pose.Roll,
			Pitch:    raw.Pose.Pitch,
			Yaw:      raw.Pose.Yaw,
		},
		GroundHeight: raw.GroundHeight,
		ReliedLanes:  List[structs.LaneID](raw.ReliedLanes),
		Parking:      raw.Parking,
		Tags:         NewDict[string, string](len(raw.Tags)),
	}
	for k, v := range raw.Tags {
		object.Tags[k] = v
	}
	object.Bound = object.Pose.Position.Orb().Bound()
	if len(object.Points) > 0 {
		object.Bound = object.Bound.Union(object.Points.Bound())
	}
	return object
}
