package parser

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/ttpr0/go-hdmap/attr"
	"github.com/ttpr0/go-hdmap/geo"
	"github.com/ttpr0/go-hdmap/structs"
	. "github.com/ttpr0/go-hdmap/util"
	"golang.org/x/exp/slog"
)

//*******************************************
// osm map reader
//*******************************************

// Map reader for osm pbf extracts.
//
// Every highway becomes a road with one section. Lanes are laid out to the
// right of the way geometry in way direction. Ways sharing an end node are
// connected by lane links, the shared node becomes the junction.
type OSMReader struct {
	roads      List[RawRoad]
	lanes      Dict[int64, []RawLane]
	boundaries Dict[int64, RawBoundary]
	links      List[RawLaneLink]
	objects    List[RawObject]
	junctions  List[RawJunction]
}

func OpenOSMReader(path string) (IMapReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	decoder := &DrivingDecoder{}
	ways, nodes, err := _ScanOSM(file, decoder)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	if len(ways) == 0 {
		return nil, fmt.Errorf("scan %s: no highways found", path)
	}
	return BuildOSMReader(ways, nodes, decoder), nil
}

func (self *OSMReader) Roads() ([]RawRoad, error) {
	return self.roads, nil
}
func (self *OSMReader) Lanes(road_id int64) ([]RawLane, error) {
	return self.lanes[road_id], nil
}
func (self *OSMReader) LaneBoundaries(ids []int64) ([]RawBoundary, error) {
	bounds := NewList[RawBoundary](len(ids))
	for _, id := range ids {
		if b, ok := self.boundaries[id]; ok {
			// copy the geometry, readers hand out independent records
			b.Points = append([]geo.GeoPoint(nil), b.Points...)
			bounds.Add(b)
		}
	}
	return bounds, nil
}
func (self *OSMReader) LaneLinks() ([]RawLaneLink, error) {
	return self.links, nil
}
func (self *OSMReader) Objects() ([]RawObject, error) {
	return self.objects, nil
}
func (self *OSMReader) Junctions() ([]RawJunction, error) {
	return self.junctions, nil
}
func (self *OSMReader) Close() error {
	return nil
}

//*******************************************
// osm handler methods
//*******************************************

func _ScanOSM(file io.ReadSeeker, decoder IOSMDecoder) ([]*osm.Way, Dict[int64, *osm.Node], error) {
	ways := NewList[*osm.Way](1000)
	refs := NewDict[int64, bool](10000)

	scanner := osmpbf.New(context.Background(), file, runtime.GOMAXPROCS(-1))
	scanner.SkipNodes = true
	scanner.SkipRelations = true
	for scanner.Scan() {
		switch object := scanner.Object().(type) {
		case *osm.Way:
			tags := Dict[string, string](object.TagMap())
			if !decoder.IsValidHighway(tags) || len(object.Nodes) < 2 {
				continue
			}
			for _, id := range object.Nodes.NodeIDs() {
				refs[int64(id)] = true
			}
			ways.Add(object)
		default:
			continue
		}
	}
	err := scanner.Err()
	scanner.Close()
	if err != nil {
		return nil, nil, err
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, nil, err
	}
	nodes := NewDict[int64, *osm.Node](refs.Length())
	scanner = osmpbf.New(context.Background(), file, runtime.GOMAXPROCS(-1))
	scanner.SkipWays = true
	scanner.SkipRelations = true
	c := 0
	for scanner.Scan() {
		switch object := scanner.Object().(type) {
		case *osm.Node:
			id := int64(object.ID)
			if !refs.ContainsKey(id) {
				continue
			}
			c += 1
			if c%100000 == 0 {
				slog.Debug(fmt.Sprintf("scanned %v nodes", c))
			}
			nodes[id] = object
		default:
			continue
		}
	}
	err = scanner.Err()
	scanner.Close()
	if err != nil {
		return nil, nil, err
	}
	return ways, nodes, nil
}

//*******************************************
// map construction
//*******************************************

type _OSMRoad struct {
	id     int64
	attr   OSMRoadAttribs
	nodes  []int64
	line   []geo.GeoPoint
	lanes  []RawLane
	bounds []RawBoundary
}

// Builds the map entities from highways and their nodes.
func BuildOSMReader(ways []*osm.Way, nodes Dict[int64, *osm.Node], decoder IOSMDecoder) *OSMReader {
	reader := &OSMReader{
		roads:      NewList[RawRoad](len(ways)),
		lanes:      NewDict[int64, []RawLane](len(ways)),
		boundaries: NewDict[int64, RawBoundary](len(ways) * 3),
		links:      NewList[RawLaneLink](len(ways)),
		objects:    NewList[RawObject](10),
		junctions:  NewList[RawJunction](10),
	}

	sort.Slice(ways, func(i, j int) bool { return ways[i].ID < ways[j].ID })
	roads := NewList[*_OSMRoad](len(ways))
	for _, way := range ways {
		road := _BuildOSMRoad(way, nodes, decoder)
		if road == nil {
			continue
		}
		roads.Add(road)
		reader.roads.Add(RawRoad{
			ID:         road.id,
			Type:       road.attr.Type,
			Direction:  _Direction(road.attr.Oneway),
			Centerline: road.line,
			Sections:   []RawSection{{ID: 0, Length: 0}},
		})
		reader.lanes[road.id] = road.lanes
		for _, b := range road.bounds {
			reader.boundaries[b.ID] = b
		}
	}

	starting := NewDict[int64, List[*_OSMRoad]](roads.Length())
	ending := NewDict[int64, List[*_OSMRoad]](roads.Length())
	node_ways := NewDict[int64, List[*_OSMRoad]](roads.Length() * 4)
	for _, road := range roads {
		first := road.nodes[0]
		last := road.nodes[len(road.nodes)-1]
		l := starting[first]
		l.Add(road)
		starting[first] = l
		l = ending[last]
		l.Add(road)
		ending[last] = l
		for _, n := range road.nodes {
			l := node_ways[n]
			l.Add(road)
			node_ways[n] = l
		}
	}

	// lane links at shared end nodes
	junction_links := NewDict[int64, List[int64]](10)
	link_id := int64(1)
	for _, from := range roads {
		node := from.nodes[len(from.nodes)-1]
		for _, to := range starting[node] {
			if to.id == from.id {
				continue
			}
			for i, lane := range from.lanes {
				target := to.lanes[min(i, len(to.lanes)-1)]
				reader.links.Add(RawLaneLink{
					ID:         link_id,
					From:       lane.ID,
					To:         target.ID,
					JunctionID: node,
					Attr:       to.attr.Lane,
					Centerline: _ConnectLines(lane.Centerline, target.Centerline),
				})
				l := junction_links[node]
				l.Add(link_id)
				junction_links[node] = l
				link_id += 1
			}
		}
	}
	for _, node := range SortedKeys(junction_links) {
		reader.junctions.Add(RawJunction{ID: node, LaneLinks: junction_links[node]})
	}

	// traffic signals
	for _, id := range SortedKeys(nodes) {
		node := nodes[id]
		tags := Dict[string, string](node.TagMap())
		if !decoder.IsTrafficSignal(tags) {
			continue
		}
		junction, roads, ok := _FindControlledRoads(id, node_ways[id], ending, junction_links)
		if !ok {
			slog.Warn("traffic signal without junction", "node", id)
			continue
		}
		road_ids := make([]string, len(roads))
		for i, r := range roads {
			road_ids[i] = strconv.FormatInt(r, 10)
		}
		obj_tags := map[string]string{
			"junction": strconv.FormatInt(junction, 10),
			"roads":    strings.Join(road_ids, ","),
			"contact":  "end",
		}
		pos := geo.GeoPoint{Lon: node.Lon, Lat: node.Lat}
		reader.objects.Add(RawObject{
			ID:     id,
			Type:   attr.OBJECT_TRAFFIC_LIGHT,
			Name:   tags.Get("name"),
			Points: []geo.GeoPoint{pos},
			Pose:   GeoPose{Position: pos},
			Tags:   obj_tags,
		})
	}
	return reader
}

func _Direction(oneway bool) attr.Direction {
	if oneway {
		return attr.DIRECTION_FORWARD
	}
	return attr.DIRECTION_BOTH
}

// Returns the junction node and the roads entering it controlled by the signal at node.
func _FindControlledRoads(node int64, on_ways List[*_OSMRoad], ending Dict[int64, List[*_OSMRoad]], junctions Dict[int64, List[int64]]) (int64, []int64, bool) {
	if junctions.ContainsKey(node) {
		roads := make([]int64, 0, 2)
		for _, r := range ending[node] {
			roads = append(roads, r.id)
		}
		return node, roads, len(roads) > 0
	}
	for _, r := range on_ways {
		end := r.nodes[len(r.nodes)-1]
		if junctions.ContainsKey(end) {
			return end, []int64{r.id}, true
		}
	}
	return 0, nil, false
}

func _BuildOSMRoad(way *osm.Way, nodes Dict[int64, *osm.Node], decoder IOSMDecoder) *_OSMRoad {
	tags := Dict[string, string](way.TagMap())
	road := &_OSMRoad{
		id:   int64(way.ID),
		attr: decoder.DecodeRoad(tags),
	}
	for _, id := range way.Nodes.NodeIDs() {
		node, ok := nodes[int64(id)]
		if !ok {
			continue
		}
		road.nodes = append(road.nodes, int64(id))
		road.line = append(road.line, geo.GeoPoint{Lon: node.Lon, Lat: node.Lat})
	}
	if len(road.line) < 2 {
		slog.Warn("skipping way with unresolved nodes", "way", road.id)
		return nil
	}

	width := road.attr.Lane.Width
	n := road.attr.Lanes
	for k := 0; k <= n; k++ {
		mark := attr.MARK_BROKEN
		if k == 0 || k == n {
			mark = attr.MARK_SOLID
		}
		road.bounds = append(road.bounds, RawBoundary{
			ID:     road.id*1000 + int64(k),
			Mark:   mark,
			Points: _OffsetLine(road.line, -float64(k)*width),
		})
	}
	for i := 1; i <= n; i++ {
		road.lanes = append(road.lanes, RawLane{
			ID:         structs.NewLaneID(road.id, 0, int64(i)),
			Attr:       road.attr.Lane,
			Centerline: _OffsetLine(road.line, -(float64(i)-0.5)*width),
			Boundaries: [2]int64{road.id*1000 + int64(i-1), road.id*1000 + int64(i)},
		})
	}
	return road
}

//*******************************************
// geometry helpers
//*******************************************

const _METERS_PER_DEGREE = 111320.0

func _MetersPerDegree(lat float64) (float64, float64) {
	return _METERS_PER_DEGREE * math.Cos(lat*math.Pi/180), _METERS_PER_DEGREE
}

// Offsets a geodetic line sideways by offset meters (positive to the left).
func _OffsetLine(line []geo.GeoPoint, offset float64) []geo.GeoPoint {
	if offset == 0 {
		return append([]geo.GeoPoint(nil), line...)
	}
	result := make([]geo.GeoPoint, len(line))
	for i, p := range line {
		prev := line[max(i-1, 0)]
		next := line[min(i+1, len(line)-1)]
		mx, my := _MetersPerDegree(p.Lat)
		dx := (next.Lon - prev.Lon) * mx
		dy := (next.Lat - prev.Lat) * my
		l := math.Hypot(dx, dy)
		if l == 0 {
			result[i] = p
			continue
		}
		nx := -dy / l
		ny := dx / l
		result[i] = geo.GeoPoint{
			Lon: p.Lon + nx*offset/mx,
			Lat: p.Lat + ny*offset/my,
			Alt: p.Alt,
		}
	}
	return result
}

// Returns a connection from the end of a to the start of b keeping the end headings.
func _ConnectLines(a, b []geo.GeoPoint) []geo.GeoPoint {
	p0 := a[len(a)-1]
	p3 := b[0]
	mx, my := _MetersPerDegree(p0.Lat)
	dist := math.Hypot((p3.Lon-p0.Lon)*mx, (p3.Lat-p0.Lat)*my)
	s := math.Max(dist/3, 1)

	dir := func(from, to geo.GeoPoint) (float64, float64) {
		dx := (to.Lon - from.Lon) * mx
		dy := (to.Lat - from.Lat) * my
		l := math.Hypot(dx, dy)
		if l == 0 {
			return 0, 0
		}
		return dx / l, dy / l
	}
	ax, ay := dir(a[len(a)-2], p0)
	bx, by := dir(b[0], b[1])
	p1 := geo.GeoPoint{Lon: p0.Lon + ax*s/mx, Lat: p0.Lat + ay*s/my, Alt: p0.Alt}
	p2 := geo.GeoPoint{Lon: p3.Lon - bx*s/mx, Lat: p3.Lat - by*s/my, Alt: p3.Alt}
	return []geo.GeoPoint{p0, p1, p2, p3}
}
