package signal

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ttpr0/go-hdmap/attr"
	"github.com/ttpr0/go-hdmap/comps"
	"github.com/ttpr0/go-hdmap/geo"
	"github.com/ttpr0/go-hdmap/query"
	"github.com/ttpr0/go-hdmap/structs"
	. "github.com/ttpr0/go-hdmap/util"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/exp/slog"
)

// tags read from traffic light objects
const (
	TAG_JUNCTION = "junction"
	TAG_ROADS    = "roads"
	TAG_CONTACT  = "contact"
)

// Search radius for the lane under a traffic light.
const LIGHT_LANE_RADIUS = 30.0

type Contact int8

const (
	CONTACT_END   Contact = 0
	CONTACT_START Contact = 1
)

func (self Contact) String() string {
	if self == CONTACT_START {
		return "start"
	}
	return "end"
}

func ContactFromString(s string) Contact {
	if strings.TrimSpace(strings.ToLower(s)) == "start" {
		return CONTACT_START
	}
	return CONTACT_END
}

func (self Contact) MarshalJSON() ([]byte, error) {
	return json.Marshal(self.String())
}

//*******************************************
// scaffolding
//*******************************************

type SignLight struct {
	ID       int64          `json:"id"`
	Junction int64          `json:"junction"`
	Roads    []int64        `json:"roads"`
	Lane     structs.LaneID `json:"lane"`
	Position geo.GeoPoint   `json:"position"`
}

// Lanes and lane links departing a road end into one phase.
type PhaseBucket struct {
	Lanes     List[structs.LaneID] `json:"lanes"`
	LaneLinks List[int64]          `json:"lanelinks"`
}

// Phase buckets of one road end controlled by a junction.
type Route struct {
	Junction  int64                      `json:"junction"`
	Road      int64                      `json:"road"`
	Contact   Contact                    `json:"contact"`
	StopPoint geo.GeoPoint               `json:"stop_point"`
	Phases    Dict[string, *PhaseBucket] `json:"phases"`
}

func (self *Route) Bucket(phase attr.PhaseType) *PhaseBucket {
	return self.Phases[phase.String()]
}

type JunctionLights struct {
	ID int64 `json:"id"`
	// light id -> controlled road id
	Lights Dict[int64, int64] `json:"lights"`
}

// Signal phase scaffolding of one map.
type Scaffolding struct {
	SignLights List[SignLight]       `json:"signlights"`
	Routes     List[*Route]          `json:"routes"`
	Junctions  List[*JunctionLights] `json:"junctions"`
}

func (self *Scaffolding) FindRoute(junction, road int64) Optional[*Route] {
	for _, route := range self.Routes {
		if route.Junction == junction && route.Road == road {
			return Some(route)
		}
	}
	return None[*Route]()
}

func (self *Scaffolding) JSON() ([]byte, error) {
	return json.Marshal(self)
}

//*******************************************
// inference
//*******************************************

// Builds the phase scaffolding from the traffic lights of a map.
//
// Lights without junction and roads tags are ignored. Lights whose lane
// cannot be resolved and unknown controlled roads are skipped.
func InferPhases(index comps.IMapIndex, engine *query.Engine) *Scaffolding {
	scaffolding := &Scaffolding{
		SignLights: NewList[SignLight](4),
		Routes:     NewList[*Route](4),
		Junctions:  NewList[*JunctionLights](4),
	}
	routes := NewDict[Tuple[int64, int64], *Route](4)
	junctions := NewDict[int64, *JunctionLights](4)
	transform := index.Transform()

	for _, object := range index.MapObjects() {
		if object.Type != attr.OBJECT_TRAFFIC_LIGHT {
			continue
		}
		if object.Tag(TAG_JUNCTION) == "" && object.Tag(TAG_ROADS) == "" {
			continue
		}
		junction_id, road_ids, err := _ParseLightTags(object)
		if err != nil {
			slog.Warn("skipping traffic light with invalid tags", "light", object.ID, "error", err)
			continue
		}
		contact := ContactFromString(object.Tag(TAG_CONTACT))
		position := transform.ToGeodetic(object.Pose.Position)
		match, status := engine.QuerySection(position.Lon, position.Lat, LIGHT_LANE_RADIUS)
		if status != query.OK {
			slog.Warn("skipping traffic light without lane", "light", object.ID, "status", status.String())
			continue
		}
		scaffolding.SignLights.Add(SignLight{
			ID:       object.ID,
			Junction: junction_id,
			Roads:    road_ids,
			Lane:     match.Lane,
			Position: position,
		})

		for _, road_id := range road_ids {
			road := index.FindRoad(road_id)
			if !road.HasValue() {
				slog.Warn("skipping unknown road of traffic light", "light", object.ID, "road", road_id)
				continue
			}
			key := MakeTuple(junction_id, road_id)
			route, ok := routes[key]
			if !ok {
				route = _NewRoute(index, road.Value, junction_id, contact)
				routes[key] = route
			}
			_FillRoute(index, route, road.Value)

			lights, ok := junctions[junction_id]
			if !ok {
				lights = &JunctionLights{ID: junction_id, Lights: NewDict[int64, int64](4)}
				junctions[junction_id] = lights
			}
			if !lights.Lights.ContainsKey(object.ID) {
				lights.Lights[object.ID] = road_id
			}
		}
	}

	keys := maps.Keys(routes)
	slices.SortFunc(keys, func(a, b Tuple[int64, int64]) int {
		if a.A != b.A {
			return _Compare(a.A, b.A)
		}
		return _Compare(a.B, b.B)
	})
	for _, key := range keys {
		scaffolding.Routes.Add(routes[key])
	}
	for _, id := range SortedKeys(junctions) {
		scaffolding.Junctions.Add(junctions[id])
	}
	slog.Debug("inferred signal phases", "lights", scaffolding.SignLights.Length(), "routes", scaffolding.Routes.Length())
	return scaffolding
}

func _Compare(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func _ParseLightTags(object *structs.MapObject) (int64, []int64, error) {
	junction_id, err := strconv.ParseInt(strings.TrimSpace(object.Tag(TAG_JUNCTION)), 10, 64)
	if err != nil {
		return 0, nil, fmt.Errorf("junction tag: %w", err)
	}
	road_ids := make([]int64, 0, 2)
	for _, s := range strings.Split(object.Tag(TAG_ROADS), ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, nil, fmt.Errorf("roads tag: %w", err)
		}
		road_ids = append(road_ids, id)
	}
	if len(road_ids) == 0 {
		return 0, nil, fmt.Errorf("roads tag: no road ids")
	}
	return junction_id, road_ids, nil
}

// Returns the section of a road at the contact side.
func _ContactSection(road *structs.Road, contact Contact) *structs.Section {
	if road.Sections.Length() == 0 {
		return nil
	}
	if contact == CONTACT_START {
		return road.Sections[0]
	}
	return road.Sections.Last()
}

func _NewRoute(index comps.IMapIndex, road *structs.Road, junction_id int64, contact Contact) *Route {
	route := &Route{
		Junction: junction_id,
		Road:     road.ID,
		Contact:  contact,
		Phases:   NewDict[string, *PhaseBucket](5),
	}
	for _, phase := range attr.PhaseTypes() {
		route.Phases[phase.String()] = &PhaseBucket{
			Lanes:     NewList[structs.LaneID](2),
			LaneLinks: NewList[int64](2),
		}
	}
	if section := _ContactSection(road, contact); section != nil {
		if stop, ok := _StopPoint(index, section, contact); ok {
			route.StopPoint = index.Transform().ToGeodetic(stop)
		}
	}
	return route
}

// Midpoint of the outermost boundary points at the contact side of a section.
//
// Outermost is measured by the signed offset to the section heading, lanes
// without boundaries contribute their centerline point.
func _StopPoint(index comps.IMapIndex, section *structs.Section, contact Contact) (geo.Point, bool) {
	pick := func(line structs.Polyline) (geo.Point, bool) {
		if len(line) == 0 {
			return geo.Point{}, false
		}
		if contact == CONTACT_START {
			return line.First(), true
		}
		return line.Last(), true
	}
	var origin geo.Point
	yaw := 0.0
	found := false
	for _, lane := range section.Lanes {
		if p, ok := pick(lane.Centerline); ok {
			origin = p
			if contact == CONTACT_START {
				yaw = lane.Centerline.StartYaw()
			} else {
				yaw = lane.Centerline.EndYaw()
			}
			found = true
			break
		}
	}
	if !found {
		return geo.Point{}, false
	}
	rad := yaw * math.Pi / 180
	normal := geo.Point{X: -math.Sin(rad), Y: math.Cos(rad)}

	var left, right geo.Point
	max_offset := math.Inf(-1)
	min_offset := math.Inf(1)
	consider := func(p geo.Point) {
		d := p.Sub(origin)
		offset := d.X*normal.X + d.Y*normal.Y
		if offset > max_offset {
			max_offset = offset
			left = p
		}
		if offset < min_offset {
			min_offset = offset
			right = p
		}
	}
	for _, lane := range section.Lanes {
		has_boundary := false
		for _, id := range lane.Boundaries {
			if p, ok := _BoundaryPoint(index, id, pick); ok {
				consider(p)
				has_boundary = true
			}
		}
		if !has_boundary {
			if p, ok := pick(lane.Centerline); ok {
				consider(p)
			}
		}
	}
	return left.Lerp(right, 0.5), true
}

func _BoundaryPoint(index comps.IMapIndex, id int64, pick func(structs.Polyline) (geo.Point, bool)) (geo.Point, bool) {
	boundary := index.FindLaneBoundary(id)
	if !boundary.HasValue() {
		return geo.Point{}, false
	}
	return pick(boundary.Value.Points)
}

// Adds the lane links departing the road end to their phase buckets.
//
// Lanes that cannot be driven on are left out.
func _FillRoute(index comps.IMapIndex, route *Route, road *structs.Road) {
	section := _ContactSection(road, route.Contact)
	if section == nil {
		return
	}
	for _, lane := range section.Lanes {
		if !lane.Attr.IsDrivable() {
			continue
		}
		for _, link := range index.LinksFrom(lane.ID) {
			bucket := route.Bucket(ClassifyLaneLink(link))
			if !slices.Contains(bucket.LaneLinks, link.ID) {
				bucket.LaneLinks.Add(link.ID)
			}
			if !slices.Contains(bucket.Lanes, lane.ID) {
				bucket.Lanes.Add(lane.ID)
			}
		}
	}
}
