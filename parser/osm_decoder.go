package parser

import (
	"strconv"
	"strings"

	"github.com/ttpr0/go-hdmap/attr"
	. "github.com/ttpr0/go-hdmap/util"
)

const DEFAULT_LANE_WIDTH = 3.5

// Decodes osm tags into road attributes.
type IOSMDecoder interface {
	IsValidHighway(tags Dict[string, string]) bool
	IsTrafficSignal(tags Dict[string, string]) bool
	DecodeRoad(tags Dict[string, string]) OSMRoadAttribs
}

type OSMRoadAttribs struct {
	Type   attr.RoadType
	Lane   attr.LaneAttribs
	Lanes  int
	Oneway bool
}

type DrivingDecoder struct {
}

var driving_types = Dict[string, bool]{"motorway": true, "motorway_link": true, "trunk": true, "trunk_link": true,
	"primary": true, "primary_link": true, "secondary": true, "secondary_link": true, "tertiary": true, "tertiary_link": true,
	"residential": true, "living_street": true, "service": true, "unclassified": true, "road": true}

func (self *DrivingDecoder) IsValidHighway(tags Dict[string, string]) bool {
	if !tags.ContainsKey("highway") {
		return false
	}
	if !driving_types.ContainsKey(tags.Get("highway")) {
		return false
	}
	return true
}
func (self *DrivingDecoder) IsTrafficSignal(tags Dict[string, string]) bool {
	return tags.Get("highway") == "traffic_signals"
}
func (self *DrivingDecoder) DecodeRoad(tags Dict[string, string]) OSMRoadAttribs {
	highway := tags.Get("highway")
	a := OSMRoadAttribs{}
	a.Type = _GetRoadType(highway, tags)
	a.Oneway = _IsOneway(tags.Get("oneway"), highway)
	a.Lanes = _GetLaneCount(tags.Get("lanes"), a.Oneway)
	a.Lane = attr.LaneAttribs{
		Type:       attr.LANE_DRIVING,
		Arrow:      attr.ARROW_NONE,
		Width:      _GetLaneWidth(tags.Get("width"), a.Lanes),
		SpeedLimit: float64(_GetTemplimit(tags.Get("maxspeed"), highway)),
	}
	if highway == "service" && tags.Get("service") == "parking_aisle" {
		a.Lane.Type = attr.LANE_PARKING
	}
	return a
}

//*******************************************
// utility methods
//*******************************************

func _IsOneway(oneway string, highway string) bool {
	switch highway {
	case "motorway", "trunk", "motorway_link", "trunk_link":
		return true
	}
	return oneway == "yes" || oneway == "1" || oneway == "true"
}

func _GetRoadType(highway string, tags Dict[string, string]) attr.RoadType {
	if tags.Get("bridge") == "yes" {
		return attr.ROAD_BRIDGE
	}
	if tags.Get("tunnel") == "yes" {
		return attr.ROAD_TUNNEL
	}
	switch {
	case highway == "motorway" || highway == "trunk":
		return attr.ROAD_HIGHWAY
	case strings.HasSuffix(highway, "_link"):
		return attr.ROAD_RAMP
	case highway == "service" && tags.Get("service") == "parking_aisle":
		return attr.ROAD_PARKING
	case highway == "":
		return attr.ROAD_UNKNOWN
	}
	return attr.ROAD_URBAN
}

func _GetLaneCount(lanes string, oneway bool) int {
	n, err := strconv.Atoi(lanes)
	if err != nil || n < 1 {
		if oneway {
			return 1
		}
		return 2
	}
	return n
}

func _GetLaneWidth(width string, lanes int) float64 {
	w, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(width), " m"), 64)
	if err != nil || w <= 0 || lanes < 1 {
		return DEFAULT_LANE_WIDTH
	}
	return w / float64(lanes)
}

func _GetTemplimit(templimit string, highway string) int32 {
	var w int32
	if templimit == "" {
		switch highway {
		case "motorway", "trunk":
			w = 130
		case "motorway_link", "trunk_link":
			w = 50
		case "primary", "secondary":
			w = 90
		case "tertiary":
			w = 70
		case "primary_link", "secondary_link", "tertiary_link":
			w = 30
		case "residential":
			w = 40
		case "living_street":
			w = 10
		default:
			w = 25
		}
	} else if templimit == "walk" {
		w = 10
	} else if templimit == "none" {
		w = 130
	} else {
		t, err := strconv.Atoi(strings.TrimSuffix(templimit, " mph"))
		if err != nil {
			w = 20
		} else if strings.HasSuffix(templimit, " mph") {
			w = int32(float64(t) * 1.609)
		} else {
			w = int32(t)
		}
	}
	return w
}
