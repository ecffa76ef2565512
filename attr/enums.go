package attr

import (
	"encoding/json"
	"errors"
)

func _MarshalEnum(name string) ([]byte, error) {
	return json.Marshal(name)
}

func _UnmarshalEnum[T ~int8](data []byte, from_string func(string) (T, error)) (T, error) {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return 0, err
	}
	return from_string(name)
}

func _NameOf(names []string, index int) string {
	if index < 0 || index >= len(names) {
		return "unknown"
	}
	return names[index]
}

func _IndexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

//*******************************************
// road type
//*******************************************

type RoadType int8

const (
	ROAD_UNKNOWN  RoadType = 0
	ROAD_HIGHWAY  RoadType = 1
	ROAD_URBAN    RoadType = 2
	ROAD_RAMP     RoadType = 3
	ROAD_TUNNEL   RoadType = 4
	ROAD_BRIDGE   RoadType = 5
	ROAD_PARKING  RoadType = 6
	ROAD_JUNCTION RoadType = 7
)

var road_type_names = []string{"unknown", "highway", "urban", "ramp", "tunnel", "bridge", "parking", "junction"}

func (self RoadType) String() string {
	return _NameOf(road_type_names, int(self))
}
func RoadTypeFromString(typ string) (RoadType, error) {
	i := _IndexOf(road_type_names, typ)
	if i < 0 {
		return ROAD_UNKNOWN, errors.New("invalid road type")
	}
	return RoadType(i), nil
}
func (self RoadType) MarshalJSON() ([]byte, error) {
	return _MarshalEnum(self.String())
}
func (self *RoadType) UnmarshalJSON(data []byte) error {
	typ, err := _UnmarshalEnum(data, RoadTypeFromString)
	*self = typ
	return err
}

//*******************************************
// road direction
//*******************************************

type Direction int8

const (
	DIRECTION_BOTH     Direction = 0
	DIRECTION_FORWARD  Direction = 1
	DIRECTION_BACKWARD Direction = 2
)

var direction_names = []string{"both", "forward", "backward"}

func (self Direction) String() string {
	return _NameOf(direction_names, int(self))
}
func DirectionFromString(typ string) (Direction, error) {
	i := _IndexOf(direction_names, typ)
	if i < 0 {
		return DIRECTION_BOTH, errors.New("invalid direction")
	}
	return Direction(i), nil
}
func (self Direction) MarshalJSON() ([]byte, error) {
	return _MarshalEnum(self.String())
}
func (self *Direction) UnmarshalJSON(data []byte) error {
	typ, err := _UnmarshalEnum(data, DirectionFromString)
	*self = typ
	return err
}

//*******************************************
// lane type
//*******************************************

type LaneType int8

const (
	LANE_UNKNOWN   LaneType = 0
	LANE_DRIVING   LaneType = 1
	LANE_BUS       LaneType = 2
	LANE_BIKING    LaneType = 3
	LANE_SIDEWALK  LaneType = 4
	LANE_PARKING   LaneType = 5
	LANE_SHOULDER  LaneType = 6
	LANE_EMERGENCY LaneType = 7
)

var lane_type_names = []string{"unknown", "driving", "bus", "biking", "sidewalk", "parking", "shoulder", "emergency"}

func (self LaneType) String() string {
	return _NameOf(lane_type_names, int(self))
}
func LaneTypeFromString(typ string) (LaneType, error) {
	i := _IndexOf(lane_type_names, typ)
	if i < 0 {
		return LANE_UNKNOWN, errors.New("invalid lane type")
	}
	return LaneType(i), nil
}
func (self LaneType) MarshalJSON() ([]byte, error) {
	return _MarshalEnum(self.String())
}
func (self *LaneType) UnmarshalJSON(data []byte) error {
	typ, err := _UnmarshalEnum(data, LaneTypeFromString)
	*self = typ
	return err
}

//*******************************************
// lane arrow
//*******************************************

type LaneArrow int8

const (
	ARROW_NONE           LaneArrow = 0
	ARROW_STRAIGHT       LaneArrow = 1
	ARROW_LEFT           LaneArrow = 2
	ARROW_RIGHT          LaneArrow = 3
	ARROW_UTURN          LaneArrow = 4
	ARROW_STRAIGHT_LEFT  LaneArrow = 5
	ARROW_STRAIGHT_RIGHT LaneArrow = 6
	ARROW_LEFT_UTURN     LaneArrow = 7
	ARROW_LEFT_RIGHT     LaneArrow = 8
)

var lane_arrow_names = []string{"none", "straight", "left", "right", "uturn", "straight_left", "straight_right", "left_uturn", "left_right"}

func (self LaneArrow) String() string {
	return _NameOf(lane_arrow_names, int(self))
}
func LaneArrowFromString(typ string) (LaneArrow, error) {
	i := _IndexOf(lane_arrow_names, typ)
	if i < 0 {
		return ARROW_NONE, errors.New("invalid lane arrow")
	}
	return LaneArrow(i), nil
}
func (self LaneArrow) MarshalJSON() ([]byte, error) {
	return _MarshalEnum(self.String())
}
func (self *LaneArrow) UnmarshalJSON(data []byte) error {
	typ, err := _UnmarshalEnum(data, LaneArrowFromString)
	*self = typ
	return err
}

//*******************************************
// boundary mark
//*******************************************

type MarkType int8

const (
	MARK_NONE         MarkType = 0
	MARK_SOLID        MarkType = 1
	MARK_BROKEN       MarkType = 2
	MARK_SOLID_SOLID  MarkType = 3
	MARK_SOLID_BROKEN MarkType = 4
	MARK_BROKEN_SOLID MarkType = 5
	MARK_CURB         MarkType = 6
)

var mark_type_names = []string{"none", "solid", "broken", "solid_solid", "solid_broken", "broken_solid", "curb"}

func (self MarkType) String() string {
	return _NameOf(mark_type_names, int(self))
}
func MarkTypeFromString(typ string) (MarkType, error) {
	i := _IndexOf(mark_type_names, typ)
	if i < 0 {
		return MARK_NONE, errors.New("invalid mark type")
	}
	return MarkType(i), nil
}
func (self MarkType) MarshalJSON() ([]byte, error) {
	return _MarshalEnum(self.String())
}
func (self *MarkType) UnmarshalJSON(data []byte) error {
	typ, err := _UnmarshalEnum(data, MarkTypeFromString)
	*self = typ
	return err
}

//*******************************************
// object type
//*******************************************

type ObjectType int8

const (
	OBJECT_OTHER         ObjectType = 0
	OBJECT_TRAFFIC_LIGHT ObjectType = 1
	OBJECT_TRAFFIC_SIGN  ObjectType = 2
	OBJECT_CROSSWALK     ObjectType = 3
	OBJECT_STOP_LINE     ObjectType = 4
	OBJECT_PARKING_SPACE ObjectType = 5
	OBJECT_POLE          ObjectType = 6
	OBJECT_SPEED_BUMP    ObjectType = 7
)

var object_type_names = []string{"other", "traffic_light", "traffic_sign", "crosswalk", "stop_line", "parking_space", "pole", "speed_bump"}

func (self ObjectType) String() string {
	return _NameOf(object_type_names, int(self))
}
func ObjectTypeFromString(typ string) (ObjectType, error) {
	i := _IndexOf(object_type_names, typ)
	if i < 0 {
		return OBJECT_OTHER, errors.New("invalid object type")
	}
	return ObjectType(i), nil
}
func (self ObjectType) MarshalJSON() ([]byte, error) {
	return _MarshalEnum(self.String())
}
func (self *ObjectType) UnmarshalJSON(data []byte) error {
	typ, err := _UnmarshalEnum(data, ObjectTypeFromString)
	*self = typ
	return err
}

//*******************************************
// signal phase
//*******************************************

type PhaseType int8

const (
	PHASE_THROUGH    PhaseType = 0
	PHASE_LEFT       PhaseType = 1
	PHASE_LEFT_HARD  PhaseType = 2
	PHASE_RIGHT      PhaseType = 3
	PHASE_RIGHT_HARD PhaseType = 4
)

var phase_type_names = []string{"T", "L", "L0", "R", "R0"}

func PhaseTypes() []PhaseType {
	return []PhaseType{PHASE_THROUGH, PHASE_LEFT, PHASE_LEFT_HARD, PHASE_RIGHT, PHASE_RIGHT_HARD}
}

func (self PhaseType) String() string {
	return _NameOf(phase_type_names, int(self))
}
func PhaseTypeFromString(typ string) (PhaseType, error) {
	i := _IndexOf(phase_type_names, typ)
	if i < 0 {
		return PHASE_THROUGH, errors.New("invalid phase type")
	}
	return PhaseType(i), nil
}
func (self PhaseType) MarshalJSON() ([]byte, error) {
	return _MarshalEnum(self.String())
}
func (self *PhaseType) UnmarshalJSON(data []byte) error {
	typ, err := _UnmarshalEnum(data, PhaseTypeFromString)
	*self = typ
	return err
}
