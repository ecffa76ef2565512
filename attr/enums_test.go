package attr

import (
	"encoding/json"
	"testing"
)

func TestPhaseTypeNames(t *testing.T) {
	want := []string{"T", "L", "L0", "R", "R0"}
	for i, typ := range PhaseTypes() {
		if typ.String() != want[i] {
			t.Errorf("PhaseTypes()[%v] = %v; want %v", i, typ, want[i])
		}
		back, err := PhaseTypeFromString(want[i])
		if err != nil || back != typ {
			t.Errorf("PhaseTypeFromString(%v) = %v, %v", want[i], back, err)
		}
	}
}

func TestEnumJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Mark  MarkType   `json:"mark"`
		Lane  LaneType   `json:"lane"`
		Objec ObjectType `json:"object"`
	}{MARK_SOLID_BROKEN, LANE_BUS, OBJECT_TRAFFIC_LIGHT})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"mark":"solid_broken","lane":"bus","object":"traffic_light"}` {
		t.Errorf("marshal = %s", data)
	}

	var arrow LaneArrow
	if err := json.Unmarshal([]byte(`"left_uturn"`), &arrow); err != nil || arrow != ARROW_LEFT_UTURN {
		t.Errorf("unmarshal arrow = %v, %v", arrow, err)
	}
	var road RoadType
	if err := json.Unmarshal([]byte(`"motorway"`), &road); err == nil {
		t.Errorf("unmarshal of unknown road type succeeded")
	}
}

func TestUnknownEnumValue(t *testing.T) {
	if RoadType(42).String() != "unknown" {
		t.Errorf("RoadType(42) = %v; want unknown", RoadType(42))
	}
}

func TestIsDrivable(t *testing.T) {
	drivable := map[LaneType]bool{
		LANE_UNKNOWN:   true,
		LANE_DRIVING:   true,
		LANE_BUS:       true,
		LANE_EMERGENCY: true,
		LANE_BIKING:    false,
		LANE_SIDEWALK:  false,
		LANE_PARKING:   false,
		LANE_SHOULDER:  false,
	}
	for typ, want := range drivable {
		if got := (LaneAttribs{Type: typ}).IsDrivable(); got != want {
			t.Errorf("IsDrivable(%v) = %v; want %v", typ, got, want)
		}
	}
}
