package attr

//*******************************************
// lane attributes
//*******************************************

// Attributes shared by lanes and lane links for routing decisions.
type LaneAttribs struct {
	Type       LaneType
	Arrow      LaneArrow
	Width      float64
	SpeedLimit float64
}

// Returns if a vehicle may drive on a lane of this type.
func (self LaneAttribs) IsDrivable() bool {
	switch self.Type {
	case LANE_DRIVING, LANE_BUS, LANE_EMERGENCY, LANE_UNKNOWN:
		return true
	}
	return false
}
