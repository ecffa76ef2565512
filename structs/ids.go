package structs

import (
	"fmt"
)

//*******************************************
// lane id
//*******************************************

// Composite identity of a lane. Addresses a road ({road, -1, -1}), a section
// ({road, section, -1}) or a lane ({road, section, lane}).
//
// Ordered by road, then section, then lane.
type LaneID struct {
	RoadID    int64 `json:"road_id"`
	SectionID int64 `json:"section_id"`
	LaneID    int64 `json:"lane_id"`
}

// Sentinel for "no lane".
var INVALID_LANE = LaneID{-1, -1, -1}

func NewLaneID(road, section, lane int64) LaneID {
	return LaneID{RoadID: road, SectionID: section, LaneID: lane}
}

func (self LaneID) IsValid() bool {
	return self.RoadID >= 0
}

// Returns the section part of the id.
func (self LaneID) Section() LaneID {
	return LaneID{RoadID: self.RoadID, SectionID: self.SectionID, LaneID: -1}
}

func (self LaneID) Compare(other LaneID) int {
	switch {
	case self.RoadID != other.RoadID:
		return _Cmp(self.RoadID, other.RoadID)
	case self.SectionID != other.SectionID:
		return _Cmp(self.SectionID, other.SectionID)
	default:
		return _Cmp(self.LaneID, other.LaneID)
	}
}

func (self LaneID) Less(other LaneID) bool {
	return self.Compare(other) < 0
}

func (self LaneID) String() string {
	return fmt.Sprintf("%d/%d/%d", self.RoadID, self.SectionID, self.LaneID)
}

func _Cmp(a, b int64) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}
