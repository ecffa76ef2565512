package structs

import (
	"time"

	"github.com/ttpr0/go-hdmap/geo"
	. "github.com/ttpr0/go-hdmap/util"
)

// Loaded map before index assembly.
//
// Boundaries are carried per lane (left, right) as delivered by the reader.
// They are deduplicated by id when the map index is built, after which
// LaneBoundaries is released.
type MapDocument struct {
	Name    string
	Path    string
	Etag    string
	ModTime time.Time

	Reference geo.Reference

	Roads          List[*Road]
	LaneBoundaries Dict[LaneID, [2]*LaneBoundary]
	LaneLinks      List[*LaneLink]
	Objects        List[*MapObject]
	Junctions      List[*Junction]
}

func NewMapDocument(name string) *MapDocument {
	return &MapDocument{
		Name:           name,
		Roads:          NewList[*Road](16),
		LaneBoundaries: NewDict[LaneID, [2]*LaneBoundary](64),
		LaneLinks:      NewList[*LaneLink](16),
		Objects:        NewList[*MapObject](16),
		Junctions:      NewList[*Junction](4),
	}
}

func (self *MapDocument) LaneCount() int {
	count := 0
	for _, road := range self.Roads {
		for _, section := range road.Sections {
			count += section.Lanes.Length()
		}
	}
	return count
}
