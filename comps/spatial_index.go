package comps

import (
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
	"github.com/ttpr0/go-hdmap/structs"
	. "github.com/ttpr0/go-hdmap/util"
)

//*******************************************
// spatial index
//*******************************************

type ItemKind int8

const (
	ITEM_LANE     ItemKind = 0
	ITEM_LANELINK ItemKind = 1
	ITEM_OBJECT   ItemKind = 2
)

// margin added to item boxes, rtree intersection excludes touching boxes
const _ITEM_MARGIN = 0.01

type _SpatialItem struct {
	rect rtreego.Rect
	kind ItemKind
	lane structs.LaneID
	id   int64
}

func (self *_SpatialItem) Bounds() rtreego.Rect {
	return self.rect
}

// R-tree over the bounding boxes of lanes, lane links and map objects.
type SpatialIndex struct {
	tree *rtreego.Rtree
}

func NewSpatialIndex(index IMapIndex) *SpatialIndex {
	items := NewList[rtreego.Spatial](index.Lanes().Length() + index.LaneLinks().Length() + index.MapObjects().Length())
	for _, lane := range index.Lanes() {
		if len(lane.Centerline) == 0 {
			continue
		}
		items.Add(&_SpatialItem{rect: _ToRect(lane.Bound, _ITEM_MARGIN), kind: ITEM_LANE, lane: lane.ID})
	}
	for _, link := range index.LaneLinks() {
		if len(link.Centerline) == 0 {
			continue
		}
		items.Add(&_SpatialItem{rect: _ToRect(link.Bound, _ITEM_MARGIN), kind: ITEM_LANELINK, id: link.ID})
	}
	for _, object := range index.MapObjects() {
		items.Add(&_SpatialItem{rect: _ToRect(object.Bound, _ITEM_MARGIN), kind: ITEM_OBJECT, id: object.ID})
	}
	return &SpatialIndex{
		tree: rtreego.NewTree(2, 25, 50, items...),
	}
}

func _ToRect(bound orb.Bound, margin float64) rtreego.Rect {
	rect, _ := rtreego.NewRectFromPoints(
		rtreego.Point{bound.Min[0] - margin, bound.Min[1] - margin},
		rtreego.Point{bound.Max[0] + margin, bound.Max[1] + margin},
	)
	return rect
}

func _KindFilter(kind ItemKind) rtreego.Filter {
	return func(results []rtreego.Spatial, object rtreego.Spatial) (bool, bool) {
		return object.(*_SpatialItem).kind != kind, false
	}
}

func (self *SpatialIndex) _Search(p orb.Point, radius float64, kind ItemKind) []rtreego.Spatial {
	query := _ToRect(p.Bound(), radius)
	return self.tree.SearchIntersect(query, _KindFilter(kind))
}

// Returns the lanes whose bounding box lies within radius of p, ordered by id.
func (self *SpatialIndex) SearchLanes(p orb.Point, radius float64) List[structs.LaneID] {
	items := self._Search(p, radius, ITEM_LANE)
	result := NewList[structs.LaneID](len(items))
	for _, item := range items {
		result.Add(item.(*_SpatialItem).lane)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Less(result[j]) })
	return result
}

// Returns the lane links whose bounding box lies within radius of p, ordered by id.
func (self *SpatialIndex) SearchLaneLinks(p orb.Point, radius float64) List[int64] {
	return self._SearchIDs(p, radius, ITEM_LANELINK)
}

// Returns the map objects whose bounding box lies within radius of p, ordered by id.
func (self *SpatialIndex) SearchObjects(p orb.Point, radius float64) List[int64] {
	return self._SearchIDs(p, radius, ITEM_OBJECT)
}

func (self *SpatialIndex) _SearchIDs(p orb.Point, radius float64, kind ItemKind) List[int64] {
	items := self._Search(p, radius, kind)
	result := NewList[int64](len(items))
	for _, item := range items {
		result.Add(item.(*_SpatialItem).id)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

func (self *SpatialIndex) Size() int {
	return self.tree.Size()
}
