package comps

import (
	"sort"
	"time"

	"github.com/paulmach/orb"
	"github.com/ttpr0/go-hdmap/geo"
	"github.com/ttpr0/go-hdmap/structs"
	. "github.com/ttpr0/go-hdmap/util"
	"golang.org/x/exp/slices"
	"golang.org/x/exp/slog"
)

//*******************************************
// map index interface
//*******************************************

type IMapIndex interface {
	Name() string
	Etag() string
	ModTime() time.Time
	Reference() geo.Reference
	Transform() geo.Transform
	Bound() orb.Bound

	FindRoad(id int64) Optional[*structs.Road]
	FindSection(id structs.LaneID) Optional[*structs.Section]
	FindLane(id structs.LaneID) Optional[*structs.Lane]
	FindLaneBoundary(id int64) Optional[*structs.LaneBoundary]
	FindLaneLink(id int64) Optional[*structs.LaneLink]
	FindMapObject(id int64) Optional[*structs.MapObject]
	FindJunction(id int64) Optional[*structs.Junction]

	Roads() List[*structs.Road]
	Sections() List[*structs.Section]
	Lanes() List[*structs.Lane]
	LaneBoundaries() List[*structs.LaneBoundary]
	LaneLinks() List[*structs.LaneLink]
	MapObjects() List[*structs.MapObject]
	Junctions() List[*structs.Junction]

	// lane links starting at the given lane, ordered by id
	LinksFrom(id structs.LaneID) List[*structs.LaneLink]
	// lane links ending at the given lane, ordered by id
	LinksTo(id structs.LaneID) List[*structs.LaneLink]

	Spatial() *SpatialIndex
	Topology() *Topology
	Stats() MapStats
}

type MapStats struct {
	Roads      int `json:"roads"`
	Sections   int `json:"sections"`
	Lanes      int `json:"lanes"`
	Boundaries int `json:"boundaries"`
	LaneLinks  int `json:"lanelinks"`
	Objects    int `json:"objects"`
	Junctions  int `json:"junctions"`
	// discarded duplicate boundaries
	Duplicates int `json:"duplicates"`
}

//*******************************************
// map index
//*******************************************

var _ IMapIndex = &MapIndex{}

// Owns all entities of one loaded map.
//
// Entities live in insertion-ordered arenas, identity lookups go through
// id-keyed indices into the arenas. After BuildMapIndex returns the index is
// never mutated.
type MapIndex struct {
	name      string
	etag      string
	mod_time  time.Time
	transform geo.Transform
	bound     orb.Bound

	roads      List[*structs.Road]
	sections   List[*structs.Section]
	lanes      List[*structs.Lane]
	boundaries List[*structs.LaneBoundary]
	lanelinks  List[*structs.LaneLink]
	objects    List[*structs.MapObject]
	junctions  List[*structs.Junction]

	road_index     Dict[int64, int32]
	section_index  Dict[structs.LaneID, int32]
	lane_index     Dict[structs.LaneID, int32]
	boundary_index Dict[int64, int32]
	link_index     Dict[int64, int32]
	object_index   Dict[int64, int32]
	junction_index Dict[int64, int32]

	links_from Dict[structs.LaneID, List[int32]]
	links_to   Dict[structs.LaneID, List[int32]]

	spatial    *SpatialIndex
	topology   *Topology
	duplicates int
}

// Assembles the index from a loaded document.
//
// Boundaries are deduplicated by id: the first instance seen becomes
// canonical, later instances with the same id are dropped. The document's
// per-lane boundaries are released afterwards.
func BuildMapIndex(doc *structs.MapDocument) *MapIndex {
	start := time.Now()
	lane_count := doc.LaneCount()
	index := &MapIndex{
		name:      doc.Name,
		etag:      doc.Etag,
		mod_time:  doc.ModTime,
		transform: geo.NewTransform(doc.Reference),

		roads:      NewList[*structs.Road](doc.Roads.Length()),
		sections:   NewList[*structs.Section](doc.Roads.Length()),
		lanes:      NewList[*structs.Lane](lane_count),
		boundaries: NewList[*structs.LaneBoundary](lane_count + 1),
		lanelinks:  NewList[*structs.LaneLink](doc.LaneLinks.Length()),
		objects:    NewList[*structs.MapObject](doc.Objects.Length()),
		junctions:  NewList[*structs.Junction](doc.Junctions.Length()),

		road_index:     NewDict[int64, int32](doc.Roads.Length()),
		section_index:  NewDict[structs.LaneID, int32](doc.Roads.Length()),
		lane_index:     NewDict[structs.LaneID, int32](lane_count),
		boundary_index: NewDict[int64, int32](lane_count + 1),
		link_index:     NewDict[int64, int32](doc.LaneLinks.Length()),
		object_index:   NewDict[int64, int32](doc.Objects.Length()),
		junction_index: NewDict[int64, int32](doc.Junctions.Length()),

		links_from: NewDict[structs.LaneID, List[int32]](doc.LaneLinks.Length()),
		links_to:   NewDict[structs.LaneID, List[int32]](doc.LaneLinks.Length()),
	}
	has_bound := false
	extend := func(b orb.Bound) {
		if !has_bound {
			index.bound = b
			has_bound = true
		} else {
			index.bound = index.bound.Union(b)
		}
	}

	for _, road := range doc.Roads {
		if index.road_index.ContainsKey(road.ID) {
			slog.Warn("duplicate road", "road", road.ID)
			continue
		}
		index.road_index[road.ID] = int32(index.roads.Length())
		index.roads.Add(road)
		for _, section := range road.Sections {
			section_id := structs.NewLaneID(road.ID, section.ID, -1)
			index.section_index[section_id] = int32(index.sections.Length())
			index.sections.Add(section)
			for _, lane := range section.Lanes {
				index.lane_index[lane.ID] = int32(index.lanes.Length())
				index.lanes.Add(lane)
				index._AddBoundaries(lane, doc.LaneBoundaries[lane.ID])
			}
		}
		if len(road.Centerline) > 0 || road.Sections.Length() > 0 {
			extend(road.Bound)
		}
	}
	doc.LaneBoundaries = nil

	for _, link := range doc.LaneLinks {
		if index.link_index.ContainsKey(link.ID) {
			slog.Warn("duplicate lanelink", "lanelink", link.ID)
			continue
		}
		i := int32(index.lanelinks.Length())
		index.link_index[link.ID] = i
		index.lanelinks.Add(link)
		from := index.links_from[link.From]
		from.Add(i)
		index.links_from[link.From] = from
		to := index.links_to[link.To]
		to.Add(i)
		index.links_to[link.To] = to
		if len(link.Centerline) > 0 {
			extend(link.Bound)
		}
	}
	for _, links := range index.links_from {
		index._SortLinks(links)
	}
	for _, links := range index.links_to {
		index._SortLinks(links)
	}

	for _, object := range doc.Objects {
		if index.object_index.ContainsKey(object.ID) {
			slog.Warn("duplicate map object", "object", object.ID)
			continue
		}
		index.object_index[object.ID] = int32(index.objects.Length())
		index.objects.Add(object)
	}

	for _, junction := range doc.Junctions {
		index._AddJunction(junction)
	}
	// junctions only known through their lane links
	for _, link := range index.lanelinks {
		if link.JunctionID == 0 {
			continue
		}
		if !index.junction_index.ContainsKey(link.JunctionID) {
			index._AddJunction(&structs.Junction{ID: link.JunctionID})
		}
		junction := index.junctions[index.junction_index[link.JunctionID]]
		if !slices.Contains(junction.LaneLinks, link.ID) {
			junction.LaneLinks.Add(link.ID)
		}
	}
	for _, junction := range index.junctions {
		has := false
		for _, id := range junction.LaneLinks {
			link := index.FindLaneLink(id)
			if !link.HasValue() {
				continue
			}
			if !has {
				junction.Bound = link.Value.Bound
				has = true
			} else {
				junction.Bound = junction.Bound.Union(link.Value.Bound)
			}
		}
	}

	index.spatial = NewSpatialIndex(index)
	index.topology = NewTopology(index)

	slog.Info("built map index", "name", index.name, "roads", index.roads.Length(), "lanes", index.lanes.Length(),
		"boundaries", index.boundaries.Length(), "duplicates", index.duplicates, "lanelinks", index.lanelinks.Length(),
		"took", time.Since(start))
	return index
}

func (self *MapIndex) _AddBoundaries(lane *structs.Lane, private [2]*structs.LaneBoundary) {
	for i, boundary := range private {
		if boundary == nil {
			continue
		}
		if j, ok := self.boundary_index[boundary.ID]; ok {
			// keep the canonical instance, drop the private one
			self.duplicates += 1
			lane.Boundaries[i] = self.boundaries[j].ID
			continue
		}
		self.boundary_index[boundary.ID] = int32(self.boundaries.Length())
		self.boundaries.Add(boundary)
		lane.Boundaries[i] = boundary.ID
	}
}

func (self *MapIndex) _AddJunction(junction *structs.Junction) {
	if self.junction_index.ContainsKey(junction.ID) {
		return
	}
	self.junction_index[junction.ID] = int32(self.junctions.Length())
	self.junctions.Add(junction)
}

func (self *MapIndex) _SortLinks(links List[int32]) {
	sort.Slice(links, func(i, j int) bool {
		return self.lanelinks[links[i]].ID < self.lanelinks[links[j]].ID
	})
}

//*******************************************
// metadata
//*******************************************

func (self *MapIndex) Name() string {
	return self.name
}
func (self *MapIndex) Etag() string {
	return self.etag
}
func (self *MapIndex) ModTime() time.Time {
	return self.mod_time
}
func (self *MapIndex) Reference() geo.Reference {
	return self.transform.Reference()
}
func (self *MapIndex) Transform() geo.Transform {
	return self.transform
}
func (self *MapIndex) Bound() orb.Bound {
	return self.bound
}
func (self *MapIndex) Spatial() *SpatialIndex {
	return self.spatial
}
func (self *MapIndex) Topology() *Topology {
	return self.topology
}
func (self *MapIndex) Stats() MapStats {
	return MapStats{
		Roads:      self.roads.Length(),
		Sections:   self.sections.Length(),
		Lanes:      self.lanes.Length(),
		Boundaries: self.boundaries.Length(),
		LaneLinks:  self.lanelinks.Length(),
		Objects:    self.objects.Length(),
		Junctions:  self.junctions.Length(),
		Duplicates: self.duplicates,
	}
}

// Number of boundary instances dropped during assembly.
func (self *MapIndex) DedupCount() int {
	return self.duplicates
}

//*******************************************
// lookup
//*******************************************

func _Find[K comparable, T any](index Dict[K, int32], arena List[T], key K) Optional[T] {
	i, ok := index[key]
	if !ok {
		return None[T]()
	}
	return Some(arena[i])
}

func (self *MapIndex) FindRoad(id int64) Optional[*structs.Road] {
	return _Find(self.road_index, self.roads, id)
}
func (self *MapIndex) FindSection(id structs.LaneID) Optional[*structs.Section] {
	return _Find(self.section_index, self.sections, id.Section())
}
func (self *MapIndex) FindLane(id structs.LaneID) Optional[*structs.Lane] {
	return _Find(self.lane_index, self.lanes, id)
}
func (self *MapIndex) FindLaneBoundary(id int64) Optional[*structs.LaneBoundary] {
	return _Find(self.boundary_index, self.boundaries, id)
}
func (self *MapIndex) FindLaneLink(id int64) Optional[*structs.LaneLink] {
	return _Find(self.link_index, self.lanelinks, id)
}
func (self *MapIndex) FindMapObject(id int64) Optional[*structs.MapObject] {
	return _Find(self.object_index, self.objects, id)
}
func (self *MapIndex) FindJunction(id int64) Optional[*structs.Junction] {
	return _Find(self.junction_index, self.junctions, id)
}

//*******************************************
// iteration
//*******************************************

func (self *MapIndex) Roads() List[*structs.Road] {
	return self.roads
}
func (self *MapIndex) Sections() List[*structs.Section] {
	return self.sections
}
func (self *MapIndex) Lanes() List[*structs.Lane] {
	return self.lanes
}
func (self *MapIndex) LaneBoundaries() List[*structs.LaneBoundary] {
	return self.boundaries
}
func (self *MapIndex) LaneLinks() List[*structs.LaneLink] {
	return self.lanelinks
}
func (self *MapIndex) MapObjects() List[*structs.MapObject] {
	return self.objects
}
func (self *MapIndex) Junctions() List[*structs.Junction] {
	return self.junctions
}

func (self *MapIndex) _Links(links List[int32]) List[*structs.LaneLink] {
	result := NewList[*structs.LaneLink](links.Length())
	for _, i := range links {
		result.Add(self.lanelinks[i])
	}
	return result
}
func (self *MapIndex) LinksFrom(id structs.LaneID) List[*structs.LaneLink] {
	return self._Links(self.links_from[id])
}
func (self *MapIndex) LinksTo(id structs.LaneID) List[*structs.LaneLink] {
	return self._Links(self.links_to[id])
}
