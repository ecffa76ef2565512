package comps

import (
	"errors"
	"math"
	"sort"

	"github.com/dominikbraun/graph"
	"github.com/ttpr0/go-hdmap/structs"
	. "github.com/ttpr0/go-hdmap/util"
	"golang.org/x/exp/slices"
)

//*******************************************
// lane topology
//*******************************************

// Transition from one lane to the next.
type Successor struct {
	Lane structs.LaneID
	// lane link taken, absent when continuing into the next section
	Link Optional[int64]
}

// Directed lane graph.
//
// Vertices are lanes, edges lead into the same lane of the following section
// of a road or through a lane link. Lane link targets outside the loaded
// roads are kept as vertices without outgoing edges.
type Topology struct {
	graph        graph.Graph[structs.LaneID, structs.LaneID]
	successors   map[structs.LaneID]map[structs.LaneID]graph.Edge[structs.LaneID]
	predecessors map[structs.LaneID]map[structs.LaneID]graph.Edge[structs.LaneID]
}

var ErrNoRoute = errors.New("no route between lanes")

func _LaneHash(id structs.LaneID) structs.LaneID {
	return id
}

// edge weight in centimeters
func _Weight(length float64) int {
	return int(math.Round(length*100)) + 1
}

func NewTopology(index IMapIndex) *Topology {
	g := graph.New(_LaneHash, graph.Directed(), graph.Weighted())
	for _, lane := range index.Lanes() {
		_ = g.AddVertex(lane.ID)
	}
	for _, road := range index.Roads() {
		for i := 0; i+1 < road.Sections.Length(); i++ {
			next := road.Sections[i+1]
			for _, lane := range road.Sections[i].Lanes {
				target, ok := next.GetLane(lane.ID.LaneID)
				if !ok {
					continue
				}
				_ = g.AddEdge(lane.ID, target.ID, graph.EdgeWeight(_Weight(lane.Length)), graph.EdgeData(int64(-1)))
			}
		}
	}
	links := slices.Clone(index.LaneLinks())
	sort.Slice(links, func(i, j int) bool { return links[i].ID < links[j].ID })
	for _, link := range links {
		_ = g.AddVertex(link.From)
		_ = g.AddVertex(link.To)
		weight := link.Length
		if lane := index.FindLane(link.From); lane.HasValue() {
			weight += lane.Value.Length
		}
		// parallel links keep the lowest id
		_ = g.AddEdge(link.From, link.To, graph.EdgeWeight(_Weight(weight)), graph.EdgeData(link.ID))
	}
	successors, _ := g.AdjacencyMap()
	predecessors, _ := g.PredecessorMap()
	return &Topology{
		graph:        g,
		successors:   successors,
		predecessors: predecessors,
	}
}

func _Transitions(edges map[structs.LaneID]graph.Edge[structs.LaneID], forward bool) List[Successor] {
	result := NewList[Successor](len(edges))
	for _, edge := range edges {
		s := Successor{Lane: edge.Target}
		if !forward {
			s.Lane = edge.Source
		}
		if link, ok := edge.Properties.Data.(int64); ok && link >= 0 {
			s.Link = Some(link)
		}
		result.Add(s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Lane.Less(result[j].Lane) })
	return result
}

// Returns the lanes reachable in one step, ordered by lane id.
func (self *Topology) Successors(id structs.LaneID) List[Successor] {
	return _Transitions(self.successors[id], true)
}

// Returns the lanes leading into the lane in one step, ordered by lane id.
func (self *Topology) Predecessors(id structs.LaneID) List[Successor] {
	return _Transitions(self.predecessors[id], false)
}

func (self *Topology) HasLane(id structs.LaneID) bool {
	_, ok := self.successors[id]
	return ok
}

// Returns up to limit lanes reachable from id in breadth-first order (id included).
func (self *Topology) Reachable(id structs.LaneID, limit int) List[structs.LaneID] {
	result := NewList[structs.LaneID](limit)
	if !self.HasLane(id) {
		return result
	}
	_ = graph.BFS(self.graph, id, func(lane structs.LaneID) bool {
		result.Add(lane)
		return result.Length() >= limit
	})
	return result
}

// Returns the shortest lane sequence from one lane to another.
func (self *Topology) Route(from, to structs.LaneID) (List[structs.LaneID], error) {
	if !self.HasLane(from) || !self.HasLane(to) {
		return nil, ErrNoRoute
	}
	path, err := graph.ShortestPath(self.graph, from, to)
	if err != nil {
		return nil, ErrNoRoute
	}
	return path, nil
}

func (self *Topology) EdgeCount() int {
	count := 0
	for _, edges := range self.successors {
		count += len(edges)
	}
	return count
}
