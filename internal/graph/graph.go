// Package graph provides a minimal road network in pixel space: nodes,
// directed road segments with a width, and shortest routes between nodes.
// Routes are turned into lane paths for placing vehicles and measuring
// route lengths.
package graph

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/samber/lo"

	"github.com/cxd309/idm-engine/internal/lane"
)

// NodeID, SegmentID, RouteID are string aliases used as identifiers.
type (
	NodeID    = string
	SegmentID = string
	RouteID   = string
)

// Node is a point of the road network, in pixels.
type Node struct {
	ID  NodeID
	Loc orb.Point
}

// Segment is a directed road between two nodes.
type Segment struct {
	SegID SegmentID
	U     NodeID
	V     NodeID
	Width float64 // pixels

	mapping straightMapping
}

// ID implements lane.RoadSegment.
func (s Segment) ID() string { return s.SegID }

// RoadMapping implements lane.RoadSegment.
func (s Segment) RoadMapping() lane.RoadMapping { return s.mapping }

// Length returns the segment length in pixels.
func (s Segment) Length() float64 {
	return planar.Distance(s.mapping.start, s.mapping.end)
}

// straightMapping draws a segment as a straight line between its nodes.
type straightMapping struct {
	start, end orb.Point
	width      float64
}

func (m straightMapping) StartPos() orb.Point { return m.start }
func (m straightMapping) EndPos() orb.Point   { return m.end }
func (m straightMapping) RoadWidth() float64  { return m.width }

// NetworkData is the input description of a road network.
type NetworkData struct {
	Nodes    []Node
	Segments []Segment
}

// Route holds the result of a shortest-route computation.
type Route struct {
	ID       RouteID
	Nodes    []NodeID // ordered node IDs from start to end
	Segments []Segment
	Length   float64 // pixels
}

// Graph is a directed road network with cached shortest-route computation.
type Graph struct {
	nodes      []Node
	segments   []Segment
	nodeMap    map[NodeID]Node
	segmentMap map[SegmentID]Segment
	segByNodes map[NodeID]map[NodeID]Segment // u → v → segment
	// Floyd-Warshall tables; nil until first needed.
	dist     map[NodeID]map[NodeID]float64
	nextNode map[NodeID]map[NodeID]NodeID
	// Route cache; cleared whenever the topology changes.
	routeCache map[RouteID]Route
}

// NewGraph builds a Graph from NetworkData, returning an error if any node or
// segment reference is invalid.
func NewGraph(data NetworkData) (*Graph, error) {
	g := &Graph{
		nodeMap:    make(map[NodeID]Node),
		segmentMap: make(map[SegmentID]Segment),
		segByNodes: make(map[NodeID]map[NodeID]Segment),
		routeCache: make(map[RouteID]Route),
	}
	for _, n := range data.Nodes {
		if err := g.AddNode(n); err != nil {
			return nil, err
		}
	}
	for _, s := range data.Segments {
		if err := g.AddSegment(s); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// AddNode adds a node to the graph. Returns an error if the node ID already exists.
func (g *Graph) AddNode(n Node) error {
	if _, exists := g.nodeMap[n.ID]; exists {
		return fmt.Errorf("node %q already exists", n.ID)
	}
	g.nodes = append(g.nodes, n)
	g.nodeMap[n.ID] = n
	g.dist = nil
	return nil
}

// AddSegment adds a directed segment. Returns an error if the segment ID
// already exists, an endpoint node is missing, or the width is negative.
func (g *Graph) AddSegment(s Segment) error {
	if _, exists := g.segmentMap[s.SegID]; exists {
		return fmt.Errorf("segment %q already exists", s.SegID)
	}
	u, ok := g.nodeMap[s.U]
	if !ok {
		return fmt.Errorf("segment %q: source node %q not found", s.SegID, s.U)
	}
	v, ok := g.nodeMap[s.V]
	if !ok {
		return fmt.Errorf("segment %q: target node %q not found", s.SegID, s.V)
	}
	if s.Width < 0 {
		return fmt.Errorf("segment %q: negative road width %v", s.SegID, s.Width)
	}
	s.mapping = straightMapping{start: u.Loc, end: v.Loc, width: s.Width}

	g.segments = append(g.segments, s)
	g.segmentMap[s.SegID] = s
	if g.segByNodes[s.U] == nil {
		g.segByNodes[s.U] = make(map[NodeID]Segment)
	}
	g.segByNodes[s.U][s.V] = s
	g.dist = nil
	return nil
}

// routeKey returns a canonical string key for a start→end pair.
func routeKey(start, end NodeID) RouteID { return start + "->" + end }

// GetSegmentByID looks up a segment by its ID.
func (g *Graph) GetSegmentByID(id SegmentID) (Segment, error) {
	s, ok := g.segmentMap[id]
	if !ok {
		return Segment{}, fmt.Errorf("segment %q not found", id)
	}
	return s, nil
}

// GetSegment returns the directed segment from u to v.
func (g *Graph) GetSegment(u, v NodeID) (Segment, error) {
	if m, ok := g.segByNodes[u]; ok {
		if s, ok := m[v]; ok {
			return s, nil
		}
	}
	return Segment{}, fmt.Errorf("no segment from %q to %q", u, v)
}

// Itinerary returns one lane path per segment on the shortest route from
// start to end. scale is metres per pixel.
func (g *Graph) Itinerary(start, end NodeID, scale float64) ([]lane.Path, error) {
	route, err := g.GetShortestRoute(start, end)
	if err != nil {
		return nil, err
	}
	paths := make([]lane.Path, 0, len(route.Segments))
	for _, s := range route.Segments {
		p, err := lane.NewPath(s, scale)
		if err != nil {
			return nil, fmt.Errorf("route %q: %w", route.ID, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// RouteLength returns the total length of an itinerary in metres.
func RouteLength(paths []lane.Path) float64 {
	return lo.SumBy(paths, func(p lane.Path) float64 { return p.Norm() })
}
