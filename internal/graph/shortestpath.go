package graph

import (
	"fmt"
	"math"

	"github.com/samber/lo"
)

// computeShortestRoutes runs Floyd-Warshall over all nodes and segments,
// weighting each segment by its pixel length.
func (g *Graph) computeShortestRoutes() {
	nodeIDs := lo.Map(g.nodes, func(n Node, _ int) NodeID { return n.ID })

	dist := make(map[NodeID]map[NodeID]float64, len(nodeIDs))
	next := make(map[NodeID]map[NodeID]NodeID, len(nodeIDs))
	for _, i := range nodeIDs {
		dist[i] = make(map[NodeID]float64, len(nodeIDs))
		next[i] = make(map[NodeID]NodeID, len(nodeIDs))
		for _, j := range nodeIDs {
			dist[i][j] = math.Inf(1)
		}
		dist[i][i] = 0
	}
	for _, s := range g.segments {
		if l := s.Length(); l < dist[s.U][s.V] {
			dist[s.U][s.V] = l
			next[s.U][s.V] = s.V
		}
	}
	for _, k := range nodeIDs {
		for _, i := range nodeIDs {
			for _, j := range nodeIDs {
				if d := dist[i][k] + dist[k][j]; d < dist[i][j] {
					dist[i][j] = d
					next[i][j] = next[i][k]
				}
			}
		}
	}

	g.dist = dist
	g.nextNode = next
	g.routeCache = make(map[RouteID]Route)
}

func (g *Graph) ensureShortestRoutes() {
	if g.dist == nil {
		g.computeShortestRoutes()
	}
}

func (g *Graph) reconstructRoute(u, v NodeID) []NodeID {
	route := []NodeID{u}
	for u != v {
		n, ok := g.nextNode[u][v]
		if !ok || n == "" {
			return nil
		}
		u = n
		route = append(route, u)
	}
	return route
}

// GetShortestRoute returns the shortest route between start and end, using a
// cache. Returns an error if no route exists.
func (g *Graph) GetShortestRoute(start, end NodeID) (Route, error) {
	if _, ok := g.nodeMap[start]; !ok {
		return Route{}, fmt.Errorf("node %q not found", start)
	}
	if _, ok := g.nodeMap[end]; !ok {
		return Route{}, fmt.Errorf("node %q not found", end)
	}
	key := routeKey(start, end)
	if start == end {
		return Route{ID: key, Nodes: []NodeID{start}}, nil
	}
	g.ensureShortestRoutes()
	if r, ok := g.routeCache[key]; ok {
		return r, nil
	}
	d := g.dist[start][end]
	if math.IsInf(d, 1) {
		return Route{}, fmt.Errorf("no route from %q to %q", start, end)
	}

	nodes := g.reconstructRoute(start, end)
	segments := make([]Segment, 0, len(nodes)-1)
	for i := 0; i+1 < len(nodes); i++ {
		s, err := g.GetSegment(nodes[i], nodes[i+1])
		if err != nil {
			return Route{}, err
		}
		segments = append(segments, s)
	}
	r := Route{ID: key, Nodes: nodes, Segments: segments, Length: d}
	g.routeCache[key] = r
	return r, nil
}
