package render

import (
	"fmt"

	"github.com/arnelund/tfa/internal/zone"
)

// ZoneGraph adapts a zone.Automaton to the Graph contract. Node labels have
// the form "x [lo, hi]"; node IDs are stable strings derived from the
// extended state so that From/To in edges resolve back to the same node.
type ZoneGraph struct {
	za zone.Automaton
}

// NewZoneGraph wraps za for rendering.
func NewZoneGraph(za zone.Automaton) ZoneGraph {
	return ZoneGraph{za: za}
}

func zoneNodeID(s zone.State) string {
	return fmt.Sprintf("%s|%s", s.Discrete, s.Zone)
}

func (g ZoneGraph) Nodes() NodeCursor {
	nodes := make([]Node, len(g.za.States))
	for i, s := range g.za.States {
		nodes[i] = Node{ID: zoneNodeID(s), Label: fmt.Sprintf("%s %s", s.Discrete, s.Zone)}
	}
	return &nodeSlice{items: nodes}
}

func (g ZoneGraph) Edges() EdgeCursor {
	edges := make([]Edge, len(g.za.Edges))
	for i, e := range g.za.Edges {
		edges[i] = Edge{From: zoneNodeID(e.From), Label: e.Label, To: zoneNodeID(e.To)}
	}
	return &edgeSlice{items: edges}
}

func (g ZoneGraph) IsInitial(id string) bool {
	for _, s := range g.za.Initial {
		if zoneNodeID(s) == id {
			return true
		}
	}
	return false
}
