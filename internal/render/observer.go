package render

import (
	"strconv"
	"strings"

	"github.com/arnelund/tfa/internal/observer"
)

// ObserverGraph adapts an observer.Automaton to the Graph contract. Each
// observer state's node label joins its member extended-state labels with
// " / ", since an observer state is itself a set of (x, Z) pairs.
type ObserverGraph struct {
	obs observer.Automaton
	ids map[string]string // state key -> stable node ID
}

// NewObserverGraph wraps obs for rendering.
func NewObserverGraph(obs observer.Automaton) ObserverGraph {
	ids := map[string]string{}
	for i, s := range obs.States {
		ids[stateKey(s)] = nodeIDFor(i)
	}
	if _, ok := ids[stateKey(obs.Initial)]; !ok {
		ids[stateKey(obs.Initial)] = nodeIDFor(len(ids))
	}
	return ObserverGraph{obs: obs, ids: ids}
}

func stateKey(s observer.State) string {
	var parts []string
	for _, m := range s.Members() {
		parts = append(parts, m.String())
	}
	return strings.Join(parts, "|")
}

func nodeIDFor(i int) string {
	return "s" + strconv.Itoa(i)
}

func stateLabel(s observer.State) string {
	var parts []string
	for _, m := range s.Members() {
		parts = append(parts, m.String())
	}
	return strings.Join(parts, " / ")
}

func (g ObserverGraph) Nodes() NodeCursor {
	nodes := make([]Node, len(g.obs.States))
	for i, s := range g.obs.States {
		nodes[i] = Node{ID: g.ids[stateKey(s)], Label: stateLabel(s)}
	}
	return &nodeSlice{items: nodes}
}

func (g ObserverGraph) Edges() EdgeCursor {
	edges := make([]Edge, len(g.obs.Edges))
	for i, e := range g.obs.Edges {
		edges[i] = Edge{From: g.ids[stateKey(e.From)], Label: e.Label, To: g.ids[stateKey(e.To)]}
	}
	return &edgeSlice{items: edges}
}

func (g ObserverGraph) IsInitial(id string) bool {
	return id == g.ids[stateKey(g.obs.Initial)]
}
