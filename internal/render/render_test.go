package render

import (
	"testing"

	"github.com/arnelund/tfa/internal/interval"
	"github.com/arnelund/tfa/internal/observer"
	"github.com/arnelund/tfa/internal/zone"
	"github.com/stretchr/testify/assert"
)

func TestZoneGraph(t *testing.T) {
	z0 := interval.MustNew(0, 0, true, true)
	s0 := zone.State{Discrete: "x0", Zone: z0}
	s1 := zone.State{Discrete: "x1", Zone: z0}

	za := zone.Automaton{
		States:  []zone.State{s0, s1},
		Events:  []string{"a"},
		Edges:   []zone.Edge{{From: s0, Label: "a", To: s1}},
		Initial: []zone.State{s0},
	}

	g := NewZoneGraph(za)

	nodes := Drain(g.Nodes())
	assert.Len(t, nodes, 2)
	assert.Contains(t, nodes, Node{ID: zoneNodeID(s0), Label: "x0 [0, 0]"})

	edges := DrainEdges(g.Edges())
	assert.Len(t, edges, 1)
	assert.Equal(t, "a", edges[0].Label)

	assert.True(t, g.IsInitial(zoneNodeID(s0)))
	assert.False(t, g.IsInitial(zoneNodeID(s1)))
}

func TestObserverGraph(t *testing.T) {
	z0 := interval.MustNew(0, 0, true, true)
	q0 := zone.State{Discrete: "q0", Zone: z0}
	q1 := zone.State{Discrete: "q1", Zone: z0}

	za := zone.Automaton{
		States:  []zone.State{q0, q1},
		Events:  []string{"a"},
		Edges:   []zone.Edge{{From: q0, Label: "a", To: q1}},
		Initial: []zone.State{q0},
	}

	obs := observer.Build(za)
	g := NewObserverGraph(obs)

	nodes := Drain(g.Nodes())
	assert.Len(t, nodes, 2)

	var initialSeen bool
	for _, n := range nodes {
		if g.IsInitial(n.ID) {
			initialSeen = true
			assert.Equal(t, "q0 [0, 0]", n.Label)
		}
	}
	assert.True(t, initialSeen)

	edges := DrainEdges(g.Edges())
	assert.Len(t, edges, 1)
	assert.Equal(t, "a", edges[0].Label)
}
