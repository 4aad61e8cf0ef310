package reduce

import (
	"testing"

	"github.com/arnelund/tfa/internal/interval"
	"github.com/arnelund/tfa/internal/zone"
	"github.com/stretchr/testify/assert"
)

func Test_Reachable_RemovesUnreachableState(t *testing.T) {
	z0 := interval.MustNew(0, 0, true, true)

	reachable := zone.State{Discrete: "x0", Zone: z0}
	alsoReachable := zone.State{Discrete: "x1", Zone: z0}
	unreachable := zone.State{Discrete: "x5", Zone: z0} // no incoming edge, not initial

	za := zone.Automaton{
		States: []zone.State{reachable, alsoReachable, unreachable},
		Events: []string{"a"},
		Edges: []zone.Edge{
			{From: reachable, Label: "a", To: alsoReachable},
		},
		Initial: []zone.State{reachable},
	}

	got := Reachable(za)

	var discrete []string
	for _, s := range got.States {
		discrete = append(discrete, s.Discrete)
	}
	assert.ElementsMatch(t, []string{"x0", "x1"}, discrete)
	assert.NotContains(t, discrete, "x5")
}

func Test_Reachable_Idempotent(t *testing.T) {
	z0 := interval.MustNew(0, 0, true, true)
	s0 := zone.State{Discrete: "x0", Zone: z0}
	s1 := zone.State{Discrete: "x1", Zone: z0}

	za := zone.Automaton{
		States:  []zone.State{s0, s1},
		Events:  []string{"a"},
		Edges:   []zone.Edge{{From: s0, Label: "a", To: s1}},
		Initial: []zone.State{s0},
	}

	once := Reachable(za)
	twice := Reachable(once)

	assert.Equal(t, once, twice)
}
