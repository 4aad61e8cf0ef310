package observer

import (
	"testing"

	"github.com/arnelund/tfa/internal/interval"
	"github.com/arnelund/tfa/internal/zone"
	"github.com/stretchr/testify/assert"
)

func TestIsObservable(t *testing.T) {
	assert.True(t, IsObservable("e1"))
	assert.True(t, IsObservable("e3"))
	assert.True(t, IsObservable("5"))
	assert.True(t, IsObservable("1+"))
	assert.False(t, IsObservable("(e2)"))
}

// TestBuild_UnobservableClosure checks that with events
// {e1, (e2), e3} and a TFA in which (e2) leads silently from q1 to q2, the
// observer state containing q1 also contains q2.
func TestBuild_UnobservableClosure(t *testing.T) {
	z0 := interval.MustNew(0, 0, true, true)

	q0 := zone.State{Discrete: "q0", Zone: z0}
	q1 := zone.State{Discrete: "q1", Zone: z0}
	q2 := zone.State{Discrete: "q2", Zone: z0}
	q3 := zone.State{Discrete: "q3", Zone: z0}

	za := zone.Automaton{
		States: []zone.State{q0, q1, q2, q3},
		Events: []string{"e1", "(e2)", "e3"},
		Edges: []zone.Edge{
			{From: q0, Label: "e1", To: q1},
			{From: q1, Label: "(e2)", To: q2},
			{From: q2, Label: "e3", To: q3},
		},
		Initial: []zone.State{q0},
	}

	obs := Build(za)

	assert.Equal(t, []string{"e1", "e3"}, obs.Events)

	var afterE1 State
	found := false
	for _, e := range obs.Edges {
		if e.From.key() == obs.Initial.key() && e.Label == "e1" {
			afterE1 = e.To
			found = true
		}
	}
	assert.True(t, found, "expected an e1 edge out of the initial observer state")

	members := afterE1.Members()
	var discrete []string
	for _, m := range members {
		discrete = append(discrete, m.Discrete)
	}
	assert.Contains(t, discrete, "q1")
	assert.Contains(t, discrete, "q2")

	var afterE3 State
	found = false
	for _, e := range obs.Edges {
		if e.From.key() == afterE1.key() && e.Label == "e3" {
			afterE3 = e.To
			found = true
		}
	}
	assert.True(t, found, "expected an e3 edge out of the e1-successor observer state")
	assert.Len(t, afterE3.Members(), 1)
	assert.Equal(t, "q3", afterE3.Members()[0].Discrete)
}

// TestBuild_InitialClosure checks that the initial observer state already
// includes any state reachable from V_0 purely via unobservable events.
func TestBuild_InitialClosure(t *testing.T) {
	z0 := interval.MustNew(0, 0, true, true)
	q0 := zone.State{Discrete: "q0", Zone: z0}
	q1 := zone.State{Discrete: "q1", Zone: z0}

	za := zone.Automaton{
		States:  []zone.State{q0, q1},
		Events:  []string{"(silent)"},
		Edges:   []zone.Edge{{From: q0, Label: "(silent)", To: q1}},
		Initial: []zone.State{q0},
	}

	obs := Build(za)

	members := obs.Initial.Members()
	var discrete []string
	for _, m := range members {
		discrete = append(discrete, m.Discrete)
	}
	assert.ElementsMatch(t, []string{"q0", "q1"}, discrete)
	assert.Empty(t, obs.Events)
}

// TestBuild_Deterministic checks that building the same zone automaton twice
// yields the same observer automaton.
func TestBuild_Deterministic(t *testing.T) {
	z0 := interval.MustNew(0, 0, true, true)
	q0 := zone.State{Discrete: "q0", Zone: z0}
	q1 := zone.State{Discrete: "q1", Zone: z0}
	q2 := zone.State{Discrete: "q2", Zone: z0}

	za := zone.Automaton{
		States: []zone.State{q0, q1, q2},
		Events: []string{"a", "b"},
		Edges: []zone.Edge{
			{From: q0, Label: "a", To: q1},
			{From: q0, Label: "b", To: q2},
		},
		Initial: []zone.State{q0},
	}

	first := Build(za)
	second := Build(za)
	assert.Equal(t, first, second)
}

// TestBuild_NoUnobservableEvents checks that when every event is observable,
// the observer automaton's states are singleton sets mirroring the zone
// automaton one-for-one.
func TestBuild_NoUnobservableEvents(t *testing.T) {
	z0 := interval.MustNew(0, 0, true, true)
	q0 := zone.State{Discrete: "q0", Zone: z0}
	q1 := zone.State{Discrete: "q1", Zone: z0}

	za := zone.Automaton{
		States:  []zone.State{q0, q1},
		Events:  []string{"a"},
		Edges:   []zone.Edge{{From: q0, Label: "a", To: q1}},
		Initial: []zone.State{q0},
	}

	obs := Build(za)

	assert.Len(t, obs.Initial.Members(), 1)
	assert.Equal(t, "q0", obs.Initial.Members()[0].Discrete)
	assert.Len(t, obs.States, 2)
}
