package model

import (
	"errors"
	"testing"

	"github.com/arnelund/tfa/internal/interval"
	"github.com/arnelund/tfa/internal/tfaerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fiveStateCycle builds a five-state TFA with a cycle x2 -c-> x3 -a-> x2,
// and two resetting transitions into the x4/x1 branch.
func fiveStateCycle(t *testing.T) TFA {
	t.Helper()

	tC1 := Transition{From: "x0", Event: "c", To: "x1"}
	tB := Transition{From: "x0", Event: "b", To: "x2"}
	tA1 := Transition{From: "x1", Event: "a", To: "x4"}
	tC2 := Transition{From: "x2", Event: "c", To: "x3"}
	tA2 := Transition{From: "x3", Event: "a", To: "x2"}
	tB2 := Transition{From: "x4", Event: "b", To: "x3"}

	def := Def{
		States:        []string{"x0", "x1", "x2", "x3", "x4"},
		Events:        []string{"a", "b", "c"},
		Transitions:   []Transition{tC1, tB, tA1, tC2, tA2, tB2},
		InitialStates: []string{"x0"},
		Guard: map[Transition]interval.Interval{
			tC1: interval.MustNew(1, 3, true, true),
			tB:  interval.MustNew(0, 1, true, true),
			tA1: interval.MustNew(1, 3, true, true),
			tC2: interval.MustNew(1, 2, true, true),
			tA2: interval.MustNew(0, 2, true, true),
			tB2: interval.MustNew(0, 1, true, true),
		},
		Reset: map[Transition]interval.Interval{
			tC1: interval.MustNew(1, 1, true, true),
			tA1: interval.MustNew(0, 1, true, true),
			tA2: interval.MustNew(0, 0, true, true),
			tB2: interval.MustNew(0, 0, true, true),
		},
	}

	tfa, err := Build(def)
	require.NoError(t, err)
	return tfa
}

func Test_Simulate_FiveStateCycle(t *testing.T) {
	tfa := fiveStateCycle(t)

	x, c, err := tfa.Simulate("x0", []Step{
		{Event: "b", Timestamp: 0.5},
		{Event: "c", Timestamp: 2},
		{Event: "a", Timestamp: 2},
	})

	require.NoError(t, err)
	assert.Equal(t, "x2", x)
	assert.Equal(t, 0.0, c)
}

func Test_Simulate_InvalidTrace(t *testing.T) {
	tfa := fiveStateCycle(t)

	_, _, err := tfa.Simulate("x0", []Step{
		{Event: "a", Timestamp: 0},
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, tfaerr.ErrInvalidTrace))
}

func Test_Enabled_Successor(t *testing.T) {
	tfa := fiveStateCycle(t)

	assert.True(t, tfa.Enabled("x0", "b", 0.5))
	assert.False(t, tfa.Enabled("x0", "b", 1.5))

	q, c, ok := tfa.Successor("x0", "c", 2)
	require.True(t, ok)
	assert.Equal(t, "x1", q)
	assert.Equal(t, 1.0, c) // reset to lo(R(t)) = 1
}

func Test_Build_EmptyStates(t *testing.T) {
	_, err := Build(Def{InitialStates: []string{"x0"}})
	assert.True(t, errors.Is(err, tfaerr.ErrEmptyStates))
}

func Test_Build_EmptyInitialStates(t *testing.T) {
	_, err := Build(Def{States: []string{"x0"}})
	assert.True(t, errors.Is(err, tfaerr.ErrEmptyInitialStates))
}

func Test_Build_AmbiguousTransitions(t *testing.T) {
	t1 := Transition{From: "x0", Event: "a", To: "x1"}
	t2 := Transition{From: "x0", Event: "a", To: "x2"}

	_, err := Build(Def{
		States:        []string{"x0", "x1", "x2"},
		Events:        []string{"a"},
		Transitions:   []Transition{t1, t2},
		InitialStates: []string{"x0"},
		Guard: map[Transition]interval.Interval{
			t1: interval.MustNew(0, 2, true, true),
			t2: interval.MustNew(1, 3, true, true),
		},
	})

	assert.True(t, errors.Is(err, tfaerr.ErrAmbiguousTransition))
}

func Test_Guard_Default(t *testing.T) {
	tfa := fiveStateCycle(t)
	unknown := Transition{From: "x0", Event: "z", To: "x9"}
	assert.Equal(t, DefaultGuard, tfa.Guard(unknown))
}

func Test_GuardStrict_UnknownTransition(t *testing.T) {
	tfa := fiveStateCycle(t)
	unknown := Transition{From: "x0", Event: "z", To: "x9"}

	_, err := tfa.GuardStrict(unknown)
	assert.True(t, errors.Is(err, tfaerr.ErrUnknownTransition))
}

func Test_GuardStrict_KnownTransition(t *testing.T) {
	tfa := fiveStateCycle(t)
	known := tfa.Transitions()[0]

	g, err := tfa.GuardStrict(known)
	require.NoError(t, err)
	assert.Equal(t, tfa.Guard(known), g)
}

func Test_ResetStrict_UnknownTransition(t *testing.T) {
	tfa := fiveStateCycle(t)
	unknown := Transition{From: "x0", Event: "z", To: "x9"}

	_, _, err := tfa.ResetStrict(unknown)
	assert.True(t, errors.Is(err, tfaerr.ErrUnknownTransition))
}

func Test_ResetStrict_KnownTransition(t *testing.T) {
	tfa := fiveStateCycle(t)
	known := tfa.Transitions()[0]

	r, ok, err := tfa.ResetStrict(known)
	require.NoError(t, err)
	wantR, wantOK := tfa.Reset(known)
	assert.Equal(t, wantOK, ok)
	assert.Equal(t, wantR, r)
}
