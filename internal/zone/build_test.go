package zone

import (
	"math"
	"testing"

	"github.com/arnelund/tfa/internal/bounds"
	"github.com/arnelund/tfa/internal/interval"
	"github.com/arnelund/tfa/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test_Build_NoResetsUnboundedGuard checks that zone construction on a TFA
// with no resets and no guards beyond [0, +∞) yields, per state, exactly
// [0,0], (0, +∞).
func Test_Build_NoResetsUnboundedGuard(t *testing.T) {
	tr := model.Transition{From: "x0", Event: "e", To: "x0"}

	def := model.Def{
		States:        []string{"x0"},
		Events:        []string{"e"},
		Transitions:   []model.Transition{tr},
		InitialStates: []string{"x0"},
		Guard: map[model.Transition]interval.Interval{
			tr: interval.MustNew(0, math.Inf(1), true, false),
		},
	}
	tfa, err := model.Build(def)
	require.NoError(t, err)

	res := bounds.Solve(tfa, bounds.Options{})
	za := Build(tfa, res.Bounds)

	var gotZones []interval.Interval
	for _, s := range za.States {
		if s.Discrete == "x0" {
			gotZones = append(gotZones, s.Zone)
		}
	}

	assert.ElementsMatch(t, []interval.Interval{
		interval.MustNew(0, 0, true, true),
		interval.MustNew(0, math.Inf(1), false, false),
	}, gotZones)
}

func Test_Build_EventEdgesUseRepresentativeTime(t *testing.T) {
	t1 := model.Transition{From: "x0", Event: "a", To: "x1"}

	def := model.Def{
		States:        []string{"x0", "x1"},
		Events:        []string{"a"},
		Transitions:   []model.Transition{t1},
		InitialStates: []string{"x0"},
		Guard: map[model.Transition]interval.Interval{
			t1: interval.MustNew(1, 3, true, true),
		},
		Reset: map[model.Transition]interval.Interval{
			t1: interval.MustNew(2, 2, true, true),
		},
	}
	tfa, err := model.Build(def)
	require.NoError(t, err)

	res := bounds.Solve(tfa, bounds.Options{})
	za := Build(tfa, res.Bounds)

	var foundResetEdge bool
	for _, e := range za.Edges {
		if e.Label == "a" && e.To.Discrete == "x1" {
			foundResetEdge = true
			assert.True(t, e.To.Zone.IsDegenerate())
			assert.Equal(t, 2.0, e.To.Zone.Lo)
		}
	}
	assert.True(t, foundResetEdge, "expected at least one 'a' edge into x1")
}
