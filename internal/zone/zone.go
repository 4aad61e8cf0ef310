// Package zone implements the zone automaton builder: from a TFA and its
// bound sets, enumerate zone intervals per state, build extended states,
// and add both time-advance edges and event-driven edges with symbolic
// clock update.
package zone

import (
	"fmt"
	"math"
	"sort"

	"github.com/arnelund/tfa/internal/interval"
	"github.com/arnelund/tfa/internal/model"
)

// State is an extended state v = (x, Z): a discrete state paired with a
// zone interval. State values compare equal structurally, giving V its
// set semantics.
type State struct {
	Discrete string
	Zone     interval.Interval
}

func (s State) String() string {
	return fmt.Sprintf("%s %s", s.Discrete, s.Zone)
}

// Edge is one element of Δ_z: a transition between extended states labeled
// with either a logical event or a time-advance label.
type Edge struct {
	From  State
	Label string
	To    State
}

// Automaton is the zone automaton (V, E_τ, Δ_z, V_0).
type Automaton struct {
	States  []State
	Events  []string // E_τ: logical events ∪ time-advance labels
	Edges   []Edge
	Initial []State
}

// IsTimeAdvance reports whether label has the shape reserved for synthetic
// time-advance labels: "<n>" or "<n>+", where <n> parses as a float.
// Logical events never take this shape.
func IsTimeAdvance(label string) bool {
	s := label
	if len(s) > 0 && s[len(s)-1] == '+' {
		s = s[:len(s)-1]
	}
	if s == "" {
		return false
	}
	_, err := parseFloat(s)
	return err == nil
}

func parseFloat(s string) (float64, error) {
	var f float64
	_, err := fmt.Sscanf(s, "%g", &f)
	if err != nil {
		return 0, err
	}
	return f, nil
}

// intervals computes the zone intervals for a sorted, deduplicated bound
// list: discarding a trailing +Inf, then producing
//
//	[b0,b0], (b0,b1), [b1,b1], (b1,b2), ..., [b_{n-1},b_{n-1}], (b_{n-1},+Inf).
func intervals(bs []float64) []interval.Interval {
	if len(bs) == 0 {
		return nil
	}

	bounds := bs
	if math.IsInf(bounds[len(bounds)-1], 1) {
		bounds = bounds[:len(bounds)-1]
	}
	if len(bounds) == 0 {
		return nil
	}

	var zones []interval.Interval
	zones = append(zones, interval.MustNew(bounds[0], bounds[0], true, true))
	for i := 0; i < len(bounds)-1; i++ {
		zones = append(zones, interval.MustNew(bounds[i], bounds[i+1], false, false))
		zones = append(zones, interval.MustNew(bounds[i+1], bounds[i+1], true, true))
	}
	zones = append(zones, interval.MustNew(bounds[len(bounds)-1], math.Inf(1), false, false))

	return zones
}

// timeAdvanceLabel computes the label for the time-advance edge leaving
// zone z: "{hi(z)}+" if z is degenerate, else "{hi(z)}".
func timeAdvanceLabel(z interval.Interval) string {
	hi := formatBound(z.Hi)
	if z.IsDegenerate() {
		return hi + "+"
	}
	return hi
}

func formatBound(v float64) string {
	return fmt.Sprintf("%g", v)
}

// representativeTime computes ρ(Z): lo(Z)+1 when Z is unbounded, lo(Z)
// when Z is degenerate, else the midpoint.
func representativeTime(z interval.Interval) float64 {
	if math.IsInf(z.Hi, 1) {
		return z.Lo + 1
	}
	if z.IsDegenerate() {
		return z.Lo
	}
	return (z.Lo + z.Hi) / 2
}

// Build constructs the zone automaton for t using the precomputed bound
// sets (the output of bounds.Solve). Construction is deterministic:
// discrete states, their zone intervals, and logical events are all visited
// in sorted order.
func Build(t model.TFA, boundsByState map[string][]float64) Automaton {
	var za Automaton
	stateIndex := map[State]bool{}

	addState := func(s State) {
		if !stateIndex[s] {
			stateIndex[s] = true
			za.States = append(za.States, s)
		}
	}

	events := t.Events()
	eventSet := map[string]bool{}
	for _, e := range events {
		eventSet[e] = true
	}

	for _, x := range t.States() {
		zoneIntervals := intervals(boundsByState[x])
		if len(zoneIntervals) == 0 {
			continue
		}

		extended := make([]State, len(zoneIntervals))
		for i, z := range zoneIntervals {
			extended[i] = State{Discrete: x, Zone: z}
			addState(extended[i])
		}

		if t.IsInitial(x) {
			za.Initial = append(za.Initial, extended[0])
		}

		for i := 0; i < len(extended)-1; i++ {
			label := timeAdvanceLabel(zoneIntervals[i])
			za.Edges = append(za.Edges, Edge{From: extended[i], Label: label, To: extended[i+1]})
			if !eventSet[label] {
				eventSet[label] = true
				events = append(events, label)
			}
		}

		for i, ext := range extended {
			z := zoneIntervals[i]
			rho := representativeTime(z)

			for _, e := range t.Events() {
				q, cPrime, ok := t.Successor(x, e, rho)
				if !ok {
					continue
				}

				tr := model.Transition{From: x, Event: e, To: q}
				var dstZone interval.Interval
				if _, resets := t.Reset(tr); resets {
					dstZone = interval.MustNew(cPrime, cPrime, true, true)
				} else {
					dstZone = z
				}

				dst := State{Discrete: q, Zone: dstZone}
				addState(dst)
				za.Edges = append(za.Edges, Edge{From: ext, Label: e, To: dst})
			}
		}
	}

	sort.Strings(events)
	za.Events = events

	sort.Slice(za.States, func(i, j int) bool { return lessState(za.States[i], za.States[j]) })
	sort.Slice(za.Edges, func(i, j int) bool {
		if !za.Edges[i].From.Equal(za.Edges[j].From) {
			return lessState(za.Edges[i].From, za.Edges[j].From)
		}
		if za.Edges[i].Label != za.Edges[j].Label {
			return za.Edges[i].Label < za.Edges[j].Label
		}
		return lessState(za.Edges[i].To, za.Edges[j].To)
	})
	sort.Slice(za.Initial, func(i, j int) bool { return lessState(za.Initial[i], za.Initial[j]) })

	return za
}

// Equal reports whether two extended states are the same (state, zone)
// pair.
func (s State) Equal(o State) bool {
	return s.Discrete == o.Discrete && s.Zone == o.Zone
}

func lessState(a, b State) bool {
	if a.Discrete != b.Discrete {
		return a.Discrete < b.Discrete
	}
	if a.Zone.Lo != b.Zone.Lo {
		return a.Zone.Lo < b.Zone.Lo
	}
	return a.Zone.Hi < b.Zone.Hi
}
