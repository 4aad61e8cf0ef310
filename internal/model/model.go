// Package model implements the TFA (Timed Finite Automaton) container: an
// immutable record of states, events, transitions, guard function Γ, reset
// function R, and initial states, plus the enabled, successor, and
// simulate operations defined over it.
package model

import (
	"fmt"
	"sort"

	"github.com/arnelund/tfa/internal/interval"
	"github.com/arnelund/tfa/internal/tfaerr"
	"github.com/arnelund/tfa/internal/util"
)

// Transition is a single element of Δ: a move from state p to state q on
// event e. Transition values are used as map keys, so two Transitions with
// the same fields compare equal, giving Δ its set semantics.
type Transition struct {
	From  string
	Event string
	To    string
}

func (t Transition) String() string {
	return fmt.Sprintf("%s -(%s)-> %s", t.From, t.Event, t.To)
}

// DefaultGuard is the interval returned for a transition with no guard
// entry: the degenerate interval [0,0], closed on both ends.
var DefaultGuard = interval.MustNew(0, 0, true, true)

// TFA is an immutable Timed Finite Automaton. Construct one with Build; the
// zero value is not usable.
type TFA struct {
	states   util.StringSet
	events   util.StringSet
	trans    []Transition
	guard    map[Transition]interval.Interval
	reset    map[Transition]interval.Interval
	hasReset map[Transition]bool
	initial  util.StringSet
}

// Def is the value-constructed record a builder supplies to Build.
type Def struct {
	States      []string
	Events      []string
	Transitions []Transition

	// Guard maps a transition to Γ(t). A transition absent from Guard
	// receives DefaultGuard.
	Guard map[Transition]interval.Interval

	// Reset maps a transition to R(t). A transition absent from Reset is
	// treated as R(t) = ⊥ (no reset).
	Reset map[Transition]interval.Interval

	InitialStates []string
}

// Build validates def and constructs an immutable TFA from it. It returns
// tfaerr.ErrEmptyStates or tfaerr.ErrEmptyInitialStates if those collections
// are empty, and tfaerr.ErrAmbiguousTransition if two transitions share a
// (From, Event) pair with overlapping guards: the ambiguity is rejected at
// construction time rather than silently tie-broken.
func Build(def Def) (TFA, error) {
	if len(def.States) == 0 {
		return TFA{}, tfaerr.New("cannot build TFA", tfaerr.ErrEmptyStates)
	}
	if len(def.InitialStates) == 0 {
		return TFA{}, tfaerr.New("cannot build TFA", tfaerr.ErrEmptyInitialStates)
	}

	t := TFA{
		states:   util.NewStringSet(def.States...),
		events:   util.NewStringSet(def.Events...),
		guard:    map[Transition]interval.Interval{},
		reset:    map[Transition]interval.Interval{},
		hasReset: map[Transition]bool{},
		initial:  util.NewStringSet(def.InitialStates...),
	}

	seen := map[Transition]bool{}
	for _, tr := range def.Transitions {
		if seen[tr] {
			continue
		}
		seen[tr] = true
		t.trans = append(t.trans, tr)

		g, ok := def.Guard[tr]
		if !ok {
			g = DefaultGuard
		}
		t.guard[tr] = g

		if r, ok := def.Reset[tr]; ok {
			t.reset[tr] = r
			t.hasReset[tr] = true
		}
	}
	sort.Slice(t.trans, func(i, j int) bool {
		if t.trans[i].From != t.trans[j].From {
			return t.trans[i].From < t.trans[j].From
		}
		if t.trans[i].Event != t.trans[j].Event {
			return t.trans[i].Event < t.trans[j].Event
		}
		return t.trans[i].To < t.trans[j].To
	})

	if err := t.checkAmbiguity(); err != nil {
		return TFA{}, err
	}

	return t, nil
}

// checkAmbiguity enforces that Δ is disambiguated: no two transitions may
// share (From, Event) with overlapping guards, since that would make
// Successor's choice of transition depend on unspecified set-iteration
// order.
func (t TFA) checkAmbiguity() error {
	byOrigin := map[[2]string][]Transition{}
	for _, tr := range t.trans {
		key := [2]string{tr.From, tr.Event}
		byOrigin[key] = append(byOrigin[key], tr)
	}
	for _, group := range byOrigin {
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				if t.guard[group[i]].Overlaps(t.guard[group[j]]) {
					return tfaerr.New(
						fmt.Sprintf("%s and %s share origin and event with overlapping guards", group[i], group[j]),
						tfaerr.ErrAmbiguousTransition,
					)
				}
			}
		}
	}
	return nil
}

// States returns the discrete states of t, in sorted order.
func (t TFA) States() []string { return util.Ordered(t.states) }

// Events returns the events of t, in sorted order.
func (t TFA) Events() []string { return util.Ordered(t.events) }

// InitialStates returns the initial states of t, in sorted order.
func (t TFA) InitialStates() []string { return util.Ordered(t.initial) }

// IsInitial reports whether x is an initial state.
func (t TFA) IsInitial(x string) bool { return t.initial.Has(x) }

// Transitions returns Δ in a fixed, deterministic order (sorted by From,
// then Event, then To).
func (t TFA) Transitions() []Transition {
	out := make([]Transition, len(t.trans))
	copy(out, t.trans)
	return out
}

// TransitionsFrom returns the transitions in Δ originating at x, in
// deterministic order.
func (t TFA) TransitionsFrom(x string) []Transition {
	var out []Transition
	for _, tr := range t.trans {
		if tr.From == x {
			out = append(out, tr)
		}
	}
	return out
}

// Guard returns Γ(t). If t is not in Δ, it returns the builder default.
func (t TFA) Guard(tr Transition) interval.Interval {
	if g, ok := t.guard[tr]; ok {
		return g
	}
	return DefaultGuard
}

// Reset returns R(t) and whether t resets the clock at all (R(t) != ⊥).
func (t TFA) Reset(tr Transition) (interval.Interval, bool) {
	if !t.hasReset[tr] {
		return interval.Interval{}, false
	}
	return t.reset[tr], true
}

// GuardStrict is Guard for callers that need to distinguish "tr has no
// guard entry" from "tr is not in Δ at all" instead of silently falling
// back to DefaultGuard for both. It returns tfaerr.ErrUnknownTransition if
// tr is not a member of Δ.
func (t TFA) GuardStrict(tr Transition) (interval.Interval, error) {
	if !t.hasTransition(tr) {
		return interval.Interval{}, tfaerr.New(
			fmt.Sprintf("%s is not a transition of this automaton", tr),
			tfaerr.ErrUnknownTransition,
		)
	}
	return t.Guard(tr), nil
}

// ResetStrict is Reset for callers that need to distinguish "tr does not
// reset the clock" from "tr is not in Δ at all" instead of silently
// returning ok == false for both. It returns tfaerr.ErrUnknownTransition if
// tr is not a member of Δ.
func (t TFA) ResetStrict(tr Transition) (interval.Interval, bool, error) {
	if !t.hasTransition(tr) {
		return interval.Interval{}, false, tfaerr.New(
			fmt.Sprintf("%s is not a transition of this automaton", tr),
			tfaerr.ErrUnknownTransition,
		)
	}
	r, ok := t.Reset(tr)
	return r, ok, nil
}

func (t TFA) hasTransition(tr Transition) bool {
	_, ok := t.guard[tr]
	return ok
}

// Enabled reports whether some transition (x, e, _) ∈ Δ has a guard
// containing c.
func (t TFA) Enabled(x, e string, c float64) bool {
	for _, tr := range t.trans {
		if tr.From == x && tr.Event == e && t.Guard(tr).Contains(c) {
			return true
		}
	}
	return false
}

// Successor computes (x, e, c) → (q, c'). It returns
// ok == false if no transition (x, e, _) ∈ Δ has a guard containing c.
// Because Build rejects ambiguous transitions, at most one candidate can
// satisfy the guard, so the deterministic Transitions() order used to scan
// for it does not affect the result.
func (t TFA) Successor(x, e string, c float64) (q string, cPrime float64, ok bool) {
	for _, tr := range t.trans {
		if tr.From != x || tr.Event != e {
			continue
		}
		if !t.Guard(tr).Contains(c) {
			continue
		}
		if r, resets := t.Reset(tr); resets {
			return tr.To, r.Lo, true
		}
		return tr.To, c, true
	}
	return "", 0, false
}

// Step is one (event, timestamp) pair in a Simulate trace.
type Step struct {
	Event     string
	Timestamp float64
}

// Simulate runs the trace starting from x0 with the clock at 0: at step i,
// elapsed time advances the clock to steps[i].Timestamp, then Successor is
// applied. It returns
// tfaerr.ErrInvalidTrace on the first step where Successor is not ok.
func (t TFA) Simulate(x0 string, steps []Step) (x string, c float64, err error) {
	x = x0
	c = 0

	for i, step := range steps {
		c = step.Timestamp

		next, cPrime, ok := t.Successor(x, step.Event, c)
		if !ok {
			return "", 0, tfaerr.New(
				fmt.Sprintf("step %d: (%s, %s, %v) is not enabled", i, x, step.Event, c),
				tfaerr.ErrInvalidTrace,
			)
		}
		x, c = next, cPrime
	}

	return x, c, nil
}
