// Package observer implements the observer builder: subset construction
// over the extended states of a zone automaton, using unobservable-closure
// under a parenthesis naming convention. The construction follows the
// usual NFA-to-DFA powerset construction (epsilon-closure/move/subset
// construction), with "unobservable event" standing in for "ε" and
// "observable event" standing in for an ordinary input symbol.
package observer

import (
	"sort"
	"strings"

	"github.com/arnelund/tfa/internal/zone"
)

// IsObservable reports whether label is an observable event: a label
// wrapped in parentheses, e.g. "(e2)", is unobservable; anything else --
// including time-advance labels, which never look like "(...)" -- is
// observable.
func IsObservable(label string) bool {
	return !(strings.HasPrefix(label, "(") && strings.HasSuffix(label, ")"))
}

// State is an observer state: a non-empty set of zone-automaton extended
// states, compared structurally by member set.
type State map[zone.State]struct{}

// key returns a canonical string representation of s, used to dedupe
// observer states that contain the same members regardless of discovery
// order.
func (s State) key() string {
	names := make([]string, 0, len(s))
	for v := range s {
		names = append(names, v.String())
	}
	sort.Strings(names)
	return strings.Join(names, "|")
}

// Members returns the extended states in s, sorted for deterministic
// iteration.
func (s State) Members() []zone.State {
	out := make([]zone.State, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Discrete != out[j].Discrete {
			return out[i].Discrete < out[j].Discrete
		}
		if out[i].Zone.Lo != out[j].Zone.Lo {
			return out[i].Zone.Lo < out[j].Zone.Lo
		}
		return out[i].Zone.Hi < out[j].Zone.Hi
	})
	return out
}

// Edge is one transition of the observer automaton.
type Edge struct {
	From  State
	Label string
	To    State
}

// Automaton is the observer automaton (S, E_obs, Δ_o, s_0).
type Automaton struct {
	States  []State
	Events  []string // E_obs
	Edges   []Edge
	Initial State
}

// closure computes the unobservable-closure of a set of extended states:
// the least fixed point of U ∪ {q : ∃ v ∈ U, (v, e, q) ∈ Δ_z, e
// unobservable}. Implemented as a stack-based work-list traversal.
func closure(seed []zone.State, edgesFrom map[zone.State][]zone.Edge) State {
	result := State{}
	var stack []zone.State

	for _, v := range seed {
		if _, ok := result[v]; !ok {
			result[v] = struct{}{}
			stack = append(stack, v)
		}
	}

	for len(stack) > 0 {
		n := len(stack) - 1
		cur := stack[n]
		stack = stack[:n]

		for _, e := range edgesFrom[cur] {
			if IsObservable(e.Label) {
				continue
			}
			if _, ok := result[e.To]; !ok {
				result[e.To] = struct{}{}
				stack = append(stack, e.To)
			}
		}
	}

	return result
}

// Build computes the observer automaton for za by unobservable-closure
// subset construction: close the initial states, then repeatedly close the
// successors of each discovered subset under every observable event.
func Build(za zone.Automaton) Automaton {
	edgesFrom := map[zone.State][]zone.Edge{}
	for _, e := range za.Edges {
		edgesFrom[e.From] = append(edgesFrom[e.From], e)
	}

	observableEvents := map[string]bool{}
	for _, e := range za.Events {
		if IsObservable(e) {
			observableEvents[e] = true
		}
	}
	var obsEventList []string
	for e := range observableEvents {
		obsEventList = append(obsEventList, e)
	}
	sort.Strings(obsEventList)

	s0 := closure(za.Initial, edgesFrom)

	statesByKey := map[string]State{s0.key(): s0}
	var queue []State
	queue = append(queue, s0)

	var edges []Edge

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, e := range obsEventList {
			var succSeed []zone.State
			for _, v := range cur.Members() {
				for _, edge := range edgesFrom[v] {
					if edge.Label == e {
						succSeed = append(succSeed, edge.To)
					}
				}
			}
			if len(succSeed) == 0 {
				continue
			}

			next := closure(succSeed, edgesFrom)
			key := next.key()
			edges = append(edges, Edge{From: cur, Label: e, To: next})

			if _, ok := statesByKey[key]; !ok {
				statesByKey[key] = next
				queue = append(queue, next)
			}
		}
	}

	var states []State
	for _, k := range orderedKeys(statesByKey) {
		states = append(states, statesByKey[k])
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From.key() != edges[j].From.key() {
			return edges[i].From.key() < edges[j].From.key()
		}
		if edges[i].Label != edges[j].Label {
			return edges[i].Label < edges[j].Label
		}
		return edges[i].To.key() < edges[j].To.key()
	})

	return Automaton{
		States:  states,
		Events:  obsEventList,
		Edges:   edges,
		Initial: s0,
	}
}

func orderedKeys(m map[string]State) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
