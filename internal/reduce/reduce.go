// Package reduce implements the reachability reducer: a breadth-first
// traversal from V_0 over Δ_z that prunes extended states (and their
// incident transitions) unreachable from the initial set.
package reduce

import (
	"sort"

	"github.com/arnelund/tfa/internal/zone"
)

// Reachable returns a new zone automaton restricted to the states reachable
// from za.Initial, with transitions restricted to those whose endpoints are
// both reachable and the event set restricted to labels that survive.
// Applying Reachable twice returns an automaton equal to applying it once,
// since a zone automaton already restricted to its reachable set has no
// unreachable states left to prune.
func Reachable(za zone.Automaton) zone.Automaton {
	edgesFrom := map[zone.State][]zone.Edge{}
	for _, e := range za.Edges {
		edgesFrom[e.From] = append(edgesFrom[e.From], e)
	}

	visited := map[zone.State]bool{}
	var queue []zone.State
	for _, s := range za.Initial {
		if !visited[s] {
			visited[s] = true
			queue = append(queue, s)
		}
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, e := range edgesFrom[cur] {
			if !visited[e.To] {
				visited[e.To] = true
				queue = append(queue, e.To)
			}
		}
	}

	var out zone.Automaton
	for _, s := range za.States {
		if visited[s] {
			out.States = append(out.States, s)
		}
	}

	eventSet := map[string]bool{}
	for _, e := range za.Edges {
		if visited[e.From] && visited[e.To] {
			out.Edges = append(out.Edges, e)
			eventSet[e.Label] = true
		}
	}

	events := make([]string, 0, len(eventSet))
	for e := range eventSet {
		events = append(events, e)
	}
	sort.Strings(events)
	out.Events = events

	for _, s := range za.Initial {
		if visited[s] {
			out.Initial = append(out.Initial, s)
		}
	}

	return out
}
