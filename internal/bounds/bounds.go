// Package bounds implements the bound solver: for each discrete state of a
// TFA, compute a sorted, deduplicated set of clock bounds derived from
// guards, resets, and propagation along non-resetting transitions in Kahn
// topological order.
package bounds

import (
	"sort"

	"github.com/arnelund/tfa/internal/model"
	"github.com/arnelund/tfa/internal/tfaerr"
)

// Options controls whether reset bounds propagate only to the destination
// state of a resetting transition, or to both endpoints.
type Options struct {
	// PropagateResetToSource, when true, also adds a resetting transition's
	// reset bounds to its source state. Default false adds them to the
	// destination state only.
	PropagateResetToSource bool
}

// Result is the output of Solve: the bound map plus any non-fatal warnings
// encountered (see tfaerr.CycleInNonResetGraph).
type Result struct {
	Bounds   map[string][]float64
	Warnings []tfaerr.Warning
}

// Solve computes bounds(x) for every state of t, in five steps: seed
// initial states, collect local bounds from guards and resets, topologically
// order the non-resetting subgraph, propagate along it, then sort and
// dedupe.
func Solve(t model.TFA, opts Options) Result {
	sets := map[string]map[float64]struct{}{}
	for _, x := range t.States() {
		sets[x] = map[float64]struct{}{}
	}

	// Step 1: seed initial states with 0.
	for _, x := range t.InitialStates() {
		sets[x][0] = struct{}{}
	}

	// Step 2: local bounds from guards and resets.
	for _, tr := range t.Transitions() {
		g := t.Guard(tr)
		sets[tr.From][g.Lo] = struct{}{}
		sets[tr.From][g.Hi] = struct{}{}

		if r, resets := t.Reset(tr); resets {
			sets[tr.To][r.Lo] = struct{}{}
			sets[tr.To][r.Hi] = struct{}{}
			if opts.PropagateResetToSource {
				sets[tr.From][r.Lo] = struct{}{}
				sets[tr.From][r.Hi] = struct{}{}
			}
		}
	}

	// Step 3: Kahn topological order over the non-resetting subgraph Δ'.
	var nonReset []model.Transition
	for _, tr := range t.Transitions() {
		if _, resets := t.Reset(tr); !resets {
			nonReset = append(nonReset, tr)
		}
	}

	inDegree := map[string]int{}
	for _, x := range t.States() {
		inDegree[x] = 0
	}
	succOf := map[string][]model.Transition{}
	for _, tr := range nonReset {
		inDegree[tr.To]++
		succOf[tr.From] = append(succOf[tr.From], tr)
	}

	var queue []string
	for _, x := range t.States() {
		if inDegree[x] == 0 {
			queue = append(queue, x)
		}
	}

	var order []string
	processed := map[string]bool{}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		order = append(order, p)
		processed[p] = true

		for _, tr := range succOf[p] {
			inDegree[tr.To]--
			if inDegree[tr.To] == 0 {
				queue = append(queue, tr.To)
			}
		}
	}

	var warnings []tfaerr.Warning
	if len(order) < len(t.States()) {
		var skipped []string
		for _, x := range t.States() {
			if !processed[x] {
				skipped = append(skipped, x)
			}
		}
		sort.Strings(skipped)
		warnings = append(warnings, tfaerr.CycleInNonResetGraph(skipped))
	}

	// Step 4: propagate along Δ' in topological order.
	for _, p := range order {
		for _, tr := range succOf[p] {
			for b := range sets[p] {
				sets[tr.To][b] = struct{}{}
			}
		}
	}

	// Step 5: sort ascending and deduplicate (deduplication is inherent to
	// the map[float64]struct{} representation used above).
	out := map[string][]float64{}
	for x, set := range sets {
		vals := make([]float64, 0, len(set))
		for v := range set {
			vals = append(vals, v)
		}
		sort.Float64s(vals)
		out[x] = vals
	}

	return Result{Bounds: out, Warnings: warnings}
}
