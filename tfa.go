// Package tfa is the root facade of the timed finite automata toolkit: it
// wires the bound solver, zone automaton builder, reachability reducer, and
// observer builder into the single pipeline a caller actually wants to run
// end to end.
package tfa

import (
	"fmt"

	"github.com/arnelund/tfa/internal/bounds"
	"github.com/arnelund/tfa/internal/model"
	"github.com/arnelund/tfa/internal/observer"
	"github.com/arnelund/tfa/internal/reduce"
	"github.com/arnelund/tfa/internal/tfaerr"
	"github.com/arnelund/tfa/internal/zone"
)

// Options controls the pipeline's optional stages.
type Options struct {
	// PropagateResetToSource, if true, also adds a resetting transition's
	// reset bounds to its source state instead of only its destination.
	PropagateResetToSource bool

	// Reduce, if true, prunes unreachable extended states from the zone
	// automaton before the observer is built.
	Reduce bool

	// BuildObserver, if true, additionally computes the observer
	// automaton from the (possibly reduced) zone automaton.
	BuildObserver bool
}

// Analysis is the full result of running the pipeline on a TFA: the model
// itself, its bound sets and any bound-propagation warnings, the zone
// automaton, and optionally the observer automaton.
type Analysis struct {
	TFA      model.TFA
	Bounds   map[string][]float64
	Warnings []tfaerr.Warning
	Zone     zone.Automaton
	Observer *observer.Automaton
}

// New builds a TFA from def and immediately runs it through bound solving
// and zone construction (and, per opts, reduction and observer
// construction). It returns an error only if def itself fails to validate;
// every later stage is total over a valid TFA.
func New(def model.Def, opts Options) (Analysis, error) {
	t, err := model.Build(def)
	if err != nil {
		return Analysis{}, fmt.Errorf("building TFA: %w", err)
	}

	boundsResult := bounds.Solve(t, bounds.Options{PropagateResetToSource: opts.PropagateResetToSource})

	za := zone.Build(t, boundsResult.Bounds)
	if opts.Reduce {
		za = reduce.Reachable(za)
	}

	a := Analysis{
		TFA:      t,
		Bounds:   boundsResult.Bounds,
		Warnings: boundsResult.Warnings,
		Zone:     za,
	}

	if opts.BuildObserver {
		obs := observer.Build(za)
		a.Observer = &obs
	}

	return a, nil
}
