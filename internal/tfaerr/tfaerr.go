// Package tfaerr holds the error kinds produced by the toolkit. It contains
// the Error type, which can be created with one or more 'cause' sentinels.
// Calling errors.Is() on an Error with any of those sentinels as the target
// returns true.
package tfaerr

import "errors"

var (
	// ErrInvalidInterval is the cause attached when interval endpoints
	// violate ordering or finiteness (lo > hi, a NaN endpoint, or +∞ used
	// as a closed endpoint).
	ErrInvalidInterval = errors.New("interval endpoints are invalid")

	// ErrInvalidTrace is the cause attached when simulate reaches a step
	// where the requested (state, event, clock) triple is disabled.
	ErrInvalidTrace = errors.New("trace is not accepted by the automaton")

	// ErrUnknownTransition is the cause attached when GuardStrict or
	// ResetStrict is queried on a transition not present in Δ. The plain
	// Guard/Reset accessors fall back to a default value instead of
	// returning this error.
	ErrUnknownTransition = errors.New("transition is not a member of the automaton")

	// ErrAmbiguousTransition is returned at TFA construction time when two
	// transitions share a (state, event) pair with overlapping guards,
	// which would make successor lookup ambiguous.
	ErrAmbiguousTransition = errors.New("more than one transition shares a state and event with an overlapping guard")

	// ErrEmptyStates is returned when a TFA is constructed with no discrete
	// states.
	ErrEmptyStates = errors.New("automaton has no states")

	// ErrEmptyInitialStates is returned when a TFA is constructed with no
	// initial states.
	ErrEmptyInitialStates = errors.New("automaton has no initial states")
)

// Error is a typed error returned by functions across the toolkit as their
// error value. It contains a message describing what happened, along with
// one or more sentinel errors it considers to be its causes. Error is
// compatible with errors.Is: calling errors.Is on an Error with any of its
// causes as the target returns true, without the caller needing to
// typecast.
//
// Error should not be constructed directly; call New.
type Error struct {
	msg   string
	cause []error
}

// Error returns the message for e, followed by the result of calling
// Error() on its first cause, if any.
func (e Error) Error() string {
	if e.msg == "" && e.cause != nil {
		return e.cause[0].Error()
	}
	if e.cause != nil {
		return e.msg + ": " + e.cause[0].Error()
	}
	return e.msg
}

// Unwrap returns the causes of e, or nil if it has none.
func (e Error) Unwrap() []error {
	if len(e.cause) > 0 {
		return e.cause
	}
	return nil
}

// Is returns whether e's causes include target.
func (e Error) Is(target error) bool {
	for _, c := range e.cause {
		if errors.Is(c, target) {
			return true
		}
	}
	return false
}

// New creates a new Error with the given message and causes. Providing
// causes is optional, but doing so makes errors.Is(err, cause) true for
// each of them.
func New(msg string, causes ...error) Error {
	err := Error{msg: msg}
	if len(causes) > 0 {
		err.cause = make([]error, len(causes))
		copy(err.cause, causes)
	}
	return err
}

// Warning is a non-fatal finding surfaced alongside a successful result.
// The bound solver uses this to report a usable (if partially-propagated)
// bound map while flagging which states were left out of topological
// propagation.
type Warning struct {
	Kind    string
	Message string
}

func (w Warning) String() string {
	return w.Kind + ": " + w.Message
}

// CycleInNonResetGraph builds the Warning reported when Kahn's algorithm
// terminates with unprocessed states because the non-resetting transition
// subgraph contains a cycle.
func CycleInNonResetGraph(states []string) Warning {
	msg := "bound propagation skipped for state(s) in or downstream of a non-reset cycle: "
	for i, s := range states {
		if i > 0 {
			msg += ", "
		}
		msg += s
	}
	return Warning{Kind: "CycleInNonResetGraph", Message: msg}
}
