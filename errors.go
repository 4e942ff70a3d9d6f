package reactivecache

import "github.com/pkg/errors"

// ErrRecomputingCycle is the sentinel identity behind every cycle failure
// returned by Wrapped.Call. It is never cached as an Entry's outcome: the
// Entry is left in whatever state it had before the cyclic call, so a
// later, non-cyclic call against the same key still works.
//
// Callers distinguish a cycle failure from an ordinary error returned by
// their own work function with errors.Is(err, reactivecache.ErrRecomputingCycle).
var ErrRecomputingCycle = errors.New("already recomputing")

// newCycleError returns ErrRecomputingCycle wrapped with a stack trace, so
// that logging it with "%+v" points at the call site that re-entered the
// Entry rather than just the sentinel's own construction site.
func newCycleError() error {
	return errors.WithStack(ErrRecomputingCycle)
}

// wrapUserError annotates an error returned by a work function so it can be
// told apart, in logs, from a cycle failure or an error surfaced by
// reactivecache itself, while remaining unwrappable back to the original
// via errors.Cause / errors.Unwrap.
func wrapUserError(err error) error {
	if err == nil {
		return nil
	}
	return errors.WithMessage(err, "reactivecache: work function failed")
}
