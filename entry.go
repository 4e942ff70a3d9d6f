package reactivecache

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

/*
Entry represents one memoized invocation: a single (work-function, key)
pair, its last outcome, and the edges discovered the last time it ran.

DESIGN PURPOSE

Each cache key maps to an Entry instead of directly storing the raw
result. The Entry is what carries dirty/clean state and parent/child
bookkeeping — the cache itself (lru.go) only knows how to evict Entries by
recency, not how to interpret them.

STRUCTURE

  - value / err / hasValue: the tagged-union outcome of the last successful
    recompute. hasValue is false until the first recompute completes.
  - recomputing: true strictly between push and pop of this Entry on the
    context stack; used to detect re-entrant (cyclic) recomputation.
  - dirty: true when the cached outcome can no longer be trusted.
  - dirtyChildren: children known to be dirty as of the last report. A
    non-empty dirtyChildren makes this Entry effectively dirty even if its
    own dirty flag is false (see isDirty).
  - parents: Entries that invoked this one during their own last
    recomputation.
  - childValues: the outcome each child produced, last time this Entry
    observed it, reset at the start of every recompute.
  - pendingDirty: set when setDirty is called on an Entry that is, at that
    moment, itself recomputing (see the package-level Open Questions note
    in DESIGN.md) — applied the instant the in-flight recompute finishes.
*/
type Entry struct {
	key interface{}

	hasValue bool
	value    interface{}
	err      error

	recomputing  bool
	dirty        bool
	pendingDirty bool

	dirtyChildren map[*Entry]struct{}
	parents       map[*Entry]struct{}
	childValues   map[*Entry]outcome

	unsubscribe func()

	log logrus.FieldLogger
}

// outcome is an Entry's tagged-union result: either a value or an error,
// never both, cached and replayed together with the Entry's dirty state.
type outcome struct {
	value interface{}
	err   error
}

func newEntry(key interface{}, log logrus.FieldLogger) *Entry {
	return &Entry{
		key:           key,
		dirty:         true,
		dirtyChildren: make(map[*Entry]struct{}),
		parents:       make(map[*Entry]struct{}),
		childValues:   make(map[*Entry]outcome),
		log:           log,
	}
}

// isDirty reports whether this Entry must be recomputed on next access:
// either it was explicitly marked dirty, or it has at least one child
// known to be dirty.
func (e *Entry) isDirty() bool {
	return e.dirty || len(e.dirtyChildren) > 0
}

/*
recompute produces the Entry's current outcome, either by returning the
cached value/error or by re-running fn with args.

ALGORITHM (mirrors the five/six-step recompute protocol):

 1. Capture the parent at the top of the context stack *before* anything
    about this call mutates the stack. This is the Entry that will receive
    the clean/dirty report, whatever else happens while we run.
 2. If not dirty and a value is already cached, report to that parent and
    return the cached outcome without touching fn.
 3. Otherwise, if this Entry is already recomputing, this is a re-entrant
    call: fail with a cycle error without touching cached state at all.
 4. Push self, clear childValues/dirtyChildren, run fn, pop self.
 5. Store the new outcome, clear dirty and recomputing, report to the
    captured parent. If fn returned a cycle error, nothing is stored or
    reported: the error is returned and the Entry stays dirty.
 6. If a dirty mark arrived for this Entry *during* the recompute we just
    finished (pendingDirty), apply it now — it could not take effect
    earlier without being immediately overwritten by step 5.
*/
func (e *Entry) recompute(fn WorkFunc, args []interface{}) (interface{}, error) {
	parent := globalStack.current()

	if e.hasValue && !e.isDirty() {
		e.reportTo(parent)
		return e.value, e.err
	}

	if e.recomputing {
		if e.log != nil {
			e.log.WithField("key", fmt.Sprintf("%v", e.key)).Warn("reactivecache: cyclic recomputation detected")
		}
		return nil, newCycleError()
	}

	e.recomputing = true
	e.childValues = make(map[*Entry]outcome)
	e.dirtyChildren = make(map[*Entry]struct{})

	globalStack.push(e)
	value, err := func() (v interface{}, callErr error) {
		defer globalStack.pop()
		return fn(args...)
	}()

	e.recomputing = false
	if errors.Is(err, ErrRecomputingCycle) {
		// A cycle surfaced through fn is returned but never cached: the
		// Entry stays dirty, so the next call runs fn again.
		e.dirty = true
		e.pendingDirty = false
		return nil, err
	}
	e.hasValue = true
	e.value = value
	e.err = wrapUserError(err)
	e.dirty = false

	if e.log != nil {
		e.log.WithFields(logrus.Fields{
			"key":   fmt.Sprintf("%v", e.key),
			"error": e.err != nil,
		}).Debug("reactivecache: recomputed entry")
	}

	e.reportTo(parent)

	if e.pendingDirty {
		e.pendingDirty = false
		e.setDirty()
	}

	return value, e.err
}

// reportTo tells parent, if any, whether this Entry's current outcome is
// usable. A nil parent means this call happened with no active
// computation above it; there is nothing to report to.
func (e *Entry) reportTo(parent *Entry) {
	if parent == nil {
		return
	}
	if e.isDirty() {
		parent.reportDirty(e)
		return
	}
	parent.reportClean(e, outcome{value: e.value, err: e.err})
}

// setDirty marks this Entry dirty and propagates that fact to every
// parent. If the Entry is itself in the middle of recomputing, the mark
// is deferred: setting dirty=true now would be silently clobbered by the
// dirty=false the in-flight recompute is about to assign.
func (e *Entry) setDirty() {
	if e.recomputing {
		e.pendingDirty = true
		return
	}
	e.dirty = true
	for p := range e.parents {
		p.reportDirty(e)
	}
}

// reportDirty is called by child when it has become dirty (explicitly, or
// because one of its own children became dirty). It records child in
// dirtyChildren and, the first time child transitions into that set,
// propagates the same report to this Entry's own parents.
func (e *Entry) reportDirty(child *Entry) {
	if _, already := e.dirtyChildren[child]; already {
		return
	}
	e.dirtyChildren[child] = struct{}{}
	delete(e.childValues, child)

	for p := range e.parents {
		p.reportDirty(e)
	}
}

// reportClean is called by child when it finishes a recomputation
// cleanly. It records the value child produced, clears child from
// dirtyChildren, and registers this Entry as one of child's parents so
// that a future child.setDirty() reaches this Entry.
func (e *Entry) reportClean(child *Entry, value outcome) {
	e.childValues[child] = value
	delete(e.dirtyChildren, child)
	child.parents[e] = struct{}{}
}

// release detaches an Entry that has been evicted from its cache: it is
// marked dirty (so any surviving parent recomputes rather than trusting a
// stale childValues entry) and its subscription, if any, is torn down
// exactly once.
func (e *Entry) release() {
	e.setDirty()
	if e.unsubscribe != nil {
		e.unsubscribe()
		e.unsubscribe = nil
	}
}
