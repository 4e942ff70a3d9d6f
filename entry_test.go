package reactivecache

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

/*
entry_test.go exercises the recompute protocol and dirty/clean propagation
directly against Wrapped, the only way to drive Entry.recompute in
practice.
*/

// TestRecomputingCycleIsDetectedAndRecoverable covers direct self-
// recursion: it fails with ErrRecomputingCycle, and a later dirty() on
// the same key clears whatever state the cycle left behind so a
// non-cyclic call afterward still works.
func TestRecomputingCycleIsDetectedAndRecoverable(t *testing.T) {
	var self *Wrapped
	calls := 0
	self = Wrap(func(args ...interface{}) (interface{}, error) {
		calls++
		if calls == 1 {
			v, err := self.Call()
			if err != nil {
				return nil, err
			}
			return v.(int) + 1, nil
		}
		return 41, nil
	})

	_, err := self.Call()
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrRecomputingCycle), "must be identifiable as the cycle sentinel")
	require.Equal(t, "already recomputing", ErrRecomputingCycle.Error())

	// The cycle must not be cached, and dirty() on the same key must not
	// error or panic even though recompute failed without completing.
	require.NotPanics(t, func() { self.Dirty() })

	v, err := self.Call()
	require.NoError(t, err)
	require.Equal(t, 41, v)
}

// TestDirectMutualRecursionCycle covers the two-hop cyclic case (A calls
// B calls A) in addition to the direct one.
func TestDirectMutualRecursionCycle(t *testing.T) {
	var a, b *Wrapped
	a = Wrap(func(args ...interface{}) (interface{}, error) {
		return b.Call()
	})
	b = Wrap(func(args ...interface{}) (interface{}, error) {
		return a.Call()
	})

	_, err := a.Call()
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrRecomputingCycle))
}

// TestReportsCleanChildrenToCorrectParents checks that parent(1) and
// parent(2), distinct Entries over distinct keys, are each reported to
// independently: child.Dirty() followed by parent(1) must recompute and
// re-observe child only for parent(1)'s Entry, never smuggling the stale
// value into parent(2).
func TestReportsCleanChildrenToCorrectParents(t *testing.T) {
	childResult := "a"
	child := Wrap(func(args ...interface{}) (interface{}, error) {
		return childResult, nil
	})
	parent := Wrap(func(args ...interface{}) (interface{}, error) {
		c, err := child.Call()
		if err != nil {
			return nil, err
		}
		x := args[0]
		return c.(string) + strconv.Itoa(x.(int)), nil
	})

	v, _ := parent.Call(1)
	require.Equal(t, "a1", v)
	v, _ = parent.Call(2)
	require.Equal(t, "a2", v)

	childResult = "b"
	child.Dirty()

	v, _ = parent.Call(1)
	require.Equal(t, "b1", v)

	// parent(2) was never re-requested, so its own cached entry is still
	// dirty (child reported dirty to every parent, not just parent(1));
	// calling it now must recompute with the *current* childResult, not
	// replay a stale "a2".
	v, _ = parent.Call(2)
	require.Equal(t, "b2", v, "parent(2) must not observe a stale clean report meant for parent(1)")
}

// TestDirtyChildrenInvariant checks the quantified invariant: for every
// Entry E in some parent P's dirtyChildren, E.dirty() is true and P is
// one of E's parents.
func TestDirtyChildrenInvariant(t *testing.T) {
	child := Wrap(func(args ...interface{}) (interface{}, error) { return 1, nil })
	parent := Wrap(func(args ...interface{}) (interface{}, error) { return child.Call() })

	_, err := parent.Call()
	require.NoError(t, err)

	childKey := DefaultMakeCacheKey()
	childEntry, ok := child.lru.peek(childKey)
	require.True(t, ok)
	parentEntry, ok := parent.lru.peek(childKey)
	require.True(t, ok)

	child.Dirty()

	require.True(t, childEntry.dirty)
	_, isDirtyChild := parentEntry.dirtyChildren[childEntry]
	require.True(t, isDirtyChild)
	_, isParent := childEntry.parents[parentEntry]
	require.True(t, isParent)
}

// TestDeepRecursionWithEvictionDuringRecomputation covers §5's "is not
// confused by eviction during recomputation" requirement: a fib-shaped
// wrapper recurses to a depth well beyond any realistic dependency graph,
// under an LRU small enough that ancestors partway down the chain are
// evicted (and marked dirty) while deeper recursion is still in flight.
// Go's growable goroutine stacks make the depth itself a non-issue; what
// this test actually verifies is that repeated mid-chain eviction still
// converges on the mathematically correct result rather than a stale or
// partially-recomputed one.
func TestDeepRecursionWithEvictionDuringRecomputation(t *testing.T) {
	var fib *Wrapped
	fib = Wrap(func(args ...interface{}) (interface{}, error) {
		n := args[0].(int)
		if n < 2 {
			return n, nil
		}
		a, err := fib.Call(n - 1)
		if err != nil {
			return nil, err
		}
		b, err := fib.Call(n - 2)
		if err != nil {
			return nil, err
		}
		return a.(int) + b.(int), nil
	}, WithMax(10))

	want := []int{0, 1, 1, 2, 3, 5, 8, 13, 21, 34, 55, 89, 144, 233, 377, 610, 987, 1597, 2584, 4181, 6765}

	v, err := fib.Call(20)
	require.NoError(t, err)
	require.Equal(t, want[20], v, "small max must not corrupt the result despite heavy mid-chain eviction")

	fib.Dirty(1)
	v, err = fib.Call(20)
	require.NoError(t, err)
	require.Equal(t, want[20], v, "recomputing after dirtying a deep leaf must still converge correctly")
}

// TestSelfDirtyDuringOwnRecomputeIsDeferred covers the resolution recorded
// in DESIGN.md: marking an Entry dirty from within its own work function
// takes effect on the call *after* the in-flight one finishes, not
// immediately.
func TestSelfDirtyDuringOwnRecomputeIsDeferred(t *testing.T) {
	var self *Wrapped
	calls := 0
	self = Wrap(func(args ...interface{}) (interface{}, error) {
		calls++
		if calls == 1 {
			self.Dirty()
		}
		return calls, nil
	})

	v, err := self.Call()
	require.NoError(t, err)
	require.Equal(t, 1, v, "the in-flight recomputation's own result must still be returned and cached")

	v, err = self.Call()
	require.NoError(t, err)
	require.Equal(t, 2, v, "the deferred dirty mark must force exactly one more recompute")

	v, err = self.Call()
	require.NoError(t, err)
	require.Equal(t, 2, v, "and no more, since nothing marked it dirty again")
}
