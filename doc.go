/*
Package reactivecache memoizes computation functions and automatically
tracks dependencies between them.

================================================================================
ARCHITECTURAL OVERVIEW
================================================================================

reactivecache wraps a user-supplied work function with Wrap and hands back a
*Wrapped value. Calling Wrapped.Call memoizes the result by the identity of
the call's arguments. While the work function runs, any other wrapped calls
it makes are recorded as its children: if a child is later invalidated with
Dirty, every ancestor that (transitively) called it is recomputed the next
time it is accessed. Everything that does not depend on the invalidated
value keeps returning its cached result.

The package is built from three parts that only make sense together:

  - Entry (entry.go) — one cached (function, key) record: its last value or
    error, its dirty state, and the parent/child edges discovered the last
    time it ran.
  - the context stack (stack.go) — a process-wide stack of "currently
    recomputing" Entries, used to discover parent/child edges without the
    caller passing anything explicit.
  - the LRU cache (lru.go) — a bounded map with O(1) recency tracking whose
    eviction hook marks the evicted Entry dirty, so a parent that depended
    on it recomputes rather than holding a stale reference.

================================================================================
CONCURRENCY MODEL
================================================================================

reactivecache assumes a single logical executor: there is no internal
locking anywhere in this package, and none is added. Call, Dirty,
and Has must not be invoked concurrently from multiple goroutines against
the same *Wrapped, and a work function must not call back into this
package from a separate goroutine while its own Entry is still on the
context stack. The context stack (stack.go) is a single unsynchronized
package-level slice; a work function that spawns a goroutine and has it
call back into a *Wrapped concurrently with its own in-flight recompute
is racing that goroutine's push/pop against its own, which is out of
contract and produces undefined behavior, not a defined isolation
guarantee. A work function MAY spawn goroutines, but any wrapped calls
they make are only well-defined once they are sequenced to run after the
spawning call has already returned (e.g. joined via a channel or
WaitGroup before the spawning Wrapped.Call itself returns).

================================================================================
WHAT THIS PACKAGE IS NOT
================================================================================

It is not a general-purpose TTL cache (no expiration), not a distributed or
persistent cache, and it does not compare cache keys for structural
equality — two distinct argument values, even if they would compare equal
with reflect.DeepEqual, get distinct cache entries unless they are the same
object (see DefaultMakeCacheKey).
*/
package reactivecache
