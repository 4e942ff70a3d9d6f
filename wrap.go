package reactivecache

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

/*
Wrapped is the callable a Wrap call hands back: a memoized, dependency-
tracking façade over one work function.

PIPELINE (Call)

 1. Compute key = makeCacheKey(args).
 2. Look up the Entry for key; if absent, create one and, if a subscribe
    option was given, invoke it and retain the returned unsubscribe on the
    Entry.
 3. Call entry.recompute(fn, args) and return its outcome — for a
    disposable wrapper with no active parent, skip the cache and fn
    entirely (see the disposable note below).
 4. Call cache.clean(). Entries evicted as a result are marked dirty and
    unsubscribed by onEvict, which lru.go invokes synchronously.

DISPOSABLE WRAPPERS

A disposable wrapper's result is never meaningful to its caller — only
the side effect of running fn, and the dependency edge it creates when
called from inside another computation, matter. Two cases:

  - No active parent on the context stack: the call is a pure no-op as far
    as this package is concerned. fn is not invoked and nothing is cached;
    the resolution and its rationale are recorded in DESIGN.md.
  - An active parent exists: Call behaves exactly like a normal memoized
    call (fn runs when dirty, the Entry is cached and tracked as the
    parent's child) except the value handed back to the caller is always
    nil; only the error, if any, is preserved.
*/
type Wrapped struct {
	fn  WorkFunc
	cfg config
	lru *lruCache
	log logrus.FieldLogger
}

// Wrap produces a memoized, dependency-tracking callable over fn.
func Wrap(fn WorkFunc, opts ...Option) *Wrapped {
	cfg := config{
		makeCacheKey: DefaultMakeCacheKey,
		logger:       logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	w := &Wrapped{fn: fn, cfg: cfg, log: cfg.logger}
	w.lru = newLRUCache(cfg.max, w.onEvict)
	return w
}

// onEvict is the LRU's dispose hook: an Entry dropped from the cache may
// still be referenced as a child by a live parent, so it must be marked
// dirty on the way out, and its external subscription, if any, torn down.
func (w *Wrapped) onEvict(e *Entry, key interface{}) {
	if w.log != nil {
		w.log.WithField("key", fmt.Sprintf("%v", key)).Debug("reactivecache: evicting entry")
	}
	e.release()
}

// Call invokes the wrapper, returning a cached result when nothing this
// Entry (transitively) depends on has changed, or re-running the work
// function otherwise.
func (w *Wrapped) Call(args ...interface{}) (interface{}, error) {
	key := w.cfg.makeCacheKey(args...)

	if w.cfg.disposable && globalStack.current() == nil {
		return nil, nil
	}

	entry, found := w.lru.get(key)
	if !found {
		entry = newEntry(key, w.log)
		if w.cfg.subscribe != nil {
			entry.unsubscribe = w.cfg.subscribe(args...)
		}
		w.lru.set(key, entry)
	}

	value, err := entry.recompute(w.fn, args)
	w.lru.clean()

	if w.cfg.disposable {
		return nil, err
	}
	return value, err
}

// Dirty invalidates the Entry for args, if one exists. Calling it for a
// key with no cached Entry is a silent no-op. Dirty is idempotent:
// calling it twice in a row has the same effect as calling it once.
func (w *Wrapped) Dirty(args ...interface{}) {
	key := w.cfg.makeCacheKey(args...)
	if entry, found := w.lru.peek(key); found {
		entry.setDirty()
	}
}

// Has reports whether args currently has a cached Entry, without
// promoting it in the LRU or triggering a recomputation.
func (w *Wrapped) Has(args ...interface{}) bool {
	key := w.cfg.makeCacheKey(args...)
	return w.lru.has(key)
}
