package reactivecache

import "github.com/sirupsen/logrus"

/*
Option configures a Wrapped at construction time.

DESIGN PATTERN

A functional-options pattern covering the four knobs the reactive façade
needs: the LRU bound, the key derivation, an external dirty subscription,
and disposable mode, plus the logger (WithLogger). Every Option is just a function that mutates a
private config struct before Wrap activates it — the options are
resolved once per wrapper, not dispatched per call.
*/
type Option func(*config)

// SubscribeFunc ties an Entry's lifetime in the cache to an external
// dirty source. It is called once, when the Entry backing args is first
// created, and must return an unsubscribe function that reactivecache
// will call exactly once, when that Entry is evicted or replaced.
type SubscribeFunc func(args ...interface{}) (unsubscribe func())

// WorkFunc is the user-supplied computation a Wrapped memoizes.
type WorkFunc func(args ...interface{}) (interface{}, error)

type config struct {
	max          int
	makeCacheKey KeyFunc
	subscribe    SubscribeFunc
	disposable   bool
	logger       logrus.FieldLogger
}

// WithMax bounds the wrapper's LRU cache to n entries. A non-positive n
// (or omitting this option) leaves the cache effectively unbounded.
func WithMax(n int) Option {
	return func(c *config) { c.max = n }
}

// WithMakeCacheKey overrides the default identity-trie key derivation.
func WithMakeCacheKey(fn KeyFunc) Option {
	return func(c *config) { c.makeCacheKey = fn }
}

// WithSubscribe attaches an external dirty source to every Entry this
// wrapper creates.
func WithSubscribe(fn SubscribeFunc) Option {
	return func(c *config) { c.subscribe = fn }
}

// WithDisposable marks the wrapper disposable: see Wrapped.Call in
// wrap.go for the resulting semantics, all of which are driven by
// config.disposable rather than any per-Entry state.
func WithDisposable() Option {
	return func(c *config) { c.disposable = true }
}

// WithLogger overrides the logrus.FieldLogger this wrapper's Entries log
// through. Defaults to logrus.StandardLogger().
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *config) { c.logger = l }
}
