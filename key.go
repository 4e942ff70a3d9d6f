package reactivecache

// KeyFunc derives an opaque cache key from a call's arguments. The
// returned key only needs to satisfy Go's comparable-as-a-map-key
// contract (it is used directly as a map[interface{}] key by lruCache),
// not any particular hashing scheme.
type KeyFunc func(args ...interface{}) interface{}

/*
trieNode is one node of the identity trie DefaultMakeCacheKey walks.

DEFAULT KEY DERIVATION

DefaultMakeCacheKey treats arguments by identity, never by structural
equality. It does this with a shared trie rooted at a single package-level
node: each argument in the call walks one edge, keyed by that argument's
own identity, to a child node; the final node reached is the cache key.

Two consequences fall directly out of that walk:

  - The same sequence of argument identities always reaches the same node,
    so two calls with identical argument identities get the same key.
  - Two distinct object references — even if they are structurally equal —
    take different edges (Go map keys compare pointers/interfaces by
    identity, not by pointed-to content), so they reach different nodes
    and get distinct keys. Primitive values (strings, ints, and other
    comparable scalars) are compared by their natural equality, since
    that's how Go's map key comparison treats them.

Because each edge is itself a map keyed by interface{}, every argument
passed through DefaultMakeCacheKey must be a comparable Go value — slices,
maps, and funcs cannot be used as arguments to a wrapper that relies on
the default key function.
*/
type trieNode struct {
	children map[interface{}]*trieNode
}

func newTrieNode() *trieNode {
	return &trieNode{children: make(map[interface{}]*trieNode)}
}

// keyTrieRoot is the single, shared, fixed root every DefaultMakeCacheKey
// walk starts from. It is package-level rather than per-Wrapped, which
// just means two distinct *Wrapped values built with the default key
// function can never collide with each other's keys by construction,
// since each wrapper keeps its own lruCache.
var keyTrieRoot = newTrieNode()

// DefaultMakeCacheKey is the KeyFunc used by Wrap when no WithMakeCacheKey
// option is supplied. It walks keyTrieRoot one edge per argument and
// returns the trie node reached, which is unique to that argument
// identity sequence and usable directly as a lruCache map key.
func DefaultMakeCacheKey(args ...interface{}) interface{} {
	node := keyTrieRoot
	for _, arg := range args {
		child, ok := node.children[arg]
		if !ok {
			child = newTrieNode()
			node.children[arg] = child
		}
		node = child
	}
	return node
}
