package cache

// Deleter is invoked exactly once, when an entry's last reference
// (cache or caller) is released. It must not call back into the same
// shard: shard operations run under the shard mutex, and a deleter that
// re-entered Insert/Lookup/Release/Erase/Prune on the same shard would
// deadlock. This is a documented contract, not something the cache
// detects or guards against.
type Deleter func(key []byte, value interface{})

// entry is a variable-length cache record. It is simultaneously a node in
// its shard's hashIndex bucket chain (via nextHash) and, while it holds
// the cache's own reference, a node in the shard's recency list (via
// prev/next). Key bytes are copied once at insert time and never mutated.
type entry struct {
	key     []byte
	hash    uint32
	value   interface{}
	deleter Deleter
	charge  int
	refs    uint32

	// Recency list links (sentinel-headed circular list). Valid only
	// while the entry holds the cache's own reference.
	prev *entry
	next *entry

	// Bucket chain link used by hashIndex. Not touched by list code.
	nextHash *entry
}
