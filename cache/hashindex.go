package cache

import "github.com/IvanBrykalov/lru/internal/util"

// hashIndex is an intrusively chained open hash table keyed by (hash, key
// bytes). Each bucket is the head of a singly linked list threaded through
// entry.nextHash; there is no separate node allocation for chaining.
//
// Not safe for concurrent use — callers (Shard) hold their own mutex
// around every call.
type hashIndex struct {
	buckets  []*entry
	elements int
}

// newHashIndex returns an empty table with the initial 4-bucket array
// spec §4.1 specifies.
func newHashIndex() *hashIndex {
	return &hashIndex{buckets: make([]*entry, 4)}
}

// lookup walks the bucket chain for (hash, key), comparing the
// precomputed hash first (cheap reject) and key bytes only on a hash hit.
func (h *hashIndex) lookup(key []byte, hash uint32) *entry {
	bucket := h.buckets[hash&uint32(len(h.buckets)-1)]
	for e := bucket; e != nil; e = e.nextHash {
		if e.hash == hash && string(e.key) == string(key) {
			return e
		}
	}
	return nil
}

// insert places e at the head of its bucket chain. If a prior entry with
// an equal (key, hash) existed anywhere in the chain, it is unlinked and
// returned to the caller, who is responsible for dropping its cache
// reference. Otherwise the element count grows and, once elements exceeds
// the bucket count, the table resizes so the average chain length stays
// <= 1. Head insertion plus a single splice keeps both the new-key and
// displacement paths to one write.
func (h *hashIndex) insert(e *entry) *entry {
	old := h.remove(e.key, e.hash)

	idx := e.hash & uint32(len(h.buckets)-1)
	e.nextHash = h.buckets[idx]
	h.buckets[idx] = e

	// remove already decremented elements for a displaced entry, so the
	// count goes back up in both cases.
	h.elements++
	if old == nil && h.elements > len(h.buckets) {
		h.resize()
	}
	return old
}

// remove unlinks and returns the matched entry, or nil if absent.
func (h *hashIndex) remove(key []byte, hash uint32) *entry {
	idx := hash & uint32(len(h.buckets)-1)
	var prev *entry
	cur := h.buckets[idx]
	for cur != nil {
		if cur.hash == hash && string(cur.key) == string(key) {
			if prev == nil {
				h.buckets[idx] = cur.nextHash
			} else {
				prev.nextHash = cur.nextHash
			}
			cur.nextHash = nil
			h.elements--
			return cur
		}
		prev = cur
		cur = cur.nextHash
	}
	return nil
}

// resize doubles the bucket count (from 4) until elements fit at an
// average chain length of <= 1, then rehashes every entry in place.
// Order within a chain is not preserved across a resize.
func (h *hashIndex) resize() {
	newLen := uint64(len(h.buckets))
	for newLen < uint64(h.elements) {
		newLen *= 2
	}
	newLen = util.NextPow2(newLen)

	newBuckets := make([]*entry, newLen)
	for _, head := range h.buckets {
		for e := head; e != nil; {
			next := e.nextHash
			idx := uint64(e.hash) & (newLen - 1)
			e.nextHash = newBuckets[idx]
			newBuckets[idx] = e
			e = next
		}
	}
	h.buckets = newBuckets
}
