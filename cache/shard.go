package cache

import (
	"sync"

	"github.com/IvanBrykalov/lru/internal/util"
)

// shard is one LRU partition: an intrusive hashIndex for lookups, a
// sentinel-headed circular recency list (sentinel.prev is MRU,
// sentinel.next is LRU), and a capacity enforced only on Insert.
type shard struct {
	mu       sync.Mutex
	capacity int
	usage    int
	sentinel entry
	index    *hashIndex

	// hot counters, padded to avoid false sharing across shards.
	_      util.CacheLinePad
	hits   util.PaddedAtomicInt64
	misses util.PaddedAtomicInt64
	evicts util.PaddedAtomicUint64

	metrics Metrics
}

func newShard(capacity int, metrics Metrics) *shard {
	s := &shard{capacity: capacity, index: newHashIndex(), metrics: metrics}
	s.sentinel.prev = &s.sentinel
	s.sentinel.next = &s.sentinel
	return s
}

// insert creates a new entry with refs=2 (one for the cache, one for the
// returned handle), appends it at MRU, displaces any prior mapping for
// key, then evicts from the LRU end until usage fits capacity or the
// recency list is empty. Externally pinned entries are evicted like any
// other; eviction drops only the cache's reference.
func (s *shard) insert(key []byte, hash uint32, value interface{}, charge int, deleter Deleter) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := &entry{
		key:     append([]byte(nil), key...),
		hash:    hash,
		value:   value,
		deleter: deleter,
		charge:  charge,
		refs:    2,
	}
	s.listAppend(e)
	s.usage += charge

	if old := s.index.insert(e); old != nil {
		s.listRemove(old)
		s.dropCacheRef(old)
	}

	for s.usage > s.capacity && s.sentinel.next != &s.sentinel {
		lru := s.sentinel.next
		s.listRemove(lru)
		s.index.remove(lru.key, lru.hash)
		s.dropCacheRef(lru)
		s.evicts.Add(1)
		s.metrics.Evict()
	}
	s.metrics.Size(s.index.elements, int64(s.usage))
	return e
}

// lookup returns the entry for (key, hash) with its reference count
// incremented, after promoting it to MRU. Returns nil on a miss.
func (s *shard) lookup(key []byte, hash uint32) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.index.lookup(key, hash)
	if e == nil {
		s.misses.Add(1)
		s.metrics.Miss()
		return nil
	}
	e.refs++
	s.listRemove(e)
	s.listAppend(e)
	s.hits.Add(1)
	s.metrics.Hit()
	return e
}

// release drops the caller's external reference to e. If the cache had
// already dropped its own reference earlier (e.g. the entry was erased
// or evicted while the handle was held), this may bring refs to zero and
// run the deleter; otherwise the entry simply stays resident.
func (s *shard) release(e *entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decRef(e)
}

// erase removes the mapping for (key, hash), if any, and drops the
// cache's own reference to it. Callers holding a handle keep the entry
// alive until they release it.
func (s *shard) erase(key []byte, hash uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.index.remove(key, hash)
	if e == nil {
		return
	}
	s.listRemove(e)
	s.dropCacheRef(e)
}

// prune removes every entry whose only reference is the cache's own
// (refs == 1), freeing them immediately.
func (s *shard) prune() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for e := s.sentinel.next; e != &s.sentinel; {
		next := e.next
		if e.refs == 1 {
			s.index.remove(e.key, e.hash)
			s.listRemove(e)
			s.dropCacheRef(e)
		}
		e = next
	}
}

// totalCharge returns the shard's current usage.
func (s *shard) totalCharge() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.usage
}

// close releases the cache's own reference to every still-resident
// entry, mirroring LRUCache's destructor in the original implementation.
// Entries with an outstanding external handle survive until their holder
// releases it; unlike the C++ destructor, this does not assert refs == 1.
func (s *shard) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for e := s.sentinel.next; e != &s.sentinel; {
		next := e.next
		s.listRemove(e)
		s.dropCacheRef(e)
		e = next
	}
}

// ---- internals (mu held by every caller above) ----

// listAppend inserts e immediately before the sentinel (MRU position).
func (s *shard) listAppend(e *entry) {
	e.next = &s.sentinel
	e.prev = s.sentinel.prev
	e.prev.next = e
	e.next.prev = e
}

// listRemove splices e out of the recency list. e.prev/e.next are left
// dangling; callers must not touch them afterward.
func (s *shard) listRemove(e *entry) {
	e.next.prev = e.prev
	e.prev.next = e.next
}

// dropCacheRef removes e's charge from usage — it is no longer counted
// among entries with a live cache reference — and then drops the
// reference itself. Used by every path that removes e from the cache's
// own bookkeeping: displacement, eviction, erase, prune, and close.
func (s *shard) dropCacheRef(e *entry) {
	s.usage -= e.charge
	s.decRef(e)
}

// decRef drops e's reference count with no charge accounting; at zero it
// invokes the deleter exactly once. Used directly by release, where the
// reference being dropped is the caller's external one, not the cache's.
func (s *shard) decRef(e *entry) {
	e.refs--
	if e.refs == 0 && e.deleter != nil {
		e.deleter(e.key, e.value)
	}
}
