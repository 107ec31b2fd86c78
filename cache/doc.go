// Package cache provides a fast, sharded, reference-counted LRU cache over
// opaque values keyed by raw byte slices.
//
// Design
//
//   - Concurrency: the cache is split into 16 shards, each protected by its
//     own mutex. Shard selection uses the top 4 bits of a 32-bit key hash,
//     so the bits used for shard routing and the bits used for in-shard
//     bucket indexing are uncorrelated.
//
//   - Storage: each shard owns an intrusive, open-chained hash table
//     (hashIndex) plus a sentinel-headed circular doubly linked list
//     ordered by recency (MRU at sentinel.prev, LRU at sentinel.next).
//     There is no language-level map in the hot path; entries own their
//     own chain and list links, so insert/lookup/evict are a handful of
//     pointer writes plus one hash compare, not a second allocation.
//
//   - Reference counting: Insert returns a *Handle the caller must
//     Release exactly once. The cache itself holds one implicit reference
//     for as long as the entry is resident; an entry's deleter runs the
//     instant its last reference (cache or caller) is released.
//
//   - Eviction: strict LRU, triggered only by Insert, and only once
//     Shard.usage exceeds its capacity. An entry with a charge larger
//     than the whole shard's capacity is still admitted and its Handle
//     stays valid until released, but the same Insert's eviction pass
//     removes it from the cache once every older entry is gone.
//
//   - Metrics: Options.Metrics receives Hit/Miss/Evict/Size signals. This
//     is ambient instrumentation for operators, not part of the Cache
//     contract itself; the default NoopMetrics discards everything.
//
// Basic usage
//
//	c := cache.New(cache.Options{Capacity: 1 << 20})
//	defer c.Close()
//
//	h := c.Insert([]byte("a"), "payload", 1, nil)
//	v := c.Value(h) // use v while the handle is held
//	c.Release(h)
//	_ = v
//
// See cache/options.go for configuration and cache/metrics.go for the
// observability hooks.
package cache
