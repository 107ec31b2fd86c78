package cache

import "sync"

// shardedCache routes every operation to one of shardCount independent
// shards by the top shardBits bits of the key's hash, and vends
// monotonic identifiers under a small separate mutex.
type shardedCache struct {
	shards [shardCount]*shard
	hash   func(key []byte) uint32

	idMu   sync.Mutex
	nextID uint64
}

// New constructs a Cache. Capacity is split evenly (ceil) across the 16
// fixed shards. New panics if opt.Capacity <= 0.
func New(opt Options) Cache {
	if opt.Capacity <= 0 {
		panic("cache: Capacity must be > 0")
	}
	opt.setDefaults()

	perShard := (opt.Capacity + shardCount - 1) / shardCount
	c := &shardedCache{hash: opt.Hash}
	for i := range c.shards {
		c.shards[i] = newShard(perShard, opt.Metrics)
	}
	return c
}

func (c *shardedCache) Insert(key []byte, value interface{}, charge int, deleter Deleter) *Handle {
	hash := c.hash(key)
	s := c.shardFor(hash)
	return &Handle{e: s.insert(key, hash, value, charge, deleter), s: s}
}

func (c *shardedCache) Lookup(key []byte) *Handle {
	hash := c.hash(key)
	s := c.shardFor(hash)
	e := s.lookup(key, hash)
	if e == nil {
		return nil
	}
	return &Handle{e: e, s: s}
}

func (c *shardedCache) Release(h *Handle) {
	h.s.release(h.e)
}

func (c *shardedCache) Value(h *Handle) interface{} {
	return h.e.value
}

func (c *shardedCache) Erase(key []byte) {
	hash := c.hash(key)
	c.shardFor(hash).erase(key, hash)
}

func (c *shardedCache) NewID() uint64 {
	c.idMu.Lock()
	defer c.idMu.Unlock()
	c.nextID++
	return c.nextID
}

func (c *shardedCache) Prune() {
	for _, s := range c.shards {
		s.prune()
	}
}

func (c *shardedCache) TotalCharge() int {
	total := 0
	for _, s := range c.shards {
		total += s.totalCharge()
	}
	return total
}

func (c *shardedCache) Close() error {
	for _, s := range c.shards {
		s.close()
	}
	return nil
}

// shardFor selects a shard from the top shardBits bits of hash, so shard
// routing and in-shard bucket indexing (which uses the low bits) draw on
// uncorrelated parts of the hash.
func (c *shardedCache) shardFor(hash uint32) *shard {
	return c.shards[hash>>(32-shardBits)]
}
