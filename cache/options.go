package cache

import "github.com/IvanBrykalov/lru/internal/util"

// shardBits is log2(shardCount). Shard routing per spec §4.3 uses the top
// shardBits bits of a 32-bit key hash, leaving the low bits (used for
// in-shard bucket indexing) uncorrelated with shard selection.
const (
	shardCount = 16
	shardBits  = 4
)

// Options configures a Cache. Capacity is required; everything else has
// a sane zero-value default.
type Options struct {
	// Capacity is the total charge budget across all 16 shards, split
	// evenly (ceil) per shard. Required; New panics if Capacity <= 0.
	Capacity int

	// Hash computes a 32-bit digest of a key for both shard routing and
	// in-shard bucket indexing. Defaults to util.Hash32 (FNV-1a).
	Hash func(key []byte) uint32

	// Metrics receives Hit/Miss/Evict/Size signals. Defaults to
	// NoopMetrics; this is ambient instrumentation, not part of the
	// Cache contract itself.
	Metrics Metrics
}

func (o *Options) setDefaults() {
	if o.Hash == nil {
		o.Hash = util.Hash32
	}
	if o.Metrics == nil {
		o.Metrics = NoopMetrics{}
	}
}
