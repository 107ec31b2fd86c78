package cache

import (
	"strconv"
	"sync/atomic"
	"testing"
)

// benchmarkMix exercises a read/write mix against a warm cache. Keys are
// released immediately, matching the steady-state handle lifecycle of a
// lookaside cache rather than a long-held-handle workload.
func benchmarkMix(b *testing.B, readsPct int) {
	c := New(Options{Capacity: 100_000})
	b.Cleanup(func() { _ = c.Close() })

	for i := 0; i < 50_000; i++ {
		k := []byte("k:" + strconv.Itoa(i))
		h := c.Insert(k, "v", 1, nil)
		c.Release(h)
	}

	b.ReportAllocs()
	b.ResetTimer()

	var seed int64 = 1
	keyMask := (1 << 16) - 1

	b.RunParallel(func(pb *testing.PB) {
		r := newRand(atomic.AddInt64(&seed, 1))
		i := 0
		for pb.Next() {
			k := []byte("k:" + strconv.Itoa(i&keyMask))
			if r.intn(100) < readsPct {
				if h := c.Lookup(k); h != nil {
					c.Release(h)
				}
			} else {
				h := c.Insert(k, "v", 1, nil)
				c.Release(h)
			}
			i++
		}
	})
}

func BenchmarkCache_90r10w(b *testing.B) { benchmarkMix(b, 90) }
func BenchmarkCache_50r50w(b *testing.B) { benchmarkMix(b, 50) }
