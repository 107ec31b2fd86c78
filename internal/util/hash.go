// Package util contains internal helpers (hashing, power-of-two math, padding).
//revive:disable:var-naming  // allow 'util' as an internal helpers package name
package util

// Hash32 hashes raw key bytes with 32-bit FNV-1a.
//
// Cache keys in this module are always raw []byte (unlike the generic,
// multi-type hashing the rest of the pack needed), so a single narrow
// hash function is enough; callers that need a different distribution can
// supply their own via cache.Options.Hash.
func Hash32(b []byte) uint32 {
	h := uint32(fnvOffset32)
	for _, c := range b {
		h ^= uint32(c)
		h *= fnvPrime32
	}
	return h
}

const (
	fnvOffset32 = 2166136261
	fnvPrime32  = 16777619
)
