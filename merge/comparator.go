package merge

import "bytes"

// Comparator orders keys. Implementations must define a total order
// consistent with their own use as the sort key of every child Iterator
// passed to New — the merge gives no useful result if children disagree
// with the Comparator about ordering.
type Comparator interface {
	// Compare returns a negative number if a < b, zero if a == b, and a
	// positive number if a > b.
	Compare(a, b []byte) int
}

// ByteComparator orders keys by plain byte-wise comparison. New has no
// default Comparator; callers pass ByteComparator{} explicitly.
type ByteComparator struct{}

func (ByteComparator) Compare(a, b []byte) int { return bytes.Compare(a, b) }

var _ Comparator = ByteComparator{}
