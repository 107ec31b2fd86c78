// Package merge provides a direction-switching merging iterator over N
// ordered child iterators, plus the small Iterator/Comparator interfaces
// it merges.
//
// A MergingIterator keeps no heap or auxiliary index: with the small
// number of children expected here (a handful of on-disk tables plus a
// memtable), a linear scan for the current smallest/largest child is
// simpler and fast enough. Direction switches (forward Next after a Prev,
// or vice versa) cost one re-seek per child; straight-line iteration in
// one direction costs none.
//
// Basic usage
//
//	it := merge.New(merge.ByteComparator{}, children)
//	defer it.Close()
//	for it.SeekToFirst(); it.Valid(); it.Next() {
//	    use(it.Key(), it.Value())
//	}
//	if err := it.Status(); err != nil {
//	    // handle the first child error, by lowest index
//	}
package merge
