package merge

// direction tracks which way the merge last moved, so Next and Prev know
// whether every non-current child is already correctly positioned or
// needs to be re-sought before the step.
type direction int

const (
	forward direction = iota
	reverse
)

// New returns an Iterator over the merged, comparator-ordered union of
// children. The returned iterator takes ownership of children: its
// Close runs each child's Close in addition to any cleanups registered
// on the merging iterator itself.
//
// n == 0 returns an always-invalid Iterator. n == 1 returns children[0]
// directly — there is nothing to merge, so no wrapper is allocated.
func New(cmp Comparator, children []Iterator) Iterator {
	switch len(children) {
	case 0:
		return NewEmptyIterator()
	case 1:
		return children[0]
	default:
		return &mergingIterator{
			cmp:      cmp,
			children: children,
			current:  -1,
			dir:      forward,
		}
	}
}

type mergingIterator struct {
	cleanupIterator

	cmp      Comparator
	children []Iterator
	current  int // index into children, or -1 when not Valid
	dir      direction
}

func (m *mergingIterator) Valid() bool { return m.current >= 0 }

func (m *mergingIterator) SeekToFirst() {
	for _, c := range m.children {
		c.SeekToFirst()
	}
	m.findSmallest()
	m.dir = forward
}

func (m *mergingIterator) SeekToLast() {
	for _, c := range m.children {
		c.SeekToLast()
	}
	m.findLargest()
	m.dir = reverse
}

func (m *mergingIterator) Seek(target []byte) {
	for _, c := range m.children {
		c.Seek(target)
	}
	m.findSmallest()
	m.dir = forward
}

func (m *mergingIterator) Next() {
	if !m.Valid() {
		panic("merge: Next called on an invalid iterator")
	}

	// If we're moving forward, every non-current child is already
	// positioned past key() since current is the smallest. Otherwise
	// each must be explicitly re-sought to key() and, if it lands
	// exactly on key(), stepped once more past the duplicate.
	if m.dir != forward {
		key := m.Key()
		for i, c := range m.children {
			if i == m.current {
				continue
			}
			c.Seek(key)
			if c.Valid() && m.cmp.Compare(key, c.Key()) == 0 {
				c.Next()
			}
		}
		m.dir = forward
	}

	m.children[m.current].Next()
	m.findSmallest()
}

func (m *mergingIterator) Prev() {
	if !m.Valid() {
		panic("merge: Prev called on an invalid iterator")
	}

	// Symmetric to Next: moving in reverse, every non-current child is
	// already positioned before key(). Otherwise seek each to key() and
	// step back one — or, if nothing in that child is >= key(), to its
	// last entry.
	if m.dir != reverse {
		key := m.Key()
		for i, c := range m.children {
			if i == m.current {
				continue
			}
			c.Seek(key)
			if c.Valid() {
				c.Prev()
			} else {
				c.SeekToLast()
			}
		}
		m.dir = reverse
	}

	m.children[m.current].Prev()
	m.findLargest()
}

func (m *mergingIterator) Key() []byte {
	if !m.Valid() {
		panic("merge: Key called on an invalid iterator")
	}
	return m.children[m.current].Key()
}

func (m *mergingIterator) Value() []byte {
	if !m.Valid() {
		panic("merge: Value called on an invalid iterator")
	}
	return m.children[m.current].Value()
}

// Status returns the first error reported by any child, scanning in
// index order: "first" means lowest child index, not first in time.
func (m *mergingIterator) Status() error {
	for _, c := range m.children {
		if err := c.Status(); err != nil {
			return err
		}
	}
	return nil
}

func (m *mergingIterator) Close() error {
	var first error
	for _, c := range m.children {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	m.runCleanups()
	return first
}

// findSmallest scans children left to right, so a tie is won by the
// lowest index: the strict less-than only replaces current on a later
// child that sorts strictly before it.
func (m *mergingIterator) findSmallest() {
	smallest := -1
	for i, c := range m.children {
		if !c.Valid() {
			continue
		}
		if smallest == -1 || m.cmp.Compare(c.Key(), m.children[smallest].Key()) < 0 {
			smallest = i
		}
	}
	m.current = smallest
}

// findLargest scans children right to left, so a tie is won by the
// highest index: the strict greater-than only replaces current on an
// earlier-indexed child that sorts strictly after it.
func (m *mergingIterator) findLargest() {
	largest := -1
	for i := len(m.children) - 1; i >= 0; i-- {
		c := m.children[i]
		if !c.Valid() {
			continue
		}
		if largest == -1 || m.cmp.Compare(c.Key(), m.children[largest].Key()) > 0 {
			largest = i
		}
	}
	m.current = largest
}

var _ Iterator = (*mergingIterator)(nil)
