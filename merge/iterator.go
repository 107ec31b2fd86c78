package merge

// Iterator is a cursor over an ordered sequence of key/value pairs.
// Single-threaded by contract: no Iterator in this package is safe for
// concurrent use by multiple goroutines.
//
// Key and Value must not be called unless Valid reports true; Next and
// Prev must not be called unless Valid reports true.
type Iterator interface {
	// Valid reports whether the iterator is positioned at a valid
	// key/value pair.
	Valid() bool

	// SeekToFirst positions at the first key.
	SeekToFirst()

	// SeekToLast positions at the last key.
	SeekToLast()

	// Seek positions at the first key >= target.
	Seek(target []byte)

	// Next moves to the next key. Valid must be true before the call.
	Next()

	// Prev moves to the previous key. Valid must be true before the
	// call.
	Prev()

	// Key returns the key at the current position. The returned slice
	// is only valid until the next call that repositions the iterator.
	Key() []byte

	// Value returns the value at the current position, under the same
	// validity rule as Key.
	Value() []byte

	// Status returns any error encountered. An iterator that
	// encountered an error is not Valid.
	Status() error

	// RegisterCleanup attaches fn to run when the iterator is no longer
	// needed, in Close. Multiple registrations run in reverse
	// registration order, the same discipline Close imposes on itself.
	RegisterCleanup(fn func())

	// Close runs every registered cleanup and releases any resources
	// the iterator itself holds.
	Close() error
}

// cleanupIterator is embedded by every Iterator implementation in this
// package to share RegisterCleanup/runCleanups bookkeeping.
type cleanupIterator struct {
	cleanups []func()
}

func (c *cleanupIterator) RegisterCleanup(fn func()) {
	if fn != nil {
		c.cleanups = append(c.cleanups, fn)
	}
}

func (c *cleanupIterator) runCleanups() {
	for i := len(c.cleanups) - 1; i >= 0; i-- {
		c.cleanups[i]()
	}
	c.cleanups = nil
}

// emptyIterator is never Valid and carries no error; Close is a no-op
// beyond running cleanups.
type emptyIterator struct {
	cleanupIterator
}

// NewEmptyIterator returns an Iterator over zero key/value pairs.
func NewEmptyIterator() Iterator { return &emptyIterator{} }

func (*emptyIterator) Valid() bool       { return false }
func (*emptyIterator) SeekToFirst()      {}
func (*emptyIterator) SeekToLast()       {}
func (*emptyIterator) Seek([]byte)       {}
func (*emptyIterator) Next()             { panic("merge: Next called on an invalid iterator") }
func (*emptyIterator) Prev()             { panic("merge: Prev called on an invalid iterator") }
func (*emptyIterator) Key() []byte       { panic("merge: Key called on an invalid iterator") }
func (*emptyIterator) Value() []byte     { panic("merge: Value called on an invalid iterator") }
func (*emptyIterator) Status() error     { return nil }
func (e *emptyIterator) Close() error    { e.runCleanups(); return nil }

// errorIterator is never Valid and reports err from Status.
type errorIterator struct {
	cleanupIterator
	err error
}

// NewErrorIterator returns an Iterator that is never Valid and whose
// Status always reports err.
func NewErrorIterator(err error) Iterator { return &errorIterator{err: err} }

func (*errorIterator) Valid() bool     { return false }
func (*errorIterator) SeekToFirst()    {}
func (*errorIterator) SeekToLast()     {}
func (*errorIterator) Seek([]byte)     {}
func (*errorIterator) Next()           { panic("merge: Next called on an invalid iterator") }
func (*errorIterator) Prev()           { panic("merge: Prev called on an invalid iterator") }
func (*errorIterator) Key() []byte     { panic("merge: Key called on an invalid iterator") }
func (*errorIterator) Value() []byte   { panic("merge: Value called on an invalid iterator") }
func (e *errorIterator) Status() error { return e.err }
func (e *errorIterator) Close() error  { e.runCleanups(); return nil }

var (
	_ Iterator = (*emptyIterator)(nil)
	_ Iterator = (*errorIterator)(nil)
)
