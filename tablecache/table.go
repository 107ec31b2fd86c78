package tablecache

import "github.com/IvanBrykalov/lru/merge"

// Options carries read-time knobs passed through to a Table's iterator
// and point lookups. It is a placeholder for whatever a concrete Table
// implementation needs (e.g. checksum verification); TableCache itself
// never inspects it.
type Options struct {
	VerifyChecksums bool
}

// Saver receives the (key, value) pair InternalGet found, if any. It is
// called at most once per InternalGet.
type Saver func(key, value []byte)

// Table is a parsed on-disk table: the footer, index, and any filter
// block have already been read. TableCache never reads table contents
// itself — opening, scanning, and point lookups are delegated entirely
// to the Table a TableOpener returns.
type Table interface {
	// NewIterator returns an iterator over every key/value pair in the
	// table, in key order.
	NewIterator(opts Options) merge.Iterator

	// InternalGet looks up key and, if found, invokes saver with the
	// matching entry's key and value exactly once.
	InternalGet(opts Options, key []byte, saver Saver) error
}

// TableOpener parses file (of the given size) into a Table. It reads
// only the footer, index, and filter block — not the data blocks — the
// same "open is cheap, scanning is lazy" contract leveldb's Table::Open
// makes.
type TableOpener func(opts Options, file RandomAccessFile, fileSize uint64) (Table, error)
