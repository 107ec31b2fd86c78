package tablecache

import (
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/IvanBrykalov/lru/cache"
	"github.com/IvanBrykalov/lru/merge"
)

// tableAndFile is the value TableCache stores for each resident file
// number: the open file plus its parsed Table. The deleter closes the
// file; the Table is dropped with the entry.
type tableAndFile struct {
	file  RandomAccessFile
	table Table
}

func deleteTableAndFile(_ []byte, value interface{}) {
	tf := value.(*tableAndFile)
	_ = tf.file.Close()
}

// TableCache maps 64-bit file numbers to opened (file, parsed table)
// pairs, memoized in a cache.Cache. It never caches a failed open: a
// transient failure, or a file later repaired or produced, is retried
// on the next call.
type TableCache struct {
	env    Environment
	dbname string
	opener TableOpener
	cache  cache.Cache

	// sf coalesces concurrent misses for the same file number so only
	// one goroutine opens and parses the file; every caller still gets
	// its own independent cache.Handle once that work completes.
	sf singleflight.Group
}

// New constructs a TableCache rooted at dbname, opening files through
// env and parsing them with opener. capacity is the underlying cache's
// total charge budget, split evenly (ceil) across its 16 shards; each
// resident (file, table) pair occupies a charge of 1.
func New(dbname string, env Environment, opener TableOpener, capacity int) *TableCache {
	return &TableCache{
		env:    env,
		dbname: dbname,
		opener: opener,
		cache:  cache.New(cache.Options{Capacity: capacity}),
	}
}

// find returns a Handle for fileNumber, opening and parsing the backing
// file on a miss. The returned Handle is the caller's own reference and
// must be released exactly once.
func (tc *TableCache) find(fileNumber, fileSize uint64) (*cache.Handle, error) {
	key := encodeFileNumber(fileNumber)

	if h := tc.cache.Lookup(key); h != nil {
		return h, nil
	}

	_, err, _ := tc.sf.Do(string(key), func() (interface{}, error) {
		// Another goroutine may have inserted between our miss above
		// and acquiring the singleflight call.
		if h := tc.cache.Lookup(key); h != nil {
			tc.cache.Release(h)
			return nil, nil
		}

		file, openErr := tc.env.OpenRandomAccessFile(tableFileName(tc.dbname, fileNumber))
		if openErr != nil {
			legacy, legacyErr := tc.env.OpenRandomAccessFile(oldTableFileName(tc.dbname, fileNumber))
			if legacyErr != nil {
				return nil, newError(NotFound, fmt.Sprintf("file number %d", fileNumber), openErr)
			}
			file = legacy
		}

		table, parseErr := tc.opener(Options{}, file, fileSize)
		if parseErr != nil {
			_ = file.Close()
			return nil, newError(Corruption, fmt.Sprintf("file number %d", fileNumber), parseErr)
		}

		h := tc.cache.Insert(key, &tableAndFile{file: file, table: table}, 1, deleteTableAndFile)
		tc.cache.Release(h)
		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	h := tc.cache.Lookup(key)
	if h == nil {
		// The entry was evicted between the singleflight Insert and
		// this Lookup; treat it the same as any other transient miss.
		return nil, newError(IOError, fmt.Sprintf("file number %d", fileNumber), nil)
	}
	return h, nil
}

// NewIterator returns an iterator over every key/value pair in the
// table for fileNumber, sized fileSize. The cache handle backing the
// table is released exactly when the iterator's Close runs. If the
// table could not be found or parsed, the returned iterator is never
// Valid and reports the error from Status.
//
// table, if non-nil, is set to the underlying parsed Table on success
// so a caller (e.g. a future compaction path) can read table metadata
// without a second find.
func (tc *TableCache) NewIterator(opts Options, fileNumber, fileSize uint64, table *Table) merge.Iterator {
	h, err := tc.find(fileNumber, fileSize)
	if err != nil {
		return merge.NewErrorIterator(err)
	}

	tf := tc.cache.Value(h).(*tableAndFile)
	it := tf.table.NewIterator(opts)
	it.RegisterCleanup(func() { tc.cache.Release(h) })
	if table != nil {
		*table = tf.table
	}
	return it
}

// Get performs a point lookup of key in the table for fileNumber, sized
// fileSize, invoking saver with the matching entry if one is found.
func (tc *TableCache) Get(opts Options, fileNumber, fileSize uint64, key []byte, saver Saver) error {
	h, err := tc.find(fileNumber, fileSize)
	if err != nil {
		return err
	}
	defer tc.cache.Release(h)

	tf := tc.cache.Value(h).(*tableAndFile)
	return tf.table.InternalGet(opts, key, saver)
}

// Evict removes the cache entry for fileNumber, if resident. Callers
// holding an iterator or Get in flight against it are unaffected; the
// entry is freed once their handle is released.
func (tc *TableCache) Evict(fileNumber uint64) {
	tc.cache.Erase(encodeFileNumber(fileNumber))
}
