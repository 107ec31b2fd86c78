package tablecache

import (
	"errors"
	"sync/atomic"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/IvanBrykalov/lru/merge"
)

// fakeFile is an in-memory RandomAccessFile; Close just records whether
// it was called.
type fakeFile struct {
	name   string
	data   []byte
	closed bool
}

func (f *fakeFile) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(f.data)) {
		return 0, errors.New("fakeFile: read past end")
	}
	n := copy(p, f.data[off:])
	return n, nil
}

func (f *fakeFile) Close() error { f.closed = true; return nil }

// fakeEnvironment serves files from an in-memory map, keyed by exact
// path, and counts how many times each path was opened.
type fakeEnvironment struct {
	files map[string][]byte
	opens map[string]int
}

func newFakeEnvironment(files map[string][]byte) *fakeEnvironment {
	return &fakeEnvironment{files: files, opens: map[string]int{}}
}

func (e *fakeEnvironment) OpenRandomAccessFile(name string) (RandomAccessFile, error) {
	e.opens[name]++
	data, ok := e.files[name]
	if !ok {
		return nil, errors.New("fakeEnvironment: no such file: " + name)
	}
	return &fakeFile{name: name, data: data}, nil
}

// fakeTable is a trivial Table: it has one key/value pair equal to its
// backing file's contents, split on the first ':'.
type fakeTable struct {
	key, value []byte
}

func openFakeTable(_ Options, file RandomAccessFile, fileSize uint64) (Table, error) {
	buf := make([]byte, fileSize)
	n, err := file.ReadAt(buf, 0)
	if err != nil && n == 0 {
		return nil, err
	}
	buf = buf[:n]
	for i, b := range buf {
		if b == ':' {
			return &fakeTable{key: buf[:i], value: buf[i+1:]}, nil
		}
	}
	return nil, errors.New("fakeTable: malformed contents")
}

func openFailingTable(Options, RandomAccessFile, uint64) (Table, error) {
	return nil, errors.New("fakeTable: parse failure")
}

func (t *fakeTable) NewIterator(Options) merge.Iterator {
	return merge.New(merge.ByteComparator{}, nil) // unused by these tests
}

func (t *fakeTable) InternalGet(_ Options, key []byte, saver Saver) error {
	if string(key) != string(t.key) {
		return nil
	}
	saver(t.key, t.value)
	return nil
}

func TestTableCache_FindOpensCanonicalPath(t *testing.T) {
	env := newFakeEnvironment(map[string][]byte{
		"/db/000007.ldb": []byte("k:v"),
	})
	tc := New("/db", env, openFakeTable, 8)

	var got []byte
	err := tc.Get(Options{}, 7, 3, []byte("k"), func(_, v []byte) { got = v })
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "v" {
		t.Fatalf("Get() saved %q, want %q", got, "v")
	}
}

func TestTableCache_FindFallsBackToLegacyExtension(t *testing.T) {
	env := newFakeEnvironment(map[string][]byte{
		"/db/000007.sst": []byte("k:legacy"),
	})
	tc := New("/db", env, openFakeTable, 8)

	var got []byte
	err := tc.Get(Options{}, 7, 9, []byte("k"), func(_, v []byte) { got = v })
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "legacy" {
		t.Fatalf("Get() saved %q, want %q", got, "legacy")
	}
	if env.opens["/db/000007.ldb"] == 0 {
		t.Fatal("the canonical path must still be attempted first")
	}
}

func TestTableCache_FindCachesAcrossCalls(t *testing.T) {
	env := newFakeEnvironment(map[string][]byte{
		"/db/000007.ldb": []byte("k:v"),
	})
	tc := New("/db", env, openFakeTable, 8)

	for i := 0; i < 5; i++ {
		if err := tc.Get(Options{}, 7, 3, []byte("k"), func(_, _ []byte) {}); err != nil {
			t.Fatalf("Get() call %d error = %v", i, err)
		}
	}
	if got := env.opens["/db/000007.ldb"]; got != 1 {
		t.Fatalf("file opened %d times, want exactly 1 (cached after the first)", got)
	}
}

func TestTableCache_FindNotFoundWhenNeitherExtensionExists(t *testing.T) {
	env := newFakeEnvironment(nil)
	tc := New("/db", env, openFakeTable, 8)

	err := tc.Get(Options{}, 99, 3, []byte("k"), func(_, _ []byte) {})
	if err == nil {
		t.Fatal("expected an error when neither extension exists")
	}
	var tcErr *Error
	if !errors.As(err, &tcErr) || tcErr.Kind != NotFound {
		t.Fatalf("error = %v, want Kind NotFound", err)
	}
}

func TestTableCache_FindNotCachedOnFailure(t *testing.T) {
	env := newFakeEnvironment(map[string][]byte{})
	tc := New("/db", env, openFakeTable, 8)

	_ = tc.Get(Options{}, 5, 3, []byte("k"), func(_, _ []byte) {})

	env.files["/db/000005.ldb"] = []byte("k:recovered")
	var got []byte
	if err := tc.Get(Options{}, 5, 11, []byte("k"), func(_, v []byte) { got = v }); err != nil {
		t.Fatalf("Get() after recovery, error = %v", err)
	}
	if string(got) != "recovered" {
		t.Fatalf("Get() saved %q, want %q — failed opens must not be cached", got, "recovered")
	}
}

func TestTableCache_CorruptionOnParseFailure(t *testing.T) {
	env := newFakeEnvironment(map[string][]byte{
		"/db/000003.ldb": []byte("garbage"),
	})
	tc := New("/db", env, openFailingTable, 8)

	err := tc.Get(Options{}, 3, 7, []byte("k"), func(_, _ []byte) {})
	var tcErr *Error
	if !errors.As(err, &tcErr) || tcErr.Kind != Corruption {
		t.Fatalf("error = %v, want Kind Corruption", err)
	}
}

func TestTableCache_Evict(t *testing.T) {
	env := newFakeEnvironment(map[string][]byte{
		"/db/000001.ldb": []byte("k:v"),
	})
	tc := New("/db", env, openFakeTable, 8)

	_ = tc.Get(Options{}, 1, 3, []byte("k"), func(_, _ []byte) {})
	tc.Evict(1)
	_ = tc.Get(Options{}, 1, 3, []byte("k"), func(_, _ []byte) {})

	if got := env.opens["/db/000001.ldb"]; got != 2 {
		t.Fatalf("file opened %d times, want 2 (once, then again after Evict)", got)
	}
}

// Many concurrent Get calls for the same file number must coalesce into
// a single file open, and every caller must still see a correct result.
func TestTableCache_ConcurrentFindCoalesces(t *testing.T) {
	env := newFakeEnvironment(map[string][]byte{
		"/db/000042.ldb": []byte("k:v"),
	})
	tc := New("/db", env, openFakeTable, 8)

	var successes int64
	var g errgroup.Group
	for i := 0; i < 64; i++ {
		g.Go(func() error {
			var got []byte
			if err := tc.Get(Options{}, 42, 3, []byte("k"), func(_, v []byte) { got = v }); err != nil {
				return err
			}
			if string(got) != "v" {
				return errors.New("wrong value observed")
			}
			atomic.AddInt64(&successes, 1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent Get failed: %v", err)
	}
	if successes != 64 {
		t.Fatalf("successes = %d, want 64", successes)
	}
	if got := env.opens["/db/000042.ldb"]; got != 1 {
		t.Fatalf("file opened %d times, want exactly 1", got)
	}
}

func TestTableCache_NewIteratorReleasesHandleOnClose(t *testing.T) {
	env := newFakeEnvironment(map[string][]byte{
		"/db/000010.ldb": []byte("k:v"),
	})
	tc := New("/db", env, openFakeTable, 8)

	var table Table
	it := tc.NewIterator(Options{}, 10, 3, &table)
	if table == nil {
		t.Fatal("NewIterator must populate the table out-param on success")
	}
	if err := it.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// The handle must have been released by Close; a fresh lookup
	// sequence (another Get) must still work without reopening because
	// the cache reference independently keeps the entry resident.
	if err := tc.Get(Options{}, 10, 3, []byte("k"), func(_, _ []byte) {}); err != nil {
		t.Fatalf("Get() after iterator Close, error = %v", err)
	}
	if got := env.opens["/db/000010.ldb"]; got != 1 {
		t.Fatalf("file opened %d times, want 1", got)
	}
}
