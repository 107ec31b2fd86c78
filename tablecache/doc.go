// Package tablecache memoizes opened, parsed on-disk tables behind a
// sharded cache.Cache, keyed by 64-bit file number.
//
// A miss opens the canonical "%06d.ldb" path under the database
// directory, falling back to the legacy "%06d.sst" suffix if that
// fails, then parses the file into a Table. Concurrent misses for the
// same file number are coalesced with singleflight so only one
// goroutine does the open-and-parse work; every caller still gets its
// own independent cache.Handle. Failed opens are never cached, so a
// transient failure or a file produced later is retried automatically.
package tablecache
