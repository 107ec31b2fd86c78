package tablecache

import "fmt"

// tableFileName returns the canonical on-disk path for fileNumber: a
// 6-digit zero-padded number under dbname with a ".ldb" extension.
func tableFileName(dbname string, fileNumber uint64) string {
	return fmt.Sprintf("%s/%06d.ldb", dbname, fileNumber)
}

// oldTableFileName returns the legacy ".sst" path, tried when the
// canonical ".ldb" file does not exist.
func oldTableFileName(dbname string, fileNumber uint64) string {
	return fmt.Sprintf("%s/%06d.sst", dbname, fileNumber)
}
