package tablecache

import "encoding/binary"

// encodeFileNumber encodes a file number as the cache key TableCache
// uses for it. Little-endian, fixed-width: any self-consistent encoding
// works as long as the same function is used everywhere it's needed.
func encodeFileNumber(fileNumber uint64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, fileNumber)
	return buf
}
