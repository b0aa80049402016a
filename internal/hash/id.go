package hash

import "github.com/cespare/xxhash/v2"

// DictID derives a non-zero 32-bit dictionary identifier from the dictionary content.
//
// Zero is reserved by the zstd frame format for "no dictionary", so the low bit
// is always set.
func DictID(content []byte) uint32 {
	return uint32(xxhash.Sum64(content)) | 1
}

// Checksum returns the xxHash64 of the given bytes.
func Checksum(data []byte) uint64 {
	return xxhash.Sum64(data)
}
