package uuid

import (
	"bytes"

	"github.com/zeebo/xxh3"
)

// Compare returns an integer comparing two UUIDs as unsigned 16-byte
// quantities, byte 0 most significant. The result will be 0 if u==other,
// -1 if u < other, and +1 if u > other. This is the canonical total order
// used for sorting and indexing, and it is consistent with Equal: two UUIDs
// compare equal iff their raw bytes are identical.
func (u UUID) Compare(other UUID) int {
	return bytes.Compare(u[:], other[:])
}

// Equal returns true if u and other represent the same UUID
func (u UUID) Equal(other UUID) bool {
	return u == other
}

// Less reports whether u sorts strictly before other.
func (u UUID) Less(other UUID) bool {
	return u.Compare(other) < 0
}

// Hash returns a 64-bit hash of the raw UUID bytes. The result depends only
// on the bytes, never on any text formatting of the value.
func (u UUID) Hash() uint64 {
	return xxh3.Hash(u[:])
}

// HashSeed returns a seeded 64-bit hash of the raw UUID bytes, for schemes
// that need a second independent hash of the same key.
func (u UUID) HashSeed(seed uint64) uint64 {
	return xxh3.HashSeed(u[:], seed)
}
