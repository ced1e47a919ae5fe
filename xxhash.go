package siptable

import (
	"github.com/cespare/xxhash/v2"
)

// XXHasher hashes keys with xxHash64. It is unkeyed, so it serves as the
// control arm in collision experiments: swap it in via WithHasher to
// compare the keyed construction against a known industrial hash over
// the same key set.
type XXHasher struct{}

// Sum hashes a key with xxHash64 over the same little-endian encoding
// the keyed hasher uses, so both hashers see identical message bytes.
func (XXHasher) Sum(key any) uint64 {
	if s, ok := key.(string); ok {
		return xxhash.Sum64String(s)
	}
	msg := encodeKey(key).Bytes()
	for i, j := 0, len(msg)-1; i < j; i, j = i+1, j-1 {
		msg[i], msg[j] = msg[j], msg[i]
	}
	return xxhash.Sum64(msg)
}
