package siptable

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math/big"
	"math/bits"
)

// State initialization constants: "somepseu", "dorandom", "lygenera",
// "tedbytes" read as little-endian 64-bit integers.
const (
	initC0 = 0x736F6D6570736575
	initC1 = 0x646F72616E646F6D
	initC2 = 0x6C7967656E657261
	initC3 = 0x7465646279746573
)

// SecretKey is the 128-bit hashing key, split into two 64-bit words.
// A key is immutable once a hasher is constructed with it.
type SecretKey struct {
	K0, K1 uint64
}

// RandomKey draws a fresh 128-bit key from the system's cryptographic
// random source.
func RandomKey() (SecretKey, error) {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return SecretKey{}, fmt.Errorf("failed to read key material: %w", err)
	}
	return SecretKey{
		K0: binary.LittleEndian.Uint64(buf[0:8]),
		K1: binary.LittleEndian.Uint64(buf[8:16]),
	}, nil
}

// KeyHasher converts an arbitrary key into a 64-bit hash value.
// Implementations must be deterministic: the same key always yields the
// same value for the lifetime of the hasher.
type KeyHasher interface {
	Sum(key any) uint64
}

// SipHasher is a keyed 64-bit hasher using a SipHash construction with
// 2-round compression and 4-round finalization. The message is treated as
// an unbounded-precision non-negative integer, so keys of any length hash
// through the same code path.
//
// String keys are packed one byte per 8-bit shift (byte i occupies bits
// [8i, 8i+8)). Integer keys contribute their absolute magnitude. Any other
// comparable key falls back to a process-lifetime identity surrogate; two
// such keys hash equal only if they compare equal, which is deliberately
// not a content-addressing guarantee.
type SipHasher struct {
	key          SecretKey
	compressBits uint
}

// HasherOption configures a SipHasher at construction.
type HasherOption func(*SipHasher)

// WithCompression folds every hash down to the given number of bits by
// repeated XOR. Compression exists purely to inflate collision rates for
// analysis runs; zero disables it.
func WithCompression(bits uint) HasherOption {
	return func(h *SipHasher) { h.compressBits = bits }
}

// NewSipHasher builds a hasher over the given secret key.
func NewSipHasher(key SecretKey, opts ...HasherOption) *SipHasher {
	h := &SipHasher{key: key}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Key returns the hasher's secret key.
func (h *SipHasher) Key() SecretKey { return h.key }

// Sum hashes a key to its full-range 64-bit value.
func (h *SipHasher) Sum(key any) uint64 {
	v := h.sum(encodeKey(key))
	if h.compressBits > 0 {
		v = foldHash(v, h.compressBits)
	}
	return v
}

// SumSigned hashes a key and presents the result under the signed
// convention: values with the top bit set map to their two's-complement
// negative form. The bit pattern is identical to Sum's.
func (h *SipHasher) SumSigned(key any) int64 {
	return int64(h.Sum(key))
}

type sipState struct {
	v0, v1, v2, v3 uint64
}

func (s *sipState) halfRound(a, b int) {
	s.v0 += s.v1
	s.v2 += s.v3
	s.v1 = bits.RotateLeft64(s.v1, a) ^ s.v0
	s.v3 = bits.RotateLeft64(s.v3, b) ^ s.v2
	s.v0 = bits.RotateLeft64(s.v0, 32)
	s.v0, s.v2 = s.v2, s.v0
}

func (s *sipState) doubleRound() {
	s.halfRound(13, 16)
	s.halfRound(17, 21)
	s.halfRound(13, 16)
	s.halfRound(17, 21)
}

func (s *sipState) compressWord(w uint64) {
	s.v3 ^= w
	s.doubleRound()
	s.v0 ^= w
}

var mask64 = new(big.Int).SetUint64(^uint64(0))

func (h *SipHasher) sum(msg *big.Int) uint64 {
	s := sipState{
		v0: h.key.K0 ^ initC0,
		v1: h.key.K1 ^ initC1,
		v2: h.key.K0 ^ initC2,
		v3: h.key.K1 ^ initC3,
	}

	rest := tagLength(msg)
	word := new(big.Int)
	s.compressWord(word.And(rest, mask64).Uint64())
	rest.Rsh(rest, 64)
	for rest.Sign() != 0 {
		s.compressWord(word.And(rest, mask64).Uint64())
		rest.Rsh(rest, 64)
	}

	s.v2 ^= 0xFF
	s.doubleRound()
	s.doubleRound()
	return s.v0 ^ s.v1 ^ s.v2 ^ s.v3
}

// tagLength writes the (truncated) byte length of the message into the top
// byte of the final 8-byte word-aligned block. The placement is computed
// from the bit length of the integer: a zero message still counts as one
// bit, so it tags at bit offset 56 like any other single-word message.
func tagLength(msg *big.Int) *big.Int {
	sizeBits := msg.BitLen()
	if sizeBits == 0 {
		sizeBits = 1
	}
	sizeBytes := (sizeBits + 7) >> 3
	sizeWords := (sizeBytes + 8) >> 3
	tag := new(big.Int).SetUint64(uint64(sizeBytes & 0xFF))
	tag.Lsh(tag, uint(sizeWords*64-8))
	return tag.Or(tag, msg)
}

// foldHash XOR-folds the lowest b bits with the remaining shifted-right
// value until the value is exhausted.
func foldHash(v uint64, b uint) uint64 {
	if b >= 64 {
		return v
	}
	mask := uint64(1)<<b - 1
	var folded uint64
	for v != 0 {
		folded ^= v & mask
		v >>= b
	}
	return folded
}

// encodeKey maps a key to the unbounded-precision integer the hash
// consumes. Integers contribute their absolute magnitude; strings pack
// little-endian, one byte per character position.
func encodeKey(key any) *big.Int {
	switch k := key.(type) {
	case string:
		return encodeString(k)
	case int:
		return absInt(int64(k))
	case int8:
		return absInt(int64(k))
	case int16:
		return absInt(int64(k))
	case int32:
		return absInt(int64(k))
	case int64:
		return absInt(k)
	case uint:
		return new(big.Int).SetUint64(uint64(k))
	case uint8:
		return new(big.Int).SetUint64(uint64(k))
	case uint16:
		return new(big.Int).SetUint64(uint64(k))
	case uint32:
		return new(big.Int).SetUint64(uint64(k))
	case uint64:
		return new(big.Int).SetUint64(k)
	case uintptr:
		return new(big.Int).SetUint64(uint64(k))
	case *big.Int:
		return new(big.Int).Abs(k)
	default:
		return new(big.Int).SetUint64(surrogateID(key))
	}
}

func absInt(v int64) *big.Int {
	n := big.NewInt(v)
	return n.Abs(n)
}

func encodeString(s string) *big.Int {
	b := []byte(s)
	rev := make([]byte, len(b))
	for i, c := range b {
		rev[len(b)-1-i] = c
	}
	return new(big.Int).SetBytes(rev)
}

// Identity surrogates for keys that are neither strings nor integers.
// Stable for the lifetime of the process; unsynchronized like everything
// else here (single-threaded use only).
var surrogates = struct {
	ids  map[any]uint64
	next uint64
}{ids: make(map[any]uint64)}

func surrogateID(key any) uint64 {
	if id, ok := surrogates.ids[key]; ok {
		return id
	}
	surrogates.next++
	surrogates.ids[key] = surrogates.next
	return surrogates.next
}
