package siptable

import "fmt"

// ProbeStrategy is the rule producing the next candidate slot after a
// collision. It is chosen once at table construction and fixed for the
// table's lifetime.
type ProbeStrategy uint8

const (
	// Simple linear probing: next index = index + 1.
	Simple ProbeStrategy = iota
	// Modified linear probing: next index = 5*index + 1.
	Modified
	// Pythonic probing: next index = 5*index + 1 + hash, consuming the
	// hash five bits at a time. Two keys landing on the same initial
	// index but carrying different hashes diverge after one step.
	Pythonic
)

// ParseProbeStrategy maps a strategy tag to its variant. Unknown tags are
// a configuration error.
func ParseProbeStrategy(name string) (ProbeStrategy, error) {
	switch name {
	case "simple":
		return Simple, nil
	case "modified":
		return Modified, nil
	case "pythonic":
		return Pythonic, nil
	}
	return 0, fmt.Errorf("%w: unknown probe strategy %q", ErrInvalidConfig, name)
}

func (s ProbeStrategy) String() string {
	switch s {
	case Simple:
		return "simple"
	case Modified:
		return "modified"
	case Pythonic:
		return "pythonic"
	}
	return fmt.Sprintf("probe(%d)", uint8(s))
}

func (s ProbeStrategy) valid() bool {
	return s <= Pythonic
}

// next computes the following probe step. mask is capacity-1; capacity is
// always a power of two, so the mask substitutes for the modulo.
func (s ProbeStrategy) next(index, hash, mask uint64) (uint64, uint64) {
	switch s {
	case Modified:
		return (5*index + 1) & mask, hash
	case Pythonic:
		return (5*index + 1 + hash) & mask, hash >> 5
	default:
		return (index + 1) & mask, hash
	}
}
