package siptable

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrInvalidConfig is wrapped by every construction-time validation error.
var ErrInvalidConfig = errors.New("siptable: invalid configuration")

type config struct {
	capacity     int
	loadFactor   float64
	probe        ProbeStrategy
	key          SecretKey
	hasKey       bool
	compressBits uint
	hasher       KeyHasher
	logger       *zap.Logger
}

func defaultConfig() config {
	return config{
		capacity:   8,
		loadFactor: 1.0,
		probe:      Simple,
		logger:     zap.NewNop(),
	}
}

// Option configures a Table at construction.
type Option func(*config)

// WithProbeStrategy selects the collision-resolution variant. Default is
// Simple.
func WithProbeStrategy(s ProbeStrategy) Option {
	return func(c *config) { c.probe = s }
}

// WithLoadFactor bounds used/capacity after every insert. Must be in
// (0, 1]; default is 1.0.
func WithLoadFactor(f float64) Option {
	return func(c *config) { c.loadFactor = f }
}

// WithInitialCapacity sets the starting slot count. Must be a power of
// two; default is 8.
func WithInitialCapacity(n int) Option {
	return func(c *config) { c.capacity = n }
}

// WithSecretKey fixes the 128-bit hashing key. If no key is supplied the
// table draws one from the cryptographic random source at construction.
func WithSecretKey(k SecretKey) Option {
	return func(c *config) {
		c.key = k
		c.hasKey = true
	}
}

// WithCompressBits folds every hash down to the given bit width to
// inflate collision rates for analysis runs. Zero disables it.
func WithCompressBits(bits uint) Option {
	return func(c *config) { c.compressBits = bits }
}

// WithHasher substitutes the table's hasher wholesale, e.g. the xxhash
// baseline. Overrides WithSecretKey and WithCompressBits.
func WithHasher(h KeyHasher) Option {
	return func(c *config) { c.hasher = h }
}

// WithLogger attaches a logger for collision and resize tracing. Default
// is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

func (c *config) validate() error {
	if !c.probe.valid() {
		return fmt.Errorf("%w: unknown probe strategy %d", ErrInvalidConfig, c.probe)
	}
	if c.capacity < 1 || c.capacity&(c.capacity-1) != 0 {
		return fmt.Errorf("%w: initial capacity %d is not a power of two", ErrInvalidConfig, c.capacity)
	}
	if c.loadFactor <= 0 || c.loadFactor > 1 {
		return fmt.Errorf("%w: load factor %v outside (0, 1]", ErrInvalidConfig, c.loadFactor)
	}
	return nil
}
