package siptable

import (
	"fmt"

	"go.uber.org/zap"
)

type entryState uint8

const (
	stateEmpty entryState = iota
	stateFilled
	stateTombstone
)

// entry is one slot of the table. Slots are value-typed, so every slot is
// independent storage. A tombstone keeps its place in probe chains but
// drops its key and value.
type entry[K comparable, V any] struct {
	key   K
	value V
	hash  uint64
	state entryState
}

// Item is one key-value pair yielded by Items.
type Item[K comparable, V any] struct {
	Key   K
	Value V
}

// Table is an open-addressing hash table over a power-of-two slot array.
// Deleted entries become tombstones that still consume probe-chain and
// load-factor budget; only a resize reclaims them. The table is
// single-threaded by contract and holds no internal synchronization.
type Table[K comparable, V any] struct {
	slots      []entry[K, V]
	used       int
	loadFactor float64
	hasher     KeyHasher
	probe      ProbeStrategy
	collisions uint64
	logger     *zap.Logger
}

// New builds a table. Unknown probe strategies, non-power-of-two
// capacities and out-of-range load factors fail construction with an
// error wrapping ErrInvalidConfig.
func New[K comparable, V any](opts ...Option) (*Table[K, V], error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	hasher := cfg.hasher
	if hasher == nil {
		key := cfg.key
		if !cfg.hasKey {
			k, err := RandomKey()
			if err != nil {
				return nil, fmt.Errorf("generating secret key: %w", err)
			}
			key = k
		}
		hasher = NewSipHasher(key, WithCompression(cfg.compressBits))
	}

	return &Table[K, V]{
		slots:      make([]entry[K, V], cfg.capacity),
		loadFactor: cfg.loadFactor,
		hasher:     hasher,
		probe:      cfg.probe,
		logger:     cfg.logger,
	}, nil
}

// Get returns the value stored under key, or false when the key is
// absent. Lookup probes through tombstones and stops at the first empty
// slot.
func (t *Table[K, V]) Get(key K) (V, bool) {
	idx := t.lookup(key, t.hasher.Sum(key), true)
	if e := &t.slots[idx]; e.state == stateFilled {
		return e.value, true
	}
	var zero V
	return zero, false
}

// Update inserts or overwrites key with value, growing the table first if
// the insert would push used/capacity past the load factor.
func (t *Table[K, V]) Update(key K, value V) {
	if float64(t.used+1)/float64(len(t.slots)) > t.loadFactor {
		t.grow()
	}
	t.insert(key, value, false)
}

// insert places key at the first reusable slot. During a resize replay
// the used counter is left alone so rehashed entries are not counted
// twice; the replay flag is passed explicitly rather than toggled on the
// table to keep the path reentrancy-clean.
func (t *Table[K, V]) insert(key K, value V, replay bool) {
	hash := t.hasher.Sum(key)
	idx := t.lookup(key, hash, false)
	if t.slots[idx].state != stateTombstone && !replay {
		t.used++
	}
	t.slots[idx] = entry[K, V]{key: key, value: value, hash: hash, state: stateFilled}
}

// Remove tombstones the entry for key. No-op when the key is absent. The
// used counter is not decremented: a tombstone still occupies its slot
// for load-factor purposes until a resize drops it.
func (t *Table[K, V]) Remove(key K) {
	idx := t.lookup(key, t.hasher.Sum(key), true)
	if t.slots[idx].state == stateFilled {
		t.slots[idx] = entry[K, V]{state: stateTombstone}
	}
}

// lookup walks the probe sequence for key and returns the terminal slot
// index. With skipTombstones set (get/remove) tombstones are probed
// through; without it (insert) the first tombstone is returned for reuse.
// Every advance past an occupied or tombstoned slot counts as one
// collision.
//
// The match check compares stored hashes before key equality; the hash
// held for matching stays fixed while the probe hash is consumed by the
// strategy.
func (t *Table[K, V]) lookup(key K, hash uint64, skipTombstones bool) int {
	mask := uint64(len(t.slots) - 1)
	index := hash & mask
	probeHash := hash
	for {
		e := &t.slots[index]
		switch e.state {
		case stateTombstone:
			if !skipTombstones {
				return int(index)
			}
		case stateFilled:
			if e.hash == hash && e.key == key {
				return int(index)
			}
		default:
			return int(index)
		}
		t.collisions++
		if ce := t.logger.Check(zap.DebugLevel, "collision"); ce != nil {
			ce.Write(
				zap.Uint64("index", index),
				zap.Uint64("hash", hash),
				zap.Uint64("occupant_hash", e.hash),
			)
		}
		index, probeHash = t.probe.next(index, probeHash, mask)
	}
}

// grow doubles capacity until one more insert fits under the load factor,
// then rehashes every filled entry into a fresh all-empty slot array.
// Tombstones do not survive a resize.
func (t *Table[K, V]) grow() {
	capacity := len(t.slots)
	for float64(t.used+1)/float64(capacity) > t.loadFactor {
		capacity <<= 1
	}
	old := t.slots
	t.slots = make([]entry[K, V], capacity)
	for i := range old {
		if old[i].state == stateFilled {
			t.insert(old[i].key, old[i].value, true)
		}
	}
	t.logger.Debug("resized table",
		zap.Int("from", len(old)),
		zap.Int("to", capacity),
		zap.Int("used", t.used),
	)
}

// Keys returns the keys of all filled entries in slot order.
func (t *Table[K, V]) Keys() []K {
	keys := make([]K, 0, t.used)
	for i := range t.slots {
		if t.slots[i].state == stateFilled {
			keys = append(keys, t.slots[i].key)
		}
	}
	return keys
}

// Values returns the values of all filled entries in slot order.
func (t *Table[K, V]) Values() []V {
	values := make([]V, 0, t.used)
	for i := range t.slots {
		if t.slots[i].state == stateFilled {
			values = append(values, t.slots[i].value)
		}
	}
	return values
}

// Items returns all filled key-value pairs in slot order.
func (t *Table[K, V]) Items() []Item[K, V] {
	items := make([]Item[K, V], 0, t.used)
	for i := range t.slots {
		if t.slots[i].state == stateFilled {
			items = append(items, Item[K, V]{Key: t.slots[i].key, Value: t.slots[i].value})
		}
	}
	return items
}

// Collisions returns the number of probe steps taken beyond initial
// indices over the table's lifetime, resize replays included.
func (t *Table[K, V]) Collisions() uint64 { return t.collisions }

// Cap returns the current slot count.
func (t *Table[K, V]) Cap() int { return len(t.slots) }

// Used returns the number of slots claimed by inserts. Tombstoned slots
// stay counted until a resize.
func (t *Table[K, V]) Used() int { return t.used }
