// Package siptable_test provides collision-rate benchmarks for the
// open-addressing table and its hashers.
//
// This file measures:
//   - Collision counts per key for each probe strategy over the same
//     random key material
//   - The inflation factor of hash compression
//   - Hashing throughput of the keyed construction against xxHash64
package siptable_test

import (
	"fmt"
	"testing"

	"github.com/cespare/xxhash/v2"

	"github.com/theflywheel/siptable"
)

const benchKeys = 1000

// BenchmarkCollisionRates builds one table per iteration under a fresh
// random secret key, inserts benchKeys integer keys, and reports the
// average collision count per inserted key for each probe strategy.
func BenchmarkCollisionRates(b *testing.B) {
	for _, strategy := range []siptable.ProbeStrategy{
		siptable.Simple, siptable.Modified, siptable.Pythonic,
	} {
		b.Run(strategy.String(), func(b *testing.B) {
			var totalCollisions uint64
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				key, err := siptable.RandomKey()
				if err != nil {
					b.Fatalf("Failed to generate key: %v", err)
				}
				tbl, err := siptable.New[int, int](
					siptable.WithSecretKey(key),
					siptable.WithProbeStrategy(strategy),
				)
				if err != nil {
					b.Fatalf("Failed to build table: %v", err)
				}
				for k := 0; k < benchKeys; k++ {
					tbl.Update(k, k*k)
				}
				totalCollisions += tbl.Collisions()
			}
			b.StopTimer()

			perKey := float64(totalCollisions) / float64(b.N*benchKeys)
			b.ReportMetric(perKey, "collisions/key")

			metrics := CollisionMetrics{
				Name:             fmt.Sprintf("collision_rate_%s", strategy),
				Strategy:         strategy.String(),
				Keys:             benchKeys,
				Tables:           b.N,
				CollisionsPerKey: perKey,
			}
			if err := saveBenchmarkResult(metrics, "collision_rates.json"); err != nil {
				b.Logf("Failed to save benchmark results: %v", err)
			}
		})
	}
}

// BenchmarkCompressedCollisionRates repeats the pythonic-probing run with
// hashes folded to four bits, which forces heavy clustering. Comparing
// its collisions/key metric against BenchmarkCollisionRates shows how
// much headroom the full 64-bit hash provides.
func BenchmarkCompressedCollisionRates(b *testing.B) {
	var totalCollisions uint64
	for i := 0; i < b.N; i++ {
		key, err := siptable.RandomKey()
		if err != nil {
			b.Fatalf("Failed to generate key: %v", err)
		}
		tbl, err := siptable.New[int, int](
			siptable.WithSecretKey(key),
			siptable.WithProbeStrategy(siptable.Pythonic),
			siptable.WithCompressBits(4),
		)
		if err != nil {
			b.Fatalf("Failed to build table: %v", err)
		}
		for k := 0; k < benchKeys; k++ {
			tbl.Update(k, k*k)
		}
		totalCollisions += tbl.Collisions()
	}
	b.ReportMetric(float64(totalCollisions)/float64(b.N*benchKeys), "collisions/key")
}

// BenchmarkHasherThroughput compares the keyed hasher against plain
// xxHash64 over the same string keys. The keyed construction pays for its
// unbounded-precision message handling; this quantifies the gap.
func BenchmarkHasherThroughput(b *testing.B) {
	keys := make([]string, 256)
	for i := range keys {
		keys[i] = fmt.Sprintf("benchmark-key-%04d", i)
	}

	b.Run("siphash", func(b *testing.B) {
		secret, err := siptable.RandomKey()
		if err != nil {
			b.Fatalf("Failed to generate key: %v", err)
		}
		h := siptable.NewSipHasher(secret)
		b.ResetTimer()
		var sink uint64
		for i := 0; i < b.N; i++ {
			sink ^= h.Sum(keys[i%len(keys)])
		}
		_ = sink
	})

	b.Run("xxhash-baseline", func(b *testing.B) {
		var h siptable.XXHasher
		var sink uint64
		for i := 0; i < b.N; i++ {
			sink ^= h.Sum(keys[i%len(keys)])
		}
		_ = sink
	})

	b.Run("xxhash-direct", func(b *testing.B) {
		var sink uint64
		for i := 0; i < b.N; i++ {
			sink ^= xxhash.Sum64String(keys[i%len(keys)])
		}
		_ = sink
	})
}

// BenchmarkBaselineHasherTable runs the collision experiment with the
// unkeyed xxhash control arm swapped in via WithHasher.
func BenchmarkBaselineHasherTable(b *testing.B) {
	var totalCollisions uint64
	for i := 0; i < b.N; i++ {
		tbl, err := siptable.New[int, int](
			siptable.WithHasher(siptable.XXHasher{}),
			siptable.WithProbeStrategy(siptable.Pythonic),
		)
		if err != nil {
			b.Fatalf("Failed to build table: %v", err)
		}
		for k := 0; k < benchKeys; k++ {
			tbl.Update(k, k*k)
		}
		totalCollisions += tbl.Collisions()
	}
	b.ReportMetric(float64(totalCollisions)/float64(b.N*benchKeys), "collisions/key")
}
