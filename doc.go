/*
Package siptable is a teaching and analysis harness for open-addressing
hash tables under a cryptographically keyed hash function.

Table places, finds and tombstones entries in a power-of-two slot array,
resizing to hold a load-factor bound. Collision resolution is pluggable:
plain linear probing, the 5i+1 variant, or perturbation-based probing
that consumes the hash five bits at a time. Every probe step past an
occupied slot feeds a per-table collision counter, so an experimenter can
swap strategies and compare collision rates over the same key set.

SipHasher supplies the hash values: a keyed 64-bit SipHash construction
(2-round compression, 4-round finalization) over messages treated as
unbounded-precision integers. The key makes collision statistics
reproducible per run and statistically independent across runs; it is not
a security boundary.

Basic usage:

	import "github.com/theflywheel/siptable"

	key, err := siptable.RandomKey()
	if err != nil {
		log.Fatal(err)
	}
	t, err := siptable.New[string, int](
		siptable.WithSecretKey(key),
		siptable.WithProbeStrategy(siptable.Pythonic),
	)
	if err != nil {
		log.Fatal(err)
	}

	t.Update("answer", 42)
	v, ok := t.Get("answer")
	fmt.Println(v, ok, t.Collisions())

Features:

  - Keyed 64-bit hashing over string, integer and identity-surrogate keys
  - Three probe strategies fixed at construction
  - Tombstone deletion that preserves probe chains
  - Automatic doubling when an insert would break the load-factor bound
  - Per-table collision counter for analysis
  - Optional hash compression to a few bits, to force collisions on demand

The table is single-threaded by design and holds no locks; callers that
share a table across goroutines must serialize every operation
externally. Everything is in-memory; nothing persists.
*/
package siptable
