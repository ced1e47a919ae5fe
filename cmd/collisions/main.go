// Command collisions runs repeated collision-rate experiments: each trial
// draws a fresh random 128-bit secret key, inserts the same integer key
// set into one table per probe strategy, and accumulates the per-table
// collision counters. Averages over all trials are printed per strategy.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"

	"github.com/theflywheel/siptable"
)

type experiment struct {
	Trials       int      `toml:"trials"`
	Keys         int      `toml:"keys"`
	Strategies   []string `toml:"strategies"`
	CompressBits uint     `toml:"compress_bits"`
	LoadFactor   float64  `toml:"load_factor"`
}

func defaultExperiment() experiment {
	return experiment{
		Trials:     100,
		Keys:       100,
		Strategies: []string{"simple", "modified", "pythonic"},
		LoadFactor: 1.0,
	}
}

func main() {
	var (
		configPath   = flag.String("config", "", "TOML experiment file; flags override its values")
		trials       = flag.Int("trials", 0, "number of trials, each under a fresh random key")
		keys         = flag.Int("keys", 0, "number of integer keys inserted per table")
		strategies   = flag.String("strategies", "", "comma-separated probe strategies")
		compressBits = flag.Uint("compress-bits", 0, "fold hashes down to this many bits (0 disables)")
		loadFactor   = flag.Float64("load-factor", 0, "load-factor threshold in (0, 1]")
		verbose      = flag.Bool("v", false, "trace collisions and resizes")
	)
	flag.Parse()

	exp := defaultExperiment()
	if *configPath != "" {
		if _, err := toml.DecodeFile(*configPath, &exp); err != nil {
			log.Fatalf("Failed to read experiment file: %v", err)
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "trials":
			exp.Trials = *trials
		case "keys":
			exp.Keys = *keys
		case "strategies":
			exp.Strategies = strings.Split(*strategies, ",")
		case "compress-bits":
			exp.CompressBits = *compressBits
		case "load-factor":
			exp.LoadFactor = *loadFactor
		}
	})
	if exp.Trials < 1 || exp.Keys < 1 {
		log.Fatal("trials and keys must both be at least 1")
	}

	logger := zap.NewNop()
	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			log.Fatalf("Failed to build logger: %v", err)
		}
		defer l.Sync()
		logger = l
	}

	parsed := make([]siptable.ProbeStrategy, 0, len(exp.Strategies))
	for _, tag := range exp.Strategies {
		s, err := siptable.ParseProbeStrategy(strings.TrimSpace(tag))
		if err != nil {
			log.Fatalf("Bad strategy: %v", err)
		}
		parsed = append(parsed, s)
	}

	totals, err := run(exp, parsed, logger)
	if err != nil {
		log.Fatalf("Experiment failed: %v", err)
	}

	for i, s := range parsed {
		average := float64(totals[i]) / float64(exp.Trials)
		fmt.Printf("Average collisions using %s probing for %d keys over %d trials: %.2f\n",
			s, exp.Keys, exp.Trials, average)
	}
	if exp.CompressBits > 0 {
		fmt.Printf("(hashes folded to %d bits)\n", exp.CompressBits)
	}
}

// run executes all trials. Within one trial every strategy's table shares
// the same secret key, so the strategies are compared over identical hash
// values.
func run(exp experiment, strategies []siptable.ProbeStrategy, logger *zap.Logger) ([]uint64, error) {
	totals := make([]uint64, len(strategies))
	for trial := 0; trial < exp.Trials; trial++ {
		key, err := siptable.RandomKey()
		if err != nil {
			return nil, fmt.Errorf("trial %d: %w", trial, err)
		}
		for i, s := range strategies {
			tbl, err := siptable.New[int, int](
				siptable.WithSecretKey(key),
				siptable.WithProbeStrategy(s),
				siptable.WithCompressBits(exp.CompressBits),
				siptable.WithLoadFactor(exp.LoadFactor),
				siptable.WithLogger(logger),
			)
			if err != nil {
				return nil, fmt.Errorf("trial %d: %w", trial, err)
			}
			for k := 0; k < exp.Keys; k++ {
				tbl.Update(k, k*k)
			}
			totals[i] += tbl.Collisions()
		}
	}
	return totals, nil
}
