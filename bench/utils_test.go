package siptable_test

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// CollisionMetrics captures one benchmark configuration's outcome.
type CollisionMetrics struct {
	Name             string  `json:"name"`
	Strategy         string  `json:"strategy"`
	Keys             int     `json:"keys"`
	Tables           int     `json:"tables"`
	CollisionsPerKey float64 `json:"collisions_per_key"`
	NsPerOp          float64 `json:"ns_per_op,omitempty"`
}

// BenchmarkSummary collects all results of one benchmark run.
type BenchmarkSummary struct {
	Timestamp string             `json:"timestamp"`
	GoVersion string             `json:"go_version"`
	Results   []CollisionMetrics `json:"results"`
}

// saveBenchmarkResult appends a result to the JSON history file in
// benchmark_history/ next to the bench directory.
func saveBenchmarkResult(metrics CollisionMetrics, resultsFile string) error {
	currentDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %v", err)
	}
	benchmarkDir := filepath.Join(filepath.Dir(currentDir), "benchmark_history")
	if err := os.MkdirAll(benchmarkDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %v", err)
	}

	summary := BenchmarkSummary{
		Timestamp: time.Now().Format(time.RFC3339),
		GoVersion: runtime.Version(),
		Results:   []CollisionMetrics{metrics},
	}

	// Merge with existing results if available
	latestFile := filepath.Join(benchmarkDir, resultsFile)
	if existingData, err := os.ReadFile(latestFile); err == nil {
		var existing BenchmarkSummary
		if err := json.Unmarshal(existingData, &existing); err == nil {
			summary.Results = append(existing.Results, metrics)
		}
	}

	jsonData, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %v", err)
	}
	if err := os.WriteFile(latestFile, jsonData, 0644); err != nil {
		return fmt.Errorf("error writing file: %v", err)
	}

	fmt.Printf("Benchmark results saved to: %s\n", latestFile)
	return nil
}
