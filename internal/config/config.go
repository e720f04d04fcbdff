package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// Config holds the tunable settings for the advisor, the benchmark engine
// and the HTTP server. Components receive value copies of their section at
// construction; nothing reads the active config afterwards.
type Config struct {
	Advisor   AdvisorConfig   `json:"advisor"`
	Benchmark BenchmarkConfig `json:"benchmark"`
	Server    ServerConfig    `json:"server"`
}

// AdvisorConfig defines the thresholds and toggles of the rule engine.
type AdvisorConfig struct {
	// ExpensiveCostThreshold is the planner cost above which scans and
	// joins are flagged.
	ExpensiveCostThreshold float64 `json:"expensive_cost_threshold"`
	// LargeScanThreshold is the actual row count above which nested loops
	// and sorts are flagged.
	LargeScanThreshold uint64 `json:"large_scan_threshold"`
	EnableIndexRules   bool   `json:"enable_index_rules"`
	EnableRewriteRules bool   `json:"enable_rewrite_rules"`
}

// BenchmarkConfig defines how queries are benchmarked.
type BenchmarkConfig struct {
	// WarmupRuns are executed first and excluded from statistics.
	WarmupRuns int `json:"warmup_runs"`
	// BenchmarkRuns is the number of measured iterations.
	BenchmarkRuns int `json:"benchmark_runs"`
	// Timeout bounds a single plan-source call; zero disables it.
	Timeout time.Duration `json:"timeout"`
	// IncludePlans retains the parsed plan of every successful run.
	IncludePlans bool `json:"include_plans"`
	// IncludeAdvisorAnalysis runs the advisor on each retained plan.
	IncludeAdvisorAnalysis bool `json:"include_advisor_analysis"`
}

// Validate rejects configurations the benchmark engine cannot execute.
func (c BenchmarkConfig) Validate() error {
	if c.BenchmarkRuns < 1 {
		return fmt.Errorf("benchmark config: benchmark_runs must be >= 1, got %d", c.BenchmarkRuns)
	}
	if c.WarmupRuns < 0 {
		return fmt.Errorf("benchmark config: warmup_runs must be >= 0, got %d", c.WarmupRuns)
	}
	return nil
}

// ServerConfig defines the HTTP listen address.
type ServerConfig struct {
	Addr string `json:"addr"`
}

var (
	mu     sync.RWMutex
	active = Default()
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Advisor: AdvisorConfig{
			ExpensiveCostThreshold: 1000,
			LargeScanThreshold:     10000,
			EnableIndexRules:       true,
			EnableRewriteRules:     true,
		},
		Benchmark: BenchmarkConfig{
			WarmupRuns:             2,
			BenchmarkRuns:          5,
			Timeout:                30 * time.Second,
			IncludePlans:           true,
			IncludeAdvisorAnalysis: true,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Active returns the currently applied configuration.
func Active() Config {
	mu.RLock()
	defer mu.RUnlock()
	return active
}

// Use replaces the active configuration.
func Use(cfg Config) {
	mu.Lock()
	active = cfg
	mu.Unlock()
}

// Apply loads configuration from the provided path (JSON). Empty path resets
// to the defaults.
func Apply(path string) error {
	if path == "" {
		Use(Default())
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Benchmark.Validate(); err != nil {
		return err
	}
	Use(cfg)
	return nil
}
