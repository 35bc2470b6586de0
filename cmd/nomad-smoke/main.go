// README: Smoke runner for a deployed planner; exercises the UI routes, stores and backend, then prints results.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"
)

func main() {
	cfg := loadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	runner, err := NewRunner(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	results := runner.RunAll(ctx)

	fmt.Println("\n== Summary ==")
	pass, fail, skipped := 0, 0, 0
	for _, r := range results {
		switch r.Status {
		case StatusPass:
			pass++
		case StatusFail:
			fail++
		case StatusSkip:
			skipped++
		}
	}
	fmt.Printf("PASS=%d FAIL=%d SKIP=%d\n", pass, fail, skipped)

	if fail > 0 || (cfg.Strict && skipped > 0) {
		os.Exit(1)
	}
}

type Config struct {
	BaseURL     string
	APIURL      string
	DSN         string
	RedisAddr   string
	Submit      bool
	Strict      bool
	Timeout     time.Duration
	Concurrency int
	Duration    time.Duration
}

func loadConfig() Config {
	var cfg Config
	flag.StringVar(&cfg.BaseURL, "base-url", envOrDefault("NOMAD_SMOKE_BASE_URL", "http://localhost:3000"), "planner UI base URL")
	flag.StringVar(&cfg.APIURL, "api-url", os.Getenv("NOMAD_API_URL"), "itinerary backend URL (empty skips direct backend checks)")
	flag.StringVar(&cfg.DSN, "dsn", os.Getenv("NOMAD_DB_DSN"), "Postgres DSN (empty skips)")
	flag.StringVar(&cfg.RedisAddr, "redis", os.Getenv("NOMAD_REDIS_ADDR"), "Redis address (empty skips)")
	flag.BoolVar(&cfg.Submit, "submit", envOrDefaultBool("NOMAD_SMOKE_SUBMIT", false), "submit a trip through the UI (calls the real backend)")
	flag.BoolVar(&cfg.Strict, "strict", envOrDefaultBool("NOMAD_SMOKE_STRICT", false), "fail on skipped checks")
	flag.DurationVar(&cfg.Timeout, "timeout", envOrDefaultDuration("NOMAD_SMOKE_TIMEOUT", 2*time.Minute), "total timeout")
	flag.IntVar(&cfg.Concurrency, "concurrency", envOrDefaultInt("NOMAD_SMOKE_CONCURRENCY", 10), "concurrency for the load check")
	flag.DurationVar(&cfg.Duration, "duration", envOrDefaultDuration("NOMAD_SMOKE_DURATION", 5*time.Second), "duration for the load check")
	flag.Parse()
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	return cfg
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		v = strings.ToLower(v)
		return v == "1" || v == "true" || v == "yes"
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var n int
		_, _ = fmt.Sscanf(v, "%d", &n)
		if n > 0 {
			return n
		}
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
