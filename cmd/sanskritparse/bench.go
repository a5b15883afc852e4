package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rixhabh/sanskritparse/cache"
	"github.com/rixhabh/sanskritparse/parser"
)

// simulateParse stands in for real corpus parsing: a fixed processing delay
// plus some string work, matching what the per-verse path costs.
func simulateParse(delay time.Duration) cache.ParseFunc[parser.Record] {
	return func(ctx context.Context, text string) (parser.Record, error) {
		time.Sleep(delay)
		return parser.Record{
			Quote:    strings.Join(strings.Fields(text), " "),
			Category: "Benchmark",
			Book:     "Test",
			Position: "1.1",
		}, nil
	}
}

func runBench(args []string) {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	verses := fs.Int("verses", 100, "Number of synthetic verses")
	iterations := fs.Int("iterations", 3, "Passes over the verse set")
	delay := fs.Duration("delay", time.Millisecond, "Simulated parse time per verse")
	fs.Parse(args)

	cfg, logger := loadConfig(*configPath)
	defer logger.Sync()

	corpus := make([]string, *verses)
	for i := range corpus {
		corpus[i] = fmt.Sprintf("श्लोकः सङ्ख्या %d तपःस्वाध्यायनिरतं तपस्वी", i)
	}

	parse := simulateParse(*delay)
	ctx := context.Background()

	// Baseline: every pass pays the full parse cost.
	start := time.Now()
	for i := 0; i < *iterations; i++ {
		for _, verse := range corpus {
			if _, err := parse(ctx, verse); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		}
	}
	baseline := time.Since(start)
	ops := *verses * *iterations
	report("WITHOUT CACHE", baseline, ops)

	c := cache.New(cfg.Redis, logger)
	defer c.Close()
	if !c.Enabled() {
		fmt.Println("\nRedis not available, skipping cached benchmark.")
		return
	}

	// Clean slate so the first pass is all misses.
	c.Invalidate(ctx, cache.KeyPrefix+"*")
	c.ResetStats()

	memoized := cache.Wrap(c, parse)

	start = time.Now()
	for i := 0; i < *iterations; i++ {
		for _, verse := range corpus {
			if _, err := memoized(ctx, verse); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		}
	}
	withCache := time.Since(start)
	report("WITH CACHE", withCache, ops)

	stats := c.Stats()
	fmt.Printf("\nCache statistics:\n")
	fmt.Printf("  Hits:     %d\n", stats.Hits)
	fmt.Printf("  Misses:   %d\n", stats.Misses)
	fmt.Printf("  Hit rate: %s\n", stats.HitRate)
	if withCache > 0 {
		fmt.Printf("\nSpeedup: %.1fx\n", float64(baseline)/float64(withCache))
	}
}

func report(label string, elapsed time.Duration, ops int) {
	fmt.Printf("\nBenchmark: %s\n", label)
	fmt.Printf("  Total time:     %v\n", elapsed.Round(time.Millisecond))
	fmt.Printf("  Operations:     %d\n", ops)
	if ops <= 0 {
		return
	}
	fmt.Printf("  Avg/operation:  %v\n", (elapsed / time.Duration(ops)).Round(time.Microsecond))
	fmt.Printf("  Ops/second:     %.1f\n", float64(ops)/elapsed.Seconds())
}
