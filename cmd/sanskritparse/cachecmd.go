package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rixhabh/sanskritparse/cache"
)

func runCache(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: sanskritparse cache <stats|invalidate|reset> [options]")
		os.Exit(1)
	}
	sub := args[0]

	fs := flag.NewFlagSet("cache "+sub, flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	pattern := fs.String("pattern", cache.KeyPrefix+"*", "Key pattern for invalidate")
	fs.Parse(args[1:])

	cfg, logger := loadConfig(*configPath)
	defer logger.Sync()

	c := cache.New(cfg.Redis, logger)
	defer c.Close()

	ctx := context.Background()

	switch sub {
	case "stats":
		stats := c.Stats()
		fmt.Printf("Enabled:  %v\n", stats.Enabled)
		fmt.Printf("Hits:     %d\n", stats.Hits)
		fmt.Printf("Misses:   %d\n", stats.Misses)
		fmt.Printf("Total:    %d\n", stats.TotalRequests)
		fmt.Printf("Hit rate: %s\n", stats.HitRate)
	case "invalidate":
		n := c.Invalidate(ctx, *pattern)
		fmt.Printf("Deleted %d cache entries\n", n)
	case "reset":
		c.ResetStats()
		fmt.Println("Statistics reset")
	default:
		fmt.Fprintf(os.Stderr, "Unknown cache subcommand: %s\n", sub)
		os.Exit(1)
	}
}
