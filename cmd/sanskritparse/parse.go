package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rixhabh/sanskritparse/cache"
	"github.com/rixhabh/sanskritparse/dataset"
	"github.com/rixhabh/sanskritparse/internal/metrics"
	"github.com/rixhabh/sanskritparse/parser"
)

func runParse(args []string) {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	format := fs.String("format", "all", "Corpus to parse, or 'all'")
	dataDir := fs.String("data-dir", "", "Directory with <corpus>.txt inputs")
	noCache := fs.Bool("no-cache", false, "Skip the Redis cache entirely")
	metricsAddr := fs.String("metrics-addr", "", "Address to serve Prometheus metrics on")
	fs.Parse(args)

	cfg, logger := loadConfig(*configPath)
	defer logger.Sync()

	dir := cfg.Dataset.Dir
	if *dataDir != "" {
		dir = *dataDir
	}

	corpora, err := selectCorpora(*format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	collector := metrics.NewCollector("sanskritparse")
	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", collector.Handler())
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				logger.Warn("metrics server stopped", zap.Error(err))
			}
		}()
	}

	// --no-cache means the cache is never constructed, not merely bypassed.
	var c *cache.Cache
	if !*noCache {
		c = cache.New(cfg.Redis, logger)
		defer c.Close()
		collector.SetCacheEnabled(c.Enabled())
	}

	ctx := context.Background()
	g, ctx := errgroup.WithContext(ctx)

	for _, corpus := range corpora {
		corpus := corpus
		g.Go(func() error {
			return parseCorpus(ctx, corpus, dir, c, collector, logger)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("parse run failed", zap.Error(err))
		os.Exit(1)
	}

	if c != nil {
		stats := c.Stats()
		logger.Info("parse run complete",
			zap.Bool("cache_enabled", stats.Enabled),
			zap.Uint64("cache_hits", stats.Hits),
			zap.Uint64("cache_misses", stats.Misses),
			zap.String("hit_rate", stats.HitRate),
		)
	} else {
		logger.Info("parse run complete", zap.Bool("cache_enabled", false))
	}
}

// parseCorpus converts one corpus file to JSONL. With a cache present, the
// whole parse result is memoized on the source file's content, and the
// individual verse records are bulk-cached so verse-level lookups hit too.
func parseCorpus(ctx context.Context, corpus parser.Corpus, dir string, c *cache.Cache, collector *metrics.Collector, logger *zap.Logger) error {
	input := filepath.Join(dir, string(corpus)+".txt")
	output := filepath.Join(dir, string(corpus)+".jsonl")

	raw, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}
	content := string(raw)

	start := time.Now()

	var records []parser.Record
	cached := c != nil && c.Get(ctx, content, &records)
	if cached {
		collector.RecordCacheHit(string(corpus))
	} else {
		if records, err = parser.Parse(corpus, content); err != nil {
			return err
		}
		collector.RecordCacheMiss(string(corpus))

		if c != nil {
			if err := c.Set(ctx, content, records, 0); err != nil {
				return err
			}
			items := make([]cache.BatchItem, len(records))
			for i, rec := range records {
				items[i] = cache.BatchItem{Content: rec.Quote, Value: rec}
			}
			if _, err := c.SetBatch(ctx, items, 0); err != nil {
				return err
			}
		}
	}

	elapsed := time.Since(start)
	collector.ObserveParse(string(corpus), elapsed, len(records))

	if err := dataset.WriteFile(output, records); err != nil {
		return err
	}

	logger.Info("corpus parsed",
		zap.String("corpus", string(corpus)),
		zap.Int("verses", len(records)),
		zap.Bool("from_cache", cached),
		zap.Duration("elapsed", elapsed),
		zap.String("output", output),
	)
	return nil
}

func selectCorpora(format string) ([]parser.Corpus, error) {
	if format == "all" || format == "" {
		return parser.Corpora(), nil
	}
	corpus := parser.Corpus(format)
	if _, err := parser.Parse(corpus, ""); err != nil {
		return nil, fmt.Errorf("unknown format %q (supported: %v)", format, parser.Corpora())
	}
	return []parser.Corpus{corpus}, nil
}
