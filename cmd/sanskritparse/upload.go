package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/rixhabh/sanskritparse/dataset"
	"github.com/rixhabh/sanskritparse/parser"
)

func runUpload(args []string) {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	repoID := fs.String("repo-id", "", "Hugging Face dataset repo ID")
	token := fs.String("token", "", "HF API token (or set HF_TOKEN)")
	dataDir := fs.String("data-dir", "", "Directory with <corpus>.jsonl files")
	fs.Parse(args)

	cfg, logger := loadConfig(*configPath)
	defer logger.Sync()

	repo := cfg.Dataset.RepoID
	if *repoID != "" {
		repo = *repoID
	}
	tok := cfg.Dataset.Token
	if *token != "" {
		tok = *token
	}
	dir := cfg.Dataset.Dir
	if *dataDir != "" {
		dir = *dataDir
	}

	// Only existing splits are pushed; a corpus that was never parsed is
	// reported and skipped.
	splits := make(map[string]string)
	for _, corpus := range parser.Corpora() {
		path := filepath.Join(dir, string(corpus)+".jsonl")
		if _, err := os.Stat(path); err != nil {
			logger.Warn("split missing, skipping", zap.String("corpus", string(corpus)))
			continue
		}
		splits[string(corpus)] = path
	}
	if len(splits) == 0 {
		fmt.Fprintf(os.Stderr, "No JSONL files found in %s; run 'sanskritparse parse' first\n", dir)
		os.Exit(1)
	}

	uploader := dataset.NewUploader(dataset.UploaderConfig{Token: tok}, logger)
	if err := uploader.Upload(context.Background(), repo, splits); err != nil {
		logger.Error("upload failed", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("dataset uploaded", zap.String("repo_id", repo), zap.Int("splits", len(splits)))
}
