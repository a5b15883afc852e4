// Command sanskritparse converts Sanskrit source texts into JSONL verse
// datasets, memoizing parse results in Redis so repeated runs skip work.
//
// Usage:
//
//	sanskritparse parse --format rigveda        # parse one corpus
//	sanskritparse parse --no-cache              # parse without Redis
//	sanskritparse upload --repo-id user/name    # push JSONL to the hub
//	sanskritparse bench                         # cold vs warm cache benchmark
//	sanskritparse cache stats                   # cache statistics
//	sanskritparse cache invalidate              # clear cached entries
//	sanskritparse version                       # show version information
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rixhabh/sanskritparse/config"
)

// Version information, injected at build time.
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "parse":
		runParse(os.Args[2:])
	case "upload":
		runUpload(os.Args[2:])
	case "bench":
		runBench(os.Args[2:])
	case "cache":
		runCache(os.Args[2:])
	case "version":
		printVersion()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// loadConfig resolves the config file and builds the logger shared by every
// subcommand.
func loadConfig(path string) (*config.Config, *zap.Logger) {
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	return cfg, initLogger(cfg.Log)
}

func initLogger(cfg config.LogConfig) *zap.Logger {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var encoderConfig zapcore.EncoderConfig
	if cfg.Format == "console" {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		encoderConfig = zap.NewProductionEncoderConfig()
		encoderConfig.TimeKey = "timestamp"
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	zapConfig := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      cfg.Format == "console",
		Encoding:         cfg.Format,
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	if cfg.Format != "console" {
		zapConfig.Encoding = "json"
	}

	logger, err := zapConfig.Build()
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	return logger
}

func printVersion() {
	fmt.Printf("sanskritparse %s\n", Version)
	fmt.Printf("  Build Time: %s\n", BuildTime)
	fmt.Printf("  Git Commit: %s\n", GitCommit)
}

func printUsage() {
	fmt.Println(`sanskritparse - Sanskrit corpus parser with Redis memoization

Usage:
  sanskritparse <command> [options]

Commands:
  parse     Parse source texts into JSONL verse datasets
  upload    Push JSONL datasets to a Hugging Face repo
  bench     Compare parse throughput with and without the cache
  cache     Cache management (stats | invalidate | reset)
  version   Show version information
  help      Show this help message

Options for 'parse':
  --config <path>    Path to configuration file (YAML)
  --format <name>    Corpus to parse (default: all)
  --data-dir <path>  Directory with <corpus>.txt inputs and .jsonl outputs
  --no-cache         Skip the Redis cache entirely
  --metrics-addr <a> Serve Prometheus metrics during the run

Options for 'upload':
  --config <path>    Path to configuration file (YAML)
  --repo-id <id>     Hugging Face dataset repo, e.g. user/dataset-name
  --token <token>    HF API token (or set HF_TOKEN)

Examples:
  sanskritparse parse --format ramayana
  sanskritparse parse --data-dir ./data --metrics-addr :9091
  sanskritparse upload --repo-id rixhabh/sanskrit-literature
  sanskritparse cache invalidate`)
}
