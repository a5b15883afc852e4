package dataset

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const defaultHubURL = "https://huggingface.co"

// UploaderConfig configures the Hugging Face dataset uploader.
type UploaderConfig struct {
	// BaseURL of the hub API, overridable for tests.
	BaseURL string `yaml:"base_url" json:"base_url"`

	// Token authenticates against the hub. Falls back to the HF_TOKEN
	// environment variable.
	Token string `yaml:"token" json:"token"`

	// RequestsPerSecond throttles commit calls. Zero means 1 rps.
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
}

// Uploader pushes JSONL splits to a Hugging Face dataset repository, one
// commit per split, via the hub's NDJSON commit endpoint.
type Uploader struct {
	cfg     UploaderConfig
	client  *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewUploader creates an uploader. A missing token is allowed (public repos
// with ambient credentials) but logged once.
func NewUploader(cfg UploaderConfig, logger *zap.Logger) *Uploader {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("component", "uploader"))

	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultHubURL
	}
	if cfg.Token == "" {
		cfg.Token = os.Getenv("HF_TOKEN")
	}
	if cfg.Token == "" {
		logger.Warn("no hub token configured, upload may be rejected")
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}

	return &Uploader{
		cfg:     cfg,
		client:  &http.Client{Timeout: 60 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		logger:  logger,
	}
}

// Upload commits every split (name -> local JSONL path) to repoID under
// data/<name>.jsonl. Splits are uploaded in name order and the first failed
// commit aborts the run.
func (u *Uploader) Upload(ctx context.Context, repoID string, splits map[string]string) error {
	if repoID == "" {
		return fmt.Errorf("upload: repo id is required")
	}

	names := make([]string, 0, len(splits))
	for name := range splits {
		names = append(names, name)
	}
	sort.Strings(names)

	batchID := uuid.NewString()
	u.logger.Info("starting dataset upload",
		zap.String("repo_id", repoID),
		zap.String("batch_id", batchID),
		zap.Int("splits", len(names)),
	)

	for _, name := range names {
		if err := u.limiter.Wait(ctx); err != nil {
			return err
		}

		data, err := os.ReadFile(splits[name])
		if err != nil {
			return fmt.Errorf("read split %s: %w", name, err)
		}

		remote := path.Join("data", name+".jsonl")
		if err := u.commitFile(ctx, repoID, remote, data, batchID); err != nil {
			return fmt.Errorf("upload split %s: %w", name, err)
		}
		u.logger.Info("split uploaded",
			zap.String("split", name),
			zap.Int("bytes", len(data)),
		)
	}
	return nil
}

// commitFile performs one commit against the hub: a header line and a single
// base64-encoded file operation, as NDJSON.
func (u *Uploader) commitFile(ctx context.Context, repoID, remotePath string, data []byte, batchID string) error {
	type headerValue struct {
		Summary     string `json:"summary"`
		Description string `json:"description"`
	}
	type fileValue struct {
		Path     string `json:"path"`
		Content  string `json:"content"`
		Encoding string `json:"encoding"`
	}

	var payload bytes.Buffer
	enc := json.NewEncoder(&payload)
	lines := []map[string]any{
		{"key": "header", "value": headerValue{
			Summary: fmt.Sprintf("Upload %s (batch %s)", remotePath, batchID),
		}},
		{"key": "file", "value": fileValue{
			Path:     remotePath,
			Content:  base64.StdEncoding.EncodeToString(data),
			Encoding: "base64",
		}},
	}
	for _, line := range lines {
		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("encode commit payload: %w", err)
		}
	}

	url := fmt.Sprintf("%s/api/datasets/%s/commit/main", u.cfg.BaseURL, repoID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &payload)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-ndjson")
	if u.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+u.cfg.Token)
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return fmt.Errorf("commit request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("hub returned %d: %s", resp.StatusCode, body)
	}
	return nil
}
