package main

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rixhabh/sanskritparse/cache"
	"github.com/rixhabh/sanskritparse/dataset"
	"github.com/rixhabh/sanskritparse/internal/metrics"
	"github.com/rixhabh/sanskritparse/parser"
)

func TestSelectCorpora(t *testing.T) {
	all, err := selectCorpora("all")
	require.NoError(t, err)
	assert.Equal(t, parser.Corpora(), all)

	one, err := selectCorpora("rigveda")
	require.NoError(t, err)
	assert.Equal(t, []parser.Corpus{parser.CorpusRigveda}, one)

	_, err = selectCorpora("upanishad")
	assert.Error(t, err)
}

func TestParseCorpus_NoCache(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "rigveda.txt")
	require.NoError(t, os.WriteFile(input, []byte("अग्निमीळे पुरोहितं || 1.1.1\n\nहोतारं रत्नधातमम् || 1.1.2\n"), 0o644))

	collector := metrics.NewCollector("test")
	err := parseCorpus(context.Background(), parser.CorpusRigveda, dir, nil, collector, zap.NewNop())
	require.NoError(t, err)

	records, err := dataset.ReadFile(filepath.Join(dir, "rigveda.jsonl"))
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, "1.1.1", records[0].Position)
}

func TestParseCorpus_SecondRunHitsCache(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "rigveda.txt")
	require.NoError(t, os.WriteFile(input, []byte("होतारं रत्नधातमम् || 1.1.2\n"), 0o644))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	c := cache.New(cache.Config{Host: mr.Host(), Port: port}, zap.NewNop())
	defer c.Close()
	require.True(t, c.Enabled())

	collector := metrics.NewCollector("test")
	ctx := context.Background()

	require.NoError(t, parseCorpus(ctx, parser.CorpusRigveda, dir, c, collector, zap.NewNop()))
	require.NoError(t, parseCorpus(ctx, parser.CorpusRigveda, dir, c, collector, zap.NewNop()))

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)

	// Verse-level entries landed from the bulk write on the first run.
	var rec parser.Record
	assert.True(t, c.Get(ctx, "होतारं रत्नधातमम्", &rec))
	assert.Equal(t, "1.1.2", rec.Position)
}
