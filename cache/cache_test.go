package cache

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// record mirrors the parsed-verse shape stored by callers.
type record struct {
	Quote    string `json:"quote"`
	Category string `json:"category"`
	Book     string `json:"book"`
	Position string `json:"position"`
}

func setupTestCache(t *testing.T) (*miniredis.Miniredis, *Cache) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	c := New(Config{
		Host:       mr.Host(),
		Port:       port,
		DefaultTTL: 1 * time.Minute,
	}, zap.NewNop())
	require.True(t, c.Enabled())

	return mr, c
}

// deadBackendPort reserves a free port and releases it, so connecting there
// is guaranteed to fail without racing anything that listens on a fixed port.
func deadBackendPort(t *testing.T) int {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}

func TestCache_SetGetRoundTrip(t *testing.T) {
	mr, c := setupTestCache(t)
	defer mr.Close()
	defer c.Close()

	ctx := context.Background()
	verse := "धर्मक्षेत्रे कुरुक्षेत्रे समवेता युयुत्सवः"
	want := record{
		Quote:    verse,
		Category: "Epic, Mahabharata",
		Book:     "Bhagavad Gita",
		Position: "1.1",
	}

	require.NoError(t, c.Set(ctx, verse, want, 0))

	var got record
	require.True(t, c.Get(ctx, verse, &got))
	assert.Equal(t, want, got)
}

func TestCache_GetBeforeSetIsMiss(t *testing.T) {
	mr, c := setupTestCache(t)
	defer mr.Close()
	defer c.Close()

	var got record
	assert.False(t, c.Get(context.Background(), "never stored", &got))

	stats := c.Stats()
	assert.Equal(t, uint64(0), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
}

func TestCache_DefaultTTLApplied(t *testing.T) {
	mr, c := setupTestCache(t)
	defer mr.Close()
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "verse", record{Quote: "verse"}, 0))

	assert.Equal(t, 1*time.Minute, mr.TTL(DeriveKey("verse")))
}

func TestCache_EntryExpires(t *testing.T) {
	mr, c := setupTestCache(t)
	defer mr.Close()
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "verse", record{Quote: "verse"}, 100*time.Millisecond))

	var got record
	require.True(t, c.Get(ctx, "verse", &got))

	mr.FastForward(200 * time.Millisecond)

	assert.False(t, c.Get(ctx, "verse", &got))
}

func TestCache_StatsInvariant(t *testing.T) {
	mr, c := setupTestCache(t)
	defer mr.Close()
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "cached", record{Quote: "cached"}, 0))

	var got record
	c.Get(ctx, "cached", &got)  // hit
	c.Get(ctx, "cached", &got)  // hit
	c.Get(ctx, "missing", &got) // miss

	stats := c.Stats()
	assert.True(t, stats.Enabled)
	assert.Equal(t, uint64(2), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, stats.Hits+stats.Misses, stats.TotalRequests)
	assert.Equal(t, "66.67%", stats.HitRate)
}

func TestCache_StatsEmpty(t *testing.T) {
	mr, c := setupTestCache(t)
	defer mr.Close()
	defer c.Close()

	stats := c.Stats()
	assert.Equal(t, uint64(0), stats.TotalRequests)
	assert.Equal(t, "0.00%", stats.HitRate)
}

func TestCache_ResetStatsKeepsEntries(t *testing.T) {
	mr, c := setupTestCache(t)
	defer mr.Close()
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "verse", record{Quote: "verse"}, 0))

	var got record
	require.True(t, c.Get(ctx, "verse", &got))

	c.ResetStats()

	stats := c.Stats()
	assert.Equal(t, uint64(0), stats.Hits)
	assert.Equal(t, uint64(0), stats.Misses)

	// Storage is independent of the counters.
	require.True(t, c.Get(ctx, "verse", &got))
	assert.Equal(t, uint64(1), c.Stats().Hits)
}

func TestCache_WritesDoNotTouchStats(t *testing.T) {
	mr, c := setupTestCache(t)
	defer mr.Close()
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "a", record{Quote: "a"}, 0))
	_, err := c.SetBatch(ctx, []BatchItem{{Content: "b", Value: record{Quote: "b"}}}, 0)
	require.NoError(t, err)
	c.Invalidate(ctx, "*")

	stats := c.Stats()
	assert.Equal(t, uint64(0), stats.TotalRequests)
}

func TestCache_SetBatch(t *testing.T) {
	mr, c := setupTestCache(t)
	defer mr.Close()
	defer c.Close()

	ctx := context.Background()
	items := []BatchItem{
		{Content: "verse one", Value: record{Quote: "verse one", Position: "1.1"}},
		{Content: "verse two", Value: record{Quote: "verse two", Position: "1.2"}},
		{Content: "verse three", Value: record{Quote: "verse three", Position: "1.3"}},
	}

	n, err := c.SetBatch(ctx, items, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	for _, item := range items {
		var got record
		require.True(t, c.Get(ctx, item.Content, &got))
		assert.Equal(t, item.Value, got)
	}
}

func TestCache_SetBatchEmpty(t *testing.T) {
	mr, c := setupTestCache(t)
	defer mr.Close()
	defer c.Close()

	n, err := c.SetBatch(context.Background(), nil, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestCache_SetBatchUnserializable(t *testing.T) {
	mr, c := setupTestCache(t)
	defer mr.Close()
	defer c.Close()

	items := []BatchItem{
		{Content: "ok", Value: record{Quote: "ok"}},
		{Content: "bad", Value: make(chan int)},
	}

	_, err := c.SetBatch(context.Background(), items, 0)
	assert.Error(t, err)

	// Serialization is checked before any write, so nothing was stored.
	var got record
	assert.False(t, c.Get(context.Background(), "ok", &got))
}

func TestCache_Invalidate(t *testing.T) {
	mr, c := setupTestCache(t)
	defer mr.Close()
	defer c.Close()

	ctx := context.Background()
	for _, verse := range []string{"one", "two", "three"} {
		require.NoError(t, c.Set(ctx, verse, record{Quote: verse}, 0))
	}

	n := c.Invalidate(ctx, KeyPrefix+"*")
	assert.Equal(t, 3, n)

	var got record
	for _, verse := range []string{"one", "two", "three"} {
		assert.False(t, c.Get(ctx, verse, &got))
	}
}

func TestCache_InvalidateScopedToNamespace(t *testing.T) {
	mr, c := setupTestCache(t)
	defer mr.Close()
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "mine", record{Quote: "mine"}, 0))

	// A foreign key sharing the same Redis instance must survive even a
	// bare glob.
	require.NoError(t, mr.Set("other_app:key", "untouchable"))

	n := c.Invalidate(ctx, "*")
	assert.Equal(t, 1, n)
	assert.True(t, mr.Exists("other_app:key"))
}

func TestCache_SetUnserializableValue(t *testing.T) {
	mr, c := setupTestCache(t)
	defer mr.Close()
	defer c.Close()

	err := c.Set(context.Background(), "verse", make(chan int), 0)
	assert.Error(t, err)
}

func TestCache_MalformedEntryIsMiss(t *testing.T) {
	mr, c := setupTestCache(t)
	defer mr.Close()
	defer c.Close()

	// Plant corrupted data directly under the derived key.
	require.NoError(t, mr.Set(DeriveKey("verse"), "not json at all"))

	var got record
	assert.False(t, c.Get(context.Background(), "verse", &got))
	assert.Equal(t, uint64(1), c.Stats().Misses)
}

func TestCache_UnicodeRoundTrip(t *testing.T) {
	mr, c := setupTestCache(t)
	defer mr.Close()
	defer c.Close()

	ctx := context.Background()
	verse := "ॐ भूर्भुवः स्वः तत्सवितुर्वरेण्यं भर्गो देवस्य धीमहि"
	want := record{Quote: verse, Category: "Veda, Samhita", Book: "Rigveda", Position: "3.62.10"}

	require.NoError(t, c.Set(ctx, verse, want, 0))

	var got record
	require.True(t, c.Get(ctx, verse, &got))
	assert.Equal(t, want.Quote, got.Quote)
}

func TestCache_DisabledBackend(t *testing.T) {
	c := New(Config{Host: "127.0.0.1", Port: deadBackendPort(t)}, zap.NewNop())
	defer c.Close()

	ctx := context.Background()
	assert.False(t, c.Enabled())

	// Gets are misses and still counted: the caller must recompute.
	var got record
	assert.False(t, c.Get(ctx, "verse", &got))
	assert.Equal(t, uint64(1), c.Stats().Misses)

	// Writes are silent no-ops.
	assert.NoError(t, c.Set(ctx, "verse", record{Quote: "verse"}, 0))

	n, err := c.SetBatch(ctx, []BatchItem{{Content: "verse", Value: record{}}}, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	assert.Equal(t, 0, c.Invalidate(ctx, "*"))
	assert.False(t, c.Stats().Enabled)
}

func TestCache_BackendLostAfterConnect(t *testing.T) {
	mr, c := setupTestCache(t)
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "verse", record{Quote: "verse"}, 0))

	// The backend going away mid-flight must degrade every operation,
	// not just the initial ping.
	mr.Close()
	require.True(t, c.Enabled())

	var got record
	assert.False(t, c.Get(ctx, "verse", &got))
	assert.Equal(t, uint64(1), c.Stats().Misses)

	assert.NoError(t, c.Set(ctx, "verse", record{Quote: "verse"}, 0))

	n, err := c.SetBatch(ctx, []BatchItem{{Content: "verse", Value: record{}}}, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	assert.Equal(t, 0, c.Invalidate(ctx, "*"))
}

func TestCache_DisabledSerializationStillPropagates(t *testing.T) {
	c := New(Config{Host: "127.0.0.1", Port: deadBackendPort(t)}, zap.NewNop())
	defer c.Close()

	// A bad value is a programming error regardless of backend health.
	assert.Error(t, c.Set(context.Background(), "verse", make(chan int), 0))
}

func TestCache_ConfigFromEnv(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	t.Setenv("REDIS_HOST", mr.Host())
	t.Setenv("REDIS_PORT", mr.Port())

	c := New(Config{}, zap.NewNop())
	defer c.Close()

	assert.True(t, c.Enabled())
}

func TestCache_ExplicitConfigBeatsEnv(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("REDIS_PORT", "9999")

	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	c := New(Config{Host: mr.Host(), Port: port}, zap.NewNop())
	defer c.Close()

	assert.True(t, c.Enabled())
}

func TestCache_ConcurrentGets(t *testing.T) {
	mr, c := setupTestCache(t)
	defer mr.Close()
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "shared", record{Quote: "shared"}, 0))

	const workers = 10
	done := make(chan struct{})
	for i := 0; i < workers; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			var got record
			assert.True(t, c.Get(ctx, "shared", &got))
		}()
	}
	for i := 0; i < workers; i++ {
		<-done
	}

	// No lost updates under concurrent counting.
	assert.Equal(t, uint64(workers), c.Stats().Hits)
}
