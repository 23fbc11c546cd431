package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/quantmind-br/gtraverse-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestMemory_GetPut(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)

	_, ok := m.Get(ctx, "o:r")
	assert.False(t, ok)

	value := domain.NewResult("A.java", "a")
	require.NoError(t, m.Put(ctx, "o:r", value))

	got, ok := m.Get(ctx, "o:r")
	require.True(t, ok)
	assert.Same(t, value, got)
}

func TestMemory_PutOverwrites(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)

	require.NoError(t, m.Put(ctx, "o:r", domain.NewResult("a", "1")))
	require.NoError(t, m.Put(ctx, "o:r", domain.NewResult("b", "2")))

	got, ok := m.Get(ctx, "o:r")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"b": "2"}, got.ToMap())
}

func TestMemory_LazyExpiry(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := NewMemory(10*time.Minute, WithClock(clock.Now))

	require.NoError(t, m.Put(ctx, "o:r", domain.NewResult("a", "1")))

	clock.Advance(10 * time.Minute)
	_, ok := m.Get(ctx, "o:r")
	assert.True(t, ok, "entry exactly at the ttl boundary is still valid")

	clock.Advance(time.Nanosecond)
	assert.Equal(t, 1, m.Len())
	_, ok = m.Get(ctx, "o:r")
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len(), "expired entry is dropped on touch")
}

func TestMemory_PutResetsWriteTime(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Now()}
	m := NewMemory(time.Minute, WithClock(clock.Now))

	require.NoError(t, m.Put(ctx, "k", domain.NewResult()))
	clock.Advance(50 * time.Second)
	require.NoError(t, m.Put(ctx, "k", domain.NewResult()))
	clock.Advance(50 * time.Second)

	_, ok := m.Get(ctx, "k")
	assert.True(t, ok)
}

func TestMemory_DeleteAndClose(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)
	assert.Equal(t, DefaultTTL, m.TTL())

	require.NoError(t, m.Put(ctx, "a", domain.NewResult()))
	require.NoError(t, m.Put(ctx, "b", domain.NewResult()))
	require.NoError(t, m.Delete(ctx, "a"))
	assert.Equal(t, 1, m.Len())

	require.NoError(t, m.Close())
	assert.Equal(t, 0, m.Len())
}

func TestMemory_Concurrent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = m.Put(ctx, "o:r", domain.NewResult("f", "v"))
		}()
		go func() {
			defer wg.Done()
			_, _ = m.Get(ctx, "o:r")
		}()
	}
	wg.Wait()

	_, ok := m.Get(ctx, "o:r")
	assert.True(t, ok)
}

func TestStorageKey(t *testing.T) {
	assert.Equal(t, "gtraverse:repo:o:r", storageKey("o:r"))
}
