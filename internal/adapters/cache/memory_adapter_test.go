package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dudustore/cepstore/backend/internal/domain/providers"
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
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestMemoryAdapter() (*MemoryAdapter, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	a := NewMemoryAdapter(0)
	a.now = clock.Now
	return a, clock
}

func TestMemoryAdapter_SetGet(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestMemoryAdapter()

	require.NoError(t, a.Set(ctx, "stores:nearby:v1:01001000:50:all", []byte(`[]`), 300))

	got, err := a.Get(ctx, "stores:nearby:v1:01001000:50:all")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), got)

	_, err = a.Get(ctx, "stores:nearby:v1:01001000:50:PDV")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)
}

func TestMemoryAdapter_ExpiredEntryIsNeverReturned(t *testing.T) {
	ctx := context.Background()
	a, clock := newTestMemoryAdapter()

	require.NoError(t, a.Set(ctx, "k", []byte("v"), 60))

	clock.Advance(59 * time.Second)
	_, err := a.Get(ctx, "k")
	require.NoError(t, err)

	clock.Advance(time.Second)
	_, err = a.Get(ctx, "k")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)

	exists, err := a.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryAdapter_Sweep(t *testing.T) {
	ctx := context.Background()
	a, clock := newTestMemoryAdapter()

	require.NoError(t, a.Set(ctx, "short", []byte("1"), 10))
	require.NoError(t, a.Set(ctx, "long", []byte("2"), 600))
	require.NoError(t, a.Set(ctx, "forever", []byte("3"), 0))

	clock.Advance(time.Minute)
	assert.Equal(t, 1, a.Sweep())
	assert.Equal(t, 2, a.Len())
}

func TestMemoryAdapter_SetCopiesValue(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestMemoryAdapter()

	value := []byte("abc")
	require.NoError(t, a.Set(ctx, "k", value, 60))
	value[0] = 'z'

	got, err := a.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestMemoryAdapter_Delete(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestMemoryAdapter()

	require.NoError(t, a.Set(ctx, "k", []byte("v"), 60))
	require.NoError(t, a.Delete(ctx, "k"))
	_, err := a.Get(ctx, "k")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)
}

func TestMemoryAdapter_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	a := NewMemoryAdapter(time.Millisecond)
	defer a.Close()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%4)
			for j := 0; j < 200; j++ {
				_ = a.Set(ctx, key, []byte{byte(j)}, 60)
				_, _ = a.Get(ctx, key)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 4, a.Len())
	a.Close()
	a.Close()
}
