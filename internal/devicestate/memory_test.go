package devicestate

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_HSetThenHGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.HSet(ctx, "device:1", "output_protocol", "gt06"))

	v, ok, err := s.HGet(ctx, "device:1", "output_protocol")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "gt06", v)
}

func TestMemoryStore_HGetMissing(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, ok, err := s.HGet(ctx, "device:1", "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_HMGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.HSet(ctx, "device:mt02:1", "last_odometer", "100"))

	values, oks, err := s.HMGet(ctx, "device:mt02:1", "last_odometer", "last_lat", "last_lon")
	require.NoError(t, err)
	assert.Equal(t, []string{"100", "", ""}, values)
	assert.Equal(t, []bool{true, false, false}, oks)
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.HSet(ctx, "device:1", "field", "value")
			_, _, _ = s.HGet(ctx, "device:1", "field")
		}()
	}
	wg.Wait()
}
