package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_RoundTrip(t *testing.T) {
	memory, err := NewMemory(8)
	require.NoError(t, err)

	entry := Entry{
		Value: []byte(`"value"`),
		Metadata: Metadata{
			CreatedTime:          time.Now(),
			TTL:                  time.Minute,
			StaleWhileRevalidate: time.Hour,
		},
	}

	require.NoError(t, memory.Set(context.Background(), "key", entry))

	got, err := memory.Get(context.Background(), "key")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entry.Value, got.Value)

	require.NoError(t, memory.Delete(context.Background(), "key"))
	got, err = memory.Get(context.Background(), "key")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemory_DropsDeadEntries(t *testing.T) {
	memory, err := NewMemory(8)
	require.NoError(t, err)

	entry := Entry{
		Value: []byte(`"value"`),
		Metadata: Metadata{
			CreatedTime:          time.Now().Add(-2 * time.Hour),
			TTL:                  time.Minute,
			StaleWhileRevalidate: time.Minute,
		},
	}
	require.NoError(t, memory.Set(context.Background(), "dead", entry))

	got, err := memory.Get(context.Background(), "dead")
	require.NoError(t, err)
	assert.Nil(t, got, "entries past the stale window read as a miss")
}

func TestMemory_Keys(t *testing.T) {
	memory, err := NewMemory(8)
	require.NoError(t, err)

	entry := Entry{Metadata: Metadata{CreatedTime: time.Now(), TTL: time.Hour}}
	for _, key := range []string{"blog:rankings", "blog:a:rankings", "total-post-reads:a"} {
		require.NoError(t, memory.Set(context.Background(), key, entry))
	}

	assert.Len(t, memory.Keys("", 0), 3)
	assert.Len(t, memory.Keys("rankings", 0), 2)
	assert.Len(t, memory.Keys("", 1), 1)
	assert.Empty(t, memory.Keys("missing", 0))
}
