package cache

import (
	"context"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Memory is the fast per-process tier: a bounded LRU holding entries for
// values that change often or are cheap to recompute. It is not shared
// between instances; staleness across processes is accepted.
type Memory struct {
	entries *lru.Cache[string, Entry]
}

func NewMemory(size int) (*Memory, error) {
	entries, err := lru.New[string, Entry](size)
	if err != nil {
		return nil, err
	}
	return &Memory{entries: entries}, nil
}

func (m *Memory) Name() string {
	return "memory"
}

func (m *Memory) Get(_ context.Context, key string) (*Entry, error) {
	entry, ok := m.entries.Get(key)
	if !ok {
		return nil, nil
	}

	// Size limits alone would let dead entries linger; drop anything past
	// its servable window on the way out.
	if time.Now().After(entry.Metadata.StaleUntil()) {
		m.entries.Remove(key)
		return nil, nil
	}

	return &entry, nil
}

func (m *Memory) Set(_ context.Context, key string, entry Entry) error {
	m.entries.Add(key, entry)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.entries.Remove(key)
	return nil
}

// Keys lists the cached keys, newest last, optionally filtered by substring.
func (m *Memory) Keys(search string, limit int) []string {
	keys := make([]string, 0, limit)
	for _, key := range m.entries.Keys() {
		if search != "" && !strings.Contains(key, search) {
			continue
		}
		keys = append(keys, key)
		if limit > 0 && len(keys) >= limit {
			break
		}
	}
	return keys
}
