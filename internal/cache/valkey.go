package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"
)

// Valkey is the durable tier: entries survive restarts and are shared by
// every instance, so it holds the slow-to-compute snapshots (rankings).
// Valkey's own concurrency control covers concurrent writers; this layer
// adds none. Server-side expiry is set to the end of the servable window so
// dead entries cost nothing.
type Valkey struct {
	client valkey.Client
}

func NewValkey(client valkey.Client) *Valkey {
	return &Valkey{client: client}
}

func (v *Valkey) Name() string {
	return "valkey"
}

func (v *Valkey) Get(ctx context.Context, key string) (*Entry, error) {
	data, err := v.client.Do(ctx, v.client.B().Get().Key(key).Build()).ToString()
	if err != nil {
		if isKeyNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}

	var entry Entry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		return nil, err
	}

	return &entry, nil
}

func (v *Valkey) Set(ctx context.Context, key string, entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	lifetime := entry.Metadata.TTL + entry.Metadata.StaleWhileRevalidate
	set := v.client.B().Set().Key(key).Value(string(data))
	if lifetime > 0 {
		return v.client.Do(ctx, set.Ex(lifetime).Build()).Error()
	}
	return v.client.Do(ctx, set.Build()).Error()
}

func (v *Valkey) Delete(ctx context.Context, key string) error {
	return v.client.Do(ctx, v.client.B().Del().Key(key).Build()).Error()
}

// Keys scans for cached keys matching the search substring, up to limit.
func (v *Valkey) Keys(ctx context.Context, search string, limit int) ([]string, error) {
	pattern := "*"
	if search != "" {
		pattern = "*" + search + "*"
	}

	keys := make([]string, 0, limit)
	var cursor uint64
	for {
		scanCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		result, err := v.client.Do(
			scanCtx,
			v.client.B().Scan().Cursor(cursor).Match(pattern).Count(100).Build(),
		).AsScanEntry()
		cancel()
		if err != nil {
			return nil, err
		}

		keys = append(keys, result.Elements...)
		if limit > 0 && len(keys) >= limit {
			return keys[:limit], nil
		}

		cursor = result.Cursor
		if cursor == 0 {
			return keys, nil
		}
	}
}

func isKeyNotFoundError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	return strings.Contains(errStr, "key not found") ||
		strings.Contains(errStr, "nil") ||
		valkey.IsValkeyNil(err)
}
