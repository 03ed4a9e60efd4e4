package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	logger "github.com/Bparsons0904/goLogger"
)

// Metadata describes the lifetime of a cached entry. An entry is fresh until
// CreatedTime+TTL, servable-but-stale until StaleWhileRevalidate past that,
// and dead afterwards.
type Metadata struct {
	CreatedTime          time.Time     `json:"createdTime"`
	TTL                  time.Duration `json:"ttl"`
	StaleWhileRevalidate time.Duration `json:"staleWhileRevalidate"`
}

func (m Metadata) FreshUntil() time.Time {
	return m.CreatedTime.Add(m.TTL)
}

func (m Metadata) StaleUntil() time.Time {
	return m.FreshUntil().Add(m.StaleWhileRevalidate)
}

// Entry is the backend-agnostic stored shape: the JSON-encoded value plus its
// lifetime metadata.
type Entry struct {
	Value    json.RawMessage `json:"value"`
	Metadata Metadata        `json:"metadata"`
}

// Cache is the pluggable backend contract. Get returns nil for a missing key,
// not an error.
type Cache interface {
	Name() string
	Get(ctx context.Context, key string) (*Entry, error)
	Set(ctx context.Context, key string, entry Entry) error
	Delete(ctx context.Context, key string) error
}

// Options drive one Cachified call.
type Options struct {
	Key                  string
	Cache                Cache
	TTL                  time.Duration
	StaleWhileRevalidate time.Duration
	// ForceFresh skips the cache read and recomputes, still writing back.
	ForceFresh bool
	// CheckValue rejects cached values that no longer match the expected
	// shape; rejected entries are treated as a miss.
	CheckValue func(json.RawMessage) bool
}

const refreshTimeout = 30 * time.Second

// inflight deduplicates background revalidations per backend+key so a burst
// of stale hits triggers a single recompute.
var inflight sync.Map

// Cachified returns the cached value for opts.Key when it is present, fresh,
// and passes CheckValue; otherwise it computes a fresh value and writes it
// back. A value past its TTL but inside the stale-while-revalidate window is
// returned immediately while a refresh runs in the background. When the fresh
// computation fails, any cached value (even one past the window) is preferred
// over the error.
func Cachified[T any](
	ctx context.Context,
	opts Options,
	getFresh func(context.Context) (T, error),
) (T, error) {
	log := logger.New("cache").Function("Cachified").With("key", opts.Key)
	var zero T
	var fallback *Entry

	if !opts.ForceFresh {
		entry, err := opts.Cache.Get(ctx, opts.Key)
		if err != nil {
			log.Warn("cache read failed", "cache", opts.Cache.Name(), "error", err)
		}
		if entry != nil && (opts.CheckValue == nil || opts.CheckValue(entry.Value)) {
			now := time.Now()
			if now.Before(entry.Metadata.FreshUntil()) {
				value, err := decode[T](entry.Value)
				if err == nil {
					return value, nil
				}
				log.Warn("failed to decode cached value", "error", err)
			} else if now.Before(entry.Metadata.StaleUntil()) {
				value, err := decode[T](entry.Value)
				if err == nil {
					scheduleRefresh(opts, getFresh)
					return value, nil
				}
				log.Warn("failed to decode stale cached value", "error", err)
			} else {
				fallback = entry
			}
		}
	}

	value, err := getFresh(ctx)
	if err != nil {
		if fallback != nil {
			stale, decodeErr := decode[T](fallback.Value)
			if decodeErr == nil {
				log.Warn("serving expired value after refresh failure", "error", err)
				return stale, nil
			}
		}
		return zero, err
	}

	if err := store(ctx, opts, value); err != nil {
		log.Warn("cache write failed", "cache", opts.Cache.Name(), "error", err)
	}

	return value, nil
}

// scheduleRefresh recomputes and stores the value without blocking the
// caller. Failures are logged only; the stale value already went out.
func scheduleRefresh[T any](opts Options, getFresh func(context.Context) (T, error)) {
	flightKey := opts.Cache.Name() + ":" + opts.Key
	if _, loaded := inflight.LoadOrStore(flightKey, struct{}{}); loaded {
		return
	}

	go func() {
		defer inflight.Delete(flightKey)
		log := logger.New("cache").Function("scheduleRefresh").With("key", opts.Key)

		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()

		value, err := getFresh(ctx)
		if err != nil {
			log.Warn("background revalidation failed", "error", err)
			return
		}

		if err := store(ctx, opts, value); err != nil {
			log.Warn("cache write failed", "cache", opts.Cache.Name(), "error", err)
		}
	}()
}

func store[T any](ctx context.Context, opts Options, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return opts.Cache.Set(ctx, opts.Key, Entry{
		Value: raw,
		Metadata: Metadata{
			CreatedTime:          time.Now(),
			TTL:                  opts.TTL,
			StaleWhileRevalidate: opts.StaleWhileRevalidate,
		},
	})
}

func decode[T any](raw json.RawMessage) (T, error) {
	var value T
	err := json.Unmarshal(raw, &value)
	return value, err
}
