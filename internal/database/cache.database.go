package database

import (
	"context"
	"fmt"
	"time"

	"inkwell/config"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/valkey-io/valkey-go"
)

// Valkey database index organization. Each index gives logical separation to
// one cache category.
const (
	// RANKINGS_CACHE_INDEX (DB 0) - durable ranking snapshots and other
	// slow-to-compute values. Shared across instances; the source of truth
	// for the durable cache tier.
	RANKINGS_CACHE_INDEX = iota

	// EVENTS_CACHE_INDEX (DB 1) - pub/sub channel for leaderboard events
	// pushed to websocket clients.
	EVENTS_CACHE_INDEX
)

func (s *DB) initializeCacheDB(config config.Config) error {
	log := s.log.Function("initializeCacheDB")
	log.Info("initializing cache database")

	address := config.DatabaseCacheAddress
	port := config.DatabaseCachePort
	if address == "" || port == 0 {
		return log.Errorf("failed to initialize cache database", "address or port is empty")
	}

	var cacheDB Cache

	var err error
	cacheDB.Rankings, err = valkey.NewClient(
		valkey.ClientOption{
			InitAddress: []string{fmt.Sprintf("%s:%d", address, port)},
			SelectDB:    RANKINGS_CACHE_INDEX,
		},
	)
	if err != nil {
		return log.Err("failed to create rankings valkey client", err)
	}

	cacheDB.Events, err = valkey.NewClient(
		valkey.ClientOption{
			InitAddress: []string{fmt.Sprintf("%s:%d", address, port)},
			SelectDB:    EVENTS_CACHE_INDEX,
		},
	)
	if err != nil {
		return log.Err("failed to create events valkey client", err)
	}

	s.Cache = cacheDB

	if config.DatabaseCacheReset != -1 {
		go clearCacheDB(config.DatabaseCacheReset, cacheDB)
	}

	return nil
}

// FlushAllCaches empties every valkey database. Used when reseeding so stale
// rankings do not survive a fresh dataset.
func (s *DB) FlushAllCaches() error {
	log := s.log.Function("FlushAllCaches")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clients := map[string]CacheClient{
		"Rankings": s.Cache.Rankings,
		"Events":   s.Cache.Events,
	}

	for dbName, client := range clients {
		if client == nil {
			continue
		}
		if err := client.Do(ctx, client.B().Flushdb().Build()).Error(); err != nil {
			return log.Err("failed to flush cache database", err, "dbName", dbName)
		}
	}

	log.Info("Flushed all cache databases")
	return nil
}

func clearCacheDB(index int, cacheDB Cache) {
	log := logger.New("database").File("cache.database").Function("clearCacheDB")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var client CacheClient
	var dbName string

	switch index {
	case RANKINGS_CACHE_INDEX:
		client = cacheDB.Rankings
		dbName = "Rankings"
	case EVENTS_CACHE_INDEX:
		client = cacheDB.Events
		dbName = "Events"
	default:
		log.Warn("Invalid cache database index", "index", index)
		return
	}

	if err := client.Do(ctx, client.B().Flushdb().Build()).Error(); err != nil {
		log.Er("Failed to clear cache database", err, "index", index, "dbName", dbName)
		return
	}

	log.Info("Successfully cleared cache database", "index", index, "dbName", dbName)
}
