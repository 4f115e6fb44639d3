// Package redis implements a DataSource backed by hashes in a live Redis
// database. Every call goes to the server; nothing is cached.
package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/couchcryptid/delivery-event-generator/internal/domain"
)

// Config holds the connection parameters.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// Source reads address hashes from Redis.
type Source struct {
	client *goredis.Client
}

// New creates a Source. The connection is established lazily on first use.
func New(cfg Config) *Source {
	return &Source{client: goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})}
}

// Ping verifies the server is reachable.
func (s *Source) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Get reads every field of the hash at key. A missing key yields
// domain.ErrNotFound.
func (s *Source) Get(ctx context.Context, key string) (domain.Record, error) {
	fields, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall %s: %w", key, err)
	}
	if len(fields) == 0 {
		return nil, domain.ErrNotFound
	}
	return domain.Record(fields), nil
}

// Size returns the number of keys in the selected database.
func (s *Source) Size(ctx context.Context) (int, error) {
	n, err := s.client.DBSize(ctx).Result()
	if err != nil {
		return 0, fmt.Errorf("redis dbsize: %w", err)
	}
	return int(n), nil
}

// Put stores rec as a hash under key, replacing existing fields.
func (s *Source) Put(ctx context.Context, key string, rec domain.Record) error {
	if len(rec) == 0 {
		return nil
	}
	if err := s.client.HSet(ctx, key, hashValues(rec)).Err(); err != nil {
		return fmt.Errorf("redis hset %s: %w", key, err)
	}
	return nil
}

// Load writes records as addr:1..addr:n in a single pipelined round trip.
func (s *Source) Load(ctx context.Context, records []domain.Record) error {
	_, err := s.client.Pipelined(ctx, func(pipe goredis.Pipeliner) error {
		for i, rec := range records {
			if len(rec) == 0 {
				continue
			}
			pipe.HSet(ctx, domain.AddressKey(i+1), hashValues(rec))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis load %d records: %w", len(records), err)
	}
	return nil
}

// Flush removes every key in the selected database. Size counts all keys, so
// stray entries would skew sampling.
func (s *Source) Flush(ctx context.Context) error {
	if err := s.client.FlushDB(ctx).Err(); err != nil {
		return fmt.Errorf("redis flushdb: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Source) Close() error {
	return s.client.Close()
}

func hashValues(rec domain.Record) map[string]any {
	values := make(map[string]any, len(rec))
	for k, v := range rec {
		values[k] = v
	}
	return values
}
