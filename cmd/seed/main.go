// Command seed loads the address CSV into Redis as addr:<n> hashes so the
// generator can run with DATA_SOURCE=redis.
//
// Usage:
//
//	go run ./cmd/seed -csv files/addr_data.csv -flush
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/couchcryptid/delivery-event-generator/internal/adapter/csvfile"
	"github.com/couchcryptid/delivery-event-generator/internal/adapter/redis"
	"github.com/couchcryptid/delivery-event-generator/internal/config"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	csvPath := flag.String("csv", cfg.AddressFile, "address CSV to load")
	addr := flag.String("redis-addr", cfg.RedisAddr, "redis host:port")
	db := flag.Int("redis-db", cfg.RedisDB, "redis database number")
	flush := flag.Bool("flush", false, "remove all keys in the database before loading")
	flag.Parse()

	src, err := csvfile.Open(*csvPath)
	if err != nil {
		return err
	}
	records := src.Records()
	if len(records) == 0 {
		return fmt.Errorf("%s: no data rows", *csvPath)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store := redis.New(redis.Config{Addr: *addr, Password: cfg.RedisPassword, DB: *db})
	defer store.Close()

	if err := store.Ping(ctx); err != nil {
		return err
	}
	if *flush {
		if err := store.Flush(ctx); err != nil {
			return err
		}
		log.Printf("flushed redis db %d", *db)
	}
	if err := store.Load(ctx, records); err != nil {
		return err
	}

	n, err := store.Size(ctx)
	if err != nil {
		return err
	}
	log.Printf("loaded %d records from %s into %s (db %d now holds %d keys)", len(records), *csvPath, *addr, *db, n)
	if n != len(records) {
		log.Printf("warning: key count differs from row count; sampling draws from all %d keys", n)
	}
	return nil
}
