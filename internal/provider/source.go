package provider

import (
	"context"
	"fmt"

	"github.com/couchcryptid/delivery-event-generator/internal/adapter/csvfile"
	"github.com/couchcryptid/delivery-event-generator/internal/adapter/postgres"
	"github.com/couchcryptid/delivery-event-generator/internal/adapter/redis"
	"github.com/couchcryptid/delivery-event-generator/internal/config"
	"github.com/couchcryptid/delivery-event-generator/internal/domain"
)

// SourceConfig carries the settings for exactly one data source kind. Only
// the block matching Kind is read.
type SourceConfig struct {
	Kind     SourceKind
	CSVPath  string
	Redis    redis.Config
	Postgres postgres.Config
}

// SourceConfigFrom translates environment configuration.
func SourceConfigFrom(cfg *config.Config) (SourceConfig, error) {
	kind, err := ParseSourceKind(cfg.DataSource)
	if err != nil {
		return SourceConfig{}, err
	}
	return SourceConfig{
		Kind:    kind,
		CSVPath: cfg.AddressFile,
		Redis: redis.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		},
		Postgres: postgres.Config{
			DSN:   cfg.PostgresDSN,
			Table: cfg.PostgresTable,
		},
	}, nil
}

// NewDataSource constructs the source named by sc.Kind. On error nothing is
// returned and nothing is left open.
func NewDataSource(ctx context.Context, sc SourceConfig) (domain.DataSource, error) {
	switch sc.Kind {
	case SourceCSV:
		src, err := csvfile.Open(sc.CSVPath)
		if err != nil {
			return nil, err
		}
		return src, nil
	case SourceRedis:
		src := redis.New(sc.Redis)
		if err := src.Ping(ctx); err != nil {
			src.Close() //nolint:errcheck // ping error takes precedence
			return nil, err
		}
		return src, nil
	case SourcePostgres:
		src, err := postgres.New(ctx, sc.Postgres)
		if err != nil {
			return nil, err
		}
		return src, nil
	default:
		_, err := ParseSourceKind(string(sc.Kind))
		return nil, fmt.Errorf("new data source: %w", err)
	}
}
