// Package postgres implements a DataSource over a relational address table.
// Row ids map onto the "addr:<n>" key space.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/couchcryptid/delivery-event-generator/internal/domain"
)

// Config holds the connection string and table to read from.
type Config struct {
	DSN   string
	Table string
}

// querier is the subset of *pgxpool.Pool used by Source.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Source reads address rows live from PostgreSQL.
type Source struct {
	db       querier
	pool     *pgxpool.Pool
	getSQL   string
	countSQL string
}

// New connects a pool for cfg.DSN and verifies it with a ping.
func New(ctx context.Context, cfg Config) (*Source, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	s := newSource(pool, cfg.Table)
	s.pool = pool
	return s, nil
}

func newSource(db querier, table string) *Source {
	ident := pgx.Identifier{table}.Sanitize()
	return &Source{
		db: db,
		getSQL: `SELECT
			COALESCE(province_name, ''), COALESCE(district_name, ''), COALESCE(township, ''),
			COALESCE(road_name, ''), COALESCE(full_address, ''),
			COALESCE(latitude::text, ''), COALESCE(longitude::text, '')
		FROM ` + ident + ` WHERE id = $1`,
		countSQL: `SELECT count(*) FROM ` + ident,
	}
}

// Get selects the row whose id matches the key's row number. Keys outside the
// "addr:<n>" space and absent rows yield domain.ErrNotFound.
func (s *Source) Get(ctx context.Context, key string) (domain.Record, error) {
	id, ok := domain.ParseAddressKey(key)
	if !ok {
		return nil, domain.ErrNotFound
	}

	var province, district, township, road, full, lat, lon string
	err := s.db.QueryRow(ctx, s.getSQL, id).Scan(&province, &district, &township, &road, &full, &lat, &lon)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres get %s: %w", key, err)
	}

	return domain.Record{
		domain.FieldProvinceName: province,
		domain.FieldDistrictName: district,
		domain.FieldTownship:     township,
		domain.FieldRoadName:     road,
		domain.FieldFullAddress:  full,
		domain.FieldLatitude:     lat,
		domain.FieldLongitude:    lon,
	}, nil
}

// Size counts the rows in the table.
func (s *Source) Size(ctx context.Context) (int, error) {
	var n int64
	if err := s.db.QueryRow(ctx, s.countSQL).Scan(&n); err != nil {
		return 0, fmt.Errorf("postgres count: %w", err)
	}
	return int(n), nil
}

// Close releases the pool. It is a no-op for sources built without one.
func (s *Source) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
