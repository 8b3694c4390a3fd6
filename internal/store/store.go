// Package store is the query layer over the USDA nutrition database. Each
// method issues exactly one parameterized statement through the shared
// pool and flattens the result set into ordered row maps.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/HemantaPatil/mcp-postgres/internal/pg"
)

const (
	defaultCatalogTTL = time.Minute

	tableCatalogCacheKey = "tables"
)

type Config struct {
	Logger *slog.Logger
	Pool   *pg.Pool

	// CatalogTTL bounds how long the live table catalog is reused for
	// identifier validation. Query results are never cached.
	CatalogTTL time.Duration
}

func (c *Config) Validate() error {
	if c.Logger == nil {
		return fmt.Errorf("logger is required")
	}
	if c.Pool == nil {
		return fmt.Errorf("pool is required")
	}
	if c.CatalogTTL == 0 {
		c.CatalogTTL = defaultCatalogTTL
	}
	return nil
}

type Store struct {
	log  *slog.Logger
	cfg  Config
	pool *pg.Pool

	catalog *ttlcache.Cache[string, map[string]struct{}]
}

func New(cfg Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate store config: %w", err)
	}
	catalog := ttlcache.New(
		ttlcache.WithTTL[string, map[string]struct{}](cfg.CatalogTTL),
	)
	return &Store{
		log:     cfg.Logger,
		cfg:     cfg,
		pool:    cfg.Pool,
		catalog: catalog,
	}, nil
}

// query acquires the shared pool, runs one statement and flattens the
// result set. The pooled connection is released on every exit path by
// rows.Close.
func (s *Store) query(ctx context.Context, sql string, args ...any) ([]Row, error) {
	pool, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	return collectRows(rows)
}

// validateTable checks an identifier against the live table catalog before
// it is interpolated into statement text. Identifiers cannot be bound
// positionally, so anything not found verbatim in the catalog is rejected.
func (s *Store) validateTable(ctx context.Context, table string) error {
	names, err := s.tableCatalog(ctx)
	if err != nil {
		return err
	}
	if _, ok := names[table]; !ok {
		return fmt.Errorf("relation %q is not in the database catalog", table)
	}
	return nil
}

func (s *Store) tableCatalog(ctx context.Context) (map[string]struct{}, error) {
	if item := s.catalog.Get(tableCatalogCacheKey); item != nil {
		return item.Value(), nil
	}

	tables, err := s.ListTables(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]struct{}, len(tables))
	for _, table := range tables {
		names[table] = struct{}{}
	}
	s.catalog.Set(tableCatalogCacheKey, names, ttlcache.DefaultTTL)
	return names, nil
}
