// Package pg owns the shared PostgreSQL connection pool. The pool is
// opened lazily on first use and shared by every tool invocation for the
// lifetime of the process.
package pg

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultMaxConns        = 10
	defaultMinConns        = 2
	defaultMaxConnLifetime = time.Hour
	defaultMaxConnIdleTime = 30 * time.Minute
	defaultConnectTimeout  = 5 * time.Second
)

type Config struct {
	Logger *slog.Logger
	DSN    string

	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	ConnectTimeout  time.Duration
}

func (c *Config) Validate() error {
	if c.Logger == nil {
		return fmt.Errorf("logger is required")
	}
	if c.DSN == "" {
		return fmt.Errorf("dsn is required")
	}
	if c.MaxConns == 0 {
		c.MaxConns = defaultMaxConns
	}
	if c.MinConns == 0 {
		c.MinConns = defaultMinConns
	}
	if c.MaxConnLifetime == 0 {
		c.MaxConnLifetime = defaultMaxConnLifetime
	}
	if c.MaxConnIdleTime == 0 {
		c.MaxConnIdleTime = defaultMaxConnIdleTime
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = defaultConnectTimeout
	}
	return nil
}

// Pool is a lazily initialized singleton around *pgxpool.Pool. Creation
// happens under a mutex so concurrent first use opens exactly one pool.
type Pool struct {
	log *slog.Logger
	cfg Config

	mu   sync.Mutex
	pool *pgxpool.Pool
}

func New(cfg Config) (*Pool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate pool config: %w", err)
	}
	return &Pool{
		log: cfg.Logger,
		cfg: cfg,
	}, nil
}

// Acquire returns the shared pool, opening and pinging it on first use.
// A failed open stores nothing, so the next call attempts a fresh open;
// there is no retry or backoff within a single call.
func (p *Pool) Acquire(ctx context.Context) (*pgxpool.Pool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pool != nil {
		return p.pool, nil
	}

	poolCfg, err := pgxpool.ParseConfig(p.cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres config: %w", err)
	}
	poolCfg.MaxConns = p.cfg.MaxConns
	poolCfg.MinConns = p.cfg.MinConns
	poolCfg.MaxConnLifetime = p.cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = p.cfg.MaxConnIdleTime

	connectCtx, cancel := context.WithTimeout(ctx, p.cfg.ConnectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	if err != nil {
		p.log.Error("pg: failed to create postgres pool", "error", err)
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		p.log.Error("pg: failed to ping postgres", "error", err)
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	p.log.Info("pg: connected to postgres database")
	p.pool = pool
	return p.pool, nil
}

// Open reports whether the pool has been created.
func (p *Pool) Open() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pool != nil
}

// Close releases the pool if one was opened. Safe to call more than once,
// or before the pool was ever opened.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pool != nil {
		p.pool.Close()
		p.pool = nil
	}
}
