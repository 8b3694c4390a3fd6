package store

import (
	"context"
	"fmt"
)

const listTablesSQL = `
	SELECT table_name
	FROM information_schema.tables
	WHERE table_schema = 'public'
	ORDER BY table_name;
`

const describeTableSQL = `
	SELECT column_name, data_type, is_nullable, column_default
	FROM information_schema.columns
	WHERE table_name = $1 AND table_schema = 'public'
	ORDER BY ordinal_position;
`

// ExecQuery runs caller-supplied SQL verbatim with optional positional
// string parameters. The statement is not validated; any SQL error
// surfaces to the caller.
func (s *Store) ExecQuery(ctx context.Context, sql string, params []string) ([]Row, error) {
	args := make([]any, len(params))
	for i, p := range params {
		args[i] = p
	}
	return s.query(ctx, sql, args...)
}

// ListTables returns the names of all tables in the public schema,
// alphabetically ordered.
func (s *Store) ListTables(ctx context.Context) ([]string, error) {
	pool, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx, listTablesSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	tables := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tables: %w", err)
	}
	return tables, nil
}

// DescribeTable returns one row per column of the named table, ordered by
// ordinal position. A table that does not exist yields an empty list.
func (s *Store) DescribeTable(ctx context.Context, table string) ([]Row, error) {
	return s.query(ctx, describeTableSQL, table)
}

// TableSample returns up to limit arbitrary rows from the named table. The
// identifier is validated against the live catalog before it is
// interpolated into the statement.
func (s *Store) TableSample(ctx context.Context, table string, limit int) ([]Row, error) {
	if err := s.validateTable(ctx, table); err != nil {
		return nil, err
	}
	return s.query(ctx, fmt.Sprintf("SELECT * FROM %s LIMIT $1;", table), limit)
}
